package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"notesapp/internal/client/api"
	"notesapp/internal/client/config"
	"notesapp/internal/client/render"
	"notesapp/internal/client/resilience"
	"notesapp/internal/client/state"
	"notesapp/pkg/logger"
)

const annotationSkipProbe = "skipProbe"

// ErrConnection возвращается, когда API недоступен после всех попыток.
var ErrConnection = errors.New("cannot connect to the notes API")

// cli содержит зависимости команд.
type cli struct {
	out    io.Writer
	errOut io.Writer

	apiURL  string
	verbose bool

	retry  resilience.RetryConfig
	now    func() time.Time
	client *api.Client
}

func newCLI(out, errOut io.Writer) *cli {
	return &cli{
		out:    out,
		errOut: errOut,
		retry:  resilience.ProbeRetryConfig(),
		now:    time.Now,
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "notesctl",
		Short: "Terminal client for the notes API",
		Long: `notesctl lists, filters, creates, edits and deletes notes
through the notes REST API. Maintenance commands talk to the database directly.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetOut(c.out)
	root.SetErr(c.errOut)
	root.PersistentFlags().StringVar(&c.apiURL, "api", "", "notes API base URL (default from NOTESCTL_API_URL)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newListCmd(c),
		newShowCmd(c),
		newAddCmd(c),
		newEditCmd(c),
		newDeleteCmd(c),
		newStatsCmd(c),
		newDBCmd(c),
	)
	return root
}

// setup настраивает логгер и клиент, затем проверяет доступность API.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	level := "warn"
	if c.verbose {
		level = "debug"
	}
	if err := logger.InitGlobalLoggerWithLevel(logger.Development, level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx := cmd.Context()
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if c.apiURL == "" {
		c.apiURL = cfg.APIURL
	}
	if c.client == nil {
		c.client = api.NewClient(c.apiURL, &http.Client{Timeout: cfg.Timeout})
	}

	if skipProbe(cmd) {
		return nil
	}
	return c.probe(ctx)
}

func (c *cli) probe(ctx context.Context) error {
	retryCfg := c.retry
	retryCfg.OnRetry = func(attempt int, _ error) {
		_, _ = fmt.Fprintf(c.errOut, "Retrying connection (attempt %d/%d)...\n", attempt+1, retryCfg.MaxAttempts)
	}

	err := resilience.NewRetry("api-probe", retryCfg).Execute(ctx, c.client.Probe)
	if err != nil {
		return fmt.Errorf("%w at %s. Make sure the server is running: %w", ErrConnection, c.client.BaseURL(), err)
	}
	return nil
}

// refresh заново загружает список заметок и выводит его.
func (c *cli) refresh(ctx context.Context) error {
	notes, err := c.client.ListNotes(ctx)
	if err != nil {
		return fmt.Errorf("failed to load notes: %w", err)
	}
	_, err = fmt.Fprint(c.out, render.List(state.New(notes), c.now()))
	return err
}

func (c *cli) print(s string) error {
	_, err := fmt.Fprint(c.out, s)
	return err
}

func skipProbe(cmd *cobra.Command) bool {
	for p := cmd; p != nil; p = p.Parent() {
		if p.Annotations[annotationSkipProbe] == "true" {
			return true
		}
	}
	return false
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid note id %q", raw)
	}
	return id, nil
}
