package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"notesapp/internal/client/render"
	"notesapp/internal/notes/adapters/cache"
	"notesapp/internal/notes/adapters/postgres"
	"notesapp/internal/notes/app"
	"notesapp/internal/notes/config"
	"notesapp/internal/notes/db"
	portsCache "notesapp/internal/notes/ports/cache"
	pgerrors "notesapp/pkg/db/postgres"
)

// ErrSeedNotConfirmed возвращается при запуске seed без --yes.
var ErrSeedNotConfirmed = errors.New("refusing to replace all notes without --yes")

func newDBCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "db",
		Short:       "Database maintenance (uses NOTES_POSTGRES_* settings)",
		Annotations: map[string]string{annotationSkipProbe: "true"},
	}
	cmd.AddCommand(newDBCheckCmd(c), newDBSeedCmd(c))
	return cmd
}

func newDBCheckCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the connection and report note counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withMaintenance(cmd.Context(), false, func(ctx context.Context, uc *app.MaintenanceUseCase) error {
				report, err := uc.Check(ctx)
				if err != nil {
					return describeStoreError(err)
				}
				return c.print(render.StoreReport(report, c.now()))
			})
		},
	}
}

func newDBSeedCmd(c *cli) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Delete all notes and insert sample notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmed {
				return ErrSeedNotConfirmed
			}
			return c.withMaintenance(cmd.Context(), true, func(ctx context.Context, uc *app.MaintenanceUseCase) error {
				count, err := uc.Seed(ctx)
				if err != nil {
					return describeStoreError(err)
				}
				return c.print(render.Success(fmt.Sprintf("Database reset with %d sample notes", count)))
			})
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm that all existing notes are deleted")
	return cmd
}

// withMaintenance подключается к базе заметок и передает сценарий обслуживания в fn.
// При migrate перед подключением применяются миграции.
func (c *cli) withMaintenance(ctx context.Context, migrate bool, fn func(context.Context, *app.MaintenanceUseCase) error) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	var database *db.DB
	if migrate {
		database, err = db.New(ctx, &cfg.Postgres)
	} else {
		database, err = db.Connect(ctx, &cfg.Postgres)
	}
	if err != nil {
		return describeStoreError(err)
	}
	defer database.Close(ctx)

	noteCache := c.openNoteCache(ctx, &cfg.Redis)
	if noteCache != nil {
		defer func() { _ = noteCache.Close() }()
	}

	repo := postgres.NewRepositoryFactory(database.Pool()).NoteRepository()
	return fn(ctx, app.NewMaintenanceUseCase(database, repo, noteCache))
}

// openNoteCache подключает кэш заметок сервера, если он включен.
// Недоступный Redis не прерывает команду, но выводится предупреждение.
func (c *cli) openNoteCache(ctx context.Context, cfg *config.RedisConfig) portsCache.NoteCache {
	if !cfg.Enabled {
		return nil
	}
	noteCache, err := cache.NewRedisCache(ctx, cfg)
	if err != nil {
		_, _ = fmt.Fprintf(c.errOut, "Warning: note cache at %s is unavailable, cached notes may be stale: %v\n",
			cfg.GetAddress(), err)
		return nil
	}
	return noteCache
}

func describeStoreError(err error) error {
	info := pgerrors.DescribeError(err)
	return fmt.Errorf("%s (%s/%s): %w", info.Message, info.Type, info.Code, err)
}
