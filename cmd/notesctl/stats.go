package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"notesapp/internal/client/render"
	"notesapp/internal/client/state"
)

func newStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show note counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			notes, err := c.client.ListNotes(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load notes: %w", err)
			}
			return c.print(render.Stats(state.New(notes).Counters(c.now())))
		},
	}
}
