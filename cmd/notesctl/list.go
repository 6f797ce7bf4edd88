package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"notesapp/internal/client/render"
	"notesapp/internal/client/state"
)

func newListCmd(c *cli) *cobra.Command {
	var (
		category string
		search   string
		view     string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes with optional category filter and search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			notes, err := c.client.ListNotes(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load notes: %w", err)
			}

			s := state.New(notes)
			if err := s.SetCategory(category); err != nil {
				return err
			}
			if err := s.SetView(state.ViewMode(view)); err != nil {
				return err
			}
			s.SetSearch(search)

			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(s.Visible())
			}
			return c.print(render.List(s, c.now()))
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", state.FilterAll, "category filter: all, work, personal or study")
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive text to look for in title or content")
	cmd.Flags().StringVar(&view, "view", string(state.ViewGrid), "view mode: grid or list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print visible notes as JSON")
	return cmd
}
