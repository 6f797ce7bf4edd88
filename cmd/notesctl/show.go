package main

import (
	"github.com/spf13/cobra"

	"notesapp/internal/client/render"
)

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			note, err := c.client.GetNote(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.print(render.Note(note, c.now()))
		},
	}
}
