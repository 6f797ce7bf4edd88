package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"notesapp/internal/client/render"
)

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			msg, err := c.client.DeleteNote(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to delete note: %w", err)
			}

			if err := c.print(render.Success(msg)); err != nil {
				return err
			}
			return c.refresh(cmd.Context())
		},
	}
}
