package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"notesapp/internal/client/api"
	"notesapp/internal/client/render"
)

func newAddCmd(c *cli) *cobra.Command {
	var input api.NoteInput
	var category string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("category") {
				input.Category = &category
			}

			note, err := c.client.CreateNote(cmd.Context(), input)
			if err != nil {
				return fmt.Errorf("failed to create note: %w", err)
			}

			if err := c.print(render.Success(fmt.Sprintf("Note #%d created successfully", note.ID))); err != nil {
				return err
			}
			return c.refresh(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&input.Title, "title", "t", "", "note title")
	cmd.Flags().StringVarP(&input.Content, "content", "b", "", "note content")
	cmd.Flags().StringVarP(&category, "category", "c", "", "work, personal, study or empty (default work)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}
