package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"notesapp/internal/client/api"
	"notesapp/internal/client/render"
)

func newEditCmd(c *cli) *cobra.Command {
	var title, content, category string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace the title, content and category of a note",
		Long: `Replace a note. Fields whose flags are not given keep their current values;
the note is always sent to the API as a full replacement.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			current, err := c.client.GetNote(ctx, id)
			if err != nil {
				return err
			}

			input := api.NoteInput{Title: current.Title, Content: current.Content}
			if current.Category != nil {
				existing := string(*current.Category)
				input.Category = &existing
			}
			if cmd.Flags().Changed("title") {
				input.Title = title
			}
			if cmd.Flags().Changed("content") {
				input.Content = content
			}
			if cmd.Flags().Changed("category") {
				input.Category = &category
			}

			if _, err := c.client.UpdateNote(ctx, id, input); err != nil {
				return fmt.Errorf("failed to update note: %w", err)
			}

			if err := c.print(render.Success(fmt.Sprintf("Note #%d updated successfully", id))); err != nil {
				return err
			}
			return c.refresh(ctx)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&content, "content", "b", "", "new content")
	cmd.Flags().StringVarP(&category, "category", "c", "", "work, personal, study or empty")
	return cmd
}
