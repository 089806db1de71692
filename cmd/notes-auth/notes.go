package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewNotesCmd creates the notes command group. Every subcommand talks to the
// backend with the restored session's bearer token.
func NewNotesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Work with your notes",
	}

	cmd.AddCommand(newNotesListCmd(a))
	cmd.AddCommand(newNotesAddCmd(a))
	cmd.AddCommand(newNotesEditCmd(a))
	cmd.AddCommand(newNotesRmCmd(a))

	return cmd
}

func newNotesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List notes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(a); err != nil {
				return err
			}
			notes, err := a.gateway.Notes(cmd.Context())
			if err != nil {
				return err
			}
			if len(notes) == 0 {
				cmd.Println("no notes")
				return nil
			}
			for _, note := range notes {
				cmd.Printf("%s\t%s\n", note.ID, note.Title)
			}
			return nil
		},
	}
}

func newNotesAddCmd(a *app) *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a note",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(a); err != nil {
				return err
			}
			note, err := a.gateway.CreateNote(cmd.Context(), title, content)
			if err != nil {
				return err
			}
			cmd.Printf("created %s\n", note.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "note title")
	cmd.Flags().StringVar(&content, "content", "", "note content")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newNotesEditCmd(a *app) *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(a); err != nil {
				return err
			}
			note, err := a.gateway.UpdateNote(cmd.Context(), args[0], title, content)
			if err != nil {
				return err
			}
			cmd.Printf("updated %s\n", note.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "note title")
	cmd.Flags().StringVar(&content, "content", "", "note content")

	return cmd
}

func newNotesRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(a); err != nil {
				return err
			}
			if err := a.gateway.DeleteNote(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Printf("deleted %s\n", args[0])
			return nil
		},
	}
}

func requireSession(a *app) error {
	if a.controller.CurrentUser() == nil {
		return fmt.Errorf("not signed in; run \"notes-auth signin\" first")
	}
	return nil
}
