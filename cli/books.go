package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newBookCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Manage the book catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add ID TITLE AUTHOR QUANTITY",
		Short: "Add a book to the catalog",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[3])
			if err != nil || qty < 0 {
				return fmt.Errorf("invalid quantity %q: must be a whole number of 0 or more", args[3])
			}
			if err := a.mgr.AddBook(args[0], args[1], args[2], qty); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Book added successfully!")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for line := range a.mgr.ListBooks() {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	})

	return cmd
}
