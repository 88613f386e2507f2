package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBorrowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "borrow USER_ID BOOK_ID",
		Short: "Lend one copy of a book to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.mgr.BorrowBook(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Book borrowed successfully! (%s, %d left)\n", rec.Book.Title, rec.Book.Quantity)
			return nil
		},
	}
}

func newReturnCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "return USER_ID BOOK_ID",
		Short: "Take a borrowed book back",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ret, err := a.mgr.ReturnBook(args[0], args[1])
			if ret.Late {
				fmt.Fprintf(cmd.OutOrStdout(), "Warning: this book is being returned %d days late!\n", ret.DaysOut)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Book returned successfully!")
			return nil
		},
	}
}
