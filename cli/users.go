package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUserCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage registered users",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add ID NAME",
			Short: "Register a user",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.mgr.AddUser(args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "User added successfully!")
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a user that holds no books",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.mgr.DeleteUser(args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "User deleted successfully!")
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List registered users",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				for line := range a.mgr.ListUsers() {
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "books ID",
			Short: "List the books a user has borrowed",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				lines, err := a.mgr.ListUserBooks(args[0])
				if err != nil {
					return err
				}
				for line := range lines {
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			},
		},
	)

	return cmd
}
