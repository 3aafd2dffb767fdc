package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id> [<id>...]",
	Short: "Delete one or more invoices",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loggedIn(cmd.Context())
		if err != nil {
			return err
		}
		if len(args) > 1 && !a.session.User().IsAdmin() {
			return fmt.Errorf("bulk delete requires the admin role")
		}
		if err := a.session.Delete(cmd.Context(), args...); err != nil {
			return err
		}
		fmt.Printf("Deleted %d invoice(s).\n", len(args))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
