package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var paidCmd = &cobra.Command{
	Use:   "mark-paid <id>",
	Short: "Toggle the payment status of an invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loggedIn(cmd.Context())
		if err != nil {
			return err
		}
		status, err := a.session.TogglePaymentStatus(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Invoice %s is now %s.\n", args[0], status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(paidCmd)
}
