package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagCompany string

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		email, password, err := credentials()
		if err != nil {
			return err
		}
		if err := a.store.SignUp(cmd.Context(), email, password, flagCompany); err != nil {
			return err
		}
		fmt.Printf("Account created for %s.\n", email)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify credentials and show the visible invoice collection size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loggedIn(cmd.Context())
		if err != nil {
			return err
		}
		u := a.session.User()
		fmt.Printf("Logged in as %s (%d invoices visible).\n", u.Email, len(a.session.Invoices()))
		return nil
	},
}

func init() {
	signupCmd.Flags().StringVar(&flagCompany, "company", "", "organization name to attach to the account")
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
}
