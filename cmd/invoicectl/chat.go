package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:     "chat <question>",
	Short:   "Ask a free-text question about the visible invoices",
	Example: `  invoicectl chat "what did we spend with Acme in August?"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loggedIn(cmd.Context())
		if err != nil {
			return err
		}
		answer, err := a.ai.Chat(cmd.Context(), strings.Join(args, " "), a.session.Invoices())
		if err != nil {
			return err
		}
		fmt.Println(answer)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
