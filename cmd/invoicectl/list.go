package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/entity"
)

var (
	flagStatus string
	flagFilter string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the invoices visible to this account, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loggedIn(cmd.Context())
		if err != nil {
			return err
		}

		invoices := a.session.Invoices()
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNUMBER\tVENDOR\tDATE\tTOTAL\tSTATUS\tUPLOADED BY")
		shown := 0
		for _, inv := range invoices {
			if flagStatus != "" && string(inv.PaymentStatus) != flagStatus {
				continue
			}
			if flagFilter != "" && !matches(inv, flagFilter) {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%s\t%s\n",
				inv.ID, inv.InvoiceNumber, inv.VendorName, inv.InvoiceDate,
				inv.TotalAmount, inv.PaymentStatus, inv.UploaderEmail)
			shown++
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("%d of %d invoices.\n", shown, len(invoices))
		return nil
	},
}

func matches(inv entity.Invoice, needle string) bool {
	needle = strings.ToLower(needle)
	for _, hay := range []string{inv.InvoiceNumber, inv.VendorName, inv.CustomerName} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

func init() {
	listCmd.Flags().StringVar(&flagStatus, "status", "", "filter by payment status (paid|unpaid)")
	listCmd.Flags().StringVar(&flagFilter, "filter", "", "substring filter on number, vendor or customer")
	rootCmd.AddCommand(listCmd)
}
