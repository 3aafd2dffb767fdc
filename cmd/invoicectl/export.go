package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/export"
)

var flagOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the visible invoices to an XLSX workbook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loggedIn(cmd.Context())
		if err != nil {
			return err
		}
		svc := export.NewService(slog.Default())
		data, err := svc.InvoicesXLSX(a.session.Invoices())
		if err != nil {
			return err
		}
		if err := os.WriteFile(flagOut, data, 0o644); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d invoices).\n", flagOut, len(a.session.Invoices()))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&flagOut, "out", "invoices.xlsx", "output file path")
	rootCmd.AddCommand(exportCmd)
}
