package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/entity"
)

var (
	flagNumber   string
	flagVendor   string
	flagCustomer string
	flagDate     string
	flagItems    []string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Enter an invoice manually",
	Long: `Add persists a manually entered invoice. Each --item is
"description:quantity:unit-price"; line totals and the invoice total are
computed, never typed.`,
	Example: `  invoicectl add --number INV-42 --vendor "Acme" --date 2026-08-01 \
    --item "Widget:2:10.50" --item "Shipping:1:4.99"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entry := entity.ManualEntry{
			InvoiceNumber: flagNumber,
			VendorName:    flagVendor,
			CustomerName:  flagCustomer,
			InvoiceDate:   flagDate,
		}
		for _, spec := range flagItems {
			item, err := parseItemSpec(spec)
			if err != nil {
				return err
			}
			entry.Items = append(entry.Items, item)
		}

		inv, err := entry.Build()
		if err != nil {
			return err
		}

		a, err := loggedIn(cmd.Context())
		if err != nil {
			return err
		}
		saved, err := a.session.AddInvoice(cmd.Context(), inv)
		if err != nil {
			return err
		}
		fmt.Printf("Saved invoice %s (%s), total %.2f.\n", saved.InvoiceNumber, saved.ID, saved.TotalAmount)
		return nil
	},
}

func parseItemSpec(spec string) (entity.ManualItem, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return entity.ManualItem{}, fmt.Errorf("item %q: want description:quantity:unit-price", spec)
	}
	qty, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return entity.ManualItem{}, fmt.Errorf("item %q: bad quantity: %w", spec, err)
	}
	price, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return entity.ManualItem{}, fmt.Errorf("item %q: bad unit price: %w", spec, err)
	}
	return entity.ManualItem{Description: parts[0], Quantity: qty, UnitPrice: price}, nil
}

func init() {
	addCmd.Flags().StringVar(&flagNumber, "number", "", "invoice number (required)")
	addCmd.Flags().StringVar(&flagVendor, "vendor", "", "vendor name (required)")
	addCmd.Flags().StringVar(&flagCustomer, "customer", "", "customer name")
	addCmd.Flags().StringVar(&flagDate, "date", "", "invoice date, YYYY-MM-DD (required)")
	addCmd.Flags().StringArrayVar(&flagItems, "item", nil, `line item as "description:quantity:unit-price" (repeatable)`)
	rootCmd.AddCommand(addCmd)
}
