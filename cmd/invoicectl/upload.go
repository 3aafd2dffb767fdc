package main

import (
	"bufio"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/entity"
)

var flagYes bool

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Extract an invoice from a document and save it after review",
	Long: `Upload reads the given document, routes it by type (PDF/image straight to
the model, spreadsheets and Word documents through a text extractor first),
and shows the extracted record for review before persisting it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		mimeType := mime.TypeByExtension(filepath.Ext(path))
		if mimeType == "" {
			mimeType = http.DetectContentType(data)
		}

		a, err := loggedIn(cmd.Context())
		if err != nil {
			return err
		}

		inv, err := a.pipeline.ProcessFile(cmd.Context(), filepath.Base(path), mimeType, data)
		if err != nil {
			return err
		}
		pending := a.session.SetPending(inv)

		printInvoice(pending)
		if !flagYes {
			fmt.Print("Save this invoice? [y/N] ")
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y") {
				a.session.DiscardPending()
				fmt.Println("Discarded.")
				return nil
			}
		}

		saved, err := a.session.ConfirmPending(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Saved invoice %s (%s).\n", saved.InvoiceNumber, saved.ID)
		return nil
	},
}

func printInvoice(inv entity.Invoice) {
	fmt.Printf("Invoice %s\n", inv.InvoiceNumber)
	fmt.Printf("  Vendor:   %s\n", inv.VendorName)
	fmt.Printf("  Customer: %s\n", inv.CustomerName)
	fmt.Printf("  Date:     %s\n", inv.InvoiceDate)
	fmt.Printf("  Total:    %.2f\n", inv.TotalAmount)
	fmt.Printf("  Status:   %s\n", inv.PaymentStatus)
	for _, it := range inv.Items {
		fmt.Printf("  - %s  x%.2f @ %.2f = %.2f\n", it.Description, it.Quantity, it.UnitPrice, it.Total)
	}
	if inv.ExtractionCost > 0 {
		fmt.Printf("  Extraction cost: $%.6f\n", inv.ExtractionCost)
	}
}

func init() {
	uploadCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "save without the interactive review prompt")
	rootCmd.AddCommand(uploadCmd)
}
