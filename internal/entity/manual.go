package entity

import (
	"fmt"
	"strings"
)

// ManualItem is one line of a manually entered invoice. The user supplies
// quantity and unit price; the line total is always computed.
type ManualItem struct {
	Description string
	Quantity    float64
	UnitPrice   float64
}

// ManualEntry collects the fields of a manually entered invoice.
type ManualEntry struct {
	InvoiceNumber string
	VendorName    string
	CustomerName  string
	InvoiceDate   string
	Items         []ManualItem
}

// Build validates the entry and produces an Invoice. Item totals are
// quantity x unit price and the invoice total is the sum of item totals;
// manual input never carries its own totals.
func (m ManualEntry) Build() (Invoice, error) {
	var missing []string
	if strings.TrimSpace(m.InvoiceNumber) == "" {
		missing = append(missing, "invoice number")
	}
	if strings.TrimSpace(m.VendorName) == "" {
		missing = append(missing, "vendor name")
	}
	if len(m.Items) == 0 {
		missing = append(missing, "at least one item")
	}
	if len(missing) > 0 {
		return Invoice{}, fmt.Errorf("manual entry is missing %s", strings.Join(missing, ", "))
	}

	date, err := NormalizeDate(m.InvoiceDate)
	if err != nil {
		return Invoice{}, err
	}

	items := make([]InvoiceItem, 0, len(m.Items))
	var total float64
	for i, it := range m.Items {
		if it.Quantity < 0 || it.UnitPrice < 0 {
			return Invoice{}, fmt.Errorf("item %d: quantity and unit price must be non-negative", i+1)
		}
		lineTotal := it.Quantity * it.UnitPrice
		items = append(items, InvoiceItem{
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       lineTotal,
		})
		total += lineTotal
	}

	return Invoice{
		InvoiceNumber: strings.TrimSpace(m.InvoiceNumber),
		VendorName:    strings.TrimSpace(m.VendorName),
		CustomerName:  strings.TrimSpace(m.CustomerName),
		InvoiceDate:   date,
		TotalAmount:   total,
		PaymentStatus: PaymentStatusUnpaid,
		Items:         items,
	}, nil
}
