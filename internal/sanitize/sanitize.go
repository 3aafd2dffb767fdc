// Package sanitize converts the loosely-typed extraction payload into the
// strict internal Invoice shape. It is the single validating boundary for
// untrusted model output: nothing upstream of it may leak past.
package sanitize

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/entity"
)

// ErrNoCoreDetails is returned when invoice number, vendor name and items
// are all empty after sanitization: the one business-rule gate between
// garbage and a usable partial extraction.
var ErrNoCoreDetails = errors.New("core invoice details could not be extracted")

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// Number coerces a loosely-typed value to a float64. Numbers pass through
// unchanged; strings are stripped of everything but digits, '.' and '-',
// then the longest leading numeric token is parsed, so "$10.50 - $20.00"
// yields 10.5 rather than failing on the range. Anything with no leading
// token becomes 0. "N/A" silently becoming 0 is intentional: it keeps
// downstream arithmetic well-defined.
func Number(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		s := nonNumeric.ReplaceAllString(t, "")
		f, err := strconv.ParseFloat(leadingNumber(s), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// leadingNumber returns the longest prefix of s that is a plain float
// token: an optional leading '-', digits, at most one '.'.
func leadingNumber(s string) string {
	end := 0
	dot := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			end = i + 1
		case r == '.' && !dot:
			dot = true
		case r == '-' && i == 0:
		default:
			return s[:end]
		}
	}
	if end == 0 {
		return ""
	}
	return s
}

func text(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Invoice produces a strictly-typed Invoice (sans identity and uploader
// fields) from a raw extraction payload. Payment status is always defaulted
// to unpaid: the model is never asked for, nor trusted with, it. The total
// is taken from the payload as-is, never recomputed from items.
func Invoice(raw json.RawMessage) (entity.Invoice, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return entity.Invoice{}, fmt.Errorf("sanitize: decode payload: %w", err)
	}

	inv := entity.Invoice{
		InvoiceNumber: text(m, "invoiceNumber", "invoice_number"),
		VendorName:    text(m, "vendorName"),
		CustomerName:  text(m, "customerName"),
		InvoiceDate:   text(m, "invoiceDate"),
		TotalAmount:   Number(m["totalAmount"]),
		PaymentStatus: entity.PaymentStatusUnpaid,
		Items:         []entity.InvoiceItem{},
	}

	if arr, ok := m["items"].([]any); ok {
		for _, el := range arr {
			im, ok := el.(map[string]any)
			if !ok {
				continue
			}
			inv.Items = append(inv.Items, entity.InvoiceItem{
				Description: text(im, "description"),
				Quantity:    Number(im["quantity"]),
				UnitPrice:   Number(im["unitPrice"]),
				Total:       Number(im["total"]),
			})
		}
	}

	if v, ok := m["extractionCost"]; ok {
		inv.ExtractionCost = Number(v)
	}

	if inv.InvoiceNumber == "" && inv.VendorName == "" && len(inv.Items) == 0 {
		return entity.Invoice{}, ErrNoCoreDetails
	}
	return inv, nil
}
