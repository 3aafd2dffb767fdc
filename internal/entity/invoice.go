package entity

import "time"

// PaymentStatus is the settlement state of an invoice.
type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusUnpaid PaymentStatus = "unpaid"
)

// Toggle returns the opposite status.
func (s PaymentStatus) Toggle() PaymentStatus {
	if s == PaymentStatusPaid {
		return PaymentStatusUnpaid
	}
	return PaymentStatusPaid
}

// InvoiceItem is one purchased line within an invoice.
type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

// SourceFile is the raw uploaded document retained alongside a record.
type SourceFile struct {
	Base64   string `json:"base64"`
	MimeType string `json:"mimeType"`
}

// Invoice is the central record. Exactly one of ID (server-assigned,
// present once persisted) and TempID (client-only, pre-persistence)
// identifies an in-memory instance at any time.
type Invoice struct {
	ID     string `json:"id,omitempty"`
	TempID string `json:"tempId,omitempty"`

	InvoiceNumber string        `json:"invoiceNumber"`
	VendorName    string        `json:"vendorName"`
	CustomerName  string        `json:"customerName"`
	InvoiceDate   string        `json:"invoiceDate"` // YYYY-MM-DD once persisted
	TotalAmount   float64       `json:"totalAmount"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	Items         []InvoiceItem `json:"items"`

	UploaderEmail   string      `json:"uploaderEmail,omitempty"`
	UploaderCompany string      `json:"uploaderCompany,omitempty"`
	Source          *SourceFile `json:"source,omitempty"`
	ExtractionCost  float64     `json:"extractionCost,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Key returns whichever identifier currently names this instance.
func (inv *Invoice) Key() string {
	if inv.ID != "" {
		return inv.ID
	}
	return inv.TempID
}
