package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/entity"
)

// invoiceRow mirrors the remote invoices table.
type invoiceRow struct {
	ID              string    `json:"id"`
	InvoiceNumber   string    `json:"invoice_number"`
	VendorName      string    `json:"vendor_name"`
	CustomerName    string    `json:"customer_name"`
	InvoiceDate     string    `json:"invoice_date"`
	TotalAmount     float64   `json:"total_amount"`
	PaymentStatus   string    `json:"payment_status"`
	UploaderEmail   string    `json:"uploader_email,omitempty"`
	UploaderCompany string    `json:"uploader_company,omitempty"`
	FileBase64      string    `json:"file_base64,omitempty"`
	FileMimeType    string    `json:"file_mime_type,omitempty"`
	ExtractionCost  float64   `json:"extraction_cost,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`

	Items []itemRow `json:"invoice_items,omitempty"`
}

// itemRow mirrors the remote invoice_items table.
type itemRow struct {
	InvoiceID   string  `json:"invoice_id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

func toInvoice(r invoiceRow) entity.Invoice {
	inv := entity.Invoice{
		ID:              r.ID,
		InvoiceNumber:   r.InvoiceNumber,
		VendorName:      r.VendorName,
		CustomerName:    r.CustomerName,
		InvoiceDate:     r.InvoiceDate,
		TotalAmount:     r.TotalAmount,
		PaymentStatus:   entity.PaymentStatus(r.PaymentStatus),
		UploaderEmail:   r.UploaderEmail,
		UploaderCompany: r.UploaderCompany,
		ExtractionCost:  r.ExtractionCost,
		CreatedAt:       r.CreatedAt,
		Items:           make([]entity.InvoiceItem, 0, len(r.Items)),
	}
	if r.FileBase64 != "" {
		inv.Source = &entity.SourceFile{Base64: r.FileBase64, MimeType: r.FileMimeType}
	}
	for _, it := range r.Items {
		inv.Items = append(inv.Items, entity.InvoiceItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		})
	}
	return inv
}

// CreateInvoice persists a sanitized invoice as a header row plus a bulk
// item insert. The identifier is generated client-side before either
// request so both rows share a known id without reading anything back;
// this sidesteps the creator-cannot-read-back visibility race. The two
// requests are not atomic, so a failed item insert triggers a compensating
// delete of the orphaned header.
func (c *Client) CreateInvoice(ctx context.Context, user entity.User, inv entity.Invoice) (entity.Invoice, error) {
	date, err := entity.NormalizeDate(inv.InvoiceDate)
	if err != nil {
		return entity.Invoice{}, err
	}

	id := uuid.New().String()
	row := invoiceRow{
		ID:              id,
		InvoiceNumber:   inv.InvoiceNumber,
		VendorName:      inv.VendorName,
		CustomerName:    inv.CustomerName,
		InvoiceDate:     date,
		TotalAmount:     inv.TotalAmount,
		PaymentStatus:   string(inv.PaymentStatus),
		UploaderEmail:   user.Email,
		UploaderCompany: user.Company,
		ExtractionCost:  inv.ExtractionCost,
	}
	if inv.Source != nil {
		row.FileBase64 = inv.Source.Base64
		row.FileMimeType = inv.Source.MimeType
	}

	if _, err := c.do(ctx, http.MethodPost, "/invoices", user.Token, row, "return=minimal"); err != nil {
		return entity.Invoice{}, fmt.Errorf("create invoice header: %w", err)
	}

	if len(inv.Items) > 0 {
		items := make([]itemRow, 0, len(inv.Items))
		for _, it := range inv.Items {
			items = append(items, itemRow{
				InvoiceID:   id,
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				Total:       it.Total,
			})
		}
		if _, err := c.do(ctx, http.MethodPost, "/invoice_items", user.Token, items, "return=minimal"); err != nil {
			// Compensate: the header row alone is an orphan nothing repairs later.
			if _, dErr := c.do(ctx, http.MethodDelete, "/invoices?id=eq."+id, user.Token, nil, ""); dErr != nil {
				c.logger.Error("store.create.compensation_failed", "invoice_id", id, "error", dErr)
				return entity.Invoice{}, fmt.Errorf("create invoice items: %w (orphaned header %s could not be removed: %v)", err, id, dErr)
			}
			c.logger.Warn("store.create.compensated", "invoice_id", id)
			return entity.Invoice{}, fmt.Errorf("create invoice items: %w", err)
		}
	}

	c.logger.Info("store.create.ok", "invoice_id", id, "items", len(inv.Items))

	out := inv
	out.ID = id
	out.TempID = ""
	out.InvoiceDate = date
	out.UploaderEmail = user.Email
	out.UploaderCompany = user.Company
	out.CreatedAt = time.Now().UTC()
	return out, nil
}

// ListInvoices fetches every invoice visible to the token's identity,
// joined with its item rows, newest first. Visibility is decided server
// side; the adapter never filters.
func (c *Client) ListInvoices(ctx context.Context, token string) ([]entity.Invoice, error) {
	q := url.Values{}
	q.Set("select", "*,invoice_items(*)")
	q.Set("order", "created_at.desc")
	raw, err := c.do(ctx, http.MethodGet, "/invoices?"+q.Encode(), token, nil, "")
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	var rows []invoiceRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("list invoices: decode response: %w", err)
	}
	out := make([]entity.Invoice, 0, len(rows))
	for _, r := range rows {
		out = append(out, toInvoice(r))
	}
	c.logger.Info("store.list.ok", "count", len(out))
	return out, nil
}

// UpdatePaymentStatus issues a field-level update; it does not read the
// row back.
func (c *Client) UpdatePaymentStatus(ctx context.Context, token, id string, status entity.PaymentStatus) error {
	body := map[string]string{"payment_status": string(status)}
	if _, err := c.do(ctx, http.MethodPatch, "/invoices?id=eq."+id, token, body, ""); err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	return nil
}

// AttachSourceFile backfills the retained source document onto an existing
// header row.
func (c *Client) AttachSourceFile(ctx context.Context, token, id string, src entity.SourceFile) error {
	body := map[string]string{
		"file_base64":    src.Base64,
		"file_mime_type": src.MimeType,
	}
	if _, err := c.do(ctx, http.MethodPatch, "/invoices?id=eq."+id, token, body, ""); err != nil {
		return fmt.Errorf("attach source file: %w", err)
	}
	return nil
}

// DeleteInvoices removes one or more invoices. Dependent item rows are
// cascade-deleted by the store itself; that guarantee lives there, not here.
func (c *Client) DeleteInvoices(ctx context.Context, token string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	var filter string
	if len(ids) == 1 {
		filter = "id=eq." + ids[0]
	} else {
		filter = "id=in.(" + strings.Join(ids, ",") + ")"
	}
	if _, err := c.do(ctx, http.MethodDelete, "/invoices?"+filter, token, nil, ""); err != nil {
		return fmt.Errorf("delete invoices: %w", err)
	}
	c.logger.Info("store.delete.ok", "count", len(ids))
	return nil
}
