// Package ingest coordinates the upload pipeline: classify the file, run
// the format-specific extractor when one applies, call the extraction
// service, and sanitize the response into a reviewable invoice.
package ingest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/aiclient"
	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/classify"
	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/entity"
	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/extract"
	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/sanitize"
)

type Pipeline struct {
	ai     *aiclient.Client
	logger *slog.Logger
}

func NewPipeline(ai *aiclient.Client, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{ai: ai, logger: logger}
}

// ProcessFile runs one document through the pipeline and returns the
// sanitized invoice with the raw source retained on it. The file is
// base64-encoded exactly once; the extraction call and the retained
// attachment share the same payload.
func (p *Pipeline) ProcessFile(ctx context.Context, filename, mimeType string, data []byte) (entity.Invoice, error) {
	route, err := classify.Classify(mimeType, filename)
	if err != nil {
		return entity.Invoice{}, err
	}
	p.logger.Info("ingest.classify.ok", "filename", filename, "mime_type", mimeType, "route", route.String())

	encoded := base64.StdEncoding.EncodeToString(data)

	var raw json.RawMessage
	switch route {
	case classify.RouteBinaryAI:
		raw, err = p.ai.ExtractFromFile(ctx, encoded, mimeType)
	case classify.RouteSpreadsheet:
		var text string
		text, err = extract.SpreadsheetToCSV(data, filename)
		if err == nil {
			raw, err = p.ai.ExtractFromText(ctx, text)
		}
	case classify.RouteDocument:
		var text string
		text, err = extract.DocumentToText(data)
		if err == nil {
			raw, err = p.ai.ExtractFromText(ctx, text)
		}
	}
	if err != nil {
		p.logger.Error("ingest.extract.failed", "filename", filename, "route", route.String(), "error", err)
		return entity.Invoice{}, fmt.Errorf("extract %q: %w", filename, err)
	}

	inv, err := sanitize.Invoice(raw)
	if err != nil {
		p.logger.Error("ingest.sanitize.failed", "filename", filename, "error", err)
		return entity.Invoice{}, err
	}
	inv.Source = &entity.SourceFile{Base64: encoded, MimeType: mimeType}

	p.logger.Info("ingest.ok",
		"filename", filename,
		"invoice_number", inv.InvoiceNumber,
		"vendor", inv.VendorName,
		"items", len(inv.Items),
		"total", inv.TotalAmount,
	)
	return inv, nil
}
