// Package export produces XLSX workbooks from the invoice collection.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/entity"
)

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// InvoicesXLSX renders the collection as a single-sheet workbook, one row
// per invoice header.
func (s *Service) InvoicesXLSX(invoices []entity.Invoice) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Invoices"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Invoice Number",
		"Vendor",
		"Customer",
		"Invoice Date",
		"Total Amount",
		"Payment Status",
		"Items",
		"Uploaded By",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, inv := range invoices {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, inv.InvoiceNumber)
		write(2, inv.VendorName)
		write(3, inv.CustomerName)
		write(4, inv.InvoiceDate)
		write(5, inv.TotalAmount)
		write(6, string(inv.PaymentStatus))
		write(7, len(inv.Items))
		uploadedBy := inv.UploaderEmail
		if inv.UploaderCompany != "" {
			uploadedBy = fmt.Sprintf("%s (%s)", inv.UploaderEmail, inv.UploaderCompany)
		}
		write(8, uploadedBy)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 18)
	_ = f.SetColWidth(sheet, "B", "C", 26)
	_ = f.SetColWidth(sheet, "D", "D", 14)
	_ = f.SetColWidth(sheet, "E", "F", 14)
	_ = f.SetColWidth(sheet, "H", "H", 32)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok", "rows", len(invoices), "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}
