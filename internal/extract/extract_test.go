package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Invoices"))
	require.NoError(t, f.SetCellValue("Invoices", "A1", "Invoice Number"))
	require.NoError(t, f.SetCellValue("Invoices", "B1", "Total"))
	require.NoError(t, f.SetCellValue("Invoices", "A2", "INV-1"))
	require.NoError(t, f.SetCellValue("Invoices", "B2", 21.0))

	_, err := f.NewSheet("Notes")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Notes", "A1", "must not appear"))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestSpreadsheetToCSVFirstSheetOnly(t *testing.T) {
	out, err := SpreadsheetToCSV(buildWorkbook(t), "book.xlsx")
	require.NoError(t, err)
	assert.Contains(t, out, "Invoice Number,Total")
	assert.Contains(t, out, "INV-1,21")
	assert.NotContains(t, out, "must not appear")
}

func TestSpreadsheetToCSVPassthrough(t *testing.T) {
	raw := "a,b\n1,2\n"
	out, err := SpreadsheetToCSV([]byte(raw), "rows.csv")
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}

func TestSpreadsheetToCSVCorrupt(t *testing.T) {
	_, err := SpreadsheetToCSV([]byte("not a workbook"), "book.xlsx")
	require.Error(t, err)
}

func TestSpreadsheetToCSVLegacyXLS(t *testing.T) {
	data := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 512)...)
	_, err := SpreadsheetToCSV(data, "book.xls")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".xls")
	assert.NotContains(t, err.Error(), "corrupt")
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDocumentToText(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Invoice INV-9</w:t></w:r><w:r><w:tab/><w:t>Acme</w:t></w:r></w:p>
    <w:p><w:r><w:t>Total:</w:t><w:br/><w:t>21.00</w:t></w:r></w:p>
  </w:body>
</w:document>`
	out, err := DocumentToText(buildDocx(t, doc))
	require.NoError(t, err)
	assert.Equal(t, "Invoice INV-9\tAcme\nTotal:\n21.00", out)
}

func TestDocumentToTextMissingPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = DocumentToText(buf.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "word/document.xml")
}

func TestDocumentToTextCorrupt(t *testing.T) {
	_, err := DocumentToText([]byte("definitely not a zip"))
	require.Error(t, err)
}
