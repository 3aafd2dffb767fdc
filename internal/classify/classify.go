// Package classify routes an uploaded file to an extraction strategy based
// on its declared MIME type and filename. MIME checks are strictly
// prioritized over extension checks.
package classify

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Route is the extraction strategy picked for a file.
type Route int

const (
	// RouteBinaryAI sends the encoded file straight to the model (PDF, images).
	RouteBinaryAI Route = iota
	// RouteSpreadsheet renders the first sheet as CSV text first.
	RouteSpreadsheet
	// RouteDocument extracts raw text from a word-processing document first.
	RouteDocument
)

func (r Route) String() string {
	switch r {
	case RouteBinaryAI:
		return "binary-ai"
	case RouteSpreadsheet:
		return "spreadsheet-text"
	case RouteDocument:
		return "document-text"
	}
	return "unknown"
}

var ErrUnsupportedType = errors.New("unsupported file type")

var spreadsheetExts = map[string]struct{}{
	"xlsx": {},
	"xls":  {},
	"csv":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Classify picks a route for the given MIME type and filename. It is pure:
// it never inspects file content.
func Classify(mimeType, filename string) (Route, error) {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	ext := NormalizeExt(filepath.Ext(filename))

	if mt == "application/pdf" || strings.HasPrefix(mt, "image/") {
		return RouteBinaryAI, nil
	}
	if _, ok := spreadsheetExts[ext]; ok || strings.Contains(mt, "spreadsheet") || strings.Contains(mt, "excel") {
		return RouteSpreadsheet, nil
	}
	if ext == "docx" || strings.Contains(mt, "wordprocessing") {
		return RouteDocument, nil
	}
	return 0, fmt.Errorf("%w: %q (%s)", ErrUnsupportedType, filename, mimeType)
}
