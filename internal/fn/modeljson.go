package fn

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"
)

// NormalizeModelJSON cleans up a model response so it can pass schema
// validation:
//   - renames known key synonyms to the schema's names
//   - drops null values
//   - removes unknown keys (additionalProperties = false friendliness)
//   - trims obvious strings
//
// It returns the cleaned document and the list of keys it touched.
func NormalizeModelJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("normalize: decode: %w", err)
	}

	touched := make([]string, 0, 8)
	rename := func(from, to string) {
		if v, ok := m[from]; ok {
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			touched = append(touched, from+"->"+to)
		}
	}

	rename("invoice_number", "invoiceNumber")
	rename("invoiceNo", "invoiceNumber")
	rename("vendor_name", "vendorName")
	rename("vendor", "vendorName")
	rename("customer_name", "customerName")
	rename("customer", "customerName")
	rename("invoice_date", "invoiceDate")
	rename("date", "invoiceDate")
	rename("total_amount", "totalAmount")
	rename("total", "totalAmount")
	rename("line_items", "items")

	allowed := map[string]struct{}{
		"invoiceNumber": {}, "vendorName": {}, "customerName": {},
		"invoiceDate": {}, "totalAmount": {}, "items": {}, "extractionCost": {},
	}
	for k, v := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			touched = append(touched, k+"(unknown)")
			continue
		}
		if v == nil {
			delete(m, k)
			touched = append(touched, k+"(null)")
		}
	}

	for _, k := range []string{"invoiceNumber", "vendorName", "customerName", "invoiceDate"} {
		if s, ok := m[k].(string); ok {
			m[k] = strings.TrimSpace(s)
		}
	}

	if arr, ok := m["items"].([]any); ok {
		itemAllowed := map[string]struct{}{
			"description": {}, "quantity": {}, "unitPrice": {}, "total": {},
		}
		for _, el := range arr {
			im, ok := el.(map[string]any)
			if !ok {
				continue
			}
			if v, ok := im["unit_price"]; ok {
				if _, exists := im["unitPrice"]; !exists {
					im["unitPrice"] = v
				}
				delete(im, "unit_price")
				touched = append(touched, "items.unit_price->unitPrice")
			}
			for k, v := range maps.Clone(im) {
				if _, ok := itemAllowed[k]; !ok {
					delete(im, k)
					touched = append(touched, "items."+k+"(unknown)")
					continue
				}
				if v == nil {
					delete(im, k)
					touched = append(touched, "items."+k+"(null)")
				}
			}
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, touched, fmt.Errorf("normalize: encode: %w", err)
	}
	if len(touched) > 0 {
		logger.Warn("fn.extract.normalized", "touched", touched)
	}
	return out, touched, nil
}
