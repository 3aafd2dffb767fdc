package fn

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildInvoiceJSONSchema returns the invoice shape we ask the model for, as
// a JSON-Schema map. It is passed to the model as a structured-output
// constraint and used locally to validate what comes back. Types are
// deliberately loose (money fields may be numbers or strings) and nothing
// is required: partial extractions are the client sanitizer's call to
// accept or reject, not ours.
func BuildInvoiceJSONSchema() map[string]any {
	moneyProp := map[string]any{"type": []string{"number", "string"}}
	itemProps := map[string]any{
		"description": map[string]any{"type": "string"},
		"quantity":    moneyProp,
		"unitPrice":   moneyProp,
		"total":       moneyProp,
	}
	props := map[string]any{
		"invoiceNumber": map[string]any{"type": "string"},
		"vendorName":    map[string]any{"type": "string"},
		"customerName":  map[string]any{"type": "string"},
		"invoiceDate":   map[string]any{"type": "string"},
		"totalAmount":   moneyProp,
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties":           itemProps,
			},
		},
		"extractionCost": map[string]any{"type": "number"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

// ValidateJSONAgainstSchema validates data against the given schema map.
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
