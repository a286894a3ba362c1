package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// InvoiceRequiredKeys must be present in every invoice reply.
var InvoiceRequiredKeys = []string{"customerName", "invoiceDate", "productList", "total"}

// InvoiceOptionalKeys may be omitted; lenient sanitizing fills them with null.
var InvoiceOptionalKeys = []string{"customerPhone", "subtotal", "tax"}

// BuildInvoiceJSONSchema returns a JSON-Schema (draft 2020-12 subset) for an invoice reply.
func BuildInvoiceJSONSchema() map[string]any {
	lineItem := map[string]any{
		"type":     "object",
		"required": []string{"name", "quantity", "unit", "price"},
		"properties": map[string]any{
			"name":     map[string]any{"type": "string"},
			"quantity": nullable("number"),
			"unit":     nullable("string"),
			"price":    nullable("number"),
		},
	}
	props := map[string]any{
		"customerName":  nullable("string"),
		"customerPhone": nullable("string"),
		"invoiceDate":   nullable("string"),
		"productList":   map[string]any{"type": "array", "items": lineItem},
		"subtotal":      nullable("number"),
		"tax":           nullable("number"),
		"total":         nullable("number"),
	}
	required := append(append([]string{}, InvoiceRequiredKeys...), InvoiceOptionalKeys...)
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func nullable(t string) map[string]any {
	return map[string]any{"type": []string{t, "null"}}
}

// CompileSchema compiles a schema map once so it can validate many documents.
func CompileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// ValidateJSON validates data against a compiled schema.
func ValidateJSON(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
