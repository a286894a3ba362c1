package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

var (
	reMoneyNumber = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	invoiceMoney  = []string{"subtotal", "tax", "total"}
	lineNumbers   = []string{"quantity", "price"}
	lineOptional  = []string{"quantity", "unit", "price"}
)

// SanitizeInvoice repairs the common ways a model drifts from the invoice schema
// without inventing data: absent optional keys become null and numeric strings
// such as "₹1,180.00" become numbers. It returns the rewritten document and the
// list of touched keys.
func SanitizeInvoice(doc []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, err
	}
	if m == nil {
		return nil, nil, errors.New("invoice reply is null")
	}

	var changed []string

	for _, k := range InvoiceOptionalKeys {
		if _, ok := m[k]; !ok {
			m[k] = nil
			changed = append(changed, k+"(null)")
		}
	}

	for _, k := range invoiceMoney {
		if v, ok := coerceNumber(m[k]); ok {
			m[k] = v
			changed = append(changed, k)
		}
	}

	if items, ok := m["productList"].([]any); ok {
		for i, it := range items {
			line, ok := it.(map[string]any)
			if !ok {
				continue
			}
			for _, k := range lineOptional {
				if _, ok := line[k]; !ok {
					line[k] = nil
					changed = append(changed, "productList["+strconv.Itoa(i)+"]."+k+"(null)")
				}
			}
			for _, k := range lineNumbers {
				if v, ok := coerceNumber(line[k]); ok {
					line[k] = v
					changed = append(changed, "productList["+strconv.Itoa(i)+"]."+k)
				}
			}
		}
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, changed, err
	}
	return b, changed, nil
}

// coerceNumber converts string money values; ok is false when v needs no change.
func coerceNumber(v any) (any, bool) {
	s, isStr := v.(string)
	if !isStr {
		return v, false
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return nil, true
	}
	num := reMoneyNumber.FindString(strings.ReplaceAll(s, ",", ""))
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return nil, true
	}
	return f, true
}
