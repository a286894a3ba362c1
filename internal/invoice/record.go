// Package invoice extracts structured invoice fields from OCR text.
package invoice

import (
	"encoding/json"
	"errors"
)

// LineItem is one product line on an invoice.
type LineItem struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
	Price    *float64 `json:"price"`
}

// Fields is the success shape of an extracted invoice.
type Fields struct {
	CustomerName  *string    `json:"customerName"`
	CustomerPhone *string    `json:"customerPhone"`
	InvoiceDate   *string    `json:"invoiceDate"`
	ProductList   []LineItem `json:"productList"`
	Subtotal      *float64   `json:"subtotal"`
	Tax           *float64   `json:"tax"`
	Total         *float64   `json:"total"`
}

// Failure is returned in place of Fields when the reply could not be read.
// It keeps the OCR text and the reply so the invoice can be keyed in by hand.
type Failure struct {
	RawText  string
	RawReply string
}

// Record is either Fields or Failure, never both.
type Record struct {
	Fields  *Fields
	Failure *Failure
}

// Succeeded returns a success record.
func Succeeded(f Fields) Record {
	if f.ProductList == nil {
		f.ProductList = []LineItem{}
	}
	return Record{Fields: &f}
}

// Failed returns the error-sentinel record.
func Failed(rawText, rawReply string) Record {
	return Record{Failure: &Failure{RawText: rawText, RawReply: rawReply}}
}

// IsSentinel reports whether r is the error record.
func (r Record) IsSentinel() bool { return r.Failure != nil }

type sentinelJSON struct {
	Error    bool   `json:"error"`
	RawText  string `json:"rawText"`
	RawReply string `json:"rawReply"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	switch {
	case r.Failure != nil:
		return json.Marshal(sentinelJSON{Error: true, RawText: r.Failure.RawText, RawReply: r.Failure.RawReply})
	case r.Fields != nil:
		return json.Marshal(r.Fields)
	default:
		return nil, errors.New("invoice: empty record")
	}
}

func (r *Record) UnmarshalJSON(b []byte) error {
	var probe struct {
		Error bool `json:"error"`
	}
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}
	if probe.Error {
		var s sentinelJSON
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = Failed(s.RawText, s.RawReply)
		return nil
	}
	var f Fields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*r = Succeeded(f)
	return nil
}
