package classify

import (
	"bytes"
	"encoding/json"

	"github.com/joseph-ayodele/catalog-extractor/internal/llm"
)

// Decode reads a classification reply. Each field falls back to its default
// on its own, so a partial reply still yields a usable record. A reply that is
// not a JSON object yields the sentinel.
func Decode(reply string) Record {
	clean := llm.Normalize(reply)

	dec := json.NewDecoder(bytes.NewReader([]byte(clean)))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil || m == nil {
		return Record{Failed: true, RawReply: reply}
	}

	rec := Record{
		HSN:        stringField(m, "hsn", ""),
		GST:        "",
		Confidence: stringField(m, "confidence", DefaultConfidence),
		Reference:  stringField(m, "reference", ""),
	}
	switch v := m["gst"].(type) {
	case json.Number:
		rec.GST = v
	case string:
		rec.GST = v
	}
	return rec
}

func stringField(m map[string]any, key, def string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return def
}
