// Package classify looks up the HSN code and GST slab of a single product.
package classify

import (
	"encoding/json"
)

// DefaultConfidence is used when the reply carries no usable confidence.
const DefaultConfidence = "low"

// Record is the classification of one product, or the sentinel when the reply
// could not be read. GST holds a JSON number or string as the model sent it.
type Record struct {
	HSN        string
	GST        any
	Confidence string
	Reference  string

	Failed   bool
	RawReply string
}

type recordJSON struct {
	HSN        string `json:"hsn"`
	GST        any    `json:"gst"`
	Confidence string `json:"confidence"`
	Reference  string `json:"reference"`
}

type sentinelJSON struct {
	Error    bool   `json:"error"`
	RawReply string `json:"rawReply"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	if r.Failed {
		return json.Marshal(sentinelJSON{Error: true, RawReply: r.RawReply})
	}
	gst := r.GST
	if gst == nil {
		gst = ""
	}
	return json.Marshal(recordJSON{HSN: r.HSN, GST: gst, Confidence: r.Confidence, Reference: r.Reference})
}
