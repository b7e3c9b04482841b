// Package stages defines the fixed fulfillment stage catalog and the
// serialized stage-record blob stored on each purchase-order line.
package stages

import (
	"encoding/json"
	"fmt"
)

// Names is the canonical ordered list of fulfillment stages. Every line's
// stage array has exactly this many records, in this order, on creation.
// Record names are copied at creation time, so editing this list does not
// retroactively rename existing records.
var Names = []string{
	"Feasibility",
	"Designing",
	"Cutting",
	"Internal Quality",
	"Processing",
	"Fabrication",
	"Finishing",
	"Internal Quality",
	"Customer Quality",
	"Ready For Dispatch",
}

// Record is one entry in a line's stage array.
type Record struct {
	Stage     string `json:"stage"`
	Remarks   string `json:"remarks"`
	Completed bool   `json:"completed"`
}

// Initialize returns a fresh stage array, one record per catalog entry,
// with empty remarks and completed false.
func Initialize() []Record {
	recs := make([]Record, len(Names))
	for i, name := range Names {
		recs[i] = Record{Stage: name}
	}
	return recs
}

// Parse decodes a stored stage blob. An absent, unparsable, or empty blob
// is treated as "never started" and yields a freshly initialized array
// rather than an error, so a corrupted or legacy row never blocks further
// progress on a line.
func Parse(blob string) []Record {
	if blob == "" {
		return Initialize()
	}
	var recs []Record
	if err := json.Unmarshal([]byte(blob), &recs); err != nil || len(recs) == 0 {
		return Initialize()
	}
	return recs
}

// Marshal encodes a stage array for storage on the line row.
func Marshal(recs []Record) (string, error) {
	data, err := json.Marshal(recs)
	if err != nil {
		return "", fmt.Errorf("stages: marshal: %w", err)
	}
	return string(data), nil
}

// InitialBlob returns the serialized form of a freshly initialized array,
// used when creating new lines.
func InitialBlob() string {
	blob, _ := Marshal(Initialize())
	return blob
}

// Normalize returns blob unchanged when present, substituting the initial
// blob when the stored value is empty. Used on the read path so callers
// always see a well-formed array.
func Normalize(blob string) string {
	if blob == "" {
		return InitialBlob()
	}
	return blob
}

// Dispatched reports whether a line counts as dispatched: only the final
// stage record's completed flag matters, not full completion of every
// stage.
func Dispatched(recs []Record) bool {
	return len(recs) > 0 && recs[len(recs)-1].Completed
}
