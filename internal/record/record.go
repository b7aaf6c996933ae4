// Package record reads logical attributes out of CRM records whose key names
// vary by tenant and API version.
package record

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Field is an ordered list of candidate keys for one logical attribute. The
// first key holding a usable value wins.
type Field struct {
	Name string
	Keys []string
}

var (
	// ContactID locates a contact's internal identifier.
	ContactID = Field{Name: "contact id", Keys: []string{"jnid", "id", "contactId", "ID", "_id"}}

	// JobID locates a job's internal identifier.
	JobID = Field{Name: "job id", Keys: []string{"jnid", "id", "jobId", "ID", "_id"}}

	// Number locates the human-facing record number.
	Number = Field{Name: "record number", Keys: []string{"number", "recordNumber", "displayNumber", "contactNumber", "jobNumber", "idNumber"}}

	// DisplayName locates a record's display name.
	DisplayName = Field{Name: "display name", Keys: []string{"display_name", "displayName"}}
)

// Lookup returns the first candidate value as a string. Strings must be
// non-blank; numbers are rendered in plain decimal form. Any other type is
// skipped. A nil record yields no value.
func (f Field) Lookup(rec map[string]any) (string, bool) {
	if rec == nil {
		return "", false
	}
	for _, key := range f.Keys {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		if s, ok := coerce(v); ok {
			return s, true
		}
	}
	return "", false
}

// Get is Lookup without the presence flag.
func (f Field) Get(rec map[string]any) string {
	s, _ := f.Lookup(rec)
	return s
}

func coerce(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return "", false
		}
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint:
		return strconv.FormatUint(uint64(t), 10), true
	case uint32:
		return strconv.FormatUint(uint64(t), 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	default:
		return "", false
	}
}
