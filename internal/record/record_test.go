package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberSingleCandidate(t *testing.T) {
	for _, key := range Number.Keys {
		for _, tc := range []struct {
			name  string
			value any
			want  string
		}{
			{"string", "1042", "1042"},
			{"json number", json.Number("1042"), "1042"},
			{"float", float64(1042), "1042"},
			{"int", 1042, "1042"},
		} {
			t.Run(key+"/"+tc.name, func(t *testing.T) {
				got, ok := Number.Lookup(map[string]any{key: tc.value})
				assert.True(t, ok)
				assert.Equal(t, tc.want, got)
			})
		}
	}
}

func TestIDSingleCandidate(t *testing.T) {
	for _, key := range ContactID.Keys {
		got, ok := ContactID.Lookup(map[string]any{key: "abc123"})
		assert.True(t, ok, key)
		assert.Equal(t, "abc123", got, key)

		got, ok = ContactID.Lookup(map[string]any{key: json.Number("77")})
		assert.True(t, ok, key)
		assert.Equal(t, "77", got, key)
	}
}

func TestLookupNoValue(t *testing.T) {
	tests := []struct {
		name string
		rec  map[string]any
	}{
		{"nil record", nil},
		{"empty record", map[string]any{}},
		{"unrelated keys", map[string]any{"name": "Jane", "status": "New"}},
		{"null value", map[string]any{"number": nil}},
		{"blank string", map[string]any{"number": "  "}},
		{"unsupported type", map[string]any{"number": map[string]any{"v": 1}}},
		{"bool", map[string]any{"number": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Number.Lookup(tt.rec)
			assert.False(t, ok)
			assert.Empty(t, got)
		})
	}
}

func TestLookupPriorityOrder(t *testing.T) {
	rec := map[string]any{
		"idNumber":      "6",
		"jobNumber":     "5",
		"contactNumber": "4",
		"displayNumber": "3",
		"recordNumber":  "2",
		"number":        "1",
	}
	assert.Equal(t, "1", Number.Get(rec))

	delete(rec, "number")
	assert.Equal(t, "2", Number.Get(rec))

	delete(rec, "recordNumber")
	delete(rec, "displayNumber")
	assert.Equal(t, "4", Number.Get(rec))

	ids := map[string]any{"_id": "mongo", "ID": "upper", "id": "plain", "jnid": "jn"}
	assert.Equal(t, "jn", ContactID.Get(ids))
	delete(ids, "jnid")
	assert.Equal(t, "plain", ContactID.Get(ids))
	delete(ids, "id")
	assert.Equal(t, "upper", ContactID.Get(ids))
}

func TestLookupSkipsUnusableEarlierKey(t *testing.T) {
	rec := map[string]any{"jnid": nil, "id": "", "ID": 99}
	got, ok := ContactID.Lookup(rec)
	assert.True(t, ok)
	assert.Equal(t, "99", got)
}

func TestJobIDAcceptsJobID(t *testing.T) {
	assert.Equal(t, "j-9", JobID.Get(map[string]any{"jobId": "j-9", "contactId": "c-1"}))
	assert.Equal(t, "", JobID.Get(map[string]any{"contactId": "c-1"}))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Jane Doe", DisplayName.Get(map[string]any{"display_name": "Jane Doe", "displayName": "J"}))
	assert.Equal(t, "J", DisplayName.Get(map[string]any{"displayName": "J"}))
}

func TestLargeFloatRendersPlain(t *testing.T) {
	assert.Equal(t, "1234567890123", Number.Get(map[string]any{"number": float64(1234567890123)}))
}
