package jobnimbus

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
)

// envelopeKeys are the wrapper keys seen around contact lists, in lookup order.
var envelopeKeys = []string{"results", "data", "contacts"}

// decodeRecord decodes a single object. Numbers are kept as json.Number so
// numeric ids keep their exact digits. An empty body yields an empty record.
func decodeRecord(body []byte) (Record, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Record{}, nil
	}
	var rec Record
	if err := unmarshal(body, &rec); err != nil {
		return nil, err
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}

// decodeRecordList accepts either a bare array or an envelope object holding
// the array under one of envelopeKeys.
func decodeRecordList(body []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var list []Record
		if err := unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var env map[string]json.RawMessage
	if err := unmarshal(trimmed, &env); err != nil {
		return nil, err
	}
	for _, key := range envelopeKeys {
		raw, ok := env[key]
		if !ok {
			continue
		}
		var list []Record
		if err := unmarshal(raw, &list); err != nil {
			return nil, eris.Wrapf(err, "envelope key %q", key)
		}
		return list, nil
	}
	return nil, nil
}

func unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}
