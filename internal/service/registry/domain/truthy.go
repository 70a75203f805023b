package domain

import (
	"bytes"
	"encoding/json"
)

// Truthy applies loose truthiness to a raw JSON value: false, null, 0, ""
// and a missing value are false, everything else (objects and arrays
// included) is true.
func Truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0:
		return false
	case bytes.Equal(raw, []byte("false")), bytes.Equal(raw, []byte("null")), bytes.Equal(raw, []byte(`""`)):
		return false
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			return false
		}
		return n != 0
	}
	return true
}
