// internal/service/registry/domain/item_id.go
package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type idKind uint8

const (
	idAbsent idKind = iota
	idString
	idNumber
	idBool
)

// ItemID is an item identity as it appears on the wire: a JSON number or a
// JSON string. A requested id may also arrive as a boolean, which only ever
// matches numerically (true is 1). The original literal is kept so a stored id is written
// back exactly as it was read.
type ItemID struct {
	kind idKind
	raw  string
	str  string
	num  float64
}

// IntID builds a numeric id.
func IntID(n int64) ItemID {
	return ItemID{kind: idNumber, raw: strconv.FormatInt(n, 10), num: float64(n)}
}

// StringID builds a string id.
func StringID(s string) ItemID {
	return ItemID{kind: idString, str: s}
}

// IsZero reports whether the id counts as "not provided": absent, null,
// false, the empty string or the number 0.
func (id ItemID) IsZero() bool {
	switch id.kind {
	case idString:
		return id.str == ""
	case idNumber, idBool:
		return id.num == 0
	default:
		return true
	}
}

// Matches compares a stored id against a requested one in two steps:
//  1. strict equality, same JSON type and value;
//  2. numeric coercion of the requested id when the stored id is a number.
//
// Clients send ids both as "3" and 3, so both forms must reach item 3.
func (id ItemID) Matches(requested ItemID) bool {
	if id.kind == idAbsent || requested.kind == idAbsent {
		return false
	}
	if id.kind == requested.kind {
		if id.kind == idString {
			return id.str == requested.str
		}
		return id.num == requested.num
	}
	if id.kind != idNumber {
		return false
	}
	n, ok := requested.coerceNumber()
	return ok && id.num == n
}

// coerceNumber converts the id to a number the way a loosely typed client
// would: surrounding whitespace is ignored and a blank string is 0.
func (id ItemID) coerceNumber() (float64, bool) {
	switch id.kind {
	case idNumber, idBool:
		return id.num, true
	case idString:
		s := strings.TrimSpace(id.str)
		if s == "" {
			return 0, true
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func (id ItemID) String() string {
	switch id.kind {
	case idString:
		return id.str
	case idNumber, idBool:
		return id.raw
	default:
		return ""
	}
}

func (id ItemID) MarshalJSON() ([]byte, error) {
	switch id.kind {
	case idString:
		return marshalNoEscape(id.str)
	case idNumber, idBool:
		return []byte(id.raw), nil
	default:
		return []byte("null"), nil
	}
}

func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*id = ItemID{}
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "decode string id")
		}
		*id = StringID(s)
		return nil
	case bytes.Equal(data, []byte("true")):
		*id = ItemID{kind: idBool, raw: "true", num: 1}
		return nil
	case bytes.Equal(data, []byte("false")):
		*id = ItemID{kind: idBool, raw: "false"}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Errorf("id must be a number, a string or a boolean, got %s", data)
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return errors.Wrapf(err, "decode numeric id %s", n)
	}
	*id = ItemID{kind: idNumber, raw: n.String(), num: f}
	return nil
}
