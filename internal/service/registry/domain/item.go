// internal/service/registry/domain/item.go
package domain

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

const (
	fieldID        = "id"
	fieldReservado = "reservado"
)

// Item is one registry entry. Besides id and reservado an item carries any
// number of display fields (name, picture, link...); they are treated as
// opaque and written back in their original order. reservado is read with
// loose truthiness and its stored literal is kept until the flag changes; it
// is only added to an item that lacked it once the item becomes reserved.
type Item struct {
	ID        ItemID
	Reservado bool

	fields []itemField
}

type itemField struct {
	key   string
	value json.RawMessage // nil for id, which lives on the struct
}

// Field returns the raw JSON of a display field.
func (i Item) Field(key string) (json.RawMessage, bool) {
	for _, f := range i.fields {
		if f.key == key && f.key != fieldReservado && f.value != nil {
			return f.value, true
		}
	}
	return nil, false
}

func (i *Item) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "decode item")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.Errorf("item must be a JSON object, got %v", tok)
	}

	decoded := Item{}
	seen := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return errors.Wrap(err, "decode item key")
		}
		key := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return errors.Wrapf(err, "decode item field %q", key)
		}

		field := itemField{key: key}
		switch key {
		case fieldID:
			if err := decoded.ID.UnmarshalJSON(raw); err != nil {
				return err
			}
		case fieldReservado:
			decoded.Reservado = Truthy(raw)
			field.value = raw
		default:
			field.value = raw
		}

		// a repeated key keeps its first position and its last value
		if idx, ok := seen[key]; ok {
			decoded.fields[idx] = field
			continue
		}
		seen[key] = len(decoded.fields)
		decoded.fields = append(decoded.fields, field)
	}
	if _, err := dec.Token(); err != nil {
		return errors.Wrap(err, "decode item end")
	}

	*i = decoded
	return nil
}

func (i Item) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	hasID, hasFlag := false, false
	for _, f := range i.fields {
		switch f.key {
		case fieldID:
			hasID = true
		case fieldReservado:
			hasFlag = true
		}
	}

	first := true
	write := func(key string, value []byte) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := marshalNoEscape(key)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(value)
		return nil
	}

	if !hasID && i.ID.kind != idAbsent {
		id, _ := i.ID.MarshalJSON()
		if err := write(fieldID, id); err != nil {
			return nil, err
		}
	}
	for _, f := range i.fields {
		value := []byte(f.value)
		switch f.key {
		case fieldID:
			value, _ = i.ID.MarshalJSON()
		case fieldReservado:
			if Truthy(f.value) != i.Reservado {
				value = strconvBool(i.Reservado)
			}
		}
		if err := write(f.key, value); err != nil {
			return nil, err
		}
	}
	if !hasFlag && i.Reservado {
		if err := write(fieldReservado, strconvBool(i.Reservado)); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeItems parses a stored item list.
func DecodeItems(data []byte) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrap(err, "decode item list")
	}
	if items == nil {
		return nil, errors.New("decode item list: document is null")
	}
	return items, nil
}

// EncodeItems renders the list in the stored format: a JSON array indented
// with two spaces, without HTML escaping.
func EncodeItems(items []Item) ([]byte, error) {
	if items == nil {
		items = []Item{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return nil, errors.Wrap(err, "encode item list")
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func strconvBool(b bool) []byte {
	if b {
		return []byte("true")
	}
	return []byte("false")
}
