package tiled

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// record is one JSON object with its fields kept as raw subtrees, so the
// resolvers can check which keys exist before committing to a shape.
type record struct {
	raw    []byte
	fields map[string]json.RawMessage
}

func newRecord(raw []byte) (record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return record{}, parseError(err, "expected object")
	}
	if fields == nil {
		return record{}, parseErrorf("expected object, got null")
	}
	return record{raw: raw, fields: fields}, nil
}

// has reports whether key is present with a non-null value.
func (r record) has(key string) bool {
	v, ok := r.fields[key]
	return ok && !isNull(v)
}

// decode fills v from the whole object, the way a flattened struct would.
func (r record) decode(v any) error {
	if err := json.Unmarshal(r.raw, v); err != nil {
		return parseError(err, "decode object")
	}
	return nil
}

// match decodes key into v. It returns false both when the key is missing
// and when its value does not fit v; neither is an error for the caller.
func (r record) match(key string, v any) bool {
	if !r.has(key) {
		return false
	}
	return json.Unmarshal(r.fields[key], v) == nil
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func isAbsent(raw []byte) bool {
	return len(bytes.TrimSpace(raw)) == 0 || isNull(raw)
}

// numberLiteral returns raw as the text of a JSON number.
func numberLiteral(raw []byte) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return "", errors.Errorf("expected number, got %.20q", raw)
	}
	return string(raw), nil
}
