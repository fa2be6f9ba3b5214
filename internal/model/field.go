package model

import (
	"bytes"
	"encoding/json"
)

// Field captures one JSON member of a request body without committing to
// its type, so the validator can tell "missing" from "null" from "mistyped".
type Field struct {
	raw json.RawMessage
	set bool
}

// UnmarshalJSON records the raw member. It is also called for JSON null.
func (f *Field) UnmarshalJSON(b []byte) error {
	f.raw = append(f.raw[:0], b...)
	f.set = true
	return nil
}

// MarshalJSON writes the member back unchanged (null when absent).
func (f Field) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return f.raw, nil
}

// Present reports whether the member was sent with a non-null value.
func (f Field) Present() bool {
	return f.set && !bytes.Equal(bytes.TrimSpace(f.raw), []byte("null"))
}

// AsString decodes the member as a JSON string.
func (f Field) AsString() (string, bool) {
	if !f.Present() {
		return "", false
	}

	var s string
	if err := json.Unmarshal(f.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// AsInt64 decodes the member as a JSON integer.
func (f Field) AsInt64() (int64, bool) {
	if !f.Present() {
		return 0, false
	}

	var n int64
	if err := json.Unmarshal(f.raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

// StringField builds a Field holding s, for tests and internal callers.
func StringField(s string) Field {
	raw, _ := json.Marshal(s)
	return Field{raw: raw, set: true}
}

// RawField builds a Field from literal JSON.
func RawField(raw string) Field {
	return Field{raw: json.RawMessage(raw), set: true}
}
