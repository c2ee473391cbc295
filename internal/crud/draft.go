package crud

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// Draft is the in-memory record being composed for create or edit.
type Draft map[string]any

// Clone returns a shallow copy of the draft.
func (d Draft) Clone() Draft {
	if d == nil {
		return Draft{}
	}
	return maps.Clone(d)
}

// Merge copies fields into the draft, overwriting existing keys.
func (d Draft) Merge(fields map[string]any) {
	for k, v := range fields {
		d[k] = v
	}
}

// String returns the field as a string, or "" when it is absent or not a string.
func (d Draft) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Decode converts the draft into a typed payload through its JSON form.
func (d Draft) Decode(into any) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("decode draft: %w", err)
	}
	return nil
}

// Normalize prepares a draft for submission: strings are trimmed and empty
// strings become nil. Other values pass through unchanged.
func Normalize(d Draft) Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		s, ok := v.(string)
		if !ok {
			out[k] = v
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			out[k] = nil
			continue
		}
		out[k] = s
	}
	return out
}

// DraftFrom builds a draft from a row through its JSON form.
func DraftFrom(v any) (Draft, error) {
	switch m := v.(type) {
	case Draft:
		return m.Clone(), nil
	case map[string]any:
		return Draft(maps.Clone(m)), nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var out Draft
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("row is not an object: %w", err)
	}
	return out, nil
}
