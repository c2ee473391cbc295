package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
)

// Row представляет строку произвольной сущности админки.
// Порядок ключей сохраняется в том виде, в каком их прислал backend.
type Row struct {
	keys   []string
	values map[string]any
}

// NewRow создает строку из пар ключ-значение (k1, v1, k2, v2, ...)
func NewRow(kv ...any) Row {
	r := Row{values: make(map[string]any, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		r.Set(key, kv[i+1])
	}
	return r
}

// Set устанавливает значение, новые ключи добавляются в конец
func (r *Row) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get возвращает значение по ключу
func (r Row) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Delete удаляет ключ из строки
func (r *Row) Delete(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Keys возвращает ключи в исходном порядке
func (r Row) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len возвращает количество полей
func (r Row) Len() int {
	return len(r.keys)
}

// Map возвращает копию значений строки
func (r Row) Map() map[string]any {
	return maps.Clone(r.values)
}

// Clone возвращает независимую копию строки
func (r Row) Clone() Row {
	return Row{keys: r.Keys(), values: maps.Clone(r.values)}
}

// MarshalJSON сериализует строку с сохранением порядка ключей
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.values[key])
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON разбирает JSON объект, запоминая порядок ключей.
// Числа сохраняются как json.Number, чтобы не терять точность PK.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row: expected JSON object, got %v", tok)
	}

	*r = Row{values: make(map[string]any)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("row: expected string key, got %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("row: decode %q: %w", key, err)
		}
		r.Set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// RowsPage представляет страницу строк сущности админки
type RowsPage struct {
	Items      []Row    `json:"items"`
	Limit      int      `json:"limit"`
	Offset     int      `json:"offset"`
	Total      int      `json:"total"`
	Columns    []string `json:"columns"`
	PrimaryKey []string `json:"primary_key"`
}

// ListResult представляет стандартный конверт списков backend
type ListResult[T any] struct {
	Items       []T      `json:"items"`
	Columns     []string `json:"columns,omitempty"`
	PrimaryKeys []string `json:"primary_keys,omitempty"`
}
