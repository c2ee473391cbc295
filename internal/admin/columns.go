package admin

import (
	"encoding/json"
	"regexp"
	"slices"
	"sort"

	"github.com/devinci/portal/internal/crud"
	"github.com/devinci/portal/internal/domain"
)

// InferColumns returns declared when it is non-empty. Otherwise it takes the
// key order of the first row followed by keys that only appear in later
// rows, sorted.
func InferColumns(declared []string, rows []domain.Row) []string {
	if len(declared) > 0 {
		return slices.Clone(declared)
	}
	if len(rows) == 0 {
		return []string{}
	}

	cols := rows[0].Keys()
	seen := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		seen[c] = struct{}{}
	}

	var extra []string
	for _, row := range rows[1:] {
		for _, k := range row.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)

	return append(cols, extra...)
}

var isoDateTime = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})[Tt ](\d{2}:\d{2})`)

// ToLocalDateTime shortens ISO datetime strings to "YYYY-MM-DD HH:MM".
// Other values are returned unchanged.
func ToLocalDateTime(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if m := isoDateTime.FindStringSubmatch(s); m != nil {
		return m[1] + " " + m[2]
	}
	return s
}

// DraftForEdit seeds an edit draft from row with datetimes shortened.
func DraftForEdit(row domain.Row) crud.Draft {
	d := make(crud.Draft, row.Len())
	for _, k := range row.Keys() {
		v, _ := row.Get(k)
		d[k] = ToLocalDateTime(v)
	}
	return d
}

// UpdatePayload removes primary-key fields from an edit payload.
func UpdatePayload(d crud.Draft, pk []string) crud.Draft {
	out := d.Clone()
	for _, k := range pk {
		delete(out, k)
	}
	return out
}

// FormatCell renders a value for display: nil as a dash, datetimes shortened,
// objects as JSON.
func FormatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return "—"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case string:
		return ToLocalDateTime(t).(string)
	case json.Number:
		return t.String()
	case map[string]any, []any, domain.Row:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return formatKey(t)
	}
}
