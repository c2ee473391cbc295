package admin

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/devinci/portal/internal/domain"
)

// RowIDSeparator joins primary-key values into a row id.
const RowIDSeparator = ":"

// KeyValues returns the primary-key values of row as strings.
// It reports false when pk is empty or any key is missing or nil.
func KeyValues(row domain.Row, pk []string) ([]string, bool) {
	if len(pk) == 0 {
		return nil, false
	}
	out := make([]string, 0, len(pk))
	for _, key := range pk {
		v, ok := row.Get(key)
		if !ok || v == nil {
			return nil, false
		}
		out = append(out, formatKey(v))
	}
	return out, true
}

// BuildRowID joins the primary-key values of row with RowIDSeparator.
func BuildRowID(row domain.Row, pk []string) (string, bool) {
	parts, ok := KeyValues(row, pk)
	if !ok {
		return "", false
	}
	return JoinRowID(parts), true
}

// JoinRowID joins key parts with RowIDSeparator.
func JoinRowID(parts []string) string {
	return strings.Join(parts, RowIDSeparator)
}

// SplitRowID splits id back into n key parts. A part count other than n is
// rejected; n <= 0 accepts any count.
func SplitRowID(id string, n int) ([]string, error) {
	parts := strings.Split(id, RowIDSeparator)
	if n > 0 && len(parts) != n {
		return nil, fmt.Errorf("%w: %q has %d part(s), want %d", domain.ErrInvalidRowID, id, len(parts), n)
	}
	return parts, nil
}

func formatKey(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
