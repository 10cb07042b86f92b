package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

// timeFormat is the textual timestamp format stored in SQLite. It is fixed
// width so that ORDER BY on the text column is chronological.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// toInt converts a filter value to int.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// whereClause accumulates SQL conditions from a Filter.
type whereClause struct {
	conditions []string
	args       []any
}

// equal adds "column = ?" when key is present in filter. Returns
// ErrInvalidFilter when the value is not a string.
func (w *whereClause) equal(filter types.Filter, key, column string) error {
	v, ok := filter[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return types.ErrInvalidFilter
	}
	w.conditions = append(w.conditions, column+" = ?")
	w.args = append(w.args, s)
	return nil
}

func (w *whereClause) String() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conditions, " AND ")
}

// pagination renders LIMIT and OFFSET clauses from a Filter.
func pagination(filter types.Filter) (string, error) {
	var out string
	if v, ok := filter["limit"]; ok {
		l, ok := toInt(v)
		if !ok {
			return "", types.ErrInvalidFilter
		}
		if l > 0 {
			out += fmt.Sprintf(" LIMIT %d", l)
		}
	}
	if v, ok := filter["offset"]; ok {
		o, ok := toInt(v)
		if !ok {
			return "", types.ErrInvalidFilter
		}
		if o > 0 {
			if out == "" {
				out = " LIMIT -1"
			}
			out += fmt.Sprintf(" OFFSET %d", o)
		}
	}
	return out, nil
}
