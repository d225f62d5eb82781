package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Row is one backend entity as displayed in a list screen. Its shape is whatever the
// backend returned for that collection.
type Row map[string]any

// Value looks up a field, following dotted paths into nested objects
// ("property.name"). The second result is false when any segment is missing.
func (r Row) Value(field string) (any, bool) {
	if r == nil {
		return nil, false
	}
	if v, ok := r[field]; ok {
		return v, true
	}
	if !strings.Contains(field, ".") {
		return nil, false
	}
	var cur any = map[string]any(r)
	for _, part := range strings.Split(field, ".") {
		switch m := cur.(type) {
		case map[string]any:
			next, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = next
		case Row:
			next, ok := m[part]
			if !ok {
				return nil, false
			}
			cur = next
		default:
			return nil, false
		}
	}
	return cur, true
}

// String returns the field rendered as text. Absent and null fields are "".
func (r Row) String(field string) string {
	v, ok := r.Value(field)
	if !ok {
		return ""
	}
	return Stringify(v)
}

// ID returns the row's "id" field as text.
func (r Row) ID() string {
	return r.String("id")
}

// Stringify renders a decoded JSON value the way a list cell shows it.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Text is like String but yields "" for nested objects, arrays, false and zero,
// so free-text search only ever matches populated scalar values.
func (r Row) Text(field string) string {
	v, ok := r.Value(field)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case map[string]any, Row, []any:
		return ""
	case bool:
		if !t {
			return ""
		}
	case float64:
		if t == 0 {
			return ""
		}
	case float32:
		if t == 0 {
			return ""
		}
	case int:
		if t == 0 {
			return ""
		}
	case int64:
		if t == 0 {
			return ""
		}
	case json.Number:
		if f, err := t.Float64(); err == nil && f == 0 {
			return ""
		}
	}
	return Stringify(v)
}
