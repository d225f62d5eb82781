package models

import (
	"encoding/json"
	"testing"
)

func TestRow_Value(t *testing.T) {
	r := Row{
		"id":       float64(12),
		"property": map[string]any{"name": "Alder", "unit": Row{"floor": float64(3)}},
		"a.b":      "literal",
		"note":     nil,
	}
	tests := []struct {
		field  string
		want   string
		wantOK bool
	}{
		{"id", "12", true},
		{"property.name", "Alder", true},
		{"property.unit.floor", "3", true},
		{"a.b", "literal", true},
		{"note", "", true},
		{"property.missing", "", false},
		{"id.deeper", "", false},
		{"absent", "", false},
	}
	for _, tt := range tests {
		v, ok := r.Value(tt.field)
		if ok != tt.wantOK || Stringify(v) != tt.want {
			t.Errorf("Value(%q) = %v, %v; want %q, %v", tt.field, v, ok, tt.want, tt.wantOK)
		}
	}
	var nilRow Row
	if _, ok := nilRow.Value("id"); ok {
		t.Fatal("nil row reported a value")
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{true, "true"},
		{float64(5000000), "5000000"},
		{float64(2.5), "2.5"},
		{7, "7"},
		{int64(9), "9"},
		{json.Number("42"), "42"},
		{[]any{"Pool", "Gym"}, `["Pool","Gym"]`},
	}
	for _, tt := range tests {
		if got := Stringify(tt.in); got != tt.want {
			t.Errorf("Stringify(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRow_TextSkipsContainers(t *testing.T) {
	r := Row{"property": map[string]any{"name": "Alder"}, "tags": []any{"a"}, "name": "Ana"}
	if got := r.Text("property"); got != "" {
		t.Errorf("Text(property) = %q, want empty", got)
	}
	if got := r.Text("tags"); got != "" {
		t.Errorf("Text(tags) = %q, want empty", got)
	}
	if got := r.Text("property.name"); got != "Alder" {
		t.Errorf("Text(property.name) = %q", got)
	}
	if got := r.String("property"); got != `{"name":"Alder"}` {
		t.Errorf("String(property) = %q", got)
	}
}

func TestRow_TextSkipsFalseAndZero(t *testing.T) {
	r := Row{
		"featured": false,
		"approved": true,
		"floor":    float64(0),
		"units":    float64(10),
		"count":    0,
		"rank":     json.Number("0"),
	}
	tests := []struct {
		field string
		want  string
	}{
		{"featured", ""},
		{"approved", "true"},
		{"floor", ""},
		{"units", "10"},
		{"count", ""},
		{"rank", ""},
	}
	for _, tt := range tests {
		if got := r.Text(tt.field); got != tt.want {
			t.Errorf("Text(%s) = %q, want %q", tt.field, got, tt.want)
		}
	}
	if got := r.String("floor"); got != "0" {
		t.Errorf("String(floor) = %q, want 0 for display", got)
	}
}
