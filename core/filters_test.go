package core

import (
	"testing"

	"estateadmin/models"
)

func TestActiveFilter_Matches(t *testing.T) {
	row := models.Row{"status": "Pending"}
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"all", true},
		{"ALL", true},
		{"pending", true},
		{"Pending", true},
		{"replied", false},
	}
	for _, tt := range tests {
		f := ActiveFilter{Field: "status", Value: tt.value}
		if got := f.Matches(row); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestActiveFilter_MissingFieldOnlyPassesAll(t *testing.T) {
	row := models.Row{"name": "x"}
	if !(ActiveFilter{Field: "status", Value: "all"}).Matches(row) {
		t.Fatal("all should pass a row without the field")
	}
	if (ActiveFilter{Field: "status", Value: "pending"}).Matches(row) {
		t.Fatal("pending should not pass a row without the field")
	}
}

func TestScopedFilter_EmptyValueMeansAll(t *testing.T) {
	f := ScopedFilter(models.FilterDimension{Name: "inquiry", Field: "status"}, "")
	if f.Value != models.FilterAll || f.Field != "status" {
		t.Fatalf("ScopedFilter = %#v, want status/all", f)
	}
}

func TestRouteFilterValue(t *testing.T) {
	tests := []struct {
		name    string
		current models.FilterSet
		value   string
		want    map[string]string
	}{
		{
			name:  "bedroom option goes to unit",
			value: "2 Bedroom",
			want:  map[string]string{"unit": "2 Bedroom", "career": "all", "faq": "all", "inquiry": "all", "type": "all"},
		},
		{
			name:  "first dimension containing the value wins",
			value: "active",
			want:  map[string]string{"unit": "all", "career": "all", "faq": "active", "inquiry": "all", "type": "all"},
		},
		{
			name:  "membership is case sensitive",
			value: "Active",
			want:  map[string]string{"unit": "all", "career": "all", "faq": "all", "inquiry": "all", "type": "Active"},
		},
		{
			name:    "selection resets other listed dimensions",
			current: models.FilterSet{"faq": "active", "career": "broker"},
			value:   "pending",
			want:    map[string]string{"unit": "all", "career": "all", "faq": "all", "inquiry": "pending", "type": "all"},
		},
		{
			name:    "catch-all survives other selections",
			current: models.FilterSet{"type": "Viewing"},
			value:   "broker",
			want:    map[string]string{"unit": "all", "career": "broker", "faq": "all", "inquiry": "all", "type": "Viewing"},
		},
		{
			name:    "all resets listed dimensions only",
			current: models.FilterSet{"unit": "Studio", "type": "Viewing"},
			value:   "all",
			want:    map[string]string{"unit": "all", "career": "all", "faq": "all", "inquiry": "all", "type": "Viewing"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RouteFilterValue(LegacyDimensions, tt.current, tt.value)
			for dim, want := range tt.want {
				if got.Active(dim) != want {
					t.Errorf("%s = %q, want %q", dim, got.Active(dim), want)
				}
			}
		})
	}
}

func TestRouteFilterValue_DoesNotModifyInput(t *testing.T) {
	current := models.FilterSet{"faq": "active"}
	RouteFilterValue(LegacyDimensions, current, "pending")
	if current["faq"] != "active" {
		t.Fatalf("input set modified: %v", current)
	}
}

func TestActiveFilters_CombineAcrossDimensions(t *testing.T) {
	rows := []models.Row{
		{"id": 1, "status": "active", "type": "Viewing"},
		{"id": 2, "status": "active", "type": "Call"},
		{"id": 3, "status": "in-active", "type": "Viewing"},
	}
	set := RouteFilterValue(LegacyDimensions, models.FilterSet{}, "Viewing")
	set = RouteFilterValue(LegacyDimensions, set, "active")

	st := models.NewViewState(nil)
	got := ComputeVisibleRows(rows, nil, st, nil, ActiveFilters(LegacyDimensions, set))
	if got.TotalMatched != 1 || got.PageRows[0].ID() != "1" {
		t.Fatalf("matched %v, want only row 1", got.PageRows)
	}
}
