package core

import (
	"testing"

	"estateadmin/models"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-05", "March 5, 2024"},
		{"2024-03-05T10:30:00Z", "March 5, 2024"},
		{"2024-03-05 10:30:00", "March 5, 2024"},
		{"", "No date available"},
		{"  ", "No date available"},
		{"next tuesday", "Invalid date"},
	}
	for _, tt := range tests {
		if got := FormatDate(tt.in); got != tt.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"14:30", "02:30 PM"},
		{"09:05:00", "09:05 AM"},
		{"00:00", "12:00 AM"},
		{"", "No time available"},
		{"25:00", "Invalid time"},
		{"noon", "Invalid time"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.in); got != tt.want {
			t.Errorf("FormatTime(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1250000", "₱1,250,000"},
		{"1,250,000", "₱1,250,000"},
		{"999", "₱999"},
		{"1000.4", "₱1,000"},
		{"-5000", "-₱5,000"},
		{"", ""},
		{"TBA", "TBA"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnitLabel(t *testing.T) {
	tests := map[string]string{"1": "1BR", "2": "2BR", "3": "Studio Type", "4": "Loft", "9": "9"}
	for in, want := range tests {
		if got := UnitLabel(in); got != want {
			t.Errorf("UnitLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGroupByMonth(t *testing.T) {
	rows := []models.Row{
		{"id": 1, "date": "2024-01-15"},
		{"id": 2, "date": "2024-03-02"},
		{"id": 3, "date": "bogus"},
		{"id": 4, "date": "2024-03-20"},
	}
	groups := GroupByMonth(rows, "date")
	if len(groups) != 3 {
		t.Fatalf("len(groups) = %d, want 3: %#v", len(groups), groups)
	}
	if groups[0].Label != "March 2024" || len(groups[0].Rows) != 2 {
		t.Fatalf("first group = %#v, want March 2024 with 2 rows", groups[0])
	}
	if groups[0].Rows[0].ID() != "4" {
		t.Fatalf("first row in March = %s, want 4", groups[0].Rows[0].ID())
	}
	if groups[1].Label != "January 2024" {
		t.Fatalf("second group = %q, want January 2024", groups[1].Label)
	}
	if groups[2].Label != "Undated" || groups[2].Rows[0].ID() != "3" {
		t.Fatalf("last group = %#v, want Undated with row 3", groups[2])
	}
}
