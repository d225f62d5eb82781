package core

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"estateadmin/models"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts the date shapes the backend emits.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a backend date as "January 2, 2006".
func FormatDate(s string) string {
	if strings.TrimSpace(s) == "" {
		return "No date available"
	}
	t, ok := ParseDate(s)
	if !ok {
		return "Invalid date"
	}
	return t.Format("January 2, 2006")
}

// FormatTime renders an "HH:MM[:SS]" time of day as "03:04 PM".
func FormatTime(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "No time available"
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "Invalid time"
	}
	var hms [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "Invalid time"
		}
		hms[i] = n
	}
	if hms[0] < 0 || hms[0] > 23 || hms[1] < 0 || hms[1] > 59 || hms[2] < 0 || hms[2] > 59 {
		return "Invalid time"
	}
	t := time.Date(2000, 1, 1, hms[0], hms[1], hms[2], 0, time.UTC)
	return t.Format("03:04 PM")
}

// FormatPrice renders an amount as Philippine pesos without decimals, e.g. "₱1,250,000".
// Values that are not numbers are returned unchanged.
func FormatPrice(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return v
	}
	neg := f < 0
	if neg {
		f = -f
	}
	digits := strconv.FormatFloat(f, 'f', 0, 64)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-₱" + b.String()
	}
	return "₱" + b.String()
}

var unitLabels = map[string]string{
	"1": "1BR",
	"2": "2BR",
	"3": "Studio Type",
	"4": "Loft",
}

// UnitLabel maps the numeric unit code stored on a property to its display name.
// Unknown codes are shown as-is.
func UnitLabel(code string) string {
	if l, ok := unitLabels[code]; ok {
		return l
	}
	return code
}

// GroupByMonth buckets rows by the month of field ("January 2025"), newest month
// first. Rows inside a bucket are sorted by date, newest first. Rows with an
// unparseable date are collected in a trailing "Undated" bucket.
func GroupByMonth(rows []models.Row, field string) []models.RowGroup {
	type dated struct {
		row models.Row
		at  time.Time
	}
	var withDate []dated
	var undated []models.Row
	for _, r := range rows {
		t, ok := ParseDate(r.String(field))
		if !ok {
			undated = append(undated, r)
			continue
		}
		withDate = append(withDate, dated{row: r, at: t})
	}
	sort.SliceStable(withDate, func(i, j int) bool { return withDate[i].at.After(withDate[j].at) })

	var groups []models.RowGroup
	for _, d := range withDate {
		label := d.at.Format("January 2006")
		if n := len(groups); n > 0 && groups[n-1].Label == label {
			groups[n-1].Rows = append(groups[n-1].Rows, d.row)
			continue
		}
		groups = append(groups, models.RowGroup{Label: label, Rows: []models.Row{d.row}})
	}
	if len(undated) > 0 {
		groups = append(groups, models.RowGroup{Label: "Undated", Rows: undated})
	}
	return groups
}
