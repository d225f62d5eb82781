package core

import (
	"strings"

	"estateadmin/models"
)

// DefaultSearchFields are the row fields every list screen searches unless the
// screen declares its own set. Fields a row does not carry are treated as "".
var DefaultSearchFields = []string{
	"first_name",
	"last_name",
	"email",
	"phone",
	"property_name",
	"unit_type",
	"type",
	"properties",
	"property_level",
	"property_location",
	"property.name",
	"position",
	"question",
	"answer",
	"headline",
	"name",
	"date",
	"content",
	"message",
	"property",
	"address",
}

// DashboardSearchFields is the narrower set used by the dashboard overview tables.
var DashboardSearchFields = []string{
	"first_name",
	"last_name",
	"email",
	"phone",
	"property_name",
	"unit_type",
	"name",
	"type",
	"properties",
}

// ComputeVisibleRows derives the page of rows to render from a collection and the
// current view state. Search and every filter dimension combine with AND, source
// order is preserved and rows is never modified. An out-of-range page yields an
// empty page rather than an error.
func ComputeVisibleRows(rows []models.Row, columns []models.Column, state models.ViewState, searchableFields []string, filters []ActiveFilter) models.TableResult {
	term := strings.ToLower(state.SearchTerm)

	matched := make([]models.Row, 0, len(rows))
	for _, row := range rows {
		if !matchesSearch(row, term, searchableFields) {
			continue
		}
		if !matchesFilters(row, filters) {
			continue
		}
		matched = append(matched, row)
	}

	perPage := state.RowsPerPage
	if perPage <= 0 {
		perPage = models.DefaultRowsPerPage
	}

	totalPages := len(matched) / perPage
	if len(matched)%perPage != 0 {
		totalPages++
	}

	result := models.TableResult{
		PageRows:     []models.Row{},
		TotalPages:   totalPages,
		TotalMatched: len(matched),
	}

	// Compare page indices before multiplying so huge values cannot overflow.
	if state.CurrentPage < 1 || len(matched) == 0 || state.CurrentPage-1 > (len(matched)-1)/perPage {
		return result
	}
	start := (state.CurrentPage - 1) * perPage
	end := len(matched)
	if perPage < end-start {
		end = start + perPage
	}
	result.PageRows = matched[start:end]
	return result
}

func matchesSearch(row models.Row, term string, fields []string) bool {
	if term == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(row.Text(field)), term) {
			return true
		}
	}
	return false
}

func matchesFilters(row models.Row, filters []ActiveFilter) bool {
	for _, f := range filters {
		if !f.Matches(row) {
			return false
		}
	}
	return true
}

// VisibleColumns returns the columns whose keys are selected in the view state, in
// their declared order. An empty selection is valid and yields no columns.
func VisibleColumns(columns []models.Column, state models.ViewState) []models.Column {
	visible := make([]models.Column, 0, len(columns))
	for _, c := range columns {
		if state.VisibleColumnKeys[c.Key] {
			visible = append(visible, c)
		}
	}
	return visible
}

// Pager describes the navigation around one computed page.
type Pager struct {
	Page         int
	PerPage      int
	TotalPages   int
	TotalMatched int
}

// NewPager builds a Pager from the state that produced result.
func NewPager(state models.ViewState, result models.TableResult) Pager {
	perPage := state.RowsPerPage
	if perPage <= 0 {
		perPage = models.DefaultRowsPerPage
	}
	return Pager{
		Page:         state.CurrentPage,
		PerPage:      perPage,
		TotalPages:   result.TotalPages,
		TotalMatched: result.TotalMatched,
	}
}

func (p Pager) HasPrev() bool { return p.Page > 1 }

func (p Pager) HasNext() bool { return p.Page < p.TotalPages }

func (p Pager) PrevPage() int { return p.Page - 1 }

func (p Pager) NextPage() int { return p.Page + 1 }

// StartIndex is the 1-based position of the first row on the page, 0 when empty.
func (p Pager) StartIndex() int {
	if p.Page < 1 || p.Page > p.TotalPages {
		return 0
	}
	return (p.Page-1)*p.PerPage + 1
}

// EndIndex is the 1-based position of the last row on the page, 0 when empty.
func (p Pager) EndIndex() int {
	if p.StartIndex() == 0 {
		return 0
	}
	before := (p.Page - 1) * p.PerPage
	if p.PerPage > p.TotalMatched-before {
		return p.TotalMatched
	}
	return before + p.PerPage
}
