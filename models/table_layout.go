package models

// Column describes one column of a list screen.
type Column struct {
	Key    string           `json:"key"`
	Label  string           `json:"label"`
	Render func(Row) string `json:"-"` // optional; the raw field is shown when nil
}

// Cell renders the column for a row.
func (c Column) Cell(r Row) string {
	if c.Render != nil {
		return c.Render(r)
	}
	return r.String(c.Key)
}

// FilterOption is one selectable value of a discriminator field.
type FilterOption struct {
	Key   string `json:"key" toml:"key"`
	Label string `json:"label" toml:"label"`
}

// FilterAll is the reserved option key that disables a filter dimension.
const FilterAll = "all"

// DefaultRowsPerPage is the page size a list screen starts with.
const DefaultRowsPerPage = 10

// MaxRowsPerPage bounds the page size accepted from a request.
const MaxRowsPerPage = 500

// ViewState is the ephemeral search/filter/pagination/visibility state of one list
// screen instance. It is rebuilt on every visit and never stored.
type ViewState struct {
	SearchTerm        string          `json:"search"`
	CurrentPage       int             `json:"page"`
	RowsPerPage       int             `json:"per_page"`
	VisibleColumnKeys map[string]bool `json:"columns"`
	ActiveFilterValue string          `json:"filter"`
}

// NewViewState returns the defaults: empty search, page 1, 10 rows per page,
// every column visible and no filter.
func NewViewState(columns []Column) ViewState {
	visible := make(map[string]bool, len(columns))
	for _, c := range columns {
		visible[c.Key] = true
	}
	return ViewState{
		CurrentPage:       1,
		RowsPerPage:       DefaultRowsPerPage,
		VisibleColumnKeys: visible,
		ActiveFilterValue: FilterAll,
	}
}

// TableResult is the slice of a collection to render for a ViewState.
type TableResult struct {
	PageRows     []Row `json:"page_rows"`
	TotalPages   int   `json:"total_pages"`
	TotalMatched int   `json:"total_matched"`
}
