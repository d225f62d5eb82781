package models

// ErrorResponse is a generic error response structure for API
type ErrorResponse struct {
	Message string `json:"message" example:"Error message describing the issue"`
}

// MessageResponse is returned by endpoints that only report an outcome.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// RecordsResponse mirrors the collection envelope used by the backend API.
type RecordsResponse struct {
	Records []Row `json:"records"`
}

// ScreenResponse is the JSON view of one list screen.
type ScreenResponse struct {
	Screen        string         `json:"screen"`
	Label         string         `json:"label"`
	Description   string         `json:"description"`
	Columns       []Column       `json:"columns"`
	FilterOptions []FilterOption `json:"filter_options,omitempty"`
	State         ViewState      `json:"state"`
	Page          int            `json:"page"`
	PerPage       int            `json:"per_page"`
	TotalRecords  int            `json:"total_records"`
	TotalMatched  int            `json:"total_matched"`
	TotalPages    int            `json:"total_pages"`
	Records       []Row          `json:"records"`
}
