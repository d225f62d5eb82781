package core

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"estateadmin/logger"
	"estateadmin/models"

	"github.com/pelletier/go-toml/v2"
)

// Screen is the configuration that turns the generic table into one admin list
// screen: which backend collection it shows, its columns, what search covers and
// which single dimension its dropdown filters.
type Screen struct {
	Key             string
	Label           string
	Description     string
	Endpoint        string
	Columns         []models.Column
	SearchFields    []string
	Filter          *models.FilterDimension
	FilterOptions   []models.FilterOption
	RowsPerPage     int
	MultipartUpdate bool
}

// HasStatusFilter reports whether the screen shows a filter dropdown.
func (s Screen) HasStatusFilter() bool {
	return s.Filter != nil && len(s.FilterOptions) > 0
}

// NewViewState returns the screen's initial view state.
func (s Screen) NewViewState() models.ViewState {
	st := models.NewViewState(s.Columns)
	if s.RowsPerPage > 0 {
		st.RowsPerPage = s.RowsPerPage
	}
	return st
}

// Filters returns the predicates for the given view state.
func (s Screen) Filters(state models.ViewState) []ActiveFilter {
	if s.Filter == nil {
		return nil
	}
	return []ActiveFilter{ScopedFilter(*s.Filter, state.ActiveFilterValue)}
}

// Compute runs the table view-model for this screen.
func (s Screen) Compute(rows []models.Row, state models.ViewState) models.TableResult {
	fields := s.SearchFields
	if len(fields) == 0 {
		fields = DefaultSearchFields
	}
	return ComputeVisibleRows(rows, s.Columns, state, fields, s.Filters(state))
}

// ViewStateFromQuery builds a view state from query parameters: search, page,
// per_page, filter and columns (comma separated keys). Invalid numbers fall back
// to the defaults and per_page is capped at MaxRowsPerPage. The page is not clamped.
func (s Screen) ViewStateFromQuery(q url.Values) models.ViewState {
	st := s.NewViewState()
	st.SearchTerm = strings.TrimSpace(q.Get("search"))
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		st.CurrentPage = p
	}
	if n, err := strconv.Atoi(q.Get("per_page")); err == nil && n > 0 {
		st.RowsPerPage = min(n, models.MaxRowsPerPage)
	}
	if f := strings.TrimSpace(q.Get("filter")); f != "" {
		st.ActiveFilterValue = f
	}
	if q.Has("columns") {
		st.VisibleColumnKeys = map[string]bool{}
		for _, k := range strings.Split(q.Get("columns"), ",") {
			if k = strings.TrimSpace(k); k != "" {
				st.VisibleColumnKeys[k] = true
			}
		}
	}
	return st
}

func withSuffix(field, suffix string) func(models.Row) string {
	return func(r models.Row) string {
		v := r.String(field)
		if v == "" {
			return ""
		}
		return v + suffix
	}
}

func priceCell(field string) func(models.Row) string {
	return func(r models.Row) string { return FormatPrice(r.String(field)) }
}

func dateCell(field string) func(models.Row) string {
	return func(r models.Row) string { return FormatDate(r.String(field)) }
}

func timeCell(field string) func(models.Row) string {
	return func(r models.Row) string { return FormatTime(r.String(field)) }
}

func fullName(r models.Row) string {
	return strings.TrimSpace(capitalize(r.String("first_name")) + " " + capitalize(r.String("last_name")))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func options(pairs ...string) []models.FilterOption {
	opts := []models.FilterOption{{Key: models.FilterAll, Label: "ALL"}}
	for i := 0; i+1 < len(pairs); i += 2 {
		opts = append(opts, models.FilterOption{Key: pairs[i], Label: pairs[i+1]})
	}
	return opts
}

func bedroomFilterOptions() []models.FilterOption {
	opts := []models.FilterOption{{Key: models.FilterAll, Label: "ALL"}}
	for _, b := range BedroomOptions {
		opts = append(opts, models.FilterOption{Key: b, Label: b})
	}
	return opts
}

// DefaultScreens returns the built-in screen set.
func DefaultScreens() []Screen {
	return []Screen{
		{
			Key:         "properties",
			Label:       "Properties",
			Description: "Manage property listings and unit types.",
			Endpoint:    "property",
			Columns: []models.Column{
				{Key: "name", Label: "Property"},
				{Key: "building", Label: "Building"},
				{Key: "area", Label: "Area", Render: withSuffix("area", " sqm")},
				{Key: "level", Label: "Level"},
				{Key: "min_price", Label: "Price", Render: priceCell("min_price")},
				{Key: "unit_type", Label: "Unit Type"},
			},
			Filter:          &models.FilterDimension{Name: "unit", Field: "property_type"},
			FilterOptions:   bedroomFilterOptions(),
			MultipartUpdate: true,
		},
		{
			Key:         "property",
			Label:       "Master Plan",
			Description: "Overview of property developments and their site progress.",
			Endpoint:    MasterPlanEndpoint,
			Columns: []models.Column{
				{Key: "name", Label: "Property"},
				{Key: "location", Label: "Location"},
				{Key: "percent", Label: "Site Progress", Render: withSuffix("percent", "%")},
				{Key: "status", Label: "Status"},
			},
			SearchFields:    []string{"name", "location", "status"},
			Filter:          &models.FilterDimension{Name: "status", Field: "status"},
			FilterOptions:   options("rfo", "RFO", "pre-selling", "Pre-Selling", "new", "New"),
			MultipartUpdate: true,
		},
		{
			Key:         "units",
			Label:       "Units",
			Description: "Units available under each property.",
			Endpoint:    UnitsEndpoint,
			Columns: []models.Column{
				{Key: "type", Label: "Unit"},
				{Key: "area", Label: "Area", Render: withSuffix("area", " sqm")},
				{Key: "price", Label: "Price", Render: priceCell("price")},
				{Key: "status", Label: "Status"},
			},
			SearchFields:    []string{"type", "area", "price", "status"},
			MultipartUpdate: true,
		},
		{
			Key:         "appointments",
			Label:       "Appointments",
			Description: "Scheduled property viewings.",
			Endpoint:    "appointments",
			Columns: []models.Column{
				{Key: "name", Label: "Name"},
				{Key: "email", Label: "Email"},
				{Key: "phone", Label: "Phone"},
				{Key: "properties", Label: "Property"},
				{Key: "date", Label: "Date", Render: dateCell("date")},
				{Key: "time", Label: "Time", Render: timeCell("time")},
				{Key: "type", Label: "Type"},
				{Key: "status", Label: "Status"},
			},
			SearchFields: DashboardSearchFields,
		},
		{
			Key:         "inquiries",
			Label:       "Inquiries",
			Description: "Messages sent from the public website.",
			Endpoint:    "inquiries",
			Columns: []models.Column{
				{Key: "name", Label: "Name & Email", Render: func(r models.Row) string {
					return fullName(r) + " <" + r.String("email") + ">"
				}},
				{Key: "phone", Label: "Phone"},
				{Key: "property", Label: "Property", Render: func(r models.Row) string {
					if n := r.String("property.name"); n != "" {
						return n
					}
					return r.String("property_name")
				}},
				{Key: "unit", Label: "Unit/PS Type", Render: func(r models.Row) string { return r.String("unit_type") }},
				{Key: "status", Label: "Status"},
			},
			Filter:        &models.FilterDimension{Name: "inquiry", Field: "status"},
			FilterOptions: options("pending", "Pending", "replied", "Replied"),
		},
		{
			Key:         "faqs",
			Label:       "FAQs",
			Description: "Questions and answers shown on the website.",
			Endpoint:    "questions",
			Columns: []models.Column{
				{Key: "questions", Label: "Questions", Render: func(r models.Row) string { return r.String("question") }},
				{Key: "answer", Label: "Answers"},
				{Key: "status", Label: "Status"},
			},
			Filter:        &models.FilterDimension{Name: "faq", Field: "status"},
			FilterOptions: options("active", "Active", "in-active", "In-Active"),
		},
		{
			Key:         "testimonials",
			Label:       "Testimonials",
			Description: "Client testimonials.",
			Endpoint:    "testimonials",
			Columns: []models.Column{
				{Key: "name", Label: "Name"},
				{Key: "message", Label: "Message"},
				{Key: "status", Label: "Status"},
			},
		},
		{
			Key:         "news",
			Label:       "News & Articles",
			Description: "Published news articles.",
			Endpoint:    "articles",
			Columns: []models.Column{
				{Key: "headline", Label: "Headline"},
				{Key: "content", Label: "Content"},
				{Key: "date", Label: "Date", Render: dateCell("date")},
				{Key: "image", Label: "Image"},
			},
			MultipartUpdate: true,
		},
		{
			Key:         "videos",
			Label:       "Videos",
			Description: "Video gallery.",
			Endpoint:    "videos",
			Columns: []models.Column{
				{Key: "name", Label: "Name"},
				{Key: "video", Label: "Video"},
				{Key: "thumbnail", Label: "Thumbnail"},
			},
			SearchFields:    []string{"name"},
			MultipartUpdate: true,
		},
		{
			Key:         "contracts",
			Label:       "Contracts",
			Description: "Downloadable contract documents.",
			Endpoint:    "contracts",
			Columns: []models.Column{
				{Key: "name", Label: "Contract Name"},
				{Key: "image", Label: "Image"},
			},
			SearchFields:    []string{"name"},
			MultipartUpdate: true,
		},
		{
			Key:         "certificates",
			Label:       "Certificates",
			Description: "Awards and certificates.",
			Endpoint:    "certificates",
			Columns: []models.Column{
				{Key: "name", Label: "Name"},
				{Key: "date", Label: "Date", Render: dateCell("date")},
				{Key: "image", Label: "Image"},
			},
			MultipartUpdate: true,
		},
		{
			Key:         "images",
			Label:       "Gallery",
			Description: "Images shown in the website gallery.",
			Endpoint:    "images",
			Columns: []models.Column{
				{Key: "id", Label: "ID"},
				{Key: "image", Label: "Image"},
			},
			SearchFields:    []string{"image"},
			MultipartUpdate: true,
		},
		{
			Key:         "applications",
			Label:       "Career Applications",
			Description: "Applications submitted through the careers page.",
			Endpoint:    "applications",
			Columns: []models.Column{
				{Key: "name", Label: "Name"},
				{Key: "position", Label: "Position"},
				{Key: "email", Label: "Email"},
				{Key: "phone", Label: "Phone"},
				{Key: "address", Label: "Address"},
				{Key: "resume", Label: "Resume"},
			},
			Filter:        &models.FilterDimension{Name: "career", Field: "position"},
			FilterOptions: options("referrer", "Referrer", "sub-agent", "Sub-agent", "broker", "Broker", "partner", "Partner"),
		},
		{
			Key:         "planners",
			Label:       "Planners",
			Description: "Downloadable planner items.",
			Endpoint:    "items",
			Columns: []models.Column{
				{Key: "name", Label: "Name"},
				{Key: "image", Label: "Image"},
			},
			SearchFields:    []string{"name"},
			MultipartUpdate: true,
		},
		{
			Key:         "subscribers",
			Label:       "Subscribers",
			Description: "Newsletter subscribers.",
			Endpoint:    "subscribers",
			Columns: []models.Column{
				{Key: "email", Label: "Email"},
				{Key: "created_at", Label: "Subscribed", Render: dateCell("created_at")},
			},
			SearchFields: []string{"email"},
		},
	}
}

// Registry holds the configured screens by key.
type Registry struct {
	mu      sync.RWMutex
	screens map[string]Screen
}

// NewRegistry builds a registry from screens.
func NewRegistry(screens []Screen) *Registry {
	r := &Registry{screens: make(map[string]Screen, len(screens))}
	for _, s := range screens {
		r.screens[s.Key] = s
	}
	return r
}

// Get returns the screen registered under key.
func (r *Registry) Get(key string) (Screen, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.screens[key]
	return s, ok
}

// All returns every screen sorted by key.
func (r *Registry) All() []Screen {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Screen, 0, len(r.screens))
	for _, s := range r.screens {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ByEndpoint finds the screen backed by a backend collection.
func (r *Registry) ByEndpoint(endpoint string) (Screen, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.screens {
		if s.Endpoint == endpoint {
			return s, true
		}
	}
	return Screen{}, false
}

// ScreenOverride is one [screens.<key>] table of the overrides file.
type ScreenOverride struct {
	Label         string                `toml:"label"`
	Description   string                `toml:"description"`
	RowsPerPage   int                   `toml:"rows_per_page"`
	SearchFields  []string              `toml:"search_fields"`
	FilterField   string                `toml:"filter_field"`
	FilterOptions []models.FilterOption `toml:"filter_options"`
}

type overridesFile struct {
	Screens map[string]ScreenOverride `toml:"screens"`
}

// LoadOverrides applies a TOML overrides file on top of the registry. A missing
// file is not an error. Unknown screen keys are logged and skipped.
func (r *Registry) LoadOverrides(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("Screen overrides file %s not found, using built-in screens.", path)
			return nil
		}
		return fmt.Errorf("read screen overrides: %w", err)
	}
	return r.ApplyOverrides(data)
}

// ApplyOverrides parses TOML override data and applies it.
func (r *Registry) ApplyOverrides(data []byte) error {
	var file overridesFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse screen overrides: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for key, o := range file.Screens {
		s, ok := r.screens[key]
		if !ok {
			logger.Warn("Screen overrides: unknown screen %q, skipping.", key)
			continue
		}
		if o.Label != "" {
			s.Label = o.Label
		}
		if o.Description != "" {
			s.Description = o.Description
		}
		if o.RowsPerPage > 0 {
			s.RowsPerPage = o.RowsPerPage
		}
		if len(o.SearchFields) > 0 {
			s.SearchFields = o.SearchFields
		}
		if o.FilterField != "" {
			name := key
			if s.Filter != nil {
				name = s.Filter.Name
			}
			s.Filter = &models.FilterDimension{Name: name, Field: o.FilterField}
		}
		if len(o.FilterOptions) > 0 {
			s.FilterOptions = o.FilterOptions
		}
		r.screens[key] = s
		logger.Info("Screen overrides applied to %q.", key)
	}
	return nil
}
