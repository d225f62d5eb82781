package core

import (
	"strings"

	"estateadmin/models"
)

// ActiveFilter is one discriminator-field inclusion test bound to its current value.
type ActiveFilter struct {
	Field string
	Value string
}

// Matches reports whether the row passes this filter. The reserved value "all"
// (or an empty value) lets every row through; otherwise the row's field must equal
// the value, ignoring case.
func (f ActiveFilter) Matches(row models.Row) bool {
	if f.Value == "" || strings.EqualFold(f.Value, models.FilterAll) {
		return true
	}
	return strings.EqualFold(row.String(f.Field), f.Value)
}

// ScopedFilter binds a value to one explicitly named dimension. Screens that show a
// single dropdown use this, so a value shared by two dimensions cannot misroute.
func ScopedFilter(dim models.FilterDimension, value string) ActiveFilter {
	if value == "" {
		value = models.FilterAll
	}
	return ActiveFilter{Field: dim.Field, Value: value}
}

// LegacyDimensions is the shared-dropdown layout used by the generic table: one
// selector feeding five dimensions, resolved by which value list contains the
// selection. The last entry has no values and receives anything unrecognised.
var LegacyDimensions = []models.FilterDimension{
	{Name: "unit", Field: "property_type", Values: BedroomOptions},
	{Name: "career", Field: "position", Values: []string{"referrer", "sub-agent", "broker", "partner"}},
	{Name: "faq", Field: "status", Values: []string{"active", "in-active"}},
	{Name: "inquiry", Field: "status", Values: []string{"pending", "replied"}},
	{Name: "type", Field: "type"},
}

// BedroomOptions are the unit-type values offered by the properties screen.
var BedroomOptions = []string{
	"1 Bedroom",
	"2 Bedroom",
	"3 Bedroom",
	"Tandem Unit",
	"Studio",
	"Studio w/ Parking",
	"1 Bedroom w/ Parking",
	"2 Bedroom w/ Parking",
	"3 Bedroom w/ Parking",
	"Tandem Unit w/ Parking",
	"Studio w/ Tandem Parking",
	"1 Bedroom w/ Tandem Parking",
	"2 Bedroom w/ Tandem Parking",
	"3 Bedroom w/ Tandem Parking",
	"Tandem Unit w/ Tandem Parking",
	"1 Parking Slot",
	"Tandem Parking",
}

// RouteFilterValue applies one selection from the shared dropdown to the current
// filter set and returns the new set. Every dimension with a value list is reset
// to "all" first; the selection then goes to the first dimension whose list
// contains it. "all" goes to the first dimension. Anything else lands on the
// catch-all dimension, which is never reset by other selections.
//
// Membership is exact and case-sensitive, so "Active" and "active" route
// differently. Prefer ScopedFilter for new screens.
func RouteFilterValue(dims []models.FilterDimension, current models.FilterSet, value string) models.FilterSet {
	next := models.FilterSet{}
	for k, v := range current {
		next[k] = v
	}

	var catchAll *models.FilterDimension
	for i := range dims {
		if len(dims[i].Values) == 0 {
			if catchAll == nil {
				catchAll = &dims[i]
			}
			continue
		}
		next[dims[i].Name] = models.FilterAll
	}

	if value == models.FilterAll {
		for _, d := range dims {
			if len(d.Values) > 0 {
				next[d.Name] = models.FilterAll
				return next
			}
		}
		return next
	}

	for _, d := range dims {
		if contains(d.Values, value) {
			next[d.Name] = value
			return next
		}
	}
	if catchAll != nil {
		next[catchAll.Name] = value
	}
	return next
}

// ActiveFilters expands a filter set into one predicate per dimension.
func ActiveFilters(dims []models.FilterDimension, set models.FilterSet) []ActiveFilter {
	filters := make([]ActiveFilter, 0, len(dims))
	for _, d := range dims {
		filters = append(filters, ActiveFilter{Field: d.Field, Value: set.Active(d.Name)})
	}
	return filters
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
