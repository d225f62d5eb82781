package core

import (
	"encoding/json"
	"errors"
	"strings"
)

// ValidationError carries the message shown to the admin for an incomplete form.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidation reports whether err is a form validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

var propertyDetailFields = []string{
	"property_id",
	"property_location",
	"property_type",
	"property_size",
	"property_price",
	"property_building",
	"property_level",
	"property_description",
}

// ValidatePropertyForm checks the multi-step property form before it is sent.
// List-valued fields (amenities, furnishing items) arrive JSON encoded.
func ValidatePropertyForm(fields map[string]string, hasPlanImage bool) error {
	for _, f := range propertyDetailFields {
		if strings.TrimSpace(fields[f]) == "" {
			return &ValidationError{Message: "Please fill in all the fields in the Property Details."}
		}
	}
	if len(jsonList(fields["property_amenities"])) == 0 {
		return &ValidationError{Message: "Please select at least one amenity to proceed."}
	}
	status := strings.TrimSpace(fields["property_furnishing_status"])
	if status == "" {
		return &ValidationError{Message: "Please select a furnishing status."}
	}
	if (status == "Semi-Furnished" || status == "Fully Furnished") && len(jsonList(fields["property_furnishing_items"])) == 0 {
		return &ValidationError{Message: "Please add at least one furnishing item."}
	}
	if !hasPlanImage && strings.TrimSpace(fields["property_plan_image"]) == "" {
		return &ValidationError{Message: "Please complete all the fields."}
	}
	return nil
}

func jsonList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	out := items[:0]
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			out = append(out, it)
		}
	}
	return out
}
