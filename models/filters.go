package models

// FilterDimension is one discriminator-field inclusion test, e.g. unit type or status.
// Values lists the option keys that belong to this dimension when one dropdown is
// shared between several dimensions; an empty list marks the catch-all dimension.
type FilterDimension struct {
	Name   string   `json:"name" toml:"name"`
	Field  string   `json:"field" toml:"field"`
	Values []string `json:"values,omitempty" toml:"values"`
}

// FilterSet holds the active value of every dimension, keyed by dimension name.
// A missing entry behaves like FilterAll.
type FilterSet map[string]string

// Active returns the dimension's active value, FilterAll when unset.
func (f FilterSet) Active(name string) string {
	if v, ok := f[name]; ok && v != "" {
		return v
	}
	return FilterAll
}
