// Package uid provides identifier generators.
package uid

// StringID generates opaque string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates sortable numeric identifiers.
type NumberID interface {
	Generate() int64
}
