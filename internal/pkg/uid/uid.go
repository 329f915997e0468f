// Package uid generates identifiers: time-ordered UUID strings for
// correlation and object names, and snowflake int64 ids for rows.
package uid

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates positive int64 identifiers.
type NumberID interface {
	Generate() int64
}
