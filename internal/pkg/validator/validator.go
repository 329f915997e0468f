// Package validator checks request and usecase input structs declared with
// `validate:"..."` tags.
package validator

// Validator validates a struct. Failures are returned as V10ValidationError
// keyed by snake_case field name.
type Validator interface {
	Validate(data any) error
}
