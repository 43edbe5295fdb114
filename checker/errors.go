package checker

import "errors"

var (
	// ErrInternalFieldMisuse is returned for an internal field without a comment or with a column binding.
	ErrInternalFieldMisuse = errors.New("internal field misuse")
	// ErrMissingBinding is returned for a field that is neither internal nor bound to a column.
	ErrMissingBinding = errors.New("missing binding")
	// ErrUnknownColumn is returned when a bound column does not exist in the schema.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrSecretColumnBound is returned when a field binds a column marked secret.
	ErrSecretColumnBound = errors.New("secret column bound")
	// ErrMissingSerializationTag is returned for a bound field without a serialization tag.
	ErrMissingSerializationTag = errors.New("missing serialization tag")
	// ErrMissingField is returned when a non-secret column has no field accounting for it.
	ErrMissingField = errors.New("missing field")
)

// Violation is one consistency failure between a declaration and the schema.
type Violation struct {
	Kind        error
	Declaration string
	Field       string
	Table       string
	Column      string
	File        string
	Line        int
	Message     string
	pass        int
}

func (v *Violation) Error() string {
	return v.Message
}

func (v *Violation) Unwrap() error {
	return v.Kind
}

// Pass returns 1 for field-to-schema checks and 2 for schema-to-field checks.
func (v *Violation) Pass() int {
	return v.pass
}
