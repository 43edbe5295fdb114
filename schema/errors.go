package schema

import "errors"

var (
	// ErrSchemaFetchFailed is returned when a schema source cannot be read.
	ErrSchemaFetchFailed = errors.New("schema fetch failed")
	// ErrInvalidSchema is returned when loaded columns are malformed.
	ErrInvalidSchema = errors.New("invalid schema")
)
