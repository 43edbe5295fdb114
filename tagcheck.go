// Package tagcheck re-exports the pieces needed to run a consistency check
// from Go code, such as a project's own test suite.
package tagcheck

import (
	"github.com/shrek82/tagcheck/checker"
	"github.com/shrek82/tagcheck/model"
	"github.com/shrek82/tagcheck/schema"
)

// Re-export model types and functions
type Registry = model.Registry
type Declaration = model.Declaration
type Field = model.Field
type LoadOptions = model.LoadOptions
type ParseOptions = model.ParseOptions

var (
	LoadDirs  = model.LoadDirs
	ParseFile = model.ParseFile
)

// Re-export schema types and functions
type Column = schema.Column
type List = schema.List
type Source = schema.Source
type FileSource = schema.FileSource
type HTTPSource = schema.HTTPSource
type DBSource = schema.DBSource

var (
	NewList = schema.NewList
	Decode  = schema.Decode
	Encode  = schema.Encode
)

// Re-export checker types and functions
type Options = checker.Options
type Report = checker.Report
type Violation = checker.Violation

var (
	Check          = checker.Check
	DefaultOptions = checker.DefaultOptions

	// Violation kinds
	ErrInternalFieldMisuse     = checker.ErrInternalFieldMisuse
	ErrMissingBinding          = checker.ErrMissingBinding
	ErrUnknownColumn           = checker.ErrUnknownColumn
	ErrSecretColumnBound       = checker.ErrSecretColumnBound
	ErrMissingSerializationTag = checker.ErrMissingSerializationTag
	ErrMissingField            = checker.ErrMissingField
)
