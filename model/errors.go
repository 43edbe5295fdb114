package model

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedTag is returned when a field's tag annotation cannot be tokenized.
	ErrMalformedTag = errors.New("malformed tag")
	// ErrMalformedField is returned when a line inside a struct is not a name/type field line.
	ErrMalformedField = errors.New("malformed field")
	// ErrFileReadFailed is returned when a source file or directory cannot be read.
	ErrFileReadFailed = errors.New("file read failed")
	// ErrDuplicateDeclaration is returned for a struct name declared more than once when duplicates are not allowed.
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
)

// TagError describes where tokenizing a tag string stopped.
type TagError struct {
	Input    string
	Offset   int
	Fragment string
	Reason   string
}

func (e *TagError) Error() string {
	return fmt.Sprintf("%v: %s at offset %d near %q", ErrMalformedTag, e.Reason, e.Offset, e.Fragment)
}

func (e *TagError) Unwrap() error {
	return ErrMalformedTag
}

// SyntaxError attributes a parse failure to a file and line.
type SyntaxError struct {
	Kind error
	File string
	Line int
	Text string
	Err  error
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v: %q", e.File, e.Line, e.Kind, e.Text)
}

func (e *SyntaxError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// DuplicateError reports a struct name that was declared again in a later file.
type DuplicateError struct {
	Duplicate
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%v: %s declared in %s and again in %s", ErrDuplicateDeclaration, e.Name, e.Previous, e.Current)
}

func (e *DuplicateError) Unwrap() error {
	return ErrDuplicateDeclaration
}
