package model

import "slices"

// Field represents one member line of a parsed struct
type Field struct {
	Name    string `json:"name"`              // Struct field name
	Type    string `json:"type"`              // Raw, unresolved type text
	Tags    Tags   `json:"tags"`              // Parsed tag annotation
	Comment string `json:"comment,omitempty"` // Trailing // comment
	Line    int    `json:"line"`              // 1-based source line
}

// Internal reports whether the ci tag lists the "internal" marker.
func (f *Field) Internal() bool {
	return slices.Contains(f.Tags.List("ci"), "internal")
}

// Skip returns the skip tag value and whether the tag is present.
func (f *Field) Skip() (string, bool) {
	return f.Tags.Get("skip")
}

// Binding returns the column name from the first of keys present on the field.
func (f *Field) Binding(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := f.Tags.Get(k); ok {
			return v, true
		}
	}
	return "", false
}
