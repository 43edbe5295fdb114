package model

import (
	"errors"
	"sort"
	"strings"
)

// Attrs holds the key/value pairs read from // @ci comments above a struct
type Attrs map[string]string

// Table returns the bound table name, empty when the struct is not bound.
func (a Attrs) Table() string {
	return a["table"]
}

// Unfilled reports whether the struct opts out of the missing-column check.
func (a Attrs) Unfilled() bool {
	v := a["unfilled"]
	return v == "1" || strings.EqualFold(v, "true")
}

// IgnoreFields returns the plus-separated ignore_fields entries.
func (a Attrs) IgnoreFields() []string {
	var res []string
	for _, p := range strings.Split(a["ignore_fields"], "+") {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}

// Declaration represents a parsed struct definition
type Declaration struct {
	Name   string   `json:"name"`
	Attrs  Attrs    `json:"attrs"`
	Fields []*Field `json:"fields"`
	File   string   `json:"file"`
	Line   int      `json:"line"`
}

// Bound reports whether the declaration carries a table attribute.
func (d *Declaration) Bound() bool {
	return d.Attrs.Table() != ""
}

// Field looks up a field by name.
func (d *Declaration) Field(name string) *Field {
	for _, f := range d.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Duplicate records a declaration that replaced an earlier one of the same name.
type Duplicate struct {
	Name     string `json:"name"`
	Previous string `json:"previous"`
	Current  string `json:"current"`
}

// Registry accumulates declarations across files, keyed by struct name.
// Declarations with a table attribute are merged separately: a later bound
// declaration replaces an earlier bound one, and an unbound declaration
// never displaces a bound one of the same name.
type Registry struct {
	decls      map[string]*Declaration
	bound      map[string]*Declaration
	Duplicates []Duplicate
	Warnings   []Warning
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		decls: make(map[string]*Declaration),
		bound: make(map[string]*Declaration),
	}
}

// Add stores d. It reports whether d replaced an earlier bound declaration,
// which is recorded in Duplicates.
func (r *Registry) Add(d *Declaration) (replaced bool) {
	if !d.Bound() {
		r.decls[d.Name] = d
		return false
	}
	if prev, ok := r.bound[d.Name]; ok {
		r.Duplicates = append(r.Duplicates, Duplicate{
			Name:     d.Name,
			Previous: prev.File,
			Current:  d.File,
		})
		replaced = true
	}
	r.bound[d.Name] = d
	return replaced
}

// AddFile stores every declaration and warning of a parsed file.
func (r *Registry) AddFile(res *FileResult) {
	for _, d := range res.Declarations {
		r.Add(d)
	}
	r.Warnings = append(r.Warnings, res.Warnings...)
}

// Get returns the declaration registered under name, preferring a bound one.
func (r *Registry) Get(name string) (*Declaration, bool) {
	if d, ok := r.bound[name]; ok {
		return d, true
	}
	d, ok := r.decls[name]
	return d, ok
}

// Len returns the number of distinct declaration names.
func (r *Registry) Len() int {
	n := len(r.bound)
	for name := range r.decls {
		if _, ok := r.bound[name]; !ok {
			n++
		}
	}
	return n
}

// Declarations returns one declaration per name ordered by name, preferring
// bound declarations.
func (r *Registry) Declarations() []*Declaration {
	res := make([]*Declaration, 0, r.Len())
	for _, d := range r.bound {
		res = append(res, d)
	}
	for name, d := range r.decls {
		if _, ok := r.bound[name]; !ok {
			res = append(res, d)
		}
	}
	sortByName(res)
	return res
}

// Bound returns the declarations with a table attribute, ordered by name.
func (r *Registry) Bound() []*Declaration {
	res := make([]*Declaration, 0, len(r.bound))
	for _, d := range r.bound {
		res = append(res, d)
	}
	sortByName(res)
	return res
}

func sortByName(decls []*Declaration) {
	sort.Slice(decls, func(i, j int) bool { return decls[i].Name < decls[j].Name })
}

// DuplicateErr joins a DuplicateError for every recorded duplicate.
func (r *Registry) DuplicateErr() error {
	var errs []error
	for _, d := range r.Duplicates {
		errs = append(errs, &DuplicateError{Duplicate: d})
	}
	return errors.Join(errs...)
}
