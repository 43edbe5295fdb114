package checker

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shrek82/tagcheck/logger"
	"github.com/shrek82/tagcheck/model"
	"github.com/shrek82/tagcheck/schema"
)

// Options tunes which tags are consulted and how failures are collected.
type Options struct {
	// BindingTags are the tag keys naming a field's column, first present wins.
	BindingTags []string
	// SerializationTag must be present on every bound field.
	SerializationTag string
	// FailFast stops at the first violation.
	FailFast bool
	Logger   logger.Logger
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		BindingTags:      []string{"db"},
		SerializationTag: "json",
	}
}

func (o *Options) normalize() {
	if len(o.BindingTags) == 0 {
		o.BindingTags = []string{"db"}
	}
	if o.SerializationTag == "" {
		o.SerializationTag = "json"
	}
	if o.Logger == nil {
		o.Logger = logger.Discard()
	}
}

// Report is the outcome of one check run.
type Report struct {
	// Checked lists the table-bound declarations, ordered by name.
	Checked    []string
	Violations []*Violation
}

// OK reports whether the run found no violations.
func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

// Err joins every violation, or returns nil.
func (r *Report) Err() error {
	errs := make([]error, len(r.Violations))
	for i, v := range r.Violations {
		errs[i] = v
	}
	return errors.Join(errs...)
}

type run struct {
	opts       Options
	list       *schema.List
	violations []*Violation
}

// errStop ends a fail-fast run.
var errStop = errors.New("stop")

func (c *run) add(v *Violation) error {
	c.violations = append(c.violations, v)
	c.opts.Logger.Debug("violation: %s", v.Message)
	if c.opts.FailFast {
		return errStop
	}
	return nil
}

// Check reconciles the table-bound declarations of reg against list in
// two passes: every field must map to a schema column, and every
// non-secret column of a bound table must be accounted for by a field.
func Check(reg *model.Registry, list *schema.List, opts Options) *Report {
	opts.normalize()
	c := &run{opts: opts, list: list}

	decls := reg.Bound()
	report := &Report{}
	for _, d := range decls {
		report.Checked = append(report.Checked, d.Name)
	}

	if err := c.fieldsToSchema(decls); err == nil {
		c.schemaToFields(decls)
	}

	if !opts.FailFast {
		order := make(map[string]int, len(decls))
		for i, d := range decls {
			order[d.Name] = i
		}
		sort.SliceStable(c.violations, func(i, j int) bool {
			return order[c.violations[i].Declaration] < order[c.violations[j].Declaration]
		})
	}
	report.Violations = c.violations
	return report
}

func (c *run) fieldsToSchema(decls []*model.Declaration) error {
	for _, d := range decls {
		table := d.Attrs.Table()
		for _, f := range d.Fields {
			if _, skip := f.Skip(); skip {
				continue
			}
			if err := c.checkField(d, table, f); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *run) checkField(d *model.Declaration, table string, f *model.Field) error {
	col, present := f.Binding(c.opts.BindingTags...)
	bound := present && col != "" && col != "-"

	v := &Violation{
		Declaration: d.Name,
		Field:       f.Name,
		Table:       table,
		File:        d.File,
		Line:        f.Line,
		pass:        1,
	}

	if f.Internal() {
		switch {
		case f.Comment == "":
			v.Kind = ErrInternalFieldMisuse
			v.Message = fmt.Sprintf("Field %s.%s is internal but has no comment as to why", d.Name, f.Name)
			return c.add(v)
		case present && col != "-":
			v.Kind = ErrInternalFieldMisuse
			v.Column = col
			v.Message = fmt.Sprintf("Field %s.%s is internal but binds column %s.%s", d.Name, f.Name, table, col)
			if col == "" {
				v.Message = fmt.Sprintf("Field %s.%s is internal but has an empty binding tag; drop it or use \"-\"", d.Name, f.Name)
			}
			return c.add(v)
		}
		return nil
	}

	if !bound {
		v.Kind = ErrMissingBinding
		v.Message = fmt.Sprintf("Field %s.%s has no %s tag. If it is internal, mark it using ci:\"internal\"", d.Name, f.Name, c.opts.BindingTags[0])
		return c.add(v)
	}

	v.Column = col
	sc, ok := c.list.Find(table, col)
	switch {
	case !ok:
		v.Kind = ErrUnknownColumn
		v.Message = fmt.Sprintf("Field %s.%s with column %s.%s does not exist in the DB", d.Name, f.Name, table, col)
		return c.add(v)
	case sc.Secret:
		v.Kind = ErrSecretColumnBound
		v.Message = fmt.Sprintf("%s.%s is marked as secret but is in %s", table, col, d.Name)
		return c.add(v)
	}
	return nil
}

func (c *run) schemaToFields(decls []*model.Declaration) error {
	for _, d := range decls {
		if d.Attrs.Unfilled() {
			continue
		}
		if err := c.checkDeclaration(d); err != nil {
			return err
		}
	}
	return nil
}

func (c *run) checkDeclaration(d *model.Declaration) error {
	table := d.Attrs.Table()
	accounted := make(map[string]bool)
	for _, name := range d.Attrs.IgnoreFields() {
		accounted[name] = true
	}

	for _, f := range d.Fields {
		if sv, skip := f.Skip(); skip {
			accounted[sv] = true
			continue
		}
		if col, ok := f.Binding(c.opts.BindingTags...); ok && col != "-" {
			accounted[col] = true
		}
		if f.Internal() {
			continue
		}
		if _, ok := f.Tags.Get(c.opts.SerializationTag); !ok {
			col, _ := f.Binding(c.opts.BindingTags...)
			err := c.add(&Violation{
				Kind:        ErrMissingSerializationTag,
				Declaration: d.Name,
				Field:       f.Name,
				Table:       table,
				Column:      col,
				File:        d.File,
				Line:        f.Line,
				Message:     fmt.Sprintf("Field %s.%s has no %s tag", d.Name, f.Name, c.opts.SerializationTag),
				pass:        2,
			})
			if err != nil {
				return err
			}
		}
	}

	for _, sc := range c.list.Table(table) {
		if sc.Secret || accounted[sc.ColumnName] {
			continue
		}
		err := c.add(&Violation{
			Kind:        ErrMissingField,
			Declaration: d.Name,
			Table:       table,
			Column:      sc.ColumnName,
			File:        d.File,
			Line:        d.Line,
			Message:     fmt.Sprintf("%s.%s is missing from %s", table, sc.ColumnName, d.Name),
			pass:        2,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
