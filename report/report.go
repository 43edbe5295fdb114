// Package report renders check results for CI logs.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/shrek82/tagcheck/checker"
	"github.com/shrek82/tagcheck/model"
)

// Format selects how diagnostics are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown format %q (want text or json)", s)
}

// Diagnostic is one fatal finding of a run.
type Diagnostic struct {
	Kind        string `json:"kind"`
	Declaration string `json:"declaration,omitempty"`
	Field       string `json:"field,omitempty"`
	Table       string `json:"table,omitempty"`
	Column      string `json:"column,omitempty"`
	File        string `json:"file,omitempty"`
	Line        int    `json:"line,omitempty"`
	Message     string `json:"message"`
}

// Collect flattens load errors and check violations into diagnostics.
// Load errors come first, in the order they were joined.
func Collect(loadErr error, r *checker.Report) []Diagnostic {
	var res []Diagnostic
	for _, err := range flatten(loadErr) {
		res = append(res, FromError(err))
	}
	if r != nil {
		for _, v := range r.Violations {
			res = append(res, FromViolation(v))
		}
	}
	return res
}

func flatten(err error) []error {
	if err == nil {
		return nil
	}
	// SyntaxError also unwraps to a slice; keep it whole.
	if _, ok := err.(*model.SyntaxError); ok {
		return []error{err}
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var res []error
		for _, e := range joined.Unwrap() {
			res = append(res, flatten(e)...)
		}
		return res
	}
	return []error{err}
}

// FromViolation converts a checker violation.
func FromViolation(v *checker.Violation) Diagnostic {
	return Diagnostic{
		Kind:        kindName(v.Kind),
		Declaration: v.Declaration,
		Field:       v.Field,
		Table:       v.Table,
		Column:      v.Column,
		File:        v.File,
		Line:        v.Line,
		Message:     v.Message,
	}
}

// FromError converts a load, syntax or duplicate error.
func FromError(err error) Diagnostic {
	var se *model.SyntaxError
	if errors.As(err, &se) {
		return Diagnostic{Kind: kindName(se.Kind), File: se.File, Line: se.Line, Message: se.Error()}
	}
	var de *model.DuplicateError
	if errors.As(err, &de) {
		return Diagnostic{Kind: kindName(model.ErrDuplicateDeclaration), Declaration: de.Name, File: de.Current, Message: de.Error()}
	}
	kind := "error"
	if errors.Is(err, model.ErrFileReadFailed) {
		kind = kindName(model.ErrFileReadFailed)
	}
	return Diagnostic{Kind: kind, Message: err.Error()}
}

// kindName turns a sentinel such as "missing field" into "MissingField".
func kindName(err error) string {
	if err == nil {
		return "error"
	}
	var sb strings.Builder
	for _, w := range strings.Fields(err.Error()) {
		sb.WriteString(strings.ToUpper(w[:1]) + w[1:])
	}
	return sb.String()
}

// Printer writes progress and diagnostics.
type Printer struct {
	out    io.Writer
	format Format

	failed  int
	pending []Diagnostic

	fatal   func(a ...any) string
	status  func(a ...any) string
	success func(a ...any) string
	warning func(a ...any) string
}

// NewPrinter creates a printer. Colour is disabled for JSON output, when
// noColor is set, or when NO_COLOR is present in the environment.
func NewPrinter(out io.Writer, format Format, noColor bool) *Printer {
	p := &Printer{out: out, format: format}
	disable := noColor || format == FormatJSON || os.Getenv("NO_COLOR") != ""

	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if disable {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
		return c.SprintFunc()
	}
	p.fatal = mk(color.Bold, color.FgRed)
	p.status = mk(color.Bold, color.FgCyan)
	p.success = mk(color.Bold, color.FgGreen)
	p.warning = mk(color.Bold, color.FgYellow)
	return p
}

// Progress prints a status line in text mode.
func (p *Printer) Progress(format string, args ...any) {
	if p.format == FormatJSON {
		return
	}
	fmt.Fprintln(p.out, p.status(fmt.Sprintf(format, args...)))
}

// Warning prints a non-fatal finding in text mode.
func (p *Printer) Warning(msg string) {
	if p.format == FormatJSON {
		return
	}
	fmt.Fprintln(p.out, p.warning("WARN:"), msg)
}

// Checking prints the banner listing the structs about to be checked.
func (p *Printer) Checking(names []string) {
	p.Progress("Checking structs %s", strings.Join(names, ", "))
}

// Fatal prints one FATAL line per diagnostic. JSON mode buffers them for Finish.
func (p *Printer) Fatal(diags ...Diagnostic) {
	p.failed += len(diags)
	if p.format == FormatJSON {
		p.pending = append(p.pending, diags...)
		return
	}
	for _, d := range diags {
		fmt.Fprintln(p.out, p.fatal("FATAL:"), d.Message)
	}
}

// Failed returns how many diagnostics were printed since the last Finish.
func (p *Printer) Failed() int {
	return p.failed
}

// Finish closes a run. Text mode prints a summary line; JSON mode writes
// the buffered diagnostics as one array, empty when nothing failed.
func (p *Printer) Finish(checked int) error {
	defer func() {
		p.failed = 0
		p.pending = nil
	}()

	if p.format == FormatJSON {
		diags := p.pending
		if diags == nil {
			diags = []Diagnostic{}
		}
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(diags)
	}

	if p.failed == 0 {
		_, err := fmt.Fprintln(p.out, p.success(fmt.Sprintf("OK: %d structs consistent with schema", checked)))
		return err
	}
	_, err := fmt.Fprintln(p.out, p.fatal(fmt.Sprintf("%d problem(s) found", p.failed)))
	return err
}
