package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shrek82/tagcheck/checker"
	"github.com/shrek82/tagcheck/model"
)

func sampleReport() *checker.Report {
	return &checker.Report{
		Checked: []string{"Bot", "User"},
		Violations: []*checker.Violation{
			{
				Kind:        checker.ErrMissingField,
				Declaration: "User",
				Table:       "users",
				Column:      "email",
				File:        "types/user.go",
				Line:        4,
				Message:     "users.email is missing from User",
			},
		},
	}
}

func TestCollect(t *testing.T) {
	loadErr := errors.Join(
		&model.SyntaxError{Kind: model.ErrMalformedField, File: "types/bot.go", Line: 9, Text: "Broken"},
		&model.DuplicateError{Duplicate: model.Duplicate{Name: "User", Previous: "types/a.go", Current: "types/b.go"}},
		fmt.Errorf("%w: types/c.go: permission denied", model.ErrFileReadFailed),
	)

	diags := Collect(loadErr, sampleReport())
	var got []string
	for _, d := range diags {
		got = append(got, d.Kind)
	}
	want := []string{"MalformedField", "DuplicateDeclaration", "FileReadFailed", "MissingField"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
	if diags[0].File != "types/bot.go" || diags[0].Line != 9 {
		t.Errorf("syntax diagnostic lost position: %+v", diags[0])
	}
	if diags[1].Declaration != "User" || diags[1].File != "types/b.go" {
		t.Errorf("duplicate diagnostic = %+v", diags[1])
	}
	if diags[3].Column != "email" || diags[3].Table != "users" {
		t.Errorf("violation diagnostic = %+v", diags[3])
	}

	if len(Collect(nil, &checker.Report{})) != 0 {
		t.Error("expected no diagnostics for a clean run")
	}
}

func TestPrinterText(t *testing.T) {
	buf := new(bytes.Buffer)
	p := NewPrinter(buf, FormatText, true)

	p.Checking([]string{"Bot", "User"})
	p.Progress("Check 1: Check fields to ensure they actually exist on db")
	p.Warning("types/user.go:3: ignoring attribute token \"oops\"")
	p.Fatal(Collect(nil, sampleReport())...)
	if p.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", p.Failed())
	}
	if err := p.Finish(2); err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		"Checking structs Bot, User",
		"Check 1: Check fields to ensure they actually exist on db",
		`WARN: types/user.go:3: ignoring attribute token "oops"`,
		"FATAL: users.email is missing from User",
		"1 problem(s) found",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	p.Finish(2)
	if buf.String() != "OK: 2 structs consistent with schema\n" {
		t.Errorf("unexpected success line %q", buf.String())
	}
}

func TestPrinterJSON(t *testing.T) {
	buf := new(bytes.Buffer)
	p := NewPrinter(buf, FormatJSON, false)

	p.Checking([]string{"User"})
	p.Fatal(Collect(nil, sampleReport())...)
	if err := p.Finish(1); err != nil {
		t.Fatal(err)
	}

	var got []Diagnostic
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, buf.String())
	}
	want := []Diagnostic{{
		Kind:        "MissingField",
		Declaration: "User",
		Table:       "users",
		Column:      "email",
		File:        "types/user.go",
		Line:        4,
		Message:     "users.email is missing from User",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	p.Finish(1)
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("clean run should print [], got %q", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "text": FormatText, "json": FormatJSON} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}
