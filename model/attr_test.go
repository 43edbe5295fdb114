package model

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func lines(s string) []string {
	return strings.Split(s, "\n")
}

func TestReadAttrs(t *testing.T) {
	t.Run("SingleLine", func(t *testing.T) {
		src := lines("package types\n\n// @ci table=users\ntype User struct {")
		attrs, warns := ReadAttrs(src, 3, DefaultMarker)
		if diff := cmp.Diff(Attrs{"table": "users"}, attrs); diff != "" {
			t.Errorf("attrs mismatch (-want +got):\n%s", diff)
		}
		if len(warns) != 0 {
			t.Errorf("Expected no warnings, got %v", warns)
		}
	})

	t.Run("CommasAndSpaces", func(t *testing.T) {
		src := lines("// @ci table = bots, ignore_fields=api_token+unique_clicks\n// @ci unfilled=1 extra=x\ntype Bot struct {")
		attrs, _ := ReadAttrs(src, 2, DefaultMarker)
		want := Attrs{
			"table":         "bots",
			"ignore_fields": "api_token+unique_clicks",
			"unfilled":      "1",
			"extra":         "x",
		}
		if diff := cmp.Diff(want, attrs); diff != "" {
			t.Errorf("attrs mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ClosestWins", func(t *testing.T) {
		src := lines("// @ci table=far\n// @ci table=near\ntype T struct {")
		attrs, _ := ReadAttrs(src, 2, DefaultMarker)
		if attrs["table"] != "near" {
			t.Errorf("Expected closest attribute to win, got %q", attrs["table"])
		}
	})

	t.Run("OtherCommentsAreSteppedOver", func(t *testing.T) {
		src := lines("// @ci table=users\n// User is a site member.\ntype User struct {")
		attrs, _ := ReadAttrs(src, 2, DefaultMarker)
		if attrs.Table() != "users" {
			t.Errorf("Expected table=users across a doc comment, got %v", attrs)
		}
	})

	t.Run("BlankLineBreaksContiguity", func(t *testing.T) {
		src := lines("// @ci table=users\n\ntype User struct {")
		attrs, _ := ReadAttrs(src, 2, DefaultMarker)
		if len(attrs) != 0 {
			t.Errorf("Attribute block separated by a blank line must not attach, got %v", attrs)
		}
	})

	t.Run("CodeLineBreaksContiguity", func(t *testing.T) {
		src := lines("// @ci table=users\nvar x = 1\ntype User struct {")
		attrs, _ := ReadAttrs(src, 2, DefaultMarker)
		if len(attrs) != 0 {
			t.Errorf("Attribute block separated by code must not attach, got %v", attrs)
		}
	})

	t.Run("FirstLineOfFile", func(t *testing.T) {
		src := lines("// @ci table=users\ntype User struct {")
		attrs, _ := ReadAttrs(src, 1, DefaultMarker)
		if attrs.Table() != "users" {
			t.Errorf("Expected attribute on line 1 to attach, got %v", attrs)
		}
	})

	t.Run("MalformedTokenWarns", func(t *testing.T) {
		src := lines("// @ci table=users, broken\ntype User struct {")
		attrs, warns := ReadAttrs(src, 1, DefaultMarker)
		if attrs.Table() != "users" {
			t.Errorf("Expected valid pair to survive, got %v", attrs)
		}
		if len(warns) != 1 || warns[0].Text != "broken" || warns[0].Line != 1 {
			t.Errorf("Expected one warning for 'broken' on line 1, got %v", warns)
		}
	})

	t.Run("MarkerMustBeAWord", func(t *testing.T) {
		src := lines("// @cinema table=users\ntype User struct {")
		attrs, _ := ReadAttrs(src, 1, DefaultMarker)
		if len(attrs) != 0 {
			t.Errorf("Expected @cinema not to match the @ci marker, got %v", attrs)
		}
	})

	t.Run("NoSpaceAfterSlashes", func(t *testing.T) {
		src := lines("//@ci table=users\ntype User struct {")
		attrs, _ := ReadAttrs(src, 1, DefaultMarker)
		if attrs.Table() != "users" {
			t.Errorf("Expected //@ci to be accepted, got %v", attrs)
		}
	})
}

func TestAttrsHelpers(t *testing.T) {
	a := Attrs{"table": "bots", "unfilled": "true", "ignore_fields": "api_token + unique_clicks+"}
	if a.Table() != "bots" {
		t.Errorf("Table() = %q", a.Table())
	}
	if !a.Unfilled() {
		t.Error("Expected unfilled=true to count")
	}
	if diff := cmp.Diff([]string{"api_token", "unique_clicks"}, a.IgnoreFields()); diff != "" {
		t.Errorf("IgnoreFields mismatch (-want +got):\n%s", diff)
	}
	if (Attrs{"unfilled": "0"}).Unfilled() {
		t.Error("Expected unfilled=0 not to count")
	}
}
