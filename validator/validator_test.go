package validator

import (
	"strings"
	"testing"
	"time"
)

type column struct {
	Table string
	Name  string
	Kind  string
}

var identRule = Regexp(`^[A-Za-z_][A-Za-z0-9_]*$`)

func TestRules(t *testing.T) {
	rules := Rules{
		"Table": {Required, identRule},
		"Name":  {Required.Msg("name is required"), identRule},
		"Kind":  {In("text", "int").Optional()},
	}

	t.Run("Valid", func(t *testing.T) {
		if err := rules.Validate(&column{Table: "users", Name: "user_id", Kind: "int"}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if err := rules.Validate(column{Table: "users", Name: "id"}); err != nil {
			t.Errorf("optional rule should skip empty value: %v", err)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		err := rules.Validate(column{Table: "bad table", Kind: "blob"})
		errs, ok := err.(ValidationErrors)
		if !ok {
			t.Fatalf("expected ValidationErrors, got %T", err)
		}
		if len(errs["Table"]) != 1 {
			t.Errorf("Table errors = %v", errs["Table"])
		}
		if len(errs["Name"]) != 2 || errs["Name"][0].Error() != "name is required" {
			t.Errorf("Name errors = %v", errs["Name"])
		}
		if len(errs["Kind"]) != 1 {
			t.Errorf("Kind errors = %v", errs["Kind"])
		}
		if !strings.HasPrefix(err.Error(), "Kind: ") {
			t.Errorf("errors should be sorted by field, got %q", err.Error())
		}
	})

	t.Run("NotStruct", func(t *testing.T) {
		if err := rules.Validate(42); err == nil {
			t.Error("expected error for non-struct value")
		}
	})
}

func TestValidationErrorsAdd(t *testing.T) {
	errs := make(ValidationErrors)
	errs.Add("schema.url", "not a url", URL)
	errs.Add("schema.url_ok", "https://example.com/schema.json", URL)
	errs.Add("schema.timeout", time.Duration(0), Positive)
	errs.Add("schema.timeout_ok", 3*time.Second, Positive)
	errs.Add("cache.kind", "memcached", In("none", "memory", "file", "redis"))

	if len(errs) != 3 {
		t.Fatalf("expected 3 failing fields, got %v", errs)
	}
	for _, field := range []string{"schema.url", "schema.timeout", "cache.kind"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("missing error for %s", field)
		}
	}
	if make(ValidationErrors).Err() != nil {
		t.Error("empty ValidationErrors should yield nil error")
	}
}
