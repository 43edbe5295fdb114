package validator

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// ValidationErrors is a map of field names to their validation errors.
type ValidationErrors map[string][]error

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var sb strings.Builder
	for _, field := range fields {
		for _, err := range v[field] {
			if sb.Len() > 0 {
				sb.WriteString("; ")
			}
			fmt.Fprintf(&sb, "%s: %v", field, err)
		}
	}
	return sb.String()
}

// Add validates value against rules and records failures under field.
func (v ValidationErrors) Add(field string, value any, rules ...Rule) {
	for _, rule := range rules {
		if err := rule.Validate(value); err != nil {
			v[field] = append(v[field], err)
		}
	}
}

// Err returns v as an error, or nil if nothing failed.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Rule is the interface for a single validation rule.
type Rule interface {
	Validate(value any) error
	Msg(msg string) Rule
	Optional() Rule
}

// checkFunc reports why value fails a rule, or nil.
type checkFunc func(value any) error

// rule is the Rule every constructor in this package returns.
type rule struct {
	check    checkFunc
	msg      string
	optional bool
}

// New wraps check as a Rule.
func New(check func(value any) error) Rule {
	return &rule{check: check}
}

func (r *rule) Validate(value any) error {
	if r.optional && isZeroValue(value) {
		return nil
	}
	err := r.check(value)
	if err != nil && r.msg != "" {
		return fmt.Errorf("%s", r.msg)
	}
	return err
}

// Msg replaces the failure message.
func (r *rule) Msg(msg string) Rule {
	nr := *r
	nr.msg = msg
	return &nr
}

// Optional skips zero values.
func (r *rule) Optional() Rule {
	nr := *r
	nr.optional = true
	return &nr
}

func isZeroValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Interface, reflect.Ptr:
		return rv.IsNil()
	}
	return rv.IsZero()
}

// Rules is a map of struct field names to validation rules.
type Rules map[string][]Rule

// Validate checks the named fields of a struct or pointer to struct.
func (r Rules) Validate(value any) error {
	if value == nil {
		return nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("validator: value must be a struct or pointer to struct")
	}

	errs := make(ValidationErrors)
	for fieldName, rules := range r {
		field := rv.FieldByName(fieldName)
		if !field.IsValid() {
			continue
		}
		errs.Add(fieldName, field.Interface(), rules...)
	}
	return errs.Err()
}
