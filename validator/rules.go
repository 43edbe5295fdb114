package validator

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"slices"
	"time"
)

// Required rejects nil, empty strings, slices and maps, and zero values.
var Required = New(func(v any) error {
	if isZeroValue(v) {
		return errors.New("is required")
	}
	return nil
})

// In accepts only the listed values.
func In(values ...any) Rule {
	return New(func(v any) error {
		if slices.Contains(values, v) {
			return nil
		}
		return fmt.Errorf("%v is not one of %v", v, values)
	})
}

// URL accepts absolute URLs with a host.
var URL = New(func(v any) error {
	s, _ := v.(string)
	if u, err := url.ParseRequestURI(s); err != nil || u.Host == "" {
		return errors.New("invalid URL format")
	}
	return nil
})

// Regexp accepts strings matching pattern.
func Regexp(pattern string) Rule {
	re := regexp.MustCompile(pattern)
	return New(func(v any) error {
		if s, ok := v.(string); ok && re.MatchString(s) {
			return nil
		}
		return fmt.Errorf("%q does not match %s", v, re)
	})
}

// Positive accepts numbers and durations above zero.
var Positive = New(func(v any) error {
	if toFloat(v) <= 0 {
		return errors.New("must be positive")
	}
	return nil
})

func toFloat(v any) float64 {
	if d, ok := v.(time.Duration); ok {
		return float64(d)
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		return float64(rv.Int())
	case rv.CanUint():
		return float64(rv.Uint())
	case rv.CanFloat():
		return rv.Float()
	}
	return 0
}
