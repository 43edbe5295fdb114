package model

import (
	"sort"
	"strings"
)

// Tags maps a struct tag key to its raw value
type Tags map[string]string

// Get returns the raw value of key and whether it was present.
func (t Tags) Get(key string) (string, bool) {
	v, ok := t[key]
	return v, ok
}

// List returns the comma-separated values of key, untrimmed, so
// "legacy, internal" yields " internal" rather than "internal".
func (t Tags) List(key string) []string {
	v, ok := t[key]
	if !ok {
		return nil
	}
	return strings.Split(v, ",")
}

// String renders the tags as key:"value" pairs in key order.
func (t Tags) String() string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k)
		sb.WriteString(`:"`)
		for _, r := range t[k] {
			if r == '"' || r == '\\' {
				sb.WriteByte('\\')
			}
			sb.WriteRune(r)
		}
		sb.WriteByte('"')
	}
	return sb.String()
}

// ParseTags tokenizes a field annotation such as
//
//	`db:"user_id" json:"id"` // comment
//
// Backticks are dropped and a trailing // comment is discarded first.
// A repeated key keeps its last value.
func ParseTags(raw string) (Tags, error) {
	code, _, _ := SplitComment(raw)
	s := strings.TrimSpace(strings.ReplaceAll(code, "`", ""))

	tags := Tags{}
	i := 0
	for i < len(s) {
		start := i
		for i < len(s) && s[i] != ':' {
			switch s[i] {
			case ' ', '\t':
				return nil, tagError(s, start, i, "whitespace in key")
			case '"':
				return nil, tagError(s, start, i, "quote in key")
			}
			i++
		}
		if i >= len(s) {
			return nil, tagError(s, start, i, "missing colon")
		}
		key := s[start:i]
		if key == "" {
			return nil, tagError(s, start, i, "empty key")
		}

		// skip the colon, then require the opening quote
		i++
		if i >= len(s) || s[i] != '"' {
			return nil, tagError(s, start, i, "missing opening quote")
		}
		i++

		var value strings.Builder
		closed := false
		for i < len(s) {
			c := s[i]
			if c == '\\' && i+1 < len(s) {
				value.WriteByte(s[i+1])
				i += 2
				continue
			}
			i++
			if c == '"' {
				closed = true
				break
			}
			value.WriteByte(c)
		}
		if !closed {
			return nil, tagError(s, start, len(s), "missing closing quote")
		}

		tags[key] = value.String()

		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
	}
	return tags, nil
}

func tagError(s string, start, at int, reason string) *TagError {
	end := at + 1
	if end > len(s) {
		end = len(s)
	}
	return &TagError{
		Input:    s,
		Offset:   at,
		Fragment: s[start:end],
		Reason:   reason,
	}
}

// SplitComment splits a line at the first // that is not inside a quoted
// tag value. comment is trimmed; ok reports whether a marker was found.
func SplitComment(line string) (code, comment string, ok bool) {
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c == '\\' && inQuote:
			i++
		case c == '"':
			inQuote = !inQuote
		case c == '/' && !inQuote && i+1 < len(line) && line[i+1] == '/':
			return line[:i], strings.TrimSpace(line[i+2:]), true
		}
	}
	return line, "", false
}
