package model

import (
	"fmt"
	"strings"
	"unicode"
)

// DefaultMarker introduces an attribute comment: // @ci table=users
const DefaultMarker = "@ci"

// Warning is a non-fatal parse diagnostic.
type Warning struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s:%d: %s: %q", w.File, w.Line, w.Reason, w.Text)
}

// ReadAttrs walks backward from lines[index-1] and collects the contiguous
// block of attribute comments directly above the declaration at index.
// Other // comments are stepped over; a blank or non-comment line ends
// the block. When a key repeats, the line closest to the declaration wins.
func ReadAttrs(lines []string, index int, marker string) (Attrs, []Warning) {
	if marker == "" {
		marker = DefaultMarker
	}
	if index > len(lines) {
		index = len(lines)
	}

	attrs := Attrs{}
	var warns []Warning
	for i := index - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])

		if rest, ok := attrComment(line, marker); ok {
			local := Attrs{}
			for _, tok := range attrTokens(rest) {
				key, value, found := strings.Cut(tok, "=")
				key, value = strings.TrimSpace(key), strings.TrimSpace(value)
				if !found || key == "" {
					warns = append(warns, Warning{Line: i + 1, Text: tok, Reason: "ignoring attribute without key=value"})
					continue
				}
				local[key] = value
			}
			for k, v := range local {
				if _, seen := attrs[k]; !seen {
					attrs[k] = v
				}
			}
			continue
		}

		if line == "" || !strings.HasPrefix(line, "//") {
			break
		}
	}
	return attrs, warns
}

func attrComment(line, marker string) (string, bool) {
	if !strings.HasPrefix(line, "//") {
		return "", false
	}
	s := strings.TrimLeft(line[2:], " \t")
	if !strings.HasPrefix(s, marker) {
		return "", false
	}
	rest := s[len(marker):]
	if rest != "" && !unicode.IsSpace(rune(rest[0])) {
		return "", false
	}
	return rest, true
}

// attrTokens splits on commas; a comma part holding several '=' is split
// again on whitespace so "table=a unfilled=1" yields two pairs while
// "table = a" stays one.
func attrTokens(rest string) []string {
	var toks []string
	for _, part := range strings.Split(rest, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Count(part, "=") > 1 {
			toks = append(toks, strings.Fields(part)...)
			continue
		}
		toks = append(toks, part)
	}
	return toks
}
