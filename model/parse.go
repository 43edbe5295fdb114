package model

import (
	"errors"
	"strings"

	"github.com/shrek82/tagcheck/logger"
)

// ParseOptions configures the declaration parser.
type ParseOptions struct {
	// Marker introduces attribute comments. Defaults to DefaultMarker.
	Marker string
	// Logger receives debug tracing of the parse. Nil discards it.
	Logger logger.Logger
}

// FileResult holds the declarations found in one file, in source order.
type FileResult struct {
	File         string
	Declarations []*Declaration
	Warnings     []Warning
}

// ParseLines scans the lines of one file and builds its struct declarations.
// Bad field lines are reported as *SyntaxError values joined into the
// returned error; parsing continues past them and the partial result is
// always returned.
func ParseLines(file string, lines []string, opts ParseOptions) (*FileResult, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	res := &FileResult{File: file}
	var errs []error
	var cur *Declaration

	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if name, ok := declStart(line); ok {
			if cur != nil {
				res.Warnings = append(res.Warnings, Warning{File: file, Line: cur.Line, Text: cur.Name, Reason: "struct not closed before next declaration"})
			}

			attrs, warns := ReadAttrs(lines, i, opts.Marker)
			for _, w := range warns {
				w.File = file
				res.Warnings = append(res.Warnings, w)
			}

			cur = &Declaration{
				Name:  name,
				Attrs: attrs,
				File:  file,
				Line:  lineNo,
			}
			res.Declarations = append(res.Declarations, cur)
			log.Debug("adding struct %s (%s:%d) attrs=%v", name, file, lineNo, attrs)

			code, comment, _ := SplitComment(line)
			open := strings.Index(code, "{")
			if open >= 0 && braceDelta(code) <= 0 {
				// single-line declaration
				body := ""
				if end := strings.LastIndex(code, "}"); end > open {
					body = code[open+1 : end]
				}
				if strings.TrimSpace(body) != "" {
					f, err := parseField(body, comment, lineNo)
					if err != nil {
						errs = append(errs, syntaxError(file, lineNo, line, err))
					} else {
						cur.Fields = append(cur.Fields, f)
					}
				}
				cur = nil
			}
			continue
		}

		if cur == nil {
			continue
		}

		code, comment, _ := SplitComment(line)
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasSuffix(trimmed, "}") && braceDelta(trimmed) < 0 {
			log.Debug("closing struct %s at %s:%d with %d fields", cur.Name, file, lineNo, len(cur.Fields))
			cur = nil
			continue
		}

		f, err := parseField(code, comment, lineNo)
		if err != nil {
			errs = append(errs, syntaxError(file, lineNo, line, err))
			continue
		}
		cur.Fields = append(cur.Fields, f)
		log.Debug("struct field %s.%s type=%s tags=%s", cur.Name, f.Name, f.Type, f.Tags)
	}

	if cur != nil {
		res.Warnings = append(res.Warnings, Warning{File: file, Line: cur.Line, Text: cur.Name, Reason: "struct not closed at end of file"})
	}

	return res, errors.Join(errs...)
}

// declStart recognises "type Name struct ..." at the start of a line.
func declStart(line string) (string, bool) {
	if !strings.HasPrefix(line, "type ") && !strings.HasPrefix(line, "type\t") {
		return "", false
	}
	toks := strings.Fields(line)
	if len(toks) < 3 || !strings.HasPrefix(toks[2], "struct") {
		return "", false
	}
	return toks[1], true
}

// parseField splits a field line into name, type and tags. The type is
// every token between the name and the opening backtick of the tag.
func parseField(code, comment string, lineNo int) (*Field, error) {
	code = strings.ReplaceAll(code, "\t", " ")

	typePart, tagPart := code, ""
	if i := strings.Index(code, "`"); i >= 0 {
		typePart, tagPart = code[:i], code[i:]
	}

	toks := strings.Fields(typePart)
	if len(toks) < 2 {
		return nil, ErrMalformedField
	}

	tags, err := ParseTags(tagPart)
	if err != nil {
		return nil, err
	}

	return &Field{
		Name:    toks[0],
		Type:    strings.Join(toks[1:], " "),
		Tags:    tags,
		Comment: comment,
		Line:    lineNo,
	}, nil
}

func syntaxError(file string, lineNo int, text string, err error) *SyntaxError {
	se := &SyntaxError{
		Kind: ErrMalformedField,
		File: file,
		Line: lineNo,
		Text: strings.TrimSpace(text),
	}
	var te *TagError
	if errors.As(err, &te) {
		se.Kind = ErrMalformedTag
		se.Err = te
	}
	return se
}

// braceDelta counts '{' minus '}' outside backtick-quoted tags.
func braceDelta(code string) int {
	delta := 0
	inTick := false
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '`':
			inTick = !inTick
		case '{':
			if !inTick {
				delta++
			}
		case '}':
			if !inTick {
				delta--
			}
		}
	}
	return delta
}
