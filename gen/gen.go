// Package gen scaffolds annotated struct declarations from schema columns.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
	"strings"
	"text/template"
	"unicode"

	"github.com/shrek82/tagcheck/dialect"
	"github.com/shrek82/tagcheck/schema"
)

// Options controls the generated source.
type Options struct {
	Package          string
	Marker           string
	BindingTag       string
	SerializationTag string
}

func (o *Options) normalize() {
	if o.Package == "" {
		o.Package = "types"
	}
	if o.Marker == "" {
		o.Marker = "@ci"
	}
	if o.BindingTag == "" {
		o.BindingTag = "db"
	}
	if o.SerializationTag == "" {
		o.SerializationTag = "json"
	}
}

const fileTemplate = `package {{.Package}}
{{range .Imports}}
import "{{.}}"
{{end}}
{{- range .Structs}}
{{if .Secret}}
// Secret columns, never bound: {{join .Secret ", "}}
{{- end}}
// {{$.Marker}} table={{.Table}}
type {{.Name}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}} ` + "`" + `{{.Tag}}` + "`" + `{{if .Comment}} // {{.Comment}}{{end}}
{{- end}}
}
{{end}}`

var tmpl = template.Must(template.New("file").Funcs(template.FuncMap{"join": strings.Join}).Parse(fileTemplate))

type field struct {
	Name    string
	Type    string
	Tag     string
	Comment string
}

type structData struct {
	Name   string
	Table  string
	Fields []field
	Secret []string
}

type fileData struct {
	Package string
	Marker  string
	Imports []string
	Structs []structData
}

// Render writes one Go file declaring a struct for each table, in the
// order given. Every table must exist in list.
func Render(w io.Writer, list *schema.List, tables []string, opts Options) error {
	opts.normalize()
	data := fileData{Package: opts.Package, Marker: opts.Marker}

	needTime := false
	for _, table := range tables {
		cols := list.Table(table)
		if len(cols) == 0 {
			return fmt.Errorf("table %s not found in schema", table)
		}
		sd := structData{Name: snakeToCamel(table, true), Table: table}
		for _, c := range cols {
			if c.Secret {
				sd.Secret = append(sd.Secret, c.ColumnName)
				continue
			}
			typ := goType(c)
			if strings.Contains(typ, "time.Time") {
				needTime = true
			}
			sd.Fields = append(sd.Fields, field{
				Name:    snakeToCamel(c.ColumnName, true),
				Type:    typ,
				Tag:     fmt.Sprintf(`%s:"%s" %s:"%s"`, opts.BindingTag, c.ColumnName, opts.SerializationTag, c.ColumnName),
				Comment: comment(c),
			})
		}
		data.Structs = append(data.Structs, sd)
	}
	if needTime {
		data.Imports = []string{"time"}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("format generated source: %w", err)
	}
	_, err = w.Write(src)
	return err
}

func goType(c schema.Column) string {
	typ := dialect.GoType(c.Type, c.Array)
	if c.Nullable && typ != "any" && !strings.HasPrefix(typ, "[]") {
		return "*" + typ
	}
	return typ
}

func comment(c schema.Column) string {
	if c.DefaultSQL != nil && *c.DefaultSQL != "" {
		return "default " + strings.Join(strings.Fields(*c.DefaultSQL), " ")
	}
	return ""
}

// snakeToCamel converts snake_case to CamelCase, spelling id as ID.
func snakeToCamel(s string, upperFirst bool) string {
	parts := strings.Split(s, "_")
	for i := range parts {
		if i == 0 && !upperFirst {
			continue
		}
		if parts[i] == "id" {
			parts[i] = "ID"
		} else if len(parts[i]) > 0 {
			runes := []rune(parts[i])
			runes[0] = unicode.ToUpper(runes[0])
			parts[i] = string(runes)
		}
	}
	return strings.Join(parts, "")
}
