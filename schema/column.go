package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/shrek82/tagcheck/validator"
)

// Column describes one storage column of the external schema.
type Column struct {
	TableName  string          `json:"table_name"`
	ColumnName string          `json:"column_name"`
	Type       string          `json:"type"`
	Nullable   bool            `json:"nullable"`
	Array      bool            `json:"array"`
	DefaultSQL *string         `json:"default_sql,omitempty"`
	DefaultVal json.RawMessage `json:"default_val,omitempty"`
	Secret     bool            `json:"secret"`
}

var columnRules = validator.Rules{
	"TableName":  {validator.Required},
	"ColumnName": {validator.Required},
	"Type":       {validator.Required},
}

// List is the read-only set of schema columns loaded for one run.
type List struct {
	columns []Column
	byTable map[string][]int
}

// NewList indexes cols by table. The slice is not copied.
func NewList(cols []Column) *List {
	l := &List{columns: cols, byTable: make(map[string][]int)}
	for i, c := range cols {
		l.byTable[c.TableName] = append(l.byTable[c.TableName], i)
	}
	return l
}

// Columns returns every column in load order.
func (l *List) Columns() []Column {
	return l.columns
}

// Len returns the number of columns.
func (l *List) Len() int {
	return len(l.columns)
}

// Find returns the column with the given table and name.
func (l *List) Find(table, column string) (Column, bool) {
	for _, i := range l.byTable[table] {
		if l.columns[i].ColumnName == column {
			return l.columns[i], true
		}
	}
	return Column{}, false
}

// Table returns the columns of one table in load order.
func (l *List) Table(table string) []Column {
	idx := l.byTable[table]
	res := make([]Column, 0, len(idx))
	for _, i := range idx {
		res = append(res, l.columns[i])
	}
	return res
}

// Tables returns the distinct table names, sorted.
func (l *List) Tables() []string {
	res := make([]string, 0, len(l.byTable))
	for t := range l.byTable {
		res = append(res, t)
	}
	sort.Strings(res)
	return res
}

// Validate checks every column for a usable table, name and type.
func (l *List) Validate() error {
	errs := make(validator.ValidationErrors)
	for i, c := range l.columns {
		if err := columnRules.Validate(c); err != nil {
			errs[fmt.Sprintf("[%d] %s.%s", i, c.TableName, c.ColumnName)] = []error{err}
		}
	}
	if err := errs.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	return nil
}

// Decode reads a JSON array of columns and validates it.
func Decode(r io.Reader) (*List, error) {
	var cols []Column
	if err := json.NewDecoder(r).Decode(&cols); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	l := NewList(cols)
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Encode writes the list as an indented JSON array, the same shape Decode reads.
func Encode(w io.Writer, l *List) error {
	cols := l.Columns()
	if cols == nil {
		cols = []Column{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cols)
}
