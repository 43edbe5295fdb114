package dialect

import (
	"database/sql"
	"sort"
)

// ColumnInfo is one column as reported by a database catalog.
type ColumnInfo struct {
	Name     string
	Type     string
	Nullable bool
	Array    bool
	Default  sql.NullString
}

// Dialect represents the catalog queries needed to introspect one database.
// Each database (MySQL, SQLite, etc.) must implement this interface to be supported.
type Dialect interface {
	// Quote wraps a name (table or column) in database-specific quotes
	Quote(name string) string
	// TablesSQL returns the query listing user tables, one name per row
	TablesSQL() string
	// ColumnsSQL returns the query listing the columns of a table
	ColumnsSQL(table string) (string, []any)
	// ScanColumn reads one row produced by ColumnsSQL
	ScanColumn(rows *sql.Rows) (ColumnInfo, error)
}

var dialects = make(map[string]Dialect)

// Register registers a new dialect for a given driver name
func Register(name string, d Dialect) {
	dialects[name] = d
}

// Get retrieves a registered dialect by driver name
func Get(name string) (Dialect, bool) {
	d, ok := dialects[name]
	return d, ok
}

// Names lists the registered driver names in order.
func Names() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
