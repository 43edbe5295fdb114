package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// SQLite dialect, shared by the cgo (sqlite3) and pure-Go (sqlite) drivers
type sqlite3 struct{}

func init() {
	Register("sqlite3", &sqlite3{})
	Register("sqlite", &sqlite3{})
}

func (d *sqlite3) Quote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d *sqlite3) TablesSQL() string {
	return "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
}

func (d *sqlite3) ColumnsSQL(table string) (string, []any) {
	return fmt.Sprintf("PRAGMA table_info(%s)", d.Quote(table)), nil
}

func (d *sqlite3) ScanColumn(rows *sql.Rows) (ColumnInfo, error) {
	var (
		cid       int
		name      string
		dataType  string
		notnull   int
		dfltValue sql.NullString
		pk        int
	)
	if err := rows.Scan(&cid, &name, &dataType, &notnull, &dfltValue, &pk); err != nil {
		return ColumnInfo{}, err
	}
	return ColumnInfo{
		Name:     name,
		Type:     dataType,
		Nullable: notnull == 0 && pk == 0,
		Default:  dfltValue,
	}, nil
}
