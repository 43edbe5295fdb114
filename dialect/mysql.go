package dialect

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

// MySQL dialect implementation
type mysql struct{}

func init() {
	Register("mysql", &mysql{})
}

func (d *mysql) Quote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d *mysql) TablesSQL() string {
	return "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE' ORDER BY table_name"
}

func (d *mysql) ColumnsSQL(table string) (string, []any) {
	return fmt.Sprintf("SHOW FULL COLUMNS FROM %s", d.Quote(table)), nil
}

func (d *mysql) ScanColumn(rows *sql.Rows) (ColumnInfo, error) {
	var (
		field      string
		typ        string
		collation  sql.NullString
		null       string
		key        string
		defaultVal sql.NullString
		extra      string
		privileges string
		comment    string
	)
	if err := rows.Scan(&field, &typ, &collation, &null, &key, &defaultVal, &extra, &privileges, &comment); err != nil {
		return ColumnInfo{}, err
	}
	return ColumnInfo{
		Name:     field,
		Type:     typ,
		Nullable: null == "YES",
		Default:  defaultVal,
	}, nil
}
