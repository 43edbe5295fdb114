package dialect

import (
	"database/sql"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

// PostgreSQL dialect implementation, used by both lib/pq and pgx
type postgres struct{}

func init() {
	Register("postgres", &postgres{})
	Register("pgx", &postgres{})
}

func (d *postgres) Quote(name string) string {
	// PostgreSQL uses double quotes for identifiers
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (d *postgres) TablesSQL() string {
	return "SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname = 'public' ORDER BY tablename"
}

func (d *postgres) ColumnsSQL(table string) (string, []any) {
	return `
		SELECT c.column_name, c.data_type, c.udt_name, c.is_nullable, c.column_default
		FROM information_schema.columns c
		WHERE c.table_schema = 'public' AND c.table_name = $1
		ORDER BY c.ordinal_position`, []any{table}
}

func (d *postgres) ScanColumn(rows *sql.Rows) (ColumnInfo, error) {
	var name, dataType, udtName, isNullable string
	var columnDefault sql.NullString
	if err := rows.Scan(&name, &dataType, &udtName, &isNullable, &columnDefault); err != nil {
		return ColumnInfo{}, err
	}

	info := ColumnInfo{
		Name:     name,
		Type:     dataType,
		Nullable: isNullable == "YES",
		Default:  columnDefault,
	}
	// array columns report data_type ARRAY and an element udt_name prefixed with '_'
	if dataType == "ARRAY" {
		info.Array = true
		info.Type = strings.TrimPrefix(udtName, "_")
	}
	return info, nil
}
