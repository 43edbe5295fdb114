package dialect

import (
	"database/sql"
	"strings"

	_ "github.com/microsoft/go-mssqldb"
)

type sqlserver struct{}

func init() {
	Register("sqlserver", &sqlserver{})
}

func (d *sqlserver) Quote(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func (d *sqlserver) TablesSQL() string {
	return "SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME"
}

func (d *sqlserver) ColumnsSQL(table string) (string, []any) {
	return `
		SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE, COLUMN_DEFAULT
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_NAME = @p1
		ORDER BY ORDINAL_POSITION`, []any{table}
}

func (d *sqlserver) ScanColumn(rows *sql.Rows) (ColumnInfo, error) {
	var name, dataType, isNullable string
	var columnDefault sql.NullString
	if err := rows.Scan(&name, &dataType, &isNullable, &columnDefault); err != nil {
		return ColumnInfo{}, err
	}
	return ColumnInfo{
		Name:     name,
		Type:     dataType,
		Nullable: isNullable == "YES",
		Default:  columnDefault,
	}, nil
}
