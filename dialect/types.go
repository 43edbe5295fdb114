package dialect

import "strings"

// GoType maps a catalog column type to the Go type used when scaffolding a
// struct for it. Unknown types map to "any".
func GoType(dbType string, array bool) string {
	if t, ok := strings.CutSuffix(strings.TrimSpace(dbType), "[]"); ok {
		dbType, array = t, true
	}
	typ := baseType(dbType)
	if array {
		return "[]" + typ
	}
	return typ
}

func baseType(dbType string) string {
	dbTypeUpper := strings.ToUpper(dbType)
	// strip length and precision so "TINYINT(1)" matches "TINYINT"
	if idx := strings.Index(dbTypeUpper, "("); idx != -1 {
		dbTypeUpper = dbTypeUpper[:idx]
	}
	dbTypeUpper = strings.TrimSpace(strings.TrimSuffix(dbTypeUpper, " UNSIGNED"))

	switch {
	case dbTypeUpper == "TINYINT":
		return "int8"
	case dbTypeUpper == "SMALLINT" || dbTypeUpper == "INT2":
		return "int16"
	case dbTypeUpper == "MEDIUMINT":
		return "int32"
	case dbTypeUpper == "INT" || dbTypeUpper == "INTEGER" || dbTypeUpper == "INT4" || dbTypeUpper == "SERIAL":
		return "int32"
	case dbTypeUpper == "BIGINT" || dbTypeUpper == "INT8" || dbTypeUpper == "BIGSERIAL":
		return "int64"
	case dbTypeUpper == "BOOLEAN" || dbTypeUpper == "BOOL" || dbTypeUpper == "BIT":
		return "bool"
	case dbTypeUpper == "TEXT" || dbTypeUpper == "LONGTEXT" || dbTypeUpper == "MEDIUMTEXT" || dbTypeUpper == "UUID" || dbTypeUpper == "CITEXT":
		return "string"
	case dbTypeUpper == "BLOB" || dbTypeUpper == "LONGBLOB" || dbTypeUpper == "MEDIUMBLOB" || dbTypeUpper == "BYTEA" ||
		strings.HasPrefix(dbTypeUpper, "BINARY") || strings.HasPrefix(dbTypeUpper, "VARBINARY"):
		return "[]byte"
	case strings.Contains(dbTypeUpper, "VARCHAR") || strings.Contains(dbTypeUpper, "CHAR") || dbTypeUpper == "CHARACTER VARYING":
		return "string"
	case dbTypeUpper == "DECIMAL" || dbTypeUpper == "NUMERIC":
		return "float64"
	case dbTypeUpper == "FLOAT" || dbTypeUpper == "REAL" || dbTypeUpper == "FLOAT4":
		return "float32"
	case dbTypeUpper == "DOUBLE" || dbTypeUpper == "DOUBLE PRECISION" || dbTypeUpper == "FLOAT8":
		return "float64"
	case dbTypeUpper == "JSON" || dbTypeUpper == "JSONB":
		return "string"
	case dbTypeUpper == "DATE" || dbTypeUpper == "TIME":
		return "time.Time"
	case dbTypeUpper == "DATETIME" || dbTypeUpper == "DATETIME2" || strings.HasPrefix(dbTypeUpper, "TIMESTAMP"):
		return "time.Time"
	default:
		return "any"
	}
}
