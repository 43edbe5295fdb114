package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/shrek82/tagcheck/dialect"
	"github.com/shrek82/tagcheck/logger"
	"github.com/shrek82/tagcheck/pool"
)

// DBSource introspects a live database catalog.
type DBSource struct {
	Driver string
	DSN    string
	// Tables limits introspection; empty means every user table.
	Tables []string
	// Secret lists table.column entries to mark secret.
	Secret  []string
	Options *pool.Options
	Logger  logger.Logger
}

func (s *DBSource) Name() string { return "db" }

func (s *DBSource) Key() string {
	return s.Driver + "|" + s.DSN + "|" + strings.Join(s.Tables, ",") + "|" + strings.Join(s.Secret, ",")
}

func (s *DBSource) Load(ctx context.Context) (*List, error) {
	d, ok := dialect.Get(s.Driver)
	if !ok {
		return nil, fmt.Errorf("%w: unknown dialect %s", ErrSchemaFetchFailed, s.Driver)
	}

	p, err := pool.Open(ctx, s.Driver, s.DSN, s.Options)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrSchemaFetchFailed, s.Driver, err)
	}
	defer p.Close()

	tables := s.Tables
	if len(tables) == 0 {
		if tables, err = listTables(ctx, p, d); err != nil {
			return nil, fmt.Errorf("%w: list tables: %w", ErrSchemaFetchFailed, err)
		}
	}

	secret := make(map[string]bool, len(s.Secret))
	for _, sc := range s.Secret {
		secret[sc] = true
	}

	var cols []Column
	for _, table := range tables {
		if s.Logger != nil {
			s.Logger.Debug("introspecting table %s", table)
		}
		infos, err := tableColumns(ctx, p, d, table)
		if err != nil {
			return nil, fmt.Errorf("%w: table %s: %w", ErrSchemaFetchFailed, table, err)
		}
		if len(infos) == 0 {
			return nil, fmt.Errorf("%w: table %s has no columns", ErrSchemaFetchFailed, table)
		}
		for _, info := range infos {
			cols = append(cols, fromInfo(table, info, secret[table+"."+info.Name]))
		}
	}

	l := NewList(cols)
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func fromInfo(table string, info dialect.ColumnInfo, secret bool) Column {
	c := Column{
		TableName:  table,
		ColumnName: info.Name,
		Type:       info.Type,
		Nullable:   info.Nullable,
		Array:      info.Array || strings.HasSuffix(info.Type, "[]"),
		Secret:     secret,
	}
	if info.Default.Valid {
		def := info.Default.String
		c.DefaultSQL = &def
	}
	return c
}

func listTables(ctx context.Context, p pool.Pool, d dialect.Dialect) ([]string, error) {
	rows, err := p.QueryContext(ctx, d.TablesSQL())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func tableColumns(ctx context.Context, p pool.Pool, d dialect.Dialect, table string) ([]dialect.ColumnInfo, error) {
	query, args := d.ColumnsSQL(table)
	rows, err := p.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []dialect.ColumnInfo
	for rows.Next() {
		info, err := d.ScanColumn(rows)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
