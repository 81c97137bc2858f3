// Package sqlstore saves QVS20 tables to SQLite and loads them back.
//
// Every table becomes a regular SQL table named data_<name> with one SQL
// column per QVS20 column, so the data can be queried directly. The
// metadata tables qvs20_tables and qvs20_columns keep what SQL cannot hold:
// the row delimiter, the declared data types, the additional properties and
// the exact column names and order.
package sqlstore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/op/go-logging"
	_ "modernc.org/sqlite"

	"github.com/shapestone/shape-qvs20/pkg/types"
)

var log = logging.MustGetLogger("sqlstore")

//go:embed schema.sql
var schemaSQL string

var (
	// ErrNotFound is returned by Load for unknown table names.
	ErrNotFound = errors.New("table not found")
	// ErrNameConflict is returned when two table names map to the same SQL
	// table, which happens for names that differ only in case.
	ErrNameConflict = errors.New("table name conflicts with a stored table")
)

// Store is a SQLite database holding QVS20 tables.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the metadata
// tables exist.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// One connection keeps PRAGMA settings and avoids SQLITE_BUSY between
	// our own statements.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating metadata tables: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores table, replacing a stored table of the same name.
func (s *Store) Save(ctx context.Context, table *types.Table) error {
	if err := table.Validate(); err != nil {
		return err
	}
	sqlName := "data_" + table.Name

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var other string
	err = tx.QueryRowContext(ctx,
		"SELECT name FROM qvs20_tables WHERE sql_name = ? COLLATE NOCASE AND name <> ?",
		sqlName, table.Name).Scan(&other)
	switch {
	case err == nil:
		return fmt.Errorf("saving %q: %w %q", table.Name, ErrNameConflict, other)
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	if err := dropTable(ctx, tx, table.Name); err != nil {
		return err
	}

	columns := sqlColumnNames(table.ColumnNames)
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = quoteIdent(c) + " " + sqlType(table.DataTypes[i])
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)",
		quoteIdent(sqlName), strings.Join(defs, ", "))); err != nil {
		return fmt.Errorf("creating %s: %w", sqlName, err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO qvs20_tables (name, sql_name, row_delimiter, saved_at) VALUES (?, ?, ?, ?)",
		table.Name, sqlName, int(table.RowDelimiter), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	for i := range columns {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO qvs20_columns (table_name, position, name, sql_name, data_type, property) VALUES (?, ?, ?, ?, ?, ?)",
			table.Name, i, table.ColumnNames[i], columns[i], table.DataTypes[i].String(), table.AdditionalProperties[i]); err != nil {
			return err
		}
	}

	if len(table.Rows) > 0 {
		stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)",
			quoteIdent(sqlName), strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")))
		if err != nil {
			return err
		}
		defer stmt.Close()

		args := make([]interface{}, len(columns))
		for _, row := range table.Rows {
			for i, v := range row.Values {
				args[i] = sqlValue(v, table.DataTypes[i])
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("inserting into %s: %w", sqlName, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debugf("saved table %q with %d rows", table.Name, len(table.Rows))
	return nil
}

// Load returns the stored table called name.
func (s *Store) Load(ctx context.Context, name string) (*types.Table, error) {
	var sqlName string
	var delim int
	err := s.db.QueryRowContext(ctx,
		"SELECT sql_name, row_delimiter FROM qvs20_tables WHERE name = ?", name).Scan(&sqlName, &delim)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loading %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	table := &types.Table{Name: name, RowDelimiter: byte(delim)}
	var sqlColumns []string
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, sql_name, data_type, property FROM qvs20_columns WHERE table_name = ? ORDER BY position", name)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var col, sqlCol, dataType, prop string
		if err := rows.Scan(&col, &sqlCol, &dataType, &prop); err != nil {
			rows.Close()
			return nil, err
		}
		dt, err := types.ParseDataType(dataType)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("loading %q: column %q: %w", name, col, err)
		}
		table.ColumnNames = append(table.ColumnNames, col)
		table.DataTypes = append(table.DataTypes, dt)
		table.AdditionalProperties = append(table.AdditionalProperties, prop)
		sqlColumns = append(sqlColumns, quoteIdent(sqlCol))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	data, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid",
		strings.Join(sqlColumns, ", "), quoteIdent(sqlName)))
	if err != nil {
		return nil, err
	}
	defer data.Close()

	dest := make([]interface{}, len(sqlColumns))
	for data.Next() {
		for i, dt := range table.DataTypes {
			dest[i] = scanTarget(dt)
		}
		if err := data.Scan(dest...); err != nil {
			return nil, fmt.Errorf("loading %q: %w", name, err)
		}
		values := make([]types.Value, len(dest))
		for i := range dest {
			values[i] = scannedValue(dest[i])
		}
		table.Rows = append(table.Rows, types.NewRow(values...))
	}
	if err := data.Err(); err != nil {
		return nil, err
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("loading %q: %w", name, err)
	}
	log.Debugf("loaded table %q with %d rows", name, len(table.Rows))
	return table, nil
}

// Tables returns the names of the stored tables in order.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM qvs20_tables ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes a stored table. Deleting an unknown table is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := dropTable(ctx, tx, name); err != nil {
		return err
	}
	return tx.Commit()
}

func dropTable(ctx context.Context, tx *sql.Tx, name string) error {
	var sqlName string
	err := tx.QueryRowContext(ctx, "SELECT sql_name FROM qvs20_tables WHERE name = ?", name).Scan(&sqlName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(sqlName)); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM qvs20_tables WHERE name = ?", name)
	return err
}

// sqlColumnNames maps column names to SQL column names. SQLite compares
// identifiers without case, so names that collide that way get their
// position appended.
func sqlColumnNames(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		c := name
		if seen[strings.ToLower(c)] {
			c = name + "_" + strconv.Itoa(i+1)
		}
		for seen[strings.ToLower(c)] {
			c += "_"
		}
		seen[strings.ToLower(c)] = true
		out[i] = c
	}
	return out
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sqlType(dt types.DataType) string {
	switch dt {
	case types.TypeInteger:
		return "INTEGER"
	case types.TypeTable:
		return "BLOB"
	default:
		return "TEXT"
	}
}

func sqlValue(v types.Value, dt types.DataType) interface{} {
	switch v.Kind() {
	case types.KindInteger:
		n, _ := v.AsInteger()
		return n
	case types.KindBytes:
		b, _ := v.AsBytes()
		if dt == types.TypeTable {
			return b
		}
		return string(b)
	default:
		s, _ := v.AsString()
		return s
	}
}

func scanTarget(dt types.DataType) interface{} {
	switch dt.Kind() {
	case types.KindInteger:
		return new(int64)
	case types.KindBytes:
		return new([]byte)
	default:
		return new(sql.NullString)
	}
}

func scannedValue(dest interface{}) types.Value {
	switch d := dest.(type) {
	case *int64:
		return types.IntegerValue(*d)
	case *[]byte:
		return types.BytesValue(*d)
	default:
		return types.StringValue(dest.(*sql.NullString).String)
	}
}
