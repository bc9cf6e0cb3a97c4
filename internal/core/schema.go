// Package core contains the single source of truth for the data the
// destination connector moves: column/table definitions, the CDC wire
// type enum, and the sync-mode variants a table can be stored under.
package core

import "fmt"

// DataType is the CDC wire type enum from spec.md §6.2.
type DataType string

const (
	TypeUnspecified   DataType = ""
	TypeBoolean       DataType = "BOOLEAN"
	TypeShort         DataType = "SHORT"
	TypeInt           DataType = "INT"
	TypeLong          DataType = "LONG"
	TypeFloat         DataType = "FLOAT"
	TypeDouble        DataType = "DOUBLE"
	TypeNaiveDate     DataType = "NAIVE_DATE"
	TypeNaiveDatetime DataType = "NAIVE_DATETIME"
	TypeUTCDatetime   DataType = "UTC_DATETIME"
	TypeDecimal       DataType = "DECIMAL"
	TypeBinary        DataType = "BINARY"
	TypeString        DataType = "STRING"
	TypeJSON          DataType = "JSON"
)

// ColumnDef describes one column of a table as requested by the upstream
// CDC pipeline or as described back from the warehouse.
type ColumnDef struct {
	// Name is the column identifier; quoted on emit.
	Name string
	// Type is the semantic CDC/warehouse type.
	Type DataType
	// PrimaryKey marks this column as part of the table's primary key.
	PrimaryKey bool
	// DecimalWidth and DecimalScale are valid only when Type == TypeDecimal.
	DecimalWidth int
	DecimalScale int
	// DefaultValue is an unparsed SQL literal, used only by migrations.
	DefaultValue *string
	// Comment is copied to and from the RPC Column; no generated SQL
	// emits it, and DescribeTable never fills it (DuckDB's
	// information_schema exposes no column comment).
	Comment string
}

// TableDef is the (db, schema, table) triple identifying a target table.
type TableDef struct {
	DBName     string
	SchemaName string
	TableName  string
}

// Normalize fills SchemaName with "main" when empty and validates that
// TableName is non-empty, per spec.md §3.
func (t TableDef) Normalize() (TableDef, error) {
	if t.SchemaName == "" {
		t.SchemaName = "main"
	}
	if t.TableName == "" {
		return t, fmt.Errorf("table_name must be non-empty")
	}
	return t, nil
}

// SyncModeKind enumerates the three storage disciplines a table can use.
type SyncModeKind string

const (
	SyncLive       SyncModeKind = "LIVE"
	SyncSoftDelete SyncModeKind = "SOFT_DELETE"
	SyncHistory    SyncModeKind = "HISTORY"
)

// SyncMode is the tagged-union equivalent of spec.md's SyncMode ∈
// {Live, SoftDelete(deleted_column_name), History}.
type SyncMode struct {
	Kind              SyncModeKind
	DeletedColumnName string // only meaningful when Kind == SyncSoftDelete
}

// History-mode system columns, per spec.md §3.
const (
	HistoryStartColumn  = "_fivetran_start"
	HistoryEndColumn    = "_fivetran_end"
	HistoryActiveColumn = "_fivetran_active"
)

// HistoryEndOfTime is the sentinel "still active" end timestamp used by
// History-mode rows, rendered as an ISO-8601 UTC literal with
// millisecond precision per the original implementation.
const HistoryEndOfTime = "9999-12-31T23:59:59.999Z"

// FindColumn looks up a column by name (case-sensitive, matching the
// upstream's exact header names).
func FindColumn(cols []ColumnDef, name string) (ColumnDef, bool) {
	for _, c := range cols {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// Names returns the column names, preserving order.
func Names(cols []ColumnDef) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}

// PrimaryKeyNames returns the names of all primary-key columns, preserving order.
func PrimaryKeyNames(cols []ColumnDef) []string {
	var out []string
	for _, c := range cols {
		if c.PrimaryKey {
			out = append(out, c.Name)
		}
	}
	return out
}
