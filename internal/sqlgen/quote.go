// Package sqlgen builds every SQL statement the connector ever issues
// against DuckDB/MotherDuck: DDL (CreateTable, DescribeTable, AlterTable)
// and DML (Upsert, UpdateWithUnmodifiedSentinel, Delete,
// TimeBoundedTruncate). All identifiers are emitted double-quoted
// (doubling embedded `"`), all string literals single-quoted (doubling
// embedded `'`), following the teacher's
// mysql.Generator.QuoteIdentifier/QuoteString shape but with DuckDB's
// ANSI quoting instead of MySQL backtick/backslash quoting.
package sqlgen

import (
	"fmt"
	"strings"

	"motherduck-destination/internal/core"
)

// QuoteIdentifier double-quotes name, doubling any embedded `"`.
func QuoteIdentifier(name string) string {
	name = strings.ReplaceAll(name, `"`, `""`)
	return `"` + name + `"`
}

// QuoteString single-quotes value, doubling any embedded `'`. DuckDB uses
// standard-SQL quote doubling, not MySQL-style backslash escapes.
func QuoteString(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// QualifiedName emits "db"."schema"."table", grounded on the original
// implementation's tablename() free function (src/sql_generator.cpp),
// factored out the same way so internal/migrate and internal/rpcserver
// can both call it without going through a specific statement builder.
func QualifiedName(t core.TableDef) string {
	return fmt.Sprintf("%s.%s.%s", QuoteIdentifier(t.DBName), QuoteIdentifier(t.SchemaName), QuoteIdentifier(t.TableName))
}

// quoteIdentifierList quotes and comma-joins names, e.g. for PRIMARY KEY
// column lists.
func quoteIdentifierList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = QuoteIdentifier(n)
	}
	return strings.Join(quoted, ", ")
}
