package migrate

import (
	"fmt"
	"time"

	"motherduck-destination/internal/core"
	"motherduck-destination/internal/sqlgen"
	"motherduck-destination/internal/typemap"
)

// DropTable emits DROP TABLE <q>, flagged breaking. Absence of the table
// is a warehouse-error-verbatim failure, not swallowed here.
func DropTable(table core.TableDef) *Plan {
	p := &Plan{}
	p.AddBreaking(fmt.Sprintf("dropping table %s", sqlgen.QualifiedName(table)))
	p.AddStatement(fmt.Sprintf("DROP TABLE %s", sqlgen.QualifiedName(table)))
	return p
}

// RenameTable emits ALTER TABLE <q(from)> RENAME TO "to".
func RenameTable(from core.TableDef, to string) *Plan {
	p := &Plan{}
	p.AddStatement(fmt.Sprintf("ALTER TABLE %s RENAME TO %s", sqlgen.QualifiedName(from), sqlgen.QuoteIdentifier(to)))
	return p
}

// RenameColumn emits ALTER TABLE <q> RENAME COLUMN "from" TO "to".
func RenameColumn(table core.TableDef, from, to string) *Plan {
	p := &Plan{}
	p.AddStatement(fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", sqlgen.QualifiedName(table), sqlgen.QuoteIdentifier(from), sqlgen.QuoteIdentifier(to)))
	return p
}

// CopyTable emits CREATE TABLE <q(to)> AS SELECT * FROM <q(from)>.
// Column names and types (including DECIMAL precision/scale) carry over;
// column defaults and the primary key do not, since CREATE TABLE AS
// SELECT copies no constraints.
func CopyTable(from, to core.TableDef) *Plan {
	p := &Plan{}
	p.AddStatement(fmt.Sprintf("CREATE TABLE %s AS SELECT * FROM %s", sqlgen.QualifiedName(to), sqlgen.QualifiedName(from)))
	return p
}

// CopyColumn emits ADD COLUMN "to" <type_of_from> followed by UPDATE ...
// SET "to" = "from", as two statements in one Plan.
func CopyColumn(table core.TableDef, fromCol core.ColumnDef, toName string) (*Plan, error) {
	typeLit, err := sqlgenColumnType(fromCol)
	if err != nil {
		return nil, err
	}
	p := &Plan{}
	p.AddStatement(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", sqlgen.QualifiedName(table), sqlgen.QuoteIdentifier(toName), typeLit))
	p.AddStatement(fmt.Sprintf("UPDATE %s SET %s = %s", sqlgen.QualifiedName(table), sqlgen.QuoteIdentifier(toName), sqlgen.QuoteIdentifier(fromCol.Name)))
	return p, nil
}

// CopyTableToHistoryMode creates `to` with the source's columns plus the
// three _fivetran_* history columns (omitting softDeletedCol if given),
// populating _fivetran_active from the soft-delete flag and stamping
// _fivetran_start/_fivetran_end around "now".
func CopyTableToHistoryMode(from, to core.TableDef, softDeletedCol string, now time.Time) *Plan {
	p := &Plan{}
	selectCols := "* EXCLUDE (" + sqlgen.QuoteIdentifier(softDeletedCol) + ")"
	activeExpr := fmt.Sprintf("NOT coalesce(%s, false)", sqlgen.QuoteIdentifier(softDeletedCol))
	if softDeletedCol == "" {
		selectCols = "*"
		activeExpr = "true"
	}

	stmt := fmt.Sprintf(
		"CREATE TABLE %s AS SELECT %s, %s AS %s, %s AS %s, %s AS %s FROM %s",
		sqlgen.QualifiedName(to),
		selectCols,
		sqlgen.QuoteString(now.UTC().Format(time.RFC3339Nano)), sqlgen.QuoteIdentifier(core.HistoryStartColumn),
		sqlgen.QuoteString(core.HistoryEndOfTime), sqlgen.QuoteIdentifier(core.HistoryEndColumn),
		activeExpr, sqlgen.QuoteIdentifier(core.HistoryActiveColumn),
		sqlgen.QualifiedName(from),
	)
	p.AddStatement(stmt)
	p.AddNote(fmt.Sprintf("%s is now part of the primary key of %s", core.HistoryStartColumn, to.TableName))
	return p
}

// AddColumnWithDefault emits ALTER TABLE ADD COLUMN ... DEFAULT <literal>.
func AddColumnWithDefault(table core.TableDef, col core.ColumnDef) (*Plan, error) {
	typeLit, err := sqlgenColumnType(col)
	if err != nil {
		return nil, err
	}
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", sqlgen.QualifiedName(table), sqlgen.QuoteIdentifier(col.Name), typeLit)
	if col.DefaultValue != nil {
		stmt += " DEFAULT " + defaultLiteral(*col.DefaultValue)
	}
	p := &Plan{}
	p.AddStatement(stmt)
	return p, nil
}

// defaultLiteral mirrors sqlgen's Open-Question resolution: "NULL" ⇒ SQL
// NULL, "" ⇒ '', anything else emitted exactly as supplied.
func defaultLiteral(literal string) string {
	if literal == "NULL" {
		return "NULL"
	}
	if literal == "" {
		return "''"
	}
	return literal
}

func sqlgenColumnType(c core.ColumnDef) (string, error) {
	return typemap.WarehouseType(c.Type, c.DecimalWidth, c.DecimalScale)
}
