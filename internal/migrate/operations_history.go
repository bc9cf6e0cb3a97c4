package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"motherduck-destination/internal/core"
	"motherduck-destination/internal/errs"
	"motherduck-destination/internal/sqlgen"
)

const fivetranStartMonotonicityError = "The _fivetran_start column contains values larger than the operation timestamp. Please contact Fivetran support."

// checkHistoryStartMonotonicity enforces max(_fivetran_start) <= opTs,
// per spec.md §4.7's AddColumnInHistoryMode precondition.
func checkHistoryStartMonotonicity(ctx context.Context, conn *sql.Conn, table core.TableDef, opTs time.Time) error {
	row := conn.QueryRowContext(ctx, fmt.Sprintf("SELECT max(%s) FROM %s", sqlgen.QuoteIdentifier(core.HistoryStartColumn), sqlgen.QualifiedName(table)))
	var maxStart sql.NullTime
	if err := row.Scan(&maxStart); err != nil {
		return errs.Warehouse(err)
	}
	if maxStart.Valid && maxStart.Time.After(opTs) {
		return errs.Precondition(fivetranStartMonotonicityError)
	}
	return nil
}

// AddColumnInHistoryMode retires every currently-active row and inserts
// its successor carrying the new column, per spec.md §4.7.
func AddColumnInHistoryMode(ctx context.Context, conn *sql.Conn, table core.TableDef, col core.ColumnDef, opTs time.Time) (*Plan, error) {
	if err := checkHistoryStartMonotonicity(ctx, conn, table, opTs); err != nil {
		return nil, err
	}

	typeLit, err := sqlgenColumnType(col)
	if err != nil {
		return nil, err
	}

	qname := sqlgen.QualifiedName(table)
	startCol := sqlgen.QuoteIdentifier(core.HistoryStartColumn)
	endCol := sqlgen.QuoteIdentifier(core.HistoryEndColumn)
	activeCol := sqlgen.QuoteIdentifier(core.HistoryActiveColumn)
	opTsLiteral := sqlgen.QuoteString(opTs.UTC().Format(time.RFC3339Nano))

	p := &Plan{}
	p.AddStatement(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", qname, sqlgen.QuoteIdentifier(col.Name), typeLit))

	p.AddStatement(fmt.Sprintf(
		"UPDATE %s SET %s = %s, %s = false WHERE %s = true",
		qname, endCol, opTsLiteral, activeCol, activeCol,
	))

	defaultLit := "NULL"
	if col.DefaultValue != nil {
		defaultLit = defaultLiteral(*col.DefaultValue)
	}
	p.AddStatement(fmt.Sprintf(
		"INSERT INTO %s BY NAME SELECT * EXCLUDE (%s, %s, %s, %s), %s AS %s, %s AS %s, true AS %s, %s AS %s FROM %s WHERE %s = %s",
		qname,
		startCol, endCol, activeCol, sqlgen.QuoteIdentifier(col.Name),
		opTsLiteral, startCol,
		sqlgen.QuoteString(core.HistoryEndOfTime), endCol,
		activeCol,
		defaultLit, sqlgen.QuoteIdentifier(col.Name),
		qname,
		endCol, opTsLiteral,
	))

	return p, nil
}

// DropColumnInHistoryMode mirrors AddColumnInHistoryMode but the new
// active rows carry NULL for the dropped column instead of a default;
// the column's historical values on inactive rows are preserved
// untouched (the column itself is never physically dropped).
func DropColumnInHistoryMode(ctx context.Context, conn *sql.Conn, table core.TableDef, colName string, opTs time.Time) (*Plan, error) {
	if err := checkHistoryStartMonotonicity(ctx, conn, table, opTs); err != nil {
		return nil, err
	}

	qname := sqlgen.QualifiedName(table)
	startCol := sqlgen.QuoteIdentifier(core.HistoryStartColumn)
	endCol := sqlgen.QuoteIdentifier(core.HistoryEndColumn)
	activeCol := sqlgen.QuoteIdentifier(core.HistoryActiveColumn)
	opTsLiteral := sqlgen.QuoteString(opTs.UTC().Format(time.RFC3339Nano))

	p := &Plan{}
	p.AddStatement(fmt.Sprintf(
		"UPDATE %s SET %s = %s, %s = false WHERE %s = true",
		qname, endCol, opTsLiteral, activeCol, activeCol,
	))
	p.AddStatement(fmt.Sprintf(
		"INSERT INTO %s BY NAME SELECT * EXCLUDE (%s, %s, %s, %s), %s AS %s, %s AS %s, true AS %s, NULL AS %s FROM %s WHERE %s = %s",
		qname,
		startCol, endCol, activeCol, sqlgen.QuoteIdentifier(colName),
		opTsLiteral, startCol,
		sqlgen.QuoteString(core.HistoryEndOfTime), endCol,
		activeCol,
		sqlgen.QuoteIdentifier(colName),
		qname,
		endCol, opTsLiteral,
	))
	return p, nil
}

// UpdateColumnValue emits UPDATE <q> SET "col" = <literal>.
func UpdateColumnValue(table core.TableDef, colName, valueLiteral string) *Plan {
	p := &Plan{}
	p.AddStatement(fmt.Sprintf("UPDATE %s SET %s = %s", sqlgen.QualifiedName(table), sqlgen.QuoteIdentifier(colName), defaultLiteral(valueLiteral)))
	return p
}
