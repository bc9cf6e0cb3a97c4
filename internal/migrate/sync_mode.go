package migrate

import (
	"fmt"
	"time"

	"motherduck-destination/internal/core"
	"motherduck-destination/internal/sqlgen"
)

// SyncModeTransition identifies one of the six supported sync-mode
// migrations from spec.md §4.7.
type SyncModeTransition int

const (
	TransitionLiveToSoftDelete SyncModeTransition = iota
	TransitionSoftDeleteToLive
	TransitionLiveToHistory
	TransitionHistoryToLive
	TransitionHistoryToSoftDelete
	TransitionSoftDeleteToHistory
)

// SyncModeMigrationParams carries the arguments every transition might
// need; only the fields relevant to the chosen Transition are read.
type SyncModeMigrationParams struct {
	Table             core.TableDef
	Transition        SyncModeTransition
	DeletedColumnName string
	KeepDeletedRows   bool
	Now               time.Time
}

// SyncModeMigration dispatches to the statement sequence for one of the
// six sync-mode transitions, per spec.md §4.7.
func SyncModeMigration(p SyncModeMigrationParams) *Plan {
	switch p.Transition {
	case TransitionLiveToSoftDelete:
		return liveToSoftDelete(p.Table, p.DeletedColumnName)
	case TransitionSoftDeleteToLive:
		return softDeleteToLive(p.Table, p.DeletedColumnName)
	case TransitionLiveToHistory:
		return liveToHistory(p.Table, p.Now)
	case TransitionHistoryToLive:
		return historyToLive(p.Table, p.KeepDeletedRows)
	case TransitionHistoryToSoftDelete:
		return historyToSoftDelete(p.Table, p.DeletedColumnName)
	case TransitionSoftDeleteToHistory:
		return softDeleteToHistory(p.Table, p.DeletedColumnName, p.Now)
	default:
		return UnsupportedPlan()
	}
}

func liveToSoftDelete(table core.TableDef, deletedCol string) *Plan {
	qname := sqlgen.QualifiedName(table)
	d := sqlgen.QuoteIdentifier(deletedCol)
	p := &Plan{}
	p.AddStatement(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s BOOLEAN DEFAULT false", qname, d))
	p.AddStatement(fmt.Sprintf("UPDATE %s SET %s = false", qname, d))
	return p
}

func softDeleteToLive(table core.TableDef, deletedCol string) *Plan {
	qname := sqlgen.QualifiedName(table)
	d := sqlgen.QuoteIdentifier(deletedCol)
	p := &Plan{}
	p.AddBreaking(fmt.Sprintf("permanently deleting soft-deleted rows from %s", table.TableName))
	p.AddStatement(fmt.Sprintf("DELETE FROM %s WHERE %s = true", qname, d))
	p.AddStatement(fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", qname, d))
	return p
}

func liveToHistory(table core.TableDef, now time.Time) *Plan {
	qname := sqlgen.QualifiedName(table)
	startCol := sqlgen.QuoteIdentifier(core.HistoryStartColumn)
	endCol := sqlgen.QuoteIdentifier(core.HistoryEndColumn)
	activeCol := sqlgen.QuoteIdentifier(core.HistoryActiveColumn)

	p := &Plan{}
	p.AddStatement(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TIMESTAMPTZ", qname, startCol))
	p.AddStatement(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TIMESTAMPTZ", qname, endCol))
	p.AddStatement(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s BOOLEAN", qname, activeCol))
	p.AddStatement(fmt.Sprintf(
		"UPDATE %s SET %s = true, %s = %s, %s = %s",
		qname, activeCol, startCol, sqlgen.QuoteString(now.UTC().Format(time.RFC3339Nano)), endCol, sqlgen.QuoteString(core.HistoryEndOfTime),
	))
	p.AddNote(fmt.Sprintf("%s is now part of the primary key of %s", core.HistoryStartColumn, table.TableName))
	return p
}

func historyToLive(table core.TableDef, keepDeletedRows bool) *Plan {
	qname := sqlgen.QualifiedName(table)
	activeCol := sqlgen.QuoteIdentifier(core.HistoryActiveColumn)

	p := &Plan{}
	if !keepDeletedRows {
		p.AddBreaking(fmt.Sprintf("permanently deleting inactive history rows from %s", table.TableName))
		p.AddStatement(fmt.Sprintf("DELETE FROM %s WHERE %s = false", qname, activeCol))
	}
	p.AddStatement(fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", qname, sqlgen.QuoteIdentifier(core.HistoryStartColumn)))
	p.AddStatement(fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", qname, sqlgen.QuoteIdentifier(core.HistoryEndColumn)))
	p.AddStatement(fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", qname, activeCol))
	p.AddNote(fmt.Sprintf("%s removed from the primary key of %s", core.HistoryStartColumn, table.TableName))
	return p
}

func historyToSoftDelete(table core.TableDef, deletedCol string) *Plan {
	qname := sqlgen.QualifiedName(table)
	activeCol := sqlgen.QuoteIdentifier(core.HistoryActiveColumn)
	startCol := sqlgen.QuoteIdentifier(core.HistoryStartColumn)
	endCol := sqlgen.QuoteIdentifier(core.HistoryEndColumn)
	d := sqlgen.QuoteIdentifier(deletedCol)

	p := &Plan{}
	p.AddBreaking(fmt.Sprintf("collapsing %s to its latest row per key", table.TableName))
	p.AddStatement(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s BOOLEAN", qname, d))
	p.AddStatement(fmt.Sprintf("UPDATE %s SET %s = NOT %s", qname, d, activeCol))
	p.AddStatement(fmt.Sprintf("DELETE FROM %s WHERE %s = false", qname, activeCol))
	p.AddStatement(fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", qname, startCol))
	p.AddStatement(fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", qname, endCol))
	p.AddStatement(fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", qname, activeCol))
	return p
}

func softDeleteToHistory(table core.TableDef, deletedCol string, now time.Time) *Plan {
	qname := sqlgen.QualifiedName(table)
	startCol := sqlgen.QuoteIdentifier(core.HistoryStartColumn)
	endCol := sqlgen.QuoteIdentifier(core.HistoryEndColumn)
	activeCol := sqlgen.QuoteIdentifier(core.HistoryActiveColumn)
	d := sqlgen.QuoteIdentifier(deletedCol)

	p := &Plan{}
	p.AddStatement(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TIMESTAMPTZ", qname, startCol))
	p.AddStatement(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TIMESTAMPTZ", qname, endCol))
	p.AddStatement(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s BOOLEAN", qname, activeCol))
	p.AddStatement(fmt.Sprintf(
		"UPDATE %s SET %s = NOT %s, %s = %s, %s = %s",
		qname, activeCol, d, startCol, sqlgen.QuoteString(now.UTC().Format(time.RFC3339Nano)), endCol, sqlgen.QuoteString(core.HistoryEndOfTime),
	))
	p.AddStatement(fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", qname, d))
	p.AddNote(fmt.Sprintf("%s is now part of the primary key of %s", core.HistoryStartColumn, table.TableName))
	return p
}
