package migrate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motherduck-destination/internal/core"
)

var orders = core.TableDef{DBName: "mydb", SchemaName: "main", TableName: "orders"}

func TestRenameColumn(t *testing.T) {
	p := RenameColumn(orders, "old_name", "new_name")
	require.Len(t, p.SQLStatements(), 1)
	assert.Contains(t, p.SQLStatements()[0], `RENAME COLUMN "old_name" TO "new_name"`)
}

func TestAddColumnInHistoryModeBuildsRetireAndInsert(t *testing.T) {
	conn := openFakeQueryConn(t, "history-add-column", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	defer conn.Close()

	opTs := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	def := "25"
	col := core.ColumnDef{Name: "age", Type: core.TypeInt, DefaultValue: &def}

	p, err := AddColumnInHistoryMode(context.Background(), conn, orders, col, opTs)
	require.NoError(t, err)

	stmts := p.SQLStatements()
	require.Len(t, stmts, 3)
	assert.Contains(t, stmts[0], `ALTER TABLE "mydb"."main"."orders" ADD COLUMN "age"`)
	assert.Contains(t, stmts[1], `UPDATE "mydb"."main"."orders" SET "_fivetran_end" = '2024-06-01T00:00:00Z', "_fivetran_active" = false WHERE "_fivetran_active" = true`)
	assert.Contains(t, stmts[2], `INSERT INTO "mydb"."main"."orders" BY NAME SELECT * EXCLUDE`)
	assert.Contains(t, stmts[2], `true AS "_fivetran_active"`)
	assert.Contains(t, stmts[2], `25 AS "age"`)
}

func TestAddColumnInHistoryModeRejectsNonMonotonicStart(t *testing.T) {
	conn := openFakeQueryConn(t, "history-add-column-nonmonotonic", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	defer conn.Close()

	col := core.ColumnDef{Name: "age", Type: core.TypeInt}
	_, err := AddColumnInHistoryMode(context.Background(), conn, orders, col, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
}

func TestDropTableIsFlaggedBreaking(t *testing.T) {
	p := DropTable(orders)
	require.Len(t, p.BreakingNotes(), 1)
	require.Len(t, p.SQLStatements(), 1)
	assert.Contains(t, p.SQLStatements()[0], "DROP TABLE")
}

func TestSyncModeMigrationLiveToHistory(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := SyncModeMigration(SyncModeMigrationParams{Table: orders, Transition: TransitionLiveToHistory, Now: now})
	stmts := p.SQLStatements()
	require.Len(t, stmts, 4)
	assert.Contains(t, stmts[0], "_fivetran_start")
	assert.Contains(t, stmts[3], "_fivetran_active")
}

func TestSyncModeMigrationHistoryToLiveDropsDeletedRowsByDefault(t *testing.T) {
	p := SyncModeMigration(SyncModeMigrationParams{Table: orders, Transition: TransitionHistoryToLive, KeepDeletedRows: false})
	require.Len(t, p.BreakingNotes(), 1)
	stmts := p.SQLStatements()
	assert.Contains(t, stmts[0], "DELETE FROM")
}

func TestSyncModeMigrationUnknownTransitionIsUnsupportedNotError(t *testing.T) {
	p := SyncModeMigration(SyncModeMigrationParams{Table: orders, Transition: SyncModeTransition(99)})
	assert.True(t, p.Unsupported)
}

func TestPlanDedupeDropsDuplicateNotes(t *testing.T) {
	p := &Plan{}
	p.AddNote("note one")
	p.AddNote("note one")
	p.AddBreaking("breaking one")
	p.AddBreaking("breaking one")
	p.Dedupe()

	notes := 0
	breaking := 0
	for _, op := range p.Operations {
		if op.Kind == core.OperationNote {
			notes++
		}
		if op.Kind == core.OperationBreaking {
			breaking++
		}
	}
	assert.Equal(t, 1, notes)
	assert.Equal(t, 1, breaking)
}
