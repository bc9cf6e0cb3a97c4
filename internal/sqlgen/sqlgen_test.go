package sqlgen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motherduck-destination/internal/core"
)

var users = core.TableDef{DBName: "mydb", SchemaName: "main", TableName: "users"}

func TestQuoteIdentifierDoublesEmbeddedQuote(t *testing.T) {
	assert.Equal(t, `"a""b"`, QuoteIdentifier(`a"b`))
}

func TestQuoteStringDoublesEmbeddedQuote(t *testing.T) {
	assert.Equal(t, `'it''s'`, QuoteString(`it's`))
}

func TestQualifiedName(t *testing.T) {
	assert.Equal(t, `"mydb"."main"."users"`, QualifiedName(users))
}

func TestCreateTable(t *testing.T) {
	cols := []core.ColumnDef{
		{Name: "id", Type: core.TypeInt, PrimaryKey: true},
		{Name: "amount", Type: core.TypeDecimal, DecimalWidth: 10, DecimalScale: 2},
		{Name: "name", Type: core.TypeString},
	}
	sql, err := CreateTable(users, cols)
	require.NoError(t, err)
	assert.Contains(t, sql, `CREATE OR REPLACE TABLE "mydb"."main"."users"`)
	assert.Contains(t, sql, `"id" INTEGER`)
	assert.Contains(t, sql, `"amount" DECIMAL(10,2)`)
	assert.Contains(t, sql, `PRIMARY KEY ("id")`)
}

func TestAlterTableOrdersAddsDropsRetypes(t *testing.T) {
	added := []core.ColumnDef{{Name: "new_col", Type: core.TypeString}}
	dropped := []core.ColumnDef{{Name: "old_col"}}
	retyped := []core.ColumnDef{{Name: "changed_col", Type: core.TypeLong}}

	stmts, err := AlterTable(users, added, dropped, retyped)
	require.NoError(t, err)
	require.Len(t, stmts, 3)
	assert.Contains(t, stmts[0], "ADD COLUMN")
	assert.Contains(t, stmts[1], "DROP COLUMN")
	assert.Contains(t, stmts[2], "ALTER")
	assert.Contains(t, stmts[2], "TYPE BIGINT")
}

func TestUpsertPreservesSoftDeleteFlag(t *testing.T) {
	cols := []core.ColumnDef{
		{Name: "id", Type: core.TypeInt, PrimaryKey: true},
		{Name: "name", Type: core.TypeString},
		{Name: "_fivetran_deleted", Type: core.TypeBoolean},
		{Name: "_fivetran_synced", Type: core.TypeUTCDatetime},
	}
	sql, err := Upsert(users, cols, `"mydb"."temp_mem_db_1"."main"."csv_view"`)
	require.NoError(t, err)
	assert.Contains(t, sql, "INSERT INTO")
	assert.Contains(t, sql, `EXCLUDE ("_fivetran_synced")`)
	assert.Contains(t, sql, `"_fivetran_deleted" = excluded."_fivetran_deleted"`)
	assert.NotContains(t, sql, `"_fivetran_synced" = excluded`)
}

func TestUpdateWithUnmodifiedSentinel(t *testing.T) {
	cols := []core.ColumnDef{
		{Name: "id", Type: core.TypeInt, PrimaryKey: true},
		{Name: "name", Type: core.TypeString},
	}
	sql, err := UpdateWithUnmodifiedSentinel(users, cols, `"staging_view"`, "unmodified_string", "null_string")
	require.NoError(t, err)
	assert.Contains(t, sql, `WHEN staging."name" = 'unmodified_string' THEN target."name"`)
	assert.Contains(t, sql, `WHEN staging."name" = 'null_string' THEN NULL`)
	assert.Contains(t, sql, `TRY_CAST(staging."name" AS VARCHAR)`)
	assert.Contains(t, sql, `target."id" = TRY_CAST(staging."id" AS INTEGER)`)
}

func TestDelete(t *testing.T) {
	pk := []core.ColumnDef{{Name: "id", Type: core.TypeInt, PrimaryKey: true}}
	sql, err := Delete(users, pk, `"staging_view"`)
	require.NoError(t, err)
	assert.Contains(t, sql, "DELETE FROM")
	assert.Contains(t, sql, `target."id" = staging."id"`)
}

func TestTimeBoundedTruncateSoft(t *testing.T) {
	synced := core.ColumnDef{Name: "_fivetran_synced", Type: core.TypeUTCDatetime}
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sql, err := TimeBoundedTruncate(users, synced, "_fivetran_deleted", cutoff)
	require.NoError(t, err)
	assert.Contains(t, sql, `SET "_fivetran_deleted" = TRUE`)
	assert.Contains(t, sql, "2026-01-01T00:00:00Z")
}

func TestTimeBoundedTruncateHard(t *testing.T) {
	synced := core.ColumnDef{Name: "_fivetran_synced", Type: core.TypeUTCDatetime}
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sql, err := TimeBoundedTruncate(users, synced, "", cutoff)
	require.NoError(t, err)
	assert.Contains(t, sql, "DELETE FROM")
}

func TestTimeBoundedTruncateRejectsNonTimestampTZ(t *testing.T) {
	synced := core.ColumnDef{Name: "_fivetran_synced", Type: core.TypeNaiveDatetime}
	_, err := TimeBoundedTruncate(users, synced, "", time.Now().UTC())
	require.Error(t, err)
}
