package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motherduck-destination/internal/core"
)

func TestBuildCreateViewStatementAutoDetectOnUnspecified(t *testing.T) {
	props := IngestProps{
		Columns: []core.ColumnDef{{Name: "id", Type: core.TypeUnspecified}},
		Policy:  PolicyExplicitTypes,
	}
	stmt, viewName, err := buildCreateViewStatement("temp_mem_db_1", "/proc/self/fd/9", CompressionNone, props)
	require.NoError(t, err)
	assert.Contains(t, stmt, "auto_detect=true")
	assert.NotContains(t, stmt, "column_types=")
	assert.Contains(t, viewName, "csv_view")
}

func TestBuildCreateViewStatementAllVarchar(t *testing.T) {
	props := IngestProps{
		Columns: []core.ColumnDef{{Name: "id", Type: core.TypeInt}},
		Policy:  PolicyAllVarchar,
	}
	stmt, _, err := buildCreateViewStatement("temp_mem_db_1", "/proc/self/fd/9", CompressionZstd, props)
	require.NoError(t, err)
	assert.Contains(t, stmt, "all_varchar=true")
	assert.Contains(t, stmt, "compression='zstd'")
}

func TestBuildCreateViewStatementExplicitTypes(t *testing.T) {
	props := IngestProps{
		Columns: []core.ColumnDef{{Name: "id", Type: core.TypeInt}, {Name: "name", Type: core.TypeString}},
		Policy:  PolicyExplicitTypes,
	}
	stmt, _, err := buildCreateViewStatement("temp_mem_db_1", "/proc/self/fd/9", CompressionNone, props)
	require.NoError(t, err)
	assert.Contains(t, stmt, "column_types={")
	assert.Contains(t, stmt, `'id': 'INTEGER'`)
	assert.Contains(t, stmt, `SELECT "id", "name"`)
}

func TestBuildCreateViewStatementNullstr(t *testing.T) {
	props := IngestProps{
		Columns:   []core.ColumnDef{{Name: "id", Type: core.TypeInt}},
		Policy:    PolicyAllVarchar,
		NullValue: `\N`,
	}
	stmt, _, err := buildCreateViewStatement("temp_mem_db_1", "/proc/self/fd/9", CompressionNone, props)
	require.NoError(t, err)
	assert.Contains(t, stmt, `nullstr='\N'`)
}
