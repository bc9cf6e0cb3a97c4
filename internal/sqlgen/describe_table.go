package sqlgen

import (
	"context"
	"database/sql"

	"motherduck-destination/internal/core"
	"motherduck-destination/internal/errs"
	"motherduck-destination/internal/typemap"
)

// describeTableQuery is the fixed information_schema.columns query used
// to introspect a table's current shape, grounded on the teacher's
// internal/introspect/mysql raw-SQL introspection style (positional
// parameters, ordinal_position ordering).
const describeTableQuery = `
SELECT column_name, data_type, is_primary_key, numeric_precision, numeric_scale, column_default
FROM information_schema.columns
WHERE table_catalog = ? AND table_schema = ? AND table_name = ?
ORDER BY ordinal_position`

// DescribeTable returns the table's current columns. If the table does
// not exist, it returns an empty slice and a nil error; the caller is
// responsible for reporting not_found.
func DescribeTable(ctx context.Context, conn *sql.Conn, table core.TableDef) ([]core.ColumnDef, error) {
	rows, err := conn.QueryContext(ctx, describeTableQuery, table.DBName, table.SchemaName, table.TableName)
	if err != nil {
		return nil, errs.Warehouse(err)
	}
	defer rows.Close()

	var cols []core.ColumnDef
	for rows.Next() {
		var (
			name          string
			dataType      string
			isPrimaryKey  bool
			numericPrec   sql.NullInt64
			numericScale  sql.NullInt64
			columnDefault sql.NullString
		)
		if err := rows.Scan(&name, &dataType, &isPrimaryKey, &numericPrec, &numericScale, &columnDefault); err != nil {
			return nil, errs.Warehouse(err)
		}

		col := core.ColumnDef{
			Name:       name,
			Type:       typemap.CDCType(dataType),
			PrimaryKey: isPrimaryKey,
		}
		if w, s, ok := typemap.ParseDecimalWidthScale(dataType); ok {
			col.DecimalWidth = w
			col.DecimalScale = s
		} else {
			col.DecimalWidth = int(numericPrec.Int64)
			col.DecimalScale = int(numericScale.Int64)
		}
		if columnDefault.Valid {
			v := columnDefault.String
			col.DefaultValue = &v
		}
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Warehouse(err)
	}

	return cols, nil
}
