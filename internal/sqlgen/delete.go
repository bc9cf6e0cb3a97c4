package sqlgen

import (
	"fmt"
	"strings"

	"motherduck-destination/internal/core"
)

// Delete emits the delete-file statement from spec.md §4.5.6.
func Delete(table core.TableDef, pkCols []core.ColumnDef, stagingRelation string) (string, error) {
	if len(pkCols) == 0 {
		return "", fmt.Errorf("delete requires at least one primary-key column on %s", table.TableName)
	}

	var joinClauses []string
	for _, c := range pkCols {
		q := QuoteIdentifier(c.Name)
		joinClauses = append(joinClauses, fmt.Sprintf("target.%s = staging.%s", q, q))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "DELETE FROM %s AS target USING %s AS staging\n", QualifiedName(table), stagingRelation)
	fmt.Fprintf(&b, " WHERE %s", strings.Join(joinClauses, " AND "))
	return b.String(), nil
}
