package sqlgen

import (
	"fmt"
	"strings"

	"motherduck-destination/internal/core"
)

// excludedFromUpsertSelect lists system columns the INSERT...BY NAME
// SELECT never takes verbatim from staging, since they are either
// connector-side (_fivetran_synced, which neither the insert nor the
// ON CONFLICT update writes, and no caller stamps) or not produced by a
// plain replace-file staging view. _fivetran_deleted
// is deliberately NOT in this list: when present on the target it must
// flow through from staging so the ON CONFLICT branch can reference
// excluded."_fivetran_deleted" and preserve soft-delete semantics, per
// spec.md §4.5.4.
var excludedFromUpsertSelect = []string{"_fivetran_synced"}

// Upsert emits the replace-file statement from spec.md §4.5.4: insert by
// name from staging, updating every non-PK column on conflict.
func Upsert(table core.TableDef, targetCols []core.ColumnDef, stagingRelation string) (string, error) {
	pk := core.PrimaryKeyNames(targetCols)
	if len(pk) == 0 {
		return "", fmt.Errorf("upsert requires at least one primary-key column on %s", table.TableName)
	}

	var excludeNames []string
	for _, name := range excludedFromUpsertSelect {
		if _, ok := core.FindColumn(targetCols, name); ok {
			excludeNames = append(excludeNames, name)
		}
	}

	selectClause := "SELECT *"
	if len(excludeNames) > 0 {
		selectClause = fmt.Sprintf("SELECT * EXCLUDE (%s)", quoteIdentifierList(excludeNames))
	}

	var setClauses []string
	for _, c := range targetCols {
		if c.PrimaryKey {
			continue
		}
		if isExcludedSystemColumn(c.Name) {
			continue
		}
		q := QuoteIdentifier(c.Name)
		setClauses = append(setClauses, fmt.Sprintf("%s = excluded.%s", q, q))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s BY NAME\n", QualifiedName(table))
	fmt.Fprintf(&b, "%s\n", selectClause)
	fmt.Fprintf(&b, "FROM %s\n", stagingRelation)
	fmt.Fprintf(&b, "ON CONFLICT (%s) DO UPDATE SET\n  %s", quoteIdentifierList(pk), strings.Join(setClauses, ",\n  "))
	return b.String(), nil
}

func isExcludedSystemColumn(name string) bool {
	for _, n := range excludedFromUpsertSelect {
		if n == name {
			return true
		}
	}
	return false
}
