package sqlgen

import (
	"fmt"
	"strings"

	"motherduck-destination/internal/core"
)

// UpdateWithUnmodifiedSentinel emits the update-file statement from
// spec.md §4.5.5. The staging view is all-VARCHAR; each non-PK column is
// set via a CASE over the unmodified/null sentinels, falling back to
// TRY_CAST for any real value.
func UpdateWithUnmodifiedSentinel(table core.TableDef, targetCols []core.ColumnDef, stagingRelation, unmodifiedString, nullString string) (string, error) {
	pk := targetCols
	var pkCols []core.ColumnDef
	for _, c := range pk {
		if c.PrimaryKey {
			pkCols = append(pkCols, c)
		}
	}
	if len(pkCols) == 0 {
		return "", fmt.Errorf("update requires at least one primary-key column on %s", table.TableName)
	}

	qname := QualifiedName(table)

	var setClauses []string
	for _, c := range targetCols {
		if c.PrimaryKey {
			continue
		}
		typeLit, err := columnTypeLiteral(c)
		if err != nil {
			return "", err
		}
		q := QuoteIdentifier(c.Name)
		setClauses = append(setClauses, fmt.Sprintf(
			"%s = CASE WHEN staging.%s = %s THEN target.%s\n"+
				"           WHEN staging.%s = %s THEN NULL\n"+
				"           ELSE TRY_CAST(staging.%s AS %s) END",
			q, q, QuoteString(unmodifiedString), q,
			q, QuoteString(nullString),
			q, typeLit,
		))
	}

	var joinClauses []string
	for _, c := range pkCols {
		typeLit, err := columnTypeLiteral(c)
		if err != nil {
			return "", err
		}
		q := QuoteIdentifier(c.Name)
		joinClauses = append(joinClauses, fmt.Sprintf("target.%s = TRY_CAST(staging.%s AS %s)", q, q, typeLit))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "UPDATE %s AS target SET\n  %s\n", qname, strings.Join(setClauses, ",\n  "))
	fmt.Fprintf(&b, "FROM %s AS staging WHERE %s", stagingRelation, strings.Join(joinClauses, " AND "))
	return b.String(), nil
}
