package sqlgen

import (
	"strings"

	"motherduck-destination/internal/core"
)

// CreateTable emits CREATE OR REPLACE TABLE <qname> (<col_defs>, PRIMARY
// KEY (<pk1>, …)), per spec.md §4.5.1. Columns with default values emit
// DEFAULT <literal> exactly.
func CreateTable(table core.TableDef, cols []core.ColumnDef) (string, error) {
	var defs []string
	for _, c := range cols {
		lit, err := columnDefLiteral(c)
		if err != nil {
			return "", err
		}
		defs = append(defs, lit)
	}

	pk := core.PrimaryKeyNames(cols)
	if len(pk) > 0 {
		defs = append(defs, "PRIMARY KEY ("+quoteIdentifierList(pk)+")")
	}

	var b strings.Builder
	b.WriteString("CREATE OR REPLACE TABLE ")
	b.WriteString(QualifiedName(table))
	b.WriteString(" (")
	b.WriteString(strings.Join(defs, ", "))
	b.WriteString(")")
	return b.String(), nil
}
