package sqlgen

import (
	"fmt"

	"motherduck-destination/internal/core"
)

// AlterTable emits ADD COLUMN statements first, DROP COLUMN next, and
// ALTER…TYPE last, per spec.md §4.5.3's ordering requirement. A
// dropped-then-added name is treated as two independent operations, not
// merged into a rename.
func AlterTable(table core.TableDef, added, dropped, retyped []core.ColumnDef) ([]string, error) {
	qname := QualifiedName(table)
	var stmts []string

	for _, c := range added {
		lit, err := columnDefLiteral(c)
		if err != nil {
			return nil, err
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", qname, lit)
		if c.PrimaryKey {
			stmt += " PRIMARY KEY"
		}
		stmts = append(stmts, stmt)
	}

	for _, c := range dropped {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", qname, QuoteIdentifier(c.Name)))
	}

	for _, c := range retyped {
		typeLit, err := columnTypeLiteral(c)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER %s TYPE %s", qname, QuoteIdentifier(c.Name), typeLit))
	}

	return stmts, nil
}
