package sqlgen

import (
	"fmt"
	"time"

	"motherduck-destination/internal/core"
	"motherduck-destination/internal/errs"
)

// TimeBoundedTruncate emits spec.md §4.5.7's soft or hard truncate.
// syncedColumn MUST be TIMESTAMPTZ (core.TypeUTCDatetime) — the Open
// Question from spec.md §9 is resolved that way in DESIGN.md, enforced
// here rather than silently coerced.
func TimeBoundedTruncate(table core.TableDef, syncedColumn core.ColumnDef, deletedColumn string, cutoff time.Time) (string, error) {
	if syncedColumn.Type != core.TypeUTCDatetime {
		return "", errs.InvalidArgument("synced column %q must be TIMESTAMPTZ for TimeBoundedTruncate", syncedColumn.Name)
	}

	cutoffLiteral := QuoteString(cutoff.UTC().Format(time.RFC3339Nano))
	qname := QualifiedName(table)
	syncedQ := QuoteIdentifier(syncedColumn.Name)

	if deletedColumn != "" {
		return fmt.Sprintf("UPDATE %s SET %s = TRUE WHERE %s < %s", qname, QuoteIdentifier(deletedColumn), syncedQ, cutoffLiteral), nil
	}
	return fmt.Sprintf("DELETE FROM %s WHERE %s < %s", qname, syncedQ, cutoffLiteral), nil
}
