// Package reconcile computes the pure column-set diff that
// internal/sqlgen's AlterTable consumes, per spec.md §4.5.3/§4.6.
package reconcile

import (
	"sort"

	"motherduck-destination/internal/core"
)

// ColumnDiff is the result of comparing an existing column set against a
// requested one. Each set is sorted alphabetically by column name for
// reproducible output, per spec.md §4.6.
type ColumnDiff struct {
	Added   []core.ColumnDef
	Dropped []core.ColumnDef
	Retyped []core.ColumnDef
}

// Diff compares existing (as currently described by the warehouse)
// against requested (as asked for by the upstream schema), per spec.md
// §4.5.3. Primary-key flag changes are ignored — not supported, matching
// the teacher's treatment of options that cannot be altered in place.
// A name present in both sets is never reported as a drop plus an add:
// it is Retyped when its type differs and left out of the diff
// otherwise. Only a name missing from one side becomes Added or Dropped.
func Diff(existing, requested []core.ColumnDef) ColumnDiff {
	existingByName := make(map[string]core.ColumnDef, len(existing))
	for _, c := range existing {
		existingByName[c.Name] = c
	}
	requestedByName := make(map[string]core.ColumnDef, len(requested))
	for _, c := range requested {
		requestedByName[c.Name] = c
	}

	var d ColumnDiff
	for _, r := range requested {
		if _, ok := existingByName[r.Name]; !ok {
			d.Added = append(d.Added, r)
		}
	}
	for _, e := range existing {
		if _, ok := requestedByName[e.Name]; !ok {
			d.Dropped = append(d.Dropped, e)
		}
	}
	for _, r := range requested {
		if e, ok := existingByName[r.Name]; ok && e.Type != r.Type {
			d.Retyped = append(d.Retyped, r)
		}
	}

	sortByName(d.Added)
	sortByName(d.Dropped)
	sortByName(d.Retyped)
	return d
}

func sortByName(cols []core.ColumnDef) {
	sort.Slice(cols, func(i, j int) bool { return cols[i].Name < cols[j].Name })
}
