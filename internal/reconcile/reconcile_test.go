package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"motherduck-destination/internal/core"
)

func TestDiffAddedDroppedRetypedAlphabetical(t *testing.T) {
	existing := []core.ColumnDef{
		{Name: "zeta", Type: core.TypeString},
		{Name: "old_col", Type: core.TypeString},
		{Name: "changed", Type: core.TypeInt},
	}
	requested := []core.ColumnDef{
		{Name: "zeta", Type: core.TypeString},
		{Name: "new_col", Type: core.TypeString},
		{Name: "another_new", Type: core.TypeString},
		{Name: "changed", Type: core.TypeLong},
	}

	d := Diff(existing, requested)

	assert.Equal(t, []string{"another_new", "new_col"}, names(d.Added))
	assert.Equal(t, []string{"old_col"}, names(d.Dropped))
	assert.Equal(t, []string{"changed"}, names(d.Retyped))
}

func TestDiffSameNameDifferentTypeIsRetype(t *testing.T) {
	existing := []core.ColumnDef{{Name: "same_name", Type: core.TypeInt}}
	requested := []core.ColumnDef{{Name: "same_name", Type: core.TypeString}}

	// Same name, different type ⇒ retype, not drop+add.
	d := Diff(existing, requested)
	assert.Empty(t, d.Added)
	assert.Empty(t, d.Dropped)
	assert.Equal(t, []string{"same_name"}, names(d.Retyped))
}

func names(cols []core.ColumnDef) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}
