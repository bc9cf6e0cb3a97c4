// Package migrate implements spec.md §4.7's MigrationPlanner: one atomic
// operation dispatched from a MigrateRequest oneof, built on the
// teacher's migration.Migration/core.Operation accumulator.
package migrate

import (
	"strings"

	"motherduck-destination/internal/core"
)

// Plan accumulates the statements, notes, and breaking-change warnings
// that make up one migration operation's execution plan. Adapted from
// the teacher's internal/migration.Migration, minus rollback-statement
// tracking: this connector's migrations are single atomic operations
// with no rollback-generation requirement.
type Plan struct {
	Operations []core.Operation
	Unsupported bool
}

// AddStatement appends an executable SQL statement. Blank statements are
// dropped.
func (p *Plan) AddStatement(stmt string) {
	if stmt = strings.TrimSpace(stmt); stmt == "" {
		return
	}
	p.Operations = append(p.Operations, core.Operation{Kind: core.OperationSQL, SQL: stmt})
}

// AddBreaking appends a breaking-change warning, reusing
// core.Operation.Risk the way the teacher's MySQL generator flags unsafe
// drops — this is the one piece of that breaking-change-analysis idiom
// that survives here, since the teacher's internal/diff breaking-change
// analyzer file was absent from the retrieved tree (see DESIGN.md).
func (p *Plan) AddBreaking(msg string) {
	if msg = strings.TrimSpace(msg); msg == "" {
		return
	}
	p.Operations = append(p.Operations, core.Operation{Kind: core.OperationBreaking, SQL: msg, Risk: core.RiskBreaking})
}

// AddNote appends an informational note.
func (p *Plan) AddNote(msg string) {
	if msg = strings.TrimSpace(msg); msg == "" {
		return
	}
	p.Operations = append(p.Operations, core.Operation{Kind: core.OperationNote, SQL: msg, Risk: core.RiskInfo})
}

// Dedupe removes duplicate notes/breaking-change warnings, preserving
// first occurrence order. SQL statements are never deduplicated: the
// same ALTER TABLE text can legitimately appear twice against different
// tables.
func (p *Plan) Dedupe() {
	seenNote := make(map[string]struct{}, len(p.Operations))
	seenBreaking := make(map[string]struct{}, len(p.Operations))
	out := make([]core.Operation, 0, len(p.Operations))

	for _, op := range p.Operations {
		op.SQL = strings.TrimSpace(op.SQL)
		switch op.Kind {
		case core.OperationNote:
			if op.SQL == "" {
				continue
			}
			if _, ok := seenNote[op.SQL]; ok {
				continue
			}
			seenNote[op.SQL] = struct{}{}
		case core.OperationBreaking:
			if op.SQL == "" {
				continue
			}
			if _, ok := seenBreaking[op.SQL]; ok {
				continue
			}
			seenBreaking[op.SQL] = struct{}{}
		}
		out = append(out, op)
	}
	p.Operations = out
}

// SQLStatements returns the executable statements, in order.
func (p *Plan) SQLStatements() []string {
	var out []string
	for _, op := range p.Operations {
		if op.Kind == core.OperationSQL && op.SQL != "" {
			out = append(out, op.SQL)
		}
	}
	return out
}

// BreakingNotes returns the breaking-change warning messages, in order.
func (p *Plan) BreakingNotes() []string {
	var out []string
	for _, op := range p.Operations {
		if op.Kind == core.OperationBreaking {
			out = append(out, op.SQL)
		}
	}
	return out
}

// UnsupportedPlan builds a Plan representing an unknown/empty oneof variant,
// which spec.md §4.7 requires to be a *successful* response rather than
// an error.
func UnsupportedPlan() *Plan {
	return &Plan{Unsupported: true}
}
