package ir

import (
	"strings"

	"github.com/dbmigrate/oratopg/indices"
)

// BuildContext is the state the Builder threads through one
// translation while walking the parse tree: the current schema, the
// immutable indices snapshot it borrows, the set of CTE names visible
// at the current point in the statement, and the set of cursors whose
// %FOUND/%NOTFOUND/%ROWCOUNT/%ISOPEN attributes have been observed
// (spec.md §4.4.5). It is owned exclusively by one Builder invocation
// and never shared across translations (spec.md §3: "TransformationContext
// exclusively owns the query-local alias map").
type BuildContext struct {
	CurrentSchema string
	Indices       *indices.Indices

	cteNames        map[string]bool
	observedCursors map[string]bool
}

func NewBuildContext(currentSchema string, idx *indices.Indices) *BuildContext {
	return &BuildContext{
		CurrentSchema:   strings.ToLower(strings.TrimSpace(currentSchema)),
		Indices:         idx,
		cteNames:        make(map[string]bool),
		observedCursors: make(map[string]bool),
	}
}

// withCTEs returns a child context that additionally exempts the given
// names from schema-qualification (spec.md §4.4.3 rule 1). The parent
// context is left untouched so a sibling subquery_operation_part branch
// never sees CTEs introduced by another branch.
func (c *BuildContext) withCTEs(names []string) *BuildContext {
	child := &BuildContext{
		CurrentSchema:   c.CurrentSchema,
		Indices:         c.Indices,
		cteNames:        make(map[string]bool, len(c.cteNames)+len(names)),
		observedCursors: c.observedCursors,
	}
	for k := range c.cteNames {
		child.cteNames[k] = true
	}
	for _, n := range names {
		child.cteNames[strings.ToLower(n)] = true
	}
	return child
}

func (c *BuildContext) isCTE(name string) bool {
	return c.cteNames[strings.ToLower(name)]
}

func (c *BuildContext) markCursorObserved(cursor string) {
	c.observedCursors[strings.ToLower(cursor)] = true
}

func (c *BuildContext) isCursorObserved(cursor string) bool {
	return c.observedCursors[strings.ToLower(cursor)]
}

// EmitContext carries purely presentational state across ToPostgres
// calls — currently just nesting depth, used to indent PL/SQL block
// bodies the way the teacher's own dumped SQL is indented. It holds no
// resolution state: every name is already resolved by the time the IR
// exists.
type EmitContext struct {
	Indent int
}

func NewEmitContext() *EmitContext { return &EmitContext{} }

func (e *EmitContext) nested() *EmitContext { return &EmitContext{Indent: e.Indent + 1} }

func (e *EmitContext) pad() string { return strings.Repeat("  ", e.Indent) }
