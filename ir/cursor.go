package ir

import "github.com/dbmigrate/oratopg/parser"

// scanCursorObservations walks every statement in a block looking for
// cursor-attribute reads (c%FOUND, c%NOTFOUND, c%ROWCOUNT, c%ISOPEN) and
// records which cursors are observed in ctx, before any FetchStatement
// in the same block is built. This two-pass shape is required because
// spec.md §4.4.5's injection depends on whether the attribute is read
// *anywhere* in the enclosing block, not only after the FETCH.
func scanCursorObservations(ctx *BuildContext, stmts []parser.Statement) {
	for _, s := range stmts {
		scanStatementForCursorAttrs(ctx, s)
	}
}

func scanStatementForCursorAttrs(ctx *BuildContext, s parser.Statement) {
	switch st := s.(type) {
	case *parser.Assignment:
		scanExprForCursorAttrs(ctx, st.Value)
	case *parser.Call:
		for _, a := range st.Args {
			scanExprForCursorAttrs(ctx, a)
		}
	case *parser.Raise:
		if st.Message != nil {
			scanExprForCursorAttrs(ctx, st.Message)
		}
	case *parser.ReturnStatement:
		if st.Expr != nil {
			scanExprForCursorAttrs(ctx, st.Expr)
		}
	}
}

func scanExprForCursorAttrs(ctx *BuildContext, e parser.Expr) {
	switch n := e.(type) {
	case *parser.CursorAttribute:
		ctx.markCursorObserved(n.Cursor)
	case *parser.LogicalExpr:
		scanExprForCursorAttrs(ctx, n.Left)
		if n.Right != nil {
			scanExprForCursorAttrs(ctx, n.Right)
		}
	case *parser.CompoundExpression:
		scanExprForCursorAttrs(ctx, n.Left)
		if n.Right != nil {
			scanExprForCursorAttrs(ctx, n.Right)
		}
	case *parser.Concatenation:
		scanExprForCursorAttrs(ctx, n.Left)
		if n.Right != nil {
			scanExprForCursorAttrs(ctx, n.Right)
		}
	case *parser.UnaryExpression:
		if n.Operand != nil {
			scanExprForCursorAttrs(ctx, n.Operand)
		}
	case *parser.ParenExpr:
		scanExprForCursorAttrs(ctx, n.Inner)
	case *parser.FunctionCall:
		for _, a := range n.Args {
			scanExprForCursorAttrs(ctx, a)
		}
	}
}
