// Package ir is the semantic IR and builder: the closed tagged-node
// taxonomy spec.md §4.4.1 describes, each node implementing
// ToPostgres(ctx), plus the Builder that walks a parser.Node tree and
// raises explicit errors for every production spec.md §4.4.2 names as
// unsupported. No node kind here is a thin passthrough of unchecked
// parser state: every field is either validated at build time or
// itself a child IR node.
package ir

import "strings"

// Node is implemented by every IR node; ToPostgres never fails — all
// validation happens during the build, not the emit, pass.
type Node interface {
	ToPostgres(ctx *EmitContext) string
}

// ---- query IR -----------------------------------------------------------

type SelectStatement struct {
	Inner *SelectOnlyStatement
}

func (n *SelectStatement) ToPostgres(ctx *EmitContext) string { return n.Inner.ToPostgres(ctx) }

type SelectOnlyStatement struct {
	Subquery  *Subquery
	ForUpdate *ForUpdateClause // nil if absent
}

func (n *SelectOnlyStatement) ToPostgres(ctx *EmitContext) string {
	s := n.Subquery.ToPostgres(ctx)
	if n.ForUpdate != nil {
		s += " " + n.ForUpdate.ToPostgres(ctx)
	}
	return s
}

type ForUpdateClause struct {
	Columns []string
	Option  string // "", "NOWAIT", "WAIT n", "SKIP LOCKED"
}

func (n *ForUpdateClause) ToPostgres(ctx *EmitContext) string {
	s := "FOR UPDATE"
	if len(n.Columns) > 0 {
		s += " OF " + strings.Join(n.Columns, " , ")
	}
	if n.Option != "" {
		s += " " + n.Option
	}
	return s
}

type SetOp string

const (
	SetOpUnion     SetOp = "UNION"
	SetOpUnionAll  SetOp = "UNION ALL"
	SetOpIntersect SetOp = "INTERSECT"
	SetOpExcept    SetOp = "EXCEPT" // Oracle's MINUS
)

type Subquery struct {
	With *WithFactoringClause // nil if absent
	Head *SubqueryBasicElements
	Ops  []*SubqueryOperationPart
}

func (n *Subquery) ToPostgres(ctx *EmitContext) string {
	var b strings.Builder
	if n.With != nil {
		b.WriteString(n.With.ToPostgres(ctx))
		b.WriteString(" ")
	}
	b.WriteString(n.Head.ToPostgres(ctx))
	for _, op := range n.Ops {
		b.WriteString(" ")
		b.WriteString(string(op.Op))
		b.WriteString(" ")
		b.WriteString(op.Basic.ToPostgres(ctx))
	}
	return b.String()
}

// SubqueryBasicElements only ever wraps a QueryBlock in the IR: the
// parenthesized-subquery form is one of spec.md §4.4.2's explicitly
// unsupported shapes and the builder rejects it before an IR node is
// ever constructed.
type SubqueryBasicElements struct {
	QueryBlock *QueryBlock
}

func (n *SubqueryBasicElements) ToPostgres(ctx *EmitContext) string {
	return n.QueryBlock.ToPostgres(ctx)
}

type SubqueryOperationPart struct {
	Op    SetOp
	Basic *SubqueryBasicElements
}

func (n *SubqueryOperationPart) ToPostgres(ctx *EmitContext) string { return n.Basic.ToPostgres(ctx) }

type WithFactoringClause struct {
	Entries []*SubqueryFactoringClause
}

func (n *WithFactoringClause) ToPostgres(ctx *EmitContext) string {
	parts := make([]string, len(n.Entries))
	for i, e := range n.Entries {
		parts[i] = e.ToPostgres(ctx)
	}
	return "WITH " + strings.Join(parts, " , ")
}

type SubqueryFactoringClause struct {
	Name  string
	Query *Subquery
}

func (n *SubqueryFactoringClause) ToPostgres(ctx *EmitContext) string {
	return strings.ToLower(n.Name) + " AS ( " + n.Query.ToPostgres(ctx) + " )"
}

type QueryBlock struct {
	SelectedList *SelectedList
	From         *FromClause
	Where        *WhereClause   // nil if absent
	GroupBy      *GroupByClause // nil if absent
	Having       *HavingClause  // nil if absent
	OrderBy      *OrderByClause // nil if absent
}

func (n *QueryBlock) ToPostgres(ctx *EmitContext) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(n.SelectedList.ToPostgres(ctx))
	b.WriteString(" FROM ")
	b.WriteString(n.From.ToPostgres(ctx))
	if n.Where != nil {
		b.WriteString(" WHERE ")
		b.WriteString(n.Where.ToPostgres(ctx))
	}
	if n.GroupBy != nil {
		b.WriteString(" GROUP BY ")
		b.WriteString(n.GroupBy.ToPostgres(ctx))
	}
	if n.Having != nil {
		b.WriteString(" HAVING ")
		b.WriteString(n.Having.ToPostgres(ctx))
	}
	if n.OrderBy != nil {
		b.WriteString(" ORDER BY ")
		b.WriteString(n.OrderBy.ToPostgres(ctx))
	}
	return b.String()
}

// SelectedList is either a bare `*` or a comma-separated element list,
// emitted with the ` , ` spacing spec.md §8's scenarios require
// literally (`SELECT empno , ename FROM ...`).
type SelectedList struct {
	Asterisk bool
	Elements []*SelectListElement
}

func (n *SelectedList) ToPostgres(ctx *EmitContext) string {
	if n.Asterisk {
		return "*"
	}
	parts := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		parts[i] = e.ToPostgres(ctx)
	}
	return strings.Join(parts, " , ")
}

type SelectListElement struct {
	Expr  Expr
	Alias string // "" if absent
}

func (n *SelectListElement) ToPostgres(ctx *EmitContext) string {
	s := n.Expr.ToPostgres(ctx)
	if n.Alias != "" {
		s += " AS " + n.Alias
	}
	return s
}

type FromClause struct {
	Tables []*TableReference
}

func (n *FromClause) ToPostgres(ctx *EmitContext) string {
	parts := make([]string, len(n.Tables))
	for i, t := range n.Tables {
		parts[i] = t.ToPostgres(ctx)
	}
	return strings.Join(parts, " , ")
}

// TableReference's Name is already fully resolved by the builder
// (spec.md §4.4.3): CTE-exempted, synonym-resolved, or schema-qualified.
// A subquery-as-table form is also permitted here (the parenthesized
// form is only unsupported in subquery_basic_elements position, not as
// a FROM-list entry).
type TableReference struct {
	ResolvedName string   // "" if Subquery is set instead
	Subquery     *Subquery
	Alias        string
}

func (n *TableReference) ToPostgres(ctx *EmitContext) string {
	var s string
	if n.Subquery != nil {
		s = "( " + n.Subquery.ToPostgres(ctx) + " )"
	} else {
		s = n.ResolvedName
	}
	if n.Alias != "" {
		s += " " + n.Alias
	}
	return s
}

type WhereClause struct{ Condition Expr }

func (n *WhereClause) ToPostgres(ctx *EmitContext) string { return n.Condition.ToPostgres(ctx) }

type GroupByClause struct{ Items []Expr }

func (n *GroupByClause) ToPostgres(ctx *EmitContext) string {
	parts := make([]string, len(n.Items))
	for i, e := range n.Items {
		parts[i] = e.ToPostgres(ctx)
	}
	return strings.Join(parts, " , ")
}

type HavingClause struct{ Condition Expr }

func (n *HavingClause) ToPostgres(ctx *EmitContext) string { return n.Condition.ToPostgres(ctx) }

type OrderByItem struct {
	Expr Expr
	Desc bool
}

type OrderByClause struct{ Items []OrderByItem }

func (n *OrderByClause) ToPostgres(ctx *EmitContext) string {
	parts := make([]string, len(n.Items))
	for i, it := range n.Items {
		s := it.Expr.ToPostgres(ctx)
		if it.Desc {
			s += " DESC"
		}
		parts[i] = s
	}
	return strings.Join(parts, " , ")
}

// ---- expressions ---------------------------------------------------------

type Expr interface {
	Node
	exprNode()
}

type exprNode struct{}

func (exprNode) exprNode() {}

type LogicalExpr struct {
	exprNode
	Op    string // AND, OR, NOT
	Left  Expr
	Right Expr // nil when Op == NOT
}

func (n *LogicalExpr) ToPostgres(ctx *EmitContext) string {
	if n.Op == "NOT" {
		return "NOT " + n.Left.ToPostgres(ctx)
	}
	return n.Left.ToPostgres(ctx) + " " + n.Op + " " + n.Right.ToPostgres(ctx)
}

type CompoundExpression struct {
	exprNode
	Op    string // =, <>, <, <=, >, >=
	Left  Expr
	Right Expr
}

func (n *CompoundExpression) ToPostgres(ctx *EmitContext) string {
	return n.Left.ToPostgres(ctx) + " " + n.Op + " " + n.Right.ToPostgres(ctx)
}

type Concatenation struct {
	exprNode
	Op    string // ||, +, -, *, /
	Left  Expr
	Right Expr
}

func (n *Concatenation) ToPostgres(ctx *EmitContext) string {
	return n.Left.ToPostgres(ctx) + " " + n.Op + " " + n.Right.ToPostgres(ctx)
}

type UnaryExpression struct {
	exprNode
	Op      string
	Operand Expr
}

func (n *UnaryExpression) ToPostgres(ctx *EmitContext) string {
	return n.Op + n.Operand.ToPostgres(ctx)
}

// Identifier preserves its original source case unless it names one of
// the pseudo-columns spec.md §4.4.4 maps unconditionally (SYSDATE,
// SYSTIMESTAMP, USER).
type Identifier struct {
	exprNode
	Parts []string
}

func (n *Identifier) ToPostgres(ctx *EmitContext) string {
	if len(n.Parts) == 1 {
		if mapped, ok := mapPseudoColumn(n.Parts[0]); ok {
			return mapped
		}
	}
	return strings.Join(n.Parts, ".")
}

type NumberLiteral struct {
	exprNode
	Text string
}

func (n *NumberLiteral) ToPostgres(ctx *EmitContext) string { return n.Text }

type StringLiteral struct {
	exprNode
	Text string // includes surrounding quotes
}

func (n *StringLiteral) ToPostgres(ctx *EmitContext) string { return n.Text }

type BindVariable struct {
	exprNode
	Name string
}

func (n *BindVariable) ToPostgres(ctx *EmitContext) string { return "$" + n.Name }

type FunctionCall struct {
	exprNode
	Name string // already mapped if it matched a compat-shim entry
	Args []Expr
}

func (n *FunctionCall) ToPostgres(ctx *EmitContext) string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.ToPostgres(ctx)
	}
	return n.Name + "(" + strings.Join(parts, ", ") + ")"
}

// RawExpr carries pre-rendered Postgres text verbatim. It exists for
// packages outside ir (inlinetype's jsonb/jsonb_set lowering, chiefly)
// that must hand the builder an expression-shaped value without
// constructing one node per sub-term — the exprNode seal means only
// types defined in this package can satisfy Expr, so this is the one
// escape hatch rather than many bespoke ad hoc node kinds.
type RawExpr struct {
	exprNode
	Text string
}

func (n *RawExpr) ToPostgres(ctx *EmitContext) string { return n.Text }

type ParenExpr struct {
	exprNode
	Inner Expr
}

func (n *ParenExpr) ToPostgres(ctx *EmitContext) string { return "(" + n.Inner.ToPostgres(ctx) + ")" }

// CursorAttribute is a %FOUND/%NOTFOUND/%ROWCOUNT/%ISOPEN read inside
// an expression; it reads the companion variable the builder injected
// rather than the Oracle attribute. cursor.go's pre-pass records the
// same reads so that FETCH lowering knows to update the companions.
type CursorAttribute struct {
	exprNode
	Cursor    string
	Attribute string
}

func (n *CursorAttribute) ToPostgres(ctx *EmitContext) string {
	switch n.Attribute {
	case "FOUND":
		return n.Cursor + "__found"
	case "NOTFOUND":
		return "NOT " + n.Cursor + "__found"
	case "ROWCOUNT":
		return n.Cursor + "__rowcount"
	case "ISOPEN":
		return n.Cursor + "__isopen"
	}
	return n.Cursor + "__" + strings.ToLower(n.Attribute)
}

// ---- PL/SQL units ---------------------------------------------------------

type FunctionBody struct {
	Schema     string
	Name       string
	Parameters []Parameter
	ReturnType string
	Decls      []Declaration
	Body       *Block
}

type Parameter struct {
	Name string
	Type string
	Mode string
}

func (p Parameter) render() string {
	s := p.Name + " " + p.Mode
	if p.Mode == "" {
		s = p.Name
	}
	return strings.TrimSpace(s) + " " + p.Type
}

func (n *FunctionBody) ToPostgres(ctx *EmitContext) string {
	var b strings.Builder
	b.WriteString("CREATE OR REPLACE FUNCTION ")
	b.WriteString(strings.ToLower(n.Schema) + "." + strings.ToLower(n.Name))
	b.WriteString("(")
	params := make([]string, len(n.Parameters))
	for i, p := range n.Parameters {
		params[i] = p.render()
	}
	b.WriteString(strings.Join(params, ", "))
	b.WriteString(") RETURNS ")
	b.WriteString(n.ReturnType)
	b.WriteString(" AS $$\n")
	b.WriteString(renderDeclsAndBody(ctx, n.Decls, n.Body))
	b.WriteString("\n$$ LANGUAGE plpgsql;")
	return b.String()
}

type ProcedureBody struct {
	Schema     string
	Name       string
	Parameters []Parameter
	Decls      []Declaration
	Body       *Block
}

func (n *ProcedureBody) ToPostgres(ctx *EmitContext) string {
	var b strings.Builder
	b.WriteString("CREATE OR REPLACE PROCEDURE ")
	b.WriteString(strings.ToLower(n.Schema) + "." + strings.ToLower(n.Name))
	b.WriteString("(")
	params := make([]string, len(n.Parameters))
	for i, p := range n.Parameters {
		params[i] = p.render()
	}
	b.WriteString(strings.Join(params, ", "))
	b.WriteString(") AS $$\n")
	b.WriteString(renderDeclsAndBody(ctx, n.Decls, n.Body))
	b.WriteString("\n$$ LANGUAGE plpgsql;")
	return b.String()
}

type PackageBody struct {
	Schema     string
	Name       string
	Functions  []*FunctionBody
	Procedures []*ProcedureBody
}

func (n *PackageBody) ToPostgres(ctx *EmitContext) string {
	parts := make([]string, 0, len(n.Functions)+len(n.Procedures))
	for _, f := range n.Functions {
		parts = append(parts, f.ToPostgres(ctx))
	}
	for _, p := range n.Procedures {
		parts = append(parts, p.ToPostgres(ctx))
	}
	return strings.Join(parts, "\n\n")
}

func renderDeclsAndBody(ctx *EmitContext, decls []Declaration, body *Block) string {
	inner := ctx.nested()
	var b strings.Builder
	if len(decls) > 0 {
		b.WriteString(inner.pad() + "DECLARE\n")
		declCtx := inner.nested()
		for _, d := range decls {
			b.WriteString(declCtx.pad() + d.ToPostgres(declCtx) + ";\n")
		}
	}
	b.WriteString(inner.pad() + "BEGIN\n")
	stmtCtx := inner.nested()
	for _, s := range body.Statements {
		b.WriteString(stmtCtx.pad() + s.ToPostgres(stmtCtx) + ";\n")
	}
	b.WriteString(inner.pad() + "END;")
	return b.String()
}

type Declaration interface {
	Node
	declNode()
}

type declNode struct{}

func (declNode) declNode() {}

type VariableDeclaration struct {
	declNode
	Name     string
	Type     string
	Default  Expr // nil if absent
}

func (n *VariableDeclaration) ToPostgres(ctx *EmitContext) string {
	s := n.Name + " " + n.Type
	if n.Default != nil {
		s += " := " + n.Default.ToPostgres(ctx)
	}
	return s
}

// CursorDeclaration is `name CURSOR FOR query;`, PL/pgSQL's native
// bound-cursor declaration form, replacing Oracle's `CURSOR name IS
// query;`.
type CursorDeclaration struct {
	declNode
	Name  string
	Query *Subquery
}

func (n *CursorDeclaration) ToPostgres(ctx *EmitContext) string {
	return n.Name + " CURSOR FOR " + n.Query.ToPostgres(ctx)
}

type Statement interface {
	Node
	stmtNode()
}

type stmtNode struct{}

func (stmtNode) stmtNode() {}

type Assignment struct {
	stmtNode
	Target string // simple variable name
	Value  Expr
}

func (n *Assignment) ToPostgres(ctx *EmitContext) string {
	return n.Target + " := " + n.Value.ToPostgres(ctx)
}

// FieldAssignment is the jsonb_set lowering of `v.path... := e`
// produced by package inlinetype (spec.md §4.5); Rendered already
// holds the final `v := jsonb_set(...)` text so the inlinetype package
// owns all of the jsonb-path construction logic.
type FieldAssignment struct {
	stmtNode
	Rendered string
}

func (n *FieldAssignment) ToPostgres(ctx *EmitContext) string { return n.Rendered }

type Call struct {
	stmtNode
	Name string
	Args []Expr
}

func (n *Call) ToPostgres(ctx *EmitContext) string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.ToPostgres(ctx)
	}
	return "PERFORM " + n.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Raise covers both `RAISE_APPLICATION_ERROR(n, m)` (IsApplicationError)
// and a bare `RAISE;`/`RAISE exc;`.
type Raise struct {
	stmtNode
	IsApplicationError bool
	SQLState           string // set iff IsApplicationError
	OriginalCode       int    // set iff IsApplicationError
	Message            Expr   // set iff IsApplicationError
	ExceptionName      string // set iff !IsApplicationError and re-raising a named exception
}

func (n *Raise) ToPostgres(ctx *EmitContext) string {
	if n.IsApplicationError {
		return "RAISE EXCEPTION " + n.Message.ToPostgres(ctx) +
			" USING ERRCODE = '" + n.SQLState + "', HINT = 'Oracle error code " + itoa(n.OriginalCode) + "'"
	}
	if n.ExceptionName != "" {
		return "RAISE " + n.ExceptionName
	}
	return "RAISE"
}

func itoa(n int) string {
	neg := n < 0
	if neg {
		n = -n
	}
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

type FetchStatement struct {
	stmtNode
	Cursor      string
	Targets     []string
	UpdateFound bool // true when the enclosing block observed %FOUND/%NOTFOUND/%ROWCOUNT/%ISOPEN
}

func (n *FetchStatement) ToPostgres(ctx *EmitContext) string {
	s := "FETCH " + n.Cursor + " INTO " + strings.Join(n.Targets, ", ")
	if n.UpdateFound {
		s += ";\n" + ctx.pad() + n.Cursor + "__found := FOUND;\n" +
			ctx.pad() + "IF " + n.Cursor + "__found THEN " + n.Cursor + "__rowcount := " + n.Cursor + "__rowcount + 1; END IF"
	}
	return s
}

type OpenStatement struct {
	stmtNode
	Cursor string
}

func (n *OpenStatement) ToPostgres(ctx *EmitContext) string { return "OPEN " + n.Cursor }

type CloseStatement struct {
	stmtNode
	Cursor string
}

func (n *CloseStatement) ToPostgres(ctx *EmitContext) string { return "CLOSE " + n.Cursor }

type ReturnStatement struct {
	stmtNode
	Expr Expr // nil for a bare RETURN in a procedure
}

func (n *ReturnStatement) ToPostgres(ctx *EmitContext) string {
	if n.Expr == nil {
		return "RETURN"
	}
	return "RETURN " + n.Expr.ToPostgres(ctx)
}

type NullStatement struct{ stmtNode }

func (n *NullStatement) ToPostgres(ctx *EmitContext) string { return "NULL" }
