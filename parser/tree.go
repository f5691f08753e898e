package parser

import "github.com/dbmigrate/oratopg/sqlparser/oracle"

// Node is implemented by every parse-tree node. Node trees are walked
// by package ir's Builder; the ast_dump tree-printer (astdump.go) prints
// the whole tree value directly rather than via a Children() traversal,
// since every node already carries its own named fields.
type Node interface {
	Rule() RuleTag
	Pos() oracle.Pos
}

type base struct {
	rule RuleTag
	pos  oracle.Pos
}

func (b base) Rule() RuleTag     { return b.rule }
func (b base) Pos() oracle.Pos   { return b.pos }

func newBase(rule RuleTag, pos oracle.Pos) base { return base{rule: rule, pos: pos} }

// ---- query tree -----------------------------------------------------

type SelectStatement struct {
	base
	Inner *SelectOnlyStatement
}

type SelectOnlyStatement struct {
	base
	Subquery  *Subquery
	ForUpdate *ForUpdateClause
}

type ForUpdateClause struct {
	base
	Columns []Identifier
	Option  string // "", "NOWAIT", "WAIT n", "SKIP LOCKED"
}

// Subquery is subquery_basic_elements followed by zero or more
// subquery_operation_part entries (UNION/UNION ALL/INTERSECT/MINUS).
type Subquery struct {
	base
	With  *WithFactoringClause
	Basic *SubqueryBasicElements
	Ops   []*SubqueryOperationPart
}

// SubqueryBasicElements is either a QueryBlock or a parenthesized
// Subquery. The parenthesized-subquery form is recognized by the
// parser but the builder rejects it (spec.md §4.4.2).
type SubqueryBasicElements struct {
	base
	QueryBlock *QueryBlock
	Paren      *Subquery // non-nil => parenthesized subquery form
}

type SetOperator string

const (
	SetOpUnion     SetOperator = "UNION"
	SetOpUnionAll  SetOperator = "UNION ALL"
	SetOpIntersect SetOperator = "INTERSECT"
	SetOpMinus     SetOperator = "MINUS"
)

type SubqueryOperationPart struct {
	base
	Op    SetOperator
	Basic *SubqueryBasicElements
}

type WithFactoringClause struct {
	base
	Entries []*SubqueryFactoringClause
	HasAV   bool // analytic-view sub-clause present (unsupported)
}

type SubqueryFactoringClause struct {
	base
	Name  string
	Query *Subquery
}

type QueryBlock struct {
	base
	SelectedList *SelectedList
	From         *FromClause
	Where        *WhereClause
	GroupBy      *GroupByClause
	Having       *HavingClause
	OrderBy      *OrderByClause
}

type SelectedList struct {
	base
	Asterisk bool
	Elements []*SelectListElement
}

type SelectListElement struct {
	base
	Expr  Expr
	Alias string
}

type FromClause struct {
	base
	Tables []*TableReference
}

type TableReference struct {
	base
	Name       *TableviewName
	Subquery   *Subquery // paren-subquery-as-table, e.g. FROM (SELECT ...) x
	Collection *TableCollectionExpression
	Alias      string
}

// TableviewName is an (optionally schema-qualified) table/view/synonym
// reference, e.g. `employees` or `hr.employees`.
type TableviewName struct {
	base
	Schema string // empty if unqualified
	Name   string
}

// TableCollectionExpression is Oracle's TABLE(collection_expression)
// DML table-reference form. Recognized, never supported (spec.md §4.4.2).
type TableCollectionExpression struct {
	base
	Raw string
}

type WhereClause struct {
	base
	Condition Expr
}

type GroupByClause struct {
	base
	Items []Expr
}

type HavingClause struct {
	base
	Condition Expr
}

type OrderByItem struct {
	Expr Expr
	Desc bool
}

type OrderByClause struct {
	base
	Items []OrderByItem
}

// ---- expressions ------------------------------------------------------

// Expr is implemented by every expression parse-tree node.
type Expr interface {
	Node
	exprNode()
}

type exprBase struct{ base }

func (exprBase) exprNode() {}

// LogicalExpr is an AND/OR/NOT chain, or a pass-through to the next
// tighter binding level when Op is empty.
type LogicalExpr struct {
	exprBase
	Op    string // "AND", "OR", "NOT", or "" for pass-through
	Left  Expr
	Right Expr // nil when Op == "NOT" or Op == ""
}

// CompoundExpression is a relational comparison between two
// concatenations, e.g. `a = b`, or a pass-through when Op == "".
type CompoundExpression struct {
	exprBase
	Op    string // "=", "<>", "<", "<=", ">", ">=", or ""
	Left  Expr
	Right Expr
}

// InExpression, BetweenExpression and LikeExpression are recognized by
// the parser (so syntax errors don't mask them) but always rejected by
// the builder (spec.md §4.4.2).
type InExpression struct {
	exprBase
	Left Expr
}

type BetweenExpression struct {
	exprBase
	Left Expr
}

type LikeExpression struct {
	exprBase
	Left     Expr
	Variant  string // LIKE, LIKEC, LIKE2, LIKE4
}

// Concatenation is a `||` chain, or additive (+/-) chain beneath it.
type Concatenation struct {
	exprBase
	Op    string // "||", "+", "-", "*", "/", or "" for pass-through
	Left  Expr
	Right Expr
}

type UnaryExpression struct {
	exprBase
	Op      string // "-", "+", "NOT", or ""
	Operand Expr
}

type Identifier struct {
	exprBase
	Parts []string // dotted name parts, e.g. ["e","empno"] or ["empno"]
}

type NumberLiteral struct {
	exprBase
	Text string
}

type StringLiteral struct {
	exprBase
	Text string // includes surrounding quotes, as scanned
}

type BindVariable struct {
	exprBase
	Name string
}

type FunctionCall struct {
	exprBase
	Name Identifier
	Args []Expr
}

type ParenExpr struct {
	exprBase
	Inner Expr
}

// CursorAttribute is `cursor%FOUND`, `%NOTFOUND`, `%ROWCOUNT` or
// `%ISOPEN`.
type CursorAttribute struct {
	exprBase
	Cursor    string
	Attribute string
}

// ---- PL/SQL units -------------------------------------------------------

type FunctionBody struct {
	base
	Schema     string
	Name       string
	Parameters []Parameter
	ReturnType TypeSpec
	Decls      []Declaration
	Body       *Block
}

type ProcedureBody struct {
	base
	Schema     string
	Name       string
	Parameters []Parameter
	Decls      []Declaration
	Body       *Block
}

type Parameter struct {
	Name string
	Type TypeSpec
	Mode string // IN, OUT, IN OUT; empty means IN
}

// TypeSpec names a data type reference: either a built-in/scalar type
// (Name populated, possibly with Args like precision/scale), a
// %TYPE/%ROWTYPE reference (RefTable populated, plus RefColumn for
// %TYPE or IsRowType for %ROWTYPE), or a reference to a package-level
// inline type, which arrives in Name like any other type name.
type TypeSpec struct {
	Name          string
	Args          []string
	RefTable      string // for %TYPE / %ROWTYPE: table or variable being referenced
	RefColumn     string // for %TYPE: column name; empty for %ROWTYPE
	IsRowType     bool
	InlineTypeName string // not set by the parser
}

type PackageSpec struct {
	base
	Schema  string
	Name    string
	Types   []*TypeDeclaration
	Decls   []Declaration
}

type PackageBody struct {
	base
	Schema    string
	Name      string
	Types     []*TypeDeclaration
	Decls     []Declaration
	Functions []*FunctionBody
	Procedures []*ProcedureBody
}

// Declaration is implemented by VariableDeclaration and
// CursorDeclaration: the things that can appear in a declare section.
type Declaration interface {
	Node
	declNode()
}

type declBase struct{ base }

func (declBase) declNode() {}

type VariableDeclaration struct {
	declBase
	Name       string
	Type       TypeSpec
	Constant   bool
	Default    Expr
}

type TypeDeclaration struct {
	base
	Name     string
	Category string // RECORD, ROWTYPE, TABLE_OF, VARRAY, INDEX_BY
	Fields   []RecordField
	ElementType TypeSpec
	SizeLimit   int // VARRAY(n); 0 if none
	IndexKeyType string // INDEX BY key type
	RowTypeTable string // %ROWTYPE source table
}

type RecordField struct {
	Name string
	Type TypeSpec
}

type CursorDeclaration struct {
	declBase
	Name  string
	Query *Subquery
}

type Block struct {
	base
	Statements []Statement
}

// Statement is implemented by every executable-statement node kind in
// the taxonomy (spec.md §4.4.1's PL/SQL-oriented kinds), plus the
// recognized-but-unsupported IfStatement/LoopStatement markers.
type Statement interface {
	Node
	stmtNode()
}

type stmtBase struct{ base }

func (stmtBase) stmtNode() {}

// AssignmentTarget is a simple variable (Path has one element) or a
// field/nested-field target (Path has 2+ elements), per spec.md §4.5.
type AssignmentTarget struct {
	Path []string
}

type Assignment struct {
	stmtBase
	Target AssignmentTarget
	Value  Expr
}

type Call struct {
	stmtBase
	Name Identifier
	Args []Expr
}

// Raise represents both RAISE_APPLICATION_ERROR(n, msg[, keep]) and a
// bare `RAISE;`/`RAISE exc;`.
type Raise struct {
	stmtBase
	IsApplicationError bool
	ErrorCode          int // only meaningful when IsApplicationError
	Message            Expr
	ExceptionName      string // only meaningful when !IsApplicationError
}

type FetchStatement struct {
	stmtBase
	Cursor      string
	BulkCollect bool
	Targets     []string
}

type OpenStatement struct {
	stmtBase
	Cursor string
}

type CloseStatement struct {
	stmtBase
	Cursor string
}

// ReturnStatement is `RETURN [expr];` — Expr is nil for a bare RETURN
// inside a procedure.
type ReturnStatement struct {
	stmtBase
	Expr Expr
}

// NullStatement is the no-op `NULL;` statement.
type NullStatement struct {
	stmtBase
}

// IfStatement and LoopStatement are recognized so the parser never
// stumbles on their keywords, but are not part of the supported IR
// taxonomy (spec.md §4.4.1 lists no IF/LOOP node); the builder rejects
// them explicitly rather than silently dropping their bodies.
type IfStatement struct {
	stmtBase
}

type LoopStatement struct {
	stmtBase
}
