package ir

import (
	"strings"

	"github.com/dbmigrate/oratopg/parser"
)

// Builder walks a parser.Node tree produced by one of the five parse
// entries and constructs the corresponding IR, rejecting every shape
// spec.md §4.4.2 names as unsupported with an UnsupportedConstructError,
// and resolving every table reference via resolveTableName as it goes.
// A Builder is single-use: construct one per translation.
type Builder struct {
	ctx *BuildContext
}

func NewBuilder(ctx *BuildContext) *Builder { return &Builder{ctx: ctx} }

// ---- query tree -----------------------------------------------------------

func (b *Builder) BuildSelectStatement(n *parser.SelectStatement) (*SelectStatement, error) {
	inner, err := b.buildSelectOnlyStatement(n.Inner)
	if err != nil {
		return nil, err
	}
	return &SelectStatement{Inner: inner}, nil
}

func (b *Builder) buildSelectOnlyStatement(n *parser.SelectOnlyStatement) (*SelectOnlyStatement, error) {
	sq, err := b.buildSubquery(n.Subquery)
	if err != nil {
		return nil, err
	}
	out := &SelectOnlyStatement{Subquery: sq}
	if n.ForUpdate != nil {
		cols := make([]string, len(n.ForUpdate.Columns))
		for i, c := range n.ForUpdate.Columns {
			cols[i] = strings.Join(c.Parts, ".")
		}
		out.ForUpdate = &ForUpdateClause{Columns: cols, Option: n.ForUpdate.Option}
	}
	return out, nil
}

func (b *Builder) buildSubquery(n *parser.Subquery) (*Subquery, error) {
	out := &Subquery{}

	workCtx := b.ctx
	if n.With != nil {
		with, names, err := b.buildWithFactoringClause(n.With)
		if err != nil {
			return nil, err
		}
		out.With = with
		workCtx = b.ctx.withCTEs(names)
	}

	innerBuilder := &Builder{ctx: workCtx}

	basic, err := innerBuilder.buildSubqueryBasicElements(n.Basic)
	if err != nil {
		return nil, err
	}
	out.Head = basic

	for _, op := range n.Ops {
		part, err := innerBuilder.buildSubqueryOperationPart(op)
		if err != nil {
			return nil, err
		}
		out.Ops = append(out.Ops, part)
	}
	return out, nil
}

func (b *Builder) buildWithFactoringClause(n *parser.WithFactoringClause) (*WithFactoringClause, []string, error) {
	out := &WithFactoringClause{}
	names := make([]string, 0, len(n.Entries))
	for _, e := range n.Entries {
		q, err := b.buildSubquery(e.Query)
		if err != nil {
			return nil, nil, err
		}
		out.Entries = append(out.Entries, &SubqueryFactoringClause{Name: e.Name, Query: q})
		names = append(names, e.Name)
	}
	return out, names, nil
}

func (b *Builder) buildSubqueryBasicElements(n *parser.SubqueryBasicElements) (*SubqueryBasicElements, error) {
	if n.Paren != nil {
		return nil, unsupported("Parenthesized subqueries as subquery_basic_elements")
	}
	qb, err := b.buildQueryBlock(n.QueryBlock)
	if err != nil {
		return nil, err
	}
	return &SubqueryBasicElements{QueryBlock: qb}, nil
}

func (b *Builder) buildSubqueryOperationPart(n *parser.SubqueryOperationPart) (*SubqueryOperationPart, error) {
	basic, err := b.buildSubqueryBasicElements(n.Basic)
	if err != nil {
		return nil, err
	}
	return &SubqueryOperationPart{Op: SetOp(setOperatorMapping(string(n.Op))), Basic: basic}, nil
}

func (b *Builder) buildQueryBlock(n *parser.QueryBlock) (*QueryBlock, error) {
	sl, err := b.buildSelectedList(n.SelectedList)
	if err != nil {
		return nil, err
	}
	from, err := b.buildFromClause(n.From)
	if err != nil {
		return nil, err
	}
	out := &QueryBlock{SelectedList: sl, From: from}

	if n.Where != nil {
		cond, err := b.buildExpr(n.Where.Condition)
		if err != nil {
			return nil, err
		}
		out.Where = &WhereClause{Condition: cond}
	}
	if n.GroupBy != nil {
		items := make([]Expr, len(n.GroupBy.Items))
		for i, it := range n.GroupBy.Items {
			e, err := b.buildExpr(it)
			if err != nil {
				return nil, err
			}
			items[i] = e
		}
		out.GroupBy = &GroupByClause{Items: items}
	}
	if n.Having != nil {
		cond, err := b.buildExpr(n.Having.Condition)
		if err != nil {
			return nil, err
		}
		out.Having = &HavingClause{Condition: cond}
	}
	if n.OrderBy != nil {
		items := make([]OrderByItem, len(n.OrderBy.Items))
		for i, it := range n.OrderBy.Items {
			e, err := b.buildExpr(it.Expr)
			if err != nil {
				return nil, err
			}
			items[i] = OrderByItem{Expr: e, Desc: it.Desc}
		}
		out.OrderBy = &OrderByClause{Items: items}
	}
	return out, nil
}

func (b *Builder) buildSelectedList(n *parser.SelectedList) (*SelectedList, error) {
	if n.Asterisk {
		return &SelectedList{Asterisk: true}, nil
	}
	out := &SelectedList{}
	for _, el := range n.Elements {
		e, err := b.buildExpr(el.Expr)
		if err != nil {
			return nil, err
		}
		out.Elements = append(out.Elements, &SelectListElement{Expr: e, Alias: el.Alias})
	}
	return out, nil
}

func (b *Builder) buildFromClause(n *parser.FromClause) (*FromClause, error) {
	if len(n.Tables) > 1 {
		return nil, unsupported("Multiple tables in FROM clause")
	}
	out := &FromClause{}
	for _, t := range n.Tables {
		tr, err := b.buildTableReference(t)
		if err != nil {
			return nil, err
		}
		out.Tables = append(out.Tables, tr)
	}
	return out, nil
}

func (b *Builder) buildTableReference(n *parser.TableReference) (*TableReference, error) {
	if n.Collection != nil {
		return nil, unsupported("table_collection_expression in DML table references")
	}
	out := &TableReference{Alias: n.Alias}
	if n.Subquery != nil {
		sq, err := b.buildSubquery(n.Subquery)
		if err != nil {
			return nil, err
		}
		out.Subquery = sq
		return out, nil
	}
	out.ResolvedName = resolveTableName(b.ctx, n.Name.Schema, n.Name.Name)
	return out, nil
}

// ---- expressions ---------------------------------------------------------

func (b *Builder) buildExpr(e parser.Expr) (Expr, error) {
	switch n := e.(type) {
	case *parser.LogicalExpr:
		if n.Op == "" {
			return b.buildExpr(n.Left)
		}
		left, err := b.buildExpr(n.Left)
		if err != nil {
			return nil, err
		}
		if n.Op == "NOT" {
			return &LogicalExpr{Op: "NOT", Left: left}, nil
		}
		right, err := b.buildExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return &LogicalExpr{Op: n.Op, Left: left, Right: right}, nil

	case *parser.CompoundExpression:
		if n.Op == "" {
			return b.buildExpr(n.Left)
		}
		left, err := b.buildExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := b.buildExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return &CompoundExpression{Op: n.Op, Left: left, Right: right}, nil

	case *parser.InExpression:
		return nil, unsupported("IN inside compound expressions", "rewrite as an equivalent OR chain or EXISTS subquery for now")
	case *parser.BetweenExpression:
		return nil, unsupported("BETWEEN inside compound expressions", "rewrite as two explicit comparisons for now")
	case *parser.LikeExpression:
		return nil, unsupported(n.Variant + " inside compound expressions")

	case *parser.Concatenation:
		if n.Op == "" {
			return b.buildExpr(n.Left)
		}
		left, err := b.buildExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := b.buildExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return &Concatenation{Op: n.Op, Left: left, Right: right}, nil

	case *parser.UnaryExpression:
		if n.Op == "" {
			return b.buildExpr(n.Operand)
		}
		operand, err := b.buildExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		return &UnaryExpression{Op: n.Op, Operand: operand}, nil

	case *parser.Identifier:
		return &Identifier{Parts: n.Parts}, nil

	case *parser.NumberLiteral:
		return &NumberLiteral{Text: n.Text}, nil

	case *parser.StringLiteral:
		return &StringLiteral{Text: n.Text}, nil

	case *parser.BindVariable:
		return &BindVariable{Name: n.Name}, nil

	case *parser.FunctionCall:
		dotted := strings.Join(n.Name.Parts, ".")
		name := dotted
		if mapped, ok := mapCompatFunction(dotted); ok {
			// compatFunctionMappings spells niladic shims with their own
			// trailing "()" (e.g. "oracle_compat.sqlcode()"); strip it
			// here since FunctionCall.ToPostgres always appends its own
			// parens around Args.
			name = strings.TrimSuffix(mapped, "()")
		}
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			ae, err := b.buildExpr(a)
			if err != nil {
				return nil, err
			}
			args[i] = ae
		}
		return &FunctionCall{Name: name, Args: args}, nil

	case *parser.ParenExpr:
		inner, err := b.buildExpr(n.Inner)
		if err != nil {
			return nil, err
		}
		return &ParenExpr{Inner: inner}, nil

	case *parser.CursorAttribute:
		b.ctx.markCursorObserved(n.Cursor)
		return &CursorAttribute{Cursor: n.Cursor, Attribute: n.Attribute}, nil
	}
	return nil, InvariantViolation{Detail: "buildExpr: unrecognized expression node"}
}

// ---- PL/SQL units ---------------------------------------------------------

func (b *Builder) BuildFunctionBody(n *parser.FunctionBody) (*FunctionBody, error) {
	decls, err := b.buildDeclarations(n.Decls)
	if err != nil {
		return nil, err
	}
	scanCursorObservations(b.ctx, n.Body.Statements)
	body, err := b.buildBlock(n.Body)
	if err != nil {
		return nil, err
	}
	schema := n.Schema
	if schema == "" {
		schema = b.ctx.CurrentSchema
	}
	return &FunctionBody{
		Schema:     schema,
		Name:       n.Name,
		Parameters: buildParameters(n.Parameters),
		ReturnType: renderTypeSpec(n.ReturnType),
		Decls:      decls,
		Body:       body,
	}, nil
}

func (b *Builder) BuildProcedureBody(n *parser.ProcedureBody) (*ProcedureBody, error) {
	decls, err := b.buildDeclarations(n.Decls)
	if err != nil {
		return nil, err
	}
	scanCursorObservations(b.ctx, n.Body.Statements)
	body, err := b.buildBlock(n.Body)
	if err != nil {
		return nil, err
	}
	schema := n.Schema
	if schema == "" {
		schema = b.ctx.CurrentSchema
	}
	return &ProcedureBody{
		Schema:     schema,
		Name:       n.Name,
		Parameters: buildParameters(n.Parameters),
		Decls:      decls,
		Body:       body,
	}, nil
}

func (b *Builder) BuildPackageBody(n *parser.PackageBody) (*PackageBody, error) {
	out := &PackageBody{Schema: n.Schema, Name: n.Name}
	for _, f := range n.Functions {
		fb, err := b.BuildFunctionBody(f)
		if err != nil {
			return nil, err
		}
		out.Functions = append(out.Functions, fb)
	}
	for _, p := range n.Procedures {
		pb, err := b.BuildProcedureBody(p)
		if err != nil {
			return nil, err
		}
		out.Procedures = append(out.Procedures, pb)
	}
	return out, nil
}

func buildParameters(ps []parser.Parameter) []Parameter {
	out := make([]Parameter, len(ps))
	for i, p := range ps {
		out[i] = Parameter{Name: p.Name, Type: renderTypeSpec(p.Type), Mode: p.Mode}
	}
	return out
}

// renderTypeSpec turns a parser.TypeSpec into the Postgres type text
// naming it in the generated declaration or parameter list.
// %TYPE/%ROWTYPE resolution against the column index, and the jsonb
// lowering of package-scoped inline types, are not performed here: an
// inline-type name passes through as its bare name, and package
// inlinetype (spec.md §4.5) rewrites the owning VariableDeclaration/
// Assignment nodes after this point when the request supplies the
// package spec.
func renderTypeSpec(t parser.TypeSpec) string {
	if t.IsRowType {
		return t.RefTable + "%ROWTYPE"
	}
	if t.RefTable != "" && t.RefColumn != "" {
		return t.RefTable + "." + t.RefColumn + "%TYPE"
	}
	if len(t.Args) > 0 {
		return t.Name + "(" + strings.Join(t.Args, ", ") + ")"
	}
	return t.Name
}

func (b *Builder) buildDeclarations(decls []parser.Declaration) ([]Declaration, error) {
	out := make([]Declaration, 0, len(decls))
	for _, d := range decls {
		switch vd := d.(type) {
		case *parser.VariableDeclaration:
			var def Expr
			if vd.Default != nil {
				e, err := b.buildExpr(vd.Default)
				if err != nil {
					return nil, err
				}
				def = e
			}
			out = append(out, &VariableDeclaration{Name: vd.Name, Type: renderTypeSpec(vd.Type), Default: def})
		case *parser.CursorDeclaration:
			q, err := b.buildSubquery(vd.Query)
			if err != nil {
				return nil, err
			}
			out = append(out, &CursorDeclaration{Name: vd.Name, Query: q})
		default:
			return nil, InvariantViolation{Detail: "buildDeclarations: unrecognized declaration node"}
		}
	}
	return out, nil
}

func (b *Builder) buildBlock(n *parser.Block) (*Block, error) {
	out := &Block{}
	for _, s := range n.Statements {
		st, err := b.buildStatement(s)
		if err != nil {
			return nil, err
		}
		out.Statements = append(out.Statements, st)
	}
	return out, nil
}

func (b *Builder) buildStatement(s parser.Statement) (Statement, error) {
	switch st := s.(type) {
	case *parser.Assignment:
		val, err := b.buildExpr(st.Value)
		if err != nil {
			return nil, err
		}
		if len(st.Target.Path) > 1 {
			// Field assignment on an inline-type variable: kept as a
			// plain dotted assignment rather than dropping the path;
			// package inlinetype later rewrites it into a jsonb_set
			// FieldAssignment when the root variable has an inline type.
			return &Assignment{Target: strings.Join(st.Target.Path, "."), Value: val}, nil
		}
		return &Assignment{Target: st.Target.Path[0], Value: val}, nil

	case *parser.Call:
		dotted := strings.Join(st.Name.Parts, ".")
		name := dotted
		if mapped, ok := mapCompatFunction(dotted); ok {
			name = mapped
		}
		args := make([]Expr, len(st.Args))
		for i, a := range st.Args {
			ae, err := b.buildExpr(a)
			if err != nil {
				return nil, err
			}
			args[i] = ae
		}
		return &Call{Name: name, Args: args}, nil

	case *parser.Raise:
		if st.IsApplicationError {
			code, err := postgresErrCodeFromOracle(st.ErrorCode)
			if err != nil {
				return nil, err
			}
			msg, err := b.buildExpr(st.Message)
			if err != nil {
				return nil, err
			}
			return &Raise{IsApplicationError: true, SQLState: code, OriginalCode: st.ErrorCode, Message: msg}, nil
		}
		return &Raise{ExceptionName: st.ExceptionName}, nil

	case *parser.FetchStatement:
		if st.BulkCollect {
			return nil, unsupported("BULK COLLECT in FETCH")
		}
		return &FetchStatement{
			Cursor:      st.Cursor,
			Targets:     st.Targets,
			UpdateFound: b.ctx.isCursorObserved(st.Cursor),
		}, nil

	case *parser.OpenStatement:
		return &OpenStatement{Cursor: st.Cursor}, nil

	case *parser.CloseStatement:
		return &CloseStatement{Cursor: st.Cursor}, nil

	case *parser.ReturnStatement:
		if st.Expr == nil {
			return &ReturnStatement{}, nil
		}
		e, err := b.buildExpr(st.Expr)
		if err != nil {
			return nil, err
		}
		return &ReturnStatement{Expr: e}, nil

	case *parser.NullStatement:
		return &NullStatement{}, nil

	case *parser.IfStatement:
		return nil, unsupported("IF statement bodies")
	case *parser.LoopStatement:
		return nil, unsupported("LOOP statement bodies")
	}
	return nil, InvariantViolation{Detail: "buildStatement: unrecognized statement node"}
}
