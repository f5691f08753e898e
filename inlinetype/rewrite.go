package inlinetype

import (
	"strings"

	"github.com/dbmigrate/oratopg/catalog"
	"github.com/dbmigrate/oratopg/ir"
)

// ElaborateFunctionBody and ElaborateProcedureBody rewrite a built
// FunctionBody/ProcedureBody in place: every VariableDeclaration whose
// declared type names an inline type in pkgCtx becomes a jsonb
// declaration, and every field-path Assignment targeting such a
// variable becomes a FieldAssignment. Call only for a unit that belongs
// to the package whose spec pkgCtx was extracted from: a package body's
// members, or a function/procedure body translated with its package
// spec supplied.
func ElaborateFunctionBody(fb *ir.FunctionBody, pkgCtx *catalog.PackageContext, ctx *ir.EmitContext) error {
	inlineVars := inlineTypedVariables(fb.Decls, pkgCtx)
	fb.Decls = elaborateDecls(fb.Decls, pkgCtx)
	return elaborateStatements(fb.Body.Statements, inlineVars, ctx)
}

func ElaborateProcedureBody(pb *ir.ProcedureBody, pkgCtx *catalog.PackageContext, ctx *ir.EmitContext) error {
	inlineVars := inlineTypedVariables(pb.Decls, pkgCtx)
	pb.Decls = elaborateDecls(pb.Decls, pkgCtx)
	return elaborateStatements(pb.Body.Statements, inlineVars, ctx)
}

func ElaboratePackageBody(pkg *ir.PackageBody, pkgCtx *catalog.PackageContext, ctx *ir.EmitContext) error {
	for _, fb := range pkg.Functions {
		if err := ElaborateFunctionBody(fb, pkgCtx, ctx); err != nil {
			return err
		}
	}
	for _, pb := range pkg.Procedures {
		if err := ElaborateProcedureBody(pb, pkgCtx, ctx); err != nil {
			return err
		}
	}
	return nil
}

func elaborateDecls(decls []ir.Declaration, pkgCtx *catalog.PackageContext) []ir.Declaration {
	out := make([]ir.Declaration, len(decls))
	for i, d := range decls {
		vd, ok := d.(*ir.VariableDeclaration)
		if !ok {
			out[i] = d
			continue
		}
		if rewritten, ok := ElaborateDeclaration(vd.Name, vd.Type, pkgCtx); ok {
			out[i] = rewritten
		} else {
			out[i] = vd
		}
	}
	return out
}

// inlineTypedVariables returns the set of names, among decls, whose
// declared type names an entry in pkgCtx.Types — i.e. the local
// variables a field-path assignment must lower against, regardless of
// whether the same name also happens to be a package-spec variable.
func inlineTypedVariables(decls []ir.Declaration, pkgCtx *catalog.PackageContext) map[string]bool {
	out := make(map[string]bool)
	for _, d := range decls {
		vd, ok := d.(*ir.VariableDeclaration)
		if !ok {
			continue
		}
		if _, isInline := pkgCtx.Types[vd.Type]; isInline {
			out[vd.Name] = true
		}
	}
	return out
}

func elaborateStatements(stmts []ir.Statement, inlineVars map[string]bool, ctx *ir.EmitContext) error {
	for i, s := range stmts {
		switch st := s.(type) {
		case *ir.Assignment:
			if err := rejectInlineRHS(st.Value, inlineVars); err != nil {
				return err
			}
			path := strings.Split(st.Target, ".")
			if len(path) < 2 || !inlineVars[path[0]] {
				continue
			}
			fa, err := ElaborateFieldAssignment(path, st.Value, ctx)
			if err != nil {
				return err
			}
			stmts[i] = fa
		case *ir.Call:
			for _, a := range st.Args {
				if err := rejectInlineRHS(a, inlineVars); err != nil {
					return err
				}
			}
		case *ir.Raise:
			if err := rejectInlineRHS(st.Message, inlineVars); err != nil {
				return err
			}
		case *ir.ReturnStatement:
			if err := rejectInlineRHS(st.Expr, inlineVars); err != nil {
				return err
			}
		}
	}
	return nil
}

// rejectInlineRHS walks e looking for any Identifier that reads a field,
// collection method, or indexed element off an inline-type variable
// (a dotted Identifier whose first part names one) and, per spec.md
// §4.5's mandated raise-by-default, fails rather than letting the
// un-lowered jsonb-field read reach the emitter verbatim. A bare
// reference to the whole variable (len(Parts) == 1) is a plain jsonb
// value copy and is left alone.
func rejectInlineRHS(e ir.Expr, inlineVars map[string]bool) error {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ir.Identifier:
		if len(n.Parts) >= 2 && inlineVars[n.Parts[0]] {
			return RejectInlineTypeRHSAccess(n.Parts[0], strings.Join(n.Parts[1:], "."))
		}
	case *ir.LogicalExpr:
		if err := rejectInlineRHS(n.Left, inlineVars); err != nil {
			return err
		}
		return rejectInlineRHS(n.Right, inlineVars)
	case *ir.CompoundExpression:
		if err := rejectInlineRHS(n.Left, inlineVars); err != nil {
			return err
		}
		return rejectInlineRHS(n.Right, inlineVars)
	case *ir.Concatenation:
		if err := rejectInlineRHS(n.Left, inlineVars); err != nil {
			return err
		}
		return rejectInlineRHS(n.Right, inlineVars)
	case *ir.UnaryExpression:
		return rejectInlineRHS(n.Operand, inlineVars)
	case *ir.ParenExpr:
		return rejectInlineRHS(n.Inner, inlineVars)
	case *ir.FunctionCall:
		for _, a := range n.Args {
			if err := rejectInlineRHS(a, inlineVars); err != nil {
				return err
			}
		}
	}
	return nil
}
