package inlinetype

import (
	"strings"

	"github.com/dbmigrate/oratopg/catalog"
	"github.com/dbmigrate/oratopg/ir"
)

// initLiteral implements spec.md §4.5's inline-type declaration law:
// RECORD/ROWTYPE/INDEX_BY initialize to an empty object, TABLE_OF/VARRAY
// to an empty array.
func initLiteral(category catalog.InlineTypeCategory) string {
	switch category {
	case catalog.InlineTableOf, catalog.InlineVarray:
		return "'[]'::jsonb"
	default:
		return "'{}'::jsonb"
	}
}

// ElaborateDeclaration rewrites `v recordT;` into `v jsonb := <init>;`
// for a variable whose declared type name matches an entry in pkgCtx.
// ok is false when declaredType does not name an inline type in this
// package, in which case the caller should emit the declaration
// unchanged.
func ElaborateDeclaration(name, declaredType string, pkgCtx *catalog.PackageContext) (*ir.VariableDeclaration, bool) {
	def, ok := pkgCtx.Types[declaredType]
	if !ok {
		return nil, false
	}
	return &ir.VariableDeclaration{
		Name:    name,
		Type:    "jsonb",
		Default: &ir.RawExpr{Text: initLiteral(def.Category)},
	}, true
}

// ElaborateFieldAssignment rewrites a field-path LHS assignment
// `v.a1...aN := e` into `v := jsonb_set(v, '{a1,...,aN}', to_jsonb(e)[, true])`
// per spec.md §4.5 and the jsonb_set path-depth law of §8: the path
// array has exactly len(path)-1 elements (the field names after the
// variable), and create_missing is included (as `true`) iff that
// count is >= 2.
//
// path must have at least 2 elements (the variable name followed by
// one or more field names); callers are responsible for distinguishing
// a plain variable assignment (len(path) == 1) from a field assignment
// before calling this.
func ElaborateFieldAssignment(path []string, value ir.Expr, ctx *ir.EmitContext) (*ir.FieldAssignment, error) {
	if len(path) < 2 {
		return nil, ir.InvariantViolation{Detail: "ElaborateFieldAssignment requires a variable plus at least one field in path"}
	}
	variable := path[0]
	fields := path[1:]

	rendered := variable + " := jsonb_set(" + variable + ", '{" + strings.Join(fields, ",") + "}', to_jsonb(" + value.ToPostgres(ctx) + ")"
	if len(fields) >= 2 {
		rendered += ", true"
	}
	rendered += ")"

	return &ir.FieldAssignment{Rendered: rendered}, nil
}

// RHS reads, collection methods (.COUNT, .EXISTS), indexed element
// access and map access against an inline-type variable are not
// lowered (spec.md §4.5, §9's open question); per the open question's
// mandated default, encountering one is a hard failure rather than a
// silent passthrough.
func RejectInlineTypeRHSAccess(variable string, accessKind string) error {
	return ir.UnsupportedConstructError{
		Feature:    "reading " + accessKind + " on inline-type variable " + variable,
		Workaround: "inline-type values may only be written via a field-assignment LHS for now",
	}
}
