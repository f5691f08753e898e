package inlinetype

import (
	"testing"

	"github.com/dbmigrate/oratopg/catalog"
	"github.com/dbmigrate/oratopg/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rangePkgCtx() *catalog.PackageContext {
	return &catalog.PackageContext{
		Schema:    "hr",
		Package:   "salary_pkg",
		Variables: map[string]catalog.PackageVariable{},
		Types: map[string]catalog.InlineTypeDefinition{
			"salary_range_t": {
				Schema:   "hr",
				Package:  "salary_pkg",
				Name:     "salary_range_t",
				Category: catalog.InlineRecord,
				Fields: []catalog.InlineFieldMapping{
					{Name: "min_sal", SourceType: "NUMBER", TargetType: "NUMBER"},
					{Name: "max_sal", SourceType: "NUMBER", TargetType: "NUMBER"},
				},
				ConversionStrategy: "JSONB",
			},
		},
	}
}

// Scenario 9: a RECORD-typed variable declaration and simple field
// assignment.
func TestElaborate_Scenario9_DeclarationAndSimpleFieldAssignment(t *testing.T) {
	pkgCtx := rangePkgCtx()

	decl, ok := ElaborateDeclaration("v_range", "salary_range_t", pkgCtx)
	require.True(t, ok)
	assert.Equal(t, "v_range jsonb := '{}'::jsonb", decl.ToPostgres(ir.NewEmitContext()))

	fa, err := ElaborateFieldAssignment([]string{"v_range", "min_sal"}, &ir.NumberLiteral{Text: "50000"}, ir.NewEmitContext())
	require.NoError(t, err)
	assert.Equal(t, "v_range := jsonb_set(v_range, '{min_sal}', to_jsonb(50000))", fa.ToPostgres(ir.NewEmitContext()))
}

// Scenario 10: nested field assignment sets create_missing = true.
func TestElaborate_Scenario10_NestedFieldAssignmentSetsCreateMissing(t *testing.T) {
	fa, err := ElaborateFieldAssignment([]string{"v_emp", "address", "city"}, &ir.StringLiteral{Text: "'Boston'"}, ir.NewEmitContext())
	require.NoError(t, err)
	assert.Equal(t, "v_emp := jsonb_set(v_emp, '{address,city}', to_jsonb('Boston'), true)", fa.ToPostgres(ir.NewEmitContext()))
}

func TestElaborate_CollectionDeclarationsInitToEmptyArray(t *testing.T) {
	pkgCtx := rangePkgCtx()
	pkgCtx.Types["id_list_t"] = catalog.InlineTypeDefinition{Category: catalog.InlineTableOf, ElementType: "NUMBER"}

	decl, ok := ElaborateDeclaration("v_ids", "id_list_t", pkgCtx)
	require.True(t, ok)
	assert.Equal(t, "v_ids jsonb := '[]'::jsonb", decl.ToPostgres(ir.NewEmitContext()))
}

func TestElaborate_NonInlineTypeDeclarationPassesThrough(t *testing.T) {
	pkgCtx := rangePkgCtx()
	_, ok := ElaborateDeclaration("v_count", "NUMBER", pkgCtx)
	assert.False(t, ok)
}

func TestElaborateFunctionBody_RewritesDeclAndAssignment(t *testing.T) {
	pkgCtx := rangePkgCtx()
	fb := &ir.FunctionBody{
		Schema: "hr",
		Name:   "bump_range",
		Decls: []ir.Declaration{
			&ir.VariableDeclaration{Name: "v_range", Type: "salary_range_t"},
		},
		Body: &ir.Block{
			Statements: []ir.Statement{
				&ir.Assignment{Target: "v_range.min_sal", Value: &ir.NumberLiteral{Text: "50000"}},
				&ir.ReturnStatement{},
			},
		},
	}

	err := ElaborateFunctionBody(fb, pkgCtx, ir.NewEmitContext())
	require.NoError(t, err)

	decl := fb.Decls[0].(*ir.VariableDeclaration)
	assert.Equal(t, "jsonb", decl.Type)

	fa, ok := fb.Body.Statements[0].(*ir.FieldAssignment)
	require.True(t, ok)
	assert.Contains(t, fa.ToPostgres(ir.NewEmitContext()), "jsonb_set(v_range, '{min_sal}'")
}

// §4.5/§9: reading a field off an inline-type variable on the RHS has
// no lowering rule, so it must raise rather than pass through as a
// bare jsonb identifier.
func TestElaborateFunctionBody_RejectsRHSFieldRead(t *testing.T) {
	pkgCtx := rangePkgCtx()
	fb := &ir.FunctionBody{
		Schema: "hr",
		Name:   "bump_range",
		Decls: []ir.Declaration{
			&ir.VariableDeclaration{Name: "v_range", Type: "salary_range_t"},
			&ir.VariableDeclaration{Name: "v_total", Type: "NUMBER"},
		},
		Body: &ir.Block{
			Statements: []ir.Statement{
				&ir.Assignment{
					Target: "v_total",
					Value: &ir.CompoundExpression{
						Op:    "+",
						Left:  &ir.Identifier{Parts: []string{"v_range", "min_sal"}},
						Right: &ir.NumberLiteral{Text: "1"},
					},
				},
			},
		},
	}

	err := ElaborateFunctionBody(fb, pkgCtx, ir.NewEmitContext())
	require.Error(t, err)
	var uce ir.UnsupportedConstructError
	require.ErrorAs(t, err, &uce)
	assert.Contains(t, uce.Feature, "v_range")
	assert.Contains(t, uce.Feature, "min_sal")
}

// A bare reference to the whole inline-type variable (no dotted field)
// is a plain jsonb value copy, not a field/collection-method read, and
// must not be rejected.
func TestElaborateFunctionBody_AllowsWholeValueRHSCopy(t *testing.T) {
	pkgCtx := rangePkgCtx()
	fb := &ir.FunctionBody{
		Schema: "hr",
		Name:   "copy_range",
		Decls: []ir.Declaration{
			&ir.VariableDeclaration{Name: "v_range", Type: "salary_range_t"},
			&ir.VariableDeclaration{Name: "v_other", Type: "salary_range_t"},
		},
		Body: &ir.Block{
			Statements: []ir.Statement{
				&ir.Assignment{Target: "v_other", Value: &ir.Identifier{Parts: []string{"v_range"}}},
			},
		},
	}

	err := ElaborateFunctionBody(fb, pkgCtx, ir.NewEmitContext())
	require.NoError(t, err)
}
