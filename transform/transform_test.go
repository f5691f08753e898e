package transform

import (
	"testing"

	"github.com/dbmigrate/oratopg/catalog"
	"github.com/dbmigrate/oratopg/indices"
	"github.com/dbmigrate/oratopg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyIndices(schema string) *indices.Indices {
	return indices.Build(catalog.New(), []string{schema})
}

func TestTransformCode_SelectStatement_Success(t *testing.T) {
	result := TransformCode(Request{
		Source:        "SELECT empno FROM emp",
		CurrentSchema: "hr",
		Entry:         parser.EntrySelectStatement,
	}, emptyIndices("hr"))

	require.True(t, result.Success)
	assert.Equal(t, "SELECT empno FROM hr.emp", result.PostgresSQL)
	assert.Empty(t, result.ErrorMessage)
}

func TestTransformCode_SyntaxErrorIsFailure(t *testing.T) {
	result := TransformCode(Request{
		Source:        "SELECT empno FROM",
		CurrentSchema: "hr",
		Entry:         parser.EntrySelectStatement,
	}, emptyIndices("hr"))

	require.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "parse error")
}

func TestTransformCode_UnsupportedConstructIsFailure(t *testing.T) {
	result := TransformCode(Request{
		Source:        "SELECT 1 FROM dual WHERE a IN (1, 2, 3)",
		CurrentSchema: "hr",
		Entry:         parser.EntrySelectStatement,
	}, emptyIndices("hr"))

	require.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "not yet supported")
}

func TestTransformCode_BlankSourceIsInputError(t *testing.T) {
	result := TransformCode(Request{
		Source:        "   ",
		CurrentSchema: "hr",
		Entry:         parser.EntrySelectStatement,
	}, emptyIndices("hr"))

	require.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "invalid input")
}

func TestTransformCode_MissingIndicesIsInputError(t *testing.T) {
	result := TransformCode(Request{
		Source:        "SELECT 1 FROM dual",
		CurrentSchema: "hr",
		Entry:         parser.EntrySelectStatement,
	}, nil)

	require.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "indices")
}

func TestTransformCode_ShowASTIncludesTree(t *testing.T) {
	result := TransformCode(Request{
		Source:        "SELECT empno FROM emp",
		CurrentSchema: "hr",
		Entry:         parser.EntrySelectStatement,
		ShowAST:       true,
	}, emptyIndices("hr"))

	require.True(t, result.Success)
	assert.NotEmpty(t, result.AstTree)
}

func TestTransformCode_RaiseApplicationErrorMapping(t *testing.T) {
	src := `FUNCTION boom RETURN NUMBER IS
BEGIN
  RAISE_APPLICATION_ERROR(-20123, 'boom');
  RETURN 1;
END;`
	result := TransformCode(Request{
		Source:        src,
		CurrentSchema: "hr",
		Entry:         parser.EntryFunctionBody,
	}, emptyIndices("hr"))

	require.True(t, result.Success)
	assert.Contains(t, result.PostgresSQL, "RAISE EXCEPTION")
	assert.Contains(t, result.PostgresSQL, "ERRCODE = 'P0123'")
}

func TestTransformCode_PackageBodyWithInlineTypeElaboration(t *testing.T) {
	specSrc := `PACKAGE salary_pkg IS
  TYPE salary_range_t IS RECORD (min_sal NUMBER, max_sal NUMBER);
END salary_pkg;`

	bodySrc := `PACKAGE BODY salary_pkg IS
  PROCEDURE bump_range IS
    v_range salary_range_t;
  BEGIN
    v_range.min_sal := 50000;
  END bump_range;
END salary_pkg;`

	result := TransformCode(Request{
		Source:            bodySrc,
		CurrentSchema:     "hr",
		Entry:             parser.EntryPackageBody,
		PackageName:       "salary_pkg",
		PackageSpecSource: specSrc,
	}, emptyIndices("hr"))

	require.True(t, result.Success)
	assert.Contains(t, result.PostgresSQL, "jsonb")
	assert.Contains(t, result.PostgresSQL, "jsonb_set(v_range, '{min_sal}'")
}

func TestTransformSQL_WrapsTransformCode(t *testing.T) {
	result := TransformSQL("SELECT empno FROM emp", "hr", emptyIndices("hr"), false)
	require.True(t, result.Success)
	assert.Equal(t, "SELECT empno FROM hr.emp", result.PostgresSQL)
}

func TestTransformFunction_WrapsTransformCode(t *testing.T) {
	src := "FUNCTION boom RETURN NUMBER IS\nBEGIN\n  RETURN 1;\nEND;"
	result := TransformFunction(src, "hr", emptyIndices("hr"), false)
	require.True(t, result.Success)
	assert.Contains(t, result.PostgresSQL, "CREATE OR REPLACE FUNCTION hr.boom")
}

func TestTransformProcedure_WrapsTransformCode(t *testing.T) {
	src := "PROCEDURE noop IS\nBEGIN\n  NULL;\nEND;"
	result := TransformProcedure(src, "hr", emptyIndices("hr"), false)
	require.True(t, result.Success)
	assert.Contains(t, result.PostgresSQL, "NULL;")
}

func TestTransformCode_UnknownParseEntryIsInputError(t *testing.T) {
	result := TransformCode(Request{
		Source:        "SELECT 1 FROM dual",
		CurrentSchema: "hr",
		Entry:         parser.ParseEntry("bogus"),
	}, emptyIndices("hr"))

	require.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "unrecognized parse entry")
}
