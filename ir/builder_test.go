package ir

import (
	"testing"

	"github.com/dbmigrate/oratopg/catalog"
	"github.com/dbmigrate/oratopg/indices"
	"github.com/dbmigrate/oratopg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSelect(t *testing.T, sql, currentSchema string) (*SelectStatement, error) {
	t.Helper()
	root, errs := parser.Parse("t.sql", sql, parser.EntrySelectStatement)
	require.Empty(t, errs)
	stmt := root.(*parser.SelectStatement)

	cat := catalog.New()
	idx := indices.Build(cat, []string{currentSchema})
	ctx := NewBuildContext(currentSchema, idx)
	return NewBuilder(ctx).BuildSelectStatement(stmt)
}

// Scenario 1: SELECT empno FROM emp, current_schema = hr, empty indices.
func TestBuilder_Scenario1_SchemaQualifiesBareTable(t *testing.T) {
	stmt, err := buildSelect(t, "SELECT empno FROM emp", "hr")
	require.NoError(t, err)
	assert.Equal(t, "SELECT empno FROM hr.emp", stmt.ToPostgres(NewEmitContext()))
}

// Scenario 2: two columns, aliased table.
func TestBuilder_Scenario2_TwoColumnsSpaceCommaJoin(t *testing.T) {
	stmt, err := buildSelect(t, "SELECT empno, ename FROM employees e", "hr")
	require.NoError(t, err)
	assert.Equal(t, "SELECT empno , ename FROM hr.employees e", stmt.ToPostgres(NewEmitContext()))
}

// Scenario 3: lower-case keywords still up-case on emission, column
// identifiers preserve source case.
func TestBuilder_Scenario3_KeywordsAlwaysUpcased(t *testing.T) {
	stmt, err := buildSelect(t, "select empno, ename from employees", "hr")
	require.NoError(t, err)
	assert.Equal(t, "SELECT empno , ename FROM hr.employees", stmt.ToPostgres(NewEmitContext()))
}

// Scenario 4: upper-case source columns preserve case; table name is
// qualified and lower-cased regardless of source case.
func TestBuilder_Scenario4_TableNameLowercasedColumnsPreserved(t *testing.T) {
	stmt, err := buildSelect(t, "SELECT EMPNO, ENAME FROM EMPLOYEES", "hr")
	require.NoError(t, err)
	assert.Equal(t, "SELECT EMPNO , ENAME FROM hr.employees", stmt.ToPostgres(NewEmitContext()))
}

// Scenario 5: truncated input is a parser.SyntaxError, not a builder error.
func TestBuilder_Scenario5_TruncatedInputFailsAtParse(t *testing.T) {
	_, errs := parser.Parse("t.sql", "SELECT empno FROM", parser.EntrySelectStatement)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Error(), "parse error")
	assert.Contains(t, errs[0].Error(), "t.sql:")
}

// Scenario 6: multiple tables in FROM is rejected by the builder.
func TestBuilder_Scenario6_MultiTableFromRejected(t *testing.T) {
	_, err := buildSelect(t, "SELECT a, b FROM t1, t2", "hr")
	require.Error(t, err)
	var uce UnsupportedConstructError
	require.ErrorAs(t, err, &uce)
	assert.Contains(t, uce.Feature, "Multiple tables in FROM")
}

// Scenario 7: a CTE name is exempted from schema qualification inside
// the statement that introduces it.
func TestBuilder_Scenario7_CTEExemptFromQualification(t *testing.T) {
	stmt, err := buildSelect(t, "WITH my_cte AS (SELECT 1 FROM dual) SELECT * FROM my_cte", "hr")
	require.NoError(t, err)
	inner := stmt.Inner.Subquery.Head.QueryBlock.From.Tables[0]
	assert.Equal(t, "my_cte", inner.ResolvedName)
}

func TestBuilder_ParenthesizedSubqueryAsBasicElementsRejected(t *testing.T) {
	root, errs := parser.Parse("t.sql", "SELECT * FROM (SELECT 1 FROM dual) UNION (SELECT 2 FROM dual)", parser.EntrySelectStatement)
	// The parser recognizes the shape; rejection is the builder's job.
	require.Empty(t, errs)
	stmt := root.(*parser.SelectStatement)

	cat := catalog.New()
	idx := indices.Build(cat, []string{"hr"})
	ctx := NewBuildContext("hr", idx)
	_, err := NewBuilder(ctx).BuildSelectStatement(stmt)
	require.Error(t, err)
	var uce UnsupportedConstructError
	require.ErrorAs(t, err, &uce)
}

func TestBuilder_SynonymResolutionWins(t *testing.T) {
	cat := catalog.New()
	cat.SetSynonyms(catalog.SideSource, []catalog.Synonym{{Owner: "hr", Name: "emp", TargetOwner: "hr", TargetName: "employees"}})
	idx := indices.Build(cat, []string{"hr"})
	ctx := NewBuildContext("hr", idx)

	root, errs := parser.Parse("t.sql", "SELECT empno FROM emp", parser.EntrySelectStatement)
	require.Empty(t, errs)
	stmt := root.(*parser.SelectStatement)

	out, err := NewBuilder(ctx).BuildSelectStatement(stmt)
	require.NoError(t, err)
	assert.Equal(t, "SELECT empno FROM hr.employees", out.ToPostgres(NewEmitContext()))
}

func TestBuilder_TableCollectionExpressionRejected(t *testing.T) {
	root, errs := parser.Parse("t.sql", "SELECT * FROM TABLE(v_items)", parser.EntrySelectStatement)
	require.Empty(t, errs)
	stmt := root.(*parser.SelectStatement)

	cat := catalog.New()
	idx := indices.Build(cat, []string{"hr"})
	ctx := NewBuildContext("hr", idx)
	_, err := NewBuilder(ctx).BuildSelectStatement(stmt)
	require.Error(t, err)
	var uce UnsupportedConstructError
	require.ErrorAs(t, err, &uce)
	assert.Contains(t, uce.Feature, "table_collection_expression")
}

func TestBuilder_InBetweenLikeRejected(t *testing.T) {
	cases := []string{
		"SELECT * FROM emp WHERE deptno IN (10, 20)",
		"SELECT * FROM emp WHERE sal BETWEEN 1 AND 2",
		"SELECT * FROM emp WHERE ename LIKE 'A%'",
	}
	cat := catalog.New()
	idx := indices.Build(cat, []string{"hr"})
	for _, sql := range cases {
		root, errs := parser.Parse("t.sql", sql, parser.EntrySelectStatement)
		require.Empty(t, errs, sql)
		stmt := root.(*parser.SelectStatement)
		ctx := NewBuildContext("hr", idx)
		_, err := NewBuilder(ctx).BuildSelectStatement(stmt)
		require.Error(t, err, sql)
	}
}

// Scenario 8: RAISE_APPLICATION_ERROR inside a procedure body.
func TestBuilder_Scenario8_RaiseApplicationErrorMapping(t *testing.T) {
	src := `CREATE PROCEDURE hr.bump(p_id IN NUMBER) AS
BEGIN
  RAISE_APPLICATION_ERROR(-20123, 'boom');
END bump;`
	root, errs := parser.Parse("t.sql", src, parser.EntryProcedureBody)
	require.Empty(t, errs)
	proc := root.(*parser.ProcedureBody)

	cat := catalog.New()
	idx := indices.Build(cat, []string{"hr"})
	ctx := NewBuildContext("hr", idx)
	out, err := NewBuilder(ctx).BuildProcedureBody(proc)
	require.NoError(t, err)

	raise := out.Body.Statements[0].(*Raise)
	assert.True(t, raise.IsApplicationError)
	assert.Equal(t, "P0123", raise.SQLState)
	assert.Equal(t, -20123, raise.OriginalCode)
	assert.Contains(t, raise.ToPostgres(NewEmitContext()), "RAISE EXCEPTION 'boom'")
	assert.Contains(t, raise.ToPostgres(NewEmitContext()), "ERRCODE = 'P0123'")
}

func TestBuilder_FetchInjectsCompanionUpdatesWhenObserved(t *testing.T) {
	src := `CREATE PROCEDURE hr.drain AS
  CURSOR c IS SELECT empno FROM emp;
  v_empno NUMBER;
  v_found BOOLEAN;
BEGIN
  OPEN c;
  FETCH c INTO v_empno;
  v_found := c%FOUND;
  CLOSE c;
END drain;`
	root, errs := parser.Parse("t.sql", src, parser.EntryProcedureBody)
	require.Empty(t, errs)
	proc := root.(*parser.ProcedureBody)

	cat := catalog.New()
	idx := indices.Build(cat, []string{"hr"})
	ctx := NewBuildContext("hr", idx)
	out, err := NewBuilder(ctx).BuildProcedureBody(proc)
	require.NoError(t, err)

	var fetch *FetchStatement
	for _, s := range out.Body.Statements {
		if f, ok := s.(*FetchStatement); ok {
			fetch = f
		}
	}
	require.NotNil(t, fetch)
	assert.True(t, fetch.UpdateFound)
	assert.Contains(t, fetch.ToPostgres(NewEmitContext()), "c__found := FOUND")
}

func TestBuilder_FetchNoInjectionWhenNotObserved(t *testing.T) {
	src := `CREATE PROCEDURE hr.drain AS
  CURSOR c IS SELECT empno FROM emp;
  v_empno NUMBER;
BEGIN
  OPEN c;
  FETCH c INTO v_empno;
  CLOSE c;
END drain;`
	root, errs := parser.Parse("t.sql", src, parser.EntryProcedureBody)
	require.Empty(t, errs)
	proc := root.(*parser.ProcedureBody)

	cat := catalog.New()
	idx := indices.Build(cat, []string{"hr"})
	ctx := NewBuildContext("hr", idx)
	out, err := NewBuilder(ctx).BuildProcedureBody(proc)
	require.NoError(t, err)

	fetch := out.Body.Statements[1].(*FetchStatement)
	assert.False(t, fetch.UpdateFound)
	assert.NotContains(t, fetch.ToPostgres(NewEmitContext()), "c__found")
}

func TestBuilder_BulkCollectRejected(t *testing.T) {
	src := `CREATE PROCEDURE hr.drain AS
  CURSOR c IS SELECT empno FROM emp;
  v_empnos NUMBER;
BEGIN
  FETCH c BULK COLLECT INTO v_empnos;
END drain;`
	root, errs := parser.Parse("t.sql", src, parser.EntryProcedureBody)
	require.Empty(t, errs)
	proc := root.(*parser.ProcedureBody)

	cat := catalog.New()
	idx := indices.Build(cat, []string{"hr"})
	ctx := NewBuildContext("hr", idx)
	_, err := NewBuilder(ctx).BuildProcedureBody(proc)
	require.Error(t, err)
	var uce UnsupportedConstructError
	require.ErrorAs(t, err, &uce)
	assert.Contains(t, uce.Feature, "BULK COLLECT")
}

func TestBuilder_IfLoopBodiesRejected(t *testing.T) {
	src := `CREATE PROCEDURE hr.p AS
BEGIN
  IF 1 = 1 THEN
    NULL;
  END IF;
END p;`
	root, errs := parser.Parse("t.sql", src, parser.EntryProcedureBody)
	require.Empty(t, errs)
	proc := root.(*parser.ProcedureBody)

	cat := catalog.New()
	idx := indices.Build(cat, []string{"hr"})
	ctx := NewBuildContext("hr", idx)
	_, err := NewBuilder(ctx).BuildProcedureBody(proc)
	require.Error(t, err)
}

func TestBuilder_FunctionBodyRendersSignatureAndReturn(t *testing.T) {
	src := `CREATE FUNCTION hr.get_salary(p_id IN NUMBER) RETURN NUMBER AS
  v_salary NUMBER := 0;
BEGIN
  v_salary := 100;
  RETURN v_salary;
END get_salary;`
	root, errs := parser.Parse("t.sql", src, parser.EntryFunctionBody)
	require.Empty(t, errs)
	fn := root.(*parser.FunctionBody)

	cat := catalog.New()
	idx := indices.Build(cat, []string{"hr"})
	ctx := NewBuildContext("hr", idx)
	out, err := NewBuilder(ctx).BuildFunctionBody(fn)
	require.NoError(t, err)

	rendered := out.ToPostgres(NewEmitContext())
	assert.Contains(t, rendered, "CREATE OR REPLACE FUNCTION hr.get_salary(p_id IN NUMBER) RETURNS NUMBER AS $$")
	assert.Contains(t, rendered, "RETURN v_salary")
	assert.Contains(t, rendered, "$$ LANGUAGE plpgsql;")
}
