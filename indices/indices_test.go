package indices

import (
	"testing"

	"github.com/dbmigrate/oratopg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog() *catalog.Catalog {
	c := catalog.New()
	c.SetTables(catalog.SideSource, []catalog.Table{
		{Schema: "hr", Name: "employees", Columns: []catalog.Column{
			{Ordinal: 1, Name: "empno", TypeName: "NUMBER"},
			{Ordinal: 2, Name: "ename", TypeName: "VARCHAR2", CharLength: 30},
		}},
	})
	c.SetObjectTypes(catalog.SideSource, []catalog.ObjectType{
		{Schema: "hr", Name: "emp_obj_t", Methods: []string{"Greet"}},
	})
	c.SetSynonyms(catalog.SideSource, []catalog.Synonym{
		{Owner: "hr", Name: "emp", TargetOwner: "hr", TargetName: "employees"},
		{Owner: "public", Name: "dept", TargetOwner: "shared", TargetName: "departments"},
	})
	return c
}

func TestBuild_ColumnIndex(t *testing.T) {
	idx := Build(newTestCatalog(), nil)
	cols := idx.ColumnsOf("hr.employees")
	require.Len(t, cols, 2)
	assert.Equal(t, "empno", cols[0].Name)
	assert.Equal(t, "NUMBER", cols[0].SourceType)
}

func TestBuild_RestrictsToGivenSchemas(t *testing.T) {
	idx := Build(newTestCatalog(), []string{"other"})
	assert.Nil(t, idx.ColumnsOf("hr.employees"))
}

func TestBuild_TypeMethodIndexIsCaseInsensitive(t *testing.T) {
	idx := Build(newTestCatalog(), nil)
	assert.True(t, idx.HasMethod("hr.emp_obj_t", "GREET"))
	assert.False(t, idx.HasMethod("hr.emp_obj_t", "missing"))
}

func TestBuild_PackageFunctionRegistration(t *testing.T) {
	idx := Build(newTestCatalog(), nil)
	assert.False(t, idx.HasPackageFunction("hr", "emp_pkg", "get_salary"))
	idx.RegisterPackageFunction("HR", "Emp_Pkg", "Get_Salary")
	assert.True(t, idx.HasPackageFunction("hr", "emp_pkg", "get_salary"))
}

func TestResolveSynonym_SchemaQualifiedIsNotASynonym(t *testing.T) {
	idx := Build(newTestCatalog(), nil)
	_, ok := idx.ResolveSynonym("hr", "other.emp")
	assert.False(t, ok)
}

func TestResolveSynonym_CurrentSchemaTakesPriorityOverPublic(t *testing.T) {
	idx := Build(newTestCatalog(), nil)
	target, ok := idx.ResolveSynonym("hr", "emp")
	require.True(t, ok)
	assert.Equal(t, "hr.employees", target)
}

func TestResolveSynonym_FallsBackToPublic(t *testing.T) {
	idx := Build(newTestCatalog(), nil)
	target, ok := idx.ResolveSynonym("hr", "dept")
	require.True(t, ok)
	assert.Equal(t, "shared.departments", target)
}

func TestResolveSynonym_NoneWhenNotFound(t *testing.T) {
	idx := Build(newTestCatalog(), nil)
	_, ok := idx.ResolveSynonym("hr", "nonexistent")
	assert.False(t, ok)
}

func TestResolveSynonym_SingleHopOnly(t *testing.T) {
	c := catalog.New()
	c.SetSynonyms(catalog.SideSource, []catalog.Synonym{
		{Owner: "hr", Name: "a", TargetOwner: "hr", TargetName: "b"},
		{Owner: "hr", Name: "b", TargetOwner: "hr", TargetName: "c"},
	})
	idx := Build(c, nil)
	target, ok := idx.ResolveSynonym("hr", "a")
	require.True(t, ok)
	assert.Equal(t, "hr.b", target, "resolver must not chase b's own synonym target")
}
