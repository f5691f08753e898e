package catalogtest

import (
	"testing"

	"github.com/dbmigrate/oratopg/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixture_BuildIndices_SynonymResolution(t *testing.T) {
	idx := New().
		WithSchema("hr").
		WithTable("hr", "employees", Column("empno", "NUMBER"), Column("ename", "VARCHAR2")).
		WithSynonym("hr", "emp", "hr", "employees").
		BuildIndices("hr")

	resolved, ok := idx.ResolveSynonym("hr", "emp")
	require.True(t, ok)
	assert.Equal(t, "hr.employees", resolved)
}

func TestFixture_WithTable_AssignsOrdinals(t *testing.T) {
	cat := New().
		WithTable("hr", "employees", Column("empno", "NUMBER"), Column("ename", "VARCHAR2")).
		Build()

	tables := cat.GetTables("source")
	require.Len(t, tables, 1)
	assert.Equal(t, 1, tables[0].Columns[0].Ordinal)
	assert.Equal(t, 2, tables[0].Columns[1].Ordinal)
}

func TestFixture_BuildIndices_UsableByBuilder(t *testing.T) {
	idx := New().
		WithSchema("hr").
		WithTable("hr", "employees", Column("empno", "NUMBER")).
		BuildIndices("hr")

	ctx := ir.NewBuildContext("hr", idx)
	assert.Equal(t, "hr", ctx.CurrentSchema)
}
