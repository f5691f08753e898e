package catalog

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_TablesAreNormalizedAndPerSide(t *testing.T) {
	c := New()
	c.SetTables(SideSource, []Table{{Schema: "HR", Name: "Employees", Columns: []Column{{Ordinal: 1, Name: "EMPNO"}}}})
	c.SetTables(SideTarget, []Table{{Schema: "hr", Name: "employees"}})

	src := c.GetTables(SideSource)
	require.Len(t, src, 1)
	assert.Equal(t, "hr", src[0].Schema)
	assert.Equal(t, "employees", src[0].Name)
	assert.Equal(t, "empno", src[0].Columns[0].Name)

	assert.Len(t, c.GetTables(SideTarget), 1)
}

func TestCatalog_SetTablesReplacesOnlyThatSide(t *testing.T) {
	c := New()
	c.SetTables(SideSource, []Table{{Schema: "a", Name: "t1"}})
	c.SetTables(SideTarget, []Table{{Schema: "a", Name: "t2"}})
	c.SetTables(SideSource, []Table{{Schema: "a", Name: "t3"}})

	assert.Len(t, c.GetTables(SideSource), 1)
	assert.Equal(t, "t3", c.GetTables(SideSource)[0].Name)
	assert.Len(t, c.GetTables(SideTarget), 1)
	assert.Equal(t, "t2", c.GetTables(SideTarget)[0].Name)
}

func TestCatalog_SynonymLookup(t *testing.T) {
	c := New()
	c.SetSynonyms(SideSource, []Synonym{
		{Owner: "HR", Name: "EMP", TargetOwner: "hr", TargetName: "employees"},
		{Owner: "public", Name: "emp", TargetOwner: "shared", TargetName: "employees"},
	})

	syn, ok := c.LookupSynonym("hr", "emp")
	require.True(t, ok)
	assert.Equal(t, "employees", syn.TargetName)

	_, ok = c.LookupSynonym("other", "emp")
	assert.False(t, ok)

	syn, ok = c.LookupSynonym("public", "emp")
	require.True(t, ok)
	assert.Equal(t, "shared", syn.TargetOwner)
}

func TestCatalog_SequenceBigValues(t *testing.T) {
	c := New()
	huge, _ := decimal.NewFromString("9999999999999999999999999999")
	c.SetSequences([]Sequence{{Schema: "hr", Name: "emp_seq", MaxValue: huge}})
	seqs := c.GetSequences()
	require.Len(t, seqs, 1)
	assert.True(t, seqs[0].MaxValue.Equal(huge))
}

func TestCatalog_PackageContextRoundTrip(t *testing.T) {
	c := New()
	c.RegisterPackageContext("HR", "Emp_Pkg", PackageContext{
		Variables: map[string]PackageVariable{"g_default": {Name: "g_default", TypeName: "NUMBER"}},
		Types:     map[string]InlineTypeDefinition{"emp_rec": {Category: InlineRecord}},
	})

	ctx, ok := c.GetPackageContext("hr", "emp_pkg")
	require.True(t, ok)
	assert.Equal(t, "hr", ctx.Schema)
	assert.Contains(t, ctx.Variables, "g_default")
}

func TestCatalog_OutcomesAreAppendOnly(t *testing.T) {
	c := New()
	o1 := NewOutcomeBuilder().Created("hr.get_salary").Build()
	o2 := NewOutcomeBuilder().Skipped("hr.old_proc", "already exists").Build()
	c.RecordOutcome(o1)
	c.RecordOutcome(o2)

	outcomes := c.Outcomes()
	require.Len(t, outcomes, 2)
	assert.NotEqual(t, outcomes[0].JobID, outcomes[1].JobID)
}

func TestCatalog_ResetAllClearsEverySlot(t *testing.T) {
	c := New()
	c.SetSchemaNames(SideSource, []string{"hr"})
	c.SetTables(SideSource, []Table{{Schema: "hr", Name: "employees"}})
	c.SetSynonyms(SideSource, []Synonym{{Owner: "hr", Name: "emp"}})
	c.RecordOutcome(NewOutcomeBuilder().Created("x").Build())

	c.ResetAll()

	assert.Empty(t, c.GetSchemaNames(SideSource))
	assert.Empty(t, c.GetTables(SideSource))
	assert.Empty(t, c.GetSynonyms(SideSource))
	assert.Empty(t, c.Outcomes())
}

func TestCatalog_ConcurrentPerSlotAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.SetTables(SideSource, []Table{{Schema: "hr", Name: "employees"}})
		}(i)
		go func(i int) {
			defer wg.Done()
			_ = c.GetSequences()
		}(i)
	}
	wg.Wait()
}
