// Package catalogtest builds ready-made catalog.Catalog snapshots for
// table-driven translation tests. It plays the role the teacher's own
// sqltest.Fixture plays for its live-database integration tests, but
// entirely in-memory: no connection is ever opened, since the core
// this fixture supports never opens one either.
package catalogtest

import (
	"strings"

	"github.com/dbmigrate/oratopg/catalog"
	"github.com/dbmigrate/oratopg/indices"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Fixture accumulates schema objects destined for one catalog.Catalog,
// then Build()s the catalog and an indices.Indices snapshot over it in
// one call, mirroring the shape of a table-driven test's Arrange step.
type Fixture struct {
	// Name uniquely labels the fixture within a test run, the same role
	// sqltest.Fixture.DBName plays for an ephemeral database - a UUIDv4
	// when left blank, so parallel subtests never collide on a shared
	// name even though nothing here actually contends over a resource.
	Name string

	schemas  []string
	tables   []catalog.Table
	synonyms []catalog.Synonym
	seqs     []catalog.Sequence
}

// New returns an empty fixture with a fresh UUIDv4 name.
func New() *Fixture {
	return &Fixture{Name: strings.ReplaceAll(uuid.Must(uuid.NewV4()).String(), "-", "")}
}

// WithSchema registers schema as known to the source side, the way a
// real Oracle catalog query would enumerate ALL_USERS.
func (f *Fixture) WithSchema(schema string) *Fixture {
	f.schemas = append(f.schemas, strings.ToLower(schema))
	return f
}

// WithTable registers a table and its columns under schema. Columns
// are given ordinals in the order passed, matching Oracle's
// ALL_TAB_COLUMNS.COLUMN_ID ordering.
func (f *Fixture) WithTable(schema, name string, columns ...catalog.Column) *Fixture {
	for i := range columns {
		columns[i].Ordinal = i + 1
	}
	f.tables = append(f.tables, catalog.Table{
		Schema:  strings.ToLower(schema),
		Name:    strings.ToLower(name),
		Side:    catalog.SideSource,
		Columns: columns,
	})
	return f
}

// WithSynonym registers a synonym, owner == "public" for a PUBLIC
// synonym (spec.md §4.4.3's synonym resolution fallback order).
func (f *Fixture) WithSynonym(owner, name, targetOwner, targetName string) *Fixture {
	f.synonyms = append(f.synonyms, catalog.Synonym{
		Owner:       strings.ToLower(owner),
		Name:        strings.ToLower(name),
		TargetOwner: strings.ToLower(targetOwner),
		TargetName:  strings.ToLower(targetName),
	})
	return f
}

// WithSequence registers a sequence, given its bounds as plain decimal
// strings so call sites never need to import shopspring/decimal just
// to write a fixture.
func (f *Fixture) WithSequence(schema, name string, min, max, current, increment string) *Fixture {
	f.seqs = append(f.seqs, catalog.Sequence{
		Schema:       strings.ToLower(schema),
		Name:         strings.ToLower(name),
		MinValue:     mustDecimal(min),
		MaxValue:     mustDecimal(max),
		CurrentValue: mustDecimal(current),
		IncrementBy:  mustDecimal(increment),
	})
	return f
}

// Column is a convenience constructor for a nullable column with no
// default, the common case in a test fixture.
func Column(name, typeName string) catalog.Column {
	return catalog.Column{Name: strings.ToLower(name), TypeName: strings.ToUpper(typeName), Nullable: true}
}

// Build realizes the accumulated schema objects into a fresh
// catalog.Catalog. It returns the catalog rather than an indices
// snapshot directly, since some tests (catalog package tests
// themselves, most obviously) want the catalog without indices
// built over it.
func (f *Fixture) Build() *catalog.Catalog {
	cat := catalog.New()
	cat.SetSchemaNames(catalog.SideSource, f.schemas)
	cat.SetTables(catalog.SideSource, f.tables)
	cat.SetSynonyms(catalog.SideSource, f.synonyms)
	cat.SetSequences(f.seqs)
	return cat
}

// BuildIndices realizes the fixture straight into an indices.Indices
// snapshot scoped to currentSchemas, the shape every translation test
// actually wants (the catalog itself is an implementation detail of
// how the snapshot was produced).
func (f *Fixture) BuildIndices(currentSchemas ...string) *indices.Indices {
	return indices.Build(f.Build(), currentSchemas)
}
