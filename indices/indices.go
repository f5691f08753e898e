// Package indices builds the per-translation snapshot that spec.md §4.3
// describes: a column index, a type-method index, a package-function
// index, and a synonym resolver. Build derives the column index, the
// type-method index and the synonym resolver from a Catalog once. The
// package-function index is not derived from the catalog: it starts
// empty and is filled only by RegisterPackageFunction, the one method
// that changes a snapshot after Build.
package indices

import (
	"strings"

	"github.com/dbmigrate/oratopg/catalog"
)

// ColumnEntry is one column as seen by the builder: its source type and
// the PostgreSQL type it will be emitted as. Build sets TargetType to
// the catalog's type name unchanged, the same value as SourceType; no
// type mapping is applied.
type ColumnEntry struct {
	Name       string
	SourceType string
	TargetType string
	TypeOwner  string
	Precision  int
	Scale      int
	CharLength int
	Nullable   bool
}

// Indices is the snapshot an ir.BuildContext borrows while building one
// translation; IR emission (ir.EmitContext) does not read it.
type Indices struct {
	columns          map[string][]ColumnEntry
	typeMethods      map[string]map[string]struct{}
	packageFunctions map[string]struct{}
	resolver         *SynonymResolver
}

// Build constructs a snapshot from the catalog's current state,
// restricted to the given schema list (an empty list means "all
// schemas known to the catalog"). The snapshot never observes catalog
// writes that commit after Build returns (spec.md §5).
func Build(cat *catalog.Catalog, schemas []string) *Indices {
	allowed := make(map[string]bool, len(schemas))
	for _, s := range schemas {
		allowed[strings.ToLower(strings.TrimSpace(s))] = true
	}
	includeAll := len(allowed) == 0

	idx := &Indices{
		columns:          make(map[string][]ColumnEntry),
		typeMethods:      make(map[string]map[string]struct{}),
		packageFunctions: make(map[string]struct{}),
	}

	for _, t := range cat.GetTables(catalog.SideSource) {
		if !includeAll && !allowed[t.Schema] {
			continue
		}
		entries := make([]ColumnEntry, len(t.Columns))
		for i, c := range t.Columns {
			entries[i] = ColumnEntry{
				Name:       c.Name,
				SourceType: c.TypeName,
				TargetType: c.TypeName,
				TypeOwner:  c.TypeOwner,
				Precision:  c.NumericPrec,
				Scale:      c.NumericScale,
				CharLength: c.CharLength,
				Nullable:   c.Nullable,
			}
		}
		idx.columns[t.QualifiedName()] = entries
	}

	for _, ot := range cat.GetObjectTypes(catalog.SideSource) {
		if !includeAll && !allowed[ot.Schema] {
			continue
		}
		methods := make(map[string]struct{}, len(ot.Methods))
		for _, m := range ot.Methods {
			methods[strings.ToLower(m)] = struct{}{}
		}
		idx.typeMethods[ot.QualifiedName()] = methods
	}

	idx.resolver = buildSynonymResolver(cat)

	return idx
}

// ColumnsOf returns the ordered column list for a qualified table name,
// or nil if unknown.
func (idx *Indices) ColumnsOf(qualifiedTable string) []ColumnEntry {
	return idx.columns[strings.ToLower(qualifiedTable)]
}

// HasMethod reports whether qualifiedType has the named method,
// case-insensitively.
func (idx *Indices) HasMethod(qualifiedType, method string) bool {
	methods, ok := idx.typeMethods[strings.ToLower(qualifiedType)]
	if !ok {
		return false
	}
	_, found := methods[strings.ToLower(method)]
	return found
}

// RegisterPackageFunction records that schema.package.function exists,
// for callers (package-body translation) that discover functions while
// walking a PackageBody rather than from a persisted catalog slot.
func (idx *Indices) RegisterPackageFunction(schema, pkg, function string) {
	idx.packageFunctions[strings.ToLower(schema+"."+pkg+"."+function)] = struct{}{}
}

func (idx *Indices) HasPackageFunction(schema, pkg, function string) bool {
	_, ok := idx.packageFunctions[strings.ToLower(schema+"."+pkg+"."+function)]
	return ok
}

// ResolveSynonym delegates to the snapshot's SynonymResolver.
func (idx *Indices) ResolveSynonym(currentSchema, name string) (string, bool) {
	return idx.resolver.Resolve(currentSchema, name)
}
