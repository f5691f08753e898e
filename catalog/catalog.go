// Package catalog implements the process-wide metadata store spec.md
// §4.2 describes: a collection of independent slots, each guarded by
// its own sync.RWMutex so that many readers or one writer may proceed
// per slot without contending with unrelated slots. No global lock is
// taken anywhere in this package (spec.md §5: "Shared-resource policy").
package catalog

import (
	"sort"
	"strings"
	"sync"
)

type tableKey struct {
	side   Side
	schema string
	name   string
}

type objectTypeKey = tableKey

type synonymKey struct {
	owner string
	name  string
}

type sequenceKey struct {
	schema string
	name   string
}

type packageKey struct {
	schema  string
	pkg     string
}

// Catalog is the metadata store. The zero value is not usable; use
// New.
type Catalog struct {
	schemaNamesMu sync.RWMutex
	schemaNames   map[Side][]string

	tablesMu sync.RWMutex
	tables   map[tableKey]Table

	objectTypesMu sync.RWMutex
	objectTypes   map[objectTypeKey]ObjectType

	synonymsMu sync.RWMutex
	synonyms   map[synonymKey]Synonym

	sequencesMu sync.RWMutex
	sequences   map[sequenceKey]Sequence

	packageContextsMu sync.RWMutex
	packageContexts   map[packageKey]PackageContext

	outcomesMu sync.RWMutex
	outcomes   []Outcome
}

// New returns an empty Catalog, ready for use.
func New() *Catalog {
	return &Catalog{
		schemaNames:     make(map[Side][]string),
		tables:          make(map[tableKey]Table),
		objectTypes:     make(map[objectTypeKey]ObjectType),
		synonyms:        make(map[synonymKey]Synonym),
		sequences:       make(map[sequenceKey]Sequence),
		packageContexts: make(map[packageKey]PackageContext),
	}
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// ---- schema names ------------------------------------------------------

func (c *Catalog) GetSchemaNames(side Side) []string {
	c.schemaNamesMu.RLock()
	defer c.schemaNamesMu.RUnlock()
	names := c.schemaNames[side]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

func (c *Catalog) SetSchemaNames(side Side, names []string) {
	normalized := make([]string, len(names))
	for i, n := range names {
		normalized[i] = normalize(n)
	}
	c.schemaNamesMu.Lock()
	defer c.schemaNamesMu.Unlock()
	c.schemaNames[side] = normalized
}

// ---- tables --------------------------------------------------------------

func (c *Catalog) GetTables(side Side) []Table {
	c.tablesMu.RLock()
	defer c.tablesMu.RUnlock()
	var out []Table
	for k, v := range c.tables {
		if k.side == side {
			out = append(out, v)
		}
	}
	sortTables(out)
	return out
}

func (c *Catalog) SetTables(side Side, tables []Table) {
	c.tablesMu.Lock()
	defer c.tablesMu.Unlock()
	for k := range c.tables {
		if k.side == side {
			delete(c.tables, k)
		}
	}
	for _, t := range tables {
		t.Schema, t.Name, t.Side = normalize(t.Schema), normalize(t.Name), side
		c.tables[tableKey{side: side, schema: t.Schema, name: t.Name}] = t
	}
}

func sortTables(tables []Table) {
	sort.Slice(tables, func(i, j int) bool { return tables[i].QualifiedName() < tables[j].QualifiedName() })
}

// ---- object types --------------------------------------------------------

func (c *Catalog) GetObjectTypes(side Side) []ObjectType {
	c.objectTypesMu.RLock()
	defer c.objectTypesMu.RUnlock()
	var out []ObjectType
	for k, v := range c.objectTypes {
		if k.side == side {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QualifiedName() < out[j].QualifiedName() })
	return out
}

func (c *Catalog) SetObjectTypes(side Side, types []ObjectType) {
	c.objectTypesMu.Lock()
	defer c.objectTypesMu.Unlock()
	for k := range c.objectTypes {
		if k.side == side {
			delete(c.objectTypes, k)
		}
	}
	for _, t := range types {
		t.Schema, t.Name, t.Side = normalize(t.Schema), normalize(t.Name), side
		c.objectTypes[objectTypeKey{side: side, schema: t.Schema, name: t.Name}] = t
	}
}

// ---- synonyms --------------------------------------------------------

func (c *Catalog) GetSynonyms(side Side) []Synonym {
	c.synonymsMu.RLock()
	defer c.synonymsMu.RUnlock()
	out := make([]Synonym, 0, len(c.synonyms))
	for _, v := range c.synonyms {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Owner != out[j].Owner {
			return out[i].Owner < out[j].Owner
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// SetSynonyms replaces the entire synonym set. Side is accepted for
// symmetry with the other setters even though spec.md §3 models
// synonyms without a side, since only one database is ever the
// synonym-bearing side in practice (source); the parameter is reserved
// for a future target-side synonym import.
func (c *Catalog) SetSynonyms(_ Side, synonyms []Synonym) {
	c.synonymsMu.Lock()
	defer c.synonymsMu.Unlock()
	c.synonyms = make(map[synonymKey]Synonym, len(synonyms))
	for _, s := range synonyms {
		s.Owner, s.Name = normalize(s.Owner), normalize(s.Name)
		s.TargetOwner, s.TargetName = normalize(s.TargetOwner), normalize(s.TargetName)
		c.synonyms[synonymKey{owner: s.Owner, name: s.Name}] = s
	}
}

// LookupSynonym returns the synonym registered under (owner, name), if
// any. This is the primitive the indices package's resolver is built
// from (spec.md §4.3).
func (c *Catalog) LookupSynonym(owner, name string) (Synonym, bool) {
	c.synonymsMu.RLock()
	defer c.synonymsMu.RUnlock()
	s, ok := c.synonyms[synonymKey{owner: normalize(owner), name: normalize(name)}]
	return s, ok
}

// ---- sequences --------------------------------------------------------

func (c *Catalog) GetSequences() []Sequence {
	c.sequencesMu.RLock()
	defer c.sequencesMu.RUnlock()
	out := make([]Sequence, 0, len(c.sequences))
	for _, v := range c.sequences {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Schema != out[j].Schema {
			return out[i].Schema < out[j].Schema
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (c *Catalog) SetSequences(sequences []Sequence) {
	c.sequencesMu.Lock()
	defer c.sequencesMu.Unlock()
	c.sequences = make(map[sequenceKey]Sequence, len(sequences))
	for _, s := range sequences {
		s.Schema, s.Name = normalize(s.Schema), normalize(s.Name)
		c.sequences[sequenceKey{schema: s.Schema, name: s.Name}] = s
	}
}

// ---- package contexts --------------------------------------------------

func (c *Catalog) RegisterPackageContext(schema, pkg string, ctx PackageContext) {
	schema, pkg = normalize(schema), normalize(pkg)
	ctx.Schema, ctx.Package = schema, pkg
	c.packageContextsMu.Lock()
	defer c.packageContextsMu.Unlock()
	c.packageContexts[packageKey{schema: schema, pkg: pkg}] = ctx
}

func (c *Catalog) GetPackageContext(schema, pkg string) (PackageContext, bool) {
	c.packageContextsMu.RLock()
	defer c.packageContextsMu.RUnlock()
	ctx, ok := c.packageContexts[packageKey{schema: normalize(schema), pkg: normalize(pkg)}]
	return ctx, ok
}

// ---- outcomes -----------------------------------------------------------

// RecordOutcome appends an immutable outcome (spec.md §3: "append-only
// once a result is surfaced").
func (c *Catalog) RecordOutcome(o Outcome) {
	c.outcomesMu.Lock()
	defer c.outcomesMu.Unlock()
	c.outcomes = append(c.outcomes, o)
}

func (c *Catalog) Outcomes() []Outcome {
	c.outcomesMu.RLock()
	defer c.outcomesMu.RUnlock()
	out := make([]Outcome, len(c.outcomes))
	copy(out, c.outcomes)
	return out
}

// ResetAll clears every slot (spec.md §4.2's reset_all). Each slot is
// locked and cleared independently rather than under one catalog-wide
// lock, consistent with the per-slot concurrency discipline elsewhere
// in this type.
func (c *Catalog) ResetAll() {
	c.schemaNamesMu.Lock()
	c.schemaNames = make(map[Side][]string)
	c.schemaNamesMu.Unlock()

	c.tablesMu.Lock()
	c.tables = make(map[tableKey]Table)
	c.tablesMu.Unlock()

	c.objectTypesMu.Lock()
	c.objectTypes = make(map[objectTypeKey]ObjectType)
	c.objectTypesMu.Unlock()

	c.synonymsMu.Lock()
	c.synonyms = make(map[synonymKey]Synonym)
	c.synonymsMu.Unlock()

	c.sequencesMu.Lock()
	c.sequences = make(map[sequenceKey]Sequence)
	c.sequencesMu.Unlock()

	c.packageContextsMu.Lock()
	c.packageContexts = make(map[packageKey]PackageContext)
	c.packageContextsMu.Unlock()

	c.outcomesMu.Lock()
	c.outcomes = nil
	c.outcomesMu.Unlock()
}
