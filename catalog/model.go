package catalog

import "github.com/shopspring/decimal"

// Side distinguishes the Oracle source metadata from the PostgreSQL
// target metadata; every per-slot entity in the catalog is keyed by it.
type Side string

const (
	SideSource Side = "source"
	SideTarget Side = "target"
)

// Column is one ordinal position in a Table (spec.md §3). Identifier
// fields are always stored lower-case; callers normalize on ingestion.
type Column struct {
	Ordinal        int
	Name           string
	TypeName       string
	TypeOwner      string // non-empty for user-defined / object types
	CharLength     int
	NumericPrec    int
	NumericScale   int
	Nullable       bool
	DefaultLiteral string
}

// Table is a schema-qualified relation and its ordered columns.
type Table struct {
	Schema  string
	Name    string
	Side    Side
	Columns []Column
}

func (t Table) QualifiedName() string { return t.Schema + "." + t.Name }

// ObjectTypeField is one attribute of an object type: its name, its
// type name, and the type's owning schema when it is not a built-in.
type ObjectTypeField struct {
	Name      string
	TypeName  string
	TypeOwner string
}

type ObjectType struct {
	Schema  string
	Name    string
	Side    Side
	Fields  []ObjectTypeField
	Methods []string
}

func (o ObjectType) QualifiedName() string { return o.Schema + "." + o.Name }

// Synonym is a same-database alias (spec.md §3); Owner == "public"
// marks a PUBLIC synonym. DbLink is carried through even though no
// current operation reads it, since a cross-database synonym changes
// how the resolved name must ultimately be emitted by a downstream DDL
// layer outside this core's scope.
type Synonym struct {
	Owner        string
	Name         string
	TargetOwner  string
	TargetName   string
	DbLink       string
}

// Sequence mirrors Oracle's arbitrary-precision sequence bounds, which
// can run up to 10^28 — well beyond int64, hence decimal.Decimal.
type Sequence struct {
	Schema        string
	Name          string
	MinValue      decimal.Decimal
	MaxValue      decimal.Decimal
	CurrentValue  decimal.Decimal
	IncrementBy   decimal.Decimal
	CacheSize     int
	Cycle         bool
	Order         bool
}

// InlineTypeCategory enumerates the categories an inline package TYPE
// declaration can fall into (spec.md §3, §4.5).
type InlineTypeCategory string

const (
	InlineRecord  InlineTypeCategory = "RECORD"
	InlineRowType InlineTypeCategory = "ROWTYPE"
	InlineTableOf InlineTypeCategory = "TABLE_OF"
	InlineVarray  InlineTypeCategory = "VARRAY"
	InlineIndexBy InlineTypeCategory = "INDEX_BY"
)

// InlineFieldMapping is one RECORD/ROWTYPE field's source-to-target
// type translation, captured once at extraction time so the elaborator
// never needs to re-resolve it.
type InlineFieldMapping struct {
	Name       string
	SourceType string
	TargetType string
}

// InlineTypeDefinition is the catalog's record of one package-scoped
// TYPE declaration (spec.md §3, §4.5). ConversionStrategy is currently
// always "JSONB"; the field exists so a future lowering target doesn't
// require a catalog schema change.
type InlineTypeDefinition struct {
	Schema             string
	Package            string
	Name               string
	Category           InlineTypeCategory
	Fields             []InlineFieldMapping // non-nil iff Category is RECORD or ROWTYPE
	ElementType        string               // non-empty iff Category is a collection
	SizeLimit          int                  // VARRAY(n); 0 if none
	IndexKeyType       string               // INDEX BY key type; empty unless InlineIndexBy
	ConversionStrategy string
}

// PackageVariable is one package-spec-level variable declaration.
type PackageVariable struct {
	Name       string
	TypeName   string
	Default    string
	IsConstant bool
}

// PackageContext is the cached result of extracting one package spec
// (spec.md §3): its top-level variables and its inline type
// definitions, keyed by name for O(1) lookup.
type PackageContext struct {
	Schema    string
	Package   string
	Variables map[string]PackageVariable
	Types     map[string]InlineTypeDefinition
}

// OutcomeKind distinguishes the three buckets a creation outcome
// records objects under (spec.md §3).
type OutcomeKind string

const (
	OutcomeCreated OutcomeKind = "created"
	OutcomeSkipped OutcomeKind = "skipped"
	OutcomeError   OutcomeKind = "error"
)

// OutcomeEntry is one object's result within a creation Outcome.
type OutcomeEntry struct {
	ObjectName string
	Kind       OutcomeKind
	Reason     string // set for Skipped
	Message    string // set for Error
	Statement  string // offending statement text; set for Error
}

// Outcome is an immutable, append-only record of one creation job's
// results (spec.md §3: "Creation outcomes are append-only").
type Outcome struct {
	JobID     string
	Timestamp string // RFC3339; stamped by the caller, never by the catalog
	Entries   []OutcomeEntry
}
