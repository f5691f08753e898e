// Package inlinetype implements the inline-type elaboration engine of
// spec.md §4.5: extracting a package's `TYPE ... IS ...` declarations
// into catalog.InlineTypeDefinition entries, and lowering the
// declarations/assignments of variables typed by them to jsonb/
// jsonb_set operations.
package inlinetype

import (
	"fmt"

	"github.com/dbmigrate/oratopg/catalog"
	"github.com/dbmigrate/oratopg/indices"
	"github.com/dbmigrate/oratopg/parser"
	"github.com/dbmigrate/oratopg/sqlparser/oracle"
)

// ExtractPackageContext parses specText as a package spec and produces
// a catalog.PackageContext: one InlineTypeDefinition per TYPE
// declaration, categorized per spec.md §4.5, plus the package's
// top-level variable declarations. idx supplies the column index used
// to resolve %ROWTYPE field lists.
func ExtractPackageContext(schema, pkg, specText string, idx *indices.Indices) (*catalog.PackageContext, error) {
	root, errs := parser.Parse(oracle.FileRef(pkg+".sql"), specText, parser.EntryPackageSpec)
	if len(errs) > 0 {
		return nil, fmt.Errorf("extracting package context for %s.%s: %w", schema, pkg, errs[0])
	}
	spec, ok := root.(*parser.PackageSpec)
	if !ok {
		return nil, fmt.Errorf("extracting package context for %s.%s: parse did not return a package_spec", schema, pkg)
	}

	ctx := &catalog.PackageContext{
		Schema:    schema,
		Package:   pkg,
		Variables: make(map[string]catalog.PackageVariable, len(spec.Decls)),
		Types:     make(map[string]catalog.InlineTypeDefinition, len(spec.Types)),
	}

	for _, d := range spec.Decls {
		vd, ok := d.(*parser.VariableDeclaration)
		if !ok {
			continue
		}
		ctx.Variables[vd.Name] = catalog.PackageVariable{
			Name:       vd.Name,
			TypeName:   typeSpecName(vd.Type),
			Default:    defaultText(vd.Default),
			IsConstant: vd.Constant,
		}
	}

	for _, td := range spec.Types {
		def, err := buildInlineTypeDefinition(schema, pkg, td, idx)
		if err != nil {
			return nil, err
		}
		ctx.Types[td.Name] = def
	}

	return ctx, nil
}

func buildInlineTypeDefinition(schema, pkg string, td *parser.TypeDeclaration, idx *indices.Indices) (catalog.InlineTypeDefinition, error) {
	def := catalog.InlineTypeDefinition{
		Schema:             schema,
		Package:            pkg,
		Name:               td.Name,
		ConversionStrategy: "JSONB",
	}

	switch td.Category {
	case "RECORD":
		def.Category = catalog.InlineRecord
		def.Fields = buildFieldMappings(td.Fields)

	case "ROWTYPE":
		def.Category = catalog.InlineRowType
		def.Fields = rowTypeFieldMappings(td.RowTypeTable, idx)

	case "TABLE_OF":
		def.Category = catalog.InlineTableOf
		def.ElementType = typeSpecName(td.ElementType)

	case "VARRAY":
		def.Category = catalog.InlineVarray
		def.ElementType = typeSpecName(td.ElementType)
		def.SizeLimit = td.SizeLimit

	case "INDEX_BY":
		def.Category = catalog.InlineIndexBy
		def.ElementType = typeSpecName(td.ElementType)
		def.IndexKeyType = td.IndexKeyType

	default:
		return catalog.InlineTypeDefinition{}, fmt.Errorf("unrecognized inline type category %q for %s.%s.%s", td.Category, schema, pkg, td.Name)
	}

	return def, nil
}

func buildFieldMappings(fields []parser.RecordField) []catalog.InlineFieldMapping {
	out := make([]catalog.InlineFieldMapping, len(fields))
	for i, f := range fields {
		name := typeSpecName(f.Type)
		out[i] = catalog.InlineFieldMapping{Name: f.Name, SourceType: name, TargetType: name}
	}
	return out
}

// rowTypeFieldMappings resolves a `%ROWTYPE` inline type's field list
// against the column index, per spec.md §4.5 ("fields drawn from the
// referenced table via the column index").
func rowTypeFieldMappings(table string, idx *indices.Indices) []catalog.InlineFieldMapping {
	cols := idx.ColumnsOf(table)
	out := make([]catalog.InlineFieldMapping, len(cols))
	for i, c := range cols {
		out[i] = catalog.InlineFieldMapping{Name: c.Name, SourceType: c.SourceType, TargetType: c.TargetType}
	}
	return out
}

func typeSpecName(t parser.TypeSpec) string {
	if t.IsRowType {
		return t.RefTable + "%ROWTYPE"
	}
	if t.RefTable != "" && t.RefColumn != "" {
		return t.RefTable + "." + t.RefColumn + "%TYPE"
	}
	return t.Name
}

func defaultText(e parser.Expr) string {
	switch n := e.(type) {
	case nil:
		return ""
	case *parser.NumberLiteral:
		return n.Text
	case *parser.StringLiteral:
		return n.Text
	case *parser.Identifier:
		return joinParts(n.Parts)
	default:
		return ""
	}
}

func joinParts(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}
