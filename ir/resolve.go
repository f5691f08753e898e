package ir

import "strings"

// resolveTableName implements spec.md §4.4.3's name-resolution
// algorithm for a TableReference.tableview_name:
//
//  1. CTE exemption: a name matching a CTE introduced earlier in the
//     current statement is emitted unqualified, lower-cased.
//  2. Else the synonym resolver is consulted with (current_schema,
//     name); if it resolves, emit the target, lower-cased.
//  3. Else, if the name has no schema dot, prepend current_schema.
//  4. Else emit as given (already qualified), lower-cased.
func resolveTableName(ctx *BuildContext, schema, name string) string {
	lowerName := strings.ToLower(name)

	if schema == "" && ctx.isCTE(lowerName) {
		return lowerName
	}

	fullName := lowerName
	if schema != "" {
		fullName = strings.ToLower(schema) + "." + lowerName
	}

	// The synonym resolver itself treats an already-qualified name as
	// "not a synonym" (spec.md §4.3(4) rule 1), so invoking it
	// unconditionally and falling through on a miss implements rules
	// 2-4 in one pass.
	if target, ok := ctx.Indices.ResolveSynonym(ctx.CurrentSchema, fullName); ok {
		return strings.ToLower(target)
	}

	if schema == "" {
		return ctx.CurrentSchema + "." + lowerName
	}
	return fullName
}
