// Package pgemit holds small rendering helpers that are specific to the
// PostgreSQL target dialect rather than to the translation logic
// itself. ir's emission methods do not call them.
package pgemit

import "github.com/jackc/pgx/v5"

// QuoteQualifiedName quotes a schema-qualified name using pgx's own
// identifier-sanitization rules, the target driver being the natural
// authority on what that dialect accepts unquoted. schema may be empty
// for an already-unqualified name (e.g. a CTE reference).
func QuoteQualifiedName(schema, name string) string {
	if schema == "" {
		return pgx.Identifier{name}.Sanitize()
	}
	return pgx.Identifier{schema, name}.Sanitize()
}
