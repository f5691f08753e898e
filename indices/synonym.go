package indices

import (
	"strings"

	"github.com/dbmigrate/oratopg/catalog"
)

// SynonymResolver implements spec.md §4.3's algorithm: it is a pure
// value built once from a snapshot of the catalog's synonym slot, so
// resolution never touches the catalog (and never its locks) during a
// translation.
type SynonymResolver struct {
	bySynonym map[synonymKey]catalog.Synonym
}

type synonymKey struct {
	owner string
	name  string
}

func buildSynonymResolver(cat *catalog.Catalog) *SynonymResolver {
	synonyms := cat.GetSynonyms(catalog.SideSource)
	r := &SynonymResolver{bySynonym: make(map[synonymKey]catalog.Synonym, len(synonyms))}
	for _, s := range synonyms {
		r.bySynonym[synonymKey{owner: s.Owner, name: s.Name}] = s
	}
	return r
}

// Resolve implements spec.md §4.3's synonym resolution rules:
//
//  1. If name already contains a schema qualifier, it is not a synonym
//     reference at all — return none.
//  2. Else look up (current_schema, name); if present, return its
//     target, schema-qualified.
//  3. Else look up (public, name); if present, return that.
//  4. Else return none.
//
// Resolution is single-hop: a synonym whose target is itself a synonym
// is not followed further, matching Oracle's own rule here.
func (r *SynonymResolver) Resolve(currentSchema, name string) (string, bool) {
	if strings.Contains(name, ".") {
		return "", false
	}
	currentSchema = strings.ToLower(strings.TrimSpace(currentSchema))
	name = strings.ToLower(strings.TrimSpace(name))

	if s, ok := r.bySynonym[synonymKey{owner: currentSchema, name: name}]; ok {
		return s.TargetOwner + "." + s.TargetName, true
	}
	if s, ok := r.bySynonym[synonymKey{owner: "public", name: name}]; ok {
		return s.TargetOwner + "." + s.TargetName, true
	}
	return "", false
}
