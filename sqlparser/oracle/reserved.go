package oracle

// reservedWords holds the Oracle PL/SQL keywords relevant to the grammar
// subset this front-end supports. It is intentionally not a complete
// Oracle keyword list (spec.md §1 Non-goals: "Complete coverage of the
// Oracle grammar"); unsupported keywords simply scan as ordinary
// identifiers, and the parser rejects constructs it does not recognize.
var reservedWords = map[string]struct{}{
	"select":     {},
	"from":       {},
	"where":      {},
	"group":      {},
	"by":         {},
	"having":     {},
	"order":      {},
	"union":      {},
	"intersect":  {},
	"minus":      {},
	"all":        {},
	"distinct":   {},
	"as":         {},
	"with":       {},
	"for":        {},
	"update":     {},
	"and":        {},
	"or":         {},
	"not":        {},
	"in":         {},
	"between":    {},
	"like":       {},
	"likec":      {},
	"like2":      {},
	"like4":      {},
	"is":         {},
	"null":       {},
	"exists":     {},
	"case":       {},
	"when":       {},
	"then":       {},
	"else":       {},
	"end":        {},
	"begin":      {},
	"declare":    {},
	"function":   {},
	"procedure":  {},
	"package":    {},
	"body":       {},
	"return":     {},
	"returning":  {},
	"create":     {},
	"replace":    {},
	"raise":      {},
	"exception":  {},
	"cursor":     {},
	"open":       {},
	"fetch":      {},
	"close":      {},
	"into":       {},
	"bulk":       {},
	"collect":    {},
	"loop":       {},
	"while":      {},
	"if":         {},
	"elsif":      {},
	"type":       {},
	"table":      {},
	"of":         {},
	"index":      {},
	"varray":     {},
	"record":     {},
	"constant":   {},
	"default":    {},
	"sysdate":    {},
	"systimestamp": {},
	"user":       {},
	"dual":       {},
	"rownum":     {},
	"nextval":    {},
	"currval":    {},
}

// IsReservedWord reports whether the lower-cased word is an Oracle
// keyword recognized by this front-end.
func IsReservedWord(lowered string) bool {
	_, ok := reservedWords[lowered]
	return ok
}
