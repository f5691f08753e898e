package parser

import (
	"fmt"
	"strings"

	"github.com/dbmigrate/oratopg/sqlparser/oracle"
)

// SyntaxError is the grammar front-end's sole error type (spec.md §4.1,
// §7 kind 2). The front-end never recovers silently: any SyntaxError
// aborts the translation at the caller.
type SyntaxError struct {
	Pos       oracle.Pos
	Lexeme    string
	RuleStack []RuleTag
	Message   string
}

func (e SyntaxError) Error() string {
	var stack strings.Builder
	for i, r := range e.RuleStack {
		if i > 0 {
			stack.WriteString(" > ")
		}
		stack.WriteString(string(r))
	}
	return fmt.Sprintf("%s:%d:%d: parse error near %q (in %s): %s",
		e.Pos.File, e.Pos.Line, e.Pos.Col, e.Lexeme, stack.String(), e.Message)
}
