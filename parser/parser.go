package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dbmigrate/oratopg/sqlparser/oracle"
)

// ParseEntry names the grammar production at which parsing begins
// (spec.md §4.1).
type ParseEntry string

const (
	EntrySelectStatement ParseEntry = "select_statement"
	EntryFunctionBody    ParseEntry = "function_body"
	EntryProcedureBody   ParseEntry = "procedure_body"
	EntryPackageSpec     ParseEntry = "package_spec"
	EntryPackageBody     ParseEntry = "package_body"
)

// parser holds the mutable state of one parse. CONVENTION, following
// the teacher's own documented rule (sqlparser/parser.go): every parse
// method is entered with the scanner positioned on its first
// significant token, and returns with the scanner positioned on the
// first token after what it consumed.
type parser struct {
	s     *oracle.Scanner
	stack []RuleTag
}

// syntaxPanic is the unwind mechanism for syntax errors: a recursive
// descent parser has no natural "return early" for a deeply nested
// failure, so - mirroring the teacher's own use of panic/recover at the
// document-parse boundary (sqlparser/parser.go's Parse) - we panic with
// a typed value and recover it at the single Parse() entry point. Any
// other panic value is a bug and is allowed to propagate.
type syntaxPanic struct{ err SyntaxError }

func (p *parser) enter(rule RuleTag) func() {
	p.stack = append(p.stack, rule)
	return func() { p.stack = p.stack[:len(p.stack)-1] }
}

func (p *parser) fail(format string, args ...interface{}) {
	stack := make([]RuleTag, len(p.stack))
	copy(stack, p.stack)
	panic(syntaxPanic{SyntaxError{
		Pos:       p.s.Start(),
		Lexeme:    p.s.Token(),
		RuleStack: stack,
		Message:   fmt.Sprintf(format, args...),
	}})
}

func (p *parser) expect(tt oracle.TokenType, what string) {
	if p.s.TokenType() != tt {
		p.fail("expected %s, found %s %q", what, p.s.TokenType(), p.s.Token())
	}
}

func (p *parser) expectReserved(word string) {
	if p.s.TokenType() != oracle.ReservedWordToken || p.s.ReservedWord() != word {
		p.fail("expected %q, found %q", word, p.s.Token())
	}
}

func (p *parser) isReserved(word string) bool {
	return p.s.TokenType() == oracle.ReservedWordToken && p.s.ReservedWord() == word
}

// isKeyword reports whether the current token is the given word,
// whether or not it is in the dialect's reserved-word set (some
// grammar markers, like "desc" or "nowait", scan as plain identifiers).
func (p *parser) isKeyword(word string) bool {
	if p.s.TokenType() == oracle.ReservedWordToken {
		return p.s.ReservedWord() == word
	}
	return p.s.TokenType() == oracle.UnquotedIdentifierToken && p.s.TokenLower() == word
}

func (p *parser) advance() oracle.TokenType {
	return p.s.NextNonWhitespaceToken()
}

func (p *parser) pos() oracle.Pos { return p.s.Start() }

// Parse parses input starting at the given entry production, returning
// the parse tree root and any syntax errors. A non-empty error slice
// means parsing aborted; root is nil in that case (spec.md §4.1: "any
// syntax error yields ParseError and the translation aborts").
func Parse(file oracle.FileRef, input string, entry ParseEntry) (root Node, errs []SyntaxError) {
	p := &parser{s: oracle.NewScanner(file, input)}

	defer func() {
		if r := recover(); r != nil {
			sp, ok := r.(syntaxPanic)
			if !ok {
				panic(r)
			}
			root = nil
			errs = []SyntaxError{sp.err}
		}
	}()

	p.advance()
	switch entry {
	case EntrySelectStatement:
		root = p.parseSelectStatement()
	case EntryFunctionBody:
		root = p.parseFunctionBody("")
	case EntryProcedureBody:
		root = p.parseProcedureBody("")
	case EntryPackageSpec:
		root = p.parsePackageSpec()
	case EntryPackageBody:
		root = p.parsePackageBody()
	default:
		p.fail("unknown parse entry %q", entry)
	}

	if p.s.TokenType() == oracle.SemicolonToken {
		p.advance()
	}
	if p.s.TokenType() != oracle.EOFToken {
		p.fail("unexpected trailing input after %s", entry)
	}
	return root, nil
}

// ---- shared identifier/name helpers -------------------------------

// parseIdentifierText consumes one identifier token (quoted or
// unquoted) and returns its text, quotes stripped from quoted
// identifiers but case preserved.
func (p *parser) parseIdentifierText() string {
	switch p.s.TokenType() {
	case oracle.UnquotedIdentifierToken, oracle.ReservedWordToken:
		text := p.s.Token()
		p.advance()
		return text
	case oracle.QuotedIdentifierToken:
		text := p.s.Token()
		p.advance()
		return strings.ReplaceAll(text[1:len(text)-1], `""`, `"`)
	default:
		p.fail("expected identifier, found %s %q", p.s.TokenType(), p.s.Token())
		return ""
	}
}

// parseDottedName parses a dot-separated sequence of identifiers, e.g.
// `hr.employees` or `e.empno`.
func (p *parser) parseDottedName() []string {
	parts := []string{p.parseIdentifierText()}
	for p.s.TokenType() == oracle.DotToken {
		p.advance()
		parts = append(parts, p.parseIdentifierText())
	}
	return parts
}

func (p *parser) parseTableviewName() *TableviewName {
	defer p.enter(RuleTableviewName)()
	pos := p.pos()
	parts := p.parseDottedName()
	n := &TableviewName{base: newBase(RuleTableviewName, pos)}
	if len(parts) == 1 {
		n.Name = parts[0]
	} else if len(parts) == 2 {
		n.Schema, n.Name = parts[0], parts[1]
	} else {
		p.fail("table reference %q has too many qualifying parts", strings.Join(parts, "."))
	}
	return n
}

func parseIntLiteral(p *parser, text string) int {
	n, err := strconv.Atoi(text)
	if err != nil {
		p.fail("expected integer literal, found %q", text)
	}
	return n
}
