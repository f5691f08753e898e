package oracle

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/smasher164/xid"
)

// FileRef names the source a Scanner is reading from, for diagnostics.
type FileRef string

// Pos identifies a location in an input by file, line and column.
// Line and column are both 1-based.
type Pos struct {
	File      FileRef
	Line, Col int
}

// Scanner is a cursor-based lexer for Oracle PL/SQL source text. As in
// the T-SQL/Postgres scanners this package is modeled on, there is no
// separate token stream: the recursive-descent parser drives the
// Scanner directly and reads its current token via Token/TokenType.
type Scanner struct {
	input string
	file  FileRef

	startIndex int
	curIndex   int
	tokenType  TokenType

	startLine        int
	stopLine         int
	indexAtStartLine int
	indexAtStopLine  int

	reservedWord string
}

// NewScanner returns a Scanner positioned before the first token of input.
// Call NextToken to scan the first token.
func NewScanner(file FileRef, input string) *Scanner {
	return &Scanner{input: input, file: file}
}

func (s *Scanner) TokenType() TokenType { return s.tokenType }

// Clone returns an independent copy of the scanner at its current
// position, used for bounded look-ahead during parsing.
func (s Scanner) Clone() *Scanner {
	result := new(Scanner)
	*result = s
	return result
}

func (s *Scanner) Token() string { return s.input[s.startIndex:s.curIndex] }

func (s *Scanner) TokenLower() string { return strings.ToLower(s.Token()) }

// ReservedWord returns the lower-case reserved word if the current
// token is a ReservedWordToken, or the empty string otherwise.
func (s *Scanner) ReservedWord() string { return s.reservedWord }

func (s *Scanner) Start() Pos {
	return Pos{File: s.file, Line: s.startLine + 1, Col: s.startIndex - s.indexAtStartLine + 1}
}

func (s *Scanner) Stop() Pos {
	return Pos{File: s.file, Line: s.stopLine + 1, Col: s.curIndex - s.indexAtStopLine + 1}
}

func (s *Scanner) bumpLine(offset int) {
	s.stopLine++
	s.indexAtStopLine = s.curIndex + offset + 1
}

// SkipWhitespace advances past whitespace and comment tokens.
func (s *Scanner) SkipWhitespace() {
	for {
		switch s.tokenType {
		case WhitespaceToken, MultilineCommentToken, SinglelineCommentToken:
		default:
			return
		}
		s.NextToken()
	}
}

// NextNonWhitespaceToken advances to, and returns, the next token that
// is not whitespace or a comment.
func (s *Scanner) NextNonWhitespaceToken() TokenType {
	s.NextToken()
	s.SkipWhitespace()
	return s.tokenType
}

// NextToken scans the next token and advances the Scanner's position.
func (s *Scanner) NextToken() TokenType {
	s.tokenType = s.nextToken()
	return s.tokenType
}

func (s *Scanner) nextToken() TokenType {
	s.startIndex = s.curIndex
	s.reservedWord = ""
	s.startLine = s.stopLine
	s.indexAtStartLine = s.indexAtStopLine

	r, w := utf8.DecodeRuneInString(s.input[s.curIndex:])

	switch {
	case r == utf8.RuneError && w == 0:
		return EOFToken
	case r == utf8.RuneError && w == -1:
		return NonUTF8ErrorToken
	case r == '(':
		s.curIndex += w
		return LeftParenToken
	case r == ')':
		s.curIndex += w
		return RightParenToken
	case r == ';':
		s.curIndex += w
		return SemicolonToken
	case r == ',':
		s.curIndex += w
		return CommaToken
	case r == '%':
		s.curIndex += w
		return PercentToken
	case r == '@':
		s.curIndex += w
		return AtToken
	case r == '*':
		s.curIndex += w
		return StarToken
	case r == '\'':
		s.curIndex += w
		return s.scanStringLiteral()
	case r == '"':
		s.curIndex += w
		return s.scanQuotedIdentifier()
	case r >= '0' && r <= '9':
		return s.scanNumber()
	case unicode.IsSpace(r):
		return s.scanWhitespace()
	case r == 'q' || r == 'Q':
		if s.startsAltQuote() {
			return s.scanAltQuoteLiteral()
		}
		return s.scanIdentifierOrReserved()
	case xid.Start(r) || r == '_':
		return s.scanIdentifierOrReserved()
	}

	r2, w2 := utf8.DecodeRuneInString(s.input[s.curIndex+w:])

	switch {
	case r == '.' && r2 >= '0' && r2 <= '9':
		return s.scanNumber()
	case r == '.':
		s.curIndex += w
		return DotToken
	case r == '/' && r2 == '*':
		s.curIndex += w + w2
		return s.scanMultilineComment()
	case r == '-' && r2 == '-':
		s.curIndex += w + w2
		return s.scanSinglelineComment()
	case r == ':' && r2 == '=':
		s.curIndex += w + w2
		return AssignToken
	case r == ':':
		s.curIndex += w
		return s.scanBindVariable()
	case r == '|' && r2 == '|':
		s.curIndex += w + w2
		return ConcatToken
	case r == '<' && r2 == '>':
		s.curIndex += w + w2
		return NotEqualToken
	case r == '<' && r2 == '=':
		s.curIndex += w + w2
		return LessEqualToken
	case r == '>' && r2 == '=':
		s.curIndex += w + w2
		return GreaterEqualToken
	case r == '!' && r2 == '=':
		s.curIndex += w + w2
		return NotEqualToken
	case r == '<':
		s.curIndex += w
		return LessToken
	case r == '>':
		s.curIndex += w
		return GreaterToken
	case r == '=':
		s.curIndex += w
		return EqualToken
	case r == '+':
		s.curIndex += w
		return PlusToken
	case r == '-':
		s.curIndex += w
		return MinusToken
	case r == '/':
		s.curIndex += w
		return SlashToken
	}

	s.curIndex += w
	return OtherToken
}

func (s *Scanner) scanIdentifierOrReserved() TokenType {
	s.scanIdentifierRunes()
	word := s.TokenLower()
	if IsReservedWord(word) {
		s.reservedWord = word
		return ReservedWordToken
	}
	return UnquotedIdentifierToken
}

func (s *Scanner) scanIdentifierRunes() {
	r, w := utf8.DecodeRuneInString(s.input[s.curIndex:])
	s.curIndex += w
	for {
		r, w = utf8.DecodeRuneInString(s.input[s.curIndex:])
		if !(xid.Continue(r) || r == '$' || r == '#' || r == '_') {
			return
		}
		s.curIndex += w
	}
}

func (s *Scanner) scanBindVariable() TokenType {
	// ":" already consumed; a bind variable name follows directly, no
	// whitespace allowed between colon and name by Oracle's own rules.
	r, w := utf8.DecodeRuneInString(s.input[s.curIndex:])
	if !(xid.Start(r) || r == '_') {
		return OtherToken
	}
	for {
		if !(xid.Continue(r) || r == '$' || r == '#' || r == '_') {
			return BindVariableToken
		}
		s.curIndex += w
		r, w = utf8.DecodeRuneInString(s.input[s.curIndex:])
	}
}

// startsAltQuote reports whether the scanner is positioned at the start
// of an Oracle alternative-quote literal: q' or Q' followed immediately
// (no whitespace) by one of [, {, (, <, or another delimiter character.
func (s *Scanner) startsAltQuote() bool {
	r, w := utf8.DecodeRuneInString(s.input[s.curIndex:])
	if !(r == 'q' || r == 'Q') {
		return false
	}
	r2, w2 := utf8.DecodeRuneInString(s.input[s.curIndex+w:])
	if r2 != '\'' {
		return false
	}
	_, w3 := utf8.DecodeRuneInString(s.input[s.curIndex+w+w2:])
	return w3 > 0
}

var altQuoteClosers = map[rune]rune{
	'[': ']',
	'{': '}',
	'(': ')',
	'<': '>',
}

// scanAltQuoteLiteral scans Oracle's q'delim...delim' string literal
// form, e.g. q'[it's fine]' or q'{BEGIN fake END}'. The delimiter
// character chosen by the author determines the matching closer; this
// is what lets such literals contain unescaped quote characters, and
// what lets them embed text that merely *looks* like PL/SQL keywords
// (the stress-test case from spec.md §4.1).
func (s *Scanner) scanAltQuoteLiteral() TokenType {
	r, w := utf8.DecodeRuneInString(s.input[s.curIndex:]) // 'q' or 'Q'
	s.curIndex += w
	r, w = utf8.DecodeRuneInString(s.input[s.curIndex:]) // '\''
	s.curIndex += w
	opener, w := utf8.DecodeRuneInString(s.input[s.curIndex:])
	s.curIndex += w
	closer, isBracket := altQuoteClosers[opener]
	if !isBracket {
		closer = opener
	}
	for {
		r, w = utf8.DecodeRuneInString(s.input[s.curIndex:])
		if r == utf8.RuneError && w == 0 {
			return UnterminatedVarcharLiteralErrorToken
		}
		if r == '\n' {
			s.bumpLine(s.curIndex - s.indexAtStopLine)
		}
		if r == closer {
			r2, w2 := utf8.DecodeRuneInString(s.input[s.curIndex+w:])
			if r2 == '\'' {
				s.curIndex += w + w2
				return AltQuoteLiteralToken
			}
		}
		s.curIndex += w
	}
}

func (s *Scanner) scanMultilineComment() TokenType {
	// Block comments are skipped wholesale; text inside, including any
	// lexeme that looks like BEGIN/END or a quote, is never inspected.
	prevWasStar := false
	for i, r := range s.input[s.curIndex:] {
		if r == '*' {
			prevWasStar = true
		} else if prevWasStar && r == '/' {
			s.curIndex += i + 1
			return MultilineCommentToken
		} else {
			if r == '\n' {
				s.bumpLine(i)
			}
			prevWasStar = false
		}
	}
	s.curIndex = len(s.input)
	return UnterminatedCommentErrorToken
}

func (s *Scanner) scanSinglelineComment() TokenType {
	end := strings.IndexByte(s.input[s.curIndex:], '\n')
	if end == -1 {
		s.curIndex = len(s.input)
	} else {
		s.curIndex += end
	}
	return SinglelineCommentToken
}

func (s *Scanner) scanStringLiteral() TokenType {
	return s.scanUntilDoubledEscape('\'', VarcharLiteralToken, UnterminatedVarcharLiteralErrorToken)
}

func (s *Scanner) scanQuotedIdentifier() TokenType {
	return s.scanUntilDoubledEscape('"', QuotedIdentifierToken, UnterminatedQuotedIdentifierErrorToken)
}

func (s *Scanner) scanUntilDoubledEscape(endmarker rune, tokenType, unterminatedType TokenType) TokenType {
	skipNext := false
	for i, r := range s.input[s.curIndex:] {
		if skipNext {
			skipNext = false
			continue
		}
		if r == '\n' {
			s.bumpLine(i)
		}
		if r == endmarker {
			r2, _ := utf8.DecodeRuneInString(s.input[s.curIndex+i+1:])
			if r2 == endmarker {
				skipNext = true
			} else {
				s.curIndex += i + 1
				return tokenType
			}
		}
	}
	s.curIndex = len(s.input)
	return unterminatedType
}

var numberRegexp = regexp.MustCompile(`^\d*\.?\d+([eE][+-]?\d+)?`)

func (s *Scanner) scanNumber() TokenType {
	loc := numberRegexp.FindStringIndex(s.input[s.curIndex:])
	if len(loc) == 0 {
		panic("scanNumber called without a number at the current position")
	}
	s.curIndex += loc[1]
	return NumberToken
}

func (s *Scanner) scanWhitespace() TokenType {
	for i, r := range s.input[s.curIndex:] {
		if r == '\n' {
			s.bumpLine(i)
		}
		if !unicode.IsSpace(r) {
			s.curIndex += i
			return WhitespaceToken
		}
	}
	s.curIndex = len(s.input)
	return WhitespaceToken
}
