package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectTokens(input string) []TokenType {
	s := NewScanner("test.sql", input)
	var result []TokenType
	for {
		tt := s.NextToken()
		result = append(result, tt)
		if tt == EOFToken {
			break
		}
	}
	return result
}

func TestScanner_Punctuation(t *testing.T) {
	got := collectTokens("( ) ; , . %")
	assert.Equal(t, []TokenType{
		LeftParenToken, WhitespaceToken,
		RightParenToken, WhitespaceToken,
		SemicolonToken, WhitespaceToken,
		CommaToken, WhitespaceToken,
		DotToken, WhitespaceToken,
		PercentToken, EOFToken,
	}, got)
}

func TestScanner_Operators(t *testing.T) {
	got := collectTokens(":= <> != <= >= || < >")
	assert.Equal(t, []TokenType{
		AssignToken, WhitespaceToken,
		NotEqualToken, WhitespaceToken,
		NotEqualToken, WhitespaceToken,
		LessEqualToken, WhitespaceToken,
		GreaterEqualToken, WhitespaceToken,
		ConcatToken, WhitespaceToken,
		LessToken, WhitespaceToken,
		GreaterToken, EOFToken,
	}, got)
}

func TestScanner_Identifiers(t *testing.T) {
	s := NewScanner("test.sql", "empno EMPNO \"Quoted Col\" select")
	require.Equal(t, UnquotedIdentifierToken, s.NextToken())
	assert.Equal(t, "empno", s.Token())
	s.NextToken() // whitespace
	require.Equal(t, UnquotedIdentifierToken, s.NextToken())
	assert.Equal(t, "EMPNO", s.Token())
	assert.Equal(t, "empno", s.TokenLower())
	s.NextToken() // whitespace
	require.Equal(t, QuotedIdentifierToken, s.NextToken())
	assert.Equal(t, `"Quoted Col"`, s.Token())
	s.NextToken() // whitespace
	require.Equal(t, ReservedWordToken, s.NextToken())
	assert.Equal(t, "select", s.ReservedWord())
}

func TestScanner_StringLiteralWithDoubledQuote(t *testing.T) {
	s := NewScanner("test.sql", `'it''s fine'`)
	require.Equal(t, VarcharLiteralToken, s.NextToken())
	assert.Equal(t, `'it''s fine'`, s.Token())
}

func TestScanner_AltQuoteLiteralHidesFalseMarkers(t *testing.T) {
	// The stress case from spec.md §4.1: a q'[...]' literal embedding
	// text that looks like BEGIN/END markers must scan as one token,
	// not be mistaken for statement structure.
	s := NewScanner("test.sql", `q'[BEGIN fake END; /* not a comment */]'`)
	require.Equal(t, AltQuoteLiteralToken, s.NextToken())
	assert.Equal(t, `q'[BEGIN fake END; /* not a comment */]'`, s.Token())
	require.Equal(t, EOFToken, s.NextToken())
}

func TestScanner_AltQuoteLiteralWithParenDelimiter(t *testing.T) {
	s := NewScanner("test.sql", `q'(contains ) nothing tricky)'`)
	require.Equal(t, AltQuoteLiteralToken, s.NextToken())
	assert.Equal(t, `q'(contains ) nothing tricky)'`, s.Token())
}

func TestScanner_BlockCommentWithFalseEndMarkers(t *testing.T) {
	s := NewScanner("test.sql", "/* BEGIN ... END; still a comment */ select")
	require.Equal(t, MultilineCommentToken, s.NextToken())
	s.NextToken() // whitespace
	require.Equal(t, ReservedWordToken, s.NextToken())
	assert.Equal(t, "select", s.ReservedWord())
}

func TestScanner_LineComment(t *testing.T) {
	got := collectTokens("-- comment to end of line\nselect")
	assert.Equal(t, []TokenType{
		SinglelineCommentToken, WhitespaceToken, ReservedWordToken, EOFToken,
	}, got)
}

func TestScanner_Numbers(t *testing.T) {
	s := NewScanner("test.sql", "123 45.6 .5")
	require.Equal(t, NumberToken, s.NextToken())
	assert.Equal(t, "123", s.Token())
	s.NextToken()
	require.Equal(t, NumberToken, s.NextToken())
	assert.Equal(t, "45.6", s.Token())
	s.NextToken()
	require.Equal(t, NumberToken, s.NextToken())
	assert.Equal(t, ".5", s.Token())
}

func TestScanner_BindVariable(t *testing.T) {
	s := NewScanner("test.sql", ":new_emp_id")
	require.Equal(t, BindVariableToken, s.NextToken())
	assert.Equal(t, ":new_emp_id", s.Token())
}

func TestScanner_PositionTracking(t *testing.T) {
	s := NewScanner("test.sql", "select\nempno")
	s.NextToken()
	assert.Equal(t, Pos{File: "test.sql", Line: 1, Col: 1}, s.Start())
	s.NextToken() // whitespace, bumps line
	s.NextToken()
	assert.Equal(t, Pos{File: "test.sql", Line: 2, Col: 1}, s.Start())
}

func TestScanner_UnterminatedString(t *testing.T) {
	s := NewScanner("test.sql", `'unterminated`)
	require.Equal(t, UnterminatedVarcharLiteralErrorToken, s.NextToken())
}
