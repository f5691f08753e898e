package parser

import (
	"strings"

	"github.com/dbmigrate/oratopg/sqlparser/oracle"
)

// Expression grammar, loosest-to-tightest binding:
//
//	logical_expression  := unary_logical_expression ( (AND|OR) unary_logical_expression )*
//	unary_logical_expression := NOT? compound_expression
//	compound_expression  := concatenation ( relop concatenation | IN in_elements | BETWEEN between_elements | LIKE-variant like_condition )?
//	concatenation        := additive ( '||' additive )*
//	additive              := multiplicative ( ('+'|'-') multiplicative )*
//	multiplicative        := unary ( ('*'|'/') unary )*
//	unary                 := ('+'|'-')? atom
//	atom                  := NUMBER | STRING | bind_variable | '(' expression ')' | general_element
//
// IN/BETWEEN/LIKE are recognized here (so a syntax error doesn't mask
// them) but always produce an unsupported-marker node; only the
// builder (package ir) raises the UnsupportedConstructError, per
// spec.md §4.4.2's framing of these as *builder* rejections.
func (p *parser) parseExpression() Expr {
	defer p.enter(RuleExpression)()
	return p.parseLogicalOr()
}

func (p *parser) parseLogicalOr() Expr {
	left := p.parseLogicalAnd()
	for p.isReserved("or") {
		pos := p.pos()
		p.advance()
		right := p.parseLogicalAnd()
		left = &LogicalExpr{exprBase: exprBase{newBase(RuleLogicalExpression, pos)}, Op: "OR", Left: left, Right: right}
	}
	return left
}

func (p *parser) parseLogicalAnd() Expr {
	left := p.parseUnaryLogical()
	for p.isReserved("and") {
		pos := p.pos()
		p.advance()
		right := p.parseUnaryLogical()
		left = &LogicalExpr{exprBase: exprBase{newBase(RuleLogicalExpression, pos)}, Op: "AND", Left: left, Right: right}
	}
	return left
}

func (p *parser) parseUnaryLogical() Expr {
	defer p.enter(RuleUnaryLogicalExpr)()
	if p.isReserved("not") {
		pos := p.pos()
		p.advance()
		operand := p.parseCompoundExpression()
		return &LogicalExpr{exprBase: exprBase{newBase(RuleLogicalExpression, pos)}, Op: "NOT", Left: operand}
	}
	return p.parseCompoundExpression()
}

var relOps = map[oracle.TokenType]string{
	oracle.EqualToken:        "=",
	oracle.NotEqualToken:     "<>",
	oracle.LessToken:         "<",
	oracle.LessEqualToken:    "<=",
	oracle.GreaterToken:      ">",
	oracle.GreaterEqualToken: ">=",
}

func (p *parser) parseCompoundExpression() Expr {
	defer p.enter(RuleCompoundExpression)()
	pos := p.pos()
	left := p.parseConcatenation()

	if op, ok := relOps[p.s.TokenType()]; ok {
		p.advance()
		right := p.parseConcatenation()
		return &CompoundExpression{exprBase: exprBase{newBase(RuleCompoundExpression, pos)}, Op: op, Left: left, Right: right}
	}
	if p.isReserved("in") {
		p.advance()
		p.skipParenthesizedList(RuleInElements)
		return &InExpression{exprBase: exprBase{newBase(RuleCompoundExpression, pos)}, Left: left}
	}
	if p.isReserved("between") {
		p.advance()
		p.parseConcatenation()
		if !p.isReserved("and") {
			p.fail("expected AND in BETWEEN expression")
		}
		p.advance()
		p.parseConcatenation()
		return &BetweenExpression{exprBase: exprBase{newBase(RuleCompoundExpression, pos)}, Left: left}
	}
	if variant, ok := likeVariant(p); ok {
		p.advance()
		p.parseConcatenation()
		return &LikeExpression{exprBase: exprBase{newBase(RuleCompoundExpression, pos)}, Left: left, Variant: variant}
	}
	return left
}

func likeVariant(p *parser) (string, bool) {
	if p.s.TokenType() != oracle.ReservedWordToken {
		return "", false
	}
	switch p.s.ReservedWord() {
	case "like":
		return "LIKE", true
	case "likec":
		return "LIKEC", true
	case "like2":
		return "LIKE2", true
	case "like4":
		return "LIKE4", true
	}
	return "", false
}

// skipParenthesizedList consumes a parenthesized, comma-separated
// expression list without retaining it: IN's element list is never
// elaborated since the construct itself is rejected by the builder.
func (p *parser) skipParenthesizedList(rule RuleTag) {
	defer p.enter(rule)()
	p.expect(oracle.LeftParenToken, "'('")
	p.advance()
	for p.s.TokenType() != oracle.RightParenToken {
		p.parseExpression()
		if p.s.TokenType() == oracle.CommaToken {
			p.advance()
			continue
		}
		break
	}
	p.expect(oracle.RightParenToken, "')'")
	p.advance()
}

func (p *parser) parseConcatenation() Expr {
	defer p.enter(RuleConcatenation)()
	left := p.parseAdditive()
	for p.s.TokenType() == oracle.ConcatToken {
		pos := p.pos()
		p.advance()
		right := p.parseAdditive()
		left = &Concatenation{exprBase: exprBase{newBase(RuleConcatenation, pos)}, Op: "||", Left: left, Right: right}
	}
	return left
}

func (p *parser) parseAdditive() Expr {
	left := p.parseMultiplicative()
	for p.s.TokenType() == oracle.PlusToken || p.s.TokenType() == oracle.MinusToken {
		op := "+"
		if p.s.TokenType() == oracle.MinusToken {
			op = "-"
		}
		pos := p.pos()
		p.advance()
		right := p.parseMultiplicative()
		left = &Concatenation{exprBase: exprBase{newBase(RuleConcatenation, pos)}, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseMultiplicative() Expr {
	left := p.parseUnary()
	for p.s.TokenType() == oracle.StarToken || p.s.TokenType() == oracle.SlashToken {
		op := "*"
		if p.s.TokenType() == oracle.SlashToken {
			op = "/"
		}
		pos := p.pos()
		p.advance()
		right := p.parseUnary()
		left = &Concatenation{exprBase: exprBase{newBase(RuleConcatenation, pos)}, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseUnary() Expr {
	defer p.enter(RuleUnaryExpression)()
	if p.s.TokenType() == oracle.PlusToken || p.s.TokenType() == oracle.MinusToken {
		op := "+"
		if p.s.TokenType() == oracle.MinusToken {
			op = "-"
		}
		pos := p.pos()
		p.advance()
		operand := p.parseUnary()
		return &UnaryExpression{exprBase: exprBase{newBase(RuleUnaryExpression, pos)}, Op: op, Operand: operand}
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() Expr {
	defer p.enter(RuleAtom)()
	pos := p.pos()

	switch p.s.TokenType() {
	case oracle.NumberToken:
		text := p.s.Token()
		p.advance()
		return &NumberLiteral{exprBase: exprBase{newBase(RuleConstant, pos)}, Text: text}
	case oracle.VarcharLiteralToken, oracle.AltQuoteLiteralToken:
		text := p.s.Token()
		p.advance()
		return &StringLiteral{exprBase: exprBase{newBase(RuleConstant, pos)}, Text: text}
	case oracle.BindVariableToken:
		name := p.s.Token()[1:]
		p.advance()
		return &BindVariable{exprBase: exprBase{newBase(RuleBindVariable, pos)}, Name: name}
	case oracle.LeftParenToken:
		p.advance()
		if p.isReserved("select") {
			p.fail("parenthesized subquery is not supported in scalar expression context")
		}
		inner := p.parseExpression()
		p.expect(oracle.RightParenToken, "')'")
		p.advance()
		return &ParenExpr{exprBase: exprBase{newBase(RuleAtom, pos)}, Inner: inner}
	case oracle.UnquotedIdentifierToken, oracle.QuotedIdentifierToken, oracle.ReservedWordToken:
		return p.parseGeneralElement()
	}
	p.fail("expected an expression, found %s %q", p.s.TokenType(), p.s.Token())
	return nil
}

// parseGeneralElement parses a dotted identifier chain, a cursor
// attribute (cursor%FOUND etc.), or a function call.
func (p *parser) parseGeneralElement() Expr {
	defer p.enter(RuleGeneralElement)()
	pos := p.pos()
	parts := []string{p.parseIdentifierText()}
	for p.s.TokenType() == oracle.DotToken {
		p.advance()
		parts = append(parts, p.parseIdentifierText())
	}

	if p.s.TokenType() == oracle.PercentToken {
		p.advance()
		attr := strings.ToUpper(p.parseIdentifierText())
		return &CursorAttribute{exprBase: exprBase{newBase(RuleCursorAttribute, pos)}, Cursor: strings.Join(parts, "."), Attribute: attr}
	}

	if p.s.TokenType() == oracle.LeftParenToken {
		p.advance()
		var args []Expr
		for p.s.TokenType() != oracle.RightParenToken {
			args = append(args, p.parseExpression())
			if p.s.TokenType() == oracle.CommaToken {
				p.advance()
				continue
			}
			break
		}
		p.expect(oracle.RightParenToken, "')'")
		p.advance()
		return &FunctionCall{
			exprBase: exprBase{newBase(RuleGeneralElement, pos)},
			Name:     Identifier{exprBase: exprBase{newBase(RuleGeneralElement, pos)}, Parts: parts},
			Args:     args,
		}
	}

	return &Identifier{exprBase: exprBase{newBase(RuleGeneralElement, pos)}, Parts: parts}
}
