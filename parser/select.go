package parser

import (
	"github.com/dbmigrate/oratopg/sqlparser/oracle"
)

func (p *parser) parseSelectStatement() *SelectStatement {
	defer p.enter(RuleSelectStatement)()
	pos := p.pos()
	inner := p.parseSelectOnlyStatement()
	return &SelectStatement{base: newBase(RuleSelectStatement, pos), Inner: inner}
}

func (p *parser) parseSelectOnlyStatement() *SelectOnlyStatement {
	defer p.enter(RuleSelectOnlyStatement)()
	pos := p.pos()
	sub := p.parseSubquery()

	var forUpdate *ForUpdateClause
	if p.isReserved("for") {
		forUpdate = p.parseForUpdateClause()
	}
	return &SelectOnlyStatement{base: newBase(RuleSelectOnlyStatement, pos), Subquery: sub, ForUpdate: forUpdate}
}

func (p *parser) parseSubquery() *Subquery {
	defer p.enter(RuleSubquery)()
	pos := p.pos()

	var with *WithFactoringClause
	if p.isReserved("with") {
		with = p.parseWithFactoringClause()
	}

	basic := p.parseSubqueryBasicElements()

	var ops []*SubqueryOperationPart
	for {
		op, ok := p.peekSetOperator()
		if !ok {
			break
		}
		opPos := p.pos()
		op = p.consumeSetOperator(op)
		nextBasic := p.parseSubqueryBasicElements()
		ops = append(ops, &SubqueryOperationPart{base: newBase(RuleSubqueryOperationPart, opPos), Op: op, Basic: nextBasic})
	}

	return &Subquery{base: newBase(RuleSubquery, pos), With: with, Basic: basic, Ops: ops}
}

func (p *parser) peekSetOperator() (SetOperator, bool) {
	if p.isReserved("union") {
		return SetOpUnion, true // refined to UNION ALL in consumeSetOperator
	}
	if p.isReserved("intersect") {
		return SetOpIntersect, true
	}
	if p.isReserved("minus") {
		return SetOpMinus, true
	}
	return "", false
}

func (p *parser) consumeSetOperator(op SetOperator) SetOperator {
	p.advance()
	if op == SetOpUnion && p.isReserved("all") {
		p.advance()
		return SetOpUnionAll
	}
	return op
}

func (p *parser) parseWithFactoringClause() *WithFactoringClause {
	defer p.enter(RuleWithFactoringClause)()
	pos := p.pos()
	p.expectReserved("with")
	p.advance()

	result := &WithFactoringClause{base: newBase(RuleWithFactoringClause, pos)}
	for {
		entryPos := p.pos()
		name := p.parseIdentifierText()

		if p.isKeyword("analytic") {
			result.HasAV = true
			p.fail("analytic view factoring clauses are not yet supported")
		}

		p.expectReserved("as")
		p.advance()
		p.expect(oracle.LeftParenToken, "'('")
		p.advance()
		query := p.parseSubquery()
		p.expect(oracle.RightParenToken, "')'")
		p.advance()

		result.Entries = append(result.Entries, &SubqueryFactoringClause{
			base:  newBase(RuleSubqueryFactoringClause, entryPos),
			Name:  name,
			Query: query,
		})

		if p.s.TokenType() == oracle.CommaToken {
			p.advance()
			continue
		}
		break
	}
	return result
}

func (p *parser) parseSubqueryBasicElements() *SubqueryBasicElements {
	defer p.enter(RuleSubqueryBasicElements)()
	pos := p.pos()

	if p.s.TokenType() == oracle.LeftParenToken {
		p.advance()
		inner := p.parseSubquery()
		p.expect(oracle.RightParenToken, "')'")
		p.advance()
		return &SubqueryBasicElements{base: newBase(RuleSubqueryBasicElements, pos), Paren: inner}
	}

	qb := p.parseQueryBlock()
	return &SubqueryBasicElements{base: newBase(RuleSubqueryBasicElements, pos), QueryBlock: qb}
}

func (p *parser) parseQueryBlock() *QueryBlock {
	defer p.enter(RuleQueryBlock)()
	pos := p.pos()
	p.expectReserved("select")
	p.advance()

	if p.isReserved("distinct") || p.isReserved("all") {
		p.advance()
	}

	selected := p.parseSelectedList()
	from := p.parseFromClause()

	qb := &QueryBlock{base: newBase(RuleQueryBlock, pos), SelectedList: selected, From: from}

	if p.isReserved("where") {
		qb.Where = p.parseWhereClause()
	}
	if p.isReserved("group") {
		qb.GroupBy = p.parseGroupByClause()
	}
	if p.isReserved("having") {
		qb.Having = p.parseHavingClause()
	}
	if p.isReserved("order") {
		qb.OrderBy = p.parseOrderByClause()
	}
	return qb
}

func (p *parser) parseSelectedList() *SelectedList {
	defer p.enter(RuleSelectedList)()
	pos := p.pos()

	if p.s.TokenType() == oracle.StarToken {
		p.advance()
		return &SelectedList{base: newBase(RuleSelectedList, pos), Asterisk: true}
	}

	list := &SelectedList{base: newBase(RuleSelectedList, pos)}
	for {
		list.Elements = append(list.Elements, p.parseSelectListElement())
		if p.s.TokenType() == oracle.CommaToken {
			p.advance()
			continue
		}
		break
	}
	return list
}

func (p *parser) parseSelectListElement() *SelectListElement {
	defer p.enter(RuleSelectListElement)()
	pos := p.pos()
	expr := p.parseExpression()

	elem := &SelectListElement{base: newBase(RuleSelectListElement, pos), Expr: expr}
	if p.isReserved("as") {
		p.advance()
		elem.Alias = p.parseIdentifierText()
	} else if p.s.TokenType() == oracle.UnquotedIdentifierToken || p.s.TokenType() == oracle.QuotedIdentifierToken {
		elem.Alias = p.parseIdentifierText()
	}
	return elem
}

func (p *parser) parseFromClause() *FromClause {
	defer p.enter(RuleFromClause)()
	pos := p.pos()
	p.expectReserved("from")
	p.advance()

	fc := &FromClause{base: newBase(RuleFromClause, pos)}
	for {
		fc.Tables = append(fc.Tables, p.parseTableReference())
		if p.s.TokenType() == oracle.CommaToken {
			p.advance()
			continue
		}
		break
	}
	return fc
}

func (p *parser) parseTableReference() *TableReference {
	defer p.enter(RuleTableReference)()
	pos := p.pos()
	ref := &TableReference{base: newBase(RuleTableReference, pos)}

	switch {
	case p.isKeyword("table") && p.tablePeekIsCollectionExpression():
		ref.Collection = p.parseTableCollectionExpression()
	case p.s.TokenType() == oracle.LeftParenToken:
		p.advance()
		ref.Subquery = p.parseSubquery()
		p.expect(oracle.RightParenToken, "')'")
		p.advance()
	default:
		ref.Name = p.parseTableviewName()
	}

	if p.isReserved("as") {
		p.advance()
		ref.Alias = p.parseIdentifierText()
	} else if p.s.TokenType() == oracle.UnquotedIdentifierToken || p.s.TokenType() == oracle.QuotedIdentifierToken {
		ref.Alias = p.parseIdentifierText()
	}
	return ref
}

// tablePeekIsCollectionExpression distinguishes `TABLE(expr)` from an
// ordinary table named "table" (a reserved word in Oracle, so this
// never actually collides, but the check stays explicit for clarity).
func (p *parser) tablePeekIsCollectionExpression() bool {
	clone := p.s.Clone()
	clone.NextNonWhitespaceToken()
	return clone.TokenType() == oracle.LeftParenToken
}

func (p *parser) parseTableCollectionExpression() *TableCollectionExpression {
	defer p.enter(RuleTableCollectionExpression)()
	pos := p.pos()
	p.advance() // TABLE
	p.expect(oracle.LeftParenToken, "'('")
	depth := 0
	var raw string
	for {
		if p.s.TokenType() == oracle.LeftParenToken {
			depth++
		} else if p.s.TokenType() == oracle.RightParenToken {
			depth--
			if depth == 0 {
				p.advance()
				break
			}
		}
		raw += p.s.Token()
		p.advance()
	}
	return &TableCollectionExpression{base: newBase(RuleTableCollectionExpression, pos), Raw: raw}
}

func (p *parser) parseWhereClause() *WhereClause {
	defer p.enter(RuleWhereClause)()
	pos := p.pos()
	p.expectReserved("where")
	p.advance()
	cond := p.parseExpression()
	return &WhereClause{base: newBase(RuleWhereClause, pos), Condition: cond}
}

func (p *parser) parseGroupByClause() *GroupByClause {
	defer p.enter(RuleGroupByClause)()
	pos := p.pos()
	p.expectReserved("group")
	p.advance()
	if !p.isKeyword("by") {
		p.fail("expected BY after GROUP")
	}
	p.advance()
	gb := &GroupByClause{base: newBase(RuleGroupByClause, pos)}
	for {
		gb.Items = append(gb.Items, p.parseExpression())
		if p.s.TokenType() == oracle.CommaToken {
			p.advance()
			continue
		}
		break
	}
	return gb
}

func (p *parser) parseHavingClause() *HavingClause {
	defer p.enter(RuleHavingClause)()
	pos := p.pos()
	p.expectReserved("having")
	p.advance()
	cond := p.parseExpression()
	return &HavingClause{base: newBase(RuleHavingClause, pos), Condition: cond}
}

func (p *parser) parseOrderByClause() *OrderByClause {
	defer p.enter(RuleOrderByClause)()
	pos := p.pos()
	p.expectReserved("order")
	p.advance()
	if !p.isKeyword("by") {
		p.fail("expected BY after ORDER")
	}
	p.advance()

	ob := &OrderByClause{base: newBase(RuleOrderByClause, pos)}
	for {
		item := OrderByItem{Expr: p.parseExpression()}
		if p.isKeyword("desc") {
			item.Desc = true
			p.advance()
		} else if p.isKeyword("asc") {
			p.advance()
		}
		ob.Items = append(ob.Items, item)
		if p.s.TokenType() == oracle.CommaToken {
			p.advance()
			continue
		}
		break
	}
	return ob
}

func (p *parser) parseForUpdateClause() *ForUpdateClause {
	defer p.enter(RuleForUpdateClause)()
	pos := p.pos()
	p.expectReserved("for")
	p.advance()
	if !p.isKeyword("update") {
		p.fail("expected UPDATE after FOR")
	}
	p.advance()

	fu := &ForUpdateClause{base: newBase(RuleForUpdateClause, pos)}
	if p.isKeyword("of") {
		p.advance()
		for {
			id := p.parseGeneralElement()
			if ident, ok := id.(*Identifier); ok {
				fu.Columns = append(fu.Columns, *ident)
			}
			if p.s.TokenType() == oracle.CommaToken {
				p.advance()
				continue
			}
			break
		}
	}
	if p.isKeyword("nowait") {
		fu.Option = "NOWAIT"
		p.advance()
	} else if p.isKeyword("wait") {
		p.advance()
		fu.Option = "WAIT " + p.s.Token()
		p.advance()
	} else if p.isKeyword("skip") {
		p.advance()
		if p.isKeyword("locked") {
			p.advance()
		}
		fu.Option = "SKIP LOCKED"
	}
	return fu
}
