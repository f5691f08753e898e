package parser

import (
	"strings"

	"github.com/dbmigrate/oratopg/sqlparser/oracle"
)

// parseFunctionBody parses CREATE [OR REPLACE] FUNCTION [schema.]name
// (params) RETURN type IS decls BEGIN stmts END [name];
//
// schemaHint carries a schema name already consumed by a caller (e.g.
// a package body scanning its member functions); EntryFunctionBody
// callers pass "" and the function consumes its own schema prefix.
func (p *parser) parseFunctionBody(schemaHint string) *FunctionBody {
	defer p.enter(RuleFunctionBody)()
	pos := p.pos()
	p.consumeCreateOrReplace()
	p.expectReserved("function")
	p.advance()

	schema, name := p.parseSchemaQualifiedName(schemaHint)
	params := p.parseParameterList()

	if !p.isReserved("return") {
		p.fail("expected RETURN in function declaration")
	}
	p.advance()
	retType := p.parseTypeSpec()

	decls, body := p.parseBodyWithDecls()
	p.consumeTrailingUnitName(name)

	return &FunctionBody{
		base:       newBase(RuleFunctionBody, pos),
		Schema:     schema,
		Name:       name,
		Parameters: params,
		ReturnType: retType,
		Decls:      decls,
		Body:       body,
	}
}

// parseProcedureBody mirrors parseFunctionBody, minus the RETURN type.
func (p *parser) parseProcedureBody(schemaHint string) *ProcedureBody {
	defer p.enter(RuleProcedureBody)()
	pos := p.pos()
	p.consumeCreateOrReplace()
	p.expectReserved("procedure")
	p.advance()

	schema, name := p.parseSchemaQualifiedName(schemaHint)
	params := p.parseParameterList()

	decls, body := p.parseBodyWithDecls()
	p.consumeTrailingUnitName(name)

	return &ProcedureBody{
		base:       newBase(RuleProcedureBody, pos),
		Schema:     schema,
		Name:       name,
		Parameters: params,
		Decls:      decls,
		Body:       body,
	}
}

func (p *parser) parsePackageSpec() *PackageSpec {
	defer p.enter(RulePackageSpec)()
	pos := p.pos()
	p.consumeCreateOrReplace()
	p.expectReserved("package")
	p.advance()
	schema, name := p.parseSchemaQualifiedName("")

	spec := &PackageSpec{base: newBase(RulePackageSpec, pos), Schema: schema, Name: name}
	if !p.isKeyword("is") && !p.isKeyword("as") {
		p.fail("expected IS or AS in package spec")
	}
	p.advance()

	for !p.isKeyword("end") {
		switch {
		case p.isKeyword("type"):
			spec.Types = append(spec.Types, p.parseTypeDeclaration())
		case p.isReserved("function"), p.isReserved("procedure"):
			p.fail("package spec subprogram declarations are not supported")
		default:
			spec.Decls = append(spec.Decls, p.parseVariableDeclaration())
		}
		p.expect(oracle.SemicolonToken, "';'")
		p.advance()
	}
	p.advance() // END
	p.consumeTrailingUnitName(name)
	return spec
}

func (p *parser) parsePackageBody() *PackageBody {
	defer p.enter(RulePackageBody)()
	pos := p.pos()
	p.consumeCreateOrReplace()
	p.expectReserved("package")
	p.advance()
	if !p.isKeyword("body") {
		p.fail("expected BODY after PACKAGE")
	}
	p.advance()
	schema, name := p.parseSchemaQualifiedName("")

	body := &PackageBody{base: newBase(RulePackageBody, pos), Schema: schema, Name: name}
	if !p.isKeyword("is") && !p.isKeyword("as") {
		p.fail("expected IS or AS in package body")
	}
	p.advance()

	for !p.isKeyword("end") {
		switch {
		case p.isKeyword("type"):
			body.Types = append(body.Types, p.parseTypeDeclaration())
			p.expect(oracle.SemicolonToken, "';'")
			p.advance()
		case p.isReserved("function"):
			body.Functions = append(body.Functions, p.parseFunctionBody(schema))
		case p.isReserved("procedure"):
			body.Procedures = append(body.Procedures, p.parseProcedureBody(schema))
		default:
			body.Decls = append(body.Decls, p.parseVariableDeclaration())
			p.expect(oracle.SemicolonToken, "';'")
			p.advance()
		}
	}
	p.advance() // END
	p.consumeTrailingUnitName(name)
	return body
}

// ---- shared unit-header helpers --------------------------------------

func (p *parser) consumeCreateOrReplace() {
	if p.isReserved("create") {
		p.advance()
		if p.isReserved("or") {
			p.advance()
			if !p.isKeyword("replace") {
				p.fail("expected REPLACE after CREATE OR")
			}
			p.advance()
		}
	}
}

func (p *parser) parseSchemaQualifiedName(schemaHint string) (schema, name string) {
	parts := p.parseDottedName()
	switch len(parts) {
	case 1:
		return schemaHint, parts[0]
	case 2:
		return parts[0], parts[1]
	default:
		p.fail("unit name %q has too many qualifying parts", strings.Join(parts, "."))
		return "", ""
	}
}

// consumeTrailingUnitName consumes the optional `name` that may follow
// a unit's closing END, plus the terminating semicolon when present. A
// `/` line after the unit is not consumed; callers split batches on it
// before calling Parse, mirroring the teacher's own batch-splitting
// convention.
func (p *parser) consumeTrailingUnitName(name string) {
	if p.s.TokenType() == oracle.UnquotedIdentifierToken && p.s.TokenLower() == strings.ToLower(name) {
		p.advance()
	}
	if p.s.TokenType() == oracle.SemicolonToken {
		p.advance()
	}
}

func (p *parser) parseParameterList() []Parameter {
	if p.s.TokenType() != oracle.LeftParenToken {
		return nil
	}
	p.advance()
	var params []Parameter
	for p.s.TokenType() != oracle.RightParenToken {
		name := p.parseIdentifierText()
		mode := ""
		switch {
		case p.isKeyword("in"):
			p.advance()
			if p.isKeyword("out") {
				p.advance()
				mode = "IN OUT"
			} else {
				mode = "IN"
			}
		case p.isKeyword("out"):
			p.advance()
			mode = "OUT"
		}
		typ := p.parseTypeSpec()
		params = append(params, Parameter{Name: name, Type: typ, Mode: mode})
		if p.s.TokenType() == oracle.CommaToken {
			p.advance()
			continue
		}
		break
	}
	p.expect(oracle.RightParenToken, "')'")
	p.advance()
	return params
}

// parseTypeSpec parses a scalar type (with optional precision/scale or
// length args), a %TYPE/%ROWTYPE reference, or a bare name referring to
// a package-scoped inline type.
func (p *parser) parseTypeSpec() TypeSpec {
	defer p.enter(RuleTypeSpec)()
	parts := p.parseDottedName()

	if p.s.TokenType() == oracle.PercentToken {
		p.advance()
		attr := p.parseIdentifierText()
		switch strings.ToLower(attr) {
		case "rowtype":
			return TypeSpec{RefTable: strings.Join(parts, "."), IsRowType: true}
		case "type":
			if len(parts) < 2 {
				p.fail("%%TYPE reference requires table.column or variable name")
			}
			return TypeSpec{RefTable: strings.Join(parts[:len(parts)-1], "."), RefColumn: parts[len(parts)-1]}
		default:
			p.fail("unknown type attribute %%%s", attr)
		}
	}

	name := strings.Join(parts, ".")
	spec := TypeSpec{Name: name}
	if p.s.TokenType() == oracle.LeftParenToken {
		p.advance()
		for p.s.TokenType() != oracle.RightParenToken {
			spec.Args = append(spec.Args, p.s.Token())
			p.advance()
			if p.s.TokenType() == oracle.CommaToken {
				p.advance()
				continue
			}
			break
		}
		p.expect(oracle.RightParenToken, "')'")
		p.advance()
	}
	return spec
}

// ---- declare-section items -------------------------------------------

// parseVariableDeclaration parses `name [CONSTANT] type [:= expr | DEFAULT expr];`
func (p *parser) parseVariableDeclaration() *VariableDeclaration {
	defer p.enter(RuleVariableDeclaration)()
	pos := p.pos()
	name := p.parseIdentifierText()

	constant := false
	if p.isKeyword("constant") {
		constant = true
		p.advance()
	}

	typ := p.parseTypeSpec()

	decl := &VariableDeclaration{declBase: declBase{newBase(RuleVariableDeclaration, pos)}, Name: name, Type: typ, Constant: constant}
	if p.s.TokenType() == oracle.AssignToken {
		p.advance()
		decl.Default = p.parseExpression()
	} else if p.isKeyword("default") {
		p.advance()
		decl.Default = p.parseExpression()
	}
	return decl
}

// parseTypeDeclaration parses Oracle's inline TYPE forms: RECORD,
// TABLE OF, VARRAY, INDEX BY, and a `table%ROWTYPE` reference
// (spec.md's inline-type taxonomy).
func (p *parser) parseTypeDeclaration() *TypeDeclaration {
	defer p.enter(RuleTypeDeclaration)()
	pos := p.pos()
	p.advance() // TYPE
	name := p.parseIdentifierText()
	if !p.isKeyword("is") {
		p.fail("expected IS in type declaration")
	}
	p.advance()

	decl := &TypeDeclaration{base: newBase(RuleTypeDeclaration, pos), Name: name}

	switch {
	case p.isKeyword("record"):
		p.advance()
		decl.Category = "RECORD"
		p.expect(oracle.LeftParenToken, "'('")
		p.advance()
		for p.s.TokenType() != oracle.RightParenToken {
			fname := p.parseIdentifierText()
			ftype := p.parseTypeSpec()
			decl.Fields = append(decl.Fields, RecordField{Name: fname, Type: ftype})
			if p.s.TokenType() == oracle.CommaToken {
				p.advance()
				continue
			}
			break
		}
		p.expect(oracle.RightParenToken, "')'")
		p.advance()

	case p.isKeyword("table"):
		p.advance()
		if !p.isKeyword("of") {
			p.fail("expected OF after TABLE")
		}
		p.advance()
		decl.ElementType = p.parseTypeSpec()
		if p.isKeyword("index") {
			p.advance()
			if !p.isKeyword("by") {
				p.fail("expected BY after INDEX")
			}
			p.advance()
			keyType := p.parseTypeSpec()
			decl.Category = "INDEX_BY"
			decl.IndexKeyType = keyType.Name
		} else {
			decl.Category = "TABLE_OF"
		}

	case p.isKeyword("varray"):
		p.advance()
		p.expect(oracle.LeftParenToken, "'('")
		p.advance()
		decl.SizeLimit = parseIntLiteral(p, p.s.Token())
		p.advance()
		p.expect(oracle.RightParenToken, "')'")
		p.advance()
		if !p.isKeyword("of") {
			p.fail("expected OF after VARRAY(n)")
		}
		p.advance()
		decl.ElementType = p.parseTypeSpec()
		decl.Category = "VARRAY"

	default:
		ref := p.parseTypeSpec()
		if !ref.IsRowType {
			p.fail("unsupported inline TYPE category")
		}
		decl.Category = "ROWTYPE"
		decl.RowTypeTable = ref.RefTable
	}

	return decl
}

func (p *parser) parseCursorDeclaration() *CursorDeclaration {
	defer p.enter(RuleCursorDeclaration)()
	pos := p.pos()
	p.advance() // CURSOR
	name := p.parseIdentifierText()
	if !p.isKeyword("is") {
		p.fail("expected IS in cursor declaration")
	}
	p.advance()
	query := p.parseSubquery()
	return &CursorDeclaration{declBase: declBase{newBase(RuleCursorDeclaration, pos)}, Name: name, Query: query}
}

// parseBodyWithDecls parses the optional declare section between the
// unit header and BEGIN, then the BEGIN ... END block (spec.md §4.1's
// "body" production).
func (p *parser) parseBodyWithDecls() ([]Declaration, *Block) {
	if !p.isKeyword("is") && !p.isKeyword("as") {
		p.fail("expected IS or AS before declare section")
	}
	p.advance()

	var decls []Declaration
	for !p.isReserved("begin") {
		switch {
		case p.isKeyword("cursor"):
			decls = append(decls, p.parseCursorDeclaration())
		case p.isKeyword("type"):
			p.fail("local TYPE declarations are only supported at package scope")
		default:
			decls = append(decls, p.parseVariableDeclaration())
		}
		p.expect(oracle.SemicolonToken, "';'")
		p.advance()
	}

	block := p.parseBlock()
	return decls, block
}

func (p *parser) parseBlock() *Block {
	defer p.enter(RuleBody)()
	pos := p.pos()
	p.expectReserved("begin")
	p.advance()

	block := &Block{base: newBase(RuleSeqOfStatements, pos)}
	for !p.isReserved("end") {
		block.Statements = append(block.Statements, p.parseStatement())
		p.expect(oracle.SemicolonToken, "';'")
		p.advance()
	}
	p.advance() // END
	return block
}

// ---- statements --------------------------------------------------------

func (p *parser) parseStatement() Statement {
	switch {
	case p.isKeyword("raise"):
		return p.parseRaiseStatement()
	case p.s.TokenType() == oracle.UnquotedIdentifierToken && p.s.TokenLower() == "raise_application_error":
		return p.parseRaiseApplicationError()
	case p.isKeyword("fetch"):
		return p.parseFetchStatement()
	case p.isKeyword("open"):
		return p.parseOpenStatement()
	case p.isKeyword("close"):
		return p.parseCloseStatement()
	case p.isKeyword("if"):
		return p.parseIfStatement()
	case p.isKeyword("loop"), p.isKeyword("while"), p.isKeyword("for"):
		return p.parseLoopStatement()
	case p.isReserved("return"):
		return p.parseReturnStatement()
	case p.isReserved("null"):
		return p.parseNullStatement()
	default:
		return p.parseAssignmentOrCallStatement()
	}
}

// parseReturnStatement parses `RETURN [expr];`. Whether an expression
// is present is not checked against the enclosing unit kind, here or
// in the builder.
func (p *parser) parseReturnStatement() *ReturnStatement {
	defer p.enter(RuleReturnStatement)()
	pos := p.pos()
	p.advance() // RETURN
	ret := &ReturnStatement{stmtBase: stmtBase{newBase(RuleReturnStatement, pos)}}
	if p.s.TokenType() != oracle.SemicolonToken {
		ret.Expr = p.parseExpression()
	}
	return ret
}

func (p *parser) parseNullStatement() *NullStatement {
	defer p.enter(RuleNullStatement)()
	pos := p.pos()
	p.advance() // NULL
	return &NullStatement{stmtBase: stmtBase{newBase(RuleNullStatement, pos)}}
}

// parseAssignmentOrCallStatement disambiguates `target := expr` from a
// bare procedure call by scanning ahead for `:=` before committing.
func (p *parser) parseAssignmentOrCallStatement() Statement {
	pos := p.pos()
	parts := p.parseDottedName()

	if p.s.TokenType() == oracle.AssignToken {
		p.advance()
		value := p.parseExpression()
		return &Assignment{
			stmtBase: stmtBase{newBase(RuleAssignmentStatement, pos)},
			Target:   AssignmentTarget{Path: parts},
			Value:    value,
		}
	}

	defer p.enter(RuleCallStatement)()
	call := &Call{
		stmtBase: stmtBase{newBase(RuleCallStatement, pos)},
		Name:     Identifier{exprBase: exprBase{newBase(RuleGeneralElement, pos)}, Parts: parts},
	}
	if p.s.TokenType() == oracle.LeftParenToken {
		p.advance()
		for p.s.TokenType() != oracle.RightParenToken {
			call.Args = append(call.Args, p.parseExpression())
			if p.s.TokenType() == oracle.CommaToken {
				p.advance()
				continue
			}
			break
		}
		p.expect(oracle.RightParenToken, "')'")
		p.advance()
	}
	return call
}

// parseRaiseStatement parses a bare `RAISE;` or `RAISE exception_name;`.
func (p *parser) parseRaiseStatement() *Raise {
	defer p.enter(RuleRaiseStatement)()
	pos := p.pos()
	p.advance() // RAISE

	raise := &Raise{stmtBase: stmtBase{newBase(RuleRaiseStatement, pos)}}
	if p.s.TokenType() == oracle.UnquotedIdentifierToken || p.s.TokenType() == oracle.ReservedWordToken {
		raise.ExceptionName = p.parseIdentifierText()
	}
	return raise
}

// parseRaiseApplicationError parses
// `RAISE_APPLICATION_ERROR(-20xxx, message [, keep_errors]);` — the only
// shape spec.md's mapping table accounts for (§4.4.4). The trailing
// boolean keep_errors argument, if present, is consumed and discarded:
// it governs Oracle's error-stack behavior, which has no Postgres
// equivalent.
func (p *parser) parseRaiseApplicationError() *Raise {
	defer p.enter(RuleCallStatement)()
	pos := p.pos()
	p.advance() // RAISE_APPLICATION_ERROR
	p.expect(oracle.LeftParenToken, "'('")
	p.advance()

	negative := false
	if p.s.TokenType() == oracle.MinusToken {
		negative = true
		p.advance()
	}
	p.expect(oracle.NumberToken, "error code number literal")
	code := parseIntLiteral(p, p.s.Token())
	if negative {
		code = -code
	}
	p.advance()

	p.expect(oracle.CommaToken, "','")
	p.advance()
	message := p.parseExpression()

	if p.s.TokenType() == oracle.CommaToken {
		p.advance()
		p.parseExpression() // keep_errors, discarded
	}
	p.expect(oracle.RightParenToken, "')'")
	p.advance()

	return &Raise{
		stmtBase:           stmtBase{newBase(RuleRaiseStatement, pos)},
		IsApplicationError: true,
		ErrorCode:          code,
		Message:            message,
	}
}

func (p *parser) parseFetchStatement() *FetchStatement {
	defer p.enter(RuleFetchStatement)()
	pos := p.pos()
	p.advance() // FETCH
	cursor := p.parseIdentifierText()
	fs := &FetchStatement{stmtBase: stmtBase{newBase(RuleFetchStatement, pos)}, Cursor: cursor}
	if p.isKeyword("bulk") {
		p.advance()
		if !p.isKeyword("collect") {
			p.fail("expected COLLECT after BULK in FETCH statement")
		}
		p.advance()
		fs.BulkCollect = true
	}
	if !p.isKeyword("into") {
		p.fail("expected INTO in FETCH statement")
	}
	p.advance()

	for {
		fs.Targets = append(fs.Targets, strings.Join(p.parseDottedName(), "."))
		if p.s.TokenType() == oracle.CommaToken {
			p.advance()
			continue
		}
		break
	}
	return fs
}

func (p *parser) parseOpenStatement() *OpenStatement {
	defer p.enter(RuleOpenStatement)()
	pos := p.pos()
	p.advance() // OPEN
	cursor := p.parseIdentifierText()
	return &OpenStatement{stmtBase: stmtBase{newBase(RuleOpenStatement, pos)}, Cursor: cursor}
}

func (p *parser) parseCloseStatement() *CloseStatement {
	defer p.enter(RuleCloseStatement)()
	pos := p.pos()
	p.advance() // CLOSE
	cursor := p.parseIdentifierText()
	return &CloseStatement{stmtBase: stmtBase{newBase(RuleCloseStatement, pos)}, Cursor: cursor}
}

// parseIfStatement and parseLoopStatement recognize their keyword and
// skip to the matching END IF;/END LOOP; without building a usable
// tree: IfStatement/LoopStatement carry no fields because the builder
// rejects them outright (spec.md §4.4.1 names no IF/LOOP IR node).
func (p *parser) parseIfStatement() *IfStatement {
	defer p.enter(RuleIfStatement)()
	pos := p.pos()
	p.skipToMatchingEnd("if")
	return &IfStatement{stmtBase: stmtBase{newBase(RuleIfStatement, pos)}}
}

func (p *parser) parseLoopStatement() *LoopStatement {
	defer p.enter(RuleLoopStatement)()
	pos := p.pos()
	kw := p.s.TokenLower()
	if p.isKeyword("while") || p.isKeyword("for") {
		p.advance()
		for !p.isKeyword("loop") {
			p.advance()
		}
		p.skipToMatchingEnd("loop")
	} else {
		p.skipToMatchingEnd(kw)
	}
	return &LoopStatement{stmtBase: stmtBase{newBase(RuleLoopStatement, pos)}}
}

// skipToMatchingEnd consumes tokens up to and including the `END
// <kw>` that closes the construct just entered, leaving the
// terminating semicolon for the enclosing block, and tracks nested
// occurrences of the same opening keyword so an inner IF/LOOP doesn't
// terminate the outer one early.
func (p *parser) skipToMatchingEnd(kw string) {
	p.advance() // opening keyword
	depth := 1
	for depth > 0 {
		if p.s.TokenType() == oracle.EOFToken {
			p.fail("unterminated %s block", kw)
		}
		if p.isKeyword(kw) {
			depth++
		} else if p.isReserved("end") {
			clone := p.s.Clone()
			clone.NextNonWhitespaceToken()
			if clone.TokenLower() == kw {
				depth--
				p.advance()
			}
		}
		p.advance()
	}
}
