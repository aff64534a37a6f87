package parser

import (
	"strings"

	"github.com/FocuswithJustin/quill/core/sql"
)

// parsePrimary parses a value that is not an operator expression.
func (p *Parser) parsePrimary() (sql.Value, error) {
	tok := p.peek()
	switch tok.Kind {
	case TK_NONE:
		p.next()
		return sql.None{}, nil
	case TK_NULL:
		p.next()
		return sql.Null{}, nil
	case TK_TRUE:
		p.next()
		return sql.Bool(true), nil
	case TK_FALSE:
		p.next()
		return sql.Bool(false), nil
	case TK_NUMBER:
		p.next()
		return p.lexer.Numbers[tok.DataIndex], nil
	case TK_STRAND:
		p.next()
		return sql.Strand(p.lexer.Strings[tok.DataIndex]), nil
	case TK_DURATION:
		p.next()
		return p.lexer.Durations[tok.DataIndex], nil
	case TK_DATETIME:
		p.next()
		return p.lexer.Datetimes[tok.DataIndex], nil
	case TK_UUID:
		p.next()
		return p.lexer.Uuids[tok.DataIndex], nil
	case TK_PARAM:
		p.next()
		return sql.Param(p.lexer.Strings[tok.DataIndex]), nil
	case TK_SLASH:
		p.next()
		return p.parseRegex(tok)
	case TK_OPEN_RECORD_STRING:
		return p.parseRecordString()
	case TK_LBRACKET:
		p.next()
		return p.parseArray(tok.Span)
	case TK_LBRACE:
		p.next()
		return p.parseObjectOrBlock(tok.Span)
	case TK_LPAREN:
		p.next()
		return p.parseParenthesized(tok.Span)
	case TK_VBAR:
		p.next()
		return p.parseMock(tok.Span)
	case TK_ARROW_RIGHT, TK_ARROW_LEFT, TK_ARROW_BOTH:
		return p.parseIdiomParts(nil)
	case TK_FN:
		p.next()
		return p.parseCustomFunction()
	case TK_ML:
		p.next()
		return p.parseModel()
	case TK_IDENT:
		p.next()
		return p.parseIdentValue(tok)
	}
	switch {
	case isSubqueryKeyword(tok.Kind):
		stmt, err := p.parseSubqueryStmt()
		if err != nil {
			return nil, inContext(err, "subquery")
		}
		return &sql.Subquery{Stmt: stmt}, nil
	case isDisallowedInValue(tok.Kind), isBlockOnly(tok.Kind):
		if _, err := p.parseStmt(); err != nil {
			return nil, err
		}
		return nil, p.disallowed(tok.Span)
	case tok.Kind.IsKeyword():
		// Reserved words still name tables, fields and functions.
		p.next()
		return p.parseIdentValue(tok)
	}
	return nil, p.unexpected(tok, "a value")
}

// parseIdentValue handles an identifier in value position: a function
// call, a record id, or a table or field name.
func (p *Parser) parseIdentValue(tok Token) (sql.Value, error) {
	name := p.identText(tok)
	switch p.peek().Kind {
	case TK_PATHSEP, TK_LPAREN:
		return p.parseBuiltinFunction(name)
	case TK_COLON:
		p.next()
		id, err := p.parseRecordID()
		if err != nil {
			return nil, err
		}
		return &sql.Thing{Table: name, ID: id}, nil
	}
	if p.tableAsField {
		return sql.Idiom{sql.FieldPart(name)}, nil
	}
	return sql.Table(name), nil
}

// =============================================================================
// Literals
// =============================================================================

func (p *Parser) parseRegex(slash Token) (sql.Value, error) {
	tok := p.lexer.RelexRegex(slash)
	p.lastSpan = tok.Span
	if tok.Kind != TK_REGEX {
		return nil, p.unexpected(tok, "a regex")
	}
	return p.lexer.Regexes[tok.DataIndex], nil
}

// parseRecordString parses r"table:id".
func (p *Parser) parseRecordString() (sql.Value, error) {
	open := p.next()
	thing, err := p.parseThing()
	if err != nil {
		return nil, inContext(err, "record string")
	}
	p.dropPeek()
	tok := p.lexer.LexRecordStringClose()
	p.lastSpan = tok.Span
	if tok.Kind != TK_CLOSE_RECORD_STRING {
		if tok.Kind == TK_EOF || tok.Kind == TK_INVALID {
			return nil, p.unexpected(tok, "the closing quote")
		}
		return nil, &ParseError{
			Kind:        UnclosedDelimiter,
			Span:        tok.Span,
			Expected:    string(p.lexer.recordQuote),
			ShouldClose: open.Span,
		}
	}
	return thing, nil
}

// parseThing parses table:id.
func (p *Parser) parseThing() (*sql.Thing, error) {
	table, err := p.parseName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TK_COLON); err != nil {
		return nil, err
	}
	id, err := p.parseRecordID()
	if err != nil {
		return nil, err
	}
	return &sql.Thing{Table: table, ID: id}, nil
}

// parseRecordID parses the part of a record id after the colon.
func (p *Parser) parseRecordID() (sql.Value, error) {
	tok := p.peek()
	switch tok.Kind {
	case TK_NUMBER:
		p.next()
		return p.lexer.Numbers[tok.DataIndex], nil
	case TK_MINUS:
		p.next()
		n, err := p.expect(TK_NUMBER)
		if err != nil {
			return nil, err
		}
		return p.lexer.Numbers[n.DataIndex].Neg(), nil
	case TK_STRAND:
		p.next()
		return sql.Strand(p.lexer.Strings[tok.DataIndex]), nil
	case TK_LBRACKET:
		p.next()
		return p.parseArray(tok.Span)
	case TK_LBRACE:
		p.next()
		return p.parseObject(tok.Span)
	}
	if isName(tok) {
		p.next()
		return sql.Strand(p.identText(tok)), nil
	}
	return nil, p.unexpected(tok, "a record id")
}

// parseArray parses the elements of [ ... ]. A trailing comma is allowed.
// Bare words in elements are fields.
func (p *Parser) parseArray(open Span) (sql.Value, error) {
	arr := sql.Array{}
	for {
		if p.eat(TK_RBRACKET) {
			return arr, nil
		}
		v, err := p.parseValueField()
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
		if !p.eat(TK_COMMA) {
			if err := p.expectClosingDelimiter(TK_RBRACKET, open); err != nil {
				return nil, err
			}
			return arr, nil
		}
	}
}

// =============================================================================
// Objects and blocks
// =============================================================================

// isObjectKey reports whether tok can start an object field.
func isObjectKey(tok Token) bool {
	switch tok.Kind {
	case TK_STRAND, TK_NUMBER:
		return true
	}
	return isName(tok)
}

// parseObjectOrBlock parses what follows {. An empty pair of braces is an
// object. When the first token could be an object key both readings are
// tried, object first.
func (p *Parser) parseObjectOrBlock(open Span) (sql.Value, error) {
	if p.eat(TK_RBRACE) {
		return &sql.Object{}, nil
	}
	if !isObjectKey(p.peek()) {
		return p.parseBlockBody(open)
	}
	cp := p.save()
	obj, objErr := p.parseObject(open)
	if objErr == nil {
		return obj, nil
	}
	p.restore(cp)
	block, blockErr := p.parseBlockBody(open)
	if blockErr == nil {
		return block, nil
	}
	first, _ := objErr.(*ParseError)
	then, _ := blockErr.(*ParseError)
	if first == nil || then == nil {
		return nil, blockErr
	}
	return nil, &ParseError{Kind: Retried, Span: open, First: first, Then: then}
}

// parseObject parses the fields of { key: value, ... }.
func (p *Parser) parseObject(open Span) (*sql.Object, error) {
	obj := &sql.Object{}
	for {
		if p.eat(TK_RBRACE) {
			return obj, nil
		}
		key, err := p.parseObjectKey()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TK_COLON); err != nil {
			return nil, err
		}
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		obj.Put(key, v)
		if !p.eat(TK_COMMA) {
			if err := p.expectClosingDelimiter(TK_RBRACE, open); err != nil {
				return nil, err
			}
			return obj, nil
		}
	}
}

func (p *Parser) parseObjectKey() (string, error) {
	tok := p.peek()
	switch tok.Kind {
	case TK_STRAND:
		p.next()
		return p.lexer.Strings[tok.DataIndex], nil
	case TK_NUMBER:
		p.next()
		return string(p.lexer.Text(tok.Span)), nil
	}
	if isName(tok) {
		p.next()
		return p.identText(tok), nil
	}
	return "", p.unexpected(tok, "an object key")
}

// parseBlockBody parses the statements of { ...; ... } after the brace.
func (p *Parser) parseBlockBody(open Span) (*sql.Block, error) {
	block := &sql.Block{}
	for {
		for p.eat(TK_SEMI) {
		}
		if p.eat(TK_RBRACE) {
			return block, nil
		}
		stmt, err := p.parseBlockEntry()
		if err != nil {
			return nil, err
		}
		block.Entries = append(block.Entries, stmt)
		if !p.eat(TK_SEMI) {
			if err := p.expectClosingDelimiter(TK_RBRACE, open); err != nil {
				return nil, err
			}
			return block, nil
		}
	}
}

// =============================================================================
// Parentheses
// =============================================================================

// parseParenthesized parses what follows (: a subquery, a parenthesized
// value, or a geometry point (x, y).
func (p *Parser) parseParenthesized(open Span) (sql.Value, error) {
	if isSubqueryKeyword(p.peek().Kind) {
		stmt, err := p.parseSubqueryStmt()
		if err != nil {
			return nil, inContext(err, "subquery")
		}
		if err := p.expectClosingDelimiter(TK_RPAREN, open); err != nil {
			return nil, err
		}
		return &sql.Subquery{Stmt: stmt}, nil
	}
	v, err := p.parseValueField()
	if err != nil {
		return nil, err
	}
	if n, ok := v.(sql.Number); ok && p.check(TK_COMMA) {
		if x, ok := n.AsFloat(); ok {
			return p.parsePoint(open, x)
		}
	}
	if err := p.expectClosingDelimiter(TK_RPAREN, open); err != nil {
		return nil, err
	}
	return &sql.Subquery{Stmt: &sql.ValueStatement{Value: v}}, nil
}

// parsePoint parses the second coordinate of (x, y). When it is not a
// number the input is reported under both readings: as a point, and as a
// parenthesized value left unclosed at the comma.
func (p *Parser) parsePoint(open Span, x float64) (sql.Value, error) {
	comma := p.next()
	start := p.peek()
	v, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	n, isNumber := v.(sql.Number)
	y, isFloat := n.AsFloat()
	if !isNumber || !isFloat {
		return nil, &ParseError{
			Kind: Retried,
			Span: open,
			First: &ParseError{
				Kind:     Unexpected,
				Span:     start.Span.Covers(p.lastSpan),
				Found:    foundText(p.lexer.Text(start.Span.Covers(p.lastSpan))),
				Expected: "a number",
			},
			Then: &ParseError{
				Kind:        UnclosedDelimiter,
				Span:        comma.Span,
				Found:       ",",
				Expected:    ")",
				ShouldClose: open,
			},
		}
	}
	if err := p.expectClosingDelimiter(TK_RPAREN, open); err != nil {
		return nil, err
	}
	return &sql.Point{X: x, Y: y}, nil
}

// =============================================================================
// Mocks
// =============================================================================

// parseMock parses |table:count| or |table:from..to|.
func (p *Parser) parseMock(open Span) (sql.Value, error) {
	table, err := p.parseName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TK_COLON); err != nil {
		return nil, err
	}
	from, err := p.parseUint()
	if err != nil {
		return nil, err
	}
	mock := &sql.Mock{Kind: sql.MockCount, Table: table, From: from}
	if p.eat(TK_DOTDOT) {
		to, err := p.parseUint()
		if err != nil {
			return nil, err
		}
		mock.Kind = sql.MockRange
		mock.To = to
	}
	if err := p.expectClosingDelimiter(TK_VBAR, open); err != nil {
		return nil, err
	}
	return mock, nil
}

// =============================================================================
// Functions
// =============================================================================

// parsePath parses the rest of a::b::c after the first segment.
func (p *Parser) parsePath(first string) (string, error) {
	parts := []string{first}
	for p.eat(TK_PATHSEP) {
		name, err := p.parseName()
		if err != nil {
			return "", err
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, "::"), nil
}

func (p *Parser) parseBuiltinFunction(first string) (sql.Value, error) {
	name, err := p.parsePath(first)
	if err != nil {
		return nil, err
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, inContext(err, "function "+name)
	}
	return &sql.Function{Kind: sql.BuiltinFunction, Name: name, Args: args}, nil
}

// parseCustomFunction parses the rest of fn::name(args).
func (p *Parser) parseCustomFunction() (sql.Value, error) {
	name, err := p.parseFunctionName()
	if err != nil {
		return nil, err
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, inContext(err, "function fn::"+name)
	}
	return &sql.Function{Kind: sql.CustomFunction, Name: name, Args: args}, nil
}

// parseFunctionName parses ::a::b following the fn keyword.
func (p *Parser) parseFunctionName() (string, error) {
	if _, err := p.expect(TK_PATHSEP); err != nil {
		return "", err
	}
	first, err := p.parseName()
	if err != nil {
		return "", err
	}
	return p.parsePath(first)
}

// parseArgs parses a parenthesized argument list.
func (p *Parser) parseArgs() ([]sql.Value, error) {
	open, err := p.expect(TK_LPAREN)
	if err != nil {
		return nil, err
	}
	args := []sql.Value{}
	for {
		if p.eat(TK_RPAREN) {
			return args, nil
		}
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		if !p.eat(TK_COMMA) {
			if err := p.expectClosingDelimiter(TK_RPAREN, open.Span); err != nil {
				return nil, err
			}
			return args, nil
		}
	}
}

// parseModel parses the rest of ml::name<version>(args). The version is
// kept as written.
func (p *Parser) parseModel() (sql.Value, error) {
	name, err := p.parseFunctionName()
	if err != nil {
		return nil, err
	}
	open, err := p.expect(TK_LT)
	if err != nil {
		return nil, err
	}
	start := open.Span.End()
	for {
		tok := p.peek()
		if tok.Kind == TK_GT {
			break
		}
		if tok.Kind == TK_EOF || tok.Kind == TK_INVALID {
			return nil, p.unexpected(tok, "'>'")
		}
		p.next()
	}
	end := p.next().Span.Offset
	version := strings.TrimSpace(string(p.lexer.Text(Span{Offset: start, Len: end - start})))
	args, err := p.parseArgs()
	if err != nil {
		return nil, inContext(err, "model ml::"+name)
	}
	return &sql.Model{Name: name, Version: version, Args: args}, nil
}
