package parser

import (
	"github.com/FocuswithJustin/quill/core/sql"
)

// continuesIdiom reports whether the next token extends a path.
func (p *Parser) continuesIdiom() bool {
	switch p.peek().Kind {
	case TK_DOT, TK_ELLIPSIS, TK_LBRACKET, TK_ARROW_RIGHT, TK_ARROW_LEFT, TK_ARROW_BOTH:
		return true
	}
	return false
}

// parseIdiom parses a field path starting with a name, as used in SET,
// ORDER BY and similar clauses.
func (p *Parser) parseIdiom() (sql.Idiom, error) {
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	return p.parseIdiomParts(sql.Idiom{sql.FieldPart(name)})
}

// parseIdioms parses a comma separated list of field paths.
func (p *Parser) parseIdioms() ([]sql.Idiom, error) {
	var out []sql.Idiom
	for {
		i, err := p.parseIdiom()
		if err != nil {
			return nil, err
		}
		out = append(out, i)
		if !p.eat(TK_COMMA) {
			return out, nil
		}
	}
}

// parseIdiomParts appends parts to idiom for as long as the path continues.
func (p *Parser) parseIdiomParts(idiom sql.Idiom) (sql.Idiom, error) {
	for {
		tok := p.peek()
		var (
			part sql.Part
			err  error
		)
		switch tok.Kind {
		case TK_DOT:
			p.next()
			part, err = p.parseDotPart()
		case TK_ELLIPSIS:
			p.next()
			part = sql.FlattenPart{}
		case TK_LBRACKET:
			p.next()
			part, err = p.parseBracketPart(tok.Span)
		case TK_ARROW_RIGHT:
			p.next()
			part, err = p.parseGraphPart(sql.DirOut)
		case TK_ARROW_LEFT:
			p.next()
			part, err = p.parseGraphPart(sql.DirIn)
		case TK_ARROW_BOTH:
			p.next()
			part, err = p.parseGraphPart(sql.DirBoth)
		default:
			return idiom, nil
		}
		if err != nil {
			return nil, err
		}
		idiom = append(idiom, part)
	}
}

// parseDotPart parses what follows a dot: *, a field, or a method call.
func (p *Parser) parseDotPart() (sql.Part, error) {
	if p.eat(TK_STAR) {
		return sql.AllPart{}, nil
	}
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	if !p.check(TK_LPAREN) {
		return sql.FieldPart(name), nil
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, inContext(err, "method "+name)
	}
	return &sql.MethodPart{Name: name, Args: args}, nil
}

// parseBracketPart parses [*], [$], [WHERE cond], [? cond], [n] or [value].
func (p *Parser) parseBracketPart(open Span) (sql.Part, error) {
	var part sql.Part
	switch p.peek().Kind {
	case TK_STAR:
		p.next()
		part = sql.AllPart{}
	case TK_DOLLAR:
		p.next()
		part = sql.LastPart{}
	case TK_WHERE, TK_QUESTION:
		p.next()
		cond, err := p.parseValueField()
		if err != nil {
			return nil, err
		}
		part = sql.WherePart{Cond: cond}
	default:
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if n, ok := v.(sql.Number); ok {
			part = sql.IndexPart(n)
		} else {
			part = sql.ValuePart{Value: v}
		}
	}
	if err := p.expectClosingDelimiter(TK_RBRACKET, open); err != nil {
		return nil, err
	}
	return part, nil
}

// parseGraphPart parses the target of an edge traversal: ?, a table name,
// or ( tables [WHERE cond] [AS alias] ).
func (p *Parser) parseGraphPart(dir sql.Dir) (sql.Part, error) {
	part := &sql.GraphPart{Dir: dir}
	tok := p.peek()
	switch {
	case tok.Kind == TK_QUESTION:
		p.next()
		return part, nil
	case isName(tok):
		p.next()
		part.What = []string{p.identText(tok)}
		return part, nil
	case tok.Kind != TK_LPAREN:
		return nil, p.unexpected(tok, "a table name, '?' or '('")
	}
	open := p.next()
	if !p.eat(TK_QUESTION) {
		what, err := p.parseNames()
		if err != nil {
			return nil, err
		}
		part.What = what
	}
	if p.eat(TK_WHERE) {
		cond, err := p.parseValueField()
		if err != nil {
			return nil, err
		}
		part.Cond = cond
	}
	if p.eat(TK_AS) {
		alias, err := p.parseIdiom()
		if err != nil {
			return nil, err
		}
		part.Alias = alias
	}
	if err := p.expectClosingDelimiter(TK_RPAREN, open.Span); err != nil {
		return nil, err
	}
	return part, nil
}
