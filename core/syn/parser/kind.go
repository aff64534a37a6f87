package parser

import (
	"strings"

	"github.com/FocuswithJustin/quill/core/sql"
)

// scalarKinds are the kind names that take no parameters.
var scalarKinds = map[string]bool{
	"any":      true,
	"bool":     true,
	"bytes":    true,
	"datetime": true,
	"decimal":  true,
	"duration": true,
	"float":    true,
	"int":      true,
	"number":   true,
	"object":   true,
	"point":    true,
	"string":   true,
	"uuid":     true,
}

// parseKind parses a type annotation, possibly a union k | k.
func (p *Parser) parseKind() (*sql.Kind, error) {
	first, err := p.parseSingleKind()
	if err != nil {
		return nil, err
	}
	if !p.check(TK_VBAR) {
		return first, nil
	}
	either := &sql.Kind{Name: sql.KindEither, Inner: []*sql.Kind{first}}
	for p.eat(TK_VBAR) {
		k, err := p.parseSingleKind()
		if err != nil {
			return nil, err
		}
		either.Inner = append(either.Inner, k)
	}
	return either, nil
}

func (p *Parser) parseSingleKind() (*sql.Kind, error) {
	tok := p.peek()
	if !isName(tok) {
		return nil, p.unexpected(tok, "a kind name")
	}
	name := strings.ToLower(p.identText(tok))
	if scalarKinds[name] {
		p.next()
		return &sql.Kind{Name: name}, nil
	}
	switch name {
	case "record", "geometry":
		p.next()
		k := &sql.Kind{Name: name}
		if open := p.peek(); open.Kind == TK_LT {
			p.next()
			tables, err := p.parseKindNames()
			if err != nil {
				return nil, err
			}
			k.Tables = tables
			if err := p.expectClosingDelimiter(TK_GT, open.Span); err != nil {
				return nil, err
			}
		}
		return k, nil
	case "option":
		p.next()
		open, err := p.expect(TK_LT)
		if err != nil {
			return nil, err
		}
		inner, err := p.parseKind()
		if err != nil {
			return nil, err
		}
		if err := p.expectClosingDelimiter(TK_GT, open.Span); err != nil {
			return nil, err
		}
		return &sql.Kind{Name: name, Inner: []*sql.Kind{inner}}, nil
	case "array", "set":
		p.next()
		k := &sql.Kind{Name: name}
		open := p.peek()
		if open.Kind != TK_LT {
			return k, nil
		}
		p.next()
		inner, err := p.parseKind()
		if err != nil {
			return nil, err
		}
		k.Inner = []*sql.Kind{inner}
		if p.eat(TK_COMMA) {
			if k.Size, err = p.parseUint(); err != nil {
				return nil, err
			}
		}
		if err := p.expectClosingDelimiter(TK_GT, open.Span); err != nil {
			return nil, err
		}
		return k, nil
	}
	return nil, p.unexpected(tok, "a kind name")
}

// parseKindNames parses a | separated list of names inside record<...>.
func (p *Parser) parseKindNames() ([]string, error) {
	var names []string
	for {
		name, err := p.parseName()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if !p.eat(TK_VBAR) {
			return names, nil
		}
	}
}
