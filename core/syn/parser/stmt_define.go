package parser

import (
	"github.com/FocuswithJustin/quill/core/sql"
)

// =============================================================================
// DEFINE
// =============================================================================

func (p *Parser) parseDefine() (*sql.DefineStatement, error) {
	p.next()
	def, err := p.parseDefinition()
	if err != nil {
		return nil, inContext(err, "define statement")
	}
	return &sql.DefineStatement{What: def}, nil
}

func (p *Parser) parseDefinition() (sql.Definition, error) {
	tok := p.next()
	switch tok.Kind {
	case TK_NAMESPACE, TK_NS:
		name, err := p.parseName()
		if err != nil {
			return nil, err
		}
		d := &sql.DefineNamespace{Name: name}
		d.Comment, err = p.parseComment()
		return d, err
	case TK_DATABASE, TK_DB:
		return p.parseDefineDatabase()
	case TK_FUNCTION:
		return p.parseDefineFunction()
	case TK_PARAM_KW:
		return p.parseDefineParam()
	case TK_TABLE:
		return p.parseDefineTable()
	case TK_EVENT:
		return p.parseDefineEvent()
	case TK_FIELD:
		return p.parseDefineField()
	case TK_INDEX:
		return p.parseDefineIndex()
	case TK_ANALYZER, TK_SCOPE, TK_TOKEN, TK_USER, TK_MODEL:
		return nil, p.notYetImplemented(tok)
	}
	return nil, p.unexpected(tok, "a definition kind")
}

// parseComment parses an optional COMMENT clause.
func (p *Parser) parseComment() (*sql.Strand, error) {
	if !p.eat(TK_COMMENT) {
		return nil, nil
	}
	s, err := p.parseStrand()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// parseOnTable parses ON [TABLE] name.
func (p *Parser) parseOnTable() (string, error) {
	if _, err := p.expect(TK_ON); err != nil {
		return "", err
	}
	p.eat(TK_TABLE)
	return p.parseName()
}

func (p *Parser) parseDefineDatabase() (*sql.DefineDatabase, error) {
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	d := &sql.DefineDatabase{Name: name}
	for {
		switch p.peek().Kind {
		case TK_CHANGEFEED:
			p.next()
			cf, err := p.parseDurationToken()
			if err != nil {
				return nil, err
			}
			d.Changefeed = &cf
		case TK_COMMENT:
			if d.Comment, err = p.parseComment(); err != nil {
				return nil, err
			}
		default:
			return d, nil
		}
	}
}

func (p *Parser) parseDefineFunction() (*sql.DefineFunction, error) {
	if _, err := p.expect(TK_FN); err != nil {
		return nil, err
	}
	name, err := p.parseFunctionName()
	if err != nil {
		return nil, err
	}
	d := &sql.DefineFunction{Name: name}
	open, err := p.expect(TK_LPAREN)
	if err != nil {
		return nil, err
	}
	for !p.eat(TK_RPAREN) {
		arg, err := p.parseParamName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TK_COLON); err != nil {
			return nil, err
		}
		kind, err := p.parseKind()
		if err != nil {
			return nil, err
		}
		d.Args = append(d.Args, sql.FunctionArg{Name: arg, Kind: kind})
		if !p.eat(TK_COMMA) {
			if err := p.expectClosingDelimiter(TK_RPAREN, open.Span); err != nil {
				return nil, err
			}
			break
		}
	}
	brace, err := p.expect(TK_LBRACE)
	if err != nil {
		return nil, err
	}
	if d.Block, err = p.parseBlockBody(brace.Span); err != nil {
		return nil, err
	}
	for {
		switch p.peek().Kind {
		case TK_COMMENT:
			if d.Comment, err = p.parseComment(); err != nil {
				return nil, err
			}
		case TK_PERMISSIONS:
			p.next()
			perm, err := p.parsePermission()
			if err != nil {
				return nil, err
			}
			d.Permission = &perm
		default:
			return d, nil
		}
	}
}

func (p *Parser) parseDefineParam() (*sql.DefineParam, error) {
	name, err := p.parseParamName()
	if err != nil {
		return nil, err
	}
	d := &sql.DefineParam{Name: name}
	if _, err := p.expect(TK_VALUE); err != nil {
		return nil, err
	}
	if d.Value, err = p.parseValue(); err != nil {
		return nil, err
	}
	for {
		switch p.peek().Kind {
		case TK_COMMENT:
			if d.Comment, err = p.parseComment(); err != nil {
				return nil, err
			}
		case TK_PERMISSIONS:
			p.next()
			perm, err := p.parsePermission()
			if err != nil {
				return nil, err
			}
			d.Permission = &perm
		default:
			return d, nil
		}
	}
}

func (p *Parser) parseDefineTable() (*sql.DefineTable, error) {
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	d := &sql.DefineTable{Name: name}
	for {
		switch p.peek().Kind {
		case TK_DROP:
			p.next()
			d.Drop = true
		case TK_SCHEMAFULL:
			p.next()
			d.Full = true
		case TK_SCHEMALESS:
			p.next()
			d.Full = false
		case TK_CHANGEFEED:
			p.next()
			cf, err := p.parseDurationToken()
			if err != nil {
				return nil, err
			}
			d.Changefeed = &cf
		case TK_COMMENT:
			if d.Comment, err = p.parseComment(); err != nil {
				return nil, err
			}
		case TK_PERMISSIONS:
			p.next()
			if d.Permissions, err = p.parsePermissions(); err != nil {
				return nil, err
			}
		default:
			return d, nil
		}
	}
}

func (p *Parser) parseDefineEvent() (*sql.DefineEvent, error) {
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	d := &sql.DefineEvent{Name: name}
	if d.Table, err = p.parseOnTable(); err != nil {
		return nil, err
	}
	if p.eat(TK_WHEN) {
		if d.When, err = p.parseValueField(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TK_THEN); err != nil {
		return nil, err
	}
	for {
		v, err := p.parseValueField()
		if err != nil {
			return nil, err
		}
		d.Then = append(d.Then, v)
		if !p.eat(TK_COMMA) {
			break
		}
	}
	d.Comment, err = p.parseComment()
	return d, err
}

func (p *Parser) parseDefineField() (*sql.DefineField, error) {
	name, err := p.parseIdiom()
	if err != nil {
		return nil, err
	}
	d := &sql.DefineField{Name: name}
	if d.Table, err = p.parseOnTable(); err != nil {
		return nil, err
	}
	for {
		switch p.peek().Kind {
		case TK_FLEXIBLE:
			p.next()
			d.Flexible = true
		case TK_TYPE:
			p.next()
			if d.Kind, err = p.parseKind(); err != nil {
				return nil, err
			}
		case TK_VALUE:
			p.next()
			if d.Value, err = p.parseValueField(); err != nil {
				return nil, err
			}
		case TK_ASSERT:
			p.next()
			if d.Assert, err = p.parseValueField(); err != nil {
				return nil, err
			}
		case TK_DEFAULT:
			p.next()
			if d.Default, err = p.parseValueField(); err != nil {
				return nil, err
			}
		case TK_COMMENT:
			if d.Comment, err = p.parseComment(); err != nil {
				return nil, err
			}
		case TK_PERMISSIONS:
			p.next()
			if d.Permissions, err = p.parsePermissions(); err != nil {
				return nil, err
			}
		default:
			return d, nil
		}
	}
}

func (p *Parser) parseDefineIndex() (*sql.DefineIndex, error) {
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}
	d := &sql.DefineIndex{Name: name}
	if d.Table, err = p.parseOnTable(); err != nil {
		return nil, err
	}
	if tok := p.next(); tok.Kind != TK_FIELDS && tok.Kind != TK_COLUMNS {
		return nil, p.unexpected(tok, "FIELDS or COLUMNS")
	}
	if d.Fields, err = p.parseIdioms(); err != nil {
		return nil, err
	}
	d.Unique = p.eat(TK_UNIQUE)
	d.Comment, err = p.parseComment()
	return d, err
}

// =============================================================================
// REMOVE
// =============================================================================

func (p *Parser) parseRemove() (*sql.RemoveStatement, error) {
	p.next()
	r, err := p.parseRemoval()
	if err != nil {
		return nil, inContext(err, "remove statement")
	}
	return &sql.RemoveStatement{What: r}, nil
}

func (p *Parser) parseRemoval() (sql.Removal, error) {
	var (
		r   sql.Removal
		err error
	)
	tok := p.next()
	switch tok.Kind {
	case TK_NAMESPACE, TK_NS:
		r.Kind = sql.RemoveNamespace
		r.Name, err = p.parseName()
	case TK_DATABASE, TK_DB:
		r.Kind = sql.RemoveDatabase
		r.Name, err = p.parseName()
	case TK_FUNCTION:
		r.Kind = sql.RemoveFunction
		if _, err = p.expect(TK_FN); err == nil {
			r.Name, err = p.parseFunctionName()
		}
	case TK_PARAM_KW:
		r.Kind = sql.RemoveParam
		r.Name, err = p.parseParamName()
	case TK_TABLE:
		r.Kind = sql.RemoveTable
		r.Name, err = p.parseName()
	case TK_EVENT, TK_INDEX:
		r.Kind = sql.RemoveEvent
		if tok.Kind == TK_INDEX {
			r.Kind = sql.RemoveIndex
		}
		if r.Name, err = p.parseName(); err == nil {
			r.Table, err = p.parseOnTable()
		}
	case TK_FIELD:
		r.Kind = sql.RemoveField
		if r.Field, err = p.parseIdiom(); err == nil {
			r.Table, err = p.parseOnTable()
		}
	case TK_ANALYZER:
		r.Kind = sql.RemoveAnalyzer
		r.Name, err = p.parseName()
	case TK_SCOPE:
		r.Kind = sql.RemoveScope
		r.Name, err = p.parseName()
	case TK_USER:
		r.Kind = sql.RemoveUser
		if r.Name, err = p.parseName(); err != nil {
			break
		}
		if _, err = p.expect(TK_ON); err == nil {
			r.Base, err = p.parseBase()
		}
	default:
		return r, p.unexpected(tok, "a definition kind")
	}
	return r, err
}
