package parser

import (
	"github.com/FocuswithJustin/quill/core/sql"
)

// parseFields parses a projection list: VALUE expr, or * and expr [AS alias]
// items separated by commas.
func (p *Parser) parseFields() (sql.Fields, error) {
	if p.peek().Kind == TK_VALUE && !p.valueIsField() {
		p.next()
		f, err := p.parseField()
		if err != nil {
			return sql.Fields{}, err
		}
		return sql.Fields{Single: true, Items: []sql.Field{f}}, nil
	}
	var fields sql.Fields
	for {
		f, err := p.parseField()
		if err != nil {
			return sql.Fields{}, err
		}
		fields.Items = append(fields.Items, f)
		if !p.eat(TK_COMMA) {
			return fields, nil
		}
	}
}

// valueIsField reports whether the VALUE at the cursor names a field,
// as in SELECT value FROM t.
func (p *Parser) valueIsField() bool {
	c := p.save()
	defer p.restore(c)
	p.next()
	switch p.peek().Kind {
	case TK_FROM, TK_COMMA, TK_AS:
		return true
	}
	return false
}

func (p *Parser) parseField() (sql.Field, error) {
	if p.eat(TK_STAR) {
		return sql.Field{All: true}, nil
	}
	expr, err := p.parseValueField()
	if err != nil {
		return sql.Field{}, err
	}
	f := sql.Field{Expr: expr}
	if p.eat(TK_AS) {
		if f.Alias, err = p.parseIdiom(); err != nil {
			return sql.Field{}, err
		}
	}
	return f, nil
}

// parseWhats parses the comma separated targets of a statement.
func (p *Parser) parseWhats() ([]sql.Value, error) {
	var whats []sql.Value
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		whats = append(whats, v)
		if !p.eat(TK_COMMA) {
			return whats, nil
		}
	}
}

// parseCond parses an optional WHERE clause.
func (p *Parser) parseCond() (sql.Value, error) {
	if !p.eat(TK_WHERE) {
		return nil, nil
	}
	return p.parseValueField()
}

// parseFetch parses an optional FETCH clause.
func (p *Parser) parseFetch() ([]sql.Idiom, error) {
	if !p.eat(TK_FETCH) {
		return nil, nil
	}
	return p.parseIdioms()
}

// parseTimeout parses an optional TIMEOUT clause.
func (p *Parser) parseTimeout() (*sql.Duration, error) {
	if !p.eat(TK_TIMEOUT) {
		return nil, nil
	}
	d, err := p.parseDurationToken()
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseData parses an optional data clause of a write statement.
func (p *Parser) parseData() (sql.Data, error) {
	tok := p.peek()
	switch tok.Kind {
	case TK_CONTENT, TK_MERGE, TK_PATCH, TK_REPLACE:
		p.next()
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case TK_CONTENT:
			return sql.ContentData{Value: v}, nil
		case TK_MERGE:
			return sql.MergeData{Value: v}, nil
		case TK_PATCH:
			return sql.PatchData{Value: v}, nil
		default:
			return sql.ReplaceData{Value: v}, nil
		}
	case TK_SET:
		p.next()
		as, err := p.parseAssignments()
		if err != nil {
			return nil, err
		}
		return sql.SetData{Assignments: as}, nil
	case TK_UNSET:
		p.next()
		fields, err := p.parseIdioms()
		if err != nil {
			return nil, err
		}
		return sql.UnsetData{Fields: fields}, nil
	}
	return nil, nil
}

// parseAssignments parses place op value pairs separated by commas.
func (p *Parser) parseAssignments() ([]sql.Assignment, error) {
	var out []sql.Assignment
	for {
		place, err := p.parseIdiom()
		if err != nil {
			return nil, err
		}
		var op sql.Operator
		tok := p.next()
		switch tok.Kind {
		case TK_EQ:
			op = sql.OpEqual
		case TK_INC:
			op = sql.OpInc
		case TK_DEC:
			op = sql.OpDec
		case TK_EXT:
			op = sql.OpExt
		default:
			return nil, p.unexpected(tok, "'=', '+=', '-=' or '+?='")
		}
		v, err := p.parseValueField()
		if err != nil {
			return nil, err
		}
		out = append(out, sql.Assignment{Place: place, Op: op, Value: v})
		if !p.eat(TK_COMMA) {
			return out, nil
		}
	}
}

// parseOutput parses an optional RETURN clause of a write statement.
func (p *Parser) parseOutput() (*sql.Output, error) {
	if !p.eat(TK_RETURN) {
		return nil, nil
	}
	switch p.peek().Kind {
	case TK_NONE:
		p.next()
		return &sql.Output{Kind: sql.OutputNone}, nil
	case TK_NULL:
		p.next()
		return &sql.Output{Kind: sql.OutputNull}, nil
	case TK_DIFF:
		p.next()
		return &sql.Output{Kind: sql.OutputDiff}, nil
	case TK_AFTER:
		p.next()
		return &sql.Output{Kind: sql.OutputAfter}, nil
	case TK_BEFORE:
		p.next()
		return &sql.Output{Kind: sql.OutputBefore}, nil
	}
	fields, err := p.parseFields()
	if err != nil {
		return nil, err
	}
	return &sql.Output{Kind: sql.OutputFields, Fields: fields}, nil
}

// parseTail parses the RETURN, TIMEOUT and PARALLEL clauses shared by the
// write statements.
func (p *Parser) parseTail() (*sql.Output, *sql.Duration, bool, error) {
	out, err := p.parseOutput()
	if err != nil {
		return nil, nil, false, err
	}
	timeout, err := p.parseTimeout()
	if err != nil {
		return nil, nil, false, err
	}
	return out, timeout, p.eat(TK_PARALLEL), nil
}

// parsePermission parses NONE, FULL or WHERE cond.
func (p *Parser) parsePermission() (sql.Permission, error) {
	tok := p.next()
	switch tok.Kind {
	case TK_NONE:
		return sql.Permission{Kind: sql.PermissionNone}, nil
	case TK_FULL:
		return sql.Permission{Kind: sql.PermissionFull}, nil
	case TK_WHERE:
		cond, err := p.parseValueField()
		if err != nil {
			return sql.Permission{}, err
		}
		return sql.Permission{Kind: sql.PermissionWhere, Cond: cond}, nil
	}
	return sql.Permission{}, p.unexpected(tok, "NONE, FULL or WHERE")
}

// parsePermissions parses the body of a PERMISSIONS clause: NONE, FULL, or
// one or more FOR operations rule groups. Operations not named keep NONE.
func (p *Parser) parsePermissions() (*sql.Permissions, error) {
	perms := &sql.Permissions{}
	switch p.peek().Kind {
	case TK_NONE:
		p.next()
		return perms, nil
	case TK_FULL:
		p.next()
		full := sql.Permission{Kind: sql.PermissionFull}
		return &sql.Permissions{Select: full, Create: full, Update: full, Delete: full}, nil
	}
	if _, err := p.expect(TK_FOR); err != nil {
		return nil, err
	}
	for {
		var targets []*sql.Permission
		for {
			tok := p.next()
			switch tok.Kind {
			case TK_SELECT:
				targets = append(targets, &perms.Select)
			case TK_CREATE:
				targets = append(targets, &perms.Create)
			case TK_UPDATE:
				targets = append(targets, &perms.Update)
			case TK_DELETE:
				targets = append(targets, &perms.Delete)
			default:
				return nil, p.unexpected(tok, "select, create, update or delete")
			}
			if !p.eat(TK_COMMA) {
				break
			}
		}
		rule, err := p.parsePermission()
		if err != nil {
			return nil, err
		}
		for _, t := range targets {
			*t = rule
		}
		if !p.eat(TK_FOR) {
			return perms, nil
		}
	}
}
