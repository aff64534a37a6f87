package parser

import (
	"github.com/FocuswithJustin/quill/core/sql"
)

// parseStmt parses one statement.
func (p *Parser) parseStmt() (sql.Statement, error) {
	tok := p.peek()
	switch tok.Kind {
	case TK_ANALYZE:
		return p.parseAnalyze()
	case TK_BEGIN:
		p.next()
		p.eat(TK_TRANSACTION)
		return &sql.BeginStatement{}, nil
	case TK_CANCEL:
		p.next()
		p.eat(TK_TRANSACTION)
		return &sql.CancelStatement{}, nil
	case TK_COMMIT:
		p.next()
		p.eat(TK_TRANSACTION)
		return &sql.CommitStatement{}, nil
	case TK_BREAK:
		p.next()
		return &sql.BreakStatement{}, nil
	case TK_CONTINUE:
		p.next()
		return &sql.ContinueStatement{}, nil
	case TK_FOR:
		return p.parseForeach()
	case TK_INFO:
		return p.parseInfo()
	case TK_KILL:
		return p.parseKill()
	case TK_LET:
		return p.parseLet()
	case TK_LIVE:
		return p.parseLive()
	case TK_OPTION:
		return p.parseOption()
	case TK_SHOW:
		return p.parseShow()
	case TK_SLEEP:
		return p.parseSleep()
	case TK_THROW:
		return p.parseThrow()
	case TK_USE:
		return p.parseUse()
	case TK_PARAM:
		return p.parseParamStmt()
	}
	if isSubqueryKeyword(tok.Kind) {
		return p.parseSubqueryStmt()
	}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &sql.ValueStatement{Value: v}, nil
}

// isSubqueryKeyword reports whether kind starts a statement that may also
// be used as a value.
func isSubqueryKeyword(kind TokenKind) bool {
	switch kind {
	case TK_SELECT, TK_CREATE, TK_UPDATE, TK_DELETE, TK_RELATE, TK_INSERT,
		TK_DEFINE, TK_REMOVE, TK_RETURN, TK_IF:
		return true
	}
	return false
}

// isDisallowedInValue reports whether kind starts a statement that may only
// appear at the top level of a query.
func isDisallowedInValue(kind TokenKind) bool {
	switch kind {
	case TK_BEGIN, TK_CANCEL, TK_COMMIT, TK_USE, TK_INFO, TK_LIVE, TK_KILL,
		TK_OPTION, TK_SHOW, TK_SLEEP, TK_ANALYZE:
		return true
	}
	return false
}

// isBlockOnly reports whether kind starts a statement allowed in a block
// but not as a value.
func isBlockOnly(kind TokenKind) bool {
	switch kind {
	case TK_LET, TK_FOR, TK_THROW, TK_BREAK, TK_CONTINUE:
		return true
	}
	return false
}

// parseSubqueryStmt parses a statement that can stand in a value position.
func (p *Parser) parseSubqueryStmt() (sql.Statement, error) {
	switch p.peek().Kind {
	case TK_SELECT:
		return p.parseSelect()
	case TK_CREATE:
		return p.parseCreate()
	case TK_UPDATE:
		return p.parseUpdate()
	case TK_DELETE:
		return p.parseDelete()
	case TK_RELATE:
		return p.parseRelate()
	case TK_INSERT:
		return p.parseInsert()
	case TK_DEFINE:
		return p.parseDefine()
	case TK_REMOVE:
		return p.parseRemove()
	case TK_RETURN:
		return p.parseReturn()
	case TK_IF:
		p.next()
		return p.parseIfElse()
	}
	return nil, p.unexpected(p.peek(), "a statement")
}

// parseBlockEntry parses a statement inside { }.
func (p *Parser) parseBlockEntry() (sql.Statement, error) {
	start := p.peek().Span
	if isDisallowedInValue(p.peek().Kind) {
		if _, err := p.parseStmt(); err != nil {
			return nil, err
		}
		return nil, p.disallowed(start)
	}
	return p.parseStmt()
}

// parseParamStmt parses a statement starting with a parameter. $p = v is
// shorthand for LET $p = v; anything else is a value.
func (p *Parser) parseParamStmt() (sql.Statement, error) {
	cp := p.save()
	tok := p.next()
	if p.eat(TK_EQ) {
		v, err := p.parseValue()
		if err != nil {
			return nil, inContext(err, "let statement")
		}
		return &sql.SetStatement{Name: p.lexer.Strings[tok.DataIndex], What: v}, nil
	}
	p.restore(cp)
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &sql.ValueStatement{Value: v}, nil
}

// =============================================================================
// Simple statements
// =============================================================================

func (p *Parser) parseAnalyze() (*sql.AnalyzeStatement, error) {
	p.next()
	stmt := &sql.AnalyzeStatement{}
	err := func() error {
		if _, err := p.expect(TK_INDEX); err != nil {
			return err
		}
		var err error
		if stmt.Index, err = p.parseName(); err != nil {
			return err
		}
		if _, err := p.expect(TK_ON); err != nil {
			return err
		}
		stmt.Table, err = p.parseName()
		return err
	}()
	if err != nil {
		return nil, inContext(err, "analyze statement")
	}
	return stmt, nil
}

func (p *Parser) parseForeach() (*sql.ForeachStatement, error) {
	p.next()
	stmt := &sql.ForeachStatement{}
	err := func() error {
		var err error
		if stmt.Param, err = p.parseParamName(); err != nil {
			return err
		}
		if _, err := p.expect(TK_IN); err != nil {
			return err
		}
		if stmt.Range, err = p.parseValue(); err != nil {
			return err
		}
		open, err := p.expect(TK_LBRACE)
		if err != nil {
			return err
		}
		stmt.Block, err = p.parseBlockBody(open.Span)
		return err
	}()
	if err != nil {
		return nil, inContext(err, "for statement")
	}
	return stmt, nil
}

func (p *Parser) parseInfo() (*sql.InfoStatement, error) {
	p.next()
	stmt, err := p.parseInfoTarget()
	if err != nil {
		return nil, inContext(err, "info statement")
	}
	return stmt, nil
}

func (p *Parser) parseInfoTarget() (*sql.InfoStatement, error) {
	if _, err := p.expect(TK_FOR); err != nil {
		return nil, err
	}
	stmt := &sql.InfoStatement{}
	tok := p.next()
	var err error
	switch tok.Kind {
	case TK_ROOT:
		stmt.Kind = sql.InfoRoot
	case TK_NS, TK_NAMESPACE:
		stmt.Kind = sql.InfoNamespace
	case TK_DB, TK_DATABASE:
		stmt.Kind = sql.InfoDatabase
	case TK_SCOPE:
		stmt.Kind = sql.InfoScope
		stmt.Name, err = p.parseName()
	case TK_TABLE:
		stmt.Kind = sql.InfoTable
		stmt.Name, err = p.parseName()
	case TK_USER:
		stmt.Kind = sql.InfoUser
		if stmt.Name, err = p.parseName(); err != nil {
			return nil, err
		}
		if p.eat(TK_ON) {
			base, err := p.parseBase()
			if err != nil {
				return nil, err
			}
			stmt.Base = &base
		}
	default:
		return nil, p.unexpected(tok, "ROOT, NAMESPACE, DATABASE, SCOPE, TABLE or USER")
	}
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseBase parses ROOT, NAMESPACE or DATABASE.
func (p *Parser) parseBase() (sql.Base, error) {
	tok := p.peek()
	switch tok.Kind {
	case TK_ROOT:
		p.next()
		return sql.BaseRoot, nil
	case TK_NS, TK_NAMESPACE:
		p.next()
		return sql.BaseNamespace, nil
	case TK_DB, TK_DATABASE:
		p.next()
		return sql.BaseDatabase, nil
	}
	return 0, p.unexpected(tok, "ROOT, NAMESPACE or DATABASE")
}

func (p *Parser) parseKill() (*sql.KillStatement, error) {
	p.next()
	tok := p.peek()
	switch tok.Kind {
	case TK_UUID:
		p.next()
		return &sql.KillStatement{ID: p.lexer.Uuids[tok.DataIndex]}, nil
	case TK_PARAM:
		p.next()
		return &sql.KillStatement{ID: sql.Param(p.lexer.Strings[tok.DataIndex])}, nil
	case TK_STRAND:
		// A live query id may also be given as a plain string.
		if u, err := parseUuid([]byte(p.lexer.Strings[tok.DataIndex])); err == nil {
			p.next()
			return &sql.KillStatement{ID: sql.Uuid(u)}, nil
		}
	}
	return nil, inContext(p.unexpected(tok, "a uuid or a parameter"), "kill statement")
}

func (p *Parser) parseLet() (*sql.SetStatement, error) {
	p.next()
	stmt := &sql.SetStatement{}
	err := func() error {
		var err error
		if stmt.Name, err = p.parseParamName(); err != nil {
			return err
		}
		if _, err := p.expect(TK_EQ); err != nil {
			return err
		}
		stmt.What, err = p.parseValue()
		return err
	}()
	if err != nil {
		return nil, inContext(err, "let statement")
	}
	return stmt, nil
}

func (p *Parser) parseLive() (*sql.LiveStatement, error) {
	p.next()
	stmt := &sql.LiveStatement{}
	err := func() error {
		if _, err := p.expect(TK_SELECT); err != nil {
			return err
		}
		if p.eat(TK_DIFF) {
			stmt.Diff = true
		} else {
			fields, err := p.parseFields()
			if err != nil {
				return err
			}
			stmt.Expr = fields
		}
		if _, err := p.expect(TK_FROM); err != nil {
			return err
		}
		tok := p.peek()
		switch tok.Kind {
		case TK_PARAM:
			p.next()
			stmt.What = sql.Param(p.lexer.Strings[tok.DataIndex])
		default:
			name, err := p.parseName()
			if err != nil {
				return err
			}
			stmt.What = sql.Table(name)
		}
		var err error
		if stmt.Cond, err = p.parseCond(); err != nil {
			return err
		}
		stmt.Fetch, err = p.parseFetch()
		return err
	}()
	if err != nil {
		return nil, inContext(err, "live statement")
	}
	return stmt, nil
}

func (p *Parser) parseOption() (*sql.OptionStatement, error) {
	p.next()
	name, err := p.parseName()
	if err != nil {
		return nil, inContext(err, "option statement")
	}
	stmt := &sql.OptionStatement{Name: name, Enabled: true}
	if p.eat(TK_EQ) {
		tok := p.next()
		switch tok.Kind {
		case TK_TRUE:
		case TK_FALSE:
			stmt.Enabled = false
		default:
			return nil, inContext(p.unexpected(tok, "true or false"), "option statement")
		}
	}
	return stmt, nil
}

func (p *Parser) parseReturn() (*sql.OutputStatement, error) {
	p.next()
	stmt := &sql.OutputStatement{}
	err := func() error {
		var err error
		if stmt.What, err = p.parseValue(); err != nil {
			return err
		}
		stmt.Fetch, err = p.parseFetch()
		return err
	}()
	if err != nil {
		return nil, inContext(err, "return statement")
	}
	return stmt, nil
}

func (p *Parser) parseShow() (*sql.ShowStatement, error) {
	p.next()
	stmt := &sql.ShowStatement{}
	err := func() error {
		if _, err := p.expect(TK_CHANGES); err != nil {
			return err
		}
		if _, err := p.expect(TK_FOR); err != nil {
			return err
		}
		tok := p.next()
		switch tok.Kind {
		case TK_TABLE:
			name, err := p.parseName()
			if err != nil {
				return err
			}
			stmt.Table = name
		case TK_DATABASE:
		default:
			return p.unexpected(tok, "TABLE or DATABASE")
		}
		if _, err := p.expect(TK_SINCE); err != nil {
			return err
		}
		tok = p.peek()
		switch tok.Kind {
		case TK_NUMBER:
			n, err := p.parseUint()
			if err != nil {
				return err
			}
			stmt.Since = sql.NewInt(int64(n))
		case TK_DATETIME:
			p.next()
			stmt.Since = p.lexer.Datetimes[tok.DataIndex]
		default:
			return p.unexpected(tok, "a version number or a datetime")
		}
		if p.eat(TK_LIMIT) {
			n, err := p.parseUint()
			if err != nil {
				return err
			}
			stmt.Limit = &n
		}
		return nil
	}()
	if err != nil {
		return nil, inContext(err, "show statement")
	}
	return stmt, nil
}

func (p *Parser) parseSleep() (*sql.SleepStatement, error) {
	p.next()
	d, err := p.parseDurationToken()
	if err != nil {
		return nil, inContext(err, "sleep statement")
	}
	return &sql.SleepStatement{Duration: d}, nil
}

func (p *Parser) parseThrow() (*sql.ThrowStatement, error) {
	p.next()
	v, err := p.parseValue()
	if err != nil {
		return nil, inContext(err, "throw statement")
	}
	return &sql.ThrowStatement{Error: v}, nil
}

func (p *Parser) parseUse() (*sql.UseStatement, error) {
	p.next()
	stmt := &sql.UseStatement{}
	err := func() error {
		var err error
		tok := p.next()
		switch tok.Kind {
		case TK_NS, TK_NAMESPACE:
			if stmt.NS, err = p.parseName(); err != nil {
				return err
			}
			if p.eat(TK_DB) || p.eat(TK_DATABASE) {
				stmt.DB, err = p.parseName()
			}
		case TK_DB, TK_DATABASE:
			stmt.DB, err = p.parseName()
		default:
			return p.unexpected(tok, "NAMESPACE or DATABASE")
		}
		return err
	}()
	if err != nil {
		return nil, inContext(err, "use statement")
	}
	return stmt, nil
}

// =============================================================================
// IF
// =============================================================================

// parseIfElse parses the rest of an IF statement. The form is fixed by the
// token after the first condition: THEN for the worded form ending in END,
// or { for the form built from blocks.
func (p *Parser) parseIfElse() (*sql.IfelseStatement, error) {
	stmt := &sql.IfelseStatement{}
	cond, err := p.parseValueField()
	if err != nil {
		return nil, inContext(err, "if statement")
	}
	tok := p.peek()
	switch tok.Kind {
	case TK_THEN:
		err = p.parseWordedIf(stmt, cond)
	case TK_LBRACE:
		err = p.parseBracketedIf(stmt, cond)
	default:
		err = p.unexpected(tok, "THEN or '{'")
	}
	if err != nil {
		return nil, inContext(err, "if statement")
	}
	return stmt, nil
}

func (p *Parser) parseWordedIf(stmt *sql.IfelseStatement, cond sql.Value) error {
	for {
		if _, err := p.expect(TK_THEN); err != nil {
			return err
		}
		then, err := p.parseValue()
		if err != nil {
			return err
		}
		stmt.Branches = append(stmt.Branches, sql.IfBranch{Cond: cond, Then: then})

		tok := p.next()
		switch tok.Kind {
		case TK_END:
			return nil
		case TK_ELSE:
		default:
			return p.unexpected(tok, "ELSE or END")
		}
		if !p.eat(TK_IF) {
			if stmt.Else, err = p.parseValue(); err != nil {
				return err
			}
			_, err = p.expect(TK_END)
			return err
		}
		if cond, err = p.parseValueField(); err != nil {
			return err
		}
	}
}

func (p *Parser) parseBracketedIf(stmt *sql.IfelseStatement, cond sql.Value) error {
	for {
		open, err := p.expect(TK_LBRACE)
		if err != nil {
			return err
		}
		then, err := p.parseBlockBody(open.Span)
		if err != nil {
			return err
		}
		stmt.Branches = append(stmt.Branches, sql.IfBranch{Cond: cond, Then: then})

		if !p.eat(TK_ELSE) {
			return nil
		}
		if !p.eat(TK_IF) {
			open, err := p.expect(TK_LBRACE)
			if err != nil {
				return err
			}
			stmt.Else, err = p.parseBlockBody(open.Span)
			return err
		}
		if cond, err = p.parseValueField(); err != nil {
			return err
		}
	}
}
