package parser

import (
	"strconv"

	"github.com/FocuswithJustin/quill/core/sql"
)

// =============================================================================
// SELECT
// =============================================================================

func (p *Parser) parseSelect() (*sql.SelectStatement, error) {
	p.next()
	stmt := &sql.SelectStatement{}
	if err := p.parseSelectClauses(stmt); err != nil {
		return nil, inContext(err, "select statement")
	}
	return stmt, nil
}

func (p *Parser) parseSelectClauses(stmt *sql.SelectStatement) error {
	var err error
	if stmt.Expr, err = p.parseFields(); err != nil {
		return err
	}
	if p.eat(TK_OMIT) {
		if stmt.Omit, err = p.parseIdioms(); err != nil {
			return err
		}
	}
	if _, err := p.expect(TK_FROM); err != nil {
		return err
	}
	stmt.Only = p.eat(TK_ONLY)
	if stmt.What, err = p.parseWhats(); err != nil {
		return err
	}
	if p.eat(TK_WITH) {
		if p.eat(TK_NOINDEX) {
			stmt.With = &sql.With{NoIndex: true}
		} else {
			if _, err := p.expect(TK_INDEX); err != nil {
				return err
			}
			names, err := p.parseNames()
			if err != nil {
				return err
			}
			stmt.With = &sql.With{Indexes: names}
		}
	}
	if stmt.Cond, err = p.parseCond(); err != nil {
		return err
	}
	if p.eat(TK_SPLIT) {
		p.eat(TK_ON)
		if stmt.Split, err = p.parseIdioms(); err != nil {
			return err
		}
	}
	if p.eat(TK_GROUP) {
		if p.eat(TK_ALL) {
			stmt.GroupAll = true
		} else {
			p.eat(TK_BY)
			if stmt.Group, err = p.parseIdioms(); err != nil {
				return err
			}
		}
	}
	if p.eat(TK_ORDER) {
		p.eat(TK_BY)
		if stmt.Order, err = p.parseOrders(); err != nil {
			return err
		}
	}
	if p.eat(TK_LIMIT) {
		p.eat(TK_BY)
		if stmt.Limit, err = p.parseValue(); err != nil {
			return err
		}
	}
	if p.eat(TK_START) {
		p.eat(TK_AT_KW)
		if stmt.Start, err = p.parseValue(); err != nil {
			return err
		}
	}
	if stmt.Fetch, err = p.parseFetch(); err != nil {
		return err
	}
	if p.eat(TK_VERSION) {
		if stmt.Version, err = p.parseValue(); err != nil {
			return err
		}
	}
	if stmt.Timeout, err = p.parseTimeout(); err != nil {
		return err
	}
	stmt.Parallel = p.eat(TK_PARALLEL)
	if p.eat(TK_EXPLAIN) {
		stmt.Explain = &sql.Explain{Full: p.eat(TK_FULL)}
	}
	return nil
}

// parseOrders parses ORDER BY terms: RAND() or idiom [COLLATE] [NUMERIC]
// [ASC|DESC].
func (p *Parser) parseOrders() ([]sql.Order, error) {
	if p.eat(TK_RAND) {
		open, err := p.expect(TK_LPAREN)
		if err != nil {
			return nil, err
		}
		if err := p.expectClosingDelimiter(TK_RPAREN, open.Span); err != nil {
			return nil, err
		}
		return []sql.Order{{Random: true}}, nil
	}
	var orders []sql.Order
	for {
		idiom, err := p.parseIdiom()
		if err != nil {
			return nil, err
		}
		o := sql.Order{Idiom: idiom}
		o.Collate = p.eat(TK_COLLATE)
		o.Numeric = p.eat(TK_NUMERIC)
		if p.eat(TK_DESC) {
			o.Desc = true
		} else {
			p.eat(TK_ASC)
		}
		orders = append(orders, o)
		if !p.eat(TK_COMMA) {
			return orders, nil
		}
	}
}

// =============================================================================
// CREATE, UPDATE, DELETE
// =============================================================================

func (p *Parser) parseCreate() (*sql.CreateStatement, error) {
	p.next()
	stmt := &sql.CreateStatement{Only: p.eat(TK_ONLY)}
	err := func() error {
		var err error
		if stmt.What, err = p.parseWhats(); err != nil {
			return err
		}
		if stmt.Data, err = p.parseData(); err != nil {
			return err
		}
		stmt.Output, stmt.Timeout, stmt.Parallel, err = p.parseTail()
		return err
	}()
	if err != nil {
		return nil, inContext(err, "create statement")
	}
	return stmt, nil
}

func (p *Parser) parseUpdate() (*sql.UpdateStatement, error) {
	p.next()
	stmt := &sql.UpdateStatement{Only: p.eat(TK_ONLY)}
	err := func() error {
		var err error
		if stmt.What, err = p.parseWhats(); err != nil {
			return err
		}
		if stmt.Data, err = p.parseData(); err != nil {
			return err
		}
		if stmt.Cond, err = p.parseCond(); err != nil {
			return err
		}
		stmt.Output, stmt.Timeout, stmt.Parallel, err = p.parseTail()
		return err
	}()
	if err != nil {
		return nil, inContext(err, "update statement")
	}
	return stmt, nil
}

func (p *Parser) parseDelete() (*sql.DeleteStatement, error) {
	p.next()
	p.eat(TK_FROM)
	stmt := &sql.DeleteStatement{Only: p.eat(TK_ONLY)}
	err := func() error {
		var err error
		if stmt.What, err = p.parseWhats(); err != nil {
			return err
		}
		if stmt.Cond, err = p.parseCond(); err != nil {
			return err
		}
		stmt.Output, stmt.Timeout, stmt.Parallel, err = p.parseTail()
		return err
	}()
	if err != nil {
		return nil, inContext(err, "delete statement")
	}
	return stmt, nil
}

// =============================================================================
// INSERT
// =============================================================================

func (p *Parser) parseInsert() (*sql.InsertStatement, error) {
	p.next()
	stmt := &sql.InsertStatement{Ignore: p.eat(TK_IGNORE)}
	if err := p.parseInsertClauses(stmt); err != nil {
		return nil, inContext(err, "insert statement")
	}
	return stmt, nil
}

func (p *Parser) parseInsertClauses(stmt *sql.InsertStatement) error {
	if _, err := p.expect(TK_INTO); err != nil {
		return err
	}
	if tok := p.peek(); tok.Kind == TK_PARAM {
		p.next()
		stmt.Into = sql.Param(p.lexer.Strings[tok.DataIndex])
	} else {
		name, err := p.parseName()
		if err != nil {
			return err
		}
		stmt.Into = sql.Table(name)
	}

	data, err := p.parseInsertData()
	if err != nil {
		return err
	}
	stmt.Data = data

	if p.eat(TK_ON) {
		for _, kind := range []TokenKind{TK_DUPLICATE, TK_KEY, TK_UPDATE} {
			if _, err := p.expect(kind); err != nil {
				return err
			}
		}
		as, err := p.parseAssignments()
		if err != nil {
			return err
		}
		stmt.Update = &sql.UpdateData{Assignments: as}
	}
	stmt.Output, stmt.Timeout, stmt.Parallel, err = p.parseTail()
	return err
}

// parseInsertData parses either (fields) VALUES (row), ... or a single
// value. A parenthesis may open either form, so the column list is tried
// first and abandoned if it is not followed by VALUES.
func (p *Parser) parseInsertData() (sql.Data, error) {
	if open := p.peek(); open.Kind == TK_LPAREN {
		cp := p.save()
		p.next()
		if cols, err := p.parseIdioms(); err == nil && p.eat(TK_RPAREN) && p.eat(TK_VALUES) {
			return p.parseInsertRows(cols)
		}
		p.restore(cp)
	}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return sql.SingleData{Value: v}, nil
}

// parseInsertRows parses the rows after VALUES. Every row must have one
// value per column.
func (p *Parser) parseInsertRows(cols []sql.Idiom) (sql.Data, error) {
	var data sql.ValuesData
	for {
		open, err := p.expect(TK_LPAREN)
		if err != nil {
			return nil, err
		}
		row := make([]sql.Assignment, 0, len(cols))
		for {
			v, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			if len(row) == len(cols) {
				return nil, &ParseError{
					Kind:     Unexpected,
					Span:     p.lastSpan,
					Found:    foundText(p.lexer.Text(p.lastSpan)),
					Expected: "')' after " + pluralValues(len(cols)),
				}
			}
			row = append(row, sql.Assignment{Place: cols[len(row)], Op: sql.OpEqual, Value: v})
			if !p.eat(TK_COMMA) {
				break
			}
		}
		if len(row) < len(cols) {
			return nil, p.unexpected(p.peek(), pluralValues(len(cols)))
		}
		if err := p.expectClosingDelimiter(TK_RPAREN, open.Span); err != nil {
			return nil, err
		}
		data.Rows = append(data.Rows, row)
		if !p.eat(TK_COMMA) {
			return data, nil
		}
	}
}

func pluralValues(n int) string {
	if n == 1 {
		return "1 value"
	}
	return strconv.Itoa(n) + " values"
}

// =============================================================================
// RELATE
// =============================================================================

func (p *Parser) parseRelate() (*sql.RelateStatement, error) {
	p.next()
	stmt := &sql.RelateStatement{Only: p.eat(TK_ONLY)}
	if err := p.parseRelateClauses(stmt); err != nil {
		return nil, inContext(err, "relate statement")
	}
	return stmt, nil
}

func (p *Parser) parseRelateClauses(stmt *sql.RelateStatement) error {
	first, err := p.parseRelateValue()
	if err != nil {
		return err
	}
	arrow := p.next()
	if arrow.Kind != TK_ARROW_RIGHT && arrow.Kind != TK_ARROW_LEFT {
		return p.unexpected(arrow, "'->' or '<-'")
	}
	if stmt.Kind, err = p.parseRelateKind(); err != nil {
		return err
	}
	if _, err := p.expect(arrow.Kind); err != nil {
		return err
	}
	second, err := p.parseRelateValue()
	if err != nil {
		return err
	}
	if arrow.Kind == TK_ARROW_RIGHT {
		stmt.From, stmt.With = first, second
	} else {
		stmt.From, stmt.With = second, first
	}
	stmt.Uniq = p.eat(TK_UNIQUE)
	if stmt.Data, err = p.parseData(); err != nil {
		return err
	}
	if p.eat(TK_UNIQUE) {
		stmt.Uniq = true
	}
	stmt.Output, stmt.Timeout, stmt.Parallel, err = p.parseTail()
	return err
}

// parseRelateValue parses an endpoint of a RELATE statement. Paths are not
// continued so the arrows belong to the statement.
func (p *Parser) parseRelateValue() (sql.Value, error) {
	tok := p.peek()
	switch tok.Kind {
	case TK_PARAM, TK_LBRACKET, TK_LPAREN, TK_OPEN_RECORD_STRING:
		return p.parsePrimary()
	}
	if isName(tok) {
		return p.parseThing()
	}
	return nil, p.unexpected(tok, "a record id, array, parameter or subquery")
}

// parseRelateKind parses the edge table of a RELATE statement.
func (p *Parser) parseRelateKind() (sql.Value, error) {
	tok := p.peek()
	if tok.Kind == TK_PARAM {
		p.next()
		return sql.Param(p.lexer.Strings[tok.DataIndex]), nil
	}
	if !isName(tok) {
		return nil, p.unexpected(tok, "a table name or parameter")
	}
	p.next()
	if p.eat(TK_COLON) {
		id, err := p.parseRecordID()
		if err != nil {
			return nil, err
		}
		return &sql.Thing{Table: p.identText(tok), ID: id}, nil
	}
	return sql.Table(p.identText(tok)), nil
}
