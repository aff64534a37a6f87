package parser

import (
	"math"

	"github.com/FocuswithJustin/quill/core/sql"
)

// parseValue parses a value in which a bare identifier names a table.
func (p *Parser) parseValue() (sql.Value, error) {
	return p.parseValueAs(false)
}

// parseValueField parses a value in which a bare identifier names a field.
func (p *Parser) parseValueField() (sql.Value, error) {
	return p.parseValueAs(true)
}

func (p *Parser) parseValueAs(asField bool) (sql.Value, error) {
	saved := p.tableAsField
	p.tableAsField = asField
	v, err := p.parseExpr()
	p.tableAsField = saved
	return v, err
}

// parseExpr parses a value keeping the current identifier mode. Nested
// values such as object fields use it.
func (p *Parser) parseExpr() (sql.Value, error) {
	return p.parseBinary(1)
}

// Binding powers, lowest first.
const (
	precOr = iota + 1
	precAnd
	precEquality
	precRelation
	precAdditive
	precMultiplicative
	precPower
)

// infixOp returns the operator and precedence of tok in infix position.
// ok is false when tok does not continue an expression.
func infixOp(kind TokenKind) (op sql.Operator, prec int, ok bool) {
	switch kind {
	case TK_OR, TK_OR_OP:
		return sql.OpOr, precOr, true
	case TK_NCO:
		return sql.OpNco, precOr, true
	case TK_TCO:
		return sql.OpTco, precOr, true
	case TK_AND, TK_AND_OP:
		return sql.OpAnd, precAnd, true
	case TK_EQ, TK_IS:
		return sql.OpEqual, precEquality, true
	case TK_EXACT:
		return sql.OpExact, precEquality, true
	case TK_NE:
		return sql.OpNotEqual, precEquality, true
	case TK_ANY_EQ:
		return sql.OpAnyEqual, precEquality, true
	case TK_ALL_EQ:
		return sql.OpAllEqual, precEquality, true
	case TK_LIKE:
		return sql.OpLike, precEquality, true
	case TK_NOT_LIKE:
		return sql.OpNotLike, precEquality, true
	case TK_ANY_LIKE:
		return sql.OpAnyLike, precEquality, true
	case TK_ALL_LIKE:
		return sql.OpAllLike, precEquality, true
	case TK_LT:
		return sql.OpLessThan, precRelation, true
	case TK_LE:
		return sql.OpLessThanOrEqual, precRelation, true
	case TK_GT:
		return sql.OpMoreThan, precRelation, true
	case TK_GE:
		return sql.OpMoreThanOrEqual, precRelation, true
	case TK_CONTAINS:
		return sql.OpContain, precRelation, true
	case TK_CONTAINSNOT:
		return sql.OpNotContain, precRelation, true
	case TK_CONTAINSALL:
		return sql.OpContainAll, precRelation, true
	case TK_CONTAINSANY:
		return sql.OpContainAny, precRelation, true
	case TK_CONTAINSNONE:
		return sql.OpContainNone, precRelation, true
	case TK_INSIDE, TK_IN:
		return sql.OpInside, precRelation, true
	case TK_NOTINSIDE, TK_NOT:
		return sql.OpNotInside, precRelation, true
	case TK_ALLINSIDE:
		return sql.OpAllInside, precRelation, true
	case TK_ANYINSIDE:
		return sql.OpAnyInside, precRelation, true
	case TK_NONEINSIDE:
		return sql.OpNoneInside, precRelation, true
	case TK_OUTSIDE:
		return sql.OpOutside, precRelation, true
	case TK_INTERSECTS:
		return sql.OpIntersects, precRelation, true
	case TK_PLUS:
		return sql.OpAdd, precAdditive, true
	case TK_MINUS:
		return sql.OpSub, precAdditive, true
	case TK_STAR, TK_MULT:
		return sql.OpMul, precMultiplicative, true
	case TK_SLASH, TK_DIVIDE:
		return sql.OpDiv, precMultiplicative, true
	case TK_POW:
		return sql.OpPow, precPower, true
	}
	return 0, 0, false
}

// parseBinary parses operators binding at least as tightly as minPrec.
// Every level is left associative except **.
func (p *Parser) parseBinary(minPrec int) (sql.Value, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		op, prec, ok := infixOp(tok.Kind)
		if !ok || prec < minPrec {
			return left, nil
		}
		p.next()
		switch tok.Kind {
		case TK_IS:
			if p.eat(TK_NOT) {
				op = sql.OpNotEqual
			}
		case TK_NOT:
			if _, err := p.expect(TK_IN); err != nil {
				return nil, err
			}
		}
		next := prec + 1
		if op == sql.OpPow {
			next = prec
		}
		right, err := p.parseBinary(next)
		if err != nil {
			return nil, err
		}
		left = &sql.Binary{Left: left, Op: op, Right: right}
	}
}

// parsePrefix parses prefix operators, casts and futures.
func (p *Parser) parsePrefix() (sql.Value, error) {
	tok := p.peek()
	switch tok.Kind {
	case TK_BANG:
		p.next()
		v, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		return &sql.Unary{Op: sql.OpNot, Value: v}, nil
	case TK_MINUS:
		p.next()
		if p.eatMinIntMagnitude() {
			return sql.NewInt(math.MinInt64), nil
		}
		v, err := p.parsePrefix()
		if err != nil {
			return nil, err
		}
		if n, ok := v.(sql.Number); ok {
			return n.Neg(), nil
		}
		return &sql.Unary{Op: sql.OpNeg, Value: v}, nil
	case TK_PLUS:
		p.next()
		return p.parsePrefix()
	case TK_LT:
		p.next()
		return p.parseCastOrFuture(tok.Span)
	}
	return p.parsePostfix()
}

// minIntMagnitude is the digits of math.MinInt64, which overflow as a
// positive literal.
const minIntMagnitude = "9223372036854775808"

// eatMinIntMagnitude consumes the literal after a minus sign when the pair
// spells math.MinInt64.
func (p *Parser) eatMinIntMagnitude() bool {
	tok := p.peek()
	if tok.Kind != TK_INVALID || string(p.lexer.Text(tok.Span)) != minIntMagnitude {
		return false
	}
	p.next()
	return true
}

// parseCastOrFuture parses the rest of <kind> value or <future> { ... }.
func (p *Parser) parseCastOrFuture(open Span) (sql.Value, error) {
	if p.eat(TK_FUTURE) {
		if err := p.expectClosingDelimiter(TK_GT, open); err != nil {
			return nil, err
		}
		brace, err := p.expect(TK_LBRACE)
		if err != nil {
			return nil, err
		}
		block, err := p.parseBlockBody(brace.Span)
		if err != nil {
			return nil, inContext(err, "future")
		}
		return &sql.Future{Block: block}, nil
	}
	kind, err := p.parseKind()
	if err != nil {
		return nil, err
	}
	if err := p.expectClosingDelimiter(TK_GT, open); err != nil {
		return nil, err
	}
	v, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	return &sql.Cast{Kind: kind, Value: v}, nil
}

// parsePostfix parses a primary value and any path continuing it.
func (p *Parser) parsePostfix() (sql.Value, error) {
	v, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if !p.continuesIdiom() {
		return v, nil
	}
	var start sql.Idiom
	switch v := v.(type) {
	case sql.Idiom:
		start = v
	case sql.Table:
		start = sql.Idiom{sql.FieldPart(v)}
	default:
		start = sql.Idiom{sql.StartPart{Value: v}}
	}
	return p.parseIdiomParts(start)
}
