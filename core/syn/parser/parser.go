package parser

import (
	"errors"
	"strings"

	"github.com/FocuswithJustin/quill/core/sql"
)

// Parser implements a recursive descent parser for the query language.
//
// It pulls tokens from a Lexer through a one token lookahead buffer. A few
// ambiguous productions save a checkpoint, try one reading, and back up to
// try the other.
type Parser struct {
	lexer    *Lexer
	peeked   Token
	hasPeek  bool
	lastSpan Span

	// tableAsField makes a bare identifier parse as a field path instead of
	// a table name.
	tableAsField bool
}

// New creates a parser for src.
func New(src []byte) *Parser {
	return &Parser{lexer: NewLexer(src)}
}

// Reset prepares the parser for a new source, keeping allocated buffers.
func (p *Parser) Reset(src []byte) {
	p.lexer.ChangeSource(src)
	p.hasPeek = false
	p.lastSpan = Span{}
	p.tableAsField = false
}

// Lexer returns the lexer the parser reads from.
func (p *Parser) Lexer() *Lexer {
	return p.lexer
}

// ParseQuery parses the whole source as a list of statements.
func (p *Parser) ParseQuery() (sql.Query, error) {
	q, err := p.parseStmtList()
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ParseValue parses the whole source as a single value.
func (p *Parser) ParseValue() (sql.Value, error) {
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return v, nil
}

// ParseIdiom parses the whole source as a field path.
func (p *Parser) ParseIdiom() (sql.Idiom, error) {
	i, err := p.parseIdiom()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return i, nil
}

// ParseThing parses the whole source as a record id, table:id.
func (p *Parser) ParseThing() (*sql.Thing, error) {
	t, err := p.parseThing()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseDuration parses the whole source as a duration such as 1h30m.
func (p *Parser) ParseDuration() (sql.Duration, error) {
	tok, err := p.expect(TK_DURATION)
	if err != nil {
		return 0, err
	}
	if err := p.expectEOF(); err != nil {
		return 0, err
	}
	return p.lexer.Durations[tok.DataIndex], nil
}

// ParseDatetime parses the whole source as the text of a datetime literal,
// without prefix or quotes, e.g. 2024-01-31T12:00:00Z.
func (p *Parser) ParseDatetime() (sql.Datetime, error) {
	src := p.lexer.Text(Span{Len: p.lexer.SourceLen()})
	t, err := parseDatetime([]byte(strings.TrimSpace(string(src))))
	if err != nil {
		return sql.Datetime{}, &ParseError{
			Kind:  InvalidToken,
			Span:  Span{Len: p.lexer.SourceLen()},
			Cause: &LexError{Kind: LexInvalidDatetime, Err: err},
		}
	}
	return sql.Datetime{Time: t}, nil
}

// parseStmtList parses statements separated by semicolons.
func (p *Parser) parseStmtList() (sql.Query, error) {
	q := sql.Query{}
	for {
		for p.eat(TK_SEMI) {
		}
		if p.check(TK_EOF) {
			return q, nil
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		q = append(q, stmt)
		if !p.eat(TK_SEMI) {
			if p.check(TK_EOF) {
				return q, nil
			}
			return nil, p.unexpected(p.peek(), "';'")
		}
	}
}

// =============================================================================
// Token helpers
// =============================================================================

func (p *Parser) peek() Token {
	if !p.hasPeek {
		p.peeked = p.lexer.NextToken()
		p.hasPeek = true
	}
	return p.peeked
}

func (p *Parser) next() Token {
	tok := p.peek()
	p.hasPeek = false
	p.lastSpan = tok.Span
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

// eat consumes the next token if it is of the given kind.
func (p *Parser) eat(kind TokenKind) bool {
	if p.check(kind) {
		p.next()
		return true
	}
	return false
}

// expect consumes a token of the given kind or fails.
func (p *Parser) expect(kind TokenKind) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return tok, p.unexpected(tok, describe(kind))
	}
	return p.next(), nil
}

// expectClosingDelimiter consumes the delimiter closing the one at open.
func (p *Parser) expectClosingDelimiter(kind TokenKind, open Span) error {
	tok := p.peek()
	switch tok.Kind {
	case kind:
		p.next()
		return nil
	case TK_INVALID:
		return p.unexpected(tok, describe(kind))
	}
	return &ParseError{
		Kind:        UnclosedDelimiter,
		Span:        tok.Span,
		Found:       foundText(p.lexer.Text(tok.Span)),
		Expected:    kind.String(),
		ShouldClose: open,
	}
}

func (p *Parser) expectEOF() error {
	if tok := p.peek(); tok.Kind != TK_EOF {
		return p.unexpected(tok, "end of query")
	}
	return nil
}

// dropPeek discards a buffered token so the lexer can read the same source
// differently.
func (p *Parser) dropPeek() {
	if p.hasPeek {
		p.lexer.Backup(p.peeked.Span.Offset)
		p.hasPeek = false
	}
}

// checkpoint is a saved parser position.
type checkpoint struct {
	offset   uint32
	peeked   Token
	hasPeek  bool
	lastSpan Span
}

func (p *Parser) save() checkpoint {
	return checkpoint{
		offset:   p.lexer.Offset(),
		peeked:   p.peeked,
		hasPeek:  p.hasPeek,
		lastSpan: p.lastSpan,
	}
}

func (p *Parser) restore(c checkpoint) {
	p.lexer.moveTo(c.offset)
	p.peeked = c.peeked
	p.hasPeek = c.hasPeek
	p.lastSpan = c.lastSpan
}

// =============================================================================
// Errors
// =============================================================================

// unexpected builds the error for tok appearing where expected was wanted.
func (p *Parser) unexpected(tok Token, expected string) error {
	switch tok.Kind {
	case TK_EOF:
		return &ParseError{Kind: UnexpectedEOF, Span: tok.Span, Expected: expected}
	case TK_INVALID:
		return &ParseError{Kind: InvalidToken, Span: tok.Span, Expected: expected, Cause: p.lexer.Error}
	}
	return &ParseError{
		Kind:     Unexpected,
		Span:     tok.Span,
		Found:    foundText(p.lexer.Text(tok.Span)),
		Expected: expected,
	}
}

func (p *Parser) disallowed(start Span) error {
	return &ParseError{Kind: DisallowedStatement, Span: start.Covers(p.lastSpan)}
}

func (p *Parser) notYetImplemented(tok Token) error {
	return &ParseError{Kind: NotYetImplemented, Span: tok.Span}
}

// inContext records the production err occurred in.
func inContext(err error, frame string) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.withContext(frame)
	}
	return err
}

// describe is the form of a token kind used in "expected" messages.
func describe(kind TokenKind) string {
	if kind.IsLiteral() || kind == TK_EOF {
		return kind.String()
	}
	return "'" + kind.String() + "'"
}

// =============================================================================
// Token values
// =============================================================================

// identText returns the name held by an identifier or keyword token.
func (p *Parser) identText(tok Token) string {
	if tok.Kind == TK_IDENT && tok.HasData {
		return p.lexer.Strings[tok.DataIndex]
	}
	return string(p.lexer.Text(tok.Span))
}

// isName reports whether tok can be used where a name is required.
// Keywords are accepted there since the position is unambiguous.
func isName(tok Token) bool {
	return tok.Kind == TK_IDENT || tok.Kind.IsKeyword()
}

// parseName consumes an identifier or keyword used as a name.
func (p *Parser) parseName() (string, error) {
	tok := p.peek()
	if !isName(tok) {
		return "", p.unexpected(tok, "an identifier")
	}
	p.next()
	return p.identText(tok), nil
}

// parseNames parses a comma separated list of names.
func (p *Parser) parseNames() ([]string, error) {
	var names []string
	for {
		n, err := p.parseName()
		if err != nil {
			return nil, err
		}
		names = append(names, n)
		if !p.eat(TK_COMMA) {
			return names, nil
		}
	}
}

func (p *Parser) parseParamName() (string, error) {
	tok, err := p.expect(TK_PARAM)
	if err != nil {
		return "", err
	}
	return p.lexer.Strings[tok.DataIndex], nil
}

func (p *Parser) parseStrand() (sql.Strand, error) {
	tok, err := p.expect(TK_STRAND)
	if err != nil {
		return "", err
	}
	return sql.Strand(p.lexer.Strings[tok.DataIndex]), nil
}

func (p *Parser) parseDurationToken() (sql.Duration, error) {
	tok, err := p.expect(TK_DURATION)
	if err != nil {
		return 0, err
	}
	return p.lexer.Durations[tok.DataIndex], nil
}

// parseUint parses a non-negative integer literal.
func (p *Parser) parseUint() (uint64, error) {
	tok := p.peek()
	if tok.Kind == TK_NUMBER {
		if n := p.lexer.Numbers[tok.DataIndex]; n.Kind == sql.IntNumber && n.Int >= 0 {
			p.next()
			return uint64(n.Int), nil
		}
	}
	return 0, p.unexpected(tok, "a positive integer")
}
