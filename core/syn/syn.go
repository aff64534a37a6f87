// Package syn parses query text into the AST of package sql.
//
// Each function parses one complete source string. A failure is always a
// *parser.ParseError; Render turns it into a diagnostic that points at the
// offending source.
package syn

import (
	"errors"

	apperrors "github.com/FocuswithJustin/quill/core/errors"
	"github.com/FocuswithJustin/quill/core/sql"
	"github.com/FocuswithJustin/quill/core/syn/diag"
	"github.com/FocuswithJustin/quill/core/syn/parser"
)

// Parse parses a query: statements separated by semicolons.
func Parse(src string) (sql.Query, error) {
	return parser.New([]byte(src)).ParseQuery()
}

// Value parses a single value such as {a: 1} or 1 + 2.
func Value(src string) (sql.Value, error) {
	return parser.New([]byte(src)).ParseValue()
}

// Idiom parses a field path such as a.b[0]->edge.
func Idiom(src string) (sql.Idiom, error) {
	return parser.New([]byte(src)).ParseIdiom()
}

// Thing parses a record id such as person:tobie.
func Thing(src string) (*sql.Thing, error) {
	return parser.New([]byte(src)).ParseThing()
}

// Duration parses a duration such as 1h30m.
func Duration(src string) (sql.Duration, error) {
	return parser.New([]byte(src)).ParseDuration()
}

// Datetime parses the text of a datetime without prefix or quotes.
func Datetime(src string) (sql.Datetime, error) {
	return parser.New([]byte(src)).ParseDatetime()
}

// Token is one lexed token as reported by Tokenize.
type Token struct {
	Kind   string `json:"kind"`
	Offset uint32 `json:"offset"`
	Len    uint32 `json:"len"`
	Text   string `json:"text"`
	Error  string `json:"error,omitempty"`
}

// Tokenize lexes src without parsing it and returns every token before the
// end of input. Tokens whose meaning depends on the parser, such as regexes
// and record string bodies, are reported as the plain lexer sees them.
func Tokenize(src string) []Token {
	lex := parser.NewLexer([]byte(src))
	var toks []Token
	for {
		tok := lex.NextToken()
		if tok.Kind == parser.TK_EOF {
			return toks
		}
		t := Token{
			Kind:   kindName(tok.Kind),
			Offset: tok.Span.Offset,
			Len:    tok.Span.Len,
			Text:   string(lex.Text(tok.Span)),
		}
		if tok.Kind == parser.TK_INVALID && lex.Error != nil {
			t.Error = lex.Error.Error()
		}
		toks = append(toks, t)
	}
}

func kindName(k parser.TokenKind) string {
	switch k {
	case parser.TK_INVALID:
		return "invalid"
	case parser.TK_IDENT:
		return "ident"
	case parser.TK_PARAM:
		return "param"
	case parser.TK_NUMBER:
		return "number"
	case parser.TK_STRAND:
		return "strand"
	case parser.TK_DURATION:
		return "duration"
	case parser.TK_DATETIME:
		return "datetime"
	case parser.TK_UUID:
		return "uuid"
	case parser.TK_REGEX:
		return "regex"
	case parser.TK_OPEN_RECORD_STRING, parser.TK_CLOSE_RECORD_STRING:
		return "record_string"
	}
	if k.IsKeyword() {
		return "keyword"
	}
	return "punct"
}

// Render formats err against the source it came from. Errors that are not
// parse errors are returned as their message.
func Render(err error, src string) string {
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		return pe.RenderOn([]byte(src)).String()
	}
	return err.Error()
}

// Attribute wraps a parse failure of src in a SourceError naming where the
// query came from. A nil err stays nil.
func Attribute(name, src string, err error) error {
	if err == nil {
		return nil
	}
	var pe *parser.ParseError
	if !errors.As(err, &pe) {
		return apperrors.NewSource(name, 0, 0, "", err)
	}
	loc := diag.LocationOf([]byte(src), int(pe.Span.Offset))
	return apperrors.NewSource(name, loc.Line, loc.Column, pe.RenderOn([]byte(src)).String(), err)
}
