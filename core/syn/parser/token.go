// Package parser implements tokenization and parsing of the query language.
package parser

import (
	"strconv"
)

// TokenKind is the type of a token.
type TokenKind int

// Token kinds. Keyword kinds sit between tkKeywordStart and tkKeywordEnd.
const (
	// Special tokens
	TK_EOF TokenKind = iota
	TK_INVALID

	// Literals
	TK_IDENT
	TK_PARAM
	TK_NUMBER
	TK_STRAND
	TK_DURATION
	TK_DATETIME
	TK_UUID
	TK_REGEX
	TK_OPEN_RECORD_STRING
	TK_CLOSE_RECORD_STRING

	// Delimiters
	TK_LPAREN
	TK_RPAREN
	TK_LBRACE
	TK_RBRACE
	TK_LBRACKET
	TK_RBRACKET
	TK_SEMI
	TK_COMMA
	TK_DOT
	TK_DOTDOT
	TK_ELLIPSIS
	TK_COLON
	TK_PATHSEP
	TK_VBAR
	TK_AT
	TK_QUESTION
	TK_DOLLAR

	// Arithmetic
	TK_PLUS
	TK_MINUS
	TK_STAR
	TK_SLASH
	TK_POW
	TK_MULT
	TK_DIVIDE

	// Comparison
	TK_LT
	TK_GT
	TK_LE
	TK_GE
	TK_EQ
	TK_EXACT
	TK_NE
	TK_ANY_EQ
	TK_ALL_EQ
	TK_LIKE
	TK_NOT_LIKE
	TK_ANY_LIKE
	TK_ALL_LIKE

	// Logical
	TK_BANG
	TK_OR_OP
	TK_AND_OP
	TK_NCO
	TK_TCO

	// Graph arrows
	TK_ARROW_LEFT
	TK_ARROW_RIGHT
	TK_ARROW_BOTH

	// Assignment
	TK_INC
	TK_DEC
	TK_EXT

	tkKeywordStart

	// Keywords
	TK_AFTER
	TK_ALL
	TK_ALLINSIDE
	TK_ANALYZE
	TK_ANALYZER
	TK_AND
	TK_ANYINSIDE
	TK_AS
	TK_ASC
	TK_ASSERT
	TK_AT_KW
	TK_BEFORE
	TK_BEGIN
	TK_BREAK
	TK_BY
	TK_CANCEL
	TK_CHANGEFEED
	TK_CHANGES
	TK_COLLATE
	TK_COLUMNS
	TK_COMMENT
	TK_COMMIT
	TK_CONTAINS
	TK_CONTAINSALL
	TK_CONTAINSANY
	TK_CONTAINSNONE
	TK_CONTAINSNOT
	TK_CONTENT
	TK_CONTINUE
	TK_CREATE
	TK_DATABASE
	TK_DB
	TK_DEFAULT
	TK_DEFINE
	TK_DELETE
	TK_DESC
	TK_DIFF
	TK_DROP
	TK_DUPLICATE
	TK_ELSE
	TK_END
	TK_EVENT
	TK_EXPLAIN
	TK_FALSE
	TK_FETCH
	TK_FIELD
	TK_FIELDS
	TK_FLEXIBLE
	TK_FN
	TK_FOR
	TK_FROM
	TK_FULL
	TK_FUNCTION
	TK_FUTURE
	TK_GROUP
	TK_IF
	TK_IGNORE
	TK_IN
	TK_INDEX
	TK_INFO
	TK_INSERT
	TK_INSIDE
	TK_INTERSECTS
	TK_INTO
	TK_IS
	TK_KEY
	TK_KILL
	TK_LET
	TK_LIMIT
	TK_LIVE
	TK_MERGE
	TK_ML
	TK_MODEL
	TK_NAMESPACE
	TK_NOINDEX
	TK_NONE
	TK_NONEINSIDE
	TK_NOT
	TK_NOTINSIDE
	TK_NS
	TK_NULL
	TK_NUMERIC
	TK_OMIT
	TK_ON
	TK_ONLY
	TK_OPTION
	TK_OR
	TK_ORDER
	TK_OUTSIDE
	TK_PARALLEL
	TK_PARAM_KW
	TK_PATCH
	TK_PERMISSIONS
	TK_RAND
	TK_RELATE
	TK_REMOVE
	TK_REPLACE
	TK_RETURN
	TK_ROOT
	TK_SCHEMAFULL
	TK_SCHEMALESS
	TK_SCOPE
	TK_SELECT
	TK_SET
	TK_SHOW
	TK_SINCE
	TK_SLEEP
	TK_SPLIT
	TK_START
	TK_TABLE
	TK_THEN
	TK_THROW
	TK_TIMEOUT
	TK_TOKEN
	TK_TRANSACTION
	TK_TRUE
	TK_TYPE
	TK_UNIQUE
	TK_UNSET
	TK_UPDATE
	TK_USE
	TK_USER
	TK_VALUE
	TK_VALUES
	TK_VERSION
	TK_WHEN
	TK_WHERE
	TK_WITH

	tkKeywordEnd
)

var punctText = map[TokenKind]string{
	TK_LPAREN:      "(",
	TK_RPAREN:      ")",
	TK_LBRACE:      "{",
	TK_RBRACE:      "}",
	TK_LBRACKET:    "[",
	TK_RBRACKET:    "]",
	TK_SEMI:        ";",
	TK_COMMA:       ",",
	TK_DOT:         ".",
	TK_DOTDOT:      "..",
	TK_ELLIPSIS:    "...",
	TK_COLON:       ":",
	TK_PATHSEP:     "::",
	TK_VBAR:        "|",
	TK_AT:          "@",
	TK_QUESTION:    "?",
	TK_DOLLAR:      "$",
	TK_PLUS:        "+",
	TK_MINUS:       "-",
	TK_STAR:        "*",
	TK_SLASH:       "/",
	TK_POW:         "**",
	TK_MULT:        "×",
	TK_DIVIDE:      "÷",
	TK_LT:          "<",
	TK_GT:          ">",
	TK_LE:          "<=",
	TK_GE:          ">=",
	TK_EQ:          "=",
	TK_EXACT:       "==",
	TK_NE:          "!=",
	TK_ANY_EQ:      "?=",
	TK_ALL_EQ:      "*=",
	TK_LIKE:        "~",
	TK_NOT_LIKE:    "!~",
	TK_ANY_LIKE:    "?~",
	TK_ALL_LIKE:    "*~",
	TK_BANG:        "!",
	TK_OR_OP:       "||",
	TK_AND_OP:      "&&",
	TK_NCO:         "??",
	TK_TCO:         "?:",
	TK_ARROW_LEFT:  "<-",
	TK_ARROW_RIGHT: "->",
	TK_ARROW_BOTH:  "<->",
	TK_INC:         "+=",
	TK_DEC:         "-=",
	TK_EXT:         "+?=",
}

// String returns the source form of punctuation and keywords, and a
// description for every other kind.
func (k TokenKind) String() string {
	switch k {
	case TK_EOF:
		return "end of query"
	case TK_INVALID:
		return "invalid token"
	case TK_IDENT:
		return "an identifier"
	case TK_PARAM:
		return "a parameter"
	case TK_NUMBER:
		return "a number"
	case TK_STRAND:
		return "a string"
	case TK_DURATION:
		return "a duration"
	case TK_DATETIME:
		return "a datetime"
	case TK_UUID:
		return "a uuid"
	case TK_REGEX:
		return "a regex"
	case TK_OPEN_RECORD_STRING:
		return `r"`
	case TK_CLOSE_RECORD_STRING:
		return `"`
	}
	if s, ok := punctText[k]; ok {
		return s
	}
	if s, ok := keywordNames[k]; ok {
		return s
	}
	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// IsKeyword reports whether k is a reserved word.
func (k TokenKind) IsKeyword() bool {
	return k > tkKeywordStart && k < tkKeywordEnd
}

// IsLiteral reports whether k carries a literal value.
func (k TokenKind) IsLiteral() bool {
	return k >= TK_IDENT && k <= TK_REGEX
}

// HasData reports whether tokens of kind k may index a side table.
func (k TokenKind) HasData() bool {
	switch k {
	case TK_IDENT, TK_PARAM, TK_NUMBER, TK_STRAND, TK_DURATION, TK_DATETIME, TK_UUID, TK_REGEX:
		return true
	}
	return false
}

// Span is a byte range in the source.
type Span struct {
	Offset uint32
	Len    uint32
}

// End returns the offset just past the span.
func (s Span) End() uint32 {
	return s.Offset + s.Len
}

// Covers returns the smallest span containing both s and o.
func (s Span) Covers(o Span) Span {
	start, end := s.Offset, s.End()
	if o.Offset < start {
		start = o.Offset
	}
	if o.End() > end {
		end = o.End()
	}
	return Span{Offset: start, Len: end - start}
}

// Token is a fixed size token. Literal payloads live in the lexer's side
// tables and are addressed by DataIndex when HasData is set.
type Token struct {
	Kind      TokenKind
	Span      Span
	DataIndex uint32
	HasData   bool
}
