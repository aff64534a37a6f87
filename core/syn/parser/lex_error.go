package parser

import (
	"fmt"
)

// LexErrorKind classifies lexing failures.
type LexErrorKind int

const (
	LexUnexpectedChar LexErrorKind = iota
	LexUnexpectedEOF
	LexInvalidUTF8
	LexInvalidEscape
	LexUnterminated
	LexInvalidSuffix
	LexInvalidNumber
	LexInvalidDuration
	LexInvalidDatetime
	LexInvalidUuid
	LexInvalidRegex
)

// LexError explains why the lexer produced an invalid token.
type LexError struct {
	Kind LexErrorKind
	Char rune   // offending character, when there is one
	What string // literal being lexed, e.g. "string" or "block comment"
	Err  error  // underlying error, if any
}

func (e *LexError) Error() string {
	switch e.Kind {
	case LexUnexpectedChar:
		return fmt.Sprintf("unexpected character %q", e.Char)
	case LexUnexpectedEOF:
		return "unexpected end of query"
	case LexInvalidUTF8:
		return "invalid utf-8 in query"
	case LexInvalidEscape:
		return fmt.Sprintf("invalid escape character %q", e.Char)
	case LexUnterminated:
		return fmt.Sprintf("unterminated %s", e.What)
	case LexInvalidSuffix:
		return "invalid number suffix"
	case LexInvalidNumber:
		return fmt.Sprintf("invalid number: %v", e.Err)
	case LexInvalidDuration:
		return fmt.Sprintf("invalid duration: %v", e.Err)
	case LexInvalidDatetime:
		return fmt.Sprintf("invalid datetime: %v", e.Err)
	case LexInvalidUuid:
		return fmt.Sprintf("invalid uuid: %v", e.Err)
	case LexInvalidRegex:
		return fmt.Sprintf("invalid regex: %v", e.Err)
	default:
		return "invalid token"
	}
}

func (e *LexError) Unwrap() error {
	return e.Err
}
