package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "github.com/FocuswithJustin/quill/core/errors"
	"github.com/FocuswithJustin/quill/core/syn/diag"
)

// ErrorKind classifies parse failures.
type ErrorKind int

const (
	// Unexpected is a token that does not fit the grammar here.
	Unexpected ErrorKind = iota
	// UnexpectedEOF is input ending where more was required.
	UnexpectedEOF
	// UnclosedDelimiter is a missing ), ] or }.
	UnclosedDelimiter
	// Retried is an ambiguous construct for which both readings failed.
	Retried
	// DisallowedStatement is a statement used where it may not appear.
	DisallowedStatement
	// InvalidToken wraps a lexing error.
	InvalidToken
	// NotYetImplemented is syntax the parser recognises but cannot build.
	NotYetImplemented
)

func (k ErrorKind) String() string {
	switch k {
	case Unexpected:
		return "unexpected"
	case UnexpectedEOF:
		return "unexpected eof"
	case UnclosedDelimiter:
		return "unclosed delimiter"
	case Retried:
		return "retried"
	case DisallowedStatement:
		return "disallowed statement"
	case InvalidToken:
		return "invalid token"
	case NotYetImplemented:
		return "not yet implemented"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ParseError is a failure to parse, located in the source by Span.
type ParseError struct {
	Kind ErrorKind
	Span Span

	// Found is the source text of the offending token.
	Found string
	// Expected describes what the parser wanted instead.
	Expected string
	// ShouldClose is the opening delimiter of an UnclosedDelimiter error.
	ShouldClose Span
	// First and Then are the two failed attempts of a Retried error.
	First *ParseError
	Then  *ParseError
	// Cause is the lexer error behind an InvalidToken error.
	Cause *LexError

	// Context names the productions being parsed when the error occurred,
	// innermost first.
	Context []string
}

// message is the one line description without context.
func (e *ParseError) message() string {
	switch e.Kind {
	case Unexpected:
		return fmt.Sprintf("Unexpected token '%s' expected %s", e.Found, e.Expected)
	case UnexpectedEOF:
		return fmt.Sprintf("Query ended early, expected %s", e.Expected)
	case UnclosedDelimiter:
		return fmt.Sprintf("Expected closing delimiter '%s'", e.Expected)
	case Retried:
		return "Could not parse query as either of two interpretations"
	case DisallowedStatement:
		return "This statement is not allowed in this location"
	case InvalidToken:
		return "Could not parse invalid token"
	case NotYetImplemented:
		return "Parser hit not yet implemented path"
	default:
		return "Parse error"
	}
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.message())
	switch e.Kind {
	case InvalidToken:
		if e.Cause != nil {
			sb.WriteString(": ")
			sb.WriteString(e.Cause.Error())
		}
	case Retried:
		sb.WriteString(": first attempt: ")
		sb.WriteString(e.First.message())
		sb.WriteString("; second attempt: ")
		sb.WriteString(e.Then.message())
	}
	if len(e.Context) > 0 {
		sb.WriteString(" (while parsing ")
		sb.WriteString(strings.Join(e.Context, " in "))
		sb.WriteString(")")
	}
	return sb.String()
}

// Unwrap exposes the lexer error of an InvalidToken error.
func (e *ParseError) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

// Is maps parse errors onto the shared sentinel errors.
func (e *ParseError) Is(target error) bool {
	switch target {
	case apperrors.ErrUnsupported:
		return e.Kind == NotYetImplemented
	case apperrors.ErrInvalidInput:
		return e.Kind != NotYetImplemented
	}
	return false
}

// withContext records that the error happened inside the named production.
func (e *ParseError) withContext(frame string) *ParseError {
	e.Context = append(e.Context, frame)
	return e
}

// RenderOn renders the error against the source it came from.
func (e *ParseError) RenderOn(src []byte) diag.RenderedError {
	out := diag.RenderedError{Text: e.message()}
	if len(e.Context) > 0 {
		out.Text += " (while parsing " + strings.Join(e.Context, " in ") + ")"
	}
	out.Snippets = e.snippets(src, "")
	return out
}

func (e *ParseError) snippets(src []byte, prefix string) []diag.Snippet {
	snippet := func(s Span, label string) diag.Snippet {
		return diag.NewSnippet(src, int(s.Offset), int(s.Len), label)
	}
	switch e.Kind {
	case UnclosedDelimiter:
		return []diag.Snippet{
			snippet(e.Span, prefix),
			snippet(e.ShouldClose, "Expected this delimiter to close"),
		}
	case InvalidToken:
		label := prefix
		if e.Cause != nil {
			label += e.Cause.Error()
		}
		return []diag.Snippet{snippet(e.Span, label)}
	case Retried:
		first := e.First.snippets(src, "first attempt: "+e.First.message()+" ")
		then := e.Then.snippets(src, "second attempt: "+e.Then.message()+" ")
		for _, s := range [][]diag.Snippet{first, then} {
			if len(s) > 0 {
				s[0].Label = strings.TrimSpace(s[0].Label)
			}
		}
		return append(first, then...)
	default:
		return []diag.Snippet{snippet(e.Span, strings.TrimSpace(prefix))}
	}
}

// foundText is the quoted form of a token in messages, shortened when long.
func foundText(text []byte) string {
	const limit = 32
	if utf8.RuneCount(text) <= limit {
		return string(text)
	}
	n, i := 0, 0
	for i < len(text) && n < limit {
		_, size := utf8.DecodeRune(text[i:])
		i += size
		n++
	}
	return string(text[:i]) + "..."
}
