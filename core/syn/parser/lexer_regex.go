package parser

import (
	"github.com/FocuswithJustin/quill/core/sql"
)

// RelexRegex lexes the source starting at the '/' token tok as a regex
// literal. The parser calls it when a slash appears in value position.
func (l *Lexer) RelexRegex(tok Token) Token {
	l.reader.Backup(tok.Span.Offset + 1)
	l.lastOffset = tok.Span.Offset
	l.scratch = l.scratch[:0]
	for {
		b, ok := l.reader.Next()
		if !ok {
			return l.invalid(&LexError{Kind: LexUnterminated, What: "regex"})
		}
		switch b {
		case '/':
			re, err := sql.NewRegex(string(l.scratch))
			if err != nil {
				return l.invalid(&LexError{Kind: LexInvalidRegex, Err: err})
			}
			l.Regexes = append(l.Regexes, re)
			return l.finishData(TK_REGEX, len(l.Regexes)-1)
		case '\\':
			n, ok := l.reader.Next()
			if !ok {
				return l.invalid(&LexError{Kind: LexUnterminated, What: "regex"})
			}
			if n != '/' {
				l.scratch = append(l.scratch, '\\')
			}
			l.scratch = append(l.scratch, n)
		default:
			l.scratch = append(l.scratch, b)
		}
	}
}
