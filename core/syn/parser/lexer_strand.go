package parser

import (
	"strconv"
	"unicode/utf8"
)

// lexStrand lexes a '...' or "..." string.
func (l *Lexer) lexStrand(quote byte) Token {
	if err := l.lexQuoted(rune(quote), "string"); err != nil {
		return l.invalid(err)
	}
	l.Strings = append(l.Strings, string(l.scratch))
	return l.finishData(TK_STRAND, len(l.Strings)-1)
}

// lexQuoted reads quoted text up to the unescaped close character into the
// scratch buffer, resolving escape sequences.
func (l *Lexer) lexQuoted(close rune, what string) *LexError {
	l.scratch = l.scratch[:0]
	for {
		if _, ok := l.reader.Peek(); !ok {
			return &LexError{Kind: LexUnterminated, What: what}
		}
		ch, err := l.reader.NextChar()
		if err != nil {
			return &LexError{Kind: LexInvalidUTF8, Err: err}
		}
		switch ch {
		case close:
			return nil
		case '\\':
			if lexErr := l.lexEscape(close); lexErr != nil {
				return lexErr
			}
		default:
			l.scratch = utf8.AppendRune(l.scratch, ch)
		}
	}
}

// lexEscape resolves the escape sequence following a backslash.
func (l *Lexer) lexEscape(close rune) *LexError {
	ch, err := l.reader.NextChar()
	if err != nil {
		return &LexError{Kind: LexUnterminated, What: "escape sequence"}
	}
	switch ch {
	case '\\', '\'', '"', '`', '/', '⟩', close:
		l.scratch = utf8.AppendRune(l.scratch, ch)
	case 'b':
		l.scratch = append(l.scratch, '\b')
	case 'f':
		l.scratch = append(l.scratch, '\f')
	case 'n':
		l.scratch = append(l.scratch, '\n')
	case 'r':
		l.scratch = append(l.scratch, '\r')
	case 't':
		l.scratch = append(l.scratch, '\t')
	case 'u':
		return l.lexUnicodeEscape()
	default:
		return &LexError{Kind: LexInvalidEscape, Char: ch}
	}
	return nil
}

// lexUnicodeEscape handles \uXXXX and \u{X...}.
func (l *Lexer) lexUnicodeEscape() *LexError {
	var digits []byte
	if l.reader.Eat('{') {
		for {
			b, ok := l.reader.Next()
			if !ok {
				return &LexError{Kind: LexUnterminated, What: "unicode escape"}
			}
			if b == '}' {
				break
			}
			digits = append(digits, b)
		}
		if len(digits) == 0 || len(digits) > 6 {
			return &LexError{Kind: LexInvalidEscape, Char: 'u'}
		}
	} else {
		for i := 0; i < 4; i++ {
			b, ok := l.reader.Next()
			if !ok {
				return &LexError{Kind: LexUnterminated, What: "unicode escape"}
			}
			digits = append(digits, b)
		}
	}
	n, err := strconv.ParseUint(string(digits), 16, 32)
	if err != nil || !utf8.ValidRune(rune(n)) {
		return &LexError{Kind: LexInvalidEscape, Char: 'u'}
	}
	l.scratch = utf8.AppendRune(l.scratch, rune(n))
	return nil
}

// LexRecordStringClose lexes the quote closing a record string opened by
// TK_OPEN_RECORD_STRING. Whitespace and comments may precede the quote.
func (l *Lexer) LexRecordStringClose() Token {
	if !l.skipTrivia() {
		l.lastOffset = l.reader.Offset()
		return l.invalid(&LexError{Kind: LexUnterminated, What: "block comment"})
	}
	l.lastOffset = l.reader.Offset()
	b, ok := l.reader.Next()
	switch {
	case !ok:
		return l.eofToken()
	case b == l.recordQuote:
		return l.finish(TK_CLOSE_RECORD_STRING)
	}
	l.reader.Backup(l.lastOffset)
	ch, _ := l.reader.NextChar()
	return l.invalid(&LexError{Kind: LexUnexpectedChar, Char: ch})
}
