package parser

import (
	"unicode/utf8"

	"github.com/smasher164/xid"
	"golang.org/x/text/unicode/norm"
)

// lexIdentOrPrefixed handles a word starting with an ASCII letter. A single
// r, u, t or d directly followed by a quote opens a prefixed literal.
func (l *Lexer) lexIdentOrPrefixed(first byte) Token {
	if q, ok := l.reader.Peek(); ok && (q == '"' || q == '\'') {
		switch first {
		case 'r':
			l.reader.Skip(1)
			l.recordQuote = q
			return l.finish(TK_OPEN_RECORD_STRING)
		case 'u':
			l.reader.Skip(1)
			return l.lexUuid(q)
		case 't', 'd':
			l.reader.Skip(1)
			return l.lexDatetime(q)
		}
	}
	return l.lexIdent()
}

// eatIdentContinue consumes identifier characters and reports whether any
// of them were non-ASCII.
func (l *Lexer) eatIdentContinue() (unicode bool) {
	for {
		b, ok := l.reader.Peek()
		if !ok {
			return unicode
		}
		if b < utf8.RuneSelf {
			if !isIdentContinue(b) {
				return unicode
			}
			l.reader.Skip(1)
			continue
		}
		ch, size, ok := l.reader.PeekChar()
		if !ok || !xid.Continue(ch) {
			return unicode
		}
		l.reader.Skip(size)
		unicode = true
	}
}

// lexIdent finishes an identifier whose first character was consumed.
// Plain ASCII identifiers carry no data and are read back from the source.
func (l *Lexer) lexIdent() Token {
	unicode := l.eatIdentContinue()
	text := l.reader.Span(l.lastOffset, l.reader.Offset()-l.lastOffset)
	if !unicode && text[0] < utf8.RuneSelf {
		if kind, ok := lookupKeyword(text); ok {
			return l.finish(kind)
		}
		return l.finish(TK_IDENT)
	}
	l.Strings = append(l.Strings, norm.NFC.String(string(text)))
	return l.finishData(TK_IDENT, len(l.Strings)-1)
}

// lexParam lexes $name. The name is stored without the '$'. A lone '$'
// is returned as TK_DOLLAR.
func (l *Lexer) lexParam() Token {
	start := l.reader.Offset()
	l.eatIdentContinue()
	if l.reader.Offset() == start {
		return l.finish(TK_DOLLAR)
	}
	name := l.reader.Span(start, l.reader.Offset()-start)
	l.Strings = append(l.Strings, norm.NFC.String(string(name)))
	return l.finishData(TK_PARAM, len(l.Strings)-1)
}

// lexQuotedIdent lexes `ident` or ⟨ident⟩. The opening delimiter has been
// consumed. The result is always an identifier, never a keyword.
func (l *Lexer) lexQuotedIdent(close rune) Token {
	if err := l.lexQuoted(close, "identifier"); err != nil {
		return l.invalid(err)
	}
	l.Strings = append(l.Strings, norm.NFC.String(string(l.scratch)))
	return l.finishData(TK_IDENT, len(l.Strings)-1)
}
