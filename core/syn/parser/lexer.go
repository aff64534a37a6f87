package parser

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"github.com/FocuswithJustin/quill/core/sql"
	"github.com/FocuswithJustin/quill/core/syn/reader"
	"github.com/smasher164/xid"
)

// Lexer turns query source into tokens on demand.
//
// Literal payloads are appended to the exported side tables and tokens
// refer to them by index. The tables only grow until Reset is called.
// The lexer never stops on bad input: it returns a TK_INVALID token and
// records the reason in Error.
type Lexer struct {
	reader     *reader.BytesReader
	lastOffset uint32
	scratch    []byte
	// recordQuote is the quote that opened the current record string.
	recordQuote byte

	Numbers   []sql.Number
	Strings   []string
	Durations []sql.Duration
	Datetimes []sql.Datetime
	Uuids     []sql.Uuid
	Regexes   []*sql.Regex

	// Error is the reason for the most recent TK_INVALID token.
	Error *LexError
}

// NewLexer creates a lexer over src. It panics if src exceeds 4 GiB.
func NewLexer(src []byte) *Lexer {
	return &Lexer{reader: reader.New(src)}
}

// Reset rewinds to the start of the source and clears the side tables,
// keeping their capacity.
func (l *Lexer) Reset() {
	l.reader.Backup(0)
	l.lastOffset = 0
	l.scratch = l.scratch[:0]
	l.Numbers = l.Numbers[:0]
	l.Strings = l.Strings[:0]
	l.Durations = l.Durations[:0]
	l.Datetimes = l.Datetimes[:0]
	l.Uuids = l.Uuids[:0]
	l.Regexes = l.Regexes[:0]
	l.Error = nil
}

// ChangeSource resets the lexer to read src.
func (l *Lexer) ChangeSource(src []byte) {
	l.reader = reader.New(src)
	l.Reset()
}

// Offset returns the position the next token starts from.
func (l *Lexer) Offset() uint32 {
	return l.reader.Offset()
}

// Backup moves the lexer back to offset so the source is lexed again
// from there. Side table entries produced after offset are kept.
func (l *Lexer) Backup(offset uint32) {
	l.reader.Backup(offset)
	l.lastOffset = offset
}

// moveTo repositions the lexer at offset, which may lie ahead of the
// current position when a checkpoint outlives a relex.
func (l *Lexer) moveTo(offset uint32) {
	if cur := l.reader.Offset(); offset > cur {
		l.reader.Skip(int(offset - cur))
	} else {
		l.reader.Backup(offset)
	}
	l.lastOffset = offset
}

// Text returns the source bytes covered by span.
func (l *Lexer) Text(span Span) []byte {
	return l.reader.Span(span.Offset, span.Len)
}

// SourceLen returns the length of the source.
func (l *Lexer) SourceLen() uint32 {
	return l.reader.Len()
}

// NextToken returns the next token. At the end of input it keeps returning
// TK_EOF.
func (l *Lexer) NextToken() Token {
	for {
		l.lastOffset = l.reader.Offset()
		b, ok := l.reader.Next()
		if !ok {
			return l.eofToken()
		}
		if b >= utf8.RuneSelf {
			if tok, skip := l.lexChar(b); !skip {
				return tok
			}
			continue
		}
		switch b {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			continue
		case '#':
			l.skipLineComment()
			continue
		case '-':
			if l.reader.Eat('-') {
				l.skipLineComment()
				continue
			}
			if l.reader.Eat('=') {
				return l.finish(TK_DEC)
			}
			if l.reader.Eat('>') {
				return l.finish(TK_ARROW_RIGHT)
			}
			return l.finish(TK_MINUS)
		case '/':
			if l.reader.Eat('/') {
				l.skipLineComment()
				continue
			}
			if l.reader.Eat('*') {
				if !l.skipBlockComment() {
					return l.invalid(&LexError{Kind: LexUnterminated, What: "block comment"})
				}
				continue
			}
			return l.finish(TK_SLASH)
		}
		return l.lexASCII(b)
	}
}

// lexASCII lexes a token starting with the ASCII byte b, which has been
// consumed already.
func (l *Lexer) lexASCII(b byte) Token {
	switch b {
	case '(':
		return l.finish(TK_LPAREN)
	case ')':
		return l.finish(TK_RPAREN)
	case '{':
		return l.finish(TK_LBRACE)
	case '}':
		return l.finish(TK_RBRACE)
	case '[':
		return l.finish(TK_LBRACKET)
	case ']':
		return l.finish(TK_RBRACKET)
	case ';':
		return l.finish(TK_SEMI)
	case ',':
		return l.finish(TK_COMMA)
	case '@':
		return l.finish(TK_AT)
	case '~':
		return l.finish(TK_LIKE)
	case '.':
		if l.reader.Eat('.') {
			if l.reader.Eat('.') {
				return l.finish(TK_ELLIPSIS)
			}
			return l.finish(TK_DOTDOT)
		}
		return l.finish(TK_DOT)
	case ':':
		if l.reader.Eat(':') {
			return l.finish(TK_PATHSEP)
		}
		return l.finish(TK_COLON)
	case '|':
		if l.reader.Eat('|') {
			return l.finish(TK_OR_OP)
		}
		return l.finish(TK_VBAR)
	case '&':
		if l.reader.Eat('&') {
			return l.finish(TK_AND_OP)
		}
		return l.invalid(&LexError{Kind: LexUnexpectedChar, Char: '&'})
	case '!':
		if l.reader.Eat('=') {
			return l.finish(TK_NE)
		}
		if l.reader.Eat('~') {
			return l.finish(TK_NOT_LIKE)
		}
		return l.finish(TK_BANG)
	case '?':
		switch {
		case l.reader.Eat('?'):
			return l.finish(TK_NCO)
		case l.reader.Eat(':'):
			return l.finish(TK_TCO)
		case l.reader.Eat('~'):
			return l.finish(TK_ANY_LIKE)
		case l.reader.Eat('='):
			return l.finish(TK_ANY_EQ)
		}
		return l.finish(TK_QUESTION)
	case '*':
		switch {
		case l.reader.Eat('*'):
			return l.finish(TK_POW)
		case l.reader.Eat('='):
			return l.finish(TK_ALL_EQ)
		case l.reader.Eat('~'):
			return l.finish(TK_ALL_LIKE)
		}
		return l.finish(TK_STAR)
	case '+':
		if l.reader.Eat('=') {
			return l.finish(TK_INC)
		}
		if n, ok := l.reader.Peek(); ok && n == '?' {
			if m, ok := l.reader.PeekAt(1); ok && m == '=' {
				l.reader.Skip(2)
				return l.finish(TK_EXT)
			}
		}
		return l.finish(TK_PLUS)
	case '<':
		if l.reader.Eat('=') {
			return l.finish(TK_LE)
		}
		if l.reader.Eat('-') {
			if l.reader.Eat('>') {
				return l.finish(TK_ARROW_BOTH)
			}
			return l.finish(TK_ARROW_LEFT)
		}
		return l.finish(TK_LT)
	case '>':
		if l.reader.Eat('=') {
			return l.finish(TK_GE)
		}
		return l.finish(TK_GT)
	case '=':
		if l.reader.Eat('=') {
			return l.finish(TK_EXACT)
		}
		return l.finish(TK_EQ)
	case '$':
		return l.lexParam()
	case '\'', '"':
		return l.lexStrand(b)
	case '`':
		return l.lexQuotedIdent('`')
	}
	switch {
	case isDigit(b):
		return l.lexNumber()
	case isIdentStart(b):
		return l.lexIdentOrPrefixed(b)
	}
	return l.invalid(&LexError{Kind: LexUnexpectedChar, Char: rune(b)})
}

// lexChar handles a token starting with a non-ASCII character. skip is
// true when the character was whitespace.
func (l *Lexer) lexChar(lead byte) (tok Token, skip bool) {
	ch, err := l.reader.Complete(lead)
	if err != nil {
		kind := LexInvalidUTF8
		if errors.Is(err, reader.ErrUnexpectedEOF) {
			kind = LexUnexpectedEOF
		}
		return l.invalid(&LexError{Kind: kind, Err: err}), false
	}
	switch {
	case ch == '×':
		return l.finish(TK_MULT), false
	case ch == '÷':
		return l.finish(TK_DIVIDE), false
	case ch == '⟨':
		return l.lexQuotedIdent('⟩'), false
	case unicode.IsSpace(ch) || ch == '\uFEFF':
		return Token{}, true
	case xid.Start(ch):
		return l.lexIdent(), false
	}
	return l.invalid(&LexError{Kind: LexUnexpectedChar, Char: ch}), false
}

// skipLineComment consumes up to and including the next newline.
func (l *Lexer) skipLineComment() {
	for {
		b, ok := l.reader.Next()
		if !ok || b == '\n' {
			return
		}
	}
}

// skipBlockComment consumes the rest of a /* */ comment. It reports false
// when the source ends first.
func (l *Lexer) skipBlockComment() bool {
	for {
		b, ok := l.reader.Next()
		if !ok {
			return false
		}
		if b == '*' && l.reader.Eat('/') {
			return true
		}
	}
}

// skipTrivia consumes whitespace and comments. It reports false when an
// unterminated block comment was found.
func (l *Lexer) skipTrivia() bool {
	for {
		b, ok := l.reader.Peek()
		if !ok {
			return true
		}
		switch b {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			l.reader.Skip(1)
		case '#':
			l.skipLineComment()
		case '-':
			if n, ok := l.reader.PeekAt(1); !ok || n != '-' {
				return true
			}
			l.skipLineComment()
		case '/':
			n, ok := l.reader.PeekAt(1)
			switch {
			case ok && n == '/':
				l.skipLineComment()
			case ok && n == '*':
				l.reader.Skip(2)
				if !l.skipBlockComment() {
					return false
				}
			default:
				return true
			}
		default:
			return true
		}
	}
}

func (l *Lexer) span() Span {
	return Span{Offset: l.lastOffset, Len: l.reader.Offset() - l.lastOffset}
}

func (l *Lexer) finish(kind TokenKind) Token {
	return Token{Kind: kind, Span: l.span()}
}

func (l *Lexer) finishData(kind TokenKind, index int) Token {
	return Token{Kind: kind, Span: l.span(), DataIndex: uint32(index), HasData: true}
}

func (l *Lexer) invalid(err *LexError) Token {
	l.Error = err
	return l.finish(TK_INVALID)
}

// eofToken points at the last byte of the source so diagnostics have
// something to underline.
func (l *Lexer) eofToken() Token {
	n := l.reader.Len()
	if n == 0 {
		return Token{Kind: TK_EOF}
	}
	off := l.lastOffset
	if off > 0 {
		off--
	}
	if off >= n {
		off = n - 1
	}
	return Token{Kind: TK_EOF, Span: Span{Offset: off, Len: 1}}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentContinue(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}
