package parser

import (
	"errors"
	"fmt"
	"time"

	"github.com/FocuswithJustin/quill/core/sql"
	"github.com/google/uuid"
)

// lexDatetime lexes the body of t"..." or d"...". The prefix and the opening
// quote were consumed.
func (l *Lexer) lexDatetime(quote byte) Token {
	text, lexErr := l.lexRaw(quote, "datetime")
	if lexErr != nil {
		return l.invalid(lexErr)
	}
	t, err := parseDatetime(text)
	if err != nil {
		return l.invalid(&LexError{Kind: LexInvalidDatetime, Err: err})
	}
	l.Datetimes = append(l.Datetimes, sql.Datetime{Time: t})
	return l.finishData(TK_DATETIME, len(l.Datetimes)-1)
}

// lexUuid lexes the body of u"...". The prefix and the opening quote were
// consumed.
func (l *Lexer) lexUuid(quote byte) Token {
	text, lexErr := l.lexRaw(quote, "uuid")
	if lexErr != nil {
		return l.invalid(lexErr)
	}
	u, err := parseUuid(text)
	if err != nil {
		return l.invalid(&LexError{Kind: LexInvalidUuid, Err: err})
	}
	l.Uuids = append(l.Uuids, sql.Uuid(u))
	return l.finishData(TK_UUID, len(l.Uuids)-1)
}

// lexRaw returns the bytes up to the closing quote, which is consumed.
// Escapes are not recognised.
func (l *Lexer) lexRaw(quote byte, what string) ([]byte, *LexError) {
	start := l.reader.Offset()
	for {
		b, ok := l.reader.Next()
		if !ok {
			return nil, &LexError{Kind: LexUnterminated, What: what}
		}
		if b == quote {
			return l.reader.Span(start, l.reader.Offset()-start-1), nil
		}
	}
}

var errUuidFormat = errors.New("expected 8-4-4-4-12 hexadecimal form")

// parseUuid accepts only the canonical hyphenated form.
func parseUuid(text []byte) (uuid.UUID, error) {
	if len(text) != 36 {
		return uuid.UUID{}, errUuidFormat
	}
	for i, b := range text {
		switch i {
		case 8, 13, 18, 23:
			if b != '-' {
				return uuid.UUID{}, errUuidFormat
			}
		default:
			if !isHex(b) {
				return uuid.UUID{}, errUuidFormat
			}
		}
	}
	return uuid.ParseBytes(text)
}

func isHex(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// datetimeScanner walks the fixed layout of a datetime literal.
type datetimeScanner struct {
	text []byte
	pos  int
	err  error
}

func (s *datetimeScanner) fail(format string, args ...any) {
	if s.err == nil {
		s.err = fmt.Errorf("at offset %d: "+format, append([]any{s.pos}, args...)...)
	}
}

func (s *datetimeScanner) done() bool {
	return s.pos >= len(s.text)
}

func (s *datetimeScanner) peek() byte {
	if s.done() {
		return 0
	}
	return s.text[s.pos]
}

// digits reads exactly n digits.
func (s *datetimeScanner) digits(n int, what string) int {
	if s.err != nil {
		return 0
	}
	v := 0
	for i := 0; i < n; i++ {
		if s.done() || !isDigit(s.text[s.pos]) {
			s.fail("expected %d digit %s", n, what)
			return 0
		}
		v = v*10 + int(s.text[s.pos]-'0')
		s.pos++
	}
	return v
}

func (s *datetimeScanner) expect(b byte) {
	if s.err != nil {
		return
	}
	if s.peek() != b {
		s.fail("expected %q", b)
		return
	}
	s.pos++
}

// inRange checks a component against its bounds.
func (s *datetimeScanner) inRange(v, lo, hi int, what string) {
	if s.err == nil && (v < lo || v > hi) {
		s.fail("%s %d out of range", what, v)
	}
}

// parseDatetime parses YYYY-MM-DD[THH:MM:SS[.frac]][Z|±HH:MM] and returns the
// instant in UTC. Fractions are read to nanosecond precision; further
// digits are ignored.
func parseDatetime(text []byte) (time.Time, error) {
	s := &datetimeScanner{text: text}
	yr := s.digits(4, "year")
	s.expect('-')
	month := s.digits(2, "month")
	s.inRange(month, 1, 12, "month")
	s.expect('-')
	dayOfMonth := s.digits(2, "day")
	s.inRange(dayOfMonth, 1, 31, "day")
	var hour, minute, second, nanos int
	loc := time.UTC
	if s.err == nil && !s.done() {
		if b := s.peek(); b != 'T' && b != 't' && b != ' ' {
			s.fail("expected 'T'")
		}
		s.pos++
		hour = s.digits(2, "hour")
		s.inRange(hour, 0, 23, "hour")
		s.expect(':')
		minute = s.digits(2, "minute")
		s.inRange(minute, 0, 59, "minute")
		s.expect(':')
		second = s.digits(2, "second")
		s.inRange(second, 0, 59, "second")
		if s.err == nil && s.peek() == '.' {
			s.pos++
			nanos = s.fraction()
		}
		loc = s.zone()
	}
	if s.err == nil && !s.done() {
		s.fail("unexpected trailing characters")
	}
	if s.err != nil {
		return time.Time{}, s.err
	}
	t := time.Date(yr, time.Month(month), dayOfMonth, hour, minute, second, nanos, loc)
	if t.Day() != dayOfMonth {
		return time.Time{}, fmt.Errorf("day %d out of range for month %d", dayOfMonth, month)
	}
	return t.UTC(), nil
}

// fraction reads the digits after the decimal point, right padding to nine
// digits and dropping anything past the ninth.
func (s *datetimeScanner) fraction() int {
	n, count := 0, 0
	for !s.done() && isDigit(s.peek()) {
		if count < 9 {
			n = n*10 + int(s.peek()-'0')
			count++
		}
		s.pos++
	}
	if count == 0 {
		s.fail("expected fractional seconds")
		return 0
	}
	for ; count < 9; count++ {
		n *= 10
	}
	return n
}

// zone reads an optional Z or ±HH:MM offset.
func (s *datetimeScanner) zone() *time.Location {
	if s.err != nil || s.done() {
		return time.UTC
	}
	switch b := s.peek(); b {
	case 'Z', 'z':
		s.pos++
		return time.UTC
	case '+', '-':
		s.pos++
		hh := s.digits(2, "offset hour")
		s.inRange(hh, 0, 23, "offset hour")
		s.expect(':')
		mm := s.digits(2, "offset minute")
		s.inRange(mm, 0, 59, "offset minute")
		offset := hh*3600 + mm*60
		if b == '-' {
			offset = -offset
		}
		return time.FixedZone("", offset)
	}
	s.fail("expected time zone")
	return time.UTC
}
