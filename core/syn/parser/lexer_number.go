package parser

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/FocuswithJustin/quill/core/sql"
	"github.com/shopspring/decimal"
)

var (
	errDurationOverflow = errors.New("duration overflows 64 bits")
	errDurationUnit     = errors.New("missing or unknown unit")
)

// lexNumber lexes a number or a duration. The first digit was consumed.
//
// When the digits are followed by letters that are neither a number suffix
// nor a chain of duration units, only the numeric part is returned, as an
// invalid token, and the letters are left for the next call.
func (l *Lexer) lexNumber() Token {
	l.eatDigits()
	float := false
	if b, ok := l.reader.Peek(); ok && b == '.' {
		if n, ok := l.reader.PeekAt(1); ok && isDigit(n) {
			l.reader.Skip(1)
			l.eatDigits()
			float = true
		}
	}
	if l.eatExponent() {
		float = true
	}
	numEnd := l.reader.Offset()
	l.eatSuffix()
	end := l.reader.Offset()
	text := l.reader.Span(l.lastOffset, numEnd-l.lastOffset)
	suffix := string(l.reader.Span(numEnd, end-numEnd))

	switch suffix {
	case "":
		if float {
			return l.finishFloat(text)
		}
		return l.finishInt(text)
	case "f":
		return l.finishFloat(text)
	case "dec":
		return l.finishDecimal(text)
	}
	if !float {
		d, err := parseDuration(l.reader.Span(l.lastOffset, end-l.lastOffset))
		switch {
		case err == nil:
			l.Durations = append(l.Durations, d)
			return l.finishData(TK_DURATION, len(l.Durations)-1)
		case errors.Is(err, errDurationOverflow):
			return l.invalid(&LexError{Kind: LexInvalidDuration, Err: err})
		}
	}
	l.reader.Backup(numEnd)
	return l.invalid(&LexError{Kind: LexInvalidSuffix})
}

func (l *Lexer) eatDigits() {
	for {
		b, ok := l.reader.Peek()
		if !ok || !isDigit(b) {
			return
		}
		l.reader.Skip(1)
	}
}

// eatExponent consumes e[+-]digits when it is present in full.
func (l *Lexer) eatExponent() bool {
	b, ok := l.reader.Peek()
	if !ok || (b != 'e' && b != 'E') {
		return false
	}
	i := uint32(1)
	if s, ok := l.reader.PeekAt(1); ok && (s == '+' || s == '-') {
		i = 2
	}
	if d, ok := l.reader.PeekAt(i); !ok || !isDigit(d) {
		return false
	}
	l.reader.Skip(int(i))
	l.eatDigits()
	return true
}

// eatSuffix consumes the identifier characters following a number,
// including the micro sign used by µs.
func (l *Lexer) eatSuffix() {
	for {
		b, ok := l.reader.Peek()
		if !ok {
			return
		}
		if isIdentContinue(b) {
			l.reader.Skip(1)
			continue
		}
		if b == 0xC2 {
			if n, ok := l.reader.PeekAt(1); ok && n == 0xB5 {
				l.reader.Skip(2)
				continue
			}
		}
		return
	}
}

func (l *Lexer) finishInt(text []byte) Token {
	i, err := strconv.ParseInt(string(text), 10, 64)
	if err != nil {
		return l.invalid(&LexError{Kind: LexInvalidNumber, Err: err})
	}
	l.Numbers = append(l.Numbers, sql.NewInt(i))
	return l.finishData(TK_NUMBER, len(l.Numbers)-1)
}

func (l *Lexer) finishFloat(text []byte) Token {
	f, err := strconv.ParseFloat(string(text), 64)
	if err != nil {
		return l.invalid(&LexError{Kind: LexInvalidNumber, Err: err})
	}
	l.Numbers = append(l.Numbers, sql.NewFloat(f))
	return l.finishData(TK_NUMBER, len(l.Numbers)-1)
}

func (l *Lexer) finishDecimal(text []byte) Token {
	d, err := decimal.NewFromString(string(text))
	if err != nil {
		return l.invalid(&LexError{Kind: LexInvalidNumber, Err: err})
	}
	l.Numbers = append(l.Numbers, sql.NewDecimal(d))
	return l.finishData(TK_NUMBER, len(l.Numbers)-1)
}

const (
	day  = 24 * time.Hour
	week = 7 * day
	year = 365 * day
)

// parseDuration parses a chain of magnitude and unit pairs such as 1h30m.
func parseDuration(text []byte) (sql.Duration, error) {
	if len(text) == 0 {
		return 0, errDurationUnit
	}
	var total int64
	for len(text) > 0 {
		i := 0
		for i < len(text) && isDigit(text[i]) {
			i++
		}
		if i == 0 {
			return 0, errDurationUnit
		}
		n, err := strconv.ParseInt(string(text[:i]), 10, 64)
		if err != nil {
			return 0, errDurationOverflow
		}
		unit, size := durationUnit(text[i:])
		if size == 0 {
			return 0, errDurationUnit
		}
		if n > math.MaxInt64/int64(unit) {
			return 0, errDurationOverflow
		}
		part := n * int64(unit)
		if total > math.MaxInt64-part {
			return 0, errDurationOverflow
		}
		total += part
		text = text[i+size:]
	}
	return sql.Duration(total), nil
}

// durationUnit matches the unit at the start of text and returns its size
// in bytes, or zero when there is none.
func durationUnit(text []byte) (time.Duration, int) {
	if len(text) >= 2 {
		switch string(text[:2]) {
		case "ns":
			return time.Nanosecond, 2
		case "us":
			return time.Microsecond, 2
		case "ms":
			return time.Millisecond, 2
		}
	}
	if len(text) >= 3 && string(text[:3]) == "µs" {
		return time.Microsecond, 3
	}
	if len(text) == 0 {
		return 0, 0
	}
	switch text[0] {
	case 's':
		return time.Second, 1
	case 'm':
		return time.Minute, 1
	case 'h':
		return time.Hour, 1
	case 'd':
		return day, 1
	case 'w':
		return week, 1
	case 'y':
		return year, 1
	}
	return 0, 0
}
