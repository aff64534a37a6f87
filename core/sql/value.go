package sql

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Value is any expression the parser can produce.
type Value interface {
	Node
	value()
}

// None is the absence of a value.
type None struct{}

// Null is an explicit null.
type Null struct{}

// Bool is a boolean literal.
type Bool bool

// Strand is a string literal.
type Strand string

// Param references a bound variable. The name excludes the leading '$'.
type Param string

// Table names a table.
type Table string

// Array is an ordered list of values. Elements are always owned by the array.
type Array []Value

func (None) value()   {}
func (Null) value()   {}
func (Bool) value()   {}
func (Strand) value() {}
func (Param) value()  {}
func (Table) value()  {}
func (Array) value()  {}

func (None) String() string { return "NONE" }
func (Null) String() string { return "NULL" }

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (s Strand) String() string { return QuoteString(string(s)) }
func (p Param) String() string  { return "$" + string(p) }
func (t Table) String() string  { return EscapeIdent(string(t)) }

func (a Array) String() string {
	return "[" + joinValues(a) + "]"
}

// Duration is a span of time. A year is 365 days.
type Duration time.Duration

func (Duration) value() {}

const (
	day  = 24 * time.Hour
	week = 7 * day
	year = 365 * day
)

var durationUnits = []struct {
	unit time.Duration
	name string
}{
	{year, "y"},
	{week, "w"},
	{day, "d"},
	{time.Hour, "h"},
	{time.Minute, "m"},
	{time.Second, "s"},
	{time.Millisecond, "ms"},
	{time.Microsecond, "µs"},
	{time.Nanosecond, "ns"},
}

func (d Duration) String() string {
	rest := time.Duration(d)
	if rest == 0 {
		return "0ns"
	}
	var sb strings.Builder
	for _, u := range durationUnits {
		if n := rest / u.unit; n > 0 {
			sb.WriteString(strconv.FormatInt(int64(n), 10))
			sb.WriteString(u.name)
			rest -= n * u.unit
		}
	}
	return sb.String()
}

// Datetime is an instant, always held in UTC.
type Datetime struct {
	time.Time
}

func (Datetime) value() {}

func (d Datetime) String() string {
	return `d"` + d.UTC().Format(time.RFC3339Nano) + `"`
}

// Uuid is a UUID literal.
type Uuid uuid.UUID

func (Uuid) value() {}

func (u Uuid) String() string {
	return `u"` + uuid.UUID(u).String() + `"`
}

// Regex is a compiled regular expression literal.
type Regex struct {
	re *regexp.Regexp
}

// NewRegex compiles src.
func NewRegex(src string) (*Regex, error) {
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, err
	}
	return &Regex{re: re}, nil
}

func (*Regex) value() {}

// Regexp returns the compiled expression.
func (r *Regex) Regexp() *regexp.Regexp { return r.re }

// Source returns the expression text between the slashes.
func (r *Regex) Source() string { return r.re.String() }

// Equal reports whether both regexes have the same source.
func (r *Regex) Equal(o *Regex) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.Source() == o.Source()
}

func (r *Regex) String() string {
	return "/" + strings.ReplaceAll(r.Source(), "/", `\/`) + "/"
}

// ObjectField is one key of an object literal.
type ObjectField struct {
	Key   string
	Value Value
}

// Object is a mapping with unique keys. Field order is kept for display only.
type Object struct {
	Fields []ObjectField
}

func (*Object) value() {}

// Put sets key to v, replacing an existing entry in place.
func (o *Object) Put(key string, v Value) {
	for i := range o.Fields {
		if o.Fields[i].Key == key {
			o.Fields[i].Value = v
			return
		}
	}
	o.Fields = append(o.Fields, ObjectField{Key: key, Value: v})
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	for _, f := range o.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Len returns the number of fields.
func (o *Object) Len() int { return len(o.Fields) }

func (o *Object) String() string {
	if len(o.Fields) == 0 {
		return "{}"
	}
	parts := make([]string, len(o.Fields))
	for i, f := range o.Fields {
		key := f.Key
		if !isPlainIdent(key) {
			key = QuoteString(key)
		}
		parts[i] = key + ": " + f.Value.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// Thing is a record id, a table name plus an id within it.
type Thing struct {
	Table string
	// ID is a Number, Strand, Array or Object.
	ID Value
}

func (*Thing) value() {}

func (t *Thing) String() string {
	var id string
	switch v := t.ID.(type) {
	case Strand:
		id = escapeID(string(v))
	default:
		id = v.String()
	}
	return EscapeIdent(t.Table) + ":" + id
}

// Point is a two dimensional geometry point.
type Point struct {
	X, Y float64
}

func (*Point) value() {}

func (p *Point) String() string {
	return "(" + strconv.FormatFloat(p.X, 'f', -1, 64) + ", " + strconv.FormatFloat(p.Y, 'f', -1, 64) + ")"
}

// MockKind selects how a mock generator produces ids.
type MockKind uint8

const (
	// MockCount generates From records.
	MockCount MockKind = iota
	// MockRange generates ids From through To.
	MockRange
)

// Mock generates record ids for test data, written |table:n| or |table:a..b|.
type Mock struct {
	Kind  MockKind
	Table string
	From  uint64
	To    uint64
}

func (*Mock) value() {}

func (m *Mock) String() string {
	s := "|" + EscapeIdent(m.Table) + ":" + strconv.FormatUint(m.From, 10)
	if m.Kind == MockRange {
		s += ".." + strconv.FormatUint(m.To, 10)
	}
	return s + "|"
}
