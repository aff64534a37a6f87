package sql

import (
	"strings"
)

// Part is one step of an Idiom.
type Part interface {
	Node
	part()
}

// Idiom is a path into a value, evaluated left to right.
type Idiom []Part

func (Idiom) value() {}

func (i Idiom) String() string {
	var sb strings.Builder
	for n, p := range i {
		if f, ok := p.(FieldPart); ok && n == 0 {
			sb.WriteString(EscapeIdent(string(f)))
			continue
		}
		sb.WriteString(p.String())
	}
	return sb.String()
}

// Simple reports whether the idiom is a plain dotted field path.
func (i Idiom) Simple() bool {
	for _, p := range i {
		if _, ok := p.(FieldPart); !ok {
			return false
		}
	}
	return len(i) > 0
}

// AllPart selects every element, written [*] or .*.
type AllPart struct{}

// LastPart selects the last element, written [$].
type LastPart struct{}

// FlattenPart flattens nested arrays, written ....
type FlattenPart struct{}

// FieldPart accesses a named field.
type FieldPart string

// IndexPart selects an element by position.
type IndexPart Number

// WherePart filters elements, written [WHERE cond] or [? cond].
type WherePart struct {
	Cond Value
}

// ValuePart indexes with a computed value.
type ValuePart struct {
	Value Value
}

// StartPart begins a path from an arbitrary expression.
type StartPart struct {
	Value Value
}

// MethodPart calls a method on the current value.
type MethodPart struct {
	Name string
	Args []Value
}

// Dir is the direction of a graph traversal.
type Dir uint8

const (
	// DirOut follows outgoing edges (->).
	DirOut Dir = iota
	// DirIn follows incoming edges (<-).
	DirIn
	// DirBoth follows edges in either direction (<->).
	DirBoth
)

func (d Dir) String() string {
	switch d {
	case DirIn:
		return "<-"
	case DirBoth:
		return "<->"
	default:
		return "->"
	}
}

// GraphPart traverses edges. An empty What matches any table.
type GraphPart struct {
	Dir   Dir
	What  []string
	Cond  Value
	Alias Idiom
}

func (AllPart) part()     {}
func (LastPart) part()    {}
func (FlattenPart) part() {}
func (FieldPart) part()   {}
func (IndexPart) part()   {}
func (WherePart) part()   {}
func (ValuePart) part()   {}
func (StartPart) part()   {}
func (*MethodPart) part() {}
func (*GraphPart) part()  {}

func (AllPart) String() string     { return "[*]" }
func (LastPart) String() string    { return "[$]" }
func (FlattenPart) String() string { return "..." }
func (f FieldPart) String() string { return "." + EscapeIdent(string(f)) }
func (i IndexPart) String() string { return "[" + Number(i).String() + "]" }
func (w WherePart) String() string { return "[WHERE " + w.Cond.String() + "]" }
func (v ValuePart) String() string { return "[" + v.Value.String() + "]" }
func (s StartPart) String() string { return s.Value.String() }

func (m *MethodPart) String() string {
	return "." + EscapeIdent(m.Name) + "(" + joinValues(m.Args) + ")"
}

func (g *GraphPart) String() string {
	var sb strings.Builder
	sb.WriteString(g.Dir.String())
	if g.Cond == nil && g.Alias == nil {
		switch len(g.What) {
		case 0:
			sb.WriteString("?")
			return sb.String()
		case 1:
			sb.WriteString(EscapeIdent(g.What[0]))
			return sb.String()
		}
	}
	sb.WriteString("(")
	if len(g.What) == 0 {
		sb.WriteString("?")
	}
	for i, w := range g.What {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(EscapeIdent(w))
	}
	if g.Cond != nil {
		sb.WriteString(" WHERE ")
		sb.WriteString(g.Cond.String())
	}
	if g.Alias != nil {
		sb.WriteString(" AS ")
		sb.WriteString(g.Alias.String())
	}
	sb.WriteString(")")
	return sb.String()
}
