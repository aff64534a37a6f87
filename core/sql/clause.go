package sql

import (
	"strconv"
	"strings"
)

// Field is one projection of a SELECT.
type Field struct {
	All   bool
	Expr  Value
	Alias Idiom
}

func (f Field) String() string {
	if f.All {
		return "*"
	}
	if f.Alias != nil {
		return f.Expr.String() + " AS " + f.Alias.String()
	}
	return f.Expr.String()
}

// Fields is a projection list. Single marks SELECT VALUE.
type Fields struct {
	Single bool
	Items  []Field
}

func (f Fields) String() string {
	parts := make([]string, len(f.Items))
	for i, it := range f.Items {
		parts[i] = it.String()
	}
	s := strings.Join(parts, ", ")
	if f.Single {
		return "VALUE " + s
	}
	return s
}

// Assignment updates a path, e.g. name = 'x' or tags += 'y'.
type Assignment struct {
	Place Idiom
	Op    Operator
	Value Value
}

func (a Assignment) String() string {
	return a.Place.String() + " " + a.Op.String() + " " + a.Value.String()
}

func joinAssignments(as []Assignment) string {
	parts := make([]string, len(as))
	for i, a := range as {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

// Data is the body of a write statement.
type Data interface {
	Node
	data()
}

// ContentData replaces the record with a value.
type ContentData struct{ Value Value }

// MergeData merges a value into the record.
type MergeData struct{ Value Value }

// PatchData applies JSON patch operations.
type PatchData struct{ Value Value }

// ReplaceData replaces the record, keeping its id.
type ReplaceData struct{ Value Value }

// SetData assigns individual fields.
type SetData struct{ Assignments []Assignment }

// UnsetData removes fields.
type UnsetData struct{ Fields []Idiom }

// SingleData is the single value form of INSERT.
type SingleData struct{ Value Value }

// UpdateData is the ON DUPLICATE KEY UPDATE clause of INSERT.
type UpdateData struct{ Assignments []Assignment }

// ValuesData is the columnar form of INSERT. Each row pairs the column
// list with that row's values, in column order.
type ValuesData struct {
	Rows [][]Assignment
}

func (ContentData) data() {}
func (MergeData) data()   {}
func (PatchData) data()   {}
func (ReplaceData) data() {}
func (SetData) data()     {}
func (UnsetData) data()   {}
func (SingleData) data()  {}
func (UpdateData) data()  {}
func (ValuesData) data()  {}

func (d ContentData) String() string { return "CONTENT " + d.Value.String() }
func (d MergeData) String() string   { return "MERGE " + d.Value.String() }
func (d PatchData) String() string   { return "PATCH " + d.Value.String() }
func (d ReplaceData) String() string { return "REPLACE " + d.Value.String() }
func (d SetData) String() string     { return "SET " + joinAssignments(d.Assignments) }
func (d UnsetData) String() string   { return "UNSET " + joinIdioms(d.Fields) }
func (d SingleData) String() string  { return d.Value.String() }

func (d UpdateData) String() string {
	return "ON DUPLICATE KEY UPDATE " + joinAssignments(d.Assignments)
}

func (d ValuesData) String() string {
	if len(d.Rows) == 0 {
		return "() VALUES ()"
	}
	cols := make([]string, len(d.Rows[0]))
	for i, a := range d.Rows[0] {
		cols[i] = a.Place.String()
	}
	rows := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		vals := make([]string, len(row))
		for j, a := range row {
			vals[j] = a.Value.String()
		}
		rows[i] = "(" + strings.Join(vals, ", ") + ")"
	}
	return "(" + strings.Join(cols, ", ") + ") VALUES " + strings.Join(rows, ", ")
}

// OutputKind selects what a write statement returns.
type OutputKind uint8

const (
	OutputNone OutputKind = iota
	OutputNull
	OutputDiff
	OutputAfter
	OutputBefore
	OutputFields
)

// Output is a RETURN clause.
type Output struct {
	Kind   OutputKind
	Fields Fields
}

func (o *Output) String() string {
	switch o.Kind {
	case OutputNone:
		return "RETURN NONE"
	case OutputNull:
		return "RETURN NULL"
	case OutputDiff:
		return "RETURN DIFF"
	case OutputAfter:
		return "RETURN AFTER"
	case OutputBefore:
		return "RETURN BEFORE"
	default:
		return "RETURN " + o.Fields.String()
	}
}

// Order is one ORDER BY term.
type Order struct {
	Idiom   Idiom
	Random  bool
	Collate bool
	Numeric bool
	Desc    bool
}

func (o Order) String() string {
	if o.Random {
		return "RAND()"
	}
	s := o.Idiom.String()
	if o.Collate {
		s += " COLLATE"
	}
	if o.Numeric {
		s += " NUMERIC"
	}
	if o.Desc {
		s += " DESC"
	}
	return s
}

// With is the index hint of a SELECT.
type With struct {
	NoIndex bool
	Indexes []string
}

func (w *With) String() string {
	if w.NoIndex {
		return "WITH NOINDEX"
	}
	parts := make([]string, len(w.Indexes))
	for i, ix := range w.Indexes {
		parts[i] = EscapeIdent(ix)
	}
	return "WITH INDEX " + strings.Join(parts, ", ")
}

// Explain asks for the query plan.
type Explain struct {
	Full bool
}

func (e *Explain) String() string {
	if e.Full {
		return "EXPLAIN FULL"
	}
	return "EXPLAIN"
}

// PermissionKind is the rule of a permission clause.
type PermissionKind uint8

const (
	PermissionNone PermissionKind = iota
	PermissionFull
	PermissionWhere
)

// Permission is a single access rule.
type Permission struct {
	Kind PermissionKind
	Cond Value
}

func (p Permission) String() string {
	switch p.Kind {
	case PermissionFull:
		return "FULL"
	case PermissionWhere:
		return "WHERE " + p.Cond.String()
	default:
		return "NONE"
	}
}

func (p Permission) same(o Permission) bool {
	return p.Kind == o.Kind && p.Kind != PermissionWhere
}

// Permissions holds a rule per record operation.
type Permissions struct {
	Select Permission
	Create Permission
	Update Permission
	Delete Permission
}

func (p *Permissions) String() string {
	if p.Select.same(p.Create) && p.Select.same(p.Update) && p.Select.same(p.Delete) {
		return "PERMISSIONS " + p.Select.String()
	}
	return "PERMISSIONS FOR select " + p.Select.String() +
		" FOR create " + p.Create.String() +
		" FOR update " + p.Update.String() +
		" FOR delete " + p.Delete.String()
}

// Base is the level a user or token is defined on.
type Base uint8

const (
	BaseRoot Base = iota
	BaseNamespace
	BaseDatabase
)

func (b Base) String() string {
	switch b {
	case BaseNamespace:
		return "NAMESPACE"
	case BaseDatabase:
		return "DATABASE"
	default:
		return "ROOT"
	}
}

func timeoutString(d *Duration) string {
	if d == nil {
		return ""
	}
	return " TIMEOUT " + d.String()
}

func uintString(n uint64) string {
	return strconv.FormatUint(n, 10)
}
