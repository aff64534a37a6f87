package sql

import (
	"strings"
)

// DefineStatement creates a schema object.
type DefineStatement struct {
	What Definition
}

func (*DefineStatement) statement() {}

func (s *DefineStatement) String() string { return "DEFINE " + s.What.String() }

// Definition is the object created by a DEFINE statement.
type Definition interface {
	Node
	definition()
}

// DefineNamespace is DEFINE NAMESPACE.
type DefineNamespace struct {
	Name    string
	Comment *Strand
}

// DefineDatabase is DEFINE DATABASE.
type DefineDatabase struct {
	Name       string
	Changefeed *Duration
	Comment    *Strand
}

// FunctionArg is a parameter of a custom function.
type FunctionArg struct {
	Name string
	Kind *Kind
}

// DefineFunction is DEFINE FUNCTION fn::name(...) { ... }.
type DefineFunction struct {
	Name       string
	Args       []FunctionArg
	Block      *Block
	Comment    *Strand
	Permission *Permission
}

// DefineParam is DEFINE PARAM $name VALUE v.
type DefineParam struct {
	Name       string
	Value      Value
	Comment    *Strand
	Permission *Permission
}

// DefineTable is DEFINE TABLE.
type DefineTable struct {
	Name        string
	Drop        bool
	Full        bool
	Changefeed  *Duration
	Comment     *Strand
	Permissions *Permissions
}

// DefineEvent is DEFINE EVENT.
type DefineEvent struct {
	Name    string
	Table   string
	When    Value
	Then    []Value
	Comment *Strand
}

// DefineField is DEFINE FIELD.
type DefineField struct {
	Name        Idiom
	Table       string
	Flexible    bool
	Kind        *Kind
	Value       Value
	Assert      Value
	Default     Value
	Comment     *Strand
	Permissions *Permissions
}

// DefineIndex is DEFINE INDEX.
type DefineIndex struct {
	Name    string
	Table   string
	Fields  []Idiom
	Unique  bool
	Comment *Strand
}

func (*DefineNamespace) definition() {}
func (*DefineDatabase) definition()  {}
func (*DefineFunction) definition()  {}
func (*DefineParam) definition()     {}
func (*DefineTable) definition()     {}
func (*DefineEvent) definition()     {}
func (*DefineField) definition()     {}
func (*DefineIndex) definition()     {}

func writeComment(sb *strings.Builder, c *Strand) {
	if c != nil {
		sb.WriteString(" COMMENT ")
		sb.WriteString(c.String())
	}
}

func (d *DefineNamespace) String() string {
	var sb strings.Builder
	sb.WriteString("NAMESPACE ")
	sb.WriteString(EscapeIdent(d.Name))
	writeComment(&sb, d.Comment)
	return sb.String()
}

func (d *DefineDatabase) String() string {
	var sb strings.Builder
	sb.WriteString("DATABASE ")
	sb.WriteString(EscapeIdent(d.Name))
	if d.Changefeed != nil {
		sb.WriteString(" CHANGEFEED ")
		sb.WriteString(d.Changefeed.String())
	}
	writeComment(&sb, d.Comment)
	return sb.String()
}

func (d *DefineFunction) String() string {
	var sb strings.Builder
	sb.WriteString("FUNCTION fn::")
	sb.WriteString(d.Name)
	sb.WriteString("(")
	for i, a := range d.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("$")
		sb.WriteString(a.Name)
		sb.WriteString(": ")
		sb.WriteString(a.Kind.String())
	}
	sb.WriteString(") ")
	sb.WriteString(d.Block.String())
	writeComment(&sb, d.Comment)
	if d.Permission != nil {
		sb.WriteString(" PERMISSIONS ")
		sb.WriteString(d.Permission.String())
	}
	return sb.String()
}

func (d *DefineParam) String() string {
	var sb strings.Builder
	sb.WriteString("PARAM $")
	sb.WriteString(d.Name)
	sb.WriteString(" VALUE ")
	sb.WriteString(d.Value.String())
	writeComment(&sb, d.Comment)
	if d.Permission != nil {
		sb.WriteString(" PERMISSIONS ")
		sb.WriteString(d.Permission.String())
	}
	return sb.String()
}

func (d *DefineTable) String() string {
	var sb strings.Builder
	sb.WriteString("TABLE ")
	sb.WriteString(EscapeIdent(d.Name))
	if d.Drop {
		sb.WriteString(" DROP")
	}
	if d.Full {
		sb.WriteString(" SCHEMAFULL")
	} else {
		sb.WriteString(" SCHEMALESS")
	}
	if d.Changefeed != nil {
		sb.WriteString(" CHANGEFEED ")
		sb.WriteString(d.Changefeed.String())
	}
	writeComment(&sb, d.Comment)
	if d.Permissions != nil {
		sb.WriteString(" ")
		sb.WriteString(d.Permissions.String())
	}
	return sb.String()
}

func (d *DefineEvent) String() string {
	var sb strings.Builder
	sb.WriteString("EVENT ")
	sb.WriteString(EscapeIdent(d.Name))
	sb.WriteString(" ON TABLE ")
	sb.WriteString(EscapeIdent(d.Table))
	if d.When != nil {
		sb.WriteString(" WHEN ")
		sb.WriteString(d.When.String())
	}
	sb.WriteString(" THEN ")
	sb.WriteString(joinValues(d.Then))
	writeComment(&sb, d.Comment)
	return sb.String()
}

func (d *DefineField) String() string {
	var sb strings.Builder
	sb.WriteString("FIELD ")
	sb.WriteString(d.Name.String())
	sb.WriteString(" ON TABLE ")
	sb.WriteString(EscapeIdent(d.Table))
	if d.Flexible {
		sb.WriteString(" FLEXIBLE")
	}
	if d.Kind != nil {
		sb.WriteString(" TYPE ")
		sb.WriteString(d.Kind.String())
	}
	if d.Value != nil {
		sb.WriteString(" VALUE ")
		sb.WriteString(d.Value.String())
	}
	if d.Assert != nil {
		sb.WriteString(" ASSERT ")
		sb.WriteString(d.Assert.String())
	}
	if d.Default != nil {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(d.Default.String())
	}
	writeComment(&sb, d.Comment)
	if d.Permissions != nil {
		sb.WriteString(" ")
		sb.WriteString(d.Permissions.String())
	}
	return sb.String()
}

func (d *DefineIndex) String() string {
	var sb strings.Builder
	sb.WriteString("INDEX ")
	sb.WriteString(EscapeIdent(d.Name))
	sb.WriteString(" ON TABLE ")
	sb.WriteString(EscapeIdent(d.Table))
	sb.WriteString(" FIELDS ")
	sb.WriteString(joinIdioms(d.Fields))
	if d.Unique {
		sb.WriteString(" UNIQUE")
	}
	writeComment(&sb, d.Comment)
	return sb.String()
}

// RemoveStatement drops a schema object.
type RemoveStatement struct {
	What Removal
}

func (*RemoveStatement) statement() {}

func (s *RemoveStatement) String() string { return "REMOVE " + s.What.String() }

// RemoveKind is the type of object a REMOVE statement drops.
type RemoveKind uint8

const (
	RemoveNamespace RemoveKind = iota
	RemoveDatabase
	RemoveFunction
	RemoveParam
	RemoveTable
	RemoveEvent
	RemoveField
	RemoveIndex
	RemoveAnalyzer
	RemoveScope
	RemoveUser
)

// Removal names the object dropped by REMOVE. Table is set for events,
// fields and indexes; Field for fields; Base for users.
type Removal struct {
	Kind  RemoveKind
	Name  string
	Field Idiom
	Table string
	Base  Base
}

func (r Removal) String() string {
	switch r.Kind {
	case RemoveNamespace:
		return "NAMESPACE " + EscapeIdent(r.Name)
	case RemoveDatabase:
		return "DATABASE " + EscapeIdent(r.Name)
	case RemoveFunction:
		return "FUNCTION fn::" + r.Name
	case RemoveParam:
		return "PARAM $" + r.Name
	case RemoveTable:
		return "TABLE " + EscapeIdent(r.Name)
	case RemoveEvent:
		return "EVENT " + EscapeIdent(r.Name) + " ON TABLE " + EscapeIdent(r.Table)
	case RemoveField:
		return "FIELD " + r.Field.String() + " ON TABLE " + EscapeIdent(r.Table)
	case RemoveIndex:
		return "INDEX " + EscapeIdent(r.Name) + " ON TABLE " + EscapeIdent(r.Table)
	case RemoveAnalyzer:
		return "ANALYZER " + EscapeIdent(r.Name)
	case RemoveScope:
		return "SCOPE " + EscapeIdent(r.Name)
	default:
		return "USER " + EscapeIdent(r.Name) + " ON " + r.Base.String()
	}
}
