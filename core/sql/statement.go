package sql

import (
	"strings"
)

// ValueStatement is a bare value used as a statement.
type ValueStatement struct {
	Value Value
}

// BeginStatement starts a transaction.
type BeginStatement struct{}

// CancelStatement rolls back a transaction.
type CancelStatement struct{}

// CommitStatement commits a transaction.
type CommitStatement struct{}

// BreakStatement leaves the innermost FOR loop.
type BreakStatement struct{}

// ContinueStatement skips to the next FOR iteration.
type ContinueStatement struct{}

func (*ValueStatement) statement()    {}
func (*BeginStatement) statement()    {}
func (*CancelStatement) statement()   {}
func (*CommitStatement) statement()   {}
func (*BreakStatement) statement()    {}
func (*ContinueStatement) statement() {}

func (s *ValueStatement) String() string  { return s.Value.String() }
func (*BeginStatement) String() string    { return "BEGIN TRANSACTION" }
func (*CancelStatement) String() string   { return "CANCEL TRANSACTION" }
func (*CommitStatement) String() string   { return "COMMIT TRANSACTION" }
func (*BreakStatement) String() string    { return "BREAK" }
func (*ContinueStatement) String() string { return "CONTINUE" }

// IfBranch is one condition and its body.
type IfBranch struct {
	Cond Value
	Then Value
}

// IfelseStatement is IF ... ELSE IF ... ELSE. Else is nil when absent.
type IfelseStatement struct {
	Branches []IfBranch
	Else     Value
}

func (*IfelseStatement) statement() {}

func (s *IfelseStatement) String() string {
	var sb strings.Builder
	for i, b := range s.Branches {
		if i > 0 {
			sb.WriteString(" ELSE ")
		}
		sb.WriteString("IF ")
		sb.WriteString(b.Cond.String())
		sb.WriteString(" THEN ")
		sb.WriteString(b.Then.String())
	}
	if s.Else != nil {
		sb.WriteString(" ELSE ")
		sb.WriteString(s.Else.String())
	}
	sb.WriteString(" END")
	return sb.String()
}

// ForeachStatement is FOR $param IN value { ... }.
type ForeachStatement struct {
	Param string
	Range Value
	Block *Block
}

func (*ForeachStatement) statement() {}

func (s *ForeachStatement) String() string {
	return "FOR $" + s.Param + " IN " + s.Range.String() + " " + s.Block.String()
}

// SelectStatement reads records.
type SelectStatement struct {
	Expr     Fields
	Omit     []Idiom
	Only     bool
	What     []Value
	With     *With
	Cond     Value
	Split    []Idiom
	Group    []Idiom
	GroupAll bool
	Order    []Order
	Limit    Value
	Start    Value
	Fetch    []Idiom
	Version  Value
	Timeout  *Duration
	Parallel bool
	Explain  *Explain
}

func (*SelectStatement) statement() {}

func (s *SelectStatement) String() string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(s.Expr.String())
	if len(s.Omit) > 0 {
		sb.WriteString(" OMIT ")
		sb.WriteString(joinIdioms(s.Omit))
	}
	sb.WriteString(" FROM ")
	if s.Only {
		sb.WriteString("ONLY ")
	}
	sb.WriteString(joinValues(s.What))
	if s.With != nil {
		sb.WriteString(" ")
		sb.WriteString(s.With.String())
	}
	writeCond(&sb, s.Cond)
	if len(s.Split) > 0 {
		sb.WriteString(" SPLIT ON ")
		sb.WriteString(joinIdioms(s.Split))
	}
	if s.GroupAll {
		sb.WriteString(" GROUP ALL")
	} else if len(s.Group) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(joinIdioms(s.Group))
	}
	if len(s.Order) > 0 {
		parts := make([]string, len(s.Order))
		for i, o := range s.Order {
			parts[i] = o.String()
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}
	if s.Limit != nil {
		sb.WriteString(" LIMIT ")
		sb.WriteString(s.Limit.String())
	}
	if s.Start != nil {
		sb.WriteString(" START ")
		sb.WriteString(s.Start.String())
	}
	writeFetch(&sb, s.Fetch)
	if s.Version != nil {
		sb.WriteString(" VERSION ")
		sb.WriteString(s.Version.String())
	}
	sb.WriteString(timeoutString(s.Timeout))
	if s.Parallel {
		sb.WriteString(" PARALLEL")
	}
	if s.Explain != nil {
		sb.WriteString(" ")
		sb.WriteString(s.Explain.String())
	}
	return sb.String()
}

// CreateStatement creates records.
type CreateStatement struct {
	Only     bool
	What     []Value
	Data     Data
	Output   *Output
	Timeout  *Duration
	Parallel bool
}

func (*CreateStatement) statement() {}

func (s *CreateStatement) String() string {
	var sb strings.Builder
	sb.WriteString("CREATE ")
	if s.Only {
		sb.WriteString("ONLY ")
	}
	sb.WriteString(joinValues(s.What))
	writeData(&sb, s.Data)
	writeTail(&sb, s.Output, s.Timeout, s.Parallel)
	return sb.String()
}

// UpdateStatement modifies records.
type UpdateStatement struct {
	Only     bool
	What     []Value
	Data     Data
	Cond     Value
	Output   *Output
	Timeout  *Duration
	Parallel bool
}

func (*UpdateStatement) statement() {}

func (s *UpdateStatement) String() string {
	var sb strings.Builder
	sb.WriteString("UPDATE ")
	if s.Only {
		sb.WriteString("ONLY ")
	}
	sb.WriteString(joinValues(s.What))
	writeData(&sb, s.Data)
	writeCond(&sb, s.Cond)
	writeTail(&sb, s.Output, s.Timeout, s.Parallel)
	return sb.String()
}

// DeleteStatement removes records.
type DeleteStatement struct {
	Only     bool
	What     []Value
	Cond     Value
	Output   *Output
	Timeout  *Duration
	Parallel bool
}

func (*DeleteStatement) statement() {}

func (s *DeleteStatement) String() string {
	var sb strings.Builder
	sb.WriteString("DELETE ")
	if s.Only {
		sb.WriteString("ONLY ")
	}
	sb.WriteString(joinValues(s.What))
	writeCond(&sb, s.Cond)
	writeTail(&sb, s.Output, s.Timeout, s.Parallel)
	return sb.String()
}

// InsertStatement inserts one or more records.
type InsertStatement struct {
	Into     Value
	Data     Data
	Ignore   bool
	Update   *UpdateData
	Output   *Output
	Timeout  *Duration
	Parallel bool
}

func (*InsertStatement) statement() {}

func (s *InsertStatement) String() string {
	var sb strings.Builder
	sb.WriteString("INSERT ")
	if s.Ignore {
		sb.WriteString("IGNORE ")
	}
	sb.WriteString("INTO ")
	sb.WriteString(s.Into.String())
	sb.WriteString(" ")
	sb.WriteString(s.Data.String())
	if s.Update != nil {
		sb.WriteString(" ")
		sb.WriteString(s.Update.String())
	}
	writeTail(&sb, s.Output, s.Timeout, s.Parallel)
	return sb.String()
}

// RelateStatement creates graph edges From -> Kind -> With.
type RelateStatement struct {
	Only     bool
	Kind     Value
	From     Value
	With     Value
	Uniq     bool
	Data     Data
	Output   *Output
	Timeout  *Duration
	Parallel bool
}

func (*RelateStatement) statement() {}

func (s *RelateStatement) String() string {
	var sb strings.Builder
	sb.WriteString("RELATE ")
	if s.Only {
		sb.WriteString("ONLY ")
	}
	sb.WriteString(s.From.String())
	sb.WriteString(" -> ")
	sb.WriteString(s.Kind.String())
	sb.WriteString(" -> ")
	sb.WriteString(s.With.String())
	if s.Uniq {
		sb.WriteString(" UNIQUE")
	}
	writeData(&sb, s.Data)
	writeTail(&sb, s.Output, s.Timeout, s.Parallel)
	return sb.String()
}

// InfoKind is the target of an INFO statement.
type InfoKind uint8

const (
	InfoRoot InfoKind = iota
	InfoNamespace
	InfoDatabase
	InfoScope
	InfoTable
	InfoUser
)

// InfoStatement describes a level of the schema.
type InfoStatement struct {
	Kind InfoKind
	Name string
	Base *Base
}

func (*InfoStatement) statement() {}

func (s *InfoStatement) String() string {
	switch s.Kind {
	case InfoNamespace:
		return "INFO FOR NAMESPACE"
	case InfoDatabase:
		return "INFO FOR DATABASE"
	case InfoScope:
		return "INFO FOR SCOPE " + EscapeIdent(s.Name)
	case InfoTable:
		return "INFO FOR TABLE " + EscapeIdent(s.Name)
	case InfoUser:
		out := "INFO FOR USER " + EscapeIdent(s.Name)
		if s.Base != nil {
			out += " ON " + s.Base.String()
		}
		return out
	default:
		return "INFO FOR ROOT"
	}
}

// AnalyzeStatement inspects an index.
type AnalyzeStatement struct {
	Index string
	Table string
}

func (*AnalyzeStatement) statement() {}

func (s *AnalyzeStatement) String() string {
	return "ANALYZE INDEX " + EscapeIdent(s.Index) + " ON " + EscapeIdent(s.Table)
}

// ShowStatement reads the change feed of a table, or of the whole
// database when Table is empty. Since is a Number or a Datetime.
type ShowStatement struct {
	Table string
	Since Value
	Limit *uint64
}

func (*ShowStatement) statement() {}

func (s *ShowStatement) String() string {
	var sb strings.Builder
	sb.WriteString("SHOW CHANGES FOR ")
	if s.Table != "" {
		sb.WriteString("TABLE ")
		sb.WriteString(EscapeIdent(s.Table))
	} else {
		sb.WriteString("DATABASE")
	}
	sb.WriteString(" SINCE ")
	sb.WriteString(s.Since.String())
	if s.Limit != nil {
		sb.WriteString(" LIMIT ")
		sb.WriteString(uintString(*s.Limit))
	}
	return sb.String()
}

// LiveStatement subscribes to changes. What is a Param or a Table.
type LiveStatement struct {
	Diff  bool
	Expr  Fields
	What  Value
	Cond  Value
	Fetch []Idiom
}

func (*LiveStatement) statement() {}

func (s *LiveStatement) String() string {
	var sb strings.Builder
	sb.WriteString("LIVE SELECT ")
	if s.Diff {
		sb.WriteString("DIFF")
	} else {
		sb.WriteString(s.Expr.String())
	}
	sb.WriteString(" FROM ")
	sb.WriteString(s.What.String())
	writeCond(&sb, s.Cond)
	writeFetch(&sb, s.Fetch)
	return sb.String()
}

// KillStatement stops a live query. ID is a Uuid or a Param.
type KillStatement struct {
	ID Value
}

func (*KillStatement) statement() {}

func (s *KillStatement) String() string { return "KILL " + s.ID.String() }

// OptionStatement toggles a session option.
type OptionStatement struct {
	Name    string
	Enabled bool
}

func (*OptionStatement) statement() {}

func (s *OptionStatement) String() string {
	if s.Enabled {
		return "OPTION " + EscapeIdent(s.Name)
	}
	return "OPTION " + EscapeIdent(s.Name) + " = false"
}

// OutputStatement is RETURN value.
type OutputStatement struct {
	What  Value
	Fetch []Idiom
}

func (*OutputStatement) statement() {}

func (s *OutputStatement) String() string {
	var sb strings.Builder
	sb.WriteString("RETURN ")
	sb.WriteString(s.What.String())
	writeFetch(&sb, s.Fetch)
	return sb.String()
}

// SetStatement is LET $name = value.
type SetStatement struct {
	Name string
	What Value
}

func (*SetStatement) statement() {}

func (s *SetStatement) String() string {
	return "LET $" + s.Name + " = " + s.What.String()
}

// ThrowStatement raises an error.
type ThrowStatement struct {
	Error Value
}

func (*ThrowStatement) statement() {}

func (s *ThrowStatement) String() string { return "THROW " + s.Error.String() }

// SleepStatement pauses execution.
type SleepStatement struct {
	Duration Duration
}

func (*SleepStatement) statement() {}

func (s *SleepStatement) String() string { return "SLEEP " + s.Duration.String() }

// UseStatement switches namespace and database. Either may be empty.
type UseStatement struct {
	NS string
	DB string
}

func (*UseStatement) statement() {}

func (s *UseStatement) String() string {
	out := "USE"
	if s.NS != "" {
		out += " NAMESPACE " + EscapeIdent(s.NS)
	}
	if s.DB != "" {
		out += " DATABASE " + EscapeIdent(s.DB)
	}
	return out
}

func writeCond(sb *strings.Builder, cond Value) {
	if cond != nil {
		sb.WriteString(" WHERE ")
		sb.WriteString(cond.String())
	}
}

func writeFetch(sb *strings.Builder, fetch []Idiom) {
	if len(fetch) > 0 {
		sb.WriteString(" FETCH ")
		sb.WriteString(joinIdioms(fetch))
	}
}

func writeData(sb *strings.Builder, d Data) {
	if d != nil {
		sb.WriteString(" ")
		sb.WriteString(d.String())
	}
}

func writeTail(sb *strings.Builder, out *Output, timeout *Duration, parallel bool) {
	if out != nil {
		sb.WriteString(" ")
		sb.WriteString(out.String())
	}
	sb.WriteString(timeoutString(timeout))
	if parallel {
		sb.WriteString(" PARALLEL")
	}
}
