package sql

import (
	"strconv"
	"strings"
)

// Operator is a unary, binary or assignment operator.
type Operator uint8

const (
	OpNeg Operator = iota // -
	OpNot                 // !

	OpOr  // OR, ||
	OpAnd // AND, &&
	OpTco // ?:
	OpNco // ??

	OpAdd // +
	OpSub // -
	OpMul // *
	OpDiv // /
	OpPow // **

	OpEqual    // =, IS
	OpExact    // ==
	OpNotEqual // !=, IS NOT
	OpAllEqual // *=
	OpAnyEqual // ?=
	OpLike     // ~
	OpNotLike  // !~
	OpAllLike  // *~
	OpAnyLike  // ?~

	OpLessThan           // <
	OpLessThanOrEqual    // <=
	OpMoreThan           // >
	OpMoreThanOrEqual    // >=
	OpContain            // CONTAINS
	OpNotContain         // CONTAINSNOT
	OpContainAll         // CONTAINSALL
	OpContainAny         // CONTAINSANY
	OpContainNone        // CONTAINSNONE
	OpInside             // INSIDE, IN
	OpNotInside          // NOTINSIDE, NOT IN
	OpAllInside          // ALLINSIDE
	OpAnyInside          // ANYINSIDE
	OpNoneInside         // NONEINSIDE
	OpOutside            // OUTSIDE
	OpIntersects         // INTERSECTS

	OpInc // +=
	OpDec // -=
	OpExt // +?=
)

var operatorText = [...]string{
	OpNeg:             "-",
	OpNot:             "!",
	OpOr:              "OR",
	OpAnd:             "AND",
	OpTco:             "?:",
	OpNco:             "??",
	OpAdd:             "+",
	OpSub:             "-",
	OpMul:             "*",
	OpDiv:             "/",
	OpPow:             "**",
	OpEqual:           "=",
	OpExact:           "==",
	OpNotEqual:        "!=",
	OpAllEqual:        "*=",
	OpAnyEqual:        "?=",
	OpLike:            "~",
	OpNotLike:         "!~",
	OpAllLike:         "*~",
	OpAnyLike:         "?~",
	OpLessThan:        "<",
	OpLessThanOrEqual: "<=",
	OpMoreThan:        ">",
	OpMoreThanOrEqual: ">=",
	OpContain:         "CONTAINS",
	OpNotContain:      "CONTAINSNOT",
	OpContainAll:      "CONTAINSALL",
	OpContainAny:      "CONTAINSANY",
	OpContainNone:     "CONTAINSNONE",
	OpInside:          "INSIDE",
	OpNotInside:       "NOTINSIDE",
	OpAllInside:       "ALLINSIDE",
	OpAnyInside:       "ANYINSIDE",
	OpNoneInside:      "NONEINSIDE",
	OpOutside:         "OUTSIDE",
	OpIntersects:      "INTERSECTS",
	OpInc:             "+=",
	OpDec:             "-=",
	OpExt:             "+?=",
}

func (o Operator) String() string {
	if int(o) < len(operatorText) {
		return operatorText[o]
	}
	return "Operator(" + strconv.Itoa(int(o)) + ")"
}

// Unary applies a prefix operator.
type Unary struct {
	Op    Operator
	Value Value
}

// Binary applies an infix operator.
type Binary struct {
	Left  Value
	Op    Operator
	Right Value
}

// Cast converts a value to a kind, written <kind> value.
type Cast struct {
	Kind  *Kind
	Value Value
}

func (*Unary) value()  {}
func (*Binary) value() {}
func (*Cast) value()   {}

func (u *Unary) String() string {
	v := u.Value.String()
	// "--" would start a comment.
	if u.Op == OpNeg && strings.HasPrefix(v, "-") {
		return "- " + v
	}
	return u.Op.String() + v
}

func (b *Binary) String() string {
	return b.Left.String() + " " + b.Op.String() + " " + b.Right.String()
}

func (c *Cast) String() string {
	return "<" + c.Kind.String() + "> " + c.Value.String()
}

// Kind is a type annotation. Either kinds hold their members in Inner.
type Kind struct {
	Name   string
	Inner  []*Kind
	Tables []string
	Size   uint64
}

// KindEither is the name used for a union of kinds.
const KindEither = "either"

func (k *Kind) String() string {
	switch k.Name {
	case KindEither:
		parts := make([]string, len(k.Inner))
		for i, in := range k.Inner {
			parts[i] = in.String()
		}
		return strings.Join(parts, " | ")
	case "record", "geometry":
		if len(k.Tables) == 0 {
			return k.Name
		}
		return k.Name + "<" + strings.Join(k.Tables, " | ") + ">"
	case "option":
		return "option<" + k.Inner[0].String() + ">"
	case "array", "set":
		if len(k.Inner) == 0 {
			return k.Name
		}
		s := k.Name + "<" + k.Inner[0].String()
		if k.Size > 0 {
			s += ", " + strconv.FormatUint(k.Size, 10)
		}
		return s + ">"
	default:
		return k.Name
	}
}

// FunctionKind distinguishes builtin from user defined functions.
type FunctionKind uint8

const (
	// BuiltinFunction is a function shipped with the database, e.g. string::len.
	BuiltinFunction FunctionKind = iota
	// CustomFunction is a function created with DEFINE FUNCTION, called as fn::name.
	CustomFunction
)

// Function is a function call.
type Function struct {
	Kind FunctionKind
	Name string
	Args []Value
}

func (*Function) value() {}

func (f *Function) String() string {
	name := f.Name
	if f.Kind == CustomFunction {
		name = "fn::" + name
	}
	return name + "(" + joinValues(f.Args) + ")"
}

// Model calls a machine learning model, written ml::name<version>(args).
type Model struct {
	Name    string
	Version string
	Args    []Value
}

func (*Model) value() {}

func (m *Model) String() string {
	return "ml::" + m.Name + "<" + m.Version + ">(" + joinValues(m.Args) + ")"
}

// Block is a braced list of statements.
type Block struct {
	Entries []Statement
}

func (*Block) value() {}

func (b *Block) String() string {
	if len(b.Entries) == 0 {
		return "{ ; }"
	}
	var sb strings.Builder
	sb.WriteString("{ ")
	for _, e := range b.Entries {
		sb.WriteString(e.String())
		sb.WriteString("; ")
	}
	sb.WriteString("}")
	return sb.String()
}

// Future is a block evaluated lazily, written <future> { ... }.
type Future struct {
	Block *Block
}

func (*Future) value() {}

func (f *Future) String() string {
	return "<future> " + f.Block.String()
}

// Subquery embeds a statement in a value position. Stmt is one of
// *SelectStatement, *CreateStatement, *UpdateStatement, *DeleteStatement,
// *RelateStatement, *InsertStatement, *DefineStatement, *RemoveStatement,
// *OutputStatement, *IfelseStatement or *ValueStatement.
type Subquery struct {
	Stmt Statement
}

func (*Subquery) value() {}

func (s *Subquery) String() string {
	if _, ok := s.Stmt.(*IfelseStatement); ok {
		return s.Stmt.String()
	}
	return "(" + s.Stmt.String() + ")"
}
