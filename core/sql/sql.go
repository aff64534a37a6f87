// Package sql defines the abstract syntax tree produced by the query parser.
//
// Every node renders back to query text through String. The rendering is
// canonical: parsing the output again yields a structurally equal tree.
package sql

import (
	"strings"
)

// Node is implemented by every AST node.
type Node interface {
	String() string
}

// Statement is a single top-level command.
type Statement interface {
	Node
	statement()
}

// Query is an ordered list of statements.
type Query []Statement

func (q Query) String() string {
	var sb strings.Builder
	for i, s := range q {
		if i > 0 {
			sb.WriteString(";\n")
		}
		sb.WriteString(s.String())
	}
	if len(q) > 0 {
		sb.WriteString(";")
	}
	return sb.String()
}

// joinValues renders values separated by ", ".
func joinValues(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

func joinIdioms(is []Idiom) string {
	parts := make([]string, len(is))
	for i, v := range is {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
