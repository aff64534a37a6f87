package sql

import (
	"strings"
)

// reserved holds every word the lexer turns into a keyword token. An
// identifier that matches one of them is rendered quoted so it reads back
// as an identifier.
var reserved = map[string]struct{}{}

func init() {
	for _, w := range Keywords {
		reserved[w] = struct{}{}
	}
}

// Keywords lists the reserved words of the query language in upper case.
var Keywords = []string{
	"AFTER", "ALL", "ALLINSIDE", "ANALYZE", "ANALYZER", "AND", "ANYINSIDE", "AS", "ASC",
	"ASSERT", "AT", "BEFORE", "BEGIN", "BREAK", "BY", "CANCEL", "CHANGEFEED", "CHANGES",
	"COLLATE", "COLUMNS", "COMMENT", "COMMIT", "CONTAINS", "CONTAINSALL", "CONTAINSANY",
	"CONTAINSNONE", "CONTAINSNOT", "CONTENT", "CONTINUE", "CREATE", "DATABASE", "DB",
	"DEFAULT", "DEFINE", "DELETE", "DESC", "DIFF", "DROP", "DUPLICATE", "ELSE", "END",
	"EVENT", "EXPLAIN", "FALSE", "FETCH", "FIELD", "FIELDS", "FLEXIBLE", "FN", "FOR",
	"FROM", "FULL", "FUNCTION", "FUTURE", "GROUP", "IF", "IGNORE", "IN", "INDEX", "INFO",
	"INSERT", "INSIDE", "INTERSECTS", "INTO", "IS", "KEY", "KILL", "LET", "LIMIT", "LIVE",
	"MERGE", "ML", "MODEL", "NAMESPACE", "NOINDEX", "NONE", "NONEINSIDE", "NOT",
	"NOTINSIDE", "NS", "NULL", "NUMERIC", "OMIT", "ON", "ONLY", "OPTION", "OR", "ORDER",
	"OUTSIDE", "PARALLEL", "PARAM", "PATCH", "PERMISSIONS", "RAND", "RELATE", "REMOVE",
	"REPLACE", "RETURN", "ROOT", "SCHEMAFULL", "SCHEMALESS", "SCOPE", "SELECT", "SET",
	"SHOW", "SINCE", "SLEEP", "SPLIT", "START", "TABLE", "THEN", "THROW", "TIMEOUT",
	"TOKEN", "TRANSACTION", "TRUE", "TYPE", "UNIQUE", "UNSET", "UPDATE", "USE", "USER",
	"VALUE", "VALUES", "VERSION", "WHEN", "WHERE", "WITH",
}

// IsReserved reports whether name collides with a keyword, ignoring case.
func IsReserved(name string) bool {
	_, ok := reserved[strings.ToUpper(name)]
	return ok
}

func isPlainIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// EscapeIdent renders an identifier, quoting it with backticks when it
// would not read back as a plain identifier.
func EscapeIdent(s string) string {
	if isPlainIdent(s) && !IsReserved(s) {
		return s
	}
	return quote(s, '`', '`')
}

// escapeID renders a record id. Keywords are allowed after the colon so
// only the character set matters here.
func escapeID(s string) string {
	if isPlainIdent(s) {
		return s
	}
	return quote(s, '⟨', '⟩')
}

// QuoteString renders s as a single quoted string literal.
func QuoteString(s string) string {
	return quote(s, '\'', '\'')
}

func quote(s string, open, close rune) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteRune(open)
	for _, ch := range s {
		switch ch {
		case close, '\\':
			sb.WriteByte('\\')
			sb.WriteRune(ch)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			sb.WriteRune(ch)
		}
	}
	sb.WriteRune(close)
	return sb.String()
}
