package parser

// keywords maps the upper case spelling of every reserved word to its
// token kind. It is built once and never written afterwards, so it is safe
// to share between concurrent parses.
var keywords = map[string]TokenKind{
	"AFTER":         TK_AFTER,
	"ALL":           TK_ALL,
	"ALLINSIDE":     TK_ALLINSIDE,
	"ANALYZE":       TK_ANALYZE,
	"ANALYZER":      TK_ANALYZER,
	"AND":           TK_AND,
	"ANYINSIDE":     TK_ANYINSIDE,
	"AS":            TK_AS,
	"ASC":           TK_ASC,
	"ASSERT":        TK_ASSERT,
	"AT":            TK_AT_KW,
	"BEFORE":        TK_BEFORE,
	"BEGIN":         TK_BEGIN,
	"BREAK":         TK_BREAK,
	"BY":            TK_BY,
	"CANCEL":        TK_CANCEL,
	"CHANGEFEED":    TK_CHANGEFEED,
	"CHANGES":       TK_CHANGES,
	"COLLATE":       TK_COLLATE,
	"COLUMNS":       TK_COLUMNS,
	"COMMENT":       TK_COMMENT,
	"COMMIT":        TK_COMMIT,
	"CONTAINS":      TK_CONTAINS,
	"CONTAINSALL":   TK_CONTAINSALL,
	"CONTAINSANY":   TK_CONTAINSANY,
	"CONTAINSNONE":  TK_CONTAINSNONE,
	"CONTAINSNOT":   TK_CONTAINSNOT,
	"CONTENT":       TK_CONTENT,
	"CONTINUE":      TK_CONTINUE,
	"CREATE":        TK_CREATE,
	"DATABASE":      TK_DATABASE,
	"DB":            TK_DB,
	"DEFAULT":       TK_DEFAULT,
	"DEFINE":        TK_DEFINE,
	"DELETE":        TK_DELETE,
	"DESC":          TK_DESC,
	"DIFF":          TK_DIFF,
	"DROP":          TK_DROP,
	"DUPLICATE":     TK_DUPLICATE,
	"ELSE":          TK_ELSE,
	"END":           TK_END,
	"EVENT":         TK_EVENT,
	"EXPLAIN":       TK_EXPLAIN,
	"FALSE":         TK_FALSE,
	"FETCH":         TK_FETCH,
	"FIELD":         TK_FIELD,
	"FIELDS":        TK_FIELDS,
	"FLEXIBLE":      TK_FLEXIBLE,
	"FN":            TK_FN,
	"FOR":           TK_FOR,
	"FROM":          TK_FROM,
	"FULL":          TK_FULL,
	"FUNCTION":      TK_FUNCTION,
	"FUTURE":        TK_FUTURE,
	"GROUP":         TK_GROUP,
	"IF":            TK_IF,
	"IGNORE":        TK_IGNORE,
	"IN":            TK_IN,
	"INDEX":         TK_INDEX,
	"INFO":          TK_INFO,
	"INSERT":        TK_INSERT,
	"INSIDE":        TK_INSIDE,
	"INTERSECTS":    TK_INTERSECTS,
	"INTO":          TK_INTO,
	"IS":            TK_IS,
	"KEY":           TK_KEY,
	"KILL":          TK_KILL,
	"LET":           TK_LET,
	"LIMIT":         TK_LIMIT,
	"LIVE":          TK_LIVE,
	"MERGE":         TK_MERGE,
	"ML":            TK_ML,
	"MODEL":         TK_MODEL,
	"NAMESPACE":     TK_NAMESPACE,
	"NOINDEX":       TK_NOINDEX,
	"NONE":          TK_NONE,
	"NONEINSIDE":    TK_NONEINSIDE,
	"NOT":           TK_NOT,
	"NOTINSIDE":     TK_NOTINSIDE,
	"NS":            TK_NS,
	"NULL":          TK_NULL,
	"NUMERIC":       TK_NUMERIC,
	"OMIT":          TK_OMIT,
	"ON":            TK_ON,
	"ONLY":          TK_ONLY,
	"OPTION":        TK_OPTION,
	"OR":            TK_OR,
	"ORDER":         TK_ORDER,
	"OUTSIDE":       TK_OUTSIDE,
	"PARALLEL":      TK_PARALLEL,
	"PARAM":         TK_PARAM_KW,
	"PATCH":         TK_PATCH,
	"PERMISSIONS":   TK_PERMISSIONS,
	"RAND":          TK_RAND,
	"RELATE":        TK_RELATE,
	"REMOVE":        TK_REMOVE,
	"REPLACE":       TK_REPLACE,
	"RETURN":        TK_RETURN,
	"ROOT":          TK_ROOT,
	"SCHEMAFULL":    TK_SCHEMAFULL,
	"SCHEMALESS":    TK_SCHEMALESS,
	"SCOPE":         TK_SCOPE,
	"SELECT":        TK_SELECT,
	"SET":           TK_SET,
	"SHOW":          TK_SHOW,
	"SINCE":         TK_SINCE,
	"SLEEP":         TK_SLEEP,
	"SPLIT":         TK_SPLIT,
	"START":         TK_START,
	"TABLE":         TK_TABLE,
	"THEN":          TK_THEN,
	"THROW":         TK_THROW,
	"TIMEOUT":       TK_TIMEOUT,
	"TOKEN":         TK_TOKEN,
	"TRANSACTION":   TK_TRANSACTION,
	"TRUE":          TK_TRUE,
	"TYPE":          TK_TYPE,
	"UNIQUE":        TK_UNIQUE,
	"UNSET":         TK_UNSET,
	"UPDATE":        TK_UPDATE,
	"USE":           TK_USE,
	"USER":          TK_USER,
	"VALUE":         TK_VALUE,
	"VALUES":        TK_VALUES,
	"VERSION":       TK_VERSION,
	"WHEN":          TK_WHEN,
	"WHERE":         TK_WHERE,
	"WITH":          TK_WITH,
}

// keywordNames is the inverse of keywords, used to print token kinds.
var keywordNames = make(map[TokenKind]string, len(keywords))

func init() {
	for name, kind := range keywords {
		keywordNames[kind] = name
	}
}

// maxKeywordLen bounds the buffer used for case folding during lookup.
const maxKeywordLen = 16

// lookupKeyword returns the keyword spelled by ident, ignoring ASCII case.
func lookupKeyword(ident []byte) (TokenKind, bool) {
	if len(ident) > maxKeywordLen {
		return 0, false
	}
	var buf [maxKeywordLen]byte
	for i, c := range ident {
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		buf[i] = c
	}
	kind, ok := keywords[string(buf[:len(ident)])]
	return kind, ok
}
