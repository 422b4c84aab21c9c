package tokenizer

import "strings"

// reservedWords is the union of words that are reserved in the major
// databases MERGE statements are written for (Oracle, SQL Server, DB2,
// PostgreSQL). A reserved word can't be used as an unquoted table alias.
var reservedWords = map[string]struct{}{
	"ALL": {}, "ALTER": {}, "AND": {}, "ANY": {}, "AS": {}, "ASC": {}, "BETWEEN": {}, "BY": {},
	"CASE": {}, "CHECK": {}, "COLUMN": {}, "COMMIT": {}, "CONSTRAINT": {}, "CREATE": {}, "CROSS": {},
	"CURRENT": {}, "DEFAULT": {}, "DELETE": {}, "DESC": {}, "DISTINCT": {}, "DROP": {}, "DUAL": {},
	"ELSE": {}, "END": {}, "EXCEPT": {}, "EXISTS": {}, "FOR": {}, "FOREIGN": {}, "FROM": {}, "FULL": {},
	"GRANT": {}, "GROUP": {}, "HAVING": {}, "IN": {}, "INDEX": {}, "INNER": {}, "INSERT": {},
	"INTERSECT": {}, "INTO": {}, "IS": {}, "JOIN": {}, "KEY": {}, "LEFT": {}, "LIKE": {}, "MATCHED": {},
	"MERGE": {}, "MINUS": {}, "NATURAL": {}, "NOT": {}, "NULL": {}, "OF": {}, "ON": {}, "OR": {},
	"ORDER": {}, "OUTER": {}, "PRIMARY": {}, "REFERENCES": {}, "RIGHT": {}, "ROW": {}, "ROWS": {},
	"SELECT": {}, "SET": {}, "TABLE": {}, "THEN": {}, "TO": {}, "UNION": {}, "UNIQUE": {},
	"UPDATE": {}, "USING": {}, "VALUES": {}, "VIEW": {}, "WHEN": {}, "WHERE": {}, "WITH": {},
}

var keywordTypes = map[string]TokenType{
	"INSERT":  INSERT,
	"INTO":    INTO,
	"VALUES":  VALUES,
	"MERGE":   MERGE,
	"USING":   USING,
	"ON":      ON,
	"WHEN":    WHEN,
	"MATCHED": MATCHED,
	"THEN":    THEN,
	"UPDATE":  UPDATE,
	"SET":     SET,
	"SELECT":  SELECT,
	"FROM":    FROM,
	"WHERE":   WHERE,
	"AS":      AS,
	"COMMIT":  COMMIT,
	"AND":     AND,
	"OR":      OR,
	"NOT":     NOT,
	"NULL":    NULL,
}

// IsReserved reports whether word is a reserved SQL word (case-insensitive).
func IsReserved(word string) bool {
	_, ok := reservedWords[strings.ToUpper(word)]
	return ok
}

// keywordType returns the TokenType for a word. Only ASCII words can be keywords.
func keywordType(word string) TokenType {
	for i := 0; i < len(word); i++ {
		if word[i] >= 0x80 {
			return WORD
		}
	}

	if tt, ok := keywordTypes[strings.ToUpper(word)]; ok {
		return tt
	}

	return WORD
}
