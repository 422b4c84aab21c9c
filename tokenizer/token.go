package tokenizer

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrUnterminatedString  = errors.New("unterminated string literal")
	ErrUnterminatedComment = errors.New("unterminated block comment")
)

// TokenType represents the type of a token
type TokenType int

const (
	// Basic tokens
	EOF TokenType = iota
	WHITESPACE
	WORD              // identifiers, keywords without a dedicated type
	QUOTE             // string literals ('text')
	QUOTED_IDENTIFIER // "name" or `name`
	NUMBER            // numeric literals
	OPENED_PARENS     // (
	CLOSED_PARENS     // )
	COMMA             // ,
	SEMICOLON         // ;
	DOT               // .

	// SQL operators
	EQUAL         // =
	NOT_EQUAL     // <>, !=
	LESS_THAN     // <
	GREATER_THAN  // >
	LESS_EQUAL    // <=
	GREATER_EQUAL // >=
	PLUS          // +
	MINUS         // -
	MULTIPLY      // *
	DIVIDE        // /
	CONCAT        // ||

	// Statement keywords
	INSERT  // INSERT keyword
	INTO    // INTO keyword
	VALUES  // VALUES keyword
	MERGE   // MERGE keyword
	USING   // USING keyword
	ON      // ON keyword
	WHEN    // WHEN keyword
	MATCHED // MATCHED keyword
	THEN    // THEN keyword
	UPDATE  // UPDATE keyword
	SET     // SET keyword
	SELECT  // SELECT keyword
	FROM    // FROM keyword
	WHERE   // WHERE keyword
	AS      // AS keyword
	COMMIT  // COMMIT keyword

	// Logical operators
	AND  // AND keyword
	OR   // OR keyword
	NOT  // NOT keyword
	NULL // NULL keyword

	// Comments
	LINE_COMMENT  // -- line comment
	BLOCK_COMMENT // /* block comment */

	// Others
	OTHER // characters without a dedicated type (:, ?, @, ...)
)

var tokenTypeNames = map[TokenType]string{
	EOF:               "EOF",
	WHITESPACE:        "WHITESPACE",
	WORD:              "WORD",
	QUOTE:             "QUOTE",
	QUOTED_IDENTIFIER: "QUOTED_IDENTIFIER",
	NUMBER:            "NUMBER",
	OPENED_PARENS:     "OPENED_PARENS",
	CLOSED_PARENS:     "CLOSED_PARENS",
	COMMA:             "COMMA",
	SEMICOLON:         "SEMICOLON",
	DOT:               "DOT",
	EQUAL:             "EQUAL",
	NOT_EQUAL:         "NOT_EQUAL",
	LESS_THAN:         "LESS_THAN",
	GREATER_THAN:      "GREATER_THAN",
	LESS_EQUAL:        "LESS_EQUAL",
	GREATER_EQUAL:     "GREATER_EQUAL",
	PLUS:              "PLUS",
	MINUS:             "MINUS",
	MULTIPLY:          "MULTIPLY",
	DIVIDE:            "DIVIDE",
	CONCAT:            "CONCAT",
	INSERT:            "INSERT",
	INTO:              "INTO",
	VALUES:            "VALUES",
	MERGE:             "MERGE",
	USING:             "USING",
	ON:                "ON",
	WHEN:              "WHEN",
	MATCHED:           "MATCHED",
	THEN:              "THEN",
	UPDATE:            "UPDATE",
	SET:               "SET",
	SELECT:            "SELECT",
	FROM:              "FROM",
	WHERE:             "WHERE",
	AS:                "AS",
	COMMIT:            "COMMIT",
	AND:               "AND",
	OR:                "OR",
	NOT:               "NOT",
	NULL:              "NULL",
	LINE_COMMENT:      "LINE_COMMENT",
	BLOCK_COMMENT:     "BLOCK_COMMENT",
	OTHER:             "OTHER",
}

// String returns the string representation of TokenType
func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}

	return "UNKNOWN"
}

// IsKeyword reports whether the token type is one of the dedicated keyword types.
func (t TokenType) IsKeyword() bool {
	return t >= INSERT && t <= NULL
}

// IsWordLike reports whether a token of this type can be used as a name.
func (t TokenType) IsWordLike() bool {
	return t == WORD || t.IsKeyword()
}

// Position represents a position in the source code.
// Offset is the byte offset of the first byte of the token.
type Position struct {
	Line   int
	Column int
	Offset int
}

// String returns "line:column"
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents a token
type Token struct {
	Type     TokenType
	Value    string
	Position Position
}

// String returns the string representation of Token
func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}

// End returns the byte offset just after the token in the source text.
func (t Token) End() int {
	return t.Position.Offset + len(t.Value)
}
