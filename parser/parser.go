package parser

import (
	"slices"

	pc "github.com/shibukawa/parsercombinator"
	tok "github.com/shibukawa/insert2merge/tokenizer"
)

var (
	// Space parses a whitespace token.
	Space = PrimitiveType("space", tok.WHITESPACE)
	// Comment parses block or line comments.
	Comment = PrimitiveType("comment", tok.BLOCK_COMMENT, tok.LINE_COMMENT)
	// ParenOpen parses an opening parenthesis.
	ParenOpen = PrimitiveType("parenOpen", tok.OPENED_PARENS)
	// Semicolon parses a statement terminator.
	Semicolon = PrimitiveType("semicolon", tok.SEMICOLON)

	// InsertKeyword parses the INSERT keyword.
	InsertKeyword = PrimitiveType("insert", tok.INSERT)
	// Into parses the INTO keyword.
	Into = PrimitiveType("into", tok.INTO)
	// Values parses the VALUES keyword.
	Values = PrimitiveType("values", tok.VALUES)

	// SP consumes zero or more space/comment tokens.
	SP = pc.Drop(pc.ZeroOrMore("comment or space", pc.Or(Space, Comment)))
)

// PrimitiveType matches a single token of one of the given types.
func PrimitiveType(typeName string, types ...tok.TokenType) pc.Parser[tok.Token] {
	return func(pctx *pc.ParseContext[tok.Token], tokens []pc.Token[tok.Token]) (int, []pc.Token[tok.Token], error) {
		if len(tokens) > 0 && slices.Contains(types, tokens[0].Val.Type) {
			return 1, tokens[:1], nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

// TableName matches a dotted or hyphenated table reference such as
// hr.emp, "hr"."emp" or stage-db.orders. The parts must be adjacent.
var TableName pc.Parser[tok.Token] = func(pctx *pc.ParseContext[tok.Token], tokens []pc.Token[tok.Token]) (int, []pc.Token[tok.Token], error) {
	count := 0
	for count < len(tokens) && isTableNamePart(tokens[count].Val.Type) {
		count++
	}

	// a name can't start or end with a separator
	for count > 0 && isSeparator(tokens[count-1].Val.Type) {
		count--
	}

	if count == 0 || isSeparator(tokens[0].Val.Type) {
		return 0, nil, pc.ErrNotMatch
	}

	return count, tokens[:count], nil
}

func isTableNamePart(tt tok.TokenType) bool {
	return tt.IsWordLike() || tt == tok.QUOTED_IDENTIFIER || tt == tok.NUMBER || isSeparator(tt)
}

func isSeparator(tt tok.TokenType) bool {
	return tt == tok.DOT || tt == tok.MINUS
}

// ToParserToken converts tokenizer tokens into parser combinator tokens.
// EOF is dropped.
func ToParserToken(tokens []tok.Token) []pc.Token[tok.Token] {
	results := make([]pc.Token[tok.Token], 0, len(tokens))

	for _, token := range tokens {
		if token.Type == tok.EOF {
			continue
		}

		results = append(results, pc.Token[tok.Token]{
			Type: "raw",
			Pos: &pc.Pos{
				Line:  token.Position.Line,
				Col:   token.Position.Column,
				Index: token.Position.Offset,
			},
			Val: token,
			Raw: token.Value,
		})
	}

	return results
}

// ToSrc concatenates the raw text of the tokens.
func ToSrc(tokens []pc.Token[tok.Token]) string {
	src := make([]byte, 0, 64)
	for _, token := range tokens {
		src = append(src, token.Raw...)
	}

	return string(src)
}
