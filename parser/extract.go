package parser

import (
	"iter"

	pc "github.com/shibukawa/parsercombinator"
	tok "github.com/shibukawa/insert2merge/tokenizer"
)

var (
	// INSERT INTO <table> (
	insertHead = pc.Seq(InsertKeyword, SP, Into, SP, TableName, SP, ParenOpen)
	// VALUES (
	valuesHead = pc.Seq(SP, Values, SP, ParenOpen)
	// ;
	terminator = pc.Seq(SP, Semicolon)
)

// RawInsert is one INSERT statement found in the input, before the column
// and value lists are split.
type RawInsert struct {
	Table       string
	ColumnsText string
	ValuesText  string
	// Text is the whole statement including the terminating semicolon.
	Text     string
	Position tok.Position
}

// Extract scans input for statements shaped like
//
//	INSERT INTO <table> (<columns>) VALUES (<values>);
//
// Keywords are case-insensitive and whitespace or comments may appear between
// the parts. Parentheses are matched by depth, so string literals and nested
// calls containing ");" do not cut a statement short. Text that does not have
// this shape is skipped.
//
// Every INSERT word is tried as a statement start and lexed on its own, so a
// stray quote elsewhere in the input cannot hide the statements after it.
//
// The returned sequence is lazy and can be iterated more than once.
func Extract(input string) iter.Seq[RawInsert] {
	return func(yield func(RawInsert) bool) {
		pctx := pc.NewParseContext[tok.Token]()
		next := 0

		for pos := range tok.WordPositions(input, "INSERT") {
			if pos.Offset < next {
				continue
			}

			raw, ok := matchInsert(pctx, input, statementTokens(input, pos))
			if !ok {
				continue
			}

			if !yield(raw) {
				return
			}

			next = raw.Position.Offset + len(raw.Text)
		}
	}
}

// statementTokens lexes input from pos up to and including the first
// semicolon.
func statementTokens(input string, pos tok.Position) []pc.Token[tok.Token] {
	var tokens []tok.Token

	// Lexer errors only affect the broken statement; it won't match.
	for token, err := range tok.NewSqlTokenizer(input).TokensFrom(pos) {
		if err != nil {
			continue
		}

		tokens = append(tokens, token)
		if token.Type == tok.SEMICOLON || token.Type == tok.EOF {
			break
		}
	}

	return ToParserToken(tokens)
}

// matchInsert tries to match one statement at the start of tokens.
func matchInsert(pctx *pc.ParseContext[tok.Token], input string, tokens []pc.Token[tok.Token]) (RawInsert, bool) {
	consume, head, err := insertHead(pctx, tokens)
	if err != nil {
		return RawInsert{}, false
	}

	table := tableNameOf(head)
	if table == "" {
		return RawInsert{}, false
	}

	columnsOpen := consume - 1

	columnsClose, ok := closingParen(tokens, columnsOpen)
	if !ok {
		return RawInsert{}, false
	}

	consume, _, err = valuesHead(pctx, tokens[columnsClose+1:])
	if err != nil {
		return RawInsert{}, false
	}

	valuesOpen := columnsClose + consume

	valuesClose, ok := closingParen(tokens, valuesOpen)
	if !ok {
		return RawInsert{}, false
	}

	consume, _, err = terminator(pctx, tokens[valuesClose+1:])
	if err != nil {
		return RawInsert{}, false
	}

	end := valuesClose + consume
	first := tokens[0].Val
	last := tokens[end].Val

	return RawInsert{
		Table:       table,
		ColumnsText: between(input, tokens[columnsOpen].Val, tokens[columnsClose].Val),
		ValuesText:  between(input, tokens[valuesOpen].Val, tokens[valuesClose].Val),
		Text:        input[first.Position.Offset:last.End()],
		Position:    first.Position,
	}, true
}

// tableNameOf picks the table name tokens out of a matched insert head.
func tableNameOf(head []pc.Token[tok.Token]) string {
	var (
		afterInto bool
		name      []pc.Token[tok.Token]
	)

	for _, token := range head {
		switch {
		case !afterInto:
			afterInto = token.Val.Type == tok.INTO
		case token.Val.Type == tok.OPENED_PARENS:
			return ToSrc(name)
		case token.Val.Type == tok.WHITESPACE, token.Val.Type == tok.LINE_COMMENT, token.Val.Type == tok.BLOCK_COMMENT:
		default:
			name = append(name, token)
		}
	}

	return ToSrc(name)
}

// closingParen returns the index of the parenthesis closing tokens[open].
func closingParen(tokens []pc.Token[tok.Token], open int) (int, bool) {
	if open < 0 || open >= len(tokens) || tokens[open].Val.Type != tok.OPENED_PARENS {
		return 0, false
	}

	depth := 0

	for i := open; i < len(tokens); i++ {
		switch tokens[i].Val.Type {
		case tok.OPENED_PARENS:
			depth++
		case tok.CLOSED_PARENS:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}

	return 0, false
}

// between returns the source text strictly inside two parenthesis tokens.
func between(input string, open, closing tok.Token) string {
	return input[open.End():closing.Position.Offset]
}
