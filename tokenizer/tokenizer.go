package tokenizer

import (
	"fmt"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenIterator uses Go 1.23 iterator pattern
type TokenIterator iter.Seq2[Token, error]

// SqlTokenizer is a tokenizer that returns an iterator
type SqlTokenizer struct {
	input   string
	options TokenizerOptions
}

// TokenizerOptions are options for the tokenizer
type TokenizerOptions struct {
	SkipWhitespace bool
	SkipComments   bool
	// UpperKeywords upper-cases the value of keyword tokens.
	UpperKeywords bool
}

// NewSqlTokenizer creates a new SqlTokenizer
func NewSqlTokenizer(input string, options ...TokenizerOptions) *SqlTokenizer {
	var opts TokenizerOptions
	if len(options) > 0 {
		opts = options[0]
	}

	return &SqlTokenizer{
		input:   input,
		options: opts,
	}
}

// Tokens returns an iterator of tokens. Errors are yielded in place of the
// broken token and tokenizing continues; the last token is always EOF.
func (t *SqlTokenizer) Tokens() TokenIterator {
	return t.TokensFrom(Position{Line: 1, Column: 1})
}

// TokensFrom works like Tokens but starts lexing at pos, which must point at
// the start of a token in the input.
func (t *SqlTokenizer) TokensFrom(pos Position) TokenIterator {
	return func(yield func(Token, error) bool) {
		tokenizer := newTokenizer(t.input, t.options)
		tokenizer.seek(pos)

		for {
			token, err := tokenizer.nextToken()
			if err != nil {
				if !yield(Token{}, err) {
					return
				}

				// An unterminated quote comes back as a one character token.
				if token.Value == "" {
					continue
				}
			}

			if token.Type == EOF {
				yield(token, nil)
				return
			}

			// Filtering based on options
			if t.options.SkipWhitespace && token.Type == WHITESPACE {
				continue
			}

			if t.options.SkipComments && (token.Type == LINE_COMMENT || token.Type == BLOCK_COMMENT) {
				continue
			}

			if !yield(token, nil) {
				return
			}
		}
	}
}

// AllTokens gets all tokens as a slice. The returned error is the last one
// seen; tokens after a broken one are still returned.
func (t *SqlTokenizer) AllTokens() ([]Token, error) {
	tokens := make([]Token, 0, 64)

	var lastError error

	for token, err := range t.Tokens() {
		if err != nil {
			lastError = err
			continue
		}

		tokens = append(tokens, token)
		if token.Type == EOF {
			break
		}
	}

	return tokens, lastError
}

// Internal tokenizer implementation
type tokenizer struct {
	input   string
	options TokenizerOptions
	current rune
	offset  int // byte offset of current
	width   int // byte width of current, 0 at end of input
	line    int
	column  int
}

func newTokenizer(input string, options TokenizerOptions) *tokenizer {
	t := &tokenizer{
		input:   input,
		options: options,
		line:    1,
		column:  1,
	}
	t.decode()

	return t
}

func (t *tokenizer) seek(pos Position) {
	if pos.Line == 0 {
		pos.Line, pos.Column = 1, 1
	}

	t.offset, t.line, t.column = pos.Offset, pos.Line, pos.Column
	t.decode()
}

// nextToken gets the next token
func (t *tokenizer) nextToken() (Token, error) {
	if t.width == 0 {
		return Token{Type: EOF, Position: t.position()}, nil
	}

	switch t.current {
	case '(':
		return t.single(OPENED_PARENS), nil
	case ')':
		return t.single(CLOSED_PARENS), nil
	case ',':
		return t.single(COMMA), nil
	case ';':
		return t.single(SEMICOLON), nil
	case '.':
		return t.single(DOT), nil
	case '=':
		return t.single(EQUAL), nil
	case '+':
		return t.single(PLUS), nil
	case '*':
		return t.single(MULTIPLY), nil
	case '\'':
		return t.readString('\'', QUOTE)
	case '"', '`':
		return t.readString(t.current, QUOTED_IDENTIFIER)
	case '-':
		if t.peekChar() == '-' {
			return t.readLineComment(), nil
		}

		return t.single(MINUS), nil
	case '/':
		if t.peekChar() == '*' {
			return t.readBlockComment()
		}

		return t.single(DIVIDE), nil
	case '<':
		switch t.peekChar() {
		case '=':
			return t.double(LESS_EQUAL), nil
		case '>':
			return t.double(NOT_EQUAL), nil
		}

		return t.single(LESS_THAN), nil
	case '>':
		if t.peekChar() == '=' {
			return t.double(GREATER_EQUAL), nil
		}

		return t.single(GREATER_THAN), nil
	case '!':
		if t.peekChar() == '=' {
			return t.double(NOT_EQUAL), nil
		}

		return t.single(OTHER), nil
	case '|':
		if t.peekChar() == '|' {
			return t.double(CONCAT), nil
		}

		return t.single(OTHER), nil
	}

	switch {
	case unicode.IsSpace(t.current):
		return t.readWhitespace(), nil
	case isWordStart(t.current):
		return t.readWord(), nil
	case unicode.IsDigit(t.current):
		return t.readNumber(), nil
	default:
		return t.single(OTHER), nil
	}
}

func (t *tokenizer) decode() {
	if t.offset >= len(t.input) {
		t.current = 0
		t.width = 0

		return
	}

	t.current, t.width = utf8.DecodeRuneInString(t.input[t.offset:])
}

// readChar moves to the next character
func (t *tokenizer) readChar() {
	if t.width == 0 {
		return
	}

	if t.current == '\n' {
		t.line++
		t.column = 1
	} else {
		t.column++
	}

	t.offset += t.width
	t.decode()
}

// peekChar looks ahead at the next character
func (t *tokenizer) peekChar() rune {
	next := t.offset + t.width
	if t.width == 0 || next >= len(t.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(t.input[next:])

	return r
}

func (t *tokenizer) position() Position {
	return Position{Line: t.line, Column: t.column, Offset: t.offset}
}

// token creates a token from start to the current offset
func (t *tokenizer) token(tokenType TokenType, start Position) Token {
	return Token{
		Type:     tokenType,
		Value:    t.input[start.Offset:t.offset],
		Position: start,
	}
}

func (t *tokenizer) single(tokenType TokenType) Token {
	start := t.position()
	t.readChar()

	return t.token(tokenType, start)
}

func (t *tokenizer) double(tokenType TokenType) Token {
	start := t.position()
	t.readChar()
	t.readChar()

	return t.token(tokenType, start)
}

// readWhitespace reads whitespace characters
func (t *tokenizer) readWhitespace() Token {
	start := t.position()
	for t.width > 0 && unicode.IsSpace(t.current) {
		t.readChar()
	}

	return t.token(WHITESPACE, start)
}

func isWordStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isWordPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$' || r == '#'
}

// readWord reads words (identifiers and keywords)
func (t *tokenizer) readWord() Token {
	start := t.position()
	for t.width > 0 && isWordPart(t.current) {
		t.readChar()
	}

	token := t.token(WORD, start)
	token.Type = keywordType(token.Value)

	if t.options.UpperKeywords && token.Type.IsKeyword() {
		token.Value = strings.ToUpper(token.Value)
	}

	return token
}

// readString reads quoted text. A doubled delimiter and a backslash escape
// both stay inside the literal. When the closing quote is missing, the opening
// quote is returned as an OTHER token along with the error.
func (t *tokenizer) readString(delimiter rune, tokenType TokenType) (Token, error) {
	start := t.position()
	t.readChar() // opening quote

	for t.width > 0 {
		switch {
		case t.current == '\\' && delimiter == '\'':
			t.readChar()
			t.readChar()
		case t.current == delimiter && t.peekChar() == delimiter:
			t.readChar()
			t.readChar()
		case t.current == delimiter:
			t.readChar()
			return t.token(tokenType, start), nil
		default:
			t.readChar()
		}
	}

	err := fmt.Errorf("%w: %c at line %d, column %d", ErrUnterminatedString, delimiter, start.Line, start.Column)

	// Lex the rest again as if the quote were not there.
	t.seek(start)

	return t.single(OTHER), err
}

// readNumber reads numeric literals
func (t *tokenizer) readNumber() Token {
	start := t.position()

	for t.width > 0 && unicode.IsDigit(t.current) {
		t.readChar()
	}

	// Decimal point
	if t.current == '.' && unicode.IsDigit(t.peekChar()) {
		t.readChar()

		for t.width > 0 && unicode.IsDigit(t.current) {
			t.readChar()
		}
	}

	// Exponent, only when digits follow
	if t.current == 'e' || t.current == 'E' {
		next := t.peekChar()
		if unicode.IsDigit(next) || ((next == '+' || next == '-') && t.digitAfterSign()) {
			t.readChar()

			if t.current == '+' || t.current == '-' {
				t.readChar()
			}

			for t.width > 0 && unicode.IsDigit(t.current) {
				t.readChar()
			}
		}
	}

	return t.token(NUMBER, start)
}

// digitAfterSign reports whether the character two positions ahead is a digit.
func (t *tokenizer) digitAfterSign() bool {
	next := t.offset + t.width
	if next >= len(t.input) {
		return false
	}

	_, signWidth := utf8.DecodeRuneInString(t.input[next:])
	if next+signWidth >= len(t.input) {
		return false
	}

	r, _ := utf8.DecodeRuneInString(t.input[next+signWidth:])

	return unicode.IsDigit(r)
}

// readLineComment reads line comments up to, not including, the newline
func (t *tokenizer) readLineComment() Token {
	start := t.position()
	for t.width > 0 && t.current != '\n' {
		t.readChar()
	}

	return t.token(LINE_COMMENT, start)
}

// readBlockComment reads block comments
func (t *tokenizer) readBlockComment() (Token, error) {
	start := t.position()
	t.readChar()
	t.readChar()

	for t.width > 0 {
		if t.current == '*' && t.peekChar() == '/' {
			t.readChar()
			t.readChar()

			return t.token(BLOCK_COMMENT, start), nil
		}

		t.readChar()
	}

	return Token{}, fmt.Errorf("%w at line %d, column %d", ErrUnterminatedComment, start.Line, start.Column)
}

// WordPositions yields the position of every stand-alone occurrence of word
// in input, compared case-insensitively. Quotes and comments are not taken
// into account.
func WordPositions(input, word string) iter.Seq[Position] {
	return func(yield func(Position) bool) {
		pos := Position{Line: 1, Column: 1}

		var prev rune

		for pos.Offset < len(input) {
			r, width := utf8.DecodeRuneInString(input[pos.Offset:])

			if !isWordPart(prev) && hasWordAt(input[pos.Offset:], word) {
				if !yield(pos) {
					return
				}
			}

			if r == '\n' {
				pos.Line++
				pos.Column = 1
			} else {
				pos.Column++
			}

			pos.Offset += width
			prev = r
		}
	}
}

func hasWordAt(s, word string) bool {
	if len(s) < len(word) || !strings.EqualFold(s[:len(word)], word) {
		return false
	}

	if len(s) == len(word) {
		return true
	}

	next, _ := utf8.DecodeRuneInString(s[len(word):])

	return !isWordPart(next)
}
