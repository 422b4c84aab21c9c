package formatter

import (
	"fmt"
	"strings"

	tok "github.com/shibukawa/insert2merge/tokenizer"
)

// SQLFormatter lays out MERGE statements one clause per line
type SQLFormatter struct {
	indentSize int
}

// NewSQLFormatter creates a new SQL formatter
func NewSQLFormatter() *SQLFormatter {
	return &SQLFormatter{
		indentSize: 4, // 4 spaces for indentation
	}
}

// Format formats sql. Keywords are upper-cased, clauses start new lines and
// the items of SELECT, SET, INSERT and VALUES lists get a line each.
// Parentheses inside expressions are kept on one line.
func (f *SQLFormatter) Format(sql string) (string, error) {
	tokens, err := tok.NewSqlTokenizer(sql, tok.TokenizerOptions{
		SkipWhitespace: true,
		UpperKeywords:  true,
	}).AllTokens()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFormat, err)
	}

	return f.formatTokens(tokens), nil
}

type clause int

const (
	clauseNone clause = iota
	clauseSelect
	clauseSet
	clauseList
	clauseCondition
)

// frame is one level of parentheses. Block frames put their content on
// separate lines; inline frames keep it on the current line.
type frame struct {
	block bool
	// open is the indent of the line holding the opening parenthesis
	open int
	// level is the indent of clause keywords inside the frame
	level int
	// items is the indent of list items and conditions
	items  int
	clause clause
	// branch is the indent of the action in a WHEN branch, -1 outside one
	branch int
	cases  int
}

// formatTokens formats the tokens according to the style rules
func (f *SQLFormatter) formatTokens(tokens []tok.Token) string {
	p := &printer{indentSize: f.indentSize}
	frames := []*frame{{block: true, branch: -1}}
	pending := clauseNone

	for _, token := range tokens {
		top := frames[len(frames)-1]
		opensBlock := pending
		pending = clauseNone

		if !top.block {
			p.write(token)

			switch token.Type {
			case tok.OPENED_PARENS:
				frames = append(frames, &frame{})
			case tok.CLOSED_PARENS:
				frames = frames[:len(frames)-1]
			}

			continue
		}

		// CASE expressions stay on one line
		if isWord(token, "CASE") {
			top.cases++
		}

		if top.cases > 0 {
			p.write(token)

			switch {
			case token.Type == tok.OPENED_PARENS:
				frames = append(frames, &frame{})
			case isWord(token, "END"):
				top.cases--
			}

			continue
		}

		switch token.Type {
		case tok.EOF:
		case tok.MERGE, tok.FROM, tok.WHERE:
			p.newline(top.level)
			p.write(token)

			top.clause = clauseNone
		case tok.USING:
			p.newline(top.level)
			p.write(token)

			pending = clauseSelect
		case tok.ON:
			p.newline(top.level)
			p.write(token)

			pending = clauseCondition
		case tok.WHEN:
			p.newline(top.level)
			p.write(token)

			top.clause = clauseNone
			top.branch = top.level + 1
		case tok.UPDATE:
			p.newline(top.action())
			p.write(token)
		case tok.INSERT, tok.VALUES:
			p.newline(top.action())
			p.write(token)

			pending = clauseList
		case tok.SET:
			p.write(token)

			top.clause = clauseSet
			top.items = p.indent + 1
			p.newline(top.items)
		case tok.SELECT:
			p.newline(top.level)
			p.write(token)

			top.clause = clauseSelect
			top.items = p.indent + 1
			p.newline(top.items)
		case tok.AND, tok.OR:
			if top.clause == clauseCondition {
				p.newline(top.items)
			}

			p.write(token)
		case tok.COMMA:
			p.write(token)

			switch top.clause {
			case clauseSelect, clauseSet, clauseList:
				p.newline(top.items)
			}
		case tok.OPENED_PARENS:
			p.write(token)

			if opensBlock == clauseNone {
				frames = append(frames, &frame{})
				continue
			}

			inner := &frame{
				block:  true,
				open:   p.indent,
				level:  p.indent + 1,
				items:  p.indent + 1,
				branch: -1,
			}
			if opensBlock != clauseSelect {
				inner.clause = opensBlock
			}

			frames = append(frames, inner)
			p.newline(inner.level)
		case tok.CLOSED_PARENS:
			if len(frames) > 1 {
				frames = frames[:len(frames)-1]
				p.newline(top.open)
			}

			p.write(token)
		case tok.SEMICOLON:
			p.write(token)

			frames = frames[:1]
			frames[0].clause = clauseNone
			frames[0].branch = -1
			p.newline(0)
		case tok.LINE_COMMENT:
			p.write(token)
			p.newline(p.indent)
		default:
			p.write(token)
		}
	}

	return f.cleanupFormatting(p.String())
}

func isWord(token tok.Token, word string) bool {
	return token.Type == tok.WORD && strings.EqualFold(token.Value, word)
}

// action returns the indent of UPDATE, INSERT and VALUES.
func (fr *frame) action() int {
	if fr.branch >= 0 {
		return fr.branch
	}

	return fr.level
}

// printer collects output lines.
type printer struct {
	indentSize int
	lines      []string
	current    strings.Builder
	indent     int
	last       tok.Token
	unary      bool
}

// newline starts a new line at indent. Nothing happens to an empty line
// except the indent change.
func (p *printer) newline(indent int) {
	if p.current.Len() > 0 {
		p.lines = append(p.lines, p.current.String())
		p.current.Reset()
	}

	p.indent = indent
}

func (p *printer) write(token tok.Token) {
	if token.Type == tok.EOF {
		return
	}

	if p.current.Len() == 0 {
		p.current.WriteString(strings.Repeat(" ", p.indent*p.indentSize))
	} else if !glued(p.last, token) && needsSpaceBefore(p.last, token, p.unary) {
		p.current.WriteString(" ")
	}

	p.current.WriteString(token.Value)

	if token.Type == tok.MINUS {
		p.unary = p.current.Len() == len(token.Value)+p.indent*p.indentSize || opensOperand(p.last)
	}

	p.last = token
}

func (p *printer) String() string {
	p.newline(0)
	return strings.Join(p.lines, "\n")
}

// opensOperand reports whether a minus after prev is a sign.
func opensOperand(prev tok.Token) bool {
	switch prev.Type {
	case tok.COMMA, tok.OPENED_PARENS, tok.EQUAL, tok.NOT_EQUAL, tok.LESS_THAN, tok.GREATER_THAN,
		tok.LESS_EQUAL, tok.GREATER_EQUAL, tok.PLUS, tok.MINUS, tok.MULTIPLY, tok.DIVIDE, tok.CONCAT:
		return true
	}

	return prev.Type.IsKeyword()
}

// glued reports whether prev and token touch in the source and read as one
// name or literal there, as in stage-db.orders or N'x'.
func glued(prev, token tok.Token) bool {
	return prev.End() == token.Position.Offset && joinable(prev.Type) && joinable(token.Type)
}

func joinable(tt tok.TokenType) bool {
	return tt.IsWordLike() || tt == tok.QUOTE || tt == tok.QUOTED_IDENTIFIER || tt == tok.NUMBER || tt == tok.MINUS
}

// needsSpaceBefore checks if a token needs a space before it
func needsSpaceBefore(prev, token tok.Token, unary bool) bool {
	switch token.Type {
	case tok.COMMA, tok.CLOSED_PARENS, tok.DOT, tok.SEMICOLON:
		return false
	case tok.OPENED_PARENS:
		if prev.Type == tok.WORD || prev.Type == tok.QUOTED_IDENTIFIER {
			return false
		}
	}

	switch {
	case prev.Type == tok.OPENED_PARENS, prev.Type == tok.DOT:
		return false
	case prev.Type == tok.MINUS && unary:
		return false
	case prev.Type == tok.OTHER && (prev.Value == ":" || prev.Value == "@"):
		return false
	}

	return true
}

// cleanupFormatting cleans up the formatted SQL
func (f *SQLFormatter) cleanupFormatting(sql string) string {
	lines := strings.Split(sql, "\n")

	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, strings.TrimRight(line, " \t"))
	}

	return strings.TrimSpace(strings.Join(cleanedLines, "\n"))
}
