package insert2merge

import (
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// sqlBlock is the byte range of the content of a fenced sql code block.
type sqlBlock struct {
	start int
	stop  int
}

// ConvertMarkdown converts the INSERT statements inside the ```sql fenced
// code blocks of a markdown document. All blocks share one run, so an
// "apply to all" key selection carries over from block to block. Blocks
// without convertible statements and all other text are left untouched.
func (c *Converter) ConvertMarkdown(ctx context.Context, markdown string) (Result, error) {
	r, err := c.newRun()
	if err != nil {
		return Result{}, err
	}

	source := []byte(markdown)

	var output strings.Builder

	last := 0

	for _, block := range findSQLBlocks(source) {
		converted, err := r.convert(ctx, markdown[block.start:block.stop])
		if err != nil {
			return Result{}, err
		}

		if converted == "" {
			continue
		}

		output.WriteString(markdown[last:block.start])
		output.WriteString(converted)
		output.WriteString("\n")

		last = block.stop
	}

	output.WriteString(markdown[last:])

	return r.result(markdown, output.String()), nil
}

// findSQLBlocks returns the fenced code blocks whose info string is sql.
// Blocks whose lines are not contiguous in the source (for example inside
// an indented list item) are ignored.
func findSQLBlocks(source []byte) []sqlBlock {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
	)

	doc := md.Parser().Parse(text.NewReader(source))

	var blocks []sqlBlock

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		codeBlock, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		if !strings.EqualFold(string(codeBlock.Language(source)), "sql") {
			return ast.WalkSkipChildren, nil
		}

		lines := codeBlock.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}

		for i := range lines.Len() {
			if lines.At(i).Padding > 0 || (i > 0 && lines.At(i).Start != lines.At(i-1).Stop) {
				return ast.WalkSkipChildren, nil
			}
		}

		blocks = append(blocks, sqlBlock{
			start: lines.At(0).Start,
			stop:  lines.At(lines.Len() - 1).Stop,
		})

		return ast.WalkSkipChildren, nil
	})

	return blocks
}
