package keyselect

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Prompt asks the user for key columns on a terminal.
//
// The answer is a list of column numbers or names separated by commas or
// spaces, "*" for every column, optionally followed by "!" or "all" to apply
// the selection to the rest of the run. An empty answer or end of input
// skips the statement.
//
// Input is read by a background goroutine; call Close when the prompt is no
// longer needed.
type Prompt struct {
	in  io.Reader
	out io.Writer

	once      sync.Once
	closeOnce sync.Once
	lines     chan string
	done      chan struct{}
	finished  chan struct{}
}

// NewPrompt creates a prompt reading answers from in and writing questions to out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{
		in:       in,
		out:      out,
		lines:    make(chan string),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// Close stops the background reader. A read already waiting on the input
// still has to return first; the input itself is not closed. Later questions
// are answered with ErrNoSelection.
func (p *Prompt) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
	})

	return nil
}

// SelectKeys shows the columns of table and reads the answer.
func (p *Prompt) SelectKeys(ctx context.Context, table string, columns []string) (Selection, error) {
	title := color.New(color.FgCyan, color.Bold)
	number := color.New(color.FgYellow)
	warn := color.New(color.FgRed)

	title.Fprintf(p.out, "Select key columns for %s:\n", table)

	for i, column := range columns {
		fmt.Fprintf(p.out, "  %s %s\n", number.Sprintf("%2d)", i+1), column)
	}

	for {
		fmt.Fprint(p.out, "Keys (e.g. 1,3 or id; '!' applies to all, empty skips): ")

		line, err := p.readLine(ctx)
		if err != nil {
			fmt.Fprintln(p.out)
			return Selection{}, err
		}

		selection, err := parseAnswer(line, columns)
		if errors.Is(err, ErrNoSelection) {
			return Selection{}, err
		}

		if err != nil {
			warn.Fprintf(p.out, "%v\n", err)
			continue
		}

		return selection, nil
	}
}

func (p *Prompt) readLine(ctx context.Context) (string, error) {
	select {
	case <-p.done:
		return "", ErrNoSelection
	default:
	}

	p.once.Do(func() {
		go p.scan()
	})

	if err := ctx.Err(); err != nil {
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-p.done:
		return "", ErrNoSelection
	case line, ok := <-p.lines:
		if !ok {
			return "", ErrNoSelection
		}

		return line, nil
	}
}

// scan feeds input lines to readLine so a blocked read can be abandoned
// when the context is cancelled.
func (p *Prompt) scan() {
	defer close(p.finished)
	defer close(p.lines)

	scanner := bufio.NewScanner(p.in)
	for scanner.Scan() {
		select {
		case p.lines <- scanner.Text():
		case <-p.done:
			return
		}
	}
}

// errInvalidAnswer is reported to the user and the question is asked again.
type errInvalidAnswer string

func (e errInvalidAnswer) Error() string {
	return string(e)
}

func parseAnswer(line string, columns []string) (Selection, error) {
	answer := strings.TrimSpace(line)
	if answer == "" {
		return Selection{}, ErrNoSelection
	}

	var selection Selection

	if trimmed, ok := strings.CutSuffix(answer, "!"); ok {
		selection.ApplyToAll = true
		answer = trimmed
	}

	fields := strings.FieldsFunc(answer, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	if n := len(fields); n > 1 && strings.EqualFold(fields[n-1], "all") {
		selection.ApplyToAll = true
		fields = fields[:n-1]
	}

	if len(fields) == 0 {
		return Selection{}, errInvalidAnswer("no column given")
	}

	for _, field := range fields {
		if field == "*" {
			selection.Keys = append(selection.Keys, columns...)
			continue
		}

		column, ok := pickColumn(field, columns)
		if !ok {
			return Selection{}, errInvalidAnswer(fmt.Sprintf("unknown column: %s", field))
		}

		selection.Keys = append(selection.Keys, column)
	}

	return selection, nil
}

func pickColumn(field string, columns []string) (string, bool) {
	if n, err := strconv.Atoi(field); err == nil {
		if n < 1 || n > len(columns) {
			return "", false
		}

		return columns[n-1], true
	}

	for _, column := range columns {
		if fold(column) == fold(field) {
			return column, true
		}
	}

	return "", false
}
