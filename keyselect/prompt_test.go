package keyselect

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestPromptSelectKeys(t *testing.T) {
	columns := []string{"id", "name", "dept"}

	tests := []struct {
		name     string
		input    string
		expected Selection
	}{
		{name: "numbers", input: "1,3\n", expected: Selection{Keys: []string{"id", "dept"}}},
		{name: "names with spaces", input: "ID dept\n", expected: Selection{Keys: []string{"id", "dept"}}},
		{name: "bang applies to all", input: "1!\n", expected: Selection{Keys: []string{"id"}, ApplyToAll: true}},
		{name: "all suffix", input: "name, all\n", expected: Selection{Keys: []string{"name"}, ApplyToAll: true}},
		{name: "star", input: "*\n", expected: Selection{Keys: []string{"id", "name", "dept"}}},
		{name: "retry after invalid answer", input: "9\nfoo\n2\n", expected: Selection{Keys: []string{"name"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			prompt := NewPrompt(strings.NewReader(tt.input), &out)

			selection, err := prompt.SelectKeys(context.Background(), "emp", columns)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, selection)
			assert.Contains(t, out.String(), "Select key columns for emp")
			assert.Contains(t, out.String(), "dept")
		})
	}
}

func TestPromptReportsInvalidAnswer(t *testing.T) {
	var out bytes.Buffer

	prompt := NewPrompt(strings.NewReader("foo\n1\n"), &out)

	_, err := prompt.SelectKeys(context.Background(), "emp", []string{"id"})
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "unknown column: foo")
}

func TestPromptCancel(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty line", input: "\n"},
		{name: "end of input", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := NewPrompt(strings.NewReader(tt.input), io.Discard)

			_, err := prompt.SelectKeys(context.Background(), "emp", []string{"id"})
			assert.True(t, errors.Is(err, ErrNoSelection))
		})
	}
}

func TestPromptContextCancelled(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prompt := NewPrompt(reader, io.Discard)

	_, err := prompt.SelectKeys(ctx, "emp", []string{"id"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPromptCloseStopsReader(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()

	go func() {
		writer.Write([]byte("1\n"))
	}()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prompt := NewPrompt(reader, io.Discard)

	_, err := prompt.SelectKeys(ctx, "emp", []string{"id"})
	assert.True(t, errors.Is(err, context.Canceled))

	assert.NoError(t, prompt.Close())

	select {
	case <-prompt.finished:
	case <-time.After(5 * time.Second):
		t.Fatal("reader goroutine still running after Close")
	}

	_, err = prompt.SelectKeys(context.Background(), "emp", []string{"id"})
	assert.True(t, errors.Is(err, ErrNoSelection))
	assert.NoError(t, prompt.Close())
}

func TestPromptReusesReader(t *testing.T) {
	prompt := NewPrompt(strings.NewReader("1\n2!\n"), io.Discard)
	columns := []string{"id", "name"}

	first, err := prompt.SelectKeys(context.Background(), "a", columns)
	assert.NoError(t, err)
	assert.Equal(t, []string{"id"}, first.Keys)

	second, err := prompt.SelectKeys(context.Background(), "b", columns)
	assert.NoError(t, err)
	assert.Equal(t, Selection{Keys: []string{"name"}, ApplyToAll: true}, second)
}
