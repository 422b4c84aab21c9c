package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/shibukawa/insert2merge"
	"github.com/shibukawa/insert2merge/catalog"
	"github.com/shibukawa/insert2merge/formatter"
	"github.com/shibukawa/insert2merge/keyselect"
	"github.com/shibukawa/insert2merge/merge"
)

// ConvertCmd represents the convert command
type ConvertCmd struct {
	Input       string `arg:"" optional:"" help:"Input file (stdin when omitted or -)"`
	Output      string `help:"Output file (stdout when omitted)" short:"o"`
	Write       bool   `help:"Write the result back to the input file" short:"w"`
	Keys        string `help:"Comma separated key columns used for every statement"`
	Database    string `help:"Database URL whose primary keys are used as key columns (overrides config)" name:"db"`
	All         bool   `help:"Apply the first selected key columns to all statements"`
	TargetAlias string `help:"Alias of the target table (overrides config)"`
	SourceAlias string `help:"Alias of the source row (overrides config)"`
	CommitEvery int    `help:"Number of statements between COMMIT markers (overrides config)"`
	NoFormat    bool   `help:"Keep each MERGE statement on one line"`
	Markdown    bool   `help:"Convert the sql code blocks of a markdown document"`
	Strict      bool   `help:"Fail when no statement was converted"`
}

// Run executes the convert command
func (cmd *ConvertCmd) Run(ctx *Context) error {
	fromStdin := cmd.Input == "" || cmd.Input == "-"

	if cmd.Write && fromStdin {
		return ErrWriteNeedsFile
	}

	if cmd.Write && cmd.Output != "" {
		return ErrWriteAndOutput
	}

	config, err := insert2merge.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if ctx.Verbose {
		color.New(color.FgBlue).Fprintf(ctx.Stderr, "Configuration loaded from: %s\n", ctx.Config)
	}

	input, err := cmd.readInput(ctx, fromStdin)
	if err != nil {
		return err
	}

	selector, closeSelector, err := cmd.selector(ctx, config, fromStdin)
	if err != nil {
		return err
	}
	defer closeSelector()

	var sqlFormatter merge.Formatter
	if !cmd.NoFormat && config.IsFormatEnabled() {
		sqlFormatter = formatter.NewSQLFormatter()
	}

	var sink insert2merge.DiagnosticSink
	if !ctx.Quiet {
		sink = insert2merge.NewConsoleSink(ctx.Stderr, ctx.Verbose)
	}

	options := cmd.mergeOptions(config)
	converter := insert2merge.NewConverter(options, selector, sink, sqlFormatter)

	var result insert2merge.Result

	if cmd.Markdown || (!fromStdin && isMarkdownFile(cmd.Input)) {
		result, err = converter.ConvertMarkdown(ctx.Context(), input)
	} else {
		result, err = converter.Convert(ctx.Context(), input)
	}

	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if result.NoOp && cmd.Strict {
		return ErrNothingConverted
	}

	if err := cmd.writeOutput(ctx, result); err != nil {
		return err
	}

	if ctx.Verbose {
		color.New(color.FgBlue).Fprintf(ctx.Stderr, "Run %s: target alias %s, source alias %s, commit every %d\n",
			result.RunID, options.TargetAlias, options.SourceAlias, options.CommitEvery)
	}

	if !ctx.Quiet && !result.NoOp {
		color.New(color.FgGreen).Fprintf(ctx.Stderr, "Converted %d statement(s), skipped %d\n", result.Converted, result.Skipped)
	}

	return nil
}

func (cmd *ConvertCmd) readInput(ctx *Context, fromStdin bool) (string, error) {
	if fromStdin {
		data, err := io.ReadAll(ctx.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}

		return string(data), nil
	}

	if !fileExists(cmd.Input) {
		return "", fmt.Errorf("%w: %s", ErrInputFileNotExist, cmd.Input)
	}

	data, err := os.ReadFile(cmd.Input)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", cmd.Input, err)
	}

	return string(data), nil
}

// mergeOptions applies the command line overrides to the configured options
func (cmd *ConvertCmd) mergeOptions(config *insert2merge.Config) merge.Options {
	options := config.MergeOptions()

	if cmd.TargetAlias != "" {
		options.TargetAlias = cmd.TargetAlias
	}

	if cmd.SourceAlias != "" {
		options.SourceAlias = cmd.SourceAlias
	}

	if cmd.CommitEvery != 0 {
		options.CommitEvery = cmd.CommitEvery
	}

	return options
}

// selector picks key columns from --keys, then the configured table keys,
// then the primary keys of the database, then the interactive prompt. The
// returned func releases the terminal and the database.
func (cmd *ConvertCmd) selector(ctx *Context, config *insert2merge.Config, fromStdin bool) (keyselect.Selector, func(), error) {
	if keys := keyselect.ParseKeyList(cmd.Keys); len(keys) > 0 {
		return keyselect.Static{Keys: keys, ApplyToAll: true}, func() {}, nil
	}

	selector, closePrompt := cmd.prompt(ctx, fromStdin)
	closer := closePrompt

	databaseURL := config.Database
	if cmd.Database != "" {
		databaseURL = cmd.Database
	}

	if databaseURL != "" {
		keys, err := catalog.Open(ctx.Context(), databaseURL, selector)
		if err != nil {
			closePrompt()
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}

		if ctx.Verbose {
			color.New(color.FgBlue).Fprintf(ctx.Stderr, "Primary keys read from %s database\n", keys.Dialect())
		}

		selector = keys
		closer = func() {
			keys.Close()
			closePrompt()
		}
	}

	if len(config.Keys) > 0 {
		return keyselect.TableMap{Keys: config.Keys, Fallback: selector}, closer, nil
	}

	return selector, closer, nil
}

// prompt returns the interactive selector. Questions go to stderr so stdout
// only carries the converted SQL. When stdin is the input the answers are
// read from the terminal.
func (cmd *ConvertCmd) prompt(ctx *Context, fromStdin bool) (keyselect.Selector, func()) {
	in := ctx.Stdin
	closer := func() {}

	if fromStdin {
		if ctx.Terminal == nil {
			return nil, closer
		}

		terminal, err := ctx.Terminal()
		if err != nil {
			if ctx.Verbose {
				color.New(color.FgYellow).Fprintf(ctx.Stderr, "No terminal for key selection: %v\n", err)
			}

			return nil, closer
		}

		in = terminal
		closer = func() { terminal.Close() }
	}

	prompt := keyselect.NewPrompt(in, ctx.Stderr)
	closeTerminal := closer
	closer = func() {
		prompt.Close()
		closeTerminal()
	}

	if !cmd.All {
		return prompt, closer
	}

	return keyselect.Func(func(c context.Context, table string, columns []string) (keyselect.Selection, error) {
		selection, err := prompt.SelectKeys(c, table, columns)
		selection.ApplyToAll = true

		return selection, err
	}), closer
}

func (cmd *ConvertCmd) writeOutput(ctx *Context, result insert2merge.Result) error {
	switch {
	case cmd.Write:
		if result.NoOp {
			return nil
		}

		if err := writeFile(cmd.Input, withTrailingNewline(result.Output)); err != nil {
			return fmt.Errorf("failed to write %s: %w", cmd.Input, err)
		}
	case cmd.Output != "":
		if err := writeFile(cmd.Output, withTrailingNewline(result.Output)); err != nil {
			return fmt.Errorf("failed to write %s: %w", cmd.Output, err)
		}
	default:
		if _, err := io.WriteString(ctx.Stdout, withTrailingNewline(result.Output)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	return nil
}
