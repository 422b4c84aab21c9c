package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
)

const version = "v0.1.0"

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Terminal opens the controlling terminal for prompts when stdin
	// carries the input. nil disables prompting in that case.
	Terminal func() (io.ReadCloser, error)

	ctx context.Context
}

// Context returns the cancellation context of the command.
func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}

	return c.ctx
}

// cli represents the command-line interface
type cli struct {
	Config  string     `help:"Configuration file path" default:"insert2merge.yaml"`
	Verbose bool       `help:"Enable verbose output" short:"v"`
	Quiet   bool       `help:"Suppress output" short:"q"`
	Convert ConvertCmd `cmd:"" help:"Convert INSERT statements into MERGE statements"`
	Reset   ResetCmd   `cmd:"" help:"Restore the default merge options in the configuration file"`
	Init    InitCmd    `cmd:"" help:"Create a configuration file with default settings"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// CLI holds the parsed command line
var CLI cli

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintf(ctx.Stdout, "insert2merge %s\n", version)
	return nil
}

func openTerminal() (io.ReadCloser, error) {
	return os.Open("/dev/tty")
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("insert2merge"),
		kong.Description("Convert SQL INSERT statements into MERGE (upsert) statements."),
	)

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	appCtx := &Context{
		Config:   CLI.Config,
		Verbose:  CLI.Verbose,
		Quiet:    CLI.Quiet,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Terminal: openTerminal,
		ctx:      signalCtx,
	}

	err := ctx.Run(appCtx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
