package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/shibukawa/insert2merge"
)

// ResetCmd represents the reset command
type ResetCmd struct{}

// Run restores the default merge options in the configuration file
func (cmd *ResetCmd) Run(ctx *Context) error {
	config, err := insert2merge.ResetConfigFile(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to reset config: %w", err)
	}

	if ctx.Verbose {
		color.New(color.FgBlue).Fprintf(ctx.Stderr, "Target alias: %s, source alias: %s, commit every: %d\n",
			config.Merge.TargetAlias, config.Merge.SourceAlias, config.Merge.CommitEvery)
	}

	if !ctx.Quiet {
		color.New(color.FgGreen).Fprintf(ctx.Stderr, "Merge options in %s reset to defaults\n", ctx.Config)
	}

	return nil
}
