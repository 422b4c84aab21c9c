package main

import (
	"fmt"

	"github.com/fatih/color"
)

// InitCmd represents the init command
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

func (i *InitCmd) Run(ctx *Context) error {
	if fileExists(ctx.Config) && !i.Force {
		return fmt.Errorf("%w: %s", ErrConfigExists, ctx.Config)
	}

	if err := createSampleConfig(ctx.Config); err != nil {
		return fmt.Errorf("failed to create sample configuration: %w", err)
	}

	if !ctx.Quiet {
		color.New(color.FgGreen).Fprintf(ctx.Stderr, "Created %s\n", ctx.Config)
		fmt.Fprintln(ctx.Stderr, "\nNext steps:")
		fmt.Fprintln(ctx.Stderr, "1. List the key columns of your tables under keys:")
		fmt.Fprintf(ctx.Stderr, "2. Run 'insert2merge convert seed.sql' to convert INSERT statements\n")
	}

	return nil
}

func createSampleConfig(path string) error {
	configContent := `# MERGE statement options
merge:
  target_alias: t     # alias of the table merged into
  source_alias: s     # alias of the USING subquery
  commit_every: 100   # statements between COMMIT; markers

# Format generated statements one clause per line
format: true

# Database whose primary keys are used as key columns
# database: ${DATABASE_URL}

# Key columns per table; other tables are asked interactively
# keys:
#   emp: [id]
#   hr.assignment: [emp_id, project]
`

	return writeFile(path, configContent)
}
