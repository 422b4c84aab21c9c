package merge

import (
	"fmt"
	"regexp"
	"strings"

	tok "github.com/shibukawa/insert2merge/tokenizer"
)

// Defaults for Options
const (
	DefaultTargetAlias = "t"
	DefaultSourceAlias = "s"
	DefaultCommitEvery = 100
)

var aliasPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$#]*$`)

// Options controls the shape of generated MERGE statements.
type Options struct {
	// TargetAlias names the table being merged into.
	TargetAlias string
	// SourceAlias names the single-row USING subquery.
	SourceAlias string
	// CommitEvery is the number of statements between COMMIT markers.
	CommitEvery int
}

// DefaultOptions returns t, s and a commit every 100 statements.
func DefaultOptions() Options {
	return Options{
		TargetAlias: DefaultTargetAlias,
		SourceAlias: DefaultSourceAlias,
		CommitEvery: DefaultCommitEvery,
	}
}

// Validate checks that both aliases are distinct plain identifiers and that
// the commit interval is positive.
func (o Options) Validate() error {
	if err := validateAlias("target", o.TargetAlias); err != nil {
		return err
	}

	if err := validateAlias("source", o.SourceAlias); err != nil {
		return err
	}

	if strings.EqualFold(o.TargetAlias, o.SourceAlias) {
		return fmt.Errorf("%w: target and source alias are both %q", ErrInvalidOptions, o.TargetAlias)
	}

	if o.CommitEvery < 1 {
		return fmt.Errorf("%w: commit interval must be at least 1, got %d", ErrInvalidOptions, o.CommitEvery)
	}

	return nil
}

func validateAlias(role, alias string) error {
	switch {
	case alias == "":
		return fmt.Errorf("%w: %s alias is empty", ErrInvalidOptions, role)
	case !aliasPattern.MatchString(alias):
		return fmt.Errorf("%w: %s alias %q is not an identifier", ErrInvalidOptions, role, alias)
	case tok.IsReserved(alias):
		return fmt.Errorf("%w: %s alias %q is a reserved word", ErrInvalidOptions, role, alias)
	}

	return nil
}
