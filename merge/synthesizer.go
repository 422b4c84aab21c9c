package merge

import (
	"fmt"
	"strings"

	"github.com/shibukawa/insert2merge/parser"
)

// Formatter pretty-prints a generated statement.
type Formatter interface {
	Format(sql string) (string, error)
}

// Statement is one generated MERGE statement.
type Statement struct {
	Table string
	// Raw is the single-line statement.
	Raw string
	// Text is the formatted statement, or Raw when formatting is off or failed.
	Text string
	// FormatError is the formatter failure that made Text fall back to Raw.
	FormatError error
}

// Synthesizer turns INSERT statements into MERGE statements.
type Synthesizer struct {
	options   Options
	formatter Formatter
}

// NewSynthesizer creates a synthesizer. A nil formatter leaves statements
// on a single line.
func NewSynthesizer(options Options, formatter Formatter) *Synthesizer {
	return &Synthesizer{
		options:   options,
		formatter: formatter,
	}
}

// Synthesize renders ins as a MERGE statement matched on keys.
func (s *Synthesizer) Synthesize(ins parser.Insert, keys []string) (Statement, error) {
	if len(ins.Columns) != len(ins.Values) {
		return Statement{}, fmt.Errorf("%w: %d columns, %d values", parser.ErrColumnValueMismatch, len(ins.Columns), len(ins.Values))
	}

	if len(keys) == 0 {
		return Statement{}, fmt.Errorf("%w: table %s", ErrNoKeyColumns, ins.Table)
	}

	raw := Render(ins.Table, ins.Columns, ins.Values, keys, s.options)
	statement := Statement{
		Table: ins.Table,
		Raw:   raw,
		Text:  raw,
	}

	if s.formatter == nil {
		return statement, nil
	}

	formatted, err := s.formatter.Format(raw)
	if err != nil {
		statement.FormatError = err
		return statement, nil
	}

	statement.Text = formatted

	return statement, nil
}

// Render builds the single-line MERGE statement. Key columns are compared
// case-insensitively and never appear in the UPDATE SET list; when every
// column is a key the WHEN MATCHED branch is left out.
func Render(table string, columns, values, keys []string, options Options) string {
	t := options.TargetAlias
	s := options.SourceAlias

	isKey := make(map[string]bool, len(keys))
	for _, key := range keys {
		isKey[strings.ToLower(key)] = true
	}

	selectItems := make([]string, len(columns))
	insertValues := make([]string, len(columns))

	var setItems []string

	for i, column := range columns {
		selectItems[i] = fmt.Sprintf("%s AS %s", values[i], column)
		insertValues[i] = s + "." + column

		if !isKey[strings.ToLower(column)] {
			setItems = append(setItems, fmt.Sprintf("%s.%s = %s.%s", t, column, s, column))
		}
	}

	conditions := make([]string, len(keys))
	for i, key := range keys {
		conditions[i] = fmt.Sprintf("%s.%s = %s.%s", s, key, t, key)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "MERGE INTO %s %s USING (SELECT %s FROM dual) %s", table, t, strings.Join(selectItems, ", "), s)
	fmt.Fprintf(&b, " ON (%s)", strings.Join(conditions, " AND "))

	if len(setItems) > 0 {
		fmt.Fprintf(&b, " WHEN MATCHED THEN UPDATE SET %s", strings.Join(setItems, ", "))
	}

	fmt.Fprintf(&b, " WHEN NOT MATCHED THEN INSERT (%s) VALUES (%s);", strings.Join(columns, ", "), strings.Join(insertValues, ", "))

	return b.String()
}
