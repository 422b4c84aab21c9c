package insert2merge

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shibukawa/insert2merge/keyselect"
	"github.com/shibukawa/insert2merge/merge"
	"github.com/shibukawa/insert2merge/parser"
)

// Diagnostic messages shared with editor integrations
const (
	MessageMismatch     = "number of columns and values do not match"
	MessageNoKeys       = "no key columns selected"
	MessageNoStatements = "no valid INSERT statements found"
)

// Result is the outcome of one conversion run.
type Result struct {
	// RunID correlates the diagnostics of one run.
	RunID string
	// Output is the converted text, or the input unchanged when NoOp is set.
	Output      string
	Converted   int
	Skipped     int
	NoOp        bool
	Diagnostics []Diagnostic
}

// Converter rewrites INSERT statements as MERGE statements.
type Converter struct {
	options   merge.Options
	selector  keyselect.Selector
	sink      DiagnosticSink
	formatter merge.Formatter
}

// NewConverter creates a converter. sink and formatter may be nil.
func NewConverter(options merge.Options, selector keyselect.Selector, sink DiagnosticSink, formatter merge.Formatter) *Converter {
	return &Converter{
		options:   options,
		selector:  selector,
		sink:      sink,
		formatter: formatter,
	}
}

// Convert replaces input with the MERGE statements generated from its
// INSERT statements, separated by COMMIT markers. Statements that can't be
// converted are skipped and reported. When nothing is converted the input is
// returned unchanged and Result.NoOp is set.
//
// Convert fails only for invalid options or a cancelled context.
func (c *Converter) Convert(ctx context.Context, input string) (Result, error) {
	r, err := c.newRun()
	if err != nil {
		return Result{}, err
	}

	output, err := r.convert(ctx, input)
	if err != nil {
		return Result{}, err
	}

	return r.result(input, output), nil
}

// run holds the state of one Convert or ConvertMarkdown call.
type run struct {
	id          string
	options     merge.Options
	policy      *keyselect.Policy
	synthesizer *merge.Synthesizer
	collector   *DiagnosticCollector
	sink        DiagnosticSink
	converted   int
	skipped     int
}

func (c *Converter) newRun() (*run, error) {
	if err := c.options.Validate(); err != nil {
		return nil, err
	}

	collector := &DiagnosticCollector{}

	return &run{
		id:          uuid.NewString(),
		options:     c.options,
		policy:      keyselect.NewPolicy(c.selector),
		synthesizer: merge.NewSynthesizer(c.options, c.formatter),
		collector:   collector,
		sink:        MultiSink{collector, c.sink},
	}, nil
}

// convert converts the statements of one text and returns the batch output,
// empty when nothing was converted.
func (r *run) convert(ctx context.Context, input string) (string, error) {
	batch := merge.NewBatch(r.options.CommitEvery)

	for ins, err := range parser.ExtractInserts(input) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}

		if err != nil {
			r.skip(batch, ins, KindMismatch, parseMessage(err))
			continue
		}

		selection, err := r.policy.Select(ctx, ins.Table, ins.Columns)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}

			if errors.Is(err, keyselect.ErrNoSelection) {
				r.skip(batch, ins, KindNoKeys, MessageNoKeys)
			} else {
				r.skip(batch, ins, KindInvalid, err.Error())
			}

			continue
		}

		statement, err := r.synthesizer.Synthesize(ins, selection.Keys)
		if err != nil {
			r.skip(batch, ins, KindInvalid, err.Error())
			continue
		}

		if statement.FormatError != nil {
			r.report(ins, KindFormat, fmt.Sprintf("formatting failed, statement left unformatted: %v", statement.FormatError))
		}

		batch.Add(statement.Text)
	}

	r.converted += batch.Len()

	return batch.String(), nil
}

func (r *run) skip(batch *merge.Batch, ins parser.Insert, kind DiagnosticKind, message string) {
	batch.Skip()
	r.skipped++
	r.report(ins, kind, message)
}

func (r *run) report(ins parser.Insert, kind DiagnosticKind, message string) {
	r.sink.Report(Diagnostic{
		RunID:    r.id,
		Kind:     kind,
		Table:    ins.Table,
		Position: ins.Position,
		Message:  message,
	})
}

// result builds the run result. A run that converted nothing is a no-op.
func (r *run) result(input, output string) Result {
	result := Result{
		RunID:     r.id,
		Output:    output,
		Converted: r.converted,
		Skipped:   r.skipped,
	}

	if r.converted == 0 {
		r.sink.Report(Diagnostic{RunID: r.id, Kind: KindNoStatements, Message: MessageNoStatements})

		result.Output = input
		result.NoOp = true
	}

	result.Diagnostics = r.collector.Diagnostics()

	return result
}

func parseMessage(err error) string {
	if errors.Is(err, parser.ErrColumnValueMismatch) {
		return MessageMismatch
	}

	return err.Error()
}
