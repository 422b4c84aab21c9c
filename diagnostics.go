package insert2merge

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	tok "github.com/shibukawa/insert2merge/tokenizer"
)

// DiagnosticKind classifies a diagnostic.
type DiagnosticKind int

const (
	// KindMismatch is a statement whose column and value lists don't line up.
	KindMismatch DiagnosticKind = iota + 1
	// KindNoKeys is a statement skipped because no key column was chosen.
	KindNoKeys
	// KindNoStatements is a run that converted nothing.
	KindNoStatements
	// KindFormat is a statement emitted unformatted because the formatter failed.
	KindFormat
	// KindInvalid is a statement skipped for any other reason.
	KindInvalid
)

var kindNames = map[DiagnosticKind]string{
	KindMismatch:     "mismatch",
	KindNoKeys:       "no-keys",
	KindNoStatements: "no-statements",
	KindFormat:       "format",
	KindInvalid:      "invalid",
}

func (k DiagnosticKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "unknown"
}

// Diagnostic is an advisory message produced during a conversion run.
type Diagnostic struct {
	RunID    string
	Kind     DiagnosticKind
	Table    string
	Position tok.Position
	Message  string
}

func (d Diagnostic) String() string {
	if d.Table == "" {
		return d.Message
	}

	return fmt.Sprintf("%s (%s): %s", d.Table, d.Position, d.Message)
}

// DiagnosticSink receives diagnostics. Reporting never fails the run.
type DiagnosticSink interface {
	Report(d Diagnostic)
}

// DiagnosticCollector keeps diagnostics in memory.
type DiagnosticCollector struct {
	diagnostics []Diagnostic
}

// Report stores d.
func (c *DiagnosticCollector) Report(d Diagnostic) {
	c.diagnostics = append(c.diagnostics, d)
}

// Diagnostics returns the stored diagnostics in report order.
func (c *DiagnosticCollector) Diagnostics() []Diagnostic {
	return c.diagnostics
}

// ConsoleSink prints diagnostics as colored lines. Format diagnostics are
// printed only in verbose mode.
type ConsoleSink struct {
	w       io.Writer
	verbose bool
}

// NewConsoleSink creates a sink writing to w.
func NewConsoleSink(w io.Writer, verbose bool) *ConsoleSink {
	return &ConsoleSink{w: w, verbose: verbose}
}

// Report prints d.
func (s *ConsoleSink) Report(d Diagnostic) {
	switch d.Kind {
	case KindFormat:
		if s.verbose {
			color.New(color.FgBlue).Fprintf(s.w, "%s\n", d)
		}
	case KindNoStatements:
		color.New(color.FgYellow).Fprintf(s.w, "Warning: %s\n", d)
	default:
		color.New(color.FgYellow).Fprintf(s.w, "Skipped %s\n", d)
	}
}

// MultiSink reports to every sink in order.
type MultiSink []DiagnosticSink

// Report passes d to all sinks.
func (m MultiSink) Report(d Diagnostic) {
	for _, sink := range m {
		if sink != nil {
			sink.Report(d)
		}
	}
}
