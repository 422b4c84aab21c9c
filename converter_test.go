package insert2merge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/google/uuid"
	"github.com/shibukawa/insert2merge/formatter"
	"github.com/shibukawa/insert2merge/keyselect"
	"github.com/shibukawa/insert2merge/merge"
	"github.com/shibukawa/insert2merge/testhelper"
)

func kinds(diagnostics []Diagnostic) []DiagnosticKind {
	var result []DiagnosticKind
	for _, d := range diagnostics {
		result = append(result, d.Kind)
	}

	return result
}

func TestConvert_EmpExample(t *testing.T) {
	converter := NewConverter(merge.DefaultOptions(), keyselect.Static{Keys: []string{"id"}}, nil, formatter.NewSQLFormatter())

	result, err := converter.Convert(context.Background(), "INSERT INTO emp (id, name, dept) VALUES (1, 'Joe', 'Eng');")
	assert.NoError(t, err)

	expected := testhelper.TrimIndent(t, `
		MERGE INTO emp t
		USING (
			SELECT
				1 AS id,
				'Joe' AS name,
				'Eng' AS dept
			FROM dual
		) s
		ON (
			s.id = t.id
		)
		WHEN MATCHED THEN
			UPDATE SET
				t.name = s.name,
				t.dept = s.dept
		WHEN NOT MATCHED THEN
			INSERT (
				id,
				name,
				dept
			)
			VALUES (
				s.id,
				s.name,
				s.dept
			);

		COMMIT;
		`)

	assert.Equal(t, expected, result.Output)
	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, 0, result.Skipped)
	assert.False(t, result.NoOp)
	assert.Equal(t, 0, len(result.Diagnostics))

	_, err = uuid.Parse(result.RunID)
	assert.NoError(t, err)
}

func TestConvert_CommitEvery(t *testing.T) {
	var input strings.Builder
	for range 5 {
		input.WriteString("INSERT INTO emp (id, name) VALUES (1, 'a');\n")
	}

	options := merge.DefaultOptions()
	options.CommitEvery = 2

	converter := NewConverter(options, keyselect.Static{Keys: []string{"id"}}, nil, nil)

	result, err := converter.Convert(context.Background(), input.String())
	assert.NoError(t, err)
	assert.Equal(t, 5, result.Converted)
	assert.Equal(t, 3, strings.Count(result.Output, merge.CommitMarker))
	assert.True(t, strings.HasSuffix(result.Output, "\n\nCOMMIT;"))
}

func TestConvert_NoOp(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []DiagnosticKind
	}{
		{
			name:     "no insert statements",
			input:    "SELECT * FROM emp;\n",
			expected: []DiagnosticKind{KindNoStatements},
		},
		{
			name:     "only mismatched statements",
			input:    "INSERT INTO t (a, b) VALUES (1);",
			expected: []DiagnosticKind{KindMismatch, KindNoStatements},
		},
		{
			name:     "already converted",
			input:    "MERGE INTO emp t USING (SELECT 1 AS id FROM dual) s ON (s.id = t.id) WHEN NOT MATCHED THEN INSERT (id) VALUES (s.id);\n\nCOMMIT;",
			expected: []DiagnosticKind{KindNoStatements},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector := &DiagnosticCollector{}
			converter := NewConverter(merge.DefaultOptions(), keyselect.Static{Keys: []string{"id"}}, collector, nil)

			result, err := converter.Convert(context.Background(), tt.input)
			assert.NoError(t, err)
			assert.True(t, result.NoOp)
			assert.Equal(t, tt.input, result.Output)
			assert.Equal(t, 0, result.Converted)
			assert.Equal(t, tt.expected, kinds(result.Diagnostics))
			assert.Equal(t, result.Diagnostics, collector.Diagnostics())

			last := result.Diagnostics[len(result.Diagnostics)-1]
			assert.Equal(t, MessageNoStatements, last.Message)
			assert.Equal(t, result.RunID, last.RunID)
		})
	}
}

func TestConvert_SkipsMismatch(t *testing.T) {
	input := "INSERT INTO t (a, b) VALUES (1);\nINSERT INTO emp (id, name) VALUES (1, 'Joe');"
	converter := NewConverter(merge.DefaultOptions(), keyselect.Static{Keys: []string{"id"}}, nil, nil)

	result, err := converter.Convert(context.Background(), input)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, strings.Count(result.Output, "MERGE INTO emp t"))
	assert.NotContains(t, result.Output, "MERGE INTO t ")

	assert.Equal(t, 1, len(result.Diagnostics))
	assert.Equal(t, KindMismatch, result.Diagnostics[0].Kind)
	assert.Equal(t, MessageMismatch, result.Diagnostics[0].Message)
	assert.Equal(t, "t", result.Diagnostics[0].Table)
	assert.Equal(t, 1, result.Diagnostics[0].Position.Line)
}

func TestConvert_QuotesDoNotHideStatements(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		converted int
		skipped   int
		tables    []string
	}{
		{
			name:      "literal ending in a backslash",
			input:     `INSERT INTO files (id, path) VALUES (1, 'C:\');`,
			converted: 1,
			tables:    []string{"files"},
		},
		{
			name:      "mismatched statement before a valid one",
			input:     "INSERT INTO t (id, b) VALUES ('C:\\', 1);\nINSERT INTO t (id) VALUES (2);",
			converted: 1,
			skipped:   1,
			tables:    []string{"t"},
		},
		{
			name:      "stray apostrophe in a comment line",
			input:     "# don't run twice\nINSERT INTO emp (id, name) VALUES (1, 'Joe');",
			converted: 1,
			tables:    []string{"emp"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			converter := NewConverter(merge.DefaultOptions(), keyselect.Static{Keys: []string{"id"}}, nil, nil)

			result, err := converter.Convert(context.Background(), tt.input)
			assert.NoError(t, err)
			assert.False(t, result.NoOp)
			assert.Equal(t, tt.converted, result.Converted)
			assert.Equal(t, tt.skipped, result.Skipped)

			for _, table := range tt.tables {
				assert.Contains(t, result.Output, "MERGE INTO "+table+" t")
			}
		})
	}
}

func TestConvert_KeepsNamesAndLiterals(t *testing.T) {
	converter := NewConverter(merge.DefaultOptions(), keyselect.Static{Keys: []string{"id"}}, nil, formatter.NewSQLFormatter())

	result, err := converter.Convert(context.Background(), "INSERT INTO stage-db.orders (id, n) VALUES (1, N'x');")
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, 0, len(result.Diagnostics))
	assert.Contains(t, result.Output, "MERGE INTO stage-db.orders t\n")
	assert.Contains(t, result.Output, "N'x' AS n")
	assert.NotContains(t, result.Output, "stage - db")
}

func TestConvert_ApplyToAll(t *testing.T) {
	calls := 0
	selector := keyselect.Func(func(ctx context.Context, table string, columns []string) (keyselect.Selection, error) {
		calls++
		return keyselect.Selection{Keys: []string{"id"}, ApplyToAll: true}, nil
	})

	input := "INSERT INTO a (id, x) VALUES (1, 2);\nINSERT INTO b (ID, y) VALUES (3, 4);\nINSERT INTO c (id) VALUES (5);"
	converter := NewConverter(merge.DefaultOptions(), selector, nil, nil)

	result, err := converter.Convert(context.Background(), input)
	assert.NoError(t, err)
	assert.Equal(t, 3, result.Converted)
	assert.Equal(t, 1, calls)
	assert.Contains(t, result.Output, "ON (s.ID = t.ID)")

	// a new run starts without the shared selection
	_, err = converter.Convert(context.Background(), input)
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestConvert_SkipsWithoutKeys(t *testing.T) {
	tests := []struct {
		name     string
		selector keyselect.Selector
		kind     DiagnosticKind
		message  string
	}{
		{
			name: "cancelled selection",
			selector: keyselect.Func(func(ctx context.Context, table string, columns []string) (keyselect.Selection, error) {
				return keyselect.Selection{}, keyselect.ErrNoSelection
			}),
			kind:    KindNoKeys,
			message: MessageNoKeys,
		},
		{
			name:     "unknown key",
			selector: keyselect.Static{Keys: []string{"code"}},
			kind:     KindInvalid,
			message:  "key column not found in statement: code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			converter := NewConverter(merge.DefaultOptions(), tt.selector, nil, nil)

			result, err := converter.Convert(context.Background(), "INSERT INTO emp (id) VALUES (1);")
			assert.NoError(t, err)
			assert.True(t, result.NoOp)
			assert.Equal(t, 1, result.Skipped)
			assert.Equal(t, []DiagnosticKind{tt.kind, KindNoStatements}, kinds(result.Diagnostics))
			assert.Equal(t, tt.message, result.Diagnostics[0].Message)
		})
	}
}

type brokenFormatter struct{}

func (brokenFormatter) Format(sql string) (string, error) {
	return "", formatter.ErrFormat
}

func TestConvert_FormatFallback(t *testing.T) {
	converter := NewConverter(merge.DefaultOptions(), keyselect.Static{Keys: []string{"id"}}, nil, brokenFormatter{})

	result, err := converter.Convert(context.Background(), "INSERT INTO emp (id, name) VALUES (1, 'Joe');")
	assert.NoError(t, err)
	assert.Equal(t, "MERGE INTO emp t USING (SELECT 1 AS id, 'Joe' AS name FROM dual) s ON (s.id = t.id) WHEN MATCHED THEN UPDATE SET t.name = s.name WHEN NOT MATCHED THEN INSERT (id, name) VALUES (s.id, s.name);\n\nCOMMIT;", result.Output)
	assert.Equal(t, []DiagnosticKind{KindFormat}, kinds(result.Diagnostics))
}

func TestConvert_Errors(t *testing.T) {
	t.Run("invalid options", func(t *testing.T) {
		converter := NewConverter(merge.Options{TargetAlias: "t", SourceAlias: "t", CommitEvery: 1}, keyselect.Static{Keys: []string{"id"}}, nil, nil)

		_, err := converter.Convert(context.Background(), "INSERT INTO emp (id) VALUES (1);")
		assert.True(t, errors.Is(err, ErrInvalidOptions))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		converter := NewConverter(merge.DefaultOptions(), keyselect.Static{Keys: []string{"id"}}, nil, nil)

		_, err := converter.Convert(ctx, "INSERT INTO emp (id) VALUES (1);")
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("cancelled while selecting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		selector := keyselect.Func(func(ctx context.Context, table string, columns []string) (keyselect.Selection, error) {
			cancel()
			return keyselect.Selection{}, ctx.Err()
		})
		converter := NewConverter(merge.DefaultOptions(), selector, nil, nil)

		_, err := converter.Convert(ctx, "INSERT INTO emp (id) VALUES (1);")
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestConvert_OutputIsStable(t *testing.T) {
	converter := NewConverter(merge.DefaultOptions(), keyselect.Static{Keys: []string{"id"}}, nil, formatter.NewSQLFormatter())

	first, err := converter.Convert(context.Background(), "INSERT INTO emp (id, name) VALUES (1, 'Joe');")
	assert.NoError(t, err)

	second, err := converter.Convert(context.Background(), first.Output)
	assert.NoError(t, err)
	assert.True(t, second.NoOp)
	assert.Equal(t, first.Output, second.Output)
}
