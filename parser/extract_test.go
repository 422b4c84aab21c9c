package parser

import (
	"slices"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/insert2merge/testhelper"
	tok "github.com/shibukawa/insert2merge/tokenizer"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []RawInsert
	}{
		{
			name:  "single statement" + testhelper.GetCaller(t),
			input: "INSERT INTO emp (id, name, dept) VALUES (1, 'Joe', 'Eng');",
			expected: []RawInsert{
				{
					Table:       "emp",
					ColumnsText: "id, name, dept",
					ValuesText:  "1, 'Joe', 'Eng'",
					Text:        "INSERT INTO emp (id, name, dept) VALUES (1, 'Joe', 'Eng');",
					Position:    tok.Position{Line: 1, Column: 1, Offset: 0},
				},
			},
		},
		{
			name:  "lower case keywords and qualified table" + testhelper.GetCaller(t),
			input: "insert into hr.emp(id) values(1);",
			expected: []RawInsert{
				{
					Table:       "hr.emp",
					ColumnsText: "id",
					ValuesText:  "1",
					Text:        "insert into hr.emp(id) values(1);",
					Position:    tok.Position{Line: 1, Column: 1, Offset: 0},
				},
			},
		},
		{
			name:  "quoted and hyphenated table names" + testhelper.GetCaller(t),
			input: "INSERT INTO \"hr\".\"emp\" (a) VALUES (1);\nINSERT INTO stage-db.orders (b) VALUES (2);",
			expected: []RawInsert{
				{
					Table:       "\"hr\".\"emp\"",
					ColumnsText: "a",
					ValuesText:  "1",
					Text:        "INSERT INTO \"hr\".\"emp\" (a) VALUES (1);",
					Position:    tok.Position{Line: 1, Column: 1, Offset: 0},
				},
				{
					Table:       "stage-db.orders",
					ColumnsText: "b",
					ValuesText:  "2",
					Text:        "INSERT INTO stage-db.orders (b) VALUES (2);",
					Position:    tok.Position{Line: 2, Column: 1, Offset: 39},
				},
			},
		},
		{
			name:  "comments and space before semicolon" + testhelper.GetCaller(t),
			input: "INSERT /* x */ INTO emp -- c\n(id) VALUES (1) ;",
			expected: []RawInsert{
				{
					Table:       "emp",
					ColumnsText: "id",
					ValuesText:  "1",
					Text:        "INSERT /* x */ INTO emp -- c\n(id) VALUES (1) ;",
					Position:    tok.Position{Line: 1, Column: 1, Offset: 0},
				},
			},
		},
		{
			name:  "close paren and semicolon inside string" + testhelper.GetCaller(t),
			input: "INSERT INTO t (a, b) VALUES ('x);', f(1, (2)));",
			expected: []RawInsert{
				{
					Table:       "t",
					ColumnsText: "a, b",
					ValuesText:  "'x);', f(1, (2))",
					Text:        "INSERT INTO t (a, b) VALUES ('x);', f(1, (2)));",
					Position:    tok.Position{Line: 1, Column: 1, Offset: 0},
				},
			},
		},
		{
			name:  "insert select is skipped without swallowing the next statement" + testhelper.GetCaller(t),
			input: "INSERT INTO t (a) SELECT 1 FROM dual;\nINSERT INTO u (b) VALUES (2);",
			expected: []RawInsert{
				{
					Table:       "u",
					ColumnsText: "b",
					ValuesText:  "2",
					Text:        "INSERT INTO u (b) VALUES (2);",
					Position:    tok.Position{Line: 2, Column: 1, Offset: 38},
				},
			},
		},
		{
			name:  "literal ending in a backslash" + testhelper.GetCaller(t),
			input: `INSERT INTO files (id, path) VALUES (1, 'C:\');`,
			expected: []RawInsert{
				{
					Table:       "files",
					ColumnsText: "id, path",
					ValuesText:  `1, 'C:\'`,
					Text:        `INSERT INTO files (id, path) VALUES (1, 'C:\');`,
					Position:    tok.Position{Line: 1, Column: 1, Offset: 0},
				},
			},
		},
		{
			name:  "unterminated quote does not hide the next statement" + testhelper.GetCaller(t),
			input: "INSERT INTO t (a, b) VALUES ('C:\\', 1);\nINSERT INTO t (a) VALUES (2);",
			expected: []RawInsert{
				{
					Table:       "t",
					ColumnsText: "a, b",
					ValuesText:  `'C:\', 1`,
					Text:        `INSERT INTO t (a, b) VALUES ('C:\', 1);`,
					Position:    tok.Position{Line: 1, Column: 1, Offset: 0},
				},
				{
					Table:       "t",
					ColumnsText: "a",
					ValuesText:  "2",
					Text:        "INSERT INTO t (a) VALUES (2);",
					Position:    tok.Position{Line: 2, Column: 1, Offset: 40},
				},
			},
		},
		{
			name:  "stray apostrophe before the statement" + testhelper.GetCaller(t),
			input: "# don't run twice\nINSERT INTO emp (id, name) VALUES (1, 'Joe');",
			expected: []RawInsert{
				{
					Table:       "emp",
					ColumnsText: "id, name",
					ValuesText:  "1, 'Joe'",
					Text:        "INSERT INTO emp (id, name) VALUES (1, 'Joe');",
					Position:    tok.Position{Line: 2, Column: 1, Offset: 18},
				},
			},
		},
		{
			name:  "insert text inside a value is part of the statement" + testhelper.GetCaller(t),
			input: "INSERT INTO logs (msg) VALUES ('INSERT INTO x (a) VALUES (1);');",
			expected: []RawInsert{
				{
					Table:       "logs",
					ColumnsText: "msg",
					ValuesText:  "'INSERT INTO x (a) VALUES (1);'",
					Text:        "INSERT INTO logs (msg) VALUES ('INSERT INTO x (a) VALUES (1);');",
					Position:    tok.Position{Line: 1, Column: 1, Offset: 0},
				},
			},
		},
		{
			name:     "insert as part of a longer word" + testhelper.GetCaller(t),
			input:    "REINSERT INTO t (a) VALUES (1); INSERTS INTO t (a) VALUES (1);",
			expected: nil,
		},
		{
			name:     "missing semicolon" + testhelper.GetCaller(t),
			input:    "INSERT INTO t (a) VALUES (1)",
			expected: nil,
		},
		{
			name:     "no insert" + testhelper.GetCaller(t),
			input:    "SELECT * FROM emp;",
			expected: nil,
		},
		{
			name:     "insert without column list" + testhelper.GetCaller(t),
			input:    "INSERT INTO t VALUES (1);",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := slices.Collect(Extract(tt.input))
			assert.Equal(t, tt.expected, actual)
		})
	}
}

func TestExtractMultiLine(t *testing.T) {
	input := testhelper.TrimIndent(t, `
		-- seed data
		INSERT INTO emp (
			id,
			name
		) VALUES (
			1,
			'Joe'
		);
		`)

	actual := slices.Collect(Extract(input))
	assert.Equal(t, 1, len(actual))
	assert.Equal(t, "emp", actual[0].Table)
	assert.Equal(t, 2, actual[0].Position.Line)
	assert.Equal(t, "\n    id,\n    name\n", actual[0].ColumnsText)
	assert.Equal(t, "\n    1,\n    'Joe'\n", actual[0].ValuesText)
}

func TestExtractIsRestartable(t *testing.T) {
	seq := Extract("INSERT INTO a (x) VALUES (1); INSERT INTO b (y) VALUES (2);")

	first := slices.Collect(seq)
	second := slices.Collect(seq)

	assert.Equal(t, 2, len(first))
	assert.Equal(t, first, second)
}

func TestExtractStopsEarly(t *testing.T) {
	count := 0

	for range Extract("INSERT INTO a (x) VALUES (1); INSERT INTO b (y) VALUES (2);") {
		count++
		break
	}

	assert.Equal(t, 1, count)
}

func TestExtractIgnoresMergeOutput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "single line",
			input: "MERGE INTO emp t USING (SELECT 1 AS id, 'Joe' AS name FROM dual) s ON (s.id = t.id) WHEN MATCHED THEN UPDATE SET t.name = s.name WHEN NOT MATCHED THEN INSERT (id, name) VALUES (s.id, s.name);",
		},
		{
			name: "formatted",
			input: testhelper.TrimIndent(t, `
				MERGE INTO emp t
				USING (
					SELECT
						1 AS id
					FROM dual
				) s
				ON (
					s.id = t.id
				)
				WHEN NOT MATCHED THEN
					INSERT (
						id
					)
					VALUES (
						s.id
					);

				COMMIT;
				`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 0, len(slices.Collect(Extract(tt.input))))
		})
	}
}
