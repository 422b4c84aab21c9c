package tokenizer

import "strings"

// SplitValues splits the text of a VALUES list into its top-level value
// expressions. Commas inside single-quoted strings or nested parentheses do
// not split. Each value is trimmed and kept as raw SQL text.
//
// A quote preceded by a backslash does not toggle the string state, so a
// literal that ends with a backslash ('C:\') swallows the rest of the list.
func SplitValues(valuesText string) []string {
	var (
		values     []string
		current    strings.Builder
		inQuote    bool
		parenDepth int
		prev       rune
	)

	for _, char := range valuesText {
		switch {
		case char == '\'':
			current.WriteRune(char)

			if prev != '\\' {
				inQuote = !inQuote
			}
		case inQuote:
			current.WriteRune(char)
		case char == '(':
			parenDepth++

			current.WriteRune(char)
		case char == ')':
			parenDepth--

			current.WriteRune(char)
		case char == ',' && parenDepth == 0:
			values = append(values, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(char)
		}

		prev = char
	}

	if last := strings.TrimSpace(current.String()); last != "" {
		values = append(values, last)
	}

	return values
}
