// Package rawcsv splits quoted CSV text into header-keyed rows.
//
// The tokenizer is deliberately simpler than full RFC 4180:
//   - rows are split on '\n' only, so newlines inside quoted fields are
//     not supported
//   - a double quote toggles quote state and is dropped; a doubled quote
//     ("") is not unescaped to a literal quote
//   - every field is trimmed of surrounding whitespace
//   - a wrapping quote is stripped from header cells only
package rawcsv

import "strings"

// Row maps a column header to its string value for one data row.
// Missing trailing values map to the empty string.
type Row map[string]string

// Parse splits raw CSV text into headers and rows. The first line is the
// header; fewer than two lines yields empty results.
func Parse(text string) ([]string, []Row) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return []string{}, []Row{}
	}

	rawHeaders := strings.Split(lines[0], ",")
	headers := make([]string, len(rawHeaders))
	for i, h := range rawHeaders {
		h = strings.TrimSpace(h)
		h = strings.TrimPrefix(h, `"`)
		h = strings.TrimSuffix(h, `"`)
		headers[i] = h
	}

	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := splitFields(line)
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(values) {
				row[h] = values[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return headers, rows
}

func splitFields(line string) []string {
	var values []string
	var current strings.Builder
	inQuotes := false
	for _, ch := range line {
		if ch == '"' {
			inQuotes = !inQuotes
			continue
		}
		if ch == ',' && !inQuotes {
			values = append(values, strings.TrimSpace(current.String()))
			current.Reset()
			continue
		}
		current.WriteRune(ch)
	}
	values = append(values, strings.TrimSpace(current.String()))
	return values
}
