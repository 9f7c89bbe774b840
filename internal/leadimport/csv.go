package leadimport

import (
	"fmt"
	"regexp"
	"strings"
)

// ParseError is a structural problem with the file itself. It aborts the
// whole import before anything is written.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse csv: %s", e.Reason)
}

// Row is one data row of the file, keyed by the cleaned header names.
// Line is the 1-based line number in the original file, header included.
type Row struct {
	Fields map[string]string
	Line   int
}

var lineSplit = regexp.MustCompile(`\r?\n`)

// ParseCSV parses the marketing export format: optional UTF-8 BOM, a header
// line whose delimiter is either semicolon or comma, then one record per
// line. Fields may be double-quoted with "" escaping embedded quotes. Blank
// lines are skipped.
func ParseCSV(text string) ([]Row, error) {
	text = strings.TrimPrefix(text, "\ufeff")

	lines := lineSplit.Split(text, -1)
	if len(lines) < 2 {
		return nil, &ParseError{Reason: "the file must contain a header line and at least one data line"}
	}

	// Exports from spreadsheet tools in this locale use semicolons;
	// plain CSV uses commas. The header line decides.
	delimiter := byte(',')
	if strings.ContainsRune(lines[0], ';') {
		delimiter = ';'
	}

	headers := splitLine(lines[0], delimiter)
	for i, h := range headers {
		headers[i] = unquote(strings.TrimSpace(h))
	}

	var rows []Row
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		values := splitLine(line, delimiter)
		fields := make(map[string]string, len(headers))
		for j, header := range headers {
			value := ""
			if j < len(values) {
				value = unquote(strings.TrimSpace(values[j]))
			}
			fields[header] = value
		}

		rows = append(rows, Row{Fields: fields, Line: i + 1})
	}

	if len(rows) == 0 {
		return nil, &ParseError{Reason: "the file must contain a header line and at least one data line"}
	}

	return rows, nil
}

// splitLine splits a single line on the delimiter, honoring double quotes.
// Inside a quoted field the delimiter is literal, and "" stands for one
// quote character.
func splitLine(line string, delimiter byte) []string {
	var result []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		char := line[i]

		switch {
		case char == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case char == delimiter && !inQuotes:
			result = append(result, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(char)
		}
	}

	result = append(result, strings.TrimSpace(current.String()))

	return result
}

// unquote strips one layer of wrapping quote characters left over after
// trimming.
func unquote(s string) string {
	for _, q := range []string{`"`, `'`} {
		if len(s) >= 2 && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			return s[1 : len(s)-1]
		}
	}

	return s
}
