// Package input reads raw rows from delimited text, JSON, NDJSON and YAML.
// Rows keep whatever width the source gives them; squaring them up is the
// builder's job.
package input

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format names an input encoding.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatTSV    Format = "tsv"
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatYAML   Format = "yaml"
)

// ParseFormat converts a string to a Format. Empty string means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatTSV:
		return FormatTSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatNDJSON, "jsonl":
		return FormatNDJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid --input-format %q (expected csv|tsv|json|ndjson|yaml)", s)
	}
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "", false
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return "", false
	}
	return f, true
}

// Data is the content of one input source.
type Data struct {
	// Header holds column names when the source carries them itself
	// (JSON or YAML objects). Delimited sources leave it nil.
	Header []string
	Rows   [][]string
}

// ParseError reports malformed input.
type ParseError struct {
	Format Format
	Line   int
	Err    error
}

func (e ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s input (line %d): %v", e.Format, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s input: %v", e.Format, e.Err)
}

func (e ParseError) Unwrap() error {
	return e.Err
}

// Read parses r in the given format.
func Read(r io.Reader, format Format) (Data, error) {
	switch format {
	case FormatCSV, "":
		return readDelimited(r, ',', FormatCSV)
	case FormatTSV:
		return readDelimited(r, '\t', FormatTSV)
	case FormatJSON:
		return readJSON(r)
	case FormatNDJSON:
		return readNDJSON(r)
	case FormatYAML:
		return readYAML(r)
	default:
		return Data{}, fmt.Errorf("unsupported input format: %s", format)
	}
}

func readDelimited(r io.Reader, comma rune, format Format) (Data, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1

	var data Data
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return Data{}, ParseError{Format: format, Line: csvErr.Line, Err: csvErr.Err}
			}
			return Data{}, ParseError{Format: format, Err: err}
		}
		data.Rows = append(data.Rows, row)
	}
	return data, nil
}

// columns assigns stable positions to object keys in first-seen order.
type columns struct {
	names []string
	index map[string]int
}

func newColumns() *columns {
	return &columns{index: map[string]int{}}
}

func (c *columns) position(name string) int {
	if i, ok := c.index[name]; ok {
		return i
	}
	c.index[name] = len(c.names)
	c.names = append(c.names, name)
	return len(c.names) - 1
}

// place builds a row from key/value pairs. The row is only as wide as the
// right-most key it mentions.
func (c *columns) place(keys, values []string) []string {
	var row []string
	for i, key := range keys {
		pos := c.position(key)
		for len(row) <= pos {
			row = append(row, "")
		}
		row[pos] = values[i]
	}
	if row == nil {
		row = []string{}
	}
	return row
}

func isBlank(b []byte) bool {
	return len(bytes.TrimSpace(b)) == 0
}
