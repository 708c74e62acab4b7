package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/itchyny/gojq"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/tabkit/internal/builder"
	"github.com/salmonumbrella/tabkit/internal/record"
)

// Format represents the output format type.
type Format string

const (
	// FormatText is tab-aligned plain text (default).
	FormatText Format = "text"
	// FormatTable is a bordered table.
	FormatTable Format = "table"
	// FormatCSV is comma-separated values, header first.
	FormatCSV Format = "csv"
	// FormatJSON is pretty-printed JSON format.
	FormatJSON Format = "json"
	// FormatNDJSON is newline-delimited JSON format.
	FormatNDJSON Format = "ndjson"
	// FormatYAML is YAML format.
	FormatYAML Format = "yaml"
)

// ParseFormat converts a string to a Format type.
// Empty string defaults to FormatText.
// Returns error if the format is invalid.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatTable:
		return FormatTable, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatNDJSON:
		return FormatNDJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", errors.New("invalid --output format (expected text|table|csv|json|ndjson|yaml)")
	}
}

// IsStructured reports whether the format is machine-readable structured output.
func IsStructured(format Format) bool {
	switch format {
	case FormatJSON, FormatNDJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// Printer handles output formatting across different formats.
type Printer struct {
	w            io.Writer
	format       Format
	maxCellWidth int
}

// PrinterOption configures a Printer.
type PrinterOption func(*Printer)

// WithMaxCellWidth truncates cells of text, table and csv output to n
// display columns. Zero disables truncation.
func WithMaxCellWidth(n int) PrinterOption {
	return func(p *Printer) {
		p.maxCellWidth = n
	}
}

// NewPrinter creates a new Printer that writes to w in the given format.
func NewPrinter(w io.Writer, format Format, opts ...PrinterOption) *Printer {
	p := &Printer{
		w:      w,
		format: format,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Print outputs data in the configured format.
// A Table (or a builder.Grid) is rendered as rows; any other value is
// encoded directly in structured formats, and converted to rows for text,
// table and csv.
func (p *Printer) Print(ctx context.Context, data interface{}) error {
	if data == nil {
		return nil
	}

	if grid, ok := data.(builder.Grid); ok {
		data = FromGrid(grid, false)
	}

	if table, ok := data.(Table); ok {
		return p.PrintTable(ctx, table)
	}

	switch p.format {
	case FormatJSON:
		return p.printJSON(ctx, data)
	case FormatNDJSON:
		return p.printNDJSON(ctx, data)
	case FormatYAML:
		return p.printYAML(data)
	case FormatText:
		return p.printText(data)
	case FormatTable, FormatCSV:
		table, err := tableFromValue(data)
		if err != nil {
			return err
		}
		return p.PrintTable(ctx, table)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// PrintTable renders a table after applying the sort and limit options
// carried by ctx.
func (p *Printer) PrintTable(ctx context.Context, t Table) error {
	t, err := ApplyAgentOptions(ctx, t)
	if err != nil {
		return err
	}

	switch p.format {
	case FormatJSON:
		return p.printJSON(ctx, tableDocument(t))
	case FormatNDJSON:
		return p.printNDJSON(ctx, tableDocument(t))
	case FormatYAML:
		return p.printYAMLTable(t)
	case FormatText:
		return p.printTextTable(p.truncate(t))
	case FormatTable:
		return p.printBordered(p.truncate(t))
	case FormatCSV:
		return p.printCSV(p.truncate(t))
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// printJSON outputs data as pretty-printed JSON.
// If a jq query is present in the context, it filters the output.
func (p *Printer) printJSON(ctx context.Context, data interface{}) error {
	query := QueryFromContext(ctx)
	if query == "" {
		enc := json.NewEncoder(p.w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	return p.runQuery(query, data)
}

// printNDJSON outputs data as newline-delimited JSON.
// If a jq query is present in the context, it filters the output.
func (p *Printer) printNDJSON(ctx context.Context, data interface{}) error {
	if query := QueryFromContext(ctx); query != "" {
		return p.runQuery(query, data)
	}

	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)

	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		for i := 0; i < v.Len(); i++ {
			if err := enc.Encode(v.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	}

	return enc.Encode(data)
}

// runQuery filters data through a jq expression, one JSON value per result.
func (p *Printer) runQuery(query string, data interface{}) error {
	parsed, err := gojq.Parse(query)
	if err != nil {
		return fmt.Errorf("invalid --query: %w", err)
	}

	code, err := gojq.Compile(parsed)
	if err != nil {
		return fmt.Errorf("invalid --query: %w", err)
	}

	input, err := jqInput(data)
	if err != nil {
		return err
	}

	iter := code.Run(input)
	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)

	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return fmt.Errorf("query error: %w", err)
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}

	return nil
}

// jqInput converts data into the plain maps and slices gojq operates on.
func jqInput(data interface{}) (interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode query input: %w", err)
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode query input: %w", err)
	}
	return v, nil
}

// printYAML outputs data as YAML.
func (p *Printer) printYAML(data interface{}) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}

// printYAMLTable writes records as a sequence of mappings in header order,
// or a sequence of sequences when there is no header. Cells are always
// tagged as strings.
func (p *Printer) printYAMLTable(t Table) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	keys := t.objectKeys()
	for _, row := range t.Rows {
		if len(keys) == 0 {
			seq := &yaml.Node{Kind: yaml.SequenceNode}
			for _, cell := range row {
				seq.Content = append(seq.Content, stringNode(cell))
			}
			doc.Content = append(doc.Content, seq)
			continue
		}
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, key := range keys {
			m.Content = append(m.Content, stringNode(key), stringNode(cellAt(row, i)))
		}
		doc.Content = append(doc.Content, m)
	}
	return p.printYAML(doc)
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// printText outputs data as human-readable text.
// For maps and structs: key-value pairs.
// For slices: one item per line.
// For primitives: direct output.
func (p *Printer) printText(data interface{}) error {
	v := reflect.ValueOf(data)
	if !v.IsValid() {
		return nil
	}

	// Dereference pointers
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		return p.printTextMap(v)
	case reflect.Slice, reflect.Array:
		return p.printTextSlice(v)
	default:
		_, err := fmt.Fprintln(p.w, v.Interface())
		return err
	}
}

func (p *Printer) printTextMap(v reflect.Value) error {
	if v.Len() == 0 {
		return nil
	}

	// Sort keys for deterministic output
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})

	for _, key := range keys {
		val := v.MapIndex(key)
		if !val.IsValid() {
			continue
		}
		_, err := fmt.Fprintf(p.w, "%s: %v\n", key.Interface(), val.Interface())
		if err != nil {
			return err
		}
	}

	return nil
}

func (p *Printer) printTextSlice(v reflect.Value) error {
	for i := 0; i < v.Len(); i++ {
		item := v.Index(i).Interface()
		_, err := fmt.Fprintln(p.w, item)
		if err != nil {
			return err
		}
	}

	return nil
}

func (p *Printer) printTextTable(t Table) error {
	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)

	writeLine := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}

	if len(t.Headers) > 0 {
		writeLine(t.Headers)
	}
	for _, row := range t.Rows {
		writeLine(row)
	}

	return w.Flush()
}

func (p *Printer) printBordered(t Table) error {
	if len(t.Headers) == 0 && len(t.Rows) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(p.w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	if len(t.Headers) > 0 {
		table.SetHeader(t.Headers)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	}
	table.AppendBulk(t.Rows)
	table.Render()
	return nil
}

func (p *Printer) printCSV(t Table) error {
	w := csv.NewWriter(p.w)
	if len(t.Headers) > 0 {
		if err := w.Write(t.Headers); err != nil {
			return err
		}
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return err
	}
	return w.Error()
}

// truncate shortens every cell to maxCellWidth display columns.
func (p *Printer) truncate(t Table) Table {
	if p.maxCellWidth <= 0 {
		return t
	}
	cut := func(row []string) []string {
		out := make([]string, len(row))
		for i, cell := range row {
			out[i] = runewidth.Truncate(cell, p.maxCellWidth, "…")
		}
		return out
	}

	var out Table
	if t.Headers != nil {
		out.Headers = cut(t.Headers)
	}
	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = cut(row)
	}
	return out
}

// tableDocument returns the JSON shape of a table: an array of objects in
// header order, or an array of string arrays when there is no header.
func tableDocument(t Table) interface{} {
	keys := t.objectKeys()
	if len(keys) == 0 {
		rows := t.Rows
		if rows == nil {
			rows = [][]string{}
		}
		return rows
	}
	out := make([]orderedRecord, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = orderedRecord{keys: keys, values: row}
	}
	return out
}

// orderedRecord marshals as a JSON object whose keys keep header order.
type orderedRecord struct {
	keys   []string
	values []string
}

func (r orderedRecord) MarshalJSON() ([]byte, error) {
	out := []byte{'{'}
	for i, key := range r.keys {
		if i > 0 {
			out = append(out, ',')
		}
		k, err := marshalString(key)
		if err != nil {
			return nil, err
		}
		v, err := marshalString(cellAt(r.values, i))
		if err != nil {
			return nil, err
		}
		out = append(out, k...)
		out = append(out, ':')
		out = append(out, v...)
	}
	return append(out, '}'), nil
}

func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// tableFromValue lays out arbitrary data as rows using the record package.
// Values with no row layout fall back to a single "value" column.
func tableFromValue(data interface{}) (Table, error) {
	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return Table{}, nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return Table{}, fmt.Errorf("table format requires a list of items")
	}
	if v.Len() == 0 {
		return Table{}, nil
	}

	b, err := builder.FromValues(v.Interface())
	if err != nil {
		if !errors.Is(err, record.ErrUnsupported) {
			return Table{}, err
		}
		b = builder.New().SetHeader("value")
		for i := 0; i < v.Len(); i++ {
			b.PushRecord(fmt.Sprint(v.Index(i).Interface()))
		}
	}
	return FromGrid(b.Build(), b.HasHeader()), nil
}
