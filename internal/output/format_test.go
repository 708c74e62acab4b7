package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/tabkit/internal/builder"
)

func sampleTable() Table {
	b := builder.New()
	b.SetHeader("name", "age")
	b.PushRecord("alice", "30")
	b.PushRecord("bob", "4")
	b.PushRecord("carol")
	return FromGrid(b.Build(), b.HasHeader())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"TEXT", FormatText, false},
		{" table ", FormatTable, false},
		{"csv", FormatCSV, false},
		{"json", FormatJSON, false},
		{"ndjson", FormatNDJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromGrid(t *testing.T) {
	g := builder.Grid{{"h"}, {"1"}}
	withHeader := FromGrid(g, true)
	if diff := cmp.Diff(Table{Headers: []string{"h"}, Rows: [][]string{{"1"}}}, withHeader); diff != "" {
		t.Fatalf("FromGrid with header (-want +got):\n%s", diff)
	}
	if got := FromGrid(g, false); len(got.Rows) != 2 || got.Headers != nil {
		t.Fatalf("FromGrid without header = %+v", got)
	}
}

func TestPrintText(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, FormatText)
	if err := p.Print(context.Background(), sampleTable()); err != nil {
		t.Fatalf("Print: %v", err)
	}

	want := "name   age\nalice  30\nbob    4\ncarol  \n"
	if out.String() != want {
		t.Fatalf("unexpected text output:\n%q\nwant:\n%q", out.String(), want)
	}
}

func TestPrintCSV(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, FormatCSV)
	if err := p.Print(context.Background(), sampleTable()); err != nil {
		t.Fatalf("Print: %v", err)
	}

	want := "name,age\nalice,30\nbob,4\ncarol,\n"
	if out.String() != want {
		t.Fatalf("unexpected csv output:\n%q", out.String())
	}
}

func TestPrintBorderedTable(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, FormatTable)
	if err := p.Print(context.Background(), sampleTable()); err != nil {
		t.Fatalf("Print: %v", err)
	}

	s := out.String()
	for _, want := range []string{"name", "alice", "carol", "+-"} {
		if !strings.Contains(s, want) {
			t.Fatalf("table output missing %q:\n%s", want, s)
		}
	}
}

func TestPrintBorderedTableEmpty(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, FormatTable)
	if err := p.Print(context.Background(), Table{}); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestPrintJSONKeepsHeaderOrder(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, FormatJSON)
	if err := p.Print(context.Background(), sampleTable()); err != nil {
		t.Fatalf("Print: %v", err)
	}

	s := out.String()
	if strings.Index(s, `"name"`) > strings.Index(s, `"age"`) {
		t.Fatalf("expected header order in JSON output:\n%s", s)
	}

	var got []map[string]string
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("parse output: %v\n%s", err, s)
	}
	want := []map[string]string{
		{"name": "alice", "age": "30"},
		{"name": "bob", "age": "4"},
		{"name": "carol", "age": ""},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintJSONWithoutHeader(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, FormatJSON)
	if err := p.Print(context.Background(), builder.Grid{{"a", "<b>"}}); err != nil {
		t.Fatalf("Print: %v", err)
	}

	var got [][]string
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if diff := cmp.Diff([][]string{{"a", "<b>"}}, got); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out.String(), "<b>") {
		t.Fatalf("expected unescaped HTML characters: %s", out.String())
	}
}

func TestPrintJSONDuplicateHeaders(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, FormatNDJSON)
	table := Table{Headers: []string{"a", "a", ""}, Rows: [][]string{{"1", "2", "3"}}}
	if err := p.Print(context.Background(), table); err != nil {
		t.Fatalf("Print: %v", err)
	}

	want := `{"a":"1","a_2":"2","column_2":"3"}` + "\n"
	if out.String() != want {
		t.Fatalf("unexpected ndjson output: %q", out.String())
	}
}

func TestObjectKeysStayUnique(t *testing.T) {
	tests := []struct {
		headers []string
		want    []string
	}{
		{[]string{"a", "a_2", "a"}, []string{"a", "a_2", "a_3"}},
		{[]string{"a", "a", "a_2"}, []string{"a", "a_2", "a_2_2"}},
		{[]string{"column_1", ""}, []string{"column_1", "column_1_2"}},
		{[]string{"x", "y"}, []string{"x", "y"}},
	}
	for _, tt := range tests {
		got := Table{Headers: tt.headers}.objectKeys()
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("objectKeys(%q) mismatch (-want +got):\n%s", tt.headers, diff)
		}
	}

	var out bytes.Buffer
	p := NewPrinter(&out, FormatNDJSON)
	table := Table{Headers: []string{"a", "a_2", "a"}, Rows: [][]string{{"1", "2", "3"}}}
	if err := p.Print(context.Background(), table); err != nil {
		t.Fatalf("Print: %v", err)
	}
	want := `{"a":"1","a_2":"2","a_3":"3"}` + "\n"
	if out.String() != want {
		t.Fatalf("unexpected ndjson output: %q", out.String())
	}
}

func TestPrintNDJSON(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, FormatNDJSON)
	if err := p.Print(context.Background(), sampleTable()); err != nil {
		t.Fatalf("Print: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), out.String())
	}
	if lines[0] != `{"name":"alice","age":"30"}` {
		t.Fatalf("unexpected first line: %s", lines[0])
	}
}

func TestPrintJSONQuery(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, FormatJSON)
	ctx := WithQuery(context.Background(), ".[] | select(.age == \"4\") | .name")
	if err := p.Print(ctx, sampleTable()); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if strings.TrimSpace(out.String()) != `"bob"` {
		t.Fatalf("unexpected query output: %q", out.String())
	}
}

func TestPrintJSONInvalidQuery(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, FormatJSON)
	ctx := WithQuery(context.Background(), ".[")
	err := p.Print(ctx, sampleTable())
	if err == nil || !strings.Contains(err.Error(), "invalid --query") {
		t.Fatalf("expected invalid query error, got %v", err)
	}
}

func TestPrintYAMLTable(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, FormatYAML)
	if err := p.Print(context.Background(), sampleTable()); err != nil {
		t.Fatalf("Print: %v", err)
	}

	var got []map[string]string
	if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("parse yaml: %v\n%s", err, out.String())
	}
	if len(got) != 3 || got[0]["age"] != "30" || got[2]["age"] != "" {
		t.Fatalf("unexpected yaml output: %v", got)
	}
	if !strings.HasPrefix(out.String(), "- name: alice") {
		t.Fatalf("expected header order in yaml output:\n%s", out.String())
	}
}

func TestPrintMaxCellWidth(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, FormatCSV, WithMaxCellWidth(4))
	table := Table{Headers: []string{"description"}, Rows: [][]string{{"abcdefgh"}, {"ab"}}}
	if err := p.Print(context.Background(), table); err != nil {
		t.Fatalf("Print: %v", err)
	}
	want := "des…\nabc…\nab\n"
	if out.String() != want {
		t.Fatalf("unexpected truncated output: %q", out.String())
	}
}

func TestPrintSortAndLimit(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, FormatCSV)
	ctx := WithSort(context.Background(), "AGE", true)
	ctx = WithLimit(ctx, 2)
	if err := p.Print(ctx, sampleTable()); err != nil {
		t.Fatalf("Print: %v", err)
	}
	want := "name,age\nalice,30\nbob,4\n"
	if out.String() != want {
		t.Fatalf("unexpected sorted output: %q", out.String())
	}
}

func TestApplyAgentOptionsUnknownColumn(t *testing.T) {
	ctx := WithSort(context.Background(), "missing", false)
	if _, err := ApplyAgentOptions(ctx, sampleTable()); err == nil {
		t.Fatal("expected error for unknown sort column")
	}
}

func TestApplyAgentOptionsByPosition(t *testing.T) {
	table := Table{Rows: [][]string{{"b", "10"}, {"a", "9"}, {"c", "9.5"}}}
	ctx := WithSort(context.Background(), "1", false)
	got, err := ApplyAgentOptions(ctx, table)
	if err != nil {
		t.Fatalf("ApplyAgentOptions: %v", err)
	}
	want := [][]string{{"a", "9"}, {"c", "9.5"}, {"b", "10"}}
	if diff := cmp.Diff(want, got.Rows); diff != "" {
		t.Fatalf("sorted rows (-want +got):\n%s", diff)
	}
	if table.Rows[0][0] != "b" {
		t.Fatal("input table was modified")
	}
}

func TestPrintValuesAsTable(t *testing.T) {
	type entry struct {
		Key   string `table:"key"`
		Value string `table:"value"`
	}

	var out bytes.Buffer
	p := NewPrinter(&out, FormatCSV)
	if err := p.Print(context.Background(), []entry{{"a", "1"}}); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if out.String() != "key,value\na,1\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}

	out.Reset()
	if err := p.Print(context.Background(), []map[string]int{{"a": 1}}); err != nil {
		t.Fatalf("Print maps: %v", err)
	}
	if out.String() != "value\nmap[a:1]\n" {
		t.Fatalf("unexpected fallback output: %q", out.String())
	}

	if err := p.Print(context.Background(), "scalar"); err == nil {
		t.Fatal("expected error for non-list table output")
	}
}

func TestPrintTextMap(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out, FormatText)
	if err := p.Print(context.Background(), map[string]string{"b": "2", "a": "1"}); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if out.String() != "a: 1\nb: 2\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}
