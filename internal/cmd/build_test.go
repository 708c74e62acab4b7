package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salmonumbrella/tabkit/internal/builder"
	"github.com/salmonumbrella/tabkit/internal/input"
)

func TestBuildSquaresJaggedCSV(t *testing.T) {
	out, errOut, err := runCLI(t, "a,b,c\n1\n2,3\n", "build", "-o", "csv")
	require.NoError(t, err)
	assert.Empty(t, errOut)
	assert.Equal(t, "a,b,c\n1,,\n2,3,\n", out)
}

func TestBuildTextWithHeaderAndDefaultText(t *testing.T) {
	out, _, err := runCLI(t, "name,age\nalice,30\nbob\n", "build", "--header", "--default-text=-")
	require.NoError(t, err)
	assert.Equal(t, "name   age\nalice  30\nbob    -\n", out)
}

func TestBuildClean(t *testing.T) {
	out, _, err := runCLI(t, "a,,c\n,,\n1,,3\n", "build", "--clean", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, "a,c\n1,3\n", out)
}

func TestBuildPushAndInsertColumns(t *testing.T) {
	out, _, err := runCLI(t, "h1,h2\nx,y\nz\n",
		"build", "--header",
		"--push-column", "total 10 20",
		"--insert-column", "0=id 1",
		"-o", "json",
	)
	require.NoError(t, err)

	var records []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	assert.Equal(t, []map[string]string{
		{"id": "1", "h1": "x", "h2": "y", "total": "10"},
		{"id": "", "h1": "z", "h2": "", "total": "20"},
	}, records)

	// keys follow header order
	first := strings.Index(out, `"id"`)
	last := strings.Index(out, `"total"`)
	assert.True(t, first >= 0 && first < last, out)
}

func TestBuildReadsNDJSONObjects(t *testing.T) {
	out, _, err := runCLI(t, "{\"a\":1,\"b\":2}\n{\"b\":3,\"c\":4}\n", "build", "--input-format", "ndjson", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, "a,b,c\n1,2,\n,3,4\n", out)
}

func TestBuildInputFormatFromExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.tsv")
	require.NoError(t, os.WriteFile(path, []byte("a\tb\nc\n"), 0o644))

	out, _, err := runCLI(t, "", "build", path, "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, "a,b\nc,\n", out)
}

func TestBuildRemoveRecordThenUnique(t *testing.T) {
	out, _, err := runCLI(t, "x\ny\nx\nz\n", "build", "--unique", "--remove-record", "3", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, "x\ny\n", out)
}

func TestBuildRemoveColumns(t *testing.T) {
	out, _, err := runCLI(t, "a,b,c,d\n1,2,3,4\n", "build", "--remove-column", "3", "--remove-column", "1,3", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, "a,c\n1,3\n", out)
}

func TestBuildSelectColumns(t *testing.T) {
	out, _, err := runCLI(t, "id,name,notes\n1,a,b\n", "build", "--header", "--select-columns", "{id,name}", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,a\n", out)
}

func TestBuildSetAndRemoveHeader(t *testing.T) {
	out, _, err := runCLI(t, "1,2\n", "build", "--set-header", "'first col' second", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, "first col,second\n1,2\n", out)

	out, _, err = runCLI(t, "a,b\n1,2\n", "build", "--header", "--remove-header", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, "1,2\n", out)
}

func TestBuildUsesConfigDefaults(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("default_text = \"?\"\nheader = \"true\"\noutput_format = \"csv\"\n"), 0o644))

	out, _, err := runCLI(t, "a,b\n1\n", "--config", cfgPath, "build")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,?\n", out)
}

func TestBuildSortAndLimit(t *testing.T) {
	out, _, err := runCLI(t, "n\n3\n1\n2\n", "build", "--header", "--result-sort-by", "n", "--result-limit", "2", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, "n\n1\n2\n", out)
}

func TestBuildMaxCellWidth(t *testing.T) {
	out, _, err := runCLI(t, "abcdef,ab\n", "build", "--max-cell-width", "4", "-o", "csv")
	require.NoError(t, err)
	assert.Equal(t, "abc…,ab\n", out)
}

func TestBuildQuery(t *testing.T) {
	out, _, err := runCLI(t, "id\n7\n", "build", "--header", "-o", "json", "--query", ".[0].id")
	require.NoError(t, err)
	assert.Equal(t, "\"7\"\n", out)
}

func TestBuildOutOfRangeReportsEnvelope(t *testing.T) {
	_, errOut, err := runCLI(t, "a,b\n", "build", "--remove-column", "5", "-o", "json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, builder.ErrOutOfRange))

	var envelope map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(errOut), &envelope))
	assert.Equal(t, "out_of_range", envelope["error"]["type"])
	assert.Equal(t, "user", envelope["error"]["category"])
}

func TestBuildInsertColumnOutOfRange(t *testing.T) {
	_, _, err := runCLI(t, "a,b\n", "build", "--insert-column", "3=x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, builder.ErrOutOfRange))
}

func TestBuildParseError(t *testing.T) {
	_, errOut, err := runCLI(t, "a,b\"c\n", "build", "--error-format", "json")
	require.Error(t, err)

	var parseErr input.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, errOut, `"type":"parse"`)
}

func TestRemovalOrder(t *testing.T) {
	got, err := removalOrder([]int{1, 3, 1, 0}, 4, "remove column")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 0}, got)

	_, err = removalOrder([]int{4}, 4, "remove column")
	var rangeErr builder.OutOfRangeError
	require.True(t, errors.As(err, &rangeErr))
	assert.Equal(t, 3, rangeErr.Max)

	_, err = removalOrder([]int{-1}, 4, "remove record")
	assert.Error(t, err)
}

func TestParseIndexedCells(t *testing.T) {
	index, cells, err := parseIndexedCells(` 2 =total "a b" c`)
	require.NoError(t, err)
	assert.Equal(t, 2, index)
	assert.Equal(t, []string{"total", "a b", "c"}, cells)

	_, _, err = parseIndexedCells("total 1 2")
	assert.ErrorContains(t, err, "expected N=")

	_, _, err = parseIndexedCells("x=total")
	assert.ErrorContains(t, err, "invalid index")

	_, _, err = parseIndexedCells(`0="unterminated`)
	assert.Error(t, err)
}
