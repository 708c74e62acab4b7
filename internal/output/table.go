package output

import (
	"strconv"

	"github.com/salmonumbrella/tabkit/internal/builder"
)

// Table is a built grid split into its header and records.
type Table struct {
	Headers []string   `json:"headers,omitempty" yaml:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// FromGrid splits a grid into a Table. When hasHeader is set, row 0 of the
// grid is the header.
func FromGrid(g builder.Grid, hasHeader bool) Table {
	if hasHeader && len(g) > 0 {
		return Table{Headers: g[0], Rows: g[1:]}
	}
	return Table{Rows: g}
}

// Columns returns the table width.
func (t Table) Columns() int {
	if len(t.Headers) > 0 {
		return len(t.Headers)
	}
	if len(t.Rows) > 0 {
		return len(t.Rows[0])
	}
	return 0
}

// columnIndex finds a header by name, ignoring case, '_' and '-'.
func (t Table) columnIndex(name string) (int, bool) {
	norm := normalizeName(name)
	for i, h := range t.Headers {
		if normalizeName(h) == norm {
			return i, true
		}
	}
	return -1, false
}

// objectKeys returns the header cells as unique object keys. Repeated or
// empty names get a positional suffix.
func (t Table) objectKeys() []string {
	keys := make([]string, len(t.Headers))
	used := make(map[string]bool, len(t.Headers))
	for i, h := range t.Headers {
		base := h
		if base == "" {
			base = "column_" + strconv.Itoa(i)
		}
		key := base
		for n := 2; used[key]; n++ {
			key = base + "_" + strconv.Itoa(n)
		}
		used[key] = true
		keys[i] = key
	}
	return keys
}
