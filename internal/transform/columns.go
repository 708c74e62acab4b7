// Package transform holds pipeline steps that edit a builder through its
// structural operations.
package transform

import (
	"fmt"
	"strconv"

	"github.com/gobwas/glob"

	"github.com/salmonumbrella/tabkit/internal/builder"
)

// DropColumns removes every column whose name matches pattern and returns
// how many were removed. Columns are named by the header, or by their
// zero-based position when the builder has no header.
func DropColumns(b *builder.Builder, pattern string) (int, error) {
	return filterColumns(b, pattern, true)
}

// SelectColumns keeps only the columns whose name matches pattern and
// returns how many were removed.
func SelectColumns(b *builder.Builder, pattern string) (int, error) {
	return filterColumns(b, pattern, false)
}

func filterColumns(b *builder.Builder, pattern string, drop bool) (int, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return 0, fmt.Errorf("invalid column pattern %q: %w", pattern, err)
	}

	names := ColumnNames(b)
	removed := 0
	for i := len(names) - 1; i >= 0; i-- {
		if g.Match(names[i]) == drop {
			b.RemoveColumn(i)
			removed++
		}
	}
	return removed, nil
}

// ColumnNames returns the header cells, or the column positions as text
// when there is no header.
func ColumnNames(b *builder.Builder) []string {
	if b.HasHeader() {
		return b.Header()
	}
	names := make([]string, b.CountColumns())
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	return names
}
