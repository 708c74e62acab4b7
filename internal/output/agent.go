package output

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ApplyAgentOptions applies --result-sort-by/--result-desc/--result-limit to
// a table. Sorting is stable; cells that parse as numbers compare
// numerically. The input table is not modified.
func ApplyAgentOptions(ctx context.Context, t Table) (Table, error) {
	limit := LimitFromContext(ctx)
	sortBy, desc := SortFromContext(ctx)
	if limit == 0 && sortBy == "" {
		return t, nil
	}

	rows := make([][]string, len(t.Rows))
	copy(rows, t.Rows)

	if sortBy != "" {
		col, err := sortColumn(t, sortBy)
		if err != nil {
			return t, err
		}
		sort.SliceStable(rows, func(i, j int) bool {
			cmp := compareValues(cellAt(rows[i], col), cellAt(rows[j], col))
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	return Table{Headers: t.Headers, Rows: rows}, nil
}

// sortColumn resolves a header name, or a zero-based column number when the
// table has no header.
func sortColumn(t Table, name string) (int, error) {
	if col, ok := t.columnIndex(name); ok {
		return col, nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(name)); err == nil && n >= 0 && n < t.Columns() {
		return n, nil
	}
	return -1, fmt.Errorf("unknown sort column %q", name)
}

func normalizeName(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(s, "_", ""), "-", ""))
}

func compareValues(a, b string) int {
	fa, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	fb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errA == nil && errB == nil {
		if fa < fb {
			return -1
		}
		if fa > fb {
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}
