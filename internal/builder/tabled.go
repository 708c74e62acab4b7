package builder

import (
	"fmt"

	"github.com/salmonumbrella/tabkit/internal/record"
)

// PushTabled appends the fields of t as a record. The first record pushed
// into a builder without a header also sets the header from t.
func (b *Builder) PushTabled(t record.Tabled) error {
	headers, fields, err := record.Row(t)
	if err != nil {
		return err
	}
	if !b.hasHeader && len(b.data) == 0 {
		b.SetHeader(headers...)
	}
	b.PushRecord(fields...)
	return nil
}

// FromRecords builds a table from typed records: the header comes from the
// record type and each item becomes one record.
func FromRecords[T record.Tabled](items []T) (*Builder, error) {
	headers, rows, err := record.Collect(items)
	if err != nil {
		return nil, fmt.Errorf("collect records: %w", err)
	}
	return fromCollected(headers, rows), nil
}

// FromValues builds a table from a slice of arbitrary values converted with
// record.Of.
func FromValues(items any) (*Builder, error) {
	headers, rows, err := record.CollectValues(items)
	if err != nil {
		return nil, fmt.Errorf("collect values: %w", err)
	}
	return fromCollected(headers, rows), nil
}

func fromCollected(headers []string, rows [][]string) *Builder {
	b := WithCapacity(len(rows))
	if headers != nil {
		b.SetHeader(headers...)
	}
	for _, row := range rows {
		b.PushRecord(row...)
	}
	return b
}
