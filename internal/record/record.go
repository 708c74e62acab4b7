// Package record converts typed Go values into table rows.
//
// A value takes part in a table by implementing Tabled: Headers names the
// columns and Fields renders one row. Helpers cover scalars, fixed-size
// sequences and products of up to six records, and Of converts arbitrary
// values (including structs) by reflection.
package record

import (
	"errors"
	"fmt"
	"reflect"
)

// Tabled is implemented by values that can be laid out as one table row.
//
// Headers must depend only on the value's type (and, for sequences, on its
// length), so every value of one type yields rows of one width. Headers and
// Fields must have the same length.
type Tabled interface {
	// Headers returns the column names, in order.
	Headers() []string
	// Fields returns the cell texts of this value, in header order.
	Fields() []string
}

// ErrShapeMismatch is returned when a Tabled value reports a different
// number of headers and fields.
var ErrShapeMismatch = errors.New("record: header and field count differ")

// ShapeError describes a Tabled value whose headers and fields disagree.
type ShapeError struct {
	Type    string
	Headers int
	Fields  int
}

func (e ShapeError) Error() string {
	return fmt.Sprintf("record %s: %d headers but %d fields", e.Type, e.Headers, e.Fields)
}

// Is reports ErrShapeMismatch as the sentinel for ShapeError.
func (e ShapeError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// Row returns the headers and fields of t and checks that they line up.
func Row(t Tabled) ([]string, []string, error) {
	headers := t.Headers()
	fields := t.Fields()
	if len(headers) != len(fields) {
		return nil, nil, ShapeError{
			Type:    fmt.Sprintf("%T", t),
			Headers: len(headers),
			Fields:  len(fields),
		}
	}
	return headers, fields, nil
}

// Width returns the number of columns t occupies.
func Width(t Tabled) int {
	return len(t.Headers())
}

// Collect converts items into a header and one row per item.
// The header is taken from the first item, or from the zero value of T
// when items is empty. Every item must be as wide as the header.
func Collect[T Tabled](items []T) ([]string, [][]string, error) {
	if len(items) == 0 {
		zero, ok := zeroOf[T]()
		if !ok {
			return nil, nil, nil
		}
		return zero.Headers(), nil, nil
	}

	headers, _, err := Row(items[0])
	if err != nil {
		return nil, nil, err
	}

	rows := make([][]string, 0, len(items))
	for i, item := range items {
		_, fields, err := Row(item)
		if err != nil {
			return nil, nil, fmt.Errorf("item %d: %w", i, err)
		}
		if len(fields) != len(headers) {
			return nil, nil, fmt.Errorf("item %d: %w", i, ShapeError{
				Type:    fmt.Sprintf("%T", item),
				Headers: len(headers),
				Fields:  len(fields),
			})
		}
		rows = append(rows, fields)
	}

	return headers, rows, nil
}

// zeroOf returns a usable zero value of T. Nil pointers are replaced by a
// pointer to a fresh zero element; interface types have no usable zero.
func zeroOf[T Tabled]() (T, bool) {
	var zero T
	rv := reflect.ValueOf(&zero).Elem()
	switch rv.Kind() {
	case reflect.Interface:
		return zero, false
	case reflect.Ptr:
		rv.Set(reflect.New(rv.Type().Elem()))
	}
	return zero, true
}
