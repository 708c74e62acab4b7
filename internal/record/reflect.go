package record

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// ErrUnsupported is returned by Of for values that have no row layout.
var ErrUnsupported = errors.New("record: unsupported value")

var tabledType = reflect.TypeOf((*Tabled)(nil)).Elem()

// Of converts v into a record.
//
// Values that already implement Tabled are returned as is. Pointers are
// followed. Primitive kinds become one column named after their type,
// arrays and slices one column per element, and structs one column per
// exported field.
//
// Struct fields are named by the `table` tag, then the `json` tag name,
// then the Go field name. `table:"-"` skips a field and `table:",inline"`
// flattens a nested struct or record into the parent row.
func Of(v any) (Tabled, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil", ErrUnsupported)
	}
	return ofValue(reflect.ValueOf(v))
}

// CollectValues converts a slice or array of arbitrary values into a header
// and rows. Every element must produce the header of the first element,
// both in width and in column names.
func CollectValues(items any) ([]string, [][]string, error) {
	v := reflect.ValueOf(items)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, nil, nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, nil, fmt.Errorf("%w: %s is not a list", ErrUnsupported, v.Type())
	}

	var headers []string
	rows := make([][]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		rec, err := ofValue(v.Index(i))
		if err != nil {
			return nil, nil, fmt.Errorf("item %d: %w", i, err)
		}
		h, fields, err := Row(rec)
		if err != nil {
			return nil, nil, fmt.Errorf("item %d: %w", i, err)
		}
		if i == 0 {
			headers = h
		} else if len(h) != len(headers) {
			return nil, nil, fmt.Errorf("item %d: %w", i, ShapeError{
				Type:    v.Index(i).Type().String(),
				Headers: len(headers),
				Fields:  len(fields),
			})
		} else if !slices.Equal(h, headers) {
			return nil, nil, fmt.Errorf("item %d: %w: columns %q differ from %q", i, ErrShapeMismatch, h, headers)
		}
		rows = append(rows, fields)
	}

	return headers, rows, nil
}

func ofValue(v reflect.Value) (Tabled, error) {
	if !v.IsValid() {
		return nil, fmt.Errorf("%w: invalid value", ErrUnsupported)
	}
	if v.Type().Implements(tabledType) && v.CanInterface() {
		if (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && v.IsNil() {
			return nil, fmt.Errorf("%w: nil %s", ErrUnsupported, v.Type())
		}
		return v.Interface().(Tabled), nil
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil, fmt.Errorf("%w: nil %s", ErrUnsupported, v.Type())
		}
		return ofValue(v.Elem())
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return fixed{
			headers: []string{v.Type().String()},
			fields:  []string{fmt.Sprint(v.Interface())},
		}, nil
	case reflect.Array, reflect.Slice:
		fields := make([]string, v.Len())
		for i := range fields {
			fields[i] = display(v.Index(i))
		}
		return fixed{headers: indexHeaders(v.Len()), fields: fields}, nil
	case reflect.Struct:
		return ofStruct(v)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, v.Type())
	}
}

func ofStruct(v reflect.Value) (Tabled, error) {
	t := v.Type()
	var rec fixed
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, inline, skip := fieldName(f)
		if skip {
			continue
		}

		fv := v.Field(i)
		if inline {
			nested, err := ofValue(fv)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			rec.headers = append(rec.headers, nested.Headers()...)
			rec.fields = append(rec.fields, nested.Fields()...)
			continue
		}

		rec.headers = append(rec.headers, name)
		rec.fields = append(rec.fields, display(fv))
	}
	return rec, nil
}

func fieldName(f reflect.StructField) (name string, inline, skip bool) {
	name = f.Name
	if tag, ok := f.Tag.Lookup("table"); ok {
		parts := strings.Split(tag, ",")
		if parts[0] == "-" && len(parts) == 1 {
			return "", false, true
		}
		if parts[0] != "" {
			name = parts[0]
		}
		for _, opt := range parts[1:] {
			if opt == "inline" {
				inline = true
			}
		}
		return name, inline, false
	}
	if tag := f.Tag.Get("json"); tag != "" {
		parts := strings.Split(tag, ",")
		if parts[0] == "-" {
			return "", false, true
		}
		if parts[0] != "" {
			name = parts[0]
		}
	}
	return name, false, false
}

// display formats a single cell; nil pointers render as empty text.
func display(v reflect.Value) string {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if !v.CanInterface() {
		return ""
	}
	return fmt.Sprint(v.Interface())
}

// fixed is a record whose headers and fields were computed up front.
type fixed struct {
	headers []string
	fields  []string
}

func (f fixed) Headers() []string { return f.headers }
func (f fixed) Fields() []string  { return f.fields }
