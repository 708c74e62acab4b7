package record

import (
	"fmt"
	"reflect"
)

// Primitive is the set of scalar kinds that convert to a single column.
type Primitive interface {
	~string | ~bool |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Scalar is a one-column record. The header is the Go type name of T and
// the field is the value formatted with fmt.Sprint, so a string scalar is
// headed "string" and a byte-sized unsigned one "uint8" (not "String" or
// "u8").
type Scalar[T Primitive] struct {
	Value T
}

// Value wraps a primitive as a one-column record.
func Value[T Primitive](v T) Scalar[T] {
	return Scalar[T]{Value: v}
}

func (s Scalar[T]) Headers() []string {
	return []string{reflect.TypeOf((*T)(nil)).Elem().String()}
}

func (s Scalar[T]) Fields() []string {
	return []string{fmt.Sprint(s.Value)}
}

// Char is a one-column record holding a single character. Go has no
// distinct character type, so runes need this wrapper to print as text.
type Char rune

func (c Char) Headers() []string { return []string{"rune"} }
func (c Char) Fields() []string  { return []string{string(rune(c))} }
