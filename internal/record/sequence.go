package record

import (
	"fmt"
	"strconv"
)

// Array is a homogeneous sequence laid out as one column per element.
// Headers are the element positions "0".."N-1".
type Array[T any] []T

func (a Array[T]) Headers() []string {
	return indexHeaders(len(a))
}

func (a Array[T]) Fields() []string {
	fields := make([]string, len(a))
	for i, v := range a {
		fields[i] = fmt.Sprint(v)
	}
	return fields
}

func indexHeaders(n int) []string {
	headers := make([]string, n)
	for i := range headers {
		headers[i] = strconv.Itoa(i)
	}
	return headers
}
