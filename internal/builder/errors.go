package builder

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is matched by every OutOfRangeError.
var ErrOutOfRange = errors.New("index out of range")

// OutOfRangeError reports a row or column index outside the valid bound of
// an insert or remove operation. Max is the largest accepted index, or -1
// when no index is accepted.
type OutOfRangeError struct {
	Op    string
	Index int
	Max   int
}

func (e OutOfRangeError) Error() string {
	if e.Max < 0 {
		return fmt.Sprintf("%s: index %d out of range (nothing to address)", e.Op, e.Index)
	}
	return fmt.Sprintf("%s: index %d out of range [0, %d]", e.Op, e.Index, e.Max)
}

// Is lets errors.Is(err, ErrOutOfRange) match.
func (e OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
