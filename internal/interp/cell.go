package interp

import (
	"strconv"

	"github.com/corvidae-lang/gawk/internal/types"
)

// cell is a single variable binding. A variable is either a scalar or an
// array for its entire lifetime; the two arms are mutually exclusive and
// the first use decides which. Arrays nest: indexing with more than one key
// descends through intermediate array cells, creating them as needed, so
// a[i,j] really means "the array bound to a[i], indexed by j".
type cell struct {
	isArray bool
	scalar  types.Value
	array   map[string]*cell
}

func newScalarCell(v types.Value) *cell {
	return &cell{scalar: v}
}

func newArrayCell() *cell {
	return &cell{isArray: true, array: make(map[string]*cell)}
}

// asArray returns c's backing map, turning an unused (Null scalar, never
// written) cell into an array in place. It fails if c already holds a
// scalar value.
func (c *cell) asArray() (map[string]*cell, bool) {
	if c.isArray {
		return c.array, true
	}
	if c.scalar.IsNull() {
		c.isArray = true
		c.array = make(map[string]*cell)
		return c.array, true
	}
	return nil, false
}

// arrayKey converts a Value to its canonical array-subscript string, per
// the same rule used for string conversion: an integral numeric value is
// rendered without a fractional part or exponent.
func arrayKey(v types.Value) string {
	if v.IsNum() {
		n := v.AsNum()
		if n == float64(int64(n)) {
			return strconv.FormatInt(int64(n), 10)
		}
	}
	return v.AsStr("%.6g")
}

// stringValue wraps an array key as the value a for-in loop variable binds
// to: keys that look numeric still compare numerically, as real AWK does.
func stringValue(s string) types.Value {
	return types.NumStr(s)
}
