// Package matrix has the helpers used to work with the small
// cell grids pieces are made of.
package matrix

// Rotate returns a copy of m rotated 90 degrees clockwise.
//
// The rotation is a transpose followed by reversing every row of the
// transposed matrix. A matrix of R rows by C columns returns C rows by R columns.
//
//	0 1 2		  2 1 0
//	a b c		0 d a
//	d e f		1 e b
//				2 f c
func Rotate[T any](m [][]T) [][]T {
	if len(m) == 0 {
		return [][]T{}
	}

	// transpose
	rotated := make([][]T, len(m[0]))
	for ic := range rotated {
		rotated[ic] = make([]T, len(m))
		for ir := range m {
			rotated[ic][ir] = m[ir][ic]
		}
	}

	// reverse
	for _, r := range rotated {
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
	}

	return rotated
}

// ForEachCell calls fn for every cell of m in row-major order.
func ForEachCell[T any](m [][]T, fn func(v T, row, col int)) {
	for ir, r := range m {
		for ic, v := range r {
			fn(v, ir, ic)
		}
	}
}

// Copy returns a deep copy of m.
func Copy[T any](m [][]T) [][]T {
	if m == nil {
		return nil
	}
	c := make([][]T, len(m))
	for i := range m {
		c[i] = make([]T, len(m[i]))
		copy(c[i], m[i])
	}
	return c
}
