package omiswath

// Window is an inclusive block of grid rows and columns.
type Window struct {
	Row0, Row1 int
	Col0, Col1 int
}

// Rows returns the row indices covered by w.
func (w Window) Rows() []int { return span(w.Row0, w.Row1) }

// Cols returns the column indices covered by w.
func (w Window) Cols() []int { return span(w.Col0, w.Col1) }

// Size returns the number of cells in w.
func (w Window) Size() int { return (w.Row1 - w.Row0 + 1) * (w.Col1 - w.Col0 + 1) }

func span(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

// ClampCenter nudges a window centre away from the grid edges.
//
// The amounts are fixed per half-width and are not symmetric:
//
//	half=1: +1 if c < 1, -2 if c > n-2
//	half=2: +1 if c < 2, -1 if c > n-3
//
// applied to rows and columns independently. The -2 on the high edge for
// 3×3 windows drops the last row or column from a window centred on it.
func ClampCenter(row, col, rows, cols, half int) (int, int) {
	return nudge(row, rows, half), nudge(col, cols, half)
}

func nudge(c, n, half int) int {
	switch half {
	case 1:
		if c < 1 {
			c++
		}
		if c > n-2 {
			c -= 2
		}
	case 2:
		if c < 2 {
			c++
		}
		if c > n-3 {
			c--
		}
	}
	return c
}

// WindowAt returns the (2*half+1)² window used for statistics around
// (row, col). The centre goes through ClampCenter first. If the window still
// leaves the grid, which only happens for centres ClampCenter alone cannot
// rescue, it is shifted back inside without shrinking. Grids narrower than
// the window get the window clipped to the grid.
func WindowAt(row, col, rows, cols, half int) Window {
	r, c := ClampCenter(row, col, rows, cols, half)
	r0, r1 := contain(r-half, r+half, rows)
	c0, c1 := contain(c-half, c+half, cols)
	return Window{Row0: r0, Row1: r1, Col0: c0, Col1: c1}
}

func contain(lo, hi, n int) (int, int) {
	if lo < 0 {
		hi -= lo
		lo = 0
	}
	if hi > n-1 {
		lo -= hi - (n - 1)
		hi = n - 1
	}
	if lo < 0 {
		lo = 0
	}
	return lo, hi
}
