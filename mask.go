package omiswath

// Mask is a packed validity bitmap over grid cells, one bit per cell.
// Bits are MSB-first: bit 7 of byte 0 is cell 0, bit 6 of byte 0 is cell 1,
// and so on. A set bit means the cell holds an observation.
type Mask struct {
	bits []byte
	n    int
}

// NewMask returns a mask over n cells with every bit clear.
func NewMask(n int) *Mask {
	return &Mask{bits: make([]byte, (n+7)/8), n: n}
}

// Len returns the number of cells covered.
func (m *Mask) Len() int { return m.n }

// Set marks cell i as valid.
func (m *Mask) Set(i int) {
	if i < 0 || i >= m.n {
		return
	}
	m.bits[i/8] |= 1 << uint(7-(i%8))
}

// Valid reports whether cell i holds an observation.
func (m *Mask) Valid(i int) bool {
	if i < 0 || i >= m.n {
		return false
	}
	return (m.bits[i/8]>>uint(7-(i%8)))&1 == 1
}

// Count returns the number of valid cells.
func (m *Mask) Count() int {
	n := 0
	for i := 0; i < m.n; i++ {
		if m.Valid(i) {
			n++
		}
	}
	return n
}
