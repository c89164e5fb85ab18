package omiswath_test

import (
	"testing"

	"github.com/geal-ai/omiswath"
)

func TestMaskBitOrder(t *testing.T) {
	// Cells 0, 2 and 3 set: byte 0 is 0b10110000.
	m := omiswath.NewMask(8)
	for _, i := range []int{0, 2, 3} {
		m.Set(i)
	}
	cases := []struct {
		i    int
		want bool
	}{
		{0, true},
		{1, false},
		{2, true},
		{3, true},
		{4, false},
		{5, false},
		{6, false},
		{7, false},
	}
	for _, c := range cases {
		if got := m.Valid(c.i); got != c.want {
			t.Errorf("Valid(%d) = %v, want %v", c.i, got, c.want)
		}
	}
	if n := m.Count(); n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}
}

func TestMaskAcrossBytes(t *testing.T) {
	m := omiswath.NewMask(20)
	if m.Len() != 20 {
		t.Fatalf("Len() = %d, want 20", m.Len())
	}
	for _, i := range []int{7, 8, 19} {
		m.Set(i)
	}
	for i := 0; i < 20; i++ {
		want := i == 7 || i == 8 || i == 19
		if got := m.Valid(i); got != want {
			t.Errorf("Valid(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestMaskOutOfRange(t *testing.T) {
	m := omiswath.NewMask(5)
	m.Set(-1)
	m.Set(5)
	m.Set(100)
	if n := m.Count(); n != 0 {
		t.Errorf("Count() = %d after out-of-range sets, want 0", n)
	}
	for _, i := range []int{-1, 5, 7, 100} {
		if m.Valid(i) {
			t.Errorf("Valid(%d) = true outside the mask", i)
		}
	}
}

func TestMaskEmpty(t *testing.T) {
	m := omiswath.NewMask(0)
	if m.Len() != 0 || m.Count() != 0 || m.Valid(0) {
		t.Errorf("empty mask: Len %d Count %d", m.Len(), m.Count())
	}
}
