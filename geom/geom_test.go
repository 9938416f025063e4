package geom

import (
	"math"
	"testing"
)

func TestIndex3D(t *testing.T) {
	idx := Index3D{W: 3, H: 4, D: 5}
	if idx.NumElements() != 60 {
		t.Errorf("Expected 60 elements, got %d.", idx.NumElements())
	}

	seen := map[int]bool{}
	for z := 0; z < 5; z++ {
		for y := 0; y < 4; y++ {
			for x := 0; x < 3; x++ {
				i := idx.Idx(x, y, z)
				if i < 0 || i >= 60 {
					t.Errorf("(%d, %d, %d) maps to out-of-range offset %d.",
						x, y, z, i)
				}
				if seen[i] {
					t.Errorf("(%d, %d, %d) maps to duplicate offset %d.",
						x, y, z, i)
				}
				seen[i] = true

				xx, yy, zz := idx.Coords(i)
				if xx != x || yy != y || zz != z {
					t.Errorf("Coords(%d) = (%d, %d, %d), not (%d, %d, %d).",
						i, xx, yy, zz, x, y, z)
				}
			}
		}
	}
}

func TestIndex2D(t *testing.T) {
	idx := Index2D{W: 4, H: 6}
	if idx.NumElements() != 24 {
		t.Errorf("Expected 24 elements, got %d.", idx.NumElements())
	}

	seen := map[int]bool{}
	for h := 0; h < 6; h++ {
		for w := 0; w < 4; w++ {
			i := idx.Idx(w, h)
			if i < 0 || i >= 24 {
				t.Errorf("(%d, %d) maps to out-of-range offset %d.", w, h, i)
			}
			if seen[i] {
				t.Errorf("(%d, %d) maps to duplicate offset %d.", w, h, i)
			}
			seen[i] = true
		}
	}
}

func TestPMod(t *testing.T) {
	tests := []struct {
		x, y, out int
	}{
		{0, 3, 0},
		{1, 3, 1},
		{3, 3, 0},
		{5, 3, 2},
		{-1, 3, 2},
		{-3, 3, 0},
		{-4, 3, 2},
	}

	for i := range tests {
		out := PMod(tests[i].x, tests[i].y)
		if out != tests[i].out {
			t.Errorf("%d) PMod(%d, %d) = %d, expected %d.",
				i, tests[i].x, tests[i].y, out, tests[i].out)
		}
	}
}

func TestFlagRoundTrip(t *testing.T) {
	tests := []int{0, 1, 2, 31, 32, 1000, 1 << 20, 1<<24 - 1}
	for i := range tests {
		out := FlagToIndex(IndexToFlag(tests[i]))
		if out != tests[i] {
			t.Errorf("%d) index %d round-tripped to %d.", i, tests[i], out)
		}
	}
}

func TestVecIsNaN(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		v   Vec
		out bool
	}{
		{Vec{0, 0, 0}, false},
		{Vec{1, -2, 3}, false},
		{Vec{nan, 0, 0}, true},
		{Vec{0, nan, 0}, true},
		{Vec{0, 0, nan}, true},
	}

	for i := range tests {
		if tests[i].v.IsNaN() != tests[i].out {
			t.Errorf("%d) IsNaN() = %v for %v.",
				i, tests[i].v.IsNaN(), tests[i].v)
		}
	}
}

func TestBoxCheckInit(t *testing.T) {
	tests := []struct {
		box Box
		ok  bool
	}{
		{NewBox(10, 3), true},
		{NewBox(10, 2), true},
		{NewBox(10, 1), false},
		{NewBox(10, 4), false},
		{Box{Lo: [3]float32{0, 0, 0}, Hi: [3]float32{1, 1, 0}, Dims: 3},
			false},
		{Box{Lo: [3]float32{2, 0, 0}, Hi: [3]float32{1, 1, 1}, Dims: 3},
			false},
	}

	for i := range tests {
		err := tests[i].box.CheckInit()
		if (err == nil) != tests[i].ok {
			t.Errorf("%d) CheckInit() = %v for %+v.", i, err, tests[i].box)
		}
	}
}

func TestBoxWrap(t *testing.T) {
	box := NewBox(10, 3)
	tests := []struct {
		in, out Vec
	}{
		{Vec{5, 5, 5}, Vec{5, 5, 5}},
		{Vec{0, 0, 0}, Vec{0, 0, 0}},
		{Vec{10, 5, 5}, Vec{0, 5, 5}},
		{Vec{-1, 5, 5}, Vec{9, 5, 5}},
		{Vec{5, 11, 5}, Vec{5, 1, 5}},
	}

	for i := range tests {
		v := tests[i].in
		box.Wrap(&v)
		if v != tests[i].out {
			t.Errorf("%d) Wrap(%v) = %v, expected %v.",
				i, tests[i].in, v, tests[i].out)
		}
	}
}
