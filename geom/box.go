package geom

import (
	"fmt"
)

// Box is a periodic simulation box. Lo and Hi give the bounds of each
// axis as a closed-open range, [Lo, Hi). Dims is 2 or 3. 2D boxes still
// carry z bounds so that 3D data structures can be layered on top of
// them.
type Box struct {
	Lo, Hi [3]float32
	Dims   int
}

// NewBox returns a cubic Box with the given total width, spanning
// [0, width) on every axis.
func NewBox(width float32, dims int) Box {
	return Box{
		Lo:   [3]float32{0, 0, 0},
		Hi:   [3]float32{width, width, width},
		Dims: dims,
	}
}

// Extent returns the length of the box along the given axis.
func (b *Box) Extent(axis int) float32 {
	return b.Hi[axis] - b.Lo[axis]
}

// CheckInit returns an error if the box bounds or dimensionality are
// invalid.
func (b *Box) CheckInit() error {
	for axis := 0; axis < 3; axis++ {
		if b.Hi[axis] <= b.Lo[axis] {
			return fmt.Errorf(
				"Box has non-positive extent on axis %d: [%g, %g).",
				axis, b.Lo[axis], b.Hi[axis],
			)
		}
	}
	if b.Dims != 2 && b.Dims != 3 {
		return fmt.Errorf("Box has %d dimensions, must be 2 or 3.", b.Dims)
	}
	return nil
}

// Wrap maps a position back into the box under periodic boundary
// conditions. Only positions within one box length of the bounds are
// handled, which is all a bounded-timestep simulation can produce.
func (b *Box) Wrap(v *Vec) {
	for axis := 0; axis < 3; axis++ {
		if v[axis] < b.Lo[axis] {
			v[axis] += b.Extent(axis)
		} else if v[axis] >= b.Hi[axis] {
			v[axis] -= b.Extent(axis)
		}
	}
}
