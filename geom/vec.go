package geom

import (
	"math"
)

// Vec is a 3D position vector. Simulations are large enough that the
// memory savings of float32 matter more than the extra precision of
// float64.
type Vec [3]float32

// IsNaN returns true if any component of v is NaN.
func (v *Vec) IsNaN() bool {
	return v[0] != v[0] || v[1] != v[1] || v[2] != v[2]
}

// IndexToFlag stores the bit pattern of a non-negative integer inside a
// float32. This lets the fourth component of a bucket slot hold either a
// physical charge or a particle index without widening the record.
func IndexToFlag(i int) float32 {
	return math.Float32frombits(uint32(i))
}

// FlagToIndex recovers an integer stored with IndexToFlag.
func FlagToIndex(flag float32) int {
	return int(math.Float32bits(flag))
}
