package cell

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Occupancy summarizes the per-cell occupancy of the last rebuild. It is
// a diagnostic: the mean tracks the density estimate behind Nmax, and a
// max approaching Nmax warns that the next rebuild may overflow.
type Occupancy struct {
	Mean, Std float64
	Min, Max  int
}

// Occupancy computes occupancy statistics over the current per-cell
// counts. It must not be called before the first successful Compute.
func (cl *CellList) Occupancy() Occupancy {
	counts := make([]float64, len(cl.size))
	for i, n := range cl.size {
		counts[i] = float64(n)
	}

	return Occupancy{
		Mean: stat.Mean(counts, nil),
		Std:  stat.StdDev(counts, nil),
		Min:  int(floats.Min(counts)),
		Max:  int(floats.Max(counts)),
	}
}
