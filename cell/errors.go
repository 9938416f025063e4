package cell

import (
	"fmt"

	"github.com/phil-mansfield/gomd/geom"
)

/* errors.go defines the failure modes of a cell list compute. All three
are hard failures for the cycle that produced them: the engine never
publishes a partial bucket array, because silently dropped particles would
corrupt every force sum computed downstream. Overflow is the only one a
caller is expected to recover from, by raising the bucket capacity and
recomputing. */

// InvalidPositionError reports a particle with a NaN coordinate.
type InvalidPositionError struct {
	Index int
	Pos   geom.Vec
}

func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf(
		"Particle %d has NaN for its position (%g, %g, %g).",
		e.Index, e.Pos[0], e.Pos[1], e.Pos[2],
	)
}

// OutOfBoundsError reports a particle whose computed cell id fell outside
// the grid, which means the particle left the simulation box.
type OutOfBoundsError struct {
	Index int
	Cell  int
	Cells int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf(
		"Particle %d is no longer in the simulation box "+
			"(cell %d of %d).", e.Index, e.Cell, e.Cells,
	)
}

// OverflowError reports that at least one cell received more particles
// than the bucket capacity Nmax. The sweep that detected it ran to
// completion, so MaxOccupancy is the true densest-cell count: callers can
// recover by raising the capacity at least that high and recomputing.
type OverflowError struct {
	Nmax         int
	MaxOccupancy int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf(
		"Cell list overflowed: a cell holds %d particles, but Nmax is %d.",
		e.MaxOccupancy, e.Nmax,
	)
}
