package particle

import (
	"fmt"

	"github.com/phil-mansfield/table"

	"github.com/phil-mansfield/gomd/geom"
)

// ReadText reads particle positions from a whitespace-separated text
// table with columns x, y, z and, if hasCharge is set, a fourth charge
// column. Positions must already lie inside the given box.
func ReadText(file string, hasCharge bool, box geom.Box) (*Store, error) {
	colIdxs := []int{0, 1, 2}
	if hasCharge {
		colIdxs = append(colIdxs, 3)
	}

	cols, err := table.ReadTable(file, colIdxs, nil)
	if err != nil {
		return nil, err
	}

	xs, ys, zs := cols[0], cols[1], cols[2]
	s, err := NewStore(len(xs), box)
	if err != nil {
		return nil, err
	}

	for i := range xs {
		v := geom.Vec{float32(xs[i]), float32(ys[i]), float32(zs[i])}
		for axis := 0; axis < 3; axis++ {
			if v[axis] < box.Lo[axis] || v[axis] > box.Hi[axis] {
				return nil, fmt.Errorf(
					"Particle %d in %s is at %g on axis %d, outside the "+
						"box range [%g, %g].", i, file, v[axis], axis,
					box.Lo[axis], box.Hi[axis],
				)
			}
		}
		s.x[i] = v
	}

	if hasCharge {
		for i, q := range cols[3] {
			s.charge[i] = float32(q)
		}
	}

	return s, nil
}
