package cell

import (
	"sync/atomic"

	"github.com/phil-mansfield/gomd/particle"
)

/* parallel.go is the multi-goroutine bucket fill. The only shared
mutation is slot claiming: two workers whose particles land in the same
cell race on its occupancy counter, so slots are claimed with an atomic
add and everything else each worker touches is its own. */

// fillParallel bins particles across cl.workers goroutines, splitting
// the particle range into contiguous chunks. Slot order within a cell
// depends on scheduling; callers needing bit-reproducible buckets should
// use one worker.
func (cl *CellList) fillParallel(arrays *particle.Arrays) error {
	box := cl.store.Box()
	scale := [3]float32{
		1 / cl.width[0], 1 / cl.width[1], 1 / cl.width[2],
	}

	ci, cli := cl.cellIndexer, cl.cellListIndexer
	cells := ci.NumElements()

	var overflowed uint32
	errs := make([]error, cl.workers)
	out := make(chan int, cl.workers)

	chunk := (arrays.N + cl.workers - 1) / cl.workers
	worker := func(id int) {
		low, high := id*chunk, (id+1)*chunk
		if high > arrays.N {
			high = arrays.N
		}

		for n := low; n < high; n++ {
			pos := &arrays.X[n]
			if pos.IsNaN() {
				errs[id] = &InvalidPositionError{n, *pos}
				break
			}

			ib, jb, kb := cl.binCoords(pos, &box, &scale)
			if !cl.inGrid(ib, jb, kb) {
				errs[id] = &OutOfBoundsError{n, ci.Idx(ib, jb, kb), cells}
				break
			}
			bin := ci.Idx(ib, jb, kb)

			offset := int(atomic.AddUint32(&cl.size[bin], 1)) - 1
			if offset < cl.nmax {
				cl.writeSlot(cli.Idx(offset, bin), n, pos, arrays)
			} else {
				atomic.StoreUint32(&overflowed, 1)
			}
		}

		out <- id
	}

	for id := 0; id < cl.workers-1; id++ {
		go worker(id)
	}
	worker(cl.workers - 1)

	for i := 0; i < cl.workers; i++ {
		<-out
	}

	// Workers hold contiguous ascending particle ranges, so the first
	// non-nil entry is the fault with the lowest particle index.
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	if overflowed == 1 {
		return &OverflowError{cl.nmax, int(maxUint32(cl.size))}
	}
	return nil
}
