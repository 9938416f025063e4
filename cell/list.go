/*package cell implements the spatial cell list that accelerates
short-range neighbor searches in a periodic simulation box. The box is cut
into a grid of cells roughly one interaction range across, every particle
is binned into its cell each time it is needed, and a precomputed
adjacency table gives the cells a consumer has to scan to find all
neighbors within the interaction range.

The cell list reacts lazily to change: parameter edits, box changes, and
particle reorders only set flags, and the work happens at the top of the
next Compute call. Consumers read the published arrays through accessors
and must treat them as invalid after any Compute or parameter change.*/
package cell

import (
	"math"

	"github.com/phil-mansfield/gomd/geom"
	"github.com/phil-mansfield/gomd/particle"
)

// CellList bins the particles of a Store into a uniform grid of cells
// and maintains a sorted periodic adjacency table over those cells.
//
// A zero CellList is not usable: create one with New, and call Destroy
// when done with it so it stops listening to Store notifications.
type CellList struct {
	store *particle.Store

	// Configuration. Editing any of these marks the parameters stale.
	nominalWidth float32
	radius       int
	maxCells     int
	minNmax      int
	computeTDB   bool
	flagCharge   bool

	workers int

	// Grid geometry, derived from the box and the configuration.
	dim   [3]int
	width [3]float32
	nmax  int

	cellIndexer     geom.Index3D
	cellListIndexer geom.Index2D
	cellAdjIndexer  geom.Index2D

	// Published storage.
	size []uint32
	xyzf [][4]float32
	tdb  [][4]float32
	adj  []int

	// Dirty flags consumed at the top of Compute.
	paramsChanged bool
	boxChanged    bool
	sorted        bool

	lastComputed  uint64
	computedOnce  bool
	shouldCompute func(timestep uint64) bool

	sortConn particle.Connection
	boxConn  particle.Connection
}

// New creates a CellList over the given Store. Allocation is deferred
// until the first Compute call. The defaults are a nominal cell width of
// 1, an adjacency radius of 1, no cell count cap, and a serial rebuild.
func New(store *particle.Store) *CellList {
	cl := &CellList{
		store:        store,
		nominalWidth: 1.0,
		radius:       1,
		maxCells:     math.MaxInt32,
		nmax:         32,
		workers:      1,

		paramsChanged: true,
	}

	cl.sortConn = store.ConnectSort(cl.slotParticlesSorted)
	cl.boxConn = store.ConnectBoxChange(cl.slotBoxChanged)

	return cl
}

// Destroy disconnects the CellList from its Store's notifications. The
// CellList must not be used afterwards.
func (cl *CellList) Destroy() {
	cl.sortConn.Disconnect()
	cl.boxConn.Disconnect()
}

func (cl *CellList) slotParticlesSorted() { cl.sorted = true }
func (cl *CellList) slotBoxChanged()      { cl.boxChanged = true }

// SetNominalWidth sets the target cell width. The realized width can be
// larger, both because cells must evenly tile the box and because the
// cell count cap can force fewer, larger cells.
func (cl *CellList) SetNominalWidth(width float32) {
	cl.nominalWidth = width
	cl.paramsChanged = true
}

// SetRadius sets the neighbor shell half-width in cells. A radius of 1
// gives the standard 3x3x3 stencil.
func (cl *CellList) SetRadius(radius int) {
	cl.radius = radius
	cl.paramsChanged = true
}

// SetMaxCells caps the total number of cells in the grid. When the
// nominal width would produce more, the in-plane dimensions are scaled
// down uniformly, trading cell granularity for staying under the cap.
func (cl *CellList) SetMaxCells(maxCells int) {
	cl.maxCells = maxCells
	cl.paramsChanged = true
}

// SetMinNmax sets a floor on the bucket capacity, on top of the density
// estimate made at allocation time. This is the recovery hook for
// OverflowError: raise the floor to the reported occupancy and recompute.
func (cl *CellList) SetMinNmax(minNmax int) {
	cl.minNmax = minNmax
	cl.paramsChanged = true
}

// SetComputeTDB controls whether the secondary type/diameter/body bucket
// array is filled. It is off by default; consumers that never read it
// should leave it off and save the memory.
func (cl *CellList) SetComputeTDB(computeTDB bool) {
	cl.computeTDB = computeTDB
	cl.paramsChanged = true
}

// SetFlagCharge controls what the fourth component of each bucket slot
// holds: the particle's charge when set, or its index in the Store
// (encoded with geom.IndexToFlag) when not.
func (cl *CellList) SetFlagCharge(flagCharge bool) {
	cl.flagCharge = flagCharge
	cl.paramsChanged = true
}

// SetWorkers sets the number of goroutines used to fill the buckets. With
// one worker (the default) the rebuild is serial and slot order within
// each cell is deterministic. With more, slots are claimed atomically and
// the order depends on scheduling.
func (cl *CellList) SetWorkers(workers int) {
	if workers < 1 {
		workers = 1
	}
	cl.workers = workers
}

// SetShouldCompute installs an external periodicity policy: Compute asks
// it whether an un-forced rebuild is due at the given timestep. Without
// one, the cell list rebuilds once per distinct timestep.
func (cl *CellList) SetShouldCompute(f func(timestep uint64) bool) {
	cl.shouldCompute = f
}

// Dim returns the number of cells along each axis.
func (cl *CellList) Dim() [3]int { return cl.dim }

// Width returns the realized cell width along each axis.
func (cl *CellList) Width() [3]float32 { return cl.width }

// Nmax returns the current bucket capacity.
func (cl *CellList) Nmax() int { return cl.nmax }

// CellIndexer maps (x, y, z) cell coordinates to flat cell ids.
func (cl *CellList) CellIndexer() geom.Index3D { return cl.cellIndexer }

// CellListIndexer maps (slot, cell) to offsets in XYZF and TDB.
func (cl *CellList) CellListIndexer() geom.Index2D {
	return cl.cellListIndexer
}

// CellAdjIndexer maps (neighbor, cell) to offsets in Adj.
func (cl *CellList) CellAdjIndexer() geom.Index2D { return cl.cellAdjIndexer }

// Size returns the per-cell occupancy counts from the last rebuild. After
// an OverflowError the counts are still the true occupancies, which is
// how callers learn the capacity they need.
func (cl *CellList) Size() []uint32 { return cl.size }

// XYZF returns the bucket array: one {x, y, z, flag} record per occupied
// slot, addressed through CellListIndexer. Like all views, it is valid
// only until the next Compute or parameter change.
func (cl *CellList) XYZF() [][4]float32 { return cl.xyzf }

// TDB returns the secondary bucket array holding {type, diameter, body}
// records, or nil if SetComputeTDB is off. Type and body are encoded with
// geom.IndexToFlag.
func (cl *CellList) TDB() [][4]float32 { return cl.tdb }

// Adj returns the flattened adjacency table: for each cell, a sorted run
// of the (2*radius+1)^3 neighboring cell ids under periodic wraparound,
// addressed through CellAdjIndexer. Degenerate grids legitimately repeat
// entries, so consumers must deduplicate while building pair lists.
func (cl *CellList) Adj() []int { return cl.adj }

// computeDimensions returns the cell dimensions matching the current box,
// nominal width, and cell count cap.
func (cl *CellList) computeDimensions() [3]int {
	box := cl.store.Box()

	var dim [3]int
	dim[0] = int(box.Extent(0) / cl.nominalWidth)
	dim[1] = int(box.Extent(1) / cl.nominalWidth)

	if box.Dims == 2 {
		// 2D boxes keep a fixed three-slice thickness on z so that a
		// radius-1 stencil wraps onto real cells.
		dim[2] = 3

		if dim[0]*dim[1]*dim[2] > cl.maxCells {
			scale := math.Sqrt(
				float64(cl.maxCells) / float64(dim[0]*dim[1]*dim[2]),
			)
			dim[0] = int(float64(dim[0]) * scale)
			dim[1] = int(float64(dim[1]) * scale)
		}
	} else {
		dim[2] = int(box.Extent(2) / cl.nominalWidth)

		if dim[0]*dim[1]*dim[2] > cl.maxCells {
			scale := math.Cbrt(
				float64(cl.maxCells) / float64(dim[0]*dim[1]*dim[2]),
			)
			dim[0] = int(float64(dim[0]) * scale)
			dim[1] = int(float64(dim[1]) * scale)
			dim[2] = int(float64(dim[2]) * scale)
		}
	}

	for axis := 0; axis < 3; axis++ {
		if dim[axis] < 1 {
			dim[axis] = 1
		}
	}

	return dim
}

// Compute brings the cell list up to date for the given timestep. It
// consumes the pending change flags, reinitializes whatever geometry or
// storage they invalidated, and rebuilds the buckets if anything changed
// or the periodicity policy says a rebuild is due.
//
// The returned error is one of *InvalidPositionError, *OutOfBoundsError,
// or *OverflowError. After an error the published views are stale and
// must not be consumed.
func (cl *CellList) Compute(timestep uint64) error {
	force := false

	if cl.paramsChanged {
		// Any parameter change invalidates the whole layout.
		cl.initializeAll()
		cl.paramsChanged = false
		force = true
	}

	if cl.boxChanged {
		if cl.computeDimensions() == cl.dim {
			// Cell count is unchanged: only the widths moved.
			cl.initializeWidth()
		} else {
			cl.initializeAll()
		}
		cl.boxChanged = false
		force = true
	}

	if cl.sorted {
		// Reordered particles just need a forced rebuild to refresh the
		// indices stored in the flag slots.
		cl.sorted = false
		force = true
	}

	if force || cl.needsCompute(timestep) {
		if err := cl.computeCellList(); err != nil {
			return err
		}
		cl.lastComputed = timestep
		cl.computedOnce = true
	}

	return nil
}

func (cl *CellList) needsCompute(timestep uint64) bool {
	if cl.shouldCompute != nil {
		return cl.shouldCompute(timestep)
	}
	return !cl.computedOnce || timestep != cl.lastComputed
}

func (cl *CellList) initializeAll() {
	cl.initializeWidth()
	cl.initializeMemory()
}

// initializeWidth recomputes the cell dimensions and widths from the
// current box. It is cheap and must run on every box change.
func (cl *CellList) initializeWidth() {
	cl.dim = cl.computeDimensions()

	box := cl.store.Box()
	for axis := 0; axis < 3; axis++ {
		cl.width[axis] = box.Extent(axis) / float32(cl.dim[axis])
	}
}

// initializeMemory reallocates the bucket storage for the current
// dimensions, re-estimates the bucket capacity, and rebuilds the
// adjacency table. Every previously published view is invalidated.
func (cl *CellList) initializeMemory() {
	cells := cl.dim[0] * cl.dim[1] * cl.dim[2]

	// Estimate Nmax from the mean density with 10% slack, rounded up to
	// the next multiple of 32 so that local fluctuations rarely force a
	// reallocation.
	estimate := int(math.Ceil(float64(cl.store.N()) * 1.1 / float64(cells)))
	cl.nmax = estimate + 32 - (estimate & 31)
	if floor := (cl.minNmax + 31) &^ 31; cl.nmax < floor {
		cl.nmax = floor
	}

	cl.cellIndexer = geom.Index3D{W: cl.dim[0], H: cl.dim[1], D: cl.dim[2]}
	cl.cellListIndexer = geom.Index2D{W: cl.nmax, H: cells}
	span := 2*cl.radius + 1
	cl.cellAdjIndexer = geom.Index2D{W: span * span * span, H: cells}

	cl.size = make([]uint32, cells)
	cl.xyzf = make([][4]float32, cl.cellListIndexer.NumElements())
	if cl.computeTDB {
		cl.tdb = make([][4]float32, cl.cellListIndexer.NumElements())
	} else {
		cl.tdb = nil
	}
	cl.adj = make([]int, cl.cellAdjIndexer.NumElements())

	cl.initializeCellAdj()
}

// computeCellList rebuilds the bucket contents from the current particle
// positions. NaN positions and out-of-box particles abort immediately;
// overflowing a bucket lets the sweep finish so the occupancy counters
// hold the true per-cell counts before the error is reported.
func (cl *CellList) computeCellList() error {
	arrays := cl.store.AcquireReadOnly()
	defer cl.store.Release()

	for i := range cl.size {
		cl.size[i] = 0
	}

	var err error
	if cl.workers > 1 {
		err = cl.fillParallel(&arrays)
	} else {
		err = cl.fillSerial(&arrays)
	}
	return err
}

func (cl *CellList) fillSerial(arrays *particle.Arrays) error {
	box := cl.store.Box()
	scale := [3]float32{
		1 / cl.width[0], 1 / cl.width[1], 1 / cl.width[2],
	}

	ci, cli := cl.cellIndexer, cl.cellListIndexer
	cells := ci.NumElements()
	overflowed := false

	for n := 0; n < arrays.N; n++ {
		pos := &arrays.X[n]
		if pos.IsNaN() {
			return &InvalidPositionError{n, *pos}
		}

		ib, jb, kb := cl.binCoords(pos, &box, &scale)
		if !cl.inGrid(ib, jb, kb) {
			return &OutOfBoundsError{n, ci.Idx(ib, jb, kb), cells}
		}
		bin := ci.Idx(ib, jb, kb)

		offset := int(cl.size[bin])
		if offset < cl.nmax {
			cl.writeSlot(cli.Idx(offset, bin), n, pos, arrays)
		} else {
			overflowed = true
		}
		cl.size[bin]++
	}

	if overflowed {
		return &OverflowError{cl.nmax, int(maxUint32(cl.size))}
	}
	return nil
}

// binCoords maps a position to its cell coordinates. Binning is
// closed-open on each axis, with one deliberate exception: a particle
// sitting exactly at the upper bound wraps to cell 0 rather than to an
// out-of-range cell, since floating point can put a periodically wrapped
// coordinate exactly at Hi.
func (cl *CellList) binCoords(
	pos *geom.Vec, box *geom.Box, scale *[3]float32,
) (ib, jb, kb int) {
	ib = int(math.Floor(float64((pos[0] - box.Lo[0]) * scale[0])))
	jb = int(math.Floor(float64((pos[1] - box.Lo[1]) * scale[1])))
	kb = int(math.Floor(float64((pos[2] - box.Lo[2]) * scale[2])))

	if ib == cl.dim[0] {
		ib = 0
	}
	if jb == cl.dim[1] {
		jb = 0
	}
	if kb == cl.dim[2] {
		kb = 0
	}
	return ib, jb, kb
}

// inGrid checks each bin coordinate against its axis range. The check
// must be per-axis: a negative coordinate can otherwise flatten into a
// flat id that happens to belong to a different, valid cell.
func (cl *CellList) inGrid(ib, jb, kb int) bool {
	return ib >= 0 && ib < cl.dim[0] &&
		jb >= 0 && jb < cl.dim[1] &&
		kb >= 0 && kb < cl.dim[2]
}

// writeSlot stores the records for particle n into an already-claimed
// bucket slot.
func (cl *CellList) writeSlot(
	slot, n int, pos *geom.Vec, arrays *particle.Arrays,
) {
	var flag float32
	if cl.flagCharge {
		flag = arrays.Charge[n]
	} else {
		flag = geom.IndexToFlag(n)
	}

	cl.xyzf[slot] = [4]float32{pos[0], pos[1], pos[2], flag}
	if cl.computeTDB {
		cl.tdb[slot] = [4]float32{
			geom.IndexToFlag(int(arrays.Type[n])),
			arrays.Diameter[n],
			geom.IndexToFlag(int(arrays.Body[n])),
			0,
		}
	}
}

func maxUint32(xs []uint32) uint32 {
	max := uint32(0)
	for _, x := range xs {
		if x > max {
			max = x
		}
	}
	return max
}
