/*package particle contains the particle store that the cell list and other
computes read from: structure-of-arrays particle data, the simulation box,
and the change signals that let computes invalidate themselves lazily.*/
package particle

import (
	"fmt"
	"sync"

	"github.com/phil-mansfield/gomd/geom"
)

// Store owns the particle arrays for one simulation. Positions are
// required; the scalar fields are allocated up front so that computes can
// rely on them existing. All arrays have the same length.
//
// Computes which read the arrays during a pass should bracket the pass
// with AcquireReadOnly and Release so that a concurrent structural change
// (Resize, SetBox) cannot land in the middle of it.
type Store struct {
	n   int
	box geom.Box

	x        []geom.Vec
	charge   []float32
	diameter []float32
	typ      []uint32
	body     []uint32

	mu sync.RWMutex

	sortSigs signalSet
	boxSigs  signalSet
}

// Arrays is a read-only view of the particle data handed out by
// AcquireReadOnly. The slices alias the Store's storage and are only
// valid until Release is called.
type Arrays struct {
	N        int
	X        []geom.Vec
	Charge   []float32
	Diameter []float32
	Type     []uint32
	Body     []uint32
}

// NewStore creates a Store holding n particles inside the given box. All
// fields are zeroed.
func NewStore(n int, box geom.Box) (*Store, error) {
	if n < 0 {
		return nil, fmt.Errorf("Cannot create a Store with %d particles.", n)
	}
	if err := box.CheckInit(); err != nil {
		return nil, err
	}

	s := &Store{n: n, box: box}
	s.allocate(n)
	return s, nil
}

func (s *Store) allocate(n int) {
	s.x = make([]geom.Vec, n)
	s.charge = make([]float32, n)
	s.diameter = make([]float32, n)
	s.typ = make([]uint32, n)
	s.body = make([]uint32, n)
}

// N returns the number of particles in the Store.
func (s *Store) N() int { return s.n }

// Box returns the current simulation box.
func (s *Store) Box() geom.Box { return s.box }

// X returns the position array. Single-threaded drivers may mutate
// positions through it between computes; anything running concurrently
// with a compute must go through AcquireReadOnly instead.
func (s *Store) X() []geom.Vec { return s.x }

// Charge returns the per-particle charge array.
func (s *Store) Charge() []float32 { return s.charge }

// Diameter returns the per-particle diameter array.
func (s *Store) Diameter() []float32 { return s.diameter }

// Type returns the per-particle type index array.
func (s *Store) Type() []uint32 { return s.typ }

// Body returns the per-particle rigid body id array.
func (s *Store) Body() []uint32 { return s.body }

// AcquireReadOnly locks the Store against structural change and returns a
// view of the particle arrays. Every call must be paired with a Release.
// Multiple readers may hold the Store at once.
func (s *Store) AcquireReadOnly() Arrays {
	s.mu.RLock()
	return Arrays{
		N: s.n, X: s.x,
		Charge: s.charge, Diameter: s.diameter,
		Type: s.typ, Body: s.body,
	}
}

// Release unlocks the Store after a read pass. The Arrays view handed out
// by the matching AcquireReadOnly must not be used afterwards.
func (s *Store) Release() {
	s.mu.RUnlock()
}

// SetBox replaces the simulation box and fires the box-change signal.
// Particle positions are not rescaled or wrapped.
func (s *Store) SetBox(box geom.Box) error {
	if err := box.CheckInit(); err != nil {
		return err
	}

	s.mu.Lock()
	s.box = box
	s.mu.Unlock()

	s.boxSigs.emit()
	return nil
}

// NotifySort tells connected computes that the particle arrays have been
// reordered. Anything caching particle indices must rebuild on its next
// compute.
func (s *Store) NotifySort() {
	s.sortSigs.emit()
}

// Resize changes the number of particles in the Store. Old data is kept
// up to min(n, old n). A sort notification is fired, since indices past
// the resize point are no longer meaningful.
func (s *Store) Resize(n int) error {
	if n < 0 {
		return fmt.Errorf("Cannot resize a Store to %d particles.", n)
	}

	s.mu.Lock()
	oldX, oldCharge, oldDiameter := s.x, s.charge, s.diameter
	oldType, oldBody := s.typ, s.body
	s.allocate(n)
	copy(s.x, oldX)
	copy(s.charge, oldCharge)
	copy(s.diameter, oldDiameter)
	copy(s.typ, oldType)
	copy(s.body, oldBody)
	s.n = n
	s.mu.Unlock()

	s.sortSigs.emit()
	return nil
}

// ConnectSort registers a handler that is called whenever the particle
// arrays are reordered. Handlers should only set flags: recomputation
// belongs in the next compute call, not in the notification.
func (s *Store) ConnectSort(f func()) Connection {
	return s.sortSigs.connect(f)
}

// ConnectBoxChange registers a handler that is called whenever the
// simulation box changes.
func (s *Store) ConnectBoxChange(f func()) Connection {
	return s.boxSigs.connect(f)
}
