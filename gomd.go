/*package gomd ties the particle store and the cell list together into a
runnable driver: it seeds or loads a particle configuration, random-walks
it through a periodic box, and keeps the cell list current every step.
Consumers that want the cell list inside their own stepping loop should
use the cell package directly; Sim is the reference wiring.*/
package gomd

import (
	"errors"
	"log"
	"math/rand"
	"runtime"
	"time"

	"github.com/phil-mansfield/gomd/cell"
	"github.com/phil-mansfield/gomd/geom"
	"github.com/phil-mansfield/gomd/io"
	"github.com/phil-mansfield/gomd/particle"
)

type Sim struct {
	Store *particle.Store
	List  *cell.CellList

	step     uint64
	stepSize float32
	gen      *rand.Rand

	logFlag bool
	ms      runtime.MemStats
}

// NewSim builds a Sim from a configuration: box, particle source, and a
// fully configured cell list.
func NewSim(con *io.Config) (*Sim, error) {
	box := geom.NewBox(float32(con.Box.Width), con.Box.Dimensions)

	seed := con.Particles.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen := rand.New(rand.NewSource(seed))

	var store *particle.Store
	var err error
	switch {
	case con.Particles.Snapshot != "":
		store, err = particle.ReadSnapshot(con.Particles.Snapshot)
	case con.Particles.File != "":
		store, err = particle.ReadText(
			con.Particles.File, con.Particles.FileHasCharge, box,
		)
	default:
		store, err = randomStore(con.Particles.Count, box, gen)
	}
	if err != nil {
		return nil, err
	}

	cl := cell.New(store)
	cl.SetNominalWidth(float32(con.CellList.NominalWidth))
	cl.SetRadius(con.CellList.Radius)
	if con.CellList.MaxCells > 0 {
		cl.SetMaxCells(con.CellList.MaxCells)
	}
	cl.SetComputeTDB(con.CellList.ComputeTDB)
	cl.SetFlagCharge(con.CellList.FlagCharge)
	if con.CellList.Workers > 0 {
		cl.SetWorkers(con.CellList.Workers)
	}

	return &Sim{
		Store: store, List: cl,
		stepSize: float32(con.Run.StepSize), gen: gen,
	}, nil
}

// randomStore creates a Store with n particles placed uniformly at
// random in the box. 2D boxes leave z at the lower bound.
func randomStore(n int, box geom.Box, gen *rand.Rand) (*particle.Store, error) {
	store, err := particle.NewStore(n, box)
	if err != nil {
		return nil, err
	}

	xs := store.X()
	for i := range xs {
		for axis := 0; axis < box.Dims; axis++ {
			xs[i][axis] = box.Lo[axis] +
				float32(gen.Float64())*box.Extent(axis)
		}
	}

	return store, nil
}

// Log turns per-step occupancy logging on or off.
func (sim *Sim) Log(flag bool) { sim.logFlag = flag }

// StepCount returns the number of steps taken so far.
func (sim *Sim) StepCount() uint64 { return sim.step }

// Step random-walks every particle, wraps the results back into the box,
// and recomputes the cell list. A bucket overflow is recovered by raising
// the capacity to the occupancy the failed sweep measured and computing
// again.
func (sim *Sim) Step() error {
	box := sim.Store.Box()
	xs := sim.Store.X()
	for i := range xs {
		for axis := 0; axis < box.Dims; axis++ {
			xs[i][axis] += sim.stepSize * float32(2*sim.gen.Float64()-1)
		}
		box.Wrap(&xs[i])
	}

	sim.step++
	err := sim.List.Compute(sim.step)

	var overflow *cell.OverflowError
	if errors.As(err, &overflow) {
		sim.List.SetMinNmax(overflow.MaxOccupancy)
		err = sim.List.Compute(sim.step)
	}
	return err
}

// Run advances the simulation the given number of steps.
func (sim *Sim) Run(steps int) error {
	for i := 0; i < steps; i++ {
		if err := sim.Step(); err != nil {
			return err
		}

		if sim.logFlag {
			occ := sim.List.Occupancy()
			dim := sim.List.Dim()
			log.Printf(
				"step %4d: dim (%d, %d, %d), Nmax %d, "+
					"occupancy mean %.2f std %.2f max %d",
				sim.step, dim[0], dim[1], dim[2], sim.List.Nmax(),
				occ.Mean, occ.Std, occ.Max,
			)
		}
	}

	if sim.logFlag {
		runtime.ReadMemStats(&sim.ms)
		log.Printf(
			"Alloc: %5d MB, Sys: %5d MB",
			sim.ms.Alloc>>20, sim.ms.Sys>>20,
		)
	}
	return nil
}
