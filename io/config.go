/*package io reads gomd configuration files. Configuration uses the same
INI dialect as gcfg, with one section per subsystem.*/
package io

import (
	"fmt"

	"gopkg.in/gcfg.v1"
)

const (
	ExampleConfigFile = `[CellList]

#######################
# Required Parameters #
#######################

# Target cell width. Short-range consumers want this to be the interaction
# cutoff: then all neighbors within the cutoff of a particle sit in the
# cell's 3x3x3 stencil. The realized width can be larger, since cells must
# evenly tile the box.
NominalWidth = 2.5

#######################
# Optional Parameters #
#######################

# Neighbor shell half-width in cells. Default is 1 (a 3x3x3 stencil).
# Radius = 1

# Cap on the total number of cells. When NominalWidth would produce more,
# the grid is coarsened uniformly to fit under the cap. Default is no cap.
# MaxCells = 1000000

# Fill the secondary type/diameter/body bucket array. Only needed by
# consumers that read those fields. Default is false.
# ComputeTDB = false

# Store the particle charge in each slot's fourth component instead of
# the particle index. Default is false.
# FlagCharge = false

# Number of goroutines used to fill the buckets. Default is 1, which is
# also the only setting with bit-reproducible slot ordering.
# Workers = 1

[Box]

# Total width of the (cubic, periodic) simulation box.
Width = 100

# Dimensionality of the simulation. Must be 2 or 3. Default is 3.
# Dimensions = 3

[Particles]

# Exactly one of Count, File, and Snapshot must be set. Count seeds
# uniform random positions, File reads an x y z [charge] text table, and
# Snapshot reads a compressed binary snapshot.
Count = 10000
# File = path/to/particles.txt
# Snapshot = path/to/particles.gomd

# Random seed used with Count. Default is 0, which seeds from the clock.
# Seed = 42

# Set when File has a fourth charge column.
# FileHasCharge = false

[Run]

# Number of timesteps to run.
Steps = 100

# Maximum random displacement per particle per step, in box units.
# StepSize = 0.1

# Log file. Defaults to stderr.
# LogFile = log.out`
)

type CellListConfig struct {
	// Required
	NominalWidth float64

	// Optional
	Radius     int
	MaxCells   int
	ComputeTDB bool
	FlagCharge bool
	Workers    int
}

func (con *CellListConfig) ValidNominalWidth() bool {
	return con.NominalWidth > 0
}
func (con *CellListConfig) ValidRadius() bool {
	return con.Radius >= 1
}

type BoxConfig struct {
	// Required
	Width float64

	// Optional
	Dimensions int
}

func (con *BoxConfig) ValidWidth() bool {
	return con.Width > 0
}
func (con *BoxConfig) ValidDimensions() bool {
	return con.Dimensions == 2 || con.Dimensions == 3
}

type ParticlesConfig struct {
	// Exactly one of these three must be set.
	Count    int
	File     string
	Snapshot string

	// Optional
	Seed          int64
	FileHasCharge bool
}

// SourceCount returns the number of particle sources that have been
// configured. Valid configurations have exactly one.
func (con *ParticlesConfig) SourceCount() int {
	n := 0
	if con.Count > 0 {
		n++
	}
	if con.File != "" {
		n++
	}
	if con.Snapshot != "" {
		n++
	}
	return n
}

type RunConfig struct {
	// Required
	Steps int

	// Optional
	StepSize float64
	LogFile  string
}

func (con *RunConfig) ValidSteps() bool {
	return con.Steps > 0
}

type Config struct {
	CellList  CellListConfig
	Box       BoxConfig
	Particles ParticlesConfig
	Run       RunConfig
}

// DefaultConfig returns a Config with every optional parameter set to
// its default.
func DefaultConfig() *Config {
	con := &Config{}
	con.CellList.Radius = 1
	con.Box.Dimensions = 3
	con.Run.StepSize = 0.1
	return con
}

// ReadConfig reads a configuration file into a default-initialized
// Config and checks it for consistency.
func ReadConfig(fname string) (*Config, error) {
	con := DefaultConfig()
	if err := gcfg.ReadFileInto(con, fname); err != nil {
		return nil, err
	}

	if !con.CellList.ValidNominalWidth() {
		return nil, fmt.Errorf("Invalid/non-existent 'NominalWidth' value.")
	} else if !con.CellList.ValidRadius() {
		return nil, fmt.Errorf("Invalid 'Radius' value.")
	} else if !con.Box.ValidWidth() {
		return nil, fmt.Errorf("Invalid/non-existent 'Width' value.")
	} else if !con.Box.ValidDimensions() {
		return nil, fmt.Errorf("Invalid 'Dimensions' value.")
	} else if !con.Run.ValidSteps() {
		return nil, fmt.Errorf("Invalid/non-existent 'Steps' value.")
	}

	if n := con.Particles.SourceCount(); n != 1 {
		return nil, fmt.Errorf(
			"Exactly one of 'Count', 'File', and 'Snapshot' must be set "+
				"in [Particles], but %d are.", n,
		)
	}

	return con, nil
}
