/* plot_occupancy builds a cell list over a particle snapshot and plots
the distribution of per-cell occupancies. Useful for checking how much
headroom Nmax leaves for a given configuration and cell width. */
package main

import (
	"flag"
	"fmt"
	"log"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/phil-mansfield/gomd/cell"
	"github.com/phil-mansfield/gomd/particle"
)

func main() {
	var (
		snapshot, out string
		nominalWidth  float64
	)

	flag.StringVar(&snapshot, "Snapshot", "", "Snapshot file to analyze.")
	flag.StringVar(&out, "Out", "occupancy.png", "Output image file.")
	flag.Float64Var(
		&nominalWidth, "NominalWidth", 1.0, "Target cell width.",
	)
	flag.Parse()

	if snapshot == "" {
		log.Fatal("Must supply a -Snapshot file.")
	}

	store, err := particle.ReadSnapshot(snapshot)
	if err != nil {
		log.Fatal(err.Error())
	}

	cl := cell.New(store)
	defer cl.Destroy()
	cl.SetNominalWidth(float32(nominalWidth))
	if err := cl.Compute(0); err != nil {
		log.Fatal(err.Error())
	}

	counts := hist(cl.Size())
	ns := make([]float64, len(counts))
	for i := range ns {
		ns[i] = float64(i)
	}

	occ := cl.Occupancy()

	plt.Figure()
	plt.Plot(ns, counts, "k", plt.LW(2))
	plt.Title(fmt.Sprintf(
		"mean = %.2f, max = %d, Nmax = %d", occ.Mean, occ.Max, cl.Nmax(),
	))
	plt.XLabel("particles per cell", plt.FontSize(16))
	plt.YLabel("cells", plt.FontSize(16))
	plt.SaveFig(out)
	plt.Execute()
}

// hist counts how many cells hold each occupancy value.
func hist(sizes []uint32) []float64 {
	max := uint32(0)
	for _, n := range sizes {
		if n > max {
			max = n
		}
	}

	counts := make([]float64, max+1)
	for _, n := range sizes {
		counts[n]++
	}
	return counts
}
