package cell

import (
	"sort"

	"github.com/phil-mansfield/gomd/geom"
)

/* adj.go builds the cell adjacency table. This is an
O(cells * (2r+1)^3) cost paid once per structural change and amortized
over every bucket rebuild that follows. */

// initializeCellAdj enumerates, for every cell, the cells within radius
// of it under periodic wraparound and stores their ids in ascending
// order. Duplicates are kept: on a grid with dim <= 2*radius+1 along some
// axis the stencil revisits cells, and the table reports exactly what the
// stencil sees.
func (cl *CellList) initializeCellAdj() {
	ci, cai := cl.cellIndexer, cl.cellAdjIndexer
	r := cl.radius
	mx, my, mz := cl.dim[0], cl.dim[1], cl.dim[2]

	for k := 0; k < mz; k++ {
		for j := 0; j < my; j++ {
			for i := 0; i < mx; i++ {
				curCell := ci.Idx(i, j, k)
				offset := 0

				for nk := k - r; nk <= k+r; nk++ {
					for nj := j - r; nj <= j+r; nj++ {
						for ni := i - r; ni <= i+r; ni++ {
							neighCell := ci.Idx(
								geom.PMod(ni, mx),
								geom.PMod(nj, my),
								geom.PMod(nk, mz),
							)
							cl.adj[cai.Idx(offset, curCell)] = neighCell
							offset++
						}
					}
				}

				// Sorted runs let consumers deduplicate with a single
				// linear scan.
				start := cai.Idx(0, curCell)
				sort.Ints(cl.adj[start : start+offset])
			}
		}
	}
}
