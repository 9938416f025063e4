package cell

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjStencilSortedAndComplete(t *testing.T) {
	// dim = 5 on every axis, so a radius-1 stencil never wraps onto
	// itself and every row holds 27 distinct cells.
	s := testStore(t, 10, 10, 3)
	scatter(s, 11)

	cl := New(s)
	defer cl.Destroy()
	cl.SetNominalWidth(2)

	assert.NoError(t, cl.Compute(0))
	assert.Equal(t, [3]int{5, 5, 5}, cl.Dim())

	ci, cai := cl.CellIndexer(), cl.CellAdjIndexer()
	assert.Equal(t, 27, cai.W)

	for c := 0; c < ci.NumElements(); c++ {
		row := cl.Adj()[cai.Idx(0, c):cai.Idx(0, c+1)]
		assert.True(t, sort.IntsAreSorted(row), "cell %d row unsorted", c)

		seen := map[int]bool{}
		for _, neigh := range row {
			assert.GreaterOrEqual(t, neigh, 0)
			assert.Less(t, neigh, ci.NumElements())
			seen[neigh] = true
		}
		assert.Len(t, seen, 27, "cell %d", c)
		assert.True(t, seen[c], "cell %d missing from its own stencil", c)
	}
}

func TestAdjDegenerateGridKeepsDuplicates(t *testing.T) {
	// dim = 2 < 2*radius + 1, so the stencil wraps onto cells it has
	// already visited. Rows still hold 27 entries, but only 8 distinct
	// cells exist, and every row must cover all of them.
	s := testStore(t, 10, 10, 3)
	scatter(s, 12)

	cl := New(s)
	defer cl.Destroy()
	cl.SetNominalWidth(5)

	assert.NoError(t, cl.Compute(0))
	assert.Equal(t, [3]int{2, 2, 2}, cl.Dim())

	ci, cai := cl.CellIndexer(), cl.CellAdjIndexer()
	assert.Equal(t, 27, cai.W)

	for c := 0; c < ci.NumElements(); c++ {
		row := cl.Adj()[cai.Idx(0, c):cai.Idx(0, c+1)]

		seen := map[int]bool{}
		for _, neigh := range row {
			seen[neigh] = true
		}
		assert.Len(t, seen, 8, "cell %d", c)
	}
}

func TestAdjRadiusTwo(t *testing.T) {
	s := testStore(t, 10, 14, 3)
	scatter(s, 13)

	cl := New(s)
	defer cl.Destroy()
	cl.SetNominalWidth(2)
	cl.SetRadius(2)

	assert.NoError(t, cl.Compute(0))
	assert.Equal(t, [3]int{7, 7, 7}, cl.Dim())

	ci, cai := cl.CellIndexer(), cl.CellAdjIndexer()
	assert.Equal(t, 125, cai.W)

	row := cl.Adj()[cai.Idx(0, 0):cai.Idx(0, 1)]
	seen := map[int]bool{}
	for _, neigh := range row {
		assert.GreaterOrEqual(t, neigh, 0)
		assert.Less(t, neigh, ci.NumElements())
		seen[neigh] = true
	}
	assert.Len(t, seen, 125)
}
