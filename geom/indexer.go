/*package geom provides the leaf geometry utilities used by the cell list:
flat indexers over 2D and 3D storage, position vectors, and the periodic
simulation box.*/
package geom

// Index2D maps a 2D coordinate onto an offset into flat storage. The w
// coordinate varies fastest. The main use for this is addressing the
// (slot, cell) bucket arrays of the cell list.
type Index2D struct {
	W, H int
}

// Idx returns the flat offset corresponding to (w, h).
func (idx Index2D) Idx(w, h int) int {
	return w + h*idx.W
}

// NumElements returns the length of the flat storage addressed by idx.
func (idx Index2D) NumElements() int {
	return idx.W * idx.H
}

// Index3D maps a 3D cell coordinate onto an offset into flat storage. The
// x coordinate varies fastest, then y, then z.
type Index3D struct {
	W, H, D int
}

// Idx returns the flat offset corresponding to (x, y, z).
func (idx Index3D) Idx(x, y, z int) int {
	return x + y*idx.W + z*idx.W*idx.H
}

// NumElements returns the length of the flat storage addressed by idx.
func (idx Index3D) NumElements() int {
	return idx.W * idx.H * idx.D
}

// Coords returns the x, y, z coordinates of a cell from its flat offset.
func (idx Index3D) Coords(i int) (x, y, z int) {
	x = i % idx.W
	y = (i % (idx.W * idx.H)) / idx.W
	z = i / (idx.W * idx.H)
	return x, y, z
}

// PMod computes the positive modulo x % y, which is needed when wrapping
// neighbor coordinates across periodic boundaries. Go's native % truncates
// toward zero, so it hands back negative values for negative x.
func PMod(x, y int) int {
	m := x % y
	if m < 0 {
		m += y
	}
	return m
}
