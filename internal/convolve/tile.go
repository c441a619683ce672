package convolve

import "github.com/rm-hull/convolve2d/internal/raster"

// tile is the S x S window of grayscale pixels around the pixel being
// convolved. Index i runs along x and j along y, matching kernel rows and
// columns respectively. One tile is reused for every pixel.
type tile struct {
	side  int
	slide int
	cells []raster.ARGB
}

func newTile(side int) *tile {
	t := &tile{
		side:  side,
		slide: side / 2,
		cells: make([]raster.ARGB, side*side),
	}
	// Primed with 1s before the first fill.
	for i := range t.cells {
		t.cells[i] = 1
	}
	return t
}

func (t *tile) at(i, j int) raster.ARGB {
	return t.cells[i*t.side+j]
}

func (t *tile) fill(img *raster.Image, x, y int, boundary Boundary) {
	w, h := img.Width(), img.Height()
	for i := 0; i < t.side; i++ {
		for j := 0; j < t.side; j++ {
			xa := x - t.slide + i
			ya := y - t.slide + j

			var c raster.ARGB
			switch {
			case img.In(xa, ya):
				c = img.Get(xa, ya)
			case boundary == BoundaryExtend:
				c = img.Get(clampIndex(xa, w), clampIndex(ya, h))
			case boundary == BoundaryReflect:
				c = img.Get(reflectIndex(xa, w), reflectIndex(ya, h))
			case boundary == BoundaryZero:
				c = 0
			default:
				c = img.Get(x, y)
			}
			t.cells[i*t.side+j] = c
		}
	}
}

func clampIndex(v, n int) int {
	switch {
	case v < 0:
		return 0
	case v >= n:
		return n - 1
	}
	return v
}

// reflectIndex mirrors v into [0, n) with the edge pixel repeated, so for
// n = 4: -1 -> 0, -2 -> 1, 4 -> 3, 5 -> 2. It stays in range for any v.
func reflectIndex(v, n int) int {
	period := 2 * n
	m := v % period
	if m < 0 {
		m += period
	}
	if m >= n {
		m = period - 1 - m
	}
	return m
}
