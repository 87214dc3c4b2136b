package physics

import "math"

// OutOfBounds classifies coordinate d against [0, extent]: -1 below, +1 above, 0 inside
func OutOfBounds(d, extent float64) int {
	switch {
	case d < 0:
		return -1
	case d > extent:
		return 1
	default:
		return 0
	}
}

// Boundary holds the two independent out-of-bounds switches
type Boundary struct {
	// Wrap remaps an exiting coordinate instead of leaving it in place
	Wrap bool
	// Kill excludes dead bodies from attraction and further motion
	Kill bool
}

// Remap returns the adjusted coordinate and its out-of-bounds sign
// Above the range the result is extent mod d, not d mod extent; the asymmetry is intentional
func (b Boundary) Remap(d, extent float64) (float64, int) {
	sign := OutOfBounds(d, extent)
	if !b.Wrap {
		return d, sign
	}
	switch sign {
	case -1:
		return extent + d, sign
	case 1:
		return math.Mod(extent, d), sign
	default:
		return d, sign
	}
}

// Apply remaps both axes; each axis extent is the field dimension plus radius
// so a body only leaves once its edge is fully outside. exited is true if either axis left.
func (b Boundary) Apply(x, y, width, height, radius float64) (nx, ny float64, exited bool) {
	nx, sx := b.Remap(x, width+radius)
	ny, sy := b.Remap(y, height+radius)
	return nx, ny, sx != 0 || sy != 0
}
