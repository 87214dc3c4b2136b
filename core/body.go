package core

import "github.com/lixenwraith/planets/vmath"

// MassPoint is anything that can attract or be attracted: a Body or the pointer
type MassPoint interface {
	PointMass() float64
	PointPosition() (x, y float64)
}

// Point is a bare mass at a position, used for the pointer attractor
type Point struct {
	Mass float64
	X, Y float64
}

func (p Point) PointMass() float64            { return p.Mass }
func (p Point) PointPosition() (x, y float64) { return p.X, p.Y }

// Body is a simulated particle
// ID and Radius are fixed at creation; Alive only ever goes from true to false
type Body struct {
	ID   uint64
	Mass float64
	X, Y float64

	// Velocity is the net motion, advanced once per frame
	Velocity vmath.Vector
	// Acceleration accumulates pointer attraction between frames, frame advancement never reads it
	Acceleration vmath.Vector

	Radius float64
	Color  RGB

	Alive bool
	// Participates is false for anchor bodies: never advanced, still attracting
	Participates bool
}

func (b *Body) PointMass() float64            { return b.Mass }
func (b *Body) PointPosition() (x, y float64) { return b.X, b.Y }

// Position returns the current field coordinates
func (b *Body) Position() (x, y float64) {
	return b.X, b.Y
}

// Point returns the body as a bare mass point
func (b *Body) Point() Point {
	return Point{Mass: b.Mass, X: b.X, Y: b.Y}
}

// Kill flips Alive off, reports whether this call caused the transition
func (b *Body) Kill() bool {
	if !b.Alive {
		return false
	}
	b.Alive = false
	return true
}

// Renderable is the read-only projection consumed by renderers
type Renderable struct {
	ID     uint64
	X, Y   float64
	Radius float64
	Color  RGB
	Alive  bool
}

// Renderable projects the body for display
func (b *Body) Renderable() Renderable {
	return Renderable{ID: b.ID, X: b.X, Y: b.Y, Radius: b.Radius, Color: b.Color, Alive: b.Alive}
}
