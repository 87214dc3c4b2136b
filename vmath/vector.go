package vmath

import "math"

// Vector is a 2D quantity in polar form, Magnitude >= 0, Theta in radians
// Zero value is the zero vector with Theta 0
type Vector struct {
	Magnitude float64
	Theta     float64
}

// NewVector builds a polar vector, folding a negative magnitude into Theta
func NewVector(magnitude, theta float64) Vector {
	if magnitude < 0 {
		return Vector{Magnitude: -magnitude, Theta: theta + math.Pi}
	}
	return Vector{Magnitude: magnitude, Theta: theta}
}

// FromCartesian converts x, y components to polar form
// Zero input yields Theta 0 (atan2(0, 0))
func FromCartesian(x, y float64) Vector {
	return Vector{Magnitude: math.Hypot(x, y), Theta: math.Atan2(y, x)}
}

// X returns Magnitude·cos(Theta)
func (v Vector) X() float64 {
	return v.Magnitude * math.Cos(v.Theta)
}

// Y returns Magnitude·sin(Theta)
func (v Vector) Y() float64 {
	return v.Magnitude * math.Sin(v.Theta)
}

// Components returns both Cartesian components
func (v Vector) Components() (x, y float64) {
	return v.X(), v.Y()
}

// Compose adds two vectors through their Cartesian components and reconverts to polar
// Composing with a zero-magnitude vector returns the receiver untouched
func (v Vector) Compose(o Vector) Vector {
	if o.Magnitude == 0 {
		return v
	}
	if v.Magnitude == 0 {
		return o
	}
	return FromCartesian(v.X()+o.X(), v.Y()+o.Y())
}

// Scale multiplies the magnitude by factor, negative factors reverse direction
func (v Vector) Scale(factor float64) Vector {
	return NewVector(v.Magnitude*factor, v.Theta)
}

// IsZero reports whether the vector has no magnitude
func (v Vector) IsZero() bool {
	return v.Magnitude == 0
}

// IsFinite reports whether both components are finite
func (v Vector) IsFinite() bool {
	return !math.IsInf(v.Magnitude, 0) && !math.IsNaN(v.Magnitude) &&
		!math.IsInf(v.Theta, 0) && !math.IsNaN(v.Theta)
}

// Sum composes all vectors left to right starting from the zero vector
func Sum(vs ...Vector) Vector {
	var acc Vector
	for _, v := range vs {
		acc = acc.Compose(v)
	}
	return acc
}

// Distance returns Euclidean distance between two points
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// Angle returns the direction from (x1, y1) toward (x2, y2)
func Angle(x1, y1, x2, y2 float64) float64 {
	return math.Atan2(y2-y1, x2-x1)
}

// ApproxEqual compares two vectors by Cartesian components within eps
func ApproxEqual(a, b Vector, eps float64) bool {
	return math.Abs(a.X()-b.X()) <= eps && math.Abs(a.Y()-b.Y()) <= eps
}
