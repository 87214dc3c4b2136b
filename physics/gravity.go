package physics

import (
	"github.com/lixenwraith/planets/core"
	"github.com/lixenwraith/planets/parameter"
	"github.com/lixenwraith/planets/vmath"
)

// GravitationalForce returns G·ma·mb/d between two mass points
// Coincident points return 0 instead of an infinite force
func GravitationalForce(a, b core.MassPoint) float64 {
	ax, ay := a.PointPosition()
	bx, by := b.PointPosition()
	d := vmath.Distance(ax, ay, bx, by)
	if d == 0 {
		return 0
	}
	return parameter.Gravity * a.PointMass() * b.PointMass() / d
}

// Direction returns the angle from a toward b
func Direction(a, b core.MassPoint) float64 {
	ax, ay := a.PointPosition()
	bx, by := b.PointPosition()
	return vmath.Angle(ax, ay, bx, by)
}

// AccelerationOn returns the acceleration b imposes on a, oriented toward b
// Zero vector when the points coincide or a has no mass
func AccelerationOn(a, b core.MassPoint) vmath.Vector {
	ma := a.PointMass()
	if ma <= 0 {
		return vmath.Vector{}
	}
	f := GravitationalForce(a, b)
	if f == 0 {
		return vmath.Vector{}
	}
	return vmath.NewVector(f/ma, Direction(a, b))
}
