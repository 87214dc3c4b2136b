package physics

import "github.com/lixenwraith/planets/vmath"

// Integrate performs one step: v' = v ⊕ a·dt, p' = p + v'·dt
// Returns the new velocity and the proposed position before boundary handling
func Integrate(x, y float64, vel, accel vmath.Vector, dt float64) (nx, ny float64, nv vmath.Vector) {
	nv = vel.Compose(accel.Scale(dt))
	step := nv.Scale(dt)
	return x + step.X(), y + step.Y(), nv
}

// ApplyImpulse composes an acceleration into an accumulator
func ApplyImpulse(acc *vmath.Vector, impulse vmath.Vector) {
	*acc = acc.Compose(impulse)
}
