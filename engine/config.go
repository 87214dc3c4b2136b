package engine

import (
	"math"

	"github.com/pkg/errors"

	"github.com/lixenwraith/planets/parameter"
	"github.com/lixenwraith/planets/physics"
)

// Config carries the per-run simulation switches
type Config struct {
	WrapOutOfBounds bool
	KillOutOfBounds bool

	// TimeStep is dt in v' = v ⊕ a·dt, one frame is one unit by default
	TimeStep float64

	// Anchor, when set, is prepended to the population as a static attractor
	Anchor *BodySpec
}

// DefaultConfig mirrors the stock field: wrap on, kill off, unit step
func DefaultConfig() Config {
	return Config{
		WrapOutOfBounds: true,
		KillOutOfBounds: false,
		TimeStep:        parameter.TimeStep,
	}
}

// Boundary returns the boundary policy for these switches
func (c Config) Boundary() physics.Boundary {
	return physics.Boundary{Wrap: c.WrapOutOfBounds, Kill: c.KillOutOfBounds}
}

func (c Config) validate() error {
	if c.TimeStep <= 0 || math.IsInf(c.TimeStep, 0) || math.IsNaN(c.TimeStep) {
		return errors.Wrapf(ErrInvalidTimeStep, "time step %v", c.TimeStep)
	}
	return nil
}

func validateField(width, height float64) error {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return errors.Wrapf(ErrInvalidField, "field %vx%v", width, height)
	}
	return nil
}
