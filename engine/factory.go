package engine

import (
	"math"

	"github.com/pkg/errors"

	"github.com/lixenwraith/planets/core"
	"github.com/lixenwraith/planets/parameter"
	"github.com/lixenwraith/planets/vmath"
)

// BodySpec describes a body with explicit attributes
// Zero Radius derives it from mass, zero Color picks a random one
type BodySpec struct {
	Mass     float64
	X, Y     float64
	Radius   float64
	Velocity vmath.Vector
	Color    core.RGB
	// Static bodies attract but are never advanced
	Static bool
}

// Factory creates bodies and owns the id sequence for one simulation
// Not safe for concurrent use
type Factory struct {
	rng    core.FloatSource
	nextID uint64
}

// NewFactory creates a factory drawing from rng, ids start at 0
func NewFactory(rng core.FloatSource) *Factory {
	return &Factory{rng: rng}
}

// NextID reserves the next body id
func (f *Factory) NextID() uint64 {
	id := f.nextID
	f.nextID++
	return id
}

// New builds a body from spec, rejecting mass outside (0, MaxMass]
func (f *Factory) New(spec BodySpec) (core.Body, error) {
	if !(spec.Mass > 0) || spec.Mass > parameter.MaxMass {
		return core.Body{}, errors.Wrapf(ErrInvalidMass, "mass %v not in (0, %v]", spec.Mass, parameter.MaxMass)
	}

	radius := spec.Radius
	if radius <= 0 {
		radius = parameter.Radius(spec.Mass)
	}
	color := spec.Color
	if color == (core.RGB{}) {
		color = core.RandomRGB(f.rng)
	}

	return core.Body{
		ID:           f.NextID(),
		Mass:         spec.Mass,
		X:            spec.X,
		Y:            spec.Y,
		Velocity:     spec.Velocity,
		Radius:       radius,
		Color:        color,
		Alive:        true,
		Participates: !spec.Static,
	}, nil
}

// Spawn generates a random body around the centre of a width x height field
func (f *Factory) Spawn(width, height float64) core.Body {
	mass := f.mass()
	return core.Body{
		ID:           f.NextID(),
		Mass:         mass,
		X:            f.position(width),
		Y:            f.position(height),
		Velocity:     vmath.NewVector(f.rng.Float64(), f.rng.Float64()*math.Pi),
		Radius:       parameter.Radius(mass),
		Color:        core.RandomRGB(f.rng),
		Alive:        true,
		Participates: true,
	}
}

// CreatePopulation spawns count random bodies, preceded by the configured anchor if any
func (f *Factory) CreatePopulation(count int, width, height float64, cfg Config) ([]core.Body, error) {
	if count < 0 {
		return nil, errors.Wrapf(ErrInvalidPopulation, "count %d", count)
	}
	if err := validateField(width, height); err != nil {
		return nil, err
	}

	bodies := make([]core.Body, 0, count+1)
	if cfg.Anchor != nil {
		anchor, err := f.New(*cfg.Anchor)
		if err != nil {
			return nil, errors.Wrap(err, "anchor")
		}
		bodies = append(bodies, anchor)
	}
	for i := 0; i < count; i++ {
		bodies = append(bodies, f.Spawn(width, height))
	}
	return bodies, nil
}

// mass draws from (0, MaxMass), redrawing the zero case
func (f *Factory) mass() float64 {
	for {
		if m := f.rng.Float64() * parameter.MaxMass; m > 0 {
			return m
		}
	}
}

// position returns extent/2 ± rand·SpawnSpread
func (f *Factory) position(extent float64) float64 {
	return extent/2 + f.rng.Float64()*parameter.SpawnSpread*f.sign()
}

func (f *Factory) sign() float64 {
	if f.rng.Float64()-0.5 > 0 {
		return 1
	}
	return -1
}
