package parameter

import "time"

// Gravitational field
const (
	// Gravity is the gravitational constant applied to every attractor pair
	Gravity = 6.67e-11

	// MaxMass is the upper bound of a body's mass, masses live in (0, MaxMass]
	MaxMass = 1e10

	// TimeStep is the integration step per frame, one frame is one unit of time
	TimeStep = 1.0
)

// Body generation
const (
	// PopulationSize is the number of bodies spawned at start
	PopulationSize = 150

	// SpawnSpread is the maximum offset from the field centre on each axis
	SpawnSpread = 355.0

	// RadiusBase is the smallest visual radius, reached as mass approaches zero
	RadiusBase = 5.0

	// RadiusMassScale is the radius added by a body of MaxMass
	RadiusMassScale = 10.0
)

// Pointer attractor
const (
	// PointerMass is the mass of the virtual attractor following the pointer
	PointerMass = 1e5

	// PointerEventsPerSecond caps how often pointer motion is applied
	PointerEventsPerSecond = 120
)

// Anchor body defaults, used when the anchor is enabled without explicit values
const (
	AnchorMass   = MaxMass
	AnchorRadius = 50.0
	AnchorX      = 700.0
	AnchorY      = 300.0
)

// Display
const (
	// FrameRate is the default number of frames advanced per second
	FrameRate = 60

	// CellWidth and CellHeight are field units covered by one terminal cell
	CellWidth  = 8.0
	CellHeight = 16.0

	// LogStatsEvery is the frame interval between stats log lines
	LogStatsEvery = 600

	// DeathSoundDuration is the length of the crackle played when a body dies
	DeathSoundDuration = 250 * time.Millisecond
)

// Radius returns the visual radius for mass: RadiusBase + mass/MaxMass·RadiusMassScale
func Radius(mass float64) float64 {
	return RadiusBase + mass/MaxMass*RadiusMassScale
}
