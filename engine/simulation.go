package engine

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/planets/core"
	"github.com/lixenwraith/planets/parameter"
	"github.com/lixenwraith/planets/physics"
	"github.com/lixenwraith/planets/vmath"
)

// pending is the next state of one body, computed against the previous frame
type pending struct {
	x, y     float64
	velocity vmath.Vector
	exited   bool
	advance  bool
}

// AdvanceFrame advances every active, participating body by one frame in place and returns the population
// Forces are computed against the state at entry, so body order does not affect the result
func AdvanceFrame(bodies []core.Body, width, height float64, cfg Config) []core.Body {
	step(bodies, width, height, cfg, nil, nil)
	return bodies
}

// ApplyPointerAttraction composes the pull of a pointer mass into each active body's accumulator
// Velocity and position are never touched
func ApplyPointerAttraction(bodies []core.Body, x, y, mass float64, cfg Config) {
	if mass == 0 {
		return
	}
	pointer := core.Point{Mass: mass, X: x, Y: y}
	for i := range bodies {
		b := &bodies[i]
		if !isActive(b, cfg) {
			continue
		}
		physics.ApplyImpulse(&b.Acceleration, physics.AccelerationOn(b, pointer))
	}
}

// isActive reports whether a body still takes part in the simulation
// Dead bodies only drop out when the kill policy is on
func isActive(b *core.Body, cfg Config) bool {
	return b.Alive || !cfg.KillOutOfBounds
}

// gravityOn sums the acceleration every other active body imposes on bodies[i]
func gravityOn(bodies []core.Body, i int, cfg Config) vmath.Vector {
	var vg vmath.Vector
	p1 := &bodies[i]
	for j := range bodies {
		if j == i {
			continue
		}
		p2 := &bodies[j]
		if !isActive(p2, cfg) {
			continue
		}
		vg = vg.Compose(physics.AccelerationOn(p1, p2))
	}
	return vg
}

// step runs both phases and appends indices of bodies that died this frame to died
func step(bodies []core.Body, width, height float64, cfg Config, scratch []pending, died []int) ([]pending, []int) {
	if cap(scratch) < len(bodies) {
		scratch = make([]pending, len(bodies))
	}
	scratch = scratch[:len(bodies)]
	boundary := cfg.Boundary()
	dt := cfg.TimeStep
	if dt <= 0 {
		dt = parameter.TimeStep
	}

	// Phase 1: read-only against the previous frame
	for i := range bodies {
		b := &bodies[i]
		if !b.Participates || !isActive(b, cfg) {
			scratch[i] = pending{}
			continue
		}
		vg := gravityOn(bodies, i, cfg)
		x, y, v := physics.Integrate(b.X, b.Y, b.Velocity, vg, dt)
		x, y, exited := boundary.Apply(x, y, width, height, b.Radius)
		scratch[i] = pending{x: x, y: y, velocity: v, exited: exited, advance: true}
	}

	// Phase 2: commit
	for i := range bodies {
		p := scratch[i]
		if !p.advance {
			continue
		}
		b := &bodies[i]
		if p.exited && b.Kill() {
			died = append(died, i)
		}
		b.Velocity = p.velocity
		b.X, b.Y = p.x, p.y
	}
	return scratch, died
}

// Stats summarises the population after a frame
type Stats struct {
	Frame uint64
	Total int
	Alive int
	Dead  int
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger, defaults to a no-op logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDeathHandler registers fn to be called once for every body that dies
// Called after the frame is committed, outside the engine lock
func WithDeathHandler(fn func(core.Body)) Option {
	return func(e *Engine) {
		e.onDeath = fn
	}
}

// WithStatsEvery logs population stats every n frames, 0 disables
func WithStatsEvery(n uint64) Option {
	return func(e *Engine) {
		e.statsEvery = n
	}
}

// Engine owns a population and serialises frame ticks with pointer events
type Engine struct {
	mu     sync.Mutex
	bodies []core.Body
	cfg    Config
	frame  uint64

	scratch []pending
	died    []int

	logger     *zap.Logger
	onDeath    func(core.Body)
	statsEvery uint64
}

// New validates the population and configuration and takes ownership of bodies
func New(bodies []core.Body, cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	seen := make(map[uint64]struct{}, len(bodies))
	for i := range bodies {
		b := &bodies[i]
		if !(b.Mass > 0) || b.Mass > parameter.MaxMass {
			return nil, errors.Wrapf(ErrInvalidMass, "body %d mass %v", b.ID, b.Mass)
		}
		if _, dup := seen[b.ID]; dup {
			return nil, errors.Wrapf(ErrInvalidPopulation, "duplicate body id %d", b.ID)
		}
		seen[b.ID] = struct{}{}
	}

	e := &Engine{
		bodies: bodies,
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// AdvanceFrame runs one frame against a width x height field
func (e *Engine) AdvanceFrame(width, height float64) Stats {
	e.mu.Lock()
	e.scratch, e.died = step(e.bodies, width, height, e.cfg, e.scratch, e.died[:0])
	e.frame++

	var deaths []core.Body
	if len(e.died) > 0 {
		deaths = make([]core.Body, len(e.died))
		for k, i := range e.died {
			deaths[k] = e.bodies[i]
		}
	}
	stats := e.statsLocked()
	onDeath := e.onDeath
	e.mu.Unlock()

	for i := range deaths {
		e.logger.Debug("Body left the field",
			zap.Uint64("id", deaths[i].ID),
			zap.Float64("x", deaths[i].X),
			zap.Float64("y", deaths[i].Y),
			zap.Uint64("frame", stats.Frame))
		if onDeath != nil {
			onDeath(deaths[i])
		}
	}
	if e.statsEvery > 0 && stats.Frame%e.statsEvery == 0 {
		e.logger.Debug("Frame stats",
			zap.Uint64("frame", stats.Frame),
			zap.Int("alive", stats.Alive),
			zap.Int("dead", stats.Dead))
	}
	return stats
}

// ApplyPointerAttraction applies a pointer attractor atomically with respect to frames
func (e *Engine) ApplyPointerAttraction(x, y, mass float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ApplyPointerAttraction(e.bodies, x, y, mass, e.cfg)
}

// Bodies returns a copy of the population
func (e *Engine) Bodies() []core.Body {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]core.Body, len(e.bodies))
	copy(out, e.bodies)
	return out
}

// Snapshot appends the renderable projection of bodies to dst
// Under the kill policy dead bodies are omitted
func (e *Engine) Snapshot(dst []core.Renderable) []core.Renderable {
	e.mu.Lock()
	defer e.mu.Unlock()
	dst = dst[:0]
	for i := range e.bodies {
		b := &e.bodies[i]
		if e.cfg.KillOutOfBounds && !b.Alive {
			continue
		}
		dst = append(dst, b.Renderable())
	}
	return dst
}

// Stats returns the current population summary
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statsLocked()
}

func (e *Engine) statsLocked() Stats {
	s := Stats{Frame: e.frame, Total: len(e.bodies)}
	for i := range e.bodies {
		if e.bodies[i].Alive {
			s.Alive++
		}
	}
	s.Dead = s.Total - s.Alive
	return s
}

// Config returns the active configuration
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// SetWrap toggles the wrap policy from the next frame on
func (e *Engine) SetWrap(on bool) {
	e.mu.Lock()
	e.cfg.WrapOutOfBounds = on
	e.mu.Unlock()
	e.logger.Info("Wrap policy changed", zap.Bool("wrap", on))
}

// SetKill toggles the kill policy from the next frame on
// Bodies already dead stay dead either way
func (e *Engine) SetKill(on bool) {
	e.mu.Lock()
	e.cfg.KillOutOfBounds = on
	e.mu.Unlock()
	e.logger.Info("Kill policy changed", zap.Bool("kill", on))
}
