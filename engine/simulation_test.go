package engine

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lixenwraith/planets/core"
	"github.com/lixenwraith/planets/physics"
	"github.com/lixenwraith/planets/vmath"
)

const (
	fieldW = 1000.0
	fieldH = 1000.0
	eps    = 1e-9
)

func body(id uint64, mass, x, y float64) core.Body {
	return core.Body{ID: id, Mass: mass, X: x, Y: y, Radius: 5, Alive: true, Participates: true}
}

func TestAdvanceFrameTwoBodies(t *testing.T) {
	bodies := []core.Body{
		body(0, 1e10, 400, 500),
		body(1, 1e10, 600, 500),
	}
	want := physics.AccelerationOn(&bodies[0], &bodies[1])

	AdvanceFrame(bodies, fieldW, fieldH, DefaultConfig())

	assert.InDelta(t, want.Magnitude, bodies[0].Velocity.Magnitude, 1e-15)
	assert.InDelta(t, 0, bodies[0].Velocity.Theta, eps, "first body pulled toward +x")
	assert.InDelta(t, math.Pi, bodies[1].Velocity.Theta, eps, "second body pulled toward -x")
	assert.InDelta(t, 400+want.Magnitude, bodies[0].X, 1e-9)
	assert.InDelta(t, 600-want.Magnitude, bodies[1].X, 1e-9)
}

func TestAdvanceFrameComposesExistingVelocity(t *testing.T) {
	bodies := []core.Body{
		body(0, 1e10, 400, 500),
		body(1, 1e10, 600, 500),
	}
	bodies[0].Velocity = vmath.Vector{Magnitude: 2, Theta: math.Pi / 2}
	vg := physics.AccelerationOn(&bodies[0], &bodies[1])
	want := bodies[0].Velocity.Compose(vg)

	AdvanceFrame(bodies, fieldW, fieldH, DefaultConfig())

	assert.True(t, vmath.ApproxEqual(want, bodies[0].Velocity, eps))
	assert.InDelta(t, 400+want.X(), bodies[0].X, eps)
	assert.InDelta(t, 500+want.Y(), bodies[0].Y, eps)
}

func TestAdvanceFrameSymmetricPopulationStaysSymmetric(t *testing.T) {
	const n = 8
	cx, cy, r := fieldW/2, fieldH/2, 200.0

	bodies := make([]core.Body, n)
	for i := range bodies {
		a := 2 * math.Pi * float64(i) / n
		bodies[i] = body(uint64(i), 5e9, cx+r*math.Cos(a), cy+r*math.Sin(a))
	}

	AdvanceFrame(bodies, fieldW, fieldH, DefaultConfig())

	// Opposite bodies mirror each other through the centre
	for i := 0; i < n/2; i++ {
		a, b := bodies[i], bodies[i+n/2]
		assert.InDelta(t, a.X-cx, -(b.X - cx), 1e-6, "pair %d x", i)
		assert.InDelta(t, a.Y-cy, -(b.Y - cy), 1e-6, "pair %d y", i)
		assert.InDelta(t, a.Velocity.Magnitude, b.Velocity.Magnitude, 1e-12)
	}
	// Every body moved the same distance toward the centre
	d0 := vmath.Distance(cx, cy, bodies[0].X, bodies[0].Y)
	assert.Less(t, d0, r)
	for i := range bodies {
		assert.InDelta(t, d0, vmath.Distance(cx, cy, bodies[i].X, bodies[i].Y), 1e-6)
	}
}

func TestAdvanceFrameUsesPreviousFrameSnapshot(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	f := NewFactory(rng)
	bodies, err := f.CreatePopulation(30, fieldW, fieldH, DefaultConfig())
	require.NoError(t, err)

	reversed := make([]core.Body, len(bodies))
	for i := range bodies {
		reversed[len(bodies)-1-i] = bodies[i]
	}

	AdvanceFrame(bodies, fieldW, fieldH, DefaultConfig())
	AdvanceFrame(reversed, fieldW, fieldH, DefaultConfig())
	sort.Slice(reversed, func(i, j int) bool { return reversed[i].ID < reversed[j].ID })

	opt := cmpopts.EquateApprox(1e-12, 1e-9)
	if diff := cmp.Diff(bodies, reversed, opt); diff != "" {
		t.Errorf("Expected result independent of body order (-forward +reversed):\n%s", diff)
	}
}

func TestAdvanceFrameDegenerateDistanceStaysFinite(t *testing.T) {
	bodies := []core.Body{
		body(0, 1e10, 500, 500),
		body(1, 1e10, 500, 500),
	}

	AdvanceFrame(bodies, fieldW, fieldH, DefaultConfig())

	for _, b := range bodies {
		assert.True(t, b.Velocity.IsFinite())
		assert.Equal(t, 500.0, b.X)
		assert.Equal(t, 500.0, b.Y)
	}
}

func TestAdvanceFrameNonParticipatingBodyIsStaticAttractor(t *testing.T) {
	anchor := body(0, 1e10, 500, 500)
	anchor.Participates = false
	bodies := []core.Body{anchor, body(1, 1, 300, 500)}

	AdvanceFrame(bodies, fieldW, fieldH, DefaultConfig())

	assert.Equal(t, anchor, bodies[0], "anchor passes through unchanged")
	assert.Greater(t, bodies[1].X, 300.0, "anchor still attracts")
	assert.InDelta(t, 0, bodies[1].Velocity.Theta, eps)
}

func TestAdvanceFrameWrapOffKillOnLeavesCoordinateAndKills(t *testing.T) {
	b := body(0, 1, fieldW+4, 500)
	b.Velocity = vmath.Vector{Magnitude: 2, Theta: 0}
	bodies := []core.Body{b}
	cfg := Config{WrapOutOfBounds: false, KillOutOfBounds: true, TimeStep: 1}

	AdvanceFrame(bodies, fieldW, fieldH, cfg)

	assert.InDelta(t, fieldW+6, bodies[0].X, eps, "coordinate left unchanged")
	assert.False(t, bodies[0].Alive)
}

func TestAdvanceFrameWrapRemapsExit(t *testing.T) {
	b := body(0, 1, 1, 500)
	b.Velocity = vmath.Vector{Magnitude: 3, Theta: math.Pi}
	bodies := []core.Body{b}
	cfg := Config{WrapOutOfBounds: true, TimeStep: 1}

	AdvanceFrame(bodies, fieldW, fieldH, cfg)

	// x' = 1 - 3 = -2, wrapped to (width + radius) + x'
	assert.InDelta(t, fieldW+5-2, bodies[0].X, eps)
	assert.False(t, bodies[0].Alive, "exit always flips the flag")
}

func TestAdvanceFrameDeadBodiesExcludedUnderKill(t *testing.T) {
	build := func() []core.Body {
		dead := body(1, 1e10, 520, 500)
		dead.Alive = false
		return []core.Body{
			body(0, 1e10, 500, 500),
			dead,
			body(2, 1e10, 300, 500),
		}
	}

	reference := []core.Body{body(0, 1e10, 500, 500), body(2, 1e10, 300, 500)}
	AdvanceFrame(reference, fieldW, fieldH, Config{KillOutOfBounds: true, TimeStep: 1})

	killed := build()
	AdvanceFrame(killed, fieldW, fieldH, Config{KillOutOfBounds: true, TimeStep: 1})
	assert.Equal(t, reference[0].Velocity, killed[0].Velocity, "dead body contributes nothing")
	assert.Equal(t, 520.0, killed[1].X, "dead body is frozen")
	assert.False(t, killed[1].Alive)

	kept := build()
	AdvanceFrame(kept, fieldW, fieldH, Config{KillOutOfBounds: false, TimeStep: 1})
	assert.NotEqual(t, reference[0].Velocity, kept[0].Velocity, "dead body still attracts without kill")
	assert.NotEqual(t, 520.0, kept[1].X, "dead body still moves without kill")
	assert.False(t, kept[1].Alive, "liveness never comes back")
}

func TestAdvanceFrameIgnoresPointerAccumulator(t *testing.T) {
	a := []core.Body{body(0, 1e10, 400, 500), body(1, 1e10, 600, 500)}
	b := []core.Body{body(0, 1e10, 400, 500), body(1, 1e10, 600, 500)}

	ApplyPointerAttraction(b, 500, 100, 1e12, DefaultConfig())
	require.False(t, b[0].Acceleration.IsZero())

	AdvanceFrame(a, fieldW, fieldH, DefaultConfig())
	AdvanceFrame(b, fieldW, fieldH, DefaultConfig())

	for i := range a {
		assert.Equal(t, a[i].Velocity, b[i].Velocity)
		assert.Equal(t, a[i].X, b[i].X)
		assert.Equal(t, a[i].Y, b[i].Y)
	}
}

func TestApplyPointerAttraction(t *testing.T) {
	bodies := []core.Body{body(0, 1e4, 100, 100), body(1, 1e4, 300, 100)}

	ApplyPointerAttraction(bodies, 200, 100, 1e5, DefaultConfig())

	assert.InDelta(t, 0, bodies[0].Acceleration.Theta, eps, "pulled toward the pointer")
	assert.InDelta(t, math.Pi, bodies[1].Acceleration.Theta, eps)
	want := 6.67e-11 * 1e5 / 100
	assert.InDelta(t, want, bodies[0].Acceleration.Magnitude, 1e-18)
	assert.True(t, bodies[0].Velocity.IsZero(), "velocity untouched")
	assert.Equal(t, 100.0, bodies[0].X, "position untouched")

	ApplyPointerAttraction(bodies, 200, 100, 1e5, DefaultConfig())
	assert.InDelta(t, 2*want, bodies[0].Acceleration.Magnitude, 1e-18, "accumulates")
}

func TestApplyPointerAttractionZeroMass(t *testing.T) {
	bodies := []core.Body{body(0, 1e4, 100, 100), body(1, 1e4, 300, 100)}
	bodies[0].Acceleration = vmath.Vector{Magnitude: 0.25, Theta: 1.5}
	before := append([]core.Body(nil), bodies...)

	ApplyPointerAttraction(bodies, 200, 100, 0, DefaultConfig())

	assert.Equal(t, before, bodies)
}

func TestApplyPointerAttractionSkipsDeadUnderKill(t *testing.T) {
	dead := body(0, 1e4, 100, 100)
	dead.Alive = false
	bodies := []core.Body{dead}

	ApplyPointerAttraction(bodies, 200, 100, 1e5, Config{KillOutOfBounds: true, TimeStep: 1})
	assert.True(t, bodies[0].Acceleration.IsZero())

	ApplyPointerAttraction(bodies, 200, 100, 1e5, Config{KillOutOfBounds: false, TimeStep: 1})
	assert.False(t, bodies[0].Acceleration.IsZero())
}

func TestNewValidates(t *testing.T) {
	_, err := New([]core.Body{body(0, 0, 1, 1)}, DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidMass)

	_, err = New([]core.Body{body(0, 1, 1, 1), body(0, 1, 2, 2)}, DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidPopulation)

	_, err = New(nil, Config{TimeStep: 0})
	assert.ErrorIs(t, err, ErrInvalidTimeStep)

	e, err := New(nil, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, Stats{Frame: 1}, e.AdvanceFrame(fieldW, fieldH))
}

func TestEngineReportsDeathsOnce(t *testing.T) {
	b := body(7, 1, fieldW+4, 500)
	b.Velocity = vmath.Vector{Magnitude: 2, Theta: 0}

	obsCore, logs := observer.New(zap.DebugLevel)
	var died []uint64
	e, err := New([]core.Body{b, body(8, 1, 500, 500)},
		Config{KillOutOfBounds: true, TimeStep: 1},
		WithLogger(zap.New(obsCore)),
		WithDeathHandler(func(b core.Body) { died = append(died, b.ID) }),
	)
	require.NoError(t, err)

	s := e.AdvanceFrame(fieldW, fieldH)
	assert.Equal(t, Stats{Frame: 1, Total: 2, Alive: 1, Dead: 1}, s)
	e.AdvanceFrame(fieldW, fieldH)

	assert.Equal(t, []uint64{7}, died)
	assert.Equal(t, 1, logs.FilterMessage("Body left the field").Len())
	assert.Len(t, e.Snapshot(nil), 1, "dead bodies are not rendered under kill")
}

func TestEngineSetKillMidRun(t *testing.T) {
	b := body(1, 1, -10, 500)
	e, err := New([]core.Body{b}, Config{TimeStep: 1})
	require.NoError(t, err)

	e.AdvanceFrame(fieldW, fieldH)
	require.False(t, e.Bodies()[0].Alive)
	assert.Len(t, e.Snapshot(nil), 1, "dead bodies still drawn without kill")

	e.SetKill(true)
	assert.True(t, e.Config().KillOutOfBounds)
	before := e.Bodies()[0]
	e.AdvanceFrame(fieldW, fieldH)
	assert.Equal(t, before, e.Bodies()[0], "frozen once kill is on")
	assert.Empty(t, e.Snapshot(nil))

	e.SetKill(false)
	assert.False(t, e.Bodies()[0].Alive, "flag is never restored")
}

func TestEngineBodiesReturnsCopy(t *testing.T) {
	e, err := New([]core.Body{body(1, 1, 10, 10)}, DefaultConfig())
	require.NoError(t, err)

	got := e.Bodies()
	got[0].X = 999
	assert.Equal(t, 10.0, e.Bodies()[0].X)
}

func TestEngineConcurrentPointerAndFrames(t *testing.T) {
	f := NewFactory(vmath.NewFastRand(17))
	bodies, err := f.CreatePopulation(20, fieldW, fieldH, DefaultConfig())
	require.NoError(t, err)
	e, err := New(bodies, DefaultConfig())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			e.ApplyPointerAttraction(float64(i), float64(i), 1e5)
		}
	}()
	for i := 0; i < 50; i++ {
		e.AdvanceFrame(fieldW, fieldH)
	}
	<-done

	assert.Equal(t, uint64(50), e.Stats().Frame)
}
