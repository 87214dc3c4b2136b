package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/lixenwraith/planets/audio"
	"github.com/lixenwraith/planets/config"
	"github.com/lixenwraith/planets/core"
	"github.com/lixenwraith/planets/engine"
	"github.com/lixenwraith/planets/render"
)

// errQuit ends the event loop on a user request
var errQuit = errors.New("quit requested")

// newScreen is replaced in tests
var newScreen = tcell.NewScreen

// sounds is the audio surface used by the driver
type sounds interface {
	PlayDeath(core.Body)
	SetMuted(bool)
	Muted() bool
}

// driver connects the terminal, the engine and the sound manager
type driver struct {
	screen   tcell.Screen
	renderer *render.TerminalRenderer
	engine   *engine.Engine
	clock    *engine.FrameClock
	limiter  *rate.Limiter
	sound    sounds
	cfg      *config.Config
	logger   *zap.Logger

	width, height float64
	pointer       render.Pointer
	snapshot      []core.Renderable
}

// runInteractive owns the terminal for the lifetime of the simulation
func runInteractive(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	screen, err := newScreen()
	if err != nil {
		return errors.Wrap(err, "creating screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "initializing screen")
	}
	defer screen.Fini()

	// Terminal must be restored before the trace is printed
	defer func() {
		if r := recover(); r != nil {
			crash(screen, r)
		}
	}()

	sm := audio.NewSoundManager()
	if cfg.Audio.Enabled {
		if err := sm.Initialize(); err != nil {
			logger.Warn("Audio initialization failed, continuing without audio", zap.Error(err))
		} else {
			defer sm.Cleanup()
		}
	}

	d, err := newDriver(screen, cfg, logger, sm)
	if err != nil {
		return err
	}
	return d.run(ctx)
}

// crash restores the terminal and exits with the panic and stack on stderr
func crash(screen tcell.Screen, r any) {
	screen.Fini()
	fmt.Fprintf(os.Stderr, "\n\x1b[31mPLANETS CRASHED: %v\x1b[0m\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
	os.Exit(1)
}

func newDriver(screen tcell.Screen, cfg *config.Config, logger *zap.Logger, sound sounds) (*driver, error) {
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	cols, rows := screen.Size()
	d := &driver{
		screen:   screen,
		renderer: render.NewTerminalRenderer(screen, render.NewViewport(cols, rows, cfg.Display.CellWidth, cfg.Display.CellHeight)),
		clock:    engine.NewFrameClock(),
		limiter:  rate.NewLimiter(rate.Limit(cfg.Pointer.MaxEventsPerSecond), 1),
		sound:    sound,
		cfg:      cfg,
		logger:   logger,
	}
	d.updateField()
	if d.width <= 0 || d.height <= 0 {
		return nil, errors.Errorf("terminal too small: %dx%d", cols, rows)
	}

	eng, err := newSimulation(cfg, d.width, d.height, logger, sound.PlayDeath)
	if err != nil {
		return nil, err
	}
	d.engine = eng
	return d, nil
}

// updateField derives the field size from the terminal unless configured explicitly
func (d *driver) updateField() {
	w, h := d.renderer.Viewport().FieldSize()
	if d.cfg.Display.FieldWidth > 0 {
		w = d.cfg.Display.FieldWidth
	}
	if d.cfg.Display.FieldHeight > 0 {
		h = d.cfg.Display.FieldHeight
	}
	d.width, d.height = w, h
}

// run polls input and ticks frames until quit or ctx is done
func (d *driver) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	events := make(chan tcell.Event, 64)

	g.Go(func() error {
		defer d.recoverCrash()
		d.screen.ChannelEvents(events, ctx.Done())
		return nil
	})

	g.Go(func() error {
		defer d.recoverCrash()
		return d.loop(ctx, events)
	})

	err := g.Wait()
	d.logger.Info("Simulation stopped", zap.Uint64("frame", d.engine.Stats().Frame))
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

func (d *driver) recoverCrash() {
	if r := recover(); r != nil {
		crash(d.screen, r)
	}
}

func (d *driver) loop(ctx context.Context, events <-chan tcell.Event) error {
	ticker := time.NewTicker(time.Second / time.Duration(d.cfg.Display.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := d.handleEvent(ev); err != nil {
				return err
			}
		case <-ticker.C:
			d.tick()
		}
	}
}

// tick advances one frame when the clock allows it and redraws
func (d *driver) tick() {
	if d.clock.ShouldAdvance() && d.width > 0 && d.height > 0 {
		d.engine.AdvanceFrame(d.width, d.height)
	}
	d.draw()
}

func (d *driver) draw() {
	d.snapshot = d.engine.Snapshot(d.snapshot)
	stats := d.engine.Stats()
	cfg := d.engine.Config()
	d.renderer.RenderFrame(d.snapshot, d.pointer, render.Status{
		Frame:  stats.Frame,
		Alive:  stats.Alive,
		Total:  stats.Total,
		Wrap:   cfg.WrapOutOfBounds,
		Kill:   cfg.KillOutOfBounds,
		Paused: d.clock.IsPaused(),
		Muted:  d.sound.Muted(),
	})
}

// handleEvent applies one terminal event, errQuit ends the loop
func (d *driver) handleEvent(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return d.handleKey(ev)

	case *tcell.EventMouse:
		d.handlePointer(ev.Position())

	case *tcell.EventResize:
		cols, rows := ev.Size()
		d.renderer.Resize(cols, rows)
		d.updateField()
		d.screen.Sync()
		d.logger.Debug("Terminal resized",
			zap.Int("cols", cols),
			zap.Int("rows", rows),
			zap.Float64("width", d.width),
			zap.Float64("height", d.height))
	}
	return nil
}

func (d *driver) handleKey(ev *tcell.EventKey) error {
	switch ev.Key() {
	case tcell.KeyEscape:
		paused := d.clock.Toggle()
		d.logger.Info("Pause toggled", zap.Bool("paused", paused))
		return nil
	case tcell.KeyCtrlC:
		return errQuit
	case tcell.KeyRune:
	default:
		return nil
	}

	switch ev.Rune() {
	case ' ':
		d.clock.Step()
	case 'q', 'Q':
		return errQuit
	case 'w', 'W':
		d.engine.SetWrap(!d.engine.Config().WrapOutOfBounds)
	case 'k', 'K':
		d.engine.SetKill(!d.engine.Config().KillOutOfBounds)
	case 'm', 'M':
		d.sound.SetMuted(!d.sound.Muted())
	}
	return nil
}

// handlePointer moves the pointer marker and pulls bodies toward it, throttled by the limiter
func (d *driver) handlePointer(col, row int) {
	vp := d.renderer.Viewport()
	d.pointer = render.Pointer{Col: col, Row: row, Visible: row < vp.FieldRows()}
	if !d.pointer.Visible || !d.limiter.Allow() {
		return
	}
	x, y := vp.ToField(col, row)
	d.engine.ApplyPointerAttraction(x, y, d.cfg.Pointer.Mass)
}
