// Package engine drives one level: it sleeps until the scheduler's deadline, advances the physics,
// applies queued input, redraws when a frame is due and shuts everything down on close.
// Everything runs on the goroutine that calls Run, which must be the locked main OS thread.
package engine

import (
	"errors"
	"time"

	"github.com/Carmen-Shannon/oxy-moto/common"
	"github.com/Carmen-Shannon/oxy-moto/engine/camera"
	"github.com/Carmen-Shannon/oxy-moto/engine/composer"
	"github.com/Carmen-Shannon/oxy-moto/engine/physics"
	"github.com/Carmen-Shannon/oxy-moto/engine/profiler"
	"github.com/Carmen-Shannon/oxy-moto/engine/scheduler"
	"github.com/rs/zerolog"
)

var (
	// ErrNoComposer is returned by Run when the engine was built without WithComposer.
	ErrNoComposer = errors.New("engine: no composer configured")

	// ErrNoSimulation is returned by Run when the simulation has no moto.
	ErrNoSimulation = errors.New("engine: simulation has no moto")
)

// Window is the host window as seen by the engine loop.
type Window interface {
	// WaitUntil blocks until an event arrives or the deadline passes.
	WaitUntil(deadline time.Time)
	// Events drains the events queued since the previous call.
	Events() []common.Event
	// Close destroys the window.
	Close() error
	// Width returns the framebuffer width in pixels.
	Width() int
	// Height returns the framebuffer height in pixels.
	Height() int
}

// Renderer is the frame hand-off used by the engine loop.
type Renderer interface {
	BeginFrame() error
	SetViewport(vp camera.Viewport)
	DrawPolygons()
	DrawPictures(vertices []common.PictureVertex, indices []uint32) error
	EndFrame()
	Present()
	Resize(width, height int)
	Release()
}

// Simulation is the mutable game state the loop works on. It is passed explicitly to Run
// rather than living in package state.
type Simulation struct {
	// Moto is the simulated vehicle.
	Moto *physics.Moto
	// Segments are the level's collision edges.
	Segments *physics.Segments
	// Control is the input state, updated from key events after every physics step.
	Control physics.Control
	// Events receives physics events. Nil means physics.NopEvents.
	Events physics.Events
}

// engine implements the Engine interface.
type engine struct {
	logger zerolog.Logger
	clock  func() time.Time

	window   Window
	renderer Renderer

	camera    camera.Camera
	composer  composer.Composer
	scheduler scheduler.Scheduler

	profiler         *profiler.Profiler
	profilingEnabled bool

	quit   bool
	closed bool
}

// Engine is the main loop of one level.
type Engine interface {
	// Run loops until the window closes or Quit is called, then releases the renderer, closes the
	// window and moves the scheduler to its closed state. It blocks the calling goroutine.
	//
	// Parameters:
	//   - sim: the simulation to drive
	//
	// Returns:
	//   - error: ErrNoComposer or ErrNoSimulation if the engine cannot run
	Run(sim *Simulation) error

	// Step runs a single wake of the loop.
	//
	// Parameters:
	//   - sim: the simulation to drive
	//
	// Returns:
	//   - bool: false once the engine has shut down
	Step(sim *Simulation) bool

	// Quit requests shutdown at the end of the current or next wake.
	Quit()

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// Camera returns the camera the loop tracks the moto with.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Scheduler returns the scheduler driving the loop.
	//
	// Returns:
	//   - scheduler.Scheduler: the scheduler
	Scheduler() scheduler.Scheduler
}

var _ Engine = &engine{}

// NewEngine creates a new Engine for the given window and renderer.
// The camera's aspect defaults to the window size and the scheduler's clock starts now.
//
// Parameters:
//   - w: the host window
//   - r: the renderer drawing into w
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(w Window, r Renderer, options ...EngineBuilderOption) Engine {
	e := &engine{
		logger:   zerolog.Nop(),
		clock:    time.Now,
		window:   w,
		renderer: r,
	}

	for _, opt := range options {
		opt(e)
	}

	start := e.clock()
	if e.camera == nil {
		e.camera = camera.NewCamera(camera.WithAspect(w.Width(), w.Height()))
	}
	if e.scheduler == nil {
		e.scheduler = scheduler.NewScheduler(start)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(start, profiler.WithLogger(e.logger))
	}

	return e
}

func (e *engine) Run(sim *Simulation) error {
	if e.composer == nil {
		return ErrNoComposer
	}
	if sim == nil || sim.Moto == nil {
		return ErrNoSimulation
	}
	if sim.Events == nil {
		sim.Events = physics.NopEvents{}
	}

	e.logger.Info().Msg("engine loop started")
	for e.Step(sim) {
	}
	e.logger.Info().Float64("simTime", e.scheduler.SimTime()).Msg("engine loop stopped")
	return nil
}

func (e *engine) Step(sim *Simulation) bool {
	if e.closed {
		return false
	}

	e.window.WaitUntil(e.scheduler.Deadline())
	now := e.clock()
	cycle := e.scheduler.Wake(now)
	if e.profilingEnabled {
		e.profiler.Wake()
	}

	sim.Moto.Advance(sim.Control, cycle.SimTime, sim.Segments, sim.Events)
	e.scheduler.Advanced()

	resize, closing := e.drain(sim)

	if cycle.Redraw {
		e.redraw(sim, now)
		e.scheduler.Redrawn()
	}

	if resize != nil {
		e.renderer.Resize(resize.Width, resize.Height)
		e.camera.SetAspect(resize.Width, resize.Height)
	}

	if closing || e.quit {
		e.shutdown()
		return false
	}
	return true
}

// drain applies queued key events to the simulation and returns the last non-empty resize and
// whether a close was requested.
func (e *engine) drain(sim *Simulation) (*common.Event, bool) {
	var resize *common.Event
	closing := false

	for _, ev := range e.window.Events() {
		switch ev.Kind {
		case common.EventKey:
			switch ev.Key {
			case common.KeyUp:
				sim.Control.Throttle = ev.Pressed
			case common.KeyDown:
				sim.Control.Brake = ev.Pressed
			case common.KeyLeft:
				sim.Control.RotateLeft = ev.Pressed
			case common.KeyRight:
				sim.Control.RotateRight = ev.Pressed
			case common.KeySpace:
				if ev.Pressed && !ev.Repeat {
					sim.Moto.Turn()
				}
			}
		case common.EventResize:
			// Minimized windows report a zero framebuffer.
			if ev.Width > 0 && ev.Height > 0 {
				r := ev
				resize = &r
			}
		case common.EventClose:
			closing = true
		}
	}
	return resize, closing
}

func (e *engine) redraw(sim *Simulation, now time.Time) {
	vp := e.camera.Track(sim.Moto.Bike.Position)
	e.composer.Update(sim.Moto, vp)

	if err := e.renderer.BeginFrame(); err != nil {
		e.logger.Error().Err(err).Msg("frame skipped")
		return
	}
	e.renderer.SetViewport(vp)
	e.renderer.DrawPolygons()
	s := e.composer.Scene()
	if err := e.renderer.DrawPictures(s.Vertices(), s.Indices()); err != nil {
		e.logger.Error().Err(err).Msg("pictures not drawn")
	}
	e.renderer.EndFrame()
	e.renderer.Present()

	if e.profilingEnabled {
		e.profiler.Tick(now)
	}
}

func (e *engine) shutdown() {
	if e.closed {
		return
	}
	e.closed = true
	e.renderer.Release()
	if err := e.window.Close(); err != nil {
		e.logger.Warn().Err(err).Msg("window close failed")
	}
	e.scheduler.Close()
}

func (e *engine) Quit() {
	e.quit = true
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Scheduler() scheduler.Scheduler {
	return e.scheduler
}
