package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-moto/engine/camera"
	"github.com/Carmen-Shannon/oxy-moto/engine/composer"
	"github.com/Carmen-Shannon/oxy-moto/engine/profiler"
	"github.com/Carmen-Shannon/oxy-moto/engine/scheduler"
	"github.com/rs/zerolog"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithLogger sets the logger for loop lifecycle and per-frame errors.
//
// Parameters:
//   - logger: the zerolog logger
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger zerolog.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.logger = logger
	}
}

// WithClock replaces time.Now as the source of wake times.
//
// Parameters:
//   - clock: the function returning the current time
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(clock func() time.Time) EngineBuilderOption {
	return func(e *engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithCamera sets a pre-configured camera.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithComposer sets the composer owning the level's picture scene. Required by Run.
//
// Parameters:
//   - c: the composer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithComposer(c composer.Composer) EngineBuilderOption {
	return func(e *engine) {
		e.composer = c
	}
}

// WithScheduler sets a pre-configured scheduler.
//
// Parameters:
//   - s: the scheduler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithScheduler(s scheduler.Scheduler) EngineBuilderOption {
	return func(e *engine) {
		e.scheduler = s
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler sets a pre-configured profiler.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}
