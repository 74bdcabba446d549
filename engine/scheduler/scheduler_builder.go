package scheduler

import "time"

type SchedulerBuilderOption func(*schedulerImpl)

// WithTickInterval sets the redraw cadence. Non-positive values are ignored.
//
// Parameters:
//   - d: the interval between redraws
//
// Returns:
//   - SchedulerBuilderOption: a function that sets the tick interval
func WithTickInterval(d time.Duration) SchedulerBuilderOption {
	return func(s *schedulerImpl) {
		if d > 0 {
			s.tick = d
		}
	}
}

// WithTimeScale sets the wall-clock to simulation time factor. Non-positive values are ignored.
//
// Parameters:
//   - scale: simulation seconds per wall-clock second
//
// Returns:
//   - SchedulerBuilderOption: a function that sets the time scale
func WithTimeScale(scale float64) SchedulerBuilderOption {
	return func(s *schedulerImpl) {
		if scale > 0 {
			s.timeScale = scale
		}
	}
}
