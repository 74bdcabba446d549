// Package scheduler decides, on every wake of the main loop, how far the simulation clock has
// advanced and whether a redraw is due. Physics runs on every wake; redraws follow a fixed cadence.
package scheduler

import (
	"time"
)

const (
	// DefaultTickInterval is the redraw cadence.
	DefaultTickInterval = 20 * time.Millisecond

	// DefaultTimeScale converts wall-clock seconds into simulation seconds.
	DefaultTimeScale = 0.4368
)

// State is the scheduler's position in the wake cycle.
type State int

const (
	// StateIdle is waiting for the next deadline or event.
	StateIdle State = iota
	// StatePhysicsDue has woken and must advance the simulation.
	StatePhysicsDue
	// StateRedrawDue has advanced the simulation and must draw a frame.
	StateRedrawDue
	// StateClosed is terminal.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePhysicsDue:
		return "physics-due"
	case StateRedrawDue:
		return "redraw-due"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Cycle is the work one wake has to do.
type Cycle struct {
	// SimTime is the absolute simulation time in seconds the physics should reach.
	SimTime float64
	// Redraw is true when a frame is due.
	Redraw bool
}

type schedulerImpl struct {
	tick      time.Duration
	timeScale float64

	start    time.Time
	deadline time.Time
	simTime  float64
	redraw   bool
	state    State
}

// Scheduler tracks the simulation clock and the redraw deadline.
type Scheduler interface {
	// Wake registers a wake-up at now and returns the work due.
	// A redraw is due when now is after the deadline; the deadline then moves to now plus one tick.
	// SimTime never decreases.
	//
	// Parameters:
	//   - now: the wall-clock time of the wake
	//
	// Returns:
	//   - Cycle: the simulation time to reach and whether to redraw
	Wake(now time.Time) Cycle

	// Advanced marks the physics step of the current wake as done.
	Advanced()

	// Redrawn marks the redraw of the current wake as done.
	Redrawn()

	// Close moves the scheduler to its terminal state.
	Close()

	// Deadline returns the wall-clock time the loop should sleep until.
	Deadline() time.Time

	// SimTime returns the last simulation time handed out.
	SimTime() float64

	// State returns the current state.
	State() State
}

var _ Scheduler = &schedulerImpl{}

// NewScheduler creates a scheduler whose clock starts at start. The first wake after start redraws.
//
// Parameters:
//   - start: the wall-clock time simulation time zero corresponds to
//   - options: functional options to configure the scheduler
//
// Returns:
//   - Scheduler: the new scheduler
func NewScheduler(start time.Time, options ...SchedulerBuilderOption) Scheduler {
	s := &schedulerImpl{
		tick:      DefaultTickInterval,
		timeScale: DefaultTimeScale,
		start:     start,
		deadline:  start,
		state:     StateIdle,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *schedulerImpl) Wake(now time.Time) Cycle {
	if s.state == StateClosed {
		return Cycle{SimTime: s.simTime}
	}

	s.redraw = false
	if now.After(s.deadline) {
		s.redraw = true
		s.deadline = now.Add(s.tick)
	}

	t := s.timeScale * now.Sub(s.start).Seconds()
	if t > s.simTime {
		s.simTime = t
	}

	s.state = StatePhysicsDue
	return Cycle{SimTime: s.simTime, Redraw: s.redraw}
}

func (s *schedulerImpl) Advanced() {
	if s.state != StatePhysicsDue {
		return
	}
	if s.redraw {
		s.state = StateRedrawDue
		return
	}
	s.state = StateIdle
}

func (s *schedulerImpl) Redrawn() {
	if s.state != StateRedrawDue {
		return
	}
	s.redraw = false
	s.state = StateIdle
}

func (s *schedulerImpl) Close() {
	s.state = StateClosed
}

func (s *schedulerImpl) Deadline() time.Time {
	return s.deadline
}

func (s *schedulerImpl) SimTime() float64 {
	return s.simTime
}

func (s *schedulerImpl) State() State {
	return s.state
}
