package physics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Object is the pose of one rigid part of the moto.
type Object struct {
	Position mgl64.Vec2
	Angle    float64
}

// Control is the player's input state, held between wakes.
type Control struct {
	RotateLeft  bool
	RotateRight bool
	Throttle    bool
	Brake       bool
}

// EventKind identifies a physics event.
type EventKind int

const (
	// EventWheelTouch fires when a wheel starts touching the ground.
	EventWheelTouch EventKind = iota
	// EventTurn fires when the moto changes direction.
	EventTurn
)

func (k EventKind) String() string {
	switch k {
	case EventWheelTouch:
		return "wheel-touch"
	case EventTurn:
		return "turn"
	}
	return "unknown"
}

// Event is a notable moment in the simulation.
type Event struct {
	Kind EventKind
	// Wheel is the wheel index for EventWheelTouch.
	Wheel int
	// Time is the simulation time the event was observed at.
	Time float64
}

// Events receives physics events. Implementations must not block.
type Events interface {
	Emit(e Event)
}

// NopEvents discards every event.
type NopEvents struct{}

func (NopEvents) Emit(Event) {}

// EventsFunc adapts a function to the Events interface.
type EventsFunc func(e Event)

func (f EventsFunc) Emit(e Event) {
	f(e)
}
