package physics

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-moto/engine/level"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floor() *Segments {
	return NewSegments([]level.Polygon{{
		Outer: []mgl64.Vec2{{-50, -10}, {50, -10}, {50, 0}, {-50, 0}},
	}})
}

type recorder struct {
	events []Event
}

func (r *recorder) Emit(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestNewMotoRestPose(t *testing.T) {
	m := NewMoto(mgl64.Vec2{3, 4})

	assert.InDelta(t, 3, m.Bike.Position.X(), 1e-9)
	assert.InDelta(t, 4, m.Bike.Position.Y(), 1e-9)
	assert.InDelta(t, 3-0.85, m.Wheels[0].Position.X(), 1e-9)
	assert.InDelta(t, 3+0.85, m.Wheels[1].Position.X(), 1e-9)
	assert.False(t, m.Direction)
	assert.Zero(t, m.Time())
}

func TestFallsWithoutGround(t *testing.T) {
	m := NewMoto(mgl64.Vec2{0, 10})
	m.Advance(Control{}, 0.5, nil, nil)

	assert.Less(t, m.Bike.Position.Y(), 10.0)
	assert.InDelta(t, 0.5, m.Time(), 1e-6)
}

func TestLandsOnGround(t *testing.T) {
	m := NewMoto(mgl64.Vec2{0, 1.5})
	segs := floor()
	rec := &recorder{}

	for i := 1; i <= 40; i++ {
		m.Advance(Control{}, float64(i)*0.05, segs, rec)
	}

	assert.Greater(t, m.Bike.Position.Y(), 0.0, "bike rests above the floor")
	for _, w := range m.Wheels {
		assert.InDelta(t, WheelRadius, w.Position.Y(), 0.1)
	}
	assert.GreaterOrEqual(t, rec.count(EventWheelTouch), 2)
}

func TestSimTimeMonotonic(t *testing.T) {
	m := NewMoto(mgl64.Vec2{0, 1.5})
	segs := floor()

	m.Advance(Control{}, 0.3, segs, nil)
	reached := m.Time()
	pose := m.Bike

	m.Advance(Control{}, 0.1, segs, nil)
	assert.Equal(t, reached, m.Time(), "an earlier target does not rewind")
	assert.Equal(t, pose, m.Bike)

	m.Advance(Control{}, 0.3, segs, nil)
	assert.Equal(t, pose, m.Bike, "the same target is idempotent")
}

func TestWakeFrequencyDoesNotChangeOutcome(t *testing.T) {
	segs := floor()
	coarse := NewMoto(mgl64.Vec2{0, 1.5})
	fine := NewMoto(mgl64.Vec2{0, 1.5})

	coarse.Advance(Control{Throttle: true}, 0.25, segs, nil)
	for i := 1; i <= 25; i++ {
		fine.Advance(Control{Throttle: true}, float64(i)*0.01, segs, nil)
	}

	assert.Equal(t, coarse.Time(), fine.Time())
	assert.Equal(t, coarse.Bike, fine.Bike)
	assert.Equal(t, coarse.Wheels, fine.Wheels)
}

func TestSubstepCapDropsBacklog(t *testing.T) {
	m := NewMoto(mgl64.Vec2{0, 1.5}, WithStep(0.01), WithMaxSubsteps(10))
	m.Advance(Control{}, 5, nil, nil)
	assert.Equal(t, 5.0, m.Time())
}

func TestThrottleDrivesForward(t *testing.T) {
	m := NewMoto(mgl64.Vec2{0, 1.1})
	segs := floor()
	for i := 1; i <= 40; i++ {
		m.Advance(Control{}, float64(i)*0.05, segs, nil)
	}
	startX := m.Bike.Position.X()

	for i := 41; i <= 160; i++ {
		m.Advance(Control{Throttle: true}, float64(i)*0.05, segs, nil)
	}
	assert.Greater(t, m.Bike.Position.X(), startX+0.5)
}

func TestTurnEmitsEvent(t *testing.T) {
	m := NewMoto(mgl64.Vec2{0, 1.5})
	rec := &recorder{}

	m.Turn()
	assert.True(t, m.Direction)
	m.Advance(Control{}, 0.01, nil, rec)
	assert.Equal(t, 1, rec.count(EventTurn))

	m.Advance(Control{}, 0.02, nil, rec)
	assert.Equal(t, 1, rec.count(EventTurn), "turn is reported once")

	m.Turn()
	assert.False(t, m.Direction)
}

func TestNewSegmentsSkipsGrass(t *testing.T) {
	segs := NewSegments([]level.Polygon{
		{
			Outer: []mgl64.Vec2{{0, 0}, {4, 0}, {4, 4}, {0, 4}},
			Holes: [][]mgl64.Vec2{{{1, 1}, {1, 2}, {2, 2}}},
		},
		{Outer: []mgl64.Vec2{{0, 0}, {1, 0}, {1, 1}}, Grass: true},
	})
	require.Equal(t, 7, segs.Len())
	assert.Equal(t, [2]mgl64.Vec2{{4, 4}, {0, 4}}, segs.Edges()[2])
}

func TestEventsFunc(t *testing.T) {
	var got []Event
	var sink Events = EventsFunc(func(e Event) { got = append(got, e) })
	sink.Emit(Event{Kind: EventTurn})
	NopEvents{}.Emit(Event{})
	assert.Len(t, got, 1)
	assert.Equal(t, "turn", got[0].Kind.String())
}

func TestWithGravityZeroHoldsPose(t *testing.T) {
	m := NewMoto(mgl64.Vec2{0, 10}, WithGravity(mgl64.Vec2{}))
	m.Advance(Control{}, 0.5, nil, nil)

	assert.InDelta(t, 0, m.Bike.Position.X(), 1e-6)
	assert.InDelta(t, 10, m.Bike.Position.Y(), 1e-6)
	assert.InDelta(t, 0, m.Bike.Angle, 1e-6)
}

func TestWithRotationTorque(t *testing.T) {
	weak := NewMoto(mgl64.Vec2{0, 10}, WithGravity(mgl64.Vec2{}), WithRotationTorque(1))
	strong := NewMoto(mgl64.Vec2{0, 10}, WithGravity(mgl64.Vec2{}), WithRotationTorque(20))

	for i := 1; i <= 30; i++ {
		weak.Advance(Control{RotateLeft: true}, float64(i)*0.01, nil, nil)
		strong.Advance(Control{RotateLeft: true}, float64(i)*0.01, nil, nil)
	}

	assert.Greater(t, weak.Bike.Angle, 0.0, "rotate left turns counter-clockwise")
	assert.Greater(t, strong.Bike.Angle, weak.Bike.Angle)
}

func TestWithMotorWithoutTorqueDoesNotDrive(t *testing.T) {
	m := NewMoto(mgl64.Vec2{0, 1.1}, WithMotor(40, 0))
	segs := floor()
	for i := 1; i <= 40; i++ {
		m.Advance(Control{}, float64(i)*0.05, segs, nil)
	}
	startX := m.Bike.Position.X()

	for i := 41; i <= 160; i++ {
		m.Advance(Control{Throttle: true}, float64(i)*0.05, segs, nil)
	}
	assert.InDelta(t, startX, m.Bike.Position.X(), 0.1)
}
