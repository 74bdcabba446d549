// Package physics steps the moto through a rigid-body world built from the level's collision edges.
package physics

import (
	"github.com/ByteArena/box2d"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// WheelRadius is the radius of both wheels in world units.
	WheelRadius = 0.4

	defaultStep        = 1.0 / 120.0
	defaultMaxSubsteps = 60
	velocityIterations = 8
	positionIterations = 3
)

var (
	bikeHalfSize = mgl64.Vec2{0.6, 0.25}
	// wheelOffsets are the rest positions of the left and right wheel relative to the bike body.
	wheelOffsets = [2]mgl64.Vec2{{-0.85, -0.6}, {0.85, -0.6}}
)

// Moto is the simulated vehicle. Bike and Wheels are refreshed after every Advance.
// Direction is false when facing right and true when facing left.
// A Moto must not be copied after creation.
type Moto struct {
	Bike      Object
	Wheels    [2]Object
	Direction bool

	gravity     mgl64.Vec2
	step        float64
	maxSubsteps int
	motorSpeed  float64
	motorTorque float64
	brakeTorque float64
	rotTorque   float64

	world    *box2d.B2World
	bike     *box2d.B2Body
	wheels   [2]*box2d.B2Body
	joints   [2]*box2d.B2WheelJoint
	ground   *box2d.B2Body
	attached *Segments

	time     float64
	touching [2]bool
	turned   int
}

// NewMoto creates a moto whose bike body rests at start.
//
// Parameters:
//   - start: the bike body position in world units
//   - options: functional options to configure the moto
//
// Returns:
//   - *Moto: the new moto
func NewMoto(start mgl64.Vec2, options ...MotoBuilderOption) *Moto {
	m := &Moto{
		gravity:     mgl64.Vec2{0, -10},
		step:        defaultStep,
		maxSubsteps: defaultMaxSubsteps,
		motorSpeed:  40,
		motorTorque: 6,
		brakeTorque: 40,
		rotTorque:   6,
	}
	for _, option := range options {
		option(m)
	}

	world := box2d.MakeB2World(box2d.MakeB2Vec2(m.gravity.X(), m.gravity.Y()))
	m.world = &world

	bd := box2d.MakeB2BodyDef()
	bd.Type = box2d.B2BodyType.B2_dynamicBody
	bd.Position.Set(start.X(), start.Y())
	m.bike = m.world.CreateBody(&bd)

	box := box2d.MakeB2PolygonShape()
	box.SetAsBox(bikeHalfSize.X(), bikeHalfSize.Y())
	fd := box2d.MakeB2FixtureDef()
	fd.Shape = &box
	fd.Density = 2.0
	fd.Friction = 0.5
	m.bike.CreateFixtureFromDef(&fd)

	for i, off := range wheelOffsets {
		pos := start.Add(off)

		wd := box2d.MakeB2BodyDef()
		wd.Type = box2d.B2BodyType.B2_dynamicBody
		wd.Position.Set(pos.X(), pos.Y())
		m.wheels[i] = m.world.CreateBody(&wd)

		circle := box2d.MakeB2CircleShape()
		circle.M_radius = WheelRadius
		wfd := box2d.MakeB2FixtureDef()
		wfd.Shape = &circle
		wfd.Density = 1.0
		wfd.Friction = 0.9
		m.wheels[i].CreateFixtureFromDef(&wfd)

		jd := box2d.MakeB2WheelJointDef()
		jd.Initialize(m.bike, m.wheels[i], box2d.MakeB2Vec2(pos.X(), pos.Y()), box2d.MakeB2Vec2(0, 1))
		jd.FrequencyHz = 4.0
		jd.DampingRatio = 0.7
		jd.MaxMotorTorque = m.motorTorque
		m.joints[i] = m.world.CreateJoint(&jd).(*box2d.B2WheelJoint)
	}

	m.sync()
	return m
}

// Advance steps the world in fixed substeps until it reaches simTime.
// Earlier or equal simTime values do nothing. When simTime is further ahead than the substep
// cap allows, the remaining backlog is dropped so one slow wake cannot stall the loop.
//
// Parameters:
//   - control: the input state applied before every substep
//   - simTime: the absolute simulation time to reach, in seconds
//   - segments: the level collision edges, attached on first use or when changed
//   - events: the sink for events observed during this advance
func (m *Moto) Advance(control Control, simTime float64, segments *Segments, events Events) {
	if events == nil {
		events = NopEvents{}
	}
	if segments != m.attached {
		m.attach(segments)
	}

	for ; m.turned > 0; m.turned-- {
		events.Emit(Event{Kind: EventTurn, Time: m.time})
	}

	steps := 0
	for m.time+m.step <= simTime+1e-9 {
		if steps == m.maxSubsteps {
			m.time = simTime
			break
		}
		m.applyControl(control)
		m.world.Step(m.step, velocityIterations, positionIterations)
		m.time += m.step
		steps++
		m.observeContacts(events)
	}

	m.sync()
}

// Turn flips the moto's direction. The drive wheel and the rendered bike mirror follow it.
func (m *Moto) Turn() {
	m.Direction = !m.Direction
	m.turned++
}

// Time returns the simulation time the world has been stepped to.
func (m *Moto) Time() float64 {
	return m.time
}

// driveWheel is the rear wheel for the current direction.
func (m *Moto) driveWheel() int {
	if m.Direction {
		return 1
	}
	return 0
}

func (m *Moto) applyControl(c Control) {
	rear := m.driveWheel()
	// Forward rolling is clockwise when facing right.
	spin := -m.motorSpeed
	if m.Direction {
		spin = m.motorSpeed
	}

	for i, j := range m.joints {
		switch {
		case c.Brake:
			j.EnableMotor(true)
			j.SetMaxMotorTorque(m.brakeTorque)
			j.SetMotorSpeed(0)
		case c.Throttle && i == rear:
			j.EnableMotor(true)
			j.SetMaxMotorTorque(m.motorTorque)
			j.SetMotorSpeed(spin)
		default:
			j.EnableMotor(false)
		}
	}

	if c.RotateLeft {
		m.bike.ApplyTorque(m.rotTorque, true)
	}
	if c.RotateRight {
		m.bike.ApplyTorque(-m.rotTorque, true)
	}
}

func (m *Moto) observeContacts(events Events) {
	for i, w := range m.wheels {
		touching := false
		for ce := w.GetContactList(); ce != nil; ce = ce.Next {
			if ce.Contact.IsTouching() {
				touching = true
				break
			}
		}
		if touching && !m.touching[i] {
			events.Emit(Event{Kind: EventWheelTouch, Wheel: i, Time: m.time})
		}
		m.touching[i] = touching
	}
}

func (m *Moto) attach(segments *Segments) {
	if m.ground != nil {
		m.world.DestroyBody(m.ground)
		m.ground = nil
	}
	m.attached = segments
	if segments == nil {
		return
	}

	bd := box2d.MakeB2BodyDef()
	m.ground = m.world.CreateBody(&bd)
	for _, e := range segments.Edges() {
		shape := box2d.MakeB2EdgeShape()
		shape.Set(box2d.MakeB2Vec2(e[0].X(), e[0].Y()), box2d.MakeB2Vec2(e[1].X(), e[1].Y()))
		m.ground.CreateFixture(&shape, 0.0)
	}
}

func (m *Moto) sync() {
	m.Bike = objectOf(m.bike)
	for i, w := range m.wheels {
		m.Wheels[i] = objectOf(w)
	}
}

func objectOf(b *box2d.B2Body) Object {
	p := b.GetPosition()
	return Object{Position: mgl64.Vec2{p.X, p.Y}, Angle: b.GetAngle()}
}
