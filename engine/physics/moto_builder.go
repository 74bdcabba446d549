package physics

import "github.com/go-gl/mathgl/mgl64"

type MotoBuilderOption func(*Moto)

// WithGravity sets the world gravity.
//
// Parameters:
//   - g: gravity in world units per second squared
//
// Returns:
//   - MotoBuilderOption: a function that sets the gravity
func WithGravity(g mgl64.Vec2) MotoBuilderOption {
	return func(m *Moto) {
		m.gravity = g
	}
}

// WithStep sets the fixed substep length in simulation seconds. Non-positive values are ignored.
//
// Parameters:
//   - step: the substep length
//
// Returns:
//   - MotoBuilderOption: a function that sets the substep
func WithStep(step float64) MotoBuilderOption {
	return func(m *Moto) {
		if step > 0 {
			m.step = step
		}
	}
}

// WithMaxSubsteps caps the substeps taken by one Advance. Values below 1 are ignored.
//
// Parameters:
//   - n: the substep cap
//
// Returns:
//   - MotoBuilderOption: a function that sets the cap
func WithMaxSubsteps(n int) MotoBuilderOption {
	return func(m *Moto) {
		if n > 0 {
			m.maxSubsteps = n
		}
	}
}

// WithMotor sets the drive wheel's target angular speed and torque.
//
// Parameters:
//   - speed: target angular speed in radians per second
//   - torque: maximum motor torque
//
// Returns:
//   - MotoBuilderOption: a function that sets the motor
func WithMotor(speed, torque float64) MotoBuilderOption {
	return func(m *Moto) {
		m.motorSpeed = speed
		m.motorTorque = torque
	}
}

// WithRotationTorque sets the torque applied to the bike body by the rotate controls.
//
// Parameters:
//   - torque: the rotation torque
//
// Returns:
//   - MotoBuilderOption: a function that sets the rotation torque
func WithRotationTorque(torque float64) MotoBuilderOption {
	return func(m *Moto) {
		m.rotTorque = torque
	}
}
