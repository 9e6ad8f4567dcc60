package rig

import "github.com/Carmen-Shannon/oxy-sprinkler/common"

// RigBuilderOption is a functional option for configuring a Rig.
type RigBuilderOption func(*rigImpl)

// WithAngularVelocity sets the turret's constant rate. Zero yields a static jet.
//
// Parameters:
//   - radPerSec: angular velocity in radians per second
//
// Returns:
//   - RigBuilderOption: option function to apply
func WithAngularVelocity(radPerSec float64) RigBuilderOption {
	return func(r *rigImpl) {
		r.angularVelocity = radPerSec
	}
}

// WithBase sets the fixed anchor of the rig.
//
// Parameters:
//   - base: the anchor position
//
// Returns:
//   - RigBuilderOption: option function to apply
func WithBase(base common.Vec3) RigBuilderOption {
	return func(r *rigImpl) {
		r.base = base
	}
}

// WithNozzleOffset sets the nozzle opening relative to the turret pivot.
//
// Parameters:
//   - offset: the local offset before rotation
//
// Returns:
//   - RigBuilderOption: option function to apply
func WithNozzleOffset(offset common.Vec3) RigBuilderOption {
	return func(r *rigImpl) {
		r.nozzleOffset = offset
	}
}

// WithRotation sets the initial turret rotation.
func WithRotation(rad float64) RigBuilderOption {
	return func(r *rigImpl) {
		r.rotation = rad
	}
}
