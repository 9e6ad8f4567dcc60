package rig

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-sprinkler/common"
)

// Default rig geometry, in the model space of the sprinkler mesh.
const (
	DefaultAngularVelocity = 0.8
)

var (
	// DefaultBase is the turret pivot (top of the riser).
	DefaultBase = common.Vec3{0, 3, 0}
	// DefaultNozzleOffset is the nozzle opening relative to the turret pivot.
	DefaultNozzleOffset = common.Vec3{0, 0.4, 0.65}
)

// View is the read-only face of a rig handed to consumers such as the particle field.
// Implementations must be safe to query many times within one frame.
type View interface {
	// Rotation returns the current turret rotation in radians.
	//
	// Returns:
	//   - float64: the accumulated rotation (not wrapped)
	Rotation() float64

	// AngularVelocity returns the turret's constant angular rate in radians per second.
	//
	// Returns:
	//   - float64: the angular velocity
	AngularVelocity() float64

	// NozzlePosition returns the nozzle opening for the current rotation.
	// It never mutates the rig.
	//
	// Returns:
	//   - common.Vec3: the nozzle position
	NozzlePosition() common.Vec3

	// Base returns the fixed anchor of the rig.
	//
	// Returns:
	//   - common.Vec3: the anchor position
	Base() common.Vec3
}

// Rig is a kinematic sprinkler: a static base and a turret turning at a constant rate.
// Only the rotation scalar changes after construction.
type Rig interface {
	View

	// Advance turns the turret by AngularVelocity * dt. Accumulation is purely additive
	// so Advance(a) followed by Advance(b) equals Advance(a + b).
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Advance(dt float32)

	// NozzleOffset returns the constant nozzle offset from the turret pivot.
	//
	// Returns:
	//   - common.Vec3: the local offset
	NozzleOffset() common.Vec3

	// SetRotation overrides the accumulated turret rotation.
	//
	// Parameters:
	//   - rad: the new rotation in radians
	SetRotation(rad float64)
}

type rigImpl struct {
	mu *sync.RWMutex

	rotation        float64
	angularVelocity float64
	base            common.Vec3
	nozzleOffset    common.Vec3
}

var _ Rig = &rigImpl{}

// NewRig creates a rig at rotation 0 with the default geometry and angular velocity,
// then applies the given options.
//
// Parameters:
//   - options: functional options to configure the rig
//
// Returns:
//   - Rig: the new rig
func NewRig(options ...RigBuilderOption) Rig {
	r := &rigImpl{
		mu:              &sync.RWMutex{},
		angularVelocity: DefaultAngularVelocity,
		base:            DefaultBase,
		nozzleOffset:    DefaultNozzleOffset,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *rigImpl) Advance(dt float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rotation += r.angularVelocity * float64(dt)
}

func (r *rigImpl) Rotation() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rotation
}

func (r *rigImpl) AngularVelocity() float64 {
	return r.angularVelocity
}

func (r *rigImpl) NozzlePosition() common.Vec3 {
	r.mu.RLock()
	rot := r.rotation
	r.mu.RUnlock()
	return common.Add(r.base, common.RotateY(r.nozzleOffset, rot))
}

func (r *rigImpl) Base() common.Vec3 {
	return r.base
}

func (r *rigImpl) NozzleOffset() common.Vec3 {
	return r.nozzleOffset
}

func (r *rigImpl) SetRotation(rad float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rotation = rad
}

// Snapshot is an immutable View captured from a rig at one instant.
// The particle field update reads this instead of the live rig so parallel
// workers all see the same rotation.
type Snapshot struct {
	rotation        float64
	angularVelocity float64
	nozzle          common.Vec3
	base            common.Vec3
}

var _ View = Snapshot{}

// Capture copies the current state of v into a Snapshot.
//
// Parameters:
//   - v: the rig to capture
//
// Returns:
//   - Snapshot: the captured state
func Capture(v View) Snapshot {
	return Snapshot{
		rotation:        v.Rotation(),
		angularVelocity: v.AngularVelocity(),
		nozzle:          v.NozzlePosition(),
		base:            v.Base(),
	}
}

func (s Snapshot) Rotation() float64           { return s.rotation }
func (s Snapshot) AngularVelocity() float64    { return s.angularVelocity }
func (s Snapshot) NozzlePosition() common.Vec3 { return s.nozzle }
func (s Snapshot) Base() common.Vec3           { return s.base }
