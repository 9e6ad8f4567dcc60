package model

import (
	"github.com/Carmen-Shannon/oxy-sprinkler/common"
)

// Part is one rigid piece of a model with its own mesh and material.
type Part struct {
	Name string
	Mesh *Mesh
	// Local places the mesh relative to the model origin, or relative to the pivot
	// when Rotates is set.
	Local       [16]float32
	Rotates     bool
	Material    common.Material
	DoubleSided bool
}

// model is the implementation of the Model interface.
type model struct {
	name   string
	parts  []Part
	group  common.Transform
	pivot  common.Vec3
	radius float32
}

// Model is a static rigid assembly of parts. Parts flagged Rotates turn about the
// vertical axis through the pivot, which is how the sprinkler turret follows the rig.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Parts returns the model parts in draw order. The slice must not be modified.
	//
	// Returns:
	//   - []Part: the parts
	Parts() []Part

	// Part looks up a part by name.
	//
	// Parameters:
	//   - name: the part name
	//
	// Returns:
	//   - Part: the part, zero value if missing
	//   - bool: true if the part exists
	Part(name string) (Part, bool)

	// Group returns the transform applied to the whole model.
	//
	// Returns:
	//   - common.Transform: the group transform
	Group() common.Transform

	// GroupMatrix returns the group transform as a matrix. Particle positions, which
	// are simulated in model space, are drawn through this matrix.
	//
	// Returns:
	//   - [16]float32: the group matrix
	GroupMatrix() [16]float32

	// Pivot returns the turret pivot in model space.
	//
	// Returns:
	//   - common.Vec3: the pivot
	Pivot() common.Vec3

	// PartMatrix composes the world matrix of part i for a turret rotation:
	// group * translate(pivot) * rotateY(rotation) * local for rotating parts,
	// group * local otherwise.
	//
	// Parameters:
	//   - i: part index
	//   - rotation: turret rotation in radians
	//
	// Returns:
	//   - [16]float32: the part world matrix
	PartMatrix(i int, rotation float64) [16]float32

	// BoundingRadius returns a radius around the model origin that contains every part
	// at any rotation. Used by frustum culling.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{group: common.IdentityTransform()}
	for _, opt := range options {
		opt(m)
	}
	m.radius = m.computeRadius()
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Parts() []Part {
	return m.parts
}

func (m *model) Part(name string) (Part, bool) {
	for _, p := range m.parts {
		if p.Name == name {
			return p, true
		}
	}
	return Part{}, false
}

func (m *model) Group() common.Transform {
	return m.group
}

func (m *model) GroupMatrix() [16]float32 {
	return m.group.Matrix()
}

func (m *model) Pivot() common.Vec3 {
	return m.pivot
}

func (m *model) PartMatrix(i int, rotation float64) [16]float32 {
	out := m.group.Matrix()
	p := m.parts[i]
	if p.Rotates {
		turret := common.Transform{
			Position: m.pivot,
			Rotation: common.Vec3{0, float32(rotation), 0},
			Scale:    common.Vec3{1, 1, 1},
		}.Matrix()
		common.Mul4(out[:], out[:], turret[:])
	}
	common.Mul4(out[:], out[:], p.Local[:])
	return out
}

func (m *model) BoundingRadius() float32 {
	return m.radius
}

// computeRadius bounds every part by its mesh radius plus the distance of its origin,
// measured in model space before the group transform.
func (m *model) computeRadius() float32 {
	var radius float32
	for _, p := range m.parts {
		if p.Mesh == nil {
			continue
		}
		origin := common.Vec3{p.Local[12], p.Local[13], p.Local[14]}
		if p.Rotates {
			origin = common.Add(origin, m.pivot)
		}
		radius = max(radius, common.Length(origin)+p.Mesh.BoundingRadius())
	}
	return radius
}
