package model

import (
	"math"

	"github.com/Carmen-Shannon/oxy-sprinkler/common"
)

// Part names of the sprinkler model.
const (
	PartBase       = "base"
	PartCap        = "cap"
	PartRiser      = "riser"
	PartTurretBody = "turret_body"
	PartCollar     = "collar"
	PartTopCap     = "top_cap"
	PartNozzle     = "nozzle"
	PartInsert     = "nozzle_insert"
	PartJet        = "jet_core"
)

var (
	// SprinklerGroupOffset lowers the model so the turret sits near the middle of the view.
	SprinklerGroupOffset = common.Vec3{0, -2, 0}
	// SprinklerPivot is the turret pivot in model space.
	SprinklerPivot = common.Vec3{0, 3, 0}
)

func solid(hex string, roughness, metalness float32) common.Material {
	return common.Material{Color: common.MustHexColor(hex), Roughness: roughness, Metalness: metalness, Opacity: 1}
}

func rgba(m common.Material) [4]float32 {
	return [4]float32{m.Color[0], m.Color[1], m.Color[2], m.Opacity}
}

func at(pos, rot common.Vec3) [16]float32 {
	return common.Transform{Position: pos, Rotation: rot, Scale: common.Vec3{1, 1, 1}}.Matrix()
}

func cylinderPart(name string, r, h float32, segments int, pos common.Vec3, rotates bool, mat common.Material) Part {
	return Part{
		Name:     name,
		Mesh:     Cylinder(r, r, h, segments, false, rgba(mat)),
		Local:    at(pos, common.Vec3{}),
		Rotates:  rotates,
		Material: mat,
	}
}

// NewSprinkler builds the rotor sprinkler: a static housing and riser plus a turret
// (body, collar, cap, nozzle, insert and jet core) that turns with the rig.
// Extra options are applied after the default parts.
//
// Parameters:
//   - options: additional ModelBuilderOption functions
//
// Returns:
//   - Model: the sprinkler model
func NewSprinkler(options ...ModelBuilderOption) Model {
	insert := common.Material{
		Color:     common.MustHexColor("#06b6d4"),
		Roughness: 0.1,
		Opacity:   0.7,
	}
	jet := common.Material{
		Color:     common.MustHexColor("#06b6d4"),
		Emissive:  common.Scale(common.MustHexColor("#22d3ee"), 0.5),
		Roughness: 0.1,
		Metalness: 0.1,
		Opacity:   0.6,
	}

	// The jet core hangs off a tilted group in front of the nozzle; the cone itself is
	// laid along +Z with its narrow end toward the nozzle.
	var jetLocal [16]float32
	jetGroup := at(common.Vec3{0, 0.4, 0.7}, common.Vec3{0.15, 0, 0})
	jetCone := at(common.Vec3{0, 0, 0.5}, common.Vec3{-math.Pi / 2, 0, 0})
	common.Mul4(jetLocal[:], jetGroup[:], jetCone[:])

	defaults := []ModelBuilderOption{
		WithName("sprinkler"),
		WithGroup(common.Transform{Position: SprinklerGroupOffset, Scale: common.Vec3{1, 1, 1}}),
		WithPivot(SprinklerPivot),
		WithPart(cylinderPart(PartBase, 0.6, 3.5, 32, common.Vec3{0, 0, 0}, false, solid("#1e293b", 0.7, 0.2))),
		WithPart(cylinderPart(PartCap, 0.7, 0.1, 32, common.Vec3{0, 1.8, 0}, false, solid("#0f172a", 0.5, 0))),
		WithPart(cylinderPart(PartRiser, 0.4, 3, 32, common.Vec3{0, 1.5, 0}, false, solid("#334155", 0.6, 0.4))),
		WithPart(cylinderPart(PartTurretBody, 0.45, 1.2, 32, common.Vec3{0, 0.2, 0}, true, solid("#0f172a", 0.2, 0.1))),
		WithPart(cylinderPart(PartCollar, 0.46, 0.05, 32, common.Vec3{0, 0.81, 0}, true, solid("#1e293b", 0.9, 0))),
		WithPart(cylinderPart(PartTopCap, 0.1, 0.02, 16, common.Vec3{0, 0.84, 0}, true, solid("#94a3b8", 0.3, 0.8))),
		WithPart(Part{
			Name:     PartNozzle,
			Mesh:     Box(0.4, 0.5, 0.5, rgba(solid("#0f172a", 0.2, 0))),
			Local:    at(common.Vec3{0, 0.4, 0.35}, common.Vec3{0.1, 0, 0}),
			Rotates:  true,
			Material: solid("#0f172a", 0.2, 0),
		}),
		WithPart(Part{
			Name:     PartInsert,
			Mesh:     Box(0.15, 0.25, 0.05, rgba(insert)),
			Local:    at(common.Vec3{0, 0.4, 0.61}, common.Vec3{0.1, 0, 0}),
			Rotates:  true,
			Material: insert,
		}),
		WithPart(Part{
			Name:        PartJet,
			Mesh:        Cylinder(0.04, 0.15, 1.2, 8, true, rgba(jet)),
			Local:       jetLocal,
			Rotates:     true,
			Material:    jet,
			DoubleSided: true,
		}),
	}
	return NewModel(append(defaults, options...)...)
}
