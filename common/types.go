// package common contains plain value types and math helpers shared across the engine. They are not
// interface-wrapped structs, just data.
package common

// Material describes the surface response of a mesh part. Values follow the
// metalness/roughness model; backends that cannot shade use Color and Emissive only.
type Material struct {
	// Color is the base albedo (RGB in [0, 1]).
	Color [3]float32
	// Emissive is added to the shaded color regardless of lighting.
	Emissive [3]float32
	// Roughness in [0, 1]; 1 is fully diffuse.
	Roughness float32
	// Metalness in [0, 1].
	Metalness float32
	// Opacity in [0, 1]; values below 1 are alpha blended.
	Opacity float32
}

// Transparent reports whether the material needs alpha blending.
func (m Material) Transparent() bool {
	return m.Opacity < 1
}

// Transform is a translate/rotate/scale triple. Rotation is Euler XYZ in radians,
// applied in Y * X * Z order by BuildModelMatrix.
type Transform struct {
	Position Vec3
	Rotation Vec3
	Scale    Vec3
}

// IdentityTransform returns a transform with unit scale and no offset.
func IdentityTransform() Transform {
	return Transform{Scale: Vec3{1, 1, 1}}
}

// Matrix writes the transform into a column-major 4x4 matrix.
//
// Returns:
//   - [16]float32: the model matrix
func (t Transform) Matrix() [16]float32 {
	var m [16]float32
	BuildModelMatrix(m[:], t.Position, t.Rotation, t.Scale)
	return m
}
