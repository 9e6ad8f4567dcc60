package common

// Plane is the set of points p with Dot(Normal, p) + Distance = 0.
// The positive half-space is the inside of the owning frustum.
type Plane struct {
	Normal   Vec3
	Distance float32
}

// Frustum holds the six clip planes of a view-projection matrix.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// ExtractFrustumFromMatrix builds the frustum of a column-major view-projection
// matrix using the Gribb/Hartmann plane extraction. The near plane follows the
// WebGPU clip-space depth range [0, 1].
//
// Parameters:
//   - viewProj: 16 floats, column-major
//
// Returns:
//   - Frustum: the frustum with unit-length plane normals
func ExtractFrustumFromMatrix(viewProj []float32) Frustum {
	row := func(i int) [4]float32 {
		return [4]float32{viewProj[i], viewProj[4+i], viewProj[8+i], viewProj[12+i]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	combos := [6][4]float32{}
	for k := 0; k < 4; k++ {
		combos[FrustumLeft][k] = r3[k] + r0[k]
		combos[FrustumRight][k] = r3[k] - r0[k]
		combos[FrustumBottom][k] = r3[k] + r1[k]
		combos[FrustumTop][k] = r3[k] - r1[k]
		combos[FrustumNear][k] = r2[k]
		combos[FrustumFar][k] = r3[k] - r2[k]
	}

	var f Frustum
	for i, c := range combos {
		n := Vec3{c[0], c[1], c[2]}
		l := Length(n)
		if l > 0 {
			f.Planes[i] = Plane{Normal: Scale(n, 1/l), Distance: c[3] / l}
			continue
		}
		f.Planes[i] = Plane{Normal: n, Distance: c[3]}
	}
	return f
}

// ContainsSphere reports whether a sphere at center with the given radius
// intersects or lies inside the frustum.
//
// Parameters:
//   - center: sphere center in world space
//   - radius: sphere radius (0 tests a point)
//
// Returns:
//   - bool: false only when the sphere is fully outside one plane
func (f *Frustum) ContainsSphere(center Vec3, radius float32) bool {
	for _, p := range f.Planes {
		if Dot(p.Normal, center)+p.Distance < -radius {
			return false
		}
	}
	return true
}
