package common

import "math"

// Vec3 is a plain 3-component vector used for world-space points and directions.
type Vec3 [3]float32

// Identity writes the 4x4 identity into m (column-major, 16 elements).
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	clear(m[:16])
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Mul4 computes out = a * b for column-major 4x4 matrices. out may alias a or b.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			buf[col*4+row] = sum
		}
	}
	copy(out, buf[:])
}

// Perspective writes a right-handed perspective projection targeting the WebGPU
// clip-space depth range [0, 1].
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport width / height
//   - near: near plane distance (> 0)
//   - far: far plane distance (> near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	clear(out[:16])
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
}

// LookAt writes a view matrix for an eye at (eyeX, eyeY, eyeZ) facing (centerX, centerY, centerZ).
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eyeX, eyeY, eyeZ: eye position in world space
//   - centerX, centerY, centerZ: point the eye looks at
//   - upX, upY, upZ: world up direction
func LookAt(out []float32, eyeX, eyeY, eyeZ, centerX, centerY, centerZ, upX, upY, upZ float32) {
	z := Normalize(Vec3{eyeX - centerX, eyeY - centerY, eyeZ - centerZ})
	x := Normalize(Cross(Vec3{upX, upY, upZ}, z))
	y := Cross(z, x)
	eye := Vec3{eyeX, eyeY, eyeZ}

	out[0], out[4], out[8], out[12] = x[0], x[1], x[2], -Dot(x, eye)
	out[1], out[5], out[9], out[13] = y[0], y[1], y[2], -Dot(y, eye)
	out[2], out[6], out[10], out[14] = z[0], z[1], z[2], -Dot(z, eye)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

// BuildModelMatrix writes a translate * (Ry * Rx * Rz) * scale model matrix (column-major).
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - pos: translation
//   - rot: Euler angles in radians around X, Y and Z
//   - scale: per-axis scale
func BuildModelMatrix(out []float32, pos, rot, scale Vec3) {
	cx, sx := cosSin(rot[0])
	cy, sy := cosSin(rot[1])
	cz, sz := cosSin(rot[2])

	out[0] = (cy*cz + sy*sx*sz) * scale[0]
	out[1] = (cx * sz) * scale[0]
	out[2] = (-sy*cz + cy*sx*sz) * scale[0]
	out[3] = 0

	out[4] = (-cy*sz + sy*sx*cz) * scale[1]
	out[5] = (cx * cz) * scale[1]
	out[6] = (sy*sz + cy*sx*cz) * scale[1]
	out[7] = 0

	out[8] = (sy * cx) * scale[2]
	out[9] = -sx * scale[2]
	out[10] = (cy * cx) * scale[2]
	out[11] = 0

	out[12], out[13], out[14], out[15] = pos[0], pos[1], pos[2], 1
}

// TransformPoint applies the column-major matrix m to p with w = 1 and returns the
// homogeneous result.
func TransformPoint(m []float32, p Vec3) (x, y, z, w float32) {
	x = m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12]
	y = m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13]
	z = m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14]
	w = m[3]*p[0] + m[7]*p[1] + m[11]*p[2] + m[15]
	return
}

// RotateY rotates v around the +Y axis by angle radians (right-handed).
//
// Parameters:
//   - v: the vector to rotate
//   - angle: rotation in radians
//
// Returns:
//   - Vec3: the rotated vector
func RotateY(v Vec3, angle float64) Vec3 {
	s, c := math.Sincos(angle)
	x, z := float64(v[0]), float64(v[2])
	return Vec3{float32(x*c + z*s), v[1], float32(-x*s + z*c)}
}

// Add returns a + b.
func Add(a, b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub returns a - b.
func Sub(a, b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale returns v * s.
func Scale(v Vec3, s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the dot product of a and b.
func Dot(a, b Vec3) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross returns the cross product a x b.
func Cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Length returns the Euclidean length of v.
func Length(v Vec3) float32 {
	return float32(math.Sqrt(float64(Dot(v, v))))
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec3) float32 {
	return Length(Sub(a, b))
}

// Normalize returns v scaled to unit length. A zero vector is returned unchanged.
func Normalize(v Vec3) Vec3 {
	l := Length(v)
	if l == 0 {
		return v
	}
	return Scale(v, 1/l)
}

func cosSin(a float32) (float32, float32) {
	s, c := math.Sincos(float64(a))
	return float32(c), float32(s)
}
