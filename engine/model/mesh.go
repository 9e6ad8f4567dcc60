package model

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/oxy-sprinkler/common"
)

// Mesh is an indexed triangle list in part space.
type Mesh struct {
	Vertices []GPUVertex
	Indices  []uint32
}

// VertexData serializes every vertex for a GPU vertex buffer.
//
// Returns:
//   - []byte: len(Vertices) * 40 bytes
func (m *Mesh) VertexData() []byte {
	var v GPUVertex
	stride := v.Size()
	buf := make([]byte, len(m.Vertices)*stride)
	for i := range m.Vertices {
		m.Vertices[i].put(buf[i*stride:])
	}
	return buf
}

// IndexData serializes the indices as little-endian uint32.
//
// Returns:
//   - []byte: len(Indices) * 4 bytes
func (m *Mesh) IndexData() []byte {
	buf := make([]byte, len(m.Indices)*4)
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// BoundingRadius returns the largest vertex distance from the part origin.
//
// Returns:
//   - float32: the bounding sphere radius
func (m *Mesh) BoundingRadius() float32 {
	var maxDistSq float32
	for _, v := range m.Vertices {
		p := v.Position
		if d := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]; d > maxDistSq {
			maxDistSq = d
		}
	}
	return float32(math.Sqrt(float64(maxDistSq)))
}

func (m *Mesh) add(pos, normal common.Vec3, color [4]float32) uint32 {
	m.Vertices = append(m.Vertices, GPUVertex{Position: pos, Normal: normal, Color: color})
	return uint32(len(m.Vertices) - 1)
}

// Cylinder builds a Y-axis cylinder centered on the origin with the top ring at +height/2.
// Unequal radii produce a truncated cone.
//
// Parameters:
//   - radiusTop: radius of the ring at +height/2
//   - radiusBottom: radius of the ring at -height/2
//   - height: distance between the rings
//   - segments: radial subdivisions (minimum 3)
//   - openEnded: skip the top and bottom caps
//   - color: RGBA vertex color
//
// Returns:
//   - *Mesh: the generated mesh
func Cylinder(radiusTop, radiusBottom, height float32, segments int, openEnded bool, color [4]float32) *Mesh {
	segments = max(segments, 3)
	m := &Mesh{}
	half := height / 2
	slope := (radiusBottom - radiusTop) / height

	// Side: row 0 is the top ring, row 1 the bottom ring, with a duplicated seam column.
	var rows [2][]uint32
	for row, y := range [2]float32{half, -half} {
		radius := radiusTop
		if row == 1 {
			radius = radiusBottom
		}
		for x := 0; x <= segments; x++ {
			theta := 2 * math.Pi * float64(x) / float64(segments)
			sin, cos := float32(math.Sin(theta)), float32(math.Cos(theta))
			normal := common.Normalize(common.Vec3{sin, slope, cos})
			rows[row] = append(rows[row], m.add(common.Vec3{radius * sin, y, radius * cos}, normal, color))
		}
	}
	for x := 0; x < segments; x++ {
		a, b := rows[0][x], rows[1][x]
		c, d := rows[1][x+1], rows[0][x+1]
		m.Indices = append(m.Indices, a, b, d, b, c, d)
	}

	if openEnded {
		return m
	}
	capRing := func(radius, y, sign float32) {
		if radius <= 0 {
			return
		}
		normal := common.Vec3{0, sign, 0}
		center := m.add(common.Vec3{0, y, 0}, normal, color)
		first := uint32(len(m.Vertices))
		for x := 0; x <= segments; x++ {
			theta := 2 * math.Pi * float64(x) / float64(segments)
			m.add(common.Vec3{radius * float32(math.Sin(theta)), y, radius * float32(math.Cos(theta))}, normal, color)
		}
		for x := uint32(0); x < uint32(segments); x++ {
			if sign > 0 {
				m.Indices = append(m.Indices, first+x, first+x+1, center)
			} else {
				m.Indices = append(m.Indices, first+x+1, first+x, center)
			}
		}
	}
	capRing(radiusTop, half, 1)
	capRing(radiusBottom, -half, -1)
	return m
}

// Box builds an axis-aligned box centered on the origin with flat-shaded faces.
//
// Parameters:
//   - width: extent along X
//   - height: extent along Y
//   - depth: extent along Z
//   - color: RGBA vertex color
//
// Returns:
//   - *Mesh: the generated mesh
func Box(width, height, depth float32, color [4]float32) *Mesh {
	m := &Mesh{}
	hx, hy, hz := width/2, height/2, depth/2
	faces := []struct {
		normal  common.Vec3
		corners [4]common.Vec3
	}{
		{common.Vec3{1, 0, 0}, [4]common.Vec3{{hx, -hy, hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}}},
		{common.Vec3{-1, 0, 0}, [4]common.Vec3{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}}},
		{common.Vec3{0, 1, 0}, [4]common.Vec3{{-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}, {-hx, hy, -hz}}},
		{common.Vec3{0, -1, 0}, [4]common.Vec3{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}}},
		{common.Vec3{0, 0, 1}, [4]common.Vec3{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}}},
		{common.Vec3{0, 0, -1}, [4]common.Vec3{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}}},
	}
	for _, f := range faces {
		base := uint32(len(m.Vertices))
		for _, c := range f.corners {
			m.add(c, f.normal, color)
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}
