package model

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-sprinkler/common"
)

func TestGPUTypeSizes(t *testing.T) {
	var v GPUVertex
	var u GPUPartUniform
	if v.Size() != 40 || len(v.Marshal()) != 40 {
		t.Fatalf("GPUVertex size = %d, want 40", v.Size())
	}
	if u.Size() != 112 || len(u.Marshal()) != 112 {
		t.Fatalf("GPUPartUniform size = %d, want 112", u.Size())
	}
}

func TestCylinderGeometry(t *testing.T) {
	tests := []struct {
		name      string
		openEnded bool
		wantVerts int
		wantTris  int
	}{
		{"closed", false, 2*9 + 2*(1+9), 2*8 + 2*8},
		{"open", true, 2 * 9, 2 * 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Cylinder(0.5, 0.5, 2, 8, tt.openEnded, [4]float32{1, 1, 1, 1})
			if len(m.Vertices) != tt.wantVerts {
				t.Fatalf("vertices = %d, want %d", len(m.Vertices), tt.wantVerts)
			}
			if m.TriangleCount() != tt.wantTris {
				t.Fatalf("triangles = %d, want %d", m.TriangleCount(), tt.wantTris)
			}
			for _, idx := range m.Indices {
				if int(idx) >= len(m.Vertices) {
					t.Fatalf("index %d out of range", idx)
				}
			}
			want := float32(math.Sqrt(0.25 + 1))
			if got := m.BoundingRadius(); math.Abs(float64(got-want)) > 1e-5 {
				t.Fatalf("bounding radius = %v, want %v", got, want)
			}
		})
	}
}

func TestBoxNormalsPointOutward(t *testing.T) {
	m := Box(1, 2, 3, [4]float32{1, 0, 0, 1})
	if len(m.Vertices) != 24 || m.TriangleCount() != 12 {
		t.Fatalf("box has %d vertices and %d triangles", len(m.Vertices), m.TriangleCount())
	}
	for i, v := range m.Vertices {
		if common.Dot(v.Position, v.Normal) <= 0 {
			t.Fatalf("vertex %d normal %v points inward at %v", i, v.Normal, v.Position)
		}
	}
	if len(m.VertexData()) != 24*40 || len(m.IndexData()) != 36*4 {
		t.Fatal("serialized buffer sizes do not match the mesh")
	}
}

func TestSprinklerParts(t *testing.T) {
	s := NewSprinkler()
	rotating := map[string]bool{
		PartBase: false, PartCap: false, PartRiser: false,
		PartTurretBody: true, PartCollar: true, PartTopCap: true,
		PartNozzle: true, PartInsert: true, PartJet: true,
	}
	if len(s.Parts()) != len(rotating) {
		t.Fatalf("sprinkler has %d parts, want %d", len(s.Parts()), len(rotating))
	}
	for name, want := range rotating {
		p, ok := s.Part(name)
		if !ok {
			t.Fatalf("missing part %q", name)
		}
		if p.Rotates != want {
			t.Errorf("part %q rotates = %v, want %v", name, p.Rotates, want)
		}
	}
	if jet, _ := s.Part(PartJet); !jet.Material.Transparent() || !jet.DoubleSided {
		t.Error("jet core should be a transparent double-sided part")
	}
}

func TestPartMatrixFollowsTurret(t *testing.T) {
	s := NewSprinkler()
	idx := -1
	for i, p := range s.Parts() {
		if p.Name == PartNozzle {
			idx = i
		}
	}

	tests := []struct {
		name     string
		rotation float64
		want     common.Vec3
	}{
		{"rest", 0, common.Vec3{0, 1.4, 0.35}},
		{"quarter turn", math.Pi / 2, common.Vec3{0.35, 1.4, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := s.PartMatrix(idx, tt.rotation)
			x, y, z, _ := common.TransformPoint(m[:], common.Vec3{})
			if common.Distance(common.Vec3{x, y, z}, tt.want) > 1e-5 {
				t.Fatalf("nozzle origin = (%v, %v, %v), want %v", x, y, z, tt.want)
			}
		})
	}

	base := s.PartMatrix(0, 1.0)
	x, y, z, _ := common.TransformPoint(base[:], common.Vec3{})
	if (common.Vec3{x, y, z}) != SprinklerGroupOffset {
		t.Fatalf("static base moved to (%v, %v, %v)", x, y, z)
	}
}

func TestBoundingRadiusCoversParts(t *testing.T) {
	s := NewSprinkler()
	r := s.BoundingRadius()
	for i, p := range s.Parts() {
		m := s.PartMatrix(i, 0.7)
		g := s.GroupMatrix()
		for _, v := range p.Mesh.Vertices {
			x, y, z, _ := common.TransformPoint(m[:], v.Position)
			pos := common.Sub(common.Vec3{x, y, z}, common.Vec3{g[12], g[13], g[14]})
			if common.Length(pos) > r+1e-4 {
				t.Fatalf("part %q vertex at distance %v exceeds radius %v", p.Name, common.Length(pos), r)
			}
		}
	}
}
