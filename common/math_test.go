package common

import (
	"math"
	"testing"
)

const eps = 1e-5

func near(a, b float32) bool {
	return float32(math.Abs(float64(a-b))) < eps
}

func TestRotateY(t *testing.T) {
	tests := []struct {
		name  string
		in    Vec3
		angle float64
		want  Vec3
	}{
		{"zero angle", Vec3{0, 0.4, 0.65}, 0, Vec3{0, 0.4, 0.65}},
		{"quarter turn moves +Z to +X", Vec3{0, 0, 1}, math.Pi / 2, Vec3{1, 0, 0}},
		{"half turn flips", Vec3{1, 2, 0}, math.Pi, Vec3{-1, 2, 0}},
		{"full turn is identity", Vec3{0.3, -1, 0.7}, 2 * math.Pi, Vec3{0.3, -1, 0.7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RotateY(tt.in, tt.angle)
			for i := range got {
				if !near(got[i], tt.want[i]) {
					t.Fatalf("RotateY(%v, %v) = %v, want %v", tt.in, tt.angle, got, tt.want)
				}
			}
		})
	}
}

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	BuildModelMatrix(m[:], Vec3{1, 2, 3}, Vec3{0.1, 0.2, 0.3}, Vec3{1, 2, 3})
	Mul4(out[:], id[:], m[:])
	if out != m {
		t.Fatalf("I*M != M: %v vs %v", out, m)
	}
	Mul4(out[:], m[:], id[:])
	if out != m {
		t.Fatalf("M*I != M: %v vs %v", out, m)
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	var view [16]float32
	LookAt(view[:], 3, 4, 6, 0, 0, 0, 0, 1, 0)
	x, y, z, w := TransformPoint(view[:], Vec3{3, 4, 6})
	if !near(x, 0) || !near(y, 0) || !near(z, 0) || !near(w, 1) {
		t.Fatalf("eye in view space = (%v, %v, %v, %v), want origin", x, y, z, w)
	}
	_, _, z, _ = TransformPoint(view[:], Vec3{0, 0, 0})
	if z >= 0 {
		t.Fatalf("target should be in front of the camera (negative z), got %v", z)
	}
}

func TestFrustumContainsTarget(t *testing.T) {
	var view, proj, vp [16]float32
	LookAt(view[:], 3, 4, 6, 0, 0, 0, 0, 1, 0)
	Perspective(proj[:], math.Pi/4, 16.0/9.0, 0.1, 100)
	Mul4(vp[:], proj[:], view[:])
	f := ExtractFrustumFromMatrix(vp[:])

	if !f.ContainsSphere(Vec3{0, 0, 0}, 0) {
		t.Fatal("target should be inside the frustum")
	}
	if f.ContainsSphere(Vec3{30, 40, 60}, 0.5) {
		t.Fatal("point behind the camera should be culled")
	}
	if f.ContainsSphere(Vec3{-300, -400, -600}, 1) {
		t.Fatal("point past the far plane should be culled")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    [3]float32
		wantErr bool
	}{
		{"#ffffff", [3]float32{1, 1, 1}, false},
		{"000000", [3]float32{0, 0, 0}, false},
		{"#22d3ee", [3]float32{0x22 / 255.0, 0xd3 / 255.0, 0xee / 255.0}, false},
		{"#fff", [3]float32{}, true},
		{"#zzzzzz", [3]float32{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseHexColor(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Fatal("Clamp returned an out-of-range value")
	}
}
