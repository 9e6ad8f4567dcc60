package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-sprinkler/common"
)

func TestDefaultControllerMatchesStudioEye(t *testing.T) {
	cc := NewController()
	if d := common.Distance(cc.Position(), common.Vec3{3, 4, 6}); d > 1e-4 {
		t.Fatalf("eye = %v, want (3, 4, 6)", cc.Position())
	}
	if r := cc.Radius(); math.Abs(float64(r)-math.Sqrt(61)) > 1e-4 {
		t.Fatalf("radius = %v, want sqrt(61)", r)
	}
	lo, hi := cc.ElevationBounds()
	if lo != 0 || math.Abs(float64(hi)-math.Pi/4) > 1e-6 {
		t.Fatalf("elevation bounds = [%v, %v], want [0, pi/4]", lo, hi)
	}
}

func TestPolarClamp(t *testing.T) {
	tests := []struct {
		name string
		dy   float32
		want float32
	}{
		{"drag far down clamps to the top", 10000, math.Pi / 4},
		{"drag far up clamps to the horizon", -10000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := NewController(WithPolarBounds(math.Pi/4, math.Pi/2))
			cc.Drag(0, tt.dy)
			if got := cc.Elevation(); math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Fatalf("elevation = %v, want %v", got, tt.want)
			}
			if cc.Position()[1] < -1e-5 {
				t.Fatalf("camera went below the target plane: %v", cc.Position())
			}
		})
	}
}

func TestDragKeepsRadius(t *testing.T) {
	cc := NewController()
	before := cc.Radius()
	cc.Drag(120, -30)
	cc.OrbitLeft()
	cc.OrbitUp()
	if got := common.Distance(cc.Position(), cc.Target()); math.Abs(float64(got-before)) > 1e-4 {
		t.Fatalf("distance to target = %v, want %v", got, before)
	}
}

func TestPanAndZoomDisabledByDefault(t *testing.T) {
	cc := NewController()
	pos, target := cc.Position(), cc.Target()
	cc.Zoom(5)
	cc.Pan(1, 1)
	if cc.Position() != pos || cc.Target() != target {
		t.Fatal("pan or zoom moved a controller that has them disabled")
	}

	zc := NewController(WithZoom(2, 20))
	zc.Zoom(100)
	if zc.Radius() != 2 {
		t.Fatalf("zoom radius = %v, want clamp to 2", zc.Radius())
	}
}

func TestSetAspectUpdatesProjection(t *testing.T) {
	c := NewCamera(WithController(NewController()))
	before := c.ProjectionMatrix()

	c.SetAspect(2)
	after := c.ProjectionMatrix()
	if c.Aspect() != 2 {
		t.Fatalf("aspect = %v, want 2", c.Aspect())
	}
	if math.Abs(float64(after[0]*2-after[5])) > 1e-5 {
		t.Fatalf("projection x scale %v does not match aspect 2 (y scale %v)", after[0], after[5])
	}
	if before == after {
		t.Fatal("projection did not change")
	}

	c.SetAspect(0)
	c.SetAspect(float32(math.Inf(1)))
	if c.Aspect() != 2 {
		t.Fatalf("invalid aspect was applied: %v", c.Aspect())
	}
}

func TestUniformCarriesEye(t *testing.T) {
	c := NewCamera(WithController(NewController()))
	u := c.Uniform()
	if u.Size() != 80 || len(u.Marshal()) != 80 {
		t.Fatalf("uniform size = %d, want 80", u.Size())
	}
	if common.Distance(u.Eye, common.Vec3{3, 4, 6}) > 1e-4 {
		t.Fatalf("uniform eye = %v", u.Eye)
	}
	if u.ViewProjection != c.ViewProjectionMatrix() {
		t.Fatal("uniform matrix differs from the camera")
	}
}

func TestTargetProjectsToScreenCenter(t *testing.T) {
	c := NewCamera(WithController(NewController()), WithAspect(16.0/9.0))
	vp := c.ViewProjectionMatrix()
	x, y, _, w := common.TransformPoint(vp[:], common.Vec3{})
	if math.Abs(float64(x/w)) > 1e-5 || math.Abs(float64(y/w)) > 1e-5 {
		t.Fatalf("target NDC = (%v, %v), want center", x/w, y/w)
	}
}

func TestUniformMarshalLayout(t *testing.T) {
	u := GPUCameraUniform{Eye: common.Vec3{3, 4, 6}}
	u.ViewProjection[15] = 1
	buf := u.Marshal()

	tests := []struct {
		off  int
		want float32
	}{
		{60, 1},
		{64, 3},
		{68, 4},
		{72, 6},
		{76, 0},
	}
	for _, tt := range tests {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[tt.off:])); got != tt.want {
			t.Fatalf("word at offset %d = %v, want %v", tt.off, got, tt.want)
		}
	}
}
