package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-sprinkler/common"
)

func TestStudioRig(t *testing.T) {
	rig := StudioRig()
	wantTypes := []LightType{LightTypeAmbient, LightTypeHemisphere, LightTypeSpot, LightTypePoint, LightTypeSpot}
	if len(rig) != len(wantTypes) {
		t.Fatalf("studio rig has %d lights, want %d", len(rig), len(wantTypes))
	}
	for i, want := range wantTypes {
		if rig[i].Type() != want {
			t.Errorf("light %d type = %v, want %v", i, rig[i].Type(), want)
		}
	}

	key := rig[2]
	if !key.CastsShadows() {
		t.Error("key spot should cast shadows")
	}
	// Full penumbra: the inner cone collapses to the axis.
	if math.Abs(float64(key.InnerCone()-1)) > 1e-6 {
		t.Errorf("key inner cone = %v, want 1", key.InnerCone())
	}
	if math.Abs(float64(key.OuterCone())-math.Cos(0.2)) > 1e-6 {
		t.Errorf("key outer cone = %v, want cos(0.2)", key.OuterCone())
	}
	wantDir := common.Normalize(common.Vec3{-1, -1, -1})
	if common.Distance(key.Direction(), wantDir) > 1e-5 {
		t.Errorf("key direction = %v, want %v", key.Direction(), wantDir)
	}

	fill := rig[3]
	if fill.Range() != 10 || fill.Color() != common.MustHexColor("#22d3ee") {
		t.Errorf("fill light = range %v color %v", fill.Range(), fill.Color())
	}
}

func TestHemisphereBlendsByNormal(t *testing.T) {
	h := NewLight(LightTypeHemisphere, WithColor([3]float32{1, 1, 1}), WithGroundColor([3]float32{0, 0, 0}))
	tests := []struct {
		name   string
		normal common.Vec3
		want   float32
	}{
		{"up", common.Vec3{0, 1, 0}, 1},
		{"side", common.Vec3{1, 0, 0}, 0.5},
		{"down", common.Vec3{0, -1, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Irradiance(h, tt.normal, common.Vec3{})
			if math.Abs(float64(got[0]-tt.want)) > 1e-6 {
				t.Fatalf("irradiance = %v, want %v", got[0], tt.want)
			}
		})
	}
}

func TestSpotConeAndRange(t *testing.T) {
	spot := NewLight(LightTypeSpot,
		WithPosition(common.Vec3{0, 5, 0}),
		WithTarget(common.Vec3{}),
		WithSpotCone(0.3, 0),
		WithRange(10),
	)
	up := common.Vec3{0, 1, 0}

	if got := Irradiance(spot, up, common.Vec3{}); got[0] <= 0 {
		t.Fatal("point on the cone axis should be lit")
	}
	if got := Irradiance(spot, up, common.Vec3{5, 0, 0}); got[0] != 0 {
		t.Fatalf("point outside the cone lit with %v", got[0])
	}
	if got := Irradiance(spot, up, common.Vec3{0, -6, 0}); got[0] != 0 {
		t.Fatalf("point beyond range lit with %v", got[0])
	}

	spot.SetEnabled(false)
	if got := Irradiance(spot, up, common.Vec3{}); got[0] != 0 {
		t.Fatal("disabled light contributed")
	}
}

func TestShadeAddsEmissive(t *testing.T) {
	lights := []Light{NewLight(LightTypeAmbient, WithIntensity(math.Pi))}
	got := Shade(lights, [3]float32{0.5, 0.25, 0}, [3]float32{0, 0, 0.1}, common.Vec3{0, 1, 0}, common.Vec3{})
	want := [3]float32{0.5, 0.25, 0.1}
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > 1e-5 {
			t.Fatalf("Shade = %v, want %v", got, want)
		}
	}
}

func TestMarshalUniform(t *testing.T) {
	var g GPULight
	var h GPULightHeader
	if g.Size() != 80 || h.Size() != 16 {
		t.Fatalf("sizes = %d/%d, want 80/16", g.Size(), h.Size())
	}

	buf, dropped := MarshalUniform(StudioRig())
	if len(buf) != UniformSize || dropped != 0 {
		t.Fatalf("uniform len %d dropped %d", len(buf), dropped)
	}
	if count := binary.LittleEndian.Uint32(buf[12:16]); count != 4 {
		t.Fatalf("light count = %d, want 4 (ambient folded into the header)", count)
	}
	if amb := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])); math.Abs(float64(amb-0.8)) > 1e-6 {
		t.Fatalf("ambient = %v, want 0.8", amb)
	}

	many := make([]Light, MaxGPULights+3)
	for i := range many {
		many[i] = NewLight(LightTypePoint)
	}
	if _, dropped := MarshalUniform(many); dropped != 3 {
		t.Fatalf("dropped = %d, want 3", dropped)
	}
}
