package light

import (
	"math"

	"github.com/Carmen-Shannon/oxy-sprinkler/common"
)

// StudioRig returns the engineering-studio lighting used around the sprinkler:
// a bright ambient fill, a white/steel hemisphere, a narrow key spot that casts
// shadows, a cyan fill point light and a white rim spot from behind.
//
// Returns:
//   - []Light: the five studio lights
func StudioRig() []Light {
	origin := common.Vec3{}
	return []Light{
		NewLight(LightTypeAmbient, WithIntensity(0.8)),
		NewLight(LightTypeHemisphere,
			WithIntensity(1.0),
			WithColor(common.MustHexColor("#ffffff")),
			WithGroundColor(common.MustHexColor("#507088")),
		),
		NewLight(LightTypeSpot,
			WithPosition(common.Vec3{10, 10, 10}),
			WithTarget(origin),
			WithSpotCone(0.2, 1),
			WithIntensity(3),
			WithCastsShadows(true),
		),
		NewLight(LightTypePoint,
			WithPosition(common.Vec3{-5, 5, -5}),
			WithIntensity(2),
			WithColor(common.MustHexColor("#22d3ee")),
			WithRange(10),
		),
		NewLight(LightTypeSpot,
			WithPosition(common.Vec3{0, 5, -5}),
			WithTarget(origin),
			WithSpotCone(0.5, 0),
			WithIntensity(5),
		),
	}
}

// Irradiance returns the light arriving at a surface point with the given normal.
// Distance falloff is inverse-square, cut off smoothly at Range when set; spot
// lights additionally fade between the outer and inner cone.
//
// Parameters:
//   - l: the light
//   - normal: unit surface normal
//   - position: world-space surface position
//
// Returns:
//   - [3]float32: incoming RGB irradiance
func Irradiance(l Light, normal, position common.Vec3) [3]float32 {
	if !l.Enabled() {
		return [3]float32{}
	}
	c := l.Color()
	k := l.Intensity()

	switch l.Type() {
	case LightTypeAmbient:
	case LightTypeHemisphere:
		w := 0.5*normal[1] + 0.5
		g := l.GroundColor()
		for i := range c {
			c[i] = g[i] + (c[i]-g[i])*w
		}
	case LightTypeDirectional:
		k *= max(0, -common.Dot(normal, l.Direction()))
	case LightTypePoint, LightTypeSpot:
		toLight := common.Sub(l.Position(), position)
		dist := common.Length(toLight)
		if dist == 0 {
			return [3]float32{}
		}
		dir := common.Scale(toLight, 1/dist)
		k *= max(0, common.Dot(normal, dir)) * attenuation(dist, l.Range())
		if l.Type() == LightTypeSpot {
			k *= smoothstep(l.OuterCone(), l.InnerCone(), -common.Dot(dir, l.Direction()))
		}
	}
	return [3]float32{c[0] * k, c[1] * k, c[2] * k}
}

// Shade evaluates a Lambertian surface under lights and adds its emissive term.
// The result is linear RGB and may exceed 1.
//
// Parameters:
//   - lights: the lights to accumulate
//   - albedo: surface base color
//   - emissive: emitted color
//   - normal: unit surface normal
//   - position: world-space surface position
//
// Returns:
//   - [3]float32: shaded linear RGB
func Shade(lights []Light, albedo, emissive [3]float32, normal, position common.Vec3) [3]float32 {
	var sum [3]float32
	for _, l := range lights {
		e := Irradiance(l, normal, position)
		sum[0] += e[0]
		sum[1] += e[1]
		sum[2] += e[2]
	}
	const invPi = 1 / math.Pi
	return [3]float32{
		albedo[0]*sum[0]*invPi + emissive[0],
		albedo[1]*sum[1]*invPi + emissive[1],
		albedo[2]*sum[2]*invPi + emissive[2],
	}
}

func attenuation(dist, cutoff float32) float32 {
	a := 1 / max(dist*dist, 0.01)
	if cutoff > 0 {
		r := dist / cutoff
		f := common.Clamp(1-r*r*r*r, 0, 1)
		a *= f * f
	}
	return a
}

func smoothstep(edge0, edge1, x float32) float32 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := common.Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}
