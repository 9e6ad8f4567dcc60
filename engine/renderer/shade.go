package renderer

import (
	"image/color"

	"github.com/Carmen-Shannon/oxy-sprinkler/common"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/light"
)

// ShadeColor evaluates a material under the frame lights and clamps the result to
// displayable range.
//
// Parameters:
//   - lights: the scene lights
//   - mat: surface material
//   - normal: unit world-space normal
//   - position: world-space surface point
//
// Returns:
//   - [3]float32: RGB in [0, 1]
func ShadeColor(lights []light.Light, mat common.Material, normal, position common.Vec3) [3]float32 {
	c := light.Shade(lights, mat.Color, mat.Emissive, normal, position)
	for i := range c {
		c[i] = common.Clamp(c[i], 0, 1)
	}
	return c
}

// ToNRGBA converts a linear color and opacity to 8-bit non-premultiplied RGBA.
func ToNRGBA(c [3]float32, alpha float32) color.NRGBA {
	return color.NRGBA{
		R: to8(c[0]),
		G: to8(c[1]),
		B: to8(c[2]),
		A: to8(alpha),
	}
}

// ClearNRGBA converts a frame clear color to 8-bit RGBA.
func ClearNRGBA(c [4]float32) color.NRGBA {
	return ToNRGBA([3]float32{c[0], c[1], c[2]}, c[3])
}

// Blend composites c with the given coverage over dst. Additive blending adds the
// weighted source like the GPU point pipeline does; otherwise it is source-over.
//
// Parameters:
//   - dst: existing 8-bit color
//   - c: source linear color
//   - alpha: source opacity times coverage
//   - additive: true for additive blending
//
// Returns:
//   - color.RGBA: the blended color (opaque)
func Blend(dst color.RGBA, c [3]float32, alpha float32, additive bool) color.RGBA {
	alpha = common.Clamp(alpha, 0, 1)
	mix := func(d uint8, s float32) uint8 {
		df := float32(d) / 255
		if additive {
			return to8(df + s*alpha)
		}
		return to8(df*(1-alpha) + s*alpha)
	}
	return color.RGBA{R: mix(dst.R, c[0]), G: mix(dst.G, c[1]), B: mix(dst.B, c[2]), A: 255}
}

func to8(v float32) uint8 {
	return uint8(common.Clamp(v, 0, 1)*255 + 0.5)
}
