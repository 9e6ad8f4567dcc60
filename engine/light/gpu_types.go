package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// MaxGPULights is the number of light slots in the GPU light uniform. Ambient
// lights do not take a slot; they are folded into the header.
const MaxGPULights = 8

// GPULightSource is the canonical WGSL definition of the Light struct.
// Matches GPULight layout exactly (80 bytes).
//
//go:embed assets/light.wgsl
var GPULightSource string

// GPULight is the GPU-aligned representation of a single light source.
// Size: 80 bytes (WGSL uniform aligned).
type GPULight struct {
	Position     [3]float32 // offset  0: world-space position (point/spot)
	LightType    uint32     // offset 12: LightType value
	Color        [3]float32 // offset 16: RGB color (sky color for hemisphere)
	Intensity    float32    // offset 28: scalar multiplier
	Direction    [3]float32 // offset 32: normalized direction (directional/spot)
	LightRange   float32    // offset 44: attenuation cutoff, 0 = unbounded
	GroundColor  [3]float32 // offset 48: hemisphere ground color
	CastsShadows uint32     // offset 60: 1 = shadow caster
	InnerCone    float32    // offset 64: cos(inner half-angle) for spot
	OuterCone    float32    // offset 68: cos(outer half-angle) for spot
	_pad         [2]uint32  // offset 72: padding to 80 bytes
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.put(buf)
	return buf
}

func (g *GPULight) put(buf []byte) {
	putVec3 := func(off int, v [3]float32) {
		for i := range 3 {
			binary.LittleEndian.PutUint32(buf[off+i*4:], math.Float32bits(v[i]))
		}
	}
	putVec3(0, g.Position)
	binary.LittleEndian.PutUint32(buf[12:16], g.LightType)
	putVec3(16, g.Color)
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Intensity))
	putVec3(32, g.Direction)
	binary.LittleEndian.PutUint32(buf[44:48], math.Float32bits(g.LightRange))
	putVec3(48, g.GroundColor)
	binary.LittleEndian.PutUint32(buf[60:64], g.CastsShadows)
	binary.LittleEndian.PutUint32(buf[64:68], math.Float32bits(g.InnerCone))
	binary.LittleEndian.PutUint32(buf[68:72], math.Float32bits(g.OuterCone))
}

// GPULightHeaderSource is the canonical WGSL definition of the LightHeader struct.
// Matches GPULightHeader layout exactly (16 bytes).
//
//go:embed assets/light_header.wgsl
var GPULightHeaderSource string

// GPULightHeader is the header preceding the light array in the light uniform.
// Size: 16 bytes (vec3 + u32).
type GPULightHeader struct {
	AmbientColor [3]float32 // offset 0: summed ambient RGB
	LightCount   uint32     // offset 12: number of populated light slots
}

// Size returns the size of the GPULightHeader struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (h *GPULightHeader) Size() int {
	return int(unsafe.Sizeof(*h))
}

// Marshal serializes the GPULightHeader struct into a byte buffer suitable for
// GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (h *GPULightHeader) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(h.AmbientColor[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(h.AmbientColor[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(h.AmbientColor[2]))
	binary.LittleEndian.PutUint32(buf[12:16], h.LightCount)
	return buf
}

// UniformSize is the byte size of the light uniform: header plus MaxGPULights slots.
const UniformSize = 16 + MaxGPULights*80

// ToGPU converts a light to its GPU record.
//
// Parameters:
//   - l: the light to convert
//
// Returns:
//   - GPULight: the GPU record
func ToGPU(l Light) GPULight {
	g := GPULight{
		Position:    l.Position(),
		LightType:   uint32(l.Type()),
		Color:       l.Color(),
		Intensity:   l.Intensity(),
		Direction:   l.Direction(),
		LightRange:  l.Range(),
		GroundColor: l.GroundColor(),
		InnerCone:   l.InnerCone(),
		OuterCone:   l.OuterCone(),
	}
	if l.CastsShadows() {
		g.CastsShadows = 1
	}
	return g
}

// MarshalUniform packs enabled lights into a UniformSize buffer. Ambient lights are
// summed into the header; the rest fill slots in order and lights past
// MaxGPULights are dropped.
//
// Parameters:
//   - lights: the scene lights
//
// Returns:
//   - []byte: the light uniform bytes
//   - int: number of lights that did not fit
func MarshalUniform(lights []Light) ([]byte, int) {
	buf := make([]byte, UniformSize)
	var header GPULightHeader
	dropped := 0
	for _, l := range lights {
		if !l.Enabled() {
			continue
		}
		if l.Type() == LightTypeAmbient {
			c := l.Color()
			for i := range 3 {
				header.AmbientColor[i] += c[i] * l.Intensity()
			}
			continue
		}
		if header.LightCount >= MaxGPULights {
			dropped++
			continue
		}
		g := ToGPU(l)
		g.put(buf[16+int(header.LightCount)*g.Size():])
		header.LightCount++
	}
	copy(buf, header.Marshal())
	return buf, dropped
}
