package renderer

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUPointUniformSource is the canonical WGSL definition of the PointUniform struct.
// Matches GPUPointUniform layout exactly (112 bytes).
//
//go:embed assets/point_uniform.wgsl
var GPUPointUniformSource string

// GPUPointUniform carries the spray point style and the model group matrix for the
// point-sprite pipeline.
// Size: 112 bytes (WGSL uniform aligned).
type GPUPointUniform struct {
	Group     [16]float32 // offset  0: model-space to world matrix
	Color     [3]float32  // offset 64: base point color
	PointSize float32     // offset 76: world size multiplier
	Emissive  [3]float32  // offset 80: emissive color
	Opacity   float32     // offset 92: point opacity
	Aspect    float32     // offset 96: viewport width / height
	_pad      [3]float32  // offset 100: padding to 112 bytes
}

// Size returns the size of the GPUPointUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (112)
func (g *GPUPointUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUPointUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 112-byte buffer ready for GPU upload
func (g *GPUPointUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	put := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
	}
	for i := range 16 {
		put(i*4, g.Group[i])
	}
	for i := range 3 {
		put(64+i*4, g.Color[i])
		put(80+i*4, g.Emissive[i])
	}
	put(76, g.PointSize)
	put(92, g.Opacity)
	put(96, g.Aspect)
	return buf
}

// PointUniform builds the point-sprite uniform for this frame.
//
// Parameters:
//   - aspect: viewport width / height
//
// Returns:
//   - GPUPointUniform: the uniform
func (f *Frame) PointUniform(aspect float32) GPUPointUniform {
	return GPUPointUniform{
		Group:     f.GroupMatrix,
		Color:     f.Points.Color,
		PointSize: f.Points.Size,
		Emissive:  f.Points.Emissive,
		Opacity:   f.Points.Opacity,
		Aspect:    aspect,
	}
}
