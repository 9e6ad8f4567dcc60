package model

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct for mesh pipelines.
// Matches GPUVertex layout exactly (40 bytes).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// Size: 40 bytes, no padding required.
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in part space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal for lighting (12 bytes)
	Color    [4]float32 // offset 24: per-vertex RGBA color (16 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 40-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 40)
	g.put(buf)
	return buf
}

func (g *GPUVertex) put(buf []byte) {
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Position[i]))
		binary.LittleEndian.PutUint32(buf[12+i*4:], math.Float32bits(g.Normal[i]))
	}
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[24+i*4:], math.Float32bits(g.Color[i]))
	}
}

// GPUPartUniformSource is the canonical WGSL definition of the PartUniform struct.
// Matches GPUPartUniform layout exactly (112 bytes).
//
//go:embed assets/part_uniform.wgsl
var GPUPartUniformSource string

// GPUPartUniform carries the per-part model matrix and material for the mesh pipeline.
// Size: 112 bytes (WGSL uniform aligned).
type GPUPartUniform struct {
	Model     [16]float32 // offset  0: part-to-world matrix
	Color     [4]float32  // offset 64: base color (rgb) and opacity (a)
	Emissive  [3]float32  // offset 80: emissive color
	Roughness float32     // offset 92
	Metalness float32     // offset 96
	_pad      [3]float32  // offset 100: padding to 112 bytes
}

// Size returns the size of the GPUPartUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (112)
func (g *GPUPartUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUPartUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 112-byte buffer ready for GPU upload.
func (g *GPUPartUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
	}
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Color[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[80+i*4:], math.Float32bits(g.Emissive[i]))
	}
	binary.LittleEndian.PutUint32(buf[92:], math.Float32bits(g.Roughness))
	binary.LittleEndian.PutUint32(buf[96:], math.Float32bits(g.Metalness))
	return buf
}
