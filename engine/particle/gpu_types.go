package particle

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUParticleSource is the canonical WGSL definition of the ParticleInstance struct.
// Matches GPUParticle layout exactly (16 bytes).
//
//go:embed assets/particle_instance.wgsl
var GPUParticleSource string

// GPUParticle is the per-instance record uploaded for the point-sprite pipeline.
// Size: 16 bytes, no padding.
type GPUParticle struct {
	Position  [3]float32 // offset  0: droplet position in model space
	PointSize float32    // offset 12: droplet size in world units
}

// Size returns the size of the GPUParticle struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (g *GPUParticle) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUParticle struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer
func (g *GPUParticle) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.put(buf)
	return buf
}

func (g *GPUParticle) put(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.PointSize))
}

// MarshalParticles packs as many particles as fit into buf as GPUParticle records.
//
// Parameters:
//   - buf: destination buffer
//   - ps: particles to pack
//
// Returns:
//   - int: number of bytes written
func MarshalParticles(buf []byte, ps []Particle) int {
	var g GPUParticle
	stride := g.Size()
	n := min(len(buf)/stride, len(ps))
	for i := 0; i < n; i++ {
		g.Position = ps[i].Position
		g.PointSize = ps[i].Size
		g.put(buf[i*stride:])
	}
	return n * stride
}
