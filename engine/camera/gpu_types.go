package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-sprinkler/common"
)

// GPUCameraUniformSource declares CameraUniform for the mesh and point shaders.
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is bound at group 0 by both render passes. The eye is padded out
// to a full vec4 slot, giving 80 bytes.
type GPUCameraUniform struct {
	ViewProjection [16]float32 // offset  0
	Eye            common.Vec3 // offset 64
	_pad           float32
}

func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal writes the uniform little-endian; the padding word stays zero.
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	words := append(g.ViewProjection[:], g.Eye[:]...)
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(w))
	}
	return buf
}
