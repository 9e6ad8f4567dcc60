package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-sprinkler/common"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/camera"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/light"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/model"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/particle"
)

// ErrReleased is returned by Draw after the renderer has been released.
var ErrReleased = errors.New("renderer released")

// Renderer draws a fully described Frame onto some render target.
//
// Backends live in their own packages (wgpu_backend, terminal_backend, raster_backend,
// ebiten_backend) so that native dependencies are only linked by programs that use them.
// Every backend must tolerate Release being called more than once, and Draw after
// Release must return ErrReleased without touching freed resources.
type Renderer interface {
	// Resize reconfigures the render target for a new surface size in pixels.
	// Non-positive sizes are ignored.
	//
	// Parameters:
	//   - width: the new width
	//   - height: the new height
	Resize(width, height int)

	// Draw renders one frame.
	//
	// Parameters:
	//   - frame: everything visible this frame
	//
	// Returns:
	//   - error: an error if the frame could not be presented
	Draw(frame *Frame) error

	// Release frees every resource held by the renderer.
	Release()
}

// PartDraw is one model part ready to draw.
type PartDraw struct {
	Name        string
	Mesh        *model.Mesh
	Model       [16]float32 // part-to-world matrix
	Material    common.Material
	DoubleSided bool
}

// Uniform converts the draw into the per-part GPU uniform.
//
// Returns:
//   - model.GPUPartUniform: model matrix plus material
func (d *PartDraw) Uniform() model.GPUPartUniform {
	m := d.Material
	return model.GPUPartUniform{
		Model:     d.Model,
		Color:     [4]float32{m.Color[0], m.Color[1], m.Color[2], m.Opacity},
		Emissive:  m.Emissive,
		Roughness: m.Roughness,
		Metalness: m.Metalness,
	}
}

// PointStyle describes how spray particles are drawn.
type PointStyle struct {
	Color    [3]float32
	Emissive [3]float32
	// Size scales each particle's own size, in world units.
	Size     float32
	Opacity  float32
	Additive bool
}

// Frame carries everything a backend needs to draw one frame. Backends must treat it as
// read-only; the host reuses its slices between frames.
type Frame struct {
	ViewProjection [16]float32
	Eye            common.Vec3

	Lights []light.Light
	Parts  []PartDraw

	// Particles are in model space and are drawn through GroupMatrix.
	Particles   []particle.Particle
	GroupMatrix [16]float32
	Points      PointStyle

	ClearColor [4]float32

	// Elapsed is the simulated time in seconds, shown by backends that print a caption.
	Elapsed float32
}

// CameraUniform builds the camera uniform for GPU backends.
//
// Returns:
//   - camera.GPUCameraUniform: view-projection and eye position
func (f *Frame) CameraUniform() camera.GPUCameraUniform {
	return camera.GPUCameraUniform{ViewProjection: f.ViewProjection, Eye: f.Eye}
}

// ParticleWorld returns the world position of particle i.
//
// Parameters:
//   - i: particle index
//
// Returns:
//   - common.Vec3: world-space position
func (f *Frame) ParticleWorld(i int) common.Vec3 {
	x, y, z, _ := common.TransformPoint(f.GroupMatrix[:], f.Particles[i].Position)
	return common.Vec3{x, y, z}
}

// PointColor is the linear color of a spray point: base color plus emissive, clamped.
//
// Returns:
//   - [3]float32: RGB in [0, 1]
func (s PointStyle) PointColor() [3]float32 {
	var c [3]float32
	for i := range c {
		c[i] = common.Clamp(s.Color[i]+s.Emissive[i]*0.5, 0, 1)
	}
	return c
}
