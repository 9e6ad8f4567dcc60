package shader

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-sprinkler/engine/camera"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/light"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/model"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/particle"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

// Bind group indices shared by the mesh and point pipelines.
const (
	// GroupFrame holds the camera (binding 0) and light (binding 1) uniforms.
	GroupFrame = 0
	// GroupObject holds the per-part uniform for meshes or the point uniform for sprays.
	GroupObject = 1
)

//go:embed assets/mesh.wgsl
var meshSource string

//go:embed assets/points.wgsl
var pointsSource string

const stageVertexFragment = wgpu.ShaderStageVertex | wgpu.ShaderStageFragment

func uniformEntry(binding uint32, size int) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: stageVertexFragment,
		Buffer: wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: uint64(size),
		},
	}
}

// FrameBindGroupLayout describes group 0: the camera uniform and the light uniform.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout
func FrameBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	var cam camera.GPUCameraUniform
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Frame Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(0, cam.Size()),
			uniformEntry(1, light.UniformSize),
		},
	}
}

// PartBindGroupLayout describes group 1 of the mesh pipeline: one model part uniform.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout
func PartBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	var u model.GPUPartUniform
	return wgpu.BindGroupLayoutDescriptor{
		Label:   "Part Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, u.Size())},
	}
}

// PointBindGroupLayout describes group 1 of the point pipeline: the point style uniform.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout
func PointBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	var u renderer.GPUPointUniform
	return wgpu.BindGroupLayoutDescriptor{
		Label:   "Point Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, u.Size())},
	}
}

// MeshVertexLayout is the interleaved position/normal/color layout of model.GPUVertex.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout for vertex slot 0
func MeshVertexLayout() wgpu.VertexBufferLayout {
	var v model.GPUVertex
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(v.Size()),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 24, ShaderLocation: 2},
		},
	}
}

// ParticleInstanceLayout is the per-instance layout of particle.GPUParticle.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout for vertex slot 0 of the point pipeline
func ParticleInstanceLayout() wgpu.VertexBufferLayout {
	var p particle.GPUParticle
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(p.Size()),
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32, Offset: 12, ShaderLocation: 1},
		},
	}
}

// MeshShaders builds the lit mesh vertex and fragment shaders.
//
// Returns:
//   - Shader: vertex stage
//   - Shader: fragment stage
//   - error: an error if the source could not be expanded
func MeshShaders() (Shader, Shader, error) {
	return pair("mesh", meshSource, PartBindGroupLayout(), MeshVertexLayout())
}

// PointShaders builds the instanced point-sprite vertex and fragment shaders.
//
// Returns:
//   - Shader: vertex stage
//   - Shader: fragment stage
//   - error: an error if the source could not be expanded
func PointShaders() (Shader, Shader, error) {
	return pair("points", pointsSource, PointBindGroupLayout(), ParticleInstanceLayout())
}

func pair(key, source string, object wgpu.BindGroupLayoutDescriptor, vertex wgpu.VertexBufferLayout) (Shader, Shader, error) {
	layouts := []ShaderBuilderOption{
		WithBindGroupLayout(GroupFrame, FrameBindGroupLayout()),
		WithBindGroupLayout(GroupObject, object),
	}
	vs, err := NewShader(key+"_vs", ShaderTypeVertex, source, append(layouts, WithVertexLayouts(vertex))...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build %s vertex shader: %w", key, err)
	}
	fs, err := NewShader(key+"_fs", ShaderTypeFragment, source, layouts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build %s fragment shader: %w", key, err)
	}
	return vs, fs, nil
}
