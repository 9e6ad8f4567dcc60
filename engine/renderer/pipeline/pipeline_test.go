package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-sprinkler/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("mesh")
	if !p.DepthTestEnabled() || !p.DepthWriteEnabled() || p.BlendEnabled() {
		t.Fatal("default pipeline should depth test and write without blending")
	}
	if p.Topology() != wgpu.PrimitiveTopologyTriangleList || p.CullMode() != wgpu.CullModeNone {
		t.Fatalf("topology %v cull %v", p.Topology(), p.CullMode())
	}
	if p.RenderPipeline() != nil {
		t.Fatal("GPU pipeline must not exist before registration")
	}
	p.Release()
}

func TestPointPipelineOptions(t *testing.T) {
	vs, fs, err := shader.PointShaders()
	if err != nil {
		t.Fatalf("PointShaders: %v", err)
	}
	p := NewPipeline("points",
		WithShaders(vs, fs),
		WithDepthWriteEnabled(false),
		WithBlend(AdditiveBlend()),
	)
	if p.DepthWriteEnabled() || !p.DepthTestEnabled() {
		t.Fatal("points should depth test without writing depth")
	}
	if !p.BlendEnabled() || p.BlendState().Color.DstFactor != wgpu.BlendFactorOne {
		t.Fatalf("blend = %+v, want additive", p.BlendState())
	}
	if p.Shader(shader.ShaderTypeVertex) != vs || p.Shader(shader.ShaderTypeFragment) != fs {
		t.Fatal("shaders not stored by stage")
	}
}

func TestWithBlendNilKeepsPreset(t *testing.T) {
	p := NewPipeline("translucent", WithBlend(nil))
	if !p.BlendEnabled() || p.BlendState().Color.DstFactor != wgpu.BlendFactorOneMinusSrcAlpha {
		t.Fatalf("blend = %+v, want alpha preset", p.BlendState())
	}
}
