package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestPreProcessorExpandsIncludes(t *testing.T) {
	src := "#include camera\n#include camera\n  #include vertex\nfn main() {}"
	pp := NewPreProcessor()
	out, err := pp.Process(src)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if strings.Contains(out, "#include") {
		t.Fatalf("directive left in output:\n%s", out)
	}
	if strings.Count(out, "struct CameraUniform") != 1 {
		t.Fatalf("camera struct should be expanded exactly once:\n%s", out)
	}
	if got := pp.Includes(); len(got) != 2 || got[0] != "camera" || got[1] != "vertex" {
		t.Fatalf("Includes = %v", got)
	}
}

func TestPreProcessorErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown", "#include nope"},
		{"missing name", "#include"},
		{"two names", "#include camera light"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPreProcessor().Process(tt.src); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewShaderRejectsEmptySource(t *testing.T) {
	if _, err := NewShader("empty", ShaderTypeVertex, ""); err == nil {
		t.Fatal("expected error for empty source")
	}
}

func TestLibraryShaders(t *testing.T) {
	tests := []struct {
		name   string
		build  func() (Shader, Shader, error)
		stride uint64
		step   wgpu.VertexStepMode
		expect []string
	}{
		{"mesh", MeshShaders, 40, wgpu.VertexStepModeVertex, []string{"struct PartUniform", "struct LightHeader", "struct VertexInput"}},
		{"points", PointShaders, 16, wgpu.VertexStepModeInstance, []string{"struct PointUniform", "struct ParticleInstance"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs, fs, err := tt.build()
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if vs.EntryPoint() != "vs_main" || fs.EntryPoint() != "fs_main" {
				t.Fatalf("entry points %q/%q", vs.EntryPoint(), fs.EntryPoint())
			}
			for _, want := range tt.expect {
				if !strings.Contains(vs.Source(), want) {
					t.Errorf("source missing %q", want)
				}
			}
			layouts := vs.VertexLayouts()
			if len(layouts) != 1 || layouts[0].ArrayStride != tt.stride || layouts[0].StepMode != tt.step {
				t.Fatalf("vertex layouts = %+v", layouts)
			}
			if len(fs.VertexLayouts()) != 0 {
				t.Fatal("fragment shader should not declare vertex buffers")
			}
			if len(vs.BindGroupLayoutDescriptors()) != 2 {
				t.Fatalf("bind groups = %d, want 2", len(vs.BindGroupLayoutDescriptors()))
			}
			if vs.Module() == nil || vs.Module().WGSLDescriptor.Code != vs.Source() {
				t.Fatal("module does not carry the expanded source")
			}
		})
	}
}

func TestFrameLayoutSizes(t *testing.T) {
	d := FrameBindGroupLayout()
	if len(d.Entries) != 2 {
		t.Fatalf("entries = %d", len(d.Entries))
	}
	if d.Entries[0].Buffer.MinBindingSize != 80 {
		t.Fatalf("camera binding size = %d, want 80", d.Entries[0].Buffer.MinBindingSize)
	}
	if d.Entries[1].Buffer.MinBindingSize != 16+8*80 {
		t.Fatalf("light binding size = %d", d.Entries[1].Buffer.MinBindingSize)
	}
}
