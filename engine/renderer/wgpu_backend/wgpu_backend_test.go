package wgpu_backend

import (
	"errors"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-sprinkler/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestGrowCapacity(t *testing.T) {
	tests := []struct {
		name          string
		current, need uint64
		want          uint64
	}{
		{"minimum", 0, 16, minInstanceCapacity},
		{"fits", 64 * 1024, 1000, 64 * 1024},
		{"doubles", minInstanceCapacity, minInstanceCapacity + 1, 2 * minInstanceCapacity},
		{"8000 particles", 0, 8000 * 16, 128 * 1024},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := growCapacity(tt.current, tt.need); got != tt.want {
				t.Fatalf("growCapacity(%d, %d) = %d, want %d", tt.current, tt.need, got, tt.want)
			}
		})
	}
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "frame", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 1, Visibility: wgpu.ShaderStageVertex},
		}},
		1: {Label: "part", Entries: []wgpu.BindGroupLayoutEntry{{Binding: 0, Visibility: wgpu.ShaderStageVertex}}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "frame", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 1, Visibility: wgpu.ShaderStageFragment},
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)
	if len(merged) != 2 {
		t.Fatalf("merged %d groups, want 2", len(merged))
	}
	frame := merged[0]
	if len(frame.Entries) != 2 || frame.Entries[0].Binding != 0 || frame.Entries[1].Binding != 1 {
		t.Fatalf("frame entries not merged and sorted: %+v", frame.Entries)
	}
	if frame.Entries[1].Visibility != wgpu.ShaderStageVertex|wgpu.ShaderStageFragment {
		t.Fatalf("shared binding visibility = %v", frame.Entries[1].Visibility)
	}
	if merged[1].Label != "part" {
		t.Fatalf("vertex-only group lost: %+v", merged[1])
	}
}

func TestOptions(t *testing.T) {
	b := &wgpuBackend{presentMode: PresentModeVSync, sampleCount: MSAA4x}
	for _, opt := range []WGPUBackendBuilderOption{
		WithPresentMode(PresentModeUncapped),
		WithMSAA(MSAASampleCount(3)),
		WithForceSoftwareRenderer(true),
		WithClearColor([4]float32{0, 0, 0, 1}),
	} {
		opt(b)
	}
	if b.presentMode.toWGPU() != wgpu.PresentModeImmediate {
		t.Fatal("uncapped should present immediately")
	}
	if b.sampleCount != MSAA4x {
		t.Fatalf("invalid sample count accepted: %d", b.sampleCount)
	}
	if !b.forceFallbackAdapter || b.clearOverride == nil || b.clearOverride[3] != 1 {
		t.Fatalf("options not applied: %+v", b)
	}
	WithMSAA(MSAAOff)(b)
	if b.sampleCount != MSAAOff {
		t.Fatal("MSAAOff should be accepted")
	}
	if PresentModeVSync.toWGPU() != wgpu.PresentModeFifo {
		t.Fatal("vsync should use FIFO presentation")
	}
}

func TestNewRendererRejectsNilSurface(t *testing.T) {
	if _, err := NewRenderer(nil, 640, 480); err == nil {
		t.Fatal("expected an error for a nil surface descriptor")
	}
}

func TestReleasedBackend(t *testing.T) {
	b := &wgpuBackend{mu: &sync.Mutex{}}
	b.Release()
	b.Release()
	if err := b.Draw(&renderer.Frame{}); !errors.Is(err, renderer.ErrReleased) {
		t.Fatalf("Draw after Release = %v, want ErrReleased", err)
	}
	b.Resize(800, 600)
	if b.width != 0 {
		t.Fatal("resize after release should be ignored")
	}
}
