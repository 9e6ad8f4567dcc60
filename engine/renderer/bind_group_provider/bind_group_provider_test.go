package bind_group_provider

import "testing"

func TestNewBindGroupProvider(t *testing.T) {
	p := NewBindGroupProvider("spray", WithIndexCount(36))
	if p.Label() != "spray" {
		t.Fatalf("label = %q", p.Label())
	}
	if p.IndexCount() != 36 || p.InstanceCount() != 1 {
		t.Fatalf("counts = %d/%d, want 36/1", p.IndexCount(), p.InstanceCount())
	}
	if p.BindGroup() != nil || p.VertexBuffer() != nil || p.Buffer(0) != nil {
		t.Fatal("a fresh provider must hold no GPU resources")
	}
}

func TestInstanceCountNeverNegative(t *testing.T) {
	p := NewBindGroupProvider("spray", WithInstanceCount(-3))
	if p.InstanceCount() != 0 {
		t.Fatalf("instance count = %d", p.InstanceCount())
	}
	p.SetInstanceCount(8000)
	if p.InstanceCount() != 8000 {
		t.Fatalf("instance count = %d", p.InstanceCount())
	}
}

func TestReleaseWithoutResources(t *testing.T) {
	p := NewBindGroupProvider("part")
	p.SetBuffer(0, nil)
	p.Release()
	p.Release()
	if len(p.Buffers()) != 0 || p.VertexCapacity() != 0 {
		t.Fatal("release should clear bookkeeping")
	}
}

func TestUniformWrite(t *testing.T) {
	p := NewBindGroupProvider("frame")
	w := Uniform(p, 1, []byte{1, 2, 3})
	if w.Provider != p || w.Binding != 1 || w.Offset != 0 || len(w.Data) != 3 {
		t.Fatalf("write = %+v", w)
	}
}
