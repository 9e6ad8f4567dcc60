package wgpu_backend

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-sprinkler/engine/light"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/model"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/particle"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// minInstanceCapacity is the smallest particle instance buffer allocated, in bytes.
const minInstanceCapacity = 16 * 1024

// partEntry ties a part provider to the mesh its buffers were uploaded from.
type partEntry struct {
	provider bind_group_provider.BindGroupProvider
	mesh     *model.Mesh
}

type wgpuBackend struct {
	mu       *sync.Mutex
	released bool

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat  wgpu.TextureFormat
	alphaMode      wgpu.CompositeAlphaMode
	msaaTexture    *wgpu.Texture
	msaaView       *wgpu.TextureView
	depthTexture   *wgpu.Texture
	depthView      *wgpu.TextureView
	passDescriptor *wgpu.RenderPassDescriptor
	width, height  int

	presentMode          PresentMode
	sampleCount          MSAASampleCount
	forceFallbackAdapter bool
	clearOverride        *[4]float32

	// layouts caches bind group layouts by label so the frame group is shared by both pipelines.
	layouts       map[string]*wgpu.BindGroupLayout
	meshPipeline  pipeline.Pipeline
	pointPipeline pipeline.Pipeline

	frame  bind_group_provider.BindGroupProvider
	points bind_group_provider.BindGroupProvider
	parts  map[string]*partEntry

	particleScratch []byte
	warnedLights    bool
}

var _ renderer.Renderer = &wgpuBackend{}

// NewRenderer creates a WebGPU renderer drawing into the surface of a native window.
// Any failure to acquire an adapter, device or pipeline is returned as an error and every
// object created so far is released.
//
// Parameters:
//   - surfaceDescriptor: the platform surface descriptor of the target window
//   - width: initial framebuffer width in pixels
//   - height: initial framebuffer height in pixels
//   - options: backend options
//
// Returns:
//   - renderer.Renderer: the renderer
//   - error: an error if WebGPU is unavailable
func NewRenderer(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...WGPUBackendBuilderOption) (renderer.Renderer, error) {
	if surfaceDescriptor == nil {
		return nil, errors.New("nil surface descriptor")
	}
	runtime.LockOSThread()

	b := &wgpuBackend{
		mu:          &sync.Mutex{},
		presentMode: PresentModeVSync,
		sampleCount: MSAA4x,
		layouts:     make(map[string]*wgpu.BindGroupLayout),
		parts:       make(map[string]*partEntry),
	}
	for _, opt := range options {
		opt(b)
	}

	if err := b.init(surfaceDescriptor); err != nil {
		b.releaseAll()
		return nil, err
	}
	if err := b.configureSurface(width, height); err != nil {
		b.releaseAll()
		return nil, err
	}
	if err := b.createPipelines(); err != nil {
		b.releaseAll()
		return nil, err
	}
	return b, nil
}

func (b *wgpuBackend) init(surfaceDescriptor *wgpu.SurfaceDescriptor) error {
	b.instance = wgpu.CreateInstance(nil)
	if b.instance == nil {
		return errors.New("failed to create WebGPU instance")
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)
	if b.surface == nil {
		return errors.New("failed to create WebGPU surface")
	}

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return fmt.Errorf("failed to request adapter: %w", err)
	}
	b.adapter = adapter

	limits := wgpu.DefaultLimits()
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "Sprinkler Device",
		RequiredLimits: &wgpu.RequiredLimits{Limits: limits},
	})
	if err != nil {
		return fmt.Errorf("failed to request device: %w", err)
	}
	b.device = device
	b.queue = device.GetQueue()

	caps := b.surface.GetCapabilities(b.adapter)
	if len(caps.Formats) == 0 {
		return errors.New("surface reports no supported formats")
	}
	b.surfaceFormat = caps.Formats[0]
	if len(caps.AlphaModes) > 0 {
		b.alphaMode = caps.AlphaModes[0]
	}
	return nil
}

// configureSurface (re)creates the swapchain and the size-dependent attachments.
// Callers hold mu or own b exclusively.
func (b *wgpuBackend) configureSurface(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	b.width, b.height = width, height

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode.toWGPU(),
		AlphaMode:   b.alphaMode,
	})

	b.releaseAttachments()
	count := uint32(b.sampleCount)
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}

	if count > 1 {
		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("failed to create MSAA texture: %w", err)
		}
		b.msaaTexture = tex
		if b.msaaView, err = tex.CreateView(nil); err != nil {
			return fmt.Errorf("failed to create MSAA view: %w", err)
		}
	}

	depth, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("failed to create depth texture: %w", err)
	}
	b.depthTexture = depth
	if b.depthView, err = depth.CreateView(nil); err != nil {
		return fmt.Errorf("failed to create depth view: %w", err)
	}

	// With MSAA the pass renders into the multisample texture and resolves into the
	// swapchain view; without it the swapchain view is the attachment itself.
	storeOp := wgpu.StoreOpStore
	if count > 1 {
		storeOp = wgpu.StoreOpDiscard
	}
	b.passDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    b.msaaView,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: storeOp,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
	return nil
}

func (b *wgpuBackend) createPipelines() error {
	meshVS, meshFS, err := shader.MeshShaders()
	if err != nil {
		return err
	}
	pointVS, pointFS, err := shader.PointShaders()
	if err != nil {
		return err
	}

	b.meshPipeline = pipeline.NewPipeline("mesh",
		pipeline.WithShaders(meshVS, meshFS),
		pipeline.WithCullMode(wgpu.CullModeNone),
		pipeline.WithBlend(nil),
	)
	b.pointPipeline = pipeline.NewPipeline("points",
		pipeline.WithShaders(pointVS, pointFS),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithBlend(pipeline.AdditiveBlend()),
	)
	for _, p := range []pipeline.Pipeline{b.meshPipeline, b.pointPipeline} {
		if err := b.registerPipeline(p); err != nil {
			return fmt.Errorf("failed to create %s pipeline: %w", p.PipelineKey(), err)
		}
	}

	b.frame = bind_group_provider.NewBindGroupProvider("Frame")
	if err := b.initBindGroup(b.frame, shader.FrameBindGroupLayout()); err != nil {
		return err
	}
	b.points = bind_group_provider.NewBindGroupProvider("Points", bind_group_provider.WithInstanceCount(0))
	return b.initBindGroup(b.points, shader.PointBindGroupLayout())
}

// layout returns the cached bind group layout for a descriptor, creating it on first use.
func (b *wgpuBackend) layout(desc wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	if l, ok := b.layouts[desc.Label]; ok {
		return l, nil
	}
	l, err := b.device.CreateBindGroupLayout(&desc)
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group layout %q: %w", desc.Label, err)
	}
	b.layouts[desc.Label] = l
	return l, nil
}

func (b *wgpuBackend) registerPipeline(p pipeline.Pipeline) error {
	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)
	if vertexShader == nil || fragmentShader == nil {
		return errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}

	vs, err := b.device.CreateShaderModule(vertexShader.Module())
	if err != nil {
		return err
	}
	defer vs.Release()
	fs, err := b.device.CreateShaderModule(fragmentShader.Module())
	if err != nil {
		return err
	}
	defer fs.Release()

	merged := mergeBindGroupLayouts(vertexShader.BindGroupLayoutDescriptors(), fragmentShader.BindGroupLayoutDescriptors())
	groups := make([]int, 0, len(merged))
	for g := range merged {
		groups = append(groups, g)
	}
	sort.Ints(groups)
	bindGroupLayouts := make([]*wgpu.BindGroupLayout, 0, len(groups))
	for i, g := range groups {
		if g != i {
			return fmt.Errorf("bind group %d is missing", i)
		}
		l, err := b.layout(merged[g])
		if err != nil {
			return err
		}
		bindGroupLayouts = append(bindGroupLayouts, l)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return err
	}
	defer pipelineLayout.Release()

	target := wgpu.ColorTargetState{
		Format:    b.surfaceFormat,
		WriteMask: p.WriteMask(),
	}
	if p.BlendEnabled() {
		target.Blend = p.BlendState()
	}
	depthCompare := wgpu.CompareFunctionLess
	if !p.DepthTestEnabled() {
		depthCompare = wgpu.CompareFunctionAlways
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    vertexShader.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      depthCompare,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
	})
	if err != nil {
		return err
	}
	p.SetRenderPipeline(created)
	return nil
}

// initBindGroup allocates one uniform buffer per layout entry and the bind group over them.
func (b *wgpuBackend) initBindGroup(provider bind_group_provider.BindGroupProvider, desc wgpu.BindGroupLayoutDescriptor) error {
	l, err := b.layout(desc)
	if err != nil {
		return err
	}

	entries := make([]wgpu.BindGroupEntry, len(desc.Entries))
	for i, entry := range desc.Entries {
		binding := int(entry.Binding)
		buf := provider.Buffer(binding)
		if buf == nil {
			buf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
				Label: fmt.Sprintf("%s Uniform %d", provider.Label(), binding),
				Size:  entry.Buffer.MinBindingSize,
				Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
			})
			if err != nil {
				return fmt.Errorf("failed to create %s uniform buffer: %w", provider.Label(), err)
			}
			provider.SetBuffer(binding, buf)
		}
		entries[i] = wgpu.BindGroupEntry{
			Binding: entry.Binding,
			Buffer:  buf,
			Size:    wgpu.WholeSize,
		}
	}

	// The layout is shared through the cache, so the provider does not take ownership of it.
	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  l,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("failed to create %s bind group: %w", provider.Label(), err)
	}
	provider.SetBindGroup(bindGroup)
	return nil
}

// initMeshBuffers uploads a part mesh into the provider's vertex and index buffers.
func (b *wgpuBackend) initMeshBuffers(provider bind_group_provider.BindGroupProvider, mesh *model.Mesh) error {
	vertexData := mesh.VertexData()
	indexData := mesh.IndexData()
	if len(vertexData) == 0 || len(indexData) == 0 {
		return fmt.Errorf("part %s has an empty mesh", provider.Label())
	}

	vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: provider.Label() + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.queue.WriteBuffer(vb, 0, vertexData)
	provider.SetVertexBuffer(vb, uint64(len(vertexData)))

	ib, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: provider.Label() + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return err
	}
	b.queue.WriteBuffer(ib, 0, indexData)
	provider.SetIndexBuffer(ib)
	provider.SetIndexCount(len(mesh.Indices))
	return nil
}

// part returns the provider for a named part, rebuilding it when the mesh changed.
func (b *wgpuBackend) part(d *renderer.PartDraw) (bind_group_provider.BindGroupProvider, error) {
	if e, ok := b.parts[d.Name]; ok && e.mesh == d.Mesh {
		return e.provider, nil
	} else if ok {
		e.provider.Release()
		delete(b.parts, d.Name)
	}

	p := bind_group_provider.NewBindGroupProvider("Part " + d.Name)
	if err := b.initBindGroup(p, shader.PartBindGroupLayout()); err != nil {
		p.Release()
		return nil, err
	}
	if err := b.initMeshBuffers(p, d.Mesh); err != nil {
		p.Release()
		return nil, err
	}
	b.parts[d.Name] = &partEntry{provider: p, mesh: d.Mesh}
	return p, nil
}

// uploadParticles streams the particle instances, growing the buffer when needed.
func (b *wgpuBackend) uploadParticles(ps []particle.Particle) error {
	var g particle.GPUParticle
	need := uint64(len(ps) * g.Size())
	b.points.SetInstanceCount(len(ps))
	if need == 0 {
		return nil
	}

	if need > b.points.VertexCapacity() {
		capacity := growCapacity(b.points.VertexCapacity(), need)
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Particle Instance Buffer",
			Size:  capacity,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			b.points.SetInstanceCount(0)
			return fmt.Errorf("failed to grow particle buffer: %w", err)
		}
		b.points.SetVertexBuffer(buf, capacity)
		b.particleScratch = make([]byte, capacity)
	}

	n := particle.MarshalParticles(b.particleScratch, ps)
	b.queue.WriteBuffer(b.points.VertexBuffer(), 0, b.particleScratch[:n])
	return nil
}

func (b *wgpuBackend) writeBuffers(writes []bind_group_provider.BufferWrite) {
	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			continue
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

func (b *wgpuBackend) Resize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released || width <= 0 || height <= 0 {
		return
	}
	if width == b.width && height == b.height {
		return
	}
	if err := b.configureSurface(width, height); err != nil {
		log.Printf("[Renderer] resize to %dx%d failed: %v", width, height, err)
	}
}

func (b *wgpuBackend) Draw(frame *renderer.Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return renderer.ErrReleased
	}
	if frame == nil || b.width == 0 || b.height == 0 {
		return nil
	}

	cam := frame.CameraUniform()
	lightData, dropped := light.MarshalUniform(frame.Lights)
	if dropped > 0 && !b.warnedLights {
		log.Printf("[Renderer] %d lights exceed the limit of %d and are ignored", dropped, light.MaxGPULights)
		b.warnedLights = true
	}
	pointUniform := frame.PointUniform(float32(b.width) / float32(b.height))

	writes := []bind_group_provider.BufferWrite{
		bind_group_provider.Uniform(b.frame, 0, cam.Marshal()),
		bind_group_provider.Uniform(b.frame, 1, lightData),
		bind_group_provider.Uniform(b.points, 0, pointUniform.Marshal()),
	}
	drawn := make([]bind_group_provider.BindGroupProvider, 0, len(frame.Parts))
	for i := range frame.Parts {
		d := &frame.Parts[i]
		if d.Mesh == nil {
			continue
		}
		p, err := b.part(d)
		if err != nil {
			return err
		}
		u := d.Uniform()
		writes = append(writes, bind_group_provider.Uniform(p, 0, u.Marshal()))
		drawn = append(drawn, p)
	}
	b.writeBuffers(writes)
	if err := b.uploadParticles(frame.Particles); err != nil {
		return err
	}

	return b.renderPass(frame.ClearColor, drawn)
}

func (b *wgpuBackend) renderPass(clearColor [4]float32, parts []bind_group_provider.BindGroupProvider) error {
	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("failed to acquire surface texture: %w", err)
	}
	defer surfaceTexture.Release()
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	if b.clearOverride != nil {
		clearColor = *b.clearOverride
	}
	attachment := &b.passDescriptor.ColorAttachments[0]
	attachment.ClearValue = wgpu.Color{R: float64(clearColor[0]), G: float64(clearColor[1]), B: float64(clearColor[2]), A: float64(clearColor[3])}
	if b.sampleCount > 1 {
		attachment.ResolveTarget = view
	} else {
		attachment.View = view
	}

	pass := encoder.BeginRenderPass(b.passDescriptor)

	pass.SetPipeline(b.meshPipeline.RenderPipeline())
	pass.SetBindGroup(shader.GroupFrame, b.frame.BindGroup(), nil)
	for _, p := range parts {
		pass.SetBindGroup(shader.GroupObject, p.BindGroup(), nil)
		pass.SetVertexBuffer(0, p.VertexBuffer(), 0, wgpu.WholeSize)
		pass.SetIndexBuffer(p.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(uint32(p.IndexCount()), 1, 0, 0, 0)
	}

	// Points go last: they test against the mesh depth but never write it.
	if n := b.points.InstanceCount(); n > 0 {
		pass.SetPipeline(b.pointPipeline.RenderPipeline())
		pass.SetBindGroup(shader.GroupFrame, b.frame.BindGroup(), nil)
		pass.SetBindGroup(shader.GroupObject, b.points.BindGroup(), nil)
		pass.SetVertexBuffer(0, b.points.VertexBuffer(), 0, wgpu.WholeSize)
		pass.Draw(6, uint32(n), 0, 0)
	}
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	defer commandBuffer.Release()
	b.queue.Submit(commandBuffer)
	b.surface.Present()
	return nil
}

func (b *wgpuBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return
	}
	b.released = true
	b.releaseAll()
}

func (b *wgpuBackend) releaseAttachments() {
	if b.msaaView != nil {
		b.msaaView.Release()
		b.msaaView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthView != nil {
		b.depthView.Release()
		b.depthView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

// releaseAll frees every GPU object in reverse creation order. It tolerates partially
// constructed backends.
func (b *wgpuBackend) releaseAll() {
	for name, e := range b.parts {
		e.provider.Release()
		delete(b.parts, name)
	}
	for _, p := range []bind_group_provider.BindGroupProvider{b.points, b.frame} {
		if p != nil {
			p.Release()
		}
	}
	b.points, b.frame = nil, nil
	for _, p := range []pipeline.Pipeline{b.pointPipeline, b.meshPipeline} {
		if p != nil {
			p.Release()
		}
	}
	b.pointPipeline, b.meshPipeline = nil, nil
	for label, l := range b.layouts {
		l.Release()
		delete(b.layouts, label)
	}
	b.releaseAttachments()
	b.passDescriptor = nil

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
	b.particleScratch = nil
}

// growCapacity doubles the current capacity until it holds need bytes.
//
// Parameters:
//   - current: current capacity in bytes
//   - need: required bytes
//
// Returns:
//   - uint64: the new capacity
func growCapacity(current, need uint64) uint64 {
	c := max(current, minInstanceCapacity)
	for c < need {
		c *= 2
	}
	return c
}

// mergeBindGroupLayouts combines the bind group layout descriptors of the vertex and
// fragment stages. Entries present in both stages have their visibility OR-ed; merged
// entries are sorted by binding.
//
// Parameters:
//   - vertexLayouts: descriptors from the vertex shader keyed by group
//   - fragmentLayouts: descriptors from the fragment shader keyed by group
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors keyed by group index
func mergeBindGroupLayouts(vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor, max(len(vertexLayouts), len(fragmentLayouts)))
	for g, v := range vertexLayouts {
		merged[g] = v
	}
	for g, f := range fragmentLayouts {
		v, ok := merged[g]
		if !ok {
			merged[g] = f
			continue
		}

		byBinding := make(map[uint32]wgpu.BindGroupLayoutEntry, len(v.Entries)+len(f.Entries))
		for _, e := range v.Entries {
			byBinding[e.Binding] = e
		}
		for _, e := range f.Entries {
			if existing, ok := byBinding[e.Binding]; ok {
				existing.Visibility |= e.Visibility
				e = existing
			}
			byBinding[e.Binding] = e
		}
		entries := make([]wgpu.BindGroupLayoutEntry, 0, len(byBinding))
		for _, e := range byBinding {
			entries = append(entries, e)
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})
		merged[g] = wgpu.BindGroupLayoutDescriptor{Label: v.Label, Entries: entries}
	}
	return merged
}
