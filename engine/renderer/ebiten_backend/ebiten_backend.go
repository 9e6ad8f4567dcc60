package ebiten_backend

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-sprinkler/engine/renderer"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// fanSegments is the number of rim vertices of an additive splat.
const fanSegments = 12

// maxBatchVertices keeps every DrawTriangles batch addressable with uint16 indices.
const maxBatchVertices = math.MaxUint16 - fanSegments - 1

// batchKind is the draw state of the vertices currently batched.
type batchKind int

const (
	batchNone batchKind = iota
	batchOver
	batchLighter
)

type ebitenBackend struct {
	mu       *sync.Mutex
	released bool

	title         string
	width, height int
	layoutW       int
	layoutH       int
	caption       bool

	// list is the last projected frame, handed from Draw (host side) to the game's Draw.
	list      []renderer.Primitive
	elapsed   float32
	particles int
	clear     color.NRGBA

	onUpdate func() error
	onResize func(width, height int)

	white    *ebiten.Image
	vertices []ebiten.Vertex
	indices  []uint16
	kind     batchKind
}

// EbitenRenderer is a renderer.Renderer shown in an ebiten window. The host loop runs inside
// ebiten: the update callback is invoked once per ebiten tick and is expected to advance
// the simulation and call Draw.
type EbitenRenderer interface {
	renderer.Renderer

	// Game returns the ebiten.Game adapter driving this renderer.
	//
	// Returns:
	//   - ebiten.Game: the game
	Game() ebiten.Game

	// Run opens the window and blocks until it is closed, Release is called, or the update
	// callback returns an error.
	//
	// Returns:
	//   - error: the update error, or nil on a normal close
	Run() error

	// SetUpdateCallback sets the per-tick callback.
	SetUpdateCallback(fn func() error)

	// SetResizeCallback sets the callback invoked when the logical screen size changes.
	SetResizeCallback(fn func(width, height int))
}

var _ EbitenRenderer = &ebitenBackend{}

// NewRenderer creates an ebiten-backed renderer. No window is opened until Run.
//
// Parameters:
//   - options: backend options
//
// Returns:
//   - EbitenRenderer: the renderer
func NewRenderer(options ...EbitenBackendBuilderOption) EbitenRenderer {
	b := &ebitenBackend{
		mu:      &sync.Mutex{},
		title:   "Sprinkler",
		width:   1280,
		height:  720,
		caption: true,
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

func (b *ebitenBackend) Game() ebiten.Game {
	return &game{backend: b}
}

func (b *ebitenBackend) Run() error {
	b.mu.Lock()
	w, h, title := b.width, b.height, b.title
	b.mu.Unlock()

	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(b.Game()); err != nil {
		return fmt.Errorf("ebiten loop failed: %w", err)
	}
	return nil
}

func (b *ebitenBackend) SetUpdateCallback(fn func() error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onUpdate = fn
}

func (b *ebitenBackend) SetResizeCallback(fn func(width, height int)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onResize = fn
}

// Resize sets the preferred window size. The drawable size follows the ebiten layout.
func (b *ebitenBackend) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width, b.height = width, height
}

// Draw projects the frame at the current layout size. The projected list is rendered by
// the next ebiten Draw.
func (b *ebitenBackend) Draw(frame *renderer.Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return renderer.ErrReleased
	}
	if frame == nil {
		return nil
	}
	w, h := b.layoutW, b.layoutH
	if w == 0 || h == 0 {
		w, h = b.width, b.height
	}
	p := renderer.NewProjector(frame.ViewProjection, w, h, renderer.WithMinSplatRadius(0.75))
	b.list = p.DrawList(frame, b.list)
	b.elapsed = frame.Elapsed
	b.particles = len(frame.Particles)
	b.clear = renderer.ClearNRGBA(frame.ClearColor)
	b.clear.A = 255
	return nil
}

func (b *ebitenBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return
	}
	b.released = true
	b.list = nil
	if b.white != nil {
		b.white.Deallocate()
		b.white = nil
	}
}

// update runs one ebiten tick.
func (b *ebitenBackend) update() error {
	b.mu.Lock()
	released, fn := b.released, b.onUpdate
	b.mu.Unlock()

	if released {
		return ebiten.Termination
	}
	if fn == nil {
		return nil
	}
	return fn()
}

// layout records the logical screen size and reports changes.
func (b *ebitenBackend) layout(outsideWidth, outsideHeight int) (int, int) {
	b.mu.Lock()
	changed := outsideWidth != b.layoutW || outsideHeight != b.layoutH
	b.layoutW, b.layoutH = outsideWidth, outsideHeight
	fn := b.onResize
	b.mu.Unlock()

	if changed && fn != nil && outsideWidth > 0 && outsideHeight > 0 {
		fn(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// draw renders the last projected frame onto the ebiten screen.
func (b *ebitenBackend) draw(screen *ebiten.Image) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return
	}
	if b.white == nil {
		b.white = ebiten.NewImage(3, 3)
		b.white.Fill(color.White)
	}

	screen.Fill(b.clear)
	src := b.white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	for i := range b.list {
		prim := &b.list[i]
		switch prim.Kind {
		case renderer.PrimitiveTriangle:
			b.appendTriangle(screen, src, &prim.Triangle)
		case renderer.PrimitiveSplat:
			if prim.Splat.Additive {
				b.appendSplat(screen, src, &prim.Splat)
				continue
			}
			b.flush(screen, src)
			s := prim.Splat
			vector.DrawFilledCircle(screen, s.Center.X, s.Center.Y, s.Radius, renderer.ToNRGBA(s.Color, s.Alpha), true)
		}
	}
	b.flush(screen, src)

	if b.caption {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\nt=%.1fs  particles: %d  TPS: %0.1f", b.title, b.elapsed, b.particles, ebiten.ActualTPS()))
	}
}

// begin switches the batch to kind, flushing pending vertices of another kind.
func (b *ebitenBackend) begin(screen, src *ebiten.Image, kind batchKind, vertices int) {
	if b.kind != kind || len(b.vertices)+vertices > maxBatchVertices {
		b.flush(screen, src)
	}
	b.kind = kind
}

func (b *ebitenBackend) flush(screen, src *ebiten.Image) {
	if len(b.indices) > 0 {
		op := &ebiten.DrawTrianglesOptions{AntiAlias: b.kind == batchOver}
		if b.kind == batchLighter {
			op.Blend = ebiten.BlendLighter
		}
		screen.DrawTriangles(b.vertices, b.indices, src, op)
	}
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
	b.kind = batchNone
}

func vertex(x, y float32, c [3]float32, alpha float32) ebiten.Vertex {
	return ebiten.Vertex{
		DstX: x, DstY: y,
		SrcX: 1, SrcY: 1,
		ColorR: c[0], ColorG: c[1], ColorB: c[2], ColorA: alpha,
	}
}

func (b *ebitenBackend) appendTriangle(screen, src *ebiten.Image, tri *renderer.Triangle) {
	b.begin(screen, src, batchOver, 3)
	base := uint16(len(b.vertices))
	for _, p := range tri.Points {
		b.vertices = append(b.vertices, vertex(p.X, p.Y, tri.Color, tri.Alpha))
	}
	b.indices = append(b.indices, base, base+1, base+2)
}

// appendSplat adds a triangle fan whose alpha fades from the center to zero at the rim.
func (b *ebitenBackend) appendSplat(screen, src *ebiten.Image, s *renderer.Splat) {
	b.begin(screen, src, batchLighter, fanSegments+1)
	base := uint16(len(b.vertices))
	b.vertices = append(b.vertices, vertex(s.Center.X, s.Center.Y, s.Color, s.Alpha))
	for i := range fanSegments {
		a := 2 * math.Pi * float64(i) / fanSegments
		x := s.Center.X + s.Radius*float32(math.Cos(a))
		y := s.Center.Y + s.Radius*float32(math.Sin(a))
		b.vertices = append(b.vertices, vertex(x, y, s.Color, 0))
	}
	for i := range uint16(fanSegments) {
		next := (i + 1) % fanSegments
		b.indices = append(b.indices, base, base+1+i, base+1+next)
	}
}

// game adapts the backend to ebiten.Game.
type game struct {
	backend *ebitenBackend
}

var _ ebiten.Game = &game{}

func (g *game) Update() error {
	return g.backend.update()
}

func (g *game) Draw(screen *ebiten.Image) {
	g.backend.draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.backend.layout(outsideWidth, outsideHeight)
}
