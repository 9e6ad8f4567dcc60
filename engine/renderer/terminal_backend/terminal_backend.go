package terminal_backend

import (
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-sprinkler/common"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/renderer"
	"github.com/gdamore/tcell/v2"
)

// halfBlock draws the upper pixel of a cell in the foreground color and the lower one in
// the background color, giving two roughly square pixels per terminal cell.
const halfBlock = '▀'

type terminalBackend struct {
	mu        *sync.Mutex
	screen    tcell.Screen
	ownScreen bool
	released  bool

	cols, rows int
	// pixels is a cols x (2*rows) framebuffer, row-major.
	pixels []color.RGBA
	list   []renderer.Primitive

	caption        bool
	splatScale     float32
	minSplatRadius float32
}

// TerminalRenderer is a renderer.Renderer that draws into a tcell screen.
type TerminalRenderer interface {
	renderer.Renderer

	// Screen returns the tcell screen, for event polling by the caller.
	//
	// Returns:
	//   - tcell.Screen: the screen
	Screen() tcell.Screen

	// PixelSize returns the framebuffer size: one column per cell and two rows per cell.
	// Cameras should use width/height of this size as their aspect ratio.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	PixelSize() (int, int)
}

var _ TerminalRenderer = &terminalBackend{}

// NewRenderer creates a terminal renderer. When screen is nil a new tcell screen is created
// and initialized, and it is finalized again on Release.
//
// Parameters:
//   - screen: an initialized screen to draw into, or nil
//   - options: backend options
//
// Returns:
//   - TerminalRenderer: the renderer
//   - error: an error if no terminal screen could be initialized
func NewRenderer(screen tcell.Screen, options ...TerminalBackendBuilderOption) (TerminalRenderer, error) {
	t := &terminalBackend{
		mu:             &sync.Mutex{},
		screen:         screen,
		caption:        true,
		splatScale:     1,
		minSplatRadius: 0.5,
	}
	for _, opt := range options {
		opt(t)
	}

	if t.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("failed to create terminal screen: %w", err)
		}
		if err := s.Init(); err != nil {
			return nil, fmt.Errorf("failed to initialize terminal screen: %w", err)
		}
		t.screen = s
		t.ownScreen = true
	}
	t.screen.HideCursor()
	t.resize(t.screen.Size())
	return t, nil
}

func (t *terminalBackend) Screen() tcell.Screen {
	return t.screen
}

func (t *terminalBackend) PixelSize() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cols, t.rows * 2
}

// Resize re-reads the terminal size. The arguments are ignored because the terminal, not
// the caller, owns the cell grid.
func (t *terminalBackend) Resize(_, _ int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return
	}
	t.resize(t.screen.Size())
}

func (t *terminalBackend) resize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		cols, rows = 0, 0
	}
	t.cols, t.rows = cols, rows
	if n := cols * rows * 2; cap(t.pixels) < n {
		t.pixels = make([]color.RGBA, n)
	} else {
		t.pixels = t.pixels[:n]
	}
}

func (t *terminalBackend) Draw(frame *renderer.Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.released {
		return renderer.ErrReleased
	}
	if cols, rows := t.screen.Size(); cols != t.cols || rows != t.rows {
		t.resize(cols, rows)
	}
	if frame == nil || t.cols == 0 {
		return nil
	}

	w, h := t.cols, t.rows*2
	bg := renderer.ClearNRGBA(frame.ClearColor)
	for i := range t.pixels {
		t.pixels[i] = color.RGBA{R: bg.R, G: bg.G, B: bg.B, A: 255}
	}

	p := renderer.NewProjector(frame.ViewProjection, w, h,
		renderer.WithSplatScale(t.splatScale),
		renderer.WithMinSplatRadius(t.minSplatRadius),
	)
	t.list = p.DrawList(frame, t.list)
	for i := range t.list {
		prim := &t.list[i]
		switch prim.Kind {
		case renderer.PrimitiveTriangle:
			t.fillTriangle(&prim.Triangle)
		case renderer.PrimitiveSplat:
			t.fillSplat(&prim.Splat)
		}
	}

	for row := range t.rows {
		for col := range t.cols {
			top := t.pixels[(row*2)*w+col]
			bottom := t.pixels[(row*2+1)*w+col]
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			t.screen.SetContent(col, row, halfBlock, nil, style)
		}
	}
	if t.caption {
		t.drawCaption(fmt.Sprintf(" t=%.1fs  particles=%d ", frame.Elapsed, len(frame.Particles)))
	}
	t.screen.Show()
	return nil
}

func (t *terminalBackend) drawCaption(text string) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	col := 0
	for _, r := range text {
		if col >= t.cols {
			break
		}
		t.screen.SetContent(col, 0, r, nil, style)
		col++
	}
}

func (t *terminalBackend) blend(x, y int, c [3]float32, alpha float32, additive bool) {
	w := t.cols
	if x < 0 || y < 0 || x >= w || y >= t.rows*2 {
		return
	}
	i := y*w + x
	t.pixels[i] = renderer.Blend(t.pixels[i], c, alpha, additive)
}

// fillTriangle covers every pixel whose center lies inside the triangle, either winding.
func (t *terminalBackend) fillTriangle(tri *renderer.Triangle) {
	a, b, c := tri.Points[0], tri.Points[1], tri.Points[2]
	area := edge(a, b, c.X, c.Y)
	if area == 0 {
		return
	}
	minX := int(math.Floor(float64(min(a.X, b.X, c.X))))
	maxX := int(math.Ceil(float64(max(a.X, b.X, c.X))))
	minY := int(math.Floor(float64(min(a.Y, b.Y, c.Y))))
	maxY := int(math.Ceil(float64(max(a.Y, b.Y, c.Y))))
	minX, minY = max(minX, 0), max(minY, 0)
	maxX, maxY = min(maxX, t.cols-1), min(maxY, t.rows*2-1)

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			w0 := edge(b, c, px, py) * area
			w1 := edge(c, a, px, py) * area
			w2 := edge(a, b, px, py) * area
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				t.blend(x, y, tri.Color, tri.Alpha, false)
			}
		}
	}
}

// fillSplat draws a disc whose alpha falls off as 1 - d^2 towards the rim. Splats smaller
// than a pixel light their center pixel in proportion to their area.
func (t *terminalBackend) fillSplat(s *renderer.Splat) {
	cx, cy, r := s.Center.X, s.Center.Y, s.Radius
	if r < 0.75 {
		cover := common.Clamp(math.Pi*r*r, 0, 1)
		t.blend(int(cx), int(cy), s.Color, s.Alpha*cover, s.Additive)
		return
	}
	minX, maxX := int(cx-r), int(cx+r)
	minY, maxY := int(cy-r), int(cy+r)
	for y := minY; y <= maxY; y++ {
		dy := (float32(y) + 0.5 - cy) / r
		for x := minX; x <= maxX; x++ {
			dx := (float32(x) + 0.5 - cx) / r
			d2 := dx*dx + dy*dy
			if d2 > 1 {
				continue
			}
			t.blend(x, y, s.Color, s.Alpha*(1-d2), s.Additive)
		}
	}
}

func (t *terminalBackend) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return
	}
	t.released = true
	if t.ownScreen {
		t.screen.Fini()
	}
	t.pixels = nil
	t.list = nil
}

// edge is the signed doubled area of (a, b, p); its sign tells which side of ab p is on.
func edge(a, b renderer.ScreenPoint, px, py float32) float32 {
	return (b.X-a.X)*(py-a.Y) - (b.Y-a.Y)*(px-a.X)
}
