package raster_backend

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-sprinkler/engine/renderer"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847

type rasterBackend struct {
	mu       *sync.Mutex
	released bool

	width, height int
	supersample   int
	title         string
	caption       bool
	fontSize      float64

	// hi is the supersampled canvas, out the downscaled result.
	hi   *image.RGBA
	out  *image.RGBA
	mask *image.Alpha
	z    *vector.Rasterizer
	face font.Face
	list []renderer.Primitive
}

// RasterRenderer renders frames into an in-memory image.
type RasterRenderer interface {
	renderer.Renderer

	// Image returns the most recently drawn frame. The image is reused by the next Draw.
	//
	// Returns:
	//   - *image.RGBA: the frame, nil after Release
	Image() *image.RGBA

	// WritePNG encodes the most recently drawn frame as PNG.
	//
	// Parameters:
	//   - w: destination writer
	//
	// Returns:
	//   - error: an error if encoding fails or the renderer was released
	WritePNG(w io.Writer) error
}

var _ RasterRenderer = &rasterBackend{}

// NewRenderer creates an offscreen renderer producing width x height images.
//
// Parameters:
//   - width: image width in pixels
//   - height: image height in pixels
//   - options: backend options
//
// Returns:
//   - RasterRenderer: the renderer
//   - error: an error if the size is invalid or the caption font cannot be loaded
func NewRenderer(width, height int, options ...RasterBackendBuilderOption) (RasterRenderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}
	r := &rasterBackend{
		mu:          &sync.Mutex{},
		supersample: 2,
		title:       "Sprinkler",
		caption:     true,
		fontSize:    14,
		z:           &vector.Rasterizer{},
		mask:        &image.Alpha{},
	}
	for _, opt := range options {
		opt(r)
	}

	if r.caption {
		tt, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("failed to parse caption font: %w", err)
		}
		r.face, err = opentype.NewFace(tt, &opentype.FaceOptions{
			Size:    r.fontSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create caption face: %w", err)
		}
	}
	r.resize(width, height)
	return r, nil
}

func (r *rasterBackend) resize(width, height int) {
	r.width, r.height = width, height
	s := r.supersample
	r.hi = image.NewRGBA(image.Rect(0, 0, width*s, height*s))
	r.out = image.NewRGBA(image.Rect(0, 0, width, height))
}

func (r *rasterBackend) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released || width <= 0 || height <= 0 || (width == r.width && height == r.height) {
		return
	}
	r.resize(width, height)
}

func (r *rasterBackend) Image() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.out
}

func (r *rasterBackend) WritePNG(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return renderer.ErrReleased
	}
	if err := png.Encode(w, r.out); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

func (r *rasterBackend) Draw(frame *renderer.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return renderer.ErrReleased
	}
	if frame == nil {
		return nil
	}

	bg := renderer.ClearNRGBA(frame.ClearColor)
	bg.A = 255
	draw.Draw(r.hi, r.hi.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	s := float32(r.supersample)
	b := r.hi.Bounds()
	p := renderer.NewProjector(frame.ViewProjection, b.Dx(), b.Dy(), renderer.WithMinSplatRadius(0.5*s))
	r.list = p.DrawList(frame, r.list)
	for i := range r.list {
		prim := &r.list[i]
		switch prim.Kind {
		case renderer.PrimitiveTriangle:
			r.fillTriangle(&prim.Triangle)
		case renderer.PrimitiveSplat:
			r.fillSplat(&prim.Splat)
		}
	}

	draw.CatmullRom.Scale(r.out, r.out.Bounds(), r.hi, b, draw.Src, nil)
	if r.face != nil {
		r.drawCaption(fmt.Sprintf("%s  t=%.1fs  %d particles", r.title, frame.Elapsed, len(frame.Particles)))
	}
	return nil
}

// clip returns the integer pixel box covering [minX, maxX] x [minY, maxY], clipped to the canvas.
func (r *rasterBackend) clip(minX, minY, maxX, maxY float32) image.Rectangle {
	box := image.Rect(
		int(math.Floor(float64(minX))), int(math.Floor(float64(minY))),
		int(math.Ceil(float64(maxX))), int(math.Ceil(float64(maxY))),
	)
	return box.Intersect(r.hi.Bounds())
}

// fillTriangle draws an anti-aliased triangle. The rasterizer covers only the triangle's
// bounding box, so its coordinates are shifted by the box origin.
func (r *rasterBackend) fillTriangle(tri *renderer.Triangle) {
	a, b, c := tri.Points[0], tri.Points[1], tri.Points[2]
	box := r.clip(min(a.X, b.X, c.X), min(a.Y, b.Y, c.Y), max(a.X, b.X, c.X), max(a.Y, b.Y, c.Y))
	if box.Empty() {
		return
	}
	ox, oy := float32(box.Min.X), float32(box.Min.Y)

	r.z.Reset(box.Dx(), box.Dy())
	r.z.DrawOp = draw.Over
	r.z.MoveTo(a.X-ox, a.Y-oy)
	r.z.LineTo(b.X-ox, b.Y-oy)
	r.z.LineTo(c.X-ox, c.Y-oy)
	r.z.ClosePath()
	src := image.NewUniform(renderer.ToNRGBA(tri.Color, tri.Alpha))
	r.z.Draw(r.hi, box, src, image.Point{})
}

// fillSplat rasterizes the disc coverage into a mask, then blends each covered pixel with
// the 1 - d^2 falloff used by the GPU point shader. Additive splats brighten the canvas.
func (r *rasterBackend) fillSplat(s *renderer.Splat) {
	cx, cy, rad := s.Center.X, s.Center.Y, s.Radius
	box := r.clip(cx-rad, cy-rad, cx+rad, cy+rad)
	if box.Empty() || rad <= 0 {
		return
	}
	ox, oy := cx-float32(box.Min.X), cy-float32(box.Min.Y)
	k := rad * kappa

	r.z.Reset(box.Dx(), box.Dy())
	r.z.DrawOp = draw.Src
	r.z.MoveTo(ox+rad, oy)
	r.z.CubeTo(ox+rad, oy+k, ox+k, oy+rad, ox, oy+rad)
	r.z.CubeTo(ox-k, oy+rad, ox-rad, oy+k, ox-rad, oy)
	r.z.CubeTo(ox-rad, oy-k, ox-k, oy-rad, ox, oy-rad)
	r.z.CubeTo(ox+k, oy-rad, ox+rad, oy-k, ox+rad, oy)
	r.z.ClosePath()

	r.resetMask(box.Dx(), box.Dy())
	r.z.Draw(r.mask, r.mask.Bounds(), image.Opaque, image.Point{})

	for y := 0; y < box.Dy(); y++ {
		dy := (float32(y) + 0.5 - oy) / rad
		for x := 0; x < box.Dx(); x++ {
			cover := r.mask.Pix[y*r.mask.Stride+x]
			if cover == 0 {
				continue
			}
			dx := (float32(x) + 0.5 - ox) / rad
			falloff := max(1-(dx*dx+dy*dy), 0)
			alpha := s.Alpha * falloff * float32(cover) / 255
			px, py := box.Min.X+x, box.Min.Y+y
			r.hi.SetRGBA(px, py, renderer.Blend(r.hi.RGBAAt(px, py), s.Color, alpha, s.Additive))
		}
	}
}

// resetMask reuses the mask's pixel buffer for a w x h box.
func (r *rasterBackend) resetMask(w, h int) {
	n := w * h
	if cap(r.mask.Pix) < n {
		r.mask.Pix = make([]uint8, n)
	}
	r.mask.Pix = r.mask.Pix[:n]
	clear(r.mask.Pix)
	r.mask.Stride = w
	r.mask.Rect = image.Rect(0, 0, w, h)
}

func (r *rasterBackend) drawCaption(text string) {
	metrics := r.face.Metrics()
	margin := fixed.I(8)
	d := &font.Drawer{
		Dst:  r.out,
		Src:  image.NewUniform(color.NRGBA{R: 235, G: 240, B: 245, A: 220}),
		Face: r.face,
		Dot:  fixed.Point26_6{X: margin, Y: margin + metrics.Ascent},
	}
	d.DrawString(text)
}

func (r *rasterBackend) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.released = true
	if r.face != nil {
		r.face.Close()
		r.face = nil
	}
	r.hi, r.out = nil, nil
	r.list = nil
}
