package renderer

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-sprinkler/common"
)

// minClipW keeps vertices just in front of the eye from blowing up when divided by w.
const minClipW = 1e-3

// ScreenPoint is a projected point in pixel coordinates with y pointing down.
type ScreenPoint struct {
	X, Y float32
	// Depth is the clip-space w, i.e. the distance along the view axis.
	Depth float32
}

// PrimitiveKind selects which field of a Primitive is populated.
type PrimitiveKind int

const (
	PrimitiveTriangle PrimitiveKind = iota
	PrimitiveSplat
)

// Triangle is a flat-shaded, projected mesh triangle.
type Triangle struct {
	Points [3]ScreenPoint
	Color  [3]float32
	Alpha  float32
}

// Splat is a projected spray particle drawn as a filled circle.
type Splat struct {
	Center   ScreenPoint
	Radius   float32
	Color    [3]float32
	Alpha    float32
	Additive bool
}

// Primitive is one entry of a depth-sorted draw list.
type Primitive struct {
	Kind     PrimitiveKind
	Depth    float32
	Triangle Triangle
	Splat    Splat
}

// Projector maps world-space geometry onto a width x height pixel grid through a
// view-projection matrix. Software backends use it to build painter-ordered draw lists.
type Projector struct {
	viewProj [16]float32
	frustum  common.Frustum
	width    float32
	height   float32

	splatScale     float32
	minSplatRadius float32
	cullBackfaces  bool
}

// NewProjector creates a Projector for a target of the given size.
//
// Parameters:
//   - viewProj: column-major view-projection matrix
//   - width: target width in pixels (or cells)
//   - height: target height in pixels (or cells)
//   - options: projector options
//
// Returns:
//   - *Projector: the projector
func NewProjector(viewProj [16]float32, width, height int, options ...ProjectorBuilderOption) *Projector {
	p := &Projector{
		viewProj:      viewProj,
		frustum:       common.ExtractFrustumFromMatrix(viewProj[:]),
		width:         float32(max(width, 1)),
		height:        float32(max(height, 1)),
		splatScale:    1,
		cullBackfaces: true,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Size returns the target size the projector maps onto.
func (p *Projector) Size() (width, height int) {
	return int(p.width), int(p.height)
}

// Visible reports whether a sphere intersects the view frustum.
func (p *Projector) Visible(center common.Vec3, radius float32) bool {
	return p.frustum.ContainsSphere(center, radius)
}

// Project maps a world point to the screen.
//
// Parameters:
//   - world: world-space point
//
// Returns:
//   - ScreenPoint: pixel position and view depth
//   - bool: false if the point is behind the eye
func (p *Projector) Project(world common.Vec3) (ScreenPoint, bool) {
	x, y, _, w := common.TransformPoint(p.viewProj[:], world)
	if w < minClipW {
		return ScreenPoint{}, false
	}
	return ScreenPoint{
		X:     (x/w*0.5 + 0.5) * p.width,
		Y:     (0.5 - y/w*0.5) * p.height,
		Depth: w,
	}, true
}

// SplatRadius returns the on-screen radius of a point of the given world size at view
// depth w. Size attenuation follows size * (height / 2) / w for the diameter.
//
// Parameters:
//   - size: point size in world units
//   - depth: view depth (clip w) of the point
//
// Returns:
//   - float32: radius in pixels
func (p *Projector) SplatRadius(size, depth float32) float32 {
	if depth < minClipW {
		return 0
	}
	r := size * p.height / (4 * depth) * p.splatScale
	return max(r, p.minSplatRadius)
}

// DrawList projects the frame's model parts and particles into primitives sorted far to
// near, so that drawing them in order gives painter's-algorithm occlusion.
//
// Parameters:
//   - frame: the frame to project
//   - dst: slice to reuse (may be nil)
//
// Returns:
//   - []Primitive: the sorted draw list
func (p *Projector) DrawList(frame *Frame, dst []Primitive) []Primitive {
	dst = dst[:0]
	dst = p.appendTriangles(frame, dst)
	dst = p.appendSplats(frame, dst)
	sort.SliceStable(dst, func(i, j int) bool {
		return dst[i].Depth > dst[j].Depth
	})
	return dst
}

func (p *Projector) appendTriangles(frame *Frame, dst []Primitive) []Primitive {
	for i := range frame.Parts {
		part := &frame.Parts[i]
		if part.Mesh == nil {
			continue
		}
		m := part.Model[:]
		cx, cy, cz, _ := common.TransformPoint(m, common.Vec3{})
		if !p.Visible(common.Vec3{cx, cy, cz}, part.Mesh.BoundingRadius()*maxScale(m)) {
			continue
		}

		verts := part.Mesh.Vertices
		idx := part.Mesh.Indices
		for t := 0; t+2 < len(idx); t += 3 {
			var world [3]common.Vec3
			for k := range 3 {
				x, y, z, _ := common.TransformPoint(m, verts[idx[t+k]].Position)
				world[k] = common.Vec3{x, y, z}
			}
			normal := common.Normalize(common.Cross(common.Sub(world[1], world[0]), common.Sub(world[2], world[0])))
			centroid := common.Scale(common.Add(common.Add(world[0], world[1]), world[2]), 1.0/3)
			if common.Dot(normal, common.Sub(frame.Eye, centroid)) < 0 {
				if p.cullBackfaces && !part.DoubleSided {
					continue
				}
				normal = common.Scale(normal, -1)
			}

			var tri Triangle
			ok := true
			for k := range 3 {
				if tri.Points[k], ok = p.Project(world[k]); !ok {
					break
				}
			}
			if !ok {
				continue
			}
			tri.Color = ShadeColor(frame.Lights, part.Material, normal, centroid)
			tri.Alpha = part.Material.Opacity
			depth := (tri.Points[0].Depth + tri.Points[1].Depth + tri.Points[2].Depth) / 3
			dst = append(dst, Primitive{Kind: PrimitiveTriangle, Depth: depth, Triangle: tri})
		}
	}
	return dst
}

func (p *Projector) appendSplats(frame *Frame, dst []Primitive) []Primitive {
	style := frame.Points
	color := style.PointColor()
	for i := range frame.Particles {
		world := frame.ParticleWorld(i)
		size := frame.Particles[i].Size * style.Size
		if !p.Visible(world, size) {
			continue
		}
		sp, ok := p.Project(world)
		if !ok {
			continue
		}
		dst = append(dst, Primitive{
			Kind:  PrimitiveSplat,
			Depth: sp.Depth,
			Splat: Splat{
				Center:   sp,
				Radius:   p.SplatRadius(size, sp.Depth),
				Color:    color,
				Alpha:    style.Opacity,
				Additive: style.Additive,
			},
		})
	}
	return dst
}

// maxScale returns the largest axis scale of the upper 3x3 of m.
func maxScale(m []float32) float32 {
	sx := common.Length(common.Vec3{m[0], m[1], m[2]})
	sy := common.Length(common.Vec3{m[4], m[5], m[6]})
	sz := common.Length(common.Vec3{m[8], m[9], m[10]})
	return max(sx, sy, sz)
}
