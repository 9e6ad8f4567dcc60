package light

import (
	"math"

	"github.com/Carmen-Shannon/oxy-sprinkler/common"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeAmbient lights every fragment equally with no direction.
	LightTypeAmbient LightType = iota

	// LightTypeHemisphere blends a sky color (facing +Y) and a ground color
	// (facing -Y) by the surface normal.
	LightTypeHemisphere

	// LightTypeDirectional represents a light with no position, only direction.
	LightTypeDirectional

	// LightTypePoint emits in all directions from a position and attenuates
	// with distance up to a configurable range.
	LightTypePoint

	// LightTypeSpot emits in a cone from a position toward a target. The cone
	// edge is softened by the penumbra.
	LightTypeSpot
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType    LightType
	position     common.Vec3
	direction    common.Vec3
	color        [3]float32
	groundColor  [3]float32
	intensity    float32
	lightRange   float32
	angle        float32
	penumbra     float32
	enabled      bool
	castsShadows bool
}

// Light defines the interface for a light source in the scene.
//
// All light types share this interface; type-specific properties (the cone for
// spot lights, the ground color for hemisphere lights) return zero values when
// not applicable. The scene host marshals enabled lights into a uniform buffer
// each frame via the gpu_types helpers, and software backends evaluate them on
// the CPU with Shade.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for ambient, hemisphere and directional lights.
	//
	// Returns:
	//   - common.Vec3: position as (x, y, z)
	Position() common.Vec3

	// Direction returns the normalized direction the light travels.
	// For spot lights this is the cone axis.
	//
	// Returns:
	//   - common.Vec3: normalized direction
	Direction() common.Vec3

	// Color returns the RGB color of the light (the sky color for hemisphere lights).
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// GroundColor returns the hemisphere ground color.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	GroundColor() [3]float32

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Range returns the cutoff distance for point and spot lights. Zero means unbounded.
	//
	// Returns:
	//   - float32: the range value
	Range() float32

	// InnerCone returns the cosine of the angle inside which a spot light is at
	// full strength: cos(angle * (1 - penumbra)).
	//
	// Returns:
	//   - float32: cos(inner half-angle)
	InnerCone() float32

	// OuterCone returns the cosine of the spot cone half-angle.
	//
	// Returns:
	//   - float32: cos(outer half-angle)
	OuterCone() float32

	// Enabled returns whether this light is active for rendering.
	Enabled() bool

	// CastsShadows returns whether this light is flagged as the shadow caster.
	CastsShadows() bool

	SetPosition(p common.Vec3)
	SetColor(c [3]float32)
	SetIntensity(intensity float32)
	SetEnabled(enabled bool)

	// AimAt points the light from its position toward target.
	//
	// Parameters:
	//   - target: world-space point to aim at
	AimAt(target common.Vec3)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with sensible defaults and
// any provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: lightType,
		direction: common.Vec3{0, -1, 0},
		color:     [3]float32{1, 1, 1},
		intensity: 1.0,
		angle:     math.Pi / 3,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() common.Vec3 {
	return l.position
}

func (l *lightImpl) Direction() common.Vec3 {
	return l.direction
}

func (l *lightImpl) Color() [3]float32 {
	return l.color
}

func (l *lightImpl) GroundColor() [3]float32 {
	return l.groundColor
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	return l.lightRange
}

func (l *lightImpl) InnerCone() float32 {
	if l.lightType != LightTypeSpot {
		return 0
	}
	return cosRad(l.angle * (1 - l.penumbra))
}

func (l *lightImpl) OuterCone() float32 {
	if l.lightType != LightTypeSpot {
		return 0
	}
	return cosRad(l.angle)
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) SetPosition(p common.Vec3) {
	l.position = p
}

func (l *lightImpl) SetColor(c [3]float32) {
	l.color = c
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) AimAt(target common.Vec3) {
	if d := common.Sub(target, l.position); common.Length(d) > 0 {
		l.direction = common.Normalize(d)
	}
}
