package light

import (
	"math"

	"github.com/Carmen-Shannon/oxy-sprinkler/common"
)

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(p common.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = p
	}
}

// WithDirection is an option builder that sets the direction of the light.
// The direction is normalized before storing.
//
// Parameters:
//   - d: the direction the light travels
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(d common.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.direction = common.Normalize(d)
	}
}

// WithTarget aims the light from its position at target. Apply after WithPosition.
//
// Parameters:
//   - target: the world-space point to aim at
//
// Returns:
//   - LightBuilderOption: a function that applies the target option to a lightImpl
func WithTarget(target common.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.AimAt(target)
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - c: the color as (r, g, b)
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(c [3]float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = c
	}
}

// WithGroundColor sets the ground color of a hemisphere light.
func WithGroundColor(c [3]float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.groundColor = c
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithRange is an option builder that sets the cutoff distance of a point or spot light.
func WithRange(lightRange float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightRange = lightRange
	}
}

// WithSpotCone sets the cone half-angle and the fraction of it softened by the penumbra.
//
// Parameters:
//   - angle: cone half-angle in radians
//   - penumbra: fraction in [0, 1] of the cone that fades out
//
// Returns:
//   - LightBuilderOption: a function that applies the spot cone option to a lightImpl
func WithSpotCone(angle, penumbra float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.angle = angle
		l.penumbra = common.Clamp(penumbra, 0, 1)
	}
}

// WithEnabled is an option builder that sets whether the light is active.
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}

// WithCastsShadows is an option builder that flags the light as a shadow caster.
func WithCastsShadows(castsShadows bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = castsShadows
	}
}

func cosRad(rad float32) float32 {
	return float32(math.Cos(float64(rad)))
}
