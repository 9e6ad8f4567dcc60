package camera

import (
	"math"

	"github.com/Carmen-Shannon/oxy-sprinkler/common"
)

// ControllerOption is a functional option for configuring a Controller.
type ControllerOption func(*controllerImpl)

// WithEye places the camera at a world position relative to the current target,
// deriving radius, azimuth and elevation from it.
//
// Parameters:
//   - eye: world-space camera position
//
// Returns:
//   - ControllerOption: functional option to set the spherical coordinates
func WithEye(eye common.Vec3) ControllerOption {
	return func(cc *controllerImpl) {
		d := common.Sub(eye, cc.target)
		cc.radius = common.Length(d)
		if cc.radius == 0 {
			return
		}
		cc.azimuth = float32(math.Atan2(float64(d[0]), float64(d[2])))
		cc.elevation = float32(math.Asin(float64(d[1] / cc.radius)))
	}
}

// WithTarget sets the look-at/pivot point. Apply before WithEye to orbit a point
// other than the origin.
//
// Parameters:
//   - target: world-space target position
//
// Returns:
//   - ControllerOption: functional option to set the target position
func WithTarget(target common.Vec3) ControllerOption {
	return func(cc *controllerImpl) {
		cc.target = target
	}
}

// WithElevationBounds sets the minimum and maximum elevation angles.
//
// Parameters:
//   - min: minimum vertical angle in radians
//   - max: maximum vertical angle in radians
//
// Returns:
//   - ControllerOption: functional option to set elevation bounds
func WithElevationBounds(min, max float32) ControllerOption {
	return func(cc *controllerImpl) {
		cc.minElevation = min
		cc.maxElevation = max
	}
}

// WithPolarBounds sets the elevation bounds from polar angles measured down from +Y.
//
// Parameters:
//   - minPolar: smallest polar angle (highest camera)
//   - maxPolar: largest polar angle (lowest camera)
//
// Returns:
//   - ControllerOption: functional option to set elevation bounds
func WithPolarBounds(minPolar, maxPolar float32) ControllerOption {
	return WithElevationBounds(math.Pi/2-maxPolar, math.Pi/2-minPolar)
}

// WithZoom enables scroll zoom within the given radius bounds.
//
// Parameters:
//   - min: minimum orbit radius
//   - max: maximum orbit radius
//
// Returns:
//   - ControllerOption: functional option to enable zoom
func WithZoom(min, max float32) ControllerOption {
	return func(cc *controllerImpl) {
		cc.zoomEnabled = true
		cc.minRadius = min
		cc.maxRadius = max
	}
}

// WithPan enables panning.
func WithPan() ControllerOption {
	return func(cc *controllerImpl) {
		cc.panEnabled = true
	}
}

// WithOrbitSpeed sets the keyboard orbit speed.
//
// Parameters:
//   - speed: radians per orbit call
//
// Returns:
//   - ControllerOption: functional option to set orbit speed
func WithOrbitSpeed(speed float32) ControllerOption {
	return func(cc *controllerImpl) {
		cc.orbitSpeed = speed
	}
}

// WithMouseSensitivity sets the mouse drag sensitivity.
//
// Parameters:
//   - sensitivity: radians per pixel of pointer movement
//
// Returns:
//   - ControllerOption: functional option to set mouse sensitivity
func WithMouseSensitivity(sensitivity float32) ControllerOption {
	return func(cc *controllerImpl) {
		cc.mouseSensitivity = sensitivity
	}
}
