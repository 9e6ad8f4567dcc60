package camera

import "github.com/Carmen-Shannon/oxy-sprinkler/common"

// Controller owns the camera's positional state. It orbits a target on a sphere
// described by radius, azimuth and elevation. Pan and zoom exist but are disabled
// unless enabled by option, matching a product-viewer style orbit.
type Controller interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - common.Vec3: world-space camera position
	Position() common.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - common.Vec3: world-space target position
	Target() common.Vec3

	// Drag orbits by a pointer movement in pixels, scaled by MouseSensitivity.
	// Moving right turns the camera left around the target; moving down raises it.
	//
	// Parameters:
	//   - dx: horizontal pointer delta
	//   - dy: vertical pointer delta
	Drag(dx, dy float32)

	// OrbitLeft rotates the camera left around the target by one orbit speed step.
	OrbitLeft()

	// OrbitRight rotates the camera right around the target by one orbit speed step.
	OrbitRight()

	// OrbitUp tilts the camera upward by one orbit speed step, clamped to max elevation.
	OrbitUp()

	// OrbitDown tilts the camera downward by one orbit speed step, clamped to min elevation.
	OrbitDown()

	// Zoom adjusts the orbit radius. Positive delta moves closer. No-op unless zoom is enabled.
	//
	// Parameters:
	//   - delta: zoom amount scaled by the zoom speed
	Zoom(delta float32)

	// Pan translates target and camera along the camera's right and up axes.
	// No-op unless pan is enabled.
	//
	// Parameters:
	//   - right: offset along the local right axis
	//   - up: offset along the local up axis
	Pan(right, up float32)

	// Radius returns the current orbit radius (distance from target).
	Radius() float32

	// Azimuth returns the current horizontal angle around the Y axis (0 = +Z).
	Azimuth() float32

	// Elevation returns the current vertical angle above the horizontal plane.
	Elevation() float32

	// ElevationBounds returns the allowed elevation range in radians.
	//
	// Returns:
	//   - min, max: the elevation bounds
	ElevationBounds() (min, max float32)

	// SetAzimuth sets the horizontal angle directly and recomputes position.
	SetAzimuth(azimuth float32)

	// SetElevation sets the vertical angle, clamped to the bounds.
	SetElevation(elevation float32)

	// MouseSensitivity returns the drag sensitivity in radians per pixel.
	MouseSensitivity() float32
}
