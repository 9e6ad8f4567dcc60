package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-sprinkler/common"
)

// controllerImpl is the single implementation of Controller.
type controllerImpl struct {
	mu *sync.Mutex

	// Camera position (computed from target + spherical coords)
	position common.Vec3
	target   common.Vec3

	// Spherical coordinates (offset from target)
	radius    float32
	azimuth   float32
	elevation float32

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	orbitSpeed       float32
	mouseSensitivity float32
	zoomSpeed        float32

	zoomEnabled bool
	panEnabled  bool
}

var _ Controller = &controllerImpl{}

// NewController creates an orbit controller. Defaults frame the sprinkler the way the
// studio camera does: eye at (3, 4, 6) around the origin, elevation limited to
// [0, pi/4] (a polar angle between pi/4 and pi/2), no pan, no zoom.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewController(options ...ControllerOption) Controller {
	cc := &controllerImpl{
		mu:           &sync.Mutex{},
		minRadius:    1.0,
		maxRadius:    50.0,
		minElevation: 0,
		maxElevation: float32(math.Pi / 4),

		orbitSpeed:       0.03,
		mouseSensitivity: 0.005,
		zoomSpeed:        0.5,
	}
	WithEye(common.Vec3{3, 4, 6})(cc)

	for _, option := range options {
		option(cc)
	}

	cc.elevation = common.Clamp(cc.elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
	return cc
}

// updatePosition recomputes the camera position from spherical coordinates.
// Caller must hold the mutex.
func (cc *controllerImpl) updatePosition() {
	cosElev := float32(math.Cos(float64(cc.elevation)))
	sinElev := float32(math.Sin(float64(cc.elevation)))
	cosAzim := float32(math.Cos(float64(cc.azimuth)))
	sinAzim := float32(math.Sin(float64(cc.azimuth)))

	cc.position = common.Vec3{
		cc.target[0] + cc.radius*cosElev*sinAzim,
		cc.target[1] + cc.radius*sinElev,
		cc.target[2] + cc.radius*cosElev*cosAzim,
	}
}

// setElevation clamps and applies an elevation. Caller must hold the mutex.
func (cc *controllerImpl) setElevation(e float32) {
	cc.elevation = common.Clamp(e, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func (cc *controllerImpl) Position() common.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *controllerImpl) Target() common.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *controllerImpl) Drag(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth -= dx * cc.mouseSensitivity
	cc.setElevation(cc.elevation + dy*cc.mouseSensitivity)
}

func (cc *controllerImpl) OrbitLeft() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth -= cc.orbitSpeed
	cc.updatePosition()
}

func (cc *controllerImpl) OrbitRight() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth += cc.orbitSpeed
	cc.updatePosition()
}

func (cc *controllerImpl) OrbitUp() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.setElevation(cc.elevation + cc.orbitSpeed)
}

func (cc *controllerImpl) OrbitDown() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.setElevation(cc.elevation - cc.orbitSpeed)
}

func (cc *controllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.zoomEnabled {
		return
	}
	cc.radius = common.Clamp(cc.radius-delta*cc.zoomSpeed, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *controllerImpl) Pan(right, up float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.panEnabled {
		return
	}
	back := common.Normalize(common.Sub(cc.position, cc.target))
	r := common.Normalize(common.Cross(common.Vec3{0, 1, 0}, back))
	u := common.Cross(back, r)
	offset := common.Add(common.Scale(r, right), common.Scale(u, up))
	cc.target = common.Add(cc.target, offset)
	cc.updatePosition()
}

func (cc *controllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *controllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *controllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *controllerImpl) ElevationBounds() (min, max float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minElevation, cc.maxElevation
}

func (cc *controllerImpl) SetAzimuth(azimuth float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth = azimuth
	cc.updatePosition()
}

func (cc *controllerImpl) SetElevation(elevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.setElevation(elevation)
}

func (cc *controllerImpl) MouseSensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSensitivity
}
