package scene

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-sprinkler/common"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/camera"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/light"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/model"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/particle"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/rig"
)

var (
	// ErrUnavailable is returned by Mount when no render surface could be acquired.
	// The scene stays usable for ticking but never schedules frames.
	ErrUnavailable = errors.New("visualization unavailable")

	// ErrNotMounted is returned by Render when the scene holds no renderer.
	ErrNotMounted = errors.New("scene not mounted")
)

// Studio presentation defaults.
const (
	StudioFov  = 45 * math.Pi / 180
	StudioNear = 0.1
	StudioFar  = 100

	// StudioPointSize is the drawn width of an average droplet in world units.
	StudioPointSize = 0.22
)

var (
	StudioEye        = common.Vec3{3, 4, 6}
	StudioClearColor = [4]float32{0x0f / 255.0, 0x17 / 255.0, 0x2a / 255.0, 1}
)

// renderErrorLogEvery limits how often a persistent render failure is logged.
const renderErrorLogEvery = 300

// Scheduler registers continuous frame callbacks. Callbacks receive the seconds elapsed
// since the previous frame and run one at a time.
type Scheduler interface {
	// Schedule registers cb to run every frame until cancelled.
	//
	// Parameters:
	//   - cb: the frame callback
	//
	// Returns:
	//   - int: an id for Cancel
	Schedule(cb func(dt float32)) int

	// Cancel deregisters a callback. Unknown ids are ignored.
	Cancel(id int)

	// Pending returns the number of registered callbacks.
	Pending() int
}

// RendererFactory acquires the render surface when a scene mounts.
type RendererFactory func() (renderer.Renderer, error)

// Stats summarises the scene for the profiler and captions.
type Stats struct {
	Name      string
	Mounted   bool
	Available bool
	Ticks     uint64
	Frames    uint64
	Rotation  float64
	Field     particle.Stats
}

// Scene hosts the sprinkler visualization: it owns the render surface, the camera and
// its orbit controller, the studio lights, the sprinkler model, the rig and the spray
// field, and drives them from a Scheduler once mounted.
//
// A scene starts unmounted. Mount acquires the renderer and registers the frame
// callback; Unmount cancels the callback and releases every resource. Unmount is safe
// to call any number of times. Tick and Render may be called directly, without a
// Scheduler, to step the simulation synchronously.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Mount acquires the renderer and registers the frame callback on s. Mounting an
	// already mounted scene does nothing.
	//
	// Parameters:
	//   - s: the scheduler that will drive frames
	//
	// Returns:
	//   - error: ErrUnavailable (wrapped) if the renderer could not be acquired
	Mount(s Scheduler) error

	// Unmount deregisters the frame callback and releases the renderer and the particle
	// workers. A frame already running completes; no tick starts afterwards.
	Unmount()

	// Mounted reports whether the frame callback is registered.
	Mounted() bool

	// Available reports false once renderer acquisition has failed.
	Available() bool

	// Tick advances the rig, updates the particle field and refreshes the camera.
	//
	// Parameters:
	//   - dt: the elapsed time in seconds
	Tick(dt float32)

	// Render builds a frame from the current state and draws it.
	//
	// Returns:
	//   - error: ErrNotMounted without a renderer, or the renderer's error
	Render() error

	// Frame is the scheduled callback: Tick followed by Render. It returns immediately
	// when the scene is not mounted.
	//
	// Parameters:
	//   - dt: the elapsed time in seconds
	Frame(dt float32)

	// Resize updates the camera aspect and forwards the size to the renderer.
	// Non-positive sizes are ignored.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	Resize(width, height int)

	// Reset turns the turret back to zero and re-seeds the spray at the nozzle.
	Reset()

	// SetPaused freezes the simulation. Scheduled frames keep drawing the frozen state.
	SetPaused(paused bool)

	// Paused reports whether the simulation is frozen.
	Paused() bool

	// Stats returns a snapshot of the scene counters.
	Stats() Stats

	Camera() camera.Camera
	Rig() rig.Rig
	Model() model.Model
	Lights() []light.Light

	// Renderer returns the mounted renderer, or nil.
	Renderer() renderer.Renderer
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.Mutex

	name      string
	factory   RendererFactory
	renderer  renderer.Renderer
	available bool

	scheduler   Scheduler
	callbackID  int
	mounted     atomic.Bool
	unmountOnce *sync.Once

	camera camera.Camera
	lights []light.Light
	model  model.Model
	rig    rig.Rig
	field  particle.Field

	rigOptions   []rig.RigBuilderOption
	fieldOptions []particle.FieldBuilderOption
	points       renderer.PointStyle
	clearColor   [4]float32

	width, height int
	paused        bool

	frame      renderer.Frame
	ticks      uint64
	frames     uint64
	renderErrs uint64
}

var _ Scene = &scene{}

// NewScene creates an unmounted scene with the studio camera, lights, model and point
// style. The rig and particle field are built immediately so Tick works before Mount.
//
// Parameters:
//   - factory: acquires the renderer on Mount; nil makes the scene headless
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the new scene
func NewScene(factory RendererFactory, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:          &sync.Mutex{},
		name:        "sprinkler",
		factory:     factory,
		available:   true,
		unmountOnce: &sync.Once{},
		clearColor:  StudioClearColor,
		points: renderer.PointStyle{
			Color:    common.MustHexColor("#7dd3fc"),
			Emissive: common.MustHexColor("#38bdf8"),
			Size:     StudioPointSize / (particle.DefaultSizeBase + particle.DefaultSizeJitter/2),
			Opacity:  particle.Opacity(0),
			Additive: true,
		},
	}

	for _, option := range options {
		option(s)
	}

	if s.camera == nil {
		s.camera = studioCamera()
	}
	if s.width > 0 && s.height > 0 {
		s.camera.SetAspect(float32(s.width) / float32(s.height))
	}
	if s.lights == nil {
		s.lights = light.StudioRig()
	}
	if s.model == nil {
		s.model = model.NewSprinkler()
	}
	if s.rig == nil {
		s.rig = rig.NewRig(s.rigOptions...)
	}
	s.field = particle.NewField(s.rig, s.fieldOptions...)
	common.Identity(s.frame.GroupMatrix[:])

	return s
}

// studioCamera looks at the origin from StudioEye. Pan and zoom stay disabled and the
// elevation is kept between the horizon and 45 degrees.
func studioCamera() camera.Camera {
	ctrl := camera.NewController(
		camera.WithElevationBounds(0, math.Pi/4),
		camera.WithEye(StudioEye),
	)
	return camera.NewCamera(
		camera.WithFov(StudioFov),
		camera.WithClip(StudioNear, StudioFar),
		camera.WithController(ctrl),
	)
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Mount(sched Scheduler) error {
	if sched == nil {
		return errors.New("mount: nil scheduler")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mounted.Load() {
		return nil
	}

	if s.factory == nil {
		s.available = false
		return fmt.Errorf("%w: no render surface", ErrUnavailable)
	}
	r, err := s.factory()
	if err == nil && r == nil {
		err = errors.New("no renderer")
	}
	if err != nil {
		s.available = false
		log.Printf("[Scene] %s: visualization unavailable: %v", s.name, err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	s.available = true
	s.renderer = r
	if s.width > 0 && s.height > 0 {
		r.Resize(s.width, s.height)
	}
	if s.field == nil {
		s.field = particle.NewField(s.rig, s.fieldOptions...)
	}

	s.scheduler = sched
	s.unmountOnce = &sync.Once{}
	s.mounted.Store(true)
	s.callbackID = sched.Schedule(s.Frame)
	return nil
}

func (s *scene) Unmount() {
	s.mu.Lock()
	once := s.unmountOnce
	s.mu.Unlock()

	once.Do(s.teardown)
}

func (s *scene) teardown() {
	// Cleared before taking the lock so a frame waiting on it bails out.
	s.mounted.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduler != nil {
		s.scheduler.Cancel(s.callbackID)
		s.scheduler = nil
	}
	if s.renderer != nil {
		s.renderer.Release()
		s.renderer = nil
	}
	if s.field != nil {
		s.field.Release()
		s.field = nil
	}
}

func (s *scene) Mounted() bool {
	return s.mounted.Load()
}

func (s *scene) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available
}

func (s *scene) Tick(dt float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickLocked(dt)
}

func (s *scene) tickLocked(dt float32) {
	s.rig.Advance(dt)
	if s.field != nil {
		s.field.Update(dt, s.rig)
	}
	s.camera.Update()
	s.ticks++
}

func (s *scene) Render() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderLocked()
}

func (s *scene) renderLocked() error {
	if s.renderer == nil {
		return ErrNotMounted
	}

	f := &s.frame
	f.ViewProjection = s.camera.ViewProjectionMatrix()
	f.Eye = s.camera.Eye()
	f.Lights = s.lights
	f.GroupMatrix = s.model.GroupMatrix()
	f.ClearColor = s.clearColor
	f.Points = s.points

	rotation := s.rig.Rotation()
	f.Parts = f.Parts[:0]
	for i, p := range s.model.Parts() {
		f.Parts = append(f.Parts, renderer.PartDraw{
			Name:        p.Name,
			Mesh:        p.Mesh,
			Model:       s.model.PartMatrix(i, rotation),
			Material:    p.Material,
			DoubleSided: p.DoubleSided,
		})
	}

	if s.field != nil {
		f.Particles = s.field.Snapshot(f.Particles)
		f.Elapsed = s.field.Elapsed()
		f.Points.Opacity = particle.Opacity(f.Elapsed)
	} else {
		f.Particles = f.Particles[:0]
	}

	s.frames++
	return s.renderer.Draw(f)
}

func (s *scene) Frame(dt float32) {
	if !s.mounted.Load() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Unmount may have started while this frame waited for the lock.
	if !s.mounted.Load() {
		return
	}

	if !s.paused {
		s.tickLocked(dt)
	}
	err := s.renderLocked()
	if err == nil || errors.Is(err, renderer.ErrReleased) || errors.Is(err, ErrNotMounted) {
		return
	}
	if s.renderErrs%renderErrorLogEvery == 0 {
		log.Printf("[Scene] %s: render failed (%d so far): %v", s.name, s.renderErrs+1, err)
	}
	s.renderErrs++
}

func (s *scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.width, s.height = width, height
	s.camera.SetAspect(float32(width) / float32(height))
	if s.renderer != nil {
		s.renderer.Resize(width, height)
	}
}

func (s *scene) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rig.SetRotation(0)
	if s.field != nil {
		s.field.Reset(s.rig)
	}
}

func (s *scene) SetPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
}

func (s *scene) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *scene) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		Name:      s.name,
		Mounted:   s.mounted.Load(),
		Available: s.available,
		Ticks:     s.ticks,
		Frames:    s.frames,
		Rotation:  s.rig.Rotation(),
	}
	if s.field != nil {
		st.Field = s.field.Stats()
	}
	return st
}

func (s *scene) Camera() camera.Camera {
	return s.camera
}

func (s *scene) Rig() rig.Rig {
	return s.rig
}

func (s *scene) Model() model.Model {
	return s.model
}

func (s *scene) Lights() []light.Light {
	return s.lights
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer
}
