package scene

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-sprinkler/engine/particle"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/rig"
)

type fakeRenderer struct {
	mu       sync.Mutex
	draws    int
	released int
	width    int
	height   int
	last     renderer.Frame
	err      error
}

func (r *fakeRenderer) Resize(w, h int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = w, h
}

func (r *fakeRenderer) Draw(f *renderer.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released > 0 {
		return renderer.ErrReleased
	}
	r.draws++
	r.last = *f
	r.last.Particles = append([]particle.Particle(nil), f.Particles...)
	return r.err
}

func (r *fakeRenderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released++
}

type fakeScheduler struct {
	next      int
	callbacks map[int]func(float32)
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{callbacks: map[int]func(float32){}}
}

func (s *fakeScheduler) Schedule(cb func(float32)) int {
	s.next++
	s.callbacks[s.next] = cb
	return s.next
}

func (s *fakeScheduler) Cancel(id int) {
	delete(s.callbacks, id)
}

func (s *fakeScheduler) Pending() int {
	return len(s.callbacks)
}

func (s *fakeScheduler) step(dt float32) {
	for _, cb := range s.callbacks {
		cb(dt)
	}
}

func newTestScene(r *fakeRenderer, options ...SceneBuilderOption) Scene {
	options = append([]SceneBuilderOption{WithFieldOptions(particle.WithCapacity(64), particle.WithSeed(1))}, options...)
	return NewScene(func() (renderer.Renderer, error) { return r, nil }, options...)
}

func TestTickWithoutSurface(t *testing.T) {
	s := NewScene(nil, WithFieldOptions(particle.WithCapacity(32)))
	s.Tick(0.5)

	st := s.Stats()
	if st.Ticks != 1 {
		t.Fatalf("ticks = %d, want 1", st.Ticks)
	}
	if math.Abs(st.Rotation-0.5*rig.DefaultAngularVelocity) > 1e-6 {
		t.Fatalf("rotation = %v", st.Rotation)
	}
	if st.Field.Elapsed != 0.5 {
		t.Fatalf("field elapsed = %v, want 0.5", st.Field.Elapsed)
	}
	if err := s.Render(); !errors.Is(err, ErrNotMounted) {
		t.Fatalf("Render without renderer = %v, want ErrNotMounted", err)
	}
}

func TestMountSchedulesFrames(t *testing.T) {
	r := &fakeRenderer{}
	sched := newFakeScheduler()
	s := newTestScene(r, WithSize(320, 200))

	if err := s.Mount(sched); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if !s.Mounted() || !s.Available() {
		t.Fatal("scene should be mounted and available")
	}
	if sched.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", sched.Pending())
	}
	if r.width != 320 || r.height != 200 {
		t.Fatalf("renderer size = %dx%d, want 320x200", r.width, r.height)
	}

	if err := s.Mount(sched); err != nil || sched.Pending() != 1 {
		t.Fatalf("second Mount: err %v, pending %d", err, sched.Pending())
	}

	sched.step(0.016)
	sched.step(0.016)
	if r.draws != 2 {
		t.Fatalf("draws = %d, want 2", r.draws)
	}
	if len(r.last.Particles) != 64 {
		t.Fatalf("frame carried %d particles, want 64", len(r.last.Particles))
	}
	if len(r.last.Parts) != len(s.Model().Parts()) {
		t.Fatalf("frame carried %d parts, want %d", len(r.last.Parts), len(s.Model().Parts()))
	}
	if r.last.ClearColor != StudioClearColor || !r.last.Points.Additive {
		t.Fatalf("unexpected studio styling %+v", r.last.Points)
	}
}

func TestUnmountTwice(t *testing.T) {
	r := &fakeRenderer{}
	sched := newFakeScheduler()
	s := newTestScene(r)
	if err := s.Mount(sched); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	s.Unmount()
	s.Unmount()

	if sched.Pending() != 0 {
		t.Fatalf("pending = %d after unmount, want 0", sched.Pending())
	}
	if r.released != 1 {
		t.Fatalf("renderer released %d times, want 1", r.released)
	}
	if s.Mounted() {
		t.Fatal("scene still mounted")
	}
}

func TestUnmountBeforeMount(t *testing.T) {
	s := newTestScene(&fakeRenderer{})
	s.Unmount()
	s.Unmount()
	s.Tick(0.1)
	s.Frame(0.1)
}

func TestFrameAfterUnmountDoesNotTick(t *testing.T) {
	r := &fakeRenderer{}
	sched := newFakeScheduler()
	s := newTestScene(r)
	if err := s.Mount(sched); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	frame := sched.callbacks[1]
	s.Unmount()

	before := s.Stats().Ticks
	frame(0.016)
	if after := s.Stats().Ticks; after != before {
		t.Fatalf("ticks went from %d to %d after unmount", before, after)
	}
}

func TestRemount(t *testing.T) {
	r := &fakeRenderer{}
	sched := newFakeScheduler()
	s := newTestScene(r)

	if err := s.Mount(sched); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	s.Unmount()
	if err := s.Mount(sched); err != nil {
		t.Fatalf("remount: %v", err)
	}
	if sched.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", sched.Pending())
	}
	if s.Stats().Field.Capacity != 64 {
		t.Fatal("field not rebuilt with its options")
	}
	s.Unmount()
	if sched.Pending() != 0 {
		t.Fatalf("pending = %d after second unmount", sched.Pending())
	}
}

func TestUnavailableNeverSchedules(t *testing.T) {
	tests := []struct {
		name    string
		factory RendererFactory
	}{
		{"nil factory", nil},
		{"acquire error", func() (renderer.Renderer, error) { return nil, errors.New("no adapter") }},
		{"nil renderer", func() (renderer.Renderer, error) { return nil, nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := newFakeScheduler()
			s := NewScene(tt.factory, WithFieldOptions(particle.WithCapacity(8)))

			err := s.Mount(sched)
			if !errors.Is(err, ErrUnavailable) {
				t.Fatalf("Mount = %v, want ErrUnavailable", err)
			}
			if s.Available() || s.Mounted() {
				t.Fatal("scene should be unavailable and unmounted")
			}
			if sched.Pending() != 0 {
				t.Fatalf("pending = %d, want 0", sched.Pending())
			}

			s.Resize(100, 100)
			s.Tick(0.016)
			s.Frame(0.016)
			s.Reset()
			s.Unmount()
		})
	}
}

func TestMountNilScheduler(t *testing.T) {
	s := newTestScene(&fakeRenderer{})
	if err := s.Mount(nil); err == nil {
		t.Fatal("expected an error for a nil scheduler")
	}
}

func TestResize(t *testing.T) {
	r := &fakeRenderer{}
	s := newTestScene(r)
	if err := s.Mount(newFakeScheduler()); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	s.Resize(800, 400)
	if got := s.Camera().Aspect(); got != 2 {
		t.Fatalf("aspect = %v, want 2", got)
	}
	if r.width != 800 || r.height != 400 {
		t.Fatalf("renderer size = %dx%d", r.width, r.height)
	}

	s.Resize(0, 300)
	if got := s.Camera().Aspect(); got != 2 || r.height != 400 {
		t.Fatal("zero size should be ignored")
	}
}

func TestReset(t *testing.T) {
	s := newTestScene(&fakeRenderer{})
	for range 20 {
		s.Tick(0.05)
	}
	s.Reset()

	if got := s.Rig().Rotation(); got != 0 {
		t.Fatalf("rotation after reset = %v", got)
	}
	if got := s.Stats().Field.Elapsed; got != 0 {
		t.Fatalf("field elapsed after reset = %v", got)
	}
}

func TestRenderErrorsKeepFraming(t *testing.T) {
	r := &fakeRenderer{err: errors.New("surface lost")}
	sched := newFakeScheduler()
	s := newTestScene(r)
	if err := s.Mount(sched); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	for range 3 {
		sched.step(0.016)
	}
	if st := s.Stats(); st.Ticks != 3 || st.Frames != 3 {
		t.Fatalf("ticks %d frames %d, want 3 and 3", st.Ticks, st.Frames)
	}
	if err := s.Render(); err == nil || err.Error() != "surface lost" {
		t.Fatalf("Render = %v", err)
	}
}

func TestStudioCamera(t *testing.T) {
	s := NewScene(nil)
	ctrl := s.Camera().Controller()
	if lo, hi := ctrl.ElevationBounds(); lo != 0 || math.Abs(float64(hi)-math.Pi/4) > 1e-6 {
		t.Fatalf("elevation bounds = [%v, %v]", lo, hi)
	}
	eye := s.Camera().Eye()
	for i, want := range StudioEye {
		if math.Abs(float64(eye[i]-want)) > 1e-4 {
			t.Fatalf("eye = %v, want %v", eye, StudioEye)
		}
	}
	if got := s.Camera().Fov(); math.Abs(float64(got)-StudioFov) > 1e-6 {
		t.Fatalf("fov = %v", got)
	}
}

func TestPausedFramesDrawWithoutTicking(t *testing.T) {
	r := &fakeRenderer{}
	sched := newFakeScheduler()
	s := newTestScene(r)
	if err := s.Mount(sched); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	sched.step(0.1)
	s.SetPaused(true)
	rotation := s.Rig().Rotation()
	sched.step(0.1)
	sched.step(0.1)

	if !s.Paused() {
		t.Fatal("scene should report paused")
	}
	if got := s.Rig().Rotation(); got != rotation {
		t.Fatalf("rotation moved from %v to %v while paused", rotation, got)
	}
	if r.draws != 3 {
		t.Fatalf("draws = %d, want 3", r.draws)
	}

	s.SetPaused(false)
	sched.step(0.1)
	if s.Rig().Rotation() == rotation {
		t.Fatal("rotation did not resume")
	}
}

func TestUnavailableKeepsCause(t *testing.T) {
	cause := errors.New("adapter lost")
	s := NewScene(func() (renderer.Renderer, error) { return nil, cause }, WithFieldOptions(particle.WithCapacity(8)))

	err := s.Mount(newFakeScheduler())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Mount = %v, want ErrUnavailable", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("Mount = %v, want the factory error in the chain", err)
	}
}
