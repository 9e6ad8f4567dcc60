package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-sprinkler/engine/particle"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/scene"
)

type countingRenderer struct {
	mu       sync.Mutex
	draws    int
	released bool
}

func (r *countingRenderer) Resize(int, int) {}

func (r *countingRenderer) Draw(*renderer.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return renderer.ErrReleased
	}
	r.draws++
	return nil
}

func (r *countingRenderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released = true
}

func (r *countingRenderer) counts() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.draws, r.released
}

func newSprinklerScene(r *countingRenderer) scene.Scene {
	return scene.NewScene(
		func() (renderer.Renderer, error) { return r, nil },
		scene.WithFieldOptions(particle.WithCapacity(32)),
	)
}

func TestScheduleAndCancel(t *testing.T) {
	e := NewEngine()
	a := e.Schedule(func(float32) {})
	b := e.Schedule(func(float32) {})
	if a == b || e.Pending() != 2 {
		t.Fatalf("ids %d %d, pending %d", a, b, e.Pending())
	}
	if id := e.Schedule(nil); id != 0 || e.Pending() != 2 {
		t.Fatal("nil callback should not be scheduled")
	}

	e.Cancel(a)
	e.Cancel(a)
	e.Cancel(999)
	if e.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", e.Pending())
	}
}

func TestRunFramesOrderAndDelta(t *testing.T) {
	e := NewEngine()
	var calls []string
	var deltas []float32
	e.Schedule(func(dt float32) { calls = append(calls, "first"); deltas = append(deltas, dt) })
	e.Schedule(func(float32) { calls = append(calls, "second") })

	if n := e.RunFrames(3, 0.02); n != 3 {
		t.Fatalf("ran %d frames, want 3", n)
	}
	want := []string{"first", "second", "first", "second", "first", "second"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v", calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
	for _, dt := range deltas {
		if dt != 0.02 {
			t.Fatalf("dt = %v, want 0.02", dt)
		}
	}
	if e.Frames() != 3 {
		t.Fatalf("frames = %d", e.Frames())
	}
}

func TestCancelDuringFrameSkipsCallback(t *testing.T) {
	e := NewEngine()
	var second int
	var secondID int
	e.Schedule(func(float32) { e.Cancel(secondID) })
	secondID = e.Schedule(func(float32) { second++ })

	e.RunFrames(2, 0.01)
	if second != 0 {
		t.Fatalf("cancelled callback ran %d times", second)
	}
}

func TestQuitStopsFrames(t *testing.T) {
	e := NewEngine()
	count := 0
	e.Schedule(func(float32) {
		count++
		if count == 2 {
			e.Quit()
		}
	})

	if n := e.RunFrames(10, 0.01); n != 2 {
		t.Fatalf("ran %d frames after quit, want 2", n)
	}
	e.Quit()
	select {
	case <-e.Done():
	default:
		t.Fatal("Done not closed after Quit")
	}
	if n := e.RunFrames(5, 0.01); n != 0 {
		t.Fatalf("ran %d frames after quit", n)
	}
}

func TestRunHeadlessUntilQuit(t *testing.T) {
	r := &countingRenderer{}
	e := NewEngine(WithRenderFrameLimit(240))
	s := newSprinklerScene(r)
	if err := e.AddScene(0, s); err != nil {
		t.Fatalf("AddScene: %v", err)
	}

	go func() {
		for {
			if draws, _ := r.counts(); draws >= 3 {
				e.Quit()
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Quit")
	}

	if _, released := r.counts(); !released {
		t.Fatal("scene renderer not released when Run returned")
	}
	if e.Pending() != 0 {
		t.Fatalf("pending = %d after Run, want 0", e.Pending())
	}
}

func TestRunRecoversFromPanic(t *testing.T) {
	e := NewEngine()
	e.Schedule(func(float32) { panic("boom") })

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after a panicking frame")
	}
}

func TestAddAndRemoveScene(t *testing.T) {
	r := &countingRenderer{}
	e := NewEngine()
	s := newSprinklerScene(r)

	if err := e.AddScene(1, s); err != nil {
		t.Fatalf("AddScene: %v", err)
	}
	if e.Scene(1) != s || e.Pending() != 1 {
		t.Fatalf("scene not registered, pending %d", e.Pending())
	}

	e.RunFrames(4, 1.0/60)
	if draws, _ := r.counts(); draws != 4 {
		t.Fatalf("draws = %d, want 4", draws)
	}

	e.RemoveScene(1)
	e.RemoveScene(1)
	if e.Pending() != 0 || e.Scene(1) != nil {
		t.Fatal("scene not removed")
	}
	if _, released := r.counts(); !released {
		t.Fatal("renderer not released")
	}
}

func TestAddUnavailableScene(t *testing.T) {
	e := NewEngine()
	s := scene.NewScene(nil, scene.WithFieldOptions(particle.WithCapacity(8)))
	if err := e.AddScene(0, s); err == nil {
		t.Fatal("expected ErrUnavailable")
	}
	if e.Pending() != 0 {
		t.Fatalf("unavailable scene scheduled %d callbacks", e.Pending())
	}
	if err := e.AddScene(0, nil); err == nil {
		t.Fatal("expected an error for a nil scene")
	}
}

func TestFrameDuration(t *testing.T) {
	tests := []struct {
		fps  float64
		want time.Duration
	}{
		{0, 0},
		{-5, 0},
		{50, 20 * time.Millisecond},
		{1000, time.Millisecond},
	}
	for _, tt := range tests {
		if got := frameDuration(tt.fps); got != tt.want {
			t.Fatalf("frameDuration(%v) = %v, want %v", tt.fps, got, tt.want)
		}
	}
}

func TestRunIdlesWithoutCallbacks(t *testing.T) {
	e := NewEngine(WithRenderFrameLimit(500))
	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	if got := e.Frames(); got != 0 {
		t.Fatalf("frames = %d with nothing scheduled, want 0", got)
	}

	var mu sync.Mutex
	calls := 0
	e.Schedule(func(float32) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	deadline := time.After(5 * time.Second)
	for {
		mu.Lock()
		n := calls
		mu.Unlock()
		if n >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("scheduled callback never ran")
		case <-time.After(time.Millisecond):
		}
	}

	e.Quit()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
}

func TestHeadlessFrameLimit(t *testing.T) {
	tests := []struct {
		name    string
		options []EngineBuilderOption
		want    time.Duration
	}{
		{"uncapped headless", nil, frameDuration(DefaultHeadlessFrameRate)},
		{"explicit cap", []EngineBuilderOption{WithRenderFrameLimit(240)}, frameDuration(240)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(tt.options...).(*engine)
			if got := e.frameLimit(); got != tt.want {
				t.Fatalf("frame limit = %v, want %v", got, tt.want)
			}
		})
	}
}
