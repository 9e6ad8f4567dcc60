package engine

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-sprinkler/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/scene"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/window"
)

// DefaultHeadlessFrameRate caps a headless engine that has no explicit frame limit.
const DefaultHeadlessFrameRate = 60

// engine implements the Engine interface.
// Frame callbacks run on one frame goroutine; the window pump stays on the caller's thread.
type engine struct {
	mu *sync.Mutex

	callbacks map[int]func(dt float32)
	nextID    int

	wg          sync.WaitGroup
	quitting    atomic.Bool
	quitChannel chan struct{}
	quitOnce    sync.Once
	wake        chan struct{} // signalled by Schedule while the loop idles

	window window.Window

	profiler         *profiler.Profiler
	profilerOptions  []profiler.ProfilerBuilderOption
	profilingEnabled atomic.Bool

	scenes map[int]scene.Scene

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	frames           uint64
}

// Engine schedules per-frame callbacks and runs the frame loop. It implements
// scene.Scheduler, so scenes registered with AddScene mount themselves on it.
type Engine interface {
	scene.Scheduler

	// Window returns the window the engine pumps, or nil when headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the frame loop (default). A headless engine falls back to
	// DefaultHeadlessFrameRate.
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// AddScene mounts a scene on this engine at the given key, replacing and
	// unmounting any scene already there. Scenes are sized to the window first.
	//
	// Parameters:
	//   - key: the z-index of the scene
	//   - s: the Scene to register
	//
	// Returns:
	//   - error: the scene's mount error; the scene is still registered
	AddScene(key int, s scene.Scene) error

	// RemoveScene unmounts and forgets the scene at the given key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given key, or nil.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Run starts the frame goroutine and blocks until Quit is called or the window
	// closes. With a window the calling goroutine pumps its messages, so call Run from
	// the locked main thread. Every scene is unmounted before Run returns.
	Run()

	// RunFrames runs n frames synchronously with a fixed step, without a window or a
	// frame goroutine. It stops early once Quit has been called.
	//
	// Parameters:
	//   - n: number of frames
	//   - dt: seconds per frame
	//
	// Returns:
	//   - int: the number of frames run
	RunFrames(n int, dt float32) int

	// Quit stops the frame loop. No new frame starts after it returns.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Done is closed once Quit has been called.
	Done() <-chan struct{}

	// Frames returns the number of frames run so far.
	Frames() uint64
}

// NewEngine creates a new Engine with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, window, frame limit)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:          &sync.Mutex{},
		callbacks:   make(map[int]func(dt float32)),
		quitChannel: make(chan struct{}),
		wake:        make(chan struct{}, 1),
		scenes:      make(map[int]scene.Scene),
	}

	for _, opt := range options {
		opt(e)
	}

	e.profiler = profiler.NewProfiler(e.profilerOptions...)

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			for _, s := range e.Scenes() {
				s.Resize(width, height)
			}
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Schedule(cb func(dt float32)) int {
	if cb == nil {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	e.callbacks[e.nextID] = cb
	select {
	case e.wake <- struct{}{}:
	default:
	}
	return e.nextID
}

func (e *engine) Cancel(id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.callbacks, id)
}

func (e *engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.callbacks)
}

func (e *engine) Run() {
	e.wg.Add(1)
	go e.handleFrames()

	if e.window != nil {
		e.window.ProcessMessages(e.quitting.Load)
		// The window closed or Quit was called; either way the loop is done.
		e.signalQuit()
	} else {
		<-e.quitChannel
	}

	e.wg.Wait()
	e.unmountScenes()
}

func (e *engine) RunFrames(n int, dt float32) int {
	ran := 0
	for ; ran < n; ran++ {
		if e.quitting.Load() {
			break
		}
		e.frame(dt)
	}
	return ran
}

// Quit signals the frame goroutine to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) Done() <-chan struct{} {
	return e.quitChannel
}

func (e *engine) Frames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.quitting.Store(true)
		close(e.quitChannel)
	})
}

// handleFrames runs the (optionally frame-limited) loop in its own goroutine, measuring
// the real time between frames. Recovers from panics so a faulty callback stops the
// engine instead of crashing the process.
func (e *engine) handleFrames() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] frame goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastFrame := time.Now()
	limit := e.frameLimit()

	for {
		ok, idled := e.waitForCallbacks()
		if !ok {
			return
		}
		if idled {
			lastFrame = time.Now()
		}

		now := time.Now()
		dt := float32(now.Sub(lastFrame).Seconds())
		lastFrame = now

		e.frame(dt)

		if limit > 0 {
			if remaining := limit - time.Since(now); remaining > 0 {
				select {
				case <-e.quitChannel:
					return
				case <-time.After(remaining):
				}
			}
		}
	}
}

// waitForCallbacks blocks while nothing is scheduled. It reports false once Quit has
// been called, and whether it had to wait.
func (e *engine) waitForCallbacks() (ok, idled bool) {
	for e.Pending() == 0 {
		idled = true
		select {
		case <-e.quitChannel:
			return false, idled
		case <-e.wake:
		}
	}
	select {
	case <-e.quitChannel:
		return false, idled
	default:
		return true, idled
	}
}

// frameLimit is the minimum frame duration for Run. Headless engines are never
// left uncapped.
func (e *engine) frameLimit() time.Duration {
	if e.renderFrameLimit == 0 && e.window == nil {
		return frameDuration(DefaultHeadlessFrameRate)
	}
	return e.renderFrameLimit
}

// frame runs every registered callback once, in registration order. Callbacks may
// schedule or cancel during the frame; a cancelled callback that has not run yet is
// skipped.
func (e *engine) frame(dt float32) {
	e.mu.Lock()
	ids := make([]int, 0, len(e.callbacks))
	for id := range e.callbacks {
		ids = append(ids, id)
	}
	e.frames++
	e.mu.Unlock()
	sort.Ints(ids)

	for _, id := range ids {
		if e.quitting.Load() {
			return
		}
		e.mu.Lock()
		cb, ok := e.callbacks[id]
		e.mu.Unlock()
		if ok {
			cb(dt)
		}
	}

	if e.profilingEnabled.Load() {
		e.profiler.Tick()
	}
}

// unmountScenes tears down every registered scene in ascending key order.
func (e *engine) unmountScenes() {
	scenes := e.Scenes()
	keys := make([]int, 0, len(scenes))
	for k := range scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		scenes[k].Unmount()
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetRenderFrameLimit sets an optional frame rate cap.
// Pass 0 to uncap the frame loop. Call before Run.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func (e *engine) AddScene(key int, s scene.Scene) error {
	if s == nil {
		return fmt.Errorf("add scene %d: nil scene", key)
	}

	e.mu.Lock()
	prev := e.scenes[key]
	e.scenes[key] = s
	e.mu.Unlock()

	if prev != nil && prev != s {
		prev.Unmount()
	}
	if e.window != nil {
		s.Resize(e.window.Width(), e.window.Height())
	}
	return s.Mount(e)
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	s := e.scenes[key]
	delete(e.scenes, key)
	e.mu.Unlock()

	if s != nil {
		s.Unmount()
	}
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}

// frameDuration converts a frame rate cap into a minimum frame duration.
func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
