package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-sprinkler/common"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

type ambience struct {
	mu      *sync.Mutex
	started bool
	closed  bool

	hiss   *hiss
	volume *effects.Volume
	ctrl   *beep.Ctrl
	mixer  *beep.Mixer

	floor     float64
	sharpness float64
	gain      float64
	cutoff    float64
	seed      uint64
}

// Ambience is the spray sound: a hiss that swells whenever the jet points at the listener.
type Ambience interface {
	// Start opens the audio device and begins playback. Calling it again is a no-op.
	//
	// Returns:
	//   - error: an error if the audio device could not be opened
	Start() error

	// Track updates the loudness from the jet direction and the direction from the rig
	// to the listener. Only the horizontal components are used.
	//
	// Parameters:
	//   - jet: horizontal direction the nozzle is pointing
	//   - listener: direction from the rig base to the listener
	Track(jet, listener common.Vec3)

	// SetVolume sets the master volume in [0, 1]; 0 mutes.
	SetVolume(volume float64)

	// SetPaused pauses or resumes playback without closing the device.
	SetPaused(paused bool)

	// Streamer returns the final stream, before the speaker.
	//
	// Returns:
	//   - beep.Streamer: the mixed output
	Streamer() beep.Streamer

	// Close stops playback. Safe to call repeatedly.
	Close()
}

var _ Ambience = &ambience{}

// NewAmbience builds the spray ambience graph without touching the audio device.
//
// Parameters:
//   - options: ambience options
//
// Returns:
//   - Ambience: the ambience
func NewAmbience(options ...AmbienceBuilderOption) Ambience {
	a := &ambience{
		mu:        &sync.Mutex{},
		floor:     0.15,
		sharpness: 4,
		gain:      0.8,
		cutoff:    3500,
		seed:      1,
	}
	for _, opt := range options {
		opt(a)
	}

	a.hiss = newHiss(sampleRate, a.cutoff, a.seed)
	a.hiss.setLevel(a.floor)
	a.volume = &effects.Volume{Streamer: a.hiss, Base: 2}
	a.setVolume(a.gain)
	a.ctrl = &beep.Ctrl{Streamer: a.volume}
	a.mixer = &beep.Mixer{}
	a.mixer.Add(a.ctrl)
	return a
}

func (a *ambience) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started || a.closed {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}
	speaker.Play(a.mixer)
	a.started = true
	return nil
}

func (a *ambience) Track(jet, listener common.Vec3) {
	a.hiss.setLevel(Exposure(jet, listener, a.floor, a.sharpness))
}

func (a *ambience) SetVolume(volume float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		speaker.Lock()
		defer speaker.Unlock()
	}
	a.setVolume(volume)
}

func (a *ambience) setVolume(volume float64) {
	volume = min(max(volume, 0), 1)
	if volume == 0 {
		a.volume.Silent = true
		a.volume.Volume = 0
		return
	}
	a.volume.Silent = false
	a.volume.Volume = math.Log2(volume)
}

func (a *ambience) SetPaused(paused bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		speaker.Lock()
		defer speaker.Unlock()
	}
	a.ctrl.Paused = paused
}

func (a *ambience) Streamer() beep.Streamer {
	return a.mixer
}

func (a *ambience) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.closed = true
	if a.started {
		speaker.Lock()
		a.ctrl.Paused = true
		a.mixer.Clear()
		speaker.Unlock()
		speaker.Close()
		a.started = false
		return
	}
	a.ctrl.Paused = true
	a.mixer.Clear()
}

// Exposure is the relative loudness of the jet for a listener: floor when the jet points
// away, rising to 1 as it points straight at the listener.
//
// Parameters:
//   - jet: nozzle direction
//   - listener: direction from the rig base to the listener
//   - floor: loudness when facing away, in [0, 1]
//   - sharpness: exponent narrowing the swell
//
// Returns:
//   - float64: loudness in [floor, 1]
func Exposure(jet, listener common.Vec3, floor, sharpness float64) float64 {
	j := common.Vec3{jet[0], 0, jet[2]}
	l := common.Vec3{listener[0], 0, listener[2]}
	if common.Length(j) == 0 || common.Length(l) == 0 {
		return floor
	}
	facing := float64(common.Dot(common.Normalize(j), common.Normalize(l)))
	return floor + (1-floor)*math.Pow(max(facing, 0), sharpness)
}
