package audio

import (
	"math"
	"math/rand/v2"
	"sync/atomic"

	"github.com/gopxl/beep"
)

// hiss is an endless stereo noise source shaped like a water jet: white noise through a
// one-pole low-pass, with a gain that glides towards a target level.
type hiss struct {
	rng    *rand.Rand
	alpha  float64 // low-pass coefficient
	state  [2]float64
	gain   float64
	glide  float64 // per-sample gain smoothing coefficient
	target atomic.Uint64
}

var _ beep.Streamer = &hiss{}

// newHiss creates the generator.
//
// Parameters:
//   - rate: output sample rate
//   - cutoff: low-pass cutoff in Hz
//   - seed: noise seed
//
// Returns:
//   - *hiss: the generator at zero gain
func newHiss(rate beep.SampleRate, cutoff float64, seed uint64) *hiss {
	dt := 1 / float64(rate)
	rc := 1 / (2 * math.Pi * cutoff)
	return &hiss{
		rng:   rand.New(rand.NewPCG(seed, seed^0x5851F42D4C957F2D)),
		alpha: dt / (rc + dt),
		// roughly 30 ms to reach a new level
		glide: 1 - math.Exp(-dt/0.03),
	}
}

// setLevel sets the gain the generator glides towards. Safe to call from any goroutine.
func (h *hiss) setLevel(level float64) {
	h.target.Store(math.Float64bits(min(max(level, 0), 1)))
}

func (h *hiss) level() float64 {
	return math.Float64frombits(h.target.Load())
}

func (h *hiss) Stream(samples [][2]float64) (n int, ok bool) {
	target := h.level()
	for i := range samples {
		h.gain += (target - h.gain) * h.glide
		for c := range 2 {
			white := h.rng.Float64()*2 - 1
			h.state[c] += h.alpha * (white - h.state[c])
			samples[i][c] = h.state[c] * h.gain
		}
	}
	return len(samples), true
}

func (h *hiss) Err() error { return nil }
