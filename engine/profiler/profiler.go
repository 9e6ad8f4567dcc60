package profiler

import (
	"log"
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-sprinkler/engine/particle"
)

// Report is one interval's worth of measurements.
type Report struct {
	FPS         float64
	HeapMB      float64
	AllocRateMB float64
	SysMB       float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64

	// Live and SpawnRate are zero when no particle source is attached.
	Live           int
	SpawnRate      float64
	ForcedDespawns uint64
}

// Profiler tracks frame rate, memory and spray statistics and logs them at a fixed
// interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	particles  func() particle.Stats
	lastSpawns uint64
	now        func() time.Time
	quiet      bool
	last       Report
}

// NewProfiler creates a Profiler that reports once per second by default.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	if p.particles != nil {
		p.lastSpawns = p.particles().Spawns
	}
	return p
}

// Tick should be called once per frame. When the interval has elapsed it samples the
// runtime and the particle source, logs a line and returns true.
//
// Returns:
//   - bool: true if a report was produced this tick
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return false
	}
	secs := elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	r := Report{
		FPS:         float64(p.frameCount) / secs,
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / secs,
		GCCount:     p.memStats.NumGC,
	}
	r.LastPauseUs, r.MaxPauseUs = pauses(&p.memStats, p.lastGCCount)

	if p.particles != nil {
		st := p.particles()
		r.Live = st.Live
		r.ForcedDespawns = st.ForcedDespawns
		// A field reset rewinds the counter; report zero for that interval.
		if st.Spawns >= p.lastSpawns {
			r.SpawnRate = float64(st.Spawns-p.lastSpawns) / secs
		}
		p.lastSpawns = st.Spawns
	}

	if !p.quiet {
		log.Printf("[Profiler] FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB | Droplets: %d live, %.0f spawns/s, %d clipped",
			r.FPS, r.HeapMB, r.AllocRateMB, r.GCCount, r.LastPauseUs, r.MaxPauseUs, r.SysMB, r.Live, r.SpawnRate, r.ForcedDespawns)
	}

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = r.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.last = r
	return true
}

// Last returns the most recent report.
func (p *Profiler) Last() Report {
	return p.last
}

// pauses returns the latest GC pause and the longest pause since sinceGC, in
// microseconds. PauseNs is a ring of the last 256 pauses.
func pauses(m *runtime.MemStats, sinceGC uint32) (last, longest uint64) {
	n := m.NumGC
	if n == 0 {
		return 0, 0
	}
	last = m.PauseNs[(n-1)%256] / 1000

	start := sinceGC
	if n-start > 256 {
		start = n - 256
	}
	for i := start; i < n; i++ {
		longest = max(longest, m.PauseNs[i%256]/1000)
	}
	return last, longest
}
