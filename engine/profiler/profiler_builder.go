package profiler

import (
	"time"

	"github.com/Carmen-Shannon/oxy-sprinkler/engine/particle"
)

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often a report is produced. Non-positive values are ignored.
//
// Parameters:
//   - d: the reporting interval
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithParticleStats attaches a spray statistics source, typically a field's Stats
// method, so reports include live droplets and the spawn rate.
//
// Parameters:
//   - source: returns the current field statistics
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithParticleStats(source func() particle.Stats) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.particles = source
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// WithQuiet suppresses the log line; reports are still available from Last.
func WithQuiet() ProfilerBuilderOption {
	return func(p *Profiler) {
		p.quiet = true
	}
}
