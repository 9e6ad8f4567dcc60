package particle

import (
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-sprinkler/common"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/rig"
)

// Field defaults, tuned for a single rotating nozzle about three units above the ground.
const (
	DefaultCapacity           = 8000
	DefaultMaxLifetime        = 1.2
	DefaultBaseSpeed          = 15
	DefaultSpeedJitter        = 5
	DefaultAngleJitter        = 0.1
	DefaultLiftJitter         = 0.1
	DefaultVerticalForceAngle = 0.1
	DefaultVerticalScale      = 0.012
	DefaultSpreadFactor       = 0.2
	DefaultRotationDecay      = 0.8
	DefaultMaxRadius          = 10
	DefaultSizeBase           = 0.12
	DefaultSizeJitter         = 0.12
	DefaultChunkSize          = 512

	opacityStart = 0.85
	opacityDrop  = 0.25
	opacityRate  = 0.2
)

// Particle is one droplet. Values are stored in float32 to match the GPU layout;
// the flight math runs in float64.
type Particle struct {
	Age         float32
	Speed       float32
	AngleOffset float32
	Lift        float32
	Size        float32
	Position    common.Vec3
	Spawns      uint32

	expired bool
}

// Expired reports whether the particle left the spray radius and waits for respawn.
func (p Particle) Expired() bool {
	return p.expired
}

// Stats summarizes the pool for the profiler.
type Stats struct {
	Capacity       int
	Live           int
	Spawns         uint64
	ForcedDespawns uint64
	Elapsed        float32
}

// Field is a fixed-capacity pool of water droplets emitted from a sprinkler rig.
// The pool never grows or shrinks after construction.
type Field interface {
	// Update ages every particle by dt, respawning expired ones at the nozzle and
	// advancing the rest along the curved jet. A non-positive dt is a no-op.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	//   - v: the rig the droplets are emitted from
	Update(dt float32, v rig.View)

	// Reset re-seeds the pool: fresh random sources, ages spread over one lifetime,
	// every particle at the nozzle of v, counters cleared.
	//
	// Parameters:
	//   - v: the rig providing the spawn point
	Reset(v rig.View)

	// Len returns the pool capacity.
	//
	// Returns:
	//   - int: number of particles
	Len() int

	// MaxLifetime returns the configured droplet lifetime in seconds.
	//
	// Returns:
	//   - float32: the lifetime
	MaxLifetime() float32

	// Particle returns a copy of the particle at index i.
	//
	// Parameters:
	//   - i: particle index in [0, Len())
	//
	// Returns:
	//   - Particle: the particle state
	Particle(i int) Particle

	// Snapshot copies the whole pool into dst, growing it as needed.
	//
	// Parameters:
	//   - dst: destination slice, may be nil
	//
	// Returns:
	//   - []Particle: the filled slice
	Snapshot(dst []Particle) []Particle

	// Positions copies every particle position into dst, growing it as needed.
	//
	// Parameters:
	//   - dst: destination slice, may be nil
	//
	// Returns:
	//   - []common.Vec3: the filled slice
	Positions(dst []common.Vec3) []common.Vec3

	// MarshalInto writes GPUParticle records for as many particles as fit in buf.
	//
	// Parameters:
	//   - buf: destination byte buffer
	//
	// Returns:
	//   - int: number of bytes written
	MarshalInto(buf []byte) int

	// BufferSize returns the byte size needed to marshal the whole pool.
	//
	// Returns:
	//   - int: Len() * 16
	BufferSize() int

	// Elapsed returns the simulated time accumulated by Update since the last reset.
	Elapsed() float32

	// Opacity returns the current point opacity for the elapsed simulation time.
	Opacity() float32

	// Stats returns the pool counters.
	//
	// Returns:
	//   - Stats: capacity, live count, spawns and forced despawns
	Stats() Stats

	// Release stops the worker pool, if any. The field must not be updated afterwards.
	Release()
}

type chunk struct {
	start, end int
	rng        RandSource
	spawns     uint64
	despawns   uint64
}

type fieldImpl struct {
	mu *sync.RWMutex

	particles []Particle
	chunks    []chunk
	elapsed   float32

	capacity           int
	chunkSize          int
	maxLifetime        float32
	baseSpeed          float32
	speedJitter        float32
	angleJitter        float32
	liftJitter         float32
	verticalForceAngle float64
	verticalScale      float64
	spreadFactor       float64
	maxRadius          float32
	sizeBase           float32
	sizeJitter         float32
	decayRate          float64
	decayFollowsRig    bool

	seed        int64
	randFactory RandSourceFactory

	workers     int
	pool        worker.DynamicWorkerPool
	releaseOnce sync.Once
}

var _ Field = &fieldImpl{}

// NewField creates a droplet pool with every particle placed at the nozzle of v and
// ages spread uniformly over one lifetime so respawns are staggered from the first frame.
//
// Parameters:
//   - v: the rig providing the initial spawn point
//   - options: functional options to configure the field
//
// Returns:
//   - Field: the new particle field
func NewField(v rig.View, options ...FieldBuilderOption) Field {
	f := &fieldImpl{
		mu:                 &sync.RWMutex{},
		capacity:           DefaultCapacity,
		chunkSize:          DefaultChunkSize,
		maxLifetime:        DefaultMaxLifetime,
		baseSpeed:          DefaultBaseSpeed,
		speedJitter:        DefaultSpeedJitter,
		angleJitter:        DefaultAngleJitter,
		liftJitter:         DefaultLiftJitter,
		verticalForceAngle: DefaultVerticalForceAngle,
		verticalScale:      DefaultVerticalScale,
		spreadFactor:       DefaultSpreadFactor,
		decayRate:          DefaultRotationDecay,
		maxRadius:          DefaultMaxRadius,
		sizeBase:           DefaultSizeBase,
		sizeJitter:         DefaultSizeJitter,
		workers:            1,
	}

	for _, option := range options {
		option(f)
	}

	if f.capacity < 0 {
		f.capacity = 0
	}
	if f.chunkSize <= 0 {
		f.chunkSize = DefaultChunkSize
	}
	if f.randFactory == nil {
		f.randFactory = seededFactory(f.seed)
	}

	f.particles = make([]Particle, f.capacity)
	for start := 0; start < f.capacity; start += f.chunkSize {
		f.chunks = append(f.chunks, chunk{start: start, end: min(start+f.chunkSize, f.capacity)})
	}
	f.seedLocked(v)

	// Workers are reused across frames; the queue holds one frame's worth of chunks.
	if f.workers > 1 && len(f.chunks) > 1 {
		f.pool = worker.NewDynamicWorkerPool(f.workers, len(f.chunks), 1*time.Second)
	}

	return f
}

func (f *fieldImpl) Update(dt float32, v rig.View) {
	if dt <= 0 || v == nil {
		return
	}
	snap := rig.Capture(v)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.elapsed += dt

	if f.pool == nil {
		for i := range f.chunks {
			f.updateChunk(&f.chunks[i], dt, snap)
		}
		return
	}

	// Chunks touch disjoint index ranges and own their random source, so they can run
	// in any order. The WaitGroup is the per-frame barrier.
	var wg sync.WaitGroup
	for i := range f.chunks {
		wg.Add(1)
		c := &f.chunks[i]
		f.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				f.updateChunk(c, dt, snap)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// updateChunk runs the per-particle step for one index range.
// Order per particle: age, respawn if due, otherwise displace then check the radius.
func (f *fieldImpl) updateChunk(c *chunk, dt float32, snap rig.Snapshot) {
	rotation := snap.Rotation()
	decay := f.decayRate
	if f.decayFollowsRig {
		decay = snap.AngularVelocity()
	}
	nozzle := snap.NozzlePosition()
	base := snap.Base()
	step := float64(dt)
	rise := math.Sin(f.verticalForceAngle) * f.verticalScale

	for i := c.start; i < c.end; i++ {
		p := &f.particles[i]
		p.Age += dt

		if p.expired || p.Age >= f.maxLifetime {
			f.respawn(p, c.rng, nozzle)
			c.spawns++
			continue
		}

		angle := float64(p.AngleOffset)
		speed := float64(p.Speed)
		emission := rotation - float64(p.Age)*decay + angle
		sin, cos := math.Sincos(emission)
		travel := speed * step * (1 + angle*f.spreadFactor)

		p.Position[0] += float32(sin * travel)
		p.Position[2] += float32(cos * travel)
		p.Position[1] += float32((rise*speed + float64(p.Lift)) * step)

		if common.Distance(p.Position, base) > f.maxRadius {
			p.expired = true
			c.despawns++
		}
	}
}

func (f *fieldImpl) respawn(p *Particle, r RandSource, nozzle common.Vec3) {
	p.Age = 0
	p.Speed = f.baseSpeed + r.Float32()*f.speedJitter
	p.AngleOffset = jitter(r, f.angleJitter)
	p.Lift = jitter(r, f.liftJitter)
	p.Position = nozzle
	p.Spawns++
	p.expired = false
}

// seedLocked rebuilds the chunk random sources and initializes every particle.
// Caller must hold the write lock or own f exclusively.
func (f *fieldImpl) seedLocked(v rig.View) {
	var nozzle common.Vec3
	if v != nil {
		nozzle = v.NozzlePosition()
	}
	f.elapsed = 0
	for ci := range f.chunks {
		c := &f.chunks[ci]
		c.rng = f.randFactory(ci)
		c.spawns, c.despawns = 0, 0
		for i := c.start; i < c.end; i++ {
			p := &f.particles[i]
			*p = Particle{}
			p.Age = c.rng.Float32() * f.maxLifetime
			p.Speed = f.baseSpeed + c.rng.Float32()*f.speedJitter
			p.AngleOffset = jitter(c.rng, f.angleJitter)
			p.Lift = jitter(c.rng, f.liftJitter)
			p.Size = f.sizeBase + c.rng.Float32()*f.sizeJitter
			p.Position = nozzle
			// Guard against a source returning exactly 1.
			if p.Age >= f.maxLifetime {
				p.Age = 0
			}
		}
	}
}

func (f *fieldImpl) Reset(v rig.View) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seedLocked(v)
}

func (f *fieldImpl) Len() int {
	return f.capacity
}

func (f *fieldImpl) MaxLifetime() float32 {
	return f.maxLifetime
}

func (f *fieldImpl) Particle(i int) Particle {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.particles[i]
}

func (f *fieldImpl) Snapshot(dst []Particle) []Particle {
	f.mu.RLock()
	defer f.mu.RUnlock()
	dst = dst[:0]
	return append(dst, f.particles...)
}

func (f *fieldImpl) Positions(dst []common.Vec3) []common.Vec3 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	dst = dst[:0]
	for i := range f.particles {
		dst = append(dst, f.particles[i].Position)
	}
	return dst
}

func (f *fieldImpl) MarshalInto(buf []byte) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return MarshalParticles(buf, f.particles)
}

func (f *fieldImpl) BufferSize() int {
	var g GPUParticle
	return f.capacity * g.Size()
}

func (f *fieldImpl) Elapsed() float32 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.elapsed
}

func (f *fieldImpl) Opacity() float32 {
	return Opacity(f.Elapsed())
}

func (f *fieldImpl) Stats() Stats {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s := Stats{Capacity: f.capacity, Elapsed: f.elapsed}
	for i := range f.chunks {
		s.Spawns += f.chunks[i].spawns
		s.ForcedDespawns += f.chunks[i].despawns
	}
	for i := range f.particles {
		if !f.particles[i].expired {
			s.Live++
		}
	}
	return s
}

func (f *fieldImpl) Release() {
	f.releaseOnce.Do(func() {
		if f.pool != nil {
			f.pool.Stop()
		}
	})
}

// Opacity returns the point opacity after elapsed seconds of spraying. It fades
// linearly from 0.85 and settles at 0.6 after five seconds.
//
// Parameters:
//   - elapsed: simulated seconds since the field started
//
// Returns:
//   - float32: opacity in [0.6, 0.85]
func Opacity(elapsed float32) float32 {
	t := min(max(elapsed*opacityRate, 0), 1)
	return opacityStart - t*opacityDrop
}
