package particle

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-sprinkler/common"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/rig"
)

type constSource float32

func (c constSource) Float32() float32 { return float32(c) }

func constFactory(v float32) RandSourceFactory {
	return func(int) RandSource { return constSource(v) }
}

func TestAgesStayWithinLifetime(t *testing.T) {
	r := rig.NewRig()
	f := NewField(r, WithSeed(7), WithCapacity(2000))
	defer f.Release()

	steps := []float32{0.016, 0.001, 0.5, 0.033, 2.0, 1.2, 0.016, 0.25}
	for _, dt := range steps {
		r.Advance(dt)
		f.Update(dt, r)
		for i := 0; i < f.Len(); i++ {
			p := f.Particle(i)
			if p.Age < 0 || p.Age >= f.MaxLifetime() {
				t.Fatalf("dt %v: particle %d age %v outside [0, %v)", dt, i, p.Age, f.MaxLifetime())
			}
		}
	}
	if f.Len() != 2000 {
		t.Fatalf("pool size changed to %d", f.Len())
	}
}

func TestUpdateWithZeroDeltaIsNoOp(t *testing.T) {
	r := rig.NewRig()
	f := NewField(r, WithSeed(3), WithCapacity(600))
	f.Update(0.016, r)

	before := f.Snapshot(nil)
	elapsed := f.Elapsed()
	stats := f.Stats()

	f.Update(0, r)
	f.Update(-1, r)

	after := f.Snapshot(nil)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("particle %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
	if f.Elapsed() != elapsed || f.Stats() != stats {
		t.Fatal("zero dt update changed field counters")
	}
}

func TestFlightStepFollowsJetFormula(t *testing.T) {
	r := rig.NewRig()
	f := NewField(r, WithCapacity(1), WithRandSourceFactory(constFactory(0.5)))

	start := f.Particle(0)
	if start.Age != 0.6 || start.Speed != 17.5 || start.AngleOffset != 0 || start.Lift != 0 {
		t.Fatalf("unexpected initial particle %+v", start)
	}

	f.Update(0.1, r)
	got := f.Particle(0)

	emission := -float64(float32(0.6)+float32(0.1)) * DefaultRotationDecay
	travel := 17.5 * float64(float32(0.1))
	want := common.Vec3{
		float32(math.Sin(emission) * travel),
		3.4 + float32(math.Sin(0.1)*17.5*0.012*float64(float32(0.1))),
		0.65 + float32(math.Cos(emission)*travel),
	}
	if common.Distance(got.Position, want) > 1e-4 {
		t.Fatalf("position = %v, want %v", got.Position, want)
	}
}

func TestForcedDespawnRespawnsOnNextUpdate(t *testing.T) {
	r := rig.NewRig()
	f := NewField(r, WithCapacity(4), WithRandSourceFactory(constFactory(0.25))).(*fieldImpl)

	f.particles[2].Position = common.Add(r.Base(), common.Vec3{0, 0, 20})
	f.Update(0.016, r)

	p := f.Particle(2)
	if !p.Expired() {
		t.Fatal("particle beyond the radius should be marked expired")
	}
	if p.Spawns != 0 {
		t.Fatalf("expired particle respawned in the same update (spawns %d)", p.Spawns)
	}
	if got := f.Stats().ForcedDespawns; got != 1 {
		t.Fatalf("forced despawns = %d, want 1", got)
	}

	r.Advance(0.016)
	f.Update(0.016, r)

	p = f.Particle(2)
	if p.Expired() || p.Spawns != 1 || p.Age != 0 {
		t.Fatalf("particle not respawned: %+v", p)
	}
	want := common.Distance(r.NozzlePosition(), r.Base())
	if got := common.Distance(p.Position, r.Base()); math.Abs(float64(got-want)) > 1e-6 {
		t.Fatalf("respawn distance %v, want nozzle distance %v", got, want)
	}
}

func TestEveryParticleRespawnsWithinOneLifetime(t *testing.T) {
	r := rig.NewRig()
	f := NewField(r, WithSeed(42))
	defer f.Release()

	if f.Len() != DefaultCapacity {
		t.Fatalf("capacity = %d, want %d", f.Len(), DefaultCapacity)
	}

	// 76 ticks of 16ms covers 1.2s with room for float32 accumulation.
	const dt = float32(0.016)
	for range 76 {
		r.Advance(dt)
		f.Update(dt, r)
	}

	for i, p := range f.Snapshot(nil) {
		if p.Spawns < 1 {
			t.Fatalf("particle %d never respawned (age %v)", i, p.Age)
		}
	}
	if s := f.Stats(); s.Spawns < uint64(DefaultCapacity) {
		t.Fatalf("total spawns %d below capacity", s.Spawns)
	}
}

func TestStaticRigProducesStraightJet(t *testing.T) {
	r := rig.NewRig(rig.WithAngularVelocity(0))
	f := NewField(r, WithSeed(11), WithCapacity(1000), WithDecayFollowingRig())
	nozzle := r.NozzlePosition()

	for range 20 {
		f.Update(0.016, r)
	}

	checked := 0
	for i, p := range f.Snapshot(nil) {
		if p.Expired() {
			continue
		}
		dx := float64(p.Position[0] - nozzle[0])
		dz := float64(p.Position[2] - nozzle[2])
		if math.Hypot(dx, dz) < 0.05 {
			continue
		}
		heading := math.Atan2(dx, dz)
		if math.Abs(heading-float64(p.AngleOffset)) > 1e-3 {
			t.Fatalf("particle %d heading %v, want its offset %v", i, heading, p.AngleOffset)
		}
		checked++
	}
	if checked == 0 {
		t.Fatal("no particle moved far enough to check")
	}
}

func TestParallelUpdateMatchesSerial(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		chunk   int
	}{
		{"four workers", 4, DefaultChunkSize},
		{"many small chunks", 3, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := rig.NewRig()
			rp := rig.NewRig()
			serial := NewField(rs, WithSeed(99), WithChunkSize(tt.chunk))
			parallel := NewField(rp, WithSeed(99), WithChunkSize(tt.chunk), WithWorkers(tt.workers))
			defer serial.Release()
			defer parallel.Release()

			for range 40 {
				rs.Advance(0.016)
				rp.Advance(0.016)
				serial.Update(0.016, rs)
				parallel.Update(0.016, rp)
			}

			a, b := serial.Snapshot(nil), parallel.Snapshot(nil)
			for i := range a {
				if a[i] != b[i] {
					t.Fatalf("particle %d differs: serial %+v parallel %+v", i, a[i], b[i])
				}
			}
			if serial.Stats() != parallel.Stats() {
				t.Fatalf("stats differ: %+v vs %+v", serial.Stats(), parallel.Stats())
			}
		})
	}
}

func TestResetReproducesInitialState(t *testing.T) {
	r := rig.NewRig()
	f := NewField(r, WithSeed(5), WithCapacity(700))
	initial := f.Snapshot(nil)

	for range 10 {
		r.Advance(0.016)
		f.Update(0.016, r)
	}
	r.SetRotation(0)
	f.Reset(r)

	after := f.Snapshot(nil)
	for i := range initial {
		if initial[i] != after[i] {
			t.Fatalf("particle %d differs after reset", i)
		}
	}
	if s := f.Stats(); s.Spawns != 0 || s.Elapsed != 0 || s.Live != 700 {
		t.Fatalf("stats not cleared: %+v", s)
	}
}

func TestOpacity(t *testing.T) {
	tests := []struct {
		elapsed float32
		want    float32
	}{
		{-1, 0.85},
		{0, 0.85},
		{2.5, 0.725},
		{5, 0.6},
		{100, 0.6},
	}
	for _, tt := range tests {
		if got := Opacity(tt.elapsed); math.Abs(float64(got-tt.want)) > 1e-6 {
			t.Errorf("Opacity(%v) = %v, want %v", tt.elapsed, got, tt.want)
		}
	}
}

func TestMarshalInto(t *testing.T) {
	r := rig.NewRig()
	f := NewField(r, WithCapacity(10), WithRandSourceFactory(constFactory(0.5)))

	var g GPUParticle
	if g.Size() != 16 {
		t.Fatalf("GPUParticle size = %d, want 16", g.Size())
	}
	if f.BufferSize() != 160 {
		t.Fatalf("buffer size = %d, want 160", f.BufferSize())
	}

	buf := make([]byte, f.BufferSize())
	if n := f.MarshalInto(buf); n != 160 {
		t.Fatalf("wrote %d bytes, want 160", n)
	}
	p := f.Particle(3)
	off := 3 * 16
	for i := range 3 {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[off+i*4:])); got != p.Position[i] {
			t.Fatalf("component %d = %v, want %v", i, got, p.Position[i])
		}
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[off+12:])); got != p.Size {
		t.Fatalf("size = %v, want %v", got, p.Size)
	}

	if n := f.MarshalInto(make([]byte, 40)); n != 32 {
		t.Fatalf("short buffer wrote %d bytes, want 32", n)
	}
}

func TestGPUParticleMarshal(t *testing.T) {
	g := GPUParticle{Position: [3]float32{1, -2, 3.5}, PointSize: 0.18}
	buf := g.Marshal()
	if len(buf) != g.Size() {
		t.Fatalf("marshal len = %d, want %d", len(buf), g.Size())
	}
	for i, want := range []float32{1, -2, 3.5, 0.18} {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])); got != want {
			t.Fatalf("word %d = %v, want %v", i, got, want)
		}
	}
}

func TestRotationDecay(t *testing.T) {
	run := func(angularVelocity float64, options ...FieldBuilderOption) []Particle {
		r := rig.NewRig(rig.WithAngularVelocity(angularVelocity))
		options = append([]FieldBuilderOption{WithCapacity(16), WithRandSourceFactory(constFactory(0.5))}, options...)
		f := NewField(r, options...)
		for range 10 {
			r.Advance(0.016)
			f.Update(0.016, r)
		}
		return f.Snapshot(nil)
	}

	tests := []struct {
		name  string
		got   []Particle
		want  []Particle
		equal bool
	}{
		{"default is the fixed rate", run(0), run(0, WithRotationDecay(DefaultRotationDecay)), true},
		{"default ignores the rig", run(0), run(0, WithDecayFollowingRig()), false},
		{"following rig matches the rig rate", run(0.5, WithDecayFollowingRig()), run(0.5, WithRotationDecay(0.5)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			same := true
			for i := range tt.got {
				if tt.got[i].Position != tt.want[i].Position {
					same = false
					break
				}
			}
			if same != tt.equal {
				t.Fatalf("positions equal = %v, want %v", same, tt.equal)
			}
		})
	}
}
