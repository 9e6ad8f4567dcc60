package audio

import (
	"math"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-sprinkler/common"
)

func TestExposure(t *testing.T) {
	tests := []struct {
		name     string
		jet      common.Vec3
		listener common.Vec3
		want     float64
	}{
		{"facing", common.Vec3{0, 0.3, 1}, common.Vec3{0, 2, 5}, 1},
		{"away", common.Vec3{0, 0, 1}, common.Vec3{0, 0, -1}, 0.2},
		{"side", common.Vec3{1, 0, 0}, common.Vec3{0, 0, 1}, 0.2},
		{"no jet", common.Vec3{0, 1, 0}, common.Vec3{0, 0, 1}, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Exposure(tt.jet, tt.listener, 0.2, 4)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Fatalf("Exposure = %v, want %v", got, tt.want)
			}
		})
	}

	diag := Exposure(common.Vec3{1, 0, 1}, common.Vec3{0, 0, 1}, 0, 2)
	if math.Abs(diag-0.5) > 1e-6 {
		t.Fatalf("45 degree exposure = %v, want 0.5", diag)
	}
}

func TestHissRange(t *testing.T) {
	h := newHiss(sampleRate, 3000, 7)
	h.setLevel(1)
	samples := make([][2]float64, 4096)
	n, ok := h.Stream(samples)
	if !ok || n != len(samples) {
		t.Fatalf("Stream = %d, %v", n, ok)
	}
	var energy float64
	for i := range samples[:n] {
		for c := range 2 {
			v := samples[i][c]
			if v < -1 || v > 1 {
				t.Fatalf("sample %d out of range: %v", i, v)
			}
			energy += v * v
		}
	}
	if energy == 0 {
		t.Fatal("hiss at full level should not be silent")
	}
	if h.Err() != nil {
		t.Fatal(h.Err())
	}
}

func TestHissSilentAtZeroLevel(t *testing.T) {
	h := newHiss(sampleRate, 3000, 7)
	h.setLevel(0)
	samples := make([][2]float64, 256)
	h.Stream(samples)
	for i := range samples {
		if samples[i] != [2]float64{} {
			t.Fatalf("sample %d = %v, want silence", i, samples[i])
		}
	}
}

func TestSetLevelClamps(t *testing.T) {
	h := newHiss(sampleRate, 3000, 1)
	h.setLevel(3)
	if h.level() != 1 {
		t.Fatalf("level = %v", h.level())
	}
	h.setLevel(-1)
	if h.level() != 0 {
		t.Fatalf("level = %v", h.level())
	}
}

func TestAmbienceMuteAndPause(t *testing.T) {
	tests := []struct {
		name  string
		setup func(Ambience)
	}{
		{"muted", func(a Ambience) { a.SetVolume(0) }},
		{"paused", func(a Ambience) { a.SetPaused(true) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAmbience(WithFloor(1), WithSeed(3))
			tt.setup(a)
			samples := make([][2]float64, 512)
			a.Streamer().Stream(samples)
			for i := range samples {
				if samples[i] != [2]float64{} {
					t.Fatalf("sample %d = %v, want silence", i, samples[i])
				}
			}
		})
	}
}

func TestAmbienceTrackAndClose(t *testing.T) {
	a := NewAmbience(WithFloor(0.1)).(*ambience)
	a.Track(common.Vec3{0, 0, 1}, common.Vec3{0, 0, 3})
	if a.hiss.level() != 1 {
		t.Fatalf("level facing the listener = %v", a.hiss.level())
	}
	a.Track(common.Vec3{0, 0, -1}, common.Vec3{0, 0, 3})
	if math.Abs(a.hiss.level()-0.1) > 1e-9 {
		t.Fatalf("level facing away = %v", a.hiss.level())
	}
	a.Close()
	a.Close()
	if err := a.Start(); err != nil {
		t.Fatalf("Start after Close should be a no-op, got %v", err)
	}
}

func TestAmbienceControlsWhileClosing(t *testing.T) {
	a := NewAmbience(WithSeed(5)).(*ambience)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 50 {
				a.SetVolume(float64(j%10) / 10)
				a.SetPaused((i+j)%2 == 0)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.Close()
	}()
	wg.Wait()

	a.SetVolume(0.5)
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.closed || a.started {
		t.Fatalf("closed %v started %v, want closed and stopped", a.closed, a.started)
	}
	if a.volume.Silent || a.volume.Volume != -1 {
		t.Fatalf("volume = %+v, want log2(0.5)", a.volume)
	}
}
