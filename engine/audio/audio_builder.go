package audio

// AmbienceBuilderOption is a functional option applied to the ambience during construction.
type AmbienceBuilderOption func(*ambience)

// WithFloor sets the loudness when the jet points away from the listener.
//
// Parameters:
//   - floor: level in [0, 1]
//
// Returns:
//   - AmbienceBuilderOption: option function to apply
func WithFloor(floor float64) AmbienceBuilderOption {
	return func(a *ambience) {
		a.floor = min(max(floor, 0), 1)
	}
}

// WithSharpness sets how narrow the swell is as the jet sweeps past. Higher is narrower.
func WithSharpness(sharpness float64) AmbienceBuilderOption {
	return func(a *ambience) {
		if sharpness > 0 {
			a.sharpness = sharpness
		}
	}
}

// WithVolume sets the initial master volume in [0, 1].
func WithVolume(volume float64) AmbienceBuilderOption {
	return func(a *ambience) {
		a.gain = volume
	}
}

// WithCutoff sets the hiss low-pass cutoff in Hz.
func WithCutoff(hz float64) AmbienceBuilderOption {
	return func(a *ambience) {
		if hz > 0 {
			a.cutoff = hz
		}
	}
}

// WithSeed fixes the noise seed.
func WithSeed(seed uint64) AmbienceBuilderOption {
	return func(a *ambience) {
		a.seed = seed
	}
}
