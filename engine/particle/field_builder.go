package particle

// FieldBuilderOption is a functional option for configuring a Field.
type FieldBuilderOption func(*fieldImpl)

// WithCapacity sets the fixed number of particles in the pool.
//
// Parameters:
//   - n: pool size
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithCapacity(n int) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.capacity = n
	}
}

// WithMaxLifetime sets how long a droplet flies before it is recycled.
//
// Parameters:
//   - seconds: lifetime in seconds (> 0)
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithMaxLifetime(seconds float32) FieldBuilderOption {
	return func(f *fieldImpl) {
		if seconds > 0 {
			f.maxLifetime = seconds
		}
	}
}

// WithSpeed sets the base launch speed and the width of its random jitter.
//
// Parameters:
//   - base: minimum launch speed in units per second
//   - jitter: extra speed drawn uniformly from [0, jitter)
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithSpeed(base, jitter float32) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.baseSpeed = base
		f.speedJitter = jitter
	}
}

// WithAngleJitter sets the full width of the per-droplet heading offset.
func WithAngleJitter(span float32) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.angleJitter = span
	}
}

// WithLiftJitter sets the full width of the per-droplet vertical drift.
func WithLiftJitter(span float32) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.liftJitter = span
	}
}

// WithVerticalForce sets the climb term: sin(angle) * speed * scale per second.
//
// Parameters:
//   - angle: launch elevation in radians
//   - scale: multiplier applied to the speed
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithVerticalForce(angle, scale float64) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.verticalForceAngle = angle
		f.verticalScale = scale
	}
}

// WithSpreadFactor sets how strongly the heading offset widens the horizontal step.
func WithSpreadFactor(factor float64) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.spreadFactor = factor
	}
}

// WithMaxRadius sets the distance from the rig base beyond which a droplet is recycled.
func WithMaxRadius(radius float32) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.maxRadius = radius
	}
}

// WithSize sets the point size range drawn once per particle.
func WithSize(base, jitter float32) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.sizeBase = base
		f.sizeJitter = jitter
	}
}

// WithRotationDecay sets the rate at which a droplet's heading lags the turret.
// Defaults to DefaultRotationDecay.
//
// Parameters:
//   - rate: heading lag in radians per second of droplet age
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithRotationDecay(rate float64) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.decayRate = rate
		f.decayFollowsRig = false
	}
}

// WithDecayFollowingRig ties the heading lag to the rig's angular velocity, so each
// droplet keeps the heading it was fired at and a stopped turret gives a straight jet.
func WithDecayFollowingRig() FieldBuilderOption {
	return func(f *fieldImpl) {
		f.decayFollowsRig = true
	}
}

// WithSeed makes the field deterministic. Zero seeds from the clock.
//
// Parameters:
//   - seed: base seed for the per-chunk math/rand sources
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithSeed(seed int64) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.seed = seed
	}
}

// WithRandSourceFactory injects the random source used by each update chunk.
// It takes precedence over WithSeed.
//
// Parameters:
//   - factory: called once per chunk on construction and on every Reset
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithRandSourceFactory(factory RandSourceFactory) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.randFactory = factory
	}
}

// WithWorkers sets how many pooled goroutines update chunks in parallel.
// One worker updates inline on the calling goroutine.
//
// Parameters:
//   - n: worker count (values below 1 mean 1)
//
// Returns:
//   - FieldBuilderOption: option function to apply
func WithWorkers(n int) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.workers = max(n, 1)
	}
}

// WithChunkSize sets how many consecutive particles share one random source and task.
func WithChunkSize(n int) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.chunkSize = n
	}
}
