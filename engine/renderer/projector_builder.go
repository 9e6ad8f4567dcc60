package renderer

// ProjectorBuilderOption is a functional option applied to a Projector during construction via NewProjector.
type ProjectorBuilderOption func(*Projector)

// WithSplatScale multiplies every projected splat radius. Coarse targets such as terminal
// cells use values below 1.
//
// Parameters:
//   - scale: radius multiplier (non-positive values are ignored)
//
// Returns:
//   - ProjectorBuilderOption: option function to apply
func WithSplatScale(scale float32) ProjectorBuilderOption {
	return func(p *Projector) {
		if scale > 0 {
			p.splatScale = scale
		}
	}
}

// WithMinSplatRadius keeps distant particles visible by clamping their radius from below.
//
// Parameters:
//   - radius: minimum radius in pixels
//
// Returns:
//   - ProjectorBuilderOption: option function to apply
func WithMinSplatRadius(radius float32) ProjectorBuilderOption {
	return func(p *Projector) {
		p.minSplatRadius = max(radius, 0)
	}
}

// WithBackfaceCulling toggles dropping triangles that face away from the eye. Parts marked
// double-sided are never culled.
//
// Parameters:
//   - enabled: true to cull (default)
//
// Returns:
//   - ProjectorBuilderOption: option function to apply
func WithBackfaceCulling(enabled bool) ProjectorBuilderOption {
	return func(p *Projector) {
		p.cullBackfaces = enabled
	}
}
