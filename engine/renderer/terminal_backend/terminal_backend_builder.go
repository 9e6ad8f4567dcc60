package terminal_backend

// TerminalBackendBuilderOption is a functional option applied to the terminal renderer during construction.
type TerminalBackendBuilderOption func(*terminalBackend)

// WithCaption toggles the status line drawn on the first row. Enabled by default.
func WithCaption(enabled bool) TerminalBackendBuilderOption {
	return func(t *terminalBackend) {
		t.caption = enabled
	}
}

// WithSplatScale scales particle discs. Terminal pixels are coarse, so values below 1
// keep the spray from turning into a solid cloud.
//
// Parameters:
//   - scale: radius multiplier
//
// Returns:
//   - TerminalBackendBuilderOption: option function to apply
func WithSplatScale(scale float32) TerminalBackendBuilderOption {
	return func(t *terminalBackend) {
		if scale > 0 {
			t.splatScale = scale
		}
	}
}

// WithMinSplatRadius sets the smallest particle radius in terminal pixels (default 0.5).
//
// Parameters:
//   - radius: minimum radius
//
// Returns:
//   - TerminalBackendBuilderOption: option function to apply
func WithMinSplatRadius(radius float32) TerminalBackendBuilderOption {
	return func(t *terminalBackend) {
		t.minSplatRadius = max(radius, 0)
	}
}
