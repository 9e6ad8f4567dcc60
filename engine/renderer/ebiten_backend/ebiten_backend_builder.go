package ebiten_backend

// EbitenBackendBuilderOption is a functional option applied to the ebiten renderer during construction.
type EbitenBackendBuilderOption func(*ebitenBackend)

// WithTitle sets the window title.
func WithTitle(title string) EbitenBackendBuilderOption {
	return func(b *ebitenBackend) {
		b.title = title
	}
}

// WithWindowSize sets the initial window size in pixels.
//
// Parameters:
//   - width: window width
//   - height: window height
//
// Returns:
//   - EbitenBackendBuilderOption: option function to apply
func WithWindowSize(width, height int) EbitenBackendBuilderOption {
	return func(b *ebitenBackend) {
		if width > 0 && height > 0 {
			b.width, b.height = width, height
		}
	}
}

// WithCaption toggles the debug caption in the top-left corner.
func WithCaption(enabled bool) EbitenBackendBuilderOption {
	return func(b *ebitenBackend) {
		b.caption = enabled
	}
}

// WithUpdate sets the per-tick callback at construction time.
func WithUpdate(fn func() error) EbitenBackendBuilderOption {
	return func(b *ebitenBackend) {
		b.onUpdate = fn
	}
}
