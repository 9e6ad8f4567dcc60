package wgpu_backend

// WGPUBackendBuilderOption is a functional option applied to the backend before any GPU
// object is created.
type WGPUBackendBuilderOption func(*wgpuBackend)

// WithPresentMode sets how frames reach the display. Defaults to PresentModeVSync.
//
// Parameters:
//   - mode: the present mode
//
// Returns:
//   - WGPUBackendBuilderOption: option function to apply
func WithPresentMode(mode PresentMode) WGPUBackendBuilderOption {
	return func(b *wgpuBackend) {
		b.presentMode = mode
	}
}

// WithMSAA sets the multisample count. Unsupported counts fall back to MSAA4x.
//
// Parameters:
//   - count: MSAAOff or MSAA4x
//
// Returns:
//   - WGPUBackendBuilderOption: option function to apply
func WithMSAA(count MSAASampleCount) WGPUBackendBuilderOption {
	return func(b *wgpuBackend) {
		if count.valid() {
			b.sampleCount = count
		}
	}
}

// WithForceSoftwareRenderer requests the fallback (CPU) adapter, useful on machines
// without a usable GPU driver.
//
// Parameters:
//   - force: true to request the fallback adapter
//
// Returns:
//   - WGPUBackendBuilderOption: option function to apply
func WithForceSoftwareRenderer(force bool) WGPUBackendBuilderOption {
	return func(b *wgpuBackend) {
		b.forceFallbackAdapter = force
	}
}

// WithClearColor overrides the frame clear color with a fixed one.
//
// Parameters:
//   - rgba: linear RGBA clear color
//
// Returns:
//   - WGPUBackendBuilderOption: option function to apply
func WithClearColor(rgba [4]float32) WGPUBackendBuilderOption {
	return func(b *wgpuBackend) {
		c := rgba
		b.clearOverride = &c
	}
}
