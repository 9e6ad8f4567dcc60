package raster_backend

// RasterBackendBuilderOption is a functional option applied to the raster renderer during construction.
type RasterBackendBuilderOption func(*rasterBackend)

// WithSupersample renders at factor times the output size and downscales, smoothing
// particle and mesh edges. Defaults to 2.
//
// Parameters:
//   - factor: supersampling factor, clamped to [1, 4]
//
// Returns:
//   - RasterBackendBuilderOption: option function to apply
func WithSupersample(factor int) RasterBackendBuilderOption {
	return func(r *rasterBackend) {
		r.supersample = min(max(factor, 1), 4)
	}
}

// WithCaption toggles the title and time caption in the top-left corner.
func WithCaption(enabled bool) RasterBackendBuilderOption {
	return func(r *rasterBackend) {
		r.caption = enabled
	}
}

// WithTitle sets the caption title. Defaults to "Sprinkler".
func WithTitle(title string) RasterBackendBuilderOption {
	return func(r *rasterBackend) {
		r.title = title
	}
}

// WithFontSize sets the caption font size in points.
//
// Parameters:
//   - size: font size, ignored if not positive
//
// Returns:
//   - RasterBackendBuilderOption: option function to apply
func WithFontSize(size float64) RasterBackendBuilderOption {
	return func(r *rasterBackend) {
		if size > 0 {
			r.fontSize = size
		}
	}
}
