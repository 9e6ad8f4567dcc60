package poster

import (
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/renderer/raster_backend"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/scene"
)

// PosterBuilderOption is a functional option for configuring a poster render.
type PosterBuilderOption func(*poster)

// WithSize sets the image size in pixels. Non-positive sizes are ignored.
//
// Parameters:
//   - width: image width
//   - height: image height
//
// Returns:
//   - PosterBuilderOption: option function to apply
func WithSize(width, height int) PosterBuilderOption {
	return func(p *poster) {
		if width > 0 && height > 0 {
			p.width, p.height = width, height
		}
	}
}

// WithDuration sets how many simulated seconds pass before the frame is captured, and
// the fixed step used to get there.
//
// Parameters:
//   - seconds: simulated time (negative values are treated as zero)
//   - step: seconds per tick (non-positive values keep the default)
//
// Returns:
//   - PosterBuilderOption: option function to apply
func WithDuration(seconds, step float32) PosterBuilderOption {
	return func(p *poster) {
		p.seconds = max(seconds, 0)
		if step > 0 {
			p.step = step
		}
	}
}

func WithSceneOptions(options ...scene.SceneBuilderOption) PosterBuilderOption {
	return func(p *poster) {
		p.sceneOptions = append(p.sceneOptions, options...)
	}
}

func WithRasterOptions(options ...raster_backend.RasterBackendBuilderOption) PosterBuilderOption {
	return func(p *poster) {
		p.rasterOptions = append(p.rasterOptions, options...)
	}
}
