package poster

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/Carmen-Shannon/oxy-sprinkler/engine"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/renderer/raster_backend"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/scene"
)

// poster holds the settings for one still render.
type poster struct {
	width, height int
	seconds       float32
	step          float32

	sceneOptions  []scene.SceneBuilderOption
	rasterOptions []raster_backend.RasterBackendBuilderOption
}

// Render simulates the sprinkler headlessly for a while and writes the final frame as a
// PNG. It is the static stand-in used when no window or GPU is available.
//
// Parameters:
//   - w: destination for the PNG
//   - options: poster options
//
// Returns:
//   - error: an error if the scene could not mount or the image could not be written
func Render(w io.Writer, options ...PosterBuilderOption) error {
	p := &poster{
		width:   1280,
		height:  720,
		seconds: 3,
		step:    1.0 / 60,
	}
	for _, opt := range options {
		opt(p)
	}

	var raster raster_backend.RasterRenderer
	factory := func() (renderer.Renderer, error) {
		r, err := raster_backend.NewRenderer(p.width, p.height, p.rasterOptions...)
		if err != nil {
			return nil, err
		}
		raster = r
		return r, nil
	}

	sceneOptions := append([]scene.SceneBuilderOption{
		scene.WithName("poster"),
		scene.WithSize(p.width, p.height),
	}, p.sceneOptions...)
	s := scene.NewScene(factory, sceneOptions...)

	eng := engine.NewEngine()
	if err := eng.AddScene(0, s); err != nil {
		return fmt.Errorf("poster: %w", err)
	}
	defer eng.RemoveScene(0)

	// Only the last step is drawn.
	steps := max(int(math.Ceil(float64(p.seconds/p.step))), 1)
	for range steps - 1 {
		s.Tick(p.step)
	}
	if eng.RunFrames(1, p.step) != 1 {
		return errors.New("poster: engine stopped before the final frame")
	}

	if err := raster.WritePNG(w); err != nil {
		return fmt.Errorf("poster: %w", err)
	}
	return nil
}
