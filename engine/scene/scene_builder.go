package scene

import (
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/camera"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/light"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/model"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/particle"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/rig"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithName sets the scene's identifier used in log lines.
func WithName(name string) SceneBuilderOption {
	return func(s *scene) {
		s.name = name
	}
}

// WithCamera replaces the studio camera.
//
// Parameters:
//   - cam: the camera to use
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.camera = cam
	}
}

// WithLights replaces the studio light rig. An empty, non-nil slice renders with
// emissive materials only.
//
// Parameters:
//   - lights: the lights to use
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLights(lights []light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.lights = lights
	}
}

// WithModel replaces the procedural sprinkler model.
func WithModel(m model.Model) SceneBuilderOption {
	return func(s *scene) {
		s.model = m
	}
}

// WithRig supplies a prebuilt rig. Options passed through WithRigOptions are then
// ignored.
//
// Parameters:
//   - r: the rig to drive
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRig(r rig.Rig) SceneBuilderOption {
	return func(s *scene) {
		s.rig = r
	}
}

// WithRigOptions configures the rig built by NewScene.
//
// Parameters:
//   - options: rig builder options
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRigOptions(options ...rig.RigBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.rigOptions = append(s.rigOptions, options...)
	}
}

// WithFieldOptions configures the particle field. The options are kept so a field
// rebuilt on remount has the same configuration.
//
// Parameters:
//   - options: particle field builder options
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithFieldOptions(options ...particle.FieldBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.fieldOptions = append(s.fieldOptions, options...)
	}
}

// WithParticleWorkers updates the spray on n worker goroutines.
//
// Parameters:
//   - n: number of workers (1 updates on the frame goroutine)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithParticleWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		s.fieldOptions = append(s.fieldOptions, particle.WithWorkers(n))
	}
}

// WithPointStyle overrides how droplets are drawn. The opacity is still driven by the
// spray fade.
func WithPointStyle(style renderer.PointStyle) SceneBuilderOption {
	return func(s *scene) {
		s.points = style
	}
}

func WithClearColor(c [4]float32) SceneBuilderOption {
	return func(s *scene) {
		s.clearColor = c
	}
}

// WithSize sets the surface size applied to the camera and to the renderer on Mount.
//
// Parameters:
//   - width: surface width in pixels
//   - height: surface height in pixels
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSize(width, height int) SceneBuilderOption {
	return func(s *scene) {
		if width > 0 && height > 0 {
			s.width, s.height = width, height
		}
	}
}
