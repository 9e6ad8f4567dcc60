// pre_processor.go resolves #include directives in WGSL sources. Each include names a
// GPU struct whose canonical WGSL lives next to its Go mirror (camera, light, model,
// particle, renderer), so shader structs can never drift from the marshaled layouts.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-sprinkler/engine/camera"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/light"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/model"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/particle"
	"github.com/Carmen-Shannon/oxy-sprinkler/engine/renderer"
)

const includeDirective = "#include"

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// structRegistry maps include names to embedded WGSL struct sources.
	structRegistry map[string]string

	// includes records the names resolved by the last Process call, in source order.
	includes []string
}

// PreProcessor expands #include directives in WGSL source.
type PreProcessor interface {
	// Process replaces every "#include <name>" line with the registered struct source.
	// Each name is expanded at most once; repeats are dropped.
	//
	// Parameters:
	//   - source: raw WGSL source
	//
	// Returns:
	//   - string: the expanded source
	//   - error: an error if a directive is malformed or names an unknown struct
	Process(source string) (string, error)

	// Includes returns the struct names expanded by the most recent Process call.
	Includes() []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the engine's GPU structs registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[string]string{
			"camera":        camera.GPUCameraUniformSource,
			"light":         light.GPULightSource,
			"light_header":  light.GPULightHeaderSource,
			"vertex":        model.GPUVertexSource,
			"part_uniform":  model.GPUPartUniformSource,
			"particle":      particle.GPUParticleSource,
			"point_uniform": renderer.GPUPointUniformSource,
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.includes = p.includes[:0]
	seen := make(map[string]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), includeDirective)
		if !ok {
			out = append(out, line)
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) != 1 {
			return "", fmt.Errorf("line %d: %s expects exactly one name", i+1, includeDirective)
		}
		name := fields[0]
		src, ok := p.structRegistry[name]
		if !ok {
			return "", fmt.Errorf("line %d: unknown include %q", i+1, name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		p.includes = append(p.includes, name)
		out = append(out, strings.TrimRight(src, "\n"))
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Includes() []string {
	return p.includes
}
