package model

import "github.com/Carmen-Shannon/oxy-sprinkler/common"

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithPart appends a part to the Model. Parts draw in the order they are added.
//
// Parameters:
//   - part: the part to append
//
// Returns:
//   - ModelBuilderOption: a function that applies the part option to a model
func WithPart(part Part) ModelBuilderOption {
	return func(m *model) {
		m.parts = append(m.parts, part)
	}
}

// WithGroup sets the transform applied to the whole model.
//
// Parameters:
//   - t: the group transform
//
// Returns:
//   - ModelBuilderOption: a function that applies the group option to a model
func WithGroup(t common.Transform) ModelBuilderOption {
	return func(m *model) {
		m.group = t
	}
}

// WithPivot sets the model-space point rotating parts turn about.
func WithPivot(p common.Vec3) ModelBuilderOption {
	return func(m *model) {
		m.pivot = p
	}
}
