package bind_group_provider

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithIndexCount sets the number of indices drawn from the provider's index buffer.
//
// Parameters:
//   - count: index count
//
// Returns:
//   - BindGroupProviderOption: option function to apply
func WithIndexCount(count int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.indexCount = count
	}
}

// WithInstanceCount sets the initial instance count (default 1).
//
// Parameters:
//   - count: instance count
//
// Returns:
//   - BindGroupProviderOption: option function to apply
func WithInstanceCount(count int) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.instanceCount = max(count, 0)
	}
}
