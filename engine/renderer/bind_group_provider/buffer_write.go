package bind_group_provider

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Uniform is shorthand for a whole-buffer write at offset 0.
//
// Parameters:
//   - provider: the target provider
//   - binding: the binding index
//   - data: bytes to upload
//
// Returns:
//   - BufferWrite: the write
func Uniform(provider BindGroupProvider, binding int, data []byte) BufferWrite {
	return BufferWrite{Provider: provider, Binding: binding, Data: data}
}
