package binding

import "github.com/cogentcore/webgpu/wgpu"

// ProviderBuilderOption is a functional option used to configure a Provider during construction.
type ProviderBuilderOption func(*provider)

// WithBindGroupLayout sets a pre-created bind group layout, so the Renderer reuses it
// instead of creating one from the layout descriptor.
//
// Parameters:
//   - bgl: the bind group layout to use for this provider
//
// Returns:
//   - ProviderBuilderOption: a function that sets the bind group layout
func WithBindGroupLayout(bgl *wgpu.BindGroupLayout) ProviderBuilderOption {
	return func(p *provider) {
		p.bindGroupLayout = bgl
	}
}

// WithBuffer sets a pre-created buffer for a specific binding index.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to associate with this binding
//
// Returns:
//   - ProviderBuilderOption: a function that sets the buffer for the specified binding
func WithBuffer(binding int, buf *wgpu.Buffer) ProviderBuilderOption {
	return func(p *provider) {
		p.buffers[binding] = buf
	}
}
