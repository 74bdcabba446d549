package shader

import "github.com/cogentcore/webgpu/wgpu"

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithEntryPoint overrides the default entry point name.
//
// Parameters:
//   - name: the WGSL function name of the entry point
//
// Returns:
//   - ShaderBuilderOption: a function that sets the entry point
func WithEntryPoint(name string) ShaderBuilderOption {
	return func(s *shader) {
		s.entryPoint = name
	}
}

// WithVertexLayout appends a vertex buffer layout. Layouts are bound to vertex buffer slots in the order they are added.
//
// Parameters:
//   - layout: the vertex buffer layout
//
// Returns:
//   - ShaderBuilderOption: a function that appends the vertex layout
func WithVertexLayout(layout wgpu.VertexBufferLayout) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexLayouts = append(s.vertexLayouts, layout)
	}
}

// WithBindGroupLayout declares a bind group read by this stage.
//
// Parameters:
//   - group: the bind group index
//   - descriptor: the layout descriptor of the group
//
// Returns:
//   - ShaderBuilderOption: a function that records the bind group layout
func WithBindGroupLayout(group int, descriptor wgpu.BindGroupLayoutDescriptor) ShaderBuilderOption {
	return func(s *shader) {
		s.bindGroupLayoutDescriptors[group] = descriptor
	}
}
