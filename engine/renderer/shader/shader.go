package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader entry point runs in.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// shader is the implementation of the Shader interface.
// It holds all of the persistent shader data required for pipeline creation.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	entryPoint                 string
	vertexLayouts              []wgpu.VertexBufferLayout
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader defines the interface for a WGSL shader stage. It exposes the shader's unique key,
// source code, entry point, the vertex buffer layouts it consumes and the bind group layouts
// it reads, which is everything the Renderer needs to create a render pipeline.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for labels and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// ShaderType returns the stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// VertexLayouts returns the vertex buffer layouts consumed by a vertex shader, in slot order.
	// Fragment shaders return nil.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layouts
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptors retrieves the bind group layout descriptors read by this stage,
	// keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// Module returns the wgpu.ShaderModuleDescriptor for this shader.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor
}

var _ Shader = &shader{}

// NewShader creates a new Shader for one stage of a WGSL source.
// The entry point defaults to "vs_main" for vertex shaders and "fs_main" for fragment shaders.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage the shader runs in
//   - source: the WGSL source code
//   - options: variadic list of ShaderBuilderOption functions
//
// Returns:
//   - Shader: a new Shader instance with the provided configuration
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) Shader {
	if source == "" {
		panic(fmt.Sprintf("shader: %s must have a non-empty source", key))
	}
	s := &shader{
		key:                        key,
		source:                     source,
		shaderType:                 shaderType,
		entryPoint:                 "vs_main",
		bindGroupLayoutDescriptors: make(map[int]wgpu.BindGroupLayoutDescriptor),
	}
	if shaderType == ShaderTypeFragment {
		s.entryPoint = "fs_main"
	}
	for _, opt := range options {
		opt(s)
	}
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}
