package shader

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-moto/common"
	"github.com/Carmen-Shannon/oxy-moto/engine/camera"
	"github.com/Carmen-Shannon/oxy-moto/engine/renderer/binding"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed wgsl/polygon.wgsl
var polygonSource string

//go:embed wgsl/picture.wgsl
var pictureSource string

// Keys of the built-in shaders.
const (
	PolygonVertexKey   = "polygon_vs"
	PolygonFragmentKey = "polygon_fs"
	PictureVertexKey   = "picture_vs"
	PictureFragmentKey = "picture_fs"
)

// PolygonVertexLayout describes common.PolygonVertex: position at location 0, depth tag at location 1.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout for the static ground mesh buffer
func PolygonVertexLayout() wgpu.VertexBufferLayout {
	var v common.PolygonVertex
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(v)),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: uint64(unsafe.Offsetof(v.Position)), ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32, Offset: uint64(unsafe.Offsetof(v.Depth)), ShaderLocation: 1},
		},
	}
}

// PictureVertexLayout describes common.PictureVertex: position, tex coord, atlas bounds and clip bias at locations 0 to 3.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout for the dynamic picture buffer
func PictureVertexLayout() wgpu.VertexBufferLayout {
	var v common.PictureVertex
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(v)),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: uint64(unsafe.Offsetof(v.Position)), ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: uint64(unsafe.Offsetof(v.TexCoord)), ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x4, Offset: uint64(unsafe.Offsetof(v.TexBounds)), ShaderLocation: 2},
			{Format: wgpu.VertexFormatFloat32, Offset: uint64(unsafe.Offsetof(v.Clip)), ShaderLocation: 3},
		},
	}
}

// PolygonShaders returns the vertex and fragment stages that stamp the ground depth mask.
//
// Returns:
//   - Shader: the vertex stage
//   - Shader: the fragment stage
func PolygonShaders() (Shader, Shader) {
	source := withCameraUniform(polygonSource)
	vs := NewShader(PolygonVertexKey, ShaderTypeVertex, source,
		WithVertexLayout(PolygonVertexLayout()),
		WithBindGroupLayout(binding.GroupCamera, binding.CameraLayout()),
	)
	fs := NewShader(PolygonFragmentKey, ShaderTypeFragment, source)
	return vs, fs
}

// PictureShaders returns the vertex and fragment stages that draw atlas pictures against the depth mask.
//
// Returns:
//   - Shader: the vertex stage
//   - Shader: the fragment stage
func PictureShaders() (Shader, Shader) {
	source := withCameraUniform(pictureSource)
	vs := NewShader(PictureVertexKey, ShaderTypeVertex, source,
		WithVertexLayout(PictureVertexLayout()),
		WithBindGroupLayout(binding.GroupCamera, binding.CameraLayout()),
	)
	fs := NewShader(PictureFragmentKey, ShaderTypeFragment, source,
		WithBindGroupLayout(binding.GroupAtlas, binding.AtlasLayout()),
	)
	return vs, fs
}

func withCameraUniform(source string) string {
	return camera.GPUCameraUniformSource + "\n\n" + source
}
