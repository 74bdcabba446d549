package binding

import (
	"github.com/Carmen-Shannon/oxy-moto/engine/camera"
	"github.com/cogentcore/webgpu/wgpu"
)

// Bind group and binding indices shared by the WGSL sources and the Renderer.
const (
	GroupCamera = 0
	GroupAtlas  = 1

	BindingCameraUniform = 0
	BindingAtlasTexture  = 0
	BindingAtlasSampler  = 1
)

// CameraLayout describes group 0: the view-projection uniform read by both vertex stages.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the camera bind group layout descriptor
func CameraLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    BindingCameraUniform,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64((&camera.GPUCameraUniform{}).Size()),
				},
			},
		},
	}
}

// AtlasLayout describes group 1: the packed picture atlas and its sampler, read by the picture fragment stage.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the atlas bind group layout descriptor
func AtlasLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Atlas Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    BindingAtlasTexture,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    BindingAtlasSampler,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}
