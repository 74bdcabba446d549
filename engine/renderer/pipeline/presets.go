package pipeline

import (
	"github.com/Carmen-Shannon/oxy-moto/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Keys of the two pipelines drawn every frame.
const (
	PolygonPipelineKey = "polygon"
	PicturePipelineKey = "picture"
)

// NewPolygonPipeline builds the ground mask pipeline. Every ground fragment writes its depth tag
// unconditionally and leaves the color target untouched.
//
// Returns:
//   - Pipeline: the polygon pipeline, not yet registered with a Renderer
func NewPolygonPipeline() Pipeline {
	vs, fs := shader.PolygonShaders()
	return NewPipeline(PolygonPipelineKey,
		WithVertexShader(vs),
		WithFragmentShader(fs),
		WithDepthCompare(wgpu.CompareFunctionAlways),
		WithDepthWriteEnabled(true),
		WithWriteMask(wgpu.ColorWriteMaskNone),
		WithTopology(wgpu.PrimitiveTopologyTriangleList),
		WithFrontFace(wgpu.FrontFaceCCW),
		WithCullMode(wgpu.CullModeNone),
	)
}

// NewPicturePipeline builds the atlas picture pipeline. A picture passes the depth test only where
// its clip bias differs from the mask value already in the depth attachment, so unclipped pictures
// draw everywhere, ground pictures draw over ground and sky pictures draw over sky.
//
// Returns:
//   - Pipeline: the picture pipeline, not yet registered with a Renderer
func NewPicturePipeline() Pipeline {
	vs, fs := shader.PictureShaders()
	return NewPipeline(PicturePipelineKey,
		WithVertexShader(vs),
		WithFragmentShader(fs),
		WithDepthCompare(wgpu.CompareFunctionNotEqual),
		WithDepthWriteEnabled(false),
		WithBlendEnabled(true),
		WithBlendState(AlphaBlend()),
		WithTopology(wgpu.PrimitiveTopologyTriangleList),
		WithCullMode(wgpu.CullModeNone),
	)
}

// AlphaBlend returns straight alpha blending: color by source alpha, alpha accumulated over the target.
func AlphaBlend() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}
