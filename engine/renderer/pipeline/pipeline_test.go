package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-moto/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("default")

	assert.Equal(t, "default", p.PipelineKey())
	assert.Equal(t, wgpu.CompareFunctionLess, p.DepthCompare())
	assert.True(t, p.DepthWriteEnabled())
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Nil(t, p.RenderPipeline())
	assert.Nil(t, p.Shader(shader.ShaderTypeVertex))
}

func TestPolygonPipeline(t *testing.T) {
	p := NewPolygonPipeline()

	assert.Equal(t, PolygonPipelineKey, p.PipelineKey())
	assert.Equal(t, wgpu.CompareFunctionAlways, p.DepthCompare())
	assert.True(t, p.DepthWriteEnabled())
	assert.Equal(t, wgpu.ColorWriteMaskNone, p.WriteMask())
	require.NotNil(t, p.Shader(shader.ShaderTypeVertex))
	require.NotNil(t, p.Shader(shader.ShaderTypeFragment))
}

func TestPicturePipeline(t *testing.T) {
	p := NewPicturePipeline()

	assert.Equal(t, PicturePipelineKey, p.PipelineKey())
	assert.Equal(t, wgpu.CompareFunctionNotEqual, p.DepthCompare())
	assert.False(t, p.DepthWriteEnabled())
	assert.True(t, p.BlendEnabled())
	require.NotNil(t, p.BlendState())
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, p.BlendState().Color.SrcFactor)
	assert.Equal(t, shader.PictureFragmentKey, p.Shader(shader.ShaderTypeFragment).Key())
}

func TestPipelineRasterOptions(t *testing.T) {
	blend := &wgpu.BlendState{
		Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOne, Operation: wgpu.BlendOperationAdd},
		Alpha: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorZero, Operation: wgpu.BlendOperationAdd},
	}
	p := NewPipeline("outline",
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithFrontFace(wgpu.FrontFaceCW),
		WithCullMode(wgpu.CullModeBack),
		WithBlendEnabled(true),
		WithBlendState(blend),
	)

	assert.Equal(t, wgpu.PrimitiveTopologyLineList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCW, p.FrontFace())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Same(t, blend, p.BlendState())
}

func TestPresetsDrawBothWindings(t *testing.T) {
	for _, p := range []Pipeline{NewPolygonPipeline(), NewPicturePipeline()} {
		assert.Equal(t, wgpu.CullModeNone, p.CullMode(), p.PipelineKey())
		assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology(), p.PipelineKey())
	}
	assert.Equal(t, wgpu.FrontFaceCCW, NewPolygonPipeline().FrontFace())
	assert.Nil(t, NewPolygonPipeline().BlendState())
	assert.Equal(t, AlphaBlend(), NewPicturePipeline().BlendState())
}
