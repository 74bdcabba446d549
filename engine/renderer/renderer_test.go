package renderer

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-moto/common"
	"github.com/Carmen-Shannon/oxy-moto/engine/camera"
	"github.com/Carmen-Shannon/oxy-moto/engine/renderer/binding"
	"github.com/Carmen-Shannon/oxy-moto/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type meshWrite struct {
	label      string
	vertexLen  int
	indexLen   int
	indexCount int
}

type drawCall struct {
	pipelineKey string
	mesh        string
	groups      []string
}

// fakeBackend records calls instead of touching a GPU.
type fakeBackend struct {
	calls       []string
	meshWrites  []meshWrite
	draws       []drawCall
	uniform     []byte
	configured  [][2]int
	beginErr    error
	releases    int
	presentMode PresentMode
}

func (f *fakeBackend) ConfigureSurface(width, height int) {
	f.configured = append(f.configured, [2]int{width, height})
}
func (f *fakeBackend) SetPresentMode(mode PresentMode) { f.presentMode = mode }
func (f *fakeBackend) SetClearColor(wgpu.Color)       {}
func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	f.calls = append(f.calls, "register:"+p.PipelineKey())
	return nil
}
func (f *fakeBackend) WriteMeshBuffers(provider binding.Provider, vertexData, indexData []byte, indexCount int) error {
	f.meshWrites = append(f.meshWrites, meshWrite{provider.Label(), len(vertexData), len(indexData), indexCount})
	return nil
}
func (f *fakeBackend) InitBindGroup(provider binding.Provider, _ wgpu.BindGroupLayoutDescriptor) error {
	f.calls = append(f.calls, "bindgroup:"+provider.Label())
	return nil
}
func (f *fakeBackend) InitTextureView(provider binding.Provider, _ int, _ common.TextureStagingData) error {
	f.calls = append(f.calls, "texture:"+provider.Label())
	return nil
}
func (f *fakeBackend) InitSampler(provider binding.Provider, _ int) error {
	f.calls = append(f.calls, "sampler:"+provider.Label())
	return nil
}
func (f *fakeBackend) WriteBuffer(_ binding.Provider, _ int, data []byte) { f.uniform = data }
func (f *fakeBackend) BeginFrame() error                                   { return f.beginErr }
func (f *fakeBackend) DrawCall(p pipeline.Pipeline, mesh binding.Provider, groups []binding.Provider) {
	d := drawCall{pipelineKey: p.PipelineKey(), mesh: mesh.Label()}
	for _, g := range groups {
		d.groups = append(d.groups, g.Label())
	}
	f.draws = append(f.draws, d)
}
func (f *fakeBackend) EndFrame() { f.calls = append(f.calls, "end") }
func (f *fakeBackend) Present()  { f.calls = append(f.calls, "present") }
func (f *fakeBackend) Release()  { f.releases++ }

func newTestRenderer(t *testing.T) (*renderer, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{}
	r := &renderer{
		mu:              &sync.Mutex{},
		pipelineCache:   make(map[string]pipeline.Pipeline),
		backend:         fb,
		cameraProvider:  binding.NewProvider("Camera"),
		atlasProvider:   binding.NewProvider("Atlas"),
		polygonProvider: binding.NewProvider("Polygons"),
		pictureProvider: binding.NewProvider("Pictures"),
	}
	require.NoError(t, r.registerPipelines())
	return r, fb
}

func TestRegisterPipelinesAddsBuiltIns(t *testing.T) {
	r, fb := newTestRenderer(t)

	assert.NotNil(t, r.Pipeline(pipeline.PolygonPipelineKey))
	assert.NotNil(t, r.Pipeline(pipeline.PicturePipelineKey))
	assert.ElementsMatch(t, []string{"register:polygon", "register:picture"}, fb.calls)
}

func TestWithPipelineReplacesBuiltIn(t *testing.T) {
	custom := pipeline.NewPipeline(pipeline.PolygonPipelineKey)
	fb := &fakeBackend{}
	r := &renderer{mu: &sync.Mutex{}, pipelineCache: make(map[string]pipeline.Pipeline), backend: fb}
	WithPipeline(pipeline.PolygonPipelineKey, custom)(r)

	require.NoError(t, r.registerPipelines())
	assert.Same(t, custom, r.Pipeline(pipeline.PolygonPipelineKey))
}

func TestDrawPicturesRequiresAtlas(t *testing.T) {
	r, fb := newTestRenderer(t)

	err := r.DrawPictures(make([]common.PictureVertex, 4), []uint32{0, 1, 2, 0, 2, 3})
	assert.ErrorIs(t, err, ErrAtlasNotUploaded)
	assert.Empty(t, fb.draws)
}

func TestUploadAtlasOrder(t *testing.T) {
	r, fb := newTestRenderer(t)
	fb.calls = nil

	require.NoError(t, r.UploadAtlas(common.TextureStagingData{Pixels: make([]byte, 16), Width: 2, Height: 2}))
	assert.Equal(t, []string{"texture:Atlas", "sampler:Atlas", "bindgroup:Atlas"}, fb.calls)
}

func TestFrameDrawsPolygonsThenPictures(t *testing.T) {
	r, fb := newTestRenderer(t)
	require.NoError(t, r.UploadAtlas(common.TextureStagingData{Pixels: make([]byte, 4), Width: 1, Height: 1}))
	require.NoError(t, r.UploadPolygons(make([]common.PolygonVertex, 3), []uint32{0, 1, 2}))

	require.NoError(t, r.BeginFrame())
	r.SetViewport(camera.Viewport{Position: mgl64.Vec2{-20, -15}, Size: mgl64.Vec2{40, 30}})
	r.DrawPolygons()
	require.NoError(t, r.DrawPictures(make([]common.PictureVertex, 8), make([]uint32, 12)))
	r.EndFrame()
	r.Present()

	assert.Len(t, fb.uniform, 64)
	require.Len(t, fb.draws, 2)
	assert.Equal(t, drawCall{"polygon", "Polygons", []string{"Camera"}}, fb.draws[0])
	assert.Equal(t, drawCall{"picture", "Pictures", []string{"Camera", "Atlas"}}, fb.draws[1])

	require.Len(t, fb.meshWrites, 2)
	assert.Equal(t, meshWrite{"Polygons", 3 * 12, 3 * 4, 3}, fb.meshWrites[0])
	assert.Equal(t, meshWrite{"Pictures", 8 * 36, 12 * 4, 12}, fb.meshWrites[1])
}

func TestBeginFrameErrorPropagates(t *testing.T) {
	r, fb := newTestRenderer(t)
	fb.beginErr = ErrFrameInProgress

	assert.ErrorIs(t, r.BeginFrame(), ErrFrameInProgress)
}

func TestResizeIgnoresEmptySurface(t *testing.T) {
	r, fb := newTestRenderer(t)

	r.Resize(0, 600)
	r.Resize(800, 0)
	r.Resize(800, 600)
	assert.Equal(t, [][2]int{{800, 600}}, fb.configured)
}

func TestReleaseOnce(t *testing.T) {
	r, fb := newTestRenderer(t)

	r.Release()
	r.Release()
	assert.Equal(t, 1, fb.releases)
}

func TestParsePresentMode(t *testing.T) {
	m, err := ParsePresentMode("VSync")
	require.NoError(t, err)
	assert.Equal(t, PresentModeVSync, m)

	m, err = ParsePresentMode(" uncapped ")
	require.NoError(t, err)
	assert.Equal(t, PresentModeUncapped, m)
	assert.Equal(t, "uncapped", m.String())

	_, err = ParsePresentMode("mailbox")
	assert.Error(t, err)
}

func TestParseMSAA(t *testing.T) {
	cases := map[int]MSAASampleCount{0: MSAAOff, 1: MSAAOff, 4: MSAA4x, 8: MSAA8x, 16: MSAA16x}
	for in, want := range cases {
		got, err := ParseMSAA(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMSAA(2)
	assert.Error(t, err)
}

func TestGrowSize(t *testing.T) {
	assert.Equal(t, uint64(256), growSize(0, 36))
	assert.Equal(t, uint64(1024), growSize(256, 700))
	assert.Equal(t, uint64(512), growSize(512, 512))
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{0: binding.CameraLayout()}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: binding.CameraLayout(),
		1: binding.AtlasLayout(),
	}
	fragment[0].Entries[0].Visibility = wgpu.ShaderStageFragment

	merged := mergeBindGroupLayouts(vertex, fragment)

	require.Len(t, merged, 2)
	require.Len(t, merged[0].Entries, 1)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, merged[0].Entries[0].Visibility)
	assert.Len(t, merged[1].Entries, 2)
}
