package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-moto/common"
	"github.com/Carmen-Shannon/oxy-moto/engine/camera"
	"github.com/Carmen-Shannon/oxy-moto/engine/renderer/binding"
	"github.com/Carmen-Shannon/oxy-moto/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrFrameInProgress is returned by BeginFrame when the previous frame's surface texture
	// has not been presented yet.
	ErrFrameInProgress = errors.New("previous frame surface not yet presented")

	// ErrAtlasNotUploaded is returned by DrawPictures before UploadAtlas has succeeded.
	ErrAtlasNotUploaded = errors.New("atlas texture not uploaded")
)

// Surface is the part of a window the Renderer draws into.
type Surface interface {
	// SurfaceDescriptor returns the platform-specific descriptor used to create the WebGPU surface.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	// Width returns the framebuffer width in pixels.
	Width() int
	// Height returns the framebuffer height in pixels.
	Height() int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backend RendererBackend

	cameraProvider  binding.Provider
	atlasProvider   binding.Provider
	polygonProvider binding.Provider
	pictureProvider binding.Provider
	atlasUploaded   bool
	released        bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	pendingClearColor    *wgpu.Color
}

// Renderer draws one frame of the level: the static ground mesh first, which stamps the
// ground/sky mask into the depth attachment, then every picture quad, each masked by its clip bias.
//
// Per frame the expected call order is BeginFrame, SetViewport, DrawPolygons, DrawPictures,
// EndFrame, Present. All methods must be called from the goroutine that created the Renderer.
type Renderer interface {
	// Pipeline retrieves the registered Pipeline associated with the given key, or nil if not found.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Resize configures the underlying backend to handle a new surface size.
	// Zero or negative sizes (a minimized window) are ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// UploadAtlas creates the atlas texture and sampler and the bind group the picture pipeline reads.
	//
	// Parameters:
	//   - staging: the packed RGBA atlas pixels
	//
	// Returns:
	//   - error: an error if texture or bind group creation fails
	UploadAtlas(staging common.TextureStagingData) error

	// UploadPolygons uploads the static ground mesh. It is called once after triangulation.
	//
	// Parameters:
	//   - vertices: the triangulated ground vertices
	//   - indices: the triangle indices
	//
	// Returns:
	//   - error: an error if buffer creation fails
	UploadPolygons(vertices []common.PolygonVertex, indices []uint32) error

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	//
	// Returns:
	//   - error: ErrFrameInProgress, or an error if the swapchain texture could not be acquired
	BeginFrame() error

	// SetViewport writes the viewport's orthographic projection into the camera uniform.
	//
	// Parameters:
	//   - vp: the world-space rectangle visible this frame
	SetViewport(vp camera.Viewport)

	// DrawPolygons draws the static ground mesh into the depth mask.
	DrawPolygons()

	// DrawPictures rewrites the picture vertex and index buffers in place, growing them when the
	// scene has outgrown them, and draws every picture quad.
	//
	// Parameters:
	//   - vertices: the scene's picture vertices
	//   - indices: the scene's picture indices
	//
	// Returns:
	//   - error: ErrAtlasNotUploaded, or an error if a larger buffer could not be created
	DrawPictures(vertices []common.PictureVertex, indices []uint32) error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface; call Present() after EndFrame to display the frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	Present()

	// Release releases every GPU resource. Further calls are no-ops.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing into the given surface, registers the polygon and picture
// pipelines and allocates the camera uniform. GPU construction failures are returned as errors.
//
// Parameters:
//   - surface: the window surface to draw into
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the new Renderer
//   - error: an error if the adapter, device, surface or pipelines could not be created
func NewRenderer(surface Surface, options ...RendererBuilderOption) (r Renderer, err error) {
	impl := &renderer{
		mu:              &sync.Mutex{},
		pipelineCache:   make(map[string]pipeline.Pipeline),
		cameraProvider:  binding.NewProvider("Camera"),
		atlasProvider:   binding.NewProvider("Atlas"),
		polygonProvider: binding.NewProvider("Polygons"),
		pictureProvider: binding.NewProvider("Pictures"),
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(impl)
	}

	msaa := MSAA4x // default
	if impl.pendingMSAA != nil {
		msaa = *impl.pendingMSAA
	}

	defer func() {
		if rec := recover(); rec != nil {
			if impl.backend != nil {
				impl.backend.Release()
			}
			r, err = nil, fmt.Errorf("failed to create renderer: %v", rec)
		}
	}()

	impl.backend = newWGPURendererBackend(surface.SurfaceDescriptor(), impl.forceFallbackAdapter, msaa)
	if impl.pendingPresentMode != nil {
		impl.backend.SetPresentMode(*impl.pendingPresentMode)
	}
	if impl.pendingClearColor != nil {
		impl.backend.SetClearColor(*impl.pendingClearColor)
	}
	impl.backend.ConfigureSurface(surface.Width(), surface.Height())

	if err := impl.registerPipelines(); err != nil {
		impl.backend.Release()
		return nil, err
	}
	if err := impl.backend.InitBindGroup(impl.cameraProvider, binding.CameraLayout()); err != nil {
		impl.backend.Release()
		return nil, fmt.Errorf("failed to create camera bind group: %w", err)
	}

	return impl, nil
}

// registerPipelines creates the GPU objects of every cached pipeline, adding the built-in
// polygon and picture pipelines when no option replaced them.
func (r *renderer) registerPipelines() error {
	if _, ok := r.pipelineCache[pipeline.PolygonPipelineKey]; !ok {
		r.pipelineCache[pipeline.PolygonPipelineKey] = pipeline.NewPolygonPipeline()
	}
	if _, ok := r.pipelineCache[pipeline.PicturePipelineKey]; !ok {
		r.pipelineCache[pipeline.PicturePipelineKey] = pipeline.NewPicturePipeline()
	}
	for key, p := range r.pipelineCache {
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("failed to register pipeline %q: %w", key, err)
		}
	}
	return nil
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) UploadAtlas(staging common.TextureStagingData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.backend.InitTextureView(r.atlasProvider, binding.BindingAtlasTexture, staging); err != nil {
		return fmt.Errorf("failed to upload atlas texture: %w", err)
	}
	if err := r.backend.InitSampler(r.atlasProvider, binding.BindingAtlasSampler); err != nil {
		return fmt.Errorf("failed to create atlas sampler: %w", err)
	}
	if err := r.backend.InitBindGroup(r.atlasProvider, binding.AtlasLayout()); err != nil {
		return fmt.Errorf("failed to create atlas bind group: %w", err)
	}
	r.atlasUploaded = true
	return nil
}

func (r *renderer) UploadPolygons(vertices []common.PolygonVertex, indices []uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.backend.WriteMeshBuffers(r.polygonProvider, common.SliceToBytes(vertices), common.SliceToBytes(indices), len(indices)); err != nil {
		return fmt.Errorf("failed to upload polygons: %w", err)
	}
	return nil
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) SetViewport(vp camera.Viewport) {
	uniform := camera.GPUCameraUniform{ViewProj: vp.Projection()}
	r.backend.WriteBuffer(r.cameraProvider, binding.BindingCameraUniform, uniform.Marshal())
}

func (r *renderer) DrawPolygons() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backend.DrawCall(r.pipelineCache[pipeline.PolygonPipelineKey], r.polygonProvider, []binding.Provider{r.cameraProvider})
}

func (r *renderer) DrawPictures(vertices []common.PictureVertex, indices []uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.atlasUploaded {
		return ErrAtlasNotUploaded
	}
	if err := r.backend.WriteMeshBuffers(r.pictureProvider, common.SliceToBytes(vertices), common.SliceToBytes(indices), len(indices)); err != nil {
		return fmt.Errorf("failed to write picture buffers: %w", err)
	}
	r.backend.DrawCall(r.pipelineCache[pipeline.PicturePipelineKey], r.pictureProvider, []binding.Provider{r.cameraProvider, r.atlasProvider})
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return
	}
	r.released = true
	r.cameraProvider.Release()
	r.atlasProvider.Release()
	r.polygonProvider.Release()
	r.pictureProvider.Release()
	r.backend.Release()
}
