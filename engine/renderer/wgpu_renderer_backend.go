package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-moto/common"
	"github.com/Carmen-Shannon/oxy-moto/engine/renderer/binding"
	"github.com/Carmen-Shannon/oxy-moto/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-moto/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// depthFormat is the format of the depth attachment that carries the ground/sky mask.
const depthFormat = wgpu.TextureFormatDepth32Float

// depthClearValue is the mask value of pixels no ground polygon covers (sky).
const depthClearValue = 0.0

type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode // defaults to PresentModeImmediate (Uncapped)
	sampleCount MSAASampleCount  // MSAA sample count for the main render pass
	clearColor  wgpu.Color

	pipelines []pipeline.Pipeline

	// Frame state for batched rendering across multiple draw calls
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

type wgpuRendererBackend interface {
	// ConfigureSurface (re)configures the swapchain and recreates the MSAA and depth attachments.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode records the present mode applied on the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the main pass clears to before drawing.
	//
	// Parameters:
	//   - c: the clear color
	SetClearColor(c wgpu.Color)

	// RegisterRenderPipeline creates the GPU render pipeline for p and stores it on p.
	//
	// Parameters:
	//   - p: the pipeline to create
	//
	// Returns:
	//   - error: an error if shader module, layout or pipeline creation fails
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// WriteMeshBuffers uploads vertex and index data to the provider's buffers, rewriting them in
	// place when they are large enough and replacing them with larger buffers otherwise.
	//
	// Parameters:
	//   - provider: the mesh provider
	//   - vertexData: the raw vertex bytes
	//   - indexData: the raw index bytes
	//   - indexCount: the number of indices issued by draw calls
	//
	// Returns:
	//   - error: an error if buffer creation fails
	WriteMeshBuffers(provider binding.Provider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates the buffers and bind group described by descriptor. Texture and sampler
	// bindings must be initialized first with InitTextureView and InitSampler.
	//
	// Parameters:
	//   - provider: the provider to store the bind group on
	//   - descriptor: the bind group layout descriptor
	//
	// Returns:
	//   - error: an error if a binding is missing or bind group creation fails
	InitBindGroup(provider binding.Provider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView creates an RGBA texture from staging data and stores it at bindingKey.
	//
	// Parameters:
	//   - provider: the provider to store the texture on
	//   - bindingKey: the binding index of the texture
	//   - stagingData: the pixel data and dimensions
	//
	// Returns:
	//   - error: an error if texture creation fails
	InitTextureView(provider binding.Provider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a nearest-filtering, edge-clamped sampler and stores it at bindingKey.
	//
	// Parameters:
	//   - provider: the provider to store the sampler on
	//   - bindingKey: the binding index of the sampler
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider binding.Provider, bindingKey int) error

	// WriteBuffer writes data to the provider's buffer at binding, starting at offset 0.
	//
	// Parameters:
	//   - provider: the provider holding the buffer
	//   - bindingKey: the binding index of the buffer
	//   - data: the bytes to write
	WriteBuffer(provider binding.Provider, bindingKey int, data []byte)

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	//
	// Returns:
	//   - error: ErrFrameInProgress if the previous frame was not presented, or an acquisition error
	BeginFrame() error

	// DrawCall encodes one indexed draw of meshProvider with p and the given bind groups, bound in slice order.
	//
	// Parameters:
	//   - p: the registered pipeline
	//   - meshProvider: the provider holding vertex and index buffers
	//   - bindGroups: the bind group providers, one per group index
	DrawCall(p pipeline.Pipeline, meshProvider binding.Provider, bindGroups []binding.Provider)

	// EndFrame ends the render pass and submits the command buffer.
	EndFrame()

	// Present presents the acquired surface texture and releases it.
	Present()

	// Release releases every GPU object owned by the backend.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) wgpuRendererBackend {
	runtime.LockOSThread()
	if surfaceDescriptor == nil {
		panic("renderer: window has no surface descriptor")
	}
	w := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		sampleCount: sampleCount,
		clearColor:  wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
	}
	w.surface = w.instance.CreateSurface(surfaceDescriptor)

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseAttachments()

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	if msaaEnabled {
		// The render pass draws into the MSAA texture; the swapchain view is the ResolveTarget.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTexture = msaaTexture
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	}

	// Depth texture sample count must match the color attachment.
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Mask Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTexture = depthTexture
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard // Don't store MSAA data, just resolve
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          b.msaaTextureView, // nil when MSAA is off; set in BeginFrame
				ResolveTarget: nil,               // set per-frame when MSAA is on
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       storeOp,
				ClearValue:    b.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: depthClearValue,
		},
	}
}

func (b *wgpuRendererBackendImpl) releaseAttachments() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Release()
		b.msaaTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackendImpl) SetClearColor(c wgpu.Color) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clearColor = c
	if b.renderPassDescriptor != nil {
		b.renderPassDescriptor.ColorAttachments[0].ClearValue = c
	}
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	if p.Shader(shader.ShaderTypeVertex) == nil || p.Shader(shader.ShaderTypeFragment) == nil {
		return errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)

	vs, err := b.device.CreateShaderModule(vertexShader.Module())
	if err != nil {
		return err
	}
	defer vs.Release()
	fs, err := b.device.CreateShaderModule(fragmentShader.Module())
	if err != nil {
		return err
	}
	defer fs.Release()

	merged := mergeBindGroupLayouts(vertexShader.BindGroupLayoutDescriptors(), fragmentShader.BindGroupLayoutDescriptors())
	maxGroup := -1
	for g := range merged {
		if g > maxGroup {
			maxGroup = g
		}
	}
	bindGroupLayouts := make([]*wgpu.BindGroupLayout, maxGroup+1)
	for g, desc := range merged {
		layout, layoutErr := b.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			return fmt.Errorf("failed to create bind group layout for group %d: %w", g, layoutErr)
		}
		bindGroupLayouts[g] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return err
	}

	colorTarget := wgpu.ColorTargetState{
		Format:    *b.surfaceFormat,
		WriteMask: p.WriteMask(),
	}
	if p.BlendEnabled() {
		colorTarget.Blend = p.BlendState()
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    vertexShader.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets:    []wgpu.ColorTargetState{colorTarget},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      p.DepthCompare(),
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return err
	}

	p.SetRenderPipeline(created)
	b.pipelines = append(b.pipelines, p)

	return nil
}

func (b *wgpuRendererBackendImpl) WriteMeshBuffers(provider binding.Provider, vertexData, indexData []byte, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(vertexData) > 0 {
		buf, size := provider.VertexBuffer()
		if buf == nil || size < uint64(len(vertexData)) {
			size = growSize(size, uint64(len(vertexData)))
			created, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
				Label: provider.Label() + " Vertex Buffer",
				Size:  size,
				Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
			})
			if err != nil {
				return err
			}
			provider.SetVertexBuffer(created, size)
			buf = created
		}
		b.queue.WriteBuffer(buf, 0, vertexData)
	}

	if len(indexData) > 0 {
		buf, size := provider.IndexBuffer()
		if buf == nil || size < uint64(len(indexData)) {
			size = growSize(size, uint64(len(indexData)))
			created, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
				Label: provider.Label() + " Index Buffer",
				Size:  size,
				Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
			})
			if err != nil {
				return err
			}
			provider.SetIndexBuffer(created, size)
			buf = created
		}
		b.queue.WriteBuffer(buf, 0, indexData)
	}

	provider.SetIndexCount(indexCount)

	return nil
}

// growSize doubles from current until need fits. Sizes stay multiples of 4 for queue writes.
func growSize(current, need uint64) uint64 {
	size := current
	if size < 256 {
		size = 256
	}
	for size < need {
		size *= 2
	}
	return (size + 3) &^ 3
}

func (b *wgpuRendererBackendImpl) InitBindGroup(provider binding.Provider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(descriptor.Entries) == 0 {
		return nil
	}

	layout := provider.BindGroupLayout()
	if layout == nil {
		var err error
		layout, err = b.device.CreateBindGroupLayout(&descriptor)
		if err != nil {
			return err
		}
		provider.SetBindGroupLayout(layout)
	}

	bindGroupEntries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		bindingKey := int(entry.Binding)

		isTexture := entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined
		isSampler := entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined

		switch {
		case isTexture:
			tv := provider.TextureView(bindingKey)
			if tv == nil {
				return fmt.Errorf("texture binding %d has no texture view, call InitTextureView first", bindingKey)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding:     entry.Binding,
				TextureView: tv,
			}
		case isSampler:
			samp := provider.Sampler(bindingKey)
			if samp == nil {
				return fmt.Errorf("sampler binding %d has no sampler, call InitSampler first", bindingKey)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Sampler: samp,
			}
		default:
			buf := provider.Buffer(bindingKey)
			if buf == nil {
				var bufErr error
				buf, bufErr = b.device.CreateBuffer(&wgpu.BufferDescriptor{
					Label: provider.Label() + " Buffer",
					Size:  entry.Buffer.MinBindingSize,
					Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
				})
				if bufErr != nil {
					return bufErr
				}
				provider.SetBuffer(bindingKey, buf)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			}
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: bindGroupEntries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(bindGroup)

	return nil
}

func (b *wgpuRendererBackendImpl) InitTextureView(provider binding.Provider, bindingKey int, stagingData common.TextureStagingData) error {
	if stagingData.Width == 0 || stagingData.Height == 0 {
		return errors.New("texture staging data has zero size")
	}
	if want := int(stagingData.Width) * int(stagingData.Height) * 4; len(stagingData.Pixels) != want {
		return fmt.Errorf("texture staging data has %d bytes, want %d", len(stagingData.Pixels), want)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     provider.Label() + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              stagingData.Width,
			Height:             stagingData.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		stagingData.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  stagingData.Width * 4,
			RowsPerImage: stagingData.Height,
		},
		&wgpu.Extent3D{
			Width:              stagingData.Width,
			Height:             stagingData.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}
	provider.SetTexture(bindingKey, tex, view)

	return nil
}

func (b *wgpuRendererBackendImpl) InitSampler(provider binding.Provider, bindingKey int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Nearest filtering keeps neighbouring atlas cells from bleeding into each other.
	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         provider.Label() + " Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0.0,
		LodMaxClamp:   32.0,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return err
	}
	provider.SetSampler(bindingKey, samp)

	return nil
}

func (b *wgpuRendererBackendImpl) WriteBuffer(provider binding.Provider, bindingKey int, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf := provider.Buffer(bindingKey)
	if buf == nil || len(data) == 0 {
		return
	}
	b.queue.WriteBuffer(buf, 0, data)
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// A surface texture still held from the previous frame cannot be acquired twice.
	if b.frameSurface != nil {
		return ErrFrameInProgress
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	// When MSAA is enabled, the MSAA texture is the color attachment View and
	// the swapchain view is the ResolveTarget. When MSAA is off, the swapchain
	// view is the color attachment View directly and ResolveTarget is nil.
	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackendImpl) DrawCall(p pipeline.Pipeline, meshProvider binding.Provider, bindGroups []binding.Provider) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	vertexBuffer, _ := meshProvider.VertexBuffer()
	indexBuffer, _ := meshProvider.IndexBuffer()
	if vertexBuffer == nil || indexBuffer == nil || meshProvider.IndexCount() == 0 {
		return
	}

	b.framePass.SetPipeline(p.RenderPipeline())

	for i, bg := range bindGroups {
		b.framePass.SetBindGroup(uint32(i), bg.BindGroup(), nil)
	}

	b.framePass.SetVertexBuffer(0, vertexBuffer, 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(uint32(meshProvider.IndexCount()), 1, 0, 0, 0)
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return
	}
	b.framePass.End()
	b.framePass.Release()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass != nil {
		b.framePass.End()
		b.framePass.Release()
		b.framePass = nil
	}
	if b.frameEncoder != nil {
		b.frameEncoder.Release()
		b.frameEncoder = nil
	}
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
	for _, p := range b.pipelines {
		if rp := p.RenderPipeline(); rp != nil {
			rp.Release()
			p.SetRenderPipeline(nil)
		}
	}
	b.pipelines = nil
	b.releaseAttachments()
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// mergeBindGroupLayouts combines the bind group layout descriptors of the vertex and fragment
// stages. A group read by both stages gets its entries merged by binding number with visibility OR'd.
//
// Parameters:
//   - vertexLayouts: bind group layout descriptors from the vertex shader
//   - fragmentLayouts: bind group layout descriptors from the fragment shader
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors keyed by group index
func mergeBindGroupLayouts(
	vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor,
) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor)

	for g, vDesc := range vertexLayouts {
		fDesc, hasF := fragmentLayouts[g]
		if !hasF {
			merged[g] = vDesc
			continue
		}

		entryMap := make(map[uint32]wgpu.BindGroupLayoutEntry)
		for _, e := range vDesc.Entries {
			entryMap[e.Binding] = e
		}
		for _, e := range fDesc.Entries {
			if existing, ok := entryMap[e.Binding]; ok {
				existing.Visibility |= e.Visibility
				entryMap[e.Binding] = existing
			} else {
				entryMap[e.Binding] = e
			}
		}

		entries := make([]wgpu.BindGroupLayoutEntry, 0, len(entryMap))
		for _, e := range entryMap {
			entries = append(entries, e)
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})

		merged[g] = wgpu.BindGroupLayoutDescriptor{
			Label:   vDesc.Label,
			Entries: entries,
		}
	}
	for g, fDesc := range fragmentLayouts {
		if _, done := merged[g]; !done {
			merged[g] = fDesc
		}
	}

	return merged
}
