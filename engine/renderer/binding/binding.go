package binding

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// provider is the unexported implementation of Provider.
type provider struct {
	// label is a debug label prefixed to every GPU object created for this provider.
	label string

	// The following fields are GPU allocated resources populated by the Renderer, not by user creation.

	bindGroup       *wgpu.BindGroup
	bindGroupLayout *wgpu.BindGroupLayout
	buffers         map[int]*wgpu.Buffer
	textures        map[int]*wgpu.Texture
	textureViews    map[int]*wgpu.TextureView
	samplers        map[int]*wgpu.Sampler

	// vertexBuffer and indexBuffer back mesh providers. Their sizes are the allocated byte
	// capacity, which can exceed the bytes written when a dynamic buffer is rewritten in place.
	vertexBuffer     *wgpu.Buffer
	vertexBufferSize uint64
	indexBuffer      *wgpu.Buffer
	indexBufferSize  uint64
	indexCount       int
}

// Provider holds the GPU resources for one bind group or one vertex/index buffer pair.
// The camera uniform, the atlas texture and sampler, the static ground mesh and the dynamic
// picture buffer each live in their own Provider. The Renderer allocates the resources and
// stores them here; draw calls read them back.
type Provider interface {
	// Release releases every GPU resource held by this provider and clears the references.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group, or nil if it has not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the created bind group layout, or nil if it has not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the GPU buffer bound at the given binding index, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// TextureView returns the GPU texture view bound at the given binding index, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view or nil
	TextureView(binding int) *wgpu.TextureView

	// Sampler returns the GPU sampler bound at the given binding index, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil
	Sampler(binding int) *wgpu.Sampler

	// VertexBuffer returns the GPU vertex buffer and its allocated size in bytes.
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer or nil
	//   - uint64: the allocated size in bytes
	VertexBuffer() (*wgpu.Buffer, uint64)

	// IndexBuffer returns the GPU index buffer and its allocated size in bytes.
	//
	// Returns:
	//   - *wgpu.Buffer: the index buffer or nil
	//   - uint64: the allocated size in bytes
	IndexBuffer() (*wgpu.Buffer, uint64)

	// IndexCount returns the number of indices issued by draw calls against this provider.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// SetBindGroup sets the bind group for this provider.
	//
	// Parameters:
	//   - bg: the bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBindGroupLayout sets the bind group layout for this provider.
	//
	// Parameters:
	//   - bgl: the bind group layout
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetBuffer stores a GPU buffer at the given binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the buffer
	SetBuffer(binding int, buf *wgpu.Buffer)

	// SetTexture stores a GPU texture and its view at the given binding index.
	// The texture is kept so it can be released with the provider.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tex: the texture
	//   - view: the view bound in the bind group
	SetTexture(binding int, tex *wgpu.Texture, view *wgpu.TextureView)

	// SetSampler stores a GPU sampler at the given binding index.
	//
	// Parameters:
	//   - binding: the binding index
	//   - s: the sampler
	SetSampler(binding int, s *wgpu.Sampler)

	// SetVertexBuffer replaces the vertex buffer, releasing the previous one.
	//
	// Parameters:
	//   - buf: the vertex buffer
	//   - size: the allocated size of buf in bytes
	SetVertexBuffer(buf *wgpu.Buffer, size uint64)

	// SetIndexBuffer replaces the index buffer, releasing the previous one.
	//
	// Parameters:
	//   - buf: the index buffer
	//   - size: the allocated size of buf in bytes
	SetIndexBuffer(buf *wgpu.Buffer, size uint64)

	// SetIndexCount sets the number of indices issued by draw calls.
	//
	// Parameters:
	//   - count: the index count
	SetIndexCount(count int)
}

var _ Provider = &provider{}

// NewProvider creates an empty Provider. GPU resources are attached later by the Renderer.
//
// Parameters:
//   - label: the debug label for GPU objects created for this provider
//   - options: variadic list of ProviderBuilderOption functions
//
// Returns:
//   - Provider: the new provider
func NewProvider(label string, options ...ProviderBuilderOption) Provider {
	p := &provider{
		label:        label,
		buffers:      make(map[int]*wgpu.Buffer),
		textures:     make(map[int]*wgpu.Texture),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *provider) Label() string {
	return p.label
}

func (p *provider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *provider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *provider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *provider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *provider) Sampler(binding int) *wgpu.Sampler {
	return p.samplers[binding]
}

func (p *provider) VertexBuffer() (*wgpu.Buffer, uint64) {
	return p.vertexBuffer, p.vertexBufferSize
}

func (p *provider) IndexBuffer() (*wgpu.Buffer, uint64) {
	return p.indexBuffer, p.indexBufferSize
}

func (p *provider) IndexCount() int {
	return p.indexCount
}

func (p *provider) SetBindGroup(bg *wgpu.BindGroup) {
	if p.bindGroup != nil && p.bindGroup != bg {
		p.bindGroup.Release()
	}
	p.bindGroup = bg
}

func (p *provider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *provider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.buffers[binding] = buf
}

func (p *provider) SetTexture(binding int, tex *wgpu.Texture, view *wgpu.TextureView) {
	p.textures[binding] = tex
	p.textureViews[binding] = view
}

func (p *provider) SetSampler(binding int, s *wgpu.Sampler) {
	p.samplers[binding] = s
}

func (p *provider) SetVertexBuffer(buf *wgpu.Buffer, size uint64) {
	if p.vertexBuffer != nil && p.vertexBuffer != buf {
		p.vertexBuffer.Release()
	}
	p.vertexBuffer = buf
	p.vertexBufferSize = size
}

func (p *provider) SetIndexBuffer(buf *wgpu.Buffer, size uint64) {
	if p.indexBuffer != nil && p.indexBuffer != buf {
		p.indexBuffer.Release()
	}
	p.indexBuffer = buf
	p.indexBufferSize = size
}

func (p *provider) SetIndexCount(count int) {
	p.indexCount = count
}

func (p *provider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	for i, tv := range p.textureViews {
		if tv != nil {
			tv.Release()
		}
		delete(p.textureViews, i)
	}
	for i, tex := range p.textures {
		if tex != nil {
			tex.Release()
		}
		delete(p.textures, i)
	}
	for i, s := range p.samplers {
		if s != nil {
			s.Release()
		}
		delete(p.samplers, i)
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
		p.vertexBufferSize = 0
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
		p.indexBufferSize = 0
	}
	p.indexCount = 0
}
