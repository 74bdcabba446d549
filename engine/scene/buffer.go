package scene

import "github.com/Carmen-Shannon/oxy-moto/common"

// Handle addresses one quad in a Buffer of the same vertex kind.
// A Handle is only meaningful for the buffer that returned it; it is not bounds checked.
type Handle[V any] struct {
	offset uint32
}

// Offset returns the index of the quad's first vertex.
func (h Handle[V]) Offset() int {
	return int(h.offset)
}

// Buffer is an append-only list of quads: four vertices and six indices each.
// Quads are never removed or reordered, so handles stay valid for the buffer's lifetime.
type Buffer[V any] struct {
	vertices []V
	indices  []uint32
}

// NewBuffer creates an empty buffer with room for capacity quads.
//
// Parameters:
//   - capacity: the number of quads to preallocate
//
// Returns:
//   - *Buffer[V]: the new buffer
func NewBuffer[V any](capacity int) *Buffer[V] {
	return &Buffer[V]{
		vertices: make([]V, 0, 4*capacity),
		indices:  make([]uint32, 0, 6*capacity),
	}
}

// Insert appends a quad and its two triangles.
//
// Parameters:
//   - quad: the four corner vertices in common.QuadCorners order
//
// Returns:
//   - Handle[V]: the handle addressing the new quad
func (b *Buffer[V]) Insert(quad [4]V) Handle[V] {
	base := uint32(len(b.vertices))
	b.vertices = append(b.vertices, quad[:]...)
	idx := common.QuadIndices(base)
	b.indices = append(b.indices, idx[:]...)
	return Handle[V]{offset: base}
}

// Quad returns the four vertices addressed by h. The slice aliases the buffer.
func (b *Buffer[V]) Quad(h Handle[V]) []V {
	return b.vertices[h.offset : h.offset+4 : h.offset+4]
}

// Vertices returns the vertex slice. The slice aliases the buffer.
func (b *Buffer[V]) Vertices() []V {
	return b.vertices
}

// Indices returns the index slice. The slice aliases the buffer.
func (b *Buffer[V]) Indices() []uint32 {
	return b.indices
}

// Len returns the number of vertices.
func (b *Buffer[V]) Len() int {
	return len(b.vertices)
}

// Quads returns the number of quads.
func (b *Buffer[V]) Quads() int {
	return len(b.vertices) / 4
}
