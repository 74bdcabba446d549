// Package scene holds the dynamic picture buffer: every textured quad drawn each frame,
// with stable handles so moving objects can be patched in place.
package scene

import (
	"github.com/Carmen-Shannon/oxy-moto/common"
	"github.com/Carmen-Shannon/oxy-moto/engine/atlas"
	"github.com/Carmen-Shannon/oxy-moto/engine/level"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultPixelsPerUnit is the number of image pixels covering one world unit.
const DefaultPixelsPerUnit = 95.0 / 2.0

// PictureHandle addresses one picture quad.
type PictureHandle = Handle[common.PictureVertex]

// Scene is the picture buffer handed to the renderer each frame.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// PixelsPerUnit returns the pixel density used to size pictures.
	PixelsPerUnit() float64

	// AddImage appends a quad sized from the picture's pixel size, its top-left corner at position.
	//
	// Parameters:
	//   - pic: the atlas picture
	//   - position: the top-left corner in world units
	//   - clip: the depth layer the picture is visible over
	//
	// Returns:
	//   - PictureHandle: the handle addressing the new quad
	AddImage(pic atlas.Pic, position mgl64.Vec2, clip level.Clip) PictureHandle

	// SetPositions overwrites the four world positions of a quad. Tex coords, bounds and clip are kept.
	//
	// Parameters:
	//   - h: the quad handle
	//   - positions: corner positions in common.QuadCorners order
	SetPositions(h PictureHandle, positions [4]mgl64.Vec2)

	// SetTexCoords overwrites the four tex coords of a quad. Positions, bounds and clip are kept.
	//
	// Parameters:
	//   - h: the quad handle
	//   - coords: corner tex coords in common.QuadCorners order
	SetTexCoords(h PictureHandle, coords [4][2]float32)

	// Vertices returns the picture vertices in insertion order.
	Vertices() []common.PictureVertex

	// Indices returns the picture indices in insertion order.
	Indices() []uint32

	// Quads returns the number of picture quads.
	Quads() int
}

type scene struct {
	name          string
	pixelsPerUnit float64
	buf           *Buffer[common.PictureVertex]
}

var _ Scene = &scene{}

// NewScene creates an empty picture scene.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the new scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		name:          "scene",
		pixelsPerUnit: DefaultPixelsPerUnit,
		buf:           NewBuffer[common.PictureVertex](16),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) PixelsPerUnit() float64 {
	return s.pixelsPerUnit
}

func (s *scene) AddImage(pic atlas.Pic, position mgl64.Vec2, clip level.Clip) PictureHandle {
	return AddImage(s.buf, pic, position, clip, s.pixelsPerUnit)
}

func (s *scene) SetPositions(h PictureHandle, positions [4]mgl64.Vec2) {
	SetPositions(s.buf, h, positions)
}

func (s *scene) SetTexCoords(h PictureHandle, coords [4][2]float32) {
	SetTexCoords(s.buf, h, coords)
}

func (s *scene) Vertices() []common.PictureVertex {
	return s.buf.Vertices()
}

func (s *scene) Indices() []uint32 {
	return s.buf.Indices()
}

func (s *scene) Quads() int {
	return s.buf.Quads()
}

// AddImage appends a picture quad to buf. Corner i sits at
// position + (d.x*w, -d.y*h)/pixelsPerUnit for d = common.QuadCorners[i], so the quad
// hangs down and to the right of position. Tex coords are d; bounds and clip bias come
// from the picture and clip tag.
//
// Parameters:
//   - buf: the picture buffer
//   - pic: the atlas picture
//   - position: the top-left corner in world units
//   - clip: the depth layer the picture is visible over
//   - pixelsPerUnit: image pixels per world unit
//
// Returns:
//   - PictureHandle: the handle addressing the new quad
func AddImage(buf *Buffer[common.PictureVertex], pic atlas.Pic, position mgl64.Vec2, clip level.Clip, pixelsPerUnit float64) PictureHandle {
	var quad [4]common.PictureVertex
	bias := clip.Bias()
	for i, d := range common.QuadCorners {
		p := position.Add(mgl64.Vec2{d[0] * pic.Size.X(), -d[1] * pic.Size.Y()}.Mul(1 / pixelsPerUnit))
		quad[i] = common.PictureVertex{
			Position:  [2]float32{float32(p.X()), float32(p.Y())},
			TexCoord:  [2]float32{float32(d[0]), float32(d[1])},
			TexBounds: pic.Bounds,
			Clip:      bias,
		}
	}
	return buf.Insert(quad)
}

// SetPositions overwrites only the positions of the quad addressed by h.
func SetPositions(buf *Buffer[common.PictureVertex], h PictureHandle, positions [4]mgl64.Vec2) {
	quad := buf.Quad(h)
	for i, p := range positions {
		quad[i].Position = [2]float32{float32(p.X()), float32(p.Y())}
	}
}

// SetTexCoords overwrites only the tex coords of the quad addressed by h.
func SetTexCoords(buf *Buffer[common.PictureVertex], h PictureHandle, coords [4][2]float32) {
	quad := buf.Quad(h)
	for i, c := range coords {
		quad[i].TexCoord = c
	}
}
