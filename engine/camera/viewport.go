package camera

import (
	"github.com/Carmen-Shannon/oxy-moto/common"
	"github.com/go-gl/mathgl/mgl64"
)

// Viewport is the world-space rectangle visible on screen. Position is its lower-left corner.
type Viewport struct {
	Position mgl64.Vec2
	Size     mgl64.Vec2
}

// FromCenterAndScale returns the viewport of height 2*halfExtent centered on center,
// its width following the framebuffer aspect ratio.
//
// Parameters:
//   - center: the world point at the middle of the screen
//   - halfExtent: half the visible height in world units
//   - width, height: the framebuffer size in pixels
//
// Returns:
//   - Viewport: the visible world rectangle
func FromCenterAndScale(center mgl64.Vec2, halfExtent float64, width, height int) Viewport {
	aspect := 1.0
	if width > 0 && height > 0 {
		aspect = float64(width) / float64(height)
	}
	size := mgl64.Vec2{2 * halfExtent * aspect, 2 * halfExtent}
	return Viewport{
		Position: center.Sub(size.Mul(0.5)),
		Size:     size,
	}
}

// Center returns the middle of the viewport.
func (v Viewport) Center() mgl64.Vec2 {
	return v.Position.Add(v.Size.Mul(0.5))
}

// Corners returns the viewport corners in common.QuadCorners order,
// corner i being Position + Size*QuadCorners[i] componentwise.
func (v Viewport) Corners() [4]mgl64.Vec2 {
	var out [4]mgl64.Vec2
	for i, d := range common.QuadCorners {
		out[i] = v.Position.Add(mgl64.Vec2{v.Size.X() * d[0], v.Size.Y() * d[1]})
	}
	return out
}

// Projection returns the column-major orthographic matrix mapping the viewport onto clip space.
func (v Viewport) Projection() [16]float32 {
	var m [16]float32
	common.Ortho2D(m[:],
		float32(v.Position.X()), float32(v.Position.X()+v.Size.X()),
		float32(v.Position.Y()), float32(v.Position.Y()+v.Size.Y()),
	)
	return m
}

// LayerTiling returns the tex coords that tile a layer image of layerSize pixels across the viewport.
// Each corner gets parallax*(ppu*Position/layerSize) + ppu*(Size*d)/layerSize, with all
// products componentwise. One tex unit covers one image; values beyond 1 wrap.
//
// Parameters:
//   - vp: the viewport the layer fills
//   - layerSize: the layer image size in pixels
//   - parallax: the scroll rate relative to the camera per axis, 0 for fixed and 1 for world-locked
//   - ppu: image pixels per world unit
//
// Returns:
//   - [4][2]float32: tex coords in common.QuadCorners order
func LayerTiling(vp Viewport, layerSize, parallax mgl64.Vec2, ppu float64) [4][2]float32 {
	var out [4][2]float32
	if layerSize.X() == 0 || layerSize.Y() == 0 {
		return out
	}
	offset := mgl64.Vec2{
		parallax.X() * ppu * vp.Position.X() / layerSize.X(),
		parallax.Y() * ppu * vp.Position.Y() / layerSize.Y(),
	}
	span := mgl64.Vec2{
		ppu * vp.Size.X() / layerSize.X(),
		ppu * vp.Size.Y() / layerSize.Y(),
	}
	for i, d := range common.QuadCorners {
		out[i] = [2]float32{
			float32(offset.X() + span.X()*d[0]),
			float32(offset.Y() + span.Y()*d[1]),
		}
	}
	return out
}
