// Package camera maps the tracked vehicle to the visible world rectangle and the tex coords of
// the tiled background layers.
package camera

import (
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultHalfExtent is half the visible world height.
	DefaultHalfExtent = 15.0
)

var (
	// DefaultSkyParallax scrolls the sky horizontally at half the camera rate and not at all vertically.
	DefaultSkyParallax = mgl64.Vec2{0.5, 0}

	// DefaultGroundParallax locks the ground texture to the world.
	DefaultGroundParallax = mgl64.Vec2{1, 1}
)

type cameraImpl struct {
	halfExtent float64
	width      int
	height     int

	viewport Viewport
}

// Camera follows a world point and derives the viewport each redraw.
type Camera interface {
	// HalfExtent returns half the visible world height.
	//
	// Returns:
	//   - float64: the half extent in world units
	HalfExtent() float64

	// SetHalfExtent changes the zoom. Non-positive values are ignored.
	//
	// Parameters:
	//   - halfExtent: half the visible world height
	SetHalfExtent(halfExtent float64)

	// Aspect returns the framebuffer size the viewport width follows.
	//
	// Returns:
	//   - width, height: the framebuffer size in pixels
	Aspect() (width, height int)

	// SetAspect records a new framebuffer size. Zero sizes are ignored so a minimized window
	// keeps the last usable aspect.
	//
	// Parameters:
	//   - width, height: the framebuffer size in pixels
	SetAspect(width, height int)

	// Track centers the viewport on position and returns it.
	//
	// Parameters:
	//   - position: the world point to center on
	//
	// Returns:
	//   - Viewport: the new viewport
	Track(position mgl64.Vec2) Viewport

	// Viewport returns the viewport computed by the last Track call.
	Viewport() Viewport

	// Uniform returns the GPU camera uniform for the current viewport.
	Uniform() GPUCameraUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera with the default half extent and a square aspect.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		halfExtent: DefaultHalfExtent,
		width:      1,
		height:     1,
	}
	for _, option := range options {
		option(c)
	}
	c.viewport = FromCenterAndScale(mgl64.Vec2{}, c.halfExtent, c.width, c.height)
	return c
}

func (c *cameraImpl) HalfExtent() float64 {
	return c.halfExtent
}

func (c *cameraImpl) SetHalfExtent(halfExtent float64) {
	if halfExtent > 0 {
		c.halfExtent = halfExtent
	}
}

func (c *cameraImpl) Aspect() (width, height int) {
	return c.width, c.height
}

func (c *cameraImpl) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width, c.height = width, height
}

func (c *cameraImpl) Track(position mgl64.Vec2) Viewport {
	c.viewport = FromCenterAndScale(position, c.halfExtent, c.width, c.height)
	return c.viewport
}

func (c *cameraImpl) Viewport() Viewport {
	return c.viewport
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	return GPUCameraUniform{ViewProj: c.viewport.Projection()}
}
