package camera

type CameraBuilderOption func(*cameraImpl)

// WithHalfExtent sets half the visible world height.
//
// Parameters:
//   - halfExtent: half extent in world units, ignored when not positive
//
// Returns:
//   - CameraBuilderOption: a function that sets the half extent
func WithHalfExtent(halfExtent float64) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetHalfExtent(halfExtent)
	}
}

// WithAspect sets the framebuffer size the viewport width follows.
//
// Parameters:
//   - width, height: the framebuffer size in pixels
//
// Returns:
//   - CameraBuilderOption: a function that sets the aspect
func WithAspect(width, height int) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.SetAspect(width, height)
	}
}
