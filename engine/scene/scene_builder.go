package scene

import "github.com/Carmen-Shannon/oxy-moto/common"

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithName sets the scene's identifier.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(s *scene) {
		s.name = name
	}
}

// WithPixelsPerUnit sets the pixel density used to size pictures. Non-positive values are ignored.
//
// Parameters:
//   - ppu: image pixels per world unit
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPixelsPerUnit(ppu float64) SceneBuilderOption {
	return func(s *scene) {
		if ppu > 0 {
			s.pixelsPerUnit = ppu
		}
	}
}

// WithCapacity preallocates room for n quads.
//
// Parameters:
//   - n: the number of quads
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCapacity(n int) SceneBuilderOption {
	return func(s *scene) {
		if n > 0 {
			s.buf = NewBuffer[common.PictureVertex](n)
		}
	}
}
