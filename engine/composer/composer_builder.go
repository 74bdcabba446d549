package composer

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-moto/engine/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

type ComposerBuilderOption func(*composerImpl)

// WithLogger sets the composer's logger.
func WithLogger(logger zerolog.Logger) ComposerBuilderOption {
	return func(c *composerImpl) {
		c.logger = logger
	}
}

// WithScene composes into an existing scene instead of a new one.
//
// Parameters:
//   - s: the scene to append to
//
// Returns:
//   - ComposerBuilderOption: a function that sets the scene
func WithScene(s scene.Scene) ComposerBuilderOption {
	return func(c *composerImpl) {
		c.scene = s
	}
}

// WithSprites replaces the moto and object sprite names.
func WithSprites(sprites Sprites) ComposerBuilderOption {
	return func(c *composerImpl) {
		c.sprites = sprites
	}
}

// WithExtension appends ext to any picture name given without one, e.g. ".png".
func WithExtension(ext string) ComposerBuilderOption {
	return func(c *composerImpl) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.extension = ext
	}
}

// WithSkyParallax sets the sky scroll rate relative to the camera.
func WithSkyParallax(p mgl64.Vec2) ComposerBuilderOption {
	return func(c *composerImpl) {
		c.skyParallax = p
	}
}

// WithGroundParallax sets the ground texture scroll rate relative to the camera.
func WithGroundParallax(p mgl64.Vec2) ComposerBuilderOption {
	return func(c *composerImpl) {
		c.groundParallax = p
	}
}
