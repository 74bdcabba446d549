// Package composer lays out the level's pictures in a scene and patches the moving quads
// (bike, wheels, sky and ground layers) before every redraw.
package composer

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-moto/common"
	"github.com/Carmen-Shannon/oxy-moto/engine/atlas"
	"github.com/Carmen-Shannon/oxy-moto/engine/camera"
	"github.com/Carmen-Shannon/oxy-moto/engine/level"
	"github.com/Carmen-Shannon/oxy-moto/engine/physics"
	"github.com/Carmen-Shannon/oxy-moto/engine/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// Textures resolves picture names to atlas regions.
type Textures interface {
	Get(name string) (atlas.Pic, error)
}

// Sprites names the atlas images used for the moto and the level objects.
// An empty object sprite name leaves that object kind undrawn.
type Sprites struct {
	Bike   string
	Wheel  string
	Food   string
	Exit   string
	Killer string
}

// DefaultSprites are the stock sprite names.
var DefaultSprites = Sprites{
	Bike:   "q1bike.png",
	Wheel:  "q1wheel.png",
	Food:   "qfood1.png",
	Exit:   "qexit.png",
	Killer: "qkiller.png",
}

type sprite struct {
	handle scene.PictureHandle
	pic    atlas.Pic
}

type composerImpl struct {
	logger         zerolog.Logger
	scene          scene.Scene
	sprites        Sprites
	extension      string
	skyParallax    mgl64.Vec2
	groundParallax mgl64.Vec2

	sky    sprite
	ground sprite
	bike   sprite
	wheels [2]sprite
}

// Composer owns the picture scene of one level.
type Composer interface {
	// Scene returns the composed picture scene.
	//
	// Returns:
	//   - scene.Scene: the scene handed to the renderer
	Scene() scene.Scene

	// Update rewrites the moto quads from the current physics state and the background layers
	// from the viewport. Only positions and tex coords change.
	//
	// Parameters:
	//   - moto: the simulated vehicle
	//   - vp: the viewport of this redraw
	Update(moto *physics.Moto, vp camera.Viewport)
}

var _ Composer = &composerImpl{}

// NewComposer builds the picture scene for lvl in draw order: sky, ground, level pictures,
// object sprites, bike, then both wheels.
//
// Parameters:
//   - lvl: the level to compose
//   - tex: the texture lookup
//   - options: functional options to configure the composer
//
// Returns:
//   - Composer: the composer
//   - error: a wrapped atlas.ErrImageNotFound if any required picture is missing
func NewComposer(lvl *level.Level, tex Textures, options ...ComposerBuilderOption) (Composer, error) {
	c := &composerImpl{
		logger:         zerolog.Nop(),
		sprites:        DefaultSprites,
		skyParallax:    camera.DefaultSkyParallax,
		groundParallax: camera.DefaultGroundParallax,
	}
	for _, option := range options {
		option(c)
	}
	if c.scene == nil {
		c.scene = scene.NewScene(scene.WithName(lvl.Name))
	}

	var err error
	if c.sky, err = c.add(tex, lvl.Sky, mgl64.Vec2{}, level.ClipSky); err != nil {
		return nil, fmt.Errorf("composer: sky: %w", err)
	}
	if c.ground, err = c.add(tex, lvl.Ground, mgl64.Vec2{}, level.ClipGround); err != nil {
		return nil, fmt.Errorf("composer: ground: %w", err)
	}

	for _, p := range lvl.Pictures {
		if p.Name == "" {
			continue
		}
		if _, err := c.add(tex, p.Name, p.Position, p.Clip); err != nil {
			return nil, fmt.Errorf("composer: picture: %w", err)
		}
	}

	for _, o := range lvl.Objects {
		name := c.objectSprite(o.Kind)
		if name == "" {
			continue
		}
		pic, err := tex.Get(c.resolve(name))
		if err != nil {
			return nil, fmt.Errorf("composer: %s: %w", o.Kind, err)
		}
		// Objects are centered on their position.
		corner := o.Position.Add(mgl64.Vec2{-pic.Size.X(), pic.Size.Y()}.Mul(0.5 / c.scene.PixelsPerUnit()))
		c.scene.AddImage(pic, corner, level.ClipUnclipped)
	}

	if c.bike, err = c.add(tex, c.sprites.Bike, mgl64.Vec2{}, level.ClipUnclipped); err != nil {
		return nil, fmt.Errorf("composer: bike: %w", err)
	}
	for i := range c.wheels {
		if c.wheels[i], err = c.add(tex, c.sprites.Wheel, mgl64.Vec2{}, level.ClipUnclipped); err != nil {
			return nil, fmt.Errorf("composer: wheel: %w", err)
		}
	}

	c.logger.Debug().
		Str("level", lvl.Name).
		Int("quads", c.scene.Quads()).
		Msg("scene composed")
	return c, nil
}

func (c *composerImpl) Scene() scene.Scene {
	return c.scene
}

func (c *composerImpl) Update(moto *physics.Moto, vp camera.Viewport) {
	ppu := c.scene.PixelsPerUnit()

	for i, w := range c.wheels {
		c.scene.SetPositions(w.handle, ObjectQuad(moto.Wheels[i], w.pic.Size.Mul(1/ppu), false))
	}
	c.scene.SetPositions(c.bike.handle, ObjectQuad(moto.Bike, c.bike.pic.Size.Mul(1/ppu), moto.Direction))

	corners := vp.Corners()
	c.scene.SetPositions(c.sky.handle, corners)
	c.scene.SetTexCoords(c.sky.handle, camera.LayerTiling(vp, c.sky.pic.Size, c.skyParallax, ppu))
	c.scene.SetPositions(c.ground.handle, corners)
	c.scene.SetTexCoords(c.ground.handle, camera.LayerTiling(vp, c.ground.pic.Size, c.groundParallax, ppu))
}

func (c *composerImpl) add(tex Textures, name string, position mgl64.Vec2, clip level.Clip) (sprite, error) {
	pic, err := tex.Get(c.resolve(name))
	if err != nil {
		return sprite{}, err
	}
	return sprite{handle: c.scene.AddImage(pic, position, clip), pic: pic}, nil
}

// resolve appends the configured extension to bare picture names.
func (c *composerImpl) resolve(name string) string {
	if c.extension == "" || filepath.Ext(name) != "" {
		return name
	}
	return name + c.extension
}

func (c *composerImpl) objectSprite(kind level.ObjectKind) string {
	switch kind {
	case level.ObjectFood:
		return c.sprites.Food
	case level.ObjectExit:
		return c.sprites.Exit
	case level.ObjectKiller:
		return c.sprites.Killer
	}
	return ""
}

// ObjectQuad returns the corners of a size-sized quad centered on obj and rotated by its angle,
// in common.QuadCorners order. Mirrored quads swap left and right before rotating.
//
// Parameters:
//   - obj: the pose of the object
//   - size: the quad size in world units
//   - mirror: whether to flip the quad horizontally
//
// Returns:
//   - [4]mgl64.Vec2: the corner positions
func ObjectQuad(obj physics.Object, size mgl64.Vec2, mirror bool) [4]mgl64.Vec2 {
	sin, cos := math.Sincos(obj.Angle)
	var out [4]mgl64.Vec2
	for i, d := range common.QuadCorners {
		local := mgl64.Vec2{(d[0] - 0.5) * size.X(), (0.5 - d[1]) * size.Y()}
		if mirror {
			local[0] = -local[0]
		}
		out[i] = obj.Position.Add(mgl64.Vec2{
			local.X()*cos - local.Y()*sin,
			local.X()*sin + local.Y()*cos,
		})
	}
	return out
}
