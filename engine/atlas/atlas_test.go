package atlas

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestNewPacksAndLooksUp(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	a, err := New(map[string]image.Image{
		"red.png":  solid(10, 20, red),
		"blue.png": solid(30, 5, blue),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"blue.png", "red.png"}, a.Names())

	pic, err := a.Get("red.png")
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec2{10, 20}, pic.Size)

	img := a.Image()
	w, h := float32(img.Bounds().Dx()), float32(img.Bounds().Dy())
	assert.InDelta(t, 10, (pic.Bounds[2]-pic.Bounds[0])*w, 1e-3)
	assert.InDelta(t, 20, (pic.Bounds[3]-pic.Bounds[1])*h, 1e-3)

	// the top-left texel of the packed region carries the source colour
	x, y := int(pic.Bounds[0]*w+0.5), int(pic.Bounds[1]*h+0.5)
	assert.Equal(t, red, img.RGBAAt(x, y))

	width := img.Bounds().Dx()
	assert.Equal(t, 0, width&(width-1), "atlas width is a power of two")

	staging := a.Staging()
	assert.Equal(t, uint32(img.Bounds().Dx()), staging.Width)
	assert.Len(t, staging.Pixels, int(staging.Width*staging.Height*4))
}

func TestRegionsDoNotOverlap(t *testing.T) {
	images := map[string]image.Image{}
	for i, name := range []string{"a", "b", "c", "d", "e", "f"} {
		images[name] = solid(8+i*3, 4+i*2, color.RGBA{uint8(i), 0, 0, 255})
	}
	a, err := New(images)
	require.NoError(t, err)

	names := a.Names()
	for i := range names {
		p, _ := a.Get(names[i])
		for j := i + 1; j < len(names); j++ {
			q, _ := a.Get(names[j])
			overlap := p.Bounds[0] < q.Bounds[2] && q.Bounds[0] < p.Bounds[2] &&
				p.Bounds[1] < q.Bounds[3] && q.Bounds[1] < p.Bounds[3]
			assert.False(t, overlap, "%s overlaps %s", names[i], names[j])
		}
	}
}

func TestGetMissing(t *testing.T) {
	a, err := New(map[string]image.Image{"a.png": solid(1, 1, color.RGBA{A: 255})})
	require.NoError(t, err)

	_, err = a.Get("b.png")
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestEmptyImage(t *testing.T) {
	_, err := New(map[string]image.Image{"a.png": image.NewRGBA(image.Rect(0, 0, 0, 4))})
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	for name, size := range map[string]int{"bike.png": 16, "wheel.png": 8, "sky.png": 32} {
		f, err := os.Create(filepath.Join(dir, name))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, solid(size, size, color.RGBA{0, 255, 0, 255})))
		require.NoError(t, f.Close())
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644))

	a, err := Load(dir, WithWorkers(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"bike.png", "sky.png", "wheel.png"}, a.Names())

	pic, err := a.Get("sky.png")
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec2{32, 32}, pic.Size)
}

func TestLoadCorruptImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestWithPadding(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}

	a, err := New(map[string]image.Image{"red.png": solid(10, 10, red)}, WithPadding(4))
	require.NoError(t, err)

	img := a.Image()
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 18, img.Bounds().Dy())

	pic, err := a.Get("red.png")
	require.NoError(t, err)
	assert.InDelta(t, 4.0/32, pic.Bounds[0], 1e-6)
	assert.Equal(t, red, img.RGBAAt(4, 4))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(3, 3), "padding stays transparent")

	flush, err := New(map[string]image.Image{"red.png": solid(10, 10, red)}, WithPadding(0))
	require.NoError(t, err)
	pic, err = flush.Get("red.png")
	require.NoError(t, err)
	assert.Zero(t, pic.Bounds[0])
	assert.Zero(t, pic.Bounds[1])
}

func TestLoadWithExtensions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"bike.png", "wheel.tex"} {
		f, err := os.Create(filepath.Join(dir, name))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, solid(4, 4, color.RGBA{0, 0, 255, 255})))
		require.NoError(t, f.Close())
	}

	a, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"bike.png"}, a.Names())

	a, err = Load(dir, WithExtensions("TEX"))
	require.NoError(t, err)
	assert.Equal(t, []string{"wheel.tex"}, a.Names())
}
