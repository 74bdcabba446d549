// Package atlas packs named images into a single RGBA texture and reports each image's
// pixel size and normalized region inside that texture.
package atlas

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-moto/common"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	// ErrImageNotFound is returned by Get when no image with the requested name was packed.
	ErrImageNotFound = errors.New("atlas: image not found")

	// ErrEmptyImage is returned when an image has zero width or height.
	ErrEmptyImage = errors.New("atlas: empty image")
)

// Pic describes one packed image.
type Pic struct {
	Name string
	// Size is the image size in pixels.
	Size mgl64.Vec2
	// Bounds is the image region in the atlas as normalized (u0, v0, u1, v1), v growing downward.
	Bounds [4]float32
}

// Atlas is a packed set of images addressed by file name.
type Atlas interface {
	// Get returns the packed image with the exact given name.
	//
	// Parameters:
	//   - name: the image file name, e.g. "q1bike.png"
	//
	// Returns:
	//   - Pic: the packed image
	//   - error: ErrImageNotFound if no such image was packed
	Get(name string) (Pic, error)

	// Names returns the packed image names in sorted order.
	//
	// Returns:
	//   - []string: the image names
	Names() []string

	// Image returns the packed RGBA image.
	//
	// Returns:
	//   - *image.RGBA: the atlas image
	Image() *image.RGBA

	// Staging returns the atlas pixels ready for a texture upload.
	//
	// Returns:
	//   - common.TextureStagingData: RGBA pixels and dimensions
	Staging() common.TextureStagingData
}

type atlasImpl struct {
	logger     zerolog.Logger
	workers    int
	padding    int
	extensions []string

	pics  map[string]Pic
	names []string
	img   *image.RGBA
}

var _ Atlas = &atlasImpl{}

func newAtlas(options ...AtlasBuilderOption) *atlasImpl {
	a := &atlasImpl{
		logger:     zerolog.Nop(),
		workers:    max(runtime.NumCPU()-1, 1),
		padding:    1,
		extensions: []string{".png", ".bmp", ".jpg", ".jpeg", ".webp"},
		pics:       make(map[string]Pic),
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// New packs the given images into an atlas.
//
// Parameters:
//   - images: images keyed by name
//   - options: functional options to configure the atlas
//
// Returns:
//   - Atlas: the packed atlas
//   - error: ErrEmptyImage if any image has no pixels
func New(images map[string]image.Image, options ...AtlasBuilderOption) (Atlas, error) {
	a := newAtlas(options...)
	if err := a.pack(images); err != nil {
		return nil, err
	}
	return a, nil
}

// Load decodes every image in dir whose extension is accepted and packs them into an atlas.
// Decoding runs in parallel on a worker pool and completes before Load returns.
//
// Parameters:
//   - dir: the directory holding the images
//   - options: functional options to configure the atlas
//
// Returns:
//   - Atlas: the packed atlas
//   - error: an error if the directory cannot be read or any image fails to decode
func Load(dir string, options ...AtlasBuilderOption) (Atlas, error) {
	a := newAtlas(options...)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("atlas: read dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if slices.Contains(a.extensions, strings.ToLower(filepath.Ext(e.Name()))) {
			files = append(files, e.Name())
		}
	}

	decoded := make([]image.Image, len(files))
	errs := make([]error, len(files))

	pool := worker.NewDynamicWorkerPool(min(a.workers, max(len(files), 1)), 256, 1*time.Second)
	defer pool.Stop()

	var wg sync.WaitGroup
	for i, name := range files {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: name,
			Do: func() (any, error) {
				defer wg.Done()
				img, err := decodeFile(filepath.Join(dir, name))
				decoded[i], errs[i] = img, err
				return img, err
			},
		})
	}
	wg.Wait()

	images := make(map[string]image.Image, len(files))
	for i, name := range files {
		if errs[i] != nil {
			return nil, fmt.Errorf("atlas: decode %s: %w", name, errs[i])
		}
		images[name] = decoded[i]
	}

	if err := a.pack(images); err != nil {
		return nil, err
	}
	a.logger.Debug().
		Str("dir", dir).
		Int("images", len(images)).
		Int("width", a.img.Bounds().Dx()).
		Int("height", a.img.Bounds().Dy()).
		Msg("atlas packed")
	return a, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

func (a *atlasImpl) Get(name string) (Pic, error) {
	p, ok := a.pics[name]
	if !ok {
		return Pic{}, fmt.Errorf("%w: %q", ErrImageNotFound, name)
	}
	return p, nil
}

func (a *atlasImpl) Names() []string {
	return slices.Clone(a.names)
}

func (a *atlasImpl) Image() *image.RGBA {
	return a.img
}

func (a *atlasImpl) Staging() common.TextureStagingData {
	b := a.img.Bounds()
	return common.TextureStagingData{
		Pixels: a.img.Pix,
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
	}
}

// pack places images on shelves ordered by decreasing height. The atlas width is a power of two
// wide enough for the widest image and roughly square overall.
func (a *atlasImpl) pack(images map[string]image.Image) error {
	names := make([]string, 0, len(images))
	area, widest := 0, 0
	for name, img := range images {
		b := img.Bounds()
		if b.Dx() <= 0 || b.Dy() <= 0 {
			return fmt.Errorf("%w: %q", ErrEmptyImage, name)
		}
		names = append(names, name)
		area += (b.Dx() + a.padding) * (b.Dy() + a.padding)
		widest = max(widest, b.Dx()+2*a.padding)
	}
	slices.Sort(names)
	a.names = slices.Clone(names)

	slices.SortStableFunc(names, func(x, y string) int {
		return images[y].Bounds().Dy() - images[x].Bounds().Dy()
	})

	width := nextPowerOfTwo(max(widest, int(math.Ceil(math.Sqrt(float64(area)))), 1))

	type placement struct{ x, y int }
	places := make(map[string]placement, len(names))
	x, y, shelf := a.padding, a.padding, 0
	for _, name := range names {
		b := images[name].Bounds()
		if x+b.Dx()+a.padding > width {
			x = a.padding
			y += shelf + a.padding
			shelf = 0
		}
		places[name] = placement{x, y}
		x += b.Dx() + a.padding
		shelf = max(shelf, b.Dy())
	}
	height := max(y+shelf+a.padding, 1)

	a.img = image.NewRGBA(image.Rect(0, 0, width, height))
	for _, name := range names {
		src := images[name]
		b := src.Bounds()
		p := places[name]
		dst := image.Rect(p.x, p.y, p.x+b.Dx(), p.y+b.Dy())
		xdraw.Draw(a.img, dst, src, b.Min, xdraw.Src)

		a.pics[name] = Pic{
			Name: name,
			Size: mgl64.Vec2{float64(b.Dx()), float64(b.Dy())},
			Bounds: [4]float32{
				float32(dst.Min.X) / float32(width),
				float32(dst.Min.Y) / float32(height),
				float32(dst.Max.X) / float32(width),
				float32(dst.Max.Y) / float32(height),
			},
		}
	}
	return nil
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
