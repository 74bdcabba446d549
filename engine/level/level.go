// Package level reads level files into polygons, objects and pictures expressed in world units.
package level

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/peterstace/simplefeatures/geom"
	"github.com/spf13/viper"
)

var (
	// ErrNoPlayer is returned when a level has no player start object.
	ErrNoPlayer = errors.New("level: no player start object")

	// ErrUnsupportedGeometry is returned when a polygon entry is not a WKT POLYGON or MULTIPOLYGON.
	ErrUnsupportedGeometry = errors.New("level: unsupported geometry")
)

// Polygon is a solid region of the level. Holes are air.
type Polygon struct {
	Outer []mgl64.Vec2
	Holes [][]mgl64.Vec2
	// Grass polygons are decoration only; they are neither meshed nor collided with.
	Grass bool
}

// Object is a gameplay object placed in the level.
type Object struct {
	Kind     ObjectKind
	Position mgl64.Vec2
}

// Picture is a decorative image placed in the level.
// Position is the picture's top-left corner in world units.
type Picture struct {
	Name     string
	Position mgl64.Vec2
	Clip     Clip
}

// Level is a fully parsed level.
type Level struct {
	Name string
	// Sky and Ground name the atlas images tiled behind and inside the level polygons.
	Sky    string
	Ground string

	Polygons []Polygon
	Objects  []Object
	Pictures []Picture
}

// fileLevel mirrors the on-disk layout decoded by viper.
type fileLevel struct {
	Name     string        `mapstructure:"name"`
	Sky      string        `mapstructure:"sky"`
	Ground   string        `mapstructure:"ground"`
	Polygons []filePolygon `mapstructure:"polygons"`
	Objects  []fileObject  `mapstructure:"objects"`
	Pictures []filePicture `mapstructure:"pictures"`
}

type filePolygon struct {
	WKT   string `mapstructure:"wkt"`
	Grass bool   `mapstructure:"grass"`
}

type fileObject struct {
	Kind string  `mapstructure:"kind"`
	X    float64 `mapstructure:"x"`
	Y    float64 `mapstructure:"y"`
}

type filePicture struct {
	Name string  `mapstructure:"name"`
	X    float64 `mapstructure:"x"`
	Y    float64 `mapstructure:"y"`
	Clip string  `mapstructure:"clip"`
}

// Load reads and parses the level file at path. The format is taken from the file extension
// (json, yaml, toml, ...), anything viper can read.
//
// Parameters:
//   - path: the level file path
//
// Returns:
//   - *Level: the parsed level
//   - error: an error if the file cannot be read or contains invalid entries
func Load(path string) (*Level, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("level: read %s: %w", filepath.Base(path), err)
	}
	return decode(v)
}

// Read parses a level from r in the given format.
//
// Parameters:
//   - r: the level document
//   - format: the document format understood by viper, e.g. "json" or "yaml"
//
// Returns:
//   - *Level: the parsed level
//   - error: an error if the document is malformed
func Read(r io.Reader, format string) (*Level, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("level: read: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Level, error) {
	var f fileLevel
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("level: decode: %w", err)
	}

	lvl := &Level{
		Name:   f.Name,
		Sky:    f.Sky,
		Ground: f.Ground,
	}

	for i, p := range f.Polygons {
		polys, err := parsePolygons(p.WKT)
		if err != nil {
			return nil, fmt.Errorf("level: polygon %d: %w", i, err)
		}
		for _, poly := range polys {
			poly.Grass = p.Grass
			lvl.Polygons = append(lvl.Polygons, poly)
		}
	}

	for i, o := range f.Objects {
		kind, err := ParseObjectKind(o.Kind)
		if err != nil {
			return nil, fmt.Errorf("level: object %d: %w", i, err)
		}
		lvl.Objects = append(lvl.Objects, Object{Kind: kind, Position: mgl64.Vec2{o.X, o.Y}})
	}

	for i, p := range f.Pictures {
		clip, err := ParseClip(p.Clip)
		if err != nil {
			return nil, fmt.Errorf("level: picture %d: %w", i, err)
		}
		lvl.Pictures = append(lvl.Pictures, Picture{
			Name:     strings.TrimSpace(p.Name),
			Position: mgl64.Vec2{p.X, p.Y},
			Clip:     clip,
		})
	}

	return lvl, nil
}

// Player returns the position of the first player start object.
//
// Returns:
//   - mgl64.Vec2: the player start position
//   - error: ErrNoPlayer if the level has no player object
func (l *Level) Player() (mgl64.Vec2, error) {
	for _, o := range l.Objects {
		if o.Kind == ObjectPlayer {
			return o.Position, nil
		}
	}
	return mgl64.Vec2{}, ErrNoPlayer
}

// Solid returns the polygons that take part in meshing and collision.
func (l *Level) Solid() []Polygon {
	out := make([]Polygon, 0, len(l.Polygons))
	for _, p := range l.Polygons {
		if !p.Grass {
			out = append(out, p)
		}
	}
	return out
}

func parsePolygons(wkt string) ([]Polygon, error) {
	g, err := geom.UnmarshalWKT(wkt)
	if err != nil {
		return nil, err
	}

	switch g.Type() {
	case geom.TypePolygon:
		return []Polygon{fromGeom(g.MustAsPolygon())}, nil
	case geom.TypeMultiPolygon:
		mp := g.MustAsMultiPolygon()
		out := make([]Polygon, 0, mp.NumPolygons())
		for i := 0; i < mp.NumPolygons(); i++ {
			out = append(out, fromGeom(mp.PolygonN(i)))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, g.Type())
	}
}

func fromGeom(p geom.Polygon) Polygon {
	poly := Polygon{Outer: ring(p.ExteriorRing())}
	for i := 0; i < p.NumInteriorRings(); i++ {
		poly.Holes = append(poly.Holes, ring(p.InteriorRingN(i)))
	}
	return poly
}

// ring converts a closed WKT ring to its distinct vertices, dropping the repeated closing point.
func ring(ls geom.LineString) []mgl64.Vec2 {
	seq := ls.Coordinates()
	n := seq.Length()
	if n > 1 && seq.GetXY(0) == seq.GetXY(n-1) {
		n--
	}
	out := make([]mgl64.Vec2, 0, n)
	for i := 0; i < n; i++ {
		xy := seq.GetXY(i)
		out = append(out, mgl64.Vec2{xy.X, xy.Y})
	}
	return out
}
