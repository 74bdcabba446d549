package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-moto/common"
	"github.com/Carmen-Shannon/oxy-moto/engine/atlas"
	"github.com/Carmen-Shannon/oxy-moto/engine/level"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPic = atlas.Pic{
	Name:   "box.png",
	Size:   mgl64.Vec2{100, 100},
	Bounds: [4]float32{0.25, 0.5, 0.75, 1.0},
}

func TestAddImageQuadLayout(t *testing.T) {
	s := NewScene()
	h := s.AddImage(testPic, mgl64.Vec2{0, 0}, level.ClipUnclipped)
	assert.Equal(t, 0, h.Offset())

	extent := float32(100 / DefaultPixelsPerUnit)
	require.InDelta(t, 2.105, extent, 1e-3)

	want := [4][2]float32{{0, 0}, {extent, 0}, {extent, -extent}, {0, -extent}}
	v := s.Vertices()
	require.Len(t, v, 4)
	for i := range 4 {
		assert.InDelta(t, want[i][0], v[i].Position[0], 1e-5)
		assert.InDelta(t, want[i][1], v[i].Position[1], 1e-5)
		assert.Equal(t, [2]float32{float32(common.QuadCorners[i][0]), float32(common.QuadCorners[i][1])}, v[i].TexCoord)
		assert.Equal(t, testPic.Bounds, v[i].TexBounds)
		assert.Equal(t, float32(0.5), v[i].Clip)
	}
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, s.Indices())
}

func TestBufferCounts(t *testing.T) {
	s := NewScene(WithCapacity(4))
	for i := range 5 {
		h := s.AddImage(testPic, mgl64.Vec2{float64(i), 0}, level.ClipSky)
		assert.Equal(t, 4*i, h.Offset())

		assert.Equal(t, 0, len(s.Vertices())%4)
		assert.Equal(t, len(s.Vertices())*3/2, len(s.Indices()))
	}
	assert.Equal(t, 5, s.Quads())

	idx := s.Indices()
	assert.Equal(t, []uint32{16, 17, 18, 16, 18, 19}, idx[24:30])
}

func TestSetPositionsOnlyTouchesPositions(t *testing.T) {
	s := NewScene()
	first := s.AddImage(testPic, mgl64.Vec2{0, 0}, level.ClipGround)
	second := s.AddImage(testPic, mgl64.Vec2{5, 5}, level.ClipSky)

	before := append([]common.PictureVertex(nil), s.Vertices()...)

	positions := [4]mgl64.Vec2{{1, 2}, {3, 4}, {5, 6}, {7, 8}}
	s.SetPositions(second, positions)

	after := s.Vertices()
	assert.Equal(t, before[first.Offset():first.Offset()+4], after[first.Offset():first.Offset()+4])
	for i := range 4 {
		v := after[second.Offset()+i]
		assert.Equal(t, [2]float32{float32(positions[i].X()), float32(positions[i].Y())}, v.Position)
		assert.Equal(t, before[second.Offset()+i].TexCoord, v.TexCoord)
		assert.Equal(t, before[second.Offset()+i].TexBounds, v.TexBounds)
		assert.Equal(t, before[second.Offset()+i].Clip, v.Clip)
	}
	assert.Equal(t, len(before), len(after))
}

func TestSetTexCoordsOnlyTouchesTexCoords(t *testing.T) {
	s := NewScene()
	h := s.AddImage(testPic, mgl64.Vec2{1, 1}, level.ClipUnclipped)
	before := append([]common.PictureVertex(nil), s.Vertices()...)

	coords := [4][2]float32{{2, 2}, {3, 2}, {3, 3}, {2, 3}}
	s.SetTexCoords(h, coords)

	for i, v := range s.Vertices() {
		assert.Equal(t, coords[i], v.TexCoord)
		assert.Equal(t, before[i].Position, v.Position)
		assert.Equal(t, before[i].TexBounds, v.TexBounds)
	}
}

func TestRewritesAreIdempotent(t *testing.T) {
	s := NewScene()
	h := s.AddImage(testPic, mgl64.Vec2{0, 0}, level.ClipUnclipped)
	positions := [4]mgl64.Vec2{{1, 1}, {2, 1}, {2, 0}, {1, 0}}

	s.SetPositions(h, positions)
	once := append([]common.PictureVertex(nil), s.Vertices()...)
	s.SetPositions(h, positions)
	assert.Equal(t, once, s.Vertices())
}

func TestPixelsPerUnitOption(t *testing.T) {
	s := NewScene(WithPixelsPerUnit(100), WithName("level"))
	assert.Equal(t, "level", s.Name())
	assert.Equal(t, 100.0, s.PixelsPerUnit())

	s.AddImage(testPic, mgl64.Vec2{0, 0}, level.ClipUnclipped)
	assert.InDelta(t, 1.0, s.Vertices()[2].Position[0], 1e-6)
	assert.InDelta(t, -1.0, s.Vertices()[2].Position[1], 1e-6)
}

func TestHandleKindsAreDistinct(t *testing.T) {
	polys := NewBuffer[common.PolygonVertex](1)
	h := polys.Insert([4]common.PolygonVertex{})
	assert.IsType(t, Handle[common.PolygonVertex]{}, h)
	assert.Equal(t, 1, polys.Quads())
}
