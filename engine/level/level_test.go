package level

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLevel = `{
  "name": "sample",
  "sky": "sky.png",
  "ground": "ground.png",
  "polygons": [
    {"wkt": "POLYGON((0 0, 20 0, 20 10, 0 10, 0 0), (5 5, 6 5, 6 6, 5 6, 5 5))"},
    {"wkt": "POLYGON((1 1, 2 1, 2 2, 1 1))", "grass": true}
  ],
  "objects": [
    {"kind": "food", "x": 3, "y": 4},
    {"kind": "player", "x": 1.5, "y": 2.5}
  ],
  "pictures": [
    {"name": "tree.png", "x": 4, "y": 8, "clip": "ground"},
    {"name": "", "x": 0, "y": 0}
  ]
}`

func TestRead(t *testing.T) {
	lvl, err := Read(strings.NewReader(sampleLevel), "json")
	require.NoError(t, err)

	assert.Equal(t, "sample", lvl.Name)
	assert.Equal(t, "sky.png", lvl.Sky)
	assert.Equal(t, "ground.png", lvl.Ground)

	require.Len(t, lvl.Polygons, 2)
	assert.Len(t, lvl.Polygons[0].Outer, 4, "closing point is dropped")
	require.Len(t, lvl.Polygons[0].Holes, 1)
	assert.Len(t, lvl.Polygons[0].Holes[0], 4)
	assert.False(t, lvl.Polygons[0].Grass)
	assert.True(t, lvl.Polygons[1].Grass)
	assert.Len(t, lvl.Solid(), 1)

	require.Len(t, lvl.Pictures, 2)
	assert.Equal(t, ClipGround, lvl.Pictures[0].Clip)
	assert.Equal(t, ClipUnclipped, lvl.Pictures[1].Clip)
	assert.Equal(t, mgl64.Vec2{4, 8}, lvl.Pictures[0].Position)

	start, err := lvl.Player()
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec2{1.5, 2.5}, start)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleLevel), 0o644))

	lvl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sample", lvl.Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestNoPlayer(t *testing.T) {
	lvl, err := Read(strings.NewReader(`{"name": "empty"}`), "json")
	require.NoError(t, err)

	_, err = lvl.Player()
	assert.ErrorIs(t, err, ErrNoPlayer)
}

func TestRejectsBadEntries(t *testing.T) {
	cases := map[string]string{
		"bad wkt":     `{"polygons": [{"wkt": "POLYGON((0 0"}]}`,
		"not polygon": `{"polygons": [{"wkt": "POINT(1 2)"}]}`,
		"bad kind":    `{"objects": [{"kind": "dragon"}]}`,
		"bad clip":    `{"pictures": [{"name": "a.png", "clip": "underwater"}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(doc), "json")
			assert.Error(t, err)
		})
	}
}

func TestClipBias(t *testing.T) {
	assert.Equal(t, float32(0.5), ClipUnclipped.Bias())
	assert.Equal(t, float32(0.0), ClipGround.Bias())
	assert.Equal(t, float32(1.0), ClipSky.Bias())
}
