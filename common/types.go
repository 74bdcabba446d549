// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// QuadCorners is the unit-square parameterization shared by every quad in the engine.
// Corner i of a quad always maps to QuadCorners[i] for both its position offset and its
// texture coordinate, so independently computed position and tex coord arrays stay index-aligned.
// Order: (0,0) → (1,0) → (1,1) → (0,1).
var QuadCorners = [4][2]float64{
	{0, 0},
	{1, 0},
	{1, 1},
	{0, 1},
}

// QuadIndices returns the six indices forming the two triangles of a quad whose first vertex is at base.
//
// Parameters:
//   - base: the offset of the quad's first vertex in its vertex buffer
//
// Returns:
//   - [6]uint32: the triangle indices {base, base+1, base+2, base, base+2, base+3}
func QuadIndices(base uint32) [6]uint32 {
	return [6]uint32{base, base + 1, base + 2, base, base + 2, base + 3}
}

// PolygonVertex is a single vertex of the static level mesh as laid out in the GPU vertex buffer.
type PolygonVertex struct {
	// Position is the vertex position in world units.
	Position [2]float32
	// Depth is the depth-layer tag written to the depth buffer for this polygon.
	Depth float32
}

// PictureVertex is a single vertex of a picture quad as laid out in the GPU vertex buffer.
type PictureVertex struct {
	// Position is the vertex position in world units.
	Position [2]float32
	// TexCoord is the texture coordinate relative to the picture, wrapped into TexBounds by the fragment stage.
	TexCoord [2]float32
	// TexBounds is the picture's region in the atlas as normalized (u0, v0, u1, v1).
	TexBounds [4]float32
	// Clip is the depth bias selected by the picture's clip tag.
	Clip float32
}

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}
