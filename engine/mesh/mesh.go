// Package mesh turns level polygons into the static triangle mesh drawn into the depth buffer.
package mesh

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/Carmen-Shannon/oxy-moto/common"
	"github.com/Carmen-Shannon/oxy-moto/engine/level"
	"github.com/go-gl/mathgl/mgl64"
)

// GroundDepth is the depth tag written for every ground polygon vertex.
const GroundDepth float32 = 1.0

// ErrDegeneratePolygon is returned when a polygon has fewer than three vertices,
// zero area, or cannot be clipped into triangles.
var ErrDegeneratePolygon = errors.New("mesh: degenerate polygon")

// Triangulate converts the solid polygons of a level into a single vertex/index buffer.
// Grass polygons are skipped. Every vertex carries GroundDepth.
//
// Parameters:
//   - polygons: the polygons to triangulate
//
// Returns:
//   - []common.PolygonVertex: the mesh vertices
//   - []uint32: triangle indices, three per triangle
//   - error: ErrDegeneratePolygon wrapped with the polygon index on failure
func Triangulate(polygons []level.Polygon) ([]common.PolygonVertex, []uint32, error) {
	var vertices []common.PolygonVertex
	var indices []uint32

	for i, p := range polygons {
		if p.Grass {
			continue
		}
		pts, tris, err := triangulatePolygon(p)
		if err != nil {
			return nil, nil, fmt.Errorf("mesh: polygon %d: %w", i, err)
		}
		base := uint32(len(vertices))
		for _, pt := range pts {
			vertices = append(vertices, common.PolygonVertex{
				Position: [2]float32{float32(pt.X()), float32(pt.Y())},
				Depth:    GroundDepth,
			})
		}
		for _, idx := range tris {
			indices = append(indices, base+idx)
		}
	}

	return vertices, indices, nil
}

// triangulatePolygon bridges every hole into the outer ring and ear-clips the result.
// The returned indices address the returned points.
func triangulatePolygon(p level.Polygon) ([]mgl64.Vec2, []uint32, error) {
	if len(p.Outer) < 3 {
		return nil, nil, ErrDegeneratePolygon
	}
	outer := slices.Clone(p.Outer)
	area := signedArea(outer)
	if math.Abs(area) < 1e-12 {
		return nil, nil, ErrDegeneratePolygon
	}
	if area < 0 {
		slices.Reverse(outer)
	}

	holes := make([][]mgl64.Vec2, 0, len(p.Holes))
	for _, h := range p.Holes {
		if len(h) < 3 {
			continue
		}
		h = slices.Clone(h)
		if signedArea(h) > 0 {
			slices.Reverse(h)
		}
		holes = append(holes, h)
	}
	// Rightmost holes first so each bridge only has to avoid holes still pending.
	slices.SortFunc(holes, func(a, b []mgl64.Vec2) int {
		ax, bx := a[rightmost(a)].X(), b[rightmost(b)].X()
		switch {
		case ax > bx:
			return -1
		case ax < bx:
			return 1
		}
		return 0
	})

	ring := outer
	for i, h := range holes {
		merged, err := bridge(ring, h, holes[i+1:])
		if err != nil {
			return nil, nil, err
		}
		ring = merged
	}

	tris, err := earClip(ring)
	if err != nil {
		return nil, nil, err
	}
	return ring, tris, nil
}

// bridge splices hole into ring through the closest ring vertex visible from the hole's rightmost vertex.
func bridge(ring, hole []mgl64.Vec2, pending [][]mgl64.Vec2) ([]mgl64.Vec2, error) {
	mi := rightmost(hole)
	m := hole[mi]

	order := make([]int, len(ring))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		da, db := ring[a].Sub(m).LenSqr(), ring[b].Sub(m).LenSqr()
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})

	for _, vi := range order {
		v := ring[vi]
		if !locallyInside(ring, vi, m) || !locallyInside(hole, mi, v) {
			continue
		}
		if !visible(m, v, ring) || !visible(m, v, hole) {
			continue
		}
		blocked := false
		for _, other := range pending {
			if !visible(m, v, other) {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}

		out := make([]mgl64.Vec2, 0, len(ring)+len(hole)+2)
		out = append(out, ring[:vi+1]...)
		out = append(out, hole[mi:]...)
		out = append(out, hole[:mi+1]...)
		out = append(out, ring[vi:]...)
		return out, nil
	}
	return nil, ErrDegeneratePolygon
}

// locallyInside reports whether the direction from ring[i] towards p falls inside the solid wedge at ring[i].
// Bridged rings repeat vertices, and only one copy opens towards a given point.
func locallyInside(ring []mgl64.Vec2, i int, p mgl64.Vec2) bool {
	n := len(ring)
	a, v, b := ring[(i+n-1)%n], ring[i], ring[(i+1)%n]
	if cross(a, v, b) >= 0 {
		return cross(a, v, p) >= 0 && cross(v, b, p) >= 0
	}
	return cross(a, v, p) >= 0 || cross(v, b, p) >= 0
}

// visible reports whether segment a-b crosses none of the edges of ring and runs through none of its vertices.
// Edges sharing an endpoint with the segment are only checked for vertices lying on it.
func visible(a, b mgl64.Vec2, ring []mgl64.Vec2) bool {
	for i := range ring {
		c, d := ring[i], ring[(i+1)%len(ring)]
		if !c.ApproxEqual(a) && !c.ApproxEqual(b) && onSegment(c, a, b) {
			return false
		}
		if c.ApproxEqual(a) || c.ApproxEqual(b) || d.ApproxEqual(a) || d.ApproxEqual(b) {
			continue
		}
		if segmentsIntersect(a, b, c, d) {
			return false
		}
	}
	return true
}

// earClip triangulates a counter-clockwise simple (or bridged) ring.
func earClip(ring []mgl64.Vec2) ([]uint32, error) {
	n := len(ring)
	if n < 3 {
		return nil, ErrDegeneratePolygon
	}

	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}
	tris := make([]uint32, 0, 3*(n-2))

	for len(remaining) > 3 {
		ear := findEar(ring, remaining, false)
		if ear < 0 {
			// Only collinear or touching vertices are left; clip a flat corner to make progress.
			ear = findEar(ring, remaining, true)
		}
		if ear < 0 {
			return nil, ErrDegeneratePolygon
		}
		k := len(remaining)
		prev, cur, next := remaining[(ear+k-1)%k], remaining[ear], remaining[(ear+1)%k]
		tris = append(tris, uint32(prev), uint32(cur), uint32(next))
		remaining = slices.Delete(remaining, ear, ear+1)
	}
	tris = append(tris, uint32(remaining[0]), uint32(remaining[1]), uint32(remaining[2]))
	return tris, nil
}

func findEar(ring []mgl64.Vec2, remaining []int, allowFlat bool) int {
	k := len(remaining)
	for i := 0; i < k; i++ {
		a := ring[remaining[(i+k-1)%k]]
		b := ring[remaining[i]]
		c := ring[remaining[(i+1)%k]]

		cr := cross(a, b, c)
		if allowFlat {
			if cr < 0 {
				continue
			}
			return i
		}
		if cr <= 1e-12 {
			continue
		}

		ear := true
		for j := 0; j < k; j++ {
			if j == i || j == (i+k-1)%k || j == (i+1)%k {
				continue
			}
			p := ring[remaining[j]]
			if p.ApproxEqual(a) || p.ApproxEqual(b) || p.ApproxEqual(c) {
				continue
			}
			if pointInTriangle(p, a, b, c) {
				ear = false
				break
			}
		}
		if ear {
			return i
		}
	}
	return -1
}

func signedArea(ring []mgl64.Vec2) float64 {
	var a float64
	for i := range ring {
		p, q := ring[i], ring[(i+1)%len(ring)]
		a += p.X()*q.Y() - q.X()*p.Y()
	}
	return a / 2
}

func rightmost(ring []mgl64.Vec2) int {
	best := 0
	for i, p := range ring {
		if p.X() > ring[best].X() {
			best = i
		}
	}
	return best
}

func cross(a, b, c mgl64.Vec2) float64 {
	return (b.X()-a.X())*(c.Y()-a.Y()) - (b.Y()-a.Y())*(c.X()-a.X())
}

func pointInTriangle(p, a, b, c mgl64.Vec2) bool {
	return cross(a, b, p) >= 0 && cross(b, c, p) >= 0 && cross(c, a, p) >= 0
}

func onSegment(p, a, b mgl64.Vec2) bool {
	if math.Abs(cross(a, b, p)) > 1e-12 {
		return false
	}
	return p.X() >= math.Min(a.X(), b.X()) && p.X() <= math.Max(a.X(), b.X()) &&
		p.Y() >= math.Min(a.Y(), b.Y()) && p.Y() <= math.Max(a.Y(), b.Y())
}

func segmentsIntersect(a, b, c, d mgl64.Vec2) bool {
	d1 := cross(c, d, a)
	d2 := cross(c, d, b)
	d3 := cross(a, b, c)
	d4 := cross(a, b, d)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}
