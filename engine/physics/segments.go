package physics

import (
	"github.com/Carmen-Shannon/oxy-moto/engine/level"
	"github.com/go-gl/mathgl/mgl64"
)

// Segments is the static collision boundary of a level: every edge of every solid polygon ring.
type Segments struct {
	edges [][2]mgl64.Vec2
}

// NewSegments collects the edges of the non-grass polygons, holes included.
//
// Parameters:
//   - polygons: the level polygons
//
// Returns:
//   - *Segments: the collision edges
func NewSegments(polygons []level.Polygon) *Segments {
	s := &Segments{}
	for _, p := range polygons {
		if p.Grass {
			continue
		}
		s.addRing(p.Outer)
		for _, h := range p.Holes {
			s.addRing(h)
		}
	}
	return s
}

func (s *Segments) addRing(ring []mgl64.Vec2) {
	if len(ring) < 2 {
		return
	}
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		if a.ApproxEqual(b) {
			continue
		}
		s.edges = append(s.edges, [2]mgl64.Vec2{a, b})
	}
}

// Edges returns the collision edges.
func (s *Segments) Edges() [][2]mgl64.Vec2 {
	return s.edges
}

// Len returns the number of collision edges.
func (s *Segments) Len() int {
	return len(s.edges)
}
