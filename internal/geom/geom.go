// Package geom provides the 2D ground-plane primitives used by the PET
// engine: points, conflict-area polygons, and point containment tests.
package geom

// Point is a position in the ground plane, in metres, using the simulation
// network's coordinate frame.
type Point struct {
	X float64
	Y float64
}

// Polygon is an ordered list of vertices describing a simple polygon.
// Polygons with fewer than three vertices are degenerate and contain nothing.
type Polygon []Point

// Degenerate reports whether the polygon has too few vertices to enclose any
// area.
func (p Polygon) Degenerate() bool {
	return len(p) < 3
}

// ContainmentTester classifies a point against a polygon. Implementations
// must agree on the boundary rule: a point exactly on a polygon edge or
// vertex is classified as outside. The two strategies are interchangeable so
// deployments can trade exactness against speed.
type ContainmentTester interface {
	Contains(pt Point, poly Polygon) bool
}
