package geom

import (
	"fmt"
	"math"
)

// boundaryEps is the tolerance used when deciding whether a point lies
// exactly on a polygon edge. Simulation coordinates are metres, so a
// nanometre tolerance is well below sampling noise.
const boundaryEps = 1e-9

// CrossingTester implements ContainmentTester with the classic even-odd ray
// casting algorithm. It is the dependency-free fallback strategy.
type CrossingTester struct{}

// Contains reports whether pt lies strictly inside poly.
func (CrossingTester) Contains(pt Point, poly Polygon) bool {
	if poly.Degenerate() {
		return false
	}
	if onBoundary(pt, poly) {
		return false
	}

	inside := false
	n := len(poly)
	p1 := poly[0]
	for i := 1; i <= n; i++ {
		p2 := poly[i%n]
		if pt.Y > math.Min(p1.Y, p2.Y) && pt.Y <= math.Max(p1.Y, p2.Y) && pt.X <= math.Max(p1.X, p2.X) {
			var xInters float64
			if p1.Y != p2.Y {
				xInters = (pt.Y-p1.Y)*(p2.X-p1.X)/(p2.Y-p1.Y) + p1.X
			}
			if p1.X == p2.X || pt.X <= xInters {
				inside = !inside
			}
		}
		p1 = p2
	}
	return inside
}

// WindingTester implements ContainmentTester with the nonzero winding-number
// algorithm. It handles self-touching vertex configurations more robustly
// than ray casting and stands in for an exact-geometry library.
type WindingTester struct{}

// Contains reports whether pt lies strictly inside poly.
func (WindingTester) Contains(pt Point, poly Polygon) bool {
	if poly.Degenerate() {
		return false
	}
	if onBoundary(pt, poly) {
		return false
	}

	winding := 0
	n := len(poly)
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		if a.Y <= pt.Y {
			if b.Y > pt.Y && isLeft(a, b, pt) > 0 {
				winding++
			}
		} else {
			if b.Y <= pt.Y && isLeft(a, b, pt) < 0 {
				winding--
			}
		}
	}
	return winding != 0
}

// isLeft returns >0 if p is left of the directed line a->b, <0 if right,
// 0 if collinear.
func isLeft(a, b, p Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (p.X-a.X)*(b.Y-a.Y)
}

// onBoundary reports whether pt lies on any edge of poly, within
// boundaryEps. Both testers use this so the boundary rule stays consistent
// between strategies.
func onBoundary(pt Point, poly Polygon) bool {
	n := len(poly)
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		if pointOnSegment(pt, a, b) {
			return true
		}
	}
	return false
}

// pointOnSegment reports whether p lies on the segment a-b.
func pointOnSegment(p, a, b Point) bool {
	if math.Abs(isLeft(a, b, p)) > boundaryEps {
		return false
	}
	return p.X >= math.Min(a.X, b.X)-boundaryEps && p.X <= math.Max(a.X, b.X)+boundaryEps &&
		p.Y >= math.Min(a.Y, b.Y)-boundaryEps && p.Y <= math.Max(a.Y, b.Y)+boundaryEps
}

// NewTester returns the containment strategy named by kind: "winding"
// (default for empty input) or "crossing".
func NewTester(kind string) (ContainmentTester, error) {
	switch kind {
	case "", "winding":
		return WindingTester{}, nil
	case "crossing":
		return CrossingTester{}, nil
	default:
		return nil, fmt.Errorf("unknown containment strategy %q (want \"winding\" or \"crossing\")", kind)
	}
}
