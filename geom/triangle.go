// Package geom holds the triangle geometry shared by the mesh algorithms:
// normals, areas, mixed Voronoi areas, bounding boxes and a few closed solids.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DegenerateArea is the area under which a triangle is treated as degenerate.
const DegenerateArea = 1e-8

// Cross returns (b-a) × (c-a), whose length is twice the triangle area.
func Cross(a, b, c mgl64.Vec3) mgl64.Vec3 {
	return b.Sub(a).Cross(c.Sub(a))
}

// Normal returns the unit normal of the counter-clockwise triangle abc.
// Degenerate triangles have a zero normal.
func Normal(a, b, c mgl64.Vec3) mgl64.Vec3 {
	n := Cross(a, b, c)
	length := n.Len()
	if length < 1e-12 {
		return mgl64.Vec3{}
	}
	return n.Mul(1.0 / length)
}

func Area(a, b, c mgl64.Vec3) float64 {
	return 0.5 * Cross(a, b, c).Len()
}

// VoronoiRegionArea returns the part of triangle abc attributed to corner a.
//
// For a non-obtuse corner a it is the Voronoi area
// (cot(β)|ac|² + cot(γ)|ab|²) / 8, with β and γ the angles at b and c clamped to
// non-negative cotangents. When the angle at a is obtuse the region is half the
// triangle area. Degenerate triangles contribute nothing.
func VoronoiRegionArea(a, b, c mgl64.Vec3) float64 {
	area := Area(a, b, c)
	if area < DegenerateArea {
		return 0
	}

	ab := b.Sub(a)
	ac := c.Sub(a)
	bc := c.Sub(b)

	cosAtA := mgl64.Clamp(ab.Dot(ac)/(ab.Len()*ac.Len()), -1, 1)
	if math.Acos(cosAtA) > math.Pi/2 {
		return area / 2
	}

	cosAtB := ab.Mul(-1).Dot(bc) / (ab.Len() * bc.Len())
	cosAtC := ac.Mul(-1).Dot(bc.Mul(-1)) / (ac.Len() * bc.Len())

	cotB := math.Max(0, cotangent(cosAtB))
	cotC := math.Max(0, cotangent(cosAtC))

	return (cotB*ac.Dot(ac) + cotC*ab.Dot(ab)) / 8
}

func cotangent(cos float64) float64 {
	cos = mgl64.Clamp(cos, -1, 1)
	sin := math.Sqrt(1 - cos*cos)
	if sin == 0 {
		return 0
	}
	return cos / sin
}
