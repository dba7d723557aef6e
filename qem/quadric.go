package qem

import (
	"math"

	"github.com/akmonengine/weave/geom"
	"github.com/akmonengine/weave/halfedge"
	"github.com/go-gl/mathgl/mgl64"
)

// SearchSteps is the number of intervals sampled along an edge when the quadric
// system cannot be solved; SearchSteps+1 points are evaluated.
const SearchSteps = 10

// PlaneQuadric returns p pᵀ for the plane through point with the given unit normal,
// where p = [normal, -normal·point].
func PlaneQuadric(normal, point mgl64.Vec3) mgl64.Mat4 {
	p := normal.Vec4(-normal.Dot(point))
	return p.OuterProd4(p)
}

// Error evaluates vᵀ Q v for the homogeneous point [p, 1].
func Error(q mgl64.Mat4, p mgl64.Vec3) float64 {
	v := p.Vec4(1)
	return v.Dot(q.Mul4x1(v))
}

// VertexQuadrics sums, for every live vertex, the plane quadrics of its incident faces.
func VertexQuadrics(m *halfedge.Mesh) map[halfedge.VertexID]mgl64.Mat4 {
	normals := make(map[halfedge.FaceID]mgl64.Vec3, m.NumFaces())
	for _, f := range m.Faces() {
		p := m.FacePositions(f)
		normals[f] = geom.Normal(p[0], p[1], p[2])
	}

	quadrics := make(map[halfedge.VertexID]mgl64.Mat4, m.NumVertices())
	for _, v := range m.Vertices() {
		pos := m.Position(v)
		var q mgl64.Mat4
		for _, h := range m.Outgoing(v) {
			q = q.Add(PlaneQuadric(normals[m.FaceOf(h)], pos))
		}
		quadrics[v] = q
	}
	return quadrics
}

// OptimalPosition returns the point minimizing the error of q for a collapse of
// segment a–b, and that error.
//
// The minimizer solves the system whose first three rows are those of q and whose
// last row is [0 0 0 1]. When that system cannot be inverted, or the solution is
// not finite, the segment is sampled instead.
func OptimalPosition(q mgl64.Mat4, a, b mgl64.Vec3) (mgl64.Vec3, float64) {
	system := mgl64.Mat4FromRows(
		q.Row(0),
		q.Row(1),
		q.Row(2),
		mgl64.Vec4{0, 0, 0, 1},
	)

	if system.Det() == 0 {
		return linearSearch(q, a, b)
	}
	// Inv gives up below its own determinant threshold and returns zero.
	inv := system.Inv()
	if inv == (mgl64.Mat4{}) {
		return linearSearch(q, a, b)
	}

	p := inv.Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3()
	if math.IsNaN(p.X()) || math.IsInf(p.X(), 0) || math.IsNaN(p.Y()) || math.IsInf(p.Y(), 0) || math.IsNaN(p.Z()) || math.IsInf(p.Z(), 0) {
		return linearSearch(q, a, b)
	}
	return p, Error(q, p)
}

func linearSearch(q mgl64.Mat4, a, b mgl64.Vec3) (mgl64.Vec3, float64) {
	best := a
	bestErr := math.Inf(1)
	step := b.Sub(a).Mul(1.0 / SearchSteps)
	for i := 0; i <= SearchSteps; i++ {
		p := a.Add(step.Mul(float64(i)))
		if err := Error(q, p); err < bestErr {
			best, bestErr = p, err
		}
	}
	return best, bestErr
}
