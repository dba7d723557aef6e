// Package remesh drives a closed triangle mesh toward uniform edge lengths and
// valence 6 while relaxing vertices in their tangent planes.
package remesh

import (
	"math"

	"github.com/akmonengine/weave/geom"
	"github.com/akmonengine/weave/halfedge"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// SplitRatio is the multiple of the mean edge length above which edges are split.
	SplitRatio = 4.0 / 3.0

	// IdealValence is the degree flips drive interior vertices toward.
	IdealValence = 6
)

// Stats counts the work done by Remesh.
type Stats struct {
	Splits int
	Flips  int
}

// Remesh runs the given number of iterations. damping is clamped to [0, 1].
func Remesh(m *halfedge.Mesh, iterations int, damping float64) Stats {
	damping = mgl64.Clamp(damping, 0, 1)

	var stats Stats
	for k := 0; k < iterations; k++ {
		stats.Splits += SplitLong(m)
		stats.Flips += EqualizeValences(m)
		Relax(m, damping)
	}
	return stats
}

// MeanEdgeLength returns the average length of the live edges.
func MeanEdgeLength(m *halfedge.Mesh) float64 {
	edges := m.Edges()
	if len(edges) == 0 {
		return 0
	}
	total := 0.0
	for _, e := range edges {
		total += edgeLength(m, e)
	}
	return total / float64(len(edges))
}

// SplitLong splits every edge longer than SplitRatio times the mean and returns the
// number of splits. Lengths are measured before the first split.
func SplitLong(m *halfedge.Mesh) int {
	limit := SplitRatio * MeanEdgeLength(m)

	var long []halfedge.EdgeID
	for _, e := range m.Edges() {
		if edgeLength(m, e) > limit {
			long = append(long, e)
		}
	}
	for _, e := range long {
		m.Split(m.EdgeHalfedge(e))
	}
	return len(long)
}

// EqualizeValences visits each edge once and flips it when that strictly lowers the
// total distance to IdealValence of the four vertices of its quad.
func EqualizeValences(m *halfedge.Mesh) int {
	seen := make(map[halfedge.EdgeID]struct{}, m.NumEdges())
	flips := 0
	for _, h := range m.Halfedges() {
		e := m.EdgeOf(h)
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}

		a := m.Degree(m.Origin(h))
		b := m.Degree(m.Dest(h))
		c := m.Degree(m.Apex(h))
		d := m.Degree(m.Apex(m.Twin(h)))

		before := deviation(a) + deviation(b) + deviation(c) + deviation(d)
		after := deviation(a-1) + deviation(b-1) + deviation(c+1) + deviation(d+1)
		if after < before && m.Flip(h) {
			flips++
		}
	}
	return flips
}

// Relax moves every vertex toward the area-weighted centroid of its one-ring,
// projected onto its tangent plane and scaled by damping.
func Relax(m *halfedge.Mesh, damping float64) {
	vertices := m.Vertices()

	areas := make(map[halfedge.VertexID]float64, len(vertices))
	for _, v := range vertices {
		areas[v] = VertexArea(m, v)
	}

	moved := make([]mgl64.Vec3, len(vertices))
	for i, v := range vertices {
		p := m.Position(v)
		moved[i] = p

		var centroid mgl64.Vec3
		weight := 0.0
		for _, n := range m.Neighbors(v) {
			centroid = centroid.Add(m.Position(n).Mul(areas[n]))
			weight += areas[n]
		}
		if weight == 0 {
			continue
		}
		centroid = centroid.Mul(1 / weight)

		normal := VertexNormal(m, v)
		tangent := mgl64.Ident3().Sub(normal.OuterProd3(normal))
		moved[i] = p.Add(tangent.Mul3x1(centroid.Sub(p)).Mul(damping))
	}

	for i, v := range vertices {
		m.SetPosition(v, moved[i])
	}
}

// VertexArea returns the mixed Voronoi area of v over its incident faces.
func VertexArea(m *halfedge.Mesh, v halfedge.VertexID) float64 {
	area := 0.0
	p := m.Position(v)
	for _, h := range m.Outgoing(v) {
		area += geom.VoronoiRegionArea(p, m.Position(m.Dest(h)), m.Position(m.Apex(h)))
	}
	return area
}

// VertexNormal returns the unit area-weighted normal of the faces around v, or the
// zero vector when they cancel out.
func VertexNormal(m *halfedge.Mesh, v halfedge.VertexID) mgl64.Vec3 {
	var n mgl64.Vec3
	p := m.Position(v)
	for _, h := range m.Outgoing(v) {
		n = n.Add(geom.Cross(p, m.Position(m.Dest(h)), m.Position(m.Apex(h))))
	}
	if n.Len() < geom.DegenerateArea {
		return mgl64.Vec3{}
	}
	return n.Normalize()
}

func edgeLength(m *halfedge.Mesh, e halfedge.EdgeID) float64 {
	a, b := m.EdgeVertices(e)
	return m.Position(a).Sub(m.Position(b)).Len()
}

func deviation(degree int) float64 {
	return math.Abs(float64(degree - IdealValence))
}
