// Package loop implements Loop subdivision on a closed halfedge mesh.
//
// Each round quadruples the face count: every edge is split, the cross edges that
// join a new vertex to an old one are flipped, then new and old vertices are moved
// with the Loop weights computed from the topology before the round started.
package loop

import (
	"math"

	"github.com/akmonengine/weave/halfedge"
	"github.com/go-gl/mathgl/mgl64"
)

// Beta returns the Loop weight applied to each neighbor of an old vertex of degree n.
func Beta(n int) float64 {
	if n == 3 {
		return 3.0 / 16.0
	}
	w := 3.0/8.0 + 0.25*math.Cos(2*math.Pi/float64(n))
	return (5.0/8.0 - w*w) / float64(n)
}

// Subdivide runs the given number of subdivision rounds.
func Subdivide(m *halfedge.Mesh, iterations int) {
	for k := 0; k < iterations; k++ {
		Step(m)
	}
}

type oldVertex struct {
	id        halfedge.VertexID
	pos       mgl64.Vec3
	neighbors []mgl64.Vec3
}

type newVertex struct {
	id      halfedge.VertexID
	stencil [4]mgl64.Vec3 // both endpoints, then both apexes
}

// Step runs a single subdivision round.
func Step(m *halfedge.Mesh) {
	// Positions are captured before any split changes adjacency.
	vertices := m.Vertices()
	olds := make([]oldVertex, len(vertices))
	isOld := make(map[halfedge.VertexID]bool, len(vertices))
	for i, v := range vertices {
		ring := m.Neighbors(v)
		neighbors := make([]mgl64.Vec3, len(ring))
		for k, n := range ring {
			neighbors[k] = m.Position(n)
		}
		olds[i] = oldVertex{id: v, pos: m.Position(v), neighbors: neighbors}
		isOld[v] = true
	}

	edges := m.Edges()
	stencils := make([][4]mgl64.Vec3, len(edges))
	for i, e := range edges {
		h := m.EdgeHalfedge(e)
		t := m.Twin(h)
		stencils[i] = [4]mgl64.Vec3{
			m.Position(m.Origin(h)),
			m.Position(m.Origin(t)),
			m.Position(m.Apex(h)),
			m.Position(m.Apex(t)),
		}
	}

	// Splits never release edges, so every pre-existing edge is still live here.
	news := make([]newVertex, len(edges))
	fresh := make(map[halfedge.EdgeID]bool, 2*len(edges))
	for i, e := range edges {
		r := m.Split(m.EdgeHalfedge(e))
		fresh[r.Left] = true
		fresh[r.Right] = true
		news[i] = newVertex{id: r.Vertex, stencil: stencils[i]}
	}

	for _, h := range m.Halfedges() {
		e := m.EdgeOf(h)
		if !fresh[e] {
			continue
		}
		if isOld[m.Origin(h)] != isOld[m.Dest(h)] {
			fresh[e] = false
			m.Flip(h)
		}
	}

	for _, nv := range news {
		s := nv.stencil
		p := s[0].Add(s[1]).Mul(3.0 / 8.0).Add(s[2].Add(s[3]).Mul(1.0 / 8.0))
		m.SetPosition(nv.id, p)
	}

	for _, ov := range olds {
		n := len(ov.neighbors)
		beta := Beta(n)
		p := ov.pos.Mul(1 - float64(n)*beta)
		for _, q := range ov.neighbors {
			p = p.Add(q.Mul(beta))
		}
		m.SetPosition(ov.id, p)
	}
}
