// Package qem simplifies a closed triangle mesh by quadric error metric edge collapses.
//
// Every vertex carries the sum of the plane quadrics of its incident faces. Edges
// are collapsed cheapest first, each collapse moving the surviving vertex to the
// point minimizing the merged quadric.
package qem

import (
	"github.com/akmonengine/weave/halfedge"
	"github.com/go-gl/mathgl/mgl64"
)

// Stats summarizes a Simplify run.
type Stats struct {
	FacesBefore int
	FacesAfter  int
	Collapses   int
	// Candidates popped from the queue that no longer passed the collapse test.
	Rejected int
	// Largest error among the performed collapses.
	MaxError float64
}

type simplifier struct {
	mesh     *halfedge.Mesh
	quadrics map[halfedge.VertexID]mgl64.Mat4
	queue    *queue
}

// Simplify removes up to faceBudget faces, two per collapse. It stops early when no
// edge can be collapsed without breaking the mesh.
func Simplify(m *halfedge.Mesh, faceBudget int) Stats {
	s := simplifier{
		mesh:     m,
		quadrics: VertexQuadrics(m),
		queue:    newQueue(),
	}
	stats := Stats{FacesBefore: m.NumFaces()}

	for _, e := range m.Edges() {
		s.update(e)
	}

	for n := faceBudget; n > 0; {
		c, cost, ok := s.queue.pop()
		if !ok {
			break
		}
		h := m.EdgeHalfedge(c.edge)
		if !m.CanCollapse(h) {
			stats.Rejected++
			continue
		}

		t := m.Twin(h)
		keep := m.Origin(h)
		gone := m.Origin(t)
		c1 := m.Apex(h)
		c2 := m.Apex(t)

		// the two edges leaving with the collapsed faces
		s.queue.remove(m.EdgeOf(m.Next(h)))
		s.queue.remove(m.EdgeOf(m.Prev(t)))

		if !m.Collapse(h) {
			stats.Rejected++
			continue
		}

		m.SetPosition(keep, c.pos)
		s.quadrics[keep] = s.quadrics[keep].Add(s.quadrics[gone])
		delete(s.quadrics, gone)

		stats.Collapses++
		stats.MaxError = max(stats.MaxError, cost)
		n -= 2

		s.refresh(keep, c1, c2)
	}

	stats.FacesAfter = m.NumFaces()
	return stats
}

// update recomputes the queue entry of e, dropping it when e may not be collapsed.
func (s *simplifier) update(e halfedge.EdgeID) {
	m := s.mesh
	if !m.EdgeAlive(e) {
		s.queue.remove(e)
		return
	}
	h := m.EdgeHalfedge(e)
	if !m.CanCollapse(h) {
		s.queue.remove(e)
		return
	}
	a, b := m.EdgeVertices(e)
	q := s.quadrics[a].Add(s.quadrics[b])
	pos, err := OptimalPosition(q, m.Position(a), m.Position(b))
	s.queue.push(e, err, pos)
}

// refresh updates every edge touching the given vertices, and the edges of their
// link, whose collapse test may have changed with the new adjacency.
func (s *simplifier) refresh(vertices ...halfedge.VertexID) {
	m := s.mesh
	seen := make(map[halfedge.EdgeID]struct{}, 64)
	for _, v := range vertices {
		for _, h := range m.Outgoing(v) {
			for _, e := range [...]halfedge.EdgeID{m.EdgeOf(h), m.EdgeOf(m.Next(h))} {
				if _, ok := seen[e]; ok {
					continue
				}
				seen[e] = struct{}{}
				s.update(e)
			}
		}
	}
}
