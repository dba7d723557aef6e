package halfedge

import (
	"github.com/pkg/errors"
)

// Validate checks the structural invariants of the topology graph and returns an
// error wrapping ErrCorrupt describing the first violation found. It never repairs
// anything.
//
// Checked for every live record:
//   - all links are set and point to live records, and anchors point back
//   - each edge is referenced by exactly two halfedges
//   - faces are triangles: next(next(next(h))) == h
//   - twin(twin(h)) == h
//   - the one-ring walk from a vertex anchor visits exactly the halfedges leaving it
//   - halfedges of a face agree on that face
func (m *Mesh) Validate() error {
	for i := range m.halfedges {
		h := &m.halfedges[i]
		if h.released {
			continue
		}
		id := HalfedgeID(i)
		switch {
		case !m.HalfedgeAlive(h.Twin):
			return corrupt("halfedge %d: twin %d is not live", id, h.Twin)
		case !m.HalfedgeAlive(h.Next):
			return corrupt("halfedge %d: next %d is not live", id, h.Next)
		case !m.VertexAlive(h.Vertex):
			return corrupt("halfedge %d: vertex %d is not live", id, h.Vertex)
		case !m.EdgeAlive(h.Edge):
			return corrupt("halfedge %d: edge %d is not live", id, h.Edge)
		case !m.FaceAlive(h.Face):
			return corrupt("halfedge %d: face %d is not live", id, h.Face)
		}
	}

	for i := range m.vertices {
		v := &m.vertices[i]
		if v.released {
			continue
		}
		if !m.HalfedgeAlive(v.Halfedge) {
			return corrupt("vertex %d: halfedge %d is not live", i, v.Halfedge)
		}
		if m.halfedges[v.Halfedge].Vertex != VertexID(i) {
			return corrupt("vertex %d: anchor halfedge %d leaves vertex %d", i, v.Halfedge, m.halfedges[v.Halfedge].Vertex)
		}
	}
	for i := range m.edges {
		e := &m.edges[i]
		if e.released {
			continue
		}
		if !m.HalfedgeAlive(e.Halfedge) {
			return corrupt("edge %d: halfedge %d is not live", i, e.Halfedge)
		}
		if m.halfedges[e.Halfedge].Edge != EdgeID(i) {
			return corrupt("edge %d: halfedge %d belongs to edge %d", i, e.Halfedge, m.halfedges[e.Halfedge].Edge)
		}
	}
	for i := range m.faces {
		f := &m.faces[i]
		if f.released {
			continue
		}
		if !m.HalfedgeAlive(f.Halfedge) {
			return corrupt("face %d: halfedge %d is not live", i, f.Halfedge)
		}
		if m.halfedges[f.Halfedge].Face != FaceID(i) {
			return corrupt("face %d: halfedge %d belongs to face %d", i, f.Halfedge, m.halfedges[f.Halfedge].Face)
		}
	}

	refs := make(map[EdgeID]int, m.liveEdges)
	outgoing := make(map[VertexID]int, m.liveVertices)
	for i := range m.halfedges {
		h := &m.halfedges[i]
		if h.released {
			continue
		}
		id := HalfedgeID(i)
		refs[h.Edge]++
		outgoing[h.Vertex]++

		n1 := h.Next
		n2 := m.halfedges[n1].Next
		if m.halfedges[n2].Next != id {
			return corrupt("halfedge %d: face loop is not a triangle", id)
		}
		if m.halfedges[h.Twin].Twin != id || h.Twin == id {
			return corrupt("halfedge %d: twin %d does not point back", id, h.Twin)
		}
		if m.halfedges[h.Twin].Edge != h.Edge {
			return corrupt("halfedge %d: twin %d is on edge %d, not %d", id, h.Twin, m.halfedges[h.Twin].Edge, h.Edge)
		}
		if m.halfedges[n1].Face != h.Face || m.halfedges[n2].Face != h.Face {
			return corrupt("halfedge %d: face loop does not agree on face %d", id, h.Face)
		}
	}

	for i := range m.edges {
		if m.edges[i].released {
			continue
		}
		if n := refs[EdgeID(i)]; n != 2 {
			return corrupt("edge %d: referenced by %d halfedges", i, n)
		}
	}

	for i := range m.vertices {
		v := &m.vertices[i]
		if v.released {
			continue
		}
		start := v.Halfedge
		h := start
		n := 0
		for {
			if m.halfedges[h].Vertex != VertexID(i) {
				return corrupt("vertex %d: one-ring reaches halfedge %d leaving vertex %d", i, h, m.halfedges[h].Vertex)
			}
			n++
			if n > m.liveHalfedges {
				return corrupt("vertex %d: one-ring does not close", i)
			}
			h = m.halfedges[m.halfedges[h].Twin].Next
			if h == start {
				break
			}
		}
		if n != outgoing[VertexID(i)] {
			return corrupt("vertex %d: one-ring visits %d of %d outgoing halfedges", i, n, outgoing[VertexID(i)])
		}
	}

	return nil
}

// MustValidate panics if Validate reports corruption.
func (m *Mesh) MustValidate() {
	if err := m.Validate(); err != nil {
		panic(err)
	}
}

func corrupt(format string, args ...interface{}) error {
	return errors.Wrapf(ErrCorrupt, format, args...)
}
