package halfedge

// Degree returns the number of edges incident to v.
func (m *Mesh) Degree(v VertexID) int {
	start := m.VertexHalfedge(v)
	h := start
	d := 0
	for {
		d++
		h = m.Rotate(h)
		if h == start {
			break
		}
	}
	return d
}

// Flip replaces the edge of h by the other diagonal of the quad formed by its two faces.
// It reports false, leaving the mesh untouched, when an endpoint has degree 3 or less.
//
// Before:           After:
//
//	    c                 c
//	   / \               /|\
//	  a-h->b           a  h  b
//	   \ t/              \|/
//	    d                 d
func (m *Mesh) Flip(h HalfedgeID) bool {
	t := m.Twin(h)
	a := m.Origin(h)
	b := m.Origin(t)

	if m.Degree(a) <= 3 || m.Degree(b) <= 3 {
		return false
	}

	hNext, hPrev := m.Next(h), m.Prev(h) // b->c, c->a
	tNext, tPrev := m.Next(t), m.Prev(t) // a->d, d->b
	c := m.Origin(hPrev)
	d := m.Origin(tPrev)

	if m.vertices[a].Halfedge == h {
		m.vertices[a].Halfedge = tNext
	}
	if m.vertices[b].Halfedge == t {
		m.vertices[b].Halfedge = hNext
	}

	hf := m.halfedges[h].Face
	tf := m.halfedges[t].Face

	// h becomes d->c inside (d->c, c->a, a->d)
	m.halfedges[h].Vertex = d
	m.halfedges[h].Next = hPrev
	m.halfedges[hPrev].Next = tNext
	m.halfedges[tNext].Next = h
	m.halfedges[tNext].Face = hf

	// t becomes c->d inside (c->d, d->b, b->c)
	m.halfedges[t].Vertex = c
	m.halfedges[t].Next = tPrev
	m.halfedges[tPrev].Next = hNext
	m.halfedges[hNext].Next = t
	m.halfedges[hNext].Face = tf

	m.faces[hf].Halfedge = h
	m.faces[tf].Halfedge = t

	return true
}

// SplitResult lists the records touched by Split.
// Bottom is the original edge, now running from Vertex to the origin of the split
// halfedge. Up runs from Vertex to its former destination. Left and Right join
// Vertex to the apexes of the two original faces.
type SplitResult struct {
	Vertex VertexID
	Bottom EdgeID
	Up     EdgeID
	Left   EdgeID
	Right  EdgeID
}

// Split inserts a vertex at the midpoint of the edge of h, splitting its two faces
// into four. It allocates one vertex, two faces, three edges and six halfedges.
//
//	      up                     up
//	     /  \                  / | \
//	 left -h- right   =>   left--v--right
//	     \  /                  \ | /
//	    bottom                bottom
func (m *Mesh) Split(h HalfedgeID) SplitResult {
	t := m.Twin(h)

	bottomVertex := m.Origin(h)
	upVertex := m.Origin(t)
	leftVertex := m.Apex(h)
	rightVertex := m.Apex(t)

	topLeft := m.Next(h)            // up->left
	bottomLeft := m.Next(topLeft)   // left->bottom
	bottomRight := m.Next(t)        // bottom->right
	topRight := m.Next(bottomRight) // right->up

	// kept for the lower half
	bottomLeftFace := m.FaceOf(h)
	bottomRightFace := m.FaceOf(t)
	bottomEdge := m.EdgeOf(h)

	mid := m.Position(bottomVertex).Add(m.Position(upVertex)).Mul(0.5)
	v := m.newVertex(mid)

	topLeftFace := m.newFace()
	topRightFace := m.newFace()

	upEdge, leftEdge, rightEdge := m.newEdge(), m.newEdge(), m.newEdge()
	upH, upT := m.newHalfedge(), m.newHalfedge()
	leftH, leftT := m.newHalfedge(), m.newHalfedge()
	rightH, rightT := m.newHalfedge(), m.newHalfedge()

	// t is reused as v->bottom, h as bottom->v.
	bottomH, bottomT := t, h

	if m.vertices[upVertex].Halfedge == t {
		m.vertices[upVertex].Halfedge = upT
	}
	m.vertices[v].Halfedge = upH

	link := func(x HalfedgeID, origin VertexID, twin HalfedgeID, next HalfedgeID, e EdgeID, f FaceID) {
		r := &m.halfedges[x]
		r.Vertex = origin
		r.Twin = twin
		r.Next = next
		r.Edge = e
		r.Face = f
	}

	link(leftH, v, leftT, bottomLeft, leftEdge, bottomLeftFace)
	link(bottomLeft, leftVertex, m.halfedges[bottomLeft].Twin, bottomT, m.halfedges[bottomLeft].Edge, bottomLeftFace)
	link(bottomT, bottomVertex, bottomH, leftH, bottomEdge, bottomLeftFace)

	link(leftT, leftVertex, leftH, upH, leftEdge, topLeftFace)
	link(upH, v, upT, topLeft, upEdge, topLeftFace)
	link(topLeft, upVertex, m.halfedges[topLeft].Twin, leftT, m.halfedges[topLeft].Edge, topLeftFace)

	link(rightH, v, rightT, topRight, rightEdge, topRightFace)
	link(topRight, rightVertex, m.halfedges[topRight].Twin, upT, m.halfedges[topRight].Edge, topRightFace)
	link(upT, upVertex, upH, rightH, upEdge, topRightFace)

	link(rightT, rightVertex, rightH, bottomH, rightEdge, bottomRightFace)
	link(bottomH, v, bottomT, bottomRight, bottomEdge, bottomRightFace)
	link(bottomRight, bottomVertex, m.halfedges[bottomRight].Twin, rightT, m.halfedges[bottomRight].Edge, bottomRightFace)

	m.faces[bottomLeftFace].Halfedge = bottomT
	m.faces[bottomRightFace].Halfedge = bottomH
	m.faces[topLeftFace].Halfedge = upH
	m.faces[topRightFace].Halfedge = upT

	m.edges[bottomEdge].Halfedge = bottomH
	m.edges[upEdge].Halfedge = upH
	m.edges[leftEdge].Halfedge = leftH
	m.edges[rightEdge].Halfedge = rightH

	return SplitResult{
		Vertex: v,
		Bottom: bottomEdge,
		Up:     upEdge,
		Left:   leftEdge,
		Right:  rightEdge,
	}
}

// Collapse merges the destination of h into its origin, which moves to the edge
// midpoint. The two faces of the edge disappear, and with them the edges b->c and
// d->b, whose outer faces are absorbed:
//
//	    c                 c
//	   / \                |
//	  a-h->b     =>       a
//	   \ t/               |
//	    d                 d
//
// It reports false, leaving the mesh untouched, when an endpoint or an apex has
// degree 3 or less. On success h and its twin are released.
func (m *Mesh) Collapse(h HalfedgeID) bool {
	t := m.Twin(h)
	a := m.Origin(h)
	b := m.Origin(t)
	c := m.Apex(h)
	d := m.Apex(t)

	if m.Degree(a) <= 3 || m.Degree(b) <= 3 || m.Degree(c) <= 3 || m.Degree(d) <= 3 {
		return false
	}

	hNext, hPrev := m.Next(h), m.Prev(h) // b->c, c->a
	tNext, tPrev := m.Next(t), m.Prev(t) // a->d, d->b
	bc, cb := hNext, m.Twin(hNext)
	db, bd := tPrev, m.Twin(tPrev)

	m.vertices[a].Pos = m.vertices[a].Pos.Add(m.vertices[b].Pos).Mul(0.5)
	if m.vertices[a].Halfedge == h {
		m.vertices[a].Halfedge = tNext
	}

	// every halfedge leaving b now leaves a
	x := t
	for {
		m.halfedges[x].Vertex = a
		x = m.halfedges[m.halfedges[x].Twin].Next
		if x == t {
			break
		}
	}

	if m.vertices[c].Halfedge == cb {
		m.vertices[c].Halfedge = hPrev
	}
	if m.vertices[d].Halfedge == db {
		m.vertices[d].Halfedge = m.Twin(tNext)
	}

	outerFace1 := m.halfedges[cb].Face
	outerFace2 := m.halfedges[bd].Face

	// face of h takes over (c->a, a->x, x->c)
	face1 := m.halfedges[h].Face
	a1 := hPrev
	a2 := m.halfedges[cb].Next
	a3 := m.halfedges[a2].Next
	m.halfedges[a1].Next = a2
	m.halfedges[a2].Next = a3
	m.halfedges[a3].Next = a1
	m.halfedges[a1].Face = face1
	m.halfedges[a2].Face = face1
	m.halfedges[a3].Face = face1
	m.faces[face1].Halfedge = a1

	// face of t takes over (a->d, d->y, y->a)
	face2 := m.halfedges[t].Face
	b1 := tNext
	b2 := m.halfedges[bd].Next
	b3 := m.halfedges[b2].Next
	m.halfedges[b1].Next = b2
	m.halfedges[b2].Next = b3
	m.halfedges[b3].Next = b1
	m.halfedges[b1].Face = face2
	m.halfedges[b2].Face = face2
	m.halfedges[b3].Face = face2
	m.faces[face2].Halfedge = b1

	m.releaseFace(outerFace1)
	m.releaseFace(outerFace2)
	m.releaseVertex(b)
	m.releaseEdge(m.halfedges[bc].Edge)
	m.releaseEdge(m.halfedges[db].Edge)
	m.releaseEdge(m.halfedges[h].Edge)
	for _, dead := range [...]HalfedgeID{bc, cb, db, bd, h, t} {
		m.releaseHalfedge(dead)
	}

	return true
}

// CanCollapse reports whether Collapse accepts h and leaves a valid closed mesh:
// the endpoints may share no neighbor except the two apexes, and both endpoints and
// both apexes must have a degree above 3.
func (m *Mesh) CanCollapse(h HalfedgeID) bool {
	t := m.Twin(h)
	c := m.Apex(h)
	d := m.Apex(t)
	if c == d {
		return false
	}
	if m.Degree(m.Origin(h)) <= 3 || m.Degree(m.Origin(t)) <= 3 {
		return false
	}

	ring := make(map[VertexID]struct{}, 8)
	for _, v := range m.Neighbors(m.Origin(h)) {
		ring[v] = struct{}{}
	}

	shared := 0
	for _, v := range m.Neighbors(m.Origin(t)) {
		if _, ok := ring[v]; !ok {
			continue
		}
		if v != c && v != d {
			return false
		}
		shared++
	}
	if shared != 2 {
		return false
	}

	return m.Degree(c) > 3 && m.Degree(d) > 3
}
