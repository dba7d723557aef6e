// Package halfedge stores a closed triangle mesh as a halfedge topology graph.
//
// Every record kind (vertex, edge, face, halfedge) lives in its own arena and is
// addressed by an integer ID. Cross references between records are IDs into those
// arenas. Released records are tombstoned and their IDs are never handed out again,
// so touching a record after an edge collapse released it panics instead of
// silently reading a recycled slot.
//
// Topology is only mutated by the local operators Flip, Split and Collapse.
// A Mesh is not safe for concurrent use.
package halfedge

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

type VertexID int32
type EdgeID int32
type FaceID int32
type HalfedgeID int32

const (
	NoVertex   VertexID   = -1
	NoEdge     EdgeID     = -1
	NoFace     FaceID     = -1
	NoHalfedge HalfedgeID = -1
)

var (
	ErrIndexOutOfRange    = errors.New("triangle index out of range")
	ErrDegenerateTriangle = errors.New("triangle references the same vertex twice")
	ErrNonManifoldEdge    = errors.New("directed edge shared by two triangles")
	ErrBoundary           = errors.New("mesh is not closed")
	ErrCorrupt            = errors.New("mesh topology is corrupt")
)

// Vertex is a mesh point and one outgoing halfedge of its one-ring.
type Vertex struct {
	Pos      mgl64.Vec3
	Halfedge HalfedgeID
	released bool
}

// Edge is an undirected edge, represented by one of its two halfedges.
type Edge struct {
	Halfedge HalfedgeID
	released bool
}

// Face is a triangle, represented by one of its three halfedges.
type Face struct {
	Halfedge HalfedgeID
	released bool
}

// Halfedge is one directed side of an edge, owned by one face.
type Halfedge struct {
	Twin     HalfedgeID
	Next     HalfedgeID // counter-clockwise around Face
	Vertex   VertexID   // origin
	Edge     EdgeID
	Face     FaceID
	released bool
}

// Mesh owns every record of the topology graph.
type Mesh struct {
	vertices  []Vertex
	edges     []Edge
	faces     []Face
	halfedges []Halfedge

	liveVertices  int
	liveEdges     int
	liveFaces     int
	liveHalfedges int
}

type directedPair struct {
	from, to int
}

// New builds the topology graph of a closed triangle mesh.
// Vertex i of the result corresponds to points[i]. Points not used by any triangle
// are released immediately.
func New(points []mgl64.Vec3, triangles [][3]int) (*Mesh, error) {
	m := &Mesh{
		vertices:  make([]Vertex, 0, len(points)),
		edges:     make([]Edge, 0, len(triangles)*3/2),
		faces:     make([]Face, 0, len(triangles)),
		halfedges: make([]Halfedge, 0, len(triangles)*3),
	}

	for _, p := range points {
		m.newVertex(p)
	}

	lookup := make(map[directedPair]HalfedgeID, len(triangles)*3)

	for ti, tri := range triangles {
		for k := 0; k < 3; k++ {
			if tri[k] < 0 || tri[k] >= len(points) {
				return nil, errors.Wrapf(ErrIndexOutOfRange, "triangle %d: index %d with %d points", ti, tri[k], len(points))
			}
		}
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[2] == tri[0] {
			return nil, errors.Wrapf(ErrDegenerateTriangle, "triangle %d: %v", ti, tri)
		}

		f := m.newFace()
		var hs [3]HalfedgeID
		for k := 0; k < 3; k++ {
			hs[k] = m.newHalfedge()
		}
		m.faces[f].Halfedge = hs[0]

		for k := 0; k < 3; k++ {
			from, to := tri[k], tri[(k+1)%3]
			pair := directedPair{from, to}
			if _, exists := lookup[pair]; exists {
				return nil, errors.Wrapf(ErrNonManifoldEdge, "triangle %d: edge %d->%d", ti, from, to)
			}
			lookup[pair] = hs[k]

			h := &m.halfedges[hs[k]]
			h.Next = hs[(k+1)%3]
			h.Vertex = VertexID(from)
			h.Face = f
			m.vertices[from].Halfedge = hs[k]

			if twin, ok := lookup[directedPair{to, from}]; ok {
				h.Twin = twin
				h.Edge = m.halfedges[twin].Edge
				m.halfedges[twin].Twin = hs[k]
			} else {
				e := m.newEdge()
				m.edges[e].Halfedge = hs[k]
				h.Edge = e
			}
		}
	}

	for i := range m.halfedges {
		if m.halfedges[i].Twin == NoHalfedge {
			h := &m.halfedges[i]
			return nil, errors.Wrapf(ErrBoundary, "edge %d->%d has a single face", h.Vertex, m.halfedges[h.Next].Vertex)
		}
	}

	for i := range m.vertices {
		if m.vertices[i].Halfedge == NoHalfedge {
			m.releaseVertex(VertexID(i))
		}
	}

	return m, nil
}

// ToVectors flattens the mesh into a point list and index triples.
// Points appear in the order their faces are first met while walking halfedges by ID.
func (m *Mesh) ToVectors() ([]mgl64.Vec3, [][3]int) {
	index := make(map[VertexID]int, m.liveVertices)
	seen := make(map[FaceID]bool, m.liveFaces)
	points := make([]mgl64.Vec3, 0, m.liveVertices)
	triangles := make([][3]int, 0, m.liveFaces)

	for i := range m.halfedges {
		h := &m.halfedges[i]
		if h.released || seen[h.Face] {
			continue
		}
		seen[h.Face] = true

		corners := [3]VertexID{h.Vertex, m.halfedges[h.Next].Vertex, m.halfedges[m.halfedges[h.Next].Next].Vertex}
		var tri [3]int
		for k, v := range corners {
			idx, ok := index[v]
			if !ok {
				idx = len(points)
				index[v] = idx
				points = append(points, m.vertices[v].Pos)
			}
			tri[k] = idx
		}
		triangles = append(triangles, tri)
	}

	return points, triangles
}

// Clone returns an independent copy of the mesh. IDs are preserved.
func (m *Mesh) Clone() *Mesh {
	c := *m
	c.vertices = append([]Vertex(nil), m.vertices...)
	c.edges = append([]Edge(nil), m.edges...)
	c.faces = append([]Face(nil), m.faces...)
	c.halfedges = append([]Halfedge(nil), m.halfedges...)
	return &c
}

func (m *Mesh) NumVertices() int  { return m.liveVertices }
func (m *Mesh) NumEdges() int     { return m.liveEdges }
func (m *Mesh) NumFaces() int     { return m.liveFaces }
func (m *Mesh) NumHalfedges() int { return m.liveHalfedges }

// Vertices returns the IDs of all live vertices in ascending order.
func (m *Mesh) Vertices() []VertexID {
	ids := make([]VertexID, 0, m.liveVertices)
	for i := range m.vertices {
		if !m.vertices[i].released {
			ids = append(ids, VertexID(i))
		}
	}
	return ids
}

// Edges returns the IDs of all live edges in ascending order.
func (m *Mesh) Edges() []EdgeID {
	ids := make([]EdgeID, 0, m.liveEdges)
	for i := range m.edges {
		if !m.edges[i].released {
			ids = append(ids, EdgeID(i))
		}
	}
	return ids
}

// Faces returns the IDs of all live faces in ascending order.
func (m *Mesh) Faces() []FaceID {
	ids := make([]FaceID, 0, m.liveFaces)
	for i := range m.faces {
		if !m.faces[i].released {
			ids = append(ids, FaceID(i))
		}
	}
	return ids
}

// Halfedges returns the IDs of all live halfedges in ascending order.
func (m *Mesh) Halfedges() []HalfedgeID {
	ids := make([]HalfedgeID, 0, m.liveHalfedges)
	for i := range m.halfedges {
		if !m.halfedges[i].released {
			ids = append(ids, HalfedgeID(i))
		}
	}
	return ids
}

func (m *Mesh) VertexAlive(v VertexID) bool {
	return v >= 0 && int(v) < len(m.vertices) && !m.vertices[v].released
}

func (m *Mesh) EdgeAlive(e EdgeID) bool {
	return e >= 0 && int(e) < len(m.edges) && !m.edges[e].released
}

func (m *Mesh) FaceAlive(f FaceID) bool {
	return f >= 0 && int(f) < len(m.faces) && !m.faces[f].released
}

func (m *Mesh) HalfedgeAlive(h HalfedgeID) bool {
	return h >= 0 && int(h) < len(m.halfedges) && !m.halfedges[h].released
}

func (m *Mesh) vertex(v VertexID) *Vertex {
	if !m.VertexAlive(v) {
		panic(fmt.Sprintf("halfedge: vertex %d is not live", v))
	}
	return &m.vertices[v]
}

func (m *Mesh) edge(e EdgeID) *Edge {
	if !m.EdgeAlive(e) {
		panic(fmt.Sprintf("halfedge: edge %d is not live", e))
	}
	return &m.edges[e]
}

func (m *Mesh) face(f FaceID) *Face {
	if !m.FaceAlive(f) {
		panic(fmt.Sprintf("halfedge: face %d is not live", f))
	}
	return &m.faces[f]
}

func (m *Mesh) he(h HalfedgeID) *Halfedge {
	if !m.HalfedgeAlive(h) {
		panic(fmt.Sprintf("halfedge: halfedge %d is not live", h))
	}
	return &m.halfedges[h]
}

func (m *Mesh) Twin(h HalfedgeID) HalfedgeID   { return m.he(h).Twin }
func (m *Mesh) Next(h HalfedgeID) HalfedgeID   { return m.he(h).Next }
func (m *Mesh) Origin(h HalfedgeID) VertexID   { return m.he(h).Vertex }
func (m *Mesh) EdgeOf(h HalfedgeID) EdgeID     { return m.he(h).Edge }
func (m *Mesh) FaceOf(h HalfedgeID) FaceID     { return m.he(h).Face }
func (m *Mesh) Prev(h HalfedgeID) HalfedgeID   { return m.Next(m.Next(h)) }
func (m *Mesh) Dest(h HalfedgeID) VertexID     { return m.Origin(m.Twin(h)) }
func (m *Mesh) Apex(h HalfedgeID) VertexID     { return m.Origin(m.Prev(h)) }
func (m *Mesh) Rotate(h HalfedgeID) HalfedgeID { return m.Next(m.Twin(h)) }

// VertexHalfedge returns the anchor halfedge leaving v.
func (m *Mesh) VertexHalfedge(v VertexID) HalfedgeID { return m.vertex(v).Halfedge }
func (m *Mesh) EdgeHalfedge(e EdgeID) HalfedgeID     { return m.edge(e).Halfedge }
func (m *Mesh) FaceHalfedge(f FaceID) HalfedgeID     { return m.face(f).Halfedge }

func (m *Mesh) Position(v VertexID) mgl64.Vec3 { return m.vertex(v).Pos }

func (m *Mesh) SetPosition(v VertexID, p mgl64.Vec3) { m.vertex(v).Pos = p }

// EdgeVertices returns both endpoints of e.
func (m *Mesh) EdgeVertices(e EdgeID) (VertexID, VertexID) {
	h := m.EdgeHalfedge(e)
	return m.Origin(h), m.Dest(h)
}

// FaceVertices returns the corners of f in counter-clockwise order.
func (m *Mesh) FaceVertices(f FaceID) [3]VertexID {
	h := m.FaceHalfedge(f)
	return [3]VertexID{m.Origin(h), m.Origin(m.Next(h)), m.Apex(h)}
}

// FacePositions returns the corner positions of f in counter-clockwise order.
func (m *Mesh) FacePositions(f FaceID) [3]mgl64.Vec3 {
	vs := m.FaceVertices(f)
	return [3]mgl64.Vec3{m.Position(vs[0]), m.Position(vs[1]), m.Position(vs[2])}
}

// Outgoing returns the halfedges leaving v, starting at its anchor.
func (m *Mesh) Outgoing(v VertexID) []HalfedgeID {
	start := m.VertexHalfedge(v)
	out := make([]HalfedgeID, 0, 6)
	h := start
	for {
		out = append(out, h)
		h = m.Rotate(h)
		if h == start {
			break
		}
	}
	return out
}

// Neighbors returns the one-ring vertices of v.
func (m *Mesh) Neighbors(v VertexID) []VertexID {
	out := m.Outgoing(v)
	ns := make([]VertexID, len(out))
	for i, h := range out {
		ns[i] = m.Dest(h)
	}
	return ns
}

func (m *Mesh) newVertex(p mgl64.Vec3) VertexID {
	m.vertices = append(m.vertices, Vertex{Pos: p, Halfedge: NoHalfedge})
	m.liveVertices++
	return VertexID(len(m.vertices) - 1)
}

func (m *Mesh) newEdge() EdgeID {
	m.edges = append(m.edges, Edge{Halfedge: NoHalfedge})
	m.liveEdges++
	return EdgeID(len(m.edges) - 1)
}

func (m *Mesh) newFace() FaceID {
	m.faces = append(m.faces, Face{Halfedge: NoHalfedge})
	m.liveFaces++
	return FaceID(len(m.faces) - 1)
}

func (m *Mesh) newHalfedge() HalfedgeID {
	m.halfedges = append(m.halfedges, Halfedge{
		Twin:   NoHalfedge,
		Next:   NoHalfedge,
		Vertex: NoVertex,
		Edge:   NoEdge,
		Face:   NoFace,
	})
	m.liveHalfedges++
	return HalfedgeID(len(m.halfedges) - 1)
}

func (m *Mesh) releaseVertex(v VertexID) {
	m.vertices[v] = Vertex{Halfedge: NoHalfedge, released: true}
	m.liveVertices--
}

func (m *Mesh) releaseEdge(e EdgeID) {
	m.edges[e] = Edge{Halfedge: NoHalfedge, released: true}
	m.liveEdges--
}

func (m *Mesh) releaseFace(f FaceID) {
	m.faces[f] = Face{Halfedge: NoHalfedge, released: true}
	m.liveFaces--
}

func (m *Mesh) releaseHalfedge(h HalfedgeID) {
	m.halfedges[h] = Halfedge{
		Twin:     NoHalfedge,
		Next:     NoHalfedge,
		Vertex:   NoVertex,
		Edge:     NoEdge,
		Face:     NoFace,
		released: true,
	}
	m.liveHalfedges--
}
