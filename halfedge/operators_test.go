package halfedge

import (
	"reflect"
	"testing"

	"github.com/akmonengine/weave/geom"
	"github.com/go-gl/mathgl/mgl64"
)

func TestDegree(t *testing.T) {
	tests := []struct {
		name  string
		solid geom.Solid
		want  int
	}{
		{"tetrahedron", geom.Tetrahedron(), 3},
		{"octahedron", geom.Octahedron(), 4},
		{"icosahedron", geom.Icosahedron(), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustBuild(t, tt.solid)
			for _, v := range m.Vertices() {
				if got := m.Degree(v); got != tt.want {
					t.Errorf("Degree(%d) = %d, want %d", v, got, tt.want)
				}
				if got := len(m.Outgoing(v)); got != tt.want {
					t.Errorf("len(Outgoing(%d)) = %d, want %d", v, got, tt.want)
				}
			}
		})
	}
}

// =============================================================================
// Precondition failures
// =============================================================================

func TestTetrahedron_OperatorsRefuse(t *testing.T) {
	m := mustBuild(t, geom.Tetrahedron())
	before := m.Clone()

	for _, h := range m.Halfedges() {
		if m.Flip(h) {
			t.Errorf("Flip(%d) succeeded on a degree 3 vertex", h)
		}
		if m.CanCollapse(h) {
			t.Errorf("CanCollapse(%d) = true on a tetrahedron", h)
		}
		if m.Collapse(h) {
			t.Errorf("Collapse(%d) succeeded with degree 3 apexes", h)
		}
	}

	if !reflect.DeepEqual(m, before) {
		t.Errorf("refused operators modified the mesh")
	}
}

// =============================================================================
// Flip
// =============================================================================

func TestFlip(t *testing.T) {
	m := mustBuild(t, geom.Icosahedron())
	h := HalfedgeID(7)
	a, b := m.Origin(h), m.Dest(h)
	c, d := m.Apex(h), m.Apex(m.Twin(h))

	if !m.Flip(h) {
		t.Fatalf("Flip(%d) failed", h)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate() after Flip = %v", err)
	}

	if m.Origin(h) != d || m.Dest(h) != c {
		t.Errorf("flipped halfedge runs %d->%d, want %d->%d", m.Origin(h), m.Dest(h), d, c)
	}
	if m.NumFaces() != 20 || m.NumEdges() != 30 || m.NumVertices() != 12 {
		t.Errorf("Flip changed record counts")
	}

	wantDegree := map[VertexID]int{a: 4, b: 4, c: 6, d: 6}
	for v, want := range wantDegree {
		if got := m.Degree(v); got != want {
			t.Errorf("Degree(%d) = %d, want %d", v, got, want)
		}
	}
}

func TestFlip_TwiceRestoresAdjacency(t *testing.T) {
	tests := []struct {
		name  string
		solid geom.Solid
	}{
		{"octahedron", geom.Octahedron()},
		{"icosahedron", geom.Icosahedron()},
		{"torus", geom.Torus(2, 0.5, 6, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustBuild(t, tt.solid)
			want := faceSet(m)

			for _, h := range m.Halfedges() {
				if !m.Flip(h) {
					t.Fatalf("Flip(%d) failed", h)
				}
				if !m.Flip(h) {
					t.Fatalf("second Flip(%d) failed", h)
				}
				if err := m.Validate(); err != nil {
					t.Fatalf("Validate() after double Flip(%d) = %v", h, err)
				}
				if got := faceSet(m); !reflect.DeepEqual(got, want) {
					t.Fatalf("double Flip(%d) changed the faces", h)
				}
			}
		})
	}
}

// =============================================================================
// Split
// =============================================================================

func TestSplit(t *testing.T) {
	m := mustBuild(t, geom.Icosahedron())
	h := HalfedgeID(3)
	bottom, up := m.Origin(h), m.Dest(h)
	left, right := m.Apex(h), m.Apex(m.Twin(h))
	mid := m.Position(bottom).Add(m.Position(up)).Mul(0.5)

	r := m.Split(h)
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate() after Split = %v", err)
	}

	if m.NumVertices() != 13 || m.NumEdges() != 33 || m.NumFaces() != 22 || m.NumHalfedges() != 66 {
		t.Errorf("counts = %d/%d/%d/%d, want 13/33/22/66",
			m.NumVertices(), m.NumEdges(), m.NumFaces(), m.NumHalfedges())
	}
	if !m.Position(r.Vertex).ApproxEqual(mid) {
		t.Errorf("new vertex at %v, want %v", m.Position(r.Vertex), mid)
	}
	if got := m.Degree(r.Vertex); got != 4 {
		t.Errorf("Degree(new) = %d, want 4", got)
	}

	endpoints := []struct {
		name string
		edge EdgeID
		want VertexID
	}{
		{"bottom", r.Bottom, bottom},
		{"up", r.Up, up},
		{"left", r.Left, left},
		{"right", r.Right, right},
	}
	for _, ep := range endpoints {
		a, b := m.EdgeVertices(ep.edge)
		if !(a == r.Vertex && b == ep.want) && !(b == r.Vertex && a == ep.want) {
			t.Errorf("%s edge joins %d-%d, want %d-%d", ep.name, a, b, r.Vertex, ep.want)
		}
	}
	if r.Bottom != m.EdgeOf(h) {
		t.Errorf("bottom edge %d is not the original edge %d", r.Bottom, m.EdgeOf(h))
	}

	for v, want := range map[VertexID]int{bottom: 5, up: 5, left: 6, right: 6} {
		if got := m.Degree(v); got != want {
			t.Errorf("Degree(%d) = %d, want %d", v, got, want)
		}
	}
}

func TestSplit_Everywhere(t *testing.T) {
	m := mustBuild(t, geom.Tetrahedron())
	for _, e := range m.Edges() {
		m.Split(m.EdgeHalfedge(e))
		if err := m.Validate(); err != nil {
			t.Fatalf("Validate() after Split(edge %d) = %v", e, err)
		}
	}
	if m.NumVertices() != 10 || m.NumFaces() != 16 {
		t.Errorf("counts = %d vertices, %d faces, want 10, 16", m.NumVertices(), m.NumFaces())
	}
}

func TestSplitThenCollapse_RestoresFaceCount(t *testing.T) {
	for _, h := range []HalfedgeID{0, 11, 42} {
		m := mustBuild(t, geom.Icosahedron())
		r := m.Split(h)

		if !m.Collapse(m.EdgeHalfedge(r.Bottom)) {
			t.Fatalf("Collapse of the bottom edge after Split(%d) failed", h)
		}
		if err := m.Validate(); err != nil {
			t.Fatalf("Validate() = %v", err)
		}
		if m.NumVertices() != 12 || m.NumEdges() != 30 || m.NumFaces() != 20 {
			t.Errorf("Split(%d) then Collapse: counts = %d/%d/%d, want 12/30/20",
				h, m.NumVertices(), m.NumEdges(), m.NumFaces())
		}
		if !m.VertexAlive(r.Vertex) {
			t.Errorf("split vertex %d should survive the collapse", r.Vertex)
		}
	}
}

// =============================================================================
// Collapse
// =============================================================================

func TestCollapse(t *testing.T) {
	m := mustBuild(t, geom.Icosahedron())
	h := HalfedgeID(5)
	t0 := m.Twin(h)
	a, b := m.Origin(h), m.Dest(h)
	c, d := m.Apex(h), m.Apex(t0)
	mid := m.Position(a).Add(m.Position(b)).Mul(0.5)

	if !m.CanCollapse(h) {
		t.Fatalf("CanCollapse(%d) = false on an icosahedron", h)
	}
	if !m.Collapse(h) {
		t.Fatalf("Collapse(%d) failed", h)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate() after Collapse = %v", err)
	}

	if m.NumVertices() != 11 || m.NumEdges() != 27 || m.NumFaces() != 18 || m.NumHalfedges() != 54 {
		t.Errorf("counts = %d/%d/%d/%d, want 11/27/18/54",
			m.NumVertices(), m.NumEdges(), m.NumFaces(), m.NumHalfedges())
	}
	if m.HalfedgeAlive(h) || m.HalfedgeAlive(t0) {
		t.Errorf("collapsed halfedges are still live")
	}
	if m.VertexAlive(b) {
		t.Errorf("merged vertex %d is still live", b)
	}
	if !m.Position(a).ApproxEqual(mid) {
		t.Errorf("kept vertex at %v, want %v", m.Position(a), mid)
	}

	// a inherits b's ring: 5 + 5 - 2 shared - 2 for the removed edge
	for v, want := range map[VertexID]int{a: 6, c: 4, d: 4} {
		if got := m.Degree(v); got != want {
			t.Errorf("Degree(%d) = %d, want %d", v, got, want)
		}
	}
}

func TestCollapse_Sequence(t *testing.T) {
	m := mustBuild(t, geom.Torus(2, 0.5, 10, 8))
	collapses := 0
	for _, h := range m.Halfedges() {
		if !m.HalfedgeAlive(h) || !m.CanCollapse(h) {
			continue
		}
		faces := m.NumFaces()
		if !m.Collapse(h) {
			t.Fatalf("Collapse(%d) failed after CanCollapse", h)
		}
		if err := m.Validate(); err != nil {
			t.Fatalf("Validate() after collapse #%d = %v", collapses+1, err)
		}
		if m.NumFaces() != faces-2 {
			t.Fatalf("NumFaces() = %d, want %d", m.NumFaces(), faces-2)
		}
		collapses++
	}
	if collapses == 0 {
		t.Errorf("no edge of the torus could be collapsed")
	}
	if chi := m.NumVertices() - m.NumEdges() + m.NumFaces(); chi != 0 {
		t.Errorf("Euler characteristic = %d, want 0", chi)
	}
}

func TestCanCollapse(t *testing.T) {
	// triangular bipyramid: equator 0,1,2, poles 3 and 4
	bipyramid := geom.Solid{
		Points: []mgl64.Vec3{{1, 0, 0}, {-0.5, 0.87, 0}, {-0.5, -0.87, 0}, {0, 0, 1}, {0, 0, -1}},
		Triangles: [][3]int{
			{0, 1, 3}, {1, 2, 3}, {2, 0, 3},
			{1, 0, 4}, {2, 1, 4}, {0, 2, 4},
		},
	}

	tests := []struct {
		name  string
		solid geom.Solid
		from  VertexID
		to    VertexID
		want  bool
	}{
		{"octahedron", geom.Octahedron(), 0, 2, true},
		{"icosahedron", geom.Icosahedron(), 0, 11, true},
		{"tetrahedron", geom.Tetrahedron(), 0, 1, false},
		{"bipyramid equator shares a third neighbor", bipyramid, 0, 1, false},
		{"bipyramid pole of degree 3", bipyramid, 3, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustBuild(t, tt.solid)
			h := findHalfedge(t, m, tt.from, tt.to)
			if got := m.CanCollapse(h); got != tt.want {
				t.Errorf("CanCollapse(%d->%d) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
			if got := m.CanCollapse(m.Twin(h)); got != tt.want {
				t.Errorf("CanCollapse(%d->%d) = %v, want %v", tt.to, tt.from, got, tt.want)
			}
		})
	}
}

func TestCollapse_DegreeThreeEndpoint(t *testing.T) {
	m := mustBuild(t, geom.Octahedron())
	if !m.Flip(0) {
		t.Fatalf("Flip(0) failed on an octahedron")
	}

	refused := 0
	for _, h := range m.Halfedges() {
		low := m.Degree(m.Origin(h)) == 3 || m.Degree(m.Dest(h)) == 3
		if !low {
			continue
		}
		refused++

		if m.CanCollapse(h) {
			t.Errorf("CanCollapse(%d) = true with a degree 3 endpoint", h)
		}
		c := m.Clone()
		if c.Collapse(h) {
			t.Errorf("Collapse(%d) succeeded with a degree 3 endpoint", h)
		}
		if !reflect.DeepEqual(c, m) {
			t.Errorf("refused Collapse(%d) modified the mesh", h)
		}
	}
	if refused == 0 {
		t.Fatalf("no degree 3 vertex after the flip")
	}

	for _, h := range m.Halfedges() {
		if !m.CanCollapse(h) {
			continue
		}
		c := m.Clone()
		if !c.Collapse(h) {
			t.Fatalf("Collapse(%d) failed after CanCollapse", h)
		}
		if err := c.Validate(); err != nil {
			t.Errorf("Validate() after Collapse(%d) = %v", h, err)
		}
		if c.NumFaces() != 6 {
			t.Errorf("NumFaces() after Collapse(%d) = %d, want 6", h, c.NumFaces())
		}
	}
}

func findHalfedge(t *testing.T, m *Mesh, from, to VertexID) HalfedgeID {
	t.Helper()
	for _, h := range m.Outgoing(from) {
		if m.Dest(h) == to {
			return h
		}
	}
	t.Fatalf("no halfedge %d->%d", from, to)
	return NoHalfedge
}
