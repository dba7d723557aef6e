// Package weave runs mesh processing pipelines (Loop subdivision, QEM simplification
// and isotropic remeshing) over halfedge meshes.
package weave

import (
	"time"

	"github.com/akmonengine/weave/geom"
	"github.com/akmonengine/weave/halfedge"
	"github.com/akmonengine/weave/loop"
	"github.com/akmonengine/weave/qem"
	"github.com/akmonengine/weave/remesh"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

const DEFAULT_DAMPING = 0.5

var (
	ErrScript     = errors.New("weave: bad script")
	ErrValidation = errors.New("weave: validation failed")
)

// Session owns one mesh and applies processing stages to it.
type Session struct {
	// Name identifies the mesh in log lines
	Name string
	Mesh *halfedge.Mesh
	// Validate checks the topology after every stage
	Validate bool
}

// Stats describes the current state of a session's mesh.
type Stats struct {
	Vertices       int
	Edges          int
	Faces          int
	Bounds         geom.AABB
	MeanEdgeLength float64
}

// NewSession builds the mesh of a new session from points and index triples.
func NewSession(points []mgl64.Vec3, triangles [][3]int) (*Session, error) {
	m, err := halfedge.New(points, triangles)
	if err != nil {
		return nil, err
	}
	return &Session{Mesh: m}, nil
}

// Subdivide runs Loop subdivision.
func (s *Session) Subdivide(iterations int) error {
	return s.stage("subdivide", func() {
		loop.Subdivide(s.Mesh, iterations)
	})
}

// Simplify removes up to faceBudget faces by quadric error edge collapses.
func (s *Session) Simplify(faceBudget int) (qem.Stats, error) {
	var stats qem.Stats
	err := s.stage("simplify", func() {
		stats = qem.Simplify(s.Mesh, faceBudget)
		klog.V(2).Infof("%s: %d collapses, %d rejected, max error %g", s.name(), stats.Collapses, stats.Rejected, stats.MaxError)
	})
	return stats, err
}

// Remesh runs isotropic remeshing.
func (s *Session) Remesh(iterations int, damping float64) (remesh.Stats, error) {
	var stats remesh.Stats
	err := s.stage("remesh", func() {
		stats = remesh.Remesh(s.Mesh, iterations, damping)
		klog.V(2).Infof("%s: %d splits, %d flips", s.name(), stats.Splits, stats.Flips)
	})
	return stats, err
}

// Run parses script and applies its steps in order, stopping at the first error.
func (s *Session) Run(script string) error {
	parsed, err := ParseScript(script)
	if err != nil {
		return err
	}
	return s.Apply(parsed)
}

// Apply runs the steps of an already parsed script.
func (s *Session) Apply(script *Script) error {
	for _, step := range script.Steps {
		var err error
		switch {
		case step.Subdivide != nil:
			err = s.Subdivide(*step.Subdivide)
		case step.Simplify != nil:
			_, err = s.Simplify(*step.Simplify)
		case step.Remesh != nil:
			damping := DEFAULT_DAMPING
			if step.Remesh.Damping != nil {
				damping = *step.Remesh.Damping
			}
			_, err = s.Remesh(step.Remesh.Iterations, damping)
		case step.Validate:
			err = s.check("validate")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Export flattens the mesh back into points and index triples.
func (s *Session) Export() ([]mgl64.Vec3, [][3]int) {
	return s.Mesh.ToVectors()
}

func (s *Session) Stats() Stats {
	m := s.Mesh
	bounds := geom.EmptyAABB()
	for _, v := range m.Vertices() {
		bounds = bounds.Extend(m.Position(v))
	}
	return Stats{
		Vertices:       m.NumVertices(),
		Edges:          m.NumEdges(),
		Faces:          m.NumFaces(),
		Bounds:         bounds,
		MeanEdgeLength: remesh.MeanEdgeLength(m),
	}
}

func (s *Session) stage(name string, fn func()) error {
	start := time.Now()
	fn()
	klog.V(2).Infof("%s: %s took %v", s.name(), name, time.Since(start))

	if s.Validate {
		if err := s.check(name); err != nil {
			return err
		}
	}

	st := s.Stats()
	klog.V(1).Infof("%s: %s -> %d vertices, %d edges, %d faces, mean edge %g, diagonal %g",
		s.name(), name, st.Vertices, st.Edges, st.Faces, st.MeanEdgeLength, st.Bounds.Diagonal())
	return nil
}

func (s *Session) check(stage string) error {
	if err := s.Mesh.Validate(); err != nil {
		klog.Errorf("%s: %s: %v", s.name(), stage, err)
		return errors.Wrapf(ErrValidation, "%s after %s: %v", s.name(), stage, err)
	}
	return nil
}

func (s *Session) name() string {
	if s.Name == "" {
		return "mesh"
	}
	return s.Name
}
