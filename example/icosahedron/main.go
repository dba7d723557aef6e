package main

import (
	"fmt"
	"os"

	"github.com/akmonengine/weave"
	"github.com/akmonengine/weave/geom"
	"github.com/akmonengine/weave/objio"
)

// SetupSession creates a session on the regular icosahedron
func SetupSession() *weave.Session {
	ico := geom.Icosahedron()
	s, err := weave.NewSession(ico.Points, ico.Triangles)
	if err != nil {
		panic(err)
	}
	s.Name = "icosahedron"
	s.Validate = true
	return s
}

func printStats(label string, s *weave.Session) {
	st := s.Stats()
	fmt.Printf("%-12s V=%-5d E=%-5d F=%-5d mean edge=%.4f\n", label, st.Vertices, st.Edges, st.Faces, st.MeanEdgeLength)
}

func main() {
	s := SetupSession()
	printStats("input", s)

	if err := s.Subdivide(2); err != nil {
		panic(err)
	}
	printStats("subdivided", s)

	stats, err := s.Simplify(200)
	if err != nil {
		panic(err)
	}
	printStats("simplified", s)
	fmt.Printf("   collapses: %d, max error: %g\n", stats.Collapses, stats.MaxError)

	if _, err := s.Remesh(5, 0.5); err != nil {
		panic(err)
	}
	printStats("remeshed", s)

	points, triangles := s.Export()
	if err := objio.Write(os.Stdout, points, triangles); err != nil {
		panic(err)
	}
}
