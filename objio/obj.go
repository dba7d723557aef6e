// Package objio reads and writes Wavefront OBJ triangle meshes.
//
// Only vertex positions ("v") and faces ("f") are interpreted. Faces with more
// than three corners are fan-triangulated; texture and normal references in a
// corner ("1/2/3", "1//3") are ignored, and negative indices count back from the
// last vertex read. Every other record is skipped.
package objio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

var (
	ErrSyntax     = errors.New("objio: syntax error")
	ErrBadIndex   = errors.New("objio: face index out of range")
	ErrShortFace  = errors.New("objio: face has fewer than three corners")
	ErrNoGeometry = errors.New("objio: no faces")
)

// Read parses an OBJ stream into points and 0-based index triples.
func Read(r io.Reader) ([]mgl64.Vec3, [][3]int, error) {
	var points []mgl64.Vec3
	var triangles [][3]int

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, nil, errors.Wrapf(ErrSyntax, "line %d: vertex needs 3 coordinates", line)
			}
			var p mgl64.Vec3
			for k := 0; k < 3; k++ {
				f, err := strconv.ParseFloat(fields[k+1], 64)
				if err != nil {
					return nil, nil, errors.Wrapf(ErrSyntax, "line %d: %v", line, err)
				}
				p[k] = f
			}
			points = append(points, p)

		case "f":
			corners := fields[1:]
			if len(corners) < 3 {
				return nil, nil, errors.Wrapf(ErrShortFace, "line %d", line)
			}
			idx := make([]int, len(corners))
			for k, c := range corners {
				i, err := parseCorner(c, len(points))
				if err != nil {
					return nil, nil, errors.Wrapf(err, "line %d", line)
				}
				idx[k] = i
			}
			for k := 1; k+1 < len(idx); k++ {
				triangles = append(triangles, [3]int{idx[0], idx[k], idx[k+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "objio: read")
	}
	if len(triangles) == 0 {
		return nil, nil, ErrNoGeometry
	}
	return points, triangles, nil
}

// parseCorner returns the 0-based vertex index of a face corner such as "7",
// "7/2" or "-1//4".
func parseCorner(c string, numPoints int) (int, error) {
	if i := strings.IndexByte(c, '/'); i >= 0 {
		c = c[:i]
	}
	n, err := strconv.Atoi(c)
	if err != nil {
		return 0, errors.Wrapf(ErrSyntax, "corner %q", c)
	}
	switch {
	case n > 0 && n <= numPoints:
		return n - 1, nil
	case n < 0 && -n <= numPoints:
		return numPoints + n, nil
	}
	return 0, errors.Wrapf(ErrBadIndex, "index %d with %d vertices", n, numPoints)
}

// Write serializes points and 0-based index triples as OBJ.
func Write(w io.Writer, points []mgl64.Vec3, triangles [][3]int) error {
	bw := bufio.NewWriter(w)
	for _, p := range points {
		fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(p[0]), formatFloat(p[1]), formatFloat(p[2]))
	}
	for _, t := range triangles {
		fmt.Fprintf(bw, "f %d %d %d\n", t[0]+1, t[1]+1, t[2]+1)
	}
	return errors.Wrap(bw.Flush(), "objio: write")
}

// ReadFile reads an OBJ file, resolving pathname against the working directory.
func ReadFile(pathname string) ([]mgl64.Vec3, [][3]int, error) {
	abs, err := filepath.Abs(pathname)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "objio: resolve %q", pathname)
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, nil, errors.Wrap(err, "objio: open")
	}
	defer f.Close()

	points, triangles, err := Read(f)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "objio: %s", abs)
	}
	return points, triangles, nil
}

// WriteFile writes an OBJ file, creating or truncating it.
func WriteFile(pathname string, points []mgl64.Vec3, triangles [][3]int) error {
	abs, err := filepath.Abs(pathname)
	if err != nil {
		return errors.Wrapf(err, "objio: resolve %q", pathname)
	}
	f, err := os.Create(abs)
	if err != nil {
		return errors.Wrap(err, "objio: create")
	}
	if err := Write(f, points, triangles); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "objio: close")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
