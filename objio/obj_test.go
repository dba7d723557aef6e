package objio

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

const tetrahedronOBJ = `# tetrahedron
o tet
v 1 1 1
v 1 -1 -1
v -1 1 -1
v -1 -1 1
vn 0 0 1
f 1 2 3
f 1 3 4
f 1 4 2
f 2 4 3
`

func TestRead(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		points    []mgl64.Vec3
		triangles [][3]int
	}{
		{
			name:  "plain",
			input: tetrahedronOBJ,
			points: []mgl64.Vec3{
				{1, 1, 1}, {1, -1, -1}, {-1, 1, -1}, {-1, -1, 1},
			},
			triangles: [][3]int{{0, 1, 2}, {0, 2, 3}, {0, 3, 1}, {1, 3, 2}},
		},
		{
			name:      "texture and normal references",
			input:     "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nf 1/1/1 2//1 3/1\n",
			points:    []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			triangles: [][3]int{{0, 1, 2}},
		},
		{
			name:      "negative indices",
			input:     "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n",
			points:    []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			triangles: [][3]int{{0, 1, 2}},
		},
		{
			name:      "quad is fan triangulated",
			input:     "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4 # quad\n",
			points:    []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
			triangles: [][3]int{{0, 1, 2}, {0, 2, 3}},
		},
		{
			name:      "extra whitespace and w coordinate",
			input:     "\n   v\t0.5  -2e-1 3 1.0\r\nv 0 0 0\nv 1 1 1\n\nf 1 2 3\n",
			points:    []mgl64.Vec3{{0.5, -0.2, 3}, {0, 0, 0}, {1, 1, 1}},
			triangles: [][3]int{{0, 1, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, triangles, err := Read(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(points, tt.points) {
				t.Errorf("points = %v, want %v", points, tt.points)
			}
			if !reflect.DeepEqual(triangles, tt.triangles) {
				t.Errorf("triangles = %v, want %v", triangles, tt.triangles)
			}
		})
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"bad coordinate", "v 0 zero 0\n", ErrSyntax},
		{"missing coordinate", "v 0 0\n", ErrSyntax},
		{"bad corner", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 b 3\n", ErrSyntax},
		{"index past the end", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", ErrBadIndex},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", ErrBadIndex},
		{"negative index too far", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -4 1 2\n", ErrBadIndex},
		{"forward reference", "v 0 0 0\nf 1 2 3\nv 1 0 0\nv 0 1 0\n", ErrBadIndex},
		{"two corners", "v 0 0 0\nv 1 0 0\nf 1 2\n", ErrShortFace},
		{"no faces", "v 0 0 0\n", ErrNoGeometry},
		{"empty", "", ErrNoGeometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Read(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("Read() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	points := []mgl64.Vec3{{0, 0, 0}, {1.5, -2, 0}, {0, 0.25, 1e-7}}
	triangles := [][3]int{{0, 1, 2}}

	if err := Write(&buf, points, triangles); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	want := "v 0 0 0\nv 1.5 -2 0\nv 0 0.25 1e-07\nf 1 2 3\n"
	if got := buf.String(); got != want {
		t.Errorf("Write() =\n%s\nwant\n%s", got, want)
	}
}

func TestFileRoundTrip(t *testing.T) {
	points, triangles, err := Read(strings.NewReader(tetrahedronOBJ))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	pathname := filepath.Join(t.TempDir(), "tet.obj")
	if err := WriteFile(pathname, points, triangles); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	gotPoints, gotTriangles, err := ReadFile(pathname)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !reflect.DeepEqual(gotPoints, points) || !reflect.DeepEqual(gotTriangles, triangles) {
		t.Errorf("round trip changed the mesh: %v %v", gotPoints, gotTriangles)
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "missing.obj"))
	if err == nil {
		t.Errorf("ReadFile() of a missing file succeeded")
	}
}
