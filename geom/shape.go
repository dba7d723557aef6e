package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Solid is a closed triangle mesh in face–vertex form. Triangles are counter-clockwise
// seen from outside.
type Solid struct {
	Points    []mgl64.Vec3
	Triangles [][3]int
}

// Tetrahedron returns the regular tetrahedron inscribed in the cube [-1,1]³.
// Every vertex has degree 3.
func Tetrahedron() Solid {
	return Solid{
		Points: []mgl64.Vec3{
			{1, 1, 1},
			{1, -1, -1},
			{-1, 1, -1},
			{-1, -1, 1},
		},
		Triangles: [][3]int{
			{0, 1, 2},
			{0, 2, 3},
			{0, 3, 1},
			{1, 3, 2},
		},
	}
}

// Octahedron returns the unit octahedron. Every vertex has degree 4.
func Octahedron() Solid {
	return Solid{
		Points: []mgl64.Vec3{
			{1, 0, 0},
			{-1, 0, 0},
			{0, 1, 0},
			{0, -1, 0},
			{0, 0, 1},
			{0, 0, -1},
		},
		Triangles: [][3]int{
			{0, 2, 4},
			{2, 1, 4},
			{1, 3, 4},
			{3, 0, 4},
			{2, 0, 5},
			{1, 2, 5},
			{3, 1, 5},
			{0, 3, 5},
		},
	}
}

// Icosahedron returns the regular icosahedron with vertices (±1, ±φ, 0) and their
// cyclic permutations. Every vertex has degree 5.
func Icosahedron() Solid {
	phi := (1 + math.Sqrt(5)) / 2
	return Solid{
		Points: []mgl64.Vec3{
			{-1, phi, 0},
			{1, phi, 0},
			{-1, -phi, 0},
			{1, -phi, 0},
			{0, -1, phi},
			{0, 1, phi},
			{0, -1, -phi},
			{0, 1, -phi},
			{phi, 0, -1},
			{phi, 0, 1},
			{-phi, 0, -1},
			{-phi, 0, 1},
		},
		Triangles: [][3]int{
			{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
			{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
			{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
			{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
		},
	}
}

// Box returns a box centered on the origin, each side split into two triangles.
// Corner i sits at (±hx, ±hy, ±hz) with bit 0, 1, 2 of i selecting +x, +y, +z.
func Box(halfExtents mgl64.Vec3) Solid {
	points := make([]mgl64.Vec3, 8)
	for i := range points {
		p := halfExtents.Mul(-1)
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				p[axis] = halfExtents[axis]
			}
		}
		points[i] = p
	}

	quads := [6][4]int{
		{1, 3, 7, 5}, // +X
		{0, 4, 6, 2}, // -X
		{2, 6, 7, 3}, // +Y
		{0, 1, 5, 4}, // -Y
		{4, 5, 7, 6}, // +Z
		{0, 2, 3, 1}, // -Z
	}

	triangles := make([][3]int, 0, 12)
	for _, q := range quads {
		triangles = append(triangles, [3]int{q[0], q[1], q[2]}, [3]int{q[0], q[2], q[3]})
	}

	return Solid{Points: points, Triangles: triangles}
}

// Torus returns a torus around the z axis with the given major and minor radii,
// sampled with rings × sides vertices. Every vertex has degree 6.
// rings and sides are raised to 3 when smaller.
func Torus(major, minor float64, rings, sides int) Solid {
	rings = max(rings, 3)
	sides = max(sides, 3)

	points := make([]mgl64.Vec3, 0, rings*sides)
	for i := 0; i < rings; i++ {
		u := 2 * math.Pi * float64(i) / float64(rings)
		for j := 0; j < sides; j++ {
			v := 2 * math.Pi * float64(j) / float64(sides)
			r := major + minor*math.Cos(v)
			points = append(points, mgl64.Vec3{r * math.Cos(u), r * math.Sin(u), minor * math.Sin(v)})
		}
	}

	index := func(i, j int) int {
		return (i%rings)*sides + j%sides
	}

	triangles := make([][3]int, 0, 2*rings*sides)
	for i := 0; i < rings; i++ {
		for j := 0; j < sides; j++ {
			a := index(i, j)
			b := index(i+1, j)
			c := index(i+1, j+1)
			d := index(i, j+1)
			triangles = append(triangles, [3]int{a, b, c}, [3]int{a, c, d})
		}
	}

	return Solid{Points: points, Triangles: triangles}
}
