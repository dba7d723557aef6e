package geom

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Weld merges points lying within tolerance of an earlier kept point and rewrites
// the triangles to use the kept indices. Triangles left with a repeated corner are
// dropped. It returns the kept points, the rewritten triangles and the number of
// points merged away. A tolerance of zero merges exact duplicates only.
//
// Welding is greedy in input order: a point joins the first kept point in range,
// so chains of near points are not merged transitively.
func Weld(points []mgl64.Vec3, triangles [][3]int, tolerance float64) ([]mgl64.Vec3, [][3]int, int) {
	cellSize := tolerance
	if cellSize <= 0 {
		cellSize = 1
	}
	grid := NewSpatialGrid(cellSize, len(points))

	remap := make([]int, len(points))
	kept := make([]mgl64.Vec3, 0, len(points))

	for i, p := range points {
		match := -1
		grid.Near(p, tolerance, func(slot int) {
			if match != -1 && slot >= match {
				return
			}
			if kept[slot].Sub(p).Len() <= tolerance {
				match = slot
			}
		})

		if match == -1 {
			match = len(kept)
			kept = append(kept, p)
			grid.Insert(match, p)
		}
		remap[i] = match
	}

	welded := make([][3]int, 0, len(triangles))
	for _, tri := range triangles {
		var t [3]int
		for k, idx := range tri {
			if idx < 0 || idx >= len(points) {
				t[k] = idx
				continue
			}
			t[k] = remap[idx]
		}
		if t[0] == t[1] || t[1] == t[2] || t[2] == t[0] {
			continue
		}
		welded = append(welded, t)
	}

	return kept, welded, len(points) - len(kept)
}
