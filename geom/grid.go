package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CellKey is the integer coordinate of a grid cell.
type CellKey struct {
	X, Y, Z int
}

type cell struct {
	indices []int
}

// SpatialGrid is a uniform hashed grid of point indices. Distinct cells may share
// a bucket, so queries return candidates that callers filter by distance.
type SpatialGrid struct {
	cellSize float64
	cells    []cell
	cellMask int
}

// NewSpatialGrid creates a grid with the given cell size and at least numCells buckets.
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]cell, numCells)
	for i := range cells {
		cells[i].indices = make([]int, 0, 4)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	n++
	return n
}

// Insert adds index to the cell containing p.
func (sg *SpatialGrid) Insert(index int, p mgl64.Vec3) {
	idx := sg.hashCell(sg.worldToCell(p))
	sg.cells[idx].indices = append(sg.cells[idx].indices, index)
}

// Near calls fn for every index stored in a cell overlapping the cube of half side
// radius around p. An index may be reported more than once.
func (sg *SpatialGrid) Near(p mgl64.Vec3, radius float64, fn func(index int)) {
	r := mgl64.Vec3{radius, radius, radius}
	minCell := sg.worldToCell(p.Sub(r))
	maxCell := sg.worldToCell(p.Add(r))

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				for _, idx := range sg.cells[sg.hashCell(CellKey{x, y, z})].indices {
					fn(idx)
				}
			}
		}
	}
}

func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
