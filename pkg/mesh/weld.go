package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrOpenEdge       = errors.New("edge is not shared by exactly two triangles")
	ErrFlippedWinding = errors.New("directed edge used twice")
)

type cell [3]int64

// Weld maps every vertex to the id of the first vertex within eps of it.
// Seams and duplicated poles collapse onto a single id. It returns the id
// per vertex and the number of distinct ids.
func Weld(positions []mgl32.Vec3, eps float32) ([]int, int) {
	if eps <= 0 {
		eps = 1e-5
	}
	inv := 1 / float64(eps)
	grid := make(map[cell][]int, len(positions))
	ids := make([]int, len(positions))
	distinct := 0

	keyOf := func(p mgl32.Vec3) cell {
		return cell{
			int64(math.Floor(float64(p[0]) * inv)),
			int64(math.Floor(float64(p[1]) * inv)),
			int64(math.Floor(float64(p[2]) * inv)),
		}
	}

	for i, p := range positions {
		k := keyOf(p)
		found := -1
	search:
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for dz := int64(-1); dz <= 1; dz++ {
					for _, j := range grid[cell{k[0] + dx, k[1] + dy, k[2] + dz}] {
						if positions[j].Sub(p).Len() <= eps {
							found = ids[j]
							break search
						}
					}
				}
			}
		}
		if found < 0 {
			found = distinct
			distinct++
		}
		ids[i] = found
		grid[k] = append(grid[k], i)
	}
	return ids, distinct
}

type edge struct{ a, b int }

// CheckClosed welds coincident vertices and verifies that every undirected
// edge of the triangle list is used by exactly two triangles, and that no
// directed edge appears twice (consistent winding). Degenerate triangles
// (two corners welded together) are reported as errors.
func CheckClosed(positions []mgl32.Vec3, indices []uint32, eps float32) error {
	if len(indices)%3 != 0 {
		return ErrNotTriangles
	}
	ids, _ := Weld(positions, eps)
	directed := make(map[edge]int, len(indices))
	undirected := make(map[edge]int, len(indices))
	for t := 0; t < len(indices); t += 3 {
		tri := [3]int{ids[indices[t]], ids[indices[t+1]], ids[indices[t+2]]}
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[0] == tri[2] {
			return fmt.Errorf("triangle %d (%d,%d,%d) is degenerate after welding", t/3,
				indices[t], indices[t+1], indices[t+2])
		}
		for e := 0; e < 3; e++ {
			a, b := tri[e], tri[(e+1)%3]
			directed[edge{a, b}]++
			if a > b {
				a, b = b, a
			}
			undirected[edge{a, b}]++
		}
	}
	for e, n := range undirected {
		if n != 2 {
			return fmt.Errorf("edge %d-%d used %d times: %w", e.a, e.b, n, ErrOpenEdge)
		}
	}
	for e, n := range directed {
		if n != 1 {
			return fmt.Errorf("edge %d->%d used %d times: %w", e.a, e.b, n, ErrFlippedWinding)
		}
	}
	return nil
}

// EulerCharacteristic returns V - E + F of the welded surface. A closed
// genus-0 mesh yields 2.
func EulerCharacteristic(positions []mgl32.Vec3, indices []uint32, eps float32) int {
	ids, v := Weld(positions, eps)
	edges := make(map[edge]struct{}, len(indices))
	for t := 0; t+2 < len(indices); t += 3 {
		for e := 0; e < 3; e++ {
			a, b := ids[indices[t+e]], ids[indices[t+(e+1)%3]]
			if a > b {
				a, b = b, a
			}
			edges[edge{a, b}] = struct{}{}
		}
	}
	return v - len(edges) + len(indices)/3
}
