package topology

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CubeGrid is the per-axis edge resolution of a subdivided box.
type CubeGrid struct {
	X, Y, Z int
}

// UniformGrid returns a grid with the same resolution on every axis.
func UniformGrid(size int) CubeGrid {
	return CubeGrid{X: size, Y: size, Z: size}
}

// Valid reports whether every axis has at least one cell.
func (g CubeGrid) Valid() bool {
	return g.X >= 1 && g.Y >= 1 && g.Z >= 1
}

// Ring is the number of vertices around one horizontal layer.
func (g CubeGrid) Ring() int {
	return (g.X + g.Z) * 2
}

// VertexCount returns corners + edges + face interiors.
func (g CubeGrid) VertexCount() int {
	const corners = 8
	edges := (g.X + g.Y + g.Z - 3) * 4
	faces := ((g.X-1)*(g.Y-1) + (g.X-1)*(g.Z-1) + (g.Y-1)*(g.Z-1)) * 2
	return corners + edges + faces
}

// IndexCounts returns the index counts of the Z-, X- and Y-facing groups.
func (g CubeGrid) IndexCounts() (z, x, y int) {
	return g.X * g.Y * 12, g.Y * g.Z * 12, g.X * g.Z * 12
}

// Lattice is the integer grid coordinate of a cube vertex.
type Lattice [3]int32

// LayoutCube returns the lattice coordinate of every vertex in generation
// order: one ring per y layer, then the top face interior, then the bottom
// face interior, both row by row along z.
func LayoutCube(g CubeGrid) []Lattice {
	out := make([]Lattice, g.VertexCount())
	v := 0
	set := func(x, y, z int) {
		out[v] = Lattice{int32(x), int32(y), int32(z)}
		v++
	}
	for y := 0; y <= g.Y; y++ {
		for x := 0; x <= g.X; x++ {
			set(x, y, 0)
		}
		for z := 1; z <= g.Z; z++ {
			set(g.X, y, z)
		}
		for x := g.X - 1; x >= 0; x-- {
			set(x, y, g.Z)
		}
		for z := g.Z - 1; z > 0; z-- {
			set(0, y, z)
		}
	}
	for z := 1; z < g.Z; z++ {
		for x := 1; x < g.X; x++ {
			set(x, g.Y, z)
		}
	}
	for z := 1; z < g.Z; z++ {
		for x := 1; x < g.X; x++ {
			set(x, 0, z)
		}
	}
	mustFill("cube layout", v, len(out))
	return out
}

// SquarePoint maps a lattice point of the grid onto the unit sphere with the
// analytic cube-to-sphere mapping, which keeps cell areas closer to uniform
// than a plain normalize.
func SquarePoint(g CubeGrid, l Lattice) mgl32.Vec3 {
	v := mgl32.Vec3{
		float32(l[0])*2/float32(g.X) - 1,
		float32(l[1])*2/float32(g.Y) - 1,
		float32(l[2])*2/float32(g.Z) - 1,
	}
	x2, y2, z2 := v.X()*v.X(), v.Y()*v.Y(), v.Z()*v.Z()
	return mgl32.Vec3{
		v.X() * sqrt32(1-y2/2-z2/2+y2*z2/3),
		v.Y() * sqrt32(1-x2/2-z2/2+x2*z2/3),
		v.Z() * sqrt32(1-x2/2-y2/2+x2*y2/3),
	}
}

// RoundedPoint places a lattice point on a box with rounded edges: the
// point is clamped into the inner box shrunk by roundness on every side and
// pushed back out along the overflow direction by roundness.
func RoundedPoint(g CubeGrid, roundness int, l Lattice) (pos, normal mgl32.Vec3) {
	p := mgl32.Vec3{float32(l[0]), float32(l[1]), float32(l[2])}
	size := [3]int{g.X, g.Y, g.Z}
	r := float32(roundness)
	inner := p
	for a := 0; a < 3; a++ {
		if int(l[a]) < roundness {
			inner[a] = r
		} else if int(l[a]) > size[a]-roundness {
			inner[a] = float32(size[a] - roundness)
		}
	}
	normal = p.Sub(inner).Normalize()
	return inner.Add(normal.Mul(r)), normal
}

func sqrt32(f float32) float32 {
	if f <= 0 {
		return 0
	}
	return float32(math.Sqrt(float64(f)))
}

// SetQuad writes one quad as two triangles (v00, v01, v10) and
// (v10, v01, v11) at offset i and returns the next offset.
func SetQuad(tris []uint32, i int, v00, v10, v01, v11 int) int {
	tris[i] = uint32(v00)
	tris[i+1] = uint32(v01)
	tris[i+2] = uint32(v10)
	tris[i+3] = uint32(v10)
	tris[i+4] = uint32(v01)
	tris[i+5] = uint32(v11)
	return i + 6
}

// TriangulateCube builds the three index groups of a cube grid: faces
// looking along Z, along X, and the Y caps.
func TriangulateCube(g CubeGrid) (trisZ, trisX, trisY []uint32) {
	nz, nx, ny := g.IndexCounts()
	trisZ = make([]uint32, nz)
	trisX = make([]uint32, nx)
	trisY = make([]uint32, ny)

	ring := g.Ring()
	tZ, tX, v := 0, 0, 0
	for y := 0; y < g.Y; y++ {
		for q := 0; q < g.X; q++ {
			tZ = SetQuad(trisZ, tZ, v, v+1, v+ring, v+ring+1)
			v++
		}
		for q := 0; q < g.Z; q++ {
			tX = SetQuad(trisX, tX, v, v+1, v+ring, v+ring+1)
			v++
		}
		for q := 0; q < g.X; q++ {
			tZ = SetQuad(trisZ, tZ, v, v+1, v+ring, v+ring+1)
			v++
		}
		for q := 0; q < g.Z-1; q++ {
			tX = SetQuad(trisX, tX, v, v+1, v+ring, v+ring+1)
			v++
		}
		tX = SetQuad(trisX, tX, v, v-ring+1, v+ring, v+1)
		v++
	}

	tY := 0
	if g.X >= 2 && g.Z >= 2 {
		tY = CreateTopFace(g, trisY, tY)
		tY = CreateBottomFace(g, trisY, tY)
	} else {
		tY = createTopFaceLattice(g, trisY, tY)
		tY = createBottomFaceLattice(g, trisY, tY)
	}

	mustFill("cube z faces", tZ, nz)
	mustFill("cube x faces", tX, nx)
	mustFill("cube y faces", tY, ny)
	return trisZ, trisX, trisY
}
