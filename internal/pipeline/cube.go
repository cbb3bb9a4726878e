package pipeline

import (
	"planetmesh/internal/topology"
	"planetmesh/pkg/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// cubeVertices allocates the per-vertex slices of a cube topology and lays
// out its lattice. Tangents stay nil: cube topologies have no analytic one.
func (b *builder) cubeVertices(g topology.CubeGrid) []topology.Lattice {
	var layout []topology.Lattice
	b.step("layout", func() { layout = topology.LayoutCube(g) })

	n := len(layout)
	d := b.data
	d.Positions = make([]mgl32.Vec3, n)
	d.Normals = make([]mgl32.Vec3, n)
	d.UVs = make([]mgl32.Vec2, n)
	d.Colors = make([][4]uint8, n)
	return layout
}

// cubeTriangles fills the three submeshes: Z-facing, X-facing, Y-facing.
func (b *builder) cubeTriangles(g topology.CubeGrid) {
	b.step("triangles", func() {
		z, x, y := topology.TriangulateCube(g)
		b.data.Submeshes = [][]uint32{z, x, y}
	})
}

// latticeColor stores the lattice coordinate in the color channels; values
// above 255 wrap.
func latticeColor(l topology.Lattice) [4]uint8 {
	return [4]uint8{uint8(l[0]), uint8(l[1]), uint8(l[2]), 0}
}

func (b *builder) cubeSphere() error {
	g := topology.UniformGrid(b.cfg.GridSize)
	d := b.data
	d.Name = "Cube Sphere"
	if b.cfg.displaced() {
		d.Name = "Planet"
	}
	layout := b.cubeVertices(g)

	err := b.run("place", len(layout), func(start, end int) {
		for i := start; i < end; i++ {
			s := topology.SquarePoint(g, layout[i])
			d.Positions[i] = s
			d.Normals[i] = s
			d.UVs[i] = topology.SphericalUV(s)
			d.Colors[i] = latticeColor(layout[i])
		}
	})
	if err != nil {
		return err
	}
	b.cubeTriangles(g)
	return b.finishSphere()
}

func (b *builder) roundedBox() error {
	g := topology.CubeGrid{X: b.cfg.Size[0], Y: b.cfg.Size[1], Z: b.cfg.Size[2]}
	r := b.cfg.Roundness
	d := b.data
	d.Name = "Procedural Cube"
	layout := b.cubeVertices(g)

	err := b.run("place", len(layout), func(start, end int) {
		for i := start; i < end; i++ {
			pos, normal := topology.RoundedPoint(g, r, layout[i])
			d.Positions[i] = pos
			d.Normals[i] = normal
			d.UVs[i] = topology.SphericalUV(normal)
			d.Colors[i] = latticeColor(layout[i])
		}
	})
	if err != nil {
		return err
	}
	b.cubeTriangles(g)
	d.Colliders = RoundedBoxColliders(g, r)
	return nil
}

// RoundedBoxColliders returns three boxes spanning the flat faces and twelve
// capsules along the rounded edges of a box in [0,size].
func RoundedBoxColliders(g topology.CubeGrid, roundness int) []mesh.Collider {
	size := mgl32.Vec3{float32(g.X), float32(g.Y), float32(g.Z)}
	r := float32(roundness)
	half := size.Mul(0.5)
	lo := mgl32.Vec3{r, r, r}
	hi := size.Sub(lo)

	cs := []mesh.Collider{
		mesh.BoxCollider(half, mgl32.Vec3{size[0], size[1] - 2*r, size[2] - 2*r}),
		mesh.BoxCollider(half, mgl32.Vec3{size[0] - 2*r, size[1], size[2] - 2*r}),
		mesh.BoxCollider(half, mgl32.Vec3{size[0] - 2*r, size[1] - 2*r, size[2]}),
	}
	capsule := func(axis int, center mgl32.Vec3) {
		cs = append(cs, mesh.CapsuleCollider(axis, center, r, center[axis]*2))
	}
	for _, y := range []float32{lo[1], hi[1]} {
		for _, z := range []float32{lo[2], hi[2]} {
			capsule(0, mgl32.Vec3{half[0], y, z})
		}
	}
	for _, x := range []float32{lo[0], hi[0]} {
		for _, z := range []float32{lo[2], hi[2]} {
			capsule(1, mgl32.Vec3{x, half[1], z})
		}
	}
	for _, x := range []float32{lo[0], hi[0]} {
		for _, y := range []float32{lo[1], hi[1]} {
			capsule(2, mgl32.Vec3{x, y, half[2]})
		}
	}
	return cs
}
