package pipeline

import (
	"planetmesh/internal/topology"
	"planetmesh/pkg/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// octahedron runs topology, normalize, UV and tangents, then either height
// displacement with normal recalculation or a uniform scale.
func (b *builder) octahedron() error {
	subdiv, clamped := topology.ClampSubdivisions(b.cfg.Subdivisions)
	if clamped {
		b.warn("subdivisions %d clamped to %d", b.cfg.Subdivisions, subdiv)
	}
	res := 1 << subdiv
	n := topology.OctahedronVertexCount(res)

	d := b.data
	d.Name = "Octahedron Sphere"
	if b.cfg.displaced() {
		d.Name = "Planet"
	}
	d.Positions = make([]mgl32.Vec3, n)
	d.Normals = make([]mgl32.Vec3, n)
	d.UVs = make([]mgl32.Vec2, n)
	d.Tangents = make([]mgl32.Vec4, n)
	indices := make([]uint32, topology.OctahedronIndexCount(subdiv))

	b.step("topology", func() {
		topology.GenerateOctahedron(d.Positions, indices, res)
	})
	d.Submeshes = [][]uint32{indices}

	if err := b.run("normalize", n, func(start, end int) {
		topology.Normalize(d.Positions, d.Normals, start, end)
	}); err != nil {
		return err
	}

	// UV and tangent passes only read positions and write disjoint slices.
	err := b.run("uv+tangents", n,
		func(start, end int) { topology.OctahedronUVs(d.Positions, d.UVs, start, end) },
		func(start, end int) { topology.OctahedronTangents(d.Positions, d.Tangents, start, end) },
	)
	if err != nil {
		return err
	}
	b.step("seams", func() {
		topology.FixOctahedronUVSeams(d.Positions, d.UVs)
		topology.FixOctahedronPoleTangents(d.Tangents)
	})

	return b.finishSphere()
}

// finishSphere applies height displacement or the radius scale to a unit
// sphere and attaches its collider.
func (b *builder) finishSphere() error {
	d := b.data
	radius := b.cfg.Radius

	if b.cfg.displaced() {
		extent, err := b.displace()
		if err != nil {
			return err
		}
		if err := b.recalculateNormals(); err != nil {
			return err
		}
		d.Colliders = []mesh.Collider{mesh.SphereCollider(extent)}
		return nil
	}

	if err := b.run("scale", len(d.Positions), func(start, end int) {
		topology.Scale(d.Positions, radius, start, end)
	}); err != nil {
		return err
	}
	d.Colliders = []mesh.Collider{mesh.SphereCollider(radius)}
	return nil
}
