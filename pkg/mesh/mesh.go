package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrLengthMismatch = errors.New("per-vertex attribute length mismatch")
	ErrIndexRange     = errors.New("index out of range")
	ErrNotTriangles   = errors.New("index count is not a multiple of 3")
)

// Data is an engine-agnostic mesh record. All non-nil per-vertex slices
// share the length of Positions.
type Data struct {
	Name string

	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Tangents  []mgl32.Vec4 // optional
	Colors    [][4]uint8   // optional, integer lattice coordinates for cube topologies

	// Submeshes groups triangle indices by triangulation axis.
	Submeshes [][]uint32

	Colliders []Collider

	// Warnings collects advisories raised while building (clamped parameters).
	Warnings []string
}

// VertexCount returns the number of vertices.
func (d *Data) VertexCount() int {
	return len(d.Positions)
}

// IndexCount returns the total number of indices over all submeshes.
func (d *Data) IndexCount() int {
	n := 0
	for _, s := range d.Submeshes {
		n += len(s)
	}
	return n
}

// TriangleCount returns the total number of triangles.
func (d *Data) TriangleCount() int {
	return d.IndexCount() / 3
}

// Indices concatenates all submeshes into one index list.
func (d *Data) Indices() []uint32 {
	out := make([]uint32, 0, d.IndexCount())
	for _, s := range d.Submeshes {
		out = append(out, s...)
	}
	return out
}

// Validate checks the structural invariants: attribute lengths, index
// bounds and triangle grouping.
func (d *Data) Validate() error {
	n := len(d.Positions)
	if d.Normals != nil && len(d.Normals) != n {
		return fmt.Errorf("normals: %d vs %d positions: %w", len(d.Normals), n, ErrLengthMismatch)
	}
	if d.UVs != nil && len(d.UVs) != n {
		return fmt.Errorf("uvs: %d vs %d positions: %w", len(d.UVs), n, ErrLengthMismatch)
	}
	if d.Tangents != nil && len(d.Tangents) != n {
		return fmt.Errorf("tangents: %d vs %d positions: %w", len(d.Tangents), n, ErrLengthMismatch)
	}
	if d.Colors != nil && len(d.Colors) != n {
		return fmt.Errorf("colors: %d vs %d positions: %w", len(d.Colors), n, ErrLengthMismatch)
	}
	for s, idx := range d.Submeshes {
		if len(idx)%3 != 0 {
			return fmt.Errorf("submesh %d has %d indices: %w", s, len(idx), ErrNotTriangles)
		}
		for i, v := range idx {
			if int(v) >= n {
				return fmt.Errorf("submesh %d index %d = %d (vertices %d): %w", s, i, v, n, ErrIndexRange)
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of all positions.
func (d *Data) Bounds() (min, max mgl32.Vec3) {
	if len(d.Positions) == 0 {
		return
	}
	min, max = d.Positions[0], d.Positions[0]
	for _, p := range d.Positions[1:] {
		for a := 0; a < 3; a++ {
			if p[a] < min[a] {
				min[a] = p[a]
			}
			if p[a] > max[a] {
				max[a] = p[a]
			}
		}
	}
	return min, max
}
