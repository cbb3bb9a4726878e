package topology

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinSubdivisions = 0
	MaxSubdivisions = 6
)

// RadiusEpsilon is the tolerance under which a radius counts as 1 and the
// uniform scale pass is skipped.
const RadiusEpsilon = 1e-6

// ErrBufferSize marks a pre-sized buffer that does not match the topology's
// closed-form size. Generators panic with it; it is never returned.
var ErrBufferSize = errors.New("buffer size does not match topology")

// Params describes an octahedron sphere request.
type Params struct {
	Subdivisions int
	Radius       float32
}

// Resolution is the number of rings per hemisphere.
func (p Params) Resolution() int {
	return 1 << p.Subdivisions
}

// ClampSubdivisions pulls s into [MinSubdivisions, MaxSubdivisions] and
// reports whether it had to change it.
func ClampSubdivisions(s int) (int, bool) {
	if s < MinSubdivisions {
		return MinSubdivisions, true
	}
	if s > MaxSubdivisions {
		return MaxSubdivisions, true
	}
	return s, false
}

// OctahedronVertexCount returns the vertex count for a resolution,
// including the four copies of each pole.
func OctahedronVertexCount(resolution int) int {
	return (resolution+1)*(resolution+1)*4 - (resolution*2-1)*3
}

// OctahedronIndexCount returns the index count for a subdivision level.
func OctahedronIndexCount(subdivisions int) int {
	return (1 << (subdivisions*2 + 3)) * 3
}

func mustFill(what string, wrote, size int) {
	if wrote != size {
		panic(fmt.Errorf("%s: wrote %d of %d slots: %w", what, wrote, size, ErrBufferSize))
	}
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func abs32(f float32) float32 {
	return float32(math.Abs(float64(f)))
}

// Normalize projects positions[start:end] onto the unit sphere and copies
// the result into normals.
func Normalize(positions, normals []mgl32.Vec3, start, end int) {
	for i := start; i < end; i++ {
		n := positions[i].Normalize()
		positions[i] = n
		normals[i] = n
	}
}

// Scale multiplies positions[start:end] by radius. It is a no-op when the
// radius is within RadiusEpsilon of 1.
func Scale(positions []mgl32.Vec3, radius float32, start, end int) {
	if abs32(radius-1) <= RadiusEpsilon {
		return
	}
	for i := start; i < end; i++ {
		positions[i] = positions[i].Mul(radius)
	}
}

// SphericalUV maps a unit direction to longitude/latitude texture
// coordinates with u wrapped into [0,1).
func SphericalUV(p mgl32.Vec3) mgl32.Vec2 {
	y := float64(mgl32.Clamp(p.Y(), -1, 1))
	u := float32(math.Atan2(float64(p.X()), float64(p.Z())) / (-2 * math.Pi))
	if u < 0 {
		u++
	}
	v := float32(math.Asin(y)/math.Pi + 0.5)
	return mgl32.Vec2{u, v}
}
