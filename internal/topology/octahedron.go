package topology

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	down    = mgl32.Vec3{0, -1, 0}
	up      = mgl32.Vec3{0, 1, 0}
	forward = mgl32.Vec3{0, 0, 1}

	// Fan directions walked around each ring, starting after forward.
	fanDirections = [4]mgl32.Vec3{
		{-1, 0, 0}, // left
		{0, 0, -1}, // back
		{1, 0, 0},  // right
		{0, 0, 1},  // forward
	}

	// Fixed tangents for the four pole copies.
	poleTangents = [4]mgl32.Vec4{
		{-math.Sqrt2 / 2, 0, -math.Sqrt2 / 2, -1},
		{math.Sqrt2 / 2, 0, -math.Sqrt2 / 2, -1},
		{math.Sqrt2 / 2, 0, math.Sqrt2 / 2, -1},
		{-math.Sqrt2 / 2, 0, math.Sqrt2 / 2, -1},
	}

	// U coordinates pinned on the pole copies, one per fan quadrant.
	poleU = [4]float32{0.125, 0.375, 0.625, 0.875}
)

// GenerateOctahedron writes the raw (unnormalized) vertices and triangle
// indices of an octahedron with the given ring resolution. Both buffers
// must be sized with OctahedronVertexCount and OctahedronIndexCount.
//
// The bottom pole is emitted four times, then each lower ring starting on
// the forward axis and sweeping left, back, right and forward again, then
// the upper rings shrinking toward the top, then four top pole copies.
func GenerateOctahedron(positions []mgl32.Vec3, indices []uint32, resolution int) {
	v, vBottom, t := 0, 0, 0

	for i := 0; i < 4; i++ {
		positions[v] = down
		v++
	}

	for i := 1; i <= resolution; i++ {
		progress := float32(i) / float32(resolution)
		to := lerp(down, forward, progress)
		positions[v] = to
		v++
		for _, d := range fanDirections {
			from := to
			to = lerp(down, d, progress)
			t = lowerStrip(indices, i, v, vBottom, t)
			v = vertexLine(positions, from, to, i, v)
			if i > 1 {
				vBottom += i - 1
			} else {
				vBottom++
			}
		}
		vBottom = v - 1 - i*4
	}

	for i := resolution - 1; i >= 1; i-- {
		progress := float32(i) / float32(resolution)
		to := lerp(up, forward, progress)
		positions[v] = to
		v++
		for _, d := range fanDirections {
			from := to
			to = lerp(up, d, progress)
			t = upperStrip(indices, i, v, vBottom, t)
			v = vertexLine(positions, from, to, i, v)
			vBottom += i + 1
		}
		vBottom = v - 1 - i*4
	}

	for i := 0; i < 4; i++ {
		indices[t] = uint32(vBottom)
		indices[t+1] = uint32(v)
		vBottom++
		indices[t+2] = uint32(vBottom)
		t += 3
		positions[v] = up
		v++
	}

	mustFill("octahedron vertices", v, len(positions))
	mustFill("octahedron indices", t, len(indices))
}

func vertexLine(positions []mgl32.Vec3, from, to mgl32.Vec3, steps, v int) int {
	for i := 1; i <= steps; i++ {
		positions[v] = lerp(from, to, float32(i)/float32(steps))
		v++
	}
	return v
}

func setTriangle(indices []uint32, t, a, b, c int) int {
	indices[t] = uint32(a)
	indices[t+1] = uint32(b)
	indices[t+2] = uint32(c)
	return t + 3
}

// lowerStrip stitches a ring to the smaller ring below it.
func lowerStrip(indices []uint32, steps, vTop, vBottom, t int) int {
	for i := 1; i < steps; i++ {
		t = setTriangle(indices, t, vBottom, vTop-1, vTop)
		t = setTriangle(indices, t, vBottom, vTop, vBottom+1)
		vBottom++
		vTop++
	}
	return setTriangle(indices, t, vBottom, vTop-1, vTop)
}

// upperStrip stitches a ring to the larger ring below it.
func upperStrip(indices []uint32, steps, vTop, vBottom, t int) int {
	t = setTriangle(indices, t, vBottom, vTop-1, vBottom+1)
	vBottom++
	for i := 1; i <= steps; i++ {
		t = setTriangle(indices, t, vTop-1, vTop, vBottom)
		t = setTriangle(indices, t, vBottom, vTop, vBottom+1)
		vTop++
		vBottom++
	}
	return t
}

// OctahedronUVs assigns spherical texture coordinates to the normalized
// positions in [start, end). The seam and pole fix-ups live in
// FixOctahedronUVSeams and must run after every range has finished.
func OctahedronUVs(positions []mgl32.Vec3, uvs []mgl32.Vec2, start, end int) {
	for i := start; i < end; i++ {
		uvs[i] = SphericalUV(positions[i])
	}
}

// FixOctahedronUVSeams forces u to 1 on the vertex before every repeated x
// (the closing vertex of a ring lies on the same meridian as the opening
// one) and pins the pole copies to the centre of their quadrant.
func FixOctahedronUVSeams(positions []mgl32.Vec3, uvs []mgl32.Vec2) {
	prevX := float32(1)
	for i, p := range positions {
		if i > 0 && abs32(p.X()-prevX) < math.SmallestNonzeroFloat32 {
			uvs[i-1][0] = 1
		}
		prevX = p.X()
	}
	n := len(uvs)
	for k, u := range poleU {
		uvs[k][0] = u
		uvs[n-4+k][0] = u
	}
}

// OctahedronTangents derives horizontal tangents for [start, end) from the
// normalized positions. Pole copies are skipped; FixOctahedronPoleTangents
// fills them afterwards.
func OctahedronTangents(positions []mgl32.Vec3, tangents []mgl32.Vec4, start, end int) {
	n := len(positions)
	for i := start; i < end; i++ {
		if i < 4 || i >= n-4 {
			continue
		}
		p := positions[i]
		flat := mgl32.Vec3{p.X(), 0, p.Z()}
		if flat.Len() == 0 {
			continue
		}
		flat = flat.Normalize()
		tangents[i] = mgl32.Vec4{-flat.Z(), 0, flat.X(), -1}
	}
}

// FixOctahedronPoleTangents writes the analytic tangents of the pole copies.
func FixOctahedronPoleTangents(tangents []mgl32.Vec4) {
	n := len(tangents)
	for k, tan := range poleTangents {
		tangents[k] = tan
		tangents[n-4+k] = tan
	}
}
