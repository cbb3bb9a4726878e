package mesh

import "github.com/go-gl/mathgl/mgl32"

// RecalculateNormals rebuilds normals from the triangle list. Face normals
// are accumulated area-weighted onto every vertex, with coincident vertices
// (seams, duplicated poles) welded first so they end up sharing one normal.
func RecalculateNormals(positions []mgl32.Vec3, indices []uint32, normals []mgl32.Vec3, weldEps float32) {
	ids, distinct := Weld(positions, weldEps)
	acc := make([]mgl32.Vec3, distinct)
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		// unnormalized cross product: length is twice the triangle area
		n := positions[b].Sub(positions[a]).Cross(positions[c].Sub(positions[a]))
		acc[ids[a]] = acc[ids[a]].Add(n)
		acc[ids[b]] = acc[ids[b]].Add(n)
		acc[ids[c]] = acc[ids[c]].Add(n)
	}
	for i := range normals {
		n := acc[ids[i]]
		if n.Len() == 0 {
			continue
		}
		normals[i] = n.Normalize()
	}
}

// OrthogonalizeTangents removes the normal component from tangents[start:end]
// and renormalizes them, keeping the handedness in w.
func OrthogonalizeTangents(normals []mgl32.Vec3, tangents []mgl32.Vec4, start, end int) {
	for i := start; i < end; i++ {
		n := normals[i]
		t := tangents[i].Vec3()
		t = t.Sub(n.Mul(n.Dot(t)))
		if t.Len() == 0 {
			continue
		}
		tangents[i] = t.Normalize().Vec4(tangents[i].W())
	}
}
