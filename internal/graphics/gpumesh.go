package graphics

import (
	"planetmesh/pkg/mesh"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Interleaved vertex layout: position, normal, uv, color.
const (
	positionOffset = 0
	normalOffset   = 3
	uvOffset       = 6
	colorOffset    = 8
	floatsPerVert  = 12
	vertexStride   = floatsPerVert * 4
)

// Interleave packs the vertex attributes of d into one float buffer.
// Missing normals and uvs are zero; missing colors are white.
func Interleave(d *mesh.Data) []float32 {
	out := make([]float32, len(d.Positions)*floatsPerVert)
	for i, p := range d.Positions {
		v := out[i*floatsPerVert : (i+1)*floatsPerVert]
		copy(v[positionOffset:], p[:])
		if d.Normals != nil {
			copy(v[normalOffset:], d.Normals[i][:])
		}
		if d.UVs != nil {
			copy(v[uvOffset:], d.UVs[i][:])
		}
		if d.Colors != nil {
			c := d.Colors[i]
			v[colorOffset] = float32(c[0]) / 255
			v[colorOffset+1] = float32(c[1]) / 255
			v[colorOffset+2] = float32(c[2]) / 255
			v[colorOffset+3] = float32(c[3]) / 255
		} else {
			v[colorOffset], v[colorOffset+1], v[colorOffset+2], v[colorOffset+3] = 1, 1, 1, 1
		}
	}
	return out
}

// submeshRange locates one index group inside the shared element buffer.
type submeshRange struct {
	offset int // in bytes
	count  int32
}

// submeshRanges lays the index groups out back to back.
func submeshRanges(d *mesh.Data) []submeshRange {
	ranges := make([]submeshRange, len(d.Submeshes))
	offset := 0
	for i, s := range d.Submeshes {
		ranges[i] = submeshRange{offset: offset, count: int32(len(s))}
		offset += len(s) * 4
	}
	return ranges
}

// GPUMesh is a mesh.Data uploaded into one VAO, one vertex buffer and one
// element buffer holding every submesh.
type GPUMesh struct {
	vao, vbo, ebo uint32
	submeshes     []submeshRange
}

// Upload copies d to the GPU. A GL context must be current.
func Upload(d *mesh.Data) *GPUMesh {
	vertices := Interleave(d)
	indices := d.Indices()

	m := &GPUMesh{submeshes: submeshRanges(d)}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	}

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, vertexStride, positionOffset*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, vertexStride, normalOffset*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, vertexStride, uvOffset*4)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointerWithOffset(3, 4, gl.FLOAT, false, vertexStride, colorOffset*4)

	gl.BindVertexArray(0)
	return m
}

// Submeshes returns the number of index groups.
func (m *GPUMesh) Submeshes() int {
	return len(m.submeshes)
}

// DrawSubmesh draws index group i with the current program.
func (m *GPUMesh) DrawSubmesh(i int) {
	r := m.submeshes[i]
	if r.count == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, r.count, gl.UNSIGNED_INT, uintptr(r.offset))
}

// Delete releases the GPU buffers.
func (m *GPUMesh) Delete() {
	gl.DeleteBuffers(1, &m.ebo)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteVertexArrays(1, &m.vao)
}
