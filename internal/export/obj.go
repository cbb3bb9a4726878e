// Package export writes generated meshes to disk formats.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"planetmesh/pkg/mesh"
)

// WriteOBJ writes d as Wavefront OBJ text. Each submesh becomes its own
// group so the triangulation axes stay separable in a modeling tool.
func WriteOBJ(w io.Writer, d *mesh.Data) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("writing obj: %w", err)
	}
	bw := bufio.NewWriter(w)

	name := d.Name
	if name == "" {
		name = "mesh"
	}
	fmt.Fprintf(bw, "# %d vertices, %d triangles\n", d.VertexCount(), d.TriangleCount())
	fmt.Fprintf(bw, "o %s\n", name)

	for _, p := range d.Positions {
		writeFloats(bw, "v", p[:])
	}
	for _, uv := range d.UVs {
		writeFloats(bw, "vt", uv[:])
	}
	for _, n := range d.Normals {
		writeFloats(bw, "vn", n[:])
	}

	hasUV, hasNormal := d.UVs != nil, d.Normals != nil
	for s, idx := range d.Submeshes {
		fmt.Fprintf(bw, "g %s_%d\n", name, s)
		for i := 0; i < len(idx); i += 3 {
			bw.WriteString("f")
			for _, v := range idx[i : i+3] {
				bw.WriteByte(' ')
				writeCorner(bw, v+1, hasUV, hasNormal)
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// SaveOBJ writes d to path, replacing any existing file.
func SaveOBJ(path string, d *mesh.Data) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteOBJ(f, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeFloats(bw *bufio.Writer, tag string, vs []float32) {
	bw.WriteString(tag)
	for _, v := range vs {
		bw.WriteByte(' ')
		bw.WriteString(strconv.FormatFloat(float64(v), 'f', 6, 32))
	}
	bw.WriteByte('\n')
}

// writeCorner emits one face corner: v, v/vt, v//vn or v/vt/vn.
func writeCorner(bw *bufio.Writer, v uint32, hasUV, hasNormal bool) {
	s := strconv.FormatUint(uint64(v), 10)
	bw.WriteString(s)
	switch {
	case hasUV && hasNormal:
		bw.WriteString("/" + s + "/" + s)
	case hasUV:
		bw.WriteString("/" + s)
	case hasNormal:
		bw.WriteString("//" + s)
	}
}
