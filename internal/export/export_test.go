package export

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"planetmesh/internal/pipeline"
	"planetmesh/pkg/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

func buildMesh(t *testing.T, cfg pipeline.Config) *mesh.Data {
	t.Helper()
	cfg.Workers = 2
	d, err := pipeline.Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return d
}

func TestBinaryRoundTrip(t *testing.T) {
	cases := map[string]pipeline.Config{
		"octahedron": {Topology: pipeline.KindOctahedron, Subdivisions: 2, Radius: 1},
		"cube":       {Topology: pipeline.KindCubeSphere, GridSize: 3, Radius: 2},
		"box":        {Topology: pipeline.KindRoundedBox, Size: [3]int{4, 3, 2}, Roundness: 1, Radius: 1},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			d := buildMesh(t, cfg)
			var buf bytes.Buffer
			if err := WriteBinary(&buf, d); err != nil {
				t.Fatal(err)
			}
			got, err := ReadBinary(&buf)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, d) {
				t.Errorf("decoded mesh differs from the encoded one")
			}
			if buf.Len() != 0 {
				t.Errorf("%d trailing bytes", buf.Len())
			}
		})
	}
}

func TestBinaryKeepsWarnings(t *testing.T) {
	d := buildMesh(t, pipeline.Config{Topology: pipeline.KindOctahedron, Subdivisions: 9, Radius: 1})
	if len(d.Warnings) == 0 {
		t.Fatal("expected a clamp warning")
	}
	var buf bytes.Buffer
	if err := WriteBinary(&buf, d); err != nil {
		t.Fatal(err)
	}
	got, err := ReadBinary(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Warnings, d.Warnings) {
		t.Errorf("warnings %q, want %q", got.Warnings, d.Warnings)
	}
}

func TestBinaryRejectsGarbage(t *testing.T) {
	if _, err := ReadBinary(strings.NewReader("OBJ!\x01\x00\x00\x00")); !errors.Is(err, ErrBadMagic) {
		t.Errorf("got %v, want ErrBadMagic", err)
	}
	if _, err := ReadBinary(strings.NewReader("PMSH\x07\x00\x00\x00")); !errors.Is(err, ErrBadVersion) {
		t.Errorf("got %v, want ErrBadVersion", err)
	}

	d := buildMesh(t, pipeline.Config{Topology: pipeline.KindOctahedron, Subdivisions: 1, Radius: 1})
	var buf bytes.Buffer
	if err := WriteBinary(&buf, d); err != nil {
		t.Fatal(err)
	}
	truncated := buf.Bytes()[:buf.Len()/2]
	if _, err := ReadBinary(bytes.NewReader(truncated)); err == nil {
		t.Errorf("truncated stream decoded")
	}
}

func TestWriteRejectsInvalidMesh(t *testing.T) {
	d := &mesh.Data{
		Positions: []mgl32.Vec3{{0, 0, 0}},
		Submeshes: [][]uint32{{0, 0, 5}},
	}
	if err := WriteBinary(&bytes.Buffer{}, d); !errors.Is(err, mesh.ErrIndexRange) {
		t.Errorf("binary: got %v, want ErrIndexRange", err)
	}
	if err := WriteOBJ(&bytes.Buffer{}, d); !errors.Is(err, mesh.ErrIndexRange) {
		t.Errorf("obj: got %v, want ErrIndexRange", err)
	}
}

func TestSaveLoadBinary(t *testing.T) {
	d := buildMesh(t, pipeline.Config{Topology: pipeline.KindCubeSphere, GridSize: 2, Radius: 1})
	path := filepath.Join(t.TempDir(), "cube.pmsh")
	if err := SaveBinary(path, d); err != nil {
		t.Fatal(err)
	}
	got, err := LoadBinary(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.VertexCount() != d.VertexCount() || got.IndexCount() != d.IndexCount() {
		t.Errorf("loaded %d/%d, want %d/%d", got.VertexCount(), got.IndexCount(), d.VertexCount(), d.IndexCount())
	}
}

func TestOBJCounts(t *testing.T) {
	d := buildMesh(t, pipeline.Config{Topology: pipeline.KindCubeSphere, GridSize: 2, Radius: 1})
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, d); err != nil {
		t.Fatal(err)
	}

	counts := map[string]int{}
	maxIndex := 0
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		counts[fields[0]]++
		if fields[0] != "f" {
			continue
		}
		if len(fields) != 4 {
			t.Fatalf("face %q is not a triangle", sc.Text())
		}
		for _, corner := range fields[1:] {
			parts := strings.Split(corner, "/")
			if len(parts) != 3 || parts[0] != parts[1] || parts[0] != parts[2] {
				t.Fatalf("corner %q should be v/vt/vn with one index", corner)
			}
			var v int
			for _, c := range parts[0] {
				v = v*10 + int(c-'0')
			}
			if v < 1 {
				t.Fatalf("corner %q is not 1-based", corner)
			}
			maxIndex = max(maxIndex, v)
		}
	}

	if counts["v"] != d.VertexCount() || counts["vn"] != d.VertexCount() || counts["vt"] != d.VertexCount() {
		t.Errorf("attribute lines %v, want %d each", counts, d.VertexCount())
	}
	if counts["f"] != d.TriangleCount() {
		t.Errorf("%d faces, want %d", counts["f"], d.TriangleCount())
	}
	if counts["g"] != len(d.Submeshes) || counts["o"] != 1 {
		t.Errorf("%d groups, %d objects", counts["g"], counts["o"])
	}
	if maxIndex != d.VertexCount() {
		t.Errorf("largest index %d, want %d", maxIndex, d.VertexCount())
	}
}

func TestOBJCornerForms(t *testing.T) {
	d := &mesh.Data{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Submeshes: [][]uint32{{0, 1, 2}},
	}
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, d); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\nf 1 2 3\n") {
		t.Errorf("positions only: %q", buf.String())
	}

	d.Normals = []mgl32.Vec3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}}
	buf.Reset()
	if err := WriteOBJ(&buf, d); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\nf 1//1 2//2 3//3\n") {
		t.Errorf("with normals: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "o mesh\n") {
		t.Errorf("unnamed mesh should get a default object name")
	}
}
