package topology

import (
	"math"
	"reflect"
	"testing"

	"planetmesh/pkg/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

func signedVolume(pos []mgl32.Vec3, idx []uint32) float32 {
	var vol float32
	for i := 0; i+2 < len(idx); i += 3 {
		a, b, c := pos[idx[i]], pos[idx[i+1]], pos[idx[i+2]]
		vol += a.Dot(b.Cross(c)) / 6
	}
	return vol
}

func joinGroups(groups ...[]uint32) []uint32 {
	var out []uint32
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func latticePositions(layout []Lattice) []mgl32.Vec3 {
	pos := make([]mgl32.Vec3, len(layout))
	for i, l := range layout {
		pos[i] = mgl32.Vec3{float32(l[0]), float32(l[1]), float32(l[2])}
	}
	return pos
}

var cubeGrids = []CubeGrid{
	{1, 1, 1}, {2, 2, 2}, {3, 3, 3}, {4, 4, 4},
	{3, 1, 2}, {1, 3, 1}, {2, 1, 5}, {5, 2, 3}, {1, 2, 4}, {4, 3, 1},
}

func TestCubeVertexCount(t *testing.T) {
	cases := []struct {
		g    CubeGrid
		want int
	}{
		{UniformGrid(1), 8},
		{UniformGrid(2), 26},
		{UniformGrid(3), 56},
		{CubeGrid{3, 1, 2}, 24},
	}
	for _, c := range cases {
		if got := c.g.VertexCount(); got != c.want {
			t.Errorf("%v: vertex count %d, want %d", c.g, got, c.want)
		}
		if got := len(LayoutCube(c.g)); got != c.want {
			t.Errorf("%v: layout produced %d vertices, want %d", c.g, got, c.want)
		}
	}
}

func TestLayoutCubeDistinctSurfacePoints(t *testing.T) {
	for _, g := range cubeGrids {
		seen := make(map[Lattice]int)
		for i, l := range LayoutCube(g) {
			if prev, ok := seen[l]; ok {
				t.Fatalf("%v: lattice %v emitted at %d and %d", g, l, prev, i)
			}
			seen[l] = i
			onSurface := l[0] == 0 || l[1] == 0 || l[2] == 0 ||
				int(l[0]) == g.X || int(l[1]) == g.Y || int(l[2]) == g.Z
			if !onSurface {
				t.Fatalf("%v: lattice %v is not on the box surface", g, l)
			}
		}
	}
}

func TestSetQuad(t *testing.T) {
	tris := make([]uint32, 6)
	next := SetQuad(tris, 0, 10, 11, 20, 21)
	if next != 6 {
		t.Fatalf("SetQuad returned %d, want 6", next)
	}
	want := []uint32{10, 20, 11, 11, 20, 21}
	if !reflect.DeepEqual(tris, want) {
		t.Errorf("SetQuad wrote %v, want %v", tris, want)
	}
}

func TestTriangulateCubeSizeOne(t *testing.T) {
	z, x, y := TriangulateCube(UniformGrid(1))
	wantZ := []uint32{0, 4, 1, 1, 4, 5, 2, 6, 3, 3, 6, 7}
	wantX := []uint32{1, 5, 2, 2, 5, 6, 3, 7, 0, 0, 7, 4}
	wantY := []uint32{4, 7, 5, 5, 7, 6, 3, 0, 2, 2, 0, 1}
	if !reflect.DeepEqual(z, wantZ) {
		t.Errorf("z faces %v, want %v", z, wantZ)
	}
	if !reflect.DeepEqual(x, wantX) {
		t.Errorf("x faces %v, want %v", x, wantX)
	}
	if !reflect.DeepEqual(y, wantY) {
		t.Errorf("y faces %v, want %v", y, wantY)
	}
}

func TestTriangulateCubeCapsSizeTwo(t *testing.T) {
	_, _, y := TriangulateCube(UniformGrid(2))
	want := []uint32{
		// top
		16, 23, 17, 17, 23, 24,
		17, 24, 18, 18, 24, 19,
		23, 22, 24, 24, 22, 21,
		24, 21, 19, 19, 21, 20,
		// bottom
		7, 0, 25, 25, 0, 1,
		25, 1, 3, 3, 1, 2,
		6, 7, 5, 5, 7, 25,
		5, 25, 4, 4, 25, 3,
	}
	if !reflect.DeepEqual(y, want) {
		t.Errorf("caps %v, want %v", y, want)
	}
}

// TestCapCursorsMatchLattice checks the cursor walkers against a direct
// lattice lookup on square and non-square grids.
func TestCapCursorsMatchLattice(t *testing.T) {
	for gx := 2; gx <= 5; gx++ {
		for gz := 2; gz <= 5; gz++ {
			for gy := 1; gy <= 3; gy++ {
				g := CubeGrid{gx, gy, gz}
				n := g.X * g.Z * 6
				got := make([]uint32, n)
				want := make([]uint32, n)

				if end := CreateTopFace(g, got, 0); end != n {
					t.Fatalf("%v: top face wrote %d of %d", g, end, n)
				}
				createTopFaceLattice(g, want, 0)
				if !reflect.DeepEqual(got, want) {
					t.Fatalf("%v: top face\n got %v\nwant %v", g, got, want)
				}

				if end := CreateBottomFace(g, got, 0); end != n {
					t.Fatalf("%v: bottom face wrote %d of %d", g, end, n)
				}
				createBottomFaceLattice(g, want, 0)
				if !reflect.DeepEqual(got, want) {
					t.Fatalf("%v: bottom face\n got %v\nwant %v", g, got, want)
				}
			}
		}
	}
}

// TestCubeClosedAndOutward checks the plain box: closed, consistently wound
// and enclosing exactly its own volume with outward-facing triangles.
func TestCubeClosedAndOutward(t *testing.T) {
	for _, g := range cubeGrids {
		pos := latticePositions(LayoutCube(g))
		z, x, y := TriangulateCube(g)
		idx := joinGroups(z, x, y)
		if err := mesh.CheckClosed(pos, idx, 1e-4); err != nil {
			t.Errorf("%v: %v", g, err)
			continue
		}
		want := float32(g.X * g.Y * g.Z)
		if vol := signedVolume(pos, idx); math.Abs(float64(vol-want)) > 1e-3 {
			t.Errorf("%v: signed volume %f, want %f", g, vol, want)
		}
	}
}

func TestCubeSphereClosed(t *testing.T) {
	for size := 1; size <= 6; size++ {
		g := UniformGrid(size)
		layout := LayoutCube(g)
		pos := make([]mgl32.Vec3, len(layout))
		for i, l := range layout {
			pos[i] = SquarePoint(g, l)
			if d := math.Abs(float64(pos[i].Len()) - 1); d > 1e-5 {
				t.Fatalf("size %d: vertex %d off the unit sphere: %f", size, i, pos[i].Len())
			}
		}
		z, x, y := TriangulateCube(g)
		idx := joinGroups(z, x, y)
		if err := mesh.CheckClosed(pos, idx, 1e-6); err != nil {
			t.Errorf("size %d: %v", size, err)
		}
		if vol := signedVolume(pos, idx); vol <= 0 {
			t.Errorf("size %d: inward winding, volume %f", size, vol)
		}
	}
}

func TestSquarePointCorners(t *testing.T) {
	g := UniformGrid(1)
	inv := float32(1 / math.Sqrt(3))
	for _, l := range LayoutCube(g) {
		p := SquarePoint(g, l)
		for a := 0; a < 3; a++ {
			want := inv
			if l[a] == 0 {
				want = -inv
			}
			if math.Abs(float64(p[a]-want)) > 1e-6 {
				t.Fatalf("corner %v mapped to %v", l, p)
			}
		}
	}
}

func TestRoundedPoint(t *testing.T) {
	g := UniformGrid(4)
	const roundness = 1

	pos, normal := RoundedPoint(g, roundness, Lattice{2, 0, 2})
	if pos != (mgl32.Vec3{2, 0, 2}) || normal != (mgl32.Vec3{0, -1, 0}) {
		t.Errorf("face centre moved: pos %v normal %v", pos, normal)
	}

	pos, normal = RoundedPoint(g, roundness, Lattice{0, 0, 0})
	inv := float32(1 / math.Sqrt(3))
	wantN := mgl32.Vec3{-inv, -inv, -inv}
	if !normal.ApproxEqualThreshold(wantN, 1e-6) {
		t.Errorf("corner normal %v, want %v", normal, wantN)
	}
	wantP := mgl32.Vec3{1, 1, 1}.Add(wantN)
	if !pos.ApproxEqualThreshold(wantP, 1e-6) {
		t.Errorf("corner position %v, want %v", pos, wantP)
	}

	for _, l := range LayoutCube(g) {
		p, n := RoundedPoint(g, roundness, l)
		for a := 0; a < 3; a++ {
			if p[a] < -1e-6 || p[a] > 4+1e-6 {
				t.Fatalf("lattice %v placed outside the box: %v", l, p)
			}
		}
		if d := math.Abs(float64(n.Len()) - 1); d > 1e-5 {
			t.Fatalf("lattice %v normal not unit: %v", l, n)
		}
	}
}

func TestTriangulateCubeIndexCounts(t *testing.T) {
	for _, g := range cubeGrids {
		z, x, y := TriangulateCube(g)
		nz, nx, ny := g.IndexCounts()
		if len(z) != nz || len(x) != nx || len(y) != ny {
			t.Errorf("%v: group sizes %d/%d/%d, want %d/%d/%d", g, len(z), len(x), len(y), nz, nx, ny)
		}
		n := uint32(g.VertexCount())
		for _, v := range joinGroups(z, x, y) {
			if v >= n {
				t.Fatalf("%v: index %d out of range %d", g, v, n)
			}
		}
	}
}
