package planet

import (
	"errors"
	"math"
	"sync"
	"testing"

	"planetmesh/internal/noise"
	"planetmesh/pkg/mesh"
)

func TestUnitOctahedron(t *testing.T) {
	d, err := GenerateOctahedronSphere(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if d.TriangleCount() != 8 {
		t.Errorf("%d triangles, want 8", d.TriangleCount())
	}
	if _, distinct := mesh.Weld(d.Positions, 1e-5); distinct != 6 {
		t.Errorf("%d distinct vertices, want 6", distinct)
	}
}

func TestOctahedronSubdivisionOne(t *testing.T) {
	d, err := GenerateOctahedronSphere(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if d.VertexCount() != 27 {
		t.Errorf("%d vertices, want 27", d.VertexCount())
	}
	for i, p := range d.Positions {
		if math.Abs(float64(p.Len())-2) > 1e-5 {
			t.Fatalf("vertex %d magnitude %f, want 2", i, p.Len())
		}
	}
}

func TestCubeSphereCorners(t *testing.T) {
	d, err := GenerateCubeSphere(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if d.VertexCount() != 8 {
		t.Fatalf("%d vertices, want 8", d.VertexCount())
	}
	for i, p := range d.Positions {
		if math.Abs(float64(p.Len())-1) > 1e-6 {
			t.Errorf("corner %d magnitude %f, want 1", i, p.Len())
		}
	}
}

func TestRoundedBoxColliders(t *testing.T) {
	d, err := GenerateRoundedBox(4, 4, 4, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Submeshes) != 3 {
		t.Errorf("%d submeshes, want 3", len(d.Submeshes))
	}
	if mesh.CountKind(d.Colliders, mesh.ColliderBox) != 3 || mesh.CountKind(d.Colliders, mesh.ColliderCapsule) != 12 {
		t.Errorf("colliders %+v", d.Colliders)
	}
	if _, err := GenerateRoundedBox(2, 2, 2, 2); !errors.Is(err, ErrDegenerateBox) {
		t.Errorf("got %v, want ErrDegenerateBox", err)
	}
}

func TestDegenerateRadius(t *testing.T) {
	if _, err := GenerateOctahedronSphere(2, 0); !errors.Is(err, ErrDegenerateRadius) {
		t.Errorf("got %v, want ErrDegenerateRadius", err)
	}
}

func TestRockyPlanetZeroLayers(t *testing.T) {
	zero := noise.LayerParams{}
	ridge := noise.RidgeParams{}
	d, err := GenerateRockyPlanet(3, 5, zero, ridge, zero)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range d.Positions {
		if math.Abs(float64(p.Len())-6) > 1e-4 {
			t.Fatalf("vertex %d at %f, want radius + 1", i, p.Len())
		}
	}
}

func TestRockyPlanetSeeds(t *testing.T) {
	c, m, k := noise.DefaultLayerParams(), noise.DefaultRidgeParams(), noise.DefaultLayerParams()
	a, err := GenerateRockyPlanet(3, 1, c, m, k, WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateRockyPlanet(3, 1, c, m, k, WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	other, err := GenerateRockyPlanet(3, 1, c, m, k, WithSeed(2))
	if err != nil {
		t.Fatal(err)
	}
	differs := false
	for i := range a.Positions {
		if a.Positions[i] != b.Positions[i] {
			t.Fatalf("same seed gave different vertex %d", i)
		}
		if a.Positions[i] != other.Positions[i] {
			differs = true
		}
	}
	if !differs {
		t.Errorf("different seeds gave identical planets")
	}
}

// TestConcurrentBuilds runs independent builds side by side; run with -race.
func TestConcurrentBuilds(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]*mesh.Data, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = GenerateOctahedronSphere(i%5, float32(i+1), WithWorkers(2))
		}(i)
	}
	wg.Wait()
	for i, d := range results {
		if errs[i] != nil {
			t.Fatalf("build %d: %v", i, errs[i])
		}
		if err := mesh.CheckClosed(d.Positions, d.Indices(), 1e-4); err != nil {
			t.Errorf("build %d: %v", i, err)
		}
	}
}

func TestHashEntryPoints(t *testing.T) {
	a := HashFinalize(HashEat(HashEat(HashSeed(3), 1), 2))
	b := HashFinalize(HashEat(HashEat(HashSeed(3), 1), 2))
	c := HashFinalize(HashEat(HashEat(HashSeed(3), 2), 1))
	if a != b {
		t.Errorf("hash not deterministic")
	}
	if a == c {
		t.Errorf("hash should depend on eat order")
	}

	d := HashFinalize(HashEatByte(HashEatByte(HashSeed(3), 1), 2))
	if d == a {
		t.Errorf("byte and int32 eats should differ")
	}
	if want := HashSeed(3).EatByte(1).EatByte(2).Sum32(); d != want {
		t.Errorf("HashEatByte chain = %#x, want %#x", d, want)
	}
}
