package smallxxhash

import (
	"math/rand"
	"testing"
)

// TestSeedDeterministic verifies the finalized seed is a pure function of the seed
func TestSeedDeterministic(t *testing.T) {
	var results [100]uint32
	for i := range results {
		results[i] = Seed(42).Eat(7).Eat(-3).Sum32()
	}
	first := results[0]
	for i := 1; i < len(results); i++ {
		if results[i] != first {
			t.Errorf("hash not deterministic: results[0]=%d, results[%d]=%d", first, i, results[i])
		}
	}
}

func TestSeedZero(t *testing.T) {
	// seed 0 leaves only primeE in the accumulator
	if got := uint32(Seed(0)); got != primeE {
		t.Fatalf("Seed(0) accumulator = %#x, want %#x", got, primeE)
	}
	if Seed(0).Sum32() != avalanche(primeE) {
		t.Fatalf("Sum32 does not match avalanche of the accumulator")
	}
}

func TestEatKnownValue(t *testing.T) {
	// rotl(primeE + 1*primeC, 17) * primeD computed by hand
	acc := primeE + primeC
	want := ((acc << 17) | (acc >> 15)) * primeD
	if got := uint32(Seed(0).Eat(1)); got != want {
		t.Fatalf("Eat(1) = %#x, want %#x", got, want)
	}
}

// TestEatOrderSensitive verifies eat is non-commutative for distinct values
func TestEatOrderSensitive(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	for i := 0; i < 1000; i++ {
		a := rng.Int31() - 1<<30
		b := rng.Int31() - 1<<30
		s := rng.Int31()
		ab := Seed(s).Eat(a).Eat(b).Sum32()
		ba := Seed(s).Eat(b).Eat(a).Sum32()
		if a == b {
			if ab != ba {
				t.Errorf("equal values must commute: a=b=%d", a)
			}
			continue
		}
		if ab == ba {
			t.Errorf("eat order did not change the result: seed=%d a=%d b=%d", s, a, b)
		}
	}
}

func TestEatByteDiffersFromEat(t *testing.T) {
	h := Seed(9)
	if h.Eat(5).Sum32() == h.EatByte(5).Sum32() {
		t.Errorf("Eat and EatByte should use different mixing rounds")
	}
}

func TestDifferentSeeds(t *testing.T) {
	if Seed(1).Sum32() == Seed(2).Sum32() {
		t.Errorf("different seeds should give different hashes")
	}
}

// TestHash4MatchesScalar verifies each lane equals the scalar computation
func TestHash4MatchesScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for n := 0; n < 200; n++ {
		var seeds, a, b [4]int32
		var c [4]byte
		for i := 0; i < 4; i++ {
			seeds[i] = rng.Int31() - 1<<30
			a[i] = rng.Int31() - 1<<30
			b[i] = rng.Int31()
			c[i] = byte(rng.Intn(256))
		}
		sum := Seed4(seeds).Eat(a).EatByte(c).Eat(b).Sum()
		for i := 0; i < 4; i++ {
			want := Seed(seeds[i]).Eat(a[i]).EatByte(c[i]).Eat(b[i]).Sum32()
			if sum[i] != want {
				t.Fatalf("lane %d: got %#x, want %#x", i, sum[i], want)
			}
		}
	}
}

func TestBroadcast(t *testing.T) {
	h := Seed(3).Eat(11)
	b := Broadcast(h).Eat([4]int32{1, 2, 3, 4})
	for i := 0; i < 4; i++ {
		if b.Lane(i) != h.Eat(int32(i+1)) {
			t.Errorf("lane %d diverged from scalar chain", i)
		}
	}
}

func TestFloat01Range(t *testing.T) {
	for i := int32(-500); i < 500; i++ {
		f := Seed(i).Float01()
		if f < 0 || f > 1 {
			t.Fatalf("Float01 out of range for seed %d: %f", i, f)
		}
	}
}

func TestLattice3AxisOrder(t *testing.T) {
	h := Seed(42)
	if Lattice3(h, 1, 2, 3).Sum32() == Lattice3(h, 3, 2, 1).Sum32() {
		t.Errorf("lattice hash should differ for swapped axes")
	}
}

func BenchmarkHash4(b *testing.B) {
	h := Seed4([4]int32{1, 2, 3, 4})
	d := [4]int32{5, 6, 7, 8}
	for i := 0; i < b.N; i++ {
		_ = h.Eat(d).Eat(d).Eat(d).Sum()
	}
}
