package noise

import (
	"math"

	"planetmesh/pkg/smallxxhash"
)

// Lattice is value noise: random values on the integer lattice, blended with
// a quintic fade. Lattice values come from smallxxhash so they are stable
// across runs and platforms.
type Lattice struct {
	seed smallxxhash.Hash
}

func NewLattice(seed int64) *Lattice {
	return &Lattice{seed: smallxxhash.Seed(int32(seed ^ seed>>32))}
}

// fade is the smootherstep curve 6t^5 - 15t^4 + 10t^3
func fade(t float32) float32 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerpf(a, b, t float32) float32 {
	return a + t*(b-a)
}

func (l *Lattice) value(x, y, z int32) float32 {
	return smallxxhash.Lattice3(l.seed, x, y, z).Float01()*2 - 1
}

// Eval3 returns trilinearly blended lattice values in [-1,1].
func (l *Lattice) Eval3(x, y, z float32) float32 {
	x0 := float32(math.Floor(float64(x)))
	y0 := float32(math.Floor(float64(y)))
	z0 := float32(math.Floor(float64(z)))
	ix, iy, iz := int32(x0), int32(y0), int32(z0)

	fx := fade(x - x0)
	fy := fade(y - y0)
	fz := fade(z - z0)

	v000 := l.value(ix, iy, iz)
	v100 := l.value(ix+1, iy, iz)
	v010 := l.value(ix, iy+1, iz)
	v110 := l.value(ix+1, iy+1, iz)
	v001 := l.value(ix, iy, iz+1)
	v101 := l.value(ix+1, iy, iz+1)
	v011 := l.value(ix, iy+1, iz+1)
	v111 := l.value(ix+1, iy+1, iz+1)

	// along x, then y, then z
	i00 := lerpf(v000, v100, fx)
	i10 := lerpf(v010, v110, fx)
	i01 := lerpf(v001, v101, fx)
	i11 := lerpf(v011, v111, fx)

	i0 := lerpf(i00, i10, fy)
	i1 := lerpf(i01, i11, fy)
	return lerpf(i0, i1, fz)
}
