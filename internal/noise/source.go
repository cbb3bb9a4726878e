package noise

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Source is a continuous 3D noise function returning values roughly in [-1,1].
type Source interface {
	Eval3(x, y, z float32) float32
}

// Source4 is a Source that can also be sampled in four dimensions.
type Source4 interface {
	Source
	Eval4(x, y, z, w float32) float32
}

// Backend names accepted by NewSource.
const (
	BackendSimplex = "simplex"
	BackendPerlin  = "perlin"
	BackendLattice = "lattice"
)

var ErrUnknownBackend = errors.New("unknown noise backend")

// NewSource builds the named backend for seed. An empty name selects simplex.
func NewSource(backend string, seed int64) (Source, error) {
	switch strings.ToLower(backend) {
	case "", BackendSimplex:
		return NewSimplex(seed), nil
	case BackendPerlin:
		return NewPerlin(seed), nil
	case BackendLattice:
		return NewLattice(seed), nil
	default:
		return nil, fmt.Errorf("%q: %w", backend, ErrUnknownBackend)
	}
}

// Simplex wraps opensimplex in single precision.
type Simplex struct {
	os opensimplex.Noise32
}

func NewSimplex(seed int64) *Simplex {
	return &Simplex{os: opensimplex.New32(seed)}
}

func (s *Simplex) Eval3(x, y, z float32) float32 {
	return s.os.Eval3(x, y, z)
}

func (s *Simplex) Eval4(x, y, z, w float32) float32 {
	return s.os.Eval4(x, y, z, w)
}

// Perlin adapts go-perlin's float64 generator.
type Perlin struct {
	p *perlin.Perlin
}

// Perlin generator parameters: alpha is the weight of each octave, beta the
// frequency multiplier, octaves the number of iterations.
const (
	perlinAlpha   = 2
	perlinBeta    = 2
	perlinOctaves = 3
)

func NewPerlin(seed int64) *Perlin {
	return &Perlin{p: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)}
}

func (p *Perlin) Eval3(x, y, z float32) float32 {
	return float32(p.p.Noise3D(float64(x), float64(y), float64(z)))
}
