package pipeline

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"planetmesh/internal/noise"

	"github.com/alitto/pond/v2"
)

// Kind selects the base topology of a build.
type Kind uint8

const (
	KindOctahedron Kind = iota
	KindCubeSphere
	KindRoundedBox
)

func (k Kind) String() string {
	switch k {
	case KindOctahedron:
		return "octahedron"
	case KindCubeSphere:
		return "cubesphere"
	case KindRoundedBox:
		return "roundedbox"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind accepts the names returned by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "octahedron", "octa", "planet":
		return KindOctahedron, nil
	case "cubesphere", "cube":
		return KindCubeSphere, nil
	case "roundedbox", "box":
		return KindRoundedBox, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownTopology)
}

var (
	ErrDegenerateRadius = errors.New("radius must be positive")
	ErrDegenerateBox    = errors.New("box sizes and roundness do not form a rounded box")
	ErrUnknownTopology  = errors.New("unknown topology")
	ErrDisplacedBox     = errors.New("height displacement needs a sphere topology")
)

// Config describes one mesh build.
type Config struct {
	Name     string
	Topology Kind

	// Octahedron
	Subdivisions int
	// Cube sphere
	GridSize int
	// Rounded box
	Size      [3]int
	Roundness int

	Radius float32

	// Height displacement for sphere topologies; Terrain wins when both are set.
	Terrain *noise.RockyTerrain
	Seeded  *noise.SeededHeight
	// Noise feeds the height stage. nil selects simplex noise seeded with 0.
	Noise noise.Source

	// Pool runs the parallel stages. When nil, Build creates one with
	// Workers goroutines and stops it before returning.
	Pool      pond.Pool
	Workers   int
	BatchSize int

	Logger *log.Logger
}

func (c *Config) displaced() bool {
	return c.Terrain != nil || c.Seeded != nil
}

func (c *Config) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

func (c *Config) validate() error {
	switch c.Topology {
	case KindOctahedron, KindCubeSphere:
		if !(c.Radius > 0) {
			return fmt.Errorf("radius %v: %w", c.Radius, ErrDegenerateRadius)
		}
		if c.Topology == KindCubeSphere && c.GridSize < 1 {
			return fmt.Errorf("grid size %d: %w", c.GridSize, ErrDegenerateBox)
		}
	case KindRoundedBox:
		x, y, z, r := c.Size[0], c.Size[1], c.Size[2], c.Roundness
		if x < 1 || y < 1 || z < 1 {
			return fmt.Errorf("size %v: %w", c.Size, ErrDegenerateBox)
		}
		if r < 1 || 2*r > min(x, y, z) {
			return fmt.Errorf("roundness %d for size %v: %w", r, c.Size, ErrDegenerateBox)
		}
		if c.displaced() {
			return ErrDisplacedBox
		}
	default:
		return fmt.Errorf("%v: %w", c.Topology, ErrUnknownTopology)
	}
	return nil
}
