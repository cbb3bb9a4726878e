// Package planet is the public entry point for generating sphere-like meshes
// and rocky planets.
package planet

import (
	"context"
	"log"

	"planetmesh/internal/noise"
	"planetmesh/internal/pipeline"
	"planetmesh/pkg/mesh"
	"planetmesh/pkg/smallxxhash"
)

type (
	LayerParams  = noise.LayerParams
	RidgeParams  = noise.RidgeParams
	RockyTerrain = noise.RockyTerrain
	HashState    = smallxxhash.Hash
)

// Sentinel errors returned for rejected parameters.
var (
	ErrDegenerateRadius = pipeline.ErrDegenerateRadius
	ErrDegenerateBox    = pipeline.ErrDegenerateBox
)

// Option adjusts how a mesh is generated without changing its shape.
type Option func(*pipeline.Config)

// WithNoise replaces the default simplex noise used for displacement.
func WithNoise(src noise.Source) Option {
	return func(c *pipeline.Config) { c.Noise = src }
}

// WithSeed selects simplex noise with the given seed.
func WithSeed(seed int64) Option {
	return func(c *pipeline.Config) { c.Noise = noise.NewSimplex(seed) }
}

// WithWorkers caps the goroutines used by the parallel stages.
func WithWorkers(n int) Option {
	return func(c *pipeline.Config) { c.Workers = n }
}

// WithLogger redirects clamp advisories.
func WithLogger(l *log.Logger) Option {
	return func(c *pipeline.Config) { c.Logger = l }
}

func build(cfg pipeline.Config, opts []Option) (*mesh.Data, error) {
	for _, o := range opts {
		o(&cfg)
	}
	return pipeline.Build(context.Background(), cfg)
}

// GenerateOctahedronSphere builds an octahedron sphere. subdivisions is
// clamped to [0,6] with an advisory in the result's Warnings.
func GenerateOctahedronSphere(subdivisions int, radius float32, opts ...Option) (*mesh.Data, error) {
	return build(pipeline.Config{
		Topology:     pipeline.KindOctahedron,
		Subdivisions: subdivisions,
		Radius:       radius,
	}, opts)
}

// GenerateCubeSphere builds a cube sphere with three index groups, one per
// face axis.
func GenerateCubeSphere(gridSize int, radius float32, opts ...Option) (*mesh.Data, error) {
	return build(pipeline.Config{
		Topology: pipeline.KindCubeSphere,
		GridSize: gridSize,
		Radius:   radius,
	}, opts)
}

// GenerateRoundedBox builds a box spanning [0,x]x[0,y]x[0,z] with edges
// rounded by roundness, plus 3 box and 12 capsule colliders.
func GenerateRoundedBox(x, y, z, roundness int, opts ...Option) (*mesh.Data, error) {
	return build(pipeline.Config{
		Topology:  pipeline.KindRoundedBox,
		Size:      [3]int{x, y, z},
		Roundness: roundness,
	}, opts)
}

// GenerateRockyPlanet builds an octahedron sphere displaced by continents,
// masked mountain ridges and ocean basins, using the default ocean constants.
func GenerateRockyPlanet(subdivisions int, radius float32, continents LayerParams, mountains RidgeParams, mask LayerParams, opts ...Option) (*mesh.Data, error) {
	terrain := noise.DefaultRockyTerrain()
	terrain.Continents = continents
	terrain.Mountains = mountains
	terrain.Mask = mask
	return GenerateTerrain(subdivisions, radius, terrain, opts...)
}

// GenerateTerrain is GenerateRockyPlanet with every terrain constant exposed.
func GenerateTerrain(subdivisions int, radius float32, terrain RockyTerrain, opts ...Option) (*mesh.Data, error) {
	return build(pipeline.Config{
		Topology:     pipeline.KindOctahedron,
		Subdivisions: subdivisions,
		Radius:       radius,
		Terrain:      &terrain,
	}, opts)
}

// HashSeed starts a hash chain.
func HashSeed(seed int32) HashState {
	return smallxxhash.Seed(seed)
}

// HashEat mixes value into state. The order of calls matters.
func HashEat(state HashState, value int32) HashState {
	return state.Eat(value)
}

// HashEatByte mixes a single byte into state.
func HashEatByte(state HashState, value byte) HashState {
	return state.EatByte(value)
}

// HashFinalize runs the avalanche rounds.
func HashFinalize(state HashState) uint32 {
	return state.Sum32()
}
