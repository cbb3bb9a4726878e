package pipeline

import (
	"context"
	"fmt"

	"planetmesh/internal/config"
	"planetmesh/internal/noise"
	"planetmesh/internal/parallel"
	"planetmesh/internal/profiling"
	"planetmesh/pkg/mesh"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// weldEpsilon is the distance under which vertices count as coincident when
// normals are recalculated, relative to the radius.
const weldEpsilon = 1e-5

// builder carries the state of one Build. Stages run in order; each parallel
// stage returns only after all of its batches have finished.
type builder struct {
	cfg   Config
	pool  pond.Pool
	batch int
	data  *mesh.Data
}

// Build generates the mesh described by cfg. ctx is checked once before any
// work starts; a build that has started always runs to completion.
func Build(ctx context.Context, cfg Config) (*mesh.Data, error) {
	defer profiling.Track("pipeline.Build")()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	b := &builder{cfg: cfg, pool: cfg.Pool, batch: cfg.BatchSize, data: &mesh.Data{}}
	if b.batch <= 0 {
		b.batch = config.GetBatchSize()
	}
	if b.pool == nil {
		workers := cfg.Workers
		if workers <= 0 {
			workers = config.GetWorkers()
		}
		b.pool = parallel.NewPool(workers)
		defer b.pool.StopAndWait()
	}

	var err error
	switch cfg.Topology {
	case KindOctahedron:
		err = b.octahedron()
	case KindCubeSphere:
		err = b.cubeSphere()
	case KindRoundedBox:
		err = b.roundedBox()
	}
	if err != nil {
		return nil, fmt.Errorf("building %v: %w", cfg.Topology, err)
	}
	if cfg.Name != "" {
		b.data.Name = cfg.Name
	}
	return b.data, nil
}

// warn logs an advisory and records it on the mesh.
func (b *builder) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	b.cfg.logger().Printf("pipeline: %s", msg)
	b.data.Warnings = append(b.data.Warnings, msg)
}

// run executes a parallel stage over n vertices.
func (b *builder) run(stage string, n int, kernels ...parallel.Kernel) error {
	defer profiling.Track("pipeline." + stage)()
	if err := parallel.For(b.pool, n, b.batch, kernels...); err != nil {
		return fmt.Errorf("stage %s: %w", stage, err)
	}
	return nil
}

// step executes a sequential stage.
func (b *builder) step(stage string, fn func()) {
	defer profiling.Track("pipeline." + stage)()
	fn()
}

func (b *builder) noiseSource() noise.Source {
	if b.cfg.Noise != nil {
		return b.cfg.Noise
	}
	return noise.NewSimplex(0)
}

// displace moves every position to its height and reports the largest
// resulting distance from the centre.
func (b *builder) displace() (float32, error) {
	d := b.data
	src := b.noiseSource()
	radius := b.cfg.Radius

	var move func(p mgl32.Vec3) mgl32.Vec3
	switch {
	case b.cfg.Terrain != nil:
		if b.cfg.Seeded != nil {
			b.warn("both rocky terrain and seeded height set; using rocky terrain")
		}
		terrain := *b.cfg.Terrain
		move = func(p mgl32.Vec3) mgl32.Vec3 { return terrain.Displace(src, p, radius) }
	default:
		seeded := *b.cfg.Seeded
		move = func(p mgl32.Vec3) mgl32.Vec3 { return seeded.Displace(src, p, radius) }
	}

	err := b.run("height", len(d.Positions), func(start, end int) {
		for i := start; i < end; i++ {
			d.Positions[i] = move(d.Positions[i])
		}
	})
	if err != nil {
		return 0, err
	}

	var extent float32
	for _, p := range d.Positions {
		extent = max(extent, p.Len())
	}
	return extent, nil
}

// recalculateNormals rebuilds normals from the displaced surface and bends
// the tangents, if any, back into the tangent plane.
func (b *builder) recalculateNormals() error {
	d := b.data
	b.step("normals", func() {
		mesh.RecalculateNormals(d.Positions, d.Indices(), d.Normals, weldEpsilon*b.cfg.Radius)
	})
	if d.Tangents == nil {
		return nil
	}
	return b.run("tangents.orthogonalize", len(d.Tangents), func(start, end int) {
		mesh.OrthogonalizeTangents(d.Normals, d.Tangents, start, end)
	})
}
