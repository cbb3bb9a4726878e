package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"planetmesh/internal/config"
	"planetmesh/internal/export"
	"planetmesh/internal/noise"
	"planetmesh/internal/parallel"
	"planetmesh/internal/pipeline"
	"planetmesh/internal/preview"
	"planetmesh/internal/profiling"
	"planetmesh/internal/shapes"
	"planetmesh/pkg/preset"
	"planetmesh/pkg/smallxxhash"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
)

func main() {
	var (
		settingsPath = flag.String("settings", "planetmesh.json", "generation settings file")
		presetPath   = flag.String("preset", "", "preset file to build (dir/name.json)")
		topology     = flag.String("topology", "octahedron", "octahedron, cubesphere or roundedbox")
		subdivisions = flag.Int("subdivisions", -1, "octahedron subdivisions (-1 uses the settings default)")
		gridSize     = flag.Int("grid", 8, "cube sphere grid size")
		sizeX        = flag.Int("x", 4, "rounded box size along X")
		sizeY        = flag.Int("y", 3, "rounded box size along Y")
		sizeZ        = flag.Int("z", 2, "rounded box size along Z")
		roundness    = flag.Int("roundness", 1, "rounded box roundness")
		radius       = flag.Float64("radius", 1, "sphere radius")
		terrain      = flag.Bool("terrain", false, "displace with rocky terrain")
		seeded       = flag.Bool("seeded", false, "displace with seeded 4D height")
		backend      = flag.String("noise", "", "noise backend (simplex, perlin, lattice; empty uses settings)")
		seed         = flag.Int64("seed", -1, "noise seed (-1 uses the settings default)")
		objPath      = flag.String("obj", "", "write Wavefront OBJ to this path")
		binPath      = flag.String("bin", "", "write binary mesh to this path")
		heightPath   = flag.String("heightmap", "", "write an equirectangular height preview PNG")
		previewWidth = flag.Int("preview-width", 256, "height preview width in pixels")
		hashPath     = flag.String("hashmap", "", "write a hash visualization PNG")
		hashShape    = flag.String("hash-shape", "sphere", "plane, sphere or torus")
		hashRes      = flag.Int("hash-res", 32, "hash visualization resolution")
		hashScale    = flag.Float64("hash-scale", 8, "hash lattice cells per unit")
		upscale      = flag.Int("upscale", 2, "PNG upscale factor")
		profile      = flag.Bool("profile", false, "print stage timings")
	)
	flag.Parse()

	if err := config.LoadSettings(*settingsPath); err != nil {
		log.Fatal(err)
	}
	if *subdivisions >= 0 {
		config.SetDefaultSubdivisions(*subdivisions)
	}
	if *seed >= 0 {
		config.SetSeed(*seed)
	}
	if *backend != "" {
		config.SetNoiseBackend(*backend)
	}

	var cfg pipeline.Config
	var err error
	if *presetPath != "" {
		cfg, err = presetConfig(*presetPath)
	} else {
		cfg, err = flagConfig(*topology, *gridSize, [3]int{*sizeX, *sizeY, *sizeZ}, *roundness, float32(*radius), *terrain, *seeded)
	}
	if err != nil {
		log.Fatal(err)
	}
	if *subdivisions >= 0 {
		cfg.Subdivisions = *subdivisions
	}

	pool := parallel.NewPool(config.GetWorkers())
	defer pool.StopAndWait()
	cfg.Pool = pool
	cfg.BatchSize = config.GetBatchSize()

	data, err := pipeline.Build(context.Background(), cfg)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%s: %d vertices, %d triangles, %d submeshes, %d colliders",
		data.Name, data.VertexCount(), data.TriangleCount(), len(data.Submeshes), len(data.Colliders))

	if *objPath != "" {
		if err := export.SaveOBJ(*objPath, data); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", *objPath)
	}
	if *binPath != "" {
		if err := export.SaveBinary(*binPath, data); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", *binPath)
	}
	if *heightPath != "" {
		if err := writeHeightPreview(pool, cfg, *heightPath, *previewWidth, *upscale); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", *heightPath)
	}
	if *hashPath != "" {
		if err := writeHashPreview(pool, *hashPath, *hashShape, *hashRes, float32(*hashScale), *upscale); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", *hashPath)
	}

	if *profile {
		fmt.Println(profiling.TopN(8))
	}
}

func presetConfig(path string) (pipeline.Config, error) {
	dir, name := filepath.Split(path)
	p, err := preset.NewLoader(dir).Load(name)
	if err != nil {
		return pipeline.Config{}, err
	}
	return p.Config()
}

func flagConfig(topology string, gridSize int, size [3]int, roundness int, radius float32, terrain, seeded bool) (pipeline.Config, error) {
	kind, err := pipeline.ParseKind(topology)
	if err != nil {
		return pipeline.Config{}, err
	}
	cfg := pipeline.Config{
		Topology:     kind,
		Subdivisions: config.GetDefaultSubdivisions(),
		GridSize:     gridSize,
		Size:         size,
		Roundness:    roundness,
		Radius:       radius,
	}
	if terrain {
		t := noise.DefaultRockyTerrain()
		cfg.Terrain = &t
	}
	if seeded {
		s := noise.DefaultSeededHeight()
		cfg.Seeded = &s
	}
	if terrain || seeded {
		src, err := noise.NewSource(config.GetNoiseBackend(), config.GetSeed())
		if err != nil {
			return pipeline.Config{}, err
		}
		cfg.Noise = src
	}
	return cfg, nil
}

// writeHeightPreview maps the configured height function over the sphere.
// Meshes without displacement preview the default rocky terrain.
func writeHeightPreview(pool pond.Pool, cfg pipeline.Config, path string, width, factor int) error {
	src := cfg.Noise
	if src == nil {
		src = noise.NewSimplex(0)
	}
	var h preview.HeightFunc
	label := "rocky terrain"
	switch {
	case cfg.Terrain != nil:
		h = preview.TerrainHeight(src, *cfg.Terrain)
	case cfg.Seeded != nil:
		h = preview.SeededHeight(src, *cfg.Seeded)
		label = "seeded height"
	default:
		h = preview.TerrainHeight(src, noise.DefaultRockyTerrain())
	}

	height := max(width/2, 1)
	values, err := preview.HeightField(pool, h, width, height)
	if err != nil {
		return err
	}
	img := preview.Upscale(preview.HeightImage(values, width, height, 1), factor, true)
	captioned, err := preview.Caption(img, fmt.Sprintf("%s, seed %d", label, config.GetSeed()), 14)
	if err != nil {
		return err
	}
	return preview.SavePNG(path, captioned)
}

func writeHashPreview(pool pond.Pool, path, shapeName string, res int, scale float32, factor int) error {
	shape, err := shapes.ByName(shapeName)
	if err != nil {
		return err
	}
	field, err := shapes.Sample(pool, shape, res, mgl32.Ident4())
	if err != nil {
		return err
	}
	hashes, err := shapes.HashField(pool, field, mgl32.Scale3D(scale, scale, scale), smallxxhash.Seed(int32(config.GetSeed())))
	if err != nil {
		return err
	}
	return preview.SavePNG(path, preview.Upscale(preview.HashImage(field, hashes), factor, false))
}
