package main

import (
	"flag"
	"log"
	"path/filepath"
	"runtime"

	"planetmesh/internal/config"
	"planetmesh/internal/graphics"
	"planetmesh/internal/input"
	"planetmesh/internal/noise"
	"planetmesh/internal/pipeline"
	"planetmesh/pkg/preset"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	var (
		settingsPath = flag.String("settings", "planetmesh.json", "generation settings file")
		presetPath   = flag.String("preset", "", "preset file to start from (dir/name.json)")
		topology     = flag.String("topology", "octahedron", "octahedron, cubesphere or roundedbox")
		radius       = flag.Float64("radius", 1, "sphere radius")
		terrain      = flag.Bool("terrain", false, "displace with rocky terrain")
		fpsLimit     = flag.Int("fps", 0, "frame rate cap; 0 keeps vsync")
	)
	flag.Parse()

	if err := config.LoadSettings(*settingsPath); err != nil {
		log.Fatal(err)
	}

	cfg, err := startConfig(*presetPath, *topology, float32(*radius), *terrain)
	if err != nil {
		log.Fatal(err)
	}

	if err := glfw.Init(); err != nil {
		log.Fatal(err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(*fpsLimit == 0)
	if err != nil {
		log.Fatal(err)
	}

	r, err := graphics.NewRenderer(graphics.WinWidth, graphics.WinHeight)
	if err != nil {
		log.Fatal(err)
	}
	defer r.Delete()

	im := input.NewInputManager()
	im.SetCallbacks(window)
	window.SetFramebufferSizeCallback(func(w *glfw.Window, fbWidth, fbHeight int) {
		gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
		r.Camera.SetViewport(fbWidth, fbHeight)
	})

	pool := pipeline.NewWorkerPool(1, 4)
	defer pool.Shutdown()

	v := NewViewer(window, r, im, pool, cfg, *fpsLimit)
	v.Run()
}

func setupWindow(vsync bool) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(graphics.WinWidth, graphics.WinHeight, "planetmesh", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()
	if vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return window, nil
}

// startConfig picks the first mesh to show: a preset file when given,
// otherwise the flags on top of the global settings.
func startConfig(presetPath, topology string, radius float32, terrain bool) (pipeline.Config, error) {
	if presetPath != "" {
		dir, name := filepath.Split(presetPath)
		p, err := preset.NewLoader(dir).Load(name)
		if err != nil {
			return pipeline.Config{}, err
		}
		return p.Config()
	}

	kind, err := pipeline.ParseKind(topology)
	if err != nil {
		return pipeline.Config{}, err
	}
	cfg := pipeline.Config{
		Topology:     kind,
		Subdivisions: config.GetDefaultSubdivisions(),
		GridSize:     8,
		Size:         [3]int{4, 3, 2},
		Roundness:    1,
		Radius:       radius,
	}
	if terrain {
		t := noise.DefaultRockyTerrain()
		cfg.Terrain = &t
		src, err := noise.NewSource(config.GetNoiseBackend(), config.GetSeed())
		if err != nil {
			return pipeline.Config{}, err
		}
		cfg.Noise = src
	}
	return cfg, nil
}
