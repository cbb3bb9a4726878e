package main

import (
	"fmt"
	"log"
	"time"

	"planetmesh/internal/export"
	"planetmesh/internal/graphics"
	"planetmesh/internal/input"
	"planetmesh/internal/noise"
	"planetmesh/internal/pipeline"
	"planetmesh/internal/preview"
	"planetmesh/internal/profiling"
	"planetmesh/pkg/mesh"

	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	orbitSpeed = 90.0 // degrees per second
	dragScale  = 0.3  // degrees per pixel
	zoomStep   = 1.1

	heightMapWidth = 256
)

// Viewer manages the main loop state
type Viewer struct {
	window       *glfw.Window
	renderer     *graphics.Renderer
	inputManager *input.InputManager
	pool         *pipeline.WorkerPool

	cfg     pipeline.Config
	current *mesh.Data
	results chan pipeline.BuildResult
	builds  int
	seed    int64

	showProfiling bool
	limiter       frameLimiter

	// Timing
	frames           int
	lastFPSCheckTime time.Time
	lastTime         time.Time
}

func NewViewer(window *glfw.Window, r *graphics.Renderer, im *input.InputManager, pool *pipeline.WorkerPool, cfg pipeline.Config, fpsLimit int) *Viewer {
	return &Viewer{
		limiter:          frameLimiter{limit: fpsLimit},
		window:           window,
		renderer:         r,
		inputManager:     im,
		pool:             pool,
		cfg:              cfg,
		results:          make(chan pipeline.BuildResult, 4),
		lastFPSCheckTime: time.Now(),
		lastTime:         time.Now(),
	}
}

// Run blocks until the window closes.
func (v *Viewer) Run() {
	v.rebuild()
	for !v.window.ShouldClose() {
		v.tick()
	}
}

func (v *Viewer) tick() {
	now := time.Now()
	dt := now.Sub(v.lastTime).Seconds()
	v.lastTime = now

	func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()
	v.handleInputActions(dt)
	v.processBuildResults()

	func() { defer profiling.Track("renderer.Render")(); v.renderer.Render(dt) }()
	func() { defer profiling.Track("glfw.SwapBuffers")(); v.window.SwapBuffers() }()
	v.inputManager.PostUpdate()
	v.limiter.Wait(v.window.GetAttrib(glfw.Iconified) == glfw.True)

	v.frames++
	if time.Since(v.lastFPSCheckTime) >= time.Second {
		if v.showProfiling {
			log.Printf("FPS: %d  %s", v.frames, profiling.TopN(5))
		}
		profiling.Reset()
		v.frames = 0
		v.lastFPSCheckTime = time.Now()
	}
}

func (v *Viewer) handleInputActions(dt float64) {
	im := v.inputManager
	cam := v.renderer.Camera

	if im.JustPressed(input.ActionQuit) {
		v.window.SetShouldClose(true)
	}

	// Continuous orbit from held keys
	step := float32(orbitSpeed * dt)
	if im.IsActive(input.ActionOrbitLeft) {
		cam.Orbit(-step, 0)
	}
	if im.IsActive(input.ActionOrbitRight) {
		cam.Orbit(step, 0)
	}
	if im.IsActive(input.ActionOrbitUp) {
		cam.Orbit(0, step)
	}
	if im.IsActive(input.ActionOrbitDown) {
		cam.Orbit(0, -step)
	}
	if dx, dy := im.Drag(); dx != 0 || dy != 0 {
		cam.Orbit(float32(-dx*dragScale), float32(dy*dragScale))
	}

	if s := im.Scroll(); s != 0 {
		if s > 0 {
			v.renderer.Zoom(1 / zoomStep)
		} else {
			v.renderer.Zoom(zoomStep)
		}
	}
	if im.JustPressed(input.ActionZoomIn) {
		v.renderer.Zoom(1 / zoomStep)
	}
	if im.JustPressed(input.ActionZoomOut) {
		v.renderer.Zoom(zoomStep)
	}

	if im.JustPressed(input.ActionToggleWireframe) {
		v.renderer.Wireframe = !v.renderer.Wireframe
	}
	if im.JustPressed(input.ActionToggleColliders) {
		v.renderer.ShowColliders = !v.renderer.ShowColliders
	}
	if im.JustPressed(input.ActionCycleShading) {
		v.renderer.Mode = v.renderer.Mode.Next()
		log.Printf("shading: %v", v.renderer.Mode)
	}
	if im.JustPressed(input.ActionToggleProfiling) {
		v.showProfiling = !v.showProfiling
	}
	if im.JustPressed(input.ActionExport) {
		v.export()
	}

	// Anything below changes the mesh
	changed := false
	if im.JustPressed(input.ActionMoreDetail) {
		changed = v.adjustDetail(1)
	}
	if im.JustPressed(input.ActionLessDetail) {
		changed = v.adjustDetail(-1) || changed
	}
	if im.JustPressed(input.ActionNextTopology) {
		v.cfg.Topology = (v.cfg.Topology + 1) % 3
		if v.cfg.Topology == pipeline.KindRoundedBox {
			v.cfg.Terrain, v.cfg.Seeded = nil, nil
		}
		changed = true
	}
	if im.JustPressed(input.ActionToggleTerrain) && v.cfg.Topology != pipeline.KindRoundedBox {
		if v.cfg.Terrain != nil {
			v.cfg.Terrain = nil
		} else {
			t := noise.DefaultRockyTerrain()
			v.cfg.Terrain = &t
		}
		changed = true
	}
	if im.JustPressed(input.ActionReseed) {
		v.seed++
		v.cfg.Noise = noise.NewSimplex(v.seed)
		changed = changed || v.cfg.Terrain != nil || v.cfg.Seeded != nil
	}
	if changed {
		v.rebuild()
	}
}

// adjustDetail steps the resolution parameter of the current topology.
// Shift steps the rounded box roundness instead of its size.
func (v *Viewer) adjustDetail(delta int) bool {
	switch v.cfg.Topology {
	case pipeline.KindOctahedron:
		next := v.cfg.Subdivisions + delta
		if next < 0 || next > 6 {
			return false
		}
		v.cfg.Subdivisions = next
	case pipeline.KindCubeSphere:
		next := v.cfg.GridSize + delta
		if next < 1 || next > 128 {
			return false
		}
		v.cfg.GridSize = next
	case pipeline.KindRoundedBox:
		if v.inputManager.IsActive(input.ActionModShift) {
			next := v.cfg.Roundness + delta
			smallest := min(v.cfg.Size[0], v.cfg.Size[1], v.cfg.Size[2])
			if next < 1 || 2*next > smallest {
				return false
			}
			v.cfg.Roundness = next
			return true
		}
		for a := range v.cfg.Size {
			next := v.cfg.Size[a] + delta
			if next < 2*v.cfg.Roundness || next > 64 {
				return false
			}
		}
		for a := range v.cfg.Size {
			v.cfg.Size[a] += delta
		}
	}
	return true
}

// rebuild submits the current configuration to the worker pool. The result
// is picked up by processBuildResults on a later frame.
func (v *Viewer) rebuild() {
	v.builds++
	job := pipeline.BuildJob{
		ID:         fmt.Sprintf("build-%d", v.builds),
		Config:     v.cfg,
		ResultChan: v.results,
	}
	if !v.pool.SubmitJob(job) {
		log.Printf("build queue full, dropping %s", job.ID)
		return
	}
}

func (v *Viewer) processBuildResults() {
	defer profiling.Track("viewer.ProcessBuildResults")()
	for {
		select {
		case res := <-v.results:
			// only the newest build is shown
			if res.ID != fmt.Sprintf("build-%d", v.builds) {
				continue
			}
			if res.Error != nil {
				log.Printf("%s: %v", res.ID, res.Error)
				continue
			}
			for _, w := range res.Mesh.Warnings {
				log.Print(w)
			}
			v.current = res.Mesh
			v.renderer.SetMesh(res.Mesh)
			v.updateHeightMap()
			v.window.SetTitle(fmt.Sprintf("planetmesh - %s (%d vertices, %d triangles)",
				res.Mesh.Name, res.Mesh.VertexCount(), res.Mesh.TriangleCount()))
		default:
			return
		}
	}
}

// updateHeightMap refreshes the texture shown in height shading from the
// current displacement settings.
func (v *Viewer) updateHeightMap() {
	defer profiling.Track("viewer.UpdateHeightMap")()
	src := v.cfg.Noise
	if src == nil {
		src = noise.NewSimplex(0)
	}
	var h preview.HeightFunc
	switch {
	case v.cfg.Terrain != nil:
		h = preview.TerrainHeight(src, *v.cfg.Terrain)
	case v.cfg.Seeded != nil:
		h = preview.SeededHeight(src, *v.cfg.Seeded)
	default:
		if err := v.renderer.SetHeightTexture(nil); err != nil {
			log.Printf("height map: %v", err)
		}
		return
	}

	values, err := preview.HeightField(nil, h, heightMapWidth, heightMapWidth/2)
	if err != nil {
		log.Printf("height map: %v", err)
		return
	}
	img := preview.HeightImage(values, heightMapWidth, heightMapWidth/2, 1)
	if err := v.renderer.SetHeightTexture(img); err != nil {
		log.Printf("height map: %v", err)
	}
}

func (v *Viewer) export() {
	if v.current == nil {
		return
	}
	path := fmt.Sprintf("planetmesh-%d.obj", time.Now().Unix())
	if err := export.SaveOBJ(path, v.current); err != nil {
		log.Printf("export failed: %v", err)
		return
	}
	log.Printf("wrote %s", path)
}
