package graphics

import (
	_ "embed"
	"fmt"
	"image"

	"planetmesh/pkg/mesh"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	WinWidth  = 900
	WinHeight = 600
)

var (
	//go:embed shaders/mesh.vert
	meshVertSrc string
	//go:embed shaders/mesh.frag
	meshFragSrc string
	//go:embed shaders/line.vert
	lineVertSrc string
	//go:embed shaders/line.frag
	lineFragSrc string
)

// ShadeMode selects what the fragment shader visualizes.
type ShadeMode int32

const (
	ShadeLit ShadeMode = iota
	ShadeNormals
	ShadeUV
	ShadeLattice
	ShadeHeight
	shadeModes
)

func (m ShadeMode) String() string {
	switch m {
	case ShadeLit:
		return "lit"
	case ShadeNormals:
		return "normals"
	case ShadeUV:
		return "uv"
	case ShadeLattice:
		return "lattice"
	case ShadeHeight:
		return "height"
	}
	return fmt.Sprintf("ShadeMode(%d)", int32(m))
}

// Next cycles to the following mode.
func (m ShadeMode) Next() ShadeMode {
	return (m + 1) % shadeModes
}

// Submesh tints, one per triangulation axis.
var SubmeshTints = []mgl32.Vec3{
	{0.85, 0.55, 0.35},
	{0.45, 0.75, 0.45},
	{0.40, 0.55, 0.85},
}

type Renderer struct {
	meshShader *Shader
	lineShader *Shader
	Camera     *Camera

	gpu       *GPUMesh
	gridSize  float32
	heightTex uint32

	lineVAO   uint32
	lineVBO   uint32
	lineCount int32

	Mode          ShadeMode
	Wireframe     bool
	ShowColliders bool

	// Zoom transition
	targetDistance float32
}

func NewRenderer(width, height int) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, err
	}

	// Configure OpenGL
	gl.Enable(gl.DEPTH_TEST)
	// Enable back-face culling (generated meshes wind CCW when seen from outside)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	meshShader, err := NewShaderFromSource(meshVertSrc, meshFragSrc)
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	lineShader, err := NewShaderFromSource(lineVertSrc, lineFragSrc)
	if err != nil {
		meshShader.Delete()
		return nil, fmt.Errorf("line shader: %w", err)
	}

	r := &Renderer{
		meshShader:    meshShader,
		lineShader:    lineShader,
		Camera:        NewCamera(width, height),
		ShowColliders: true,
	}
	r.targetDistance = r.Camera.Distance
	r.setupLineVAO()
	return r, nil
}

func (r *Renderer) setupLineVAO() {
	gl.GenVertexArrays(1, &r.lineVAO)
	gl.BindVertexArray(r.lineVAO)

	gl.GenBuffers(1, &r.lineVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	// filled by SetMesh

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.BindVertexArray(0)
}

// SetMesh replaces the displayed mesh and frames the camera on it.
func (r *Renderer) SetMesh(d *mesh.Data) {
	if r.gpu != nil {
		r.gpu.Delete()
	}
	r.gpu = Upload(d)

	r.gridSize = 1
	for _, c := range d.Colors {
		for a := 0; a < 3; a++ {
			r.gridSize = max(r.gridSize, float32(c[a]))
		}
	}

	lines := ColliderLines(d.Colliders, 32)
	r.lineCount = int32(len(lines))
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	if len(lines) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(lines)*3*4, gl.Ptr(lines), gl.DYNAMIC_DRAW)
	}

	lo, hi := d.Bounds()
	r.Camera.Frame(lo, hi)
	r.targetDistance = r.Camera.Distance
}

// SetHeightTexture replaces the equirectangular map shown in ShadeHeight
// mode. A nil image clears it.
func (r *Renderer) SetHeightTexture(img image.Image) error {
	if r.heightTex != 0 {
		gl.DeleteTextures(1, &r.heightTex)
		r.heightTex = 0
	}
	if img == nil {
		return nil
	}
	tex, err := UploadTexture(img)
	if err != nil {
		return err
	}
	r.heightTex = tex
	return nil
}

// Zoom eases the camera toward a new orbit distance over the next frames.
func (r *Renderer) Zoom(factor float32) {
	r.targetDistance = mgl32.Clamp(r.targetDistance*factor, minDistance, maxDistance)
}

// approach moves current toward target by at most step.
func approach(current, target, step float32) float32 {
	if current < target {
		return min(current+step, target)
	}
	return max(current-step, target)
}

func (r *Renderer) Render(dt float64) {
	gl.ClearColor(0.08, 0.09, 0.12, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	// Smooth zoom, proportional to the remaining distance
	step := float32(dt) * 8 * abs32(r.targetDistance-r.Camera.Distance)
	r.Camera.Distance = approach(r.Camera.Distance, r.targetDistance, max(step, 1e-4))

	view := r.Camera.GetViewMatrix()
	projection := r.Camera.GetProjectionMatrix()

	if r.gpu != nil {
		if r.Wireframe {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		} else {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		}
		r.renderMesh(view, projection)
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	if r.ShowColliders && r.lineCount > 0 {
		r.renderColliders(view, projection)
	}
}

func (r *Renderer) renderMesh(view, projection mgl32.Mat4) {
	model := mgl32.Ident4()
	r.meshShader.Use()
	r.meshShader.SetMat4("model", model)
	r.meshShader.SetMat4("view", view)
	r.meshShader.SetMat4("projection", projection)
	r.meshShader.SetMat3("normalMatrix", model.Mat3().Inv().Transpose())
	r.meshShader.SetVec3("lightDir", mgl32.Vec3{-0.4, -0.8, -0.5})
	r.meshShader.SetInt("mode", int32(r.Mode))
	r.meshShader.SetFloat("gridSize", r.gridSize)
	r.meshShader.SetBool("hasHeight", r.heightTex != 0)
	if r.heightTex != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.heightTex)
		r.meshShader.SetInt("heightTex", 0)
	}

	for i := 0; i < r.gpu.Submeshes(); i++ {
		r.meshShader.SetVec3("tint", SubmeshTints[i%len(SubmeshTints)])
		r.gpu.DrawSubmesh(i)
	}
}

func (r *Renderer) renderColliders(view, projection mgl32.Mat4) {
	r.lineShader.Use()
	r.lineShader.SetMat4("view", view)
	r.lineShader.SetMat4("projection", projection)
	r.lineShader.SetVec3("color", mgl32.Vec3{1, 0.9, 0.2})

	gl.BindVertexArray(r.lineVAO)
	gl.DrawArrays(gl.LINES, 0, r.lineCount)
	gl.BindVertexArray(0)
}

// Delete releases every GPU resource held by the renderer.
func (r *Renderer) Delete() {
	if r.gpu != nil {
		r.gpu.Delete()
	}
	if r.heightTex != 0 {
		gl.DeleteTextures(1, &r.heightTex)
	}
	gl.DeleteBuffers(1, &r.lineVBO)
	gl.DeleteVertexArrays(1, &r.lineVAO)
	r.meshShader.Delete()
	r.lineShader.Delete()
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
