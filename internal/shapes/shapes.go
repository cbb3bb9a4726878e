package shapes

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Point4 is four consecutive samples of a shape.
type Point4 struct {
	Positions [4]mgl32.Vec3
	Normals   [4]mgl32.Vec3
}

// Shape maps the i-th group of four grid samples onto a surface.
type Shape interface {
	Point4(i int, resolution, invResolution float32) Point4
}

var ErrUnknownShape = errors.New("unknown shape")

// ByName returns the shape called plane, sphere or torus.
func ByName(name string) (Shape, error) {
	switch strings.ToLower(name) {
	case "plane":
		return Plane{}, nil
	case "sphere":
		return Sphere{}, nil
	case "torus":
		return Torus{}, nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownShape)
}

// GroupCount returns how many groups of four cover a resolution x resolution grid.
func GroupCount(resolution int) int {
	n := resolution * resolution
	return (n + 3) / 4
}

// IndexTo4UV returns the cell-centre UVs of grid samples 4i..4i+3 on a
// resolution x resolution grid.
func IndexTo4UV(i int, resolution, invResolution float32) [4]mgl32.Vec2 {
	var uv [4]mgl32.Vec2
	for k := 0; k < 4; k++ {
		idx := float32(4*i + k)
		row := float32(math.Floor(float64(invResolution*idx + 0.00001)))
		uv[k] = mgl32.Vec2{
			invResolution * (idx - resolution*row + 0.5),
			invResolution * (row + 0.5),
		}
	}
	return uv
}

// Plane is the unit square in the XZ plane facing up.
type Plane struct{}

func (Plane) Point4(i int, resolution, invResolution float32) Point4 {
	uv := IndexTo4UV(i, resolution, invResolution)
	var p Point4
	for k := range uv {
		p.Positions[k] = mgl32.Vec3{uv[k][0] - 0.5, 0, uv[k][1] - 0.5}
		p.Normals[k] = mgl32.Vec3{0, 1, 0}
	}
	return p
}

// Sphere folds the grid into an octahedron and inflates it to radius 0.5.
type Sphere struct{}

func (Sphere) Point4(i int, resolution, invResolution float32) Point4 {
	uv := IndexTo4UV(i, resolution, invResolution)
	var p Point4
	for k := range uv {
		x := uv[k][0] - 0.5
		y := uv[k][1] - 0.5
		z := 0.5 - abs32(x) - abs32(y)
		offset := max(-z, 0)
		if x < 0 {
			x += offset
		} else {
			x -= offset
		}
		if y < 0 {
			y += offset
		} else {
			y -= offset
		}
		v := mgl32.Vec3{x, y, z}.Normalize().Mul(0.5)
		p.Positions[k] = v
		p.Normals[k] = v
	}
	return p
}

// Torus ring and tube radii.
const (
	torusMajor = 0.375
	torusMinor = 0.125
)

// Torus wraps u around the ring and v around the tube.
type Torus struct{}

func (Torus) Point4(i int, resolution, invResolution float32) Point4 {
	uv := IndexTo4UV(i, resolution, invResolution)
	var p Point4
	for k := range uv {
		su, cu := math.Sincos(2 * math.Pi * float64(uv[k][0]))
		sv, cv := math.Sincos(2 * math.Pi * float64(uv[k][1]))
		s := torusMajor + torusMinor*cv
		pos := mgl32.Vec3{float32(s * su), float32(torusMinor * sv), float32(s * cu)}
		p.Positions[k] = pos
		p.Normals[k] = pos.Sub(mgl32.Vec3{float32(torusMajor * su), 0, float32(torusMajor * cu)})
	}
	return p
}

func abs32(f float32) float32 {
	return float32(math.Abs(float64(f)))
}
