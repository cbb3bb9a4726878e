package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	minPitch    = -89.0
	maxPitch    = 89.0
	minDistance = 0.05
	maxDistance = 1000.0
)

// Camera orbits a target point. Yaw and Pitch are in degrees.
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32

	Target   mgl32.Vec3
	Distance float32
	Yaw      float32
	Pitch    float32
}

func NewCamera(width, height int) *Camera {
	return &Camera{
		AspectRatio: float32(width) / float32(height),
		FOV:         60.0,
		NearPlane:   0.01,
		FarPlane:    1000.0,
		Distance:    3,
		Pitch:       20,
	}
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// Position returns the eye point on the orbit sphere.
func (c *Camera) Position() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	dir := mgl32.Vec3{
		float32(math.Cos(pitch) * math.Sin(yaw)),
		float32(math.Sin(pitch)),
		float32(math.Cos(pitch) * math.Cos(yaw)),
	}
	return c.Target.Add(dir.Mul(c.Distance))
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
}

// Orbit rotates the eye around the target. Pitch stops short of the poles
// so the up vector never lines up with the view direction.
func (c *Camera) Orbit(dYaw, dPitch float32) {
	c.Yaw = float32(math.Mod(float64(c.Yaw+dYaw), 360))
	c.Pitch = mgl32.Clamp(c.Pitch+dPitch, minPitch, maxPitch)
}

// Zoom scales the orbit distance by factor.
func (c *Camera) Zoom(factor float32) {
	if factor <= 0 {
		return
	}
	c.Distance = mgl32.Clamp(c.Distance*factor, minDistance, maxDistance)
}

// SetViewport updates the aspect ratio after a resize.
func (c *Camera) SetViewport(width, height int) {
	if height == 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

// Frame centers the bounding box and backs off until its bounding sphere
// fits the vertical field of view.
func (c *Camera) Frame(min, max mgl32.Vec3) {
	c.Target = min.Add(max).Mul(0.5)
	radius := max.Sub(min).Len() * 0.5
	if radius == 0 {
		radius = 1
	}
	half := float64(mgl32.DegToRad(c.FOV)) / 2
	c.Distance = mgl32.Clamp(radius/float32(math.Sin(half))*1.1, minDistance, maxDistance)
	c.NearPlane = c.Distance * 0.001
	c.FarPlane = c.Distance + radius*4
}
