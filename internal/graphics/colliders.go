package graphics

import (
	"math"

	"planetmesh/pkg/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// ColliderLines outlines each collider as line segment pairs suitable for
// gl.LINES. Curved outlines use segments steps per full circle.
func ColliderLines(cs []mesh.Collider, segments int) []mgl32.Vec3 {
	segments = max(segments, 4)
	var out []mgl32.Vec3
	for _, c := range cs {
		switch c.Kind {
		case mesh.ColliderSphere:
			for axis := 0; axis < 3; axis++ {
				out = appendArc(out, c.Center, axis, c.Radius, 0, 2*math.Pi, segments)
			}
		case mesh.ColliderBox:
			out = appendBox(out, c.Center, c.Size.Mul(0.5))
		case mesh.ColliderCapsule:
			out = appendCapsule(out, c, segments)
		}
	}
	return out
}

var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func appendBox(out []mgl32.Vec3, center, half mgl32.Vec3) []mgl32.Vec3 {
	var corners [8]mgl32.Vec3
	for i := range corners {
		corners[i] = center
		for a := 0; a < 3; a++ {
			if i&(1<<a) != 0 {
				corners[i][a] += half[a]
			} else {
				corners[i][a] -= half[a]
			}
		}
	}
	for _, e := range boxEdges {
		out = append(out, corners[e[0]], corners[e[1]])
	}
	return out
}

// appendArc adds an arc in the plane perpendicular to axis, from angle a0
// to a1 measured from the next axis in cyclic order.
func appendArc(out []mgl32.Vec3, center mgl32.Vec3, axis int, radius float32, a0, a1 float64, segments int) []mgl32.Vec3 {
	u, v := (axis+1)%3, (axis+2)%3
	steps := max(1, int(math.Ceil(float64(segments)*(a1-a0)/(2*math.Pi))))
	point := func(t float64) mgl32.Vec3 {
		p := center
		p[u] += radius * float32(math.Cos(t))
		p[v] += radius * float32(math.Sin(t))
		return p
	}
	prev := point(a0)
	for s := 1; s <= steps; s++ {
		next := point(a0 + (a1-a0)*float64(s)/float64(steps))
		out = append(out, prev, next)
		prev = next
	}
	return out
}

func appendCapsule(out []mgl32.Vec3, c mesh.Collider, segments int) []mgl32.Vec3 {
	axis := c.Axis
	half := max(c.Height/2-c.Radius, 0)
	u, v := (axis+1)%3, (axis+2)%3

	top, bottom := c.Center, c.Center
	top[axis] += half
	bottom[axis] -= half

	out = appendArc(out, top, axis, c.Radius, 0, 2*math.Pi, segments)
	out = appendArc(out, bottom, axis, c.Radius, 0, 2*math.Pi, segments)

	// side lines
	for _, off := range []struct {
		a    int
		sign float32
	}{{u, 1}, {u, -1}, {v, 1}, {v, -1}} {
		a, b := top, bottom
		a[off.a] += off.sign * c.Radius
		b[off.a] += off.sign * c.Radius
		out = append(out, a, b)
	}

	// end caps as half circles in the two planes containing the axis
	for _, side := range []struct {
		p    mgl32.Vec3
		sign float32
	}{{top, 1}, {bottom, -1}} {
		for _, across := range []int{u, v} {
			steps := max(2, segments/2)
			prev := side.p
			prev[across] += c.Radius
			for s := 1; s <= steps; s++ {
				t := math.Pi * float64(s) / float64(steps)
				next := side.p
				next[across] += c.Radius * float32(math.Cos(t))
				next[axis] += side.sign * c.Radius * float32(math.Sin(t))
				out = append(out, prev, next)
				prev = next
			}
		}
	}
	return out
}
