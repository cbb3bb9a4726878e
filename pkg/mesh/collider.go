package mesh

import "github.com/go-gl/mathgl/mgl32"

// ColliderKind identifies a primitive collision volume.
type ColliderKind uint8

const (
	ColliderSphere ColliderKind = iota
	ColliderBox
	ColliderCapsule
)

func (k ColliderKind) String() string {
	switch k {
	case ColliderSphere:
		return "sphere"
	case ColliderBox:
		return "box"
	case ColliderCapsule:
		return "capsule"
	}
	return "unknown"
}

// Collider describes a primitive volume derived from the same size
// parameters as the mesh. Which fields apply depends on Kind:
// spheres use Radius, boxes use Size, capsules use Radius, Height and Axis.
type Collider struct {
	Kind   ColliderKind
	Center mgl32.Vec3
	Size   mgl32.Vec3
	Radius float32
	Height float32
	Axis   int // 0=x, 1=y, 2=z
}

// SphereCollider returns a sphere volume centered at the origin.
func SphereCollider(radius float32) Collider {
	return Collider{Kind: ColliderSphere, Radius: radius}
}

// BoxCollider returns a box volume with the given size centered at center.
func BoxCollider(center, size mgl32.Vec3) Collider {
	return Collider{Kind: ColliderBox, Center: center, Size: size}
}

// CapsuleCollider returns a capsule along axis. The height spans the full
// capsule including both caps.
func CapsuleCollider(axis int, center mgl32.Vec3, radius, height float32) Collider {
	return Collider{Kind: ColliderCapsule, Axis: axis, Center: center, Radius: radius, Height: height}
}

// CountKind returns how many colliders of kind k are present.
func CountKind(cs []Collider, k ColliderKind) int {
	n := 0
	for _, c := range cs {
		if c.Kind == k {
			n++
		}
	}
	return n
}
