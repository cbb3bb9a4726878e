package shapes

import (
	"fmt"
	"math"

	"planetmesh/internal/parallel"
	"planetmesh/pkg/smallxxhash"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// Field holds the transformed samples of a shape, four per group.
type Field struct {
	Resolution int
	Positions  [][4]mgl32.Vec3
	Normals    [][4]mgl32.Vec3
}

// Len is the number of grid samples the field represents.
func (f *Field) Len() int {
	return f.Resolution * f.Resolution
}

// Flatten returns the first Len samples as plain slices.
func (f *Field) Flatten() (positions, normals []mgl32.Vec3) {
	n := f.Len()
	positions = make([]mgl32.Vec3, 0, n)
	normals = make([]mgl32.Vec3, 0, n)
	for g := range f.Positions {
		for k := 0; k < 4 && len(positions) < n; k++ {
			positions = append(positions, f.Positions[g][k])
			normals = append(normals, f.Normals[g][k])
		}
	}
	return positions, normals
}

// Sample evaluates shape on a resolution x resolution grid. Positions are
// transformed by trs, normals by its inverse transpose and renormalized.
func Sample(pool pond.Pool, shape Shape, resolution int, trs mgl32.Mat4) (*Field, error) {
	if resolution < 1 {
		return nil, fmt.Errorf("shape resolution %d must be positive", resolution)
	}
	groups := GroupCount(resolution)
	f := &Field{
		Resolution: resolution,
		Positions:  make([][4]mgl32.Vec3, groups),
		Normals:    make([][4]mgl32.Vec3, groups),
	}
	normalTRS := trs.Inv().Transpose()
	res := float32(resolution)
	inv := 1 / res

	err := parallel.For(pool, groups, resolution, func(start, end int) {
		for i := start; i < end; i++ {
			p := shape.Point4(i, res, inv)
			for k := 0; k < 4; k++ {
				f.Positions[i][k] = mgl32.TransformCoordinate(p.Positions[k], trs)
				f.Normals[i][k] = mgl32.TransformNormal(p.Normals[k], normalTRS).Normalize()
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("sampling shape: %w", err)
	}
	return f, nil
}

// HashField hashes the floored domain-space lattice cell of every sample,
// x then y then z, four lanes at a time.
func HashField(pool pond.Pool, f *Field, domain mgl32.Mat4, seed smallxxhash.Hash) ([][4]uint32, error) {
	out := make([][4]uint32, len(f.Positions))
	base := smallxxhash.Broadcast(seed)
	err := parallel.For(pool, len(out), f.Resolution, func(start, end int) {
		for i := start; i < end; i++ {
			var u, v, w [4]int32
			for k := 0; k < 4; k++ {
				p := mgl32.TransformCoordinate(f.Positions[i][k], domain)
				u[k] = floor32(p[0])
				v[k] = floor32(p[1])
				w[k] = floor32(p[2])
			}
			out[i] = base.Eat(u).Eat(v).Eat(w).Sum()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("hashing field: %w", err)
	}
	return out, nil
}

func floor32(f float32) int32 {
	return int32(math.Floor(float64(f)))
}
