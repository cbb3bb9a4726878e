package noise

import "github.com/go-gl/mathgl/mgl32"

// RockyTerrain layers continents, ocean basins and masked mountain ridges.
type RockyTerrain struct {
	Continents LayerParams `json:"continents"`
	Mountains  RidgeParams `json:"mountains"`
	Mask       LayerParams `json:"mask"`

	OceanFloorDepth      float32 `json:"oceanFloorDepth"`
	OceanDepthMultiplier float32 `json:"oceanDepthMultiplier"`
	OceanFloorSmoothing  float32 `json:"oceanFloorSmoothing"`
	MountainBlend        float32 `json:"mountainBlend"`
}

// DefaultRockyTerrain returns the stock ocean and mountain constants with
// default layer settings.
func DefaultRockyTerrain() RockyTerrain {
	return RockyTerrain{
		Continents:           DefaultLayerParams(),
		Mountains:            DefaultRidgeParams(),
		Mask:                 DefaultLayerParams(),
		OceanFloorDepth:      1.5,
		OceanDepthMultiplier: 5,
		OceanFloorSmoothing:  0.5,
		MountainBlend:        1.2,
	}
}

// Height returns the displacement term at unit direction p. A vertex is
// placed at p * (radius + Height).
func (t RockyTerrain) Height(src Source, p mgl32.Vec3) float32 {
	continent := Fractal(src, p, t.Continents)
	continent = SmoothMax(continent, -t.OceanFloorDepth, t.OceanFloorSmoothing)
	if continent < 0 {
		continent *= 1 + t.OceanDepthMultiplier
	}

	ridge := SmoothedRidged(src, p, t.Mountains)
	mask := Smoothstep(0, t.MountainBlend, Fractal(src, p, t.Mask))
	return 1 + continent*0.01 + ridge*0.01*mask
}

// Displace returns p moved along itself to radius + Height.
func (t RockyTerrain) Displace(src Source, p mgl32.Vec3, radius float32) mgl32.Vec3 {
	return p.Mul(radius + t.Height(src, p))
}

// SeededHeight is a simpler 4D height field: five octaves sampled with the
// seed as the fourth coordinate, so one noise instance serves every seed.
type SeededHeight struct {
	Seed    float32 `json:"seed"`
	Scale   float32 `json:"scale"`
	Octaves int     `json:"octaves"`
}

// DefaultSeededHeight returns five octaves at unit amplitude.
func DefaultSeededHeight() SeededHeight {
	return SeededHeight{Scale: 1, Octaves: 5}
}

// Sum returns the octave sum at p. Sources without a fourth dimension are
// sampled in 3D with the domain shifted by Seed.
func (s SeededHeight) Sum(src Source, p mgl32.Vec3) float32 {
	src4, has4 := src.(Source4)
	var sum float32
	amplitude := s.Scale
	frequency := float32(1)
	for i := 0; i < s.Octaves; i++ {
		q := p.Mul(frequency)
		if has4 {
			sum += src4.Eval4(q[0], q[1], q[2], s.Seed) * amplitude
		} else {
			sum += src.Eval3(q[0]+s.Seed, q[1]+s.Seed, q[2]+s.Seed) * amplitude
		}
		frequency *= 2
		amplitude *= 0.5
	}
	return sum
}

// Displace scales p by radius - 0.5 + Sum.
func (s SeededHeight) Displace(src Source, p mgl32.Vec3, radius float32) mgl32.Vec3 {
	return p.Mul(radius - 0.5 + s.Sum(src, p))
}
