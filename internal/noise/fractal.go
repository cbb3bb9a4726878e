package noise

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var worldUp = mgl32.Vec3{0, 1, 0}

func sample(src Source, p mgl32.Vec3, frequency float32, offset mgl32.Vec3) float32 {
	q := p.Mul(frequency).Add(offset)
	return src.Eval3(q[0], q[1], q[2])
}

func saturate(x float32) float32 {
	return mgl32.Clamp(x, 0, 1)
}

// Fractal sums NumLayers octaves of src. Frequency starts at Scale and grows
// by Lacunarity; amplitude starts at 1 and shrinks by Persistence.
func Fractal(src Source, p mgl32.Vec3, params LayerParams) float32 {
	var sum float32
	amplitude := float32(1)
	frequency := params.Scale
	for i := 0; i < int(params.NumLayers); i++ {
		sum += sample(src, p, frequency, params.Offset) * amplitude
		amplitude *= params.Persistence
		frequency *= params.Lacunarity
	}
	return sum*params.Multiplier + params.VerticalShift
}

// Ridged sums sharpened ridges 1-|n|. Each octave is weighted by the
// previous octave's value, so detail concentrates along ridge lines.
func Ridged(src Source, p mgl32.Vec3, params RidgeParams) float32 {
	var sum float32
	amplitude := float32(1)
	frequency := params.Scale
	weight := float32(1)
	for i := 0; i < int(params.NumLayers); i++ {
		v := 1 - abs32(sample(src, p, frequency, params.Offset))
		v = float32(math.Pow(float64(abs32(v)), float64(params.Power)))
		v *= weight
		weight = saturate(v * params.Gain)

		sum += v * amplitude
		amplitude *= params.Persistence
		frequency *= params.Lacunarity
	}
	return sum*params.Multiplier + params.VerticalShift
}

// SmoothedRidged averages Ridged at p and at four points offset by
// PeakSmoothing*0.01 in the plane tangent to the sphere at p.
func SmoothedRidged(src Source, p mgl32.Vec3, params RidgeParams) float32 {
	centre := Ridged(src, p, params)
	if params.PeakSmoothing == 0 {
		return centre
	}
	n := p.Normalize()
	a := n.Cross(worldUp)
	b := n.Cross(a)
	d := params.PeakSmoothing * 0.01

	sum := centre
	sum += Ridged(src, p.Sub(a.Mul(d)), params)
	sum += Ridged(src, p.Add(a.Mul(d)), params)
	sum += Ridged(src, p.Sub(b.Mul(d)), params)
	sum += Ridged(src, p.Add(b.Mul(d)), params)
	return sum / 5
}

// SmoothMax is a smooth maximum of a and b. k widens the blend region;
// k == 0 is exactly max(a, b).
func SmoothMax(a, b, k float32) float32 {
	k = min(0, -k)
	if k == 0 {
		return max(a, b)
	}
	h := saturate((b - a + k) / (2 * k))
	return a*h + b*(1-h) - k*h*(1-h)
}

// Smoothstep is the cubic Hermite step between edge0 and edge1.
func Smoothstep(edge0, edge1, x float32) float32 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := saturate((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// Blend ramps from 0 to 1 over a band of width dst centred on start.
func Blend(start, dst, h float32) float32 {
	return Smoothstep(start-dst/2, start+dst/2, h)
}

func abs32(f float32) float32 {
	return float32(math.Abs(float64(f)))
}
