package noise

import "github.com/go-gl/mathgl/mgl32"

// LayerParams configures a fractal noise sum.
type LayerParams struct {
	Offset        mgl32.Vec3 `json:"offset"`
	NumLayers     uint8      `json:"numLayers"`
	Persistence   float32    `json:"persistence"`
	Lacunarity    float32    `json:"lacunarity"`
	Scale         float32    `json:"scale"`
	Multiplier    float32    `json:"elevation"`
	VerticalShift float32    `json:"verticalShift"`
}

// RidgeParams configures a ridged noise sum.
type RidgeParams struct {
	LayerParams
	Power         float32 `json:"power"`
	Gain          float32 `json:"gain"`
	PeakSmoothing float32 `json:"peakSmoothing"`
}

// DefaultLayerParams returns four octaves halving in amplitude.
func DefaultLayerParams() LayerParams {
	return LayerParams{
		NumLayers:   4,
		Persistence: 0.5,
		Lacunarity:  2,
		Scale:       1,
		Multiplier:  1,
	}
}

// DefaultRidgeParams returns five squared ridge octaves with unit gain.
func DefaultRidgeParams() RidgeParams {
	l := DefaultLayerParams()
	l.NumLayers = 5
	return RidgeParams{
		LayerParams: l,
		Power:       2,
		Gain:        1,
	}
}
