// Package preview renders flat PNG previews of height fields and hash
// fields.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"planetmesh/internal/noise"
	"planetmesh/internal/parallel"
	"planetmesh/internal/profiling"
	"planetmesh/internal/shapes"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
	xdraw "golang.org/x/image/draw"
)

// HeightFunc returns the height at a unit direction.
type HeightFunc func(dir mgl32.Vec3) float32

// TerrainHeight adapts a terrain to HeightFunc.
func TerrainHeight(src noise.Source, t noise.RockyTerrain) HeightFunc {
	return func(dir mgl32.Vec3) float32 { return t.Height(src, dir) }
}

// SeededHeight adapts a seeded height field to HeightFunc.
func SeededHeight(src noise.Source, s noise.SeededHeight) HeightFunc {
	return func(dir mgl32.Vec3) float32 { return s.Sum(src, dir) }
}

// Direction maps an equirectangular pixel centre to a unit direction. Row 0
// is the north pole (+Y); column 0 is longitude -pi.
func Direction(x, y, width, height int) mgl32.Vec3 {
	lon := (float64(x)+0.5)/float64(width)*2*math.Pi - math.Pi
	lat := math.Pi/2 - (float64(y)+0.5)/float64(height)*math.Pi
	return mgl32.Vec3{
		float32(math.Cos(lat) * math.Sin(lon)),
		float32(math.Sin(lat)),
		float32(math.Cos(lat) * math.Cos(lon)),
	}
}

// HeightField samples h over an equirectangular grid, one row per task.
func HeightField(pool pond.Pool, h HeightFunc, width, height int) ([]float32, error) {
	defer profiling.Track("preview.HeightField")()
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("preview size %dx%d must be positive", width, height)
	}
	out := make([]float32, width*height)
	err := parallel.For(pool, height, 1, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				out[y*width+x] = h(Direction(x, y, width, height))
			}
		}
	})
	return out, err
}

// HeightImage colors a height field. Values below seaLevel are shaded as
// water; the rest ramp from lowland green to snow.
func HeightImage(values []float32, width, height int, seaLevel float32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	lo, hi := float32(math.Inf(1)), float32(math.Inf(-1))
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	for i, v := range values {
		img.Set(i%width, i/width, heightColor(v, lo, hi, seaLevel))
	}
	return img
}

var landRamp = []color.RGBA{
	{70, 120, 60, 255},
	{120, 150, 80, 255},
	{140, 110, 80, 255},
	{240, 240, 245, 255},
}

func heightColor(v, lo, hi, sea float32) color.RGBA {
	if v < sea {
		depth := float32(1)
		if sea > lo {
			depth = (sea - v) / (sea - lo)
		}
		return lerpColor(color.RGBA{60, 110, 190, 255}, color.RGBA{10, 30, 80, 255}, depth)
	}
	t := float32(0)
	if hi > sea {
		t = (v - sea) / (hi - sea)
	}
	t = mgl32.Clamp(t, 0, 1) * float32(len(landRamp)-1)
	i := min(int(t), len(landRamp)-2)
	return lerpColor(landRamp[i], landRamp[i+1], t-float32(i))
}

func lerpColor(a, b color.RGBA, t float32) color.RGBA {
	t = mgl32.Clamp(t, 0, 1)
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t + 0.5)
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 255}
}

// HashImage lays hashed samples out on the field's grid, one pixel per
// sample, colored by the three low bytes of each hash.
func HashImage(f *shapes.Field, hashes [][4]uint32) *image.RGBA {
	res := f.Resolution
	img := image.NewRGBA(image.Rect(0, 0, res, res))
	for j := 0; j < f.Len(); j++ {
		h := hashes[j/4][j%4]
		img.SetRGBA(j%res, j/res, color.RGBA{uint8(h), uint8(h >> 8), uint8(h >> 16), 255})
	}
	return img
}

// Upscale resizes src by factor. Smooth selects Catmull-Rom filtering;
// otherwise pixels are replicated so hash cells stay crisp.
func Upscale(src image.Image, factor int, smooth bool) *image.RGBA {
	if factor <= 1 {
		b := src.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
		return dst
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	var scaler xdraw.Scaler = xdraw.NearestNeighbor
	if smooth {
		scaler = xdraw.CatmullRom
	}
	scaler.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
