package preview

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"planetmesh/internal/noise"
	"planetmesh/internal/parallel"
	"planetmesh/internal/shapes"
	"planetmesh/pkg/smallxxhash"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDirection(t *testing.T) {
	const w, h = 64, 32
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := Direction(x, y, w, h)
			if math.Abs(float64(d.Len())-1) > 1e-5 {
				t.Fatalf("pixel %d,%d: length %f", x, y, d.Len())
			}
		}
	}
	if d := Direction(0, 0, w, h); d[1] < 0.99 {
		t.Errorf("top row should face +Y, got %v", d)
	}
	if d := Direction(0, h-1, w, h); d[1] > -0.99 {
		t.Errorf("bottom row should face -Y, got %v", d)
	}
	// longitude 0 sits between the two middle columns
	a, b := Direction(w/2-1, h/2, w, h), Direction(w/2, h/2, w, h)
	if a[0] >= 0 || b[0] <= 0 || a[2] < 0.99 || b[2] < 0.99 {
		t.Errorf("middle columns %v %v should straddle +Z", a, b)
	}
}

func TestHeightFieldParallelMatchesInline(t *testing.T) {
	src := noise.NewSimplex(4)
	h := TerrainHeight(src, noise.DefaultRockyTerrain())

	inline, err := HeightField(nil, h, 48, 24)
	if err != nil {
		t.Fatal(err)
	}
	pool := parallel.NewPool(4)
	defer pool.StopAndWait()
	par, err := HeightField(pool, h, 48, 24)
	if err != nil {
		t.Fatal(err)
	}
	for i := range inline {
		if inline[i] != par[i] {
			t.Fatalf("sample %d: %f vs %f", i, inline[i], par[i])
		}
	}

	if _, err := HeightField(nil, h, 0, 4); err == nil {
		t.Errorf("empty preview accepted")
	}
}

func TestHeightImageColors(t *testing.T) {
	values := []float32{0.5, 0.9, 1.0, 1.5}
	img := HeightImage(values, 4, 1, 1)

	deep := img.RGBAAt(0, 0)
	shallow := img.RGBAAt(1, 0)
	if deep.B <= deep.R || shallow.B <= shallow.R {
		t.Errorf("water pixels should be blue: %v %v", deep, shallow)
	}
	if deep.B >= shallow.B {
		t.Errorf("deeper water should be darker: %v vs %v", deep, shallow)
	}
	if got := img.RGBAAt(2, 0); got != landRamp[0] {
		t.Errorf("sea level pixel %v, want %v", got, landRamp[0])
	}
	if got := img.RGBAAt(3, 0); got != landRamp[len(landRamp)-1] {
		t.Errorf("peak pixel %v, want %v", got, landRamp[len(landRamp)-1])
	}
}

func TestHashImage(t *testing.T) {
	field, err := shapes.Sample(nil, shapes.Plane{}, 5, mgl32.Ident4())
	if err != nil {
		t.Fatal(err)
	}
	domain := mgl32.Scale3D(8, 8, 8)
	hashes, err := shapes.HashField(nil, field, domain, smallxxhash.Seed(0))
	if err != nil {
		t.Fatal(err)
	}
	img := HashImage(field, hashes)
	if img.Bounds().Dx() != 5 || img.Bounds().Dy() != 5 {
		t.Fatalf("bounds %v", img.Bounds())
	}
	// sample 7 sits at column 2 of row 1
	h := hashes[1][3]
	want := color.RGBA{uint8(h), uint8(h >> 8), uint8(h >> 16), 255}
	if got := img.RGBAAt(2, 1); got != want {
		t.Errorf("pixel 2,1 = %v, want %v", got, want)
	}
}

func TestUpscale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	src.SetRGBA(1, 1, color.RGBA{0, 0, 255, 255})

	crisp := Upscale(src, 4, false)
	if crisp.Bounds().Dx() != 8 || crisp.Bounds().Dy() != 8 {
		t.Fatalf("bounds %v", crisp.Bounds())
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if crisp.RGBAAt(x, y) != (color.RGBA{255, 0, 0, 255}) {
				t.Fatalf("nearest pixel %d,%d = %v", x, y, crisp.RGBAAt(x, y))
			}
		}
	}

	smooth := Upscale(src, 4, true)
	if smooth.Bounds() != crisp.Bounds() {
		t.Errorf("smooth bounds %v", smooth.Bounds())
	}

	same := Upscale(src, 1, true)
	if same.RGBAAt(1, 1) != src.RGBAAt(1, 1) {
		t.Errorf("factor 1 changed pixels")
	}
}

func TestCaption(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 120, 40))
	out, err := Caption(src, "planet 7", 14)
	if err != nil {
		t.Fatal(err)
	}
	if out.Bounds().Dx() != 120 || out.Bounds().Dy() <= 40 {
		t.Fatalf("bounds %v", out.Bounds())
	}
	// some glyph pixel must be brighter than the band
	lit := false
	for y := 40; y < out.Bounds().Dy() && !lit; y++ {
		for x := 0; x < 120; x++ {
			if out.RGBAAt(x, y).R > 100 {
				lit = true
				break
			}
		}
	}
	if !lit {
		t.Errorf("caption text not drawn")
	}

	w, err := TextWidth("planet 7", 14)
	if err != nil {
		t.Fatal(err)
	}
	if w <= 0 || w > 120 {
		t.Errorf("text width %d", w)
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.png")
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	if err := SavePNG(path, src); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Errorf("bounds %v", img.Bounds())
	}
}
