package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	fontOnce   sync.Once
	parsedFont *opentype.Font
	fontErr    error
)

func captionFace(pixels float64) (font.Face, error) {
	fontOnce.Do(func() {
		parsedFont, fontErr = opentype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("parse font: %w", fontErr)
	}
	face, err := opentype.NewFace(parsedFont, &opentype.FaceOptions{Size: pixels, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return face, nil
}

// Caption returns img with a dark band along the bottom holding text.
func Caption(img image.Image, text string, pixels float64) (*image.RGBA, error) {
	face, err := captionFace(pixels)
	if err != nil {
		return nil, err
	}
	defer func() { _ = face.Close() }()

	metrics := face.Metrics()
	band := (metrics.Ascent + metrics.Descent).Ceil() + 8

	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()+band))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.RGBA{16, 18, 24, 255}), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(0, 0, b.Dx(), b.Dy()), img, b.Min, draw.Src)

	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(color.RGBA{230, 230, 230, 255}),
		Face: face,
		Dot:  fixed.P(4, b.Dy()+4+metrics.Ascent.Ceil()),
	}
	d.DrawString(text)
	return out, nil
}

// TextWidth measures text in pixels at the given size.
func TextWidth(text string, pixels float64) (int, error) {
	face, err := captionFace(pixels)
	if err != nil {
		return 0, err
	}
	defer func() { _ = face.Close() }()
	return font.MeasureString(face, text).Ceil(), nil
}
