package document

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// Thumbnail renders a preview of the page at dpi. When maxWidth is positive
// and the rendered page is wider, it is downscaled keeping the aspect ratio.
func (d *Document) Thumbnail(index, dpi, maxWidth int) (image.Image, error) {
	img, err := d.Rasterize(index, dpi)
	if err != nil {
		return nil, err
	}
	return fitWidth(img, maxWidth), nil
}

func fitWidth(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}

	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
