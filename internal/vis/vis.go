// Package vis renders slice arrays and label maps as images for the
// sample preview endpoint and the CLI export command.
package vis

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/mat"
)

// GrayImage renders a slice array as an 8-bit grayscale image, linearly
// normalizing the array's value range. A constant array renders black.
func GrayImage(m *mat.Dense) *image.NRGBA {
	rows, cols := m.Dims()
	lo, hi := mat.Min(m), mat.Max(m)
	scale := 0.0
	if hi > lo {
		scale = 255.0 / (hi - lo)
	}
	out := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := uint8((m.At(i, j) - lo) * scale)
			out.SetNRGBA(j, i, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}

// LabelImage renders a label map through a colormap. Values outside the
// colormap render transparent, so the result can be blended over the
// grayscale slice.
func LabelImage(m *mat.Dense, cmap [][3]uint8) *image.NRGBA {
	rows, cols := m.Dims()
	out := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			c := int(m.At(i, j))
			if c < 0 || c >= len(cmap) {
				continue
			}
			col := cmap[c]
			out.SetNRGBA(j, i, color.NRGBA{R: col[0], G: col[1], B: col[2], A: 255})
		}
	}
	return out
}

// Overlay blends a rendered label map over a grayscale slice.
func Overlay(slice, label *mat.Dense, cmap [][3]uint8, opacity float64) *image.NRGBA {
	base := GrayImage(slice)
	if label == nil {
		return base
	}
	return imaging.Overlay(base, LabelImage(label, cmap), image.Pt(0, 0), opacity)
}

// Thumbnail scales an image down to fit within side x side, preserving
// aspect ratio. Images already within bounds are returned unchanged.
func Thumbnail(img image.Image, side int) image.Image {
	b := img.Bounds()
	if b.Dx() <= side && b.Dy() <= side {
		return img
	}
	return imaging.Fit(img, side, side, imaging.Lanczos)
}

// SavePNG writes an image to disk; the format follows the extension.
func SavePNG(path string, img image.Image) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("vis: failed to save %s: %w", path, err)
	}
	return nil
}
