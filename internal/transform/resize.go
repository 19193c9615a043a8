// Package transform implements the geometric normalization applied to
// retrieved samples before they reach the training pipeline: pad to a
// square canvas, then resize to the configured target. Images are resized
// bilinearly; label maps use nearest-neighbor so class ids stay exact.
package transform

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ResizeAndPad normalizes one stacked sample to height x width. Every
// image channel and the label (when present) are padded and resized
// identically so they stay spatially aligned.
func ResizeAndPad(channels []*mat.Dense, label *mat.Dense, height, width int) ([]*mat.Dense, *mat.Dense) {
	outChannels := make([]*mat.Dense, len(channels))
	for i, ch := range channels {
		outChannels[i] = resizeBilinear(padToSquare(ch), height, width)
	}
	var outLabel *mat.Dense
	if label != nil {
		outLabel = resizeNearest(padToSquare(label), height, width)
	}
	return outChannels, outLabel
}

// padToSquare centers m on a square zero-filled canvas whose side is the
// larger of the two dimensions. Already-square inputs are returned as-is.
func padToSquare(m *mat.Dense) *mat.Dense {
	rows, cols := m.Dims()
	if rows == cols {
		return m
	}
	side := rows
	if cols > side {
		side = cols
	}
	out := mat.NewDense(side, side, nil)
	top := (side - rows) / 2
	left := (side - cols) / 2
	out.Slice(top, top+rows, left, left+cols).(*mat.Dense).Copy(m)
	return out
}

func resizeBilinear(m *mat.Dense, height, width int) *mat.Dense {
	rows, cols := m.Dims()
	if rows == height && cols == width {
		return m
	}
	out := mat.NewDense(height, width, nil)
	sy := float64(rows) / float64(height)
	sx := float64(cols) / float64(width)
	for i := 0; i < height; i++ {
		// Sample at pixel centers so the mapping is symmetric.
		fy := (float64(i)+0.5)*sy - 0.5
		y0 := int(math.Floor(fy))
		wy := fy - float64(y0)
		y1 := clamp(y0+1, 0, rows-1)
		y0 = clamp(y0, 0, rows-1)
		for j := 0; j < width; j++ {
			fx := (float64(j)+0.5)*sx - 0.5
			x0 := int(math.Floor(fx))
			wx := fx - float64(x0)
			x1 := clamp(x0+1, 0, cols-1)
			x0 = clamp(x0, 0, cols-1)

			top := m.At(y0, x0)*(1-wx) + m.At(y0, x1)*wx
			bot := m.At(y1, x0)*(1-wx) + m.At(y1, x1)*wx
			out.Set(i, j, top*(1-wy)+bot*wy)
		}
	}
	return out
}

func resizeNearest(m *mat.Dense, height, width int) *mat.Dense {
	rows, cols := m.Dims()
	if rows == height && cols == width {
		return m
	}
	out := mat.NewDense(height, width, nil)
	sy := float64(rows) / float64(height)
	sx := float64(cols) / float64(width)
	for i := 0; i < height; i++ {
		y := clamp(int((float64(i)+0.5)*sy), 0, rows-1)
		for j := 0; j < width; j++ {
			x := clamp(int((float64(j)+0.5)*sx), 0, cols-1)
			out.Set(i, j, m.At(y, x))
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
