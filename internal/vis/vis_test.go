package vis

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestGrayImageNormalizes(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{-100, 0, 100, 300})
	img := GrayImage(m)

	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, img.NRGBAAt(1, 1))
}

func TestGrayImageConstantInput(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{5, 5, 5, 5})
	img := GrayImage(m)
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, img.NRGBAAt(0, 0))
}

func TestLabelImageColors(t *testing.T) {
	cmap := [][3]uint8{{0, 0, 0}, {255, 0, 0}, {0, 0, 255}}
	m := mat.NewDense(1, 3, []float64{0, 1, 2})
	img := LabelImage(m, cmap)

	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, img.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{0, 0, 255, 255}, img.NRGBAAt(2, 0))
}

func TestLabelImageOutOfRangeTransparent(t *testing.T) {
	cmap := [][3]uint8{{0, 0, 0}, {255, 0, 0}}
	m := mat.NewDense(1, 1, []float64{7})
	img := LabelImage(m, cmap)
	assert.Equal(t, uint8(0), img.NRGBAAt(0, 0).A)
}

func TestOverlayDims(t *testing.T) {
	slice := mat.NewDense(4, 6, nil)
	label := mat.NewDense(4, 6, nil)
	img := Overlay(slice, label, [][3]uint8{{0, 0, 0}}, 0.5)

	require.NotNil(t, img)
	assert.Equal(t, 6, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
}

func TestThumbnailFits(t *testing.T) {
	img := GrayImage(mat.NewDense(100, 200, nil))
	thumb := Thumbnail(img, 50)
	assert.LessOrEqual(t, thumb.Bounds().Dx(), 50)
	assert.LessOrEqual(t, thumb.Bounds().Dy(), 50)

	small := Thumbnail(img, 400)
	assert.Equal(t, img.Bounds(), small.Bounds())
}
