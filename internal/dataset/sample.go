package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/linggood/kits19-challenge/internal/roi"
)

// Sample is one windowed, multi-channel training example. It is created
// fresh on every access and owned exclusively by the caller.
type Sample struct {
	// Image holds the stacked slice window, one channel per window
	// position. Near a case boundary the same slice appears in several
	// channels.
	Image []*mat.Dense
	// Label is the single segmentation slice at the center index, or nil
	// for test-subset samples.
	Label *mat.Dense
	// Index is the global flat index this sample was read from.
	Index int
	// ROI is the owning case's region of interest, or nil when no ROI
	// table was configured.
	ROI *roi.Range
}

// Channels returns the number of image channels in the sample.
func (s *Sample) Channels() int { return len(s.Image) }

// Dims returns the spatial dimensions of the sample's image channels.
func (s *Sample) Dims() (rows, cols int) {
	if len(s.Image) == 0 {
		return 0, 0
	}
	return s.Image[0].Dims()
}
