package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/linggood/kits19-challenge/internal/volume"
)

// readStack reads the raw stacked sample centered at the global index.
// The window of stackWidth consecutive indices is clamped to the owning
// case's slice range, so a read can never pull a slice from a neighboring
// case; near a boundary the edge slice is simply read more than once.
func (d *Dataset) readStack(idx int) (Sample, error) {
	c, err := d.index.LocateCase(idx)
	if err != nil {
		return Sample{}, err
	}
	lo, hi := d.index.caseBounds(c)

	half := d.stackWidth / 2
	channels := make([]*mat.Dense, 0, 2*half+1)
	for i := idx - half; i <= idx+half; i++ {
		j := i
		if j < lo {
			j = lo
		} else if j >= hi {
			j = hi - 1
		}
		m, err := volume.LoadSlice(d.index.images[j])
		if err != nil {
			return Sample{}, err
		}
		channels = append(channels, m)
	}

	var label *mat.Dense
	if !d.index.test.Contains(idx) {
		label, err = volume.LoadSlice(d.index.labels[idx])
		if err != nil {
			return Sample{}, err
		}
	}

	return Sample{
		Image: channels,
		Label: label,
		Index: idx,
		ROI:   d.index.rois[c],
	}, nil
}
