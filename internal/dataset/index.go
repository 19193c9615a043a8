package dataset

import (
	"sort"

	"github.com/linggood/kits19-challenge/internal/roi"
)

// Range is a contiguous half-open interval of global flat indices.
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices in the range.
func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether the global index i lies in the range.
func (r Range) Contains(i int) bool { return i >= r.Start && i < r.End }

// flatIndex is the single global numbering over all cases' visible slices,
// in subset order (train, then valid, then test). It is immutable after
// construction; concurrent reads need no locking.
type flatIndex struct {
	images  []string // global index -> image slice path
	labels  []string // global index -> label slice path, "" where absent
	rois    []*roi.Range
	caseIDs []int
	bounds  []int // cumulative slice counts, len = #cases+1

	train Range
	valid Range
	test  Range
}

// newFlatIndex concatenates the three subset catalogs into one flat
// addressable sequence and records per-case boundaries.
func newFlatIndex(train, valid, test *catalog) *flatIndex {
	x := &flatIndex{bounds: []int{0}}
	appendCatalog := func(c *catalog) Range {
		start := len(x.images)
		for _, ce := range c.Cases {
			x.images = append(x.images, ce.Images...)
			for i := range ce.Images {
				if i < len(ce.Labels) {
					x.labels = append(x.labels, ce.Labels[i])
				} else {
					x.labels = append(x.labels, "")
				}
			}
			x.rois = append(x.rois, ce.ROI)
			x.caseIDs = append(x.caseIDs, ce.ID)
			x.bounds = append(x.bounds, x.bounds[len(x.bounds)-1]+len(ce.Images))
		}
		return Range{Start: start, End: len(x.images)}
	}
	x.train = appendCatalog(train)
	x.valid = appendCatalog(valid)
	x.test = appendCatalog(test)
	return x
}

// Len returns the total number of addressable slices.
func (x *flatIndex) Len() int { return len(x.images) }

// LocateCase returns the ordinal of the case owning the global index i,
// i.e. the unique c with bounds[c] <= i < bounds[c+1].
func (x *flatIndex) LocateCase(i int) (int, error) {
	if i < 0 || i >= x.Len() {
		return 0, &IndexOutOfRangeError{Index: i, Size: x.Len()}
	}
	// First boundary strictly greater than i; the owning case sits one
	// before it.
	c := sort.SearchInts(x.bounds, i+1) - 1
	return c, nil
}

// caseBounds returns the slice-index range [lo, hi) of case ordinal c.
func (x *flatIndex) caseBounds(c int) (lo, hi int) {
	return x.bounds[c], x.bounds[c+1]
}
