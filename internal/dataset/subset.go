package dataset

// Subset is a read-only, fixed-length random-access view over one
// contiguous range of the parent flat index. It holds no storage of its
// own; every access delegates to the parent dataset.
type Subset struct {
	d *Dataset
	r Range
}

// Len returns the number of samples in the subset.
func (s *Subset) Len() int { return s.r.Len() }

// At returns the sample at the given position within the subset.
func (s *Subset) At(pos int) (Sample, error) {
	if pos < 0 || pos >= s.r.Len() {
		return Sample{}, &IndexOutOfRangeError{Index: pos, Size: s.r.Len()}
	}
	return s.d.At(s.r.Start + pos)
}

// Range returns the subset's global index range.
func (s *Subset) Range() Range { return s.r }
