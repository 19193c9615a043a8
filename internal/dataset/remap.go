package dataset

import "gonum.org/v1/gonum/mat"

// Remapper projects label pixels from the canonical {background, kidney,
// tumor} space into a caller-specified reduced class space. Spec values
// need not be distinct: duplicates merge classes, and the reduced class id
// of each canonical class is the position of its spec value in the
// deduplicated, order-preserving value list.
type Remapper struct {
	spec     []int
	target   [numCanonicalClasses]int
	identity bool
}

// NewRemapper builds a Remapper for the given spec classes. A nil spec
// means the identity projection.
func NewRemapper(spec []int) (*Remapper, error) {
	if spec == nil {
		spec = []int{0, 1, 2}
	}
	if len(spec) != numCanonicalClasses {
		return nil, &InvalidSpecClassesError{Got: len(spec)}
	}

	r := &Remapper{spec: append([]int(nil), spec...)}

	var distinct []int
	for _, v := range spec {
		if !containsInt(distinct, v) {
			distinct = append(distinct, v)
		}
	}
	for c := 0; c < numCanonicalClasses; c++ {
		r.target[c] = indexOfInt(distinct, spec[c])
	}

	r.identity = spec[0] == 0 && spec[1] == 1 && spec[2] == 2
	return r, nil
}

// Identity reports whether the projection leaves labels untouched.
func (r *Remapper) Identity() bool { return r.identity }

// SpecClasses returns the configured projection.
func (r *Remapper) SpecClasses() []int { return append([]int(nil), r.spec...) }

// NumClasses returns the number of distinct classes after projection.
func (r *Remapper) NumClasses() int { return len(ClassNames(r.spec)) }

// Apply rewrites every pixel of the canonical class c to its reduced class
// id, returning a new array. Each pixel is classified against the original
// value exactly once, so overlapping rewrites cannot cascade.
func (r *Remapper) Apply(label *mat.Dense) *mat.Dense {
	rows, cols := label.Dims()
	out := mat.NewDense(rows, cols, nil)
	if r.identity {
		out.Copy(label)
		return out
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			c := int(label.At(i, j))
			if c >= 0 && c < numCanonicalClasses {
				out.Set(i, j, float64(r.target[c]))
			} else {
				out.Set(i, j, label.At(i, j))
			}
		}
	}
	return out
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func indexOfInt(xs []int, v int) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}
