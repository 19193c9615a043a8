package dataset

// The canonical KiTS19 label space.
const numCanonicalClasses = 3

var (
	canonicalClassNames = [numCanonicalClasses]string{"background", "kidney", "tumor"}
	canonicalColormap   = [numCanonicalClasses][3]uint8{
		{0, 0, 0},     // background
		{255, 0, 0},   // kidney
		{0, 0, 255},   // tumor
	}
)

// CanonicalClassNames returns the full 3-class label space names.
func CanonicalClassNames() []string {
	return canonicalClassNames[:]
}

// ClassNames projects the canonical class names through spec, dropping
// duplicates while preserving first-occurrence order. A nil spec means the
// identity projection.
func ClassNames(spec []int) []string {
	if spec == nil {
		return CanonicalClassNames()
	}
	var names []string
	for _, c := range spec {
		name := canonicalClassNames[c]
		if !containsString(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// Colormap projects the canonical colormap through spec, dropping
// duplicate colors while preserving first-occurrence order.
func Colormap(spec []int) [][3]uint8 {
	if spec == nil {
		spec = []int{0, 1, 2}
	}
	var cmap [][3]uint8
	for _, c := range spec {
		col := canonicalColormap[c]
		if !containsColor(cmap, col) {
			cmap = append(cmap, col)
		}
	}
	return cmap
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

func containsColor(xs [][3]uint8, c [3]uint8) bool {
	for _, x := range xs {
		if x == c {
			return true
		}
	}
	return false
}
