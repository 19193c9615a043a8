package dataset

import "fmt"

// MissingCaseDirectoryError reports a case whose expected on-disk
// directory does not exist.
type MissingCaseDirectoryError struct {
	Case int
	Dir  string
}

func (e *MissingCaseDirectoryError) Error() string {
	return fmt.Sprintf("dataset: case %d: missing directory %s", e.Case, e.Dir)
}

// MissingROIEntryError reports a case absent from a configured ROI table.
type MissingROIEntryError struct {
	Key string
}

func (e *MissingROIEntryError) Error() string {
	return fmt.Sprintf("dataset: no ROI entry for %s", e.Key)
}

// LabelCountMismatchError reports a case whose trimmed image and label
// slice counts differ, indicating a corrupt or incomplete case.
type LabelCountMismatchError struct {
	Case   int
	Images int
	Labels int
}

func (e *LabelCountMismatchError) Error() string {
	return fmt.Sprintf("dataset: case %d: %d image slices but %d label slices after ROI trim",
		e.Case, e.Images, e.Labels)
}

// SliceOrderError reports a case directory whose slice filenames cannot be
// relied on to sort in z-order (uneven zero padding).
type SliceOrderError struct {
	Case int
	Dir  string
}

func (e *SliceOrderError) Error() string {
	return fmt.Sprintf("dataset: case %d: slice filenames in %s are not uniformly zero-padded; lexicographic order would not match z-order", e.Case, e.Dir)
}

// IndexOutOfRangeError reports an access outside the addressable range.
type IndexOutOfRangeError struct {
	Index int
	Size  int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("dataset: index %d out of range [0, %d)", e.Index, e.Size)
}

// InvalidSpecClassesError reports a class projection of the wrong length.
type InvalidSpecClassesError struct {
	Got int
}

func (e *InvalidSpecClassesError) Error() string {
	return fmt.Sprintf("dataset: spec classes must have %d entries, got %d", numCanonicalClasses, e.Got)
}
