package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/linggood/kits19-challenge/internal/roi"
)

const (
	imagingDirName      = "imaging"
	segmentationDirName = "segmentation"
	sliceExt            = ".npy"
)

// caseEntry holds one case's visible slice references after ROI trimming.
type caseEntry struct {
	ID     int
	Images []string
	Labels []string
	ROI    *roi.Range
}

// catalog is the ordered set of cases belonging to one subset.
type catalog struct {
	Cases []caseEntry
}

// sliceCounts returns the per-case visible slice counts in case order.
func (c *catalog) sliceCounts() []int {
	counts := make([]int, len(c.Cases))
	for i, ce := range c.Cases {
		counts[i] = len(ce.Images)
	}
	return counts
}

// buildCatalog discovers the slice files for each case id under root,
// applies ROI trimming with the configured error margin, and verifies
// image/label alignment. Labels are only collected when requireLabels is
// set; inference-only test cases may have no segmentation directory at
// all.
func buildCatalog(root string, ids []int, table roi.Table, errRange int, requireLabels bool) (*catalog, error) {
	cat := &catalog{Cases: make([]caseEntry, 0, len(ids))}
	for _, id := range ids {
		entry, err := buildCase(root, id, table, errRange, requireLabels)
		if err != nil {
			return nil, err
		}
		cat.Cases = append(cat.Cases, entry)
	}
	return cat, nil
}

func buildCase(root string, id int, table roi.Table, errRange int, requireLabels bool) (caseEntry, error) {
	caseDir := filepath.Join(root, roi.CaseKey(id))
	imagingDir := filepath.Join(caseDir, imagingDirName)
	images, err := listSlices(id, imagingDir)
	if err != nil {
		return caseEntry{}, err
	}

	lo, hi := 0, len(images)
	var caseROI *roi.Range
	if table != nil {
		r, ok := table.Kidney(id)
		if !ok {
			return caseEntry{}, &MissingROIEntryError{Key: roi.CaseKey(id)}
		}
		caseROI = &r
		lo, hi = r.Clamp(len(images), errRange)
	}
	images = images[lo:hi]

	entry := caseEntry{ID: id, Images: images, ROI: caseROI}
	if !requireLabels {
		return entry, nil
	}

	segDir := filepath.Join(caseDir, segmentationDirName)
	labels, err := listSlices(id, segDir)
	if err != nil {
		return caseEntry{}, err
	}
	// Trim labels over the same effective range. A label list shorter than
	// the range surfaces as a count mismatch rather than a panic.
	llo, lhi := lo, hi
	if llo > len(labels) {
		llo = len(labels)
	}
	if lhi > len(labels) {
		lhi = len(labels)
	}
	labels = labels[llo:lhi]
	if len(labels) != len(images) {
		return caseEntry{}, &LabelCountMismatchError{Case: id, Images: len(images), Labels: len(labels)}
	}
	entry.Labels = labels
	return entry, nil
}

// listSlices returns the lexicographically sorted slice files in dir.
// Lexicographic order standing in for z-order only holds when every stem
// is zero-padded to the same width, so that is checked here.
func listSlices(id int, dir string) ([]string, error) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, &MissingCaseDirectoryError{Case: id, Dir: dir}
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*"+sliceExt))
	if err != nil {
		return nil, &MissingCaseDirectoryError{Case: id, Dir: dir}
	}
	sort.Strings(paths)

	stemWidth := -1
	for _, p := range paths {
		stem := strings.TrimSuffix(filepath.Base(p), sliceExt)
		if stemWidth == -1 {
			stemWidth = len(stem)
		} else if len(stem) != stemWidth {
			return nil, &SliceOrderError{Case: id, Dir: dir}
		}
	}
	return paths, nil
}
