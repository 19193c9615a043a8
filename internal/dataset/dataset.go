// Package dataset indexes a KiTS19-style tree of per-slice .npy arrays
// (one directory per case, one file per z-slice) and serves windowed,
// ROI-trimmed, multi-slice samples with deterministic train/valid/test
// partitioning by case.
package dataset

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/linggood/kits19-challenge/internal/roi"
	"github.com/linggood/kits19-challenge/internal/transform"
)

// Params configures dataset construction.
type Params struct {
	// Root is the dataset directory containing the case_XXXXX trees and
	// the per-subset case-id files.
	Root string
	// StackWidth is the number of neighboring slices stacked into each
	// sample's channel axis.
	StackWidth int
	// SpecClasses projects the canonical {0,1,2} label space into a
	// reduced class space. Nil means identity.
	SpecClasses []int
	// ImgHeight and ImgWidth are the target spatial dimensions; samples
	// whose slices differ are padded square and resized on access. Zero
	// disables the normalization.
	ImgHeight int
	ImgWidth  int
	// TrainCaseFile, ValidCaseFile and TestCaseFile name the per-subset
	// case-id text files under Root (one integer id per line).
	TrainCaseFile string
	ValidCaseFile string
	TestCaseFile  string
	// ROIFile optionally names the JSON ROI table under Root; when set,
	// each case is trimmed to its kidney ROI widened by ROIErrorRange.
	ROIFile       string
	ROIErrorRange int
}

// DefaultParams returns the conventional KiTS19 layout.
func DefaultParams(root string) Params {
	return Params{
		Root:          root,
		StackWidth:    1,
		ImgHeight:     512,
		ImgWidth:      512,
		TrainCaseFile: "train.txt",
		ValidCaseFile: "val.txt",
		TestCaseFile:  "test.txt",
	}
}

// Dataset is the flat, globally addressable slice index together with its
// three disjoint subset views. All state is immutable after New returns,
// so concurrent reads are safe without coordination.
type Dataset struct {
	root       string
	stackWidth int
	imgHeight  int
	imgWidth   int

	index    *flatIndex
	remapper *Remapper
	hasROI   bool
}

// New builds the dataset: reads the subset case-id files, discovers and
// ROI-trims every case's slices, and assembles the flat index. All
// construction-time validation (missing cases, missing ROI entries, label
// mismatches, bad spec classes) fails here, before any sample is served.
func New(p Params) (*Dataset, error) {
	if p.StackWidth < 1 {
		p.StackWidth = 1
	}
	remapper, err := NewRemapper(p.SpecClasses)
	if err != nil {
		return nil, err
	}

	var table roi.Table
	if p.ROIFile != "" {
		table, err = roi.LoadTable(filepath.Join(p.Root, p.ROIFile))
		if err != nil {
			return nil, err
		}
	}

	subsets := [3]struct {
		file          string
		requireLabels bool
	}{
		{p.TrainCaseFile, true},
		{p.ValidCaseFile, true},
		{p.TestCaseFile, false},
	}
	catalogs := [3]*catalog{}
	for i, s := range subsets {
		ids, err := readCaseIDs(filepath.Join(p.Root, s.file))
		if err != nil {
			return nil, err
		}
		catalogs[i], err = buildCatalog(p.Root, ids, table, p.ROIErrorRange, s.requireLabels)
		if err != nil {
			return nil, err
		}
	}

	d := &Dataset{
		root:       p.Root,
		stackWidth: p.StackWidth,
		imgHeight:  p.ImgHeight,
		imgWidth:   p.ImgWidth,
		index:      newFlatIndex(catalogs[0], catalogs[1], catalogs[2]),
		remapper:   remapper,
		hasROI:     table != nil,
	}
	slog.Debug("dataset assembled",
		"total_slices", d.index.Len(),
		"train", d.index.train.Len(),
		"valid", d.index.valid.Len(),
		"test", d.index.test.Len(),
		"cases", len(d.index.caseIDs),
		"stack_width", d.stackWidth)
	return d, nil
}

// readCaseIDs parses a per-subset text file of one integer case id per
// line. Blank lines are tolerated.
func readCaseIDs(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: failed to open case-id file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var ids []int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		id, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("dataset: bad case id %q in %s: %w", line, path, err)
		}
		ids = append(ids, id)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dataset: failed to read %s: %w", path, err)
	}
	return ids, nil
}

// Len returns the total number of addressable slices across all subsets.
func (d *Dataset) Len() int { return d.index.Len() }

// At reads the sample at a global flat index: the clamped slice window,
// the label (outside the test subset) projected through the configured
// class space, and the spatial normalization when the slice dimensions
// differ from the target.
func (d *Dataset) At(idx int) (Sample, error) {
	s, err := d.readStack(idx)
	if err != nil {
		return Sample{}, err
	}
	if s.Label != nil && !d.remapper.Identity() {
		s.Label = d.remapper.Apply(s.Label)
	}
	if d.imgHeight > 0 && d.imgWidth > 0 {
		if r, c := s.Dims(); r != d.imgHeight || c != d.imgWidth {
			s.Image, s.Label = transform.ResizeAndPad(s.Image, s.Label, d.imgHeight, d.imgWidth)
		}
	}
	return s, nil
}

// Train returns the training subset view.
func (d *Dataset) Train() *Subset { return &Subset{d: d, r: d.index.train} }

// Valid returns the validation subset view.
func (d *Dataset) Valid() *Subset { return &Subset{d: d, r: d.index.valid} }

// Test returns the test subset view.
func (d *Dataset) Test() *Subset { return &Subset{d: d, r: d.index.test} }

// SubsetOf returns which subset owns a global index.
func (d *Dataset) SubsetOf(idx int) string {
	switch {
	case d.index.train.Contains(idx):
		return "train"
	case d.index.valid.Contains(idx):
		return "valid"
	case d.index.test.Contains(idx):
		return "test"
	default:
		return ""
	}
}

// IdxToName returns a traceability label for a global index: the case
// directory name joined with the slice filename stem, e.g.
// "case_00001/000009".
func (d *Dataset) IdxToName(idx int) (string, error) {
	if idx < 0 || idx >= d.index.Len() {
		return "", &IndexOutOfRangeError{Index: idx, Size: d.index.Len()}
	}
	p := d.index.images[idx]
	caseDir := filepath.Base(filepath.Dir(filepath.Dir(p)))
	stem := strings.TrimSuffix(filepath.Base(p), sliceExt)
	return filepath.Join(caseDir, stem), nil
}

// CaseBoundaries returns a copy of the cumulative per-case slice counts.
func (d *Dataset) CaseBoundaries() []int {
	return append([]int(nil), d.index.bounds...)
}

// NumClasses returns the number of distinct classes after projection.
func (d *Dataset) NumClasses() int { return d.remapper.NumClasses() }

// ImgChannels returns the channel count of every served sample.
func (d *Dataset) ImgChannels() int { return 2*(d.stackWidth/2) + 1 }

// StackWidth returns the configured stack width.
func (d *Dataset) StackWidth() int { return d.stackWidth }

// SpecClasses returns the configured class projection.
func (d *Dataset) SpecClasses() []int { return d.remapper.SpecClasses() }

// ClassNames returns the projected, deduplicated class names.
func (d *Dataset) ClassNames() []string { return ClassNames(d.remapper.SpecClasses()) }

// Colormap returns the projected, deduplicated visualization colormap.
func (d *Dataset) Colormap() [][3]uint8 { return Colormap(d.remapper.SpecClasses()) }

// HasROI reports whether an ROI table was configured.
func (d *Dataset) HasROI() bool { return d.hasROI }
