// Package testutil generates synthetic KiTS19-style dataset trees for
// tests and the generate-test-data command: per-case imaging and
// segmentation slice files, subset case-id files and an ROI table.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/linggood/kits19-challenge/internal/roi"
	"github.com/linggood/kits19-challenge/internal/volume"
)

// CaseSpec describes one synthetic case volume.
type CaseSpec struct {
	ID         int
	Slices     int
	Height     int
	Width      int
	WithLabels bool
}

// DatasetSpec describes a complete synthetic dataset tree.
type DatasetSpec struct {
	Train []CaseSpec
	Valid []CaseSpec
	Test  []CaseSpec
	// ROIs, when non-nil, is written as roi.json keyed by case id.
	ROIs map[int]roi.Range
}

// SliceValue is the fill value of every pixel of a synthetic image slice.
// Tests use it to assert exactly which slice a stacked channel came from.
func SliceValue(caseID, z int) float64 {
	return float64(caseID*1000 + z)
}

// LabelValue is the deterministic class id at a pixel of a synthetic
// label slice; it cycles through the three canonical classes.
func LabelValue(row, col int) float64 {
	return float64((row + col) % 3)
}

// WriteCase writes one synthetic case tree under root.
func WriteCase(root string, cs CaseSpec) error {
	caseDir := filepath.Join(root, roi.CaseKey(cs.ID))
	imagingDir := filepath.Join(caseDir, "imaging")
	if err := os.MkdirAll(imagingDir, 0o750); err != nil {
		return err
	}
	for z := 0; z < cs.Slices; z++ {
		img := mat.NewDense(cs.Height, cs.Width, nil)
		for i := 0; i < cs.Height; i++ {
			for j := 0; j < cs.Width; j++ {
				img.Set(i, j, SliceValue(cs.ID, z))
			}
		}
		if err := volume.SaveSlice(filepath.Join(imagingDir, sliceName(z)), img); err != nil {
			return err
		}
	}
	if !cs.WithLabels {
		return nil
	}

	segDir := filepath.Join(caseDir, "segmentation")
	if err := os.MkdirAll(segDir, 0o750); err != nil {
		return err
	}
	for z := 0; z < cs.Slices; z++ {
		label := mat.NewDense(cs.Height, cs.Width, nil)
		for i := 0; i < cs.Height; i++ {
			for j := 0; j < cs.Width; j++ {
				label.Set(i, j, LabelValue(i, j))
			}
		}
		if err := volume.SaveSlice(filepath.Join(segDir, sliceName(z)), label); err != nil {
			return err
		}
	}
	return nil
}

func sliceName(z int) string {
	return fmt.Sprintf("%06d.npy", z)
}

// WriteCaseIDFile writes a per-subset case-id file, one id per line.
func WriteCaseIDFile(path string, specs []CaseSpec) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	for _, cs := range specs {
		if _, err := fmt.Fprintf(f, "%d\n", cs.ID); err != nil {
			_ = f.Close()
			return err
		}
	}
	return f.Close()
}

// WriteROITable writes an ROI table JSON file keyed by canonical case key.
func WriteROITable(path string, rois map[int]roi.Range) error {
	table := make(roi.Table, len(rois))
	for id, r := range rois {
		table[roi.CaseKey(id)] = map[string]roi.Range{roi.Kidney: r}
	}
	raw, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

// WriteDataset writes a complete synthetic dataset tree under root,
// including train.txt, val.txt, test.txt and, when ROIs is set, roi.json.
func WriteDataset(root string, spec DatasetSpec) error {
	for _, group := range [][]CaseSpec{spec.Train, spec.Valid, spec.Test} {
		for _, cs := range group {
			if err := WriteCase(root, cs); err != nil {
				return err
			}
		}
	}
	files := map[string][]CaseSpec{
		"train.txt": spec.Train,
		"val.txt":   spec.Valid,
		"test.txt":  spec.Test,
	}
	for name, specs := range files {
		if err := WriteCaseIDFile(filepath.Join(root, name), specs); err != nil {
			return err
		}
	}
	if spec.ROIs != nil {
		if err := WriteROITable(filepath.Join(root, "roi.json"), spec.ROIs); err != nil {
			return err
		}
	}
	return nil
}
