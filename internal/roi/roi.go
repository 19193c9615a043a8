// Package roi handles per-case region-of-interest metadata: the z-range
// of each case volume that actually contains kidney tissue. Slices outside
// the (error-padded) range are excluded from the dataset index entirely.
package roi

import (
	"encoding/json"
	"fmt"
	"os"
)

// Kidney is the organ key used by the KiTS19 ROI files.
const Kidney = "kidney"

// Range is an inclusive-exclusive z-range in raw slice-index units,
// before any trimming is applied.
type Range struct {
	MinZ int `json:"min_z"`
	MaxZ int `json:"max_z"`
}

// Clamp returns the effective visible range [lo, hi) for a case with n raw
// slices, widening the ROI by errRange slices on both sides and clamping
// to the volume bounds. Growing errRange never shrinks the result.
func (r Range) Clamp(n, errRange int) (lo, hi int) {
	lo = r.MinZ - errRange
	if lo < 0 {
		lo = 0
	}
	hi = r.MaxZ + errRange
	if hi > n {
		hi = n
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// Table maps canonical case keys to per-organ ROI ranges.
type Table map[string]map[string]Range

// CaseKey returns the canonical case key for an id, e.g. "case_00012".
func CaseKey(id int) string {
	return fmt.Sprintf("case_%05d", id)
}

// LoadTable reads an ROI table from a JSON file of the form
// {"case_00000": {"kidney": {"min_z": 10, "max_z": 140}}, ...}.
func LoadTable(path string) (Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("roi: failed to read table %s: %w", path, err)
	}
	var t Table
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("roi: failed to parse table %s: %w", path, err)
	}
	return t, nil
}

// Kidney looks up the kidney ROI for a case id.
func (t Table) Kidney(id int) (Range, bool) {
	organs, ok := t[CaseKey(id)]
	if !ok {
		return Range{}, false
	}
	r, ok := organs[Kidney]
	return r, ok
}
