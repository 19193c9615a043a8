package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linggood/kits19-challenge/internal/roi"
	"github.com/linggood/kits19-challenge/internal/volume"
)

func TestWriteCaseLayout(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, WriteCase(root, CaseSpec{ID: 3, Slices: 4, Height: 8, Width: 8, WithLabels: true}))

	imgs, err := filepath.Glob(filepath.Join(root, "case_00003", "imaging", "*.npy"))
	require.NoError(t, err)
	assert.Len(t, imgs, 4)

	labels, err := filepath.Glob(filepath.Join(root, "case_00003", "segmentation", "*.npy"))
	require.NoError(t, err)
	assert.Len(t, labels, 4)

	m, err := volume.LoadSlice(filepath.Join(root, "case_00003", "imaging", "000002.npy"))
	require.NoError(t, err)
	assert.Equal(t, SliceValue(3, 2), m.At(0, 0))
}

func TestWriteCaseWithoutLabels(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, WriteCase(root, CaseSpec{ID: 5, Slices: 2, Height: 4, Width: 4}))

	_, err := os.Stat(filepath.Join(root, "case_00005", "segmentation"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteDataset(t *testing.T) {
	root := t.TempDir()
	spec := DatasetSpec{
		Train: []CaseSpec{{ID: 1, Slices: 3, Height: 4, Width: 4, WithLabels: true}},
		Valid: []CaseSpec{{ID: 2, Slices: 2, Height: 4, Width: 4, WithLabels: true}},
		Test:  []CaseSpec{{ID: 3, Slices: 2, Height: 4, Width: 4}},
		ROIs: map[int]roi.Range{
			1: {MinZ: 0, MaxZ: 3},
			2: {MinZ: 0, MaxZ: 2},
			3: {MinZ: 0, MaxZ: 2},
		},
	}
	require.NoError(t, WriteDataset(root, spec))

	for _, name := range []string{"train.txt", "val.txt", "test.txt", "roi.json"} {
		_, err := os.Stat(filepath.Join(root, name))
		assert.NoError(t, err, name)
	}

	table, err := roi.LoadTable(filepath.Join(root, "roi.json"))
	require.NoError(t, err)
	r, ok := table.Kidney(2)
	require.True(t, ok)
	assert.Equal(t, roi.Range{MinZ: 0, MaxZ: 2}, r)
}
