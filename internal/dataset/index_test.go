package dataset

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCase builds a catalog entry with synthetic paths; the flat index
// never touches disk.
func fakeCase(id, slices int) caseEntry {
	e := caseEntry{ID: id}
	for z := 0; z < slices; z++ {
		e.Images = append(e.Images, fmt.Sprintf("case_%05d/imaging/%06d.npy", id, z))
		e.Labels = append(e.Labels, fmt.Sprintf("case_%05d/segmentation/%06d.npy", id, z))
	}
	return e
}

func TestFlatIndexBoundaries(t *testing.T) {
	x := newFlatIndex(
		&catalog{Cases: []caseEntry{fakeCase(1, 10)}},
		&catalog{Cases: []caseEntry{fakeCase(2, 6)}},
		&catalog{},
	)

	assert.Equal(t, 16, x.Len())
	assert.Equal(t, []int{0, 10, 16}, x.bounds)
	assert.Equal(t, Range{Start: 0, End: 10}, x.train)
	assert.Equal(t, Range{Start: 10, End: 16}, x.valid)
	assert.Equal(t, Range{Start: 16, End: 16}, x.test)
}

// The three subset ranges partition [0, N): contiguous, disjoint and
// exhaustive.
func TestFlatIndexSubsetPartition(t *testing.T) {
	x := newFlatIndex(
		&catalog{Cases: []caseEntry{fakeCase(1, 4), fakeCase(2, 3)}},
		&catalog{Cases: []caseEntry{fakeCase(3, 5)}},
		&catalog{Cases: []caseEntry{fakeCase(4, 2)}},
	)

	assert.Equal(t, 0, x.train.Start)
	assert.Equal(t, x.train.End, x.valid.Start)
	assert.Equal(t, x.valid.End, x.test.Start)
	assert.Equal(t, x.Len(), x.test.End)

	for i := 0; i < x.Len(); i++ {
		n := 0
		for _, r := range []Range{x.train, x.valid, x.test} {
			if r.Contains(i) {
				n++
			}
		}
		assert.Equal(t, 1, n, "index %d must belong to exactly one subset", i)
	}
}

// LocateCase is total and correct over [0, N).
func TestLocateCaseExhaustive(t *testing.T) {
	x := newFlatIndex(
		&catalog{Cases: []caseEntry{fakeCase(1, 4), fakeCase(2, 1), fakeCase(3, 7)}},
		&catalog{Cases: []caseEntry{fakeCase(4, 3)}},
		&catalog{Cases: []caseEntry{fakeCase(5, 2)}},
	)

	for i := 0; i < x.Len(); i++ {
		c, err := x.LocateCase(i)
		require.NoError(t, err, "index %d", i)
		lo, hi := x.caseBounds(c)
		assert.True(t, lo <= i && i < hi, "index %d located in case %d with bounds [%d,%d)", i, c, lo, hi)
	}
}

func TestLocateCaseOutOfRange(t *testing.T) {
	x := newFlatIndex(&catalog{Cases: []caseEntry{fakeCase(1, 3)}}, &catalog{}, &catalog{})

	for _, i := range []int{-1, 3, 100} {
		_, err := x.LocateCase(i)
		var oor *IndexOutOfRangeError
		require.True(t, errors.As(err, &oor), "index %d", i)
		assert.Equal(t, i, oor.Index)
		assert.Equal(t, 3, oor.Size)
	}
}

func TestFlatIndexEmptySubsets(t *testing.T) {
	x := newFlatIndex(&catalog{}, &catalog{}, &catalog{Cases: []caseEntry{fakeCase(9, 5)}})

	assert.Equal(t, 0, x.train.Len())
	assert.Equal(t, 0, x.valid.Len())
	assert.Equal(t, 5, x.test.Len())

	c, err := x.LocateCase(0)
	require.NoError(t, err)
	assert.Equal(t, 0, c)
}
