package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubsetLengths(t *testing.T) {
	d := twoCaseDataset(t, 1)

	assert.Equal(t, 10, d.Train().Len())
	assert.Equal(t, 6, d.Valid().Len())
	assert.Equal(t, 0, d.Test().Len())
	assert.Equal(t, 16, d.Len())
}

// Subset access position p delegates to global index start+p.
func TestSubsetDelegation(t *testing.T) {
	d := twoCaseDataset(t, 1)

	s, err := d.Valid().At(0)
	require.NoError(t, err)
	assert.Equal(t, 10, s.Index)

	global, err := d.At(10)
	require.NoError(t, err)
	assert.Equal(t, channelValues(global), channelValues(s))

	s, err = d.Valid().At(5)
	require.NoError(t, err)
	assert.Equal(t, 15, s.Index)
}

func TestSubsetOutOfRange(t *testing.T) {
	d := twoCaseDataset(t, 1)

	for _, pos := range []int{-1, 6, 50} {
		_, err := d.Valid().At(pos)
		var oor *IndexOutOfRangeError
		require.True(t, errors.As(err, &oor), "pos=%d", pos)
		assert.Equal(t, 6, oor.Size)
	}
}
