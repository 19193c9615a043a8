package roi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaseKey(t *testing.T) {
	assert.Equal(t, "case_00000", CaseKey(0))
	assert.Equal(t, "case_00007", CaseKey(7))
	assert.Equal(t, "case_00123", CaseKey(123))
}

func TestRangeClamp(t *testing.T) {
	tests := []struct {
		name     string
		r        Range
		n        int
		errRange int
		wantLo   int
		wantHi   int
	}{
		{"no margin", Range{MinZ: 2, MaxZ: 8}, 10, 0, 2, 8},
		{"margin of one", Range{MinZ: 2, MaxZ: 8}, 10, 1, 1, 9},
		{"margin clamps to volume", Range{MinZ: 2, MaxZ: 8}, 10, 5, 0, 10},
		{"roi covers volume", Range{MinZ: 0, MaxZ: 10}, 10, 0, 0, 10},
		{"roi beyond volume", Range{MinZ: 0, MaxZ: 50}, 10, 0, 0, 10},
		{"degenerate roi", Range{MinZ: 5, MaxZ: 5}, 10, 0, 5, 5},
		{"inverted roi stays empty", Range{MinZ: 8, MaxZ: 2}, 10, 0, 8, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := tt.r.Clamp(tt.n, tt.errRange)
			assert.Equal(t, tt.wantLo, lo)
			assert.Equal(t, tt.wantHi, hi)
		})
	}
}

// Growing the error margin must never shrink the visible slice count, and
// the count can never exceed the raw slice count.
func TestRangeClampMonotonic(t *testing.T) {
	r := Range{MinZ: 3, MaxZ: 12}
	const n = 20
	prev := -1
	for errRange := 0; errRange <= n; errRange++ {
		lo, hi := r.Clamp(n, errRange)
		count := hi - lo
		assert.GreaterOrEqual(t, count, prev, "errRange=%d", errRange)
		assert.LessOrEqual(t, count, n, "errRange=%d", errRange)
		prev = count
	}
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roi.json")
	content := `{
		"case_00001": {"kidney": {"min_z": 2, "max_z": 8}},
		"case_00002": {"kidney": {"min_z": 0, "max_z": 6}}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	table, err := LoadTable(path)
	require.NoError(t, err)

	r, ok := table.Kidney(1)
	require.True(t, ok)
	assert.Equal(t, Range{MinZ: 2, MaxZ: 8}, r)

	_, ok = table.Kidney(99)
	assert.False(t, ok)
}

func TestLoadTableErrors(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err = LoadTable(path)
	assert.Error(t, err)
}
