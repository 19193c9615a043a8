package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linggood/kits19-challenge/internal/testutil"
)

// writeCommandFixture builds a small dataset tree plus a config file
// pointing at it with resizing disabled, and returns the config path.
func writeCommandFixture(t *testing.T) (root, cfgPath string) {
	t.Helper()
	root = t.TempDir()
	spec := testutil.DatasetSpec{
		Train: []testutil.CaseSpec{{ID: 1, Slices: 4, Height: 8, Width: 8, WithLabels: true}},
		Valid: []testutil.CaseSpec{{ID: 2, Slices: 3, Height: 8, Width: 8, WithLabels: true}},
		Test:  []testutil.CaseSpec{{ID: 3, Slices: 2, Height: 8, Width: 8}},
	}
	require.NoError(t, testutil.WriteDataset(root, spec))

	cfgPath = filepath.Join(t.TempDir(), "kits19.yaml")
	cfg := "root: " + root + "\n" +
		"dataset:\n" +
		"  stack_width: 3\n" +
		"  img_height: 0\n" +
		"  img_width: 0\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	return root, cfgPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// The config file lives in a per-test temp dir; clear the loader
	// state afterwards so later commands do not resolve a stale path.
	t.Cleanup(func() {
		cfgFile = ""
		globalConfig = nil
	})
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestInfoCommandJSON(t *testing.T) {
	_, cfgPath := writeCommandFixture(t)

	output, err := runCommand(t, "info", "--config", cfgPath, "--format", "json")
	require.NoError(t, err)

	var info datasetInfo
	require.NoError(t, json.Unmarshal([]byte(output), &info))
	assert.Equal(t, 9, info.TotalSlices)
	assert.Equal(t, 4, info.Subsets["train"])
	assert.Equal(t, 3, info.Subsets["valid"])
	assert.Equal(t, 2, info.Subsets["test"])
	assert.Equal(t, 3, info.StackWidth)
	assert.Equal(t, 3, info.ImgChannels)
	assert.Equal(t, []string{"background", "kidney", "tumor"}, info.Classes)
	assert.False(t, info.HasROI)
}

func TestInfoCommandText(t *testing.T) {
	_, cfgPath := writeCommandFixture(t)

	output, err := runCommand(t, "info", "--config", cfgPath, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, output, "Total slices: 9")
	assert.Contains(t, output, "kidney")
}

func TestInfoCommandInvalidFormat(t *testing.T) {
	_, cfgPath := writeCommandFixture(t)

	_, err := runCommand(t, "info", "--config", cfgPath, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}
