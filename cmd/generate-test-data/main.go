// Command generate-test-data writes a synthetic KiTS19-style dataset
// tree for local development and integration testing: per-case slice
// files, subset case-id files and an ROI table.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/linggood/kits19-challenge/internal/roi"
	"github.com/linggood/kits19-challenge/internal/testutil"
)

func main() {
	// Set up structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		outDir     = flag.String("out", "testdata/dataset", "Output directory for the dataset tree")
		trainCases = flag.Int("train-cases", 3, "Number of training cases")
		validCases = flag.Int("valid-cases", 1, "Number of validation cases")
		testCases  = flag.Int("test-cases", 1, "Number of test cases")
		slices     = flag.Int("slices", 16, "Slices per case")
		size       = flag.Int("size", 64, "Slice height and width in pixels")
		withROI    = flag.Bool("roi", true, "Write an ROI table covering the middle slices")
		help       = flag.Bool("h", false, "Show help")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Generate a synthetic KiTS19-style dataset tree.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEXAMPLES:\n")
		fmt.Fprintf(os.Stderr, "  %s                          # Generate the default tree\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -out /tmp/kits19 -slices 32\n", os.Args[0])
	}

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	slog.Info("Starting test data generation...",
		"out", *outDir, "train", *trainCases, "valid", *validCases, "test", *testCases)

	spec := testutil.DatasetSpec{}
	nextID := 1
	addCases := func(n int, withLabels bool) []testutil.CaseSpec {
		cases := make([]testutil.CaseSpec, 0, n)
		for i := 0; i < n; i++ {
			cases = append(cases, testutil.CaseSpec{
				ID:         nextID,
				Slices:     *slices,
				Height:     *size,
				Width:      *size,
				WithLabels: withLabels,
			})
			nextID++
		}
		return cases
	}
	spec.Train = addCases(*trainCases, true)
	spec.Valid = addCases(*validCases, true)
	spec.Test = addCases(*testCases, false)

	if *withROI {
		spec.ROIs = make(map[int]roi.Range)
		for _, cs := range append(append(spec.Train, spec.Valid...), spec.Test...) {
			spec.ROIs[cs.ID] = roi.Range{MinZ: cs.Slices / 4, MaxZ: 3 * cs.Slices / 4}
		}
	}

	if err := testutil.WriteDataset(*outDir, spec); err != nil {
		slog.Error("Failed to generate dataset", "error", err)
		os.Exit(1)
	}

	total := (*trainCases + *validCases + *testCases) * *slices
	slog.Info("Test data generation completed", "cases", nextID-1, "slices", total)
}
