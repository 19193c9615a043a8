package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/linggood/kits19-challenge/internal/dataset"
	"github.com/linggood/kits19-challenge/internal/roi"
	"github.com/linggood/kits19-challenge/internal/vis"
	"github.com/linggood/kits19-challenge/internal/volume"
	"github.com/spf13/cobra"
)

// sampleInfo is the JSON shape of the sample command output.
type sampleInfo struct {
	Index    int        `json:"index"`
	Name     string     `json:"name"`
	Subset   string     `json:"subset"`
	Channels int        `json:"channels"`
	Height   int        `json:"height"`
	Width    int        `json:"width"`
	HasLabel bool       `json:"has_label"`
	ROI      *roi.Range `json:"roi,omitempty"`
}

// sampleCmd represents the sample command.
var sampleCmd = &cobra.Command{
	Use:   "sample <subset> <index>",
	Short: "Retrieve one sample from a subset",
	Long: `Read a single windowed slice stack from a subset by its position
within that subset, print its metadata and optionally export the center
slice.

The png export renders the center slice as a grayscale image; with
--overlay the segmentation label is blended on top. The npy export
writes the center slice as a NumPy file.

Examples:
  kits19 sample train 42
  kits19 sample valid 0 --format json
  kits19 sample train 42 --png slice.png --overlay
  kits19 sample test 7 --npy slice.npy`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		subsetName := args[0]
		pos, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid sample index %q: %w", args[1], err)
		}

		format, _ := cmd.Flags().GetString("format")
		if format != outputFormatText && format != outputFormatJSON {
			return fmt.Errorf("invalid output format: %s (must be one of: %s)",
				format, strings.Join([]string{outputFormatText, outputFormatJSON}, ", "))
		}

		ds, err := dataset.New(cfg.DatasetParams())
		if err != nil {
			return fmt.Errorf("failed to index dataset: %w", err)
		}

		var subset *dataset.Subset
		switch subsetName {
		case "train":
			subset = ds.Train()
		case "valid":
			subset = ds.Valid()
		case "test":
			subset = ds.Test()
		default:
			return fmt.Errorf("unknown subset %q (must be train, valid or test)", subsetName)
		}

		sample, err := subset.At(pos)
		if err != nil {
			var oor *dataset.IndexOutOfRangeError
			if errors.As(err, &oor) {
				return fmt.Errorf("index %d out of range for subset %s (size %d)", pos, subsetName, oor.Size)
			}
			return fmt.Errorf("failed to read sample: %w", err)
		}

		name, err := ds.IdxToName(sample.Index)
		if err != nil {
			return fmt.Errorf("failed to resolve sample name: %w", err)
		}

		if err := exportSample(cmd, ds, sample); err != nil {
			return err
		}

		rows, cols := sample.Dims()
		info := sampleInfo{
			Index:    sample.Index,
			Name:     name,
			Subset:   subsetName,
			Channels: sample.Channels(),
			Height:   rows,
			Width:    cols,
			HasLabel: sample.Label != nil,
			ROI:      sample.ROI,
		}

		out := cmd.OutOrStdout()
		if format == outputFormatJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}

		fmt.Fprintf(out, "Name:     %s\n", info.Name)
		fmt.Fprintf(out, "Index:    %d (subset %s)\n", info.Index, info.Subset)
		fmt.Fprintf(out, "Shape:    %dx%d, %d channels\n", info.Height, info.Width, info.Channels)
		fmt.Fprintf(out, "Label:    %v\n", info.HasLabel)
		if info.ROI != nil {
			fmt.Fprintf(out, "ROI:      [%d, %d)\n", info.ROI.MinZ, info.ROI.MaxZ)
		}
		return nil
	},
}

// exportSample writes the center slice of a sample to the paths given by
// the --png and --npy flags.
func exportSample(cmd *cobra.Command, ds *dataset.Dataset, sample dataset.Sample) error {
	center := sample.Image[len(sample.Image)/2]

	pngPath, _ := cmd.Flags().GetString("png")
	if pngPath != "" {
		overlay, _ := cmd.Flags().GetBool("overlay")
		if overlay {
			if sample.Label == nil {
				return errors.New("cannot render overlay: sample has no label")
			}
			if err := vis.SavePNG(pngPath, vis.Overlay(center, sample.Label, ds.Colormap(), 0.4)); err != nil {
				return fmt.Errorf("failed to write png: %w", err)
			}
		} else {
			if err := vis.SavePNG(pngPath, vis.GrayImage(center)); err != nil {
				return fmt.Errorf("failed to write png: %w", err)
			}
		}
	}

	npyPath, _ := cmd.Flags().GetString("npy")
	if npyPath != "" {
		if err := volume.SaveSlice(npyPath, center); err != nil {
			return fmt.Errorf("failed to write npy: %w", err)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().StringP("format", "f", outputFormatText, "output format (text, json)")
	sampleCmd.Flags().String("png", "", "write the center slice as a PNG to this path")
	sampleCmd.Flags().Bool("overlay", false, "blend the segmentation label into the PNG export")
	sampleCmd.Flags().String("npy", "", "write the center slice as a NumPy file to this path")
}
