package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/linggood/kits19-challenge/internal/dataset"
	"github.com/spf13/cobra"
)

const (
	outputFormatJSON = "json"
	outputFormatText = "text"
)

// datasetInfo is the JSON shape of the info command output.
type datasetInfo struct {
	Root        string         `json:"root"`
	TotalSlices int            `json:"total_slices"`
	Subsets     map[string]int `json:"subsets"`
	StackWidth  int            `json:"stack_width"`
	ImgChannels int            `json:"img_channels"`
	NumClasses  int            `json:"num_classes"`
	Classes     []string       `json:"classes"`
	HasROI      bool           `json:"has_roi"`
}

// infoCmd represents the info command.
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show a summary of the indexed dataset",
	Long: `Index the dataset under the configured root directory and print a
summary: slice counts per subset, stack width, channel count and the
projected class names.

Examples:
  kits19 info --root data
  kits19 info --root data --format json`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		format, _ := cmd.Flags().GetString("format")
		if format != outputFormatText && format != outputFormatJSON {
			return fmt.Errorf("invalid output format: %s (must be one of: %s)",
				format, strings.Join([]string{outputFormatText, outputFormatJSON}, ", "))
		}

		ds, err := dataset.New(cfg.DatasetParams())
		if err != nil {
			return fmt.Errorf("failed to index dataset: %w", err)
		}

		info := datasetInfo{
			Root:        cfg.Root,
			TotalSlices: ds.Len(),
			Subsets: map[string]int{
				"train": ds.Train().Len(),
				"valid": ds.Valid().Len(),
				"test":  ds.Test().Len(),
			},
			StackWidth:  ds.StackWidth(),
			ImgChannels: ds.ImgChannels(),
			NumClasses:  ds.NumClasses(),
			Classes:     ds.ClassNames(),
			HasROI:      ds.HasROI(),
		}

		out := cmd.OutOrStdout()
		if format == outputFormatJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}

		fmt.Fprintf(out, "Root:         %s\n", info.Root)
		fmt.Fprintf(out, "Total slices: %d\n", info.TotalSlices)
		fmt.Fprintf(out, "  train:      %d\n", info.Subsets["train"])
		fmt.Fprintf(out, "  valid:      %d\n", info.Subsets["valid"])
		fmt.Fprintf(out, "  test:       %d\n", info.Subsets["test"])
		fmt.Fprintf(out, "Stack width:  %d (%d channels)\n", info.StackWidth, info.ImgChannels)
		fmt.Fprintf(out, "Classes:      %s (%d)\n", strings.Join(info.Classes, ", "), info.NumClasses)
		fmt.Fprintf(out, "ROI table:    %v\n", info.HasROI)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().StringP("format", "f", outputFormatText, "output format (text, json)")
}
