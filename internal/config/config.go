// Package config defines the application configuration and its loading
// from files, environment variables and command-line flags.
package config

import (
	"fmt"

	"github.com/linggood/kits19-challenge/internal/dataset"
)

// Config is the complete configuration for the kits19 dataset service.
type Config struct {
	// Root is the dataset directory containing the case trees, the
	// subset case-id files and the optional ROI table.
	Root     string `mapstructure:"root" yaml:"root" json:"root"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Dataset DatasetConfig `mapstructure:"dataset" yaml:"dataset" json:"dataset"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server" json:"server"`
}

// DatasetConfig contains slice-index and sample-retrieval settings.
type DatasetConfig struct {
	StackWidth    int    `mapstructure:"stack_width" yaml:"stack_width" json:"stack_width"`
	SpecClasses   []int  `mapstructure:"spec_classes" yaml:"spec_classes" json:"spec_classes"`
	ImgHeight     int    `mapstructure:"img_height" yaml:"img_height" json:"img_height"`
	ImgWidth      int    `mapstructure:"img_width" yaml:"img_width" json:"img_width"`
	TrainCaseFile string `mapstructure:"train_case_file" yaml:"train_case_file" json:"train_case_file"`
	ValidCaseFile string `mapstructure:"valid_case_file" yaml:"valid_case_file" json:"valid_case_file"`
	TestCaseFile  string `mapstructure:"test_case_file" yaml:"test_case_file" json:"test_case_file"`
	ROIFile       string `mapstructure:"roi_file" yaml:"roi_file" json:"roi_file"`
	ROIErrorRange int    `mapstructure:"roi_error_range" yaml:"roi_error_range" json:"roi_error_range"`
}

// ServerConfig contains settings for serve mode.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// DefaultConfig returns the configuration defaults for the conventional
// KiTS19 layout.
func DefaultConfig() *Config {
	return &Config{
		Root:     "data",
		LogLevel: "info",
		Dataset: DatasetConfig{
			StackWidth:    3,
			SpecClasses:   []int{0, 1, 2},
			ImgHeight:     512,
			ImgWidth:      512,
			TrainCaseFile: "train.txt",
			ValidCaseFile: "val.txt",
			TestCaseFile:  "test.txt",
			ROIErrorRange: 0,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			TimeoutSec:      30,
			ShutdownTimeout: 10,
		},
	}
}

// Validate checks the configuration for inconsistencies. It fails fast so
// a bad class projection or negative margin never reaches the dataset.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("config: root must not be empty")
	}
	if c.Dataset.StackWidth < 1 {
		return fmt.Errorf("config: stack_width must be >= 1, got %d", c.Dataset.StackWidth)
	}
	if c.Dataset.ROIErrorRange < 0 {
		return fmt.Errorf("config: roi_error_range must be >= 0, got %d", c.Dataset.ROIErrorRange)
	}
	if c.Dataset.ImgHeight < 0 || c.Dataset.ImgWidth < 0 {
		return fmt.Errorf("config: img dimensions must be >= 0")
	}
	if c.Dataset.SpecClasses != nil && len(c.Dataset.SpecClasses) != len(dataset.CanonicalClassNames()) {
		return &dataset.InvalidSpecClassesError{Got: len(c.Dataset.SpecClasses)}
	}
	for _, v := range c.Dataset.SpecClasses {
		if v < 0 || v >= len(dataset.CanonicalClassNames()) {
			return fmt.Errorf("config: spec_classes value %d outside canonical class range", v)
		}
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Server.Port)
	}
	return nil
}

// DatasetParams converts the configuration into dataset construction
// parameters.
func (c *Config) DatasetParams() dataset.Params {
	return dataset.Params{
		Root:          c.Root,
		StackWidth:    c.Dataset.StackWidth,
		SpecClasses:   c.Dataset.SpecClasses,
		ImgHeight:     c.Dataset.ImgHeight,
		ImgWidth:      c.Dataset.ImgWidth,
		TrainCaseFile: c.Dataset.TrainCaseFile,
		ValidCaseFile: c.Dataset.ValidCaseFile,
		TestCaseFile:  c.Dataset.TestCaseFile,
		ROIFile:       c.Dataset.ROIFile,
		ROIErrorRange: c.Dataset.ROIErrorRange,
	}
}
