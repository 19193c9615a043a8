package config

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/linggood/kits19-challenge/internal/dataset"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty root", func(c *Config) { c.Root = "" }},
		{"zero stack width", func(c *Config) { c.Dataset.StackWidth = 0 }},
		{"negative error range", func(c *Config) { c.Dataset.ROIErrorRange = -1 }},
		{"negative img height", func(c *Config) { c.Dataset.ImgHeight = -1 }},
		{"spec class out of range", func(c *Config) { c.Dataset.SpecClasses = []int{0, 1, 7} }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateSpecClassesLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dataset.SpecClasses = []int{0, 1}
	err := cfg.Validate()

	var invalid *dataset.InvalidSpecClassesError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, 2, invalid.Got)
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dataset.StackWidth = 5
	cfg.Dataset.ROIFile = "roi.json"
	cfg.Server.Port = 9090

	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	var got Config
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, 5, got.Dataset.StackWidth)
	assert.Equal(t, "roi.json", got.Dataset.ROIFile)
	assert.Equal(t, 9090, got.Server.Port)
}

func TestConfigJSONUnmarshaling(t *testing.T) {
	raw := `{
		"root": "/data/kits19",
		"log_level": "debug",
		"dataset": {
			"stack_width": 3,
			"spec_classes": [0, 1, 1],
			"roi_file": "roi.json",
			"roi_error_range": 5
		},
		"server": {"host": "0.0.0.0", "port": 3000}
	}`

	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(raw), &cfg))
	assert.Equal(t, "/data/kits19", cfg.Root)
	assert.Equal(t, []int{0, 1, 1}, cfg.Dataset.SpecClasses)
	assert.Equal(t, 5, cfg.Dataset.ROIErrorRange)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestDatasetParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Root = "/data"
	cfg.Dataset.SpecClasses = []int{0, 1, 1}
	cfg.Dataset.ROIFile = "roi.json"

	p := cfg.DatasetParams()
	assert.Equal(t, "/data", p.Root)
	assert.Equal(t, 3, p.StackWidth)
	assert.Equal(t, []int{0, 1, 1}, p.SpecClasses)
	assert.Equal(t, "roi.json", p.ROIFile)
	assert.Equal(t, "train.txt", p.TrainCaseFile)
}
