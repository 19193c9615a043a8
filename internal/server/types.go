// Package server exposes the dataset over HTTP for training and
// evaluation consumers: subset metadata, random-access sample reads in
// several formats, a sequential websocket stream and Prometheus metrics.
package server

import (
	"github.com/linggood/kits19-challenge/internal/dataset"
	"github.com/linggood/kits19-challenge/internal/roi"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	ds         *dataset.Dataset
	corsOrigin string
	timeoutSec int
}

// Config holds server configuration.
type Config struct {
	Host       string
	Port       int
	CORSOrigin string
	TimeoutSec int
}

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// DatasetInfoResponse describes the loaded dataset.
type DatasetInfoResponse struct {
	TotalSlices int            `json:"total_slices"`
	Subsets     map[string]int `json:"subsets"`
	StackWidth  int            `json:"stack_width"`
	ImgChannels int            `json:"img_channels"`
	NumClasses  int            `json:"num_classes"`
	Classes     []string       `json:"classes"`
	Colormap    [][3]uint8     `json:"colormap"`
	HasROI      bool           `json:"has_roi"`
}

// SampleResponse is the JSON representation of one retrieved sample.
// Pixel payloads are served through the npy and png formats instead.
type SampleResponse struct {
	Index     int        `json:"index"`
	Name      string     `json:"name"`
	Subset    string     `json:"subset"`
	Channels  int        `json:"channels"`
	Height    int        `json:"height"`
	Width     int        `json:"width"`
	HasLabel  bool       `json:"has_label"`
	ROI       *roi.Range `json:"roi,omitempty"`
	ImageMin  float64    `json:"image_min"`
	ImageMax  float64    `json:"image_max"`
	ImageMean float64    `json:"image_mean"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
