package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gonum.org/v1/gonum/mat"

	"github.com/linggood/kits19-challenge/internal/dataset"
	"github.com/linggood/kits19-challenge/internal/vis"
	"github.com/linggood/kits19-challenge/internal/volume"
)

const (
	formatJSON = "json"
	formatPNG  = "png"
	formatNPY  = "npy"
)

// NewServer creates a server around an already-constructed dataset.
func NewServer(ds *dataset.Dataset, cfg Config) (*Server, error) {
	if ds == nil {
		return nil, errors.New("server: dataset must not be nil")
	}
	corsOrigin := cfg.CORSOrigin
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	return &Server{ds: ds, corsOrigin: corsOrigin, timeoutSec: cfg.TimeoutSec}, nil
}

// SetupRoutes registers all HTTP routes on the mux.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/dataset", s.corsMiddleware(s.datasetHandler))
	mux.HandleFunc("/subsets/", s.corsMiddleware(s.sampleHandler))
	mux.HandleFunc("/ws/samples", s.streamSamplesHandler)
	mux.Handle("/metrics", promhttp.Handler())
}

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status: "healthy",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// datasetHandler returns metadata about the loaded dataset.
func (s *Server) datasetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := DatasetInfoResponse{
		TotalSlices: s.ds.Len(),
		Subsets: map[string]int{
			"train": s.ds.Train().Len(),
			"valid": s.ds.Valid().Len(),
			"test":  s.ds.Test().Len(),
		},
		StackWidth:  s.ds.StackWidth(),
		ImgChannels: s.ds.ImgChannels(),
		NumClasses:  s.ds.NumClasses(),
		Classes:     s.ds.ClassNames(),
		Colormap:    s.ds.Colormap(),
		HasROI:      s.ds.HasROI(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding dataset response: %v\n", err)
	}
}

// sampleHandler serves GET /subsets/{subset}/samples/{index}.
func (s *Server) sampleHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	subsetName, pos, ok := parseSamplePath(r.URL.Path)
	if !ok {
		s.writeErrorResponse(w, "Invalid sample path", http.StatusBadRequest)
		return
	}
	subset := s.subsetByName(subsetName)
	if subset == nil {
		s.writeErrorResponse(w, fmt.Sprintf("Unknown subset %q", subsetName), http.StatusNotFound)
		return
	}

	start := time.Now()
	sample, err := subset.At(pos)
	if err != nil {
		sampleReadsTotal.WithLabelValues(subsetName, "error").Inc()
		s.writeSampleError(w, err)
		return
	}
	sampleReadsTotal.WithLabelValues(subsetName, "ok").Inc()
	sampleReadDuration.WithLabelValues(subsetName).Observe(time.Since(start).Seconds())

	switch r.URL.Query().Get("format") {
	case "", formatJSON:
		s.writeSampleJSON(w, subsetName, sample)
	case formatPNG:
		s.writeSamplePNG(w, r, sample)
	case formatNPY:
		s.writeSampleNPY(w, r, sample)
	default:
		s.writeErrorResponse(w, "Unknown format", http.StatusBadRequest)
	}
}

// parseSamplePath splits /subsets/{subset}/samples/{index}.
func parseSamplePath(path string) (subset string, pos int, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 || parts[0] != "subsets" || parts[2] != "samples" {
		return "", 0, false
	}
	pos, err := strconv.Atoi(parts[3])
	if err != nil {
		return "", 0, false
	}
	return parts[1], pos, true
}

func (s *Server) subsetByName(name string) *dataset.Subset {
	switch name {
	case "train":
		return s.ds.Train()
	case "valid":
		return s.ds.Valid()
	case "test":
		return s.ds.Test()
	default:
		return nil
	}
}

func (s *Server) writeSampleJSON(w http.ResponseWriter, subsetName string, sample dataset.Sample) {
	name, err := s.ds.IdxToName(sample.Index)
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rows, cols := sample.Dims()
	center := centerChannel(sample)

	response := SampleResponse{
		Index:    sample.Index,
		Name:     name,
		Subset:   subsetName,
		Channels: sample.Channels(),
		Height:   rows,
		Width:    cols,
		HasLabel: sample.Label != nil,
		ROI:      sample.ROI,
		ImageMin: mat.Min(center),
		ImageMax: mat.Max(center),
	}
	if rows*cols > 0 {
		response.ImageMean = mat.Sum(center) / float64(rows*cols)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding sample response: %v\n", err)
	}
}

// writeSamplePNG renders the center channel as grayscale, optionally
// blended with the colormapped label.
func (s *Server) writeSamplePNG(w http.ResponseWriter, r *http.Request, sample dataset.Sample) {
	var img = vis.GrayImage(centerChannel(sample))
	if r.URL.Query().Get("overlay") == "1" && sample.Label != nil {
		img = vis.Overlay(centerChannel(sample), sample.Label, s.ds.Colormap(), 0.4)
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding sample png: %v\n", err)
	}
}

// writeSampleNPY serves the center channel (or the label, with
// which=label) as a raw .npy payload.
func (s *Server) writeSampleNPY(w http.ResponseWriter, r *http.Request, sample dataset.Sample) {
	m := centerChannel(sample)
	if r.URL.Query().Get("which") == "label" {
		if sample.Label == nil {
			s.writeErrorResponse(w, "Sample has no label", http.StatusNotFound)
			return
		}
		m = sample.Label
	}

	var buf bytes.Buffer
	if err := volume.EncodeSlice(&buf, m); err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := w.Write(buf.Bytes()); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing sample npy: %v\n", err)
	}
}

func centerChannel(sample dataset.Sample) *mat.Dense {
	return sample.Image[len(sample.Image)/2]
}

// writeSampleError maps dataset failures onto HTTP status codes.
func (s *Server) writeSampleError(w http.ResponseWriter, err error) {
	var oor *dataset.IndexOutOfRangeError
	if errors.As(err, &oor) {
		s.writeErrorResponse(w, err.Error(), http.StatusNotFound)
		return
	}
	var loadErr *volume.LoadError
	if errors.As(err, &loadErr) {
		s.writeErrorResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeErrorResponse(w, err.Error(), http.StatusInternalServerError)
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Log error, but can't send another response
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}
