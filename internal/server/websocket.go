package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// StreamSampleMessage is one sample's metadata sent over the stream.
type StreamSampleMessage struct {
	Type   string          `json:"type"` // "sample", "done" or "error"
	Sample *SampleResponse `json:"sample,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// streamSamplesHandler streams a contiguous run of samples from one
// subset, in order, over a WebSocket connection. Query parameters:
// subset (train|valid|test), start (default 0) and count (default: the
// rest of the subset). Pixel payloads are fetched separately through the
// npy endpoint; the stream carries metadata so a consumer can drive
// ordered, on-demand loading.
func (s *Server) streamSamplesHandler(w http.ResponseWriter, r *http.Request) {
	subsetName := r.URL.Query().Get("subset")
	subset := s.subsetByName(subsetName)
	if subset == nil {
		http.Error(w, "unknown subset", http.StatusNotFound)
		return
	}

	start := 0
	if v := r.URL.Query().Get("start"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "bad start", http.StatusBadRequest)
			return
		}
		start = n
	}
	count := subset.Len() - start
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "bad count", http.StatusBadRequest)
			return
		}
		if n < count {
			count = n
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("Sample stream started",
		"remote_addr", r.RemoteAddr, "subset", subsetName, "start", start, "count", count)

	for pos := start; pos < start+count; pos++ {
		sample, err := subset.At(pos)
		if err != nil {
			sampleReadsTotal.WithLabelValues(subsetName, "error").Inc()
			_ = s.writeStreamMessage(conn, StreamSampleMessage{Type: "error", Error: err.Error()})
			return
		}
		sampleReadsTotal.WithLabelValues(subsetName, "ok").Inc()

		name, err := s.ds.IdxToName(sample.Index)
		if err != nil {
			_ = s.writeStreamMessage(conn, StreamSampleMessage{Type: "error", Error: err.Error()})
			return
		}
		rows, cols := sample.Dims()
		msg := StreamSampleMessage{
			Type: "sample",
			Sample: &SampleResponse{
				Index:    sample.Index,
				Name:     name,
				Subset:   subsetName,
				Channels: sample.Channels(),
				Height:   rows,
				Width:    cols,
				HasLabel: sample.Label != nil,
				ROI:      sample.ROI,
			},
		}
		if err := s.writeStreamMessage(conn, msg); err != nil {
			slog.Debug("Sample stream closed by peer", "error", err)
			return
		}
	}

	_ = s.writeStreamMessage(conn, StreamSampleMessage{Type: "done"})
	slog.Info("Sample stream completed", "subset", subsetName, "count", count)
}

func (s *Server) writeStreamMessage(conn *websocket.Conn, msg StreamSampleMessage) error {
	if err := conn.WriteJSON(msg); err != nil {
		return err
	}
	websocketMessagesTotal.WithLabelValues("sent").Inc()
	return nil
}
