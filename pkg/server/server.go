// Package server exposes the analysis pipeline over WebSocket. A
// client connects to /analyze, sends one binary MessagePack request
// holding the clips, and receives JSON text frames: progress updates
// while the job runs, then a single result or error frame.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/talkgenius/inspiration/pkg/pipeline"
	"github.com/talkgenius/inspiration/pkg/report"
)

// DefaultMaxUploadBytes caps the size of one request message. Two
// clips plus envelope overhead.
const DefaultMaxUploadBytes = 220 << 20

// Config holds the server settings.
type Config struct {
	// Workers caps how many analysis jobs run concurrently.
	// Zero means 2.
	Workers int

	// MaxUploadBytes caps the WebSocket request message size.
	// Zero means DefaultMaxUploadBytes.
	MaxUploadBytes int64
}

// Analyzer runs one analysis job. *pipeline.Pipeline implements it.
type Analyzer interface {
	Analyze(ctx context.Context, job pipeline.Job, progress pipeline.Progress) (*report.Combined, error)
}

// Server handles the HTTP and WebSocket surface.
type Server struct {
	cfg      Config
	analyzer Analyzer
	logger   *slog.Logger
	upgrader websocket.Upgrader
	sem      chan struct{}
}

// request is the client's MessagePack envelope. Either clip may be
// absent, but not both.
type request struct {
	Subject   []byte `msgpack:"subject"`
	Reference []byte `msgpack:"reference"`
}

// Outbound frame types.
const (
	frameProgress = "progress"
	frameResult   = "result"
	frameError    = "error"
)

type frame struct {
	Type   string           `json:"type"`
	Status string           `json:"status,omitempty"`
	Result *report.Combined `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// New creates a Server around the given analyzer.
func New(cfg Config, analyzer Analyzer) *Server {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &Server{
		cfg:      cfg,
		analyzer: analyzer,
		logger:   slog.Default().With("component", "server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 << 10,
			WriteBufferSize: 64 << 10,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		sem: make(chan struct{}, cfg.Workers),
	}
}

// Handler returns the HTTP handler for the full server surface.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.handleIndex)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "healthy",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"workers": s.cfg.Workers,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "inspiration analysis service")
	fmt.Fprintln(w, "WS  /analyze  submit clips for analysis")
	fmt.Fprintln(w, "GET /health   service health")
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	jobID := uuid.NewString()
	logger := s.logger.With("job", jobID)

	ws.SetReadLimit(s.cfg.MaxUploadBytes)

	msgType, data, err := ws.ReadMessage()
	if err != nil {
		logger.Warn("read failed", "error", err)
		return
	}
	if msgType != websocket.BinaryMessage {
		s.writeError(ws, &sync.Mutex{}, "expected a binary request message")
		return
	}

	var req request
	if err := msgpack.Unmarshal(data, &req); err != nil {
		s.writeError(ws, &sync.Mutex{}, "malformed request")
		return
	}
	logger.Info("job accepted", "subject_bytes", len(req.Subject), "reference_bytes", len(req.Reference))

	// One writer lock per connection; progress callbacks arrive from
	// pipeline goroutines.
	var mu sync.Mutex

	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	case <-r.Context().Done():
		return
	}

	progress := func(status string) {
		mu.Lock()
		defer mu.Unlock()
		if err := ws.WriteJSON(frame{Type: frameProgress, Status: status}); err != nil {
			logger.Debug("progress write failed", "error", err)
		}
	}

	result, err := s.analyzer.Analyze(r.Context(), pipeline.Job{
		Subject:   req.Subject,
		Reference: req.Reference,
	}, progress)
	if err != nil {
		logger.Warn("job failed", "error", err)
		s.writeError(ws, &mu, userFacingError(err))
		return
	}

	mu.Lock()
	defer mu.Unlock()
	if err := ws.WriteJSON(frame{Type: frameResult, Result: result}); err != nil {
		logger.Warn("result write failed", "error", err)
		return
	}
	logger.Info("job complete")
}

func (s *Server) writeError(ws *websocket.Conn, mu *sync.Mutex, msg string) {
	mu.Lock()
	defer mu.Unlock()
	if err := ws.WriteJSON(frame{Type: frameError, Error: msg}); err != nil {
		s.logger.Debug("error write failed", "error", err)
	}
}

func userFacingError(err error) string {
	if errors.Is(err, pipeline.ErrNoInput) {
		return "No video data provided"
	}
	return "Analysis failed"
}
