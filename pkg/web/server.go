package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"
	"github.com/ritzau/roadmap/pkg/canvas"
	"github.com/ritzau/roadmap/pkg/logging"
	"github.com/ritzau/roadmap/pkg/pubsub"
)

//go:embed static/*
var staticFiles embed.FS

// maxBodyBytes bounds gesture payloads; notes are the largest
const maxBodyBytes = 1 << 20

// Server exposes the canvas controller to the browser client
type Server struct {
	router    *mux.Router
	canvas    *canvas.Controller
	publisher pubsub.Publisher
}

// NewServer creates a web server over an existing controller.
// Wire ChangePublisher into the controller so open tabs see each other's gestures.
func NewServer(c *canvas.Controller, publisher pubsub.Publisher) (*Server, error) {
	s := &Server{
		router:    mux.NewRouter().UseEncodedPath(),
		canvas:    c,
		publisher: publisher,
	}
	if err := s.setupRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewPublisher creates the SSE publisher the server streams from.
// Canvas changes are deltas on top of /api/graph and are not replayed; the
// latest selection is.
func NewPublisher(queueSize int) *pubsub.SSEPublisher {
	p := pubsub.NewSSEPublisher(queueSize)
	p.ConfigureTopic(pubsub.TopicSelection, pubsub.TopicConfig{BufferSize: 1})
	return p
}

// ChangePublisher adapts a publisher into a controller change hook
func ChangePublisher(p pubsub.Publisher) func(canvas.Change) {
	return func(ch canvas.Change) {
		topic := pubsub.TopicCanvas
		if ch.Kind == canvas.ChangeSelection {
			topic = pubsub.TopicSelection
		}
		if err := p.Publish(topic, string(ch.Kind), ch); err != nil && !errors.Is(err, pubsub.ErrClosed) {
			logging.Warn("failed to publish canvas change", "kind", ch.Kind, "error", err)
		}
	}
}

func (s *Server) setupRoutes() error {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/subscribe/{topic:canvas|selection}", s.handleSubscribe).Methods("GET")

	api.HandleFunc("/graph", s.handleGraph).Methods("GET")
	api.HandleFunc("/nodes/{id}", s.handleRemoveNode).Methods("DELETE")
	api.HandleFunc("/nodes/{id}/position", s.handleMoveNode).Methods("PATCH")
	api.HandleFunc("/edges", s.handleConnect).Methods("POST")
	api.HandleFunc("/edges/{id}", s.handleRemoveEdge).Methods("DELETE")
	api.HandleFunc("/selection", s.handleSelect).Methods("PUT")
	api.HandleFunc("/selection", s.handleClearSelection).Methods("DELETE")
	api.HandleFunc("/panel", s.handlePanel).Methods("GET")
	api.HandleFunc("/notes/{id}", s.handleGetNote).Methods("GET")
	api.HandleFunc("/notes/{id}", s.handleSetNote).Methods("PUT")
	api.HandleFunc("/export.dot", s.handleExportDOT).Methods("GET")
	api.HandleFunc("/export.svg", s.handleExportSVG).Methods("GET")

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("static files: %w", err)
	}
	s.router.PathPrefix("/").Handler(http.FileServer(http.FS(staticFS)))
	return nil
}

// Handler returns the full HTTP handler including request logging
func (s *Server) Handler() http.Handler {
	return logging.RequestIDMiddleware(s.router)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("web server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("web server: %w", err)
	case <-ctx.Done():
	}

	// Streams only end when the publisher closes them
	if err := s.publisher.Close(); err != nil {
		logging.Warn("closing publisher", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down web server: %w", err)
	}
	logging.Info("web server stopped")
	return nil
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	pubsub.Stream(w, r, s.publisher, mux.Vars(r)["topic"])
}

// routeID is the {id} path variable. The router matches on the encoded
// path so IDs may contain an escaped "/".
func routeID(r *http.Request) string {
	id := mux.Vars(r)["id"]
	if unescaped, err := url.PathUnescape(id); err == nil {
		return unescaped
	}
	return id
}

func writeBody(w http.ResponseWriter, r *http.Request, body []byte) {
	if _, err := w.Write(body); err != nil {
		logging.DebugContext(r.Context(), "writing response failed", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.DebugContext(r.Context(), "writing response failed", "error", err)
	}
}

// decodeJSON reads a bounded JSON body. Unknown fields are tolerated.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logging.DebugContext(r.Context(), "malformed payload", "path", r.URL.Path, "error", err)
		http.Error(w, "malformed payload", http.StatusBadRequest)
		return false
	}
	return true
}
