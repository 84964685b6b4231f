// Package server exposes the live evaluation over HTTP: JSON endpoints, a
// websocket result feed and an annotated MJPEG stream.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/ayusman/asana/internal/engine"
	"github.com/ayusman/asana/internal/log"
	"github.com/ayusman/asana/internal/server/api"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Source is the running application as the server sees it.
type Source interface {
	api.Controller
	Subscribe() (<-chan engine.Result, func())
	LatestJPEG() []byte
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Source    Source
}

// Server is the HTTP front end.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a Server. Routes that need a Source are only registered when
// one is configured.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if src := s.config.Source; src != nil {
		s.mux.Handle("/api/modes", api.NewModesHandler(src))
		s.mux.Handle("/api/mode", api.NewModeHandler(src))
		s.mux.Handle("/api/result", api.NewResultHandler(src))
		s.mux.Handle("/api/results", NewResultsHandler(src))
		s.mux.Handle("/api/stream", NewStreamHandler(src))
	}

	if s.config.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if src := s.config.Source; src != nil {
		resp["mode"] = src.Mode().ID
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(log.Fields{"addr": addr}, "http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
