// Package server exposes alignment and projection as a JSON HTTP API.
//
// Endpoints:
//
//	POST /api/project   body: a record with its translation analysis
//	GET  /api/health
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/revelaction/interlin/analysis"
	"github.com/revelaction/interlin/corpus"
	"github.com/revelaction/interlin/pipeline"
)

const shutdownTimeout = 10 * time.Second

// maxBodyBytes bounds a request body.
const maxBodyBytes = 1 << 20

type Server struct {
	runner         *pipeline.Runner
	allowedOrigins []string
	logger         *slog.Logger
}

func New(runner *pipeline.Runner, allowedOrigins []string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{runner: runner, allowedOrigins: allowedOrigins, logger: logger}
}

type projectRequest struct {
	ID       string           `json:"id"`
	Lang     string           `json:"lang"`
	Gloss    string           `json:"gloss"`
	Trans    string           `json:"trans"`
	Analysis []analysis.Token `json:"analysis"`
}

type projectResponse struct {
	ID string `json:"id"`
	*corpus.Result
	Structure string `json:"structure,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler returns the API routes wrapped in the CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/project", s.handleProject)
	mux.HandleFunc("/api/health", handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req projectRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "body must be a JSON record")
		return
	}
	if req.Lang == "" || req.Gloss == "" || req.Trans == "" {
		writeError(w, http.StatusBadRequest, "'lang', 'gloss' and 'trans' are required")
		return
	}
	if req.ID == "" {
		req.ID = "request"
	}

	inst, res := s.runner.Process(corpus.Record{
		ID:       req.ID,
		Lang:     req.Lang,
		Gloss:    req.Gloss,
		Trans:    req.Trans,
		Analysis: req.Analysis,
	})

	resp := projectResponse{ID: req.ID, Result: res}
	if inst != nil && inst.Lang.DS != nil {
		resp.Structure = inst.Lang.DS.String()
	}

	status := http.StatusOK
	if res.Failed() {
		status = http.StatusUnprocessableEntity
	}
	s.logger.Debug("project", slog.String("id", req.ID), slog.Int("status", status))
	writeJSON(w, status, resp)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
