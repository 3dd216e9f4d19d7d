package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jrenard/optiex/internal/problems"
	"github.com/jrenard/optiex/internal/solve"
	"github.com/jrenard/optiex/internal/store"
)

// Server represents the HTTP server.
type Server struct {
	runManager *RunManager
	store      store.Store
	engine     solve.Engine
	dataDir    string
	addr       string
	server     *http.Server
}

// NewServer creates a new HTTP server backed by the given store directory.
func NewServer(addr, dataDir string) (*Server, error) {
	st, err := store.NewFSStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create run store: %w", err)
	}

	return &Server{
		runManager: NewRunManager(),
		store:      st,
		engine:     solve.NewMayfly(),
		dataDir:    dataDir,
		addr:       addr,
	}, nil
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	slog.Info("Starting HTTP server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Handler builds the route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/exercises", s.handleExercises)
	mux.HandleFunc("/api/v1/runs", s.handleRuns)
	mux.HandleFunc("/api/v1/runs/", s.handleRunsWithID)

	return s.loggingMiddleware(s.corsMiddleware(mux))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down HTTP server")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleExercises handles GET /api/v1/exercises
func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(problems.Names())
}

// handleRuns handles /api/v1/runs
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateRun(w, r)
	case http.MethodGet:
		s.handleListRuns(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleRunsWithID handles /api/v1/runs/:id/*
func (s *Server) handleRunsWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/runs/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Run ID required", http.StatusBadRequest)
		return
	}

	runID := parts[0]

	if len(parts) == 1 || parts[1] == "status" {
		s.handleGetRunStatus(w, r, runID)
	} else if parts[1] == "stream" {
		s.handleRunStream(w, r, runID)
	} else if parts[1] == "trace" {
		s.handleGetRunTrace(w, r, runID)
	} else if parts[1] == "result" {
		s.handleGetRunResult(w, r, runID)
	} else {
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// handleCreateRun handles POST /api/v1/runs
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var config RunConfig
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	if config.Exercise == "" {
		http.Error(w, "exercise is required", http.StatusBadRequest)
		return
	}
	if config.Iterations <= 0 {
		config.Iterations = 200
	}
	if config.Population <= 0 {
		config.Population = 30
	}
	if config.Seed == 0 {
		config.Seed = 42
	}
	if config.WindowSeconds <= 0 {
		config.WindowSeconds = 15
	}
	if config.MinImprovement <= 0 {
		config.MinImprovement = 1e-4
	}

	run := s.runManager.CreateRun(config)

	go executeRun(s.runManager, s.store, s.dataDir, s.engine, run.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(run)
}

// handleListRuns handles GET /api/v1/runs
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs := s.runManager.ListRuns()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

// handleGetRunStatus handles GET /api/v1/runs/:id/status
func (s *Server) handleGetRunStatus(w http.ResponseWriter, r *http.Request, runID string) {
	run, exists := s.runManager.GetRun(runID)
	if !exists {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	var elapsed time.Duration
	if run.EndTime != nil {
		elapsed = run.EndTime.Sub(run.StartTime)
	} else {
		elapsed = time.Since(run.StartTime)
	}

	response := map[string]interface{}{
		"id":           run.ID,
		"state":        run.State,
		"config":       run.Config,
		"status":       run.Status,
		"objective":    run.Objective,
		"incumbent":    run.Incumbent,
		"hasIncumbent": run.HasIncumbent,
		"bestBound":    run.BestBound,
		"gap":          run.Gap,
		"gapKnown":     run.GapKnown,
		"feasible":     run.Feasible,
		"evaluations":  run.Evaluations,
		"elapsed":      elapsed.Seconds(),
		"startTime":    run.StartTime,
		"endTime":      run.EndTime,
		"error":        run.Error,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleGetRunTrace handles GET /api/v1/runs/:id/trace
func (s *Server) handleGetRunTrace(w http.ResponseWriter, r *http.Request, runID string) {
	entries, err := store.ReadTrace(s.dataDir, runID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Trace not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to read trace: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// handleGetRunResult handles GET /api/v1/runs/:id/result
func (s *Server) handleGetRunResult(w http.ResponseWriter, r *http.Request, runID string) {
	record, err := s.store.LoadRun(runID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Result not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to load result: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

// corsMiddleware adds CORS headers.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
