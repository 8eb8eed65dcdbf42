// Package server exposes the analysis engine over HTTP and WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/broadcast"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/config"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/monitor"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/policy"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/scan"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/workflow"
)

const Version = "0.1.0"

type Server struct {
	cfg          config.Config
	scanner      *scan.Scanner
	orchestrator *workflow.Orchestrator
	policies     *policy.Engine
	compliance   *policy.Compliance
	hub          *broadcast.Hub
	monitor      *monitor.Monitor
	log          *zap.SugaredLogger
}

func New(cfg config.Config, scanner *scan.Scanner, orch *workflow.Orchestrator, pe *policy.Engine, c *policy.Compliance, hub *broadcast.Hub, mon *monitor.Monitor, log *zap.SugaredLogger) *Server {
	return &Server{
		cfg:          cfg,
		scanner:      scanner,
		orchestrator: orch,
		policies:     pe,
		compliance:   c,
		hub:          hub,
		monitor:      mon,
		log:          log,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/contracts/analyze", s.handleAnalyzeContract)
	mux.HandleFunc("POST /api/transactions/analyze", s.handleAnalyzeTransaction)
	mux.HandleFunc("GET /api/transactions/recent", s.handleRecentTransactions)
	mux.HandleFunc("GET /api/alerts/recent", s.handleRecentAlerts)
	mux.HandleFunc("GET /api/compliance/policies", s.handleListPolicies)
	mux.HandleFunc("PUT /api/compliance/policies/{name}/toggle", s.handleTogglePolicy)
	mux.HandleFunc("GET /api/workflows", s.handleListWorkflows)
	mux.HandleFunc("GET /api/workflows/{workflow_id}", s.handleGetWorkflow)
	mux.HandleFunc("POST /api/workflows/{workflow_id}/execute", s.handleExecuteWorkflow)
	mux.HandleFunc("GET /api/workflows/runs/{run_id}/progress", s.handleRunProgress)
	mux.HandleFunc("GET /api/demo/contracts", s.handleListDemo)
	mux.HandleFunc("GET /api/demo/contracts/{name}/analyze", s.handleAnalyzeDemo)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return mux
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Infow("listening", "addr", s.cfg.ListenAddr, "network", s.cfg.Network)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail is the error shape for every non-2xx response.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
