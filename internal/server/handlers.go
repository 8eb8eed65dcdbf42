package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/demo"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/lang"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/monitor"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/policy"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/scan"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/workflow"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "healthy",
		"version":          Version,
		"aptos_network":    s.cfg.Network,
		"rule_set_version": s.scanner.RuleSetVersion(),
		"subscribers":      s.hub.SubscriberCount(),
	})
}

type analyzeContractRequest struct {
	ContractName string `json:"contract_name"`
	ContractCode string `json:"contract_code"`
	Language     string `json:"language"`
}

func (s *Server) handleAnalyzeContract(w http.ResponseWriter, r *http.Request) {
	var req analyzeContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ContractName == "" {
		req.ContractName = "contract"
	}
	report, err := s.scanner.Scan(r.Context(), scan.Request{
		ContractName: req.ContractName,
		Source:       req.ContractCode,
		LanguageHint: req.Language,
	})
	if err != nil {
		if errors.Is(err, lang.ErrUnsupportedLanguage) {
			writeDetail(w, http.StatusBadRequest, "could not determine contract language; pass a language hint")
			return
		}
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type analyzeTransactionRequest struct {
	Hash              string `json:"hash"`
	IncludeAIAnalysis bool   `json:"include_ai_analysis"`
}

func (s *Server) handleAnalyzeTransaction(w http.ResponseWriter, r *http.Request) {
	var req analyzeTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Hash) == "" {
		writeDetail(w, http.StatusBadRequest, "hash is required")
		return
	}
	tx, score, compliance, err := s.monitor.Analyze(r.Context(), req.Hash)
	if err != nil {
		if errors.Is(err, monitor.ErrAnalysisUnavailable) {
			writeDetail(w, http.StatusBadGateway, err.Error())
			return
		}
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transaction": tx,
		"risk_score":  score,
		"compliance":  compliance,
	})
}

func (s *Server) handleRecentTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"transactions": s.hub.RecentTransactions()})
}

func (s *Server) handleRecentAlerts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"alerts": s.hub.RecentAlerts()})
}

func (s *Server) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.policies.Policies())
}

func (s *Server) handleTogglePolicy(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	enabled, err := s.policies.Toggle(name)
	if err != nil {
		if errors.Is(err, policy.ErrPolicyNotFound) {
			writeDetail(w, http.StatusNotFound, "policy '"+name+"' not found")
			return
		}
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"enabled": enabled})
}

func (s *Server) handleListWorkflows(w http.ResponseWriter, r *http.Request) {
	flows := s.orchestrator.Workflows()
	writeJSON(w, http.StatusOK, map[string]any{"workflows": flows, "total": len(flows)})
}

func (s *Server) handleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("workflow_id")
	wf, err := s.orchestrator.Workflow(id)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "workflow '"+id+"' not found")
		return
	}
	writeJSON(w, http.StatusOK, wf)
}

type executeWorkflowRequest struct {
	ContractCode string   `json:"contract_code"`
	Language     string   `json:"language"`
	Chains       []string `json:"chains"`
}

func (s *Server) handleExecuteWorkflow(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("workflow_id")
	var req executeWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(strings.TrimSpace(req.ContractCode)) < 10 {
		writeDetail(w, http.StatusBadRequest, "contract_code is required and must be substantial")
		return
	}
	result, err := s.orchestrator.Execute(r.Context(), id, req.ContractCode, model.ParseLanguage(req.Language), req.Chains)
	if err != nil {
		var stepErr *workflow.StepError
		switch {
		case errors.Is(err, workflow.ErrWorkflowNotFound):
			writeDetail(w, http.StatusNotFound, "workflow '"+id+"' not found")
		case errors.As(err, &stepErr):
			writeDetail(w, http.StatusInternalServerError, stepErr.Error())
		default:
			writeDetail(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRunProgress(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("run_id")
	step, ok := s.orchestrator.Progress(id)
	if !ok {
		writeDetail(w, http.StatusNotFound, "run '"+id+"' not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"current_step": step})
}

func (s *Server) handleListDemo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"contracts": demo.List()})
}

func (s *Server) handleAnalyzeDemo(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	c, err := demo.Get(name)
	if err != nil {
		writeDetail(w, http.StatusNotFound, err.Error())
		return
	}
	report, err := s.scanner.Scan(r.Context(), scan.Request{
		ContractName: c.Name,
		Source:       c.Source,
		LanguageHint: c.Language,
	})
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"contract_name": c.Name,
		"risk_score":    report.RiskScore,
		"vulnerabilities": map[string]any{
			"critical_count":  report.Counts.Critical,
			"high_count":      report.Counts.High,
			"medium_count":    report.Counts.Medium,
			"low_count":       report.Counts.Low,
			"vulnerabilities": report.Findings,
		},
		"description": c.Description,
	})
}
