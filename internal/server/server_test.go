package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/broadcast"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/config"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/monitor"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/policy"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/scan"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/workflow"
)

func newTestServer(t *testing.T) (*Server, *broadcast.Hub) {
	t.Helper()
	log := zap.NewNop().Sugar()
	scanner := scan.New()
	policies, rs := policy.Defaults()
	rs.SanctionedAddresses = []string{"0xbad0000000000000000000000000000000000001"}
	engine := policy.NewEngine(policies, rs)
	compliance := policy.NewCompliance(engine)
	hub := broadcast.NewHub(log)
	client := monitor.NewSimulatedClient("testnet", 1)
	mon := monitor.New(client, compliance, hub, time.Second, 25, log)
	orch := workflow.NewOrchestrator(workflow.NewLocalRunner(scanner), log)
	return New(config.Default(), scanner, orch, engine, compliance, hub, mon, log), hub
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decode(t, rec, &body)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, Version, body["version"])
	assert.NotEmpty(t, body["rule_set_version"])
}

func TestAnalyzeContract(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/contracts/analyze", map[string]any{
		"contract_name": "wallet.sol",
		"contract_code": "pragma solidity ^0.8.0;\ncontract W {\n    address owner;\n    function w() public { require(tx.origin == owner); payable(msg.sender).transfer(1); }\n}",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var report model.VulnerabilityReport
	decode(t, rec, &report)
	assert.Equal(t, model.LangSolidity, report.Language)
	assert.NotEmpty(t, report.Findings)
	assert.Equal(t, report.Counts.Critical, countLevel(report.Findings, model.SeverityCritical))
}

func countLevel(fs []model.Finding, s model.Severity) int {
	n := 0
	for _, f := range fs {
		if f.Severity == s {
			n++
		}
	}
	return n
}

func TestAnalyzeContractUndetectable(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/contracts/analyze", map[string]any{
		"contract_code": "plain prose, no contract here",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Contains(t, body["detail"], "language")
}

func TestAnalyzeContractBadBody(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/contracts/analyze", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeTransaction(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/transactions/analyze", map[string]any{"hash": "0xabc123"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Transaction model.Transaction      `json:"transaction"`
		RiskScore   model.RiskScore        `json:"risk_score"`
		Compliance  model.ComplianceResult `json:"compliance"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "0xabc123", body.Transaction.Hash)
	assert.Equal(t, 2, body.Compliance.PoliciesChecked)
}

func TestAnalyzeTransactionMissingHash(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/transactions/analyze", map[string]any{"hash": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecentEndpoints(t *testing.T) {
	srv, hub := newTestServer(t)
	hub.PublishTransaction(model.TransactionRecord{TransactionHash: "0x1", Timestamp: time.Now(), Success: true})
	hub.RecordAlert(model.TransactionAlert{TransactionHash: "0x2", RiskLevel: model.SeverityMedium})

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/transactions/recent", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var txBody struct {
		Transactions []model.TransactionRecord `json:"transactions"`
	}
	decode(t, rec, &txBody)
	require.Len(t, txBody.Transactions, 1)
	assert.Equal(t, "0x1", txBody.Transactions[0].TransactionHash)

	rec = doJSON(t, srv.Handler(), http.MethodGet, "/api/alerts/recent", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var alertBody struct {
		Alerts []model.TransactionAlert `json:"alerts"`
	}
	decode(t, rec, &alertBody)
	require.Len(t, alertBody.Alerts, 1)
	assert.Equal(t, "0x2", alertBody.Alerts[0].TransactionHash)
}

func TestPolicyEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/compliance/policies", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var policiesBody []model.Policy
	decode(t, rec, &policiesBody)
	require.Len(t, policiesBody, 3)
	assert.Equal(t, "sanctioned_address", policiesBody[0].Name)

	rec = doJSON(t, h, http.MethodPut, "/api/compliance/policies/contract_allowlist/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var toggleBody map[string]bool
	decode(t, rec, &toggleBody)
	assert.True(t, toggleBody["enabled"])

	rec = doJSON(t, h, http.MethodPut, "/api/compliance/policies/ghost/toggle", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	var errBody map[string]string
	decode(t, rec, &errBody)
	assert.Equal(t, "policy 'ghost' not found", errBody["detail"])
}

func TestWorkflowEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/workflows", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listBody struct {
		Workflows []model.Workflow `json:"workflows"`
		Total     int              `json:"total"`
	}
	decode(t, rec, &listBody)
	assert.Equal(t, 3, listBody.Total)

	rec = doJSON(t, h, http.MethodGet, "/api/workflows/dna_profiler", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var wf model.Workflow
	decode(t, rec, &wf)
	assert.Len(t, wf.Steps, 4)

	rec = doJSON(t, h, http.MethodGet, "/api/workflows/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExecuteWorkflow(t *testing.T) {
	srv, _ := newTestServer(t)
	code := "pragma solidity ^0.8.0;\ncontract W {\n    function w() public { require(tx.origin == msg.sender); }\n}"
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/workflows/dna_profiler/execute", map[string]any{
		"contract_code": code,
		"language":      "solidity",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		WorkflowID     string                     `json:"workflow_id"`
		StepsCompleted int                        `json:"steps_completed"`
		Results        map[string]json.RawMessage `json:"results"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "dna_profiler", body.WorkflowID)
	assert.Equal(t, 4, body.StepsCompleted)
	require.Len(t, body.Results, 4)
	for _, stage := range []string{"structural_dna", "risk_markers", "strain_matches", "dna_fingerprint"} {
		assert.Contains(t, body.Results, stage)
	}

	// stage keys must appear in step order on the wire
	raw := rec.Body.String()
	assert.Less(t, strings.Index(raw, `"structural_dna"`), strings.Index(raw, `"risk_markers"`))
	assert.Less(t, strings.Index(raw, `"strain_matches"`), strings.Index(raw, `"dna_fingerprint"`))
}

func TestExecuteWorkflowValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/workflows/dna_profiler/execute", map[string]any{
		"contract_code": "  short  ",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/workflows/ghost/execute", map[string]any{
		"contract_code": "pragma solidity ^0.8.0; contract W {}",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunProgressUnknown(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/workflows/runs/ghost/progress", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDemoEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/demo/contracts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listBody struct {
		Contracts []struct {
			Name     string `json:"name"`
			Language string `json:"language"`
		} `json:"contracts"`
	}
	decode(t, rec, &listBody)
	require.Len(t, listBody.Contracts, 3)
	assert.Equal(t, "phishable_wallet", listBody.Contracts[0].Name)

	rec = doJSON(t, h, http.MethodGet, "/api/demo/contracts/vulnerable_vault/analyze", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var analyzeBody struct {
		ContractName    string          `json:"contract_name"`
		RiskScore       model.RiskScore `json:"risk_score"`
		Vulnerabilities struct {
			CriticalCount   int             `json:"critical_count"`
			HighCount       int             `json:"high_count"`
			MediumCount     int             `json:"medium_count"`
			LowCount        int             `json:"low_count"`
			Vulnerabilities []model.Finding `json:"vulnerabilities"`
		} `json:"vulnerabilities"`
	}
	decode(t, rec, &analyzeBody)
	assert.Equal(t, "vulnerable_vault", analyzeBody.ContractName)
	assert.Greater(t, analyzeBody.Vulnerabilities.CriticalCount, 0)
	assert.Equal(t, len(analyzeBody.Vulnerabilities.Vulnerabilities),
		analyzeBody.Vulnerabilities.CriticalCount+analyzeBody.Vulnerabilities.HighCount+
			analyzeBody.Vulnerabilities.MediumCount+analyzeBody.Vulnerabilities.LowCount)

	rec = doJSON(t, h, http.MethodGet, "/api/demo/contracts/ghost/analyze", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
