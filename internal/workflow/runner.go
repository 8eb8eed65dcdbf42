package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/scan"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/util"
)

// StepRequest is one stage invocation. Prior carries every earlier stage's
// output so later stages can synthesize them.
type StepRequest struct {
	Workflow     *model.Workflow
	StepIndex    int
	Step         model.WorkflowStep
	Stage        string
	ContractCode string
	Language     model.Language
	Chains       []string
	Prior        model.StageResults
}

// AgentRunner executes one workflow step and returns its raw text output.
// Output should be JSON but the orchestrator only guarantees text.
type AgentRunner interface {
	RunStep(ctx context.Context, req StepRequest) (string, error)
}

// LocalRunner synthesizes stage output from the scanner and risk engine.
// It stands in for remote LLM agents, which are external collaborators.
type LocalRunner struct {
	scanner *scan.Scanner
}

func NewLocalRunner(scanner *scan.Scanner) *LocalRunner {
	return &LocalRunner{scanner: scanner}
}

func (r *LocalRunner) RunStep(ctx context.Context, req StepRequest) (string, error) {
	switch req.Stage {
	case "structural_dna", "historical_analysis", "chain_analysis":
		return r.runOpeningStage(ctx, req)
	case "risk_markers", "vulnerability_map", "bridge_vulnerabilities":
		return r.runFindingsStage(ctx, req)
	case "strain_matches", "attack_simulations", "correlated_patterns":
		return r.runCorrelationStage(ctx, req)
	case "dna_fingerprint", "exploit_predictions", "threat_mesh":
		return r.runSynthesisStage(ctx, req)
	default:
		return "", fmt.Errorf("unknown stage %q", req.Stage)
	}
}

var reAnyFunction = regexp.MustCompile(`(?m)(function|fun|fn)\s+(\w+)`)

// runOpeningStage extracts structure; for threat_mesh it fans out per chain.
func (r *LocalRunner) runOpeningStage(ctx context.Context, req StepRequest) (string, error) {
	funcs := []string{}
	for _, m := range reAnyFunction.FindAllStringSubmatch(req.ContractCode, -1) {
		funcs = append(funcs, m[2])
	}
	out := map[string]any{
		"language":       req.Language,
		"function_count": len(funcs),
		"functions":      funcs,
		"entry_points":   countEntryPoints(req.ContractCode),
	}
	if req.Stage == "chain_analysis" {
		chains := req.Chains
		if len(chains) == 0 {
			chains = DefaultChains
		}
		perChain := make([]map[string]any, len(chains))
		g, gctx := errgroup.WithContext(ctx)
		for i, chain := range chains {
			i, chain := i, chain
			g.Go(func() error {
				report, err := r.scanner.Scan(gctx, scan.Request{
					ContractName: chain + "-context",
					Source:       req.ContractCode,
					LanguageHint: string(req.Language),
				})
				if err != nil {
					return err
				}
				perChain[i] = map[string]any{
					"chain":      chain,
					"risk_score": report.RiskScore.Score,
					"risk_level": report.RiskScore.Level,
					"native_fit": chain == nativeChain(req.Language),
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return "", err
		}
		out["chains"] = perChain
	}
	return marshalStage(out)
}

func (r *LocalRunner) runFindingsStage(ctx context.Context, req StepRequest) (string, error) {
	report, err := r.scanner.Scan(ctx, scan.Request{
		ContractName: req.Workflow.ID,
		Source:       req.ContractCode,
		LanguageHint: string(req.Language),
	})
	if err != nil {
		return "", err
	}
	return marshalStage(map[string]any{
		"findings":   report.Findings,
		"counts":     report.Counts,
		"risk_score": report.RiskScore,
	})
}

// knownStrains maps rule IDs to the historical exploit class they resemble.
var knownStrains = map[string]string{
	"SOL-TX-ORIGIN":          "phishing-origin (THORChain-style)",
	"SOL-UNSAFE-DELEGATECALL": "Parity Wallet library takeover (2017)",
	"SOL-SELFDESTRUCT":        "Parity Wallet freeze (2017)",
	"SOL-PUBLIC-NO-GUARD":     "Poly Network access-control bypass (2021)",
	"MOVE-MISSING-SIGNER":     "unauthorized-withdrawal class",
	"RUST-MISSING-SIGNER":     "Wormhole signature bypass (2022)",
	"RUST-UNCHECKED-ARITH":    "integer-overflow mint class",
}

func (r *LocalRunner) runCorrelationStage(ctx context.Context, req StepRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	matches := []map[string]any{}
	if prior, ok := req.Prior.Get(req.Workflow.Stages[1]); ok {
		for ruleID, strain := range knownStrains {
			if strings.Contains(prior, ruleID) {
				matches = append(matches, map[string]any{
					"rule_id": ruleID,
					"strain":  strain,
				})
			}
		}
	}
	return marshalStage(map[string]any{
		"strain_matches": matches,
		"match_count":    len(matches),
	})
}

func (r *LocalRunner) runSynthesisStage(ctx context.Context, req StepRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	report, err := r.scanner.Scan(ctx, scan.Request{
		ContractName: req.Workflow.ID,
		Source:       req.ContractCode,
		LanguageHint: string(req.Language),
	})
	if err != nil {
		return "", err
	}
	var priorText strings.Builder
	for _, sr := range req.Prior {
		priorText.WriteString(sr.Output)
	}
	sequence := util.Fingerprint(req.Workflow.ID, report.ContractName, report.RiskScore.Score, priorText.String())
	return marshalStage(map[string]any{
		"sequence":      "0x" + sequence[:32],
		"risk_score":    report.RiskScore.Score,
		"risk_level":    report.RiskScore.Level,
		"overall":       healthFor(report.RiskScore.Level),
		"stages_merged": len(req.Prior),
	})
}

func healthFor(level model.Severity) string {
	switch level {
	case model.SeverityCritical:
		return "CRITICAL"
	case model.SeverityHigh:
		return "AT_RISK"
	default:
		return "HEALTHY"
	}
}

func nativeChain(l model.Language) string {
	switch l {
	case model.LangMove:
		return "aptos"
	case model.LangSolidity:
		return "ethereum"
	case model.LangRust:
		return "solana"
	default:
		return ""
	}
}

func countEntryPoints(code string) int {
	n := 0
	for _, kw := range []string{"entry fun", "public fun", "external", "public function", "pub fn"} {
		n += strings.Count(code, kw)
	}
	return n
}

func marshalStage(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
