// Package scan runs the pattern library over one contract source and folds
// the findings into a report.
package scan

import (
	"context"
	"strings"
	"time"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/lang"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/risk"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/rules"
)

type Scanner struct {
	registry *rules.Registry
}

func New() *Scanner {
	reg := rules.NewRegistry()
	reg.RegisterBuiltin()
	return &Scanner{registry: reg}
}

// NewWithRegistry lets tests and callers supply a custom rule set.
func NewWithRegistry(reg *rules.Registry) *Scanner { return &Scanner{registry: reg} }

// RuleSetVersion identifies the loaded pattern library.
func (s *Scanner) RuleSetVersion() string { return s.registry.Version() }

// Request is one scan invocation. LanguageHint is trusted when it names a
// supported language.
type Request struct {
	ContractName string
	Source       string
	LanguageHint string
}

// Scan classifies the source and evaluates the language's rule set.
// Malformed or empty input degrades to a zero-finding report with a
// diagnostic note; only an unclassifiable language or cancellation is an
// error.
func (s *Scanner) Scan(ctx context.Context, req Request) (*model.VulnerabilityReport, error) {
	start := time.Now()
	report := &model.VulnerabilityReport{ContractName: req.ContractName}

	if strings.TrimSpace(req.Source) == "" {
		report.Language = model.ParseLanguage(req.LanguageHint)
		report.Note = "empty source: nothing to analyze"
		report.RiskScore = risk.Score(nil, nil)
		report.Elapsed = time.Since(start)
		return report, nil
	}

	language, err := lang.Detect(req.Source, req.LanguageHint)
	if err != nil {
		return nil, err
	}
	report.Language = language

	src := &model.Source{Name: req.ContractName, Content: req.Source, Language: language}
	findings, err := s.registry.Run(ctx, src)
	if err != nil {
		return nil, err
	}
	report.Findings = findings
	report.Counts = model.CountBySeverity(findings)
	report.RiskScore = risk.Score(findings, nil)
	if len(findings) == 0 {
		report.Note = "no known vulnerability patterns matched"
	}
	report.Elapsed = time.Since(start)
	return report, nil
}
