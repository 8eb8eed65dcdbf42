package rules

import (
	"context"
	"regexp"
	"strings"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/util"
)

var reRustFn = regexp.MustCompile(`(?m)(pub\s+)?fn\s+(\w+)\s*(<[^>]*>)?\s*\(([^)]*)\)[^{;]*\{`)

// rustMissingSigner flags instruction handlers that touch account data
// without validating any signer.
type rustMissingSigner struct{}

func (d *rustMissingSigner) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "RUST-MISSING-SIGNER",
		Title:    "Missing signer validation",
		Severity: model.SeverityCritical,
		Language: model.LangRust,
		Tags:     []string{"access-control", "solana"},
	}
}

func (d *rustMissingSigner) Analyze(ctx context.Context, src *model.Source) ([]model.Finding, error) {
	var findings []model.Finding
	// only meaningful on program-shaped sources
	if !containsAny(src.Content, "#[program]", "process_instruction", "solana_program", "anchor_lang") {
		return findings, nil
	}
	for _, b := range splitBlocks(src.Content, reRustFn, 2) {
		touchesAccounts := containsAny(b.body, "lamports", "try_borrow_mut", "data.borrow_mut", ".accounts.", "transfer(")
		if !touchesAccounts {
			continue
		}
		validated := containsAny(b.body, "is_signer", "Signer<") ||
			containsAny(b.header, "Signer<") ||
			strings.Contains(src.Content, "Signer<'")
		if validated {
			continue
		}
		line := util.LineAt(src.Content, b.offset)
		findings = append(findings, finding(d.Meta(), src, line, b.name,
			"Handler "+b.name+" moves value or mutates account data without checking is_signer or typing the authority as Signer."))
	}
	return findings, nil
}
