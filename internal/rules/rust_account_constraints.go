package rules

import (
	"context"
	"regexp"
	"strings"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/util"
)

var reRustAccountsStruct = regexp.MustCompile(`(?m)#\[derive\(Accounts\)\]\s*(pub\s+)?struct\s+(\w+)`)

// rustAccountConstraints flags raw AccountInfo fields in Accounts structs
// that carry no #[account(...)] constraint.
type rustAccountConstraints struct{}

func (d *rustAccountConstraints) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "RUST-MISSING-ACCOUNT-CONSTRAINT",
		Title:    "Missing account-constraint validation",
		Severity: model.SeverityMedium,
		Language: model.LangRust,
		Tags:     []string{"solana", "anchor"},
	}
}

func (d *rustAccountConstraints) Analyze(ctx context.Context, src *model.Source) ([]model.Finding, error) {
	var findings []model.Finding
	for _, m := range reRustAccountsStruct.FindAllStringSubmatchIndex(src.Content, -1) {
		name := src.Content[m[4]:m[5]]
		body := src.Content[m[1]:]
		if open := strings.Index(body, "{"); open >= 0 {
			body = body[open+1:]
		}
		if close := strings.Index(body, "}"); close >= 0 {
			body = body[:close]
		}
		lines := strings.Split(body, "\n")
		for i, l := range lines {
			if !strings.Contains(l, "AccountInfo<") && !strings.Contains(l, "UncheckedAccount<") {
				continue
			}
			if i > 0 && strings.Contains(lines[i-1], "#[account(") {
				continue
			}
			line := util.LineAt(src.Content, m[0])
			findings = append(findings, finding(d.Meta(), src, line, name,
				"Accounts struct "+name+" takes a raw account with no #[account] constraint; ownership, seeds, and mutability go unvalidated."))
			break
		}
	}
	return findings, nil
}
