package rules

import (
	"context"
	"strings"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/util"
)

// moveEntryNoAccessCheck flags public entry functions that mutate global
// state without an assert-style access check in the body.
type moveEntryNoAccessCheck struct{}

func (d *moveEntryNoAccessCheck) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "MOVE-ENTRY-NO-ACCESS-CHECK",
		Title:    "Public entry function mutates global state without access check",
		Severity: model.SeverityHigh,
		Language: model.LangMove,
		Tags:     []string{"access-control"},
	}
}

func (d *moveEntryNoAccessCheck) Analyze(ctx context.Context, src *model.Source) ([]model.Finding, error) {
	var findings []model.Finding
	for _, b := range splitBlocks(src.Content, reMoveFun, 3) {
		if !strings.Contains(b.header, "public") || !strings.Contains(b.header, "entry") {
			continue
		}
		if !containsAny(b.body, "borrow_global_mut", "move_to", "move_from") {
			continue
		}
		if containsAny(b.body, "assert!", "abort ", "error::permission_denied") {
			continue
		}
		line := util.LineAt(src.Content, b.offset)
		findings = append(findings, finding(d.Meta(), src, line, b.name,
			"Public entry function "+b.name+" writes global state but performs no access check before the mutation."))
	}
	return findings, nil
}
