package rules

import (
	"context"
	"strings"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/util"
)

// moveUnguardedGlobalMutation flags borrow_global_mut calls with no guard
// anywhere in the enclosing function.
type moveUnguardedGlobalMutation struct{}

func (d *moveUnguardedGlobalMutation) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "MOVE-UNGUARDED-GLOBAL-MUTATION",
		Title:    "Unguarded global-state mutation",
		Severity: model.SeverityMedium,
		Language: model.LangMove,
		Tags:     []string{"state"},
	}
}

func (d *moveUnguardedGlobalMutation) Analyze(ctx context.Context, src *model.Source) ([]model.Finding, error) {
	var findings []model.Finding
	for _, b := range splitBlocks(src.Content, reMoveFun, 3) {
		idx := strings.Index(b.body, "borrow_global_mut")
		if idx < 0 {
			continue
		}
		// any guard before the mutation counts
		if containsAny(b.body[:idx], "assert!", "if (", "abort ") {
			continue
		}
		line := util.LineAt(src.Content, b.offset+len(b.header)+idx)
		findings = append(findings, finding(d.Meta(), src, line, b.name,
			"Function "+b.name+" takes a mutable borrow of global state with no prior guard; any precondition violation corrupts shared state."))
	}
	return findings, nil
}
