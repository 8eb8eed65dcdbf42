package rules

import (
	"context"
	"strings"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
)

// rustPanicUnwrap flags unwrap/expect in program code; on-chain panics abort
// the whole instruction with an opaque error instead of propagating one.
type rustPanicUnwrap struct{}

func (d *rustPanicUnwrap) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "RUST-PANIC-UNWRAP",
		Title:    "panic-on-unwrap without error propagation",
		Severity: model.SeverityMedium,
		Language: model.LangRust,
		Tags:     []string{"error-handling"},
	}
}

func (d *rustPanicUnwrap) Analyze(ctx context.Context, src *model.Source) ([]model.Finding, error) {
	var findings []model.Finding
	inTests := false
	for i, l := range strings.Split(src.Content, "\n") {
		if strings.Contains(l, "#[cfg(test)]") {
			inTests = true
		}
		if inTests {
			continue
		}
		if !strings.Contains(l, ".unwrap()") && !strings.Contains(l, ".expect(") {
			continue
		}
		findings = append(findings, finding(d.Meta(), src, i+1, "",
			"unwrap/expect panics instead of returning an error; use ? or ok_or to propagate failures to the caller."))
	}
	return findings, nil
}
