package rules

import (
	"context"
	"strings"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
)

// rustUnsafeBlock flags unsafe blocks with no validation in the lines
// leading up to them.
type rustUnsafeBlock struct{}

const unsafeLookback = 5

func (d *rustUnsafeBlock) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "RUST-UNSAFE-NO-VALIDATION",
		Title:    "unsafe block without preceding validation",
		Severity: model.SeverityHigh,
		Language: model.LangRust,
		Tags:     []string{"memory-safety"},
	}
}

func (d *rustUnsafeBlock) Analyze(ctx context.Context, src *model.Source) ([]model.Finding, error) {
	var findings []model.Finding
	lines := strings.Split(src.Content, "\n")
	for i, l := range lines {
		if !strings.Contains(l, "unsafe") || !strings.Contains(l, "{") {
			continue
		}
		guarded := false
		for j := max(0, i-unsafeLookback); j < i; j++ {
			if containsAny(lines[j], "assert", "require!", "debug_assert", "if ", "match ", "return Err") {
				guarded = true
				break
			}
		}
		if guarded {
			continue
		}
		findings = append(findings, finding(d.Meta(), src, i+1, "",
			"unsafe block entered with no validation in the preceding lines; invariants the unsafe code relies on are unchecked."))
	}
	return findings, nil
}
