package rules

import (
	"context"
	"regexp"
	"strings"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
)

var reRustBalanceArith = regexp.MustCompile(`(?i)\b(\w*(balance|amount|lamports|supply|total)\w*)\s*(\+=|-=|\*=|=\s*\w+\s*[+\-*])`)

// rustUncheckedArithmetic flags raw arithmetic on value-bearing fields;
// release builds wrap silently instead of panicking on overflow.
type rustUncheckedArithmetic struct{}

func (d *rustUncheckedArithmetic) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "RUST-UNCHECKED-ARITH",
		Title:    "Unchecked arithmetic",
		Severity: model.SeverityHigh,
		Language: model.LangRust,
		Tags:     []string{"arithmetic"},
	}
}

func (d *rustUncheckedArithmetic) Analyze(ctx context.Context, src *model.Source) ([]model.Finding, error) {
	var findings []model.Finding
	for i, l := range strings.Split(src.Content, "\n") {
		if !reRustBalanceArith.MatchString(l) {
			continue
		}
		if containsAny(l, "checked_", "saturating_", "wrapping_", "overflowing_") {
			continue
		}
		m := reRustBalanceArith.FindStringSubmatch(l)
		findings = append(findings, finding(d.Meta(), src, i+1, m[1],
			"Arithmetic on "+m[1]+" without checked_/saturating_ variants; an overflow mints or burns value silently in release builds."))
	}
	return findings, nil
}
