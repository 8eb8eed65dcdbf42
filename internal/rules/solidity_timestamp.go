package rules

import (
	"context"
	"strings"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
)

// solidityBlockTimestamp flags block.timestamp used in require/if conditions
// that gate critical logic; validators can skew it by seconds.
type solidityBlockTimestamp struct{}

func (d *solidityBlockTimestamp) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "SOL-BLOCK-TIMESTAMP",
		Title:    "block.timestamp relied on for critical logic",
		Severity: model.SeverityMedium,
		Language: model.LangSolidity,
		Tags:     []string{"randomness", "timing"},
	}
}

func (d *solidityBlockTimestamp) Analyze(ctx context.Context, src *model.Source) ([]model.Finding, error) {
	var findings []model.Finding
	lines := strings.Split(src.Content, "\n")
	for i, l := range lines {
		low := strings.ToLower(l)
		if !strings.Contains(low, "block.timestamp") && !containsNowKeyword(low) {
			continue
		}
		if !containsAny(low, "require(", "if (", "if(", "assert(", "%") {
			continue
		}
		findings = append(findings, finding(d.Meta(), src, i+1, "",
			"Condition depends on block.timestamp; miners/validators can shift it enough to flip time-sensitive or pseudo-random logic."))
	}
	return findings, nil
}

// containsNowKeyword matches the deprecated `now` alias as a word on its own.
func containsNowKeyword(line string) bool {
	for i := 0; i+3 <= len(line); i++ {
		if line[i:i+3] != "now" {
			continue
		}
		beforeOK := i == 0 || !isIdentChar(line[i-1])
		afterOK := i+3 == len(line) || !isIdentChar(line[i+3])
		if beforeOK && afterOK {
			return true
		}
	}
	return false
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
