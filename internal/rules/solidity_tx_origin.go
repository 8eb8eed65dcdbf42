package rules

import (
	"context"
	"regexp"
	"strings"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/util"
)

var reSolFun = regexp.MustCompile(`(?m)function\s+(\w+)\s*\(([^)]*)\)([^{;]*)\{`)

// solidityTxOrigin flags use of tx.origin in authorization-sensitive checks.
type solidityTxOrigin struct{}

func (d *solidityTxOrigin) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "SOL-TX-ORIGIN",
		Title:    "tx.origin used for authorization",
		Severity: model.SeverityCritical,
		Language: model.LangSolidity,
		Tags:     []string{"access-control"},
	}
}

func (d *solidityTxOrigin) Analyze(ctx context.Context, src *model.Source) ([]model.Finding, error) {
	var findings []model.Finding
	if !strings.Contains(strings.ToLower(src.Content), "tx.origin") {
		return findings, nil
	}
	for _, b := range splitBlocks(src.Content, reSolFun, 1) {
		if !strings.Contains(b.body, "tx.origin") {
			continue
		}
		// flag only authorization-shaped uses: require/assert/if conditions
		risk := false
		for _, l := range strings.Split(b.body, "\n") {
			low := strings.ToLower(l)
			if strings.Contains(low, "tx.origin") &&
				(strings.Contains(low, "require(") || strings.Contains(low, "assert(") || strings.Contains(low, "if (")) {
				risk = true
				break
			}
		}
		if !risk {
			continue
		}
		line := util.LineAt(src.Content, b.offset)
		findings = append(findings, finding(d.Meta(), src, line, b.name,
			"Function "+b.name+" authorizes with tx.origin; an intermediate contract can phish the origin account. Use msg.sender."))
	}
	return findings, nil
}
