package rules

import (
	"context"
	"strings"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/util"
)

// soliditySelfdestruct flags selfdestruct reachable from an externally
// callable function.
type soliditySelfdestruct struct{}

func (d *soliditySelfdestruct) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "SOL-SELFDESTRUCT",
		Title:    "selfdestruct reachable from external call",
		Severity: model.SeverityHigh,
		Language: model.LangSolidity,
		Tags:     []string{"lifecycle"},
	}
}

func (d *soliditySelfdestruct) Analyze(ctx context.Context, src *model.Source) ([]model.Finding, error) {
	var findings []model.Finding
	lc := strings.ToLower(src.Content)
	if !strings.Contains(lc, "selfdestruct(") && !strings.Contains(lc, "suicide(") {
		return findings, nil
	}
	for _, b := range splitBlocks(src.Content, reSolFun, 1) {
		body := strings.ToLower(b.body)
		if !strings.Contains(body, "selfdestruct(") && !strings.Contains(body, "suicide(") {
			continue
		}
		// internal/private helpers only count when nothing external leads here;
		// without a call graph, treat explicit internal visibility as out of reach
		vis := strings.ToLower(b.header)
		if strings.Contains(vis, "internal") || strings.Contains(vis, "private") {
			continue
		}
		line := util.LineAt(src.Content, b.offset)
		findings = append(findings, finding(d.Meta(), src, line, b.name,
			"Function "+b.name+" can selfdestruct the contract and is callable externally; destruction reroutes the balance and bricks dependents."))
	}
	return findings, nil
}
