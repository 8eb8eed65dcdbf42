package rules

import (
	"context"
	"regexp"
	"strings"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/util"
)

var reSolTransferSend = regexp.MustCompile(`\.\s*(transfer|send)\s*\(`)

// solidityTransferSend flags .transfer/.send value moves; the 2300 gas
// stipend breaks with receiver contracts and send ignores failure.
type solidityTransferSend struct{}

func (d *solidityTransferSend) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "SOL-TRANSFER-SEND",
		Title:    "transfer/send used instead of checked call",
		Severity: model.SeverityMedium,
		Language: model.LangSolidity,
		Tags:     []string{"eth-transfer"},
	}
}

func (d *solidityTransferSend) Analyze(ctx context.Context, src *model.Source) ([]model.Finding, error) {
	var findings []model.Finding
	seen := map[int]bool{}
	for _, m := range reSolTransferSend.FindAllStringSubmatchIndex(src.Content, -1) {
		// skip ERC20-style token.transfer(to, amount): two arguments
		call := src.Content[m[1]:]
		if end := strings.Index(call, ")"); end >= 0 && strings.Contains(call[:end], ",") {
			continue
		}
		op := src.Content[m[2]:m[3]]
		line := util.LineAt(src.Content, m[0])
		if seen[line] {
			continue
		}
		seen[line] = true
		findings = append(findings, finding(d.Meta(), src, line, op,
			"Ether moved with ."+op+"(); the fixed gas stipend fails against contract receivers. Use call{value: ...}(\"\") and check the result."))
	}
	return findings, nil
}
