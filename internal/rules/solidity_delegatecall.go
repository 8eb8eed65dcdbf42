package rules

import (
	"context"
	"regexp"
	"strings"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/util"
)

var reSolDelegatecall = regexp.MustCompile(`(\w[\w.\[\]]*)\s*\.\s*delegatecall\s*\(`)

// solidityDelegatecall flags delegatecall to a target that is not a constant
// or immutable address.
type solidityDelegatecall struct{}

func (d *solidityDelegatecall) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "SOL-UNSAFE-DELEGATECALL",
		Title:    "delegatecall to non-constant address",
		Severity: model.SeverityHigh,
		Language: model.LangSolidity,
		Tags:     []string{"proxy"},
	}
}

func (d *solidityDelegatecall) Analyze(ctx context.Context, src *model.Source) ([]model.Finding, error) {
	var findings []model.Finding
	if !strings.Contains(strings.ToLower(src.Content), "delegatecall") {
		return findings, nil
	}
	seen := map[int]bool{}
	for _, m := range reSolDelegatecall.FindAllStringSubmatchIndex(src.Content, -1) {
		target := src.Content[m[2]:m[3]]
		if isConstantTarget(src.Content, target) {
			continue
		}
		line := util.LineAt(src.Content, m[0])
		if seen[line] {
			continue
		}
		seen[line] = true
		findings = append(findings, finding(d.Meta(), src, line, target,
			"delegatecall target "+target+" is not declared constant or immutable; a rewritable target executes arbitrary code in this contract's storage context."))
	}
	return findings, nil
}

// isConstantTarget reports whether the identifier is declared constant or
// immutable somewhere in the source.
func isConstantTarget(content, target string) bool {
	base := target
	if i := strings.IndexAny(base, ".["); i > 0 {
		base = base[:i]
	}
	re := regexp.MustCompile(`(?m)(constant|immutable)\s+` + regexp.QuoteMeta(base) + `\b`)
	return re.MatchString(content)
}
