package rules

import (
	"context"
	"strings"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/util"
)

// solidityPublicNoGuard flags state-mutating public/external functions with
// neither a modifier nor an in-body sender check.
type solidityPublicNoGuard struct{}

func (d *solidityPublicNoGuard) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "SOL-PUBLIC-NO-GUARD",
		Title:    "Public function lacks modifier or guard",
		Severity: model.SeverityHigh,
		Language: model.LangSolidity,
		Tags:     []string{"access-control"},
	}
}

var solKnownModifierless = map[string]bool{
	// common intentionally open entry points
	"constructor": true, "fallback": true, "receive": true, "deposit": true,
}

func (d *solidityPublicNoGuard) Analyze(ctx context.Context, src *model.Source) ([]model.Finding, error) {
	var findings []model.Finding
	for _, b := range splitBlocks(src.Content, reSolFun, 1) {
		mods := strings.ToLower(b.header)
		if !strings.Contains(mods, "public") && !strings.Contains(mods, "external") {
			continue
		}
		if strings.Contains(mods, "view") || strings.Contains(mods, "pure") {
			continue
		}
		if solKnownModifierless[strings.ToLower(b.name)] {
			continue
		}
		if hasCustomModifier(b.header, b.name) {
			continue
		}
		// tx.origin counts as a guard here; its misuse is a separate rule
		if containsAny(b.body, "msg.sender ==", "== msg.sender", "require(msg.sender", "tx.origin", "_checkOwner", "onlyOwner") {
			continue
		}
		// only meaningful when the body actually changes state
		if !containsAny(b.body, "=", "delete ", "push(", "transfer(", "call{", ".call(") {
			continue
		}
		line := util.LineAt(src.Content, b.offset)
		findings = append(findings, finding(d.Meta(), src, line, b.name,
			"Function "+b.name+" is externally callable, mutates state, and carries no modifier or sender check."))
	}
	return findings, nil
}

// hasCustomModifier reports whether the header carries anything beyond
// visibility and the standard mutability keywords.
func hasCustomModifier(header, name string) bool {
	trailer := header
	if i := strings.Index(trailer, ")"); i >= 0 {
		trailer = trailer[i+1:]
	}
	for _, tok := range strings.Fields(strings.TrimSuffix(trailer, "{")) {
		switch strings.ToLower(strings.TrimRight(tok, "({")) {
		case "public", "external", "internal", "private", "payable", "virtual",
			"override", "returns", "memory", "calldata", "view", "pure", "":
		default:
			if strings.HasPrefix(tok, "returns") || strings.EqualFold(tok, name) {
				continue
			}
			return true
		}
	}
	return false
}
