package rules

import (
	"context"
	"regexp"
	"strings"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/util"
)

var reMoveStructAbilities = regexp.MustCompile(`(?m)struct\s+(\w+)\s+has\s+([\w,\s]+?)\s*(\{|;)`)

// moveCopyableCapability flags capability witness structs declared with the
// copy ability. A copyable capability can be duplicated and leaked, defeating
// its purpose as a unique permission token.
type moveCopyableCapability struct{}

func (d *moveCopyableCapability) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "MOVE-COPYABLE-CAPABILITY",
		Title:    "Capability struct with copy ability",
		Severity: model.SeverityHigh,
		Language: model.LangMove,
		Tags:     []string{"capability"},
	}
}

func (d *moveCopyableCapability) Analyze(ctx context.Context, src *model.Source) ([]model.Finding, error) {
	var findings []model.Finding
	for _, m := range reMoveStructAbilities.FindAllStringSubmatchIndex(src.Content, -1) {
		name := src.Content[m[2]:m[3]]
		abilities := src.Content[m[4]:m[5]]
		if !strings.Contains(strings.ToLower(name), "cap") {
			continue
		}
		hasCopy := false
		for _, a := range strings.Split(abilities, ",") {
			if strings.TrimSpace(a) == "copy" {
				hasCopy = true
				break
			}
		}
		if !hasCopy {
			continue
		}
		line := util.LineAt(src.Content, m[0])
		findings = append(findings, finding(d.Meta(), src, line, name,
			"Capability struct "+name+" declares the copy ability; holders can duplicate the capability and hand out unlimited permission tokens."))
	}
	return findings, nil
}
