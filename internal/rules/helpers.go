package rules

import (
	"regexp"
	"strings"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/util"
)

// block is a function-like region: the matched header plus the text up to the
// next header. Good enough for heuristic matching without a full parse.
type block struct {
	header string
	body   string
	name   string
	offset int
}

// splitBlocks cuts content into blocks at each header match. nameGroup is the
// submatch index carrying the construct name, or 0 to skip name extraction.
func splitBlocks(content string, reHeader *regexp.Regexp, nameGroup int) []block {
	matches := reHeader.FindAllStringSubmatchIndex(content, -1)
	out := make([]block, 0, len(matches))
	for i, m := range matches {
		b := block{header: content[m[0]:m[1]], offset: m[0]}
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		b.body = content[m[1]:end]
		if nameGroup > 0 && 2*nameGroup+1 < len(m) && m[2*nameGroup] >= 0 {
			b.name = content[m[2*nameGroup]:m[2*nameGroup+1]]
		}
		out = append(out, b)
	}
	return out
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// finding builds a Finding stamped with the rule's metadata and a stable
// fingerprint for the location.
func finding(meta model.RuleMeta, src *model.Source, line int, entity, description string) model.Finding {
	return model.Finding{
		RuleID:      meta.ID,
		Title:       meta.Title,
		Description: description,
		Severity:    meta.Severity,
		Language:    meta.Language,
		Line:        line,
		Entity:      entity,
		Snippet:     util.ExtractSnippet(src.Content, line, 4),
		Fingerprint: util.Fingerprint(meta.ID, src.Name, line, entity),
	}
}
