package rules

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/util"
)

var reMoveFun = regexp.MustCompile(`(?m)(public\s+)?(entry\s+)?fun\s+(\w+)\s*\(([^)]*)\)[^{;]*\{`)

// reMoveFieldWrite matches an assignment through a resource reference,
// e.g. `pool.total = ...`. Comparison operators do not match.
var reMoveFieldWrite = regexp.MustCompile(`\w+\.\w+\s*=[^=]`)

// moveMissingSigner flags entry functions that mutate global state without
// any signer authorization (no signer::address_of, no capability witness).
// Each mutation site in an unauthorized function is reported separately:
// every borrow, move_to/move_from, and resource field write is an
// independent action an arbitrary caller gets to perform.
type moveMissingSigner struct{}

func (d *moveMissingSigner) Meta() model.RuleMeta {
	return model.RuleMeta{
		ID:       "MOVE-MISSING-SIGNER",
		Title:    "Missing signer authorization",
		Severity: model.SeverityCritical,
		Language: model.LangMove,
		Tags:     []string{"access-control"},
	}
}

type moveMutationSite struct {
	idx  int
	what string
}

// moveMutationSites lists global-mutation sites in a function body, ordered
// by offset. Field writes only count when the body also touches global
// storage, so plain local struct updates stay out.
func moveMutationSites(body string) []moveMutationSite {
	var sites []moveMutationSite
	for _, tok := range []string{"borrow_global_mut", "move_to", "move_from"} {
		off := 0
		for {
			i := strings.Index(body[off:], tok)
			if i < 0 {
				break
			}
			sites = append(sites, moveMutationSite{off + i, tok})
			off += i + len(tok)
		}
	}
	if len(sites) == 0 {
		return nil
	}
	for _, m := range reMoveFieldWrite.FindAllStringIndex(body, -1) {
		sites = append(sites, moveMutationSite{m[0], "a resource field write"})
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].idx < sites[j].idx })
	return sites
}

func (d *moveMissingSigner) Analyze(ctx context.Context, src *model.Source) ([]model.Finding, error) {
	var findings []model.Finding
	for _, b := range splitBlocks(src.Content, reMoveFun, 3) {
		if !strings.Contains(b.header, "entry") {
			continue
		}
		authorized := containsAny(b.body, "signer::address_of", "address_of(") ||
			strings.Contains(strings.ToLower(b.header+b.body), "cap")
		if authorized {
			continue
		}
		for _, site := range moveMutationSites(b.body) {
			line := util.LineAt(src.Content, b.offset+len(b.header)+site.idx)
			findings = append(findings, finding(d.Meta(), src, line, b.name,
				"Entry function "+b.name+" reaches "+site.what+" without deriving or checking the signer address. Anyone can invoke it and act on arbitrary accounts."))
		}
	}
	return findings, nil
}
