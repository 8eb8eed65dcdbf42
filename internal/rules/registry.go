package rules

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
)

// Registry holds the ordered rule set per language. Rule declaration order is
// the report order; it never depends on where matches land in the source.
type Registry struct {
	byLang map[model.Language][]Rule
}

func NewRegistry() *Registry {
	return &Registry{byLang: map[model.Language][]Rule{}}
}

func (r *Registry) Register(rule Rule) {
	lang := rule.Meta().Language
	r.byLang[lang] = append(r.byLang[lang], rule)
}

func (r *Registry) RegisterBuiltin() {
	// Move
	r.Register(&moveMissingSigner{})
	r.Register(&moveCopyableCapability{})
	r.Register(&moveEntryNoAccessCheck{})
	r.Register(&moveUnguardedGlobalMutation{})
	// Solidity
	r.Register(&solidityTxOrigin{})
	r.Register(&soliditySelfdestruct{})
	r.Register(&solidityDelegatecall{})
	r.Register(&solidityPublicNoGuard{})
	r.Register(&solidityTransferSend{})
	r.Register(&solidityBlockTimestamp{})
	// Rust / Solana
	r.Register(&rustMissingSigner{})
	r.Register(&rustUncheckedArithmetic{})
	r.Register(&rustUnsafeBlock{})
	r.Register(&rustPanicUnwrap{})
	r.Register(&rustAccountConstraints{})
}

// Rules returns the declared rule set for a language.
func (r *Registry) Rules(lang model.Language) []Rule {
	return r.byLang[lang]
}

// Version is a stable identifier for the loaded rule set; identical rule sets
// produce identical versions.
func (r *Registry) Version() string {
	var ids []string
	for _, lang := range []model.Language{model.LangMove, model.LangSolidity, model.LangRust} {
		for _, rule := range r.byLang[lang] {
			ids = append(ids, rule.Meta().ID)
		}
	}
	sum := sha256.Sum256([]byte(strings.Join(ids, ",")))
	return hex.EncodeToString(sum[:8])
}

// Run evaluates every rule for the source's language. Rules run in parallel
// on a bounded pool; results are flattened back into declaration order so the
// finding sequence is reproducible.
func (r *Registry) Run(ctx context.Context, src *model.Source) ([]model.Finding, error) {
	set := r.byLang[src.Language]
	if len(set) == 0 {
		return nil, nil
	}
	results := make([][]model.Finding, len(set))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(2, runtime.NumCPU()))
	for i, rule := range set {
		i, rule := i, rule
		g.Go(func() error {
			fs, err := rule.Analyze(gctx, src)
			if err != nil {
				// a single failing rule degrades, it does not abort the scan
				return nil
			}
			results[i] = fs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []model.Finding
	for _, fs := range results {
		out = append(out, fs...)
	}
	return out, nil
}
