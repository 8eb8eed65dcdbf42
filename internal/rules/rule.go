// Package rules holds the per-language vulnerability pattern library.
//
// Each rule is a small detector struct in its own file, registered in
// declaration order. Scans are deterministic: the registry re-sorts findings
// into declaration order regardless of internal parallelism.
package rules

import (
	"context"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
)

// Rule matches one vulnerability pattern against in-memory source text.
// Analyze must be pure: no shared state, no side effects. A rule reports at
// most one finding per matching span.
type Rule interface {
	Meta() model.RuleMeta
	Analyze(ctx context.Context, src *model.Source) ([]model.Finding, error)
}
