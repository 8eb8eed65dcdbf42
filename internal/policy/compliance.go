package policy

import "github.com/Abhilash-0322/chainsentinel.ai/internal/model"

// Compliance wraps engine output into a pass/fail verdict.
type Compliance struct {
	engine *Engine
}

func NewCompliance(e *Engine) *Compliance { return &Compliance{engine: e} }

// Check evaluates all enabled policies. Passed holds iff no policy produced
// a violation; PoliciesChecked counts enabled policies only.
func (c *Compliance) Check(tx *model.Transaction) model.ComplianceResult {
	violations, checked := c.engine.Evaluate(tx)
	return model.ComplianceResult{
		Passed:          len(violations) == 0,
		PoliciesChecked: checked,
		Violations:      violations,
	}
}
