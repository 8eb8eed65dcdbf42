// Package risk aggregates findings and violations into a 0-100 score.
package risk

import "github.com/Abhilash-0322/chainsentinel.ai/internal/model"

// Severity weights. Additive, clamped to [0,100]; commutative over input
// order by construction.
const (
	WeightCritical = 40
	WeightHigh     = 20
	WeightMedium   = 10
	WeightLow      = 5
)

// Level thresholds.
const (
	ThresholdCritical = 80
	ThresholdHigh     = 50
	ThresholdMedium   = 20
)

func weight(s model.Severity) int {
	switch s {
	case model.SeverityCritical:
		return WeightCritical
	case model.SeverityHigh:
		return WeightHigh
	case model.SeverityMedium:
		return WeightMedium
	default:
		return WeightLow
	}
}

// Level derives the tier for a score. Pure and monotonic.
func Level(score int) model.Severity {
	switch {
	case score >= ThresholdCritical:
		return model.SeverityCritical
	case score >= ThresholdHigh:
		return model.SeverityHigh
	case score >= ThresholdMedium:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

// Score computes the aggregate risk for a set of findings and optional
// policy violations.
func Score(findings []model.Finding, violations []model.Violation) model.RiskScore {
	total := 0
	for _, f := range findings {
		total += weight(f.Severity)
	}
	for _, v := range violations {
		total += weight(v.Severity)
	}
	if total > 100 {
		total = 100
	}
	return model.RiskScore{Score: total, Level: Level(total)}
}
