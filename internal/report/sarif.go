// Package report renders vulnerability reports for external tooling.
package report

import (
	"encoding/json"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
)

type sarif struct {
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}
type sarifDriver struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}
type sarifLoc struct {
	Physical sarifPhys `json:"physicalLocation"`
}
type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}
type sarifArt struct {
	URI string `json:"uri"`
}
type sarifRegion struct {
	StartLine int `json:"startLine"`
}

// ToSARIF renders a scan report as SARIF 2.1.0, with the rule-set version as
// the driver version.
func ToSARIF(r *model.VulnerabilityReport, ruleSetVersion string) ([]byte, error) {
	var results []sarifResult
	for _, f := range r.Findings {
		level := "note"
		switch f.Severity {
		case model.SeverityMedium:
			level = "warning"
		case model.SeverityHigh, model.SeverityCritical:
			level = "error"
		}
		results = append(results, sarifResult{
			RuleID:  f.RuleID,
			Level:   level,
			Message: sarifMessage{Text: f.Description},
			Locations: []sarifLoc{{Physical: sarifPhys{
				ArtifactLocation: sarifArt{URI: r.ContractName},
				Region:           sarifRegion{StartLine: f.Line},
			}}},
		})
	}
	s := sarif{Version: "2.1.0", Runs: []sarifRun{{
		Tool:    sarifTool{Driver: sarifDriver{Name: "chainsentinel", Version: ruleSetVersion}},
		Results: results,
	}}}
	return json.MarshalIndent(s, "", "  ")
}
