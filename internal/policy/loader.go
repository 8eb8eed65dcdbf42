package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
)

type fileSpec struct {
	Policies []policySpec `yaml:"policies"`
	Ruleset  Ruleset      `yaml:"ruleset"`
}

type policySpec struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Severity string `yaml:"severity"`
	Enabled  *bool  `yaml:"enabled"`
}

// Defaults is the built-in policy set used when no policy file is given.
func Defaults() ([]model.Policy, Ruleset) {
	policies := []model.Policy{
		{Name: "sanctioned_address", Type: TypeSanctionedAddress, Severity: model.SeverityCritical, Enabled: true},
		{Name: "max_transaction_value", Type: TypeValueThreshold, Severity: model.SeverityHigh, Enabled: true},
		{Name: "contract_allowlist", Type: TypeContractAllowlist, Severity: model.SeverityMedium, Enabled: false},
	}
	rs := Ruleset{MaxTransactionValue: 1_000_000_000_000}
	return policies, rs
}

// Load reads a YAML policy set. Unknown policy types are kept and simply
// never evaluated; a missing enabled field defaults to true.
func Load(path string) ([]model.Policy, Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Ruleset{}, fmt.Errorf("reading policy file: %w", err)
	}
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, Ruleset{}, fmt.Errorf("parsing policy file: %w", err)
	}
	defaults, defaultRS := Defaults()
	if len(spec.Policies) == 0 {
		return defaults, defaultRS, nil
	}
	policies := make([]model.Policy, 0, len(spec.Policies))
	for _, p := range spec.Policies {
		enabled := true
		if p.Enabled != nil {
			enabled = *p.Enabled
		}
		policies = append(policies, model.Policy{
			Name:     p.Name,
			Type:     p.Type,
			Severity: model.ParseSeverity(p.Severity),
			Enabled:  enabled,
		})
	}
	rs := spec.Ruleset
	if rs.MaxTransactionValue == 0 {
		rs.MaxTransactionValue = defaultRS.MaxTransactionValue
	}
	return policies, rs, nil
}
