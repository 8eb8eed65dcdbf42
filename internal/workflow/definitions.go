package workflow

import "github.com/Abhilash-0322/chainsentinel.ai/internal/model"

// DefaultChains is the chain set for cross-chain analysis when the caller
// names none.
var DefaultChains = []string{"aptos", "ethereum", "solana", "sui", "arbitrum"}

// builtinWorkflows declares the shipped pipelines. Step order is execution
// order; Stages are the result keys, index-aligned with Steps.
func builtinWorkflows() []model.Workflow {
	return []model.Workflow{
		{
			ID:          "dna_profiler",
			Name:        "Smart Contract DNA Profiler",
			Tagline:     "Genetic fingerprinting for blockchain code",
			Description: "Creates a structural fingerprint of a smart contract from code patterns, vulnerability markers, and pattern-library matches.",
			Steps: []model.WorkflowStep{
				{Agent: "Code Analyzer", Task: "Extract structural DNA"},
				{Agent: "Vulnerability Scanner", Task: "Identify risk markers"},
				{Agent: "Pattern Matcher", Task: "Match against known strains"},
				{Agent: "DNA Synthesizer", Task: "Generate unique fingerprint"},
			},
			Stages: []string{"structural_dna", "risk_markers", "strain_matches", "dna_fingerprint"},
		},
		{
			ID:          "exploit_oracle",
			Name:        "Predictive Exploit Oracle",
			Tagline:     "See the future of smart contract attacks",
			Description: "Relates current findings to historical exploit classes and projects which attack vectors are viable against the contract.",
			Steps: []model.WorkflowStep{
				{Agent: "Historical Analyst", Task: "Analyze past exploits"},
				{Agent: "Vulnerability Mapper", Task: "Map current weaknesses"},
				{Agent: "Attack Simulator", Task: "Simulate attack vectors"},
				{Agent: "Future Predictor", Task: "Generate exploit predictions"},
			},
			Stages: []string{"historical_analysis", "vulnerability_map", "attack_simulations", "exploit_predictions"},
		},
		{
			ID:          "threat_mesh",
			Name:        "Cross-Chain Threat Mesh",
			Tagline:     "Multi-dimensional blockchain security",
			Description: "Evaluates the contract against multiple chain ecosystems and correlates risks that spread across bridges and chains.",
			Steps: []model.WorkflowStep{
				{Agent: "Chain Analyzer", Task: "Scan multiple chains"},
				{Agent: "Bridge Inspector", Task: "Analyze cross-chain bridges"},
				{Agent: "Pattern Correlator", Task: "Correlate attack patterns"},
				{Agent: "Mesh Generator", Task: "Create threat mesh map"},
			},
			Stages: []string{"chain_analysis", "bridge_vulnerabilities", "correlated_patterns", "threat_mesh"},
		},
	}
}
