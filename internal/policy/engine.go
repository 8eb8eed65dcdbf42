// Package policy evaluates named, toggleable compliance policies against
// transactions.
package policy

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
)

// ErrPolicyNotFound is returned by Toggle for unknown policy names.
var ErrPolicyNotFound = errors.New("policy not found")

// Ruleset carries the reference data evaluators check transactions against.
type Ruleset struct {
	SanctionedAddresses []string `yaml:"sanctioned_addresses"`
	MaxTransactionValue uint64   `yaml:"max_transaction_value"`
	AllowedContracts    []string `yaml:"allowed_contracts"`
}

// evaluator checks one transaction against one policy; nil means pass.
// A failing policy yields exactly one violation.
type evaluator func(tx *model.Transaction, p model.Policy, rs *Ruleset) *model.Violation

// Engine holds the declared policy order and the process-wide enabled flags.
// Toggle and Evaluate may race from different goroutines; Evaluate works on
// a snapshot so a flip mid-pass is never half-observed.
type Engine struct {
	mu         sync.RWMutex
	policies   []model.Policy
	index      map[string]int
	ruleset    Ruleset
	evaluators map[string]evaluator
}

func NewEngine(policies []model.Policy, rs Ruleset) *Engine {
	e := &Engine{
		index:   make(map[string]int, len(policies)),
		ruleset: rs,
		evaluators: map[string]evaluator{
			TypeSanctionedAddress: evalSanctionedAddress,
			TypeValueThreshold:    evalValueThreshold,
			TypeContractAllowlist: evalContractAllowlist,
		},
	}
	for _, p := range policies {
		if _, dup := e.index[p.Name]; dup {
			continue
		}
		e.index[p.Name] = len(e.policies)
		e.policies = append(e.policies, p)
	}
	return e
}

// Policies returns the declared-order policy list as a copy.
func (e *Engine) Policies() []model.Policy {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]model.Policy, len(e.policies))
	copy(out, e.policies)
	return out
}

// Toggle flips a policy's enabled flag and returns the new state.
func (e *Engine) Toggle(name string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, ok := e.index[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrPolicyNotFound, name)
	}
	e.policies[i].Enabled = !e.policies[i].Enabled
	return e.policies[i].Enabled, nil
}

// Evaluate runs every enabled policy against the transaction in declared
// order. The returned count is the number of enabled policies evaluated.
func (e *Engine) Evaluate(tx *model.Transaction) ([]model.Violation, int) {
	e.mu.RLock()
	snapshot := make([]model.Policy, len(e.policies))
	copy(snapshot, e.policies)
	rs := e.ruleset
	e.mu.RUnlock()

	var violations []model.Violation
	checked := 0
	for _, p := range snapshot {
		if !p.Enabled {
			continue
		}
		eval, ok := e.evaluators[p.Type]
		if !ok {
			continue
		}
		checked++
		if v := eval(tx, p, &rs); v != nil {
			violations = append(violations, *v)
		}
	}
	return violations, checked
}
