package policy

import (
	"fmt"
	"strings"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
)

const (
	TypeSanctionedAddress = "sanctioned_address"
	TypeValueThreshold    = "value_threshold"
	TypeContractAllowlist = "contract_allowlist"
)

func violation(p model.Policy, msg string) *model.Violation {
	return &model.Violation{
		PolicyName: p.Name,
		PolicyType: p.Type,
		Severity:   p.Severity,
		Message:    msg,
	}
}

func evalSanctionedAddress(tx *model.Transaction, p model.Policy, rs *Ruleset) *model.Violation {
	for _, addr := range rs.SanctionedAddresses {
		if strings.EqualFold(addr, tx.Sender) {
			return violation(p, fmt.Sprintf("sender %s is on the sanction list", tx.Sender))
		}
		if tx.Receiver != "" && strings.EqualFold(addr, tx.Receiver) {
			return violation(p, fmt.Sprintf("receiver %s is on the sanction list", tx.Receiver))
		}
	}
	return nil
}

func evalValueThreshold(tx *model.Transaction, p model.Policy, rs *Ruleset) *model.Violation {
	if rs.MaxTransactionValue > 0 && tx.Amount > rs.MaxTransactionValue {
		return violation(p, fmt.Sprintf("amount %d exceeds the configured maximum %d", tx.Amount, rs.MaxTransactionValue))
	}
	return nil
}

func evalContractAllowlist(tx *model.Transaction, p model.Policy, rs *Ruleset) *model.Violation {
	// an empty allowlist permits everything
	if len(rs.AllowedContracts) == 0 || tx.Contract == "" {
		return nil
	}
	for _, c := range rs.AllowedContracts {
		if strings.EqualFold(c, tx.Contract) {
			return nil
		}
	}
	return violation(p, fmt.Sprintf("contract %s is not on the allowlist", tx.Contract))
}
