package scan

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/lang"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
)

const moveDrainableVault = `module vault::vault {
    use aptos_framework::coin;

    struct Pool has key {
        total: u64,
    }

    public entry fun drain(to: address, amount: u64) acquires Pool {
        let pool = borrow_global_mut<Pool>(@vault);
        pool.total = pool.total - amount;
        coin::transfer_internal(to, amount);
    }

    public entry fun reset() acquires Pool {
        let pool = borrow_global_mut<Pool>(@vault);
        pool.total = 0;
    }
}
`

func TestScanEmptySource(t *testing.T) {
	s := New()
	report, err := s.Scan(context.Background(), Request{ContractName: "empty", Source: "   \n\t"})
	require.NoError(t, err)
	assert.Empty(t, report.Findings)
	assert.Equal(t, "empty source: nothing to analyze", report.Note)
	assert.Equal(t, 0, report.RiskScore.Score)
	assert.Equal(t, model.SeverityLow, report.RiskScore.Level)
}

func TestScanUnclassifiableSource(t *testing.T) {
	s := New()
	_, err := s.Scan(context.Background(), Request{ContractName: "blob", Source: "hello world, nothing chain-shaped here"})
	assert.ErrorIs(t, err, lang.ErrUnsupportedLanguage)
}

func TestScanDrainableVault(t *testing.T) {
	s := New()
	report, err := s.Scan(context.Background(), Request{ContractName: "vault.move", Source: moveDrainableVault})
	require.NoError(t, err)
	assert.Equal(t, model.LangMove, report.Language)
	require.NotEmpty(t, report.Findings)

	var criticals []model.Finding
	for _, f := range report.Findings {
		if f.Severity == model.SeverityCritical {
			criticals = append(criticals, f)
		}
	}
	require.NotEmpty(t, criticals, "unauthorized entry functions must yield a critical finding")
	assert.Equal(t, "MOVE-MISSING-SIGNER", criticals[0].RuleID)

	assert.GreaterOrEqual(t, report.RiskScore.Score, 80)
	assert.Equal(t, model.SeverityCritical, report.RiskScore.Level)
	assert.Equal(t, len(criticals), report.Counts.Critical)
}

func TestScanSingleUnauthorizedWithdraw(t *testing.T) {
	src := `module vault::vault {
    struct Pool has key {
        total: u64,
    }

    public entry fun withdraw(to: address, amount: u64) acquires Pool {
        let pool = borrow_global_mut<Pool>(@vault);
        pool.total = pool.total - amount;
    }
}
`
	s := New()
	report, err := s.Scan(context.Background(), Request{ContractName: "vault.move", Source: src})
	require.NoError(t, err)

	// one unauthorized entry function is enough to cross the critical line
	assert.GreaterOrEqual(t, report.RiskScore.Score, 80)
	assert.Equal(t, model.SeverityCritical, report.RiskScore.Level)

	critical := 0
	for _, f := range report.Findings {
		if f.RuleID == "MOVE-MISSING-SIGNER" {
			assert.Equal(t, model.SeverityCritical, f.Severity)
			assert.Equal(t, "withdraw", f.Entity)
			critical++
		}
	}
	assert.Equal(t, 2, critical, "borrow and field write are separate sites")
}

func TestScanCleanSourceNote(t *testing.T) {
	s := New()
	clean := `module vault::view {
    struct Stats has key {
        total: u64,
    }
}
`
	report, err := s.Scan(context.Background(), Request{ContractName: "view.move", Source: clean})
	require.NoError(t, err)
	assert.Empty(t, report.Findings)
	assert.Equal(t, "no known vulnerability patterns matched", report.Note)
}

func TestScanDeterministic(t *testing.T) {
	s := New()
	first, err := s.Scan(context.Background(), Request{ContractName: "vault.move", Source: moveDrainableVault})
	require.NoError(t, err)
	want, err := json.Marshal(first.Findings)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		report, err := s.Scan(context.Background(), Request{ContractName: "vault.move", Source: moveDrainableVault})
		require.NoError(t, err)
		got, err := json.Marshal(report.Findings)
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got))
	}
}

func TestRuleSetVersionStable(t *testing.T) {
	assert.Equal(t, New().RuleSetVersion(), New().RuleSetVersion())
	assert.NotEmpty(t, New().RuleSetVersion())
}
