// Package monitor polls the chain for transactions, classifies them, and
// feeds the broadcast hub.
package monitor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/broadcast"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/policy"
	"github.com/Abhilash-0322/chainsentinel.ai/internal/risk"
)

type Monitor struct {
	client     ChainClient
	compliance *policy.Compliance
	hub        *broadcast.Hub
	interval   time.Duration
	batchLimit int
	log        *zap.SugaredLogger

	// dedupe set, bounded; RecentTransactions only looks back batchLimit
	// entries, so a few batches of history is enough to absorb overlap.
	seen      map[string]struct{}
	seenOrder []string
	seenLimit int
}

func New(client ChainClient, c *policy.Compliance, hub *broadcast.Hub, interval time.Duration, batchLimit int, log *zap.SugaredLogger) *Monitor {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if batchLimit <= 0 {
		batchLimit = 25
	}
	return &Monitor{
		client:     client,
		compliance: c,
		hub:        hub,
		interval:   interval,
		batchLimit: batchLimit,
		log:        log,
		seen:       map[string]struct{}{},
		seenLimit:  batchLimit * 4,
	}
}

// Run polls until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	m.log.Infow("transaction monitor started", "network", m.client.Network(), "interval", m.interval)
	for {
		select {
		case <-ctx.Done():
			m.log.Info("transaction monitor stopped")
			return
		case <-ticker.C:
			if err := m.poll(ctx); err != nil {
				m.log.Warnw("poll failed", "err", err)
			}
		}
	}
}

func (m *Monitor) poll(ctx context.Context) error {
	txs, err := m.client.RecentTransactions(ctx, m.batchLimit)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAnalysisUnavailable, err)
	}
	for i := range txs {
		tx := txs[i]
		if _, dup := m.seen[tx.Hash]; dup {
			continue
		}
		m.seen[tx.Hash] = struct{}{}
		m.seenOrder = append(m.seenOrder, tx.Hash)
		m.Observe(&tx)
	}
	for len(m.seenOrder) > m.seenLimit {
		delete(m.seen, m.seenOrder[0])
		m.seenOrder = m.seenOrder[1:]
	}
	return nil
}

// Observe classifies one transaction and publishes the resulting events.
// Every transaction yields a record; medium-or-above risk yields an alert,
// and only high/critical alerts are broadcast live.
func (m *Monitor) Observe(tx *model.Transaction) {
	m.hub.PublishTransaction(model.TransactionRecord{
		TransactionHash: tx.Hash,
		Timestamp:       tx.Timestamp,
		Success:         tx.Success,
	})

	result := m.compliance.Check(tx)
	score := risk.Score(nil, result.Violations)
	if !model.SeverityGTE(score.Level, model.SeverityMedium) {
		return
	}
	alert := model.TransactionAlert{
		RiskLevel:       score.Level,
		RiskScore:       score.Score,
		Violations:      result.Violations,
		TransactionHash: tx.Hash,
		Sender:          tx.Sender,
		Timestamp:       tx.Timestamp,
	}
	if model.SeverityGTE(score.Level, model.SeverityHigh) {
		m.hub.PublishAlert(alert)
		m.log.Warnw("risk alert", "hash", tx.Hash, "level", score.Level, "score", score.Score)
	} else {
		m.hub.RecordAlert(alert)
	}
}

// Analyze resolves a transaction by hash and returns its risk and
// compliance verdicts.
func (m *Monitor) Analyze(ctx context.Context, hash string) (*model.Transaction, model.RiskScore, model.ComplianceResult, error) {
	tx, err := m.client.Transaction(ctx, hash)
	if err != nil {
		return nil, model.RiskScore{}, model.ComplianceResult{}, fmt.Errorf("%w: %v", ErrAnalysisUnavailable, err)
	}
	result := m.compliance.Check(tx)
	score := risk.Score(nil, result.Violations)
	return tx, score, result, nil
}
