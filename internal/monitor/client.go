package monitor

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
)

// ErrAnalysisUnavailable means the chain collaborator could not be reached;
// it is surfaced to callers, not retried indefinitely.
var ErrAnalysisUnavailable = errors.New("chain analysis unavailable")

// ChainClient is the on-chain data collaborator. Real RPC clients live
// outside this module; the simulated client below serves demos and tests.
type ChainClient interface {
	// RecentTransactions returns up to limit transactions, newest last.
	RecentTransactions(ctx context.Context, limit int) ([]model.Transaction, error)
	// Transaction resolves one transaction by hash.
	Transaction(ctx context.Context, hash string) (*model.Transaction, error)
	// Network names the connected network.
	Network() string
}

// SimulatedClient fabricates plausible traffic with a deterministic seed so
// demo runs are reproducible.
type SimulatedClient struct {
	mu      sync.Mutex
	rng     *rand.Rand
	network string
	seq     uint64
	history map[string]model.Transaction
}

func NewSimulatedClient(network string, seed int64) *SimulatedClient {
	return &SimulatedClient{
		rng:     rand.New(rand.NewSource(seed)),
		network: network,
		history: map[string]model.Transaction{},
	}
}

func (c *SimulatedClient) Network() string { return c.network }

var simSenders = []string{
	"0x1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b",
	"0xdeadbeef00000000000000000000000000000001",
	"0xcafebabe00000000000000000000000000000002",
	"0xfeedface00000000000000000000000000000003",
}

var simContracts = []string{
	"0x1::coin", "0x1::aptos_account", "0x42::vault", "0x42::staking",
}

func (c *SimulatedClient) RecentTransactions(ctx context.Context, limit int) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 1 + c.rng.Intn(3)
	if n > limit {
		n = limit
	}
	out := make([]model.Transaction, 0, n)
	for i := 0; i < n; i++ {
		c.seq++
		tx := model.Transaction{
			Hash:      fmt.Sprintf("0xsim%08d", c.seq),
			Sender:    simSenders[c.rng.Intn(len(simSenders))],
			Receiver:  simSenders[c.rng.Intn(len(simSenders))],
			Contract:  simContracts[c.rng.Intn(len(simContracts))],
			Function:  "transfer",
			Amount:    uint64(c.rng.Intn(2_000_000)) * 1_000_000,
			Success:   c.rng.Intn(10) != 0,
			Timestamp: time.Now().UTC(),
		}
		c.history[tx.Hash] = tx
		out = append(out, tx)
	}
	return out, nil
}

func (c *SimulatedClient) Transaction(ctx context.Context, hash string) (*model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if tx, ok := c.history[hash]; ok {
		return &tx, nil
	}
	// unseen hashes resolve to a fabricated confirmed transaction
	c.seq++
	tx := model.Transaction{
		Hash:      hash,
		Sender:    simSenders[c.rng.Intn(len(simSenders))],
		Contract:  simContracts[c.rng.Intn(len(simContracts))],
		Function:  "transfer",
		Amount:    uint64(c.rng.Intn(2_000_000)) * 1_000_000,
		Success:   true,
		Timestamp: time.Now().UTC(),
	}
	c.history[tx.Hash] = tx
	return &tx, nil
}
