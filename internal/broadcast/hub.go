// Package broadcast fans events out to live subscribers.
//
// Each subscriber owns a bounded channel; a subscriber whose channel is full
// is dropped rather than allowed to backpressure delivery to others. A
// periodic ping prunes subscribers that stop acknowledging.
package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Abhilash-0322/chainsentinel.ai/internal/model"
)

const (
	// AlertBufferSize bounds the recent-alerts buffer.
	AlertBufferSize = 50
	// RecordBufferSize bounds the recent-transactions buffer.
	RecordBufferSize = 20

	subscriberQueue = 32
)

type subscriber struct {
	id       string
	ch       chan model.Event
	lastPong time.Time
}

type Hub struct {
	mu   sync.Mutex
	subs map[string]*subscriber

	alerts  *recentBuffer[model.TransactionAlert]
	records *recentBuffer[model.TransactionRecord]

	pingInterval   time.Duration
	livenessWindow time.Duration
	log            *zap.SugaredLogger
}

type Option func(*Hub)

func WithPing(interval, window time.Duration) Option {
	return func(h *Hub) {
		h.pingInterval = interval
		h.livenessWindow = window
	}
}

func NewHub(log *zap.SugaredLogger, opts ...Option) *Hub {
	h := &Hub{
		subs:           map[string]*subscriber{},
		alerts:         newRecentBuffer[model.TransactionAlert](AlertBufferSize),
		records:        newRecentBuffer[model.TransactionRecord](RecordBufferSize),
		pingInterval:   15 * time.Second,
		livenessWindow: 45 * time.Second,
		log:            log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscription is one live consumer. Events closes when the hub drops the
// subscriber; resubscribing resumes from "now", no backfill.
type Subscription struct {
	ID     string
	Events <-chan model.Event
}

func (h *Hub) Subscribe() Subscription {
	sub := &subscriber{
		id:       uuid.NewString(),
		ch:       make(chan model.Event, subscriberQueue),
		lastPong: time.Now(),
	}
	h.mu.Lock()
	h.subs[sub.id] = sub
	h.mu.Unlock()
	return Subscription{ID: sub.id, Events: sub.ch}
}

func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(id)
}

// Pong records a liveness acknowledgement from a subscriber.
func (h *Hub) Pong(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub, ok := h.subs[id]; ok {
		sub.lastPong = time.Now()
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// PublishTransaction emits a new_transaction event to every subscriber,
// unconditionally, and records it in the recent buffer.
func (h *Hub) PublishTransaction(rec model.TransactionRecord) {
	h.records.Push(rec)
	h.broadcast(model.Event{Type: model.EventNewTransaction, Transaction: &rec})
}

// PublishAlert emits a transaction_alert event and records it.
func (h *Hub) PublishAlert(alert model.TransactionAlert) {
	h.alerts.Push(alert)
	h.broadcast(model.Event{Type: model.EventTransactionAlert, Alert: &alert})
}

// RecordAlert retains an alert without broadcasting it. Used for alerts
// below the live-notification threshold.
func (h *Hub) RecordAlert(alert model.TransactionAlert) {
	h.alerts.Push(alert)
}

func (h *Hub) RecentAlerts() []model.TransactionAlert { return h.alerts.Items() }

func (h *Hub) RecentTransactions() []model.TransactionRecord { return h.records.Items() }

// broadcast delivers without blocking: a subscriber with a full queue is
// stalled and gets dropped so it cannot hold up the rest.
func (h *Hub) broadcast(ev model.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, sub := range h.subs {
		select {
		case sub.ch <- ev:
		default:
			h.log.Warnw("dropping stalled subscriber", "id", id)
			h.dropLocked(id)
		}
	}
}

func (h *Hub) dropLocked(id string) {
	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.ch)
	}
}

// Run drives the liveness probe until ctx is cancelled. Subscribers that
// have not ponged within the window are pruned.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.C:
			h.pingAndPrune()
		}
	}
}

func (h *Hub) pingAndPrune() {
	now := time.Now()
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, sub := range h.subs {
		if now.Sub(sub.lastPong) > h.livenessWindow {
			h.log.Infow("pruning unresponsive subscriber", "id", id)
			h.dropLocked(id)
			continue
		}
		select {
		case sub.ch <- model.Event{Type: model.EventPing}:
		default:
			h.dropLocked(id)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id := range h.subs {
		h.dropLocked(id)
	}
}
