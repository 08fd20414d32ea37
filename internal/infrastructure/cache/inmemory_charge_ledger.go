package cache

import (
	"context"
	"sync"

	"github.com/rogerioboitto/casa-backend/internal/domain/charging"
	"github.com/rogerioboitto/casa-backend/internal/domain/shared/valueobject"
)

// InMemoryChargeLedger implements charging.ChargeLedger with a mutex-guarded
// map. Suitable for tests and single-instance runs where losing the ledger on
// restart is acceptable; reconciliation rebuilds it from the provider.
type InMemoryChargeLedger struct {
	mu      sync.RWMutex
	entries map[charging.ChargeKey]string
}

var _ charging.ChargeLedger = (*InMemoryChargeLedger)(nil)

// NewInMemoryChargeLedger creates an empty in-memory ledger
func NewInMemoryChargeLedger() *InMemoryChargeLedger {
	return &InMemoryChargeLedger{
		entries: make(map[charging.ChargeKey]string),
	}
}

// Has reports whether a charge is recorded for the key
func (l *InMemoryChargeLedger) Has(ctx context.Context, key charging.ChargeKey) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.entries[key]
	return ok, nil
}

// Get returns the external payment id for the key
func (l *InMemoryChargeLedger) Get(ctx context.Context, key charging.ChargeKey) (string, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	id, ok := l.entries[key]
	return id, ok, nil
}

// Put records a successfully created charge
func (l *InMemoryChargeLedger) Put(ctx context.Context, key charging.ChargeKey, paymentID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[key] = paymentID
	return nil
}

// Remove drops the entry for the key
func (l *InMemoryChargeLedger) Remove(ctx context.Context, key charging.ChargeKey) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
	return nil
}

// Entries returns a snapshot of every recorded charge
func (l *InMemoryChargeLedger) Entries(ctx context.Context) (map[charging.ChargeKey]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	snapshot := make(map[charging.ChargeKey]string, len(l.entries))
	for k, v := range l.entries {
		snapshot[k] = v
	}
	return snapshot, nil
}

// Reconcile drops entries for the observed months whose payment id no longer
// exists remotely
func (l *InMemoryChargeLedger) Reconcile(ctx context.Context, months []valueobject.ReferenceMonth, remoteIDs map[string]struct{}) ([]charging.ChargeKey, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	stale := charging.ReconcilePlan(l.entries, months, remoteIDs)
	for _, key := range stale {
		delete(l.entries, key)
	}
	return stale, nil
}
