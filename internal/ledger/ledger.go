package ledger

import (
	"strconv"
	"sync"

	"DiamondQuest/internal/storage"

	log "github.com/sirupsen/logrus"
)

// Ledger holds the diamond balance. Every mutation is persisted before the
// call returns; a failed write is logged and the in-memory balance stays
// authoritative.
type Ledger struct {
	mu      sync.Mutex
	store   storage.Store
	balance int64
}

// New creates a Ledger, loading the balance from the store.
func New(store storage.Store) *Ledger {
	l := &Ledger{store: store}
	l.balance = l.load()
	return l
}

// Balance returns the current diamond count.
func (l *Ledger) Balance() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// Credit increases the balance. Non-positive amounts are ignored.
func (l *Ledger) Credit(amount int64) {
	l.CreditWith(amount, nil)
}

// CreditWith increases the balance and persists extra entries in the same
// write, so the credit and its bookkeeping land together or not at all.
func (l *Ledger) CreditWith(amount int64, extra map[string]string) {
	if amount <= 0 {
		log.Warnf("ledger: ignoring non-positive credit %d", amount)
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balance += amount
	l.persist(extra)
}

// Debit decreases the balance when it covers amount and reports whether it
// did. Insufficient funds leave the balance untouched.
func (l *Ledger) Debit(amount int64) bool {
	return l.DebitWith(amount, nil)
}

// DebitWith is Debit with extra entries persisted alongside the new balance.
func (l *Ledger) DebitWith(amount int64, extra map[string]string) bool {
	if amount <= 0 {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balance < amount {
		return false
	}
	l.balance -= amount
	l.persist(extra)
	return true
}

// SetAbsolute overwrites the balance. Negative values are rejected.
func (l *Ledger) SetAbsolute(amount int64) {
	if amount < 0 {
		log.Warnf("ledger: rejecting negative balance %d", amount)
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balance = amount
	l.persist(nil)
}

// Reload re-reads the balance from the store, e.g. after a full reset.
func (l *Ledger) Reload() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance = l.load()
}

func (l *Ledger) load() int64 {
	raw, ok, err := l.store.Get(storage.KeyBalance)
	if err != nil {
		log.Errorf("ledger: read balance: %v", err)
		return 0
	}
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		log.Warnf("ledger: stored balance %q is invalid, using 0", raw)
		return 0
	}
	return n
}

// persist must be called with mu held.
func (l *Ledger) persist(extra map[string]string) {
	entries := map[string]string{storage.KeyBalance: strconv.FormatInt(l.balance, 10)}
	for k, v := range extra {
		entries[k] = v
	}
	if err := l.store.SetMany(entries); err != nil {
		log.Errorf("ledger: failed to save balance: %v", err)
	}
}
