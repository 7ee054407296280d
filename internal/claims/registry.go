package claims

import (
	"encoding/json"
	"sync"

	"DiamondQuest/internal/ledger"
	"DiamondQuest/internal/storage"

	log "github.com/sirupsen/logrus"
)

// Registry records one-time rewards (share platforms) that were already
// granted. A claim id is added in the same write as its ledger credit.
type Registry struct {
	mu        sync.Mutex
	store     storage.Store
	ledger    *ledger.Ledger
	reviewing map[string]bool
	// gen changes on Reset; reviews started under an older gen are void.
	gen uint64
}

// NewRegistry creates a Registry backed by store that credits l.
func NewRegistry(store storage.Store, l *ledger.Ledger) *Registry {
	return &Registry{
		store:     store,
		ledger:    l,
		reviewing: make(map[string]bool),
	}
}

// HasClaimed reports whether id was already granted.
func (r *Registry) HasClaimed(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return contains(r.load(), id)
}

// Claimed returns the granted ids in claim order.
func (r *Registry) Claimed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Claim grants reward for id once. It returns false, changing nothing, when
// id was already claimed.
func (r *Registry) Claim(id string, reward int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.claimLocked(id, reward)
}

func (r *Registry) claimLocked(id string, reward int64) bool {
	ids := r.load()
	if contains(ids, id) {
		return false
	}
	ids = append(ids, id)
	data, err := json.Marshal(ids)
	if err != nil {
		log.Errorf("claims: encode claimed set: %v", err)
		return false
	}

	extra := map[string]string{storage.KeyClaimedShares: string(data)}
	if reward > 0 {
		r.ledger.CreditWith(reward, extra)
	} else if err := r.store.SetMany(extra); err != nil {
		log.Errorf("claims: failed to save claimed set: %v", err)
	}
	log.WithFields(log.Fields{"claim": id, "reward": reward}).Info("claim granted")
	return true
}

// load must be called with mu held. A corrupt set reads as empty.
func (r *Registry) load() []string {
	var ids []string
	if _, err := storage.GetJSON(r.store, storage.KeyClaimedShares, &ids); err != nil {
		log.Warnf("claims: stored set unreadable, treating as empty: %v", err)
		return nil
	}
	return ids
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
