package gate

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"DiamondQuest/internal/model"
	"DiamondQuest/internal/storage"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// DayLayout renders a calendar day the way the gate stores it.
const DayLayout = "Mon Jan 02 2006"

// ErrUnknownActivity is returned for activity keys the gate does not track.
var ErrUnknownActivity = errors.New("unknown activity")

var dateKeys = map[model.Activity]string{
	model.ActivityDailyChest:  storage.KeyDailyChest,
	model.ActivityLuckySpin:   storage.KeyLuckySpin,
	model.ActivityDiamondRush: storage.KeyDiamondRush,
}

var promptKeys = map[model.Activity]string{
	model.ActivityLuckySpin:   storage.KeyLuckySpinPrompt,
	model.ActivityDiamondRush: storage.KeyDiamondRushPrompt,
}

// Gate answers "may the user do this activity today?". An activity becomes
// available again at local midnight, not 24 hours after the last play.
type Gate struct {
	store    storage.Store
	clock    clockwork.Clock
	loc      *time.Location
	cooldown time.Duration

	mu       sync.Mutex
	lastLoad map[model.Activity]time.Time
}

// New creates a Gate. loc is the user's timezone; nil means time.Local.
// offerCooldown throttles offer loading per activity.
func New(store storage.Store, clock clockwork.Clock, loc *time.Location, offerCooldown time.Duration) *Gate {
	if loc == nil {
		loc = time.Local
	}
	return &Gate{
		store:    store,
		clock:    clock,
		loc:      loc,
		cooldown: offerCooldown,
		lastLoad: make(map[model.Activity]time.Time),
	}
}

// Today returns the current local calendar day string.
func (g *Gate) Today() string {
	return g.clock.Now().In(g.loc).Format(DayLayout)
}

// IsAvailable reports whether the activity may be performed today. Unknown
// activities are never available; unreadable state counts as absent.
func (g *Gate) IsAvailable(a model.Activity) bool {
	key, ok := dateKeys[a]
	if !ok {
		return false
	}
	last, found, err := g.store.Get(key)
	if err != nil {
		log.Warnf("gate: read %s: %v", key, err)
		return true
	}
	return !found || last != g.Today()
}

// LastPlayed returns the stored day string for the activity, if any.
func (g *Gate) LastPlayed(a model.Activity) (string, bool) {
	key, ok := dateKeys[a]
	if !ok {
		return "", false
	}
	last, found, err := g.store.Get(key)
	if err != nil {
		return "", false
	}
	return last, found
}

// ConsumeEntries returns the store entries that mark the activity consumed
// today, for callers that persist them together with a ledger credit.
func (g *Gate) ConsumeEntries(a model.Activity) (map[string]string, error) {
	key, ok := dateKeys[a]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownActivity, a)
	}
	return map[string]string{key: g.Today()}, nil
}

// MarkConsumed persists today's date for the activity and resets its offer
// prompt.
func (g *Gate) MarkConsumed(a model.Activity) error {
	entries, err := g.ConsumeEntries(a)
	if err != nil {
		return err
	}
	if err := g.store.SetMany(entries); err != nil {
		log.Errorf("gate: failed to mark %s consumed: %v", a, err)
	}
	if pk, ok := promptKeys[a]; ok {
		if err := g.store.Delete(pk); err != nil {
			log.Errorf("gate: failed to reset %s prompt: %v", a, err)
		}
	}
	return nil
}

// Unlock removes the stored date, making the activity available immediately.
// Only a verified external offer completion should call this.
func (g *Gate) Unlock(a model.Activity) error {
	key, ok := dateKeys[a]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownActivity, a)
	}
	if err := g.store.Delete(key); err != nil {
		log.Errorf("gate: failed to unlock %s: %v", a, err)
	}
	if pk, ok := promptKeys[a]; ok {
		if err := g.store.Delete(pk); err != nil {
			log.Errorf("gate: failed to clear %s prompt: %v", a, err)
		}
	}
	g.mu.Lock()
	delete(g.lastLoad, a)
	g.mu.Unlock()
	return nil
}

// Reset forgets in-memory throttling state after a full storage wipe.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastLoad = make(map[model.Activity]time.Time)
}
