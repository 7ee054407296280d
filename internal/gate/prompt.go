package gate

import (
	"fmt"

	"DiamondQuest/internal/model"

	log "github.com/sirupsen/logrus"
)

// PromptStatus returns the offer-prompt status of a game. Values written by
// older builds (a bare "true" or a timestamp) read as shown.
func (g *Gate) PromptStatus(a model.Activity) model.PromptStatus {
	key, ok := promptKeys[a]
	if !ok {
		return model.PromptNone
	}
	raw, found, err := g.store.Get(key)
	if err != nil || !found {
		return model.PromptNone
	}
	switch s := model.PromptStatus(raw); s {
	case model.PromptShown, model.PromptNoOffers, model.PromptError, model.PromptCompleted:
		return s
	default:
		return model.PromptShown
	}
}

// SetPromptStatus persists the offer-prompt status of a game.
func (g *Gate) SetPromptStatus(a model.Activity, s model.PromptStatus) error {
	key, ok := promptKeys[a]
	if !ok {
		return fmt.Errorf("%w: no offer prompt for %s", ErrUnknownActivity, a)
	}
	var err error
	if s == model.PromptNone {
		err = g.store.Delete(key)
	} else {
		err = g.store.Set(key, string(s))
	}
	if err != nil {
		log.Errorf("gate: failed to save %s prompt: %v", a, err)
	}
	return nil
}

// BeginOfferLoad reports whether an offer load may start for the activity
// now, and if so starts its cooldown window.
func (g *Gate) BeginOfferLoad(a model.Activity) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	if last, ok := g.lastLoad[a]; ok && now.Sub(last) < g.cooldown {
		return false
	}
	g.lastLoad[a] = now
	return true
}
