package arena

import (
	"context"

	"DiamondQuest/internal/games"
	"DiamondQuest/internal/model"
)

// ActivityView is the state of one gated activity.
type ActivityView struct {
	Available  bool               `json:"available"`
	LastPlayed string             `json:"lastPlayed,omitempty"`
	Prompt     model.PromptStatus `json:"prompt,omitempty"`
}

// Snapshot is everything the UI needs to render the arena.
type Snapshot struct {
	User       *model.Identity                 `json:"user"`
	Balance    int64                           `json:"balance"`
	Today      string                          `json:"today"`
	Activities map[model.Activity]ActivityView `json:"activities"`
	Claimed    []string                        `json:"claimed"`
	Spin       games.SpinState                 `json:"spin"`
	Rush       games.RushState                 `json:"rush"`
}

// Snapshot advances running games and reports the full state.
func (a *Arena) Snapshot(ctx context.Context) Snapshot {
	a.advance(ctx)

	s := Snapshot{
		Balance:    a.ledger.Balance(),
		Today:      a.gate.Today(),
		Activities: make(map[model.Activity]ActivityView, len(model.Activities)),
		Claimed:    a.Claimed(),
		Spin:       a.spin.State(),
		Rush:       a.rush.State(a.clock.Now()),
	}
	if s.Claimed == nil {
		s.Claimed = []string{}
	}
	if id, ok := a.session.Current(); ok {
		s.User = &id
	}
	for _, act := range model.Activities {
		last, _ := a.gate.LastPlayed(act)
		s.Activities[act] = ActivityView{
			Available:  a.gate.IsAvailable(act),
			LastPlayed: last,
			Prompt:     a.gate.PromptStatus(act),
		}
	}
	return s
}
