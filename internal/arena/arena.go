// Package arena wires the ledger, daily gates, claims, mini-games, offers and
// identity session into the user-facing actions of Diamond Quest Arena.
package arena

import (
	"context"
	"fmt"
	"sync"
	"time"

	"DiamondQuest/internal/claims"
	"DiamondQuest/internal/collector"
	"DiamondQuest/internal/games"
	"DiamondQuest/internal/gate"
	"DiamondQuest/internal/ledger"
	"DiamondQuest/internal/model"
	"DiamondQuest/internal/notifier"
	"DiamondQuest/internal/recorder"
	"DiamondQuest/internal/session"
	"DiamondQuest/internal/storage"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// Deps are the collaborators an Arena is built from.
type Deps struct {
	Store    storage.Store
	Clock    clockwork.Clock
	Location *time.Location
	Identity collector.IdentityFetcher
	Offers   *collector.OfferFeed
	Reviewer claims.Reviewer
	Notifier notifier.Notifier
	Recorder recorder.Recorder
	Rand     games.Rand
}

// Options are the reward rules.
type Options struct {
	DailyChestReward int64
	OfferCooldown    time.Duration
	Spin             games.SpinConfig
	Rush             games.RushConfig
	Shares           []model.ShareOption
	Exchanges        []model.ExchangeOption
}

func DefaultOptions() Options {
	return Options{
		DailyChestReward: 20,
		OfferCooldown:    30 * time.Second,
		Spin:             games.DefaultSpinConfig(),
		Rush:             games.DefaultRushConfig(),
		Shares:           model.DefaultShareOptions("https://diamondquest.example", "Earn free diamonds in Diamond Quest Arena!"),
		Exchanges:        model.DefaultExchangeOptions(),
	}
}

// Arena is the single-user game core. All actions are safe for concurrent
// use; balance-affecting steps are serialized.
type Arena struct {
	clock    clockwork.Clock
	ledger   *ledger.Ledger
	gate     *gate.Gate
	claims   *claims.Registry
	session  *session.Manager
	spin     *games.LuckySpin
	rush     *games.DiamondRush
	offers   *collector.OfferFeed
	reviewer claims.Reviewer
	notifier notifier.Notifier
	recorder recorder.Recorder
	opts     Options

	shares    map[string]model.ShareOption
	exchanges map[string]model.ExchangeOption

	mu       sync.Mutex
	shown    map[model.Activity]model.Offer
	inFlight map[model.Activity]bool
}

func New(d Deps, opts Options) (*Arena, error) {
	if d.Store == nil {
		return nil, fmt.Errorf("arena: store is required")
	}
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	if d.Notifier == nil {
		d.Notifier = notifier.LogNotifier{}
	}
	if d.Recorder == nil {
		d.Recorder = recorder.NewNoopRecorder()
	}
	if d.Reviewer == nil {
		d.Reviewer = claims.DelayReviewer{Clock: d.Clock, Delay: 2 * time.Second}
	}
	if d.Identity == nil || d.Offers == nil || d.Rand == nil {
		return nil, fmt.Errorf("arena: identity, offers and rand are required")
	}

	a := &Arena{
		clock:     d.Clock,
		offers:    d.Offers,
		reviewer:  d.Reviewer,
		notifier:  d.Notifier,
		recorder:  d.Recorder,
		opts:      opts,
		shares:    make(map[string]model.ShareOption, len(opts.Shares)),
		exchanges: make(map[string]model.ExchangeOption, len(opts.Exchanges)),
		shown:     make(map[model.Activity]model.Offer),
		inFlight:  make(map[model.Activity]bool),
	}
	for _, s := range opts.Shares {
		a.shares[s.ID] = s
	}
	for _, e := range opts.Exchanges {
		a.exchanges[e.ID] = e
	}

	a.ledger = ledger.New(d.Store)
	a.gate = gate.New(d.Store, d.Clock, d.Location, opts.OfferCooldown)
	a.claims = claims.NewRegistry(d.Store, a.ledger)

	var err error
	if a.spin, err = games.NewLuckySpin(opts.Spin, a.gate, a.ledger, d.Rand); err != nil {
		return nil, err
	}
	if a.rush, err = games.NewDiamondRush(opts.Rush, a.gate, a.ledger, d.Rand); err != nil {
		return nil, err
	}
	a.session = session.NewManager(d.Store, d.Identity, a.resetAfterLogout)
	return a, nil
}

// Balance returns the current diamond balance.
func (a *Arena) Balance() int64 { return a.ledger.Balance() }

// Today returns the gate's current calendar day string.
func (a *Arena) Today() string { return a.gate.Today() }

// Tick advances running games to the current time.
func (a *Arena) Tick(ctx context.Context) {
	a.advance(ctx)
}

func (a *Arena) advance(ctx context.Context) {
	now := a.clock.Now()
	if st, settled := a.spin.Advance(now); settled {
		a.onSpinSettled(ctx, st)
	}
	if st, ended := a.rush.Advance(now); ended {
		a.onRushEnded(ctx, st)
	}
}

func (a *Arena) resetAfterLogout() {
	a.ledger.Reload()
	a.gate.Reset()
	a.claims.Reset()
	a.spin.Reset()
	a.rush.Reset()

	a.mu.Lock()
	a.shown = make(map[model.Activity]model.Offer)
	a.inFlight = make(map[model.Activity]bool)
	a.mu.Unlock()
}

func (a *Arena) username() string {
	id, ok := a.session.Current()
	if !ok {
		return ""
	}
	return id.Username
}

func (a *Arena) noSession() Result {
	return Result{
		Status:  StatusNoSession,
		Balance: a.ledger.Balance(),
		Toast:   &model.Toast{Title: "Login Required", Message: "Log in with your Roblox username to play.", Variant: model.ToastWarning},
	}
}

func (a *Arena) hasSession() bool {
	_, ok := a.session.Current()
	return ok
}

// result builds a Result and pushes its toast to the notifier.
func (a *Arena) result(ctx context.Context, status Status, t *model.Toast) Result {
	if t != nil {
		a.notify(ctx, *t)
	}
	return Result{Status: status, Balance: a.ledger.Balance(), Toast: t}
}

func (a *Arena) notify(ctx context.Context, t model.Toast) {
	if err := a.notifier.Notify(ctx, t); err != nil {
		log.Errorf("arena: notify %q: %v", t.Title, err)
	}
}

func (a *Arena) record(source string, amount int64) {
	if err := a.recorder.RecordReward(&recorder.RewardEvent{
		Username:     a.username(),
		Source:       source,
		Amount:       amount,
		BalanceAfter: a.ledger.Balance(),
		Timestamp:    a.clock.Now(),
	}); err != nil {
		log.Errorf("arena: record %s reward: %v", source, err)
	}
}

func toast(variant model.ToastVariant, title, format string, args ...any) *model.Toast {
	return &model.Toast{Title: title, Message: fmt.Sprintf(format, args...), Variant: variant}
}
