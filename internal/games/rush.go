package games

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"DiamondQuest/internal/model"

	log "github.com/sirupsen/logrus"
)

// RushConfig configures a Diamond Rush session.
type RushConfig struct {
	Duration      time.Duration
	SpawnInterval time.Duration
	TokenLifetime time.Duration
	Cap           int
}

func DefaultRushConfig() RushConfig {
	return RushConfig{
		Duration:      25 * time.Second,
		SpawnInterval: 700 * time.Millisecond,
		TokenLifetime: 2 * time.Second,
		Cap:           100,
	}
}

// RushPhase is the session state.
type RushPhase int

const (
	RushIdle RushPhase = iota
	RushRunning
	RushEnded
)

func (p RushPhase) String() string {
	switch p {
	case RushRunning:
		return "running"
	case RushEnded:
		return "ended"
	default:
		return "idle"
	}
}

func (p RushPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Token is a collectible diamond on the play field. X and Y are percentages
// of the field.
type Token struct {
	ID        int       `json:"id"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RushState is a snapshot of the session.
type RushState struct {
	Phase     RushPhase     `json:"phase"`
	Collected int           `json:"collected"`
	Cap       int           `json:"cap"`
	Tokens    []Token       `json:"tokens"`
	EndsAt    time.Time     `json:"endsAt,omitempty"`
	TimeLeft  time.Duration `json:"timeLeft"`
	Credited  int64         `json:"credited"`
}

// CollectResult is the expected outcome of a collection attempt.
type CollectResult int

const (
	Collected CollectResult = iota
	NotRunning
	TokenGone
)

func (r CollectResult) String() string {
	switch r {
	case Collected:
		return "collected"
	case NotRunning:
		return "not-running"
	default:
		return "gone"
	}
}

// DiamondRush is the time-boxed collection game. Token i spawns at
// start + (i+1)*SpawnInterval and lives for TokenLifetime. The session ends
// when Duration elapses or Cap tokens are collected, crediting the count once.
type DiamondRush struct {
	mu     sync.Mutex
	cfg    RushConfig
	gate   DailyGate
	ledger Crediter
	rng    Rand

	phase     RushPhase
	startedAt time.Time
	endsAt    time.Time
	spawned   int
	live      map[int]Token
	collected int
	credited  int64
}

func NewDiamondRush(cfg RushConfig, gate DailyGate, ledger Crediter, rng Rand) (*DiamondRush, error) {
	if cfg.Duration <= 0 || cfg.SpawnInterval <= 0 || cfg.TokenLifetime <= 0 {
		return nil, fmt.Errorf("diamond rush: durations must be positive")
	}
	if cfg.Cap <= 0 {
		return nil, fmt.Errorf("diamond rush: cap must be positive, got %d", cfg.Cap)
	}
	return &DiamondRush{cfg: cfg, gate: gate, ledger: ledger, rng: rng, live: map[int]Token{}}, nil
}

// Start begins a session. The gate is consumed here, before any reward.
func (r *DiamondRush) Start(now time.Time) (RushState, StartResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase == RushRunning {
		return r.snapshot(now), AlreadyRunning, nil
	}
	if !r.gate.IsAvailable(model.ActivityDiamondRush) {
		return r.snapshot(now), Unavailable, nil
	}
	if err := r.gate.MarkConsumed(model.ActivityDiamondRush); err != nil {
		return r.snapshot(now), Unavailable, fmt.Errorf("consume diamond rush: %w", err)
	}

	r.phase = RushRunning
	r.startedAt = now
	r.endsAt = now.Add(r.cfg.Duration)
	r.spawned = 0
	r.live = map[int]Token{}
	r.collected = 0
	r.credited = 0
	log.WithField("endsAt", r.endsAt.Format(time.TimeOnly)).Info("diamond rush started")
	return r.snapshot(now), Started, nil
}

// Advance spawns and expires tokens up to now and ends the session when its
// time is up. ended is true only for the call that performed the transition.
func (r *DiamondRush) Advance(now time.Time) (state RushState, ended bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ended = r.advance(now)
	return r.snapshot(now), ended
}

// Collect picks up a live token.
func (r *DiamondRush) Collect(now time.Time, id int) (RushState, CollectResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ended := r.advance(now)
	if r.phase != RushRunning {
		return r.snapshot(now), NotRunning, ended
	}
	if _, ok := r.live[id]; !ok {
		return r.snapshot(now), TokenGone, ended
	}
	delete(r.live, id)
	r.collected++
	if r.collected >= r.cfg.Cap {
		r.end()
		ended = true
	}
	return r.snapshot(now), Collected, ended
}

func (r *DiamondRush) State(now time.Time) RushState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(now)
}

// Reset drops the session back to idle without crediting.
func (r *DiamondRush) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phase = RushIdle
	r.live = map[int]Token{}
	r.spawned = 0
	r.collected = 0
	r.credited = 0
}

// advance must be called with mu held.
func (r *DiamondRush) advance(now time.Time) bool {
	if r.phase != RushRunning {
		return false
	}
	horizon := now
	if horizon.After(r.endsAt) {
		horizon = r.endsAt
	}
	for {
		at := r.spawnTime(r.spawned)
		if at.After(horizon) || !at.Before(r.endsAt) {
			break
		}
		r.live[r.spawned] = Token{
			ID:        r.spawned,
			X:         r.rng.Float64() * 85,
			Y:         r.rng.Float64()*70 + 10,
			ExpiresAt: at.Add(r.cfg.TokenLifetime),
		}
		r.spawned++
	}
	for id, t := range r.live {
		if !now.Before(t.ExpiresAt) {
			delete(r.live, id)
		}
	}
	if !now.Before(r.endsAt) {
		r.end()
		return true
	}
	return false
}

// end must be called with mu held.
func (r *DiamondRush) end() {
	r.phase = RushEnded
	r.live = map[int]Token{}
	r.credited = int64(min(r.collected, r.cfg.Cap))
	if r.credited > 0 {
		r.ledger.Credit(r.credited)
	}
	log.WithFields(log.Fields{"collected": r.collected, "credited": r.credited}).Info("diamond rush ended")
}

func (r *DiamondRush) spawnTime(i int) time.Time {
	return r.startedAt.Add(time.Duration(i+1) * r.cfg.SpawnInterval)
}

// snapshot must be called with mu held.
func (r *DiamondRush) snapshot(now time.Time) RushState {
	st := RushState{
		Phase:     r.phase,
		Collected: r.collected,
		Cap:       r.cfg.Cap,
		Tokens:    make([]Token, 0, len(r.live)),
		Credited:  r.credited,
	}
	if r.phase == RushRunning {
		st.EndsAt = r.endsAt
		if left := r.endsAt.Sub(now); left > 0 {
			st.TimeLeft = left
		}
	}
	for _, t := range r.live {
		st.Tokens = append(st.Tokens, t)
	}
	sort.Slice(st.Tokens, func(i, j int) bool { return st.Tokens[i].ID < st.Tokens[j].ID })
	return st
}
