package games

import (
	"fmt"
	"sync"
	"time"

	"DiamondQuest/internal/model"

	log "github.com/sirupsen/logrus"
)

// DefaultPrizes is the wheel's reward table, in segment order.
var DefaultPrizes = []int64{20, 49, 37, 19, 100, 99, 1}

// SpinConfig configures the wheel.
type SpinConfig struct {
	Prizes    []int64
	Duration  time.Duration
	FullTurns int
}

// DefaultSpinConfig matches the wheel the arena ships with.
func DefaultSpinConfig() SpinConfig {
	return SpinConfig{
		Prizes:    DefaultPrizes,
		Duration:  4 * time.Second,
		FullTurns: 5,
	}
}

// SpinPhase is the wheel's state.
type SpinPhase int

const (
	SpinIdle SpinPhase = iota
	Spinning
	SpinSettled
)

func (p SpinPhase) String() string {
	switch p {
	case Spinning:
		return "spinning"
	case SpinSettled:
		return "settled"
	default:
		return "idle"
	}
}

func (p SpinPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// SpinState is a snapshot of the wheel.
type SpinState struct {
	Phase      SpinPhase `json:"phase"`
	PrizeIndex int       `json:"prizeIndex"`
	Prize      int64     `json:"prize"`
	Rotation   float64   `json:"rotation"`
	SettlesAt  time.Time `json:"settlesAt,omitempty"`
	TotalWon   int64     `json:"totalWon"`
}

// TargetRotation returns the wheel rotation in degrees that brings the
// middle of segment idx under the pointer after fullTurns whole turns.
func TargetRotation(idx, segments, fullTurns int) float64 {
	seg := 360.0 / float64(segments)
	return 360*float64(fullTurns) + (360 - (float64(idx)*seg + seg/2))
}

// SegmentAt inverts TargetRotation: the segment under the pointer for a
// given rotation.
func SegmentAt(rotation float64, segments int) int {
	seg := 360.0 / float64(segments)
	offset := 360 - mod360(rotation)
	return int(mod360(offset)/seg) % segments
}

func mod360(deg float64) float64 {
	for deg >= 360 {
		deg -= 360
	}
	for deg < 0 {
		deg += 360
	}
	return deg
}

// LuckySpin is the once-a-day prize wheel. The prize is drawn when the spin
// starts and credited exactly once when it settles.
type LuckySpin struct {
	mu     sync.Mutex
	cfg    SpinConfig
	gate   DailyGate
	ledger Crediter
	rng    Rand
	state  SpinState
}

func NewLuckySpin(cfg SpinConfig, gate DailyGate, ledger Crediter, rng Rand) (*LuckySpin, error) {
	if len(cfg.Prizes) == 0 {
		return nil, fmt.Errorf("lucky spin: empty prize table")
	}
	for i, p := range cfg.Prizes {
		if p <= 0 {
			return nil, fmt.Errorf("lucky spin: prize %d must be positive, got %d", i, p)
		}
	}
	return &LuckySpin{cfg: cfg, gate: gate, ledger: ledger, rng: rng}, nil
}

// Prizes returns a copy of the prize table.
func (s *LuckySpin) Prizes() []int64 {
	return append([]int64(nil), s.cfg.Prizes...)
}

// Start spins the wheel. The gate is consumed here, before any reward.
func (s *LuckySpin) Start(now time.Time) (SpinState, StartResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase == Spinning {
		return s.state, AlreadyRunning, nil
	}
	if !s.gate.IsAvailable(model.ActivityLuckySpin) {
		return s.state, Unavailable, nil
	}
	if err := s.gate.MarkConsumed(model.ActivityLuckySpin); err != nil {
		return s.state, Unavailable, fmt.Errorf("consume lucky spin: %w", err)
	}

	idx := s.rng.IntN(len(s.cfg.Prizes))
	s.state = SpinState{
		Phase:      Spinning,
		PrizeIndex: idx,
		Prize:      s.cfg.Prizes[idx],
		Rotation:   TargetRotation(idx, len(s.cfg.Prizes), s.cfg.FullTurns),
		SettlesAt:  now.Add(s.cfg.Duration),
		TotalWon:   s.state.TotalWon,
	}
	log.WithFields(log.Fields{"index": idx, "prize": s.state.Prize}).Info("lucky spin started")
	return s.state, Started, nil
}

// Advance settles a spin whose animation has finished. settled is true only
// for the call that performed the transition.
func (s *LuckySpin) Advance(now time.Time) (state SpinState, settled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != Spinning || now.Before(s.state.SettlesAt) {
		return s.state, false
	}
	s.state.Phase = SpinSettled
	s.state.TotalWon += s.state.Prize
	s.ledger.Credit(s.state.Prize)
	log.WithField("prize", s.state.Prize).Info("lucky spin settled")
	return s.state, true
}

func (s *LuckySpin) State() SpinState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reset drops the wheel back to idle without crediting.
func (s *LuckySpin) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SpinState{}
}
