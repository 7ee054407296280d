package recorder

import (
	"time"

	"DiamondQuest/internal/model"
)

// RewardEvent records one balance change.
type RewardEvent struct {
	ID           string
	Username     string
	Source       string // activity key, "share:<platform>" or "exchange:<option>"
	Amount       int64  // negative for debits
	BalanceAfter int64
	Timestamp    time.Time
}

// Recorder keeps a write-only audit history of rewards and exchanges.
type Recorder interface {
	RecordReward(evt *RewardEvent) error
	RecordExchange(rec *model.ExchangeRecord) error
	Close() error
}
