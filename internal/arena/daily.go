package arena

import (
	"context"

	"DiamondQuest/internal/model"
	"DiamondQuest/internal/notifier"

	log "github.com/sirupsen/logrus"
)

// ClaimDailyChest grants the daily chest once per calendar day. The gate date
// and the new balance are written together.
func (a *Arena) ClaimDailyChest(ctx context.Context) Result {
	if !a.hasSession() {
		return a.noSession()
	}
	a.advance(ctx)

	a.mu.Lock()
	if !a.gate.IsAvailable(model.ActivityDailyChest) {
		a.mu.Unlock()
		return a.result(ctx, StatusGateClosed,
			toast(model.ToastWarning, "Already Claimed", "Come back tomorrow for another chest!"))
	}
	entries, err := a.gate.ConsumeEntries(model.ActivityDailyChest)
	if err != nil {
		a.mu.Unlock()
		log.Errorf("arena: daily chest: %v", err)
		return a.result(ctx, StatusError, nil)
	}
	a.ledger.CreditWith(a.opts.DailyChestReward, entries)
	a.mu.Unlock()

	a.record(string(model.ActivityDailyChest), a.opts.DailyChestReward)
	return a.result(ctx, StatusOK,
		toast(model.ToastSuccess, "Daily Reward Claimed!", "+%s earned!", notifier.Diamonds(a.opts.DailyChestReward)))
}
