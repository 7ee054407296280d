package arena

import (
	"context"
	"encoding/json"
	"fmt"

	"DiamondQuest/internal/model"
	"DiamondQuest/internal/notifier"
	"DiamondQuest/internal/storage"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ExchangeResult carries the exchange request on success.
type ExchangeResult struct {
	Result
	Record *model.ExchangeRecord `json:"record,omitempty"`
}

// ExchangeOptions lists the exchange catalog.
func (a *Arena) ExchangeOptions() []model.ExchangeOption {
	return append([]model.ExchangeOption(nil), a.opts.Exchanges...)
}

// Exchange spends diamonds on a reward. The debit and the lastExchange
// record are written together; insufficient funds writes nothing.
func (a *Arena) Exchange(ctx context.Context, optionID string, rateIndex int) (ExchangeResult, error) {
	opt, ok := a.exchanges[optionID]
	if !ok {
		return ExchangeResult{}, fmt.Errorf("%w: %s", ErrUnknownOption, optionID)
	}
	if rateIndex < 0 || rateIndex >= len(opt.Rates) {
		return ExchangeResult{}, fmt.Errorf("%w: %s has no rate %d", ErrUnknownOption, optionID, rateIndex)
	}
	user, ok := a.session.Current()
	if !ok {
		return ExchangeResult{Result: a.noSession()}, nil
	}
	a.advance(ctx)

	rate := opt.Rates[rateIndex]
	rec := &model.ExchangeRecord{
		ID:        uuid.NewString(),
		Username:  user.Username,
		Game:      opt.Name,
		Reward:    rate.Reward,
		Diamonds:  rate.Diamonds,
		Timestamp: a.clock.Now(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return ExchangeResult{}, fmt.Errorf("encode exchange record: %w", err)
	}

	a.mu.Lock()
	debited := a.ledger.DebitWith(rate.Diamonds, map[string]string{storage.KeyLastExchange: string(data)})
	a.mu.Unlock()

	if !debited {
		return ExchangeResult{Result: a.result(ctx, StatusInsufficientFunds,
			toast(model.ToastDestructive, "Not Enough Diamonds", "You need %s!", notifier.Diamonds(rate.Diamonds)))}, nil
	}

	if err := a.recorder.RecordExchange(rec); err != nil {
		log.Errorf("arena: record exchange: %v", err)
	}
	a.record("exchange:"+opt.ID, -rate.Diamonds)
	return ExchangeResult{
		Result: a.result(ctx, StatusOK,
			toast(model.ToastSuccess, "SUCCESS!", "%s processing for %s...", rate.Reward, user.Username)),
		Record: rec,
	}, nil
}
