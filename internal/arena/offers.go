package arena

import (
	"context"
	"fmt"

	"DiamondQuest/internal/collector"
	"DiamondQuest/internal/gate"
	"DiamondQuest/internal/model"

	log "github.com/sirupsen/logrus"
)

// OffersResult is the browsable offer list.
type OffersResult struct {
	Result
	Offers []model.Offer `json:"offers"`
}

// OfferResult is the outcome of an unlock-offer action.
type OfferResult struct {
	Result
	Offer  *model.Offer       `json:"offer,omitempty"`
	Prompt model.PromptStatus `json:"prompt"`
	URL    string             `json:"url,omitempty"`
}

// Offers returns the offers page listing. A failed feed is an empty list.
func (a *Arena) Offers(ctx context.Context, req collector.OfferRequest) OffersResult {
	if !a.hasSession() {
		return OffersResult{Result: a.noSession(), Offers: []model.Offer{}}
	}
	offers := a.offers.Browse(ctx, req)
	status := StatusOK
	if len(offers) == 0 {
		status = StatusNoOffers
	}
	return OffersResult{Result: Result{Status: status, Balance: a.ledger.Balance()}, Offers: offers}
}

func promptActivity(activity model.Activity) error {
	if activity != model.ActivityLuckySpin && activity != model.ActivityDiamondRush {
		return fmt.Errorf("%w: no offer prompt for %q", gate.ErrUnknownActivity, activity)
	}
	return nil
}

// RequestOffer loads the top offer that would unlock another play of a game
// already played today.
func (a *Arena) RequestOffer(ctx context.Context, activity model.Activity, req collector.OfferRequest) (OfferResult, error) {
	if err := promptActivity(activity); err != nil {
		return OfferResult{}, err
	}
	if !a.hasSession() {
		return OfferResult{Result: a.noSession()}, nil
	}
	a.advance(ctx)

	prompt := a.gate.PromptStatus(activity)
	out := OfferResult{Prompt: prompt}
	if a.gate.IsAvailable(activity) {
		out.Result = a.result(ctx, StatusGateOpen, nil)
		return out, nil
	}
	if prompt == model.PromptCompleted {
		out.Result = a.result(ctx, StatusAlreadyClaimed,
			toast(model.ToastInfo, "Offer Completed", "Waiting for the offer to be verified."))
		return out, nil
	}

	a.mu.Lock()
	if a.inFlight[activity] {
		a.mu.Unlock()
		out.Result = a.result(ctx, StatusBusy, nil)
		return out, nil
	}
	if activity == model.ActivityDiamondRush && !a.gate.BeginOfferLoad(activity) {
		a.mu.Unlock()
		out.Result = a.result(ctx, StatusCooldown, toast(model.ToastInfo, "Please wait...", "Offers can be reloaded shortly."))
		return out, nil
	}
	a.inFlight[activity] = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		delete(a.inFlight, activity)
		a.mu.Unlock()
	}()

	offer, ok, err := a.offers.Top(ctx, req)
	switch {
	case err != nil:
		if ctx.Err() != nil {
			return OfferResult{Prompt: prompt}, ctx.Err()
		}
		log.Warnf("arena: load %s offer: %v", activity, err)
		out.Prompt = model.PromptError
		a.setPrompt(activity, out.Prompt)
		out.Result = a.result(ctx, StatusNoOffers,
			toast(model.ToastWarning, "No Offers Available", "Try again later."))
	case !ok:
		out.Prompt = model.PromptNoOffers
		a.setPrompt(activity, out.Prompt)
		out.Result = a.result(ctx, StatusNoOffers,
			toast(model.ToastWarning, "No Offers Available", "Try again later."))
	default:
		out.Prompt = model.PromptShown
		a.setPrompt(activity, out.Prompt)
		a.mu.Lock()
		a.shown[activity] = offer
		a.mu.Unlock()
		out.Offer = &offer
		out.Result = a.result(ctx, StatusOK, nil)
	}
	return out, nil
}

// CompleteOffer marks the shown offer as taken and returns the URL to open.
// The play is unlocked only once VerifyOffer is called.
func (a *Arena) CompleteOffer(ctx context.Context, activity model.Activity) (OfferResult, error) {
	if err := promptActivity(activity); err != nil {
		return OfferResult{}, err
	}
	if !a.hasSession() {
		return OfferResult{Result: a.noSession()}, nil
	}

	a.mu.Lock()
	offer, ok := a.shown[activity]
	delete(a.shown, activity)
	a.mu.Unlock()
	if !ok {
		return OfferResult{Result: a.result(ctx, StatusNotFound, nil), Prompt: a.gate.PromptStatus(activity)}, nil
	}

	a.setPrompt(activity, model.PromptCompleted)
	return OfferResult{
		Result: a.result(ctx, StatusOK,
			toast(model.ToastInfo, "Offer Opened!", "Complete %q to earn your reward!", offer.Title)),
		Offer:  &offer,
		Prompt: model.PromptCompleted,
		URL:    offer.URL,
	}, nil
}

// VerifyOffer is the verified-completion callback: it unlocks the game for
// another play today. Only an offer taken through CompleteOffer can be
// verified, and only once; anything else returns StatusNotFound.
func (a *Arena) VerifyOffer(ctx context.Context, activity model.Activity) (Result, error) {
	if err := promptActivity(activity); err != nil {
		return Result{}, err
	}
	if !a.hasSession() {
		return a.noSession(), nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gate.PromptStatus(activity) != model.PromptCompleted {
		log.WithField("activity", activity).Warn("offer verification without a completed offer ignored")
		return Result{Status: StatusNotFound, Balance: a.ledger.Balance()}, nil
	}
	if err := a.gate.Unlock(activity); err != nil {
		return Result{}, err
	}
	log.WithField("activity", activity).Info("offer verified, play unlocked")
	return a.result(ctx, StatusOK, toast(model.ToastSuccess, "Offer Verified!", "You can play again now!")), nil
}

func (a *Arena) setPrompt(activity model.Activity, s model.PromptStatus) {
	if err := a.gate.SetPromptStatus(activity, s); err != nil {
		log.Errorf("arena: set %s prompt: %v", activity, err)
	}
}
