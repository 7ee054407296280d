package arena

import (
	"context"

	"DiamondQuest/internal/games"
	"DiamondQuest/internal/model"
	"DiamondQuest/internal/notifier"

	log "github.com/sirupsen/logrus"
)

// SpinResult carries the wheel state along with the action outcome.
type SpinResult struct {
	Result
	Spin   games.SpinState `json:"spin"`
	Prizes []int64         `json:"prizes"`
}

// RushResult carries the Diamond Rush state along with the action outcome.
type RushResult struct {
	Result
	Rush games.RushState `json:"rush"`
}

// StartSpin spins the Lucky Spin wheel. The prize is credited when the spin
// settles, on a later action or tick.
func (a *Arena) StartSpin(ctx context.Context) SpinResult {
	if !a.hasSession() {
		return SpinResult{Result: a.noSession(), Spin: a.spin.State(), Prizes: a.spin.Prizes()}
	}
	a.advance(ctx)

	st, res, err := a.spin.Start(a.clock.Now())
	out := SpinResult{Spin: st, Prizes: a.spin.Prizes()}
	switch {
	case err != nil:
		log.Errorf("arena: start spin: %v", err)
		out.Result = a.result(ctx, StatusError, nil)
	case res == games.AlreadyRunning:
		out.Result = a.result(ctx, StatusBusy, nil)
	case res == games.Unavailable:
		out.Result = a.result(ctx, StatusGateClosed,
			toast(model.ToastWarning, "No Spins Left", "Come back tomorrow or complete an offer to spin again."))
	default:
		out.Result = a.result(ctx, StatusOK, nil)
	}
	return out
}

// SpinState reports the wheel, settling a finished spin first.
func (a *Arena) SpinState(ctx context.Context) SpinResult {
	if !a.hasSession() {
		return SpinResult{Result: a.noSession(), Spin: a.spin.State(), Prizes: a.spin.Prizes()}
	}
	a.advance(ctx)
	return SpinResult{
		Result: Result{Status: StatusOK, Balance: a.ledger.Balance()},
		Spin:   a.spin.State(),
		Prizes: a.spin.Prizes(),
	}
}

func (a *Arena) onSpinSettled(ctx context.Context, st games.SpinState) {
	a.record(string(model.ActivityLuckySpin), st.Prize)
	a.notify(ctx, *toast(model.ToastSuccess, "Congratulations!", "You won %s!", notifier.Diamonds(st.Prize)))
}

// StartRush begins a Diamond Rush session.
func (a *Arena) StartRush(ctx context.Context) RushResult {
	if !a.hasSession() {
		return RushResult{Result: a.noSession(), Rush: a.rush.State(a.clock.Now())}
	}
	a.advance(ctx)

	st, res, err := a.rush.Start(a.clock.Now())
	out := RushResult{Rush: st}
	switch {
	case err != nil:
		log.Errorf("arena: start rush: %v", err)
		out.Result = a.result(ctx, StatusError, nil)
	case res == games.AlreadyRunning:
		out.Result = a.result(ctx, StatusBusy, nil)
	case res == games.Unavailable:
		out.Result = a.result(ctx, StatusGateClosed,
			toast(model.ToastWarning, "Already Played Today", "Come back tomorrow or complete an offer to play again."))
	default:
		out.Result = a.result(ctx, StatusOK, nil)
	}
	return out
}

// CollectToken picks up a Diamond Rush token.
func (a *Arena) CollectToken(ctx context.Context, id int) RushResult {
	if !a.hasSession() {
		return RushResult{Result: a.noSession(), Rush: a.rush.State(a.clock.Now())}
	}
	a.advance(ctx)

	st, res, ended := a.rush.Collect(a.clock.Now(), id)
	if ended {
		a.onRushEnded(ctx, st)
	}
	status := StatusOK
	switch res {
	case games.NotRunning:
		status = StatusNotRunning
	case games.TokenGone:
		status = StatusNotFound
	}
	return RushResult{Result: Result{Status: status, Balance: a.ledger.Balance()}, Rush: st}
}

// RushState reports the session, spawning and expiring tokens first.
func (a *Arena) RushState(ctx context.Context) RushResult {
	if !a.hasSession() {
		return RushResult{Result: a.noSession(), Rush: a.rush.State(a.clock.Now())}
	}
	a.advance(ctx)
	return RushResult{
		Result: Result{Status: StatusOK, Balance: a.ledger.Balance()},
		Rush:   a.rush.State(a.clock.Now()),
	}
}

func (a *Arena) onRushEnded(ctx context.Context, st games.RushState) {
	if st.Credited > 0 {
		a.record(string(model.ActivityDiamondRush), st.Credited)
	}
	a.notify(ctx, *toast(model.ToastSuccess, "Time's Up!", "You collected %s!", notifier.Diamonds(st.Credited)))
}
