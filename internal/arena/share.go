package arena

import (
	"context"
	"fmt"
	"sort"

	"DiamondQuest/internal/claims"
	"DiamondQuest/internal/model"
	"DiamondQuest/internal/notifier"
)

// ShareResult carries the share link to open along with the outcome.
type ShareResult struct {
	Result
	ShareURL string `json:"shareUrl,omitempty"`
}

// ShareOptions lists the share platforms with their claimed flag.
func (a *Arena) ShareOptions() []ShareOptionView {
	claimed := make(map[string]bool)
	for _, id := range a.claims.Claimed() {
		claimed[id] = true
	}
	out := make([]ShareOptionView, 0, len(a.opts.Shares))
	for _, s := range a.opts.Shares {
		out = append(out, ShareOptionView{ShareOption: s, Claimed: claimed[s.ID]})
	}
	return out
}

// ShareOptionView is a share platform as shown to the user.
type ShareOptionView struct {
	model.ShareOption
	Claimed bool `json:"claimed"`
}

// Share claims the reward of a platform that needs no proof.
func (a *Arena) Share(ctx context.Context, platform string) (ShareResult, error) {
	opt, ok := a.shares[platform]
	if !ok {
		return ShareResult{}, fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}
	if !a.hasSession() {
		return ShareResult{Result: a.noSession()}, nil
	}
	a.advance(ctx)

	if opt.RequiresProof {
		if a.claims.HasClaimed(opt.ID) {
			return ShareResult{Result: a.alreadyClaimed(ctx, opt)}, nil
		}
		return ShareResult{Result: a.result(ctx, StatusProofRequired,
			toast(model.ToastInfo, "Proof Required", "Upload a screenshot or video of your %s post.", opt.Name))}, nil
	}
	if !a.claims.Claim(opt.ID, opt.Reward) {
		return ShareResult{Result: a.alreadyClaimed(ctx, opt)}, nil
	}
	a.record("share:"+opt.ID, opt.Reward)
	return ShareResult{
		Result: a.result(ctx, StatusOK,
			toast(model.ToastSuccess, "Reward Claimed!", "+%s for sharing on %s!", notifier.Diamonds(opt.Reward), opt.Name)),
		ShareURL: opt.ShareURL,
	}, nil
}

// SubmitProof reviews an uploaded proof for a proof platform and grants its
// reward on approval. Abandoning ctx during review changes nothing.
func (a *Arena) SubmitProof(ctx context.Context, platform string, proof claims.Proof) (Result, error) {
	opt, ok := a.shares[platform]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}
	if !opt.RequiresProof {
		return Result{}, fmt.Errorf("%w: %s", ErrNoProofRequired, platform)
	}
	if !a.hasSession() {
		return a.noSession(), nil
	}
	a.advance(ctx)

	if a.claims.HasClaimed(opt.ID) {
		return a.alreadyClaimed(ctx, opt), nil
	}
	a.notify(ctx, *toast(model.ToastInfo, "Uploading Proof", "Reviewing your video/screenshot..."))

	res, err := a.claims.SubmitProof(ctx, a.reviewer, opt.ID, opt.Reward, proof)
	if err != nil {
		return Result{Status: StatusRejected, Balance: a.ledger.Balance()}, err
	}
	switch res {
	case claims.ProofApproved:
		a.record("share:"+opt.ID, opt.Reward)
		return a.result(ctx, StatusOK,
			toast(model.ToastSuccess, "Proof Approved!", "+%s for %s video!", notifier.Diamonds(opt.Reward), opt.Name)), nil
	case claims.ProofAlreadyClaimed:
		return a.alreadyClaimed(ctx, opt), nil
	case claims.ProofInReview:
		return a.result(ctx, StatusBusy, nil), nil
	case claims.ProofDiscarded:
		return Result{Status: StatusRejected, Balance: a.ledger.Balance()}, nil
	default:
		return a.result(ctx, StatusRejected,
			toast(model.ToastDestructive, "Proof Rejected", "Upload a screenshot or video of your %s post.", opt.Name)), nil
	}
}

func (a *Arena) alreadyClaimed(ctx context.Context, opt model.ShareOption) Result {
	return a.result(ctx, StatusAlreadyClaimed,
		toast(model.ToastWarning, "Already Claimed", "%s reward already claimed!", opt.Name))
}

// Claimed returns the claimed share platforms in sorted order.
func (a *Arena) Claimed() []string {
	ids := a.claims.Claimed()
	sort.Strings(ids)
	return ids
}
