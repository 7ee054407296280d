package claims

import (
	"context"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// Proof describes an uploaded artifact (screenshot or video) backing a claim.
type Proof struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Reviewer decides whether a proof is acceptable. Review blocks until a
// decision or ctx is done.
type Reviewer interface {
	Review(ctx context.Context, claimID string, proof Proof) (bool, error)
}

// DelayReviewer approves any image or video after a fixed delay. It stands
// in for a manual moderation step.
type DelayReviewer struct {
	Clock clockwork.Clock
	Delay time.Duration
}

func (d DelayReviewer) Review(ctx context.Context, claimID string, proof Proof) (bool, error) {
	ct := strings.ToLower(proof.ContentType)
	if proof.Size <= 0 || !(strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/")) {
		return false, nil
	}
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-d.Clock.After(d.Delay):
		return true, nil
	}
}

// ProofResult is the outcome of SubmitProof.
type ProofResult int

const (
	ProofApproved ProofResult = iota
	ProofRejected
	ProofAlreadyClaimed
	ProofInReview
	ProofDiscarded
)

func (p ProofResult) String() string {
	switch p {
	case ProofApproved:
		return "approved"
	case ProofRejected:
		return "rejected"
	case ProofAlreadyClaimed:
		return "already_claimed"
	case ProofInReview:
		return "in_review"
	case ProofDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// SubmitProof reviews proof and, on approval, claims id. Abandoning ctx
// before the claim is applied leaves no trace; a second submission for the
// same id while one is under review is refused. A review that outlives a
// Reset is discarded without crediting.
func (r *Registry) SubmitProof(ctx context.Context, reviewer Reviewer, id string, reward int64, proof Proof) (ProofResult, error) {
	r.mu.Lock()
	if contains(r.load(), id) {
		r.mu.Unlock()
		return ProofAlreadyClaimed, nil
	}
	if r.reviewing[id] {
		r.mu.Unlock()
		return ProofInReview, nil
	}
	r.reviewing[id] = true
	gen := r.gen
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		if r.gen == gen {
			delete(r.reviewing, id)
		}
		r.mu.Unlock()
	}()

	approved, err := reviewer.Review(ctx, id, proof)
	if err != nil {
		log.Warnf("claims: review of %s abandoned: %v", id, err)
		return ProofRejected, err
	}
	if !approved {
		return ProofRejected, nil
	}
	if err := ctx.Err(); err != nil {
		return ProofRejected, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		log.WithField("claim", id).Warn("claims: review finished after reset, discarded")
		return ProofDiscarded, nil
	}
	if !r.claimLocked(id, reward) {
		return ProofAlreadyClaimed, nil
	}
	return ProofApproved, nil
}

// Reset voids in-flight reviews after a full storage wipe.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviewing = make(map[string]bool)
	r.gen++
}
