package claims

import (
	"context"
	"testing"
	"time"

	"DiamondQuest/internal/ledger"
	"DiamondQuest/internal/storage"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReviewer struct {
	mock.Mock
}

func (m *MockReviewer) Review(ctx context.Context, claimID string, proof Proof) (bool, error) {
	args := m.Called(ctx, claimID, proof)
	return args.Bool(0), args.Error(1)
}

func newTestRegistry() (*Registry, *ledger.Ledger, *storage.MemoryStore) {
	store := storage.NewMemoryStore()
	l := ledger.New(store)
	return NewRegistry(store, l), l, store
}

func TestClaim_Idempotent(t *testing.T) {
	r, l, _ := newTestRegistry()

	assert.True(t, r.Claim("facebook", 10))
	assert.False(t, r.Claim("facebook", 10))

	assert.Equal(t, int64(10), l.Balance())
	assert.True(t, r.HasClaimed("facebook"))
	assert.False(t, r.HasClaimed("twitter"))
}

func TestClaim_PersistsSetWithCredit(t *testing.T) {
	r, _, store := newTestRegistry()
	r.Claim("facebook", 10)
	r.Claim("tiktok", 10)

	raw, _, _ := store.Get(storage.KeyClaimedShares)
	assert.JSONEq(t, `["facebook","tiktok"]`, raw)
	bal, _, _ := store.Get(storage.KeyBalance)
	assert.Equal(t, "20", bal)

	// A fresh registry over the same store still knows the claims.
	again := NewRegistry(store, ledger.New(store))
	assert.Equal(t, []string{"facebook", "tiktok"}, again.Claimed())
	assert.False(t, again.Claim("tiktok", 10))
}

func TestClaim_ZeroReward(t *testing.T) {
	r, l, _ := newTestRegistry()
	assert.True(t, r.Claim("promo", 0))
	assert.True(t, r.HasClaimed("promo"))
	assert.Equal(t, int64(0), l.Balance())
}

func TestClaim_CorruptSetReadsEmpty(t *testing.T) {
	r, _, store := newTestRegistry()
	require.NoError(t, store.Set(storage.KeyClaimedShares, "{oops"))
	assert.False(t, r.HasClaimed("facebook"))
	assert.Empty(t, r.Claimed())
}

func TestSubmitProof_Approved(t *testing.T) {
	r, l, _ := newTestRegistry()
	ctx := context.Background()
	proof := Proof{Filename: "story.mp4", ContentType: "video/mp4", Size: 2048}

	rev := new(MockReviewer)
	rev.On("Review", ctx, "instagram", proof).Return(true, nil).Once()

	res, err := r.SubmitProof(ctx, rev, "instagram", 10, proof)
	require.NoError(t, err)
	assert.Equal(t, ProofApproved, res)
	assert.Equal(t, int64(10), l.Balance())

	res, err = r.SubmitProof(ctx, rev, "instagram", 10, proof)
	require.NoError(t, err)
	assert.Equal(t, ProofAlreadyClaimed, res)
	assert.Equal(t, int64(10), l.Balance())
	rev.AssertExpectations(t)
}

func TestSubmitProof_RejectedLeavesNoState(t *testing.T) {
	r, l, _ := newTestRegistry()
	ctx := context.Background()

	rev := new(MockReviewer)
	rev.On("Review", ctx, "youtube", mock.Anything).Return(false, nil)

	res, err := r.SubmitProof(ctx, rev, "youtube", 10, Proof{})
	require.NoError(t, err)
	assert.Equal(t, ProofRejected, res)
	assert.False(t, r.HasClaimed("youtube"))
	assert.Equal(t, int64(0), l.Balance())
}

func TestSubmitProof_AbandonedLeavesNoState(t *testing.T) {
	r, l, _ := newTestRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rev := new(MockReviewer)
	rev.On("Review", ctx, "tiktok", mock.Anything).Return(false, context.Canceled)

	res, err := r.SubmitProof(ctx, rev, "tiktok", 10, Proof{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ProofRejected, res)
	assert.False(t, r.HasClaimed("tiktok"))
	assert.Equal(t, int64(0), l.Balance())
}

func TestSubmitProof_SecondSubmissionWhileInReview(t *testing.T) {
	r, l, _ := newTestRegistry()
	ctx := context.Background()
	release := make(chan struct{})
	started := make(chan struct{})

	rev := new(MockReviewer)
	rev.On("Review", ctx, "instagram", mock.Anything).Return(true, nil).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Once()

	done := make(chan ProofResult)
	go func() {
		res, _ := r.SubmitProof(ctx, rev, "instagram", 10, Proof{})
		done <- res
	}()
	<-started

	res, err := r.SubmitProof(ctx, rev, "instagram", 10, Proof{})
	require.NoError(t, err)
	assert.Equal(t, ProofInReview, res)

	close(release)
	assert.Equal(t, ProofApproved, <-done)
	assert.Equal(t, int64(10), l.Balance())
	rev.AssertExpectations(t)
}

func TestSubmitProof_ResetDuringReviewDiscards(t *testing.T) {
	r, l, store := newTestRegistry()
	ctx := context.Background()
	release := make(chan struct{})
	started := make(chan struct{})

	rev := new(MockReviewer)
	rev.On("Review", ctx, "instagram", mock.Anything).Return(true, nil).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Once()

	done := make(chan ProofResult)
	go func() {
		res, _ := r.SubmitProof(ctx, rev, "instagram", 10, Proof{})
		done <- res
	}()
	<-started

	require.NoError(t, store.Clear())
	l.Reload()
	r.Reset()
	close(release)

	assert.Equal(t, ProofDiscarded, <-done)
	assert.Equal(t, int64(0), l.Balance())
	assert.Empty(t, r.Claimed())
	_, ok, _ := store.Get(storage.KeyClaimedShares)
	assert.False(t, ok)
	rev.AssertExpectations(t)
}

func TestDelayReviewer(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rev := DelayReviewer{Clock: clock, Delay: 2 * time.Second}
	ctx := context.Background()

	ok, err := rev.Review(ctx, "instagram", Proof{Filename: "notes.txt", ContentType: "text/plain", Size: 10})
	require.NoError(t, err)
	assert.False(t, ok)

	result := make(chan bool)
	go func() {
		ok, _ := rev.Review(ctx, "instagram", Proof{Filename: "shot.png", ContentType: "image/png", Size: 10})
		result <- ok
	}()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(2 * time.Second)
	assert.True(t, <-result)
}

func TestDelayReviewer_Cancelled(t *testing.T) {
	rev := DelayReviewer{Clock: clockwork.NewFakeClock(), Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := rev.Review(ctx, "tiktok", Proof{ContentType: "video/mp4", Size: 1})
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}
