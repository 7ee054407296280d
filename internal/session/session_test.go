package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"DiamondQuest/internal/collector"
	"DiamondQuest/internal/ledger"
	"DiamondQuest/internal/model"
	"DiamondQuest/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func users(n int) []model.Identity {
	out := make([]model.Identity, n)
	for i := range out {
		out[i] = model.Identity{
			ID:          fmt.Sprint(100 + i),
			Username:    fmt.Sprintf("player%d", i),
			DisplayName: fmt.Sprintf("Player %d", i),
		}
	}
	return out
}

func TestLogin_ThreeMatchesLogsInFirst(t *testing.T) {
	store := storage.NewMemoryStore()
	fetcher := &collector.MockIdentityFetcher{
		Users:   users(3),
		Avatars: map[string]string{"100": "https://img/100.png"},
	}
	m := NewManager(store, fetcher)

	res, err := m.Login(context.Background(), "  player ")
	require.NoError(t, err)
	assert.Equal(t, LoggedIn, res.Status)
	assert.Equal(t, "100", res.Identity.ID)
	assert.Equal(t, "https://img/100.png", res.Identity.AvatarURL)
	assert.True(t, res.Identity.Verified)

	var stored model.Identity
	ok, err := storage.GetJSON(store, storage.KeySession, &stored)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, res.Identity, stored)
}

func TestLogin_FourMatchesOffersCandidates(t *testing.T) {
	store := storage.NewMemoryStore()
	m := NewManager(store, &collector.MockIdentityFetcher{Users: users(4)})

	res, err := m.Login(context.Background(), "player")
	require.NoError(t, err)
	assert.Equal(t, ChooseCandidate, res.Status)
	assert.Len(t, res.Candidates, 4)

	_, ok := m.Current()
	assert.False(t, ok, "no session until a candidate is chosen")

	id, err := m.Select("102")
	require.NoError(t, err)
	assert.Equal(t, "player2", id.Username)

	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "102", cur.ID)

	_, err = m.Select("101")
	assert.ErrorIs(t, err, ErrUnknownCandidate, "candidates are consumed by selection")
}

func TestLogin_NoMatchFallsBackUnverified(t *testing.T) {
	m := NewManager(storage.NewMemoryStore(), &collector.MockIdentityFetcher{})

	res, err := m.Login(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, LoggedIn, res.Status)
	assert.Equal(t, model.UnverifiedIdentity("ghost"), res.Identity)
	assert.False(t, res.Identity.Verified)
}

func TestLogin_LookupFailureFallsBackUnverified(t *testing.T) {
	m := NewManager(storage.NewMemoryStore(), &collector.MockIdentityFetcher{Err: errors.New("network down")})

	res, err := m.Login(context.Background(), "builder")
	require.NoError(t, err)
	assert.Equal(t, model.UnverifiedID, res.Identity.ID)
	assert.Equal(t, "builder", res.Identity.DisplayName)
	assert.Empty(t, res.Identity.AvatarURL)
}

func TestLogin_EmptyIdentifier(t *testing.T) {
	m := NewManager(storage.NewMemoryStore(), &collector.MockIdentityFetcher{})

	_, err := m.Login(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyIdentifier)
	_, ok := m.Current()
	assert.False(t, ok)
}

func TestNewManager_RestoresSession(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, storage.SetJSON(store, storage.KeySession, model.Identity{ID: "7", Username: "seven", Verified: true}))

	m := NewManager(store, &collector.MockIdentityFetcher{})
	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "seven", cur.Username)
}

func TestNewManager_CorruptSessionDiscarded(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(storage.KeySession, "{not json"))

	m := NewManager(store, &collector.MockIdentityFetcher{})
	_, ok := m.Current()
	assert.False(t, ok)

	_, found, err := store.Get(storage.KeySession)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLogout_ResetsEverything(t *testing.T) {
	store := storage.NewMemoryStore()
	l := ledger.New(store)
	m := NewManager(store, &collector.MockIdentityFetcher{Users: users(1)}, l.Reload)

	_, err := m.Login(context.Background(), "player")
	require.NoError(t, err)
	l.Credit(100)
	require.NoError(t, store.Set(storage.KeyDailyChest, "Fri Oct 16 2026"))
	require.NoError(t, store.Set(storage.KeyClaimedShares, `["twitter"]`))

	m.Logout()

	_, ok := m.Current()
	assert.False(t, ok)
	assert.Equal(t, int64(0), l.Balance())
	for _, key := range []string{storage.KeySession, storage.KeyDailyChest, storage.KeyClaimedShares, storage.KeyBalance} {
		_, found, err := store.Get(key)
		require.NoError(t, err)
		assert.False(t, found, key)
	}
}
