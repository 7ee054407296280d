package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"DiamondQuest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRobloxServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/users/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "builder man", r.URL.Query().Get("keyword"))
		_, _ = w.Write([]byte(`{"data":[
			{"id":156,"name":"builderman","displayName":"Builder"},
			{"id":157,"name":"builderman2","displayName":""}
		]}`))
	})
	mux.HandleFunc("/v1/users/avatar-headshot", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "420x420", r.URL.Query().Get("size"))
		assert.Equal(t, "Png", r.URL.Query().Get("format"))
		if r.URL.Query().Get("userIds") == "157" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"targetId":156,"imageUrl":"https://img/156.png"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRobloxFetcher_SearchUsers(t *testing.T) {
	srv := newRobloxServer(t)
	f := NewRobloxFetcher(srv.URL, srv.URL, "")

	users, err := f.SearchUsers(context.Background(), "builder man")
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, model.Identity{ID: "156", Username: "builderman", DisplayName: "Builder", Verified: true}, users[0])
	assert.Equal(t, "builderman2", users[1].DisplayName, "empty display name falls back to username")
}

func TestRobloxFetcher_AvatarURL(t *testing.T) {
	srv := newRobloxServer(t)
	f := NewRobloxFetcher(srv.URL, srv.URL, "")

	avatar, err := f.AvatarURL(context.Background(), "156")
	require.NoError(t, err)
	assert.Equal(t, "https://img/156.png", avatar)

	_, err = f.AvatarURL(context.Background(), "157")
	assert.Error(t, err)
}

func TestRobloxFetcher_SearchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewRobloxFetcher(srv.URL, srv.URL, "")
	_, err := f.SearchUsers(context.Background(), "x")
	assert.ErrorContains(t, err, "status 429")
}

func TestWithAvatars_DegradesFailuresToEmpty(t *testing.T) {
	srv := newRobloxServer(t)
	f := NewRobloxFetcher(srv.URL, srv.URL, "")

	users := []model.Identity{
		{ID: "156", Username: "builderman"},
		{ID: "157", Username: "builderman2"},
	}
	out := WithAvatars(context.Background(), f, users)

	require.Len(t, out, 2)
	assert.Equal(t, "https://img/156.png", out[0].AvatarURL)
	assert.Empty(t, out[1].AvatarURL)
	assert.Empty(t, users[0].AvatarURL, "input slice is not modified")
}

func TestMockIdentityFetcher(t *testing.T) {
	m := &MockIdentityFetcher{
		Users: []model.Identity{
			{ID: "1", Username: "alpha", DisplayName: "Alpha"},
			{ID: "2", Username: "beta", DisplayName: "Beta"},
		},
		Avatars: map[string]string{"1": "a.png"},
	}

	users, err := m.SearchUsers(context.Background(), "ALP")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.True(t, users[0].Verified)

	out := WithAvatars(context.Background(), m, users)
	assert.Equal(t, "a.png", out[0].AvatarURL)

	m.Err = errors.New("down")
	_, err = m.SearchUsers(context.Background(), "alpha")
	assert.Error(t, err)
}
