package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"DiamondQuest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fallbackURL = "https://fallback.example/cl"

func TestUnlockContentFetcher_FetchOffers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "203.0.113.9", q.Get("ip"))
		assert.Equal(t, "test-agent", q.Get("user_agent"))
		assert.Equal(t, "6", q.Get("max"))
		assert.Equal(t, "3", q.Get("min"))
		assert.Equal(t, "7", q.Get("ctype"))
		_, _ = w.Write([]byte(`{"success":true,"offers":[
			{"offerid":"a","name":"Play Dragon Game","payout":"0.50","epc":"0.10","device":"iPhone","link":"https://o/a"},
			{"offerid":12,"name_short":"Survey","name":"Long survey name","adcopy":"Tell us","payout":"1.50","epc":"0.20","category":"survey"},
			{"name":"Watch a video","payout":1.5,"epc":"0.90","device":"Android 12"}
		]}`))
	}))
	defer srv.Close()

	f := NewUnlockContentFetcher(srv.URL, "secret", fallbackURL, "", StaticIP("203.0.113.9"))
	offers, err := f.FetchOffers(context.Background(), OfferRequest{UserAgent: "test-agent"})
	require.NoError(t, err)
	require.Len(t, offers, 3)

	// payout desc, then epc desc
	assert.Equal(t, "offer-2", offers[0].ID)
	assert.Equal(t, "12", offers[1].ID)
	assert.Equal(t, "a", offers[2].ID)

	video := offers[0]
	assert.Equal(t, "Watch a video", video.Title)
	assert.Equal(t, "Complete this offer", video.Description)
	assert.Equal(t, "5 min", video.TimeEstimate)
	assert.Equal(t, model.IconVideo, video.Icon)
	assert.Equal(t, fallbackURL, video.URL)
	assert.Equal(t, "Easy", video.Difficulty)

	survey := offers[1]
	assert.Equal(t, "Survey", survey.Title)
	assert.Equal(t, "Tell us", survey.Description)
	assert.Equal(t, "3 min", survey.TimeEstimate)
	assert.Equal(t, model.IconSurvey, survey.Icon)

	game := offers[2]
	assert.Equal(t, "game", game.Type)
	assert.Equal(t, "https://o/a", game.URL)
	assert.InDelta(t, 0.5, game.Payout, 1e-9)
}

func TestUnlockContentFetcher_Unsuccessful(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"bad token"}`))
	}))
	defer srv.Close()

	f := NewUnlockContentFetcher(srv.URL, "x", fallbackURL, "", StaticIP(LoopbackIP))
	_, err := f.FetchOffers(context.Background(), OfferRequest{})
	assert.ErrorContains(t, err, "bad token")
}

func TestUnlockContentFetcher_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	f := NewUnlockContentFetcher(srv.URL, "x", fallbackURL, "", StaticIP(LoopbackIP))
	_, err := f.FetchOffers(context.Background(), OfferRequest{})
	assert.ErrorContains(t, err, "status 401")
}

func TestInferCategory(t *testing.T) {
	cases := []struct {
		name, desc, want string
	}{
		{"Mega Game", "", "game"},
		{"", "fun game inside", "game"},
		{"Quick Survey", "", "survey"},
		{"Cool App", "", "app"},
		{"Thing", "install now", "app"},
		{"Video Time", "", "video"},
		{"", "social network", "social"},
		{"Deposit", "sign up", "default"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, InferCategory(c.name, c.desc), "%q/%q", c.name, c.desc)
	}
}

func TestIconCategoryIsTotal(t *testing.T) {
	for _, s := range []string{"game", "survey", "app", "video", "social", "gift", "default", "cpi", ""} {
		assert.NotEmpty(t, model.ParseIconCategory(s).Icon(), s)
	}
	assert.Equal(t, "gift", model.ParseIconCategory("cpi").Icon())
}

func TestIpifyLookup(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ip":"198.51.100.4"}`))
	}))
	defer ok.Close()
	assert.Equal(t, "198.51.100.4", NewIpifyLookup(ok.URL, "").VisitorIP(context.Background()))

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()
	assert.Equal(t, LoopbackIP, NewIpifyLookup(broken.URL, "").VisitorIP(context.Background()))
}
