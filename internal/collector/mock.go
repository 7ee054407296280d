package collector

import (
	"context"
	"strings"
	"sync"

	"DiamondQuest/internal/model"
)

// MockIdentityFetcher serves a fixed account list for development and tests.
type MockIdentityFetcher struct {
	Users   []model.Identity
	Avatars map[string]string
	Err     error
}

func (m *MockIdentityFetcher) Name() string { return "mock" }

// SearchUsers returns every user whose username or display name contains
// keyword, case-insensitively.
func (m *MockIdentityFetcher) SearchUsers(_ context.Context, keyword string) ([]model.Identity, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	k := strings.ToLower(keyword)
	var out []model.Identity
	for _, u := range m.Users {
		if strings.Contains(strings.ToLower(u.Username), k) || strings.Contains(strings.ToLower(u.DisplayName), k) {
			u.Verified = true
			u.AvatarURL = ""
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *MockIdentityFetcher) AvatarURL(_ context.Context, userID string) (string, error) {
	return m.Avatars[userID], nil
}

// MockOfferFetcher serves a fixed offer list.
type MockOfferFetcher struct {
	Offers []model.Offer
	Err    error

	mu    sync.Mutex
	calls int
}

func (m *MockOfferFetcher) Name() string { return "mock" }

func (m *MockOfferFetcher) FetchOffers(context.Context, OfferRequest) ([]model.Offer, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	offers := append([]model.Offer(nil), m.Offers...)
	RankOffers(offers)
	return offers, nil
}

// Calls reports how many times FetchOffers ran.
func (m *MockOfferFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// SampleOffers is the development offer list used when no offer API token
// is configured.
func SampleOffers(fallbackURL string) []model.Offer {
	return []model.Offer{
		{ID: "sample-1", Title: "Reach level 10", Description: "Install and play to level 10",
			Difficulty: defaultOfferDifficulty, TimeEstimate: "5 min", Icon: model.IconGame,
			URL: fallbackURL, Type: "cpi", Payout: 1.2, EPC: 0.4},
		{ID: "sample-2", Title: "Quick survey", Description: "Answer a short survey",
			Difficulty: defaultOfferDifficulty, TimeEstimate: "3 min", Icon: model.IconSurvey,
			URL: fallbackURL, Type: "survey", Payout: 0.6, EPC: 0.3},
		{ID: "sample-3", Title: "Enter your PIN", Description: "Confirm your number",
			Difficulty: defaultOfferDifficulty, TimeEstimate: "3 min", Icon: model.IconDefault,
			URL: fallbackURL, Type: "pin", Payout: 0.9, EPC: 0.5},
	}
}
