package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"DiamondQuest/internal/model"
)

// IdentityFetcher looks accounts up on the external identity service.
type IdentityFetcher interface {
	// SearchUsers returns accounts matching keyword, without avatars.
	SearchUsers(ctx context.Context, keyword string) ([]model.Identity, error)
	AvatarURL(ctx context.Context, userID string) (string, error)
	Name() string
}

// OfferRequest carries the request context the offer feed targets offers by.
type OfferRequest struct {
	IP        string
	UserAgent string
}

// OfferFetcher loads third-party offers.
type OfferFetcher interface {
	FetchOffers(ctx context.Context, req OfferRequest) ([]model.Offer, error)
	Name() string
}

// newHTTPClient builds a client with optional proxy support.
func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
