package collector

import (
	"context"
	"strings"
	"sync"
	"time"

	"DiamondQuest/internal/model"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// OfferFeed wraps an OfferFetcher with a short-lived cache and the
// presentation rules the arena applies to offers.
type OfferFeed struct {
	fetcher   OfferFetcher
	clock     clockwork.Clock
	maxAge    time.Duration
	userAgent string

	mu        sync.Mutex
	cached    []model.Offer
	fetchedAt time.Time
}

// NewOfferFeed creates a feed. A zero maxAge disables caching.
func NewOfferFeed(fetcher OfferFetcher, clock clockwork.Clock, maxAge time.Duration, userAgent string) *OfferFeed {
	return &OfferFeed{
		fetcher:   fetcher,
		clock:     clock,
		maxAge:    maxAge,
		userAgent: userAgent,
	}
}

// Refresh fetches a fresh list and replaces the cache on success.
func (f *OfferFeed) Refresh(ctx context.Context) ([]model.Offer, error) {
	return f.fetch(ctx, OfferRequest{})
}

// Offers returns the ranked offer list. Failures yield an empty list.
func (f *OfferFeed) Offers(ctx context.Context, req OfferRequest) []model.Offer {
	offers, err := f.load(ctx, req)
	if err != nil {
		log.Warnf("offer feed %s failed: %v", f.fetcher.Name(), err)
		return []model.Offer{}
	}
	return offers
}

// Browse returns the listing shown on the offers page: "cpi" offers when
// any exist, else offers whose type mentions "pin", else everything.
func (f *OfferFeed) Browse(ctx context.Context, req OfferRequest) []model.Offer {
	return PreferListing(f.Offers(ctx, req))
}

// Top returns the best-ranked offer. ok is false when the feed is empty.
func (f *OfferFeed) Top(ctx context.Context, req OfferRequest) (offer model.Offer, ok bool, err error) {
	offers, err := f.load(ctx, req)
	if err != nil {
		return model.Offer{}, false, err
	}
	if len(offers) == 0 {
		return model.Offer{}, false, nil
	}
	return offers[0], true, nil
}

func (f *OfferFeed) load(ctx context.Context, req OfferRequest) ([]model.Offer, error) {
	f.mu.Lock()
	if f.maxAge > 0 && f.cached != nil && f.clock.Since(f.fetchedAt) < f.maxAge {
		offers := append([]model.Offer(nil), f.cached...)
		f.mu.Unlock()
		return offers, nil
	}
	f.mu.Unlock()
	return f.fetch(ctx, req)
}

func (f *OfferFeed) fetch(ctx context.Context, req OfferRequest) ([]model.Offer, error) {
	if req.UserAgent == "" {
		req.UserAgent = f.userAgent
	}
	offers, err := f.fetcher.FetchOffers(ctx, req)
	if err != nil {
		return nil, err
	}
	if offers == nil {
		offers = []model.Offer{}
	}

	f.mu.Lock()
	f.cached = append([]model.Offer(nil), offers...)
	f.fetchedAt = f.clock.Now()
	f.mu.Unlock()

	log.Debugf("offer feed %s: %d offers", f.fetcher.Name(), len(offers))
	return offers, nil
}

// PreferListing applies the offers page preference: cpi, then pin, then all.
func PreferListing(offers []model.Offer) []model.Offer {
	var cpi, pin []model.Offer
	for _, o := range offers {
		t := strings.ToLower(o.Type)
		if t == "cpi" {
			cpi = append(cpi, o)
		}
		if strings.Contains(t, "pin") {
			pin = append(pin, o)
		}
	}
	switch {
	case len(cpi) > 0:
		return cpi
	case len(pin) > 0:
		return pin
	default:
		return offers
	}
}
