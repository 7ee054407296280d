package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"DiamondQuest/internal/model"
)

const (
	defaultOfferTitle       = "Special Offer"
	defaultOfferDescription = "Complete this offer"
	defaultOfferDifficulty  = "Easy"
)

// UnlockContentFetcher implements OfferFetcher against the UnlockContent
// offer API.
type UnlockContentFetcher struct {
	BaseURL     string
	Token       string
	Max         int
	Min         int
	CType       int
	FallbackURL string
	IP          IPLookup
	Client      *http.Client
}

// NewUnlockContentFetcher creates a fetcher with optional proxy support.
func NewUnlockContentFetcher(baseURL, token, fallbackURL, proxyURL string, ip IPLookup) *UnlockContentFetcher {
	return &UnlockContentFetcher{
		BaseURL:     baseURL,
		Token:       token,
		Max:         6,
		Min:         3,
		CType:       7,
		FallbackURL: fallbackURL,
		IP:          ip,
		Client:      newHTTPClient(proxyURL, 15*time.Second),
	}
}

func (f *UnlockContentFetcher) Name() string { return "unlockcontent" }

// flexString decodes a JSON string or number into its text form.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(data)
	return nil
}

func (s flexString) float() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil {
		return 0
	}
	return v
}

type unlockOffer struct {
	OfferID     flexString `json:"offerid"`
	Name        string     `json:"name"`
	NameShort   string     `json:"name_short"`
	Description string     `json:"description"`
	AdCopy      string     `json:"adcopy"`
	Picture     string     `json:"picture"`
	Payout      flexString `json:"payout"`
	Country     string     `json:"country"`
	Device      string     `json:"device"`
	Link        string     `json:"link"`
	EPC         flexString `json:"epc"`
	Category    string     `json:"category"`
}

type unlockResponse struct {
	Success bool          `json:"success"`
	Error   string        `json:"error"`
	Offers  []unlockOffer `json:"offers"`
}

func (f *UnlockContentFetcher) FetchOffers(ctx context.Context, r OfferRequest) ([]model.Offer, error) {
	ip := r.IP
	if ip == "" && f.IP != nil {
		ip = f.IP.VisitorIP(ctx)
	}

	params := url.Values{}
	params.Set("ip", ip)
	params.Set("user_agent", r.UserAgent)
	params.Set("max", strconv.Itoa(f.Max))
	params.Set("min", strconv.Itoa(f.Min))
	params.Set("ctype", strconv.Itoa(f.CType))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+f.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch offers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch offers: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result unlockResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode offers: %w", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("offer api refused request: %s", result.Error)
	}

	offers := make([]model.Offer, 0, len(result.Offers))
	for i, o := range result.Offers {
		offers = append(offers, f.mapOffer(i, o))
	}
	RankOffers(offers)
	return offers, nil
}

func (f *UnlockContentFetcher) mapOffer(i int, o unlockOffer) model.Offer {
	category := o.Category
	if category == "" {
		category = InferCategory(o.Name, o.Description)
	}
	timeEstimate := "3 min"
	if strings.Contains(o.Device, "Android") {
		timeEstimate = "5 min"
	}
	id := string(o.OfferID)
	if id == "" {
		id = fmt.Sprintf("offer-%d", i)
	}
	link := o.Link
	if link == "" {
		link = f.FallbackURL
	}
	return model.Offer{
		ID:           id,
		Title:        firstNonEmpty(o.NameShort, o.Name, defaultOfferTitle),
		Description:  firstNonEmpty(o.AdCopy, o.Description, defaultOfferDescription),
		Difficulty:   defaultOfferDifficulty,
		TimeEstimate: timeEstimate,
		Icon:         model.ParseIconCategory(category),
		URL:          link,
		Image:        o.Picture,
		Type:         category,
		Payout:       o.Payout.float(),
		EPC:          o.EPC.float(),
	}
}

// RankOffers sorts offers by payout descending, then EPC descending.
func RankOffers(offers []model.Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		if offers[i].Payout != offers[j].Payout {
			return offers[i].Payout > offers[j].Payout
		}
		return offers[i].EPC > offers[j].EPC
	})
}

// InferCategory guesses a category from an offer's name and description
// when the feed does not supply one.
func InferCategory(name, description string) string {
	n := strings.ToLower(name)
	d := strings.ToLower(description)
	switch {
	case strings.Contains(n, "game") || strings.Contains(d, "game"):
		return "game"
	case strings.Contains(n, "survey") || strings.Contains(d, "survey"):
		return "survey"
	case strings.Contains(n, "app") || strings.Contains(d, "install"):
		return "app"
	case strings.Contains(n, "video") || strings.Contains(d, "video"):
		return "video"
	case strings.Contains(n, "social") || strings.Contains(d, "social"):
		return "social"
	default:
		return "default"
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
