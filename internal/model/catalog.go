package model

import (
	"net/url"
	"time"
)

// ShareOption is a social platform that grants a one-time reward.
type ShareOption struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Description   string `json:"description" yaml:"description"`
	Reward        int64  `json:"reward" yaml:"reward"`
	ShareURL      string `json:"shareUrl,omitempty" yaml:"share_url"`
	RequiresProof bool   `json:"requiresProof" yaml:"requires_proof"`
}

// ExchangeRate is one diamonds-for-reward price.
type ExchangeRate struct {
	Diamonds int64  `json:"diamonds" yaml:"diamonds"`
	Reward   string `json:"reward" yaml:"reward"`
}

// ExchangeOption is an external platform diamonds can be exchanged for.
type ExchangeOption struct {
	ID    string         `json:"id" yaml:"id"`
	Name  string         `json:"name" yaml:"name"`
	Rates []ExchangeRate `json:"rates" yaml:"rates"`
}

// ExchangeRecord is the write-only audit record of the last exchange request.
type ExchangeRecord struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Game      string    `json:"game"`
	Reward    string    `json:"reward"`
	Diamonds  int64     `json:"diamonds"`
	Timestamp time.Time `json:"timestamp"`
}

// DefaultShareOptions returns the built-in share platforms. shareBase is the
// public URL of the arena, embedded in the share links.
func DefaultShareOptions(shareBase, shareText string) []ShareOption {
	return []ShareOption{
		{ID: "facebook", Name: "FACEBOOK", Description: "Share with friends", Reward: 10,
			ShareURL: "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(shareBase)},
		{ID: "twitter", Name: "TWITTER", Description: "Tweet about us", Reward: 10,
			ShareURL: "https://twitter.com/intent/tweet?text=" + url.QueryEscape(shareText) + "&url=" + url.QueryEscape(shareBase)},
		{ID: "instagram", Name: "INSTAGRAM", Description: "Share video on story/reels", Reward: 10, RequiresProof: true},
		{ID: "tiktok", Name: "TIKTOK", Description: "Upload video with #DiamondQuest", Reward: 10, RequiresProof: true},
		{ID: "whatsapp", Name: "WHATSAPP", Description: "Share contacts", Reward: 10,
			ShareURL: "https://wa.me/?text=" + url.QueryEscape(shareText+" "+shareBase)},
		{ID: "youtube", Name: "YOUTUBE", Description: "Upload video review", Reward: 10, RequiresProof: true},
	}
}

// DefaultExchangeOptions returns the built-in exchange catalog.
func DefaultExchangeOptions() []ExchangeOption {
	return []ExchangeOption{
		{ID: "roblox", Name: "ROBLOX", Rates: []ExchangeRate{{Diamonds: 1000, Reward: "1M Robux"}}},
		{ID: "99night", Name: "99 NIGHT", Rates: []ExchangeRate{{Diamonds: 1000, Reward: "100k Night Diamonds"}}},
	}
}
