package model

import "strings"

// IconCategory classifies an offer for presentation.
type IconCategory int

const (
	IconDefault IconCategory = iota
	IconGame
	IconSurvey
	IconApp
	IconVideo
	IconSocial
	IconGift
)

// ParseIconCategory maps a feed category string to an IconCategory.
// Unknown strings map to IconDefault.
func ParseIconCategory(s string) IconCategory {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "game":
		return IconGame
	case "survey":
		return IconSurvey
	case "app":
		return IconApp
	case "video":
		return IconVideo
	case "social":
		return IconSocial
	case "gift":
		return IconGift
	default:
		return IconDefault
	}
}

// Icon returns the icon name the UI renders for the category.
func (c IconCategory) Icon() string {
	switch c {
	case IconGame:
		return "game"
	case IconSurvey:
		return "survey"
	case IconApp:
		return "app"
	case IconVideo:
		return "video"
	case IconSocial:
		return "social"
	case IconGift:
		return "gift"
	default:
		return "gift"
	}
}

func (c IconCategory) String() string { return c.Icon() }

// MarshalText lets IconCategory travel as its icon name in JSON.
func (c IconCategory) MarshalText() ([]byte, error) {
	return []byte(c.Icon()), nil
}

// Offer is a third-party reward task from the offer feed. Read-only to the core.
type Offer struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Difficulty   string       `json:"difficulty"`
	TimeEstimate string       `json:"timeEstimate"`
	Icon         IconCategory `json:"icon"`
	URL          string       `json:"url"`
	Image        string       `json:"image,omitempty"`
	Type         string       `json:"type,omitempty"`
	Payout       float64      `json:"payout"`
	EPC          float64      `json:"epc"`
}
