package model

// Activity identifies a rate-limited activity guarded by the daily gate.
type Activity string

const (
	ActivityDailyChest  Activity = "dailyChest"
	ActivityLuckySpin   Activity = "luckySpin"
	ActivityDiamondRush Activity = "diamondRush"
)

// Activities lists every gated activity.
var Activities = []Activity{ActivityDailyChest, ActivityLuckySpin, ActivityDiamondRush}

// Valid reports whether a is a known activity.
func (a Activity) Valid() bool {
	for _, k := range Activities {
		if k == a {
			return true
		}
	}
	return false
}

// PromptStatus tracks the "get another play" offer prompt for a game.
type PromptStatus string

const (
	PromptNone      PromptStatus = ""
	PromptShown     PromptStatus = "shown"
	PromptNoOffers  PromptStatus = "no-offers"
	PromptError     PromptStatus = "error"
	PromptCompleted PromptStatus = "completed"
)
