package storage

// Persisted state layout.
const (
	KeyBalance           = "diamonds"
	KeyDailyChest        = "lastDailyChestClaim"
	KeyLuckySpin         = "luckySpinLastPlayed"
	KeyDiamondRush       = "diamondRushLastPlayed"
	KeyLuckySpinPrompt   = "luckySpinOfferShown"
	KeyDiamondRushPrompt = "diamondRushOfferShown"
	KeyClaimedShares     = "claimedShares"
	KeyLastExchange      = "lastExchange"
	KeySession           = "robloxUser"
)
