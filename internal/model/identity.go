package model

// UnverifiedID is the external id given to sessions that were not confirmed
// against the identity lookup.
const UnverifiedID = "0"

// Identity is an external (Roblox) account record. The JSON shape matches the
// persisted session record.
type Identity struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
	Verified    bool   `json:"verified"`
}

// UnverifiedIdentity builds the fallback identity used when the lookup finds
// nothing or fails: the raw handle doubles as username and display name.
func UnverifiedIdentity(handle string) Identity {
	return Identity{
		ID:          UnverifiedID,
		Username:    handle,
		DisplayName: handle,
	}
}
