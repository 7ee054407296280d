package arena

import (
	"errors"

	"DiamondQuest/internal/model"
)

var (
	ErrUnknownPlatform = errors.New("unknown share platform")
	ErrUnknownOption   = errors.New("unknown exchange option")
	ErrNoProofRequired = errors.New("platform does not take proof uploads")
)

// Status is the expected outcome of an arena action. None of these are
// failures of the arena itself.
type Status int

const (
	StatusOK Status = iota
	StatusNoSession
	StatusBusy
	StatusGateClosed
	StatusAlreadyClaimed
	StatusInsufficientFunds
	StatusProofRequired
	StatusRejected
	StatusNoOffers
	StatusCooldown
	StatusGateOpen
	StatusNotRunning
	StatusNotFound
	StatusError
)

var statusNames = map[Status]string{
	StatusOK:                "ok",
	StatusNoSession:         "no-session",
	StatusBusy:              "busy",
	StatusGateClosed:        "gate-closed",
	StatusAlreadyClaimed:    "already-claimed",
	StatusInsufficientFunds: "insufficient-funds",
	StatusProofRequired:     "proof-required",
	StatusRejected:          "rejected",
	StatusNoOffers:          "no-offers",
	StatusCooldown:          "cooldown",
	StatusGateOpen:          "gate-open",
	StatusNotRunning:        "not-running",
	StatusNotFound:          "not-found",
	StatusError:             "error",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is returned by every balance-affecting action.
type Result struct {
	Status  Status       `json:"status"`
	Balance int64        `json:"balance"`
	Toast   *model.Toast `json:"toast,omitempty"`
}
