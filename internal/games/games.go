// Package games holds the Lucky Spin and Diamond Rush state machines. Both
// are advanced by an external clock through Advance; neither starts timers
// of its own.
package games

import (
	"DiamondQuest/internal/model"
)

// DailyGate is the part of the daily gate the engines consume.
type DailyGate interface {
	IsAvailable(a model.Activity) bool
	MarkConsumed(a model.Activity) error
}

// Crediter receives the reward of a finished session.
type Crediter interface {
	Credit(amount int64)
}

// Rand is the randomness source. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// StartResult is the expected outcome of starting a session.
type StartResult int

const (
	Started StartResult = iota
	AlreadyRunning
	Unavailable
)

func (r StartResult) String() string {
	switch r {
	case Started:
		return "started"
	case AlreadyRunning:
		return "busy"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}
