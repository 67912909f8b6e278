// Package models contains data structures for quiz-show results
package models

import "time"

// Unassigned marks a series or episode number that has not been set yet.
// Valid series and episode numbers start at 1.
const Unassigned = 0

// Personnel identifies who won a round
type Personnel string

const (
	Chaser Personnel = "CHASER"
	Player Personnel = "PLAYER"
	Team   Personnel = "TEAM"
)

// Chosen offer values relative to the cash-builder
const (
	OfferLower  = -1
	OfferMiddle = 0
	OfferHigher = 1
)

// Money is an amount in pounds that may be absent
type Money struct {
	Pounds float64
	Valid  bool
}

// Pounds returns a present Money value
func Pounds(v float64) Money {
	return Money{Pounds: v, Valid: true}
}

// NullInt is an integer that may be absent
type NullInt struct {
	Value int
	Valid bool
}

// Int returns a present NullInt value
func Int(v int) NullInt {
	return NullInt{Value: v, Valid: true}
}

// PlayerResult holds one contestant's appearance in one episode
type PlayerResult struct {
	Series            int
	Episode           int
	Date              time.Time
	PlayerNumber      int
	Name              string
	CashBuilder       Money
	Chaser            string
	LowerOffer        Money
	HigherOffer       Money
	ChosenOffer       int
	HTHWinner         Personnel
	HTHMargin         int
	FinalChaseCorrect NullInt
	FinalChaseWinner  Personnel
	FinalChaseMargin  int
	AmountWon         Money
}

// At returns a copy of the result placed in the given series and episode
func (p PlayerResult) At(series, episode int) PlayerResult {
	p.Series = series
	p.Episode = episode
	return p
}

// Assigned reports whether the series and episode have been set
func (p PlayerResult) Assigned() bool {
	return p.Series != Unassigned && p.Episode != Unassigned
}

// Key returns the (series, episode) pair linking the player to its episode
func (p PlayerResult) Key() EpisodeKey {
	return EpisodeKey{Series: p.Series, Episode: p.Episode}
}
