package models

import (
	"fmt"
	"time"
)

// EpisodeKey identifies an episode within the whole run
type EpisodeKey struct {
	Series  int
	Episode int
}

func (k EpisodeKey) String() string {
	return fmt.Sprintf("S%02dE%03d", k.Series, k.Episode)
}

// EpisodeResult holds the aggregate outcome of one aired episode
type EpisodeResult struct {
	Series              int
	Episode             int
	Date                time.Time
	Team                string
	Chaser              string
	PlayersInFinalChase int
	PrizeFund           Money
	Target              int
	Winner              Personnel
	WinnerMargin        int
	PushbacksAttempted  int
	PushbacksCompleted  int
	ChaserAccuracy      int
	ChaserSpeed         float64
	FinalChaseVideo     string
}

// At returns a copy of the episode placed in the given series and episode
func (e EpisodeResult) At(series, episode int) EpisodeResult {
	e.Series = series
	e.Episode = episode
	return e
}

func (e EpisodeResult) Key() EpisodeKey {
	return EpisodeKey{Series: e.Series, Episode: e.Episode}
}

// SeriesSummary holds the counts extracted for one series
type SeriesSummary struct {
	Series   int
	Players  int
	Episodes int
	// Episodes as inferred from player dates
	GroupedEpisodes int
	TeamWins        int
}
