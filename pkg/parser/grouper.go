package parser

import (
	"fmt"
	"time"

	"github.com/myusername/chase-results-scraper/pkg/models"
)

// EpisodeGrouper numbers player rows by episode. Rows are grouped by date
// continuity: a new episode starts whenever the date differs from the
// previous row's. Input order matters and must be the order scraped.
type EpisodeGrouper struct {
	prev    time.Time
	hasPrev bool
	episode int
}

// NewEpisodeGrouper returns a grouper positioned at episode 1
func NewEpisodeGrouper() *EpisodeGrouper {
	return &EpisodeGrouper{episode: 1}
}

// Next returns the episode number for a row with the given date
func (g *EpisodeGrouper) Next(date time.Time) int {
	if g.hasPrev && !date.Equal(g.prev) {
		g.episode++
	}
	g.prev = date
	g.hasPrev = true
	return g.episode
}

// Episodes returns how many episodes have been seen so far
func (g *EpisodeGrouper) Episodes() int {
	if !g.hasPrev {
		return 0
	}
	return g.episode
}

// RowError reports which row of which table failed to parse
type RowError struct {
	Series int
	Row    int
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("series %d row %d: %v", e.Series, e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// GroupPlayers parses the player rows of one series and assigns each the
// series and its date-inferred episode number. Any row failure aborts.
func GroupPlayers(series int, rows [][]string) ([]models.PlayerResult, error) {
	g := NewEpisodeGrouper()
	players := make([]models.PlayerResult, 0, len(rows))
	for i, cells := range rows {
		p, err := PlayerFromRow(cells)
		if err != nil {
			return nil, &RowError{Series: series, Row: i + 1, Err: err}
		}
		players = append(players, p.At(series, g.Next(p.Date)))
	}
	return players, nil
}

// NumberEpisodes parses the episode rows of one series. Episode numbers are
// positional, one row per episode.
func NumberEpisodes(series int, rows [][]string) ([]models.EpisodeResult, error) {
	episodes := make([]models.EpisodeResult, 0, len(rows))
	for i, cells := range rows {
		e, err := EpisodeFromRow(cells)
		if err != nil {
			return nil, &RowError{Series: series, Row: i + 1, Err: err}
		}
		episodes = append(episodes, e.At(series, i+1))
	}
	return episodes, nil
}
