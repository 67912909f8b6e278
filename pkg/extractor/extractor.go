// Package extractor drives the scrape of every series into player and
// episode collections.
package extractor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/myusername/chase-results-scraper/pkg/models"
	"github.com/myusername/chase-results-scraper/pkg/parser"
)

// Default source locations
const (
	DefaultPlayersURL  = "https://onequestionshootout.xyz/players/series_%d.htm"
	DefaultEpisodesURL = "https://onequestionshootout.xyz/episodes/series_%d.htm"
)

// Fetcher retrieves a page. name identifies the page for caching.
type Fetcher interface {
	FetchPage(ctx context.Context, url, name string) (string, error)
}

// Options controls which series are scraped and where from
type Options struct {
	// URL templates with a single %d for the series number
	PlayersURL  string
	EpisodesURL string

	FirstSeries int
	LastSeries  int

	// Leading rows of each page that are not data
	PlayerHeaderRows  int
	EpisodeHeaderRows int
}

// DefaultOptions returns the options for the full published archive
func DefaultOptions() Options {
	return Options{
		PlayersURL:        DefaultPlayersURL,
		EpisodesURL:       DefaultEpisodesURL,
		FirstSeries:       1,
		LastSeries:        17,
		PlayerHeaderRows:  4,
		EpisodeHeaderRows: 4,
	}
}

// Result holds everything extracted in one run, series-major
type Result struct {
	Players   []models.PlayerResult
	Episodes  []models.EpisodeResult
	Summaries []models.SeriesSummary
}

// Extractor scrapes series one at a time in ascending order
type Extractor struct {
	fetcher Fetcher
	opts    Options
}

func New(fetcher Fetcher, opts Options) *Extractor {
	return &Extractor{fetcher: fetcher, opts: opts}
}

// Run extracts every configured series. The first fetch or parse failure
// aborts the run and no partial result is returned.
func (e *Extractor) Run(ctx context.Context) (*Result, error) {
	if e.opts.FirstSeries < 1 || e.opts.LastSeries < e.opts.FirstSeries {
		return nil, fmt.Errorf("invalid series range %d-%d", e.opts.FirstSeries, e.opts.LastSeries)
	}

	res := &Result{}
	for series := e.opts.FirstSeries; series <= e.opts.LastSeries; series++ {
		slog.InfoContext(ctx, "processing series", "series", series, "of", e.opts.LastSeries)

		players, err := e.ExtractPlayers(ctx, series)
		if err != nil {
			return nil, err
		}
		episodes, err := e.ExtractEpisodes(ctx, series)
		if err != nil {
			return nil, err
		}

		summary := summarise(series, players, episodes)
		if summary.GroupedEpisodes != summary.Episodes {
			slog.WarnContext(ctx, "episode count mismatch",
				"series", series,
				"from_player_dates", summary.GroupedEpisodes,
				"episode_rows", summary.Episodes,
			)
		}

		res.Players = append(res.Players, players...)
		res.Episodes = append(res.Episodes, episodes...)
		res.Summaries = append(res.Summaries, summary)
	}

	slog.InfoContext(ctx, "extraction complete", "players", len(res.Players), "episodes", len(res.Episodes))
	return res, nil
}

// ExtractPlayers scrapes one series' players table
func (e *Extractor) ExtractPlayers(ctx context.Context, series int) ([]models.PlayerResult, error) {
	rows, err := e.rows(ctx, e.opts.PlayersURL, "players", series, e.opts.PlayerHeaderRows)
	if err != nil {
		return nil, err
	}
	players, err := parser.GroupPlayers(series, rows)
	if err != nil {
		return nil, fmt.Errorf("players table: %w", err)
	}
	slog.DebugContext(ctx, "extracted players", "series", series, "players", len(players))
	return players, nil
}

// ExtractEpisodes scrapes one series' episodes table
func (e *Extractor) ExtractEpisodes(ctx context.Context, series int) ([]models.EpisodeResult, error) {
	rows, err := e.rows(ctx, e.opts.EpisodesURL, "episodes", series, e.opts.EpisodeHeaderRows)
	if err != nil {
		return nil, err
	}
	episodes, err := parser.NumberEpisodes(series, rows)
	if err != nil {
		return nil, fmt.Errorf("episodes table: %w", err)
	}
	slog.DebugContext(ctx, "extracted episodes", "series", series, "episodes", len(episodes))
	return episodes, nil
}

func (e *Extractor) rows(ctx context.Context, tmpl, kind string, series, skip int) ([][]string, error) {
	url := fmt.Sprintf(tmpl, series)
	name := fmt.Sprintf("%s_series_%d.html", kind, series)

	html, err := e.fetcher.FetchPage(ctx, url, name)
	if err != nil {
		return nil, fmt.Errorf("series %d %s: %w", series, kind, err)
	}
	parser.DumpTables(html, name)

	rows, err := parser.ExtractRows(html, skip)
	if err != nil {
		return nil, fmt.Errorf("series %d %s: %w", series, kind, err)
	}
	return rows, nil
}

func summarise(series int, players []models.PlayerResult, episodes []models.EpisodeResult) models.SeriesSummary {
	s := models.SeriesSummary{
		Series:   series,
		Players:  len(players),
		Episodes: len(episodes),
	}
	if n := len(players); n > 0 {
		s.GroupedEpisodes = players[n-1].Episode
	}
	for _, ep := range episodes {
		if ep.Winner == models.Team {
			s.TeamWins++
		}
	}
	return s
}
