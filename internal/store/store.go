// Package store persists extracted results to databases
package store

import (
	"context"

	"github.com/myusername/chase-results-scraper/pkg/models"
)

// Sink receives the complete output of one extraction run
type Sink interface {
	Name() string
	WritePlayers(ctx context.Context, players []models.PlayerResult) error
	WriteEpisodes(ctx context.Context, episodes []models.EpisodeResult) error
}

// WriteAll writes players then episodes to every sink, stopping at the first error
func WriteAll(ctx context.Context, sinks []Sink, players []models.PlayerResult, episodes []models.EpisodeResult) error {
	for _, s := range sinks {
		if err := s.WritePlayers(ctx, players); err != nil {
			return &SinkError{Sink: s.Name(), Err: err}
		}
		if err := s.WriteEpisodes(ctx, episodes); err != nil {
			return &SinkError{Sink: s.Name(), Err: err}
		}
	}
	return nil
}

type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string {
	return e.Sink + ": " + e.Err.Error()
}

func (e *SinkError) Unwrap() error {
	return e.Err
}
