package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/myusername/chase-results-scraper/internal/utils"
	"github.com/myusername/chase-results-scraper/pkg/models"
)

// CSV writes players.csv and episodes.csv into a directory
type CSV struct {
	Dir string
}

func (c CSV) Name() string { return "csv" }

func (c CSV) prepare() error {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.Dir, err)
	}
	return nil
}

func (c CSV) WritePlayers(ctx context.Context, players []models.PlayerResult) error {
	if err := c.prepare(); err != nil {
		return err
	}
	path := filepath.Join(c.Dir, utils.PlayersFile)
	if err := utils.SavePlayersToCSV(players, path); err != nil {
		return err
	}
	slog.InfoContext(ctx, "saved players", "path", path, "rows", len(players))
	return nil
}

func (c CSV) WriteEpisodes(ctx context.Context, episodes []models.EpisodeResult) error {
	if err := c.prepare(); err != nil {
		return err
	}
	path := filepath.Join(c.Dir, utils.EpisodesFile)
	if err := utils.SaveEpisodesToCSV(episodes, path); err != nil {
		return err
	}
	slog.InfoContext(ctx, "saved episodes", "path", path, "rows", len(episodes))
	return nil
}
