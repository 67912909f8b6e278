// Package config loads scraper settings from JSON5 files
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/titanous/json5"

	"github.com/myusername/chase-results-scraper/pkg/extractor"
)

// DefaultFile is looked up in the working directory when no --config is given
const DefaultFile = "chase-scraper.json5"

// Config holds every setting of a scrape run. Zero values mean "use the default".
type Config struct {
	PlayersURL        string `json:"players_url"`
	EpisodesURL       string `json:"episodes_url"`
	FirstSeries       int    `json:"first_series"`
	LastSeries        int    `json:"last_series"`
	PlayerHeaderRows  int    `json:"player_header_rows"`
	EpisodeHeaderRows int    `json:"episode_header_rows"`

	Timeout   string `json:"timeout"`
	UserAgent string `json:"user_agent"`

	OutputDir string `json:"output_dir"`
	CacheDir  string `json:"cache_dir"`
	SQLite    string `json:"sqlite"`

	DynamoPlayersTable  string `json:"dynamo_players_table"`
	DynamoEpisodesTable string `json:"dynamo_episodes_table"`
}

// Default returns the settings used when nothing is configured
func Default() Config {
	opts := extractor.DefaultOptions()
	return Config{
		PlayersURL:        opts.PlayersURL,
		EpisodesURL:       opts.EpisodesURL,
		FirstSeries:       opts.FirstSeries,
		LastSeries:        opts.LastSeries,
		PlayerHeaderRows:  opts.PlayerHeaderRows,
		EpisodeHeaderRows: opts.EpisodeHeaderRows,
		Timeout:           "30s",
		OutputDir:         ".",
	}
}

// ExtractorOptions converts the config into extraction options
func (c Config) ExtractorOptions() extractor.Options {
	return extractor.Options{
		PlayersURL:        c.PlayersURL,
		EpisodesURL:       c.EpisodesURL,
		FirstSeries:       c.FirstSeries,
		LastSeries:        c.LastSeries,
		PlayerHeaderRows:  c.PlayerHeaderRows,
		EpisodeHeaderRows: c.EpisodeHeaderRows,
	}
}

// RequestTimeout parses Timeout
func (c Config) RequestTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}

// Validate checks the settings that would otherwise fail mid-run
func (c Config) Validate() error {
	if c.FirstSeries < 1 || c.LastSeries < c.FirstSeries {
		return fmt.Errorf("invalid series range %d-%d", c.FirstSeries, c.LastSeries)
	}
	for name, tmpl := range map[string]string{"players_url": c.PlayersURL, "episodes_url": c.EpisodesURL} {
		if strings.Count(tmpl, "%d") != 1 {
			return fmt.Errorf("%s must contain exactly one %%d: %q", name, tmpl)
		}
	}
	if c.PlayerHeaderRows < 0 || c.EpisodeHeaderRows < 0 {
		return fmt.Errorf("header rows must not be negative")
	}
	if (c.DynamoPlayersTable == "") != (c.DynamoEpisodesTable == "") {
		return fmt.Errorf("both dynamo tables must be set together")
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	return nil
}

func splitExt(f string) (string, string) {
	ext := filepath.Ext(f)
	return strings.TrimSuffix(f, ext), strings.TrimPrefix(ext, ".")
}

// ReadConfig reads a configuration file, `name` should come with a file
// extension. The following files are merged, later ones taking priority:
//  1. <name>.<ext>
//  2. <name>.local.<ext>
func ReadConfig[T any](name string) (T, error) {
	var out T
	allNotFound := true

	prefixname, ext := splitExt(name)

	defaultFile, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(defaultFile) > 0 {
		if err := json5.Unmarshal(defaultFile, &out); err != nil {
			return out, fmt.Errorf("%s: %w", name, err)
		}
		allNotFound = false
	}

	localFilepath := fmt.Sprintf("%s.local.%s", prefixname, ext)
	localFile, err := os.ReadFile(localFilepath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(localFile) > 0 {
		var override T
		if err := json5.Unmarshal(localFile, &override); err != nil {
			return out, fmt.Errorf("%s: %w", localFilepath, err)
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", localFilepath)
		allNotFound = false
	}

	if allNotFound {
		return out, os.ErrNotExist
	}
	return out, nil
}

// Load reads the config file at path over the defaults. A missing file is
// not an error unless required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	fromFile, err := ReadConfig[Config](path)
	if os.IsNotExist(err) && !required {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := mergo.Merge(&cfg, fromFile, mergo.WithOverride); err != nil {
		return cfg, err
	}
	slog.Info("loaded config", "path", path)
	return cfg, nil
}
