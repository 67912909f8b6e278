package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/cobra"

	"github.com/myusername/chase-results-scraper/internal/config"
	"github.com/myusername/chase-results-scraper/internal/store"
	"github.com/myusername/chase-results-scraper/internal/utils"
	"github.com/myusername/chase-results-scraper/pkg/analysis"
	"github.com/myusername/chase-results-scraper/pkg/extractor"
	"github.com/myusername/chase-results-scraper/pkg/scraper"
)

var scrapeFlags struct {
	output, cacheDir, sqlite      string
	dynamoPlayers, dynamoEpisodes string
	first, last                   int
	playerHeaders, episodeHeaders int
	timeout                       time.Duration
}

func init() {
	f := scrapeCmd.Flags()
	f.StringVar(&scrapeFlags.output, "output", "", "Output directory; CSV files go to <output>/csv (default: current directory)")
	f.StringVar(&scrapeFlags.cacheDir, "cache-dir", "", "Keep fetched HTML here and reuse it on later runs")
	f.StringVar(&scrapeFlags.sqlite, "sqlite", "", "Also write results to this SQLite database")
	f.StringVar(&scrapeFlags.dynamoPlayers, "dynamo-players", "", "Also write players to this DynamoDB table")
	f.StringVar(&scrapeFlags.dynamoEpisodes, "dynamo-episodes", "", "Also write episodes to this DynamoDB table")
	f.IntVar(&scrapeFlags.first, "first", 0, "First series to scrape")
	f.IntVar(&scrapeFlags.last, "last", 0, "Last series to scrape")
	f.IntVar(&scrapeFlags.playerHeaders, "player-header-rows", 0, "Leading rows to skip on players pages")
	f.IntVar(&scrapeFlags.episodeHeaders, "episode-header-rows", 0, "Leading rows to skip on episodes pages")
	f.DurationVar(&scrapeFlags.timeout, "timeout", 0, "HTTP request timeout")
	rootCmd.AddCommand(scrapeCmd)
}

// loadConfig reads the config file and applies any flags the user set
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, required := configPath, configPath != ""
	if path == "" {
		path = config.DefaultFile
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		return cfg, err
	}

	f := cmd.Flags()
	if f.Changed("output") {
		cfg.OutputDir = scrapeFlags.output
	}
	if f.Changed("cache-dir") {
		cfg.CacheDir = scrapeFlags.cacheDir
	}
	if f.Changed("sqlite") {
		cfg.SQLite = scrapeFlags.sqlite
	}
	if f.Changed("dynamo-players") {
		cfg.DynamoPlayersTable = scrapeFlags.dynamoPlayers
	}
	if f.Changed("dynamo-episodes") {
		cfg.DynamoEpisodesTable = scrapeFlags.dynamoEpisodes
	}
	if f.Changed("first") {
		cfg.FirstSeries = scrapeFlags.first
	}
	if f.Changed("last") {
		cfg.LastSeries = scrapeFlags.last
	}
	if f.Changed("player-header-rows") {
		cfg.PlayerHeaderRows = scrapeFlags.playerHeaders
	}
	if f.Changed("episode-header-rows") {
		cfg.EpisodeHeaderRows = scrapeFlags.episodeHeaders
	}
	if f.Changed("timeout") {
		cfg.Timeout = scrapeFlags.timeout.String()
	}
	return cfg, cfg.Validate()
}

func openSinks(ctx context.Context, cfg config.Config) ([]store.Sink, func(), error) {
	sinks := []store.Sink{store.CSV{Dir: filepath.Join(cfg.OutputDir, "csv")}}
	cleanup := func() {}

	if cfg.SQLite != "" {
		db, err := store.OpenSQLite(cfg.SQLite)
		if err != nil {
			return nil, cleanup, err
		}
		sinks = append(sinks, db)
		cleanup = func() { db.Close() }
	}

	if cfg.DynamoPlayersTable != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, cleanup, err
		}
		sinks = append(sinks, store.NewDynamo(ddb.NewFromConfig(awsCfg), cfg.DynamoPlayersTable, cfg.DynamoEpisodesTable))
	}
	return sinks, cleanup, nil
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrapes every configured series and writes players and episodes tables.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		timeout, err := cfg.RequestTimeout()
		if err != nil {
			return err
		}

		if cfg.OutputDir != "." {
			if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
				return err
			}
			slog.Info("using output directory", "dir", cfg.OutputDir)
		}

		client := scraper.NewClient(scraper.ClientOptions{
			Timeout:   timeout,
			UserAgent: cfg.UserAgent,
			CacheDir:  cfg.CacheDir,
		})

		t1 := time.Now()
		res, err := extractor.New(client, cfg.ExtractorOptions()).Run(ctx)
		if err != nil {
			return err
		}
		slog.Info("scraping time", "seconds", time.Since(t1).Seconds())

		utils.DisplaySeriesSummaries(os.Stdout, res.Summaries)

		if report := analysis.ValidateReferences(res.Players, res.Episodes); !report.OK() {
			slog.Warn("players reference unknown episodes", "detail", report.Error())
		}

		sinks, cleanup, err := openSinks(ctx, cfg)
		defer cleanup()
		if err != nil {
			return err
		}
		return store.WriteAll(ctx, sinks, res.Players, res.Episodes)
	},
}
