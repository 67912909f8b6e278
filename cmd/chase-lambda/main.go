// Package main runs a scrape as an AWS Lambda and stores the results in DynamoDB
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/myusername/chase-results-scraper/internal/store"
	"github.com/myusername/chase-results-scraper/pkg/extractor"
	"github.com/myusername/chase-results-scraper/pkg/scraper"
)

// Event optionally narrows the series range for a single invocation
type Event struct {
	FirstSeries int `json:"first_series"`
	LastSeries  int `json:"last_series"`
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing env %s", k)
	}
	return v
}

// envInt reads an optional integer env var. A set but malformed value is an error.
func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func handler(ctx context.Context, e Event) (string, error) {
	playersTable := mustenv("PLAYERS_TABLE_NAME")
	episodesTable := mustenv("EPISODES_TABLE_NAME")

	opts := extractor.DefaultOptions()
	first, err := envInt("FIRST_SERIES", opts.FirstSeries)
	if err != nil {
		return "", err
	}
	last, err := envInt("LAST_SERIES", opts.LastSeries)
	if err != nil {
		return "", err
	}
	opts.FirstSeries, opts.LastSeries = first, last
	if e.FirstSeries > 0 {
		opts.FirstSeries = e.FirstSeries
	}
	if e.LastSeries > 0 {
		opts.LastSeries = e.LastSeries
	}

	timeout, err := time.ParseDuration(getenv("REQUEST_TIMEOUT", "30s"))
	if err != nil {
		return "", fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}
	client := scraper.NewClient(scraper.ClientOptions{Timeout: timeout})

	res, err := extractor.New(client, opts).Run(ctx)
	if err != nil {
		return "", err
	}

	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("aws config: %w", err)
	}
	sink := store.NewDynamo(ddb.NewFromConfig(awsCfg), playersTable, episodesTable)
	if err := store.WriteAll(ctx, []store.Sink{sink}, res.Players, res.Episodes); err != nil {
		return "", err
	}

	msg := fmt.Sprintf("stored %d players and %d episodes from series %d-%d",
		len(res.Players), len(res.Episodes), opts.FirstSeries, opts.LastSeries)
	slog.Info(msg)
	return msg, nil
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	lambda.Start(handler)
}
