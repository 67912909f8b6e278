package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/myusername/chase-results-scraper/internal/store"
	"github.com/myusername/chase-results-scraper/internal/utils"
	"github.com/myusername/chase-results-scraper/pkg/analysis"
	"github.com/myusername/chase-results-scraper/pkg/models"
)

var reportFlags struct {
	input  string
	sqlite string
	bucket float64
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportFlags.input, "input", "csv", "Directory holding players.csv and episodes.csv")
	f.StringVar(&reportFlags.sqlite, "sqlite", "", "Read from this SQLite database instead of CSV files")
	f.Float64Var(&reportFlags.bucket, "bucket", 2000, "Cash builder bucket width in pounds")
	rootCmd.AddCommand(reportCmd)
}

func loadResults(cmd *cobra.Command) ([]models.PlayerResult, []models.EpisodeResult, error) {
	if reportFlags.sqlite != "" {
		db, err := store.OpenSQLite(reportFlags.sqlite)
		if err != nil {
			return nil, nil, err
		}
		defer db.Close()
		players, err := db.Players(cmd.Context())
		if err != nil {
			return nil, nil, err
		}
		episodes, err := db.Episodes(cmd.Context())
		return players, episodes, err
	}

	players, err := utils.LoadPlayersCSV(filepath.Join(reportFlags.input, utils.PlayersFile))
	if err != nil {
		return nil, nil, err
	}
	episodes, err := utils.LoadEpisodesCSV(filepath.Join(reportFlags.input, utils.EpisodesFile))
	return players, episodes, err
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Prints win rates by offer, cash builder and team size from scraped results.",
	RunE: func(cmd *cobra.Command, args []string) error {
		players, episodes, err := loadResults(cmd)
		if err != nil {
			return err
		}
		if len(players) == 0 || len(episodes) == 0 {
			return fmt.Errorf("no results to report on")
		}

		out := os.Stdout
		utils.DisplayOfferRates(out, analysis.WinRateByOffer(players))
		utils.DisplayCashBuilderRates(out, analysis.WinRateByCashBuilder(players, reportFlags.bucket), reportFlags.bucket)
		utils.DisplayTeamSizeRates(out, analysis.WinRateByTeamSize(episodes))
		utils.DisplayOfferComposition(out, analysis.OfferByTeamSize(players, episodes))
		utils.DisplayReferenceReport(out, analysis.ValidateReferences(players, episodes))
		return nil
	},
}
