package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/myusername/chase-results-scraper/internal/utils"
	"github.com/myusername/chase-results-scraper/pkg/models"
)

func samplePlayers(n int) []models.PlayerResult {
	date := time.Date(2011, time.March, 2, 0, 0, 0, 0, time.UTC)
	out := make([]models.PlayerResult, 0, n)
	for i := 0; i < n; i++ {
		p := models.PlayerResult{
			Date:             date,
			PlayerNumber:     i%4 + 1,
			Name:             "Player",
			CashBuilder:      models.Pounds(float64(1000 * i)),
			Chaser:           "The Dark Destroyer",
			LowerOffer:       models.Pounds(500),
			HigherOffer:      models.Pounds(25000),
			ChosenOffer:      models.OfferMiddle,
			HTHWinner:        models.Player,
			HTHMargin:        3,
			FinalChaseWinner: models.Chaser,
			FinalChaseMargin: 12,
			AmountWon:        models.Pounds(0),
		}
		if i%2 == 0 {
			p.LowerOffer = models.Money{}
			p.FinalChaseCorrect = models.Int(i)
		}
		out = append(out, p.At(2, i/4+1))
	}
	return out
}

func sampleEpisodes(n int) []models.EpisodeResult {
	out := make([]models.EpisodeResult, 0, n)
	for i := 0; i < n; i++ {
		e := models.EpisodeResult{
			Date:                time.Date(2011, time.March, 2+i, 0, 0, 0, 0, time.UTC),
			Team:                "A, B",
			Chaser:              "The Dark Destroyer",
			PlayersInFinalChase: 2,
			PrizeFund:           models.Pounds(10000),
			Target:              17,
			Winner:              models.Chaser,
			WinnerMargin:        12,
			PushbacksAttempted:  2,
			PushbacksCompleted:  1,
			ChaserAccuracy:      80,
			ChaserSpeed:         1.9,
			FinalChaseVideo:     "",
		}
		if i == 0 {
			e.PrizeFund = models.Pounds(0)
		}
		out = append(out, e.At(2, i+1))
	}
	return out
}

type failingSink struct {
	err     error
	written bool
}

func (f *failingSink) Name() string { return "failing" }

func (f *failingSink) WritePlayers(context.Context, []models.PlayerResult) error {
	return f.err
}

func (f *failingSink) WriteEpisodes(context.Context, []models.EpisodeResult) error {
	f.written = true
	return nil
}

func TestWriteAllStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	failing := &failingSink{err: boom}
	dir := t.TempDir()

	err := WriteAll(context.Background(), []Sink{failing, CSV{Dir: dir}}, samplePlayers(4), sampleEpisodes(1))
	var sinkErr *SinkError
	require.ErrorAs(t, err, &sinkErr)
	require.Equal(t, "failing", sinkErr.Sink)
	require.ErrorIs(t, err, boom)
	require.False(t, failing.written)
	require.NoFileExists(t, filepath.Join(dir, utils.PlayersFile))
}

func TestCSVSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "csv")
	players, episodes := samplePlayers(8), sampleEpisodes(2)

	require.NoError(t, WriteAll(context.Background(), []Sink{CSV{Dir: dir}}, players, episodes))

	gotPlayers, err := utils.LoadPlayersCSV(filepath.Join(dir, utils.PlayersFile))
	require.NoError(t, err)
	require.Equal(t, players, gotPlayers)

	gotEpisodes, err := utils.LoadEpisodesCSV(filepath.Join(dir, utils.EpisodesFile))
	require.NoError(t, err)
	require.Equal(t, episodes, gotEpisodes)
}
