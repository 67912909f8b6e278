package parser

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/myusername/chase-results-scraper/pkg/models"
)

func playerRow(date, number string) []string {
	return []string{date, number, "Sarah", "£5,000", "The Beast", "£1,000", "£40,000", "=", "Home 2", "7", "Team won by 4", "£5,000"}
}

func episodeRow(date string) []string {
	return []string{date, "1/1", "Sarah, Ben", "The Beast", "2", "£12,000", "18 + 2", "Team won by 4", "3", "1", "67%", "2.4", "watch"}
}

func TestPlayerFromRow(t *testing.T) {
	got, err := PlayerFromRow(playerRow("28/06/2010", "P1"))
	require.NoError(t, err)

	expected := models.PlayerResult{
		Date:              time.Date(2010, time.June, 28, 0, 0, 0, 0, time.UTC),
		PlayerNumber:      1,
		Name:              "Sarah",
		CashBuilder:       models.Pounds(5000),
		Chaser:            "The Beast",
		LowerOffer:        models.Pounds(1000),
		HigherOffer:       models.Pounds(40000),
		ChosenOffer:       models.OfferMiddle,
		HTHWinner:         models.Player,
		HTHMargin:         2,
		FinalChaseCorrect: models.Int(7),
		FinalChaseWinner:  models.Team,
		FinalChaseMargin:  4,
		AmountWon:         models.Pounds(5000),
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("PlayerFromRow mismatch (-want +got):\n%s", diff)
	}
	require.False(t, got.Assigned())
}

func TestPlayerFromRowCaught(t *testing.T) {
	row := playerRow("28/06/2010", "P4")
	row[5], row[6], row[7] = "No offer", "£30,000", `/\`
	row[8], row[9], row[11] = "Caught 5", "", "£0"

	got, err := PlayerFromRow(row)
	require.NoError(t, err)
	require.False(t, got.LowerOffer.Valid)
	require.Equal(t, models.OfferHigher, got.ChosenOffer)
	require.Equal(t, models.Chaser, got.HTHWinner)
	require.Equal(t, 5, got.HTHMargin)
	require.False(t, got.FinalChaseCorrect.Valid)
	require.Equal(t, models.Pounds(0), got.AmountWon)
}

func TestPlayerFromRowErrors(t *testing.T) {
	_, err := PlayerFromRow(playerRow("28/06/2010", "P1")[:11])
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	require.Equal(t, "row", formatErr.Field)

	row := playerRow("28/06/2010", "P1")
	row[7] = ""
	_, err = PlayerFromRow(row)
	require.ErrorAs(t, err, &formatErr)
	require.Equal(t, "chosen offer", formatErr.Field)

	row = playerRow("2010-06-28", "P1")
	_, err = PlayerFromRow(row)
	require.ErrorAs(t, err, &formatErr)
	require.Equal(t, "date", formatErr.Field)
}

func TestEpisodeFromRow(t *testing.T) {
	got, err := EpisodeFromRow(episodeRow("28/06/2010"))
	require.NoError(t, err)

	expected := models.EpisodeResult{
		Date:                time.Date(2010, time.June, 28, 0, 0, 0, 0, time.UTC),
		Team:                "Sarah, Ben",
		Chaser:              "The Beast",
		PlayersInFinalChase: 2,
		PrizeFund:           models.Pounds(12000),
		Target:              18,
		Winner:              models.Team,
		WinnerMargin:        4,
		PushbacksAttempted:  3,
		PushbacksCompleted:  1,
		ChaserAccuracy:      67,
		ChaserSpeed:         2.4,
		FinalChaseVideo:     "watch",
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("EpisodeFromRow mismatch (-want +got):\n%s", diff)
	}
}

func TestEpisodeFromRowChaserWin(t *testing.T) {
	row := episodeRow("28/06/2010")
	row[4], row[5], row[6], row[7] = "0", "£0", "9", "Chaser 00:23"

	got, err := EpisodeFromRow(row)
	require.NoError(t, err)
	require.Equal(t, 0, got.PlayersInFinalChase)
	require.Equal(t, 9, got.Target)
	require.Equal(t, models.Chaser, got.Winner)
	require.Equal(t, 23, got.WinnerMargin)
}

func TestEpisodeFromRowInvariants(t *testing.T) {
	testCases := []struct {
		col   int
		value string
		field string
	}{
		{col: 4, value: "5", field: "players in final chase"},
		{col: 4, value: "-1", field: "players in final chase"},
		{col: 9, value: "4", field: "pushbacks completed"},
		{col: 10, value: "sixty", field: "percent"},
		{col: 11, value: "fast", field: "chaser speed"},
		{col: 7, value: "Draw", field: "final chase result"},
	}

	for _, test := range testCases {
		row := episodeRow("28/06/2010")
		row[test.col] = test.value
		_, err := EpisodeFromRow(row)
		var formatErr *FormatError
		require.ErrorAs(t, err, &formatErr, test.value)
		require.Equal(t, test.field, formatErr.Field, test.value)
	}

	_, err := EpisodeFromRow(append(episodeRow("28/06/2010"), "extra"))
	require.Error(t, err)
}
