package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	players, episodes := samplePlayers(8), sampleEpisodes(2)
	require.NoError(t, WriteAll(ctx, []Sink{db}, players, episodes))

	gotPlayers, err := db.Players(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(players, gotPlayers); diff != "" {
		t.Fatalf("players mismatch (-want +got):\n%s", diff)
	}

	gotEpisodes, err := db.Episodes(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(episodes, gotEpisodes); diff != "" {
		t.Fatalf("episodes mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteReplacesPreviousRun(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chase.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, WriteAll(ctx, []Sink{db}, samplePlayers(8), sampleEpisodes(2)))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, WriteAll(ctx, []Sink{db}, samplePlayers(4), sampleEpisodes(1)))

	players, err := db.Players(ctx)
	require.NoError(t, err)
	require.Len(t, players, 4)

	episodes, err := db.Episodes(ctx)
	require.NoError(t, err)
	require.Len(t, episodes, 1)
}

func TestSQLiteRejectsDuplicateEpisode(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	episodes := sampleEpisodes(2)
	episodes[1] = episodes[1].At(2, 1)
	err = db.WriteEpisodes(context.Background(), episodes)
	require.ErrorContains(t, err, "insert episode S02E001")

	got, err := db.Episodes(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
}
