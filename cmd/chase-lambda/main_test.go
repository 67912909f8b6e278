package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvInt(t *testing.T) {
	t.Setenv("FIRST_SERIES", "")
	n, err := envInt("FIRST_SERIES", 1)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	t.Setenv("FIRST_SERIES", "4")
	n, err = envInt("FIRST_SERIES", 1)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	t.Setenv("FIRST_SERIES", "four")
	_, err = envInt("FIRST_SERIES", 1)
	require.ErrorContains(t, err, "FIRST_SERIES")
}

func TestHandlerRejectsMalformedSeries(t *testing.T) {
	t.Setenv("PLAYERS_TABLE_NAME", "players")
	t.Setenv("EPISODES_TABLE_NAME", "episodes")

	for _, k := range []string{"FIRST_SERIES", "LAST_SERIES"} {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, "1O")
			_, err := handler(context.Background(), Event{})
			require.ErrorContains(t, err, k)
		})
	}
}
