package store

import (
	"context"
	"testing"
	"time"

	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"github.com/myusername/chase-results-scraper/pkg/models"
)

type fakeDDB struct {
	calls     int
	failFirst bool
	puts      map[string]int
	items     []map[string]types.AttributeValue
}

func (f *fakeDDB) BatchWriteItem(ctx context.Context, in *ddb.BatchWriteItemInput, _ ...func(*ddb.Options)) (*ddb.BatchWriteItemOutput, error) {
	f.calls++
	if f.puts == nil {
		f.puts = map[string]int{}
	}
	out := &ddb.BatchWriteItemOutput{}
	for table, reqs := range in.RequestItems {
		// hand the last request back once to exercise the retry path
		if f.failFirst && f.calls == 1 && len(reqs) > 1 {
			out.UnprocessedItems = map[string][]types.WriteRequest{table: reqs[len(reqs)-1:]}
			reqs = reqs[:len(reqs)-1]
		}
		for _, r := range reqs {
			f.puts[table]++
			f.items = append(f.items, r.PutRequest.Item)
		}
	}
	return out, nil
}

func TestDynamoBatchesAndRetries(t *testing.T) {
	fake := &fakeDDB{failFirst: true}
	d := NewDynamo(fake, "players", "episodes")
	d.backoff = time.Millisecond

	require.NoError(t, d.WritePlayers(context.Background(), samplePlayers(30)))
	// 25 with one unprocessed, its retry, then the remaining 5
	require.Equal(t, 3, fake.calls)
	require.Equal(t, 30, fake.puts["players"])
}

func TestDynamoItems(t *testing.T) {
	fake := &fakeDDB{}
	d := NewDynamo(fake, "players", "episodes")

	require.NoError(t, WriteAll(context.Background(), []Sink{d}, samplePlayers(2), sampleEpisodes(1)))
	require.Equal(t, 2, fake.puts["players"])
	require.Equal(t, 1, fake.puts["episodes"])

	first := fake.items[0]
	require.Equal(t, &types.AttributeValueMemberS{Value: "S02E001"}, first["SeriesEpisode"])
	require.Equal(t, &types.AttributeValueMemberN{Value: "1"}, first["PlayerNumber"])
	require.NotContains(t, first, "LowerOffer")
	require.Equal(t, &types.AttributeValueMemberN{Value: "0"}, first["FinalChaseCorrect"])

	second := fake.items[1]
	require.Equal(t, &types.AttributeValueMemberN{Value: "500"}, second["LowerOffer"])
	require.NotContains(t, second, "FinalChaseCorrect")

	episode := fake.items[2]
	require.Equal(t, &types.AttributeValueMemberN{Value: "0"}, episode["PrizeFund"])
	require.Equal(t, &types.AttributeValueMemberS{Value: "2011-03-02"}, episode["Date"])
}

type stuckDDB struct{ calls int }

func (s *stuckDDB) BatchWriteItem(_ context.Context, in *ddb.BatchWriteItemInput, _ ...func(*ddb.Options)) (*ddb.BatchWriteItemOutput, error) {
	s.calls++
	return &ddb.BatchWriteItemOutput{UnprocessedItems: in.RequestItems}, nil
}

func TestDynamoGivesUp(t *testing.T) {
	stuck := &stuckDDB{}
	d := NewDynamo(stuck, "players", "episodes")
	d.backoff = time.Microsecond

	err := d.WriteEpisodes(context.Background(), sampleEpisodes(3))
	require.ErrorContains(t, err, "unprocessed items remain after retries in episodes")
	require.Equal(t, 8, stuck.calls)
}

func TestDynamoCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDynamo(&stuckDDB{}, "players", "episodes")
	err := d.WritePlayers(ctx, []models.PlayerResult{samplePlayers(1)[0]})
	require.ErrorIs(t, err, context.Canceled)
}
