package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/myusername/chase-results-scraper/pkg/models"
)

type DynamoDBAPI interface {
	BatchWriteItem(ctx context.Context, params *ddb.BatchWriteItemInput, optFns ...func(*ddb.Options)) (*ddb.BatchWriteItemOutput, error)
}

// Dynamo writes results into two DynamoDB tables.
//
//	players:  PK SeriesEpisode (S, "S01E001"), SK PlayerNumber (N)
//	episodes: PK Series (N), SK Episode (N)
type Dynamo struct {
	client        DynamoDBAPI
	playersTable  string
	episodesTable string
	// first backoff after unprocessed items come back
	backoff time.Duration
}

func NewDynamo(client DynamoDBAPI, playersTable, episodesTable string) *Dynamo {
	return &Dynamo{
		client:        client,
		playersTable:  playersTable,
		episodesTable: episodesTable,
		backoff:       100 * time.Millisecond,
	}
}

func (d *Dynamo) Name() string { return "dynamodb" }

func attrS(v string) types.AttributeValue { return &types.AttributeValueMemberS{Value: v} }
func attrN(v int) types.AttributeValue { return &types.AttributeValueMemberN{Value: strconv.Itoa(v)} }
func attrF(v float64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatFloat(v, 'f', -1, 64)}
}

// absent values are left out of the item
func putMoney(item map[string]types.AttributeValue, key string, m models.Money) {
	if m.Valid {
		item[key] = attrF(m.Pounds)
	}
}

func playerItem(p models.PlayerResult) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		"SeriesEpisode":    attrS(p.Key().String()),
		"PlayerNumber":     attrN(p.PlayerNumber),
		"Series":           attrN(p.Series),
		"Episode":          attrN(p.Episode),
		"Date":             attrS(p.Date.Format(dateLayout)),
		"Name":             attrS(p.Name),
		"Chaser":           attrS(p.Chaser),
		"ChosenOffer":      attrN(p.ChosenOffer),
		"HTHWinner":        attrS(string(p.HTHWinner)),
		"HTHMargin":        attrN(p.HTHMargin),
		"FinalChaseWinner": attrS(string(p.FinalChaseWinner)),
		"FinalChaseMargin": attrN(p.FinalChaseMargin),
	}
	putMoney(item, "CashBuilder", p.CashBuilder)
	putMoney(item, "LowerOffer", p.LowerOffer)
	putMoney(item, "HigherOffer", p.HigherOffer)
	putMoney(item, "AmountWon", p.AmountWon)
	if p.FinalChaseCorrect.Valid {
		item["FinalChaseCorrect"] = attrN(p.FinalChaseCorrect.Value)
	}
	return item
}

func episodeItem(e models.EpisodeResult) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		"Series":              attrN(e.Series),
		"Episode":             attrN(e.Episode),
		"Date":                attrS(e.Date.Format(dateLayout)),
		"Team":                attrS(e.Team),
		"Chaser":              attrS(e.Chaser),
		"PlayersInFinalChase": attrN(e.PlayersInFinalChase),
		"Target":              attrN(e.Target),
		"Winner":              attrS(string(e.Winner)),
		"WinnerMargin":        attrN(e.WinnerMargin),
		"PushbacksAttempted":  attrN(e.PushbacksAttempted),
		"PushbacksCompleted":  attrN(e.PushbacksCompleted),
		"ChaserAccuracy":      attrN(e.ChaserAccuracy),
		"ChaserSpeed":         attrF(e.ChaserSpeed),
		"FinalChaseVideo":     attrS(e.FinalChaseVideo),
	}
	putMoney(item, "PrizeFund", e.PrizeFund)
	return item
}

func (d *Dynamo) WritePlayers(ctx context.Context, players []models.PlayerResult) error {
	items := make([]map[string]types.AttributeValue, len(players))
	for i, p := range players {
		items[i] = playerItem(p)
	}
	return d.putItems(ctx, d.playersTable, items)
}

func (d *Dynamo) WriteEpisodes(ctx context.Context, episodes []models.EpisodeResult) error {
	items := make([]map[string]types.AttributeValue, len(episodes))
	for i, e := range episodes {
		items[i] = episodeItem(e)
	}
	return d.putItems(ctx, d.episodesTable, items)
}

// putItems writes items in batches of 25 with retries for UnprocessedItems.
func (d *Dynamo) putItems(ctx context.Context, tableName string, items []map[string]types.AttributeValue) error {
	const maxBatch = 25
	for i := 0; i < len(items); i += maxBatch {
		end := min(i+maxBatch, len(items))

		wrs := make([]types.WriteRequest, 0, end-i)
		for _, item := range items[i:end] {
			wrs = append(wrs, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
		}

		unprocessed := map[string][]types.WriteRequest{tableName: wrs}
		backoff := d.backoff
		for attempt := 0; attempt < 8 && len(unprocessed) > 0; attempt++ {
			out, err := d.client.BatchWriteItem(ctx, &ddb.BatchWriteItemInput{
				RequestItems: unprocessed,
			})
			if err != nil {
				return err
			}
			unprocessed = out.UnprocessedItems
			if len(unprocessed) == 0 {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, 3*time.Second)
		}
		if len(unprocessed) > 0 {
			return fmt.Errorf("unprocessed items remain after retries in %s", tableName)
		}
	}
	return nil
}
