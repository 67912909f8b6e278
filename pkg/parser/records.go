package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/myusername/chase-results-scraper/pkg/models"
)

// Column counts of the two results tables
const (
	PlayerColumns  = 12
	EpisodeColumns = 13
)

// Player table columns
const (
	colPlayerDate = iota
	colPlayerNumber
	colPlayerName
	colPlayerCashBuilder
	colPlayerChaser
	colPlayerLowerOffer
	colPlayerHigherOffer
	colPlayerChosenOffer
	colPlayerHeadToHead
	colPlayerFinalChaseCorrect
	colPlayerFinalChaseResult
	colPlayerAmountWon
)

// Episode table columns
const (
	colEpisodeDate = iota
	colEpisodeCode
	colEpisodeTeam
	colEpisodeChaser
	colEpisodePlayersInFinalChase
	colEpisodePrizeFund
	colEpisodeTarget
	colEpisodeResult
	colEpisodePushbacksAttempted
	colEpisodePushbacksCompleted
	colEpisodeChaserAccuracy
	colEpisodeChaserSpeed
	colEpisodeVideo
)

func checkColumns(cells []string, want int) error {
	if len(cells) != want {
		return formatError("row", strings.Join(cells, " | "),
			fmt.Errorf("expected %d columns, got %d", want, len(cells)))
	}
	return nil
}

// PlayerFromRow builds a player result from the cells of one players table
// row. Series and episode are left unassigned.
func PlayerFromRow(cells []string) (models.PlayerResult, error) {
	var p models.PlayerResult
	if err := checkColumns(cells, PlayerColumns); err != nil {
		return p, err
	}

	date, err := ParseDate(cells[colPlayerDate])
	if err != nil {
		return p, err
	}
	number, err := ParsePlayerNumber(cells[colPlayerNumber])
	if err != nil {
		return p, err
	}
	cashBuilder, err := ParseMoney(cells[colPlayerCashBuilder])
	if err != nil {
		return p, err
	}
	lower, err := ParseMoney(cells[colPlayerLowerOffer])
	if err != nil {
		return p, err
	}
	higher, err := ParseMoney(cells[colPlayerHigherOffer])
	if err != nil {
		return p, err
	}
	chosen, err := ParseChosenOffer(cells[colPlayerChosenOffer])
	if err != nil {
		return p, err
	}
	hth, err := ParseHeadToHead(cells[colPlayerHeadToHead])
	if err != nil {
		return p, err
	}
	correct, err := ParseFinalChaseCorrect(cells[colPlayerFinalChaseCorrect])
	if err != nil {
		return p, err
	}
	fc, err := ParseFinalChaseResult(cells[colPlayerFinalChaseResult])
	if err != nil {
		return p, err
	}
	won, err := ParseMoney(cells[colPlayerAmountWon])
	if err != nil {
		return p, err
	}

	return models.PlayerResult{
		Date:              date,
		PlayerNumber:      number,
		Name:              strings.TrimSpace(cells[colPlayerName]),
		CashBuilder:       cashBuilder,
		Chaser:            strings.TrimSpace(cells[colPlayerChaser]),
		LowerOffer:        lower,
		HigherOffer:       higher,
		ChosenOffer:       chosen,
		HTHWinner:         hth.Winner,
		HTHMargin:         hth.Margin,
		FinalChaseCorrect: correct,
		FinalChaseWinner:  fc.Winner,
		FinalChaseMargin:  fc.Margin,
		AmountWon:         won,
	}, nil
}

var (
	errTeamSize  = errors.New("team size must be between 0 and 4")
	errPushbacks = errors.New("more pushbacks completed than attempted")
)

// EpisodeFromRow builds an episode result from the cells of one episodes
// table row. Series and episode are left unassigned; the episode code cell
// is not used for numbering.
func EpisodeFromRow(cells []string) (models.EpisodeResult, error) {
	var e models.EpisodeResult
	if err := checkColumns(cells, EpisodeColumns); err != nil {
		return e, err
	}

	// final chase outcome first, the rest of the row is plain values
	fc, err := ParseFinalChaseResult(cells[colEpisodeResult])
	if err != nil {
		return e, err
	}
	target, _, err := ParseFinalChaseTarget(cells[colEpisodeTarget])
	if err != nil {
		return e, err
	}

	date, err := ParseDate(cells[colEpisodeDate])
	if err != nil {
		return e, err
	}
	teamSize, err := parseInt("players in final chase", cells[colEpisodePlayersInFinalChase])
	if err != nil {
		return e, err
	}
	if teamSize < 0 || teamSize > 4 {
		return e, formatError("players in final chase", cells[colEpisodePlayersInFinalChase], errTeamSize)
	}
	prize, err := ParseMoney(cells[colEpisodePrizeFund])
	if err != nil {
		return e, err
	}
	attempted, err := parseInt("pushbacks attempted", cells[colEpisodePushbacksAttempted])
	if err != nil {
		return e, err
	}
	completed, err := parseInt("pushbacks completed", cells[colEpisodePushbacksCompleted])
	if err != nil {
		return e, err
	}
	if completed > attempted {
		return e, formatError("pushbacks completed", cells[colEpisodePushbacksCompleted], errPushbacks)
	}
	accuracy, err := ParsePercent(cells[colEpisodeChaserAccuracy])
	if err != nil {
		return e, err
	}
	speed, err := parseFloat("chaser speed", cells[colEpisodeChaserSpeed])
	if err != nil {
		return e, err
	}

	return models.EpisodeResult{
		Date:                date,
		Team:                strings.TrimSpace(cells[colEpisodeTeam]),
		Chaser:              strings.TrimSpace(cells[colEpisodeChaser]),
		PlayersInFinalChase: teamSize,
		PrizeFund:           prize,
		Target:              target,
		Winner:              fc.Winner,
		WinnerMargin:        fc.Margin,
		PushbacksAttempted:  attempted,
		PushbacksCompleted:  completed,
		ChaserAccuracy:      accuracy,
		ChaserSpeed:         speed,
		FinalChaseVideo:     strings.TrimSpace(cells[colEpisodeVideo]),
	}, nil
}
