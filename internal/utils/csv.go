package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/myusername/chase-results-scraper/pkg/models"
)

// Output file names
const (
	PlayersFile  = "players.csv"
	EpisodesFile = "episodes.csv"
)

// CSVDate is the date layout written to the output files
const CSVDate = "2006-01-02"

var PlayerHeader = []string{
	"series", "episode", "date", "player_number", "name", "cash_builder", "chaser",
	"lower_offer", "higher_offer", "chosen_offer", "hth_winner", "hth_margin",
	"final_chase_correct", "final_chase_winner", "final_chase_margin", "amount_won",
}

var EpisodeHeader = []string{
	"series", "episode", "date", "team", "chaser", "players_in_final_chase", "prize_fund",
	"target", "winner", "winner_margin", "pushbacks_attempted", "pushbacks_completed",
	"chaser_accuracy", "chaser_speed", "final_chase_video",
}

func formatMoney(m models.Money) string {
	if !m.Valid {
		return ""
	}
	return strconv.FormatFloat(m.Pounds, 'f', -1, 64)
}

func formatNullInt(n models.NullInt) string {
	if !n.Valid {
		return ""
	}
	return strconv.Itoa(n.Value)
}

func playerRecord(p models.PlayerResult) []string {
	return []string{
		strconv.Itoa(p.Series),
		strconv.Itoa(p.Episode),
		p.Date.Format(CSVDate),
		strconv.Itoa(p.PlayerNumber),
		p.Name,
		formatMoney(p.CashBuilder),
		p.Chaser,
		formatMoney(p.LowerOffer),
		formatMoney(p.HigherOffer),
		strconv.Itoa(p.ChosenOffer),
		string(p.HTHWinner),
		strconv.Itoa(p.HTHMargin),
		formatNullInt(p.FinalChaseCorrect),
		string(p.FinalChaseWinner),
		strconv.Itoa(p.FinalChaseMargin),
		formatMoney(p.AmountWon),
	}
}

func episodeRecord(e models.EpisodeResult) []string {
	return []string{
		strconv.Itoa(e.Series),
		strconv.Itoa(e.Episode),
		e.Date.Format(CSVDate),
		e.Team,
		e.Chaser,
		strconv.Itoa(e.PlayersInFinalChase),
		formatMoney(e.PrizeFund),
		strconv.Itoa(e.Target),
		string(e.Winner),
		strconv.Itoa(e.WinnerMargin),
		strconv.Itoa(e.PushbacksAttempted),
		strconv.Itoa(e.PushbacksCompleted),
		strconv.Itoa(e.ChaserAccuracy),
		strconv.FormatFloat(e.ChaserSpeed, 'f', -1, 64),
		e.FinalChaseVideo,
	}
}

// WritePlayersCSV writes the players table with a header row
func WritePlayersCSV(w io.Writer, players []models.PlayerResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PlayerHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range players {
		if err := cw.Write(playerRecord(p)); err != nil {
			return fmt.Errorf("failed to write player data: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEpisodesCSV writes the episodes table with a header row
func WriteEpisodesCSV(w io.Writer, episodes []models.EpisodeResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(EpisodeHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, e := range episodes {
		if err := cw.Write(episodeRecord(e)); err != nil {
			return fmt.Errorf("failed to write episode data: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SavePlayersToCSV saves the players table to a CSV file
func SavePlayersToCSV(players []models.PlayerResult, filename string) error {
	return saveFile(filename, func(w io.Writer) error { return WritePlayersCSV(w, players) })
}

// SaveEpisodesToCSV saves the episodes table to a CSV file
func SaveEpisodesToCSV(episodes []models.EpisodeResult, filename string) error {
	return saveFile(filename, func(w io.Writer) error { return WriteEpisodesCSV(w, episodes) })
}

// saveFile writes to a temp file next to filename and renames it into place,
// so a failed write never leaves a truncated file behind.
func saveFile(filename string, write func(io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmp := f.Name()
	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, filename); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", filename, err)
	}
	return nil
}

// columns maps header names to their index in a record
type columns map[string]int

func readTable(r io.Reader, header []string) (columns, [][]string, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("missing header row")
	}
	cols := columns{}
	for i, name := range records[0] {
		cols[name] = i
	}
	for _, name := range header {
		if _, ok := cols[name]; !ok {
			return nil, nil, fmt.Errorf("missing column %q", name)
		}
	}
	return cols, records[1:], nil
}

// rowReader reads typed values out of one record, keeping the first error
type rowReader struct {
	cols   columns
	record []string
	line   int
	err    error
}

func (r *rowReader) str(name string) string {
	return r.record[r.cols[name]]
}

func (r *rowReader) fail(name string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("line %d column %s: %w", r.line, name, err)
	}
}

func (r *rowReader) atoi(name string) int {
	n, err := strconv.Atoi(r.str(name))
	if err != nil {
		r.fail(name, err)
	}
	return n
}

func (r *rowReader) num(name string) float64 {
	v, err := strconv.ParseFloat(r.str(name), 64)
	if err != nil {
		r.fail(name, err)
	}
	return v
}

func (r *rowReader) money(name string) models.Money {
	if r.str(name) == "" {
		return models.Money{}
	}
	return models.Pounds(r.num(name))
}

func (r *rowReader) nullInt(name string) models.NullInt {
	if r.str(name) == "" {
		return models.NullInt{}
	}
	return models.Int(r.atoi(name))
}

func (r *rowReader) date(name string) time.Time {
	t, err := time.Parse(CSVDate, r.str(name))
	if err != nil {
		r.fail(name, err)
	}
	return t
}

// ReadPlayersCSV reads a players table written by WritePlayersCSV
func ReadPlayersCSV(r io.Reader) ([]models.PlayerResult, error) {
	cols, records, err := readTable(r, PlayerHeader)
	if err != nil {
		return nil, fmt.Errorf("players csv: %w", err)
	}
	players := make([]models.PlayerResult, 0, len(records))
	for i, rec := range records {
		rr := &rowReader{cols: cols, record: rec, line: i + 2}
		p := models.PlayerResult{
			Series:            rr.atoi("series"),
			Episode:           rr.atoi("episode"),
			Date:              rr.date("date"),
			PlayerNumber:      rr.atoi("player_number"),
			Name:              rr.str("name"),
			CashBuilder:       rr.money("cash_builder"),
			Chaser:            rr.str("chaser"),
			LowerOffer:        rr.money("lower_offer"),
			HigherOffer:       rr.money("higher_offer"),
			ChosenOffer:       rr.atoi("chosen_offer"),
			HTHWinner:         models.Personnel(rr.str("hth_winner")),
			HTHMargin:         rr.atoi("hth_margin"),
			FinalChaseCorrect: rr.nullInt("final_chase_correct"),
			FinalChaseWinner:  models.Personnel(rr.str("final_chase_winner")),
			FinalChaseMargin:  rr.atoi("final_chase_margin"),
			AmountWon:         rr.money("amount_won"),
		}
		if rr.err != nil {
			return nil, fmt.Errorf("players csv: %w", rr.err)
		}
		players = append(players, p)
	}
	return players, nil
}

// ReadEpisodesCSV reads an episodes table written by WriteEpisodesCSV
func ReadEpisodesCSV(r io.Reader) ([]models.EpisodeResult, error) {
	cols, records, err := readTable(r, EpisodeHeader)
	if err != nil {
		return nil, fmt.Errorf("episodes csv: %w", err)
	}
	episodes := make([]models.EpisodeResult, 0, len(records))
	for i, rec := range records {
		rr := &rowReader{cols: cols, record: rec, line: i + 2}
		e := models.EpisodeResult{
			Series:              rr.atoi("series"),
			Episode:             rr.atoi("episode"),
			Date:                rr.date("date"),
			Team:                rr.str("team"),
			Chaser:              rr.str("chaser"),
			PlayersInFinalChase: rr.atoi("players_in_final_chase"),
			PrizeFund:           rr.money("prize_fund"),
			Target:              rr.atoi("target"),
			Winner:              models.Personnel(rr.str("winner")),
			WinnerMargin:        rr.atoi("winner_margin"),
			PushbacksAttempted:  rr.atoi("pushbacks_attempted"),
			PushbacksCompleted:  rr.atoi("pushbacks_completed"),
			ChaserAccuracy:      rr.atoi("chaser_accuracy"),
			ChaserSpeed:         rr.num("chaser_speed"),
			FinalChaseVideo:     rr.str("final_chase_video"),
		}
		if rr.err != nil {
			return nil, fmt.Errorf("episodes csv: %w", rr.err)
		}
		episodes = append(episodes, e)
	}
	return episodes, nil
}

// LoadPlayersCSV reads a players CSV file
func LoadPlayersCSV(filename string) ([]models.PlayerResult, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPlayersCSV(f)
}

// LoadEpisodesCSV reads an episodes CSV file
func LoadEpisodesCSV(filename string) ([]models.EpisodeResult, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadEpisodesCSV(f)
}
