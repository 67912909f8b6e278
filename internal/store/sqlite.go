package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/myusername/chase-results-scraper/pkg/models"
)

const dateLayout = "2006-01-02"

// Schema creates the players and episodes tables
const Schema = `
create table if not exists players (
	series integer not null,
	episode integer not null,
	date text not null,
	player_number integer not null,
	name text not null,
	cash_builder real,
	chaser text not null,
	lower_offer real,
	higher_offer real,
	chosen_offer integer not null check (chosen_offer in (-1, 0, 1)),
	hth_winner text not null,
	hth_margin integer not null,
	final_chase_correct integer,
	final_chase_winner text not null,
	final_chase_margin integer not null,
	amount_won real
);

create index if not exists players_episode on players(series, episode);

create table if not exists episodes (
	series integer not null,
	episode integer not null,
	date text not null,
	team text not null,
	chaser text not null,
	players_in_final_chase integer not null,
	prize_fund real,
	target integer not null,
	winner text not null,
	winner_margin integer not null,
	pushbacks_attempted integer not null,
	pushbacks_completed integer not null,
	chaser_accuracy integer not null,
	chaser_speed real not null,
	final_chase_video text not null,
	primary key (series, episode)
);
`

// SQLite writes results into a SQLite database
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one connection so ":memory:" databases are shared across calls
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) Name() string { return "sqlite" }

func (s *SQLite) Close() error {
	return s.db.Close()
}

func nullMoney(m models.Money) sql.NullFloat64 {
	return sql.NullFloat64{Float64: m.Pounds, Valid: m.Valid}
}

func nullInt(n models.NullInt) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n.Value), Valid: n.Valid}
}

// WritePlayers replaces the contents of the players table
func (s *SQLite) WritePlayers(ctx context.Context, players []models.PlayerResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "delete from players"); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `insert into players (
		series, episode, date, player_number, name, cash_builder, chaser,
		lower_offer, higher_offer, chosen_offer, hth_winner, hth_margin,
		final_chase_correct, final_chase_winner, final_chase_margin, amount_won
	) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range players {
		_, err := stmt.ExecContext(ctx,
			p.Series, p.Episode, p.Date.Format(dateLayout), p.PlayerNumber, p.Name,
			nullMoney(p.CashBuilder), p.Chaser, nullMoney(p.LowerOffer), nullMoney(p.HigherOffer),
			p.ChosenOffer, string(p.HTHWinner), p.HTHMargin, nullInt(p.FinalChaseCorrect),
			string(p.FinalChaseWinner), p.FinalChaseMargin, nullMoney(p.AmountWon),
		)
		if err != nil {
			return fmt.Errorf("insert player %s #%d: %w", p.Key(), p.PlayerNumber, err)
		}
	}
	return tx.Commit()
}

// WriteEpisodes replaces the contents of the episodes table
func (s *SQLite) WriteEpisodes(ctx context.Context, episodes []models.EpisodeResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "delete from episodes"); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `insert into episodes (
		series, episode, date, team, chaser, players_in_final_chase, prize_fund,
		target, winner, winner_margin, pushbacks_attempted, pushbacks_completed,
		chaser_accuracy, chaser_speed, final_chase_video
	) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range episodes {
		_, err := stmt.ExecContext(ctx,
			e.Series, e.Episode, e.Date.Format(dateLayout), e.Team, e.Chaser,
			e.PlayersInFinalChase, nullMoney(e.PrizeFund), e.Target, string(e.Winner),
			e.WinnerMargin, e.PushbacksAttempted, e.PushbacksCompleted,
			e.ChaserAccuracy, e.ChaserSpeed, e.FinalChaseVideo,
		)
		if err != nil {
			return fmt.Errorf("insert episode %s: %w", e.Key(), err)
		}
	}
	return tx.Commit()
}

func money(v sql.NullFloat64) models.Money {
	return models.Money{Pounds: v.Float64, Valid: v.Valid}
}

// Players reads every player row in series, episode, player order
func (s *SQLite) Players(ctx context.Context) ([]models.PlayerResult, error) {
	rows, err := s.db.QueryContext(ctx, `select
		series, episode, date, player_number, name, cash_builder, chaser,
		lower_offer, higher_offer, chosen_offer, hth_winner, hth_margin,
		final_chase_correct, final_chase_winner, final_chase_margin, amount_won
	from players order by series, episode, player_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PlayerResult
	for rows.Next() {
		var (
			p                        models.PlayerResult
			date, hth, fcWinner      string
			cash, lower, higher, won sql.NullFloat64
			correct                  sql.NullInt64
		)
		err := rows.Scan(
			&p.Series, &p.Episode, &date, &p.PlayerNumber, &p.Name, &cash, &p.Chaser,
			&lower, &higher, &p.ChosenOffer, &hth, &p.HTHMargin,
			&correct, &fcWinner, &p.FinalChaseMargin, &won,
		)
		if err != nil {
			return nil, err
		}
		if p.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, err
		}
		p.CashBuilder, p.LowerOffer, p.HigherOffer, p.AmountWon = money(cash), money(lower), money(higher), money(won)
		p.HTHWinner, p.FinalChaseWinner = models.Personnel(hth), models.Personnel(fcWinner)
		if correct.Valid {
			p.FinalChaseCorrect = models.Int(int(correct.Int64))
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Episodes reads every episode row in series, episode order
func (s *SQLite) Episodes(ctx context.Context) ([]models.EpisodeResult, error) {
	rows, err := s.db.QueryContext(ctx, `select
		series, episode, date, team, chaser, players_in_final_chase, prize_fund,
		target, winner, winner_margin, pushbacks_attempted, pushbacks_completed,
		chaser_accuracy, chaser_speed, final_chase_video
	from episodes order by series, episode`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.EpisodeResult
	for rows.Next() {
		var (
			e            models.EpisodeResult
			date, winner string
			prize        sql.NullFloat64
		)
		err := rows.Scan(
			&e.Series, &e.Episode, &date, &e.Team, &e.Chaser, &e.PlayersInFinalChase, &prize,
			&e.Target, &winner, &e.WinnerMargin, &e.PushbacksAttempted, &e.PushbacksCompleted,
			&e.ChaserAccuracy, &e.ChaserSpeed, &e.FinalChaseVideo,
		)
		if err != nil {
			return nil, err
		}
		if e.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, err
		}
		e.PrizeFund = money(prize)
		e.Winner = models.Personnel(winner)
		out = append(out, e)
	}
	return out, rows.Err()
}
