// Package history archives completed sessions: the final match snapshot
// and the settled bet ledger, written once at session completion. This is
// a write-only record for later inspection — sessions are never resumed
// from it.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id      TEXT    NOT NULL UNIQUE,
	home_team       TEXT    NOT NULL,
	away_team       TEXT    NOT NULL,
	home_score      INTEGER NOT NULL,
	away_score      INTEGER NOT NULL,
	winner          TEXT    NOT NULL,
	initial_balance TEXT    NOT NULL,
	final_balance   TEXT    NOT NULL,
	finished_at     TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS bets (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id      TEXT    NOT NULL,
	bet_id          TEXT    NOT NULL,
	type            TEXT    NOT NULL,
	outcome         TEXT    NOT NULL,
	odds            REAL    NOT NULL,
	stake           TEXT    NOT NULL,
	won             INTEGER NOT NULL,
	payout          TEXT    NOT NULL,
	powerup_applied INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bets_session ON bets(session_id);
`

// Store persists session summaries in a local SQLite database.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Summary is the archive shape: keep it decoupled from engine internals
// so the store only depends on plain values.
type Summary struct {
	SessionID      string
	HomeTeam       string
	AwayTeam       string
	HomeScore      int
	AwayScore      int
	Winner         string
	InitialBalance string
	FinalBalance   string
	Bets           []BetRecord
}

type BetRecord struct {
	BetID          string
	Type           string
	Outcome        string
	Odds           float64
	Stake          string
	Won            bool
	Payout         string
	PowerUpApplied bool
}

// Archive writes one completed session and its settled ledger in a single
// transaction. A duplicate session ID is an error — each session archives
// exactly once.
func (s *Store) Archive(sum Summary) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO sessions (session_id, home_team, away_team, home_score, away_score,
			winner, initial_balance, final_balance, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.SessionID, sum.HomeTeam, sum.AwayTeam, sum.HomeScore, sum.AwayScore,
		sum.Winner, sum.InitialBalance, sum.FinalBalance, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for _, b := range sum.Bets {
		_, err = tx.Exec(`
			INSERT INTO bets (session_id, bet_id, type, outcome, odds, stake, won, payout, powerup_applied)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sum.SessionID, b.BetID, b.Type, b.Outcome, b.Odds, b.Stake,
			boolToInt(b.Won), b.Payout, boolToInt(b.PowerUpApplied))
		if err != nil {
			return fmt.Errorf("insert bet %s: %w", b.BetID, err)
		}
	}

	return tx.Commit()
}

// Recent returns up to n archived sessions, newest first, without their
// bet lists.
func (s *Store) Recent(n int) ([]Summary, error) {
	rows, err := s.db.Query(`
		SELECT session_id, home_team, away_team, home_score, away_score,
			winner, initial_balance, final_balance
		FROM sessions ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.SessionID, &sum.HomeTeam, &sum.AwayTeam,
			&sum.HomeScore, &sum.AwayScore, &sum.Winner,
			&sum.InitialBalance, &sum.FinalBalance); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Bets returns the archived ledger for one session in placement order.
func (s *Store) Bets(sessionID string) ([]BetRecord, error) {
	rows, err := s.db.Query(`
		SELECT bet_id, type, outcome, odds, stake, won, payout, powerup_applied
		FROM bets WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query bets: %w", err)
	}
	defer rows.Close()

	var out []BetRecord
	for rows.Next() {
		var (
			b        BetRecord
			won, pow int
		)
		if err := rows.Scan(&b.BetID, &b.Type, &b.Outcome, &b.Odds, &b.Stake,
			&won, &b.Payout, &pow); err != nil {
			return nil, fmt.Errorf("scan bet: %w", err)
		}
		b.Won = won != 0
		b.PowerUpApplied = pow != 0
		out = append(out, b)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
