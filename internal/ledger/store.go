// Package ledger keeps a SQLite history of batch runs. Secrets are never
// stored; each outcome carries only a SHA-256 fingerprint of its secret.
package ledger

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/piyushdaiya/seed-checker/internal/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	started_at DATETIME NOT NULL,
	finished_at DATETIME,
	seeds INTEGER NOT NULL DEFAULT 0,
	keys INTEGER NOT NULL DEFAULT 0,
	hits INTEGER NOT NULL DEFAULT 0,
	empty INTEGER NOT NULL DEFAULT 0,
	invalid INTEGER NOT NULL DEFAULT 0,
	errors INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS outcomes (
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	kind TEXT NOT NULL,
	source TEXT NOT NULL,
	address TEXT,
	balance_raw TEXT,
	balance TEXT,
	symbol TEXT,
	failure TEXT NOT NULL,
	fingerprint TEXT NOT NULL,
	recorded_at DATETIME NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE INDEX IF NOT EXISTS idx_outcomes_address ON outcomes(address COLLATE NOCASE);
`

// Record is one stored outcome.
type Record struct {
	RunID       string    `json:"run_id"`
	Seq         int       `json:"seq"`
	Kind        string    `json:"kind"`
	Source      string    `json:"source"`
	Address     string    `json:"address,omitempty"`
	BalanceRaw  string    `json:"balance_raw,omitempty"`
	Balance     string    `json:"balance,omitempty"`
	Symbol      string    `json:"symbol,omitempty"`
	Failure     string    `json:"failure"`
	Fingerprint string    `json:"fingerprint"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// Store wraps the ledger database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping ledger: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create ledger tables: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) BeginRun(ctx context.Context, runID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO runs(run_id, started_at) VALUES(?, ?)", runID, at.UTC())
	if err != nil {
		return fmt.Errorf("begin run %s: %w", runID, err)
	}
	return nil
}

func (s *Store) Record(ctx context.Context, runID string, seq int, o core.Outcome) error {
	var raw, display string
	if o.Balance != nil && o.Balance.Raw != nil {
		raw = o.Balance.Raw.String()
		display = o.Balance.String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO outcomes(run_id, seq, kind, source, address, balance_raw, balance, symbol, failure, fingerprint, recorded_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, seq, string(o.Kind), string(o.Source), nullIfEmpty(o.Address), nullIfEmpty(raw), nullIfEmpty(display),
		nullIfEmpty(o.Symbol), o.Failure.String(), Fingerprint(o.Secret), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record outcome %s/%d: %w", runID, seq, err)
	}
	return nil
}

func (s *Store) FinishRun(ctx context.Context, runID string, t core.Totals, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at=?, seeds=?, keys=?, hits=?, empty=?, invalid=?, errors=?
		WHERE run_id=?
	`, at.UTC(), t.Seeds, t.Keys, t.Hits, t.Empty, t.Invalid, t.Errors, runID)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", runID, err)
	}
	return nil
}

// Latest returns the most recent outcome for address, or nil if the
// address was never recorded.
func (s *Store) Latest(ctx context.Context, address string) (*Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM outcomes
		WHERE address = ? COLLATE NOCASE
		ORDER BY recorded_at DESC, seq DESC
		LIMIT 1
	`, strings.TrimSpace(address))
	if err != nil {
		return nil, fmt.Errorf("query address: %w", err)
	}
	recs, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

// Hits lists HIT outcomes, newest first. limit <= 0 means no limit.
func (s *Store) Hits(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM outcomes
		WHERE kind = ?
		ORDER BY recorded_at DESC, seq DESC
		LIMIT ?
	`, string(core.KindHit), limit)
	if err != nil {
		return nil, fmt.Errorf("query hits: %w", err)
	}
	return scanRecords(rows)
}

// RunTotals returns the stored totals of one run.
func (s *Store) RunTotals(ctx context.Context, runID string) (core.Totals, bool, error) {
	var t core.Totals
	err := s.db.QueryRowContext(ctx,
		"SELECT seeds, keys, hits, empty, invalid, errors FROM runs WHERE run_id = ?", runID).
		Scan(&t.Seeds, &t.Keys, &t.Hits, &t.Empty, &t.Invalid, &t.Errors)
	if errors.Is(err, sql.ErrNoRows) {
		return t, false, nil
	}
	if err != nil {
		return t, false, fmt.Errorf("query run %s: %w", runID, err)
	}
	return t, true, nil
}

const recordColumns = `run_id, seq, kind, source, COALESCE(address, ''), COALESCE(balance_raw, ''),
	COALESCE(balance, ''), COALESCE(symbol, ''), failure, fingerprint, recorded_at`

func scanRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.RunID, &r.Seq, &r.Kind, &r.Source, &r.Address, &r.BalanceRaw,
			&r.Balance, &r.Symbol, &r.Failure, &r.Fingerprint, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Fingerprint is the hex SHA-256 of the trimmed secret.
func Fingerprint(secret string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(secret)))
	return hex.EncodeToString(sum[:])
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}
