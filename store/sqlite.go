package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gagliardetto/solana-go"
	_ "modernc.org/sqlite"

	"github.com/solcrank/feerouter-go/distributor"
)

// SQLite persists Policy and CycleProgress records in a SQLite
// database, one row per vault. It stands in for the host ledger's
// single-writer-per-record guarantee by serializing all writes.
type SQLite struct {
	db *sql.DB
	mu sync.Mutex
}

func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS policy (
	vault              TEXT PRIMARY KEY,
	y0                 INTEGER NOT NULL,
	investor_share_bps INTEGER NOT NULL,
	daily_cap          INTEGER,
	min_payout         INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS progress (
	vault               TEXT PRIMARY KEY,
	last_cycle_start_ts INTEGER NOT NULL,
	cycle_day_start_ts  INTEGER NOT NULL,
	claimed             INTEGER NOT NULL,
	intended            INTEGER NOT NULL,
	creator_share       INTEGER NOT NULL,
	distributed         INTEGER NOT NULL,
	carry_over          INTEGER NOT NULL,
	page_cursor         INTEGER NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) LoadPolicy(ctx context.Context, vault solana.PublicKey) (*distributor.Policy, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT y0, investor_share_bps, daily_cap, min_payout FROM policy WHERE vault = ?`,
		vault.String())

	pol := distributor.Policy{Vault: vault}
	var dailyCap sql.NullInt64
	err := row.Scan(&pol.Y0, &pol.InvestorShareBps, &dailyCap, &pol.MinPayout)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, distributor.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}
	if dailyCap.Valid {
		v := uint64(dailyCap.Int64)
		pol.DailyCap = &v
	}
	return &pol, nil
}

func (s *SQLite) SavePolicy(ctx context.Context, pol *distributor.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var dailyCap any
	if pol.DailyCap != nil {
		dailyCap = int64(*pol.DailyCap)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO policy (vault, y0, investor_share_bps, daily_cap, min_payout) VALUES (?, ?, ?, ?, ?)`,
		pol.Vault.String(), int64(pol.Y0), pol.InvestorShareBps, dailyCap, int64(pol.MinPayout))
	if err != nil {
		// Policies are write-once: a duplicate key means it already exists.
		if isUniqueViolation(err) {
			return distributor.ErrPolicyExists
		}
		return fmt.Errorf("save policy: %w", err)
	}
	return nil
}

func (s *SQLite) LoadProgress(ctx context.Context, vault solana.PublicKey) (*distributor.CycleProgress, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT last_cycle_start_ts, cycle_day_start_ts, claimed, intended, creator_share, distributed, carry_over, page_cursor
		 FROM progress WHERE vault = ?`,
		vault.String())

	prog := distributor.CycleProgress{Vault: vault}
	err := row.Scan(
		&prog.LastCycleStartTS,
		&prog.CycleDayStartTS,
		&prog.ClaimedThisCycle,
		&prog.InvestorIntendedThisCycle,
		&prog.CreatorShareThisCycle,
		&prog.ActualDistributedThisCycle,
		&prog.CarryOver,
		&prog.PageCursor,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, distributor.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return &prog, nil
}

func (s *SQLite) SaveProgress(ctx context.Context, prog *distributor.CycleProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO progress (vault, last_cycle_start_ts, cycle_day_start_ts, claimed, intended, creator_share, distributed, carry_over, page_cursor)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(vault) DO UPDATE SET
			last_cycle_start_ts = excluded.last_cycle_start_ts,
			cycle_day_start_ts  = excluded.cycle_day_start_ts,
			claimed             = excluded.claimed,
			intended            = excluded.intended,
			creator_share       = excluded.creator_share,
			distributed         = excluded.distributed,
			carry_over          = excluded.carry_over,
			page_cursor         = excluded.page_cursor`,
		prog.Vault.String(),
		prog.LastCycleStartTS,
		prog.CycleDayStartTS,
		int64(prog.ClaimedThisCycle),
		int64(prog.InvestorIntendedThisCycle),
		int64(prog.CreatorShareThisCycle),
		int64(prog.ActualDistributedThisCycle),
		int64(prog.CarryOver),
		int64(prog.PageCursor),
	)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	// modernc.org/sqlite reports constraint failures in the message;
	// there is no exported error type to match on.
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}
