package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"banca/internal/core"
	"banca/internal/ledger"

	_ "modernc.org/sqlite"
)

var _ ledger.Store = (*SQLiteRepository)(nil)

const wagerColumns = `id, bet_category, side_a, side_b, selected_side, stake_amount, odds,
	handicap_line, outcome, placed_at, game_title, event_name, tier, settled_return`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows a single writer; serialize through one connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// List returns every wager in insertion order.
func (r *SQLiteRepository) List(ctx context.Context) ([]core.Wager, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+wagerColumns+` FROM wagers ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query wagers: %w", err)
	}
	defer rows.Close()

	var out []core.Wager
	for rows.Next() {
		w, err := scanWager(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wagers: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (core.Wager, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+wagerColumns+` FROM wagers WHERE id = ?`, id)
	w, err := scanWager(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Wager{}, core.ErrNotFound
	}
	return w, err
}

func (r *SQLiteRepository) Create(ctx context.Context, w core.Wager) error {
	if err := insertWager(ctx, r.db, w); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Wager saved to SQLite", "id", w.ID, "event", w.EventName, "stake", w.Stake)
	return nil
}

// Update persists a settlement. Only outcome and settled return are written.
func (r *SQLiteRepository) Update(ctx context.Context, w core.Wager) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE wagers SET outcome = ?, settled_return = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(w.Outcome), w.SettledReturn, w.ID)
	if err != nil {
		return fmt.Errorf("update wager %s: %w", w.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update wager %s: %w", w.ID, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Replace swaps the whole collection in one transaction.
func (r *SQLiteRepository) Replace(ctx context.Context, wagers []core.Wager) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM wagers`); err != nil {
			return fmt.Errorf("clear wagers: %w", err)
		}
		for _, w := range wagers {
			if err := insertWager(ctx, tx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM wagers`); err != nil {
		return fmt.Errorf("clear wagers: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type scanner interface {
	Scan(dest ...any) error
}

func insertWager(ctx context.Context, db execer, w core.Wager) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO wagers (`+wagerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, string(w.Category), w.SideA, w.SideB, string(w.SelectedSide), w.Stake, w.Odds,
		w.HandicapLine, string(w.Outcome), w.Timestamp.UTC().Format(time.RFC3339Nano),
		w.GameTitle, w.EventName, string(w.Tier), w.SettledReturn)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert wager %s: %w", w.ID, core.ErrDuplicateID)
		}
		return fmt.Errorf("insert wager %s: %w", w.ID, err)
	}
	return nil
}

func scanWager(s scanner) (core.Wager, error) {
	var (
		w                                     core.Wager
		category, side, outcome, tier, placed string
	)
	err := s.Scan(&w.ID, &category, &w.SideA, &w.SideB, &side, &w.Stake, &w.Odds,
		&w.HandicapLine, &outcome, &placed, &w.GameTitle, &w.EventName, &tier, &w.SettledReturn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return w, err
		}
		return w, fmt.Errorf("scan wager: %w", err)
	}
	w.Category = core.BetCategory(category)
	w.SelectedSide = core.Side(side)
	w.Outcome = core.Outcome(outcome)
	w.Tier = core.Tier(tier)
	w.Timestamp, err = time.Parse(time.RFC3339Nano, placed)
	if err != nil {
		return w, fmt.Errorf("parse timestamp of wager %s: %w", w.ID, err)
	}
	return w, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
