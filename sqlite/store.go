// Package sqlite stores a pension ledger in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/pension"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store is a pension.Store backed by the ledger_rows table. Slots are row
// ids, the window ends with two blank slots after the last row.
type Store struct {
	db *sql.DB
}

var _ pension.Store = (*Store)(nil)

// Open opens sqlite with sensible defaults and applies the migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot migrate %q: %w", path, err)
	}
	return &Store{db: db}, nil
}

// runMigrations applies all up migrations.
func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	// m.Close would close db too.
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Window implements pension.Store.
func (s *Store) Window(ctx context.Context, size int) ([]pension.Slot, error) {
	const query = `SELECT slot, time, date, value, change, payment, total_payments, total_gain, rate_of_return
	FROM ledger_rows ORDER BY slot DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, max(size-2, 1))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recorded []pension.Slot
	for rows.Next() {
		var slot pension.Slot
		r := &slot.Row
		if err := rows.Scan(&slot.Index, &r.Time, &r.Date, &r.Value, &r.Change, &r.IsPayment,
			&r.TotalContributions, &r.TotalGain, &r.RateOfReturn); err != nil {
			return nil, err
		}
		recorded = append(recorded, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// newest first from the query.
	for i, j := 0, len(recorded)-1; i < j; i, j = i+1, j-1 {
		recorded[i], recorded[j] = recorded[j], recorded[i]
	}
	return pension.TailWindow(recorded, size), nil
}

// Write implements pension.Store. All the writes are applied in a single
// transaction.
func (s *Store) Write(ctx context.Context, writes []pension.Write) (err error) {
	const query = `INSERT INTO ledger_rows (slot, time, date, value, change, payment, total_payments, total_gain, rate_of_return)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(slot) DO UPDATE SET time = excluded.time, date = excluded.date, value = excluded.value,
		change = excluded.change, payment = excluded.payment, total_payments = excluded.total_payments,
		total_gain = excluded.total_gain, rate_of_return = excluded.rate_of_return`

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, w := range writes {
		r := w.Row
		if _, err = tx.ExecContext(ctx, query, w.Index, r.Time, r.Date, r.Value, r.Change, r.IsPayment,
			r.TotalContributions, r.TotalGain, r.RateOfReturn); err != nil {
			return fmt.Errorf("cannot write slot %d: %w", w.Index, err)
		}
	}
	return tx.Commit()
}
