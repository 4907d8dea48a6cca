// Package postgres stores a pension ledger in a PostgreSQL database.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/etnz/pension"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store is a pension.Store backed by the ledger_rows table.
type Store struct {
	db *sql.DB
}

var _ pension.Store = (*Store)(nil)

// Open connects to dsn and applies the migrations.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot migrate ledger database: %w", err)
	}
	return &Store{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return err
	}
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
	FROM (SELECT * FROM ledger_rows ORDER BY slot DESC LIMIT $1) AS tail ORDER BY slot`

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
	return pension.TailWindow(recorded, size), nil
}

// Write implements pension.Store in a single transaction.
func (s *Store) Write(ctx context.Context, writes []pension.Write) (err error) {
	const query = `INSERT INTO ledger_rows (slot, time, date, value, change, payment, total_payments, total_gain, rate_of_return)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (slot) DO UPDATE SET time = EXCLUDED.time, date = EXCLUDED.date, value = EXCLUDED.value,
		change = EXCLUDED.change, payment = EXCLUDED.payment, total_payments = EXCLUDED.total_payments,
		total_gain = EXCLUDED.total_gain, rate_of_return = EXCLUDED.rate_of_return`

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	for _, w := range writes {
		r := w.Row
		if _, err = dbTx.ExecContext(ctx, query, w.Index, r.Time, r.Date, r.Value, r.Change, r.IsPayment,
			r.TotalContributions, r.TotalGain, r.RateOfReturn); err != nil {
			return fmt.Errorf("cannot write slot %d: %w", w.Index, err)
		}
	}
	return dbTx.Commit()
}
