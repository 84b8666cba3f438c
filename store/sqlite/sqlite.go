/*
Package sqlite provides a SQLite-backed implementation of the payroll
storage interfaces.

PURPOSE:
  Implements payroll.Store (workers, attendance, advances) using SQLite.
  The same patterns apply to PostgreSQL - only minor dialect differences.

FULL-REPLACE CONTRACT:
  SaveWorkers and SaveAttendance replace their whole table inside a
  single database transaction (DELETE + bulk INSERT). This is what the
  reconciler's replace-by-range semantics lean on: a crash mid-save
  rolls back, it never leaves the table half-replaced.

KEY TABLES:
  workers:     name-keyed directory (name, function, crew, rates)
  attendance:  one row per (date, worker), UNIQUE enforced
  advances:    append-only payment log

DECIMALS:
  Rates, hours and amounts are stored as TEXT and parsed with
  shopspring/decimal, so no precision is lost through float columns.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers
  don't block, single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - payroll/store.go: Interface definitions
  - store/flatfile: Legacy delimited-file implementation
  - payroll/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

// Store implements payroll.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ payroll.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Worker directory (name is the identifier)
	CREATE TABLE IF NOT EXISTS workers (
		name TEXT PRIMARY KEY,
		function TEXT NOT NULL DEFAULT '',
		crew TEXT NOT NULL,
		regular_rate TEXT NOT NULL,
		overtime_rate TEXT NOT NULL
	);

	-- Daily attendance: at most one row per (date, worker)
	CREATE TABLE IF NOT EXISTS attendance (
		date TEXT NOT NULL,
		week INTEGER NOT NULL,
		worker TEXT NOT NULL,
		hours TEXT NOT NULL,
		UNIQUE(date, worker)
	);
	CREATE INDEX IF NOT EXISTS idx_attendance_worker_date ON attendance(worker, date);

	-- Advance payments (append-only)
	CREATE TABLE IF NOT EXISTS advances (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		worker TEXT NOT NULL,
		amount TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_advances_worker_date ON advances(worker, date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// WORKERS
// =============================================================================

func (s *Store) LoadWorkers(ctx context.Context) ([]payroll.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, function, crew, regular_rate, overtime_rate FROM workers ORDER BY name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []payroll.Worker
	for rows.Next() {
		var w payroll.Worker
		var regular, overtime string
		if err := rows.Scan(&w.Name, &w.Function, &w.Crew, &regular, &overtime); err != nil {
			return nil, err
		}
		if w.RegularRate, err = decimal.NewFromString(regular); err != nil {
			return nil, fmt.Errorf("worker %q: bad regular_rate %q: %w", w.Name, regular, err)
		}
		if w.OvertimeRate, err = decimal.NewFromString(overtime); err != nil {
			return nil, fmt.Errorf("worker %q: bad overtime_rate %q: %w", w.Name, overtime, err)
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

func (s *Store) SaveWorkers(ctx context.Context, workers []payroll.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM workers"); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO workers (name, function, crew, regular_rate, overtime_rate) VALUES (?, ?, ?, ?, ?)",
		)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, w := range workers {
			if _, err := stmt.ExecContext(ctx,
				w.Name, w.Function, w.Crew, w.RegularRate.String(), w.OvertimeRate.String(),
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func (s *Store) LoadAttendance(ctx context.Context) ([]payroll.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT date, week, worker, hours FROM attendance ORDER BY date, worker",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []payroll.AttendanceRecord
	for rows.Next() {
		var rec payroll.AttendanceRecord
		var date, hours string
		if err := rows.Scan(&date, &rec.Week, &rec.Worker, &hours); err != nil {
			return nil, err
		}
		if rec.Date, err = payroll.ParseDate(date); err != nil {
			return nil, fmt.Errorf("attendance for %q: bad date %q: %w", rec.Worker, date, err)
		}
		if rec.Hours, err = decimal.NewFromString(hours); err != nil {
			return nil, fmt.Errorf("attendance for %q on %s: bad hours %q: %w", rec.Worker, date, hours, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) SaveAttendance(ctx context.Context, records []payroll.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM attendance"); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO attendance (date, week, worker, hours) VALUES (?, ?, ?, ?)",
		)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, rec := range records {
			if _, err := stmt.ExecContext(ctx,
				rec.Date.String(), rec.Week, rec.Worker, rec.Hours.String(),
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// =============================================================================
// ADVANCES
// =============================================================================

func (s *Store) LoadAdvances(ctx context.Context) ([]payroll.AdvancePayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT date, worker, amount FROM advances ORDER BY id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var advances []payroll.AdvancePayment
	for rows.Next() {
		var adv payroll.AdvancePayment
		var date, amount string
		if err := rows.Scan(&date, &adv.Worker, &amount); err != nil {
			return nil, err
		}
		if adv.Date, err = payroll.ParseDate(date); err != nil {
			return nil, fmt.Errorf("advance for %q: bad date %q: %w", adv.Worker, date, err)
		}
		if adv.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("advance for %q on %s: bad amount %q: %w", adv.Worker, date, amount, err)
		}
		advances = append(advances, adv)
	}
	return advances, rows.Err()
}

func (s *Store) AppendAdvance(ctx context.Context, advance payroll.AdvancePayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO advances (date, worker, amount) VALUES (?, ?, ?)",
		advance.Date.String(), advance.Worker, advance.Amount.String(),
	)
	return err
}

func (s *Store) SaveAdvances(ctx context.Context, advances []payroll.AdvancePayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM advances"); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO advances (date, worker, amount) VALUES (?, ?, ?)",
		)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, adv := range advances {
			if _, err := stmt.ExecContext(ctx,
				adv.Date.String(), adv.Worker, adv.Amount.String(),
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// withTx runs fn inside a transaction, rolling back on error.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
