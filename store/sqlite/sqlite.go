/*
Package sqlite provides a SQLite-backed cache for provider data and the
host-managed custom holiday list.

PURPOSE:
  Holiday and rate providers are remote services. The Store sits in front of
  them as a read-through cache so a long-running host (the API server) does
  not refetch a year it has already seen, and keeps custom holidays that are
  merged into every year's list.

KEY TABLES:
  holiday_years:   which (source, year) pairs have been fetched
  holidays:        cached provider holidays per (source, year)
  custom_holidays: host-managed holidays, optionally recurring
  daily_rates:     cached daily rate per (source, year) with fetch time

CACHE RULES:
  - A year's holidays are stored only after a successful fetch; failures
    are not cached.
  - Rates expire after the configured TTL, since the current year's latest
    value moves every business day.
  - Simulations themselves are never stored.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, like the rest of the stores.

USAGE:
  store, err := sqlite.New(":memory:")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  holidays := store.CachedHolidays("brasilapi", brasilapi.New("", nil))
  rates := store.CachedRates("bcb", bcb.New("", nil), 12*time.Hour)

SEE ALSO:
  - generic/provider.go: the provider interfaces implemented here
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/yield-engine/generic"
)

// ErrNotFound is returned when a custom holiday ID does not exist.
var ErrNotFound = errors.New("not found")

// Store implements the provider caches using SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// ":memory:" databases are per-connection
	db.SetMaxOpenConns(1)

	store := &Store{db: db, now: time.Now}
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
	-- Years already fetched from a holiday source
	CREATE TABLE IF NOT EXISTS holiday_years (
		source TEXT NOT NULL,
		year INTEGER NOT NULL,
		fetched_at TEXT NOT NULL,
		PRIMARY KEY (source, year)
	);

	-- Cached provider holidays
	CREATE TABLE IF NOT EXISTS holidays (
		source TEXT NOT NULL,
		year INTEGER NOT NULL,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		UNIQUE(source, date, name)
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_source_year
		ON holidays(source, year);

	-- Host-managed holidays (merged into every source)
	CREATE TABLE IF NOT EXISTS custom_holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_custom_holidays_unique
		ON custom_holidays(date, name);

	-- Cached daily rates
	CREATE TABLE IF NOT EXISTS daily_rates (
		source TEXT NOT NULL,
		year INTEGER NOT NULL,
		rate TEXT NOT NULL,
		fetched_at TEXT NOT NULL,
		PRIMARY KEY (source, year)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HOLIDAY CACHE
// =============================================================================

// CachedHolidays wraps upstream so each (source, year) is fetched once for
// the lifetime of the database. Custom holidays are merged into the result.
func (s *Store) CachedHolidays(source string, upstream generic.HolidayProvider) generic.HolidayProvider {
	return generic.HolidayProviderFunc(func(ctx context.Context, year int) ([]generic.Holiday, error) {
		cached, ok, err := s.loadHolidayYear(ctx, source, year)
		if err != nil {
			return nil, err
		}
		if !ok {
			fetched, err := upstream.Holidays(ctx, year)
			if err != nil {
				return nil, err
			}
			if err := s.saveHolidayYear(ctx, source, year, fetched); err != nil {
				return nil, err
			}
			cached = fetched
		}

		custom, err := s.CustomHolidays(ctx, year)
		if err != nil {
			return nil, err
		}
		return mergeHolidays(cached, custom), nil
	})
}

func (s *Store) loadHolidayYear(ctx context.Context, source string, year int) ([]generic.Holiday, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM holiday_years WHERE source = ? AND year = ?", source, year).Scan(&n)
	if err != nil {
		return nil, false, fmt.Errorf("checking holiday year: %w", err)
	}
	if n == 0 {
		return nil, false, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT date, name FROM holidays WHERE source = ? AND year = ? ORDER BY date ASC, name ASC", source, year)
	if err != nil {
		return nil, false, fmt.Errorf("loading holidays: %w", err)
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		var dateStr, name string
		if err := rows.Scan(&dateStr, &name); err != nil {
			return nil, false, err
		}
		d, err := generic.ParseDate(dateStr)
		if err != nil {
			return nil, false, fmt.Errorf("stored holiday %q: %w", dateStr, err)
		}
		holidays = append(holidays, generic.Holiday{Date: d, Name: name})
	}
	return holidays, true, rows.Err()
}

func (s *Store) saveHolidayYear(ctx context.Context, source string, year int, holidays []generic.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO holidays (source, year, date, name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(source, date, name) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, h := range holidays {
		if _, err := stmt.ExecContext(ctx, source, year, h.Date.String(), h.Name); err != nil {
			return fmt.Errorf("failed to insert holiday %s: %w", h.Date, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO holiday_years (source, year, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(source, year) DO UPDATE SET fetched_at = excluded.fetched_at
	`, source, year, s.now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to record holiday year: %w", err)
	}

	return tx.Commit()
}

// CachedYears returns the years already fetched for source.
func (s *Store) CachedYears(ctx context.Context, source string) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT year FROM holiday_years WHERE source = ? ORDER BY year ASC", source)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

func mergeHolidays(a, b []generic.Holiday) []generic.Holiday {
	seen := make(map[generic.Holiday]bool, len(a)+len(b))
	out := make([]generic.Holiday, 0, len(a)+len(b))
	for _, list := range [][]generic.Holiday{a, b} {
		for _, h := range list {
			if !seen[h] {
				seen[h] = true
				out = append(out, h)
			}
		}
	}
	generic.SortHolidays(out)
	return out
}

// =============================================================================
// CUSTOM HOLIDAYS
// =============================================================================

// CustomHoliday is a host-managed holiday. Recurring holidays repeat on the
// same month/day every year.
type CustomHoliday struct {
	ID        string
	Date      generic.Date
	Name      string
	Recurring bool
	CreatedAt time.Time
}

// SaveHoliday stores a custom holiday and returns its ID. Saving the same
// (date, name) again updates the recurring flag and keeps the existing ID.
func (s *Store) SaveHoliday(ctx context.Context, h CustomHoliday) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h.ID == "" {
		h.ID = uuid.NewString()
	}

	query := `
		INSERT INTO custom_holidays (id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date, name) DO UPDATE SET
			recurring = excluded.recurring
	`

	_, err := s.db.ExecContext(ctx, query,
		h.ID,
		h.Date.String(),
		h.Name,
		h.Recurring,
		s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", err
	}

	var id string
	err = s.db.QueryRowContext(ctx,
		"SELECT id FROM custom_holidays WHERE date = ? AND name = ?", h.Date.String(), h.Name).Scan(&id)
	return id, err
}

// DeleteHoliday deletes a custom holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM custom_holidays WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCustomHolidays returns every custom holiday (for admin UI).
func (s *Store) ListCustomHolidays(ctx context.Context) ([]CustomHoliday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, name, recurring, created_at
		FROM custom_holidays
		ORDER BY date ASC, name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []CustomHoliday
	for rows.Next() {
		var h CustomHoliday
		var dateStr, createdStr string
		if err := rows.Scan(&h.ID, &dateStr, &h.Name, &h.Recurring, &createdStr); err != nil {
			return nil, err
		}
		if h.Date, err = generic.ParseDate(dateStr); err != nil {
			return nil, err
		}
		h.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// CustomHolidays returns the custom holidays that apply to year, with
// recurring entries moved into that year.
func (s *Store) CustomHolidays(ctx context.Context, year int) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT date, name, recurring
		FROM custom_holidays
		WHERE recurring = TRUE OR strftime('%Y', date) = ?
		ORDER BY date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, fmt.Sprintf("%04d", year))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		var dateStr, name string
		var recurring bool
		if err := rows.Scan(&dateStr, &name, &recurring); err != nil {
			return nil, err
		}
		d, err := generic.ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
		if recurring {
			d = generic.NewDate(year, d.Month(), d.Day())
			if !d.IsValid() {
				continue
			}
		}
		holidays = append(holidays, generic.Holiday{Date: d, Name: name})
	}
	return holidays, rows.Err()
}

// =============================================================================
// RATE CACHE
// =============================================================================

// CachedRates wraps upstream so a year's rate is reused until ttl elapses.
// ttl <= 0 caches forever. Failures are never cached.
func (s *Store) CachedRates(source string, upstream generic.RateProvider, ttl time.Duration) generic.RateProvider {
	return generic.RateProviderFunc(func(ctx context.Context, year int) (decimal.Decimal, error) {
		rate, fetchedAt, ok, err := s.loadRate(ctx, source, year)
		if err != nil {
			return decimal.Zero, err
		}
		if ok && (ttl <= 0 || s.now().Sub(fetchedAt) < ttl) {
			return rate, nil
		}

		rate, err = upstream.DailyRate(ctx, year)
		if err != nil {
			return decimal.Zero, err
		}
		if err := s.saveRate(ctx, source, year, rate); err != nil {
			return decimal.Zero, err
		}
		return rate, nil
	})
}

func (s *Store) loadRate(ctx context.Context, source string, year int) (decimal.Decimal, time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rateStr, fetchedStr string
	err := s.db.QueryRowContext(ctx,
		"SELECT rate, fetched_at FROM daily_rates WHERE source = ? AND year = ?", source, year).
		Scan(&rateStr, &fetchedStr)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, time.Time{}, false, nil
	}
	if err != nil {
		return decimal.Zero, time.Time{}, false, fmt.Errorf("loading rate: %w", err)
	}

	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return decimal.Zero, time.Time{}, false, fmt.Errorf("stored rate %q: %w", rateStr, err)
	}
	fetchedAt, _ := time.Parse(time.RFC3339, fetchedStr)
	return rate, fetchedAt, true, nil
}

func (s *Store) saveRate(ctx context.Context, source string, year int, rate decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_rates (source, year, rate, fetched_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(source, year) DO UPDATE SET
			rate = excluded.rate,
			fetched_at = excluded.fetched_at
	`, source, year, rate.String(), s.now().UTC().Format(time.RFC3339))
	return err
}

// Reset removes cached provider data. Custom holidays are kept.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"holidays", "holiday_years", "daily_rates"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
