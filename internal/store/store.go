// Package store handles the SQLite copy of a purchase dataset.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/agenet/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for purchase records.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// OpenReadOnly opens an existing database without creating or migrating it.
func OpenReadOnly(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	uriPath := filepath.ToSlash(abs)
	if !strings.HasPrefix(uriPath, "/") {
		uriPath = "/" + uriPath
	}
	dsn := (&url.URL{Scheme: "file", Path: uriPath, RawQuery: "mode=ro"}).String()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on ping failure.
			_ = cerr
		}
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS purchases (
			id INTEGER PRIMARY KEY,
			customer_id TEXT NOT NULL,
			category TEXT NOT NULL,
			item TEXT NOT NULL,
			age INTEGER,
			gender TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			season TEXT NOT NULL,
			amount REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_item ON purchases(item);`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_category ON purchases(category);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceRecords swaps the stored dataset for records in one transaction.
func (s *Store) ReplaceRecords(ctx context.Context, records []model.Record) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM purchases`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO purchases (id, customer_id, category, item, age, gender, payment_method, season, amount)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, r := range records {
		var age sql.NullInt64
		if r.HasAge {
			age = sql.NullInt64{Int64: int64(r.Age), Valid: true}
		}
		if _, err = stmt.ExecContext(ctx, i+1, r.CustomerID, r.Category, r.Item, age, string(r.Gender), r.PaymentMethod, r.Season, r.Amount); err != nil {
			return fmt.Errorf("insert record %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}

// ListRecords returns every stored record in insertion order.
func (s *Store) ListRecords(ctx context.Context) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT customer_id, category, item, age, gender, payment_method, season, amount
		 FROM purchases
		 ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.Record
	for rows.Next() {
		var rec model.Record
		var age sql.NullInt64
		var gender string
		if err := rows.Scan(&rec.CustomerID, &rec.Category, &rec.Item, &age, &gender, &rec.PaymentMethod, &rec.Season, &rec.Amount); err != nil {
			return nil, err
		}
		g, ok := model.ParseGender(gender)
		if !ok {
			return nil, fmt.Errorf("invalid gender %q in stored record", gender)
		}
		rec.Gender = g
		if age.Valid {
			rec.Age = int(age.Int64)
			rec.HasAge = true
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountRecords returns the number of stored records.
func (s *Store) CountRecords(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM purchases`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
