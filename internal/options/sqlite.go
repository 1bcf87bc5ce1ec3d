package options

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS options (
	option_name  TEXT PRIMARY KEY,
	option_value TEXT NOT NULL,
	updated_at   TIMESTAMP NOT NULL
)`

// SQLiteStore keeps one row per option record with the value JSON encoded
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at dsn and prepares the schema
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// sqlite serialises writers; a single connection also keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create options table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get loads and decodes the named record
func (s *SQLiteStore) Get(ctx context.Context, name string) (Record, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT option_value FROM options WHERE option_name = ?`, name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read option %s: %w", name, err)
	}

	record := Record{}
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("failed to decode option %s: %w", name, err)
	}
	// a stored JSON null decodes to a nil map
	if record == nil {
		record = Record{}
	}
	return record, nil
}

// Update upserts the named record
func (s *SQLiteStore) Update(ctx context.Context, name string, record Record) error {
	if name == "" {
		return ErrEmptyName
	}
	if record == nil {
		record = Record{}
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode option %s: %w", name, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO options (option_name, option_value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(option_name) DO UPDATE SET
			option_value = excluded.option_value,
			updated_at = excluded.updated_at`,
		name, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write option %s: %w", name, err)
	}
	return nil
}

// Delete removes the named record
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM options WHERE option_name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete option %s: %w", name, err)
	}
	return nil
}

// Names lists the stored record names in sorted order
func (s *SQLiteStore) Names(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT option_name FROM options ORDER BY option_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list options: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan option name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Ping checks the database connection
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
