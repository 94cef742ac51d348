package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// The statements below run unchanged on postgres and sqlite; placeholders
// are rebound per driver.
const createSlotTable = `
CREATE TABLE IF NOT EXISTS prospect_slots (
	key        TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const (
	selectSlot = `SELECT payload FROM prospect_slots WHERE key = ?`
	upsertSlot = `
INSERT INTO prospect_slots (key, payload, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`
)

// SQLSlot keeps each payload in one row of prospect_slots. The payload column
// is TEXT rather than JSONB so the stored bytes are exactly the ones written.
type SQLSlot struct {
	db *sqlx.DB
}

// NewSQLSlot wraps an open database. driverName selects the placeholder
// style ("postgres", "sqlite3").
func NewSQLSlot(db *sql.DB, driverName string) *SQLSlot {
	return &SQLSlot{db: sqlx.NewDb(db, driverName)}
}

// EnsureSchema creates the slot table if it does not exist.
func (s *SQLSlot) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createSlotTable); err != nil {
		return fmt.Errorf("failed to create prospect_slots: %w", err)
	}
	return nil
}

func (s *SQLSlot) Get(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload, s.db.Rebind(selectSlot), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot %q: %w", key, err)
	}
	return []byte(payload), nil
}

func (s *SQLSlot) Set(ctx context.Context, key string, data []byte) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(upsertSlot), key, string(data)); err != nil {
		return fmt.Errorf("failed to set slot %q: %w", key, err)
	}
	return nil
}

func (s *SQLSlot) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLSlot) Close() error {
	return s.db.Close()
}
