// Package postgres materializes the notification log for durable querying.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"mintgate/pkg/platform/events"
)

// Store implements events.Sink backed by PostgreSQL. The relay feeds it from
// the in-memory log; the log's sequence number is the primary key, so replays
// after a relay restart are idempotent.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL event store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the events table when missing. Called once at startup
// and by integration test setup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS mint_events (
			sequence   BIGINT PRIMARY KEY,
			id         UUID NOT NULL,
			kind       TEXT NOT NULL,
			category   TEXT NOT NULL,
			timestamp  TIMESTAMPTZ NOT NULL,
			address    TEXT NOT NULL DEFAULT '',
			quantity   BIGINT NOT NULL DEFAULT 0,
			first_id   BIGINT NOT NULL DEFAULT 0,
			last_id    BIGINT NOT NULL DEFAULT 0,
			amount     TEXT NOT NULL DEFAULT '',
			enabled    BOOLEAN NOT NULL DEFAULT FALSE,
			request_id TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS mint_events_address_idx ON mint_events (address);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure events schema: %w", err)
	}
	return nil
}

// Append inserts one event. Idempotent via ON CONFLICT DO NOTHING so the
// relay can safely redeliver after partial failures.
func (s *Store) Append(ctx context.Context, event events.Event) error {
	const query = `
		INSERT INTO mint_events (
			sequence, id, kind, category, timestamp,
			address, quantity, first_id, last_id, amount, enabled, request_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (sequence) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		int64(event.Sequence),
		event.ID,
		string(event.Kind),
		string(event.Category),
		event.Timestamp,
		event.Address,
		int64(event.Quantity),
		int64(event.FirstID),
		int64(event.LastID),
		event.Amount,
		event.Enabled,
		event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListRecent returns the N most recent events, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]events.Event, error) {
	const query = `
		SELECT sequence, id, kind, category, timestamp,
		       address, quantity, first_id, last_id, amount, enabled, request_id
		FROM mint_events
		ORDER BY sequence DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	return s.scanEvents(rows)
}

// ListByAddress returns events concerning the given canonical address, in
// sequence order.
func (s *Store) ListByAddress(ctx context.Context, address string) ([]events.Event, error) {
	const query = `
		SELECT sequence, id, kind, category, timestamp,
		       address, quantity, first_id, last_id, amount, enabled, request_id
		FROM mint_events
		WHERE address = $1
		ORDER BY sequence ASC
	`
	rows, err := s.db.QueryContext(ctx, query, address)
	if err != nil {
		return nil, fmt.Errorf("query events by address: %w", err)
	}
	defer rows.Close()

	return s.scanEvents(rows)
}

// Count returns the number of materialized events.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mint_events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

// scanEvents scans rows into an events.Event slice.
func (s *Store) scanEvents(rows *sql.Rows) ([]events.Event, error) {
	var result []events.Event

	for rows.Next() {
		var (
			event    events.Event
			sequence int64
			eventID  uuid.UUID
			kind     string
			category string
			quantity int64
			firstID  int64
			lastID   int64
		)
		err := rows.Scan(
			&sequence,
			&eventID,
			&kind,
			&category,
			&event.Timestamp,
			&event.Address,
			&quantity,
			&firstID,
			&lastID,
			&event.Amount,
			&event.Enabled,
			&event.RequestID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		event.Sequence = uint64(sequence)
		event.ID = eventID
		event.Kind = events.Kind(kind)
		event.Category = events.Category(category)
		event.Quantity = uint64(quantity)
		event.FirstID = uint64(firstID)
		event.LastID = uint64(lastID)
		result = append(result, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return result, nil
}
