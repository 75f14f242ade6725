package allowlist

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	id "mintgate/pkg/domain"
)

// PostgresStore persists allow-list membership in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed allow-list store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the allow-list table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS mint_allowlist (
    address    TEXT PRIMARY KEY,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure allowlist schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Add(ctx context.Context, address id.Address) error {
	const query = `
INSERT INTO mint_allowlist (address)
VALUES ($1)
ON CONFLICT (address) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, address.String()); err != nil {
		return fmt.Errorf("add allowlist member: %w", err)
	}
	return nil
}

func (s *PostgresStore) AddMany(ctx context.Context, addresses []id.Address) error {
	if len(addresses) == 0 {
		return nil
	}
	values := make([]string, 0, len(addresses))
	for _, address := range addresses {
		values = append(values, address.String())
	}
	// Single statement keeps the batch all-or-nothing.
	const query = `
INSERT INTO mint_allowlist (address)
SELECT unnest($1::text[])
ON CONFLICT (address) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, pq.Array(values)); err != nil {
		return fmt.Errorf("add allowlist members: %w", err)
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, address id.Address) error {
	const query = `DELETE FROM mint_allowlist WHERE address = $1`
	if _, err := s.db.ExecContext(ctx, query, address.String()); err != nil {
		return fmt.Errorf("remove allowlist member: %w", err)
	}
	return nil
}

func (s *PostgresStore) Contains(ctx context.Context, address id.Address) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM mint_allowlist WHERE address = $1)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, address.String()).Scan(&exists); err != nil {
		return false, fmt.Errorf("check allowlist member: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]id.Address, error) {
	const query = `SELECT address FROM mint_allowlist ORDER BY address ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list allowlist members: %w", err)
	}
	defer rows.Close()

	var addresses []id.Address
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan allowlist member: %w", err)
		}
		address, err := id.ParseAddress(value)
		if err != nil {
			return nil, fmt.Errorf("corrupt allowlist member %q: %w", value, err)
		}
		addresses = append(addresses, address)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate allowlist members: %w", err)
	}
	return addresses, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM mint_allowlist`
	var count int
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count allowlist members: %w", err)
	}
	return count, nil
}
