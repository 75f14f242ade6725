package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	id "mintgate/pkg/domain"
	"mintgate/pkg/platform/sentinel"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint hits.
const pgUniqueViolation = "23505"

// PostgresStore is the durable registry backend. CreateBatch runs inside one
// transaction so a duplicate id aborts the whole registration.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a registry over a pgx connection pool.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the tokens table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS mint_tokens (
			id         BIGINT PRIMARY KEY,
			owner      TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS mint_tokens_owner_idx ON mint_tokens (owner);
	`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure registry schema: %w", err)
	}
	return nil
}

// CreateBatch registers every id for owner in one transaction. A unique
// violation on any id rolls the whole batch back and surfaces
// sentinel.ErrDuplicate.
func (s *PostgresStore) CreateBatch(ctx context.Context, owner id.Address, ids []id.TokenID) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin registry tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, tokenID := range ids {
		batch.Queue(`INSERT INTO mint_tokens (id, owner) VALUES ($1, $2)`, int64(tokenID), owner.String())
	}

	results := tx.SendBatch(ctx, batch)
	for range ids {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return sentinel.ErrDuplicate
			}
			return fmt.Errorf("insert token: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close registry batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit registry tx: %w", err)
	}
	return nil
}

// OwnerOf returns the holder of a record.
func (s *PostgresStore) OwnerOf(ctx context.Context, tokenID id.TokenID) (id.Address, error) {
	var ownerStr string
	err := s.pool.QueryRow(ctx, `SELECT owner FROM mint_tokens WHERE id = $1`, int64(tokenID)).Scan(&ownerStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return id.Address{}, sentinel.ErrNotFound
	}
	if err != nil {
		return id.Address{}, fmt.Errorf("query token owner: %w", err)
	}

	owner, err := id.ParseAddress(ownerStr)
	if err != nil {
		return id.Address{}, fmt.Errorf("stored owner is invalid: %w", err)
	}
	return owner, nil
}

// BalanceOf counts records held by owner.
func (s *PostgresStore) BalanceOf(ctx context.Context, owner id.Address) (uint64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM mint_tokens WHERE owner = $1`, owner.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count tokens by owner: %w", err)
	}
	return uint64(count), nil
}

// TokensOwnedBy lists owner's record ids in ascending order.
func (s *PostgresStore) TokensOwnedBy(ctx context.Context, owner id.Address) ([]id.TokenID, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM mint_tokens WHERE owner = $1 ORDER BY id ASC`, owner.String())
	if err != nil {
		return nil, fmt.Errorf("query tokens by owner: %w", err)
	}
	defer rows.Close()

	var tokens []id.TokenID
	for rows.Next() {
		var tokenID int64
		if err := rows.Scan(&tokenID); err != nil {
			return nil, fmt.Errorf("scan token id: %w", err)
		}
		tokens = append(tokens, id.TokenID(tokenID))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tokens: %w", err)
	}
	return tokens, nil
}

// Count returns the number of registered records.
func (s *PostgresStore) Count(ctx context.Context) (uint64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM mint_tokens`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tokens: %w", err)
	}
	return uint64(count), nil
}
