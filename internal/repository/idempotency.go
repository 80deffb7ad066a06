package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrKeyNotFound indicates no stored response exists inside the dedup window.
var ErrKeyNotFound = errors.New("idempotency key not found")

// StoredResponse is a previously returned response replayed on duplicate
// submits of the same idempotency key.
type StoredResponse struct {
	RequestHash string
	StatusCode  int
	Body        []byte
}

// IdempotencyRepository stores responses for write endpoints keyed by a
// client-generated idempotency token with a short TTL dedup window.
type IdempotencyRepository interface {
	Get(ctx context.Context, key string, notBefore time.Time) (*StoredResponse, error)
	Put(ctx context.Context, key, requestHash string, statusCode int, body []byte) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// PGXIdempotencyRepository implements IdempotencyRepository using pgx.
type PGXIdempotencyRepository struct {
	pool pgxPool
}

// NewPGXIdempotencyRepository wires a pgx backed repository.
func NewPGXIdempotencyRepository(pool *pgxpool.Pool) *PGXIdempotencyRepository {
	return &PGXIdempotencyRepository{pool: pool}
}

// Get returns the stored response for a key created after notBefore.
func (r *PGXIdempotencyRepository) Get(ctx context.Context, key string, notBefore time.Time) (*StoredResponse, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT request_hash, status_code, response_body
        FROM idempotency_keys
        WHERE key = $1 AND created_at > $2
    `, key, notBefore)

	var stored StoredResponse
	if err := row.Scan(&stored.RequestHash, &stored.StatusCode, &stored.Body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("query idempotency key: %w", err)
	}
	return &stored, nil
}

// Put stores the response for a key. The first writer wins; replays keep the
// original response.
func (r *PGXIdempotencyRepository) Put(ctx context.Context, key, requestHash string, statusCode int, body []byte) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO idempotency_keys (key, request_hash, status_code, response_body)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (key) DO NOTHING
    `, key, requestHash, statusCode, body)
	if err != nil {
		return fmt.Errorf("insert idempotency key: %w", err)
	}
	return nil
}

// DeleteExpired drops keys older than the cutoff.
func (r *PGXIdempotencyRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM idempotency_keys WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired idempotency keys: %w", err)
	}
	return cmd.RowsAffected(), nil
}
