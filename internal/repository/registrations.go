package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RegistrationsRepository persists the recorded outcome of each registration
// saga so an external reconciliation job can find accounts left without a
// profile by a partial failure.
type RegistrationsRepository interface {
	RecordAttempt(ctx context.Context, email, role, state string, steps any) error
}

// PGXRegistrationsRepository implements RegistrationsRepository using pgx.
type PGXRegistrationsRepository struct {
	pool pgxPool
}

// NewPGXRegistrationsRepository wires a pgx backed repository.
func NewPGXRegistrationsRepository(pool *pgxpool.Pool) *PGXRegistrationsRepository {
	return &PGXRegistrationsRepository{pool: pool}
}

// RecordAttempt stores one saga run with its per-step outcomes.
func (r *PGXRegistrationsRepository) RecordAttempt(ctx context.Context, email, role, state string, steps any) error {
	stepsJSON, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("marshal registration steps: %w", err)
	}
	if steps == nil {
		stepsJSON = []byte("[]")
	}

	_, err = r.pool.Exec(ctx, `
        INSERT INTO registration_attempts (email, role, state, steps)
        VALUES ($1, $2, $3, $4::jsonb)
    `, email, role, state, string(stepsJSON))
	if err != nil {
		return fmt.Errorf("insert registration attempt: %w", err)
	}
	return nil
}
